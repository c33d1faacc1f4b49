// Package mocks provides in-memory mock implementations of the
// store and task interfaces for tests that wire multiple components
// together, such as the HTTP handler tests. Each mock tracks calls
// and lets a test override individual methods with function fields.
package mocks
