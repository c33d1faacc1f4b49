// Package store defines the persistence interfaces of the picpost
// service (user directory, post store, image blob store) together
// with shared database plumbing: the DBTX abstraction, transaction
// helpers, and the store error taxonomy. Concrete implementations
// live under internal/platform.
package store
