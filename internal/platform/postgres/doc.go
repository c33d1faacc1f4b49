// Package postgres provides the PostgreSQL implementations of the
// picpost persistence interfaces: the user directory, the post store,
// and the postgres-backed task ledger.
package postgres
