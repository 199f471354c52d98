// Package storage holds what the storage adapters share: sentinel errors
// returned by every backend so callers can match them with errors.Is.
//
// The adapters themselves live next to the data they store
// (users/memory, users/postgres, session/postgres, session/redis), and
// the PostgreSQL connection pool and schema migrations are provided by
// the storage/postgres subpackage.
package storage
