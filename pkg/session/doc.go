// Package session manages authenticated sessions.
//
// A session maps an opaque, server-generated id to a user id. Registries
// compose: MemoryRegistry holds the mapping, ExpiryRegistry wraps it and
// adds a creation timestamp and time-to-live, and PersistentRegistry wraps
// an ExpiryRegistry and mirrors every session into a durable RecordStore,
// which then becomes the source of truth for lookups.
//
// Registry methods never return errors. An empty string or false means
// "no session"; storage failures are logged and treated the same way.
// Expiry is evaluated lazily on lookup and expired records are never
// swept.
package session
