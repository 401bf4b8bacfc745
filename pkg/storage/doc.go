// Package storage defines the durable-storage contract for channel, server,
// section, and membership records.
//
// The permission engine never mutates these records; it only reads them when
// the cache layer misses. Create/update/delete operations belong to the CRUD
// services, which own the corresponding cache invalidation.
//
// # Implementations
//
//   - sqlstore: database/sql implementation (PostgreSQL in production,
//     SQLite for local development)
//
// # Related Packages
//
//   - pkg/cache: read-through cache gateway built on top of Store
//   - pkg/permissions: permission resolution engine
package storage
