// Package cache provides the Redis-backed entity cache for the permission
// resolution engine.
//
// # Overview
//
// Channel, user, server, and section records are mirrored into Redis hashes
// and read through a Gateway that repopulates entries from durable storage on
// miss. The cache is never the source of truth: entries only mirror the
// backing store, and concurrent repopulations are idempotent overwrites of
// the same authoritative value, so no locking is required.
//
// Key layout:
//
//	channel:<id>  kind, owner, members (csv), server, section, permissions (JSON)
//	user:<id>     <serverID>.roles (csv role ids)
//	server:<id>   id, owner, roles.<roleID> (csv permissions)
//	section:<id>  permissions (JSON)
//
// # Atomic Multi-Entity Fetch
//
// Permission resolution needs a consistent snapshot of up to four related
// records. Gateway.FetchSnapshot runs a single server-side Lua script that
// reads the channel, the user, and the channel's declared server and section
// in one round trip.
//
// # Related Packages
//
//   - pkg/storage: durable-storage contract backing the read-through path
//   - pkg/permissions: consumes the gateway to resolve permissions
package cache
