// Package permissions implements effective-permission resolution for the
// concord chat platform.
//
// # Overview
//
// Given a user and a target channel or server, the Resolver computes the
// exact set of actions the user may perform by consulting a layered
// hierarchy: server owner, channel owner, per-role defaults, section
// overwrites, channel overwrites, and the "@public" overwrite. Entity
// records come from the pkg/cache gateway, which fetches all related
// records in a single atomic round trip and lazily repopulates the cache
// from durable storage on miss.
//
// # Resolution Precedence
//
// For each role a user holds, exactly one source contributes:
//
//	channel overwrite > section overwrite > role default
//
// The final set is the union of the per-role results plus whatever the
// channel's "@public" overwrite grants to everyone. Ownership (server or
// channel) short-circuits to the full catalog before any of this runs.
//
// # Usage
//
//	resolver := permissions.NewResolver(gateway, store, logger, metrics)
//	perms, err := resolver.ResolveUserPermissions(ctx, &channelID, nil, &userID)
//
//	err = resolver.CheckRequestPermissions(ctx, r, []permissions.Permission{
//	    permissions.MessagesCreate,
//	}, userID)
//
// # Related Packages
//
//   - pkg/cache: entity cache gateway and atomic snapshot fetch
//   - pkg/storage: durable-storage contract
package permissions
