// Package api provides the HTTP surface of the concord service.
//
// Routing and marshaling here are deliberately thin: every privileged route
// is wrapped by permissions.RequirePermissions, which is the engine's sole
// enforcement point, and handlers only read state. Mutating CRUD endpoints
// live in the (separate) CRUD services that own cache invalidation.
package api
