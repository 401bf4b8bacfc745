package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/concordlabs/concord/pkg/observability"
	"github.com/concordlabs/concord/pkg/storage"
)

// Gateway provides fetch-or-populate access to cached entity records.
//
// Reads go to Redis first; on a miss (or a hit missing the discriminating
// field) the authoritative record is loaded from durable storage and written
// back to the cache before being returned. Duplicate concurrent populations
// overwrite each other with identical content, so none of this is locked.
type Gateway struct {
	client  *redis.Client
	store   storage.Store
	logger  *logrus.Logger
	metrics *observability.Metrics
}

// NewGateway creates a cache gateway. logger and metrics may be nil.
func NewGateway(client *redis.Client, store storage.Store, logger *logrus.Logger, metrics *observability.Metrics) *Gateway {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Gateway{
		client:  client,
		store:   store,
		logger:  logger,
		metrics: metrics,
	}
}

// Client returns the underlying Redis client for health checks
func (g *Gateway) Client() *redis.Client {
	return g.client
}

func (g *Gateway) recordHit(entity string) {
	if g.metrics != nil {
		g.metrics.CacheHitsTotal.WithLabelValues(entity).Inc()
	}
}

func (g *Gateway) recordMiss(entity string) {
	if g.metrics != nil {
		g.metrics.CacheMissesTotal.WithLabelValues(entity).Inc()
	}
}

// FetchChannel returns the channel record for channelID, repopulating the
// cache from durable storage when the cached hash is absent or incomplete.
// A truly absent channel returns (nil, nil); the caller surfaces not-found.
func (g *Gateway) FetchChannel(ctx context.Context, channelID string) (*ChannelRecord, error) {
	fields, err := g.client.HGetAll(ctx, channelKey(channelID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read channel cache: %w", err)
	}

	// "kind" is the discriminating field: a hash without it is treated
	// as a miss and repopulated.
	if _, ok := fields["kind"]; ok {
		g.recordHit("channel")
		return parseChannelRecord(fields)
	}

	g.recordMiss("channel")
	return g.populateChannel(ctx, channelID)
}

func (g *Gateway) populateChannel(ctx context.Context, channelID string) (*ChannelRecord, error) {
	if channelID == "" {
		return nil, nil
	}

	ch, err := g.store.GetChannel(ctx, channelID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to load channel %s: %w", channelID, err)
	}

	fields := map[string]string{
		"kind":  string(ch.Kind),
		"owner": ch.OwnerID,
	}
	if ch.Kind == storage.KindDM || ch.Kind == storage.KindTopic {
		fields["members"] = strings.Join(ch.MemberIDs, ",")
	}
	if ch.Kind == storage.KindServer {
		fields["server"] = ch.ServerID
	}
	// The section field is only written when known. Leaving it unset lets
	// resolution fall back to the section-by-channel lookup, which caches
	// the answer (including "no section") on this hash.
	if ch.SectionID != "" {
		fields["section"] = ch.SectionID
	}

	overwrites, err := json.Marshal(orEmptyOverwrites(ch.Overwrites))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal channel overwrites: %w", err)
	}
	fields["permissions"] = string(overwrites)

	if err := g.client.HSet(ctx, channelKey(channelID), toHSetArgs(fields)...).Err(); err != nil {
		return nil, fmt.Errorf("failed to cache channel %s: %w", channelID, err)
	}

	return parseChannelRecord(fields)
}

// FetchUser returns the user's per-server role record, repopulating the
// serverID entry from durable storage when it is missing. A user with no
// membership in the server is cached as a member with no roles.
func (g *Gateway) FetchUser(ctx context.Context, userID, serverID string) (*UserRecord, error) {
	fields, err := g.client.HGetAll(ctx, userKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read user cache: %w", err)
	}

	rolesField := serverID + ".roles"
	if _, ok := fields[rolesField]; ok {
		g.recordHit("user")
		return parseUserRecord(fields), nil
	}

	g.recordMiss("user")

	roleIDs, err := g.store.GetMemberRoleIDs(ctx, serverID, userID)
	if errors.Is(err, storage.ErrNotFound) {
		g.logger.WithFields(logrus.Fields{
			"user_id":   userID,
			"server_id": serverID,
		}).Warn("user does not belong to server")
		roleIDs = nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to load member roles: %w", err)
	}

	csv := strings.Join(roleIDs, ",")
	if err := g.client.HSet(ctx, userKey(userID), rolesField, csv).Err(); err != nil {
		return nil, fmt.Errorf("failed to cache user roles: %w", err)
	}

	fields[rolesField] = csv
	return parseUserRecord(fields), nil
}

// FetchServer returns the server record with its role permission sets,
// repopulating on miss. An absent server returns (nil, nil): a missing
// server context is a valid resolution state, not an error.
func (g *Gateway) FetchServer(ctx context.Context, serverID string) (*ServerRecord, error) {
	fields, err := g.client.HGetAll(ctx, serverKey(serverID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read server cache: %w", err)
	}

	if _, ok := fields["owner"]; ok {
		g.recordHit("server")
		return parseServerRecord(fields), nil
	}

	g.recordMiss("server")
	return g.populateServer(ctx, serverID)
}

func (g *Gateway) populateServer(ctx context.Context, serverID string) (*ServerRecord, error) {
	if serverID == "" {
		return nil, nil
	}

	srv, err := g.store.GetServer(ctx, serverID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to load server %s: %w", serverID, err)
	}

	roles, err := g.store.GetServerRoles(ctx, serverID)
	if err != nil {
		return nil, fmt.Errorf("failed to load server roles: %w", err)
	}

	fields := map[string]string{
		"id":    srv.ID,
		"owner": srv.OwnerID,
	}
	for _, role := range roles {
		fields["roles."+role.ID] = strings.Join(role.Permissions, ",")
	}

	if err := g.client.HSet(ctx, serverKey(serverID), toHSetArgs(fields)...).Err(); err != nil {
		return nil, fmt.Errorf("failed to cache server %s: %w", serverID, err)
	}

	return parseServerRecord(fields), nil
}

// FetchSection returns a section's overwrite record. When sectionID is empty
// the section is looked up through its channel membership; either way the
// result (including "no section") is recorded on the channel hash so later
// snapshots resolve it in one round trip.
func (g *Gateway) FetchSection(ctx context.Context, sectionID, channelID string) (*SectionRecord, error) {
	if sectionID != "" {
		fields, err := g.client.HGetAll(ctx, sectionKey(sectionID)).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to read section cache: %w", err)
		}
		if _, ok := fields["permissions"]; ok {
			g.recordHit("section")
			return parseSectionRecord(fields)
		}
	}

	g.recordMiss("section")
	return g.populateSection(ctx, sectionID, channelID)
}

func (g *Gateway) populateSection(ctx context.Context, sectionID, channelID string) (*SectionRecord, error) {
	var section *storage.Section
	var err error

	if sectionID != "" {
		section, err = g.store.GetSection(ctx, sectionID)
	} else if channelID != "" {
		section, err = g.store.GetSectionForChannel(ctx, channelID)
	}
	if errors.Is(err, storage.ErrNotFound) {
		section = nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to load section: %w", err)
	}

	if section == nil {
		// Record the negative result so the next resolution skips the lookup.
		if channelID != "" {
			if err := g.client.HSet(ctx, channelKey(channelID), "section", "").Err(); err != nil {
				return nil, fmt.Errorf("failed to cache section link: %w", err)
			}
		}
		return nil, nil
	}

	overwrites, err := json.Marshal(orEmptyOverwrites(section.Overwrites))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal section overwrites: %w", err)
	}

	fields := map[string]string{"permissions": string(overwrites)}
	if err := g.client.HSet(ctx, sectionKey(section.ID), toHSetArgs(fields)...).Err(); err != nil {
		return nil, fmt.Errorf("failed to cache section %s: %w", section.ID, err)
	}
	if channelID != "" {
		if err := g.client.HSet(ctx, channelKey(channelID), "section", section.ID).Err(); err != nil {
			return nil, fmt.Errorf("failed to cache section link: %w", err)
		}
	}

	return parseSectionRecord(fields)
}

func orEmptyOverwrites(overwrites map[string][]string) map[string][]string {
	if overwrites == nil {
		return map[string][]string{}
	}
	return overwrites
}

// toHSetArgs flattens a field map into the alternating key/value form HSET takes
func toHSetArgs(fields map[string]string) []interface{} {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return args
}
