package permissions

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/concordlabs/concord/pkg/cache"
	"github.com/concordlabs/concord/pkg/observability"
	"github.com/concordlabs/concord/pkg/storage"
)

// Resolver computes effective user permissions from cached entity state.
// Resolution is read-only: the only cache writes it triggers are the
// gateway's idempotent repopulations.
type Resolver struct {
	gateway *cache.Gateway
	store   storage.Store
	logger  *logrus.Logger
	metrics *observability.Metrics
}

// NewResolver creates a resolver. logger and metrics may be nil.
func NewResolver(gateway *cache.Gateway, store storage.Store, logger *logrus.Logger, metrics *observability.Metrics) *Resolver {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Resolver{
		gateway: gateway,
		store:   store,
		logger:  logger,
		metrics: metrics,
	}
}

// ResolveUserPermissions computes the sorted effective permission set for
// userID against the given channel and/or server context. Any of the ids
// may be nil.
//
// It fails with ErrChannelNotFound when a supplied channel id does not
// exist, and with a PermissionError for DM non-membership or an
// unrecognized channel kind. Ambiguous or partial state never grants
// permissions.
func (r *Resolver) ResolveUserPermissions(ctx context.Context, channelID, serverID, userID *string) ([]string, error) {
	if r.metrics != nil {
		start := time.Now()
		defer func() {
			r.metrics.PermissionResolveDuration.Observe(time.Since(start).Seconds())
		}()
	}

	r.logger.WithFields(logrus.Fields{
		"user_id":    deref(userID),
		"channel_id": deref(channelID),
		"server_id":  deref(serverID),
	}).Debug("fetching permissions")

	if channelID == nil && serverID == nil {
		return sortedPermissions(DefaultUserPermissions), nil
	}

	snap, err := r.gateway.FetchSnapshot(ctx, deref(channelID), deref(userID))
	if err != nil {
		return nil, err
	}
	channel, user, server, section := snap.Channel, snap.User, snap.Server, snap.Section

	userRoles := map[string][]string{}

	if channelID != nil {
		// A cached hash without the kind field is stale or partial:
		// repopulate before trusting it.
		if channel == nil || channel.Kind == "" {
			channel, err = r.gateway.FetchChannel(ctx, *channelID)
			if err != nil {
				return nil, err
			}
		}
		if channel == nil {
			return nil, ErrChannelNotFound
		}

		switch channel.Kind {
		case string(storage.KindDM):
			if userID == nil || !channel.HasMember(*userID) {
				return nil, forbidden("user is not a member of DM channel")
			}
			return sortedPermissions(DefaultDMMemberPermissions), nil

		case string(storage.KindTopic):
			if userID != nil && channel.Owner == *userID {
				return sortedPermissions(ChannelOwnerPermissions), nil
			}
			if userID != nil && channel.HasMember(*userID) {
				userRoles[MembersRoleID] = permissionStrings(DefaultTopicMemberPermissions)
			}

		case string(storage.KindServer):
			// The channel's declared server wins over any caller-supplied id.
			if channel.ServerID != "" {
				serverID = &channel.ServerID
			} else {
				serverID = nil
			}

		default:
			return nil, forbidden("unknown channel kind: %s", channel.Kind)
		}
	}

	// The snapshot follows whatever server link the channel hash carries,
	// even on channel kinds that should not have one. Only trust the record
	// when it matches the server context actually in effect; a stray link
	// must neither grant nor panic.
	if serverID == nil {
		server = nil
	} else if server == nil || server.ID != *serverID {
		server, err = r.gateway.FetchServer(ctx, *serverID)
		if err != nil {
			return nil, err
		}
	}

	if server != nil && userID != nil {
		if server.Owner == *userID {
			return sortedPermissions(ServerOwnerPermissions), nil
		}

		if !user.HasServerRoles(*serverID) {
			user, err = r.gateway.FetchUser(ctx, *userID, *serverID)
			if err != nil {
				return nil, err
			}
		}
		userRoles = rolePermissionsFor(user, server, *serverID)
	}

	channelOverwrites := map[string][]string{}
	if channel != nil {
		channelOverwrites = channel.Overwrites
	}

	if section == nil && channelID != nil && channel != nil {
		if !channel.SectionKnown {
			section, err = r.gateway.FetchSection(ctx, "", *channelID)
		} else if channel.SectionID != "" {
			section, err = r.gateway.FetchSection(ctx, channel.SectionID, *channelID)
		}
		if err != nil {
			return nil, err
		}
	}

	sectionOverwrites := map[string][]string{}
	if section != nil {
		sectionOverwrites = section.Overwrites
	}

	final := finalPermissions(userRoles, sectionOverwrites, channelOverwrites)
	return sortedSet(final), nil
}

// CheckRequestPermissions extracts channel/server context from the request,
// resolves the user's permission set, and fails with a PermissionError
// carrying both the required and resolved sets when any required permission
// is missing. This is the sole enforcement point for privileged operations.
func (r *Resolver) CheckRequestPermissions(ctx context.Context, req *http.Request, required []Permission, userID *string) error {
	channelID := channelIDFromRequest(req, r.logger)
	serverID := serverIDFromRequest(req, r.logger)

	actual, err := r.ResolveUserPermissions(ctx, channelID, serverID, userID)
	if err != nil {
		r.recordCheck("error")
		return err
	}

	for _, p := range required {
		if !containsString(actual, string(p)) {
			r.recordCheck("denied")
			return &PermissionError{Required: required, Actual: actual}
		}
	}

	r.recordCheck("allowed")
	return nil
}

// UserBelongsToServer reports whether the user is a member of the server
func (r *Resolver) UserBelongsToServer(ctx context.Context, userID, serverID string) (bool, error) {
	_, err := r.store.GetMemberRoleIDs(ctx, serverID, userID)
	if err == storage.ErrNotFound {
		return false, nil
	} else if err != nil {
		return false, err
	}
	return true, nil
}

func (r *Resolver) recordCheck(result string) {
	if r.metrics != nil {
		r.metrics.PermissionChecksTotal.WithLabelValues(result).Inc()
	}
}

// rolePermissionsFor zips the role ids the user holds in the server with the
// server record's default permission sets for those roles. Roles missing
// from the server record contribute nothing.
func rolePermissionsFor(user *cache.UserRecord, server *cache.ServerRecord, serverID string) map[string][]string {
	roles := map[string][]string{}
	if user == nil || server == nil {
		return roles
	}
	for _, roleID := range user.RoleIDs(serverID) {
		roles[roleID] = server.RolePermissions[roleID]
	}
	return roles
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func sortedPermissions(perms []Permission) []string {
	out := permissionStrings(perms)
	sort.Strings(out)
	return out
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
