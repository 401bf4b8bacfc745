package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("record not found")

// ChannelKind discriminates the three channel flavors
type ChannelKind string

const (
	KindDM     ChannelKind = "dm"
	KindTopic  ChannelKind = "topic"
	KindServer ChannelKind = "server"
)

// Channel is a durable channel record
type Channel struct {
	ID        string
	Kind      ChannelKind
	OwnerID   string
	MemberIDs []string            // dm/topic kinds only
	ServerID  string              // server kind only
	SectionID string              // optional
	// Overwrites maps role id to the permission set that replaces the
	// role's default inside this channel. "@public" applies to everyone.
	Overwrites map[string][]string
}

// Server is a durable server record
type Server struct {
	ID      string
	OwnerID string
}

// Role is a named default permission grant scoped to a server
type Role struct {
	ID          string
	ServerID    string
	Name        string
	Permissions []string
}

// Section groups channels inside a server and carries its own overwrites,
// used as a mid-tier default when a channel has none for a role.
type Section struct {
	ID         string
	ServerID   string
	Overwrites map[string][]string
}

// Store is the read contract the permission engine requires from durable
// storage. All methods return ErrNotFound for absent primary records.
type Store interface {
	// GetChannel retrieves a channel by id
	GetChannel(ctx context.Context, channelID string) (*Channel, error)

	// GetServer retrieves a server by id
	GetServer(ctx context.Context, serverID string) (*Server, error)

	// GetServerRoles lists all roles defined on a server
	GetServerRoles(ctx context.Context, serverID string) ([]Role, error)

	// GetSection retrieves a section by id
	GetSection(ctx context.Context, sectionID string) (*Section, error)

	// GetSectionForChannel retrieves the section containing a channel,
	// used when the channel record does not carry its section id yet
	GetSectionForChannel(ctx context.Context, channelID string) (*Section, error)

	// GetMemberRoleIDs lists the role ids held by a user in a server.
	// Returns ErrNotFound when the user is not a member.
	GetMemberRoleIDs(ctx context.Context, serverID, userID string) ([]string, error)

	// Ping checks connectivity for health reporting
	Ping(ctx context.Context) error
}
