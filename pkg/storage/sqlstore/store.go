// Package sqlstore implements storage.Store on top of database/sql.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/concordlabs/concord/pkg/storage"
)

// Store is a database/sql backed storage.Store
type Store struct {
	db *sql.DB
}

// New creates a new SQL store
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// GetChannel retrieves a channel by id
func (s *Store) GetChannel(ctx context.Context, channelID string) (*storage.Channel, error) {
	query := `
		SELECT id, kind, owner_id, COALESCE(server_id, ''), COALESCE(section_id, ''), permissions
		FROM channels
		WHERE id = $1
	`

	var ch storage.Channel
	var overwritesJSON string

	err := s.db.QueryRowContext(ctx, query, channelID).Scan(
		&ch.ID,
		&ch.Kind,
		&ch.OwnerID,
		&ch.ServerID,
		&ch.SectionID,
		&overwritesJSON,
	)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to get channel: %w", err)
	}

	if err := json.Unmarshal([]byte(overwritesJSON), &ch.Overwrites); err != nil {
		return nil, fmt.Errorf("failed to unmarshal channel overwrites: %w", err)
	}

	members, err := s.getChannelMembers(ctx, channelID)
	if err != nil {
		return nil, err
	}
	ch.MemberIDs = members

	return &ch, nil
}

func (s *Store) getChannelMembers(ctx context.Context, channelID string) ([]string, error) {
	query := `SELECT user_id FROM channel_members WHERE channel_id = $1 ORDER BY user_id`

	rows, err := s.db.QueryContext(ctx, query, channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to list channel members: %w", err)
	}
	defer rows.Close()

	var members []string
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("failed to scan channel member: %w", err)
		}
		members = append(members, userID)
	}
	return members, rows.Err()
}

// GetServer retrieves a server by id
func (s *Store) GetServer(ctx context.Context, serverID string) (*storage.Server, error) {
	query := `SELECT id, owner_id FROM servers WHERE id = $1`

	var srv storage.Server
	err := s.db.QueryRowContext(ctx, query, serverID).Scan(&srv.ID, &srv.OwnerID)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to get server: %w", err)
	}

	return &srv, nil
}

// GetServerRoles lists all roles defined on a server
func (s *Store) GetServerRoles(ctx context.Context, serverID string) ([]storage.Role, error) {
	query := `
		SELECT id, server_id, name, permissions
		FROM roles
		WHERE server_id = $1
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query, serverID)
	if err != nil {
		return nil, fmt.Errorf("failed to list server roles: %w", err)
	}
	defer rows.Close()

	var roles []storage.Role
	for rows.Next() {
		var role storage.Role
		var permissionsJSON string
		if err := rows.Scan(&role.ID, &role.ServerID, &role.Name, &permissionsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		if err := json.Unmarshal([]byte(permissionsJSON), &role.Permissions); err != nil {
			return nil, fmt.Errorf("failed to unmarshal role permissions: %w", err)
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// GetSection retrieves a section by id
func (s *Store) GetSection(ctx context.Context, sectionID string) (*storage.Section, error) {
	query := `SELECT id, server_id, permissions FROM sections WHERE id = $1`
	return s.scanSection(s.db.QueryRowContext(ctx, query, sectionID))
}

// GetSectionForChannel retrieves the section containing a channel
func (s *Store) GetSectionForChannel(ctx context.Context, channelID string) (*storage.Section, error) {
	query := `
		SELECT s.id, s.server_id, s.permissions
		FROM sections s
		JOIN section_channels sc ON sc.section_id = s.id
		WHERE sc.channel_id = $1
	`
	return s.scanSection(s.db.QueryRowContext(ctx, query, channelID))
}

func (s *Store) scanSection(row *sql.Row) (*storage.Section, error) {
	var section storage.Section
	var overwritesJSON string

	err := row.Scan(&section.ID, &section.ServerID, &overwritesJSON)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to get section: %w", err)
	}

	if err := json.Unmarshal([]byte(overwritesJSON), &section.Overwrites); err != nil {
		return nil, fmt.Errorf("failed to unmarshal section overwrites: %w", err)
	}
	return &section, nil
}

// GetMemberRoleIDs lists the role ids held by a user in a server
func (s *Store) GetMemberRoleIDs(ctx context.Context, serverID, userID string) ([]string, error) {
	query := `SELECT role_ids FROM server_members WHERE server_id = $1 AND user_id = $2`

	var roleIDs string
	err := s.db.QueryRowContext(ctx, query, serverID, userID).Scan(&roleIDs)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to get member roles: %w", err)
	}

	if roleIDs == "" {
		return nil, nil
	}
	return strings.Split(roleIDs, ","), nil
}

// Ping checks database connectivity
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
