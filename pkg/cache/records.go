package cache

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ChannelRecord is the typed view of a cached channel hash. The raw field
// map is parsed exactly once, at the gateway boundary.
type ChannelRecord struct {
	Kind      string
	Owner     string
	Members   []string
	ServerID  string
	SectionID string
	// SectionKnown reports whether the hash carried a "section" field at
	// all. An empty SectionID with SectionKnown set means "no section",
	// while an unset field means the section has never been looked up.
	SectionKnown bool
	Overwrites   map[string][]string
}

// HasMember reports whether userID appears in the channel's member list
func (c *ChannelRecord) HasMember(userID string) bool {
	for _, m := range c.Members {
		if m == userID {
			return true
		}
	}
	return false
}

func parseChannelRecord(fields map[string]string) (*ChannelRecord, error) {
	if len(fields) == 0 {
		return nil, nil
	}

	rec := &ChannelRecord{
		Kind:     fields["kind"],
		Owner:    fields["owner"],
		ServerID: fields["server"],
	}

	if members := fields["members"]; members != "" {
		rec.Members = strings.Split(members, ",")
	}

	if section, ok := fields["section"]; ok {
		rec.SectionID = section
		rec.SectionKnown = true
	}

	overwrites, err := parseOverwrites(fields["permissions"])
	if err != nil {
		return nil, fmt.Errorf("invalid channel overwrites: %w", err)
	}
	rec.Overwrites = overwrites

	return rec, nil
}

// UserRecord is the typed view of a cached user hash. It maps server ids to
// the comma-separated role ids the user holds there.
type UserRecord struct {
	roles map[string]string
}

// HasServerRoles reports whether the record carries role data for serverID.
// A present-but-empty entry still counts: it means "member with no roles".
func (u *UserRecord) HasServerRoles(serverID string) bool {
	if u == nil {
		return false
	}
	_, ok := u.roles[serverID]
	return ok
}

// RoleIDs returns the role ids the user holds in serverID
func (u *UserRecord) RoleIDs(serverID string) []string {
	if u == nil {
		return nil
	}
	csv := u.roles[serverID]
	if csv == "" {
		return nil
	}
	return strings.Split(csv, ",")
}

func parseUserRecord(fields map[string]string) *UserRecord {
	if len(fields) == 0 {
		return nil
	}

	rec := &UserRecord{roles: make(map[string]string)}
	for field, value := range fields {
		serverID, ok := strings.CutSuffix(field, ".roles")
		if !ok {
			continue
		}
		rec.roles[serverID] = value
	}
	return rec
}

// ServerRecord is the typed view of a cached server hash
type ServerRecord struct {
	ID    string
	Owner string
	// RolePermissions maps role id to that role's default permission set
	RolePermissions map[string][]string
}

func parseServerRecord(fields map[string]string) *ServerRecord {
	if len(fields) == 0 {
		return nil
	}

	rec := &ServerRecord{
		ID:              fields["id"],
		Owner:           fields["owner"],
		RolePermissions: make(map[string][]string),
	}
	for field, value := range fields {
		roleID, ok := strings.CutPrefix(field, "roles.")
		if !ok {
			continue
		}
		if value == "" {
			rec.RolePermissions[roleID] = nil
			continue
		}
		rec.RolePermissions[roleID] = strings.Split(value, ",")
	}
	return rec
}

// SectionRecord is the typed view of a cached section hash
type SectionRecord struct {
	Overwrites map[string][]string
}

func parseSectionRecord(fields map[string]string) (*SectionRecord, error) {
	if len(fields) == 0 {
		return nil, nil
	}

	overwrites, err := parseOverwrites(fields["permissions"])
	if err != nil {
		return nil, fmt.Errorf("invalid section overwrites: %w", err)
	}
	return &SectionRecord{Overwrites: overwrites}, nil
}

// parseOverwrites decodes the JSON role-id -> permission-list map stored in
// a "permissions" hash field. Missing fields decode to an empty map; corrupt
// data is an error so that ambiguous state never grants permissions.
func parseOverwrites(raw string) (map[string][]string, error) {
	if raw == "" {
		return map[string][]string{}, nil
	}
	var overwrites map[string][]string
	if err := json.Unmarshal([]byte(raw), &overwrites); err != nil {
		return nil, err
	}
	if overwrites == nil {
		overwrites = map[string][]string{}
	}
	return overwrites, nil
}
