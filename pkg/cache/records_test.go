package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChannelRecord(t *testing.T) {
	rec, err := parseChannelRecord(map[string]string{
		"kind":        "topic",
		"owner":       "u1",
		"members":     "u1,u2",
		"permissions": `{"r1": ["messages.list"]}`,
	})
	require.NoError(t, err)
	assert.Equal(t, "topic", rec.Kind)
	assert.Equal(t, "u1", rec.Owner)
	assert.Equal(t, []string{"u1", "u2"}, rec.Members)
	assert.Equal(t, map[string][]string{"r1": {"messages.list"}}, rec.Overwrites)
	assert.False(t, rec.SectionKnown)
}

func TestParseChannelRecordEmpty(t *testing.T) {
	rec, err := parseChannelRecord(map[string]string{})
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestParseChannelRecordSectionStates(t *testing.T) {
	// A present-but-empty section field means "known to have no section",
	// which is different from the field never having been written.
	rec, err := parseChannelRecord(map[string]string{"kind": "server", "section": ""})
	require.NoError(t, err)
	assert.True(t, rec.SectionKnown)
	assert.Empty(t, rec.SectionID)

	rec, err = parseChannelRecord(map[string]string{"kind": "server", "section": "x1"})
	require.NoError(t, err)
	assert.True(t, rec.SectionKnown)
	assert.Equal(t, "x1", rec.SectionID)
}

func TestParseChannelRecordCorruptOverwrites(t *testing.T) {
	_, err := parseChannelRecord(map[string]string{
		"kind":        "server",
		"permissions": "{not json",
	})
	assert.Error(t, err)
}

func TestChannelRecordHasMember(t *testing.T) {
	rec := &ChannelRecord{Members: []string{"u1", "u2"}}
	assert.True(t, rec.HasMember("u2"))
	assert.False(t, rec.HasMember("u3"))
	assert.False(t, (&ChannelRecord{}).HasMember("u1"))
}

func TestParseUserRecord(t *testing.T) {
	rec := parseUserRecord(map[string]string{
		"s1.roles":  "r1,r2",
		"s2.roles":  "",
		"unrelated": "x",
	})
	require.NotNil(t, rec)

	assert.True(t, rec.HasServerRoles("s1"))
	assert.Equal(t, []string{"r1", "r2"}, rec.RoleIDs("s1"))

	// A present-but-empty entry is a member with no roles, not a miss.
	assert.True(t, rec.HasServerRoles("s2"))
	assert.Empty(t, rec.RoleIDs("s2"))

	assert.False(t, rec.HasServerRoles("s3"))
	assert.Nil(t, rec.RoleIDs("s3"))
}

func TestParseUserRecordEmpty(t *testing.T) {
	assert.Nil(t, parseUserRecord(map[string]string{}))

	var rec *UserRecord
	assert.False(t, rec.HasServerRoles("s1"))
	assert.Nil(t, rec.RoleIDs("s1"))
}

func TestParseServerRecord(t *testing.T) {
	rec := parseServerRecord(map[string]string{
		"id":       "s1",
		"owner":    "u1",
		"roles.r1": "messages.list,messages.create",
		"roles.r2": "",
	})
	require.NotNil(t, rec)
	assert.Equal(t, "s1", rec.ID)
	assert.Equal(t, "u1", rec.Owner)
	assert.Equal(t, []string{"messages.list", "messages.create"}, rec.RolePermissions["r1"])
	assert.Empty(t, rec.RolePermissions["r2"])

	assert.Nil(t, parseServerRecord(map[string]string{}))
}

func TestParseSectionRecord(t *testing.T) {
	rec, err := parseSectionRecord(map[string]string{"permissions": `{"r1": ["channels.view"]}`})
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{"r1": {"channels.view"}}, rec.Overwrites)

	rec, err = parseSectionRecord(map[string]string{})
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestParseOverwrites(t *testing.T) {
	m, err := parseOverwrites("")
	require.NoError(t, err)
	assert.NotNil(t, m)
	assert.Empty(t, m)

	m, err = parseOverwrites("null")
	require.NoError(t, err)
	assert.NotNil(t, m)

	_, err = parseOverwrites("[1,2]")
	assert.Error(t, err)
}
