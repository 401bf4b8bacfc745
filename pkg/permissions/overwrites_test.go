package permissions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFinalPermissions(t *testing.T) {
	tests := []struct {
		name              string
		userRoles         map[string][]string
		sectionOverwrites map[string][]string
		channelOverwrites map[string][]string
		want              []string
	}{
		{
			name:      "role defaults only",
			userRoles: map[string][]string{"@everyone": {"messages.list", "messages.create"}},
			want:      []string{"messages.create", "messages.list"},
		},
		{
			name:              "channel overwrite replaces role default",
			userRoles:         map[string][]string{"@everyone": {"messages.list", "messages.create"}},
			channelOverwrites: map[string][]string{"@everyone": {"messages.list"}},
			want:              []string{"messages.list"},
		},
		{
			name: "union across roles",
			userRoles: map[string][]string{
				"@everyone": {"messages.list"},
				"mod":       {"messages.create", "messages.list", "members.kick"},
			},
			want: []string{"members.kick", "messages.create", "messages.list"},
		},
		{
			name: "overwrite only strips the overwritten role",
			userRoles: map[string][]string{
				"@everyone": {"messages.list"},
				"mod":       {"messages.create", "messages.list", "members.kick"},
			},
			channelOverwrites: map[string][]string{"mod": {"messages.list", "members.kick"}},
			want:              []string{"members.kick", "messages.list"},
		},
		{
			name:              "section overwrite replaces empty default",
			userRoles:         map[string][]string{"@everyone": {}},
			sectionOverwrites: map[string][]string{"@everyone": {"messages.create"}},
			want:              []string{"messages.create"},
		},
		{
			name:              "channel overwrite beats section overwrite",
			userRoles:         map[string][]string{"r1": {"messages.list"}},
			sectionOverwrites: map[string][]string{"r1": {"messages.create"}},
			channelOverwrites: map[string][]string{"r1": {"channels.view"}},
			want:              []string{"channels.view"},
		},
		{
			name:              "empty channel overwrite revokes everything for that role",
			userRoles:         map[string][]string{"@everyone": {"messages.list"}},
			sectionOverwrites: map[string][]string{"@everyone": {"messages.create"}},
			channelOverwrites: map[string][]string{"@everyone": {}},
			want:              []string{},
		},
		{
			name:              "public overwrite applies without any roles",
			userRoles:         map[string][]string{},
			channelOverwrites: map[string][]string{"@public": {"messages.list"}},
			want:              []string{"messages.list"},
		},
		{
			name:              "public overwrite unions with role results",
			userRoles:         map[string][]string{"r1": {"messages.create"}},
			channelOverwrites: map[string][]string{"@public": {"channels.view"}},
			want:              []string{"channels.view", "messages.create"},
		},
		{
			name:              "overwrite for unheld role is invisible",
			userRoles:         map[string][]string{"r1": {"messages.list"}},
			channelOverwrites: map[string][]string{"r2": {"channels.delete"}},
			want:              []string{"messages.list"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := finalPermissions(tt.userRoles, tt.sectionOverwrites, tt.channelOverwrites)
			assert.ElementsMatch(t, tt.want, sortedSet(got))
		})
	}
}

func TestFinalPermissionsOrderIndependent(t *testing.T) {
	userRoles := map[string][]string{
		"a": {"messages.list"},
		"b": {"messages.create"},
		"c": {"channels.view"},
	}
	channelOverwrites := map[string][]string{"b": {"members.kick"}}

	// Map iteration order varies between runs; the union must not.
	want := sortedSet(finalPermissions(userRoles, nil, channelOverwrites))
	for i := 0; i < 10; i++ {
		got := sortedSet(finalPermissions(userRoles, nil, channelOverwrites))
		assert.Equal(t, want, got)
	}
}
