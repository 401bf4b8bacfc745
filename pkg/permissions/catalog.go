package permissions

// Permission is an atomic, named capability of the form "<resource>.<action>"
type Permission string

// The closed permission catalog. Adding a permission is additive and never
// changes resolution logic.
const (
	MessagesCreate Permission = "messages.create"
	MessagesList   Permission = "messages.list"

	ChannelsCreate           Permission = "channels.create"
	ChannelsView             Permission = "channels.view"
	ChannelsInvite           Permission = "channels.invite"
	ChannelsJoin             Permission = "channels.join"
	ChannelsPermissionsManage Permission = "channels.permissions.manage"
	ChannelsKick             Permission = "channels.kick"
	ChannelsDelete           Permission = "channels.delete"
	ChannelsMembersList      Permission = "channels.members.list"

	MembersKick Permission = "members.kick"

	RolesList   Permission = "roles.list"
	RolesCreate Permission = "roles.create"
)

// AllPermissions returns the full catalog in declaration order
func AllPermissions() []Permission {
	return []Permission{
		MessagesCreate,
		MessagesList,
		ChannelsCreate,
		ChannelsView,
		ChannelsInvite,
		ChannelsJoin,
		ChannelsPermissionsManage,
		ChannelsKick,
		ChannelsDelete,
		ChannelsMembersList,
		MembersKick,
		RolesList,
		RolesCreate,
	}
}

// Valid reports whether p belongs to the catalog
func (p Permission) Valid() bool {
	for _, known := range AllPermissions() {
		if p == known {
			return true
		}
	}
	return false
}

// PublicRoleID is the reserved role id applying to every user regardless of
// role membership. MembersRoleID is the synthetic role id used for topic
// channel membership; it is never persisted.
const (
	PublicRoleID  = "@public"
	MembersRoleID = "@members"
)

// Default permission sets per ownership/membership tier. Owners of servers
// and channels hold the full catalog unconditionally.
var (
	ServerOwnerPermissions  = AllPermissions()
	ChannelOwnerPermissions = AllPermissions()

	DefaultRolePermissions = []Permission{
		MessagesList,
		MessagesCreate,
	}

	DefaultDMMemberPermissions = []Permission{
		ChannelsView,
		MessagesList,
		MessagesCreate,
		ChannelsMembersList,
	}

	DefaultTopicMemberPermissions = []Permission{
		ChannelsView,
		MessagesList,
		MessagesCreate,
		ChannelsMembersList,
	}

	// DefaultUserPermissions applies when a request carries no channel or
	// server context at all.
	DefaultUserPermissions = []Permission{
		ChannelsCreate,
	}
)

func permissionStrings(perms []Permission) []string {
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = string(p)
	}
	return out
}
