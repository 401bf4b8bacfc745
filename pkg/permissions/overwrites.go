package permissions

// finalPermissions computes the effective permission set from the user's
// role defaults and the section/channel overwrite maps.
//
// Per role, the most specific overwrite wins outright: a channel overwrite
// replaces the section overwrite, which replaces the role's default. The
// three are never merged for the same role. The result is the union across
// all held roles, plus whatever the channel's "@public" overwrite grants.
// Role iteration order cannot affect the outcome since union is commutative.
//
// Overwrites for roles the user does not hold are invisible here, with
// "@public" as the sole exception.
func finalPermissions(userRoles, sectionOverwrites, channelOverwrites map[string][]string) map[string]struct{} {
	result := make(map[string]struct{})

	for roleID, defaults := range userRoles {
		if overwrite, ok := channelOverwrites[roleID]; ok {
			addAll(result, overwrite)
			continue
		}
		if overwrite, ok := sectionOverwrites[roleID]; ok {
			addAll(result, overwrite)
			continue
		}
		addAll(result, defaults)
	}

	addAll(result, channelOverwrites[PublicRoleID])

	return result
}

func addAll(set map[string]struct{}, perms []string) {
	for _, p := range perms {
		set[p] = struct{}{}
	}
}
