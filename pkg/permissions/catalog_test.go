package permissions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOwnerSetsEqualFullCatalog(t *testing.T) {
	assert.Equal(t, AllPermissions(), ServerOwnerPermissions)
	assert.Equal(t, AllPermissions(), ChannelOwnerPermissions)
}

func TestCatalogMembership(t *testing.T) {
	for _, p := range AllPermissions() {
		assert.True(t, p.Valid(), "catalog permission %q should be valid", p)
	}
	assert.False(t, Permission("messages.delete").Valid())
	assert.False(t, Permission("").Valid())
}

func TestDefaultSetsAreCatalogSubsets(t *testing.T) {
	for _, set := range [][]Permission{
		DefaultRolePermissions,
		DefaultDMMemberPermissions,
		DefaultTopicMemberPermissions,
		DefaultUserPermissions,
	} {
		for _, p := range set {
			assert.True(t, p.Valid(), "default set contains unknown permission %q", p)
		}
	}
}
