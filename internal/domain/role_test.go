package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidRole(t *testing.T) {
	for _, role := range []Role{RoleAdministrator, RoleTeacher, RoleClientAdmin, RoleStudent, RoleParent} {
		require.True(t, ValidRole(role), "role %s", role)
	}
	require.False(t, ValidRole(Role("superuser")))
	require.False(t, ValidRole(Role("")))
}

func TestGroupRoles(t *testing.T) {
	require.ElementsMatch(t, []Role{RoleAdministrator, RoleTeacher}, GroupRoles(GroupAdminOrTeacher))
	require.ElementsMatch(t, []Role{RoleAdministrator}, GroupRoles(GroupAdminOnly))
	require.Nil(t, GroupRoles(RoleGroup("no-such-group")))
}

func TestGroupRolesReturnsCopy(t *testing.T) {
	members := GroupRoles(GroupAdminOnly)
	require.Len(t, members, 1)
	members[0] = RoleStudent

	require.ElementsMatch(t, []Role{RoleAdministrator}, GroupRoles(GroupAdminOnly))
}
