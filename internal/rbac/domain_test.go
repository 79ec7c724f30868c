package rbac

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPermissionsFor(t *testing.T) {
	require.ElementsMatch(t, []Permission{PermReadUser, PermReadCustomer}, PermissionsFor(RoleUser))
	require.Nil(t, PermissionsFor("ROLE_UNKNOWN"))

	sysadmin := PermissionsFor(RoleSysAdmin)
	require.Len(t, sysadmin, 8)
	require.Contains(t, sysadmin, PermDeleteUser)
	require.Contains(t, sysadmin, PermDeleteCustomer)
}

func TestPermissionsForReturnsCopy(t *testing.T) {
	perms := PermissionsFor(RoleUser)
	perms[0] = Permission("TAMPERED")
	require.Equal(t, PermReadUser, PermissionsFor(RoleUser)[0])
}

func TestRoleAuthorities(t *testing.T) {
	role := Role{ID: 2, Name: RoleManager}
	authorities := role.Authorities()
	require.Contains(t, authorities, "UPDATE:USER")
	require.Contains(t, authorities, "UPDATE:CUSTOMER")
	require.NotContains(t, authorities, "DELETE:USER")
}
