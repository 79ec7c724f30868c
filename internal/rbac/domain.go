// Package rbac models the closed permission set and authorizes requests.
package rbac

// Permission is an atomic capability. The set is closed: permissions exist
// only as the constants below and are never read from the store.
type Permission string

const (
	PermReadUser       Permission = "READ:USER"
	PermReadCustomer   Permission = "READ:CUSTOMER"
	PermCreateUser     Permission = "CREATE:USER"
	PermCreateCustomer Permission = "CREATE:CUSTOMER"
	PermUpdateUser     Permission = "UPDATE:USER"
	PermUpdateCustomer Permission = "UPDATE:CUSTOMER"
	PermDeleteUser     Permission = "DELETE:USER"
	PermDeleteCustomer Permission = "DELETE:CUSTOMER"
)

// Role names as stored in the roles table. Every user has exactly one role,
// assigned at registration.
const (
	RoleUser     = "ROLE_USER"
	RoleManager  = "ROLE_MANAGER"
	RoleAdmin    = "ROLE_ADMIN"
	RoleSysAdmin = "ROLE_SYSADMIN"
)

// DefaultRole is assigned to newly registered users.
const DefaultRole = RoleUser

// Role ties a stored role row to its in-code permission set.
type Role struct {
	ID   int64
	Name string
}

// Permissions resolves the role's permission set from the closed mapping.
func (r Role) Permissions() []Permission {
	return PermissionsFor(r.Name)
}

// Authorities returns the permission set as claim strings.
func (r Role) Authorities() []string {
	perms := r.Permissions()
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = string(p)
	}
	return out
}

var rolePermissions = map[string][]Permission{
	RoleUser: {PermReadUser, PermReadCustomer},
	RoleManager: {
		PermReadUser, PermReadCustomer,
		PermUpdateUser, PermUpdateCustomer,
	},
	RoleAdmin: {
		PermReadUser, PermReadCustomer,
		PermUpdateUser, PermUpdateCustomer,
		PermCreateUser, PermCreateCustomer,
	},
	RoleSysAdmin: {
		PermReadUser, PermReadCustomer,
		PermUpdateUser, PermUpdateCustomer,
		PermCreateUser, PermCreateCustomer,
		PermDeleteUser, PermDeleteCustomer,
	},
}

// PermissionsFor returns the permission set for a role name. Unknown roles
// get no permissions.
func PermissionsFor(roleName string) []Permission {
	perms, ok := rolePermissions[roleName]
	if !ok {
		return nil
	}
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}
