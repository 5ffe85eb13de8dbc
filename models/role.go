package models

type Role string

const (
	RoleUser       Role = "User"
	RoleAdmin      Role = "Admin"
	RoleSuperAdmin Role = "SuperAdmin"
)

// ParseRole validates a role name against the closed role set.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return Role(s), true
	}
	return "", false
}

// Permission names an operation class the API boundary gates on.
type Permission int

const (
	PermViewOwnAssignments Permission = iota
	PermManageTasks
	PermDeleteTasks
	PermManageUsers
)

// rolePermissions is the explicit permission table consulted by the
// boundary. Role checks never fall back to string scanning.
var rolePermissions = map[Role]map[Permission]bool{
	RoleUser: {
		PermViewOwnAssignments: true,
	},
	RoleAdmin: {
		PermViewOwnAssignments: true,
		PermManageTasks:        true,
		PermManageUsers:        true,
	},
	RoleSuperAdmin: {
		PermViewOwnAssignments: true,
		PermManageTasks:        true,
		PermDeleteTasks:        true,
		PermManageUsers:        true,
	},
}

// HasPermission reports whether any of the given roles grants the permission.
func HasPermission(roles []Role, p Permission) bool {
	for _, r := range roles {
		if rolePermissions[r][p] {
			return true
		}
	}
	return false
}
