package models

import "testing"

func TestHasPermission(t *testing.T) {
	testCases := []struct {
		name       string
		roles      []Role
		permission Permission
		want       bool
	}{
		{"user views own assignments", []Role{RoleUser}, PermViewOwnAssignments, true},
		{"user cannot manage tasks", []Role{RoleUser}, PermManageTasks, false},
		{"user cannot manage users", []Role{RoleUser}, PermManageUsers, false},
		{"admin manages tasks", []Role{RoleAdmin}, PermManageTasks, true},
		{"admin manages users", []Role{RoleAdmin}, PermManageUsers, true},
		{"admin cannot delete tasks", []Role{RoleAdmin}, PermDeleteTasks, false},
		{"superadmin deletes tasks", []Role{RoleSuperAdmin}, PermDeleteTasks, true},
		{"superadmin manages tasks", []Role{RoleSuperAdmin}, PermManageTasks, true},
		{"any role grants", []Role{RoleUser, RoleSuperAdmin}, PermDeleteTasks, true},
		{"no roles", nil, PermViewOwnAssignments, false},
		{"unknown role", []Role{Role("Moderator")}, PermViewOwnAssignments, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := HasPermission(tc.roles, tc.permission); got != tc.want {
				t.Errorf("HasPermission(%v, %v) = %v, want %v", tc.roles, tc.permission, got, tc.want)
			}
		})
	}
}

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"User", "Admin", "SuperAdmin"} {
		if _, ok := ParseRole(valid); !ok {
			t.Errorf("ParseRole(%q) rejected a valid role", valid)
		}
	}
	for _, invalid := range []string{"", "user", "ADMIN", "root"} {
		if _, ok := ParseRole(invalid); ok {
			t.Errorf("ParseRole(%q) accepted an invalid role", invalid)
		}
	}
}

func TestParseTaskStatus(t *testing.T) {
	for _, valid := range []string{"pending", "in progress", "completed", "cancelled"} {
		if _, ok := ParseTaskStatus(valid); !ok {
			t.Errorf("ParseTaskStatus(%q) rejected a valid status", valid)
		}
	}
	for _, invalid := range []string{"", "Pending", "done", "archived"} {
		if _, ok := ParseTaskStatus(invalid); ok {
			t.Errorf("ParseTaskStatus(%q) accepted an invalid status", invalid)
		}
	}
}

func TestUserHasRole(t *testing.T) {
	u := User{Roles: []Role{RoleUser, RoleAdmin}}
	if !u.HasRole(RoleAdmin) {
		t.Error("expected HasRole(Admin) to be true")
	}
	if u.HasRole(RoleSuperAdmin) {
		t.Error("expected HasRole(SuperAdmin) to be false")
	}
}
