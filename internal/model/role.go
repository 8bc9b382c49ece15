package model

import "fmt"

// Role is a closed set of tenant roles.
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleStaff      Role = "staff"
	RoleVolunteer  Role = "volunteer"
	RoleMember     Role = "member"
	RoleVisitor    Role = "visitor"
)

// AllRoles lists every role from most to least privileged.
var AllRoles = []Role{RoleSuperAdmin, RoleAdmin, RoleStaff, RoleVolunteer, RoleMember, RoleVisitor}

// ParseRole validates s as a role.
func ParseRole(s string) (Role, error) {
	for _, r := range AllRoles {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: unknown role %q", ErrValidation, s)
}

// IsAdmin reports whether the role may use administrative operations.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// Permission is a named capability that can be toggled per user or per tenant.
type Permission string

const (
	PermViewDirectory      Permission = "view_directory"
	PermManageDirectory    Permission = "manage_directory"
	PermManageFamilies     Permission = "manage_families"
	PermManageTenantAccess Permission = "manage_tenant_access"
	PermManageSessions     Permission = "manage_sessions"
	PermManageUsers        Permission = "manage_users"
	PermViewAuditLog       Permission = "view_audit_log"
)

// AllPermissions is the closed permission set.
var AllPermissions = []Permission{
	PermViewDirectory,
	PermManageDirectory,
	PermManageFamilies,
	PermManageTenantAccess,
	PermManageSessions,
	PermManageUsers,
	PermViewAuditLog,
}

// ParsePermission validates s as a permission.
func ParsePermission(s string) (Permission, error) {
	for _, p := range AllPermissions {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: unknown permission %q", ErrValidation, s)
}

// PermissionSet holds explicit grants and revocations. Missing keys are unset.
type PermissionSet map[Permission]bool

// ParsePermissionSet converts a loosely typed map, rejecting unknown keys.
func ParsePermissionSet(raw map[string]bool) (PermissionSet, error) {
	set := make(PermissionSet, len(raw))
	for k, v := range raw {
		p, err := ParsePermission(k)
		if err != nil {
			return nil, err
		}
		set[p] = v
	}
	return set, nil
}

// Has reports whether p is granted.
func (s PermissionSet) Has(p Permission) bool {
	return s[p]
}

// RolePermissions returns the default grants for a role.
func RolePermissions(r Role) PermissionSet {
	set := make(PermissionSet, len(AllPermissions))
	for _, p := range AllPermissions {
		set[p] = false
	}
	switch r {
	case RoleSuperAdmin, RoleAdmin:
		for _, p := range AllPermissions {
			set[p] = true
		}
	case RoleStaff:
		set[PermViewDirectory] = true
		set[PermManageDirectory] = true
		set[PermManageFamilies] = true
	case RoleVolunteer, RoleMember:
		set[PermViewDirectory] = true
	}
	return set
}

// MergePermissions resolves the effective permissions for a role:
// role defaults, then user-level overrides, then tenant-level overrides.
// Every permission is present in the result.
func MergePermissions(role Role, user, tenant PermissionSet) PermissionSet {
	merged := RolePermissions(role)
	for _, p := range AllPermissions {
		if v, ok := user[p]; ok {
			merged[p] = v
		}
		if v, ok := tenant[p]; ok {
			merged[p] = v
		}
	}
	return merged
}
