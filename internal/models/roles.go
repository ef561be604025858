package models

// AdminRole describes the privilege tier of an admin principal. It is a
// separate enumeration from UserRole and WorkspaceRole even where the string
// values overlap; the three must never be cross-assigned.
type AdminRole string

const (
	AdminRoleSuperAdmin AdminRole = "super_admin"
	AdminRoleAdmin      AdminRole = "admin"
	AdminRoleEditor     AdminRole = "editor"
)

// Valid reports whether the value is a known admin role.
func (r AdminRole) Valid() bool {
	switch r {
	case AdminRoleSuperAdmin, AdminRoleAdmin, AdminRoleEditor:
		return true
	}
	return false
}

// UserRole is the default role an end user carries outside any workspace.
type UserRole string

const (
	UserRoleViewer UserRole = "viewer"
	UserRoleMember UserRole = "member"
	UserRoleAdmin  UserRole = "admin"
	UserRoleOwner  UserRole = "owner"
)

// Valid reports whether the value is a known user role.
func (r UserRole) Valid() bool {
	switch r {
	case UserRoleViewer, UserRoleMember, UserRoleAdmin, UserRoleOwner:
		return true
	}
	return false
}

// WorkspaceRole is the role a user holds within a specific workspace,
// independent of the user's default role.
type WorkspaceRole string

const (
	WorkspaceRoleOwner  WorkspaceRole = "owner"
	WorkspaceRoleMember WorkspaceRole = "member"
	WorkspaceRoleAdmin  WorkspaceRole = "admin"
	WorkspaceRoleViewer WorkspaceRole = "viewer"
)

// Valid reports whether the value is a known workspace role.
func (r WorkspaceRole) Valid() bool {
	switch r {
	case WorkspaceRoleOwner, WorkspaceRoleMember, WorkspaceRoleAdmin, WorkspaceRoleViewer:
		return true
	}
	return false
}

// AdminPermission names a capability granted to an admin principal.
type AdminPermission string

const (
	PermissionManagePortfolio AdminPermission = "manage_portfolio"
	PermissionManageUsers     AdminPermission = "manage_users"
	PermissionManageSettings  AdminPermission = "manage_settings"
	PermissionViewAnalytics   AdminPermission = "view_analytics"
)

// Valid reports whether the value is a known admin permission.
func (p AdminPermission) Valid() bool {
	switch p {
	case PermissionManagePortfolio, PermissionManageUsers, PermissionManageSettings, PermissionViewAnalytics:
		return true
	}
	return false
}
