package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAdminJSONNeverExposesCredentials(t *testing.T) {
	lock := time.Now().Add(time.Hour)
	admin := Admin{
		Username:      "Root",
		Email:         "root@example.com",
		Password:      "$2a$12$notarealhash",
		LoginAttempts: 3,
		LockUntil:     &lock,
	}

	raw, err := json.Marshal(admin)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.NotContains(t, decoded, "password")
	require.NotContains(t, decoded, "login_attempts")
	require.NotContains(t, decoded, "lock_until")
}

func TestAdminNormalize(t *testing.T) {
	admin := Admin{Username: "  Alice ", Email: " Alice@Example.COM "}
	admin.Normalize()
	require.Equal(t, "alice", admin.Username)
	require.Equal(t, "alice@example.com", admin.Email)
}

func TestIsLocked(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	admin := Admin{}
	require.False(t, admin.IsLocked(now))

	past := now.Add(-time.Minute)
	admin.LockUntil = &past
	require.False(t, admin.IsLocked(now))

	future := now.Add(time.Minute)
	admin.LockUntil = &future
	require.True(t, admin.IsLocked(now))
}

func TestHasPermissionSuperAdminBypass(t *testing.T) {
	super := Admin{Role: AdminRoleSuperAdmin}
	require.True(t, super.HasPermission(PermissionManageUsers))
	require.True(t, super.HasPermission(PermissionViewAnalytics))

	editor := Admin{Role: AdminRoleEditor, Permissions: []AdminPermission{PermissionManagePortfolio}}
	require.True(t, editor.HasPermission(PermissionManagePortfolio))
	require.False(t, editor.HasPermission(PermissionManageUsers))
}

func TestRoleEnumValidation(t *testing.T) {
	require.True(t, AdminRoleSuperAdmin.Valid())
	require.False(t, AdminRole("owner").Valid())

	require.True(t, UserRoleOwner.Valid())
	require.False(t, UserRole("super_admin").Valid())

	require.True(t, WorkspaceRoleViewer.Valid())
	require.False(t, WorkspaceRole("editor").Valid())

	require.True(t, PermissionManageSettings.Valid())
	require.False(t, AdminPermission("manage_everything").Valid())
}
