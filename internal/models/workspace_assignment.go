package models

// WorkspaceAssignment is the authoritative record granting a user a role in a
// workspace. Revoking deactivates the record instead of deleting it so the
// grant history survives as an audit trail, while the workspace member entry
// is removed.
type WorkspaceAssignment struct {
	BaseModel

	UserID      string `gorm:"type:uuid;not null;uniqueIndex:idx_user_workspace" json:"user_id"`
	WorkspaceID string `gorm:"type:uuid;not null;uniqueIndex:idx_user_workspace" json:"workspace_id"`

	AssignedByID string        `gorm:"type:uuid;not null" json:"assigned_by_id"`
	Role         WorkspaceRole `gorm:"not null" json:"role"`
	IsActive     bool          `gorm:"default:true" json:"is_active"`

	User       *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Workspace  *Workspace `gorm:"foreignKey:WorkspaceID" json:"workspace,omitempty"`
	AssignedBy *Admin     `gorm:"foreignKey:AssignedByID" json:"assigned_by,omitempty"`
}
