package models

import "time"

// Workspace groups users collaborating on a set of projects. Members is the
// live access-control list; the authoritative grant history lives in
// WorkspaceAssignment records.
type Workspace struct {
	BaseModel

	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`

	Members []WorkspaceMember `gorm:"foreignKey:WorkspaceID" json:"members,omitempty"`
}

// WorkspaceMember is one entry in a workspace's live member list. A user
// appears at most once per workspace.
type WorkspaceMember struct {
	BaseModel

	WorkspaceID string        `gorm:"type:uuid;not null;uniqueIndex:idx_workspace_member" json:"workspace_id"`
	UserID      string        `gorm:"type:uuid;not null;uniqueIndex:idx_workspace_member" json:"user_id"`
	Role        WorkspaceRole `gorm:"not null" json:"role"`
	JoinedAt    time.Time     `gorm:"not null" json:"joined_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
