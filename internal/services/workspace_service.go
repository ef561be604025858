package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/showcasehq/showcase/internal/models"
	apperrors "github.com/showcasehq/showcase/pkg/errors"
	"github.com/showcasehq/showcase/pkg/metrics"
)

var (
	// ErrWorkspaceNotFound indicates the requested workspace does not exist.
	ErrWorkspaceNotFound = apperrors.New("WORKSPACE_NOT_FOUND", "Workspace not found", http.StatusNotFound)
	// ErrAssignmentNotFound indicates there is no assignment for the (user, workspace) pair.
	ErrAssignmentNotFound = apperrors.New("ASSIGNMENT_NOT_FOUND", "Workspace assignment not found", http.StatusNotFound)
)

// GrantInput names the parties of a workspace access grant. Role is optional
// on re-grants; when empty an existing assignment keeps its role and a new
// assignment defaults to viewer.
type GrantInput struct {
	UserID       string
	WorkspaceID  string
	AssignedByID string
	Role         models.WorkspaceRole
}

// CreateWorkspaceInput captures new workspace metadata.
type CreateWorkspaceInput struct {
	Name        string
	Description string
}

// AssignmentStats aggregates workspace access numbers for the admin dashboard.
type AssignmentStats struct {
	TotalAssignments   int64   `json:"total_assignments"`
	TotalWorkspaces    int64   `json:"total_workspaces"`
	TotalApprovedUsers int64   `json:"total_approved_users"`
	AvgPerUser         float64 `json:"avg_assignments_per_user"`
}

// WorkspaceService manages workspaces and the assignment access model. The
// assignment record is the authoritative audit trail; the workspace member
// list is the live ACL. Grant and Revoke mutate both inside one transaction
// so the two can never diverge on a partial failure.
type WorkspaceService struct {
	db    *gorm.DB
	clock func() time.Time
}

// NewWorkspaceService constructs a WorkspaceService instance.
func NewWorkspaceService(db *gorm.DB, clock func() time.Time) (*WorkspaceService, error) {
	if db == nil {
		return nil, errors.New("workspace service: db is required")
	}
	if clock == nil {
		clock = time.Now
	}
	return &WorkspaceService{db: db, clock: clock}, nil
}

// Create registers a new workspace.
func (s *WorkspaceService) Create(ctx context.Context, input CreateWorkspaceInput) (*models.Workspace, error) {
	ctx = ensureContext(ctx)

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewBadRequest("workspace name is required")
	}

	workspace := &models.Workspace{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
	}

	if err := s.db.WithContext(ctx).Create(workspace).Error; err != nil {
		return nil, fmt.Errorf("workspace service: create workspace: %w", err)
	}

	return workspace, nil
}

// GetByID loads a workspace including its live member list.
func (s *WorkspaceService) GetByID(ctx context.Context, id string) (*models.Workspace, error) {
	ctx = ensureContext(ctx)

	var workspace models.Workspace
	err := s.db.WithContext(ctx).Preload("Members").First(&workspace, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrWorkspaceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("workspace service: load workspace: %w", err)
	}
	return &workspace, nil
}

// List returns a page of workspaces and the total count.
func (s *WorkspaceService) List(ctx context.Context, page, limit int) ([]models.Workspace, int64, error) {
	ctx = ensureContext(ctx)

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Workspace{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("workspace service: count workspaces: %w", err)
	}

	var workspaces []models.Workspace
	err := s.db.WithContext(ctx).Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&workspaces).Error
	if err != nil {
		return nil, 0, fmt.Errorf("workspace service: list workspaces: %w", err)
	}

	return workspaces, total, nil
}

// Grant gives a user access to a workspace. Granting an existing pair updates
// the record in place (role change, reactivation) instead of duplicating it,
// and the member entry's role is kept in sync with the assignment.
func (s *WorkspaceService) Grant(ctx context.Context, input GrantInput) (*models.WorkspaceAssignment, error) {
	ctx = ensureContext(ctx)

	if input.Role != "" && !input.Role.Valid() {
		return nil, apperrors.NewBadRequest(fmt.Sprintf("invalid workspace role %q", input.Role))
	}

	var userExists models.User
	if err := s.db.WithContext(ctx).Select("id").Take(&userExists, "id = ?", input.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("workspace service: check user: %w", err)
	}
	if _, err := s.GetByID(ctx, input.WorkspaceID); err != nil {
		return nil, err
	}

	now := s.clock()
	var assignment models.WorkspaceAssignment

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Take(&assignment, "user_id = ? AND workspace_id = ?", input.UserID, input.WorkspaceID).Error
		switch {
		case err == nil:
			updates := map[string]any{"is_active": true, "assigned_by_id": input.AssignedByID}
			if input.Role != "" {
				updates["role"] = input.Role
			}
			if err := tx.Model(&assignment).Updates(updates).Error; err != nil {
				return fmt.Errorf("update assignment: %w", err)
			}
			assignment.IsActive = true
			assignment.AssignedByID = input.AssignedByID
			if input.Role != "" {
				assignment.Role = input.Role
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			role := input.Role
			if role == "" {
				role = models.WorkspaceRoleViewer
			}
			assignment = models.WorkspaceAssignment{
				UserID:       input.UserID,
				WorkspaceID:  input.WorkspaceID,
				AssignedByID: input.AssignedByID,
				Role:         role,
				IsActive:     true,
			}
			if err := tx.Create(&assignment).Error; err != nil {
				// A concurrent grant may have won the race; the unique index
				// on (user_id, workspace_id) guarantees a single record.
				if isUniqueConstraintError(err) {
					return apperrors.New("ASSIGNMENT_CONFLICT", "Assignment was modified concurrently, retry", http.StatusConflict)
				}
				return fmt.Errorf("create assignment: %w", err)
			}
		default:
			return fmt.Errorf("load assignment: %w", err)
		}

		// Keep the live member list consistent: at most one entry per user,
		// carrying the assignment's current role.
		var member models.WorkspaceMember
		err = tx.Take(&member, "workspace_id = ? AND user_id = ?", input.WorkspaceID, input.UserID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			member = models.WorkspaceMember{
				WorkspaceID: input.WorkspaceID,
				UserID:      input.UserID,
				Role:        assignment.Role,
				JoinedAt:    now,
			}
			if err := tx.Create(&member).Error; err != nil {
				return fmt.Errorf("add member: %w", err)
			}
		case err == nil:
			if member.Role != assignment.Role {
				if err := tx.Model(&member).Update("role", assignment.Role).Error; err != nil {
					return fmt.Errorf("sync member role: %w", err)
				}
			}
		default:
			return fmt.Errorf("load member: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.WorkspaceGrants.WithLabelValues("grant").Inc()
	return &assignment, nil
}

// Revoke deactivates an assignment and removes the live member entry. The
// assignment record is kept as an audit trail.
func (s *WorkspaceService) Revoke(ctx context.Context, userID, workspaceID string) error {
	ctx = ensureContext(ctx)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var assignment models.WorkspaceAssignment
		err := tx.Take(&assignment, "user_id = ? AND workspace_id = ?", userID, workspaceID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}
		if err != nil {
			return fmt.Errorf("load assignment: %w", err)
		}

		if err := tx.Model(&assignment).Update("is_active", false).Error; err != nil {
			return fmt.Errorf("deactivate assignment: %w", err)
		}

		err = tx.Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
			Delete(&models.WorkspaceMember{}).Error
		if err != nil {
			return fmt.Errorf("remove member: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	metrics.WorkspaceGrants.WithLabelValues("revoke").Inc()
	return nil
}

// ListAssignments returns every assignment for a user, inactive ones
// included, with the workspace preloaded.
func (s *WorkspaceService) ListAssignments(ctx context.Context, userID string) ([]models.WorkspaceAssignment, error) {
	ctx = ensureContext(ctx)

	var assignments []models.WorkspaceAssignment
	err := s.db.WithContext(ctx).Preload("Workspace").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&assignments).Error
	if err != nil {
		return nil, fmt.Errorf("workspace service: list assignments: %w", err)
	}
	return assignments, nil
}

// Stats aggregates workspace access counts.
func (s *WorkspaceService) Stats(ctx context.Context) (*AssignmentStats, error) {
	ctx = ensureContext(ctx)

	var stats AssignmentStats

	err := s.db.WithContext(ctx).Model(&models.WorkspaceAssignment{}).
		Where("is_active = ?", true).
		Count(&stats.TotalAssignments).Error
	if err != nil {
		return nil, fmt.Errorf("workspace service: count assignments: %w", err)
	}

	if err := s.db.WithContext(ctx).Model(&models.Workspace{}).Count(&stats.TotalWorkspaces).Error; err != nil {
		return nil, fmt.Errorf("workspace service: count workspaces: %w", err)
	}

	err = s.db.WithContext(ctx).Model(&models.User{}).
		Where("is_approved = ?", true).
		Count(&stats.TotalApprovedUsers).Error
	if err != nil {
		return nil, fmt.Errorf("workspace service: count approved users: %w", err)
	}

	if stats.TotalApprovedUsers > 0 {
		stats.AvgPerUser = float64(stats.TotalAssignments) / float64(stats.TotalApprovedUsers)
	}

	return &stats, nil
}
