package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/showcasehq/showcase/internal/middleware"
	"github.com/showcasehq/showcase/internal/models"
	"github.com/showcasehq/showcase/internal/services"
	apperrors "github.com/showcasehq/showcase/pkg/errors"
	"github.com/showcasehq/showcase/pkg/logger"
	"github.com/showcasehq/showcase/pkg/response"
)

// WorkspacesHandler serves workspace CRUD and the assignment access endpoints.
type WorkspacesHandler struct {
	workspaces *services.WorkspaceService
	log        *zap.Logger
}

// NewWorkspacesHandler constructs a WorkspacesHandler instance.
func NewWorkspacesHandler(workspaces *services.WorkspaceService) (*WorkspacesHandler, error) {
	if workspaces == nil {
		return nil, errors.New("workspaces handler: workspace service is required")
	}
	return &WorkspacesHandler{
		workspaces: workspaces,
		log:        logger.WithModule("handlers.workspaces"),
	}, nil
}

type createWorkspaceRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"omitempty,max=500"`
}

type grantRequest struct {
	WorkspaceID string               `json:"workspace_id" validate:"required,uuid"`
	Role        models.WorkspaceRole `json:"role" validate:"omitempty,oneof=owner member admin viewer"`
}

// Create registers a new workspace.
func (h *WorkspacesHandler) Create(c *gin.Context) {
	var req createWorkspaceRequest
	if err := bindAndValidate(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	ws, err := h.workspaces.Create(c.Request.Context(), services.CreateWorkspaceInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	h.log.Info("workspace created", zap.String("workspace_id", ws.ID))
	response.Success(c, http.StatusCreated, ws)
}

// Get returns a single workspace with its live member list.
func (h *WorkspacesHandler) Get(c *gin.Context) {
	ws, err := h.workspaces.GetByID(c.Request.Context(), c.Param("workspaceId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, ws)
}

// List returns a paginated workspace listing.
func (h *WorkspacesHandler) List(c *gin.Context) {
	page := parseIntQuery(c, "page", 1)
	limit := parseIntQuery(c, "limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	workspaces, total, err := h.workspaces.List(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	totalPages := int(total) / limit
	if int(total)%limit != 0 {
		totalPages++
	}

	response.SuccessWithMeta(c, http.StatusOK, workspaces, &response.Meta{
		Page:       page,
		PerPage:    limit,
		Total:      total,
		TotalPages: totalPages,
	})
}

// Grant gives a user access to a workspace.
func (h *WorkspacesHandler) Grant(c *gin.Context) {
	admin, ok := middleware.AdminFromContext(c)
	if !ok {
		response.Error(c, apperrors.ErrUnauthorized)
		return
	}

	var req grantRequest
	if err := bindAndValidate(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	assignment, err := h.workspaces.Grant(c.Request.Context(), services.GrantInput{
		UserID:       c.Param("userId"),
		WorkspaceID:  req.WorkspaceID,
		AssignedByID: admin.ID,
		Role:         req.Role,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	h.log.Info("workspace access granted",
		zap.String("user_id", assignment.UserID),
		zap.String("workspace_id", assignment.WorkspaceID),
		zap.String("role", string(assignment.Role)),
		zap.String("granted_by", admin.ID))

	response.Success(c, http.StatusCreated, assignment)
}

// Revoke removes a user's access to a workspace.
func (h *WorkspacesHandler) Revoke(c *gin.Context) {
	userID := c.Param("userId")
	workspaceID := c.Param("workspaceId")

	if err := h.workspaces.Revoke(c.Request.Context(), userID, workspaceID); err != nil {
		response.Error(c, err)
		return
	}

	if admin, ok := middleware.AdminFromContext(c); ok {
		h.log.Info("workspace access revoked",
			zap.String("user_id", userID),
			zap.String("workspace_id", workspaceID),
			zap.String("revoked_by", admin.ID))
	}

	response.Success(c, http.StatusOK, gin.H{"message": "access revoked"})
}

// ListAssignments returns all assignments for a user, inactive ones included.
func (h *WorkspacesHandler) ListAssignments(c *gin.Context) {
	assignments, err := h.workspaces.ListAssignments(c.Request.Context(), c.Param("userId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, assignments)
}

// Stats returns aggregate workspace access numbers.
func (h *WorkspacesHandler) Stats(c *gin.Context) {
	stats, err := h.workspaces.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}
