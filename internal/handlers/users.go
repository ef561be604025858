package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/showcasehq/showcase/internal/middleware"
	"github.com/showcasehq/showcase/internal/services"
	"github.com/showcasehq/showcase/pkg/logger"
	"github.com/showcasehq/showcase/pkg/response"
)

// UsersHandler serves the admin-facing user management endpoints.
type UsersHandler struct {
	users *services.UserService
	log   *zap.Logger
}

// NewUsersHandler constructs a UsersHandler instance.
func NewUsersHandler(users *services.UserService) (*UsersHandler, error) {
	if users == nil {
		return nil, errors.New("users handler: user service is required")
	}
	return &UsersHandler{
		users: users,
		log:   logger.WithModule("handlers.users"),
	}, nil
}

// List returns a paginated user listing with optional approval and search filters.
func (h *UsersHandler) List(c *gin.Context) {
	input := services.ListUsersInput{
		Page:  parseIntQuery(c, "page", 1),
		Limit: parseIntQuery(c, "limit", 20),
		Query: c.Query("q"),
	}
	if input.Page < 1 {
		input.Page = 1
	}
	if input.Limit < 1 || input.Limit > 100 {
		input.Limit = 20
	}

	if raw := c.Query("approved"); raw != "" {
		if approved, err := strconv.ParseBool(raw); err == nil {
			input.Approved = &approved
		}
	}

	users, total, err := h.users.List(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	totalPages := int(total) / input.Limit
	if int(total)%input.Limit != 0 {
		totalPages++
	}

	response.SuccessWithMeta(c, http.StatusOK, users, &response.Meta{
		Page:       input.Page,
		PerPage:    input.Limit,
		Total:      total,
		TotalPages: totalPages,
	})
}

// Approve marks a user account as approved.
func (h *UsersHandler) Approve(c *gin.Context) {
	userID := c.Param("userId")

	user, err := h.users.Approve(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	if admin, ok := middleware.AdminFromContext(c); ok {
		h.log.Info("user approved",
			zap.String("user_id", user.ID),
			zap.String("approved_by", admin.ID))
	}

	response.Success(c, http.StatusOK, user)
}
