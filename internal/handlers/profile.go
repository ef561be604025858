package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/showcasehq/showcase/internal/middleware"
	"github.com/showcasehq/showcase/internal/services"
	apperrors "github.com/showcasehq/showcase/pkg/errors"
	"github.com/showcasehq/showcase/pkg/logger"
	"github.com/showcasehq/showcase/pkg/response"
)

// ProfileHandler serves the authenticated admin's own account endpoints.
type ProfileHandler struct {
	admins *services.AdminService
	log    *zap.Logger
}

// NewProfileHandler constructs a ProfileHandler instance.
func NewProfileHandler(admins *services.AdminService) (*ProfileHandler, error) {
	if admins == nil {
		return nil, errors.New("profile handler: admin service is required")
	}
	return &ProfileHandler{
		admins: admins,
		log:    logger.WithModule("handlers.profile"),
	}, nil
}

type updateProfileRequest struct {
	Name           *string `json:"name" validate:"omitempty,max=100"`
	Email          *string `json:"email" validate:"omitempty,email"`
	ProfilePicture *string `json:"profile_picture" validate:"omitempty,url"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6,max=72"`
}

// Get returns the authenticated admin's profile.
func (h *ProfileHandler) Get(c *gin.Context) {
	admin, ok := middleware.AdminFromContext(c)
	if !ok {
		response.Error(c, apperrors.ErrUnauthorized)
		return
	}
	response.Success(c, http.StatusOK, admin)
}

// Update mutates the authenticated admin's profile fields.
func (h *ProfileHandler) Update(c *gin.Context) {
	admin, ok := middleware.AdminFromContext(c)
	if !ok {
		response.Error(c, apperrors.ErrUnauthorized)
		return
	}

	var req updateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	updated, err := h.admins.UpdateProfile(c.Request.Context(), admin.ID, services.UpdateProfileInput{
		Name:           req.Name,
		Email:          req.Email,
		ProfilePicture: req.ProfilePicture,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	h.log.Info("admin profile updated", zap.String("admin_id", admin.ID))
	response.Success(c, http.StatusOK, updated)
}

// ChangePassword replaces the admin's credential after verifying the current one.
func (h *ProfileHandler) ChangePassword(c *gin.Context) {
	admin, ok := middleware.AdminFromContext(c)
	if !ok {
		response.Error(c, apperrors.ErrUnauthorized)
		return
	}

	var req changePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	err := h.admins.ChangePassword(c.Request.Context(), admin.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.log.Info("admin password changed", zap.String("admin_id", admin.ID))
	response.Success(c, http.StatusOK, gin.H{"message": "password updated"})
}
