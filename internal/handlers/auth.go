package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	iauth "github.com/showcasehq/showcase/internal/auth"
	"github.com/showcasehq/showcase/internal/auth/providers"
	"github.com/showcasehq/showcase/internal/middleware"
	"github.com/showcasehq/showcase/internal/services"
	apperrors "github.com/showcasehq/showcase/pkg/errors"
	"github.com/showcasehq/showcase/pkg/logger"
	"github.com/showcasehq/showcase/pkg/metrics"
	"github.com/showcasehq/showcase/pkg/response"
)

// AuthHandler serves login, signup, and session endpoints for both principal types.
type AuthHandler struct {
	provider *providers.LocalProvider
	jwt      *iauth.JWTService
	users    *services.UserService
	log      *zap.Logger
}

// NewAuthHandler constructs an AuthHandler instance.
func NewAuthHandler(provider *providers.LocalProvider, jwt *iauth.JWTService, users *services.UserService) (*AuthHandler, error) {
	if provider == nil || jwt == nil || users == nil {
		return nil, errors.New("auth handler: provider, jwt, and user service are required")
	}
	return &AuthHandler{
		provider: provider,
		jwt:      jwt,
		users:    users,
		log:      logger.WithModule("handlers.auth"),
	}, nil
}

type adminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type userLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type userSignupRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// authError converts provider failures into API errors without leaking which
// check failed beyond what the taxonomy deliberately exposes.
func authError(err error) error {
	switch {
	case errors.Is(err, providers.ErrAccountLocked):
		return apperrors.ErrAccountLocked
	case errors.Is(err, providers.ErrAccountDisabled):
		return apperrors.ErrAccountDisabled
	case errors.Is(err, providers.ErrInvalidCredentials):
		return apperrors.ErrInvalidCredentials
	default:
		return apperrors.ErrInternalServer.WithInternal(err)
	}
}

func authResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, providers.ErrAccountLocked):
		return "locked"
	default:
		return "failure"
	}
}

// AdminLogin authenticates an admin and issues a bearer token.
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req adminLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	admin, err := h.provider.AuthenticateAdmin(c.Request.Context(), req.Username, req.Password)
	metrics.AuthAttempts.WithLabelValues(string(iauth.PrincipalAdmin), authResult(err)).Inc()
	if err != nil {
		h.log.Info("admin login rejected", zap.String("username", req.Username))
		response.Error(c, authError(err))
		return
	}

	token, err := h.jwt.Issue(admin.ID, iauth.PrincipalAdmin)
	if err != nil {
		response.Error(c, apperrors.ErrInternalServer.WithInternal(err))
		return
	}

	h.log.Info("admin logged in", zap.String("admin_id", admin.ID))
	response.Success(c, http.StatusOK, gin.H{
		"token": token,
		"admin": admin,
	})
}

// AdminLogout acknowledges logout. Tokens are stateless, so the client simply
// discards its copy; there is no server-side session to destroy.
func (h *AuthHandler) AdminLogout(c *gin.Context) {
	if admin, ok := middleware.AdminFromContext(c); ok {
		h.log.Info("admin logged out", zap.String("admin_id", admin.ID))
	}
	response.Success(c, http.StatusOK, gin.H{"message": "logged out"})
}

// UserSignup registers a new unapproved user account.
func (h *AuthHandler) UserSignup(c *gin.Context) {
	var req userSignupRequest
	if err := bindAndValidate(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	user, err := h.users.Register(c.Request.Context(), services.RegisterUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	h.log.Info("user registered", zap.String("user_id", user.ID))
	response.Success(c, http.StatusCreated, user)
}

// UserLogin authenticates an end user and issues a bearer token.
func (h *AuthHandler) UserLogin(c *gin.Context) {
	var req userLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	user, err := h.provider.AuthenticateUser(c.Request.Context(), req.Email, req.Password)
	metrics.AuthAttempts.WithLabelValues(string(iauth.PrincipalUser), authResult(err)).Inc()
	if err != nil {
		response.Error(c, authError(err))
		return
	}

	token, err := h.jwt.Issue(user.ID, iauth.PrincipalUser)
	if err != nil {
		response.Error(c, apperrors.ErrInternalServer.WithInternal(err))
		return
	}

	h.log.Info("user logged in", zap.String("user_id", user.ID))
	response.Success(c, http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

// UserMe returns the authenticated user's own account.
func (h *AuthHandler) UserMe(c *gin.Context) {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		response.Error(c, apperrors.ErrUnauthorized)
		return
	}
	response.Success(c, http.StatusOK, user)
}
