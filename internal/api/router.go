package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/showcasehq/showcase/internal/app"
	iauth "github.com/showcasehq/showcase/internal/auth"
	"github.com/showcasehq/showcase/internal/auth/providers"
	"github.com/showcasehq/showcase/internal/handlers"
	"github.com/showcasehq/showcase/internal/middleware"
	"github.com/showcasehq/showcase/internal/services"
)

// NewRouter builds the Gin engine, wires middleware and registers all routes.
func NewRouter(db *gorm.DB, jwt *iauth.JWTService, cfg *app.Config) (*gin.Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if jwt == nil {
		return nil, fmt.Errorf("jwt service must be provided")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config must be provided")
	}

	provider, err := providers.NewLocalProvider(db, cfg.Auth.LocalProviderConfig())
	if err != nil {
		return nil, err
	}

	adminService, err := services.NewAdminService(db, cfg.Auth.Password.BcryptCost)
	if err != nil {
		return nil, err
	}
	userService, err := services.NewUserService(db, cfg.Auth.Password.BcryptCost)
	if err != nil {
		return nil, err
	}
	workspaceService, err := services.NewWorkspaceService(db, nil)
	if err != nil {
		return nil, err
	}

	authHandler, err := handlers.NewAuthHandler(provider, jwt, userService)
	if err != nil {
		return nil, err
	}
	profileHandler, err := handlers.NewProfileHandler(adminService)
	if err != nil {
		return nil, err
	}
	usersHandler, err := handlers.NewUsersHandler(userService)
	if err != nil {
		return nil, err
	}
	workspacesHandler, err := handlers.NewWorkspacesHandler(workspaceService)
	if err != nil {
		return nil, err
	}

	// Unknown body fields are a client error, not something to silently drop.
	gin.EnableJsonDecoderDisallowUnknownFields()

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigin))

	r.NoRoute(middleware.NotFoundHandler)

	// Public endpoints
	r.GET("/health", handlers.Health(db))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	registerAuthRoutes(r, authHandler, jwt, db)

	adminAPI := r.Group("/api/admin")
	adminAPI.Use(middleware.AdminAuth(jwt, db))

	registerProfileRoutes(adminAPI, authHandler, profileHandler)
	registerUserRoutes(adminAPI, usersHandler, workspacesHandler)
	registerWorkspaceRoutes(adminAPI, workspacesHandler)

	return r, nil
}
