package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	iauth "github.com/showcasehq/showcase/internal/auth"
	"github.com/showcasehq/showcase/internal/handlers"
	"github.com/showcasehq/showcase/internal/middleware"
)

func registerAuthRoutes(r *gin.Engine, handler *handlers.AuthHandler, jwt *iauth.JWTService, db *gorm.DB) {
	r.POST("/api/admin/login", handler.AdminLogin)

	users := r.Group("/api/users")
	{
		users.POST("/signup", handler.UserSignup)
		users.POST("/login", handler.UserLogin)
		users.GET("/me", middleware.UserAuth(jwt, db), handler.UserMe)
	}
}
