package api

import (
	"github.com/gin-gonic/gin"

	"github.com/showcasehq/showcase/internal/handlers"
)

func registerProfileRoutes(api *gin.RouterGroup, auth *handlers.AuthHandler, profile *handlers.ProfileHandler) {
	api.GET("/profile", profile.Get)
	api.PUT("/profile", profile.Update)
	api.PUT("/change-password", profile.ChangePassword)
	api.POST("/logout", auth.AdminLogout)
}
