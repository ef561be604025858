package api

import (
	"github.com/gin-gonic/gin"

	"github.com/showcasehq/showcase/internal/handlers"
	"github.com/showcasehq/showcase/internal/middleware"
	"github.com/showcasehq/showcase/internal/models"
)

func registerWorkspaceRoutes(api *gin.RouterGroup, workspaces *handlers.WorkspacesHandler) {
	manageUsers := middleware.RequirePermission(models.PermissionManageUsers)

	group := api.Group("/workspaces")
	{
		group.POST("", manageUsers, workspaces.Create)
		group.GET("", manageUsers, workspaces.List)
		group.GET("/stats", manageUsers, workspaces.Stats)
		group.GET("/:workspaceId", manageUsers, workspaces.Get)
	}
}
