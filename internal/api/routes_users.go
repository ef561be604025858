package api

import (
	"github.com/gin-gonic/gin"

	"github.com/showcasehq/showcase/internal/handlers"
	"github.com/showcasehq/showcase/internal/middleware"
	"github.com/showcasehq/showcase/internal/models"
)

func registerUserRoutes(api *gin.RouterGroup, users *handlers.UsersHandler, workspaces *handlers.WorkspacesHandler) {
	manageUsers := middleware.RequirePermission(models.PermissionManageUsers)

	group := api.Group("/users")
	{
		group.GET("", manageUsers, users.List)
		group.POST("/:userId/approve", manageUsers, users.Approve)

		group.POST("/:userId/workspaces", manageUsers, workspaces.Grant)
		group.GET("/:userId/workspaces", manageUsers, workspaces.ListAssignments)
		group.DELETE("/:userId/workspaces/:workspaceId", manageUsers, workspaces.Revoke)
	}
}
