package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/showcasehq/showcase/internal/models"
	appErrors "github.com/showcasehq/showcase/pkg/errors"
	"github.com/showcasehq/showcase/pkg/metrics"
	"github.com/showcasehq/showcase/pkg/response"
)

// RequireAdminRole permits the request only when the admin principal's role is
// in the allow-list. Missing principals fail closed; this should be
// unreachable behind AdminAuth but is not trusted to be.
func RequireAdminRole(roles ...models.AdminRole) gin.HandlerFunc {
	allowed := make(map[models.AdminRole]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(c *gin.Context) {
		admin, ok := AdminFromContext(c)
		if !ok {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}

		if _, ok := allowed[admin.Role]; !ok {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequirePermission permits the request when the admin principal holds the
// capability. Super admins bypass the permission set unconditionally.
func RequirePermission(perm models.AdminPermission) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin, ok := AdminFromContext(c)
		if !ok {
			metrics.PermissionChecks.WithLabelValues(string(perm), "denied").Inc()
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}

		if !admin.HasPermission(perm) {
			metrics.PermissionChecks.WithLabelValues(string(perm), "denied").Inc()
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}

		metrics.PermissionChecks.WithLabelValues(string(perm), "allowed").Inc()
		c.Next()
	}
}
