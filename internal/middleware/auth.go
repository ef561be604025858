package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	iauth "github.com/showcasehq/showcase/internal/auth"
	"github.com/showcasehq/showcase/internal/models"
	appErrors "github.com/showcasehq/showcase/pkg/errors"
	"github.com/showcasehq/showcase/pkg/response"
)

const (
	// CtxAdminKey holds the authenticated *models.Admin principal.
	CtxAdminKey = "authAdmin"
	// CtxUserKey holds the authenticated *models.User principal.
	CtxUserKey = "authUser"
	// CtxAccountIDKey holds the verified account identifier.
	CtxAccountIDKey = "accountID"
)

// extractBearer pulls the token out of the Authorization header. Absence or a
// malformed scheme fails closed.
func extractBearer(c *gin.Context) (string, bool) {
	authz := c.GetHeader("Authorization")
	if len(authz) < 8 || !strings.EqualFold(authz[:7], "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(authz[7:])
	return token, token != ""
}

func verificationError(err error) *appErrors.AppError {
	switch {
	case errors.Is(err, iauth.ErrTokenExpired):
		return appErrors.ErrTokenExpired
	default:
		return appErrors.ErrTokenInvalid
	}
}

// AdminAuth verifies the bearer token, loads the admin account, and rejects
// inactive or locked accounts before any handler runs. One credential-store
// read per request, no caching.
func AdminAuth(jwt *iauth.JWTService, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := extractBearer(c)
		if !ok {
			c.Header("WWW-Authenticate", "Bearer")
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		claims, err := jwt.Verify(token)
		if err != nil {
			c.Header("WWW-Authenticate", "Bearer")
			response.Error(c, verificationError(err))
			c.Abort()
			return
		}

		if claims.Principal != iauth.PrincipalAdmin {
			response.Error(c, appErrors.ErrTokenInvalid)
			c.Abort()
			return
		}

		var admin models.Admin
		err = db.WithContext(c.Request.Context()).Take(&admin, "id = ?", claims.AccountID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// The token proved prior authentication, so naming the failure is safe.
			response.Error(c, appErrors.ErrAccountNotFound)
			c.Abort()
			return
		}
		if err != nil {
			response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
			c.Abort()
			return
		}

		if !admin.IsActive {
			response.Error(c, appErrors.ErrAccountDisabled)
			c.Abort()
			return
		}

		if admin.IsLocked(time.Now()) {
			response.Error(c, appErrors.ErrAccountLocked)
			c.Abort()
			return
		}

		c.Set(CtxAdminKey, &admin)
		c.Set(CtxAccountIDKey, admin.ID)

		c.Next()
	}
}

// UserAuth is the end-user counterpart of AdminAuth. Users have no active
// flag; only the lockout gate applies.
func UserAuth(jwt *iauth.JWTService, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := extractBearer(c)
		if !ok {
			c.Header("WWW-Authenticate", "Bearer")
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		claims, err := jwt.Verify(token)
		if err != nil {
			c.Header("WWW-Authenticate", "Bearer")
			response.Error(c, verificationError(err))
			c.Abort()
			return
		}

		if claims.Principal != iauth.PrincipalUser {
			response.Error(c, appErrors.ErrTokenInvalid)
			c.Abort()
			return
		}

		var user models.User
		err = db.WithContext(c.Request.Context()).Take(&user, "id = ?", claims.AccountID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, appErrors.ErrAccountNotFound)
			c.Abort()
			return
		}
		if err != nil {
			response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
			c.Abort()
			return
		}

		if user.IsLocked(time.Now()) {
			response.Error(c, appErrors.ErrAccountLocked)
			c.Abort()
			return
		}

		c.Set(CtxUserKey, &user)
		c.Set(CtxAccountIDKey, user.ID)

		c.Next()
	}
}

// AdminFromContext returns the principal attached by AdminAuth.
func AdminFromContext(c *gin.Context) (*models.Admin, bool) {
	v, ok := c.Get(CtxAdminKey)
	if !ok {
		return nil, false
	}
	admin, ok := v.(*models.Admin)
	return admin, ok && admin != nil
}

// UserFromContext returns the principal attached by UserAuth.
func UserFromContext(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(CtxUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}
