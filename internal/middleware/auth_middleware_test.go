package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	iauth "github.com/showcasehq/showcase/internal/auth"
	"github.com/showcasehq/showcase/internal/database/testutil"
	"github.com/showcasehq/showcase/internal/models"
)

type errorEnvelope struct {
	Success bool `json:"success"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newAuthRig(t *testing.T) (*gorm.DB, *iauth.JWTService, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.MustOpenTestDB(t)
	jwt, err := iauth.NewJWTService(iauth.JWTConfig{Secret: "middleware-test-secret", Issuer: "showcase"})
	require.NoError(t, err)

	r := gin.New()
	r.GET("/protected", AdminAuth(jwt, db), func(c *gin.Context) {
		admin, ok := AdminFromContext(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"admin": admin.Username})
	})
	r.GET("/user-protected", UserAuth(jwt, db), func(c *gin.Context) {
		user, ok := UserFromContext(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"user": user.Email})
	})

	return db, jwt, r
}

func doGet(t *testing.T, r *gin.Engine, path, token string) (*httptest.ResponseRecorder, errorEnvelope) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)

	var envelope errorEnvelope
	_ = json.Unmarshal(w.Body.Bytes(), &envelope)
	return w, envelope
}

func seedActiveAdmin(t *testing.T, db *gorm.DB) models.Admin {
	t.Helper()
	admin := models.Admin{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "irrelevant-hash",
		Role:     models.AdminRoleAdmin,
		IsActive: true,
	}
	require.NoError(t, db.Create(&admin).Error)
	return admin
}

func TestAdminAuthMissingHeader(t *testing.T) {
	_, _, r := newAuthRig(t)

	w, envelope := doGet(t, r, "/protected", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "UNAUTHORIZED", envelope.Error.Code)
	require.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
}

func TestAdminAuthMalformedToken(t *testing.T) {
	_, _, r := newAuthRig(t)

	w, envelope := doGet(t, r, "/protected", "garbage")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "TOKEN_INVALID", envelope.Error.Code)
}

func TestAdminAuthExpiredToken(t *testing.T) {
	db, _, r := newAuthRig(t)
	admin := seedActiveAdmin(t, db)

	past := time.Now().Add(-2 * iauth.DefaultTokenTTL)
	staleIssuer, err := iauth.NewJWTService(iauth.JWTConfig{
		Secret: "middleware-test-secret",
		Issuer: "showcase",
		Clock:  func() time.Time { return past },
	})
	require.NoError(t, err)

	token, err := staleIssuer.Issue(admin.ID, iauth.PrincipalAdmin)
	require.NoError(t, err)

	w, envelope := doGet(t, r, "/protected", token)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "TOKEN_EXPIRED", envelope.Error.Code)
}

func TestAdminAuthUnknownAccount(t *testing.T) {
	_, jwt, r := newAuthRig(t)

	token, err := jwt.Issue("00000000-0000-0000-0000-000000000000", iauth.PrincipalAdmin)
	require.NoError(t, err)

	w, envelope := doGet(t, r, "/protected", token)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "ACCOUNT_NOT_FOUND", envelope.Error.Code)
}

func TestAdminAuthInactiveAccount(t *testing.T) {
	db, jwt, r := newAuthRig(t)
	admin := seedActiveAdmin(t, db)
	require.NoError(t, db.Model(&admin).Update("is_active", false).Error)

	token, err := jwt.Issue(admin.ID, iauth.PrincipalAdmin)
	require.NoError(t, err)

	w, envelope := doGet(t, r, "/protected", token)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "ACCOUNT_DISABLED", envelope.Error.Code)
}

func TestAdminAuthLockedAccount(t *testing.T) {
	db, jwt, r := newAuthRig(t)
	admin := seedActiveAdmin(t, db)

	lock := time.Now().Add(time.Hour)
	require.NoError(t, db.Model(&admin).Update("lock_until", lock).Error)

	token, err := jwt.Issue(admin.ID, iauth.PrincipalAdmin)
	require.NoError(t, err)

	w, envelope := doGet(t, r, "/protected", token)
	require.Equal(t, http.StatusLocked, w.Code)
	require.Equal(t, "ACCOUNT_LOCKED", envelope.Error.Code)
}

func TestAdminAuthSuccessAttachesPrincipal(t *testing.T) {
	db, jwt, r := newAuthRig(t)
	admin := seedActiveAdmin(t, db)

	token, err := jwt.Issue(admin.ID, iauth.PrincipalAdmin)
	require.NoError(t, err)

	w, _ := doGet(t, r, "/protected", token)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "alice")
}

func TestAdminAuthRejectsUserToken(t *testing.T) {
	db, jwt, r := newAuthRig(t)

	user := models.User{Email: "bob@example.com", Password: "hash", Name: "Bob"}
	require.NoError(t, db.Create(&user).Error)

	token, err := jwt.Issue(user.ID, iauth.PrincipalUser)
	require.NoError(t, err)

	w, envelope := doGet(t, r, "/protected", token)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "TOKEN_INVALID", envelope.Error.Code)
}

func TestUserAuthSuccess(t *testing.T) {
	db, jwt, r := newAuthRig(t)

	user := models.User{Email: "bob@example.com", Password: "hash", Name: "Bob"}
	require.NoError(t, db.Create(&user).Error)

	token, err := jwt.Issue(user.ID, iauth.PrincipalUser)
	require.NoError(t, err)

	w, _ := doGet(t, r, "/user-protected", token)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "bob@example.com")
}

func TestUserAuthLockedUser(t *testing.T) {
	db, jwt, r := newAuthRig(t)

	lock := time.Now().Add(30 * time.Minute)
	user := models.User{Email: "bob@example.com", Password: "hash", Name: "Bob", LockUntil: &lock}
	require.NoError(t, db.Create(&user).Error)

	token, err := jwt.Issue(user.ID, iauth.PrincipalUser)
	require.NoError(t, err)

	w, envelope := doGet(t, r, "/user-protected", token)
	require.Equal(t, http.StatusLocked, w.Code)
	require.Equal(t, "ACCOUNT_LOCKED", envelope.Error.Code)
}
