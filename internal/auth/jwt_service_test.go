package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, clock func() time.Time) *JWTService {
	t.Helper()
	svc, err := NewJWTService(JWTConfig{
		Secret: "unit-test-secret",
		Issuer: "showcase",
		Clock:  clock,
	})
	require.NoError(t, err)
	return svc
}

func TestNewJWTServiceRequiresSecret(t *testing.T) {
	_, err := NewJWTService(JWTConfig{})
	require.Error(t, err)
}

func TestIssueAndVerify(t *testing.T) {
	issued := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	current := issued
	svc := newTestService(t, func() time.Time { return current })

	token, err := svc.Issue("admin-123", PrincipalAdmin)
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "admin-123", claims.AccountID)
	require.Equal(t, PrincipalAdmin, claims.Principal)
}

func TestVerifyTokenLifetimeBoundaries(t *testing.T) {
	issued := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	current := issued
	svc := newTestService(t, func() time.Time { return current })

	token, err := svc.Issue("user-1", PrincipalUser)
	require.NoError(t, err)

	// Just inside the 24h lifetime.
	current = issued.Add(DefaultTokenTTL - time.Minute)
	_, err = svc.Verify(token)
	require.NoError(t, err)

	// Just past the lifetime.
	current = issued.Add(DefaultTokenTTL + time.Minute)
	_, err = svc.Verify(token)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyTamperedSignatureIsMalformed(t *testing.T) {
	issued := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	current := issued
	svc := newTestService(t, func() time.Time { return current })

	token, err := svc.Issue("user-1", PrincipalUser)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "." + "AAAA" + parts[2][4:]

	_, err = svc.Verify(tampered)
	require.ErrorIs(t, err, ErrTokenMalformed)

	// Tampering dominates even once the token would have expired.
	current = issued.Add(2 * DefaultTokenTTL)
	_, err = svc.Verify(tampered)
	require.ErrorIs(t, err, ErrTokenMalformed)
}

func TestVerifyGarbageAndEmptyTokens(t *testing.T) {
	svc := newTestService(t, time.Now)

	_, err := svc.Verify("")
	require.ErrorIs(t, err, ErrTokenMalformed)

	_, err = svc.Verify("not-a-jwt")
	require.ErrorIs(t, err, ErrTokenMalformed)
}

func TestVerifyRejectsForeignIssuer(t *testing.T) {
	other, err := NewJWTService(JWTConfig{Secret: "unit-test-secret", Issuer: "someone-else"})
	require.NoError(t, err)

	token, err := other.Issue("user-1", PrincipalUser)
	require.NoError(t, err)

	svc := newTestService(t, time.Now)
	_, err = svc.Verify(token)
	require.ErrorIs(t, err, ErrTokenMalformed)
}
