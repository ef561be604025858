package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL defines the fallback validity period for bearer tokens.
const DefaultTokenTTL = 24 * time.Hour

// PrincipalType distinguishes which account table a token subject refers to.
type PrincipalType string

const (
	PrincipalAdmin PrincipalType = "admin"
	PrincipalUser  PrincipalType = "user"
)

// Verification failure kinds. Consumers map these onto distinct 401 responses:
// an expired token invites re-login, anything else is rejected as invalid.
var (
	ErrTokenExpired   = errors.New("jwt: token expired")
	ErrTokenMalformed = errors.New("jwt: token malformed or signature invalid")
)

// JWTConfig bundles the configuration required to build a JWTService.
type JWTConfig struct {
	Secret   string
	Issuer   string
	TokenTTL time.Duration
	Clock    func() time.Time
}

// Claims represents the custom claims embedded in issued tokens. The account
// identifier is the sole application claim.
type Claims struct {
	AccountID string        `json:"uid"`
	Principal PrincipalType `json:"typ"`
	jwt.RegisteredClaims
}

// JWTService issues and validates signed bearer tokens.
type JWTService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTService constructs a JWTService instance when provided with the required configuration.
func NewJWTService(cfg JWTConfig) (*JWTService, error) {
	if cfg.Secret == "" {
		return nil, errors.New("jwt: secret must be provided")
	}

	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	now := time.Now
	if cfg.Clock != nil {
		now = cfg.Clock
	}

	return &JWTService{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		ttl:    ttl,
		now:    now,
	}, nil
}

// Issue produces a signed, expiring token for the given account.
func (s *JWTService) Issue(accountID string, principal PrincipalType) (string, error) {
	if accountID == "" {
		return "", errors.New("jwt: account id is required")
	}

	now := s.now()
	claims := &Claims{
		AccountID: accountID,
		Principal: principal,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			Issuer:    s.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("jwt: sign token: %w", err)
	}

	return signed, nil
}

// Verify parses and validates a signed token, returning the application
// claims. Failures are reported as ErrTokenExpired or ErrTokenMalformed.
func (s *JWTService) Verify(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrTokenMalformed
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)

	var claims Claims
	_, err := parser.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenMalformed
	}

	if s.issuer != "" && claims.Issuer != s.issuer {
		return nil, ErrTokenMalformed
	}

	if claims.AccountID == "" {
		return nil, ErrTokenMalformed
	}

	return &claims, nil
}
