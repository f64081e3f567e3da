package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/jengzang/hcip-dashboard-go/internal/clock"
	"github.com/jengzang/hcip-dashboard-go/internal/errors"
	"github.com/jengzang/hcip-dashboard-go/pkg/response"
)

// ScopeRefresh allows triggering a forced reload
const ScopeRefresh = "refresh"

// subjectKey is the gin context key holding the token subject
const subjectKey = "auth.subject"

// Claims are the refresh token claims
type Claims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 refresh tokens
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	clock  clock.Clock
}

// NewTokenManager creates a token manager. An empty secret disables
// verification; Enabled reports false.
func NewTokenManager(secret, issuer string, ttl time.Duration, clk clock.Clock) *TokenManager {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &TokenManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		clock:  clk,
	}
}

// Enabled reports whether a signing secret is configured
func (m *TokenManager) Enabled() bool {
	return len(m.secret) > 0
}

// Issue mints a refresh token for subject
func (m *TokenManager) Issue(subject string) (string, error) {
	if !m.Enabled() {
		return "", errors.Wrap(errors.ErrInvalidConfig, "auth.jwt_secret is not set")
	}
	now := m.clock.Now()
	claims := Claims{
		Scope: ScopeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify parses a token and checks signature, issuer, expiry and scope
func (m *TokenManager) Verify(token string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.clock.Now),
	)
	claims := &Claims{}
	parsed, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, err.Error())
	}
	if !parsed.Valid || claims.Scope != ScopeRefresh {
		return nil, errors.Wrap(errors.ErrUnauthorized, "token lacks refresh scope")
	}
	return claims, nil
}

// RequireToken rejects requests without a valid bearer token. It passes
// every request through when the manager is disabled.
func RequireToken(m *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.Enabled() {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			response.Unauthorized(c, "Missing bearer token")
			return
		}

		claims, err := m.Verify(strings.TrimSpace(token))
		if err != nil {
			response.Unauthorized(c, "Invalid token")
			return
		}

		c.Set(subjectKey, claims.Subject)
		c.Next()
	}
}

// Subject returns the authenticated token subject, empty when auth is off
func Subject(c *gin.Context) string {
	return c.GetString(subjectKey)
}
