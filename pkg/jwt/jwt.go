package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Scopes carried by service tokens.
const (
	ScopeCheckout = "checkout" // storefront linking payments to orders
	ScopeAdmin    = "admin"    // operator commands
)

// Claims identifies the calling service and what it may do.
type Claims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// Manager signs and verifies HS256 service tokens.
type Manager struct {
	secret string
	issuer string
}

// NewManager creates new JWT manager
func NewManager(secret, issuer string) *Manager {
	return &Manager{secret: secret, issuer: issuer}
}

// GenerateServiceToken issues a token for subject limited to scope.
func (m *Manager) GenerateServiceToken(subject, scope string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Scope: scope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.secret))
}

// ValidateToken validates and parses token
func (m *Manager) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.secret), nil
	}, jwt.WithIssuer(m.issuer))
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

// ValidateScope validates the token and requires the given scope.
// Admin tokens are accepted for every scope.
func (m *Manager) ValidateScope(tokenString, scope string) (*Claims, error) {
	claims, err := m.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.Scope != scope && claims.Scope != ScopeAdmin {
		return nil, fmt.Errorf("invalid token scope: expected %s, got %s", scope, claims.Scope)
	}

	return claims, nil
}
