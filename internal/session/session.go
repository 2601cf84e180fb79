// Package session issues and verifies the role tokens used by the
// dashboards. A token names a role and, for students and maintenance
// staff, the acting id. No credentials are checked.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role is one of the dashboard roles
type Role string

const (
	RoleStudent     Role = "student"
	RoleWarden      Role = "warden"
	RoleMaintenance Role = "maintenance"
)

// IsValid checks if a role is known
func (r Role) IsValid() bool {
	switch r {
	case RoleStudent, RoleWarden, RoleMaintenance:
		return true
	}
	return false
}

const issuer = "hostel-server"

var (
	ErrInvalidRole    = errors.New("invalid role")
	ErrSubjectMissing = errors.New("role requires an id")
	ErrInvalidToken   = errors.New("invalid or expired token")
)

// Claims carried by a role token
type Claims struct {
	Role Role `json:"role"`
	jwt.RegisteredClaims
}

// Issuer signs and parses HS256 role tokens
type Issuer struct {
	secret []byte
	ttl    time.Duration
	clock  func() time.Time
}

// NewIssuer creates a token issuer
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, clock: time.Now}
}

// WithClock returns a copy of the issuer using clock for issuing and validation
func (i *Issuer) WithClock(clock func() time.Time) *Issuer {
	cp := *i
	cp.clock = clock
	return &cp
}

// Issue signs a token for role acting as subject
func (i *Issuer) Issue(role Role, subject string) (string, time.Time, error) {
	if !role.IsValid() {
		return "", time.Time{}, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	if role != RoleWarden && subject == "" {
		return "", time.Time{}, fmt.Errorf("%w: %s", ErrSubjectMissing, role)
	}

	now := i.clock()
	expires := now.Add(i.ttl)
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expires, nil
}

// Parse verifies a token and returns its claims
func (i *Issuer) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(i.clock),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if !claims.Role.IsValid() {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

type contextKey struct{}

// NewContext returns ctx carrying claims
func NewContext(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, contextKey{}, claims)
}

// FromContext returns the claims stored by NewContext
func FromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(contextKey{}).(*Claims)
	return claims, ok
}
