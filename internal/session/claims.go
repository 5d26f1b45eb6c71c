package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"parcelbee-client/internal/domain"
)

// ErrNoToken is returned by Claims when no token is stored.
var ErrNoToken = errors.New("no token stored")

// Claims is the payload the backend signs into its tokens.
type Claims struct {
	UserID    int64
	Email     string
	Role      domain.Role
	ExpiresAt time.Time
}

type tokenClaims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Claims decodes the stored token without verifying its signature.
// The result is informational; the backend stays the authority.
func (s *Store) Claims() (Claims, error) {
	token, ok := s.Token()
	if !ok {
		return Claims{}, ErrNoToken
	}
	return ParseClaims(token)
}

// ParseClaims decodes token without verifying its signature.
func ParseClaims(token string) (Claims, error) {
	var tc tokenClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &tc); err != nil {
		return Claims{}, fmt.Errorf("parse token claims: %w", err)
	}
	c := Claims{UserID: tc.UserID, Email: tc.Email, Role: domain.Role(tc.Role)}
	if tc.ExpiresAt != nil {
		c.ExpiresAt = tc.ExpiresAt.Time
	}
	return c, nil
}

// Expired reports whether the claims carry an expiry before now.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}
