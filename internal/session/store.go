package session

import (
	"errors"
	"fmt"

	"parcelbee-client/internal/domain"
	"parcelbee-client/internal/logx"
)

const tokenKey = "token"

// Store holds at most one auth token in exactly one of two storages.
type Store struct {
	persistent Storage
	scoped     Storage
	nav        Navigator
	logger     logx.Logger
}

// NewStore creates a Store over a persistent and a session-scoped storage.
func NewStore(persistent, scoped Storage, nav Navigator, logger logx.Logger) *Store {
	if logger == nil {
		logger = logx.Nop()
	}
	return &Store{persistent: persistent, scoped: scoped, nav: nav, logger: logger}
}

// Token returns the token, checking persistent storage first.
func (s *Store) Token() (string, bool) {
	for _, st := range []Storage{s.persistent, s.scoped} {
		v, ok, err := st.Get(tokenKey)
		if err != nil {
			s.logger.Warn("token read failed", logx.Err(err))
			continue
		}
		if ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// SetToken stores token persistently when remember is set, otherwise for the
// session only. The other storage is always cleared.
func (s *Store) SetToken(token string, remember bool) error {
	target, other := s.scoped, s.persistent
	if remember {
		target, other = s.persistent, s.scoped
	}
	if err := target.Set(tokenKey, token); err != nil {
		return fmt.Errorf("set token: %w", err)
	}
	if err := other.Remove(tokenKey); err != nil {
		return fmt.Errorf("set token: clear other storage: %w", err)
	}
	return nil
}

// ClearToken removes the token from both storages.
func (s *Store) ClearToken() error {
	return errors.Join(s.persistent.Remove(tokenKey), s.scoped.Remove(tokenKey))
}

// IsAuthenticated reports whether a token is present.
func (s *Store) IsAuthenticated() bool {
	_, ok := s.Token()
	return ok
}

// CheckAuthAndRedirect returns IsAuthenticated and, when unauthenticated and
// redirect is set, navigates to the login page.
func (s *Store) CheckAuthAndRedirect(redirect bool) bool {
	if s.IsAuthenticated() {
		return true
	}
	if redirect {
		s.navigate(domain.PageLogin)
	}
	return false
}

// Logout clears the token and navigates to the login page.
func (s *Store) Logout() error {
	err := s.ClearToken()
	s.navigate(domain.PageLogin)
	return err
}

// Navigate forwards to the configured Navigator, if any.
func (s *Store) Navigate(page domain.Page) {
	s.navigate(page)
}

func (s *Store) navigate(page domain.Page) {
	if s.nav != nil {
		s.nav.Navigate(page)
	}
}

const resetTokenKey = "reset_token"

// SetResetToken keeps a password reset token for the current session only.
func (s *Store) SetResetToken(token string) error {
	return s.scoped.Set(resetTokenKey, token)
}

// ResetToken returns the reset token saved by SetResetToken.
func (s *Store) ResetToken() (string, bool) {
	v, ok, err := s.scoped.Get(resetTokenKey)
	if err != nil || v == "" {
		return "", false
	}
	return v, ok
}

// ClearResetToken drops the saved reset token.
func (s *Store) ClearResetToken() error {
	return s.scoped.Remove(resetTokenKey)
}
