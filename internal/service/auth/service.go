package auth

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"parcelbee-client/internal/apperr"
	"parcelbee-client/internal/domain"
	"parcelbee-client/internal/gateway/api"
	"parcelbee-client/internal/logx"
)

const minPasswordLen = 6

// Result is a completed login or registration.
type Result struct {
	Message string
	User    domain.User
	Page    domain.Page
}

// Service runs the account flows and keeps the session store in step.
type Service struct {
	gw      authGateway
	session sessionStore
	logger  logx.Logger
}

// NewService creates an auth Service.
func NewService(gw authGateway, session sessionStore, logger logx.Logger) *Service {
	if logger == nil {
		logger = logx.Nop()
	}
	return &Service{gw: gw, session: session, logger: logger}
}

// PageForRole returns where a user of role lands after authenticating.
func PageForRole(role domain.Role) (domain.Page, error) {
	switch role {
	case domain.RoleCustomer:
		return domain.PageDashboard, nil
	case domain.RolePartner:
		return domain.PagePartner, nil
	case domain.RoleAdmin:
		return domain.PageAdmin, nil
	default:
		return "", fmt.Errorf("%w: %q", apperr.ErrUnknownRole, role)
	}
}

// Login authenticates and stores the token, persistently when remember is set.
// An unknown role keeps the token but yields ErrUnknownRole and no page.
func (s *Service) Login(ctx context.Context, email, password string, remember bool) (Result, error) {
	email = strings.TrimSpace(email)
	if err := validateEmail(email); err != nil {
		return Result{}, err
	}
	if password == "" {
		return Result{}, apperr.Invalidf("Please enter your password")
	}

	res, err := s.gw.Login(ctx, email, password)
	if err != nil {
		return Result{}, err
	}
	return s.complete(res, remember)
}

// RegisterInput is a sign-up form.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
	Phone    string
}

// Register creates an account. Only customers and partners may sign up; the
// token is always stored persistently.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Result, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if in.Name == "" {
		return Result{}, apperr.Invalidf("Please enter your name")
	}
	if err := validateEmail(in.Email); err != nil {
		return Result{}, err
	}
	if err := validatePassword(in.Password); err != nil {
		return Result{}, err
	}
	if in.Role != domain.RoleCustomer && in.Role != domain.RolePartner {
		return Result{}, apperr.Invalidf("Please choose customer or partner")
	}

	res, err := s.gw.Register(ctx, api.RegisterInput{
		Name:     in.Name,
		Email:    in.Email,
		Password: in.Password,
		Role:     in.Role,
		Phone:    strings.TrimSpace(in.Phone),
	})
	if err != nil {
		return Result{}, err
	}
	return s.complete(res, true)
}

func (s *Service) complete(res api.AuthResult, remember bool) (Result, error) {
	if res.Token == "" {
		return Result{}, fmt.Errorf("auth response without token: %w", apperr.ErrUnexpected)
	}
	if err := s.session.SetToken(res.Token, remember); err != nil {
		return Result{}, err
	}
	s.logger.Info("signed in",
		logx.Int64("user_id", res.User.ID),
		logx.String("role", string(res.User.Role)),
	)

	out := Result{Message: res.Message, User: res.User}
	page, err := PageForRole(res.User.Role)
	if err != nil {
		return out, err
	}
	out.Page = page
	return out, nil
}

// ForgotPassword requests a reset token. When the backend hands the token
// back it is kept for the session so ResetPassword can pick it up.
func (s *Service) ForgotPassword(ctx context.Context, email string) (message, resetToken string, err error) {
	email = strings.TrimSpace(email)
	if err := validateEmail(email); err != nil {
		return "", "", err
	}
	msg, token, err := s.gw.ForgotPassword(ctx, email)
	if err != nil {
		return "", "", err
	}
	if token != "" {
		if err := s.session.SetResetToken(token); err != nil {
			s.logger.Warn("keep reset token failed", logx.Err(err))
		}
	}
	return msg, token, nil
}

// ResetPassword sets a new password. An empty token falls back to the one
// saved by ForgotPassword.
func (s *Service) ResetPassword(ctx context.Context, token, password, confirm string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		token, _ = s.session.ResetToken()
	}
	if token == "" {
		return "", apperr.Invalidf("Reset token is required")
	}
	if err := validatePassword(password); err != nil {
		return "", err
	}
	if password != confirm {
		return "", apperr.Invalidf("Passwords do not match")
	}

	msg, err := s.gw.ResetPassword(ctx, token, password)
	if err != nil {
		return "", err
	}
	if err := s.session.ClearResetToken(); err != nil {
		s.logger.Warn("clear reset token failed", logx.Err(err))
	}
	return msg, nil
}

// Logout ends the session and sends the user to the login page.
func (s *Service) Logout() error {
	return s.session.Logout()
}

func validateEmail(email string) error {
	if email == "" {
		return apperr.Invalidf("Please enter a valid email address")
	}
	if _, err := mail.ParseAddress(email); err != nil || strings.ContainsAny(email, "<> ") {
		return apperr.Invalidf("Please enter a valid email address")
	}
	return nil
}

func validatePassword(p string) error {
	if len(p) < minPasswordLen {
		return apperr.Invalidf("Password must be at least %d characters", minPasswordLen)
	}
	return nil
}
