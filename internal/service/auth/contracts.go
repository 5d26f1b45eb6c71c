package auth

import (
	"context"

	"parcelbee-client/internal/gateway/api"
)

type authGateway interface {
	Login(ctx context.Context, email, password string) (api.AuthResult, error)
	Register(ctx context.Context, in api.RegisterInput) (api.AuthResult, error)
	ForgotPassword(ctx context.Context, email string) (message, resetToken string, err error)
	ResetPassword(ctx context.Context, token, newPassword string) (string, error)
}

type sessionStore interface {
	SetToken(token string, remember bool) error
	Logout() error
	SetResetToken(token string) error
	ResetToken() (string, bool)
	ClearResetToken() error
}
