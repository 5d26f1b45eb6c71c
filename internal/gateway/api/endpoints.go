package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"parcelbee-client/internal/domain"
)

// Endpoint paths relative to the base URL.
const (
	pathRegister      = "/register/"
	pathLogin         = "/login/"
	pathForgot        = "/password/forgot/"
	pathReset         = "/password/reset/"
	pathDeliveryList  = "/delivery/list/"
	pathDeliveryNew   = "/delivery/create/"
	pathPriceEstimate = "/price/estimate/"
)

// AuthResult is the outcome of a successful login or registration.
type AuthResult struct {
	Message string
	Token   string
	User    domain.User
}

// RegisterInput is the payload of a registration request.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
	Phone    string
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, email, password string) (AuthResult, error) {
	var resp authResponse
	err := c.Do(ctx, pathLogin, Options{
		Method: http.MethodPost,
		Body:   loginRequest{Email: email, Password: password},
	}, false, &resp)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{Message: resp.Message, Token: resp.Token, User: resp.User.toDomain()}, nil
}

// Register creates an account and returns its token.
func (c *Client) Register(ctx context.Context, in RegisterInput) (AuthResult, error) {
	var resp authResponse
	err := c.Do(ctx, pathRegister, Options{
		Method: http.MethodPost,
		Body: registerRequest{
			Name:     in.Name,
			Email:    in.Email,
			Password: in.Password,
			Role:     string(in.Role),
			Phone:    in.Phone,
		},
	}, false, &resp)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{Message: resp.Message, Token: resp.Token, User: resp.User.toDomain()}, nil
}

// ForgotPassword requests a reset token. The backend may echo the token back
// in development setups; it is returned as-is and may be empty.
func (c *Client) ForgotPassword(ctx context.Context, email string) (message, resetToken string, err error) {
	var resp forgotResponse
	err = c.Do(ctx, pathForgot, Options{
		Method: http.MethodPost,
		Body:   forgotRequest{Email: email},
	}, false, &resp)
	if err != nil {
		return "", "", err
	}
	return resp.Message, resp.ResetToken, nil
}

// ResetPassword sets a new password using a reset token.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	var resp messageResponse
	err := c.Do(ctx, pathReset, Options{
		Method: http.MethodPost,
		Body:   resetRequest{Token: token, NewPassword: newPassword},
	}, false, &resp)
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

// ListDeliveries fetches the deliveries visible under filter.
func (c *Client) ListDeliveries(ctx context.Context, filter domain.ListFilter) ([]domain.Delivery, error) {
	endpoint, err := listEndpoint(filter)
	if err != nil {
		return nil, err
	}
	var resp listResponse
	if err := c.Do(ctx, endpoint, Options{}, true, &resp); err != nil {
		return nil, err
	}
	out := make([]domain.Delivery, 0, len(resp.Deliveries))
	for _, d := range resp.Deliveries {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// CreateDelivery submits a new delivery request.
func (c *Client) CreateDelivery(ctx context.Context, in domain.NewDelivery) (domain.Delivery, error) {
	raw, err := c.Call(ctx, pathDeliveryNew, Options{
		Method: http.MethodPost,
		Body:   newCreateRequest(in),
	}, true)
	if err != nil {
		return domain.Delivery{}, err
	}
	return decodeDelivery(raw)
}

// AcceptDelivery claims a pending delivery for the current partner.
func (c *Client) AcceptDelivery(ctx context.Context, id int64) (domain.Delivery, error) {
	raw, err := c.Call(ctx, fmt.Sprintf("/delivery/%d/accept/", id), Options{
		Method: http.MethodPost,
	}, true)
	if err != nil {
		return domain.Delivery{}, err
	}
	return decodeDelivery(raw)
}

// UpdateDeliveryStatus moves a delivery to status.
func (c *Client) UpdateDeliveryStatus(ctx context.Context, id int64, status domain.Status) (domain.Delivery, error) {
	raw, err := c.Call(ctx, fmt.Sprintf("/delivery/%d/update-status/", id), Options{
		Method: http.MethodPut,
		Body:   updateStatusRequest{Status: string(status)},
	}, true)
	if err != nil {
		return domain.Delivery{}, err
	}
	return decodeDelivery(raw)
}

// EstimatePrice asks the backend for a quote. No token is needed.
func (c *Client) EstimatePrice(ctx context.Context, pickup, drop string, weight float64) (domain.Estimate, error) {
	var resp estimateResponse
	err := c.Do(ctx, pathPriceEstimate, Options{
		Method: http.MethodPost,
		Body:   estimateRequest{PickupAddress: pickup, DropAddress: drop, Weight: weight},
	}, false, &resp)
	if err != nil {
		return domain.Estimate{}, err
	}
	return resp.toDomain(), nil
}

func listEndpoint(filter domain.ListFilter) (string, error) {
	switch filter {
	case domain.FilterAll, "":
		return pathDeliveryList, nil
	case domain.FilterAvailable:
		return pathDeliveryList + "?status=available", nil
	case domain.FilterMine:
		return pathDeliveryList + "?status=my", nil
	default:
		return "", fmt.Errorf("unknown list filter %q", filter)
	}
}

// decodeDelivery accepts both {message, delivery} and a bare delivery object.
func decodeDelivery(raw json.RawMessage) (domain.Delivery, error) {
	var env deliveryEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return domain.Delivery{}, fmt.Errorf("decode delivery: %w", err)
	}
	body := []byte(raw)
	if len(env.Delivery) > 0 && !bytes.Equal(env.Delivery, []byte("null")) {
		body = env.Delivery
	}
	var dto deliveryDTO
	if err := json.Unmarshal(body, &dto); err != nil {
		return domain.Delivery{}, fmt.Errorf("decode delivery: %w", err)
	}
	return dto.toDomain(), nil
}
