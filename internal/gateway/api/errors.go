package api

import (
	"encoding/json"
	"net/http"

	"parcelbee-client/internal/apperr"
	"parcelbee-client/internal/logx"
)

const (
	msgDefault        = "An error occurred. Please try again."
	msgSessionExpired = "Your session has expired. Please login again."
	msgBadCredentials = "Invalid email or password. Please try again."
	msgForbidden      = "You do not have permission to perform this action."
	msgNotFound       = "The requested resource was not found."
	msgBadRequest     = "Invalid request. Please check your input."
	msgServer         = "Server error. Please try again later."
)

type errorPayload struct {
	Error string `json:"error"`
}

// handleAPIError turns a non-success response into an APIError.
// A 401 on an authenticated call clears the session and schedules the login
// redirect. On an unauthenticated call it is a credentials rejection and
// leaves the session alone.
func (c *Client) handleAPIError(status int, raw []byte, authenticated bool) *apperr.APIError {
	var payload errorPayload
	_ = json.Unmarshal(raw, &payload)
	serverMsg := func(generic string) string {
		if payload.Error != "" {
			return payload.Error
		}
		return generic
	}

	switch {
	case status == http.StatusUnauthorized && !authenticated:
		return &apperr.APIError{Kind: apperr.ErrInvalidCredentials, Status: status, Message: serverMsg(msgBadCredentials)}
	case status == http.StatusUnauthorized:
		if err := c.session.ClearToken(); err != nil {
			c.logger.Error("clear token after 401 failed", logx.Err(err))
		}
		c.metrics.SessionEnded.Inc()
		c.scheduleRedirect()
		return &apperr.APIError{Kind: apperr.ErrSessionExpired, Status: status, Message: msgSessionExpired}
	case status == http.StatusForbidden:
		return &apperr.APIError{Kind: apperr.ErrForbidden, Status: status, Message: serverMsg(msgForbidden)}
	case status == http.StatusNotFound:
		return &apperr.APIError{Kind: apperr.ErrNotFound, Status: status, Message: serverMsg(msgNotFound)}
	case status == http.StatusBadRequest:
		return &apperr.APIError{Kind: apperr.ErrValidation, Status: status, Message: serverMsg(msgBadRequest)}
	case status >= 500:
		return &apperr.APIError{Kind: apperr.ErrServer, Status: status, Message: serverMsg(msgServer)}
	default:
		return &apperr.APIError{Kind: apperr.ErrUnexpected, Status: status, Message: serverMsg(msgDefault)}
	}
}
