package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"parcelbee-client/internal/apperr"
	"parcelbee-client/internal/domain"
	"parcelbee-client/internal/service/lifecycle"
	"parcelbee-client/internal/service/pricing"
)

type stubController struct {
	view      lifecycle.View
	refreshFn func(ctx context.Context) (lifecycle.View, error)
	createFn  func(ctx context.Context, in lifecycle.CreateInput) (domain.Delivery, error)
	acceptFn  func(ctx context.Context, id int64) (domain.Delivery, error)
	updateFn  func(ctx context.Context, id int64, s domain.Status) (domain.Delivery, error)
}

func (s *stubController) Snapshot() lifecycle.View { return s.view }

func (s *stubController) Refresh(ctx context.Context) (lifecycle.View, error) {
	if s.refreshFn == nil {
		panic("Refresh not expected in this test")
	}
	return s.refreshFn(ctx)
}

func (s *stubController) Create(ctx context.Context, in lifecycle.CreateInput) (domain.Delivery, error) {
	if s.createFn == nil {
		panic("Create not expected in this test")
	}
	return s.createFn(ctx, in)
}

func (s *stubController) Accept(ctx context.Context, id int64) (domain.Delivery, error) {
	if s.acceptFn == nil {
		panic("Accept not expected in this test")
	}
	return s.acceptFn(ctx, id)
}

func (s *stubController) UpdateStatus(ctx context.Context, id int64, st domain.Status) (domain.Delivery, error) {
	if s.updateFn == nil {
		panic("UpdateStatus not expected in this test")
	}
	return s.updateFn(ctx, id, st)
}

func newDeliveryRouter(c deliveryController) http.Handler {
	h := NewDeliveryHandler(nil, c)
	r := chi.NewRouter()
	r.Get("/deliveries", h.View)
	r.Post("/deliveries", h.Create)
	r.Post("/deliveries/refresh", h.Refresh)
	r.Post("/deliveries/{id}/accept", h.Accept)
	r.Put("/deliveries/{id}/status", h.UpdateStatus)
	return r
}

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestDeliveryHandler_View(t *testing.T) {
	t.Parallel()

	price := int64(140)
	c := &stubController{view: lifecycle.View{
		Role:        domain.RolePartner,
		Available:   []domain.Delivery{{ID: 1, Status: domain.StatusPending, EstimatedPrice: &price}},
		Active:      []domain.Delivery{{ID: 2, Status: domain.StatusAccepted}},
		Past:        []domain.Delivery{{ID: 3, Status: domain.StatusDelivered, UpdatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)}},
		RefreshedAt: time.Date(2025, 1, 2, 3, 5, 0, 0, time.UTC),
	}}

	rr := serve(newDeliveryRouter(c), http.MethodGet, "/deliveries", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var body viewResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	require.Equal(t, domain.RolePartner, body.Role)
	require.Len(t, body.Available, 1)
	require.Equal(t, int64(140), *body.Available[0].EstimatedPrice)
	require.True(t, body.Active[0].CanStartTransit)
	require.True(t, body.Active[0].CanMarkDelivered)
	require.Equal(t, domain.BucketPast, body.Past[0].Bucket)
	require.NotNil(t, body.Past[0].CompletedAt)
	require.Equal(t, "Delivered", body.Past[0].StatusLabel)
}

func TestDeliveryHandler_CreateValidationMessage(t *testing.T) {
	t.Parallel()

	c := &stubController{createFn: func(_ context.Context, in lifecycle.CreateInput) (domain.Delivery, error) {
		require.Equal(t, "abc", in.Weight)
		return domain.Delivery{}, apperr.Invalidf("Please enter a valid weight (greater than 0)")
	}}

	rr := serve(newDeliveryRouter(c), http.MethodPost, "/deliveries",
		`{"pickup_address":"A","drop_address":"B","description":"box","weight":"abc"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.JSONEq(t, `{"error":"Please enter a valid weight (greater than 0)"}`, rr.Body.String())
}

func TestDeliveryHandler_CreateOK(t *testing.T) {
	t.Parallel()

	c := &stubController{createFn: func(context.Context, lifecycle.CreateInput) (domain.Delivery, error) {
		return domain.Delivery{ID: 10, Status: domain.StatusPending}, nil
	}}

	rr := serve(newDeliveryRouter(c), http.MethodPost, "/deliveries",
		`{"pickup_address":"A","drop_address":"B","description":"box","weight":"2"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
}

func TestDeliveryHandler_CreateRejectsUnknownFields(t *testing.T) {
	t.Parallel()

	rr := serve(newDeliveryRouter(&stubController{}), http.MethodPost, "/deliveries", `{"pickup":"A"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.JSONEq(t, `{"error":"invalid json"}`, rr.Body.String())
}

func TestDeliveryHandler_AcceptErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"rejected", &apperr.APIError{Kind: apperr.ErrValidation, Status: 400, Message: "Delivery is not available"}, http.StatusBadRequest, "Delivery is not available"},
		{"expired", &apperr.APIError{Kind: apperr.ErrSessionExpired, Status: 401, Message: "Your session has expired. Please login again."}, http.StatusUnauthorized, "Your session has expired. Please login again."},
		{"role", apperr.ErrForbiddenRole, http.StatusForbidden, apperr.ErrForbiddenRole.Error()},
		{"network", &apperr.NetworkError{Cause: context.DeadlineExceeded}, http.StatusBadGateway, apperr.NetworkMessage},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := &stubController{acceptFn: func(_ context.Context, id int64) (domain.Delivery, error) {
				require.Equal(t, int64(7), id)
				return domain.Delivery{}, tt.err
			}}
			rr := serve(newDeliveryRouter(c), http.MethodPost, "/deliveries/7/accept", "")
			require.Equal(t, tt.status, rr.Code)

			var body errResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
			require.Equal(t, tt.msg, body.Error)
		})
	}
}

func TestDeliveryHandler_AcceptInvalidID(t *testing.T) {
	t.Parallel()

	rr := serve(newDeliveryRouter(&stubController{}), http.MethodPost, "/deliveries/abc/accept", "")
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDeliveryHandler_UpdateStatus(t *testing.T) {
	t.Parallel()

	c := &stubController{updateFn: func(_ context.Context, id int64, s domain.Status) (domain.Delivery, error) {
		return domain.Delivery{ID: id, Status: s}, nil
	}}

	rr := serve(newDeliveryRouter(c), http.MethodPut, "/deliveries/4/status", `{"status":"in_transit"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var body deliveryDTO
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	require.Equal(t, domain.StatusInTransit, body.Status)
	require.Equal(t, "In Transit", body.StatusLabel)
}

func TestDeliveryHandler_RefreshFailure(t *testing.T) {
	t.Parallel()

	c := &stubController{refreshFn: func(context.Context) (lifecycle.View, error) {
		return lifecycle.View{}, &apperr.APIError{Kind: apperr.ErrServer, Status: 500, Message: "Server error. Please try again later."}
	}}

	rr := serve(newDeliveryRouter(c), http.MethodPost, "/deliveries/refresh", "")
	require.Equal(t, http.StatusBadGateway, rr.Code)
}

type stubEstimator struct {
	latest *domain.Estimate
	fn     func(req pricing.Request) (domain.Estimate, error)
}

func (s *stubEstimator) Estimate(_ context.Context, req pricing.Request) (domain.Estimate, error) {
	return s.fn(req)
}

func (s *stubEstimator) Latest() (domain.Estimate, bool) {
	if s.latest == nil {
		return domain.Estimate{}, false
	}
	return *s.latest, true
}

func TestEstimateHandler(t *testing.T) {
	t.Parallel()

	e := &stubEstimator{fn: func(req pricing.Request) (domain.Estimate, error) {
		require.NotNil(t, req.Pickup)
		require.Nil(t, req.Drop)
		return pricing.EstimateLocal(10, 2), nil
	}}
	h := NewEstimateHandler(nil, e)

	rr := httptest.NewRecorder()
	h.Latest(rr, httptest.NewRequest(http.MethodGet, "/estimate", nil))
	require.Equal(t, http.StatusNotFound, rr.Code)

	rr = httptest.NewRecorder()
	h.Estimate(rr, httptest.NewRequest(http.MethodPost, "/estimate",
		strings.NewReader(`{"pickup_address":"A","drop_address":"B","weight":2,"pickup_lat":1,"pickup_lng":2}`)))
	require.Equal(t, http.StatusOK, rr.Code)

	var body estimateResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	require.Equal(t, int64(140), body.EstimatedPrice)
	require.Equal(t, int64(126), body.MinRange)
	require.Equal(t, int64(154), body.MaxRange)
	require.Equal(t, "local", body.Source)
}

func TestEstimateHandler_DistanceUnavailable(t *testing.T) {
	t.Parallel()

	h := NewEstimateHandler(nil, &stubEstimator{fn: func(pricing.Request) (domain.Estimate, error) {
		return domain.Estimate{}, apperr.ErrDistanceUnavailable
	}})

	rr := httptest.NewRecorder()
	h.Estimate(rr, httptest.NewRequest(http.MethodPost, "/estimate",
		strings.NewReader(`{"pickup_address":"A","drop_address":"B","weight":2}`)))
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}
