package router_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"parcelbee-client/internal/domain"
	"parcelbee-client/internal/http/handlers"
	mw "parcelbee-client/internal/http/middleware"
	"parcelbee-client/internal/http/middleware/ratelimit"
	"parcelbee-client/internal/http/router"
	"parcelbee-client/internal/logx"
	"parcelbee-client/internal/metrics"
	"parcelbee-client/internal/service/lifecycle"
)

type denyAll struct{}

func (denyAll) Allow(string) bool { return false }

func newRouter(t *testing.T, limiter ratelimit.Limiter) (http.Handler, *metrics.Metrics) {
	t.Helper()

	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)

	h := router.New(router.Deps{
		Base:           handlers.New(logx.Nop()),
		Deliveries:     handlers.NewDeliveryHandler(logx.Nop(), nil),
		Estimates:      handlers.NewEstimateHandler(logx.Nop(), nil),
		Logger:         logx.Nop(),
		Metrics:        m,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Console:        mw.ConsoleAuth{User: "ops", Pass: "pw"},
		Limiter:        ratelimit.New(logx.Nop(), m.ConsoleLimited, limiter),
	})
	return h, m
}

func serve(h http.Handler, method, target, remote string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	req.RemoteAddr = remote
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_BaseRoutes(t *testing.T) {
	t.Parallel()

	h, m := newRouter(t, nil)

	rec := serve(h, http.MethodGet, "/ping", "127.0.0.1:4000")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"message":"pong"}`, rec.Body.String())

	rec = serve(h, http.MethodHead, "/healthcheck", "127.0.0.1:4000")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = serve(h, http.MethodGet, "/nope", "127.0.0.1:4000")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(h, http.MethodGet, "/metrics", "127.0.0.1:4000")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "parcelbee_console_requests_total")

	require.Equal(t, float64(1), testutil.ToFloat64(m.ConsoleRequests.WithLabelValues(http.MethodGet, "/ping", "200")))
}

func TestRouter_RemoteClientNeedsCredentials(t *testing.T) {
	t.Parallel()

	h, _ := newRouter(t, nil)

	rec := serve(h, http.MethodGet, "/ping", "192.0.2.10:4000")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = "192.0.2.10:4000"
	req.SetBasicAuth("ops", "pw")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	spoofed := httptest.NewRequest(http.MethodGet, "/ping", nil)
	spoofed.RemoteAddr = "192.0.2.10:4000"
	spoofed.Header.Set("X-Real-IP", "127.0.0.1")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, spoofed)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_WriteRoutesAreThrottled(t *testing.T) {
	t.Parallel()

	h, m := newRouter(t, denyAll{})

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/deliveries"},
		{http.MethodPost, "/deliveries/refresh"},
		{http.MethodPost, "/deliveries/7/accept"},
		{http.MethodPut, "/deliveries/7/status"},
		{http.MethodPost, "/estimate"},
	} {
		rec := serve(h, tc.method, tc.path, "127.0.0.1:4000")
		require.Equal(t, http.StatusTooManyRequests, rec.Code, tc.path)
	}
	require.Equal(t, float64(5), testutil.ToFloat64(m.ConsoleLimited))

	// reads are not throttled
	rec := serve(h, http.MethodGet, "/ping", "127.0.0.1:4000")
	require.Equal(t, http.StatusOK, rec.Code)
}

type deadlineRecorder struct {
	hasDeadline bool
}

func (d *deadlineRecorder) Snapshot() lifecycle.View { return lifecycle.View{} }

func (d *deadlineRecorder) Refresh(ctx context.Context) (lifecycle.View, error) {
	_, d.hasDeadline = ctx.Deadline()
	return lifecycle.View{Role: domain.RolePartner}, nil
}

func (d *deadlineRecorder) Create(context.Context, lifecycle.CreateInput) (domain.Delivery, error) {
	return domain.Delivery{}, nil
}

func (d *deadlineRecorder) Accept(context.Context, int64) (domain.Delivery, error) {
	return domain.Delivery{}, nil
}

func (d *deadlineRecorder) UpdateStatus(context.Context, int64, domain.Status) (domain.Delivery, error) {
	return domain.Delivery{}, nil
}

func TestRouter_BackendCallsCarryNoDeadline(t *testing.T) {
	t.Parallel()

	ctrl := &deadlineRecorder{}
	h := router.New(router.Deps{
		Base:       handlers.New(logx.Nop()),
		Deliveries: handlers.NewDeliveryHandler(logx.Nop(), ctrl),
		Estimates:  handlers.NewEstimateHandler(logx.Nop(), nil),
		Logger:     logx.Nop(),
		Metrics:    metrics.NewUnregistered(),
	})

	rec := serve(h, http.MethodPost, "/deliveries/refresh", "127.0.0.1:4000")
	require.Equal(t, http.StatusOK, rec.Code)
	require.False(t, ctrl.hasDeadline)
}
