package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"parcelbee-client/internal/http/handlers"
	mw "parcelbee-client/internal/http/middleware"
	"parcelbee-client/internal/http/middleware/ratelimit"
	"parcelbee-client/internal/logx"
	"parcelbee-client/internal/metrics"
)

// Deps groups what the console router needs.
type Deps struct {
	Base       *handlers.Handlers
	Deliveries *handlers.DeliveryHandler
	Estimates  *handlers.EstimateHandler

	Logger  logx.Logger
	Metrics *metrics.Metrics
	// MetricsHandler serves /metrics when set.
	MetricsHandler http.Handler
	Console        mw.ConsoleAuth
	// Limiter throttles the routes that call the backend. Nil disables it.
	Limiter *ratelimit.Middleware
}

// New constructs the local console handler.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	// no RealIP: LocalOnly must see the socket address, not a forwarded header
	r.Use(middleware.RequestID)
	r.Use(mw.Observability(d.Logger, d.Metrics))
	r.Use(middleware.Recoverer)
	r.Use(mw.LocalOnly(d.Console))

	r.Get("/ping", d.Base.Ping)
	r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(d.Base.HealthcheckHead))
	if d.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", d.MetricsHandler)
	}

	r.Get("/deliveries", d.Deliveries.View)
	r.Get("/estimate", d.Estimates.Latest)

	r.Group(func(r chi.Router) {
		if d.Limiter != nil {
			r.Use(d.Limiter.Handler())
		}
		r.Post("/deliveries", d.Deliveries.Create)
		r.Post("/deliveries/refresh", d.Deliveries.Refresh)
		r.Post("/deliveries/{id}/accept", d.Deliveries.Accept)
		r.Put("/deliveries/{id}/status", d.Deliveries.UpdateStatus)
		r.Post("/estimate", d.Estimates.Estimate)
	})

	r.NotFound(http.HandlerFunc(d.Base.NotFound))

	return r
}
