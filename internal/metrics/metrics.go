package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the client-side collectors.
type Metrics struct {
	APICalls     *prometheus.CounterVec
	APIDuration  *prometheus.HistogramVec
	PollRefresh  *prometheus.CounterVec
	Estimates    *prometheus.CounterVec
	SessionEnded prometheus.Counter

	ConsoleRequests *prometheus.CounterVec
	ConsoleDuration *prometheus.HistogramVec
	ConsoleLimited  prometheus.Counter
}

// New creates the collectors and registers them on reg.
// A nil reg leaves them unregistered, which is what tests want.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		APICalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "parcelbee_api_calls_total",
			Help: "Total number of backend API calls by endpoint, method and outcome",
		}, []string{"endpoint", "method", "outcome"}),
		APIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "parcelbee_api_call_duration_seconds",
			Help:    "Duration of backend API calls",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint", "method"}),
		PollRefresh: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "parcelbee_poll_refresh_total",
			Help: "Total number of periodic delivery list refreshes by outcome",
		}, []string{"outcome"}),
		Estimates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "parcelbee_price_estimates_total",
			Help: "Total number of price estimates by source",
		}, []string{"source"}),
		SessionEnded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "parcelbee_session_expired_total",
			Help: "Total number of sessions cleared after a 401 response",
		}),
		ConsoleRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "parcelbee_console_requests_total",
			Help: "Total number of local console HTTP requests",
		}, []string{"method", "path", "status"}),
		ConsoleDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "parcelbee_console_request_duration_seconds",
			Help:    "Duration of local console HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		ConsoleLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "parcelbee_console_rate_limited_total",
			Help: "Total number of console requests rejected by the rate limiter",
		}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{
		m.APICalls, m.APIDuration, m.PollRefresh, m.Estimates, m.SessionEnded,
		m.ConsoleRequests, m.ConsoleDuration, m.ConsoleLimited,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// NewUnregistered returns collectors that are not registered anywhere.
func NewUnregistered() *Metrics {
	m, _ := New(nil)
	return m
}
