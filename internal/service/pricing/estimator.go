package pricing

import (
	"context"
	"errors"
	"strings"
	"sync"

	"parcelbee-client/internal/apperr"
	"parcelbee-client/internal/domain"
	"parcelbee-client/internal/logx"
	"parcelbee-client/internal/metrics"
)

// Estimator quotes prices from the backend and falls back to the local
// formula when the backend is unreachable.
type Estimator struct {
	remote    remoteEstimator
	resolvers []DistanceResolver
	rates     Rates
	logger    logx.Logger
	metrics   *metrics.Metrics

	mu     sync.Mutex
	latest *domain.Estimate
}

// NewEstimator creates an Estimator. remote may be nil for offline use.
func NewEstimator(remote remoteEstimator, resolvers []DistanceResolver, logger logx.Logger, m *metrics.Metrics) *Estimator {
	if logger == nil {
		logger = logx.Nop()
	}
	if m == nil {
		m = metrics.NewUnregistered()
	}
	return &Estimator{
		remote:    remote,
		resolvers: resolvers,
		rates:     DefaultRates(),
		logger:    logger,
		metrics:   m,
	}
}

// WithRates overrides the tariff used for local estimates.
func (e *Estimator) WithRates(r Rates) *Estimator {
	e.rates = r
	return e
}

func validateRequest(req Request) error {
	if strings.TrimSpace(req.PickupAddress) == "" || strings.TrimSpace(req.DropAddress) == "" || !(req.Weight > 0) {
		return apperr.Invalidf("Please enter pickup, drop and weight")
	}
	return nil
}

// Estimate returns a quote for req and remembers it as the latest one.
func (e *Estimator) Estimate(ctx context.Context, req Request) (domain.Estimate, error) {
	if err := validateRequest(req); err != nil {
		return domain.Estimate{}, err
	}
	if e.remote != nil {
		est, err := e.EstimateRemote(ctx, req)
		if err == nil {
			return est, nil
		}
		if !fallbackAllowed(err) {
			return domain.Estimate{}, err
		}
		e.logger.Warn("remote estimate failed, pricing locally", logx.Err(err))
	}
	return e.EstimateLocal(ctx, req)
}

// EstimateRemote asks the backend for a quote.
func (e *Estimator) EstimateRemote(ctx context.Context, req Request) (domain.Estimate, error) {
	est, err := e.remote.EstimatePrice(ctx, req.PickupAddress, req.DropAddress, req.Weight)
	if err != nil {
		return domain.Estimate{}, err
	}
	e.remember(est)
	return est, nil
}

// EstimateLocal resolves the distance and applies the local tariff.
func (e *Estimator) EstimateLocal(ctx context.Context, req Request) (domain.Estimate, error) {
	km, err := ResolveDistance(ctx, req, e.resolvers...)
	if err != nil {
		return domain.Estimate{}, err
	}
	est := e.rates.Estimate(km, req.Weight)
	est.Pickup, est.Drop = req.Pickup, req.Drop
	e.remember(est)
	return est, nil
}

// Latest returns the most recent successful estimate.
func (e *Estimator) Latest() (domain.Estimate, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.latest == nil {
		return domain.Estimate{}, false
	}
	return *e.latest, true
}

// Reset forgets the latest estimate. The lifecycle controller calls it once
// the estimate is attached to a created delivery.
func (e *Estimator) Reset() {
	e.mu.Lock()
	e.latest = nil
	e.mu.Unlock()
}

func (e *Estimator) remember(est domain.Estimate) {
	e.metrics.Estimates.WithLabelValues(string(est.Source)).Inc()
	e.mu.Lock()
	e.latest = &est
	e.mu.Unlock()
}

// fallbackAllowed reports whether the backend failure is one the local
// formula may paper over. Rejections of the input itself are not.
func fallbackAllowed(err error) bool {
	return errors.Is(err, apperr.ErrNetwork) ||
		errors.Is(err, apperr.ErrServer) ||
		errors.Is(err, apperr.ErrUnexpected) ||
		errors.Is(err, apperr.ErrNotFound)
}
