package lifecycle

import (
	"context"
	"errors"
	"sync"
	"time"

	"parcelbee-client/internal/logx"
	"parcelbee-client/internal/metrics"
)

type refresher interface {
	Refresh(ctx context.Context) (View, error)
}

// Poller refreshes the view on a fixed interval no matter what else is
// in flight. Each tick runs on its own goroutine so a hung request does not
// hold back the next one; whichever response lands last wins.
type Poller struct {
	r        refresher
	interval time.Duration
	logger   logx.Logger
	metrics  *metrics.Metrics
	onView   func(View)
}

// NewPoller creates a Poller.
func NewPoller(r refresher, interval time.Duration, logger logx.Logger, m *metrics.Metrics) *Poller {
	if logger == nil {
		logger = logx.Nop()
	}
	if m == nil {
		m = metrics.NewUnregistered()
	}
	return &Poller{r: r, interval: interval, logger: logger, metrics: m}
}

// OnRefresh registers fn to be called with every successfully published view.
func (p *Poller) OnRefresh(fn func(View)) *Poller {
	p.onView = fn
	return p
}

// Run refreshes immediately and then every interval until ctx is done.
// It waits for in-flight refreshes before returning ctx.Err().
func (p *Poller) Run(ctx context.Context) error {
	if p.interval <= 0 {
		return errors.New("poll interval must be positive")
	}

	var wg sync.WaitGroup
	defer wg.Wait()

	tick := func() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.refresh(ctx)
		}()
	}

	tick()
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			tick()
		}
	}
}

func (p *Poller) refresh(ctx context.Context) {
	v, err := p.r.Refresh(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		p.metrics.PollRefresh.WithLabelValues("error").Inc()
		p.logger.Warn("poll refresh failed", logx.Err(err))
		return
	}
	p.metrics.PollRefresh.WithLabelValues("ok").Inc()
	if p.onView != nil {
		p.onView(v)
	}
}
