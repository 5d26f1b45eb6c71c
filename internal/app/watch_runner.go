package app

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"go.uber.org/dig"

	"parcelbee-client/internal/apperr"
	"parcelbee-client/internal/config"
	"parcelbee-client/internal/domain"
	"parcelbee-client/internal/logx"
	"parcelbee-client/internal/service/lifecycle"
)

const shutdownTimeout = 15 * time.Second

// WatchRunner polls the delivery list and, when a listen address is
// configured, serves the local console next to it.
type WatchRunner struct {
	onView   func(lifecycle.View)
	onListen func(addr string)
	runFn    func(*dig.Container) error
}

// NewWatchRunner returns a WatchRunner calling onView with every refreshed view.
func NewWatchRunner(onView func(lifecycle.View)) *WatchRunner {
	r := &WatchRunner{onView: onView}
	r.runFn = r.run
	return r
}

// OnListen registers fn to receive the console address once it is bound.
func (r *WatchRunner) OnListen(fn func(addr string)) *WatchRunner {
	r.onListen = fn
	return r
}

// Run blocks until the container context is done or the session ends.
// Cancellation is not an error; an ended session is ErrSessionExpired.
func (r *WatchRunner) Run(container *dig.Container) error {
	err := r.runFn(container)
	if err == nil || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

type watchIn struct {
	dig.In
	Ctx    context.Context
	Cfg    *config.Config
	Logger logx.Logger
	Poller *lifecycle.Poller
	Nav    *Navigator
}

func (r *WatchRunner) run(container *dig.Container) error {
	var listen bool
	if err := container.Invoke(func(cfg *config.Config) { listen = cfg.ListenAddr != "" }); err != nil {
		return dig.RootCause(err)
	}
	// the console is only built when asked for
	var srv *http.Server
	if listen {
		if err := container.Invoke(func(s *http.Server) { srv = s }); err != nil {
			return dig.RootCause(err)
		}
	}
	err := container.Invoke(func(in watchIn) error { return r.watch(in, srv) })
	return dig.RootCause(err)
}

func (r *WatchRunner) watch(in watchIn, srv *http.Server) error {
	ctx, cancel := context.WithCancel(in.Ctx)
	defer cancel()

	var expired, serverFailed atomic.Bool
	in.Nav.OnNavigate(func(p domain.Page) {
		if p == domain.PageLogin {
			expired.Store(true)
			cancel()
		}
	})
	if r.onView != nil {
		in.Poller.OnRefresh(r.onView)
	}

	if srv != nil {
		addr, errCh, err := startServer(srv, in.Logger)
		if err != nil {
			return err
		}
		defer gracefulShutdown(srv, in.Logger, shutdownTimeout)
		if r.onListen != nil {
			r.onListen(addr.String())
		}
		go func() {
			if err, ok := <-errCh; ok && err != nil {
				in.Logger.Error("console server failed", logx.Err(err))
				serverFailed.Store(true)
				cancel()
			}
		}()
	}

	in.Logger.Info("watch started", logx.Duration("interval", in.Cfg.PollInterval))
	err := in.Poller.Run(ctx)
	in.Logger.Info("watch stopped")

	if expired.Load() {
		return apperr.ErrSessionExpired
	}
	if serverFailed.Load() {
		return errors.New("console server stopped unexpectedly")
	}
	return err
}
