package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/dig"

	"parcelbee-client/internal/adapters/distance"
	"parcelbee-client/internal/apperr"
	"parcelbee-client/internal/config"
	"parcelbee-client/internal/gateway/api"
	"parcelbee-client/internal/http/handlers"
	mw "parcelbee-client/internal/http/middleware"
	"parcelbee-client/internal/http/middleware/ratelimit"
	"parcelbee-client/internal/http/router"
	"parcelbee-client/internal/logx"
	"parcelbee-client/internal/metrics"
	"parcelbee-client/internal/service/auth"
	"parcelbee-client/internal/service/lifecycle"
	"parcelbee-client/internal/service/pricing"
	"parcelbee-client/internal/session"
)

// ContainerBuilder is a dig container builder.
type ContainerBuilder struct {
	cfg         *config.Config
	out         io.Writer
	logOut      io.Writer
	prompter    pricing.Prompter
	openStorage func(path string) (*session.SQLiteStorage, error)
}

// NewContainerBuilder returns a builder for cfg writing to stdout and logging to stderr.
func NewContainerBuilder(cfg *config.Config) *ContainerBuilder {
	return &ContainerBuilder{
		cfg:         cfg,
		out:         os.Stdout,
		logOut:      os.Stderr,
		openStorage: session.OpenSQLite,
	}
}

// WithOutput sets where navigation notices and logs are written.
func (b *ContainerBuilder) WithOutput(out, logOut io.Writer) *ContainerBuilder {
	if out != nil {
		b.out = out
	}
	if logOut != nil {
		b.logOut = logOut
	}
	return b
}

// WithPrompter enables asking the user for a distance as the last resort.
func (b *ContainerBuilder) WithPrompter(p pricing.Prompter) *ContainerBuilder {
	b.prompter = p
	return b
}

// Build builds and returns a new dig container.
func (b *ContainerBuilder) Build(ctx context.Context) (*dig.Container, error) {
	if b.cfg == nil {
		return nil, errors.New("config is nil")
	}
	container := dig.New()

	if err := registerCore(container, ctx, b.cfg, b.out, b.logOut); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerSession(container, b.openStorage); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	if err := registerGateway(container); err != nil {
		return nil, fmt.Errorf("gateway: %w", err)
	}
	if err := registerService(container, b.prompter); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	if err := registerHTTP(container); err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	return container, nil
}

type closeIn struct {
	dig.In
	Client  *api.Client
	Storage *session.SQLiteStorage
	Logger  logx.Logger
}

// Close runs a pending login redirect, closes the state database and
// flushes the logger.
func Close(container *dig.Container) error {
	var closeErr error
	err := container.Invoke(func(in closeIn) {
		in.Client.FlushRedirect()
		closeErr = in.Storage.Close()
		_ = in.Logger.Sync()
	})
	return errors.Join(err, closeErr)
}

func provideAll(container *dig.Container, providers ...any) error {
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return fmt.Errorf("provide %T: %w", provider, err)
		}
	}
	return nil
}

func registerCore(container *dig.Container, ctx context.Context, cfg *config.Config, out, logOut io.Writer) error {
	return provideAll(container,
		func() context.Context { return ctx },
		func() *config.Config { return cfg },
		func() logx.Logger { return NewLogger(cfg.Log, logOut) },
		func() *prometheus.Registry {
			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			return reg
		},
		func(reg *prometheus.Registry) (*metrics.Metrics, error) { return metrics.New(reg) },
		func(logger logx.Logger) *Navigator { return NewNavigator(out, logger) },
	)
}

func registerSession(container *dig.Container, open func(string) (*session.SQLiteStorage, error)) error {
	return provideAll(container,
		func(cfg *config.Config) (*session.SQLiteStorage, error) { return open(cfg.StatePath) },
		session.NewMemoryStorage,
		func(p *session.SQLiteStorage, s *session.MemoryStorage, nav *Navigator, logger logx.Logger) *session.Store {
			return session.NewStore(p, s, nav, logger)
		},
	)
}

func registerGateway(container *dig.Container) error {
	return provideAll(container,
		func(cfg *config.Config, store *session.Store, logger logx.Logger, m *metrics.Metrics) *api.Client {
			return api.NewClient(api.Config{
				BaseURL:       cfg.APIBaseURL,
				RedirectDelay: cfg.RedirectDelay,
			}, store, logger, m)
		},
	)
}

func newResolvers(cfg *config.Config, logger logx.Logger, prompter pricing.Prompter) []pricing.DistanceResolver {
	var resolvers []pricing.DistanceResolver
	ors, err := distance.NewORSProvider(cfg.ORS.APIKey, cfg.ORS.BaseURL, logger)
	if err == nil {
		resolvers = append(resolvers, pricing.RouteResolver{Provider: ors})
	} else {
		logger.Debug("routed distances disabled", logx.Err(err))
	}
	resolvers = append(resolvers, pricing.GreatCircleResolver{})
	if prompter != nil {
		resolvers = append(resolvers, pricing.ManualResolver{Prompter: prompter})
	}
	return resolvers
}

func newController(gw *api.Client, store *session.Store, est *pricing.Estimator, logger logx.Logger) (*lifecycle.Controller, error) {
	claims, err := store.Claims()
	if errors.Is(err, session.ErrNoToken) {
		return nil, apperr.ErrAuthenticationRequired
	}
	if err != nil {
		return nil, err
	}
	ctrl, err := lifecycle.NewController(gw, claims.Role, logger)
	if err != nil {
		return nil, err
	}
	return ctrl.WithEstimates(est), nil
}

func registerService(container *dig.Container, prompter pricing.Prompter) error {
	return provideAll(container,
		func(cfg *config.Config, logger logx.Logger) []pricing.DistanceResolver {
			return newResolvers(cfg, logger, prompter)
		},
		func(gw *api.Client, rs []pricing.DistanceResolver, logger logx.Logger, m *metrics.Metrics) *pricing.Estimator {
			return pricing.NewEstimator(gw, rs, logger, m)
		},
		func(gw *api.Client, store *session.Store, logger logx.Logger) *auth.Service {
			return auth.NewService(gw, store, logger)
		},
		newController,
		func(ctrl *lifecycle.Controller, cfg *config.Config, logger logx.Logger, m *metrics.Metrics) *lifecycle.Poller {
			return lifecycle.NewPoller(ctrl, cfg.PollInterval, logger, m)
		},
	)
}

func newRateLimitMiddleware(cfg *config.Config, logger logx.Logger, m *metrics.Metrics) *ratelimit.Middleware {
	rl := cfg.RateLimit
	var limiter ratelimit.Limiter = ratelimit.NopLimiter{}
	if rl.Enabled {
		limiter = ratelimit.NewTokenBucketLimiter(ratelimit.RealClock{}, ratelimit.Config{
			Rate:       rl.Rate,
			Burst:      rl.Burst,
			TTL:        rl.TTL,
			MaxBuckets: rl.MaxBuckets,
		})
	}
	return ratelimit.New(logger, m.ConsoleLimited, limiter)
}

type routerIn struct {
	dig.In
	Cfg        *config.Config
	Logger     logx.Logger
	Metrics    *metrics.Metrics
	Registry   *prometheus.Registry
	Base       *handlers.Handlers
	Deliveries *handlers.DeliveryHandler
	Estimates  *handlers.EstimateHandler
	Limiter    *ratelimit.Middleware
}

func newRouter(in routerIn) http.Handler {
	return router.New(router.Deps{
		Base:           in.Base,
		Deliveries:     in.Deliveries,
		Estimates:      in.Estimates,
		Logger:         in.Logger,
		Metrics:        in.Metrics,
		MetricsHandler: promhttp.HandlerFor(in.Registry, promhttp.HandlerOpts{}),
		Console:        mw.ConsoleAuth{User: in.Cfg.Console.User, Pass: in.Cfg.Console.Pass},
		Limiter:        in.Limiter,
	})
}

func registerHTTP(container *dig.Container) error {
	serverProvider := func(cfg *config.Config, mux http.Handler) *http.Server {
		return &http.Server{
			Addr:              cfg.ListenAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		}
	}
	return provideAll(container,
		handlers.New,
		func(logger logx.Logger, ctrl *lifecycle.Controller) *handlers.DeliveryHandler {
			return handlers.NewDeliveryHandler(logger, handlers.NewDeliveryController(ctrl))
		},
		func(logger logx.Logger, est *pricing.Estimator) *handlers.EstimateHandler {
			return handlers.NewEstimateHandler(logger, handlers.NewPriceEstimator(est))
		},
		newRateLimitMiddleware,
		newRouter,
		serverProvider,
	)
}
