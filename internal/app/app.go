package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/eximroyals/storefront/internal/apiclient"
	"github.com/eximroyals/storefront/internal/config"
	handler "github.com/eximroyals/storefront/internal/handler/http"
	"github.com/eximroyals/storefront/internal/session"
	"github.com/eximroyals/storefront/internal/view"
	"github.com/eximroyals/storefront/pkg/database"
	"github.com/eximroyals/storefront/pkg/health"
	"github.com/eximroyals/storefront/pkg/httpclient"
	"github.com/eximroyals/storefront/pkg/tracing"
)

const (
	serviceName    = "storefront"
	serviceVersion = "0.1.0"

	sessionCleanupInterval = 5 * time.Minute
)

// App wires together all dependencies and runs the storefront.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	httpServer     *http.Server
	rdb            *redis.Client
	tracerShutdown func(context.Context) error
	// stop ends the background loops (rate limiter and session eviction).
	stop context.CancelFunc
}

// NewApp creates a new application instance: tracing, the catalog API
// client behind a circuit breaker, the admin session store, templates and the
// HTTP router.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    serviceName,
		ServiceVersion: serviceVersion,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Catalog API client. Every call goes through one breaker.
	httpCfg := httpclient.DefaultConfig()
	httpCfg.Timeout = cfg.APITimeout
	cbCfg := httpclient.DefaultCircuitBreakerConfig("catalog-api")
	cbCfg.Timeout = cfg.BreakerTimeout
	cbCfg.FailureRatio = cfg.BreakerFailureRatio
	cbCfg.MinRequests = cfg.BreakerMinRequests
	doer := httpclient.NewCircuitBreakerClient(httpclient.New(httpCfg), cbCfg, logger)
	api := apiclient.New(doer, cfg.APIBase(), logger)

	healthHandler := health.NewHandler()
	healthHandler.RegisterNonCritical("catalog-api", apiReachable(cfg.APIBase()))

	bg, stop := context.WithCancel(context.Background())

	// Admin session store.
	var (
		store session.Store
		rdb   *redis.Client
	)
	switch cfg.SessionStore {
	case "redis":
		rdb, err = newRedis(ctx, cfg, logger)
		if err != nil {
			stop()
			_ = tracerShutdown(context.Background())
			return nil, err
		}
		healthHandler.Register("redis", database.RedisChecker(rdb))
		store = session.NewRedisStore(rdb)
	default:
		mem := session.NewMemoryStore()
		go mem.CleanupLoop(bg, sessionCleanupInterval)
		store = mem
	}

	codec := session.NewCookieCodec(session.CookieConfig{
		Secret: cfg.SessionSecret,
		TTL:    cfg.SessionTTL,
		Secure: cfg.CookieSecure,
	})
	sessions := session.NewManager(store, codec, api, cfg.SessionTTL, logger)

	views, err := view.New(cfg.MediaBase())
	if err != nil {
		stop()
		if rdb != nil {
			_ = rdb.Close()
		}
		_ = tracerShutdown(context.Background())
		return nil, fmt.Errorf("load templates: %w", err)
	}

	// Build the HTTP router with middleware and page routes.
	router := handler.NewRouter(bg, cfg,
		handler.NewGuestHandler(api, views, logger),
		handler.NewAdminHandler(api, sessions, views, cfg.MediaBase(), logger),
		sessions, views, healthHandler, logger,
	)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		httpServer:     httpServer,
		rdb:            rdb,
		tracerShutdown: tracerShutdown,
		stop:           stop,
	}, nil
}

func newRedis(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*redis.Client, error) {
	redisCfg := database.DefaultRedisConfig()
	redisCfg.Host = cfg.RedisHost
	redisCfg.Port = cfg.RedisPort
	redisCfg.Password = cfg.RedisPassword
	redisCfg.DB = cfg.RedisDB

	rdb, err := database.NewRedisClient(ctx, redisCfg)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	if err := database.RegisterPoolMetrics(prometheus.DefaultRegisterer, rdb, serviceName); err != nil {
		logger.Warn("redis pool metrics not registered", slog.String("error", err.Error()))
	}
	database.SetSlowCommandLogging(time.Duration(cfg.SlowCommandThresholdMs)*time.Millisecond, logger)

	logger.Info("connected to redis", slog.String("addr", redisCfg.Addr()))
	return rdb, nil
}

// apiReachable dials the catalog API host. The site degrades without it, so
// the check is non-critical.
func apiReachable(base string) health.Checker {
	return func(ctx context.Context) error {
		u, err := url.Parse(base)
		if err != nil {
			return fmt.Errorf("parse API base URL: %w", err)
		}
		port := u.Port()
		if port == "" {
			port = "80"
			if u.Scheme == "https" {
				port = "443"
			}
		}
		d := net.Dialer{Timeout: 2 * time.Second}
		conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(u.Hostname(), port))
		if err != nil {
			return fmt.Errorf("catalog api unreachable: %w", err)
		}
		_ = conn.Close()
		return nil
	}
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
			slog.String("api", a.cfg.APIBase()),
			slog.String("session_store", a.cfg.SessionStore),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		_ = a.Shutdown()
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops the application in order:
// 1. HTTP server (drain in-flight requests)
// 2. Background loops
// 3. Redis
// 4. Tracer (flush pending spans from drained requests)
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	a.stop()

	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
