package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aretw0/upskill"
	"github.com/aretw0/upskill/internal/config"
	"github.com/aretw0/upskill/pkg/adapters/file"
	"github.com/aretw0/upskill/pkg/adapters/memory"
	"github.com/aretw0/upskill/pkg/adapters/mongo"
	"github.com/aretw0/upskill/pkg/adapters/postgres"
	redisadapter "github.com/aretw0/upskill/pkg/adapters/redis"
	"github.com/aretw0/upskill/pkg/adapters/sqlite"
	"github.com/aretw0/upskill/pkg/analytics"
	"github.com/aretw0/upskill/pkg/catalog"
	"github.com/aretw0/upskill/pkg/persistence/middleware"
	"github.com/aretw0/upskill/pkg/ports"
	"github.com/aretw0/upskill/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	backend "github.com/redis/go-redis/v9"
)

// LockPrefix namespaces distributed session locks in Redis.
const LockPrefix = "upskill:lock:"

// App is the wired application: engine, session manager and the stores behind them.
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	Engine   *upskill.Engine
	Sessions *session.Manager
	Leads    ports.LeadStore

	// Registry holds the application metrics. It is nil unless
	// analytics.prometheus is enabled.
	Registry *prometheus.Registry

	closers []func() error
}

// LoadCatalog returns the catalog at path, or the built-in one when path is empty.
func LoadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return cat, nil
}

// Build wires every component selected by cfg. The caller must Close the App.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *App, err error) {
	app := &App{Config: cfg, Logger: logger}
	defer func() {
		if err != nil {
			_ = app.Close()
		}
	}()

	cat, err := LoadCatalog(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}

	var client backend.UniversalClient
	if cfg.Sessions.Store == config.StoreRedis {
		rdb := backend.NewClient(&backend.Options{
			Addr:     cfg.Sessions.RedisAddr,
			Password: cfg.Sessions.RedisPassword,
			DB:       cfg.Sessions.RedisDB,
		})
		app.closers = append(app.closers, rdb.Close)
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.Sessions.RedisAddr, err)
		}
		client = rdb
	}

	if app.Leads, err = app.openLeads(ctx); err != nil {
		return nil, err
	}

	store, err := buildStateStore(cfg.Sessions, client)
	if err != nil {
		return nil, err
	}
	sessionOpts := []session.Option{session.WithLogger(logger)}
	if cfg.Sessions.LockTTL > 0 {
		sessionOpts = append(sessionOpts, session.WithLockTTL(cfg.Sessions.LockTTL))
	}
	if cfg.Sessions.DistributedLock {
		sessionOpts = append(sessionOpts, session.WithLocker(redisadapter.NewLocker(client, LockPrefix)))
	}
	app.Sessions = session.NewManager(store, sessionOpts...)

	sink, err := app.buildAnalytics(client)
	if err != nil {
		return nil, err
	}

	app.Engine, err = upskill.New(
		upskill.WithCatalog(cat),
		upskill.WithLogger(logger),
		upskill.WithLeadStore(app.Leads),
		upskill.WithAnalytics(sink),
	)
	if err != nil {
		return nil, err
	}

	logger.Debug("application wired",
		"catalog", cfg.CatalogPath,
		"session_store", cfg.Sessions.Store,
		"lead_store", cfg.Leads.Store,
		"encrypted", len(cfg.Sessions.EncryptionKeys) > 0,
	)
	return app, nil
}

func (a *App) openLeads(ctx context.Context) (ports.LeadStore, error) {
	cfg := a.Config.Leads
	switch cfg.Store {
	case config.LeadsSQLite:
		s, err := sqlite.NewLeadStore(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, s.Close)
		return s, nil
	case config.LeadsPostgres:
		s, err := postgres.Open(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, s.Close)
		return s, nil
	case config.LeadsMongo:
		s, err := mongo.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() error {
			return s.Close(context.Background())
		})
		return s, nil
	default:
		return memory.NewLeadStore(), nil
	}
}

// buildStateStore picks the session backend and wraps it with the configured
// middleware. PII scrubbing runs before encryption.
func buildStateStore(cfg config.SessionConfig, client backend.UniversalClient) (ports.StateStore, error) {
	var store ports.StateStore
	switch {
	case client != nil:
		store = redisadapter.NewFromClient(client, redisadapter.WithTTL(cfg.TTL))
	case cfg.Store == config.StoreFile:
		store = file.New(cfg.Dir)
	default:
		store = memory.NewStore()
	}

	var mws []middleware.Middleware
	if cfg.ScrubPII {
		pii, err := middleware.NewPIIMiddleware(cfg.PIIPatterns)
		if err != nil {
			return nil, err
		}
		mws = append(mws, pii)
	}

	keys, err := cfg.Keys()
	if err != nil {
		return nil, err
	}
	if len(keys) > 0 {
		enc, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey:    keys[0],
			FallbackKeys: keys[1:],
		})
		if err != nil {
			return nil, err
		}
		mws = append(mws, enc)
	}
	return middleware.Chain(store, mws...), nil
}

func (a *App) buildAnalytics(client backend.UniversalClient) (ports.AnalyticsSink, error) {
	cfg := a.Config.Analytics
	var sinks analytics.Multi

	if cfg.Log {
		sinks = append(sinks, &analytics.Log{Logger: a.Logger, Level: slog.LevelDebug})
	}
	if cfg.Prometheus {
		a.Registry = prometheus.NewRegistry()
		a.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		p, err := analytics.NewPrometheus(a.Registry)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, p)
	}
	if cfg.RedisStream != "" && client != nil {
		sinks = append(sinks, redisadapter.NewEventStream(client, cfg.RedisStream, cfg.StreamMaxLen))
	}

	if len(sinks) == 0 {
		return analytics.Nop{}, nil
	}
	return analytics.NewRedact(sinks, cfg.Redact...)
}

// MetricsHandler serves the application registry, or nil when metrics are off.
func (a *App) MetricsHandler() http.Handler {
	if a.Registry == nil {
		return nil
	}
	return promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{Registry: a.Registry})
}

// Close waits for in-flight lead and analytics calls, then releases the stores.
func (a *App) Close() error {
	if a.Engine != nil {
		a.Engine.Wait()
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
