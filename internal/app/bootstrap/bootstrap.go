package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"atelier/internal/platform/config"
	"atelier/internal/platform/db"
	"atelier/internal/platform/httpserver"
	"atelier/internal/platform/messaging"
	"atelier/internal/platform/observability"

	"golang.org/x/sync/errgroup"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

// runtime holds the infrastructure shared by every process.
type runtime struct {
	cfg       config.Config
	logger    *slog.Logger
	database  *db.Database
	bus       messaging.Bus
	telemetry observability.ShutdownFunc
}

func openRuntime(ctx context.Context, process string) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := slog.Default().With("service", cfg.ServiceName, "process", process)
	if strings.TrimSpace(cfg.DatabaseDSN) == "" {
		return nil, errors.New("DATABASE_DSN is required")
	}

	telemetry, err := observability.Setup(ctx, cfg.ServiceName, cfg.OTLPEndpoint, logger)
	if err != nil {
		return nil, err
	}

	database, err := db.Connect(ctx, db.Options{
		Driver:          cfg.DatabaseDriver,
		DSN:             cfg.DatabaseDSN,
		ApplicationName: cfg.ServiceName + "-" + process,
	})
	if err != nil {
		_ = telemetry(ctx)
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := database.Migrate(ctx, ModelSets()...); err != nil {
			_ = database.Close()
			_ = telemetry(ctx)
			return nil, err
		}
	}

	var bus messaging.Bus
	if url := strings.TrimSpace(cfg.NATSURL); url != "" {
		bus, err = messaging.NewNATSBus(url, cfg.ServiceName+"-"+process, logger)
		if err != nil {
			_ = database.Close()
			_ = telemetry(ctx)
			return nil, fmt.Errorf("connect nats: %w", err)
		}
	} else {
		logger.Warn("NATS_URL not set, using in-process bus",
			"event", "bootstrap_memory_bus",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
		bus = messaging.NewMemoryBus(logger)
	}

	return &runtime{
		cfg:       cfg,
		logger:    logger,
		database:  database,
		bus:       bus,
		telemetry: telemetry,
	}, nil
}

func (r *runtime) close(ctx context.Context) error {
	return errors.Join(
		r.bus.Close(),
		r.database.Close(),
		r.telemetry(ctx),
	)
}

type APIApp struct {
	runtime *runtime
	server  *httpserver.Server
}

func BuildAPI(ctx context.Context) (*APIApp, error) {
	rt, err := openRuntime(ctx, "api")
	if err != nil {
		return nil, err
	}
	modules := buildModules(rt.database, nil, rt.cfg, rt.logger)
	publisher := messaging.NewBreakerPublisher(rt.bus, messaging.BreakerSettings{
		Name:                "observer-feed",
		ConsecutiveFailures: rt.cfg.BreakerFailures,
		OpenFor:             rt.cfg.BreakerOpenFor,
	}, rt.logger)

	server := httpserver.New(httpserver.Modules{
		DraftArc:   modules.draftArc,
		Digest:     modules.digest,
		Market:     modules.market,
		Engagement: modules.engagement,
	}, publisher, rt.logger, normalizeAddr(rt.cfg.HTTPPort))
	return &APIApp{runtime: rt, server: server}, nil
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (a *APIApp) Run(ctx context.Context) error {
	a.runtime.logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(a.server.Start)
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})
	return group.Wait()
}

func (a *APIApp) Close(ctx context.Context) error {
	return a.runtime.close(ctx)
}

type WorkerApp struct {
	runtime *runtime
	modules modules
}

func BuildWorker(ctx context.Context) (*WorkerApp, error) {
	rt, err := openRuntime(ctx, "worker")
	if err != nil {
		return nil, err
	}
	return &WorkerApp{
		runtime: rt,
		modules: buildModules(rt.database, rt.bus, rt.cfg, rt.logger),
	}, nil
}

// Run subscribes the enabled consumers and blocks until ctx is cancelled.
func (w *WorkerApp) Run(ctx context.Context) error {
	// Subscriptions are bound to ctx, not to a group context.
	var group errgroup.Group
	if w.runtime.cfg.EnableDigestConsumer {
		group.Go(func() error { return w.modules.digest.ReviewEventConsumer.Start(ctx) })
	}
	if w.runtime.cfg.EnableResolutionConsumer {
		group.Go(func() error { return w.modules.market.DecisionConsumer.Start(ctx) })
	}
	if err := group.Wait(); err != nil {
		return err
	}

	w.runtime.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"digest_consumer", w.runtime.cfg.EnableDigestConsumer,
		"resolution_consumer", w.runtime.cfg.EnableResolutionConsumer,
	)
	<-ctx.Done()
	return nil
}

func (w *WorkerApp) Close(ctx context.Context) error {
	return w.runtime.close(ctx)
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
