package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"storefront_backend/internal/admin"
	"storefront_backend/internal/cart"
	"storefront_backend/internal/catalog"
	"storefront_backend/internal/email"
	"storefront_backend/internal/events"
	apphttp "storefront_backend/internal/http"
	"storefront_backend/internal/http/router"
	"storefront_backend/internal/orders"
	"storefront_backend/internal/pages"
	"storefront_backend/internal/scheduler"
	"storefront_backend/internal/session"
	"storefront_backend/internal/storepage"
	"storefront_backend/migrations"
	"storefront_backend/platform/config"
	"storefront_backend/platform/db"
	"storefront_backend/platform/logger"
	"storefront_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, migrations.FS)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	redisOpt, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		log.Error("invalid redis url", "error", err)
		panic("invalid redis url: " + err.Error())
	}
	redisClient := redis.NewClient(redisOpt)
	defer redisClient.Close()

	// Shopper sessions live in redis; the cart rides on them.
	sessionStore := session.NewStore(redisClient, cfg)

	eventBus := events.NewInMemoryBus(log)
	// Cart activity audit trail.
	eventBus.Subscribe(events.CartUpdated{}.EventName(), events.HandlerFunc(func(_ context.Context, event events.Event) error {
		if updated, ok := event.(events.CartUpdated); ok {
			log.Info("cart activity",
				"session_id", updated.SessionID,
				"action", updated.Action,
				"product_code", updated.ProductCode,
				"total_cents", updated.TotalCents,
			)
		}
		return nil
	}))
	val := validator.New()

	confirmations, closeConfirmations := initConfirmationScheduler(cfg, log)
	if closeConfirmations != nil {
		defer closeConfirmations()
	}

	var sender email.Sender = email.NoopSender{}
	if cfg.GetEmailEnabled() {
		sender = email.NewSMTPSender(cfg)
		log.Info("email delivery enabled", "smtp_host", cfg.GetSMTPHost())
	} else {
		log.Warn("email delivery disabled; order confirmations will be dropped")
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	adminModule := admin.NewModule(cfg, val, log)
	catalogModule := catalog.NewModule(pool, val, log)
	pagesModule := pages.NewModule(pool, val)
	ordersModule := orders.NewModule(pool, eventBus, confirmations, log)
	cartModule := cart.NewModule(catalogModule.Service(), ordersModule.Service(), eventBus, val, log)

	storeModule, err := storepage.NewModule(pagesModule.Repository(), catalogModule.Service(), cartModule.Manager(), cfg, log)
	if err != nil {
		log.Error("failed to initialize store page module", "error", err)
		panic("failed to initialize store page module: " + err.Error())
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:     cfg,
		Logger:     log,
		Health:     pool,
		EventBus:   eventBus,
		Session:    sessionStore.Middleware(),
		AdminGuard: adminModule.Guard(),
		Modules: []apphttp.Module{
			adminModule,
			catalogModule,
			pagesModule,
			ordersModule,
			cartModule,
			storeModule,
		},
	}

	engine := router.New(app)
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	worker, err := scheduler.NewWorker(cfg, sender, log)
	if err != nil {
		log.Error("failed to initialize task worker", "error", err)
		panic("failed to initialize task worker: " + err.Error())
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		log.Info("task worker started", "queue", cfg.GetAsynqQueueName())
		return worker.Run()
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		worker.Shutdown()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		panic("server error: " + err.Error())
	}
	log.Info("shutdown complete")
}

func initConfirmationScheduler(cfg config.SchedulerConfig, log *logger.Logger) (orders.ConfirmationEnqueuer, func()) {
	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Warn("task queue unavailable; order confirmations disabled", "error", err)
		return nil, nil
	}
	return client, func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
