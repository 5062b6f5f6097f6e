package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tradecareers_backend/internal/adapters"
	"tradecareers_backend/internal/applications"
	"tradecareers_backend/internal/email"
	"tradecareers_backend/internal/events"
	"tradecareers_backend/internal/geo"
	"tradecareers_backend/internal/geocode"
	apphttp "tradecareers_backend/internal/http"
	"tradecareers_backend/internal/http/router"
	"tradecareers_backend/internal/installers"
	"tradecareers_backend/internal/jobs"
	"tradecareers_backend/internal/notification"
	"tradecareers_backend/internal/scheduler"
	"tradecareers_backend/internal/sitemap"
	"tradecareers_backend/internal/storage"
	"tradecareers_backend/internal/taxonomy"
	"tradecareers_backend/internal/uploads"
	"tradecareers_backend/platform/config"
	"tradecareers_backend/platform/db"
	"tradecareers_backend/platform/logger"
	"tradecareers_backend/platform/ratelimit"
	"tradecareers_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// ensureBucket wraps the retry logic for verifying a MinIO bucket exists.
func ensureBucket(ctx context.Context, log *logger.Logger, storageSvc storage.Service, name, bucket string) {
	if err := withRetry(ctx, log, "ensure "+name+" bucket", 5, 2*time.Second, func() error {
		return storageSvc.EnsureBucketExists(ctx, bucket)
	}); err != nil {
		log.Error("failed to ensure storage bucket exists", "error", err, "bucket", bucket)
		panic("failed to ensure storage bucket exists: " + err.Error())
	}
}

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
		return db.RunMigrations(ctx, cfg, "migrations")
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

	geoIndex, err := geo.LoadIndex()
	if err != nil {
		log.Error("failed to load city index", "error", err)
		panic("failed to load city index: " + err.Error())
	}
	log.Info("city index loaded", "cities", geoIndex.Len())

	registry, err := taxonomy.Load()
	if err != nil {
		log.Error("failed to load taxonomy", "error", err)
		panic("failed to load taxonomy: " + err.Error())
	}

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	notifyEnqueuer, closeScheduler := initNotifyScheduler(cfg, log)
	if closeScheduler != nil {
		defer closeScheduler()
	}

	sender, err := email.NewSender(cfg, log)
	if err != nil {
		log.Error("failed to initialize email sender", "error", err)
		panic("failed to initialize email sender: " + err.Error())
	}

	limiter := ratelimit.New(newRateLimitStore(cfg, log), log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification module subscribes to domain events (not HTTP-facing)
	notificationModule := notification.New(sender, notifyEnqueuer, cfg.PublicBaseURL, log)
	notificationModule.RegisterHandlers(eventBus)

	jobsModule := jobs.NewModule(pool, geoIndex, registry, cfg, eventBus, val, log)
	installersModule := installers.NewModule(pool, geoIndex, registry, cfg, val, log)

	jobDirectory := adapters.NewApplicationsJobDirectory(jobsModule.Repository())
	applicationsModule := applications.NewModule(pool, jobDirectory, eventBus, val, log)

	sitemapModule := sitemap.NewModule(cfg.PublicBaseURL, jobsModule.Repository(), installersModule.Repository(), log)

	modules := []apphttp.Module{
		jobsModule,
		installersModule,
		applicationsModule,
		sitemapModule,
	}

	if cfg.IsGeocoderEnabled() {
		modules = append(modules, geocode.NewModule(cfg, log))
	} else {
		log.Warn("OPENCAGE_API_KEY not configured; geocode proxy disabled")
	}

	if cfg.IsMinIOEnabled() {
		storageSvc, err := storage.NewMinIOService(cfg)
		if err != nil {
			log.Error("failed to initialize storage service", "error", err)
			panic("failed to initialize storage service: " + err.Error())
		}
		ensureBucket(ctx, log, storageSvc, "company-logos", cfg.GetMinioBucketCompanyLogos())
		ensureBucket(ctx, log, storageSvc, "installer-avatars", cfg.GetMinioBucketInstallerAvatars())
		ensureBucket(ctx, log, storageSvc, "resumes", cfg.GetMinioBucketResumes())
		log.Info(
			"storage service initialized",
			"companyLogosBucket", cfg.GetMinioBucketCompanyLogos(),
			"installerAvatarsBucket", cfg.GetMinioBucketInstallerAvatars(),
			"resumesBucket", cfg.GetMinioBucketResumes(),
		)
		modules = append(modules, uploads.NewModule(storageSvc, cfg, log))
	} else {
		log.Warn("MINIO_ENDPOINT not configured; uploads disabled")
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Limiter:  limiter,
		Modules:  modules,
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initNotifyScheduler(cfg config.SchedulerConfig, log *logger.Logger) (scheduler.NotifyEnqueuer, func()) {
	if !cfg.IsSchedulerEnabled() {
		log.Warn("SCHEDULER_REDIS_URL not configured; notification emails send inline")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

// newRateLimitStore prefers Redis so limits hold across replicas; without it
// a per-process store still protects a single instance.
func newRateLimitStore(cfg config.RedisConfig, log *logger.Logger) ratelimit.Store {
	if !cfg.IsRedisEnabled() {
		log.Warn("REDIS_URL not configured; using in-process rate limiting")
		return ratelimit.NewMemoryStore()
	}

	opt, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		log.Error("invalid REDIS_URL; using in-process rate limiting", "error", err)
		return ratelimit.NewMemoryStore()
	}

	return ratelimit.NewRedisStore(redis.NewClient(opt))
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
