// Package app wires the service's dependencies together and owns their
// lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/AdrielVSG/ProjetoAgroTrace/internal/auth"
	"github.com/AdrielVSG/ProjetoAgroTrace/internal/config"
	"github.com/AdrielVSG/ProjetoAgroTrace/internal/event"
	handlerhttp "github.com/AdrielVSG/ProjetoAgroTrace/internal/handler/http"
	"github.com/AdrielVSG/ProjetoAgroTrace/internal/repository/postgres"
	"github.com/AdrielVSG/ProjetoAgroTrace/internal/service"
	"github.com/AdrielVSG/ProjetoAgroTrace/internal/storage"
	memorystorage "github.com/AdrielVSG/ProjetoAgroTrace/internal/storage/memory"
	s3storage "github.com/AdrielVSG/ProjetoAgroTrace/internal/storage/s3"
	"github.com/AdrielVSG/ProjetoAgroTrace/internal/stream"
	"github.com/AdrielVSG/ProjetoAgroTrace/migrations"
	"github.com/AdrielVSG/ProjetoAgroTrace/pkg/database"
	"github.com/AdrielVSG/ProjetoAgroTrace/pkg/health"
	"github.com/AdrielVSG/ProjetoAgroTrace/pkg/kafka"
	"github.com/AdrielVSG/ProjetoAgroTrace/pkg/middleware"
	"github.com/AdrielVSG/ProjetoAgroTrace/pkg/tracing"
)

const serviceName = "agrotrace-backend"

// App holds the wired service and its closable dependencies.
type App struct {
	cfg    *config.Config
	log    *slog.Logger
	server *http.Server

	pool           *pgxpool.Pool
	redisClient    *redis.Client
	kafkaProducer  *kafka.Producer
	tracerShutdown tracing.ShutdownFunc
}

// NewApp builds the application from configuration. Failures here are fatal;
// the process has nothing useful to do without its dependencies.
func NewApp(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	tracerShutdown, err := tracing.Init(ctx, tracing.Config{
		Enabled:     cfg.OTELEnabled,
		ServiceName: serviceName,
		Endpoint:    cfg.OTELEndpoint,
		SampleRatio: cfg.OTELSampleRatio,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres(), log)
	if err != nil {
		return nil, err
	}
	if err := database.RunMigrations(ctx, pool, migrations.FS, ".", log); err != nil {
		pool.Close()
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		database.NewPoolCollector(pool),
	)

	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})

	var redisClient *redis.Client
	var hub stream.Hub
	if cfg.StreamBackend == config.BackendRedis {
		redisClient, err = database.NewRedisClient(ctx, cfg.Redis())
		if err != nil {
			pool.Close()
			return nil, err
		}
		hub = stream.NewRedisHub(redisClient, log)
		healthHandler.RegisterCritical("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	} else {
		hub = stream.NewMemoryHub()
	}

	var publisher event.Publisher = event.NoopPublisher{}
	var kafkaProducer *kafka.Producer
	if cfg.KafkaEnabled {
		kafkaProducer = kafka.NewProducer(cfg.KafkaBrokers, log)
		publisher = event.NewKafkaPublisher(kafkaProducer)
		healthHandler.RegisterNonCritical("kafka", kafkaProducer.Ping)
	}

	store, err := buildStorage(ctx, cfg)
	if err != nil {
		pool.Close()
		return nil, err
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	userRepo := postgres.NewUserRepository(pool)
	tokenRepo := postgres.NewRefreshTokenRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	ratingRepo := postgres.NewRatingRepository(pool)

	userSvc := service.NewUserService(userRepo, tokenRepo, jwtManager, publisher, log)
	productSvc := service.NewProductService(productRepo, ratingRepo, userRepo, publisher, hub, log)
	ratingSvc := service.NewRatingService(ratingRepo, productRepo, userRepo, publisher, log)
	mediaSvc := service.NewMediaService(store, log)

	router := handlerhttp.NewRouter(handlerhttp.RouterDeps{
		Users:          handlerhttp.NewUserHandler(userSvc, ratingSvc, log),
		Products:       handlerhttp.NewProductHandler(productSvc, log),
		Ratings:        handlerhttp.NewRatingHandler(ratingSvc, log),
		Media:          handlerhttp.NewMediaHandler(mediaSvc, log),
		Stock:          handlerhttp.NewStockHandler(hub, log),
		TokenValidator: auth.MiddlewareValidator{Manager: jwtManager},
		Health:         healthHandler,
		Metrics:        middleware.NewHTTPMetrics(registry, serviceName),
		Registry:       registry,
		Logger:         log,
		CORSOrigins:    cfg.CORSOrigins,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// No WriteTimeout: the stock stream holds connections open
		// indefinitely.
	}

	return &App{
		cfg:            cfg,
		log:            log,
		server:         server,
		pool:           pool,
		redisClient:    redisClient,
		kafkaProducer:  kafkaProducer,
		tracerShutdown: tracerShutdown,
	}, nil
}

func buildStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	switch cfg.StorageBackend {
	case config.BackendS3:
		return s3storage.New(ctx, s3storage.Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			PublicURL: cfg.S3PublicURL,
		})
	default:
		return memorystorage.New(fmt.Sprintf("http://localhost:%d/media", cfg.HTTPPort)), nil
	}
}

// Run serves HTTP until the context is cancelled, then shuts down cleanly.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.log.Info("http server listening", "addr", a.server.Addr, "environment", a.cfg.Environment)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		a.log.Info("shutdown signal received")
		return a.shutdown()
	}
}

// shutdown drains HTTP first so in-flight requests can still reach every
// dependency, then closes the dependencies.
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	var errs []error

	if err := a.server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown http server: %w", err))
	}

	if err := a.tracerShutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown tracer: %w", err))
	}

	if a.kafkaProducer != nil {
		if err := a.kafkaProducer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close kafka producer: %w", err))
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis client: %w", err))
		}
	}

	a.pool.Close()
	a.log.Info("shutdown complete")

	return errors.Join(errs...)
}
