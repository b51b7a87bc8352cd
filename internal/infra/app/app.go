package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/joshwanee/hcdc-partnership/internal/authz"
	"github.com/joshwanee/hcdc-partnership/internal/core/port"
	"github.com/joshwanee/hcdc-partnership/internal/infra/config"
	"github.com/joshwanee/hcdc-partnership/internal/infra/database"
	kafkainfra "github.com/joshwanee/hcdc-partnership/internal/infra/kafka"
	"github.com/joshwanee/hcdc-partnership/internal/infra/logger"
	redisinfra "github.com/joshwanee/hcdc-partnership/internal/infra/redis"
	"github.com/joshwanee/hcdc-partnership/internal/infra/security"
	postgresrepo "github.com/joshwanee/hcdc-partnership/internal/repository/postgres"
	redisrepo "github.com/joshwanee/hcdc-partnership/internal/repository/redis"
	"github.com/joshwanee/hcdc-partnership/internal/transport/http/middleware"
	"github.com/joshwanee/hcdc-partnership/internal/transport/http/routes"
	"github.com/joshwanee/hcdc-partnership/internal/usecase"
)

// Application owns the process-wide resources and the HTTP engine.
type Application struct {
	cfg    *config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
	pool   *pgxpool.Pool
	redis  *redisinfra.Client
}

// New wires configuration into infrastructure, repositories, services, and
// the HTTP router.
func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	redisClient, err := redisinfra.NewClient(cfg.Redis, log)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init redis: %w", err)
	}

	tokenManager, err := security.NewTokenManager(cfg.JWT.Secret, cfg.App.Name, cfg.JWT.AccessTokenTTL)
	if err != nil {
		pool.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("init token manager: %w", err)
	}

	repos := postgresrepo.NewRepositories(pool)

	var eventPublisher port.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaProducer, err := kafkainfra.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
			eventPublisher = kafkainfra.NewStubPublisher(log)
		} else {
			eventPublisher = kafkainfra.NewEventPublisher(kafkaProducer, cfg.App, log)
			log.Info("kafka event publisher initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
		}
	} else {
		log.Info("kafka brokers not configured, using stub publisher")
		eventPublisher = kafkainfra.NewStubPublisher(log)
	}

	rateLimitWindow := cfg.RateLimit.WindowDuration
	if rateLimitWindow <= 0 {
		rateLimitWindow = time.Minute
	}
	rateLimitStore := redisrepo.NewRateLimitRepository(redisClient.Client(), redisrepo.SlidingWindowConfig{
		KeyPrefix: cfg.Redis.RateLimitPrefix,
		TTL:       rateLimitWindow * 2,
	})
	rateLimiter := middleware.NewRateLimiter(rateLimitStore, log)

	refreshStore := redisrepo.NewRefreshTokenRepository(redisClient.Client(), cfg.Redis.RefreshPrefix)

	refreshTTL := cfg.JWT.RefreshTokenTTL
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}

	resolver := authz.NewResolver(log)
	engine := authz.NewEngine(log)
	passwordValidator := security.DefaultPasswordValidator()

	authService := usecase.NewAuthService(repos.Users, refreshStore, tokenManager, refreshTTL, eventPublisher)
	registrationService := usecase.NewRegistrationService(repos.Users, passwordValidator, eventPublisher)
	userService := usecase.NewUserService(repos.Users, repos.Departments, engine, passwordValidator, eventPublisher)
	collegeService := usecase.NewCollegeService(repos.Colleges, repos.Departments, resolver, engine)
	departmentService := usecase.NewDepartmentService(repos.Departments, repos.Colleges, repos.Partnerships, resolver, engine)
	partnershipService := usecase.NewPartnershipService(repos.Partnerships, repos.Departments, resolver, engine, eventPublisher)

	metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{})
	if err != nil {
		pool.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("init http metrics: %w", err)
	}

	httpEngine := routes.Register(routes.Dependencies{
		Config:       cfg,
		Logger:       log,
		RateLimiter:  rateLimiter,
		Metrics:      metrics,
		TokenManager: tokenManager,
		Database:     pool,
		Cache:        redisClient,
		Services: routes.ServiceSet{
			Auth:         authService,
			Registration: registrationService,
			Users:        userService,
			Colleges:     collegeService,
			Departments:  departmentService,
			Partnerships: partnershipService,
		},
	})

	return &Application{
		cfg:    cfg,
		engine: httpEngine,
		logger: log,
		pool:   pool,
		redis:  redisClient,
	}, nil
}

// Run serves HTTP until the context is cancelled, then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer func() {
		if a.pool != nil {
			a.pool.Close()
		}
	}()
	defer func() {
		if a.redis != nil {
			_ = a.redis.Close()
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting partnership API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}
