package routes

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/joshwanee/hcdc-partnership/internal/infra/config"
	"github.com/joshwanee/hcdc-partnership/internal/infra/security"
	"github.com/joshwanee/hcdc-partnership/internal/transport/http/handlers"
	"github.com/joshwanee/hcdc-partnership/internal/transport/http/middleware"
	"github.com/joshwanee/hcdc-partnership/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Auth         *usecase.AuthService
	Registration *usecase.RegistrationService
	Users        *usecase.UserService
	Colleges     *usecase.CollegeService
	Departments  *usecase.DepartmentService
	Partnerships *usecase.PartnershipService
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config       *config.AppConfig
	Logger       *zap.Logger
	RateLimiter  *middleware.RateLimiter
	Metrics      *middleware.HTTPMetrics
	Services     ServiceSet
	TokenManager *security.TokenManager
	Database     DatabaseChecker
	Cache        CacheChecker
}

// DatabaseChecker exposes readiness behaviour for database connections.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// CacheChecker exposes readiness behaviour for cache backends.
type CacheChecker interface {
	HealthCheck(ctx context.Context) error
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config != nil && deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	if deps.Config != nil && len(deps.Config.CORS.AllowedOrigins) > 0 {
		r.Use(middleware.CORS(deps.Config.CORS.AllowedOrigins))
	}
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}

	checks := map[string]handlers.Pinger{}
	if deps.Database != nil {
		checks["database"] = deps.Database.Ping
	}
	if deps.Cache != nil {
		checks["redis"] = deps.Cache.HealthCheck
	}

	healthHandler := handlers.NewHealthHandler(checks)
	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	requireAuth := middleware.RequireAuth(deps.TokenManager)
	optionalAuth := middleware.OptionalAuth(deps.TokenManager)

	api := r.Group("/api")
	{
		authGroup := api.Group("/auth")
		authHandler := handlers.NewAuthHandler(deps.Services.Auth)
		authHandler.RegisterRoutes(authGroup, rateLimitFor(deps, "auth_login_ip", loginLimit(deps))...)

		registerGroup := api.Group("/register")
		registerGroup.Use(rateLimitFor(deps, "register_ip", registerLimit(deps))...)
		registrationHandler := handlers.NewRegistrationHandler(deps.Services.Registration)
		registrationHandler.RegisterRoutes(registerGroup)

		userGroup := api.Group("/users")
		userGroup.Use(requireAuth)
		handlers.NewUserHandler(deps.Services.Users).RegisterRoutes(userGroup)

		collegeGroup := api.Group("/colleges")
		collegeGroup.Use(optionalAuth)
		handlers.NewCollegeHandler(deps.Services.Colleges).RegisterRoutes(collegeGroup)

		departmentGroup := api.Group("/departments")
		departmentGroup.Use(optionalAuth)
		handlers.NewDepartmentHandler(deps.Services.Departments).RegisterRoutes(departmentGroup)

		partnershipGroup := api.Group("/partnerships")
		partnershipGroup.Use(optionalAuth)
		handlers.NewPartnershipHandler(deps.Services.Partnerships).RegisterRoutes(partnershipGroup)

		viewingGroup := api.Group("/viewing")
		viewingHandler := handlers.NewViewingHandler(deps.Services.Colleges, deps.Services.Departments, deps.Services.Partnerships)
		viewingHandler.RegisterRoutes(viewingGroup)
	}

	return r
}

func loginLimit(deps Dependencies) int {
	if deps.Config == nil {
		return 0
	}
	return deps.Config.RateLimit.LoginMaxAttempts
}

func registerLimit(deps Dependencies) int {
	if deps.Config == nil {
		return 0
	}
	return deps.Config.RateLimit.RegisterMaxAttempts
}

func rateLimitFor(deps Dependencies, name string, limit int) []gin.HandlerFunc {
	if deps.RateLimiter == nil || limit <= 0 {
		return nil
	}

	window := time.Minute
	if deps.Config != nil && deps.Config.RateLimit.WindowDuration > 0 {
		window = deps.Config.RateLimit.WindowDuration
	}

	rule := middleware.RateLimitRule{
		Name:       name,
		Limit:      limit,
		Window:     window,
		Identifier: middleware.ClientIPIdentifier(),
	}

	return []gin.HandlerFunc{deps.RateLimiter.RateLimit(rule)}
}
