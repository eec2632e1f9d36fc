package routes

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/arklim/cinema-booking/internal/core/policy"
	"github.com/arklim/cinema-booking/internal/infra/config"
	"github.com/arklim/cinema-booking/internal/transport/http/handlers"
	"github.com/arklim/cinema-booking/internal/transport/http/middleware"
	"github.com/arklim/cinema-booking/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Auth    *usecase.AuthService
	Users   *usecase.UserService
	Movies  *usecase.MovieService
	Tickets *usecase.TicketService
}

// DatabaseChecker exposes readiness behaviour for database connections.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// CacheChecker exposes readiness behaviour for cache backends.
type CacheChecker interface {
	HealthCheck(ctx context.Context) error
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config      *config.AppConfig
	Logger      *zap.Logger
	Verifier    middleware.PrincipalVerifier
	RateLimiter *middleware.RateLimiter
	Metrics     *middleware.HTTPMetrics
	Services    ServiceSet
	Database    DatabaseChecker
	Cache       CacheChecker
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.CORS(deps.Config.App.AllowedOrigins))

	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}

	healthOptions := make([]handlers.HealthOption, 0, 2)
	if deps.Database != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("database", deps.Database.Ping))
	}
	if deps.Cache != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("redis", deps.Cache.HealthCheck))
	}

	healthHandler := handlers.NewHealthHandler(healthOptions...)
	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Readiness)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	api.Use(middleware.ResolvePrincipal(deps.Verifier))
	{
		authHandler := handlers.NewAuthHandler(deps.Services.Auth, deps.Config.JWT.AccessTokenTTL)
		authHandler.RegisterRoutes(api.Group("/auth"), loginRateLimit(deps)...)

		clientHandler := handlers.NewUserHandler(deps.Services.Users, policy.ClientUser)
		clientHandler.RegisterRoutes(api.Group("/clients"), registerRateLimit(deps)...)

		staffHandler := handlers.NewUserHandler(deps.Services.Users, policy.StaffUser)
		staffHandler.RegisterRoutes(api.Group("/staff"))

		adminHandler := handlers.NewUserHandler(deps.Services.Users, policy.AdminUser)
		adminHandler.RegisterRoutes(api.Group("/admins"))

		meHandler := handlers.NewMeHandler(deps.Services.Users)
		meHandler.RegisterRoutes(api.Group("/users"))

		movieHandler := handlers.NewMovieHandler(deps.Services.Movies)
		movieHandler.RegisterRoutes(api.Group("/movies"))

		ticketHandler := handlers.NewTicketHandler(deps.Services.Tickets)
		ticketHandler.RegisterRoutes(api.Group("/tickets"))
	}

	return r
}

func loginRateLimit(deps Dependencies) []gin.HandlerFunc {
	if deps.RateLimiter == nil {
		return nil
	}
	cfg := deps.Config.RateLimit
	if cfg.LoginMaxAttempts <= 0 || cfg.WindowDuration <= 0 {
		return nil
	}

	return []gin.HandlerFunc{deps.RateLimiter.RateLimit(middleware.RateLimitRule{
		Name:       "login",
		Limit:      cfg.LoginMaxAttempts,
		Window:     cfg.WindowDuration,
		Identifier: middleware.ClientIPIdentifier(),
	})}
}

func registerRateLimit(deps Dependencies) []gin.HandlerFunc {
	if deps.RateLimiter == nil {
		return nil
	}
	cfg := deps.Config.RateLimit
	if cfg.RegisterMaxAttempts <= 0 || cfg.WindowDuration <= 0 {
		return nil
	}

	return []gin.HandlerFunc{deps.RateLimiter.RateLimit(middleware.RateLimitRule{
		Name:       "register",
		Limit:      cfg.RegisterMaxAttempts,
		Window:     cfg.WindowDuration,
		Identifier: middleware.ClientIPIdentifier(),
	})}
}
