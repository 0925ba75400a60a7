package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/retailhub/user-service/internal/api/handler"
	"github.com/retailhub/user-service/internal/api/middleware"
	"github.com/retailhub/user-service/internal/core/auth"
	"github.com/retailhub/user-service/internal/core/domain"
	"github.com/retailhub/user-service/internal/core/ports"
)

// Deps carries the wired dependencies the router mounts.
type Deps struct {
	Users ports.UserService
	Guard *auth.Guard
	Mongo *mongo.Database
	Redis *redis.Client
	Log   zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Users)
	profileHandler := handler.NewProfileHandler(deps.Users)
	adminHandler := handler.NewAdminHandler(deps.Users)

	authMW := middleware.Auth(deps.Guard)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Auth routes (public) ---
	e.POST("/v1/auth/register", authHandler.Register)
	e.POST("/v1/auth/login", authHandler.Login)
	e.POST("/v1/auth/refresh", authHandler.Refresh)

	// --- Profile routes (authenticated) ---
	profile := e.Group("/v1/profile", authMW)
	profile.GET("", profileHandler.Get)
	profile.PUT("", profileHandler.Update)
	profile.POST("/password", profileHandler.ChangePassword)

	// --- Admin routes (authenticated + admin role) ---
	admin := e.Group("/v1/admin", authMW, adminOnly)
	admin.GET("/users/:id", adminHandler.GetUser)
	admin.POST("/users/:id/deactivate", adminHandler.Deactivate)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}
