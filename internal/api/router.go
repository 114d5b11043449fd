package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/steambuds/portal/internal/api/handler"
	"github.com/steambuds/portal/internal/api/middleware"
	"github.com/steambuds/portal/internal/core/domain"
	"github.com/steambuds/portal/internal/core/ports"
	"github.com/steambuds/portal/internal/core/service"
	mongodb "github.com/steambuds/portal/internal/infrastructure/db/mongo"
	redisdb "github.com/steambuds/portal/internal/infrastructure/db/redis"
)

// Options carries the tunables the router needs beyond live connections.
type Options struct {
	JWTSecret  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Events     ports.EventSink
	Logger     zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("portal"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	refreshRepo := redisdb.NewRefreshTokenRepository(rdb)
	authService := service.NewAuthService(userRepo, refreshRepo, opts.Events, opts.JWTSecret, opts.AccessTTL, opts.RefreshTTL)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(authService)
	authMiddleware := middleware.Auth(opts.JWTSecret, userRepo)

	// --- Auth routes (public) ---
	e.POST("/user", authHandler.Register)
	e.POST("/login", authHandler.Login)
	e.POST("/refresh", authHandler.Refresh)
	e.DELETE("/logout", authHandler.Logout)

	// --- User routes (bearer token required) ---
	users := e.Group("", authMiddleware)
	users.GET("/users/:id", userHandler.GetUser)
	users.GET("/profiles/:id", userHandler.GetProfile)

	// --- Admin routes ---
	admin := e.Group("/admin", authMiddleware, middleware.RBAC(domain.RoleAdmin))
	admin.GET("/users", userHandler.ListUsers)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
