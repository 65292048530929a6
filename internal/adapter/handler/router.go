package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	appMiddleware "github.com/Jawad-Naqvi/Call-Companion1/internal/infrastructure/http/middleware"
	"github.com/Jawad-Naqvi/Call-Companion1/internal/usecase/auth"
	"github.com/Jawad-Naqvi/Call-Companion1/pkg/config"
)

// ModelProber reports whether the language model backend has credentials
type ModelProber interface {
	IsConfigured() bool
}

// StorageProber reports object store reachability for health checks
type StorageProber interface {
	BucketInfo(ctx context.Context) (map[string]interface{}, error)
}

// Router holds all handlers
type Router struct {
	cfg             *config.Config
	authService     *auth.Service
	db              *gorm.DB
	generator       ModelProber
	storage         StorageProber
	authHandler     *Auth
	callHandler     *Call
	customerHandler *Customer
	aiHandler       *AI
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, authService *auth.Service, db *gorm.DB, generator ModelProber, storage StorageProber, authHandler *Auth, callHandler *Call, customerHandler *Customer, aiHandler *AI) *Router {
	return &Router{
		cfg:             cfg,
		authService:     authService,
		db:              db,
		generator:       generator,
		storage:         storage,
		authHandler:     authHandler,
		callHandler:     callHandler,
		customerHandler: customerHandler,
		aiHandler:       aiHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	api := e.Group("/api")
	api.GET("/health", rt.healthCheck)
	requireAuth := appMiddleware.EchoAuth(rt.authService)

	rt.setupAuthRoutes(api, requireAuth)
	rt.setupCallRoutes(api, requireAuth)
	rt.setupCustomerRoutes(api, requireAuth)
	rt.setupAIRoutes(api, requireAuth)
}

// setupAuthRoutes configures authentication routes
func (rt *Router) setupAuthRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	authGroup := g.Group("/auth")

	authGroup.POST("/signup", rt.authHandler.Signup)
	authGroup.POST("/login", rt.authHandler.Login)
	authGroup.POST("/refresh", rt.authHandler.Refresh)
	authGroup.POST("/logout", rt.authHandler.Logout, requireAuth)
	authGroup.GET("/me", rt.authHandler.Me, requireAuth)
	authGroup.GET("/employees", rt.authHandler.ListEmployees, requireAuth, appMiddleware.RequireAdmin())
}

// setupCallRoutes configures call recording routes
func (rt *Router) setupCallRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	callGroup := g.Group("/calls", requireAuth)

	callGroup.POST("/upload", rt.callHandler.Upload)
	callGroup.GET("", rt.callHandler.List)
	callGroup.GET("/:id", rt.callHandler.Get)
	callGroup.GET("/:id/audio", rt.callHandler.StreamAudio)
	callGroup.DELETE("/:id", rt.callHandler.Delete)
	callGroup.POST("/:id/transcribe", rt.callHandler.Transcribe)
	callGroup.POST("/:id/summary", rt.callHandler.Summarize)
}

// setupCustomerRoutes configures customer routes
func (rt *Router) setupCustomerRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	customerGroup := g.Group("/customers", requireAuth)

	customerGroup.GET("", rt.customerHandler.List)
	customerGroup.GET("/:id", rt.customerHandler.Get)
}

// setupAIRoutes configures chat assistant routes
func (rt *Router) setupAIRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	aiGroup := g.Group("/ai", requireAuth)

	aiGroup.POST("/chat", rt.aiHandler.Chat)
	aiGroup.GET("/chat/:customerId/messages", rt.aiHandler.Messages)
	aiGroup.GET("/ping", rt.aiHandler.Ping)
}

// healthCheck reports process status plus the configured state of the
// database, model backend and object store
func (rt *Router) healthCheck(c echo.Context) error {
	ctx := c.Request().Context()

	dbConnected := false
	if rt.db != nil {
		if sqlDB, err := rt.db.DB(); err == nil && sqlDB.PingContext(ctx) == nil {
			dbConnected = true
		}
	}

	payload := map[string]interface{}{
		"status":                "ok",
		"environment":           rt.cfg.Server.Environment,
		"database_connected":    dbConnected,
		"gemini_api_configured": rt.generator != nil && rt.generator.IsConfigured(),
	}

	if rt.storage != nil {
		if info, err := rt.storage.BucketInfo(ctx); err == nil {
			payload["storage"] = info
		} else {
			payload["storage"] = map[string]interface{}{"error": err.Error()}
		}
	}

	return c.JSON(http.StatusOK, payload)
}
