package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/Jawad-Naqvi/Call-Companion1/pkg/validator"

	"github.com/Jawad-Naqvi/Call-Companion1/internal/adapter/handler"
	"github.com/Jawad-Naqvi/Call-Companion1/internal/adapter/repository"
	"github.com/Jawad-Naqvi/Call-Companion1/internal/infrastructure/cache"
	"github.com/Jawad-Naqvi/Call-Companion1/internal/infrastructure/database"
	"github.com/Jawad-Naqvi/Call-Companion1/internal/infrastructure/storage"
	aiuse "github.com/Jawad-Naqvi/Call-Companion1/internal/usecase/ai"
	"github.com/Jawad-Naqvi/Call-Companion1/internal/usecase/auth"
	calluse "github.com/Jawad-Naqvi/Call-Companion1/internal/usecase/call"
	pkgai "github.com/Jawad-Naqvi/Call-Companion1/pkg/ai"
	"github.com/Jawad-Naqvi/Call-Companion1/pkg/config"
	"github.com/Jawad-Naqvi/Call-Companion1/pkg/jwt"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "Set-Cookie", "Cookie"},
		AllowCredentials: true,
	}))

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	// Apply pending migrations only when explicitly enabled in config.
	// Production deployments should run sql-migrate from CI/CD instead.
	if cfg.Database.AutoMigrate {
		log.Println("🔄 Applying database migrations...")
		if err := database.Migrate(db); err != nil {
			log.Fatalf("Failed to apply migrations: %v", err)
		}
	} else {
		log.Println("🔄 Skipping migrations; run sql-migrate from CI/CD")
	}

	// Initialize cache. Redis is optional; chat context caching falls
	// back to an in-process store when it is disabled.
	var cacheStore cache.Store
	if cfg.Redis.Enabled {
		log.Println("📦 Connecting to Redis...")
		redisStore, err := cache.NewRedisStore(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		cacheStore = redisStore
	} else {
		log.Println("📦 Redis disabled, using in-memory cache")
		cacheStore = cache.NewMemoryStore()
	}
	defer cacheStore.Close()

	// Initialize object storage
	log.Println("🗄️  Connecting to object storage...")
	audioStore, err := storage.NewAudioStore(&cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	userRepo := repository.NewUserRepository(db)
	callRepo := repository.NewCallRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	transcriptRepo := repository.NewTranscriptRepository(db)
	summaryRepo := repository.NewSummaryRepository(db)
	jobRepo := repository.NewJobRepository(db)
	chatRepo := repository.NewChatRepository(db)

	// Initialize AI clients
	log.Println("🤖 Initializing AI components...")
	whisperClient := pkgai.NewWhisperClient(&cfg.OpenAI)
	geminiClient := pkgai.NewGeminiClient(&cfg.Gemini)

	// Initialize JWT manager
	log.Println("🔑 Initializing JWT manager...")
	jwtManager := jwt.NewManager(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	// Initialize services
	log.Println("✨ Initializing services...")
	authService := auth.NewService(userRepo, jwtManager)
	callService := calluse.NewService(callRepo, customerRepo, transcriptRepo, summaryRepo, jobRepo, audioStore, &cfg.AI, logger)
	chatService := aiuse.NewChatService(chatRepo, summaryRepo, customerRepo, geminiClient, cacheStore, logger)

	// Initialize the background processor for transcription and summary jobs
	log.Println("👷 Starting AI job workers...")
	processor := aiuse.NewProcessor(
		callRepo,
		transcriptRepo,
		summaryRepo,
		jobRepo,
		audioStore,
		whisperClient,
		geminiClient,
		cacheStore,
		&cfg.AI,
		logger,
	)
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	if err := processor.StartWorkerPool(workerCtx, cfg.AI.WorkerCount); err != nil {
		log.Fatalf("Failed to start worker pool: %v", err)
	}

	// Initialize handlers
	log.Println("🚀 Initializing handlers...")
	authHandler := handler.NewAuth(authService, logger)
	callHandler := handler.NewCall(callService, logger)
	customerHandler := handler.NewCustomer(callService, logger)
	aiHandler := handler.NewAI(chatService, logger)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(cfg, authService, db, geminiClient, audioStore, authHandler, callHandler, customerHandler, aiHandler)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	if err := processor.StopWorkerPool(); err != nil {
		log.Printf("⚠️  Worker pool shutdown: %v", err)
	}
	stopWorkers()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
