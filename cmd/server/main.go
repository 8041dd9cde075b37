package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stwalsh4118/civitas/api/internal/config"
	"github.com/stwalsh4118/civitas/api/internal/handlers"
	"github.com/stwalsh4118/civitas/api/internal/logger"
	"github.com/stwalsh4118/civitas/api/internal/middleware"
	"github.com/stwalsh4118/civitas/api/internal/repository"
	"github.com/stwalsh4118/civitas/api/internal/services"
	"github.com/stwalsh4118/civitas/api/internal/store"
	"github.com/stwalsh4118/civitas/api/internal/token"
)

const (
	shutdownTimeout = 30 * time.Second
)

func main() {
	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.Server.Env)
	log.Info("Starting Civitas API", map[string]interface{}{
		"version":     handlers.APIVersion,
		"environment": cfg.Server.Env,
		"port":        cfg.Server.Port,
		"store":       cfg.Store.Backend,
	})

	// Open the document store
	ctx := context.Background()
	docStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to open document store", err, map[string]interface{}{
			"backend": cfg.Store.Backend,
		})
	}
	defer docStore.Close()

	// Load the document, seeding a fresh installation
	repo, err := repository.New(ctx, docStore)
	if err != nil {
		log.Fatal("Failed to load portal document", err, nil)
	}

	log.Info("Document store ready", map[string]interface{}{
		"backend": cfg.Store.Backend,
		"key":     store.DocumentKey,
	})

	// Session tokens and the optional Redis-backed logout denylist
	tokens := token.NewManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL)
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatal("Failed to connect to Redis", err, map[string]interface{}{
				"addr": cfg.Redis.Addr,
			})
		}
		defer redisClient.Close()
		log.Info("Session denylist enabled", map[string]interface{}{
			"addr": cfg.Redis.Addr,
		})
	} else {
		log.Warn("REDIS_ADDR not set; logout will not revoke session tokens", nil)
	}
	denylist := token.NewDenylist(redisClient)

	// Setup Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware in order: RequestID -> Logger -> Recovery -> CORS
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(cfg.CORS.Origins))

	// Initialize service and handler layers
	authService := services.NewAuthService(repo, tokens, denylist, log.WithComponent("auth"))
	propertyService := services.NewPropertyService(repo, log.WithComponent("property"))
	taxService := services.NewTaxService(repo, log.WithComponent("tax"))
	paymentService := services.NewPaymentService(repo, log.WithComponent("payment"))
	financeService := services.NewFinanceService(repo, log.WithComponent("finance"))
	grievanceService := services.NewGrievanceService(repo, log.WithComponent("grievance"))
	auditService := services.NewAuditService(repo)
	notificationService := services.NewNotificationService(repo)

	handlers.RegisterRoutes(router, handlers.RouterDeps{
		Tokens:        tokens,
		Denylist:      denylist,
		Health:        handlers.NewHealthHandler(docStore, cfg.Server.Env),
		Auth:          handlers.NewAuthHandler(authService),
		Properties:    handlers.NewPropertyHandler(propertyService),
		Taxes:         handlers.NewTaxHandler(taxService),
		Payments:      handlers.NewPaymentHandler(paymentService),
		Finance:       handlers.NewFinanceHandler(financeService),
		Grievances:    handlers.NewGrievanceHandler(grievanceService),
		Audit:         handlers.NewAuditHandler(auditService),
		Notifications: handlers.NewNotificationHandler(notificationService),
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server listening", map[string]interface{}{
			"port": cfg.Server.Port,
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", err, nil)
		}
	}()

	// Wait for interrupt signal (SIGINT or SIGTERM)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	log.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, map[string]interface{}{
			"timeout": shutdownTimeout.String(),
		})
	}

	log.Info("Server exited", nil)
}

// openStore builds the configured document store backend.
func openStore(ctx context.Context, cfg *config.Config) (store.DocumentStore, error) {
	switch cfg.Store.Backend {
	case config.BackendPostgres:
		return store.NewPostgresStore(ctx, cfg.Database)
	default:
		return store.NewFileStore(cfg.Store.DataPath)
	}
}
