package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/joho/godotenv"
	pubnub "github.com/pubnub/go/v7"
	"github.com/redis/go-redis/v9"

	"github.com/farra-app/farra-api/internal/config"
	"github.com/farra-app/farra-api/internal/connect"
	"github.com/farra-app/farra-api/internal/container"
	"github.com/farra-app/farra-api/internal/middleware"
	"github.com/farra-app/farra-api/internal/models"
	"github.com/farra-app/farra-api/internal/routes"
)

func main() {
	// Load environment variables
	_ = godotenv.Load(".env.local")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup logger
	logger := setupLogger(cfg)
	logger.Info("Starting Farra API server", "environment", cfg.Environment)

	ctx := context.Background()

	// Firebase is the system of record; nothing runs without it.
	fb, err := connect.InitFirebase(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize Firebase", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to Firebase successfully", "project_id", cfg.FirebaseProjectID)

	var verifier middleware.TokenVerifier
	if fb.Auth != nil {
		verifier = connect.NewAdminVerifier(fb.Auth)
	} else {
		verifier = connect.NewJWKSVerifier(cfg.FirebaseProjectID)
	}

	// The remaining backends are optional; a missing one degrades a
	// feature instead of refusing to start.
	var redisClient *redis.Client
	if cfg.HasRedis() {
		redisClient, err = connect.NewRedisClient(cfg.RedisURL)
		if err != nil {
			logger.Warn("Redis unavailable, scan rate limiting disabled", "error", err)
			redisClient = nil
		} else {
			logger.Info("Connected to Redis successfully")
		}
	}

	var pn *pubnub.PubNub
	if cfg.HasPubNub() {
		pn = connect.InitPubNub(cfg)
		logger.Info("PubNub change fan-out enabled")
	}

	var cld *cloudinary.Cloudinary
	if cfg.HasCloudinary() {
		cld, err = connect.InitCloudinary(cfg)
		if err != nil {
			logger.Warn("Cloudinary unavailable, tickets issued without hosted QR images", "error", err)
			cld = nil
		} else {
			logger.Info("Connected to Cloudinary successfully")
		}
	}

	// Initialize dependency container
	store := models.NewRTDBStore(fb.Database)
	appContainer := container.NewContainer(logger, store, verifier, redisClient, pn, cld)

	// Setup routes
	router := routes.SetupRoutes(cfg, appContainer)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("Error closing Redis client", "error", err)
		}
	}
	if pn != nil {
		pn.Destroy()
	}

	logger.Info("Server exited")
}

func setupLogger(cfg *config.Config) *slog.Logger {
	var handler slog.Handler

	if cfg.IsProduction() {
		// JSON logging for production
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	} else {
		// Human-readable logging for development
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}

	return slog.New(handler)
}
