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

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"portfolio-backend/internal/config"
	"portfolio-backend/internal/database"
	"portfolio-backend/internal/handlers"
	"portfolio-backend/internal/middleware"
	"portfolio-backend/internal/profile"
	"portfolio-backend/internal/repository"
	"portfolio-backend/internal/router"
	"portfolio-backend/internal/services"
	"portfolio-backend/internal/worker"
)

func main() {
	log.Println("🚀 Starting Portfolio Chat Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Optional PostgreSQL (chat logging) ────
	var pool *pgxpool.Pool
	var chatLogRepo *repository.ChatLogRepo
	if cfg.DatabaseURL != "" {
		var err error
		pool, err = database.NewPostgresPool(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("✗ PostgreSQL connection failed: %v", err)
		}
		defer pool.Close()

		if err := database.RunMigrations(pool, "migrations"); err != nil {
			log.Fatalf("✗ Database migration failed: %v", err)
		}

		chatLogRepo = repository.NewChatLogRepo(pool)
		log.Println("✓ PostgreSQL connected, chat logging enabled")
	} else {
		log.Println("– DATABASE_URL not set, chat logging disabled")
	}

	// ──── Step 3: Optional Redis (profile cache) ────
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		var err error
		redisClient, err = database.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.Fatalf("✗ Redis connection failed: %v", err)
		}
		defer redisClient.Close()
		log.Println("✓ Redis connected")
	}

	// ──── Step 4: Profile Loader & Chat Relay ────
	loader := profile.NewLoader(cfg.ProfilePath, redisClient, time.Duration(cfg.ProfileCacheTTLSec)*time.Second)

	streamer := services.NewGeminiStreamer(cfg.GeminiAPIKey)
	relay := services.NewRelayService(streamer, cfg.GeminiModels, time.Duration(cfg.GeminiTimeoutSec)*time.Second)
	if cfg.GeminiAPIKey == "" {
		log.Println("⚠ GEMINI_API_KEY not set, chat requests will fail until it is configured")
	}
	log.Printf("✓ Chat relay initialized (%d model candidates)", len(cfg.GeminiModels))

	// ──── Step 5: Chat Log Worker Pool ────
	var logPool *worker.Pool
	if chatLogRepo != nil {
		logPool = worker.NewPool(chatLogRepo, 2, 256)
		logPool.Start()
		log.Println("✓ Chat log worker pool started")
	}

	// ──── Step 6: Handlers & Router ────
	chatHandler := handlers.NewChatHandler(loader, relay, cfg.GeminiAPIKey, cfg.Env, logPool)

	var adminHandler *handlers.AdminHandler
	var jwtAuth *middleware.JWTAuth
	if chatLogRepo != nil && cfg.AdminJWTSecret != "" {
		adminHandler = handlers.NewAdminHandler(chatLogRepo)
		jwtAuth = middleware.NewJWTAuth(cfg.AdminJWTSecret)
		log.Println("✓ Admin stats endpoint enabled")
	}

	r := router.New(chatHandler, adminHandler, jwtAuth, cfg.FrontendURL, cfg.ChatRequestsPerMin)

	server := &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.Port),
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		// Replies stream for as long as the model talks; keep the write
		// timeout well above a normal response.
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		if logPool != nil {
			logPool.Stop()
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ Portfolio Chat Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  Chat: POST http://localhost:%s/api/chat", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
