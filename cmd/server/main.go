package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sheetgrader/internal/cache"
	"sheetgrader/internal/config"
	"sheetgrader/internal/repository"
	"sheetgrader/internal/service"
	"sheetgrader/internal/transport/rest"
	"sheetgrader/internal/transport/ws"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// @title Sheet Grader API
// @version 1.0
// @description Grades photographed bubble answer sheets against a configured answer key
// @host localhost:8080
// @BasePath /v1
func main() {
	log.Println("started")
	ctx := context.Background()

	cfg := config.Load()

	// Load AI config and log model settings
	aiConfig := config.DefaultAIConfig()
	log.Printf("AI Config:")
	log.Printf("  Scan model: %s", aiConfig.ScanModel)
	log.Printf("  Timeout:    %dms", aiConfig.TimeoutMS)
	if aiConfig.IsEnabled() {
		log.Println("  API Key:    configured ✓")
	} else {
		log.Println("  API Key:    NOT SET (scans will fail)")
	}
	log.Printf("Flow: autoAdvance=%v resultDisplay=%s retryOnFailure=%v", cfg.AutoAdvance, cfg.ResultDisplay, cfg.RetryOnFailure)

	var stateStore service.StateStore
	var archive service.ResultArchive
	var guard service.ScanGuard

	if cfg.UsesMongo() {
		mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			log.Fatal("Failed to connect to MongoDB:", err)
		}
		defer mongoClient.Disconnect(ctx)

		// Ping MongoDB
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := mongoClient.Ping(pingCtx, nil); err != nil {
			log.Fatal("Failed to ping MongoDB:", err)
		}
		log.Println("Connected to MongoDB")

		db := mongoClient.Database(cfg.MongoDB)
		resultRepo := repository.NewResultRepo(db)
		resultRepo.EnsureIndexes(ctx)
		archive = resultRepo

		if cfg.StateBackend == config.BackendMongo {
			stateStore = repository.NewStateRepo(db)
		}
	}

	if cfg.UsesRedis() {
		rdb := redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
		})
		defer rdb.Close()

		// Ping Redis
		if _, err := rdb.Ping(ctx).Result(); err != nil {
			log.Fatal("Failed to ping Redis:", err)
		}
		log.Println("Connected to Redis")

		lockTTL := 2 * time.Minute
		if aiConfig.TimeoutMS > 0 {
			lockTTL = time.Duration(aiConfig.TimeoutMS)*time.Millisecond + 30*time.Second
		}
		guard = cache.NewScanLock(rdb, lockTTL)

		if cfg.StateBackend == config.BackendRedis {
			stateStore = cache.NewStateCache(rdb)
		}
	}

	if stateStore == nil {
		if cfg.StateBackend != config.BackendMemory {
			log.Printf("Warning: unknown STATE_BACKEND %q, keeping state in memory", cfg.StateBackend)
		}
		stateStore = cache.NewMemoryState()
	}
	if archive == nil {
		archive = cache.NewMemoryArchive()
	}
	log.Printf("State backend: %s", cfg.StateBackend)

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// Initialize services
	authSvc := service.NewAuthService()
	recognizer := service.NewGeminiRecognizer(aiConfig)
	workspaceSvc := service.NewWorkspaceService(stateStore, recognizer, service.FlowOptions{
		AutoAdvance:    cfg.AutoAdvance,
		ResultDisplay:  cfg.ResultDisplay,
		RetryOnFailure: cfg.RetryOnFailure,
	})
	workspaceSvc.SetArchive(archive)
	if guard != nil {
		workspaceSvc.SetScanGuard(guard)
	}

	// Inject broadcaster (wsHub implements service.Broadcaster)
	workspaceSvc.SetBroadcaster(wsHub)

	// Create router with container
	container := &rest.Container{
		AuthService:      authSvc,
		WorkspaceService: workspaceSvc,
		WSHub:            wsHub,
	}

	router := rest.NewRouter(container)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		log.Printf("Host auth: username=%s", os.Getenv("HOST_USERNAME"))
		log.Println("Endpoints:")
		log.Println("  POST /v1/auth/login")
		log.Println("  GET/PUT /v1/answer-key[/{question}]")
		log.Println("  GET  /v1/history[/summary]")
		log.Println("  GET  /v1/session")
		log.Println("  POST/DELETE /v1/session/camera")
		log.Println("  POST /v1/session/scan")
		log.Println("  GET  /v1/results[/{id}]")
		log.Println("  WS   /v1/ws/session")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
