package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"internportal-backend/internal/cache"
	"internportal-backend/internal/config"
	"internportal-backend/internal/feed"
	"internportal-backend/internal/handlers"
	"internportal-backend/internal/hybrid"
	"internportal-backend/internal/local"
	"internportal-backend/internal/middleware"
	"internportal-backend/internal/remote"
	"internportal-backend/internal/router"
	"internportal-backend/internal/services"
	"internportal-backend/internal/store"
	"internportal-backend/internal/websocket"
)

const statusCacheTTL = 30 * time.Second

func main() {
	log.Println("🚀 Starting Intern Portal Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Open Local Store ────
	st, err := store.Open(cfg.DataPath)
	if err != nil {
		log.Fatalf("✗ Local store failed: %v", err)
	}
	defer st.Close()
	log.Println("✓ Local store opened")

	// ──── Step 3: Initialize Status Cache ────
	var statusCache cache.StatusCache
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedisCache(cfg.RedisURL, statusCacheTTL)
		if err != nil {
			log.Fatalf("✗ Redis connection failed: %v", err)
		}
		defer redisCache.Close()
		statusCache = redisCache
		log.Println("✓ Redis status cache connected")
	} else {
		statusCache = cache.NewMemoryCache(statusCacheTTL)
		log.Println("✓ In-memory status cache initialized")
	}

	// ──── Step 4: Initialize Data Managers ────
	generator := feed.NewGenerator(rand.New(rand.NewSource(time.Now().UnixNano())))
	localManager := local.NewManager(st, generator, cfg.SeedPassword)

	remoteClient := remote.NewClient(cfg.APIBaseURL)
	remoteManager := remote.NewDataManager(remoteClient, statusCache)

	coordinator := hybrid.NewCoordinator(localManager, remoteManager)

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 10*time.Second)
	coordinator.RecheckBackend(startupCtx)
	cancelStartup()
	log.Printf("✓ Data managers ready (connection: %s)", coordinator.ConnectionState())

	// ──── Step 5: Initialize Handlers ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	wsHub := websocket.NewHub(cfg.JWTSecret)

	authHandler := handlers.NewAuthHandler(coordinator, st, jwtAuth)
	portalHandler := handlers.NewPortalHandler(coordinator)
	assignmentsHandler := handlers.NewAssignmentsHandler(coordinator, wsHub, cfg.StoragePath)
	notificationsHandler := handlers.NewNotificationsHandler(coordinator)
	feedHandler := handlers.NewFeedHandler(coordinator, wsHub)

	// ──── Step 6: Start Feed Scheduler ────
	feedScheduler := services.NewFeedScheduler(coordinator, wsHub, time.Duration(cfg.FeedRefreshSeconds)*time.Second)
	feedScheduler.Start()
	log.Println("✓ Feed scheduler started")

	// ──── Step 7: Start HTTP Server ────
	r := router.New(
		jwtAuth,
		authHandler,
		portalHandler,
		assignmentsHandler,
		notificationsHandler,
		feedHandler,
		wsHub,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		feedScheduler.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ Intern Portal Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)
	log.Printf("  WS:  ws://localhost:%s/api/v1/ws", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
