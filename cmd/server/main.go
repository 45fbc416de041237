package main

import (
	"context"
	"log"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"astrocadet/internal/catalog"
	"astrocadet/internal/config"
	"astrocadet/internal/game"
	"astrocadet/internal/handlers"
	"astrocadet/internal/security"
	"astrocadet/internal/session"
	"astrocadet/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	scores, closeStore := service.OpenScoreService(cfg)
	defer closeStore()

	// A missing catalog is not fatal: every session shows the load error
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	cat, catalogErr := catalog.Load(ctx, cfg.CatalogSource)
	cancel()
	if catalogErr != nil {
		log.Printf("Error loading game data: %v", catalogErr)
	} else {
		log.Printf("Loaded %d modules from %s", len(cat.Modules()), cfg.CatalogSource)
	}

	sessions := session.NewManager(func(id string) *session.Session {
		return session.New(id, session.Options{
			Catalog:    cat,
			CatalogErr: catalogErr,
			Scores:     scores,
			Scheduler:  game.RealScheduler{},
			Rand:       rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		})
	}, cfg.SessionIdleTimeout)

	assets, err := handlers.NewAssetsHandler(cfg.StaticFilesPath, cfg.CacheVersion)
	if err != nil {
		log.Fatalf("Failed to prepare static assets: %v", err)
	}

	inputLimiter := security.NewRateLimiter(cfg.InputRateLimit, time.Second)
	sessionLimiter := security.NewRateLimiter(cfg.SessionRateLimit, time.Minute)
	signer := security.NewTokenSigner(cfg.SessionSecret, 24*time.Hour)
	middleware := handlers.NewMiddleware(sessions, signer, inputLimiter, sessionLimiter)
	router := handlers.NewRouter(middleware, handlers.NewGameHandler(scores), assets)

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	bgCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()
	go sessions.Run(bgCtx, time.Minute)
	go cleanupRateLimiters(bgCtx, inputLimiter, sessionLimiter)

	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	sessions.CloseAll()
}

// cleanupRateLimiters periodically forgets idle rate-limit buckets
func cleanupRateLimiters(ctx context.Context, limiters ...*security.RateLimiter) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, limiter := range limiters {
				limiter.Cleanup()
			}
		}
	}
}
