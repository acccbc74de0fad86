package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	adapterHTTP "github.com/comitanigiacomo/lectio-sync-engine/internal/adapters/handler/http"
	"github.com/comitanigiacomo/lectio-sync-engine/internal/app"
	"github.com/comitanigiacomo/lectio-sync-engine/internal/config"
)

func newRouter(a *app.App, startTime time.Time) *gin.Engine {
	return adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		PlanHandler:    adapterHTTP.NewPlanHandler(a.Tracker),
		StatsHandler:   adapterHTTP.NewStatsHandler(a.Tracker),
		BibleHandler:   adapterHTTP.NewBibleHandler(a.Bible),
		ContentHandler: adapterHTTP.NewContentHandler(a.Content),
		StateHandler:   adapterHTTP.NewStateHandler(a.Tracker, a.Sync),
		Store:          a.Store,
		StoreBackend:   a.Config.StoreBackend,
		Redis:          a.Redis,
		RateLimit:      a.Config.RateLimitPerMinute,
		StartTime:      startTime,
	})
}

func main() {
	startTime := time.Now()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Critical: invalid configuration: %v", err)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Critical: failed to initialise: %v", err)
	}
	defer a.Close()

	a.Start(ctx)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      newRouter(a, startTime),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Lectio Sync Engine running on http://localhost:%s (store: %s)", cfg.Port, cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Critical server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Stop signal received. Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Forced shutdown error: %v", err)
	}

	stop()
	log.Println("Server stopped gracefully.")
}
