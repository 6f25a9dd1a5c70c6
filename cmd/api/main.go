package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mortgage-schedule/internal/api"
	"mortgage-schedule/internal/config"
	"mortgage-schedule/internal/data"
	"mortgage-schedule/internal/scenario"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadServerConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cache *data.ScheduleCache
	if cfg.CacheEnabled {
		cache = data.NewScheduleCache(cfg.CacheTTL)
		go cache.Run(ctx, 5*time.Minute)
		log.Printf("Schedule cache enabled (ttl %s)", cfg.CacheTTL)
	} else {
		log.Printf("Schedule cache disabled")
	}

	if info, err := os.Stat(cfg.LoanDir); err == nil && info.IsDir() {
		log.Printf("Loan directory found: %s", cfg.LoanDir)
	} else {
		log.Printf("Loan directory not found at: %s (loan_file presets unavailable)", cfg.LoanDir)
	}

	router := api.NewRouter(cfg, scenario.NewRunner(cfg.CompareMaxConcurrency), cache)

	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: router}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Shutdown: %v", err)
		}
	}()

	log.Printf("Starting API server on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
	log.Printf("API server stopped")
}
