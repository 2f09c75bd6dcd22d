package main // Entry point package

import (
	"context"
	"errors"
	"log" // Logging library
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/iliyamo/fixsewa/internal/config"     // Internal config loader
	"github.com/iliyamo/fixsewa/internal/database"   // Connection and schema
	"github.com/iliyamo/fixsewa/internal/middleware" // Rate limiter
	"github.com/iliyamo/fixsewa/internal/router"     // Internal router setup
)

func main() {
	// A .env file is optional; real environment variables win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("dotenv: %v", err)
	}
	cfg := config.Load() // Load environment config

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rlCfg, err := config.LoadRateLimitConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	limit := middleware.NewTokenBucket(rlCfg, nil)
	if rlCfg.Enabled {
		redisCfg, err := config.LoadRedisConfig()
		if err != nil {
			log.Fatalf("config: %v", err)
		}
		rdb := config.NewRedisClient(redisCfg)
		if rdb == nil {
			log.Printf("redis: %s unreachable, rate limiting disabled", redisCfg.Address())
		} else {
			defer rdb.Close()
			limit = middleware.NewTokenBucket(rlCfg, rdb)
		}
	}

	e := router.NewServer(cfg, db, limit)

	addr := ":" + cfg.Port                                             // Address string with port
	log.Printf("listening on %s (env=%s, db=%s)", addr, cfg.Env, cfg.DBDriver) // Print startup info

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err) // Log and exit if server fails
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
