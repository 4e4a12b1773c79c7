package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"showclinic-backend/internal/adapters/storage/postgres"
	"showclinic-backend/internal/config"
	"showclinic-backend/internal/platform/logger"
	"showclinic-backend/internal/platform/uploads"
	"showclinic-backend/internal/router"
)

func main() {
	// Los montos viajan como números JSON, no como strings.
	decimal.MarshalJSONWithoutQuotes = true

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		App:    "showclinic-api",
	})

	store, err := uploads.NewStore(cfg.UploadsDir)
	if err != nil {
		log.Fatal().Err(err).Msg("uploads dir")
	}

	opts := router.Options{
		Config:  cfg,
		Logger:  log,
		Uploads: store,
	}

	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("open database")
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			cancel()
			log.Fatal().Err(err).Msg("ensure schema")
		}
		cancel()

		opts.DB = db
		log.Info().Msg("using postgres storage")
	} else {
		log.Warn().Msg("DATABASE_URL not set, using in-memory storage")
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router.NewRouter(opts),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
