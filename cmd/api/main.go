// Package main is the entry point for the Fahrtenbuch API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/pkordes/fahrtenbuch/internal/config"
	"github.com/pkordes/fahrtenbuch/internal/handler"
	"github.com/pkordes/fahrtenbuch/internal/middleware"
	"github.com/pkordes/fahrtenbuch/internal/repo"
	"github.com/pkordes/fahrtenbuch/internal/service"
	"github.com/pkordes/fahrtenbuch/migrations"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cmd := &cli.Command{
		Name:   "fahrtenbuch",
		Usage:  "Personal mileage logbook API",
		Action: run,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "migrate",
				Usage:   "Apply pending database migrations before serving",
				Sources: cli.EnvVars("MIGRATE_ON_START"),
			},
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "Listen address, overrides PORT",
				DefaultText: ":$PORT",
				Sources:     cli.EnvVars("APP_ADDR"),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Database ---------------------------------------------------------
	// New() does not open connections immediately; the first query does.
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("create database pool: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	logger.Info("database connection established")

	if cfg.MigrateOnStart || cmd.Bool("migrate") {
		// goose drives database/sql; borrow a *sql.DB view of the same pool.
		sqlDB := stdlib.OpenDBFromPool(pool)
		err := migrations.Up(ctx, sqlDB, logger)
		_ = sqlDB.Close()
		if err != nil {
			return err
		}
	}

	// --- Wiring -----------------------------------------------------------
	addressRepo := repo.NewAddressRepo(pool)
	tripRepo := repo.NewTripRepo(pool)
	templateRepo := repo.NewTemplateRepo(pool)

	srv := handler.NewServer(
		service.NewAddressService(addressRepo),
		service.NewTripService(tripRepo),
		service.NewTemplateService(templateRepo, tripRepo),
		service.NewExportService(tripRepo),
		pool,
	)

	// --- Router -----------------------------------------------------------
	// RequestID → RealIP → Logger → Recoverer → CORS → body limit.
	// The logger sits outside Recoverer so recovered panics are logged as 500s.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))
	r.Mount("/", srv.Routes())

	// --- HTTP Server ------------------------------------------------------
	addr := cmd.String("addr")
	if addr == "" {
		addr = ":" + cfg.Port
	}
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server starting", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	// Wait for a signal (or a failed listener), then give in-flight requests
	// up to shutdownTimeout to complete.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}
