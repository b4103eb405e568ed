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

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/shiftboard/internal/backend"
	"github.com/JonMunkholm/shiftboard/internal/board"
	"github.com/JonMunkholm/shiftboard/internal/cache"
	"github.com/JonMunkholm/shiftboard/internal/config"
	"github.com/JonMunkholm/shiftboard/internal/logging"
	"github.com/JonMunkholm/shiftboard/internal/web"
)

func newServeCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the board's HTTP server.

Environment Variables:
  BACKEND_URL               Backend API base URL (required)
  BACKEND_API_KEY           Sent as X-API-Key
  SERVER_PORT               Listen port (default: 8080)
  DISPLAY_TIME_STYLE        compact or padded (default: compact)
  CACHE_KEEP_PREVIOUS_DATA  Show old rows while refetching (default: true)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), envFile)
		},
	}
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "Env file to load before reading config")
	return cmd
}

func runServe(ctx context.Context, envFile string) error {
	// Overload overwrites existing env vars
	if err := godotenv.Overload(envFile); err != nil {
		slog.Info("no env file found, using environment variables", "file", envFile)
	} else {
		slog.Info("loaded env file", "file", envFile)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"backend", cfg.Backend.URL,
		"time_style", cfg.Display.TimeStyle,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	client, err := backend.NewClient(backend.ClientConfig{
		BaseURL: cfg.Backend.URL,
		Timeout: cfg.Backend.Timeout,
		APIKey:  cfg.Backend.APIKey,
	})
	if err != nil {
		return fmt.Errorf("create backend client: %w", err)
	}

	store := cache.NewStore(cache.Config{
		FetchTimeout:     cfg.Cache.FetchTimeout,
		KeepPreviousData: cfg.Cache.KeepPreviousData,
	})
	defer store.Close()

	b, err := board.New(board.Options{
		Client:    client,
		Store:     store,
		TimeStyle: cfg.TimeStyle(),
	})
	if err != nil {
		return fmt.Errorf("create board: %w", err)
	}
	defer b.Close()

	slog.Info("pages registered", "count", len(b.Pages()))

	primeCtx, cancelPrime := context.WithTimeout(ctx, cfg.Cache.PrimeTimeout)
	err = b.Prime(primeCtx)
	cancelPrime()
	if err != nil {
		// Pages still load on first view.
		slog.Warn("initial fetch incomplete", "error", err)
	}

	server := web.NewServer(b, cfg)

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		server.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-sigCtx.Done():
	}

	slog.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	slog.Info("server stopped")
	return nil
}
