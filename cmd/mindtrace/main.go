package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/use-agent/mindtrace/config"
	"github.com/use-agent/mindtrace/delivery"
	"github.com/use-agent/mindtrace/ingest"
	"github.com/use-agent/mindtrace/pagesource"
	"github.com/use-agent/mindtrace/storage"
	"github.com/use-agent/mindtrace/tracker"
)

const defaultQuizURL = "https://www.16personalities.com/free-personality-test"

func main() {
	root := &cobra.Command{
		Use:           "mindtrace",
		Short:         "Observe the 16personalities test and log answers and results",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newTrackCmd(), newServeCmd())

	if err := root.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func newTrackCmd() *cobra.Command {
	var pageURL string

	cmd := &cobra.Command{
		Use:   "track",
		Short: "Run the tracker against a quiz or profile page",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			initLogger(cfg.Log)
			slog.Info("mindtrace tracker starting",
				"url", pageURL,
				"source", cfg.Tracker.Source,
				"endpoint", cfg.Endpoint.URL,
			)

			db, err := storage.Open(cfg.Storage.Path)
			if err != nil {
				return err
			}
			defer db.Close()

			client := delivery.New(cfg.Endpoint)
			// Drains the durable queue so terminal-click sends still go out.
			defer client.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if cfg.Tracker.Source == "http" {
				source := pagesource.NewHTTPSource(pageURL, cfg.Browser.Proxy)
				return tracker.RunSnapshot(ctx, cfg, db, source, client)
			}

			browser, err := pagesource.Launch(cfg.Browser, pageURL)
			if err != nil {
				return err
			}
			defer browser.Close()

			return tracker.Run(ctx, cfg, db, browser, client)
		},
	}

	cmd.Flags().StringVar(&pageURL, "url", defaultQuizURL, "page to open")
	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the logging endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			initLogger(cfg.Log)

			db, err := storage.Open(cfg.Storage.Path)
			if err != nil {
				return err
			}
			defer db.Close()

			router := ingest.NewRouter(db, cfg, time.Now())
			addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
			srv := &http.Server{Addr: addr, Handler: router}

			go func() {
				slog.Info("ingest server listening", "addr", addr)
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					slog.Error("ingest server error", "error", err)
					os.Exit(1)
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			sig := <-quit
			slog.Info("shutdown signal received", "signal", sig.String())

			// Give in-flight requests 5 seconds to complete.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				slog.Error("ingest server forced shutdown", "error", err)
			} else {
				slog.Info("ingest server drained gracefully")
			}
			return nil
		},
	}
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
