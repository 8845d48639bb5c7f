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

	"github.com/gradlemirror/gradlemirror"
	"github.com/gradlemirror/gradlemirror/config"
	mirrorhttp "github.com/gradlemirror/gradlemirror/http"
	"github.com/gradlemirror/gradlemirror/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the mirror HTTP server",
	Long:  `Start the gradlemirror HTTP server.`,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	cfg, err := config.FromContext(ctx)
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	service, err := gradlemirror.NewMirrorService(store)
	if err != nil {
		return fmt.Errorf("create service: %w", err)
	}

	handlerConfig := mirrorhttp.HandlerConfig{CORS: cfg.CORS}
	handler := mirrorhttp.NewHandler(&handlerConfig, service)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	var admin *http.Server
	if cfg.Server.AdminAddr != "" {
		admin = adminServer(cfg.Server.AdminAddr)
		go func() {
			slog.Info("starting admin listener", "addr", cfg.Server.AdminAddr)
			if err := admin.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("admin listener error", "err", err)
			}
		}()
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if admin != nil {
			if err := admin.Shutdown(shutdownCtx); err != nil {
				slog.Error("admin shutdown error", "err", err)
			}
		}
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "err", err)
		}
		cancel()
	}()

	slog.Info("starting server", "addr", cfg.Server.Addr, "backend", cfg.Store.Backend)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// adminServer serves the operational endpoints away from the public route
// space, so /metrics and /healthz never shadow store keys.
func adminServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
}
