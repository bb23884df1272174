package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"lead-dispatcher/internal/common/config"
	"lead-dispatcher/internal/common/logger"
	"lead-dispatcher/internal/common/middleware"
	"lead-dispatcher/internal/common/observability"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the call report webhook server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		obs := observability.New(cfg.App.Name)
		defer obs.Shutdown()

		a, err := newApp(ctx, cfg, log, obs)
		if err != nil {
			return err
		}
		defer a.Close()

		if servePort != 0 {
			cfg.Server.Port = servePort
		}

		srv := &http.Server{
			Addr:         cfg.Server.Addr(),
			Handler:      buildMux(a.handler, a.ready, cfg.Server.WebhookPath, log),
			ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
			WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
		}

		errCh := make(chan error, 1)
		go func() {
			log.Info("starting server", map[string]interface{}{
				"addr":    srv.Addr,
				"webhook": cfg.Server.WebhookPath,
			})
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		log.Info("shutting down server", nil)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

// buildMux wires the webhook, probes and metrics behind the request-ID
// middleware.
func buildMux(webhook http.Handler, ready func(context.Context) error, webhookPath string, log logger.Logger) http.Handler {
	if webhookPath == "" {
		webhookPath = "/webhook"
	}

	mux := http.NewServeMux()

	mux.Handle("POST "+webhookPath, webhook)

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	mux.HandleFunc("GET /ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if ready != nil {
			if err := ready(ctx); err != nil {
				writeStatus(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		writeStatus(w, http.StatusOK, map[string]string{"status": "ready"})
	})

	mux.Handle("GET /metrics", promhttp.Handler())

	return middleware.RequestID(middleware.AccessLog(log)(mux))
}

func writeStatus(w http.ResponseWriter, status int, body map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
