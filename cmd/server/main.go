package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/susu/internal/auth"
	"github.com/mmynk/susu/internal/club"
	"github.com/mmynk/susu/internal/config"
	"github.com/mmynk/susu/internal/httpapi"
	"github.com/mmynk/susu/internal/metrics"
	"github.com/mmynk/susu/internal/middleware"
	"github.com/mmynk/susu/internal/payout"
	"github.com/mmynk/susu/internal/service"
	"github.com/mmynk/susu/internal/storage/sqlite"
	"github.com/mmynk/susu/pkg/logging"
)

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Initialize SQLite storage
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	var transfer club.Transferer
	if cfg.PayoutURL != "" {
		transfer = payout.NewClient(cfg.PayoutURL, cfg.PayoutTimeout)
		slog.Info("Payout rail configured", "url", cfg.PayoutURL)
	} else {
		transfer = payout.Disabled{}
		slog.Warn("No payout rail configured, withdrawals will be refused")
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	// Rebuild the in-memory registry from whatever the mirror holds.
	svc, err := service.LoadClubService(context.Background(), store, transfer, m)
	if err != nil {
		slog.Error("Failed to load club registry", "error", err)
		os.Exit(1)
	}

	tokens := auth.NewTokenManager(cfg.TokenSecret, cfg.TokenTTL)

	mux := http.NewServeMux()
	httpapi.NewHandler(svc, tokens).Register(mux)
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	// Add logging, metrics and CORS middleware
	handler := middleware.RequestLogger(middleware.HTTPMetrics(m, corsMiddleware(mux)))

	// Wrap with h2c for HTTP/2 without TLS
	h2cHandler := h2c.NewHandler(handler, &http2.Server{})

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: h2cHandler,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("Registry server starting", "address", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Shutdown failed", "error", err)
	}
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
