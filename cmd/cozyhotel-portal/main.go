package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wolfman30/cozyhotel-client/cmd/mainconfig"
	"github.com/wolfman30/cozyhotel-client/internal/chat"
	appconfig "github.com/wolfman30/cozyhotel-client/internal/config"
	"github.com/wolfman30/cozyhotel-client/internal/portal"
	"github.com/wolfman30/cozyhotel-client/pkg/logging"
)

func main() {
	if err := appconfig.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
		os.Exit(1)
	}
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting cozyhotel portal",
		"env", cfg.Env,
		"port", cfg.PortalPort,
		"api", cfg.APIBaseURL,
		"store", cfg.StoreBackend,
	)

	store, err := mainconfig.OpenStore(context.Background(), cfg)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	metricsHandler, apiMetrics := mainconfig.SetupMetrics()

	card := mainconfig.CardConfirmer(cfg, logger)
	if card == nil && !cfg.DemoMode {
		logger.Warn("no stripe publishable key configured; card checkout disabled")
	}

	srvPortal := portal.New(portal.Config{
		APIBaseURL:         cfg.APIBaseURL,
		HTTPClient:         &http.Client{Timeout: cfg.HTTPTimeout},
		Backend:            store,
		SessionTTL:         cfg.SessionTTL,
		LoginPath:          cfg.LoginPath,
		HomePath:           cfg.HomePath,
		DemoMode:           cfg.DemoMode,
		ChatMode:           chat.ParseMode(cfg.ChatMode),
		Card:               card,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		SecureCookies:      cfg.Env == "production",
		Logger:             logger,
		Metrics:            apiMetrics,
		MetricsHandler:     metricsHandler,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.PortalPort,
		Handler:      srvPortal.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.HTTPTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
