// Package mainconfig holds the wiring shared by the CLI and the portal.
package mainconfig

import (
	"context"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/cozyhotel-client/internal/cardpay"
	"github.com/wolfman30/cozyhotel-client/internal/checkout"
	appconfig "github.com/wolfman30/cozyhotel-client/internal/config"
	"github.com/wolfman30/cozyhotel-client/internal/observability/metrics"
	"github.com/wolfman30/cozyhotel-client/internal/storage"
	"github.com/wolfman30/cozyhotel-client/pkg/logging"
)

// OpenStore opens the configured storage backend.
func OpenStore(ctx context.Context, cfg *appconfig.Config) (storage.ClosableBackend, error) {
	return storage.Open(ctx, storage.Options{
		Backend:       cfg.StoreBackend,
		Path:          cfg.StorePath,
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisTLS:      cfg.RedisTLS,
		TTL:           cfg.SessionTTL,
	})
}

// CardConfirmer returns the Stripe confirmer, or nil when no publishable
// key is configured.
func CardConfirmer(cfg *appconfig.Config, logger *logging.Logger) checkout.CardConfirmer {
	if strings.TrimSpace(cfg.StripePublishableKey) == "" {
		return nil
	}
	return cardpay.NewStripe(cfg.StripePublishableKey, logger).WithBaseURL(cfg.StripeBaseURL)
}

// SetupMetrics builds a private registry with the API metrics and the Go
// runtime collectors, and the handler that exposes it.
func SetupMetrics() (http.Handler, *metrics.APIMetrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewAPIMetrics(reg)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), m
}
