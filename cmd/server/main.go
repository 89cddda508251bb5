package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/DukeRupert/localguys/internal"
	"github.com/DukeRupert/localguys/internal/csrf"
	"github.com/DukeRupert/localguys/internal/handler"
	"github.com/DukeRupert/localguys/internal/metrics"
	"github.com/DukeRupert/localguys/internal/middleware"
	"github.com/DukeRupert/localguys/internal/relay"
	"github.com/DukeRupert/localguys/internal/service"
	"github.com/DukeRupert/localguys/internal/site"
	"github.com/DukeRupert/localguys/web"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func run() error {
	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)
	isSecure := !cfg.IsDev()

	siteCfg := newSiteConfig(cfg)
	if siteCfg.ContactEnabled && siteCfg.RelayID == "" && siteCfg.OrderWebhookURL == "" {
		logger.Warn("No FORMSPREE_ID or ORDER_WEBHOOK_URL set, order submissions will not be delivered")
	}

	// Initialize template renderer
	rendererCfg := handler.RendererConfig{
		Logger: logger,
		IsDev:  cfg.IsDev(),
	}
	if cfg.TemplatesDir != "" {
		rendererCfg.TemplatesDir = cfg.TemplatesDir
	} else {
		rendererCfg.FS = web.Templates()
	}
	renderer, err := handler.NewRenderer(rendererCfg)
	if err != nil {
		return fmt.Errorf("renderer initialization failed: %w", err)
	}
	logger.Info("Templates loaded", "count", len(renderer.ListTemplates()), "dir", cfg.TemplatesDir)

	// Outbound delivery
	relayClient := relay.NewClient(&http.Client{Timeout: cfg.RelayTimeout}, cfg.RelayTimeout)
	dispatcher := relay.NewDispatcher(relayClient, cfg.RelayTimeout, logger)

	// Initialize services
	orderService := service.NewOrderService(service.OrderConfig{
		Enabled: siteCfg.ContactEnabled,
		Endpoints: relay.Endpoints{
			WebhookURL: siteCfg.OrderWebhookURL,
			RelayURL:   siteCfg.RelayEndpoint(),
		},
	}, dispatcher, logger)

	// Initialize middleware
	csrfProtect := csrf.Protect(logger, func(w http.ResponseWriter, r *http.Request) {
		handler.ForbiddenResponse(w, r, logger)
	})

	orderLimiter := middleware.NewRateLimiter(cfg.OrderRateLimit, cfg.OrderRateWindow)
	defer orderLimiter.Close()
	orderLimit := middleware.NewRateLimitMiddleware(orderLimiter, logger, func(w http.ResponseWriter, r *http.Request) {
		handler.RateLimitResponse(w, r, logger)
	})

	securityMw := middleware.NewSecurityHeadersMiddleware(isSecure, siteCfg.RelayOrigin())
	loggingMw := middleware.NewRequestLoggingMiddleware(logger)
	metricsAuth := middleware.NewMetricsAuthMiddleware(cfg.MetricsUsername, cfg.MetricsPassword)
	if !metricsAuth.Enabled() {
		logger.Warn("METRICS_USERNAME and METRICS_PASSWORD not set, /metrics is unprotected")
	}

	// Initialize handlers
	landingHandler := handler.NewLandingHandler(siteCfg, site.DefaultContent(), orderService, renderer, logger, isSecure)

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	mux := http.NewServeMux()

	// Static files
	staticFS := http.FileServer(http.FS(web.Static()))
	mux.Handle("GET /static/", http.StripPrefix("/static/", staticFS))

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Prometheus
	mux.Handle("GET /metrics", metricsAuth.Handler(promhttp.Handler()))

	// Landing page, forms and the catch-all 404
	landingHandler.RegisterRoutes(mux, csrfProtect, orderLimit.Limit)

	// ==========================================================================
	// Start server
	// ==========================================================================

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: middleware.Stack(metrics.Middleware, loggingMw.Handler, securityMw.Handler)(mux),
	}

	// Channel to listen for interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server started", "address", server.Addr, "env", cfg.Env, "base_url", cfg.BaseURL)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal or a failed listener
	select {
	case <-sigChan:
		logger.Info("Shutdown signal received, initiating graceful shutdown...")
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	}

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	// Let in-flight relay requests finish
	dispatcher.Shutdown(cfg.ShutdownTimeout)

	logger.Info("Graceful shutdown complete")
	return nil
}

// newSiteConfig copies the environment configuration into the immutable
// site configuration handed to handlers.
func newSiteConfig(cfg *internal.Config) site.Config {
	return site.Config{
		Brand:           cfg.BrandName,
		Tagline:         cfg.BrandTagline,
		ContactEnabled:  cfg.ContactEnabled,
		RelayID:         cfg.FormspreeID,
		RelayBaseURL:    cfg.FormRelayURL,
		OrderWebhookURL: cfg.OrderWebhookURL,
		Social: site.Social{
			Instagram: cfg.InstagramURL,
			Facebook:  cfg.FacebookURL,
		},
		ConfirmDelay: cfg.ConfirmDelay,
	}
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
