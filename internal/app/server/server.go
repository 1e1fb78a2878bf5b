package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"paysplit/internal/domain/command"
	"paysplit/internal/domain/payslip"
	"paysplit/internal/domain/paysplit"
	"paysplit/internal/platform/browser"
	"paysplit/internal/platform/config"
	cryptoutil "paysplit/internal/platform/crypto"
	"paysplit/internal/platform/logger"
	"paysplit/internal/platform/metrics"
	"paysplit/internal/transport/http/api"
	paysplithandler "paysplit/internal/transport/http/handlers/paysplit"
	"paysplit/internal/transport/http/middleware"
)

const shutdownTimeout = 10 * time.Second

// NewSource builds the configured payroll data source.
func NewSource(cfg config.Config) (paysplit.Source, error) {
	switch cfg.SourceKind {
	case config.SourceFixture:
		return paysplit.NewFixtureSource(), nil
	case config.SourceLive:
		loader, err := browser.NewLoader(cfg.SourceURL,
			browser.WithChromePath(cfg.ChromePath),
			browser.WithDownload(cfg.BrowserDownload),
			browser.WithNoSandbox(cfg.BrowserNoSandbox),
			browser.WithTimeout(cfg.BrowserTimeout),
			browser.WithFrameSelector(cfg.FrameSelector),
			browser.WithCookies(cfg.SourceCookies),
		)
		if err != nil {
			return nil, err
		}
		return paysplit.NewDocumentSource(loader), nil
	case config.SourceFile:
		return paysplit.NewDocumentSource(paysplit.FileLoader{Path: cfg.SourcePath}), nil
	default:
		return nil, fmt.Errorf("unsupported source kind %q", cfg.SourceKind)
	}
}

// NewService wires the command dispatcher from configuration.
func NewService(cfg config.Config, collector *metrics.Collector) (*command.Service, error) {
	source, err := NewSource(cfg)
	if err != nil {
		return nil, err
	}

	renderCfg := payslip.DefaultConfig()
	renderCfg.FontPath = cfg.FontPath
	renderCfg.Watermark.Path = cfg.WatermarkPath
	renderer, err := payslip.NewRenderer(renderCfg)
	if err != nil {
		return nil, err
	}

	crypto, err := cryptoutil.New(cfg.DataEncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("data encryption key: %w", err)
	}
	return command.NewService(source, renderer, cfg.OutputDir, crypto, collector), nil
}

// NewRouter mounts the payslip API behind the shared middleware stack.
// Invalid TRUSTED_PROXIES entries are rejected by Validate; here they only
// disable proxy trust.
func NewRouter(cfg config.Config, service *command.Service, collector *metrics.Collector) http.Handler {
	proxies, err := cfg.TrustedProxyPrefixes()
	if err != nil {
		slog.Warn("ignoring trusted proxies", "err", err)
		proxies = nil
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(chimw.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if cfg.MetricsEnabled && collector != nil {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, collector.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret))
		r.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute, middleware.WithTrustedProxies(proxies)))
		paysplithandler.NewHandler(service).RegisterRoutes(r)
	})
	return router
}

// Run serves the API until ctx is cancelled, then drains in-flight requests.
func Run(ctx context.Context, cfg config.Config) error {
	logger.Init(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		return err
	}

	collector := metrics.New()
	service, err := NewService(cfg, collector)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           NewRouter(cfg, service, collector),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("paysplit server listening", "addr", cfg.Addr, "source", cfg.SourceKind)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	slog.Info("paysplit server shutting down")
	return srv.Shutdown(shutdownCtx)
}
