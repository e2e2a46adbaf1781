package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/rusbers/iannabeauty/internal/cms"
	"github.com/rusbers/iannabeauty/internal/config"
	mw "github.com/rusbers/iannabeauty/internal/middleware"
	"github.com/rusbers/iannabeauty/internal/platform/observability"
	"github.com/rusbers/iannabeauty/internal/seo"
)

// app bundles the dependencies shared by every handler.
type app struct {
	cfg    config.Config
	site   seo.Site
	cms    *cms.Client
	views  *views
	logger *zap.Logger
}

func main() {
	baseLogger, err := observability.NewLogger(os.Getenv("LOG_LEVEL"), false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()
	logger := baseLogger.Named("web")

	cfg, err := config.Load(context.Background())
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	addr := flag.String("addr", cfg.Server.Addr(), "HTTP listen address")
	flag.StringVar(&cfg.Paths.Templates, "templates", cfg.Paths.Templates, "templates directory")
	flag.StringVar(&cfg.Paths.Public, "public", cfg.Paths.Public, "public assets directory")
	flag.StringVar(&cfg.CMS.ContentDir, "content", cfg.CMS.ContentDir, "local content directory")
	flag.Parse()

	a, err := newApp(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialise app", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           a.routes(),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverLogger := logger.Named("http").With(zap.String("addr", srv.Addr))
	go func() {
		serverLogger.Info("web listening",
			zap.String("base_url", cfg.Site.BaseURL),
			zap.Bool("dev_mode", cfg.DevMode),
			zap.Bool("remote_cms", cfg.CMS.BaseURL != ""),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLogger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-shutdown
	logger.Info("shutdown signal received; draining requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func newApp(cfg config.Config, logger *zap.Logger) (*app, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	v, err := newViews(cfg.Paths.Templates, cfg.DevMode)
	if err != nil {
		return nil, err
	}
	return &app{
		cfg:  cfg,
		site: cfg.SEOSite(),
		cms: cms.New(cms.Options{
			BaseURL:    cfg.CMS.BaseURL,
			ContentDir: cfg.CMS.ContentDir,
			CacheTTL:   cfg.CMS.CacheTTL,
			Logger:     logger,
		}),
		views:  v,
		logger: logger,
	}, nil
}

func (a *app) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	// If deployed behind a trusted reverse proxy/load balancer, RealIP will use
	// X-Forwarded-For to determine the client IP.
	r.Use(chimw.RealIP)
	r.Use(observability.InjectLogger(a.logger))
	r.Use(observability.Trace)
	r.Use(observability.RequestLogger)
	r.Use(observability.Recovery)
	r.Use(chimw.Compress(a.cfg.Server.CompressionLevel))
	r.Use(chimw.Timeout(a.cfg.Server.RequestTimeout))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Handle("/assets/*", mw.Assets("/assets", filepath.Join(a.cfg.Paths.Public, "assets")))
	r.Handle("/favicon.ico", mw.Assets("/", a.cfg.Paths.Public))

	r.Route("/api/metadata", func(r chi.Router) {
		r.Get("/", a.handleMetadataBySlug)
		r.Post("/", a.handleMetadataFromRecord)
	})

	r.Get("/", a.handlePage)
	r.Get("/*", a.handlePage)
	return r
}
