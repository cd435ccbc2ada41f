package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	handlers "github.com/GriffinCanCode/nextmac/internal/api/http"
	"github.com/GriffinCanCode/nextmac/internal/api/middleware"
	"github.com/GriffinCanCode/nextmac/internal/api/ws"
	"github.com/GriffinCanCode/nextmac/internal/domain/catalog"
	"github.com/GriffinCanCode/nextmac/internal/domain/desktop"
	"github.com/GriffinCanCode/nextmac/internal/domain/persistence"
	"github.com/GriffinCanCode/nextmac/internal/domain/session"
	"github.com/GriffinCanCode/nextmac/internal/domain/terminal"
	"github.com/GriffinCanCode/nextmac/internal/infrastructure/config"
	"github.com/GriffinCanCode/nextmac/internal/infrastructure/logging"
	"github.com/GriffinCanCode/nextmac/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/nextmac/internal/infrastructure/storage"
	"github.com/GriffinCanCode/nextmac/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/nextmac/internal/providers/ai"
	"github.com/GriffinCanCode/nextmac/internal/providers/auth"
)

const shutdownTimeout = 10 * time.Second

// Server wraps the HTTP server and dependencies
type Server struct {
	router  *gin.Engine
	http    *http.Server
	store   *session.Store
	blobs   storage.Store
	hub     *ws.Hub
	tracer  *tracing.Tracer
	logger  *logging.Logger
	config  *config.Config
	metrics *monitoring.Metrics
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) (*Server, error) {
	logCfg := logging.DefaultConfig()
	if cfg.Logging.Development {
		logCfg = logging.DevelopmentConfig()
	}
	if cfg.Logging.Level != "" {
		logCfg.Level = cfg.Logging.Level
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return nil, err
	}

	logger.Info("Initializing desktop server",
		zap.String("addr", cfg.Server.Addr()),
		zap.String("storage_backend", cfg.Storage.Backend),
		zap.String("storage_path", cfg.Storage.Path),
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := monitoring.NewMetrics(registry)
	tracer := tracing.New("desktop", logger.Component("tracing"))

	blobs, err := storage.Open(storage.Options{
		Backend:  cfg.Storage.Backend,
		Dir:      cfg.Storage.Path,
		Compress: cfg.Storage.Compress,
	})
	if err != nil {
		tracer.Close()
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	cat, err := catalog.Default()
	if err != nil {
		tracer.Close()
		blobs.Close()
		return nil, fmt.Errorf("failed to load app catalog: %w", err)
	}
	logger.Info("App catalog loaded", zap.Int("apps", cat.Len()))

	reducer := desktop.NewReducer(cat, desktop.WithViewport(cfg.Viewport.Viewport()))
	adapter := persistence.NewAdapter(blobs, cat,
		persistence.WithKey(cfg.Storage.Key),
		persistence.WithLogger(logger.Component("persistence")),
		persistence.WithRecorder(metrics),
	)

	ctx, cancel := context.WithTimeout(context.Background(), persistence.DefaultTimeout)
	initial, err := adapter.Load(ctx, desktop.NewState(cat))
	cancel()
	if err != nil {
		logger.Warn("Failed to restore session, starting fresh", zap.Error(err))
	}

	store := session.NewStore(reducer, initial,
		session.WithRecorder(metrics),
		session.WithLogger(logger.Component("session")),
	)
	store.Subscribe(adapter)

	aiClient := ai.NewClient(ai.Config{
		BaseURL:          cfg.AI.BaseURL,
		APIKey:           cfg.AI.APIKey,
		ChatModel:        cfg.AI.ChatModel,
		ImageModel:       cfg.AI.ImageModel,
		WallpaperBaseURL: cfg.AI.WallpaperBaseURL,
		Timeout:          cfg.AI.Timeout,
		Retries:          cfg.AI.Retries,
		RetryWaitMin:     ai.DefaultConfig().RetryWaitMin,
		RetryWaitMax:     ai.DefaultConfig().RetryWaitMax,
	}, ai.WithLogger(logger.Component("ai")), ai.WithMetrics(metrics))
	if !aiClient.Configured() {
		logger.Warn("AI API key not set, chat and image editing are disabled")
	}

	authProvider := auth.NewProvider()
	terminals := terminal.NewManager(terminal.WithRecorder(metrics))
	hub := ws.NewHub(store, ws.WithLogger(logger), ws.WithMetrics(metrics))

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
			zap.Bool("global", cfg.RateLimit.Global),
		)
		limit := middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}
		if cfg.RateLimit.Global {
			router.Use(middleware.GlobalRateLimit(limit))
		} else {
			router.Use(middleware.RateLimit(limit))
		}
	}

	h := handlers.NewHandlers(handlers.Deps{
		Store:    store,
		Catalog:  cat,
		Terminal: terminals,
		Auth:     authProvider,
		AI:       aiClient,
		Metrics:  metrics,
		Gatherer: registry,
		Logger:   logger.Component("http"),
	})
	h.Register(router, middleware.RequireToken(authProvider))

	// WebSocket
	router.GET("/stream", hub.HandleConnection)

	logger.Info("Server initialized successfully")

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              cfg.Server.Addr(),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		store:   store,
		blobs:   blobs,
		hub:     hub,
		tracer:  tracer,
		logger:  logger,
		config:  cfg,
		metrics: metrics,
	}, nil
}

// Run starts the HTTP server and blocks until it stops.
// A graceful Close makes Run return nil.
func (s *Server) Run() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Close gracefully shuts down the server
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")

	var errs []error
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(ctx); err != nil {
		s.logger.Error("Failed to shut down HTTP server", zap.Error(err))
		errs = append(errs, fmt.Errorf("failed to shut down http server: %w", err))
	}

	s.hub.Close()
	s.tracer.Close()

	if err := s.blobs.Close(); err != nil {
		s.logger.Error("Failed to close storage", zap.Error(err))
		errs = append(errs, fmt.Errorf("failed to close storage: %w", err))
	}

	// Sync logger before exit
	_ = s.logger.Sync()

	return errors.Join(errs...)
}
