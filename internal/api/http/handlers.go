package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/GriffinCanCode/nextmac/internal/domain/catalog"
	"github.com/GriffinCanCode/nextmac/internal/domain/session"
	"github.com/GriffinCanCode/nextmac/internal/domain/terminal"
	"github.com/GriffinCanCode/nextmac/internal/infrastructure/logging"
	"github.com/GriffinCanCode/nextmac/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/nextmac/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/nextmac/internal/providers/ai"
	"github.com/GriffinCanCode/nextmac/internal/providers/auth"
)

const (
	serviceName = "NextMac"
	version     = "1.0.0"
)

// AIService is the subset of the AI client the handlers use
type AIService interface {
	Wallpaper(ctx context.Context, theme string) (string, error)
	EditImage(ctx context.Context, imageDataURI, prompt string) (string, error)
	Chat(ctx context.Context, history []ai.Message, message string) (string, error)
	Configured() bool
	BreakerState() resilience.State
}

// Deps are the collaborators of the HTTP handlers
type Deps struct {
	Store    *session.Store
	Catalog  *catalog.Catalog
	Terminal *terminal.Manager
	Auth     *auth.Provider
	AI       AIService
	Metrics  *monitoring.Metrics
	Gatherer prometheus.Gatherer
	Logger   *logging.Logger
}

// Handlers contains all HTTP handlers
type Handlers struct {
	store    *session.Store
	catalog  *catalog.Catalog
	terminal *terminal.Manager
	auth     *auth.Provider
	ai       AIService
	metrics  *monitoring.Metrics
	gatherer prometheus.Gatherer
	log      *logging.Logger
	names    *bluemonday.Policy
}

// NewHandlers creates a new handler set
func NewHandlers(d Deps) *Handlers {
	log := d.Logger
	if log == nil {
		log = logging.NewNop()
	}
	gatherer := d.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &Handlers{
		store:    d.Store,
		catalog:  d.Catalog,
		terminal: d.Terminal,
		auth:     d.Auth,
		ai:       d.AI,
		metrics:  d.Metrics,
		gatherer: gatherer,
		log:      log.Component("http"),
		names:    bluemonday.StrictPolicy(),
	}
}

// Register mounts every route on r
func (h *Handlers) Register(r gin.IRouter, requireToken gin.HandlerFunc) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)
	r.GET("/metrics", h.Metrics)

	r.GET("/catalog", h.ListCatalog)
	r.GET("/catalog/:id", h.GetCatalogApp)

	r.GET("/desktop/state", h.GetState)
	r.POST("/desktop/actions", h.DispatchActions)
	r.POST("/desktop/files", h.UploadFiles)
	r.GET("/desktop/files/:id", h.GetFile)

	r.POST("/auth/login", h.Login)
	r.POST("/auth/logout", h.Logout)
	r.POST("/auth/password", requireToken, h.ChangePassword)

	r.POST("/ai/wallpaper", h.Wallpaper)
	r.POST("/ai/edit-image", h.EditImage)
	r.POST("/ai/chat", h.Chat)

	r.GET("/terminal/sessions", h.ListTerminalSessions)
	r.POST("/terminal/sessions", h.CreateTerminalSession)
	r.DELETE("/terminal/sessions/:id", h.CloseTerminalSession)
	r.POST("/terminal/exec", h.ExecTerminal)
}

// Root handles the service banner
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": serviceName,
		"version": version,
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	s, seq := h.store.Snapshot()

	resp := gin.H{
		"status": "healthy",
		"session": gin.H{
			"seq":          seq,
			"windows":      len(s.Windows),
			"desktopFiles": len(s.DesktopFiles),
			"trashedFiles": len(s.TrashedFiles),
			"shutdown":     s.ShutdownRequested,
		},
		"terminal": gin.H{"sessions": len(h.terminal.List())},
		"auth":     gin.H{"sessions": h.auth.ActiveSessions()},
	}
	if h.ai != nil {
		resp["ai"] = gin.H{
			"configured": h.ai.Configured(),
			"breaker":    h.ai.BreakerState().String(),
		}
	}
	if h.metrics != nil {
		resp["metrics"] = h.metrics.Snapshot()
	}
	c.JSON(http.StatusOK, resp)
}

// Metrics serves the Prometheus exposition format
func (h *Handlers) Metrics(c *gin.Context) {
	promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}).ServeHTTP(c.Writer, c.Request)
}

func fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
