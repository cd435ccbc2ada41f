package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestSize     *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Session metrics
	ActionsTotal  *prometheus.CounterVec
	WindowsOpen   prometheus.Gauge
	DesktopFiles  prometheus.Gauge
	TrashedFiles  prometheus.Gauge
	InstalledApps prometheus.Gauge

	// Persistence metrics
	PersistenceOps *prometheus.CounterVec

	// AI metrics
	AICalls    *prometheus.CounterVec
	AIDuration *prometheus.HistogramVec

	// Terminal metrics
	TerminalCommands *prometheus.CounterVec

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	startTime time.Time

	// Snapshot for JSON API - track current values
	snapshot Snapshot

	mu sync.RWMutex
}

// Snapshot holds current metric values for the JSON health API
type Snapshot struct {
	TotalRequests     int64   `json:"totalRequests"`
	TotalErrors       int64   `json:"totalErrors"`
	ActionsDispatched int64   `json:"actionsDispatched"`
	ActionsApplied    int64   `json:"actionsApplied"`
	SaveFailures      int64   `json:"saveFailures"`
	ActiveConnections int64   `json:"activeConnections"`
	UptimeSeconds     float64 `json:"uptimeSeconds"`
}

// NewMetrics registers every collector with reg.
// Each registry accepts one Metrics; tests pass a fresh prometheus.NewRegistry().
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	m := &Metrics{
		startTime: time.Now(),

		// HTTP metrics
		RequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nextmac_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nextmac_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		RequestSize: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nextmac_http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "path"},
		),
		ResponseSize: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nextmac_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "path"},
		),

		// Session metrics
		ActionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nextmac_actions_total",
				Help: "Total number of dispatched desktop actions",
			},
			[]string{"kind", "applied"},
		),
		WindowsOpen: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "nextmac_windows_open",
				Help: "Number of open windows",
			},
		),
		DesktopFiles: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "nextmac_desktop_files",
				Help: "Number of files on the desktop",
			},
		),
		TrashedFiles: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "nextmac_trashed_files",
				Help: "Number of files in the trash",
			},
		),
		InstalledApps: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "nextmac_installed_apps",
				Help: "Number of installed apps",
			},
		),

		// Persistence metrics
		PersistenceOps: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nextmac_persistence_operations_total",
				Help: "Total number of persistence loads and saves",
			},
			[]string{"op", "status"},
		),

		// AI metrics
		AICalls: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nextmac_ai_calls_total",
				Help: "Total number of AI backend calls",
			},
			[]string{"operation", "status"},
		),
		AIDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nextmac_ai_call_duration_seconds",
				Help:    "AI backend call duration in seconds",
				Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"operation"},
		),

		// Terminal metrics
		TerminalCommands: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nextmac_terminal_commands_total",
				Help: "Total number of terminal commands executed",
			},
			[]string{"command"},
		),

		// WebSocket metrics
		WSConnections: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "nextmac_ws_connections",
				Help: "Number of active WebSocket connections",
			},
		),
		WSMessages: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nextmac_ws_messages_total",
				Help: "Total number of WebSocket messages",
			},
			[]string{"direction", "type"},
		),
	}

	f.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "nextmac_uptime_seconds",
			Help: "Server uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, reqSize, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.RequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))

	m.mu.Lock()
	m.snapshot.TotalRequests++
	if status != "" && (status[0] == '4' || status[0] == '5') {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordAction records a dispatched action and whether it changed state
func (m *Metrics) RecordAction(kind string, applied bool) {
	m.ActionsTotal.WithLabelValues(kind, strconv.FormatBool(applied)).Inc()

	m.mu.Lock()
	m.snapshot.ActionsDispatched++
	if applied {
		m.snapshot.ActionsApplied++
	}
	m.mu.Unlock()
}

// SetSessionGauges publishes the sizes of the session collections
func (m *Metrics) SetSessionGauges(windows, desktopFiles, trashedFiles, installedApps int) {
	m.WindowsOpen.Set(float64(windows))
	m.DesktopFiles.Set(float64(desktopFiles))
	m.TrashedFiles.Set(float64(trashedFiles))
	m.InstalledApps.Set(float64(installedApps))
}

// ObservePersistence records a load or save outcome
func (m *Metrics) ObservePersistence(op string, err error) {
	m.PersistenceOps.WithLabelValues(op, status(err)).Inc()
	if err != nil && op == "save" {
		m.mu.Lock()
		m.snapshot.SaveFailures++
		m.mu.Unlock()
	}
}

// RecordAICall records an AI backend call
func (m *Metrics) RecordAICall(operation string, duration time.Duration, err error) {
	m.AICalls.WithLabelValues(operation, status(err)).Inc()
	m.AIDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordTerminalCommand records an executed terminal command
func (m *Metrics) RecordTerminalCommand(command string) {
	m.TerminalCommands.WithLabelValues(command).Inc()
}

// RecordWSMessage records a WebSocket message
func (m *Metrics) RecordWSMessage(direction, msgType string) {
	m.WSMessages.WithLabelValues(direction, msgType).Inc()
}

// IncWSConnections increments WebSocket connections
func (m *Metrics) IncWSConnections() {
	m.WSConnections.Inc()
	m.mu.Lock()
	m.snapshot.ActiveConnections++
	m.mu.Unlock()
}

// DecWSConnections decrements WebSocket connections
func (m *Metrics) DecWSConnections() {
	m.WSConnections.Dec()
	m.mu.Lock()
	m.snapshot.ActiveConnections--
	m.mu.Unlock()
}

// Snapshot returns the current JSON-friendly values
func (m *Metrics) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := m.snapshot
	s.UptimeSeconds = time.Since(m.startTime).Seconds()
	return s
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
