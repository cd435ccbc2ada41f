package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/nextmac/internal/domain/desktop"
	"github.com/GriffinCanCode/nextmac/internal/domain/session"
	"github.com/GriffinCanCode/nextmac/internal/infrastructure/logging"
	"github.com/GriffinCanCode/nextmac/internal/infrastructure/monitoring"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 16 << 20
	sendBuffer     = 32
)

// Message types
const (
	TypeState = "state"
	TypePong  = "pong"
	TypeError = "error"

	TypePing desktop.Kind = "ping"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS policy is enforced on the HTTP routes
	},
}

// Outbound is a server to client message
type Outbound struct {
	Type    string         `json:"type"`
	Seq     uint64         `json:"seq,omitempty"`
	Action  desktop.Kind   `json:"action,omitempty"`
	State   *desktop.State `json:"state,omitempty"`
	Message string         `json:"message,omitempty"`
}

// Hub streams applied changes to every connected client and accepts
// actions from them
type Hub struct {
	store   *session.Store
	log     *logging.Logger
	metrics *monitoring.Metrics

	mu          sync.Mutex
	clients     map[*client]struct{}
	unsubscribe func()
	closed      bool
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	log  *logging.Logger
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}

// Option configures a Hub
type Option func(*Hub)

// WithLogger sets the logger
func WithLogger(log *logging.Logger) Option {
	return func(h *Hub) { h.log = log }
}

// WithMetrics records connections and messages
func WithMetrics(m *monitoring.Metrics) Option {
	return func(h *Hub) { h.metrics = m }
}

// NewHub creates a hub subscribed to store
func NewHub(store *session.Store, opts ...Option) *Hub {
	h := &Hub{
		store:   store,
		log:     logging.NewNop(),
		clients: make(map[*client]struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.log = h.log.Component("ws")
	h.unsubscribe = store.Subscribe(h)
	return h
}

// Observe fans an applied change out to every client. It runs under the
// store lock, so sends never block: a client whose buffer is full is
// disconnected.
func (h *Hub) Observe(c session.Change) {
	after := c.After
	data, err := json.Marshal(Outbound{Type: TypeState, Seq: c.Seq, Action: c.Action.Kind(), State: &after})
	if err != nil {
		h.log.Error("Failed to encode change", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for cl := range h.clients {
		select {
		case cl.send <- data:
			h.record("out", TypeState)
		default:
			cl.log.Warn("Dropping slow client")
			delete(h.clients, cl)
			cl.close()
		}
	}
}

// Clients returns the number of connected clients
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client and stops observing the store
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	for cl := range h.clients {
		delete(h.clients, cl)
		cl.close()
	}
	h.mu.Unlock()
	h.unsubscribe()
}

// HandleConnection upgrades the request and serves the client until it
// disconnects
func (h *Hub) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	cl := &client{
		conn: conn,
		send: make(chan []byte, sendBuffer),
		log:  h.log.With(zap.String("remote", conn.RemoteAddr().String())),
	}

	// Register before taking the snapshot so no change between the two is lost.
	// A change racing the snapshot may arrive twice; clients order by seq.
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[cl] = struct{}{}
	h.mu.Unlock()
	cl.log.Debug("Client connected", zap.Int("clients", h.Clients()))

	if h.metrics != nil {
		h.metrics.IncWSConnections()
		defer h.metrics.DecWSConnections()
	}

	s, seq := h.store.Snapshot()
	h.enqueue(cl, Outbound{Type: TypeState, Seq: seq, State: &s})

	go h.writePump(cl)
	h.readPump(cl)
}

func (h *Hub) readPump(cl *client) {
	defer func() {
		h.remove(cl)
		cl.conn.Close()
	}()

	cl.conn.SetReadLimit(maxMessageSize)
	_ = cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := cl.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				cl.log.Debug("WebSocket read error", zap.Error(err))
			}
			return
		}
		h.handleMessage(cl, data)
	}
}

func (h *Hub) handleMessage(cl *client, data []byte) {
	var env desktop.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		h.enqueue(cl, Outbound{Type: TypeError, Message: "invalid message"})
		return
	}
	if env.Type == TypePing {
		h.record("in", string(TypePing))
		h.enqueue(cl, Outbound{Type: TypePong})
		return
	}

	action, err := env.Decode()
	if err != nil {
		h.record("in", "invalid")
		h.enqueue(cl, Outbound{Type: TypeError, Message: err.Error()})
		return
	}
	h.record("in", string(action.Kind()))
	if action.Kind() == desktop.KindChangePassword {
		h.enqueue(cl, Outbound{Type: TypeError, Message: "use /auth/password to change the password"})
		return
	}
	h.store.Dispatch(action)
}

func (h *Hub) writePump(cl *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		cl.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-cl.send:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = cl.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := cl.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) enqueue(cl *client, msg Outbound) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Error("Failed to encode message", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[cl]; !ok {
		return
	}
	select {
	case cl.send <- data:
		h.record("out", msg.Type)
	default:
		delete(h.clients, cl)
		cl.close()
	}
}

func (h *Hub) remove(cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[cl]; ok {
		delete(h.clients, cl)
		cl.close()
	}
}

func (h *Hub) record(direction, msgType string) {
	if h.metrics != nil {
		h.metrics.RecordWSMessage(direction, msgType)
	}
}
