package ws

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/nextmac/internal/domain/catalog"
	"github.com/GriffinCanCode/nextmac/internal/domain/desktop"
	"github.com/GriffinCanCode/nextmac/internal/domain/session"
	"github.com/GriffinCanCode/nextmac/internal/infrastructure/monitoring"
)

func newTestServer(t *testing.T) (*session.Store, *Hub, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cat := catalog.MustDefault()
	store := session.NewStore(desktop.NewReducer(cat), desktop.NewState(cat))
	hub := NewHub(store, WithMetrics(monitoring.NewMetrics(prometheus.NewRegistry())))

	router := gin.New()
	router.GET("/stream", hub.HandleConnection)
	srv := httptest.NewServer(router)
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})

	return store, hub, "ws" + strings.TrimPrefix(srv.URL, "http") + "/stream"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) Outbound {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg Outbound
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestInitialSnapshot(t *testing.T) {
	store, _, url := newTestServer(t)
	store.Dispatch(desktop.CreateFolder{})

	msg := read(t, dial(t, url))
	assert.Equal(t, TypeState, msg.Type)
	assert.Equal(t, uint64(1), msg.Seq)
	require.NotNil(t, msg.State)
	assert.Len(t, msg.State.DesktopFiles, 1)
}

func TestActionsBroadcast(t *testing.T) {
	_, hub, url := newTestServer(t)

	a := dial(t, url)
	b := dial(t, url)
	read(t, a)
	read(t, b)
	require.Eventually(t, func() bool { return hub.Clients() == 2 }, time.Second, 10*time.Millisecond)

	require.NoError(t, a.WriteJSON(map[string]any{"type": "OPEN", "payload": map[string]string{"appId": "finder"}}))

	for _, conn := range []*websocket.Conn{a, b} {
		msg := read(t, conn)
		assert.Equal(t, TypeState, msg.Type)
		assert.Equal(t, desktop.KindOpen, msg.Action)
		assert.Equal(t, uint64(1), msg.Seq)
		require.Len(t, msg.State.Windows, 1)
		assert.Equal(t, "finder", msg.State.Windows[0].AppID)
	}
}

func TestStoreDispatchReachesClients(t *testing.T) {
	store, hub, url := newTestServer(t)
	conn := dial(t, url)
	read(t, conn)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	store.Dispatch(desktop.Open{AppID: "terminal"})
	store.Dispatch(desktop.Close{WindowID: "missing"})
	store.Dispatch(desktop.CreateFolder{})

	first := read(t, conn)
	second := read(t, conn)
	assert.Equal(t, []uint64{1, 2}, []uint64{first.Seq, second.Seq})
	assert.Equal(t, desktop.KindCreateFolder, second.Action)
}

func TestPingAndErrors(t *testing.T) {
	store, _, url := newTestServer(t)
	conn := dial(t, url)
	read(t, conn)

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "ping"}))
	assert.Equal(t, TypePong, read(t, conn).Type)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	assert.Equal(t, TypeError, read(t, conn).Type)

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "EXPLODE"}))
	msg := read(t, conn)
	assert.Equal(t, TypeError, msg.Type)
	assert.Contains(t, msg.Message, "EXPLODE")

	payload, err := json.Marshal(map[string]any{"type": "CHANGE_PASSWORD", "payload": map[string]string{"password": "x"}})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, payload))
	assert.Equal(t, TypeError, read(t, conn).Type)
	assert.Equal(t, desktop.DefaultPassword, store.State().Password)
	assert.Equal(t, uint64(0), store.Seq())
}

func TestCloseDisconnectsClients(t *testing.T) {
	_, hub, url := newTestServer(t)
	conn := dial(t, url)
	read(t, conn)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	hub.Close()
	assert.Equal(t, 0, hub.Clients())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}
