package ws_test

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"adventure-server/internal/ws"
)

func dialTestServer(t *testing.T, initial func() []byte) (*ws.ConnectionManager, *websocket.Conn) {
	t.Helper()

	manager := ws.NewConnectionManager(zap.NewNop())
	handler := ws.NewHandler(manager, zap.NewNop(), initial)

	e := echo.New()
	e.GET("/ws", handler.ServeWS)
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return manager, conn
}

func TestServeWS(t *testing.T) {
	t.Run("Initial frame then broadcast", func(t *testing.T) {
		initial := []byte(`{"story_text":"You wake in a forest."}`)
		manager, conn := dialTestServer(t, func() []byte { return initial })

		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, frame, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.Equal(t, initial, frame)

		// Receiving the initial frame guarantees the client is registered,
		// so a broadcast from here on must reach it.
		update := []byte(`{"story_text":"The trees thin out."}`)
		manager.Broadcast(update)

		_, frame, err = conn.ReadMessage()
		require.NoError(t, err)
		assert.Equal(t, update, frame)
	})

	t.Run("Nil initial frame is skipped", func(t *testing.T) {
		manager, conn := dialTestServer(t, nil)

		update := []byte(`{"generation":1}`)
		// Give the register channel a moment; no initial frame to sync on.
		require.Eventually(t, func() bool {
			manager.Broadcast(update)
			_ = conn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
			_, frame, err := conn.ReadMessage()
			return err == nil && string(frame) == string(update)
		}, 2*time.Second, 50*time.Millisecond)
	})
}
