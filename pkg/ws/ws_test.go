package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialHub(t *testing.T, hub *Hub, userID string) *websocket.Conn {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.Serve(w, r, userID)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	// Serve registers the client just after the upgrade; wait until the
	// hub sees it before notifying.
	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return len(hub.clients[userID]) == 1
	}, time.Second, 5*time.Millisecond)

	return conn
}

func TestNotifyUserDeliversToOwnerOnly(t *testing.T) {
	hub := NewHub()
	ownerConn := dialHub(t, hub, "owner")
	otherConn := dialHub(t, hub, "other")

	hub.NotifyUser("owner", OrderEvent{Type: "order.status", OrderID: "ORD-1-AAAAAAAAA", Status: "shipped"})

	ownerConn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := ownerConn.ReadMessage()
	require.NoError(t, err)

	var got OrderEvent
	require.NoError(t, json.Unmarshal(msg, &got))
	assert.Equal(t, "order.status", got.Type)
	assert.Equal(t, "shipped", got.Status)

	otherConn.SetReadDeadline(time.Now().Add(150 * time.Millisecond))
	_, _, err = otherConn.ReadMessage()
	assert.Error(t, err, "the other user's socket must stay silent")
}

func TestNotifyUserWithoutListeners(t *testing.T) {
	hub := NewHub()
	// Must not panic or block.
	hub.NotifyUser("nobody", OrderEvent{Type: "order.status"})
}

func TestDisconnectRemovesClient(t *testing.T) {
	hub := NewHub()
	conn := dialHub(t, hub, "owner")

	conn.Close()

	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return len(hub.clients["owner"]) == 0
	}, time.Second, 5*time.Millisecond)
}
