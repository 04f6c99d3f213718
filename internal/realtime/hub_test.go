package realtime

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

// dial opens a websocket client against a test server that serves the hub for
// the user named in the request path.
func dial(t *testing.T, server *httptest.Server, userID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/" + userID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func newHubServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimPrefix(r.URL.Path, "/")
		ServeWS(hub, w, r, userID)
	}))
	t.Cleanup(server.Close)
	return server
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var event Event
	require.NoError(t, json.Unmarshal(data, &event))
	return event
}

func TestHubDeliversToOwner(t *testing.T) {
	hub := NewHub()
	server := newHubServer(t, hub)
	conn := dial(t, server, "user-a")
	time.Sleep(50 * time.Millisecond) // allow registration

	hub.Publish("user-a", EntryCreatedType, map[string]string{"id": "e1"})

	event := readEvent(t, conn)
	assert.Equal(t, EntryCreatedType, event.Type)
	assert.JSONEq(t, `{"id": "e1"}`, string(event.Payload))
	assert.False(t, event.At.IsZero())
}

func TestHubDoesNotCrossUsers(t *testing.T) {
	hub := NewHub()
	server := newHubServer(t, hub)
	connA := dial(t, server, "user-a")
	connB := dial(t, server, "user-b")
	time.Sleep(50 * time.Millisecond)

	hub.Publish("user-a", SummaryGeneratedType, nil)

	event := readEvent(t, connA)
	assert.Equal(t, SummaryGeneratedType, event.Type)

	connB.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, _, err := connB.ReadMessage()
	assert.Error(t, err, "other users must not receive the event")
}

func TestHubFansOutToAllConnections(t *testing.T) {
	hub := NewHub()
	server := newHubServer(t, hub)
	conn1 := dial(t, server, "user-a")
	conn2 := dial(t, server, "user-a")
	time.Sleep(50 * time.Millisecond)

	hub.Publish("user-a", ImportCompletedType, map[string]int{"entriesCreated": 3})

	for _, conn := range []*websocket.Conn{conn1, conn2} {
		event := readEvent(t, conn)
		assert.Equal(t, ImportCompletedType, event.Type)
	}
}

func TestHubPublishDuringDisconnects(t *testing.T) {
	hub := NewHub()
	server := newHubServer(t, hub)
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/user-a"

	// Publishing must survive clients disconnecting at any point; a send racing
	// a channel close would panic the publishing goroutine.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			conn, _, err := websocket.DefaultDialer.Dial(url, nil)
			if err != nil {
				continue
			}
			conn.Close()
		}
	}()

	for {
		select {
		case <-done:
			return
		default:
			hub.Publish("user-a", EntryCreatedType, nil)
		}
	}
}

func TestHubPublishWithoutListeners(t *testing.T) {
	hub := NewHub()
	// Must not block or panic with no connections registered.
	hub.Publish("nobody", EntryCreatedType, nil)
}
