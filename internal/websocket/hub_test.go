package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
)

const testSecret = "test-secret"

func signToken(t *testing.T, userID string) string {
	t.Helper()

	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(15 * time.Minute).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return token
}

func dialHub(t *testing.T, hub *Hub, userID string) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWebSocket))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?token=" + signToken(t, userID)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	// The handler registers after the handshake completes; wait for it.
	deadline := time.Now().Add(time.Second)
	for {
		hub.mu.RLock()
		registered := len(hub.connections[userID])
		hub.mu.RUnlock()
		if registered > 0 {
			return conn
		}
		if time.Now().After(deadline) {
			t.Fatal("Connection never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHandleWebSocketRejectsBadTokens(t *testing.T) {
	hub := NewHub(testSecret)
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWebSocket))
	defer srv.Close()

	tests := []struct {
		name  string
		query string
	}{
		{"missing token", ""},
		{"garbage token", "?token=not-a-jwt"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tc.query)
			if err != nil {
				t.Fatalf("Request failed: %v", err)
			}
			resp.Body.Close()
			if resp.StatusCode != http.StatusUnauthorized {
				t.Errorf("Expected 401, got %d", resp.StatusCode)
			}
		})
	}
}

func TestConcurrentBroadcastsSerializeWrites(t *testing.T) {
	hub := NewHub(testSecret)
	conn := dialHub(t, hub, "sarat")

	const writers = 16
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.Broadcast(map[string]string{"type": "feed"})
		}()
	}

	// Drain every message; without per-connection write locking the
	// overlapping writers panic inside gorilla/websocket.
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for received := 0; received < writers; received++ {
		if _, _, err := conn.ReadMessage(); err != nil {
			t.Fatalf("Read failed after %d messages: %v", received, err)
		}
	}
	wg.Wait()
}

func TestSendToUserTargetsOnlyThatUser(t *testing.T) {
	hub := NewHub(testSecret)
	saratConn := dialHub(t, hub, "sarat")
	otherConn := dialHub(t, hub, "other")

	hub.SendToUser("sarat", map[string]string{"type": "user", "event": "assignment_started"})

	saratConn.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := saratConn.ReadMessage()
	if err != nil {
		t.Fatalf("Expected targeted user to receive the message: %v", err)
	}
	if !strings.Contains(string(data), "assignment_started") {
		t.Errorf("Unexpected payload %s", data)
	}

	otherConn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	if _, _, err := otherConn.ReadMessage(); err == nil {
		t.Error("Expected the other user's connection to stay silent")
	}
}
