package testutil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"
)

// RTMServer is a fake event service for tests. It accepts websocket
// connections and lets the test script what each connection sends.
type RTMServer struct {
	srv      *httptest.Server
	accepted chan *ServerConn
}

// ServerConn is the server side of one accepted connection.
type ServerConn struct {
	conn *websocket.Conn
	done chan struct{}
	once sync.Once
}

// NewRTMServer starts a fake event service. The server and every accepted
// connection are torn down at test cleanup.
func NewRTMServer(t *testing.T) *RTMServer {
	t.Helper()
	s := &RTMServer{accepted: make(chan *ServerConn, 4)}
	s.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		sc := &ServerConn{conn: conn, done: make(chan struct{})}
		select {
		case s.accepted <- sc:
		case <-r.Context().Done():
			_ = conn.Close(websocket.StatusGoingAway, "server shutting down")
			return
		}
		// Keep the handler, and with it the connection, alive until the
		// test closes it.
		<-sc.done
	}))
	t.Cleanup(s.srv.Close)
	return s
}

// URL returns the websocket endpoint of the fake service.
func (s *RTMServer) URL() string {
	return "ws" + strings.TrimPrefix(s.srv.URL, "http")
}

// WaitConn blocks until a client connection is accepted.
func (s *RTMServer) WaitConn(t *testing.T) *ServerConn {
	t.Helper()
	select {
	case sc := <-s.accepted:
		t.Cleanup(func() { sc.Close(websocket.StatusNormalClosure, "test cleanup") })
		return sc
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for a client connection")
		return nil
	}
}

// Send writes one text message to the client.
func (c *ServerConn) Send(t *testing.T, payload string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.conn.Write(ctx, websocket.MessageText, []byte(payload)); err != nil {
		t.Fatalf("server send failed: %v", err)
	}
}

// SendBinary writes one binary message to the client.
func (c *ServerConn) SendBinary(t *testing.T, payload []byte) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.conn.Write(ctx, websocket.MessageBinary, payload); err != nil {
		t.Fatalf("server send failed: %v", err)
	}
}

// Close performs an orderly websocket close towards the client. Safe to
// call multiple times.
func (c *ServerConn) Close(status websocket.StatusCode, reason string) {
	c.once.Do(func() {
		_ = c.conn.Close(status, reason)
		close(c.done)
	})
}
