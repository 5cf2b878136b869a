package rtmlink

import (
	"context"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/harperbay/rtmlink/types"
)

// testContextPair is for property-test bodies that only have a *rapid.T.
func testContextPair() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// fakeRead is one scripted ReadFrame result.
type fakeRead struct {
	frame Frame
	err   error
}

// fakeConn is a scripted frameConn. ReadFrame blocks until the script
// yields the next result or the loop context is cancelled, mirroring the
// blocking receive primitive of the real transport.
type fakeConn struct {
	script chan fakeRead

	mu     sync.Mutex
	closed bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{script: make(chan fakeRead, 64)}
}

func (f *fakeConn) ReadFrame(ctx context.Context, buf []byte) (Frame, error) {
	select {
	case r := <-f.script:
		if r.err != nil {
			return Frame{}, r.err
		}
		n := copy(buf, r.frame.Payload)
		return Frame{Type: r.frame.Type, Payload: buf[:n], Final: r.frame.Final}, nil
	case <-ctx.Done():
		return Frame{}, ctx.Err()
	}
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *fakeConn) text(payload string, final bool) {
	f.script <- fakeRead{frame: Frame{Type: FrameText, Payload: []byte(payload), Final: final}}
}

func (f *fakeConn) binary(payload []byte, final bool) {
	f.script <- fakeRead{frame: Frame{Type: FrameBinary, Payload: payload, Final: final}}
}

func (f *fakeConn) fail(err error) {
	f.script <- fakeRead{err: err}
}

func (f *fakeConn) remoteClose() {
	f.script <- fakeRead{err: websocket.CloseError{Code: websocket.StatusNormalClosure}}
}

// newFakeClient returns a Client whose dialer always hands out conn.
func newFakeClient(cfg Config, conn *fakeConn) *Client {
	c := NewClientWithConfig(cfg, nil)
	c.dial = func(ctx context.Context, url string, cfg Config) (frameConn, error) {
		return conn, nil
	}
	return c
}

// recorder collects dispatched events for later inspection.
type recorder struct {
	mu     sync.Mutex
	events []any
}

func (r *recorder) add(v any) {
	r.mu.Lock()
	r.events = append(r.events, v)
	r.mu.Unlock()
}

func (r *recorder) list() []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]any, len(r.events))
	copy(out, r.events)
	return out
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func (r *recorder) rawPayloads() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, ev := range r.events {
		if raw, ok := ev.(types.RawMessage); ok {
			out = append(out, raw.Payload)
		}
	}
	return out
}

// subscribeAll wires every event kind of c into one recorder.
func subscribeAll(c *Client, r *recorder) {
	c.OnRaw(func(ev types.RawMessage) { r.add(ev) })
	c.OnHello(func(ev types.HelloEvent) { r.add(ev) })
	c.OnMessage(func(ev types.MessageEvent) { r.add(ev) })
	c.OnReactionAdded(func(ev types.ReactionAddedEvent) { r.add(ev) })
	c.OnClosed(func(ev types.CloseEvent) { r.add(ev) })
	c.OnParseError(func(ev types.ParseErrorEvent) { r.add(ev) })
}
