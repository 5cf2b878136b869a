package rtmlink

import (
	"context"
	"io"

	"github.com/coder/websocket"
)

// FrameType classifies one transport-level delivery unit.
type FrameType string

const (
	FrameText   FrameType = "text"
	FrameBinary FrameType = "binary"
)

// Frame is one transport-level delivery unit, possibly a fragment of a
// larger logical message. Payload aliases the read buffer and is only
// valid until the next ReadFrame call.
type Frame struct {
	Type    FrameType
	Payload []byte
	Final   bool
}

// frameConn is the blocking frame source the receive loop drains. The
// production implementation wraps a websocket connection; tests substitute
// scripted fakes.
type frameConn interface {
	// ReadFrame fills buf with the next fragment and reports whether it
	// completes a logical message. A remote close surfaces as an error
	// carrying a websocket close status; context cancellation surfaces as
	// the context's error at the next read boundary.
	ReadFrame(ctx context.Context, buf []byte) (Frame, error)
	// Close releases the underlying transport handle.
	Close() error
}

// dialFunc establishes a frameConn. Client uses dialWebsocket; tests
// override it to inject fakes.
type dialFunc func(ctx context.Context, url string, cfg Config) (frameConn, error)

func dialWebsocket(ctx context.Context, url string, cfg Config) (frameConn, error) {
	conn, _, err := websocket.Dial(ctx, url, &websocket.DialOptions{
		Subprotocols: cfg.Subprotocols,
	})
	if err != nil {
		return nil, err
	}
	// The library default read limit is far below what event payloads can
	// reach; the loop enforces cfg.MaxMessageSize itself during reassembly.
	conn.SetReadLimit(int64(cfg.MaxMessageSize))
	return &wsFrameConn{conn: conn}, nil
}

// wsFrameConn adapts a websocket connection to per-fragment reads. The
// websocket library exposes one io.Reader per logical message; each Read
// into the fixed buffer yields one Frame, and io.EOF marks the final
// fragment.
type wsFrameConn struct {
	conn *websocket.Conn
	typ  websocket.MessageType
	r    io.Reader
}

func (w *wsFrameConn) ReadFrame(ctx context.Context, buf []byte) (Frame, error) {
	if w.r == nil {
		typ, r, err := w.conn.Reader(ctx)
		if err != nil {
			return Frame{}, err
		}
		w.typ = typ
		w.r = r
	}

	n, err := w.r.Read(buf)
	switch {
	case err == io.EOF:
		w.r = nil
		return Frame{Type: frameTypeOf(w.typ), Payload: buf[:n], Final: true}, nil
	case err != nil:
		return Frame{}, err
	default:
		return Frame{Type: frameTypeOf(w.typ), Payload: buf[:n], Final: false}, nil
	}
}

func (w *wsFrameConn) Close() error {
	return w.conn.Close(websocket.StatusNormalClosure, "client disconnect")
}

func frameTypeOf(typ websocket.MessageType) FrameType {
	if typ == websocket.MessageBinary {
		return FrameBinary
	}
	return FrameText
}
