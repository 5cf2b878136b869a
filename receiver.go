package rtmlink

import (
	"bytes"
	"context"
	"fmt"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/harperbay/rtmlink/types"
)

// receiveLoop is the single background loop of one connection. Whatever
// path readFrames exits through, the tail of this function runs exactly
// once: it releases the transport handle, emits the close notification,
// returns the state machine to stopped and fulfills the done channel.
func (c *Client) receiveLoop(ctx context.Context, conn *connection, cfg Config) {
	ev := c.readFrames(ctx, conn, cfg)

	_ = conn.ws.Close()
	c.metrics.RecordClose(string(ev.Reason))
	c.logger.Info("connection closed",
		zap.String("conn_id", conn.id),
		zap.String("reason", string(ev.Reason)),
		zap.Error(ev.Cause))

	c.registry.dispatch(EventClosed, ev)
	c.transitionStopped(conn)
	close(conn.done)
}

// readFrames pulls frames off the transport and reassembles logical
// messages until the connection ends, returning the close classification.
func (c *Client) readFrames(ctx context.Context, conn *connection, cfg Config) types.CloseEvent {
	buf := make([]byte, cfg.ReadBufferSize)
	// Reassembly arena, reused across messages. It only holds data while a
	// multi-frame message is open and is reset exactly once per completed
	// logical message.
	var acc bytes.Buffer

	for {
		frame, err := conn.ws.ReadFrame(ctx, buf)
		if err != nil {
			return c.classifyReadError(ctx, conn, err)
		}

		c.metrics.RecordFrame(string(frame.Type), len(frame.Payload))

		if frame.Type == FrameBinary {
			// Binary frames are observed but not parsed in this version.
			c.logger.Debug("binary frame received",
				zap.String("conn_id", conn.id),
				zap.Int("bytes", len(frame.Payload)),
				zap.Bool("final", frame.Final))
			continue
		}

		if acc.Len()+len(frame.Payload) > cfg.MaxMessageSize {
			err := fmt.Errorf("logical message exceeds %d bytes", cfg.MaxMessageSize)
			c.logger.Error("oversized message", zap.String("conn_id", conn.id), zap.Error(err))
			return types.CloseEvent{Reason: types.CloseReasonFault, Cause: err}
		}

		if !frame.Final {
			acc.Write(frame.Payload)
			continue
		}

		var payload string
		if acc.Len() == 0 {
			// Single-frame message: the frame payload is the complete
			// logical message, no copy through the arena.
			payload = string(frame.Payload)
		} else {
			acc.Write(frame.Payload)
			payload = acc.String()
			acc.Reset()
		}

		c.router.route(payload)
	}
}

// classifyReadError maps a failed read to the connection's close reason.
func (c *Client) classifyReadError(ctx context.Context, conn *connection, err error) types.CloseEvent {
	// Cancellation observed at the receive boundary is the cooperative
	// shutdown path, not a fault.
	if ctx.Err() != nil {
		return types.CloseEvent{Reason: types.CloseReasonUserRequest}
	}

	if status := websocket.CloseStatus(err); status != -1 {
		c.logger.Info("remote peer closed the connection",
			zap.String("conn_id", conn.id),
			zap.Int("status", int(status)))
		return types.CloseEvent{Reason: types.CloseReasonRemote}
	}

	c.logger.Error("transport fault while receiving",
		zap.String("conn_id", conn.id),
		zap.Error(err))
	return types.CloseEvent{Reason: types.CloseReasonFault, Cause: err}
}
