package rtmlink

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/harperbay/rtmlink/internal/metrics"
	"github.com/harperbay/rtmlink/internal/wire"
	"github.com/harperbay/rtmlink/types"
)

// Wire discriminator values recognized by this client version.
const (
	wireHello         = "hello"
	wireMessage       = "message"
	wireReactionAdded = "reaction_added"
)

// router classifies complete logical messages and fans them out to
// subscribers. Classification uses a forward-only discriminator scan so
// unknown or malformed payload bodies still classify cheaply; only
// recognized kinds pay for a full unmarshal.
type router struct {
	registry *registry
	metrics  *metrics.Collector
	logger   *zap.Logger
}

func newRouter(reg *registry, collector *metrics.Collector, logger *zap.Logger) *router {
	return &router{
		registry: reg,
		metrics:  collector,
		logger:   logger.With(zap.String("component", "router")),
	}
}

func recognized(kind string) bool {
	switch kind {
	case wireHello, wireMessage, wireReactionAdded:
		return true
	}
	return false
}

// route dispatches one logical message. It never returns an error: parse
// failures become parse_error events and unrecognized kinds are logged,
// so a bad payload can never terminate the receive loop.
func (r *router) route(payload string) {
	kind := wire.ScanType(payload)
	known := recognized(kind)
	r.metrics.RecordMessage(kind, known)

	start := time.Now()
	defer func() {
		r.metrics.ObserveDispatch(kind, known, time.Since(start))
	}()

	// Catch-all notification first, for observability regardless of
	// recognition.
	r.registry.dispatch(EventRaw, types.RawMessage{Type: kind, Payload: payload})

	switch kind {
	case wireHello:
		var ev types.HelloEvent
		if !r.decode(kind, payload, &ev) {
			return
		}
		r.registry.dispatch(EventHello, ev)
	case wireMessage:
		var ev types.MessageEvent
		if !r.decode(kind, payload, &ev) {
			return
		}
		r.registry.dispatch(EventMessage, ev)
	case wireReactionAdded:
		var ev types.ReactionAddedEvent
		if !r.decode(kind, payload, &ev) {
			return
		}
		r.registry.dispatch(EventReactionAdded, ev)
	default:
		// Unrecognized types are valid wire input.
		r.logger.Debug("unrecognized message type",
			zap.String("kind", kind))
	}
}

// decode unmarshals a recognized payload, emitting a parse_error event on
// failure.
func (r *router) decode(kind, payload string, into any) bool {
	if err := json.Unmarshal([]byte(payload), into); err != nil {
		r.logger.Warn("typed payload failed to deserialize",
			zap.String("kind", kind),
			zap.Error(err))
		r.registry.dispatch(EventParseError, types.ParseErrorEvent{
			Kind:    kind,
			Payload: payload,
			Err:     err,
		})
		return false
	}
	return true
}
