package rtmlink

import (
	"sync"

	"github.com/google/uuid"

	"github.com/harperbay/rtmlink/types"
)

// EventKind identifies a subscriber event category.
type EventKind string

const (
	// EventRaw fires for every complete logical message, before any typed
	// dispatch, regardless of whether the type was recognized.
	EventRaw           EventKind = "raw"
	EventHello         EventKind = "hello"
	EventMessage       EventKind = "message"
	EventReactionAdded EventKind = "reaction_added"
	// EventClosed fires exactly once per connection lifecycle, at receive
	// loop exit.
	EventClosed EventKind = "closed"
	// EventParseError fires when a recognized message type fails to
	// deserialize; the loop continues afterwards.
	EventParseError EventKind = "parse_error"
)

// Subscription is an opaque handle returned by the On* methods, used to
// unsubscribe a listener.
type Subscription struct {
	kind EventKind
	id   uuid.UUID
}

type subscriber struct {
	id uuid.UUID
	fn func(any)
}

// registry maps event kinds to ordered listener lists. Subscribe and
// unsubscribe may run from any goroutine while the receive loop
// dispatches; dispatch iterates a snapshot taken under the read lock so
// concurrent mutation cannot invalidate the iteration.
type registry struct {
	mu   sync.RWMutex
	subs map[EventKind][]subscriber
}

func newRegistry() *registry {
	return &registry{subs: make(map[EventKind][]subscriber)}
}

func (r *registry) add(kind EventKind, fn func(any)) Subscription {
	id := uuid.New()
	r.mu.Lock()
	r.subs[kind] = append(r.subs[kind], subscriber{id: id, fn: fn})
	r.mu.Unlock()
	return Subscription{kind: kind, id: id}
}

func (r *registry) remove(s Subscription) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.subs[s.kind]
	for i, sub := range list {
		if sub.id == s.id {
			// Copy-on-write keeps any in-flight dispatch snapshot intact.
			next := make([]subscriber, 0, len(list)-1)
			next = append(next, list[:i]...)
			next = append(next, list[i+1:]...)
			r.subs[s.kind] = next
			return true
		}
	}
	return false
}

func (r *registry) snapshot(kind EventKind) []subscriber {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.subs[kind]
}

// dispatch invokes every listener registered for kind, in subscription
// order, outside the registry lock.
func (r *registry) dispatch(kind EventKind, ev any) {
	for _, sub := range r.snapshot(kind) {
		sub.fn(ev)
	}
}

// OnRaw registers a listener for every complete logical message.
func (c *Client) OnRaw(fn func(types.RawMessage)) Subscription {
	return c.registry.add(EventRaw, func(v any) { fn(v.(types.RawMessage)) })
}

// OnHello registers a listener for the connection-ready notice.
func (c *Client) OnHello(fn func(types.HelloEvent)) Subscription {
	return c.registry.add(EventHello, func(v any) { fn(v.(types.HelloEvent)) })
}

// OnMessage registers a listener for chat messages.
func (c *Client) OnMessage(fn func(types.MessageEvent)) Subscription {
	return c.registry.add(EventMessage, func(v any) { fn(v.(types.MessageEvent)) })
}

// OnReactionAdded registers a listener for reaction notices.
func (c *Client) OnReactionAdded(fn func(types.ReactionAddedEvent)) Subscription {
	return c.registry.add(EventReactionAdded, func(v any) { fn(v.(types.ReactionAddedEvent)) })
}

// OnClosed registers a listener for the connection close notification.
func (c *Client) OnClosed(fn func(types.CloseEvent)) Subscription {
	return c.registry.add(EventClosed, func(v any) { fn(v.(types.CloseEvent)) })
}

// OnParseError registers a listener for typed-payload deserialization
// failures.
func (c *Client) OnParseError(fn func(types.ParseErrorEvent)) Subscription {
	return c.registry.add(EventParseError, func(v any) { fn(v.(types.ParseErrorEvent)) })
}

// Unsubscribe removes a previously registered listener. It reports whether
// the subscription was still active. Safe to call from any goroutine,
// including from inside a listener.
func (c *Client) Unsubscribe(s Subscription) bool {
	return c.registry.remove(s)
}
