package rtmlink

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/harperbay/rtmlink/internal/metrics"
	"github.com/harperbay/rtmlink/types"
)

// Config configures a Client's transport behavior.
type Config struct {
	// ReadBufferSize is the fixed per-read buffer in bytes (>= 1). One
	// read fills at most one buffer and yields one frame.
	ReadBufferSize int
	// ConnectTimeout bounds the websocket handshake. A negative value
	// means unbounded.
	ConnectTimeout time.Duration
	// MaxMessageSize caps one reassembled logical message. Exceeding it is
	// treated as a transport fault and closes the connection.
	MaxMessageSize int
	// Subprotocols to offer during the handshake.
	Subprotocols []string
	// MetricsRegistry enables Prometheus instrumentation when non-nil.
	MetricsRegistry prometheus.Registerer
	// MetricsNamespace prefixes the registered instruments (default
	// "rtmlink").
	MetricsNamespace string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ReadBufferSize:   4096,
		ConnectTimeout:   30 * time.Second,
		MaxMessageSize:   4 << 20,
		MetricsNamespace: "rtmlink",
	}
}

// Client maintains at most one live streaming connection to the event
// service. State queries, Connect, Disconnect and subscribe/unsubscribe
// calls may run from arbitrary goroutines; the check-then-act sequences on
// the lifecycle state are serialized under a single mutex.
type Client struct {
	cfg      Config
	logger   *zap.Logger
	metrics  *metrics.Collector
	registry *registry
	router   *router

	mu    sync.Mutex
	state State
	conn  *connection

	dial dialFunc
}

// connection is the per-cycle resource set: the exclusively owned
// transport handle, the loop's cancellation signal, and the one-shot done
// channel closed exactly once at loop exit.
type connection struct {
	id     string
	ws     frameConn
	cancel context.CancelFunc
	done   chan struct{}
}

// NewClient creates a Client with default configuration.
func NewClient(logger *zap.Logger) *Client {
	return NewClientWithConfig(DefaultConfig(), logger)
}

// NewClientWithConfig creates a Client with custom configuration.
func NewClientWithConfig(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	// Apply defaults for zero-value fields so callers can set only what
	// they care about.
	if cfg.ReadBufferSize == 0 {
		cfg.ReadBufferSize = 4096
	}
	if cfg.MaxMessageSize == 0 {
		cfg.MaxMessageSize = 4 << 20
	}
	if cfg.MetricsNamespace == "" {
		cfg.MetricsNamespace = "rtmlink"
	}

	var collector *metrics.Collector
	if cfg.MetricsRegistry != nil {
		collector = metrics.NewCollector(cfg.MetricsNamespace, cfg.MetricsRegistry, logger)
	}

	logger = logger.With(zap.String("component", "rtm_client"))
	reg := newRegistry()
	return &Client{
		cfg:      cfg,
		logger:   logger,
		metrics:  collector,
		registry: reg,
		router:   newRouter(reg, collector, logger),
		state:    StateStopped,
		dial:     dialWebsocket,
	}
}

// State returns the current lifecycle state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SetReadBufferSize changes the per-read buffer size. Allowed only while
// stopped; n must be at least 1.
func (c *Client) SetReadBufferSize(n int) error {
	if n < 1 {
		return types.NewError(types.ErrInvalidArgument,
			fmt.Sprintf("read buffer size must be at least 1 byte, got %d", n))
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateStopped {
		return types.NewError(types.ErrInvalidRunningState,
			fmt.Sprintf("read buffer size is mutable only while %q, current state %q", StateStopped, c.state))
	}
	c.cfg.ReadBufferSize = n
	return nil
}

// SetConnectTimeout changes the handshake bound. A negative duration means
// unbounded. Allowed only while stopped.
func (c *Client) SetConnectTimeout(d time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateStopped {
		return types.NewError(types.ErrInvalidRunningState,
			fmt.Sprintf("connect timeout is mutable only while %q, current state %q", StateStopped, c.state))
	}
	c.cfg.ConnectTimeout = d
	return nil
}

// Connect establishes the streaming connection to url and starts the
// receive loop. Allowed only from stopped; a concurrent caller that loses
// the race gets an INVALID_RUNNING_STATE error and causes no state change.
// Handshake failures revert the client to stopped and are returned
// synchronously as typed errors.
func (c *Client) Connect(ctx context.Context, url string) error {
	c.mu.Lock()
	if c.state != StateStopped {
		state := c.state
		c.mu.Unlock()
		c.metrics.RecordConnectAttempt("invalid_state")
		return types.NewError(types.ErrInvalidRunningState,
			fmt.Sprintf("connect requires state %q, current state %q", StateStopped, state))
	}
	c.state = StateStarting
	cfg := c.cfg
	c.mu.Unlock()

	c.logger.Info("connecting", zap.String("url", url))

	dialCtx := ctx
	if cfg.ConnectTimeout >= 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	ws, err := c.dial(dialCtx, url, cfg)
	if err != nil {
		c.mu.Lock()
		c.state = StateStopped
		c.mu.Unlock()

		if errors.Is(err, context.DeadlineExceeded) {
			c.metrics.RecordConnectAttempt("handshake_timeout")
			c.logger.Warn("handshake timed out",
				zap.Duration("timeout", cfg.ConnectTimeout),
				zap.Error(err))
			return types.NewError(types.ErrHandshakeTimeout,
				fmt.Sprintf("handshake exceeded %v", cfg.ConnectTimeout)).WithCause(err)
		}
		c.metrics.RecordConnectAttempt("transport_fault")
		c.logger.Warn("handshake failed", zap.Error(err))
		return types.NewError(types.ErrTransportFault, "websocket handshake failed").WithCause(err)
	}

	// The loop outlives the Connect call, so its context derives from
	// Background rather than ctx: cancellation of a running connection
	// happens only through Disconnect.
	loopCtx, cancel := context.WithCancel(context.Background())
	conn := &connection{
		id:     uuid.NewString(),
		ws:     ws,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	c.mu.Lock()
	c.conn = conn
	c.state = StateStarted
	c.mu.Unlock()

	c.metrics.RecordConnectAttempt("success")
	c.logger.Info("connected", zap.String("conn_id", conn.id))

	go c.receiveLoop(loopCtx, conn, cfg)
	return nil
}

// Disconnect requests a cooperative shutdown of the live connection. It
// reports false immediately, with no side effects, when the client is not
// started. On true, the receive loop has fully exited, the transport
// handle is released and the state is back to stopped.
func (c *Client) Disconnect() bool {
	c.mu.Lock()
	if c.state != StateStarted {
		c.mu.Unlock()
		return false
	}
	c.state = StateStopping
	conn := c.conn
	c.mu.Unlock()

	c.logger.Info("disconnecting", zap.String("conn_id", conn.id))

	// Cancellation is cooperative: it takes effect at the loop's next
	// receive boundary, not synchronously.
	conn.cancel()
	<-conn.done
	return true
}

// transitionStopped walks the state back to stopped at loop exit, passing
// through stopping when the loop ended without a Disconnect claim (remote
// close or fault).
func (c *Client) transitionStopped(conn *connection) {
	c.mu.Lock()
	if c.state == StateStarted {
		c.state = StateStopping
	}
	c.state = StateStopped
	if c.conn == conn {
		c.conn = nil
	}
	c.mu.Unlock()
}
