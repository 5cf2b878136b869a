// Package gateway implements the request/response collaborator that hands
// out streaming endpoints. The core client never imports this package:
// callers open a session here, then pass Session.URL to rtmlink.Connect.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/harperbay/rtmlink/types"
)

// Config configures the gateway client.
type Config struct {
	// BaseURL is the gateway root, e.g. "https://gateway.example.com/api".
	BaseURL string
	// Token is the opaque bearer token presented on every call.
	Token string
	// Timeout bounds each gateway request (default 10s).
	Timeout time.Duration
	// RequestsPerSecond throttles outbound calls; the connect endpoint is
	// strictly rate-limited service-side (default 1).
	RequestsPerSecond float64
	// Burst is the limiter burst size (default 2).
	Burst int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:           10 * time.Second,
		RequestsPerSecond: 1,
		Burst:             2,
	}
}

// Identity describes the authenticated caller.
type Identity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Team describes the workspace the session belongs to.
type Team struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Domain string `json:"domain"`
}

// Session is the result of a successful Open call. URL is the streaming
// endpoint to hand to rtmlink.Connect; it is single-use and short-lived.
type Session struct {
	URL  string   `json:"url"`
	Self Identity `json:"self"`
	Team Team     `json:"team"`
}

type connectResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
	Session
}

// Client performs the outbound gateway calls.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	tracer  trace.Tracer
	logger  *zap.Logger
}

// NewClient creates a gateway client. A nil logger is replaced with a nop.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = 1
	}
	if cfg.Burst == 0 {
		cfg.Burst = 2
	}
	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		tracer:  otel.Tracer("github.com/harperbay/rtmlink/gateway"),
		logger:  logger.With(zap.String("component", "gateway")),
	}
}

// Open requests a fresh streaming session. The returned Session.URL is
// what the streaming client connects to.
func (c *Client) Open(ctx context.Context) (*Session, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, types.NewError(types.ErrGatewayUnavailable, "rate limiter wait aborted").WithCause(err)
	}

	ctx, span := c.tracer.Start(ctx, "gateway.Open")
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/rtm.connect", nil)
	if err != nil {
		return nil, types.NewError(types.ErrGateway, "build connect request").WithCause(err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "gateway unreachable")
		c.logger.Warn("gateway request failed", zap.Error(err))
		return nil, types.NewError(types.ErrGatewayUnavailable, "gateway request failed").WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("gateway returned status %d", resp.StatusCode)
		span.RecordError(err)
		span.SetStatus(codes.Error, "unexpected status")
		return nil, types.NewError(types.ErrGateway, "connect rejected").WithCause(err)
	}

	var body connectResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "malformed response")
		return nil, types.NewError(types.ErrGateway, "decode connect response").WithCause(err)
	}

	if !body.OK {
		err := fmt.Errorf("service error: %s", body.Error)
		span.RecordError(err)
		span.SetStatus(codes.Error, "service error")
		return nil, types.NewError(types.ErrGateway, "connect refused by service").WithCause(err)
	}
	if body.URL == "" {
		return nil, types.NewError(types.ErrGateway, "connect response carried no endpoint URL")
	}

	span.SetAttributes(
		attribute.String("rtm.team_id", body.Team.ID),
		attribute.String("rtm.self_id", body.Self.ID),
	)
	c.logger.Info("session opened",
		zap.String("team", body.Team.ID),
		zap.String("self", body.Self.ID))

	return &body.Session, nil
}
