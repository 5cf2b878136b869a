package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Collector aggregates the Prometheus instruments for one streaming client.
// All methods are safe for concurrent use and safe to call on a nil
// receiver, so callers that run without metrics skip instrumentation
// without guarding every call site.
type Collector struct {
	connectAttempts *prometheus.CounterVec
	framesTotal     *prometheus.CounterVec
	bytesReceived   prometheus.Counter
	messagesTotal   *prometheus.CounterVec
	closesTotal     *prometheus.CounterVec
	dispatchSeconds *prometheus.HistogramVec

	logger *zap.Logger
}

// NewCollector registers the client instruments on reg under the given
// namespace. Registering two collectors with the same namespace on the same
// registry panics, so tests use a fresh prometheus.NewRegistry per client.
func NewCollector(namespace string, reg prometheus.Registerer, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	factory := promauto.With(reg)

	c := &Collector{
		logger: logger.With(zap.String("component", "metrics")),
	}

	c.connectAttempts = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connect_attempts_total",
			Help:      "Total number of connect attempts by result",
		},
		[]string{"result"},
	)

	c.framesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Total number of transport frames received by frame type",
		},
		[]string{"type"},
	)

	c.bytesReceived = factory.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "received_bytes_total",
			Help:      "Total payload bytes received across all frames",
		},
	)

	c.messagesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_total",
			Help:      "Total number of complete logical messages by message kind",
		},
		[]string{"kind"},
	)

	c.closesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connection_closes_total",
			Help:      "Total number of connection closes by reason",
		},
		[]string{"reason"},
	)

	c.dispatchSeconds = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dispatch_duration_seconds",
			Help:      "Time spent dispatching one logical message to subscribers",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	return c
}

// RecordConnectAttempt counts one Connect call with its outcome label.
func (c *Collector) RecordConnectAttempt(result string) {
	if c == nil {
		return
	}
	c.connectAttempts.WithLabelValues(result).Inc()
}

// RecordFrame counts one received frame and its payload size.
func (c *Collector) RecordFrame(frameType string, payloadBytes int) {
	if c == nil {
		return
	}
	c.framesTotal.WithLabelValues(frameType).Inc()
	c.bytesReceived.Add(float64(payloadBytes))
}

// RecordMessage counts one complete logical message by kind. Unrecognized
// kinds are folded into a single label value to bound cardinality.
func (c *Collector) RecordMessage(kind string, known bool) {
	if c == nil {
		return
	}
	if !known {
		kind = "other"
	}
	c.messagesTotal.WithLabelValues(kind).Inc()
}

// RecordClose counts one connection close by reason.
func (c *Collector) RecordClose(reason string) {
	if c == nil {
		return
	}
	c.closesTotal.WithLabelValues(reason).Inc()
}

// ObserveDispatch records how long subscriber dispatch took for one message.
func (c *Collector) ObserveDispatch(kind string, known bool, d time.Duration) {
	if c == nil {
		return
	}
	if !known {
		kind = "other"
	}
	c.dispatchSeconds.WithLabelValues(kind).Observe(d.Seconds())
}
