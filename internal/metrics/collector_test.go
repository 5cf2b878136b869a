package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCollector(t *testing.T) (*Collector, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	return NewCollector("rtmlink", reg, nil), reg
}

func TestCollector_RecordConnectAttempt(t *testing.T) {
	c, _ := newTestCollector(t)

	c.RecordConnectAttempt("success")
	c.RecordConnectAttempt("success")
	c.RecordConnectAttempt("handshake_timeout")

	assert.Equal(t, float64(2), testutil.ToFloat64(c.connectAttempts.WithLabelValues("success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.connectAttempts.WithLabelValues("handshake_timeout")))
}

func TestCollector_RecordFrame(t *testing.T) {
	c, _ := newTestCollector(t)

	c.RecordFrame("text", 100)
	c.RecordFrame("text", 50)
	c.RecordFrame("binary", 8)

	assert.Equal(t, float64(2), testutil.ToFloat64(c.framesTotal.WithLabelValues("text")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.framesTotal.WithLabelValues("binary")))
	assert.Equal(t, float64(158), testutil.ToFloat64(c.bytesReceived))
}

func TestCollector_RecordMessage_FoldsUnknownKinds(t *testing.T) {
	c, _ := newTestCollector(t)

	c.RecordMessage("hello", true)
	c.RecordMessage("goat_rodeo", false)
	c.RecordMessage("pin_added", false)

	assert.Equal(t, float64(1), testutil.ToFloat64(c.messagesTotal.WithLabelValues("hello")))
	assert.Equal(t, float64(2), testutil.ToFloat64(c.messagesTotal.WithLabelValues("other")))
}

func TestCollector_RecordClose(t *testing.T) {
	c, _ := newTestCollector(t)

	c.RecordClose("user_request")
	c.RecordClose("fault")
	c.RecordClose("fault")

	assert.Equal(t, float64(1), testutil.ToFloat64(c.closesTotal.WithLabelValues("user_request")))
	assert.Equal(t, float64(2), testutil.ToFloat64(c.closesTotal.WithLabelValues("fault")))
}

func TestCollector_NilReceiverIsSafe(t *testing.T) {
	var c *Collector

	assert.NotPanics(t, func() {
		c.RecordConnectAttempt("success")
		c.RecordFrame("text", 1)
		c.RecordMessage("hello", true)
		c.RecordClose("fault")
		c.ObserveDispatch("message", true, time.Millisecond)
	})
}

func TestCollector_RegistersAllInstruments(t *testing.T) {
	_, reg := newTestCollector(t)

	families, err := reg.Gather()
	require.NoError(t, err)
	// Histograms only appear after the first observation, counters with
	// labels after the first increment, so gather on a fresh registry only
	// reports the plain counter.
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "rtmlink_received_bytes_total")
}
