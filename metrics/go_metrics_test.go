package metrics

import (
	"testing"
	"time"

	metrics "github.com/rcrowley/go-metrics"
	"github.com/stretchr/testify/assert"
)

func ensureContains(t *testing.T, registry metrics.Registry, name string, metric interface{}) {
	t.Helper()
	if inRegistry := registry.Get(name); inRegistry == nil {
		t.Errorf("No metric in registry at %s.", name)
	} else if inRegistry != metric {
		t.Errorf("Bad value stored at metric %s.", name)
	}
}

func TestNewMetrics(t *testing.T) {
	registry := metrics.NewRegistry()
	m := NewMetrics(registry)

	ensureContains(t, registry, "active_connections", m.ConnectionCounter)
	ensureContains(t, registry, "connection_accept_errors", m.ConnectionAcceptErrorMeter)
	ensureContains(t, registry, "connection_close_errors", m.ConnectionCloseErrorMeter)
	ensureContains(t, registry, "stack_length", m.StackLengthGauge)
	ensureContains(t, registry, "random_maximum", m.RandomMaximumGauge)

	ensureContains(t, registry, "requests.ok.push", m.RequestStatuses[EndpointPush][RequestStatusOK])
	ensureContains(t, registry, "requests.badinput.pop", m.RequestStatuses[EndpointPop][RequestStatusBadInput])
	ensureContains(t, registry, "requests.err.divide", m.RequestStatuses[EndpointDivide][RequestStatusErr])
	ensureContains(t, registry, "requests.ok.set_maximum", m.RequestStatuses[EndpointSetMaximum][RequestStatusOK])
	ensureContains(t, registry, "request_time.random", m.RequestTimers[EndpointRandom])
	ensureContains(t, registry, "request_time.add", m.RequestTimers[EndpointAdd])
}

func TestRecordRequest(t *testing.T) {
	m := NewMetrics(metrics.NewRegistry())

	m.RecordRequest(Labels{Endpoint: EndpointPop, RequestStatus: RequestStatusOK})
	m.RecordRequest(Labels{Endpoint: EndpointPop, RequestStatus: RequestStatusBadInput})
	m.RecordRequest(Labels{Endpoint: EndpointPop, RequestStatus: RequestStatusBadInput})
	m.RecordRequest(Labels{Endpoint: "unknown", RequestStatus: RequestStatusOK})

	assert.Equal(t, int64(1), m.RequestStatuses[EndpointPop][RequestStatusOK].Count())
	assert.Equal(t, int64(2), m.RequestStatuses[EndpointPop][RequestStatusBadInput].Count())
	assert.Equal(t, int64(0), m.RequestStatuses[EndpointPush][RequestStatusOK].Count())
}

func TestRecordRequestTime(t *testing.T) {
	m := NewMetrics(metrics.NewRegistry())

	m.RecordRequestTime(Labels{Endpoint: EndpointAdd}, 20*time.Millisecond)
	m.RecordRequestTime(Labels{Endpoint: EndpointAdd}, 40*time.Millisecond)

	assert.Equal(t, int64(2), m.RequestTimers[EndpointAdd].Count())
	assert.Equal(t, int64(40*time.Millisecond), m.RequestTimers[EndpointAdd].Max())
}

func TestRecordConnections(t *testing.T) {
	m := NewMetrics(metrics.NewRegistry())

	m.RecordConnectionAccept(true)
	m.RecordConnectionAccept(true)
	m.RecordConnectionAccept(false)
	m.RecordConnectionClose(true)
	m.RecordConnectionClose(false)

	assert.Equal(t, int64(1), m.ConnectionCounter.Count())
	assert.Equal(t, int64(1), m.ConnectionAcceptErrorMeter.Count())
	assert.Equal(t, int64(1), m.ConnectionCloseErrorMeter.Count())
}

func TestRecordGauges(t *testing.T) {
	m := NewMetrics(metrics.NewRegistry())

	m.RecordStackLength(3)
	m.RecordRandomMaximum(5)

	assert.Equal(t, int64(3), m.StackLengthGauge.Value())
	assert.Equal(t, int64(5), m.RandomMaximumGauge.Value())
}

func TestBlankMetricsRegisterNothing(t *testing.T) {
	registry := metrics.NewRegistry()
	m := NewBlankMetrics(registry)

	m.RecordRequest(Labels{Endpoint: EndpointPush, RequestStatus: RequestStatusOK})
	m.RecordStackLength(3)

	assert.Nil(t, registry.Get("stack_length"))
	assert.Equal(t, int64(0), m.StackLengthGauge.Value())
}
