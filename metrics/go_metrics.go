package metrics

import (
	"time"

	"github.com/rcrowley/go-metrics"
)

// Metrics is the go-metrics implementation of MetricsEngine.
type Metrics struct {
	MetricsRegistry            metrics.Registry
	ConnectionCounter          metrics.Counter
	ConnectionAcceptErrorMeter metrics.Meter
	ConnectionCloseErrorMeter  metrics.Meter
	StackLengthGauge           metrics.Gauge
	RandomMaximumGauge         metrics.Gauge

	// RequestStatuses holds one meter per endpoint and outcome.
	RequestStatuses map[Endpoint]map[RequestStatus]metrics.Meter
	RequestTimers   map[Endpoint]metrics.Timer
}

// NewBlankMetrics creates a new Metrics object with all blank metrics object. This may also be useful for
// testing routines to ensure that no metrics are written anywhere.
func NewBlankMetrics(registry metrics.Registry) *Metrics {
	newMetrics := &Metrics{
		MetricsRegistry:            registry,
		ConnectionCounter:          metrics.NilCounter{},
		ConnectionAcceptErrorMeter: &metrics.NilMeter{},
		ConnectionCloseErrorMeter:  &metrics.NilMeter{},
		StackLengthGauge:           metrics.NilGauge{},
		RandomMaximumGauge:         metrics.NilGauge{},
		RequestStatuses:            make(map[Endpoint]map[RequestStatus]metrics.Meter),
		RequestTimers:              make(map[Endpoint]metrics.Timer),
	}

	for _, endpoint := range Endpoints() {
		newMetrics.RequestStatuses[endpoint] = make(map[RequestStatus]metrics.Meter)
		for _, status := range RequestStatuses() {
			newMetrics.RequestStatuses[endpoint][status] = &metrics.NilMeter{}
		}
		newMetrics.RequestTimers[endpoint] = &metrics.NilTimer{}
	}

	return newMetrics
}

// NewMetrics creates a new Metrics object with needed metrics defined. In time we may develop to the point
// where Metrics contains all the metrics we might want to record, and then we build the actual
// metrics object to contain only the metrics we are interested in.
func NewMetrics(registry metrics.Registry) *Metrics {
	newMetrics := NewBlankMetrics(registry)
	newMetrics.ConnectionCounter = metrics.GetOrRegisterCounter("active_connections", registry)
	newMetrics.ConnectionAcceptErrorMeter = metrics.GetOrRegisterMeter("connection_accept_errors", registry)
	newMetrics.ConnectionCloseErrorMeter = metrics.GetOrRegisterMeter("connection_close_errors", registry)
	newMetrics.StackLengthGauge = metrics.GetOrRegisterGauge("stack_length", registry)
	newMetrics.RandomMaximumGauge = metrics.GetOrRegisterGauge("random_maximum", registry)

	for _, endpoint := range Endpoints() {
		for _, status := range RequestStatuses() {
			newMetrics.RequestStatuses[endpoint][status] = metrics.GetOrRegisterMeter("requests."+string(status)+"."+string(endpoint), registry)
		}
		newMetrics.RequestTimers[endpoint] = metrics.GetOrRegisterTimer("request_time."+string(endpoint), registry)
	}

	return newMetrics
}

func (me *Metrics) RecordConnectionAccept(success bool) {
	if success {
		me.ConnectionCounter.Inc(1)
	} else {
		me.ConnectionAcceptErrorMeter.Mark(1)
	}
}

func (me *Metrics) RecordConnectionClose(success bool) {
	if success {
		me.ConnectionCounter.Dec(1)
	} else {
		me.ConnectionCloseErrorMeter.Mark(1)
	}
}

func (me *Metrics) RecordRequest(labels Labels) {
	if statuses, ok := me.RequestStatuses[labels.Endpoint]; ok {
		if meter, ok := statuses[labels.RequestStatus]; ok {
			meter.Mark(1)
		}
	}
}

func (me *Metrics) RecordRequestTime(labels Labels, length time.Duration) {
	if timer, ok := me.RequestTimers[labels.Endpoint]; ok {
		timer.Update(length)
	}
}

func (me *Metrics) RecordStackLength(length int) {
	me.StackLengthGauge.Update(int64(length))
}

func (me *Metrics) RecordRandomMaximum(maximum int) {
	me.RandomMaximumGauge.Update(int64(maximum))
}
