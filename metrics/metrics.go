package metrics

import (
	"time"
)

// Labels defines the labels that can be attached to the request metrics.
type Labels struct {
	Endpoint      Endpoint
	RequestStatus RequestStatus
}

// Endpoint names the route a request was served by.
type Endpoint string

const (
	EndpointSetMaximum Endpoint = "set_maximum"
	EndpointGetMaximum Endpoint = "get_maximum"
	EndpointRandom     Endpoint = "random"
	EndpointPush       Endpoint = "push"
	EndpointPop        Endpoint = "pop"
	EndpointPeek       Endpoint = "peek"
	EndpointLength     Endpoint = "length"
	EndpointAdd        Endpoint = "add"
	EndpointSubtract   Endpoint = "subtract"
	EndpointMultiply   Endpoint = "multiply"
	EndpointDivide     Endpoint = "divide"
)

func Endpoints() []Endpoint {
	return []Endpoint{
		EndpointSetMaximum,
		EndpointGetMaximum,
		EndpointRandom,
		EndpointPush,
		EndpointPop,
		EndpointPeek,
		EndpointLength,
		EndpointAdd,
		EndpointSubtract,
		EndpointMultiply,
		EndpointDivide,
	}
}

// RequestStatus is the outcome of a request.
type RequestStatus string

const (
	RequestStatusOK       RequestStatus = "ok"
	RequestStatusBadInput RequestStatus = "badinput"
	RequestStatusErr      RequestStatus = "err"
)

func RequestStatuses() []RequestStatus {
	return []RequestStatus{
		RequestStatusOK,
		RequestStatusBadInput,
		RequestStatusErr,
	}
}

// MetricsEngine is a generic interface to record metrics into the desired backend.
// RecordRequest and RecordRequestTime fire once per incoming request. RecordStackLength and
// RecordRandomMaximum sample server state after a request has changed it.
type MetricsEngine interface {
	RecordConnectionAccept(success bool)
	RecordConnectionClose(success bool)
	RecordRequest(labels Labels)
	RecordRequestTime(labels Labels, length time.Duration)
	RecordStackLength(length int)
	RecordRandomMaximum(maximum int)
}
