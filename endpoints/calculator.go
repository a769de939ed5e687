package endpoints

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/buger/jsonparser"
	"github.com/julienschmidt/httprouter"

	"github.com/week8/rpnserver/errortypes"
	"github.com/week8/rpnserver/logger"
	"github.com/week8/rpnserver/metrics"
	"github.com/week8/rpnserver/rpn"
	"github.com/week8/rpnserver/schemas"
)

var (
	errMissingValues = &errortypes.BadInput{Message: "missing values"}
	errInvalidValues = &errortypes.BadInput{Message: "invalid values"}
)

var operatorEndpoints = map[rpn.Operator]metrics.Endpoint{
	rpn.Add:      metrics.EndpointAdd,
	rpn.Subtract: metrics.EndpointSubtract,
	rpn.Multiply: metrics.EndpointMultiply,
	rpn.Divide:   metrics.EndpointDivide,
}

// NewPushEndpoint handles POST /push with a body like {"values": [4, 6]}. The values are pushed
// in order, so the last one becomes the top of the stack.
func NewPushEndpoint(machine *rpn.Machine, validator schemas.Validator, me metrics.MetricsEngine) httprouter.Handle {
	return instrument(me, metrics.EndpointPush, func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) metrics.RequestStatus {
		body, err := readBody(w, r)
		if err != nil {
			return writeBadRequest(w, errInvalidValues)
		}

		values, err := parseValues(body, validator)
		if err != nil {
			logger.Debugf("rejecting push %s: %v", body, err)
			return writeBadRequest(w, err)
		}

		stack := machine.Push(values)
		me.RecordStackLength(len(stack))
		writeText(w, "server... ok, setting values: %s\n", joinNumbers(stack))
		return metrics.RequestStatusOK
	})
}

// parseValues extracts the "values" array. An absent field is distinguished from a malformed one.
func parseValues(body []byte, validator schemas.Validator) ([]float64, error) {
	if _, dataType, _, err := jsonparser.Get(body, "values"); err != nil || dataType == jsonparser.NotExist {
		return nil, errMissingValues
	}
	if err := validator.Validate(schemas.Push, body); err != nil {
		return nil, errInvalidValues
	}

	values := []float64{}
	var parseErr error
	_, err := jsonparser.ArrayEach(body, func(value []byte, dataType jsonparser.ValueType, _ int, err error) {
		if parseErr != nil {
			return
		}
		if err != nil || dataType != jsonparser.Number {
			parseErr = errInvalidValues
			return
		}
		v, err := jsonparser.ParseFloat(value)
		if err != nil {
			parseErr = errInvalidValues
			return
		}
		values = append(values, v)
	}, "values")
	if err != nil || parseErr != nil {
		return nil, errInvalidValues
	}
	return values, nil
}

// NewPopEndpoint handles GET /pop.
func NewPopEndpoint(machine *rpn.Machine, me metrics.MetricsEngine) httprouter.Handle {
	return instrument(me, metrics.EndpointPop, func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) metrics.RequestStatus {
		top, length, err := machine.Pop()
		if err != nil {
			return writeBadRequest(w, err)
		}
		me.RecordStackLength(length)
		return writeJSON(w, top, "")
	})
}

// NewPeekEndpoint handles GET /peek. An empty stack answers 200 with a JSON null.
func NewPeekEndpoint(machine *rpn.Machine, me metrics.MetricsEngine) httprouter.Handle {
	return instrument(me, metrics.EndpointPeek, func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) metrics.RequestStatus {
		top, ok := machine.Peek()
		if !ok {
			return writeJSON(w, nil, "")
		}
		return writeJSON(w, top, "")
	})
}

// NewLengthEndpoint handles GET /length.
func NewLengthEndpoint(machine *rpn.Machine, me metrics.MetricsEngine) httprouter.Handle {
	return instrument(me, metrics.EndpointLength, func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) metrics.RequestStatus {
		return writeJSON(w, machine.Length(), "")
	})
}

// NewOperatorEndpoint handles GET /add, /subtract, /multiply and /divide. The result replaces
// the two topmost elements and is returned as JSON.
func NewOperatorEndpoint(machine *rpn.Machine, op rpn.Operator, me metrics.MetricsEngine) httprouter.Handle {
	return instrument(me, operatorEndpoints[op], func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) metrics.RequestStatus {
		result, length, err := machine.Apply(op)
		if err != nil {
			return writeBadRequest(w, err)
		}
		me.RecordStackLength(length)
		return writeJSON(w, result, "")
	})
}

// joinNumbers formats each value exactly as the JSON responses do, so 1e21 reads "1e+21" here too.
func joinNumbers(values []float64) string {
	formatted := make([]string, len(values))
	for i, v := range values {
		encoded, err := json.Marshal(v)
		if err != nil {
			encoded = []byte(strconv.FormatFloat(v, 'g', -1, 64))
		}
		formatted[i] = string(encoded)
	}
	return strings.Join(formatted, ",")
}
