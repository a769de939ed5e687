package endpoints

import (
	"net/http"

	"github.com/buger/jsonparser"
	"github.com/julienschmidt/httprouter"

	"github.com/week8/rpnserver/errortypes"
	"github.com/week8/rpnserver/logger"
	"github.com/week8/rpnserver/metrics"
	"github.com/week8/rpnserver/random"
	"github.com/week8/rpnserver/schemas"
)

var errInvalidMaximum = &errortypes.BadInput{Message: "invalid maximum value"}

type maximumResponse struct {
	Maximum int `json:"maximum"`
}

// NewSetMaximumEndpoint handles POST /test/maximum with a body like {"maximum": 5}.
func NewSetMaximumEndpoint(generator *random.Generator, validator schemas.Validator, me metrics.MetricsEngine) httprouter.Handle {
	return instrument(me, metrics.EndpointSetMaximum, func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) metrics.RequestStatus {
		body, err := readBody(w, r)
		if err != nil {
			return writeBadRequest(w, errInvalidMaximum)
		}

		if err := validator.Validate(schemas.Maximum, body); err != nil {
			logger.Debugf("rejecting maximum %s: %v", body, err)
			return writeBadRequest(w, errInvalidMaximum)
		}

		candidate, err := jsonparser.GetFloat(body, "maximum")
		if err != nil {
			return writeBadRequest(w, errInvalidMaximum)
		}

		maximum, err := generator.SetMaximum(candidate)
		if err != nil {
			return writeBadRequest(w, err)
		}

		me.RecordRandomMaximum(maximum)
		writeText(w, "server... ok, setting maximum: %d\n", maximum)
		return metrics.RequestStatusOK
	})
}

// NewGetMaximumEndpoint handles GET /test/maximum.
func NewGetMaximumEndpoint(generator *random.Generator, me metrics.MetricsEngine) httprouter.Handle {
	return instrument(me, metrics.EndpointGetMaximum, func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) metrics.RequestStatus {
		return writeJSON(w, maximumResponse{Maximum: generator.Maximum()}, "")
	})
}

// NewRandomEndpoint handles GET /test/random, answering with an integer in [0, maximum).
func NewRandomEndpoint(generator *random.Generator, me metrics.MetricsEngine) httprouter.Handle {
	return instrument(me, metrics.EndpointRandom, func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) metrics.RequestStatus {
		r, err := generator.Draw()
		if err != nil {
			return writeBadRequest(w, err)
		}
		return writeJSON(w, r, "\n")
	})
}
