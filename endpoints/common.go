package endpoints

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/week8/rpnserver/errortypes"
	"github.com/week8/rpnserver/logger"
	"github.com/week8/rpnserver/metrics"
)

// maxBodyBytes caps request bodies at 100kb.
const maxBodyBytes = 100 << 10

type handlerWithStatus func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) metrics.RequestStatus

// instrument records one request and its latency for endpoint, labelled with the status returned by handle.
func instrument(me metrics.MetricsEngine, endpoint metrics.Endpoint, handle handlerWithStatus) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		start := time.Now()
		labels := metrics.Labels{
			Endpoint:      endpoint,
			RequestStatus: metrics.RequestStatusOK,
		}
		defer func() {
			me.RecordRequest(labels)
			me.RecordRequestTime(labels, time.Since(start))
		}()

		labels.RequestStatus = handle(w, r, ps)
	}
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	defer r.Body.Close()
	return io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
}

// writeBadRequest sends a 400 with a human readable body and returns the status to record.
func writeBadRequest(w http.ResponseWriter, err error) metrics.RequestStatus {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusBadRequest)
	fmt.Fprintf(w, "bad request (%s)\n", err.Error())
	return statusForError(err)
}

func statusForError(err error) metrics.RequestStatus {
	switch errortypes.ReadCode(err) {
	case errortypes.BadInputErrorCode,
		errortypes.PreconditionFailedErrorCode,
		errortypes.DivisionByZeroErrorCode,
		errortypes.NonFiniteResultErrorCode:
		return metrics.RequestStatusBadInput
	default:
		return metrics.RequestStatusErr
	}
}

func writeText(w http.ResponseWriter, format string, args ...interface{}) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, format, args...)
}

// writeJSON marshals value and appends suffix to the encoded body.
func writeJSON(w http.ResponseWriter, value interface{}, suffix string) metrics.RequestStatus {
	body, err := json.Marshal(value)
	if err != nil {
		logger.Errorf("Critical error when trying to marshal %v: %v", value, err)
		w.WriteHeader(http.StatusInternalServerError)
		return metrics.RequestStatusErr
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
	if suffix != "" {
		io.WriteString(w, suffix)
	}
	return metrics.RequestStatusOK
}
