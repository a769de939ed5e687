package endpoints

import (
	"net/http"
)

// NewStatusEndpoint answers 204 while the process is serving.
func NewStatusEndpoint() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}
}
