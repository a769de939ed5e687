package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/week8/rpnserver/config"
)

func newTestRouter(t *testing.T) *Router {
	t.Helper()
	cfg := &config.Configuration{
		StaticDir: "../static",
		Random:    config.Random{DefaultMaximum: 10},
	}
	r, err := New(cfg)
	require.NoError(t, err)
	return r
}

type exchange struct {
	method       string
	path         string
	body         string
	expectedCode int
	expectedBody string
}

func run(t *testing.T, handler http.Handler, steps []exchange) {
	t.Helper()
	for i, step := range steps {
		var request *http.Request
		if step.body == "" {
			request = httptest.NewRequest(step.method, step.path, nil)
		} else {
			request = httptest.NewRequest(step.method, step.path, strings.NewReader(step.body))
			request.Header.Set("Content-Type", "application/json")
		}
		recorder := httptest.NewRecorder()

		handler.ServeHTTP(recorder, request)

		assert.Equal(t, step.expectedCode, recorder.Code, "step %d: %s %s", i, step.method, step.path)
		if step.expectedBody != "" {
			assert.Equal(t, step.expectedBody, recorder.Body.String(), "step %d: %s %s", i, step.method, step.path)
		}
	}
}

func TestPushAddPopScenario(t *testing.T) {
	r := newTestRouter(t)

	run(t, r, []exchange{
		{http.MethodPost, "/push", `{"values":[4,6]}`, http.StatusOK, "server... ok, setting values: 4,6\n"},
		{http.MethodGet, "/length", "", http.StatusOK, "2"},
		{http.MethodGet, "/add", "", http.StatusOK, "10"},
		{http.MethodGet, "/peek", "", http.StatusOK, "10"},
		{http.MethodGet, "/pop", "", http.StatusOK, "10"},
		{http.MethodGet, "/pop", "", http.StatusBadRequest, "bad request (stack is empty)\n"},
		{http.MethodGet, "/peek", "", http.StatusOK, "null"},
		{http.MethodGet, "/length", "", http.StatusOK, "0"},
	})
}

func TestMaximumScenario(t *testing.T) {
	r := newTestRouter(t)

	run(t, r, []exchange{
		{http.MethodGet, "/test/maximum", "", http.StatusOK, `{"maximum":10}`},
		{http.MethodPost, "/test/maximum", `{"maximum":5}`, http.StatusOK, "server... ok, setting maximum: 5\n"},
		{http.MethodPost, "/test/maximum", `{"maximum":-1}`, http.StatusBadRequest, "bad request (invalid maximum value)\n"},
		{http.MethodGet, "/test/maximum", "", http.StatusOK, `{"maximum":5}`},
	})

	for i := 0; i < 50; i++ {
		recorder := httptest.NewRecorder()
		r.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/test/random", nil))
		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, []string{"0\n", "1\n", "2\n", "3\n", "4\n"}, recorder.Body.String())
	}
}

func TestOrderSensitiveOperators(t *testing.T) {
	r := newTestRouter(t)

	run(t, r, []exchange{
		{http.MethodPost, "/push", `{"values":[10,3]}`, http.StatusOK, ""},
		{http.MethodGet, "/subtract", "", http.StatusOK, "7"},
		{http.MethodPost, "/push", `{"values":[10,3]}`, http.StatusOK, ""},
		{http.MethodGet, "/divide", "", http.StatusOK, "3.3333333333333335"},
		{http.MethodGet, "/multiply", "", http.StatusOK, "23.333333333333336"},
		{http.MethodGet, "/multiply", "", http.StatusBadRequest, "bad request (stack has less than 2 elements)\n"},
		{http.MethodGet, "/length", "", http.StatusOK, "1"},
	})
}

func TestStackIsSharedAcrossRequests(t *testing.T) {
	r := newTestRouter(t)
	server := httptest.NewServer(r)
	defer server.Close()

	resp, err := http.Post(server.URL+"/push", "application/json", strings.NewReader(`{"values":[1,2,3]}`))
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(server.URL + "/length")
	require.NoError(t, err)
	defer resp.Body.Close()

	var length int
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&length))
	assert.Equal(t, 3, length)
	assert.Equal(t, 3, r.Machine.Length())
}

func TestMethodNotAllowed(t *testing.T) {
	r := newTestRouter(t)

	run(t, r, []exchange{
		{http.MethodPost, "/pop", "", http.StatusMethodNotAllowed, ""},
		{http.MethodGet, "/push", "", http.StatusMethodNotAllowed, ""},
	})
}

func TestStaticFilesServedForUnknownPaths(t *testing.T) {
	r := newTestRouter(t)
	recorder := httptest.NewRecorder()

	r.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "RPN calculator API")

	recorder = httptest.NewRecorder()
	r.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/missing.html", nil))
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestSchemaServer(t *testing.T) {
	r := newTestRouter(t)
	recorder := httptest.NewRecorder()

	r.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/schemas", nil))

	var data map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &data))
	assert.Contains(t, data, "maximum")
	assert.Contains(t, data, "push")
}

func TestNoCache(t *testing.T) {
	handler := NoCache{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})}
	recorder := httptest.NewRecorder()

	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/length", nil))

	assert.Equal(t, "no-cache, no-store, must-revalidate", recorder.Header().Get("Cache-Control"))
	assert.Equal(t, "no-cache", recorder.Header().Get("Pragma"))
	assert.Equal(t, "0", recorder.Header().Get("Expires"))
}

func TestSupportCORS(t *testing.T) {
	handler := SupportCORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/length", nil)
	request.Header.Set("Origin", "http://example.com")

	handler.ServeHTTP(recorder, request)

	assert.Equal(t, "http://example.com", recorder.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", recorder.Header().Get("Access-Control-Allow-Credentials"))
}

func TestAdmin(t *testing.T) {
	mux := Admin("1.0.0", "abc123")

	recorder := httptest.NewRecorder()
	mux.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/version", nil))
	assert.JSONEq(t, `{"version":"1.0.0","revision":"abc123"}`, recorder.Body.String())

	recorder = httptest.NewRecorder()
	mux.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/status", nil))
	assert.Equal(t, http.StatusNoContent, recorder.Code)
}
