package router

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"

	"github.com/week8/rpnserver/config"
	"github.com/week8/rpnserver/endpoints"
	"github.com/week8/rpnserver/logger"
	"github.com/week8/rpnserver/metrics"
	metricsConf "github.com/week8/rpnserver/metrics/config"
	"github.com/week8/rpnserver/random"
	"github.com/week8/rpnserver/rpn"
	"github.com/week8/rpnserver/schemas"
)

// NewSchemaServer serves every request schema as a single blob, keyed by schema name:
//
//	{
//	  "maximum": { ... schema for POST /test/maximum ... },
//	  "push": { ... schema for POST /push ... }
//	}
//
// If the response cannot be built the program will exit.
func NewSchemaServer(validator schemas.Validator) httprouter.Handle {
	data := make(map[schemas.Name]json.RawMessage)
	for _, name := range validator.Names() {
		data[name] = json.RawMessage(validator.Schema(name))
	}

	response, err := json.Marshal(data)
	if err != nil {
		logger.Fatalf("Failed to marshal request JSON-schemas: %v", err)
	}

	return func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		w.Header().Add("Content-Type", "application/json")
		w.Write(response)
	}
}

type NoCache struct {
	Handler http.Handler
}

func (m NoCache) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Add("Pragma", "no-cache")
	w.Header().Add("Expires", "0")
	m.Handler.ServeHTTP(w, r)
}

// Router is the main handler. It owns the server-wide state shared by every request.
type Router struct {
	*httprouter.Router
	MetricsEngine *metricsConf.DetailedMetricsEngine
	Machine       *rpn.Machine
	Generator     *random.Generator
}

// New builds the route table. Paths with no route fall through to the static file directory.
func New(cfg *config.Configuration) (r *Router, err error) {
	r = &Router{
		Router:        httprouter.New(),
		MetricsEngine: metricsConf.NewMetricsEngine(cfg),
		Machine:       rpn.NewMachine(),
		Generator:     random.NewGenerator(cfg.Random.DefaultMaximum, nil),
	}

	validator, err := schemas.NewValidator()
	if err != nil {
		return nil, err
	}

	var me metrics.MetricsEngine = r.MetricsEngine
	me.RecordRandomMaximum(r.Generator.Maximum())
	me.RecordStackLength(r.Machine.Length())

	r.POST("/test/maximum", endpoints.NewSetMaximumEndpoint(r.Generator, validator, me))
	r.GET("/test/maximum", endpoints.NewGetMaximumEndpoint(r.Generator, me))
	r.GET("/test/random", endpoints.NewRandomEndpoint(r.Generator, me))

	r.POST("/push", endpoints.NewPushEndpoint(r.Machine, validator, me))
	r.GET("/pop", endpoints.NewPopEndpoint(r.Machine, me))
	r.GET("/peek", endpoints.NewPeekEndpoint(r.Machine, me))
	r.GET("/length", endpoints.NewLengthEndpoint(r.Machine, me))
	for _, op := range rpn.Operators() {
		r.GET("/"+op.String(), endpoints.NewOperatorEndpoint(r.Machine, op, me))
	}

	r.GET("/schemas", NewSchemaServer(validator))
	r.NotFound = http.FileServer(http.Dir(cfg.StaticDir))

	return r, nil
}

// Admin serves the build version and a liveness probe on the admin port.
func Admin(version, revision string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/version", endpoints.NewVersionEndpoint(version, revision))
	mux.Handle("/status", endpoints.NewStatusEndpoint())
	return mux
}

func SupportCORS(handler http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowCredentials: true,
		AllowOriginFunc: func(string) bool {
			return true
		},
		AllowedHeaders: []string{"Origin", "X-Requested-With", "Content-Type", "Accept"}})
	return c.Handler(handler)
}
