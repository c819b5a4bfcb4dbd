package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const defaultHealthTimeout = 500 * time.Millisecond

// Options configures the handler served on the metrics listener.
type Options struct {
	// Registry defaults to a fresh one with the Go and process collectors.
	Registry *prometheus.Registry
	Register func(reg prometheus.Registerer) error
	// Checks are the dependencies reported by /health.
	Checks        []Check
	HealthTimeout time.Duration
}

// New returns the router serving GET /metrics and GET /health, and the
// registry behind it. A Register error is returned together with a usable
// handler.
func New(opts Options) (http.Handler, *prometheus.Registry, error) {
	if opts.HealthTimeout <= 0 {
		opts.HealthTimeout = defaultHealthTimeout
	}
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	for _, c := range []prometheus.Collector{
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	} {
		_ = register(reg, c)
	}

	var err error
	if opts.Register != nil {
		err = opts.Register(reg)
	}

	r := chi.NewRouter()
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	r.Get("/health", health(opts.Checks, opts.HealthTimeout))
	return r, reg, err
}

// register tolerates collectors that are already registered.
func register(reg prometheus.Registerer, c prometheus.Collector) error {
	err := reg.Register(c)
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		return nil
	}
	return err
}
