package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Lookup outcomes for ObserveLookup.
const (
	OutcomeValid    = "valid"
	OutcomeInvalid  = "invalid"
	OutcomeCacheHit = "cache_hit"
	OutcomeError    = "error"
)

// VAT holds the service collectors. It also satisfies shutdown.Metrics.
type VAT struct {
	validations    *prometheus.CounterVec
	whereMatches   prometheus.Histogram
	lookups        *prometheus.CounterVec
	lookupDuration *prometheus.HistogramVec
	httpRequests   *prometheus.HistogramVec

	stopTotal        *prometheus.CounterVec
	gracefulDuration prometheus.Histogram
	serveErrors      *prometheus.CounterVec
	serverStops      *prometheus.CounterVec
}

func NewVAT(namespace string) *VAT {
	if namespace == "" {
		namespace = "vat"
	}
	return &VAT{
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validations_total",
			Help:      "Offline validations by jurisdiction and result.",
		}, []string{"jurisdiction", "result"}),
		whereMatches: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "where_matches",
			Help:      "Number of jurisdictions accepting a number in a where query.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 28},
		}),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "vies_lookups_total",
			Help:      "VIES lookups by jurisdiction and outcome.",
		}, []string{"jurisdiction", "outcome"}),
		lookupDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "vies_lookup_duration_seconds",
			Help:      "VIES lookup latency including retries and cache.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"jurisdiction"}),
		httpRequests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP API latency by route, method and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
		stopTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shutdown_total",
			Help:      "Graceful shutdowns by result.",
		}, []string{"result"}),
		gracefulDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "shutdown_duration_seconds",
			Help:      "Time spent stopping all servers.",
			Buckets:   prometheus.DefBuckets,
		}),
		serveErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "serve_errors_total",
			Help:      "Servers that stopped with an unexpected error.",
		}, []string{"server"}),
		serverStops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "server_stop_total",
			Help:      "Per-server stop results.",
		}, []string{"server", "result"}),
	}
}

// Register adds every collector to reg; it fits Options.Register.
func (m *VAT) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		m.validations, m.whereMatches, m.lookups, m.lookupDuration, m.httpRequests,
		m.stopTotal, m.gracefulDuration, m.serveErrors, m.serverStops,
	} {
		if err := register(reg, c); err != nil {
			return err
		}
	}
	return nil
}

func (m *VAT) ObserveValidation(code string, valid bool) {
	result := OutcomeInvalid
	if valid {
		result = OutcomeValid
	}
	m.validations.WithLabelValues(code, result).Inc()
}

func (m *VAT) ObserveWhere(matches int) { m.whereMatches.Observe(float64(matches)) }

func (m *VAT) ObserveLookup(code, outcome string, d time.Duration) {
	m.lookups.WithLabelValues(code, outcome).Inc()
	m.lookupDuration.WithLabelValues(code).Observe(d.Seconds())
}

func (m *VAT) ObserveHTTP(route, method string, status int, d time.Duration) {
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Observe(d.Seconds())
}

func (m *VAT) IncStopTotal(result string) { m.stopTotal.WithLabelValues(result).Inc() }

func (m *VAT) ObserveGracefulDuration(d time.Duration) { m.gracefulDuration.Observe(d.Seconds()) }

func (m *VAT) IncServeError(name string) { m.serveErrors.WithLabelValues(name).Inc() }

func (m *VAT) IncServerStopResult(name, result string) {
	m.serverStops.WithLabelValues(name, result).Inc()
}
