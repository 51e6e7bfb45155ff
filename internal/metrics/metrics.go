// Package metrics declares the Prometheus collectors the API exports.
// A nil *Metrics is valid and records nothing, so services can be built
// without one in tests.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal      *prometheus.CounterVec
	HTTPRequestDuration    *prometheus.HistogramVec
	ApplicationTransitions *prometheus.CounterVec
	OffersCreated          *prometheus.CounterVec
	JDParses               *prometheus.CounterVec
}

// New registers every collector on reg. Pass prometheus.NewRegistry() in
// tests to keep them isolated from the default registry.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: reg,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		ApplicationTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "application_transitions_total",
			Help: "Application status changes",
		}, []string{"from", "to"}),
		OffersCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "offers_created_total",
			Help: "Offers created, by how they were created",
		}, []string{"source"}),
		JDParses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jd_parse_total",
			Help: "Job descriptions parsed, by method",
		}, []string{"method"}),
	}
	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.ApplicationTransitions,
		m.OffersCreated,
		m.JDParses,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) Transition(from, to string) {
	if m == nil {
		return
	}
	m.ApplicationTransitions.WithLabelValues(from, to).Inc()
}

func (m *Metrics) OfferCreated(source string) {
	if m == nil {
		return
	}
	m.OffersCreated.WithLabelValues(source).Inc()
}

func (m *Metrics) JDParsed(method string) {
	if m == nil {
		return
	}
	m.JDParses.WithLabelValues(method).Inc()
}
