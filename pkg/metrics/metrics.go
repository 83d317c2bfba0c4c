package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Metrics holds the service collectors on a private registry.
type Metrics struct {
	Registry        *prometheus.Registry
	AuthOperations  *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	authOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_operations_total",
		Help: "Total number of auth operations by operation and result.",
	}, []string{"operation", "result"})

	reqDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Latency of HTTP requests by method, route and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	registry.MustRegister(
		authOps,
		reqDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Metrics{Registry: registry, AuthOperations: authOps, RequestDuration: reqDuration}
}

// Observe counts one auth operation. Safe on a nil receiver.
func (m *Metrics) Observe(operation string, err error) {
	if m == nil {
		return
	}
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	m.AuthOperations.WithLabelValues(operation, result).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
