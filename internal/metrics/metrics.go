package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var Observer = &Metrics{
	prometheus: NewPrometheusMetrics(),
}

func init() {
	prometheus.MustRegister(
		Observer.prometheus.Fits,
		Observer.prometheus.Duration,
		Observer.prometheus.Samples,
	)
}

type Metrics struct {
	prometheus Prometheus
}

// Observe records the outcome of a single fit.
// status is the failure kind, or "ok" for a successful fit.
func (m *Metrics) Observe(engine, transport, status string, samples int, duration time.Duration) {
	m.prometheus.Fits.WithLabelValues(engine, transport, status).Inc()
	m.prometheus.Duration.WithLabelValues(engine).Observe(duration.Seconds())
	m.prometheus.Samples.Observe(float64(samples))
}

// Handler exposes the registered metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
