package metrics

import "github.com/prometheus/client_golang/prometheus"

type Prometheus struct {
	Fits     *prometheus.CounterVec
	Duration *prometheus.HistogramVec
	Samples  prometheus.Histogram
}

func NewPrometheusMetrics() Prometheus {
	return Prometheus{
		Fits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fit",
				Name:      "requests_total",
				Help:      "fit requests by engine, transport and outcome",
			}, []string{"engine", "transport", "status"}),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "fit",
				Name:      "duration_seconds",
				Help:      "time spent solving a fit request",
				Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
			}, []string{"engine"}),
		Samples: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "fit",
				Name:      "samples",
				Help:      "number of samples per fit request",
				Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
			}),
	}
}
