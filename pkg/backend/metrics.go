package backend

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	requestsTotal  *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	retriesTotal   *prometheus.CounterVec
}

var metricsSingleton = sync.OnceValue(func() *metrics {
	return &metrics{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "erp",
			Subsystem: "backend",
			Name:      "requests_total",
			Help:      "Total number of requests sent to ERP backends.",
		}, []string{"backend", "method", "result"}),
		requestLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "erp",
			Subsystem: "backend",
			Name:      "request_latency_seconds",
			Help:      "Latency distribution of ERP backend requests.",
			Buckets: []float64{
				0.005, 0.01, 0.02, 0.05,
				0.1, 0.2, 0.5, 1,
				2, 5, 10,
			},
		}, []string{"backend", "method"}),
		retriesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "erp",
			Subsystem: "backend",
			Name:      "retries_total",
			Help:      "Total number of retried backend requests.",
		}, []string{"backend", "method"}),
	}
})

func getMetrics() *metrics {
	return metricsSingleton()
}
