package batch

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	runs *prometheus.CounterVec
}

var metricsSingleton = sync.OnceValue(func() *metrics {
	return &metrics{
		runs: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "erp",
			Subsystem: "batch",
			Name:      "runs_total",
			Help:      "Batch operations by kind and outcome.",
		}, []string{"kind", "result"}),
	}
})

func getMetrics() *metrics {
	return metricsSingleton()
}

func (m *metrics) observe(kind string, ok bool) {
	result := "ok"
	if !ok {
		result = "partial"
	}
	m.runs.WithLabelValues(kind, result).Inc()
}
