package dispatch

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	transactions *prometheus.CounterVec
	callbacks    *prometheus.CounterVec
}

var (
	metricsOnce     sync.Once
	metricsRegistry *Metrics
)

func DispatchMetrics() *Metrics {
	metricsOnce.Do(func() {
		metricsRegistry = &Metrics{
			transactions: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "vaultnft_dispatch_transactions_total",
				Help: "Count of outbox transactions by the state they moved to.",
			}, []string{"state"}),
			callbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "vaultnft_dispatch_callbacks_total",
				Help: "Count of contract callbacks by method and result.",
			}, []string{"method", "result"}),
		}
		prometheus.MustRegister(
			metricsRegistry.transactions,
			metricsRegistry.callbacks,
		)
	})
	return metricsRegistry
}

func (m *Metrics) ObserveTransaction(tx *Transaction) {
	if m == nil {
		return
	}
	m.transactions.WithLabelValues(tx.StateName()).Inc()
}

func (m *Metrics) ObserveCallback(method string, err error) {
	if m == nil {
		return
	}
	if method == "" {
		method = "unknown"
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.callbacks.WithLabelValues(method, result).Inc()
}
