package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes sink counters on a private registry.
type Metrics struct {
	registry *prometheus.Registry
	created  *prometheus.CounterVec
}

// New registers sink metrics.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		created: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ledger_sink",
			Name:      "entries_created_total",
			Help:      "Ledger entries accepted per program.",
		}, []string{"program"}),
	}
	m.registry.MustRegister(m.created)
	return m
}

// EntryCreated counts one accepted entry.
func (m *Metrics) EntryCreated(programID int64) {
	m.created.WithLabelValues(strconv.FormatInt(programID, 10)).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
