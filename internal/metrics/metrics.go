// Package metrics exports pool activity as Prometheus series.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/l1jgo/spawnpool/internal/pool"
)

const namespace = "spawnpool"

// PoolMetrics implements pool.Observer.
type PoolMetrics struct {
	instances *prometheus.GaugeVec   // template, category, state
	spawns    *prometheus.CounterVec // template, category, source
	returns   *prometheus.CounterVec // template, category
	clears    *prometheus.CounterVec // category
	misuse    *prometheus.CounterVec // kind
}

// New registers the pool collectors on reg. Pass prometheus.DefaultRegisterer
// to expose them on the default promhttp handler.
func New(reg prometheus.Registerer) *PoolMetrics {
	f := promauto.With(reg)
	return &PoolMetrics{
		instances: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "instances",
			Help:      "Pooled instances by state (active or inactive).",
		}, []string{"template", "category", "state"}),
		spawns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "spawns_total",
			Help:      "Spawns served, split by whether a parked instance was reused.",
		}, []string{"template", "category", "source"}),
		returns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "returns_total",
			Help:      "Instances returned to their pool.",
		}, []string{"template", "category"}),
		clears: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pool_clears_total",
			Help:      "Pools destroyed by a clear operation.",
		}, []string{"category"}),
		misuse: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "misuse_total",
			Help:      "Rejected calls by reason.",
		}, []string{"kind"}),
	}
}

func (m *PoolMetrics) setCounts(s pool.Stat) {
	m.instances.WithLabelValues(s.Template, s.Category, "active").Set(float64(s.Active))
	m.instances.WithLabelValues(s.Template, s.Category, "inactive").Set(float64(s.Inactive))
}

func (m *PoolMetrics) Spawned(s pool.Stat, reused bool) {
	source := "created"
	if reused {
		source = "reused"
	}
	m.spawns.WithLabelValues(s.Template, s.Category, source).Inc()
	m.setCounts(s)
}

func (m *PoolMetrics) Returned(s pool.Stat) {
	m.returns.WithLabelValues(s.Template, s.Category).Inc()
	m.setCounts(s)
}

// Cleared drops the pool's gauges; a recreated pool starts fresh series.
func (m *PoolMetrics) Cleared(s pool.Stat) {
	m.clears.WithLabelValues(s.Category).Inc()
	m.instances.DeletePartialMatch(prometheus.Labels{"template": s.Template})
}

func (m *PoolMetrics) Misuse(kind string) {
	m.misuse.WithLabelValues(kind).Inc()
}

var _ pool.Observer = (*PoolMetrics)(nil)
