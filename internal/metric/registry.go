package metric

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry owns a private prometheus registry with the pipeline metrics
// and Go runtime collectors.
type Registry struct {
	reg     *prometheus.Registry
	Metrics *Metrics
}

func NewRegistry() *Registry {
	r := &Registry{reg: prometheus.NewRegistry(), Metrics: NewMetrics()}
	r.reg.MustRegister(r.Metrics.collectors()...)
	r.reg.MustRegister(collectors.NewGoCollector())
	return r
}

func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }

// WriteFile dumps all metrics in the text exposition format, replacing path atomically.
func (r *Registry) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, r.reg)
}
