// Package metrics exports plan evaluations as Prometheus metrics. A
// Collector is a core.Observer: put it in the evaluation context with
// core.WithObserver and register it with a prometheus.Registerer.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ib-77/ropflow/pkg/rop"
	"github.com/ib-77/ropflow/pkg/rop/core"
)

const outcomeSuccess = "success"

type Collector struct {
	evaluations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

var (
	_ core.Observer        = (*Collector)(nil)
	_ prometheus.Collector = (*Collector)(nil)
)

func NewCollector(namespace string) *Collector {
	return &Collector{
		evaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "node_evaluations_total",
				Help:      "Evaluated plan nodes by kind and outcome.",
			},
			[]string{"kind", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "node_duration_seconds",
				Help:      "Time spent evaluating plan nodes, upstream included.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
	}
}

// Observe records one finished node. outcome is "success" or the
// rop.ErrorKind of the failure.
func (c *Collector) Observe(_ context.Context, kind string, err error, elapsed time.Duration) {
	outcome := outcomeSuccess
	if err != nil {
		outcome = rop.KindOf(err).String()
	}
	c.evaluations.WithLabelValues(kind, outcome).Inc()
	c.duration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.evaluations.Describe(ch)
	c.duration.Describe(ch)
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.evaluations.Collect(ch)
	c.duration.Collect(ch)
}
