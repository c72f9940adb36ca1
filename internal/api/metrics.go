package api

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/san-kum/popsim/internal/growth"
)

// Stats counts what the handler has served since start.
type Stats struct {
	overtaken      atomic.Uint64
	neverOvertakes atomic.Uint64
	rejected       atomic.Uint64
	years          atomic.Uint64
}

func (s *Stats) record(res *growth.Result) {
	if res.Outcome == growth.NeverOvertakes {
		s.neverOvertakes.Add(1)
	} else {
		s.overtaken.Add(1)
	}
	s.years.Add(uint64(res.YearsElapsed))
}

func (s *Stats) reject() { s.rejected.Add(1) }

func (s *Stats) Simulations(o growth.Outcome) uint64 {
	if o == growth.NeverOvertakes {
		return s.neverOvertakes.Load()
	}
	return s.overtaken.Load()
}

func (s *Stats) Rejected() uint64 { return s.rejected.Load() }

func (s *Stats) YearsSimulated() uint64 { return s.years.Load() }

// StatsProvider provides simulation statistics.
type StatsProvider interface {
	Simulations(growth.Outcome) uint64
	Rejected() uint64
	YearsSimulated() uint64
}

// Collector exposes handler statistics to Prometheus as
// "{namespace}_{subsystem}_{metric}":
//   - simulations_total{outcome}
//   - rejected_total
//   - years_simulated_total
type Collector struct {
	provider        StatsProvider
	simulationsDesc *prometheus.Desc
	rejectedDesc    *prometheus.Desc
	yearsDesc       *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

func NewCollector(namespace, subsystem string, provider StatsProvider) *Collector {
	return &Collector{
		provider: provider,
		simulationsDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, "simulations_total"),
			"Completed simulations by outcome.",
			[]string{"outcome"}, nil,
		),
		rejectedDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, "rejected_total"),
			"Requests rejected for invalid input.",
			nil, nil,
		),
		yearsDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, "years_simulated_total"),
			"Sum of simulated years over all completed simulations.",
			nil, nil,
		),
	}
}

func (c *Collector) Describe(descs chan<- *prometheus.Desc) {
	descs <- c.simulationsDesc
	descs <- c.rejectedDesc
	descs <- c.yearsDesc
}

func (c *Collector) Collect(metrics chan<- prometheus.Metric) {
	for _, o := range []growth.Outcome{growth.Overtaken, growth.NeverOvertakes} {
		metrics <- prometheus.MustNewConstMetric(
			c.simulationsDesc, prometheus.CounterValue, float64(c.provider.Simulations(o)), o.String(),
		)
	}
	metrics <- prometheus.MustNewConstMetric(
		c.rejectedDesc, prometheus.CounterValue, float64(c.provider.Rejected()),
	)
	metrics <- prometheus.MustNewConstMetric(
		c.yearsDesc, prometheus.CounterValue, float64(c.provider.YearsSimulated()),
	)
}
