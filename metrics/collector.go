// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

/*
Package metrics exposes Prometheus collectors over a running engine:
node-table occupancy from the BDD store and step/outcome counters from
the PFP driver. This is ambient observability surrounding the core
evaluator, wired with github.com/prometheus/client_golang the way
other services in this corpus expose their own internal counters.
*/
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tamlang/tau/bdd"
	"github.com/tamlang/tau/engine"
)

// Collector implements prometheus.Collector, reading live gauges
// straight out of a store/driver pair rather than caching counters
// internally: Describe/Collect are the only methods Prometheus calls,
// and both can simply read current state at scrape time.
type Collector struct {
	store  *bdd.BDD
	driver *engine.Driver

	nodesAllocated *prometheus.Desc
	nodesFree      *prometheus.Desc
	nodesProduced  *prometheus.Desc
	gcTotal        *prometheus.Desc
	stepsTotal     *prometheus.Desc
	outcome        *prometheus.Desc
	contradicted   *prometheus.Desc
}

// New returns a Collector reporting on store and driver. driver may be
// nil if only store-level stats are wanted (e.g. before prog_read has
// run).
func New(store *bdd.BDD, driver *engine.Driver) *Collector {
	return &Collector{
		store:  store,
		driver: driver,
		nodesAllocated: prometheus.NewDesc(
			"tau_bdd_nodes_allocated", "Number of BDD node-table slots in use.", nil, nil),
		nodesFree: prometheus.NewDesc(
			"tau_bdd_nodes_free", "Number of BDD node-table slots currently free.", nil, nil),
		nodesProduced: prometheus.NewDesc(
			"tau_bdd_nodes_produced_total", "Total BDD nodes ever constructed.", nil, nil),
		gcTotal: prometheus.NewDesc(
			"tau_bdd_gc_total", "Number of BDD garbage collections performed.", nil, nil),
		stepsTotal: prometheus.NewDesc(
			"tau_pfp_steps_total", "Number of PFP steps executed so far.", nil, nil),
		outcome: prometheus.NewDesc(
			"tau_pfp_outcome", "Last known PFP outcome (0=unresolved, 1=SAT, 2=UNSAT).", nil, nil),
		contradicted: prometheus.NewDesc(
			"tau_pfp_contradicted", "Whether any step collapsed the database via a contradiction (0 or 1).", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.nodesAllocated
	ch <- c.nodesFree
	ch <- c.nodesProduced
	ch <- c.gcTotal
	ch <- c.stepsTotal
	ch <- c.outcome
	ch <- c.contradicted
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.store.Stats()
	ch <- prometheus.MustNewConstMetric(c.nodesAllocated, prometheus.GaugeValue, float64(s.Allocated))
	ch <- prometheus.MustNewConstMetric(c.nodesFree, prometheus.GaugeValue, float64(s.Free))
	ch <- prometheus.MustNewConstMetric(c.nodesProduced, prometheus.CounterValue, float64(s.Produced))
	ch <- prometheus.MustNewConstMetric(c.gcTotal, prometheus.CounterValue, float64(s.GCs))
	if c.driver == nil {
		return
	}
	ch <- prometheus.MustNewConstMetric(c.stepsTotal, prometheus.CounterValue, float64(c.driver.Steps()))
	ch <- prometheus.MustNewConstMetric(c.outcome, prometheus.GaugeValue, float64(outcomeCode(c.driver.LastOutcome())))
	contradicted := 0.0
	if c.driver.Contradicted() {
		contradicted = 1.0
	}
	ch <- prometheus.MustNewConstMetric(c.contradicted, prometheus.GaugeValue, contradicted)
}

func outcomeCode(o engine.Outcome) int {
	switch o {
	case engine.SAT:
		return 1
	case engine.UNSAT:
		return 2
	default:
		return 0
	}
}
