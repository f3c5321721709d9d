// Package metrics exports cache competition statistics as Prometheus
// metrics.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sarchlab/cachecomp/mem/cache/competition"
)

// A StatsSource exposes a consistent copy of one cache's competition
// counters. A source that is mutated while it is scraped must synchronize
// Snapshot internally, the way cache.Comp does.
type StatsSource interface {
	NumCPUs() int
	Snapshot() competition.Snapshot
}

// Collector exposes the cumulative competition counters of one stats source
// with a "cpu" label per series. Each scrape reads one snapshot of the live
// counters.
type Collector struct {
	stats StatsSource

	accesses        *prometheus.Desc
	misses          *prometheus.Desc
	evictionsCaused *prometheus.Desc
	evictedByOthers *prometheus.Desc
	evictions       *prometheus.Desc
	fills           *prometheus.Desc
}

// NewCollector constructs a collector over stats and registers it with reg.
// A nil reg falls back to the default registerer. cacheName becomes a const
// label on every series.
func NewCollector(
	reg prometheus.Registerer,
	cacheName string,
	stats StatsSource,
) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	constLabels := prometheus.Labels{"cache": cacheName}
	c := &Collector{
		stats: stats,
		accesses: prometheus.NewDesc(
			"cachecomp_accesses_total",
			"Cache accesses per CPU.",
			[]string{"cpu"}, constLabels,
		),
		misses: prometheus.NewDesc(
			"cachecomp_misses_total",
			"Cache misses per CPU.",
			[]string{"cpu"}, constLabels,
		),
		evictionsCaused: prometheus.NewDesc(
			"cachecomp_evictions_caused_total",
			"Cross-CPU evictions caused per CPU.",
			[]string{"cpu"}, constLabels,
		),
		evictedByOthers: prometheus.NewDesc(
			"cachecomp_evicted_by_others_total",
			"Lines lost to other CPUs per CPU.",
			[]string{"cpu"}, constLabels,
		),
		evictions: prometheus.NewDesc(
			"cachecomp_evictions_total",
			"Evictions suffered per CPU, including same-owner refills.",
			[]string{"cpu"}, constLabels,
		),
		fills: prometheus.NewDesc(
			"cachecomp_fills_total",
			"Line fills per CPU.",
			[]string{"cpu"}, constLabels,
		),
	}

	reg.MustRegister(c)

	return c
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.accesses
	ch <- c.misses
	ch <- c.evictionsCaused
	ch <- c.evictedByOthers
	ch <- c.evictions
	ch <- c.fills
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	snap := c.stats.Snapshot()

	for cpu := 0; cpu < c.stats.NumCPUs(); cpu++ {
		label := strconv.Itoa(cpu)

		ch <- counter(c.accesses, snap.Accesses[cpu], label)
		ch <- counter(c.misses, snap.Misses[cpu], label)
		ch <- counter(c.evictionsCaused, snap.EvictionsCaused[cpu], label)
		ch <- counter(c.evictedByOthers, snap.EvictedByOthers[cpu], label)
		ch <- counter(c.evictions, snap.EvictionCount[cpu], label)
		ch <- counter(c.fills, snap.FillCount[cpu], label)
	}
}

func counter(
	desc *prometheus.Desc,
	value uint64,
	labels ...string,
) prometheus.Metric {
	return prometheus.MustNewConstMetric(
		desc, prometheus.CounterValue, float64(value), labels...)
}
