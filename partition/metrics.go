package partition

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the prometheus counters of an analyzer. They are registered on
// the registerer given to NewMetrics, so several analyzers can each report to
// their own registry.
type Metrics struct {
	TypeSearches    prometheus.Counter
	CacheHits       prometheus.Counter
	CacheMisses     prometheus.Counter
	CacheClears     prometheus.Counter
	LookupsSkipped  prometheus.Counter
	TriplesScanned  *prometheus.CounterVec
	ClassPartitions prometheus.Gauge
}

// NewMetrics creates the analyzer counters on reg. A nil reg creates
// unregistered counters.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		TypeSearches: f.NewCounter(prometheus.CounterOpts{
			Name: "void_analyzer_type_searches_total",
			Help: "Type-assertion lookups issued against the store",
		}),
		CacheHits: f.NewCounter(prometheus.CounterOpts{
			Name: "void_analyzer_object_cache_hits_total",
			Help: "Object class lookups served by the object cache",
		}),
		CacheMisses: f.NewCounter(prometheus.CounterOpts{
			Name: "void_analyzer_object_cache_misses_total",
			Help: "Object class lookups that went to the store",
		}),
		CacheClears: f.NewCounter(prometheus.CounterOpts{
			Name: "void_analyzer_object_cache_clears_total",
			Help: "Bulk clears of the object cache",
		}),
		LookupsSkipped: f.NewCounter(prometheus.CounterOpts{
			Name: "void_analyzer_object_lookups_skipped_total",
			Help: "Object lookups skipped because the object can never be a subject",
		}),
		TriplesScanned: f.NewCounterVec(prometheus.CounterOpts{
			Name: "void_analyzer_triples_scanned_total",
			Help: "Triples read from the store by pass",
		}, []string{"pass"}),
		ClassPartitions: f.NewGauge(prometheus.GaugeOpts{
			Name: "void_analyzer_class_partitions",
			Help: "Class partitions discovered in pass 1",
		}),
	}
}

// Report summarizes the work of one analysis run.
type Report struct {
	TypeTriples    int64
	Triples        int64
	Classes        int
	TypeSearches   int64
	CacheHits      int64
	CacheMisses    int64
	CacheClears    int64
	LookupsSkipped int64
}

func (r *Report) add(o Report) {
	r.Triples += o.Triples
	r.TypeSearches += o.TypeSearches
	r.CacheHits += o.CacheHits
	r.CacheMisses += o.CacheMisses
	r.CacheClears += o.CacheClears
	r.LookupsSkipped += o.LookupsSkipped
}
