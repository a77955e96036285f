// Package partition computes VOID class and property partitions over a
// dictionary-encoded triple store.
//
// The Analyzer makes two passes over the store. Pass 1 reads all rdf:type
// triples and counts the instances of every class. Pass 2 reads every triple
// once, counts it per predicate for the whole dataset, and attributes it to
// the class partitions of its subject, broken down by the classes of its
// object. Only class and predicate IDs are ever turned into terms; subjects
// and objects stay integer IDs throughout.
//
// Pass 2 relies on the store returning full scans subject-major: the classes
// of a subject are looked up once per run of triples sharing that subject.
package partition

import (
	"context"
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/flowbase/flowbase"
	"github.com/knakk/rdf"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rdfio/rdf2void/store"
)

// RDFType is the type-assertion predicate.
var RDFType = mustIRI("http://www.w3.org/1999/02/22-rdf-syntax-ns#type")

func mustIRI(s string) rdf.IRI {
	iri, err := rdf.NewIRI(s)
	if err != nil {
		panic(err)
	}
	return iri
}

// ErrInconsistentStore reports that the store returned an ID it cannot
// translate back into a term, or a term of the wrong kind.
var ErrInconsistentStore = errors.New("inconsistent store")

const (
	// DefaultCacheSize is the default object cache capacity.
	DefaultCacheSize = 2_000_000

	// DefaultProgressInterval is the default number of triples between
	// progress messages.
	DefaultProgressInterval = 10_000_000

	cancelCheckInterval = 1 << 14
)

// Options configure an Analyzer.
type Options struct {
	// CacheSize is the capacity of the object cache, per worker. Zero
	// disables the cache. Counts do not depend on it.
	CacheSize int

	// Workers is the number of goroutines for pass 2. Values below 2 run
	// pass 2 as one sequential scan.
	Workers int

	// ProgressInterval is the number of triples between progress messages.
	// Zero disables periodic messages.
	ProgressInterval int64

	// Progress receives progress messages. Defaults to the flowbase info
	// logger. It is called from several goroutines when Workers > 1.
	Progress func(msg string)

	// Metrics receives counters while the analysis runs. Optional.
	Metrics *Metrics
}

// DefaultOptions returns the options used when nothing else is configured.
func DefaultOptions() Options {
	return Options{
		CacheSize:        DefaultCacheSize,
		Workers:          1,
		ProgressInterval: DefaultProgressInterval,
	}
}

// Analyzer computes partitions over one store. Its caches belong to the
// analyzer, so independent analyzers may run concurrently.
type Analyzer struct {
	st   store.Store
	opts Options

	typePred store.ID
	shared   store.ID
	classes  map[store.ID]Resource
	report   Report
}

// NewAnalyzer returns an analyzer for st.
func NewAnalyzer(st store.Store, opts Options) *Analyzer {
	if !flowbase.LogExists {
		flowbase.InitLogWarning()
	}
	if opts.Progress == nil {
		opts.Progress = func(msg string) { flowbase.Info.Println(msg) }
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics(nil)
	}
	return &Analyzer{st: st, opts: opts}
}

// Report returns the counters of the last run.
func (a *Analyzer) Report() Report { return a.report }

func (a *Analyzer) logf(format string, args ...interface{}) {
	a.opts.Progress(fmt.Sprintf(format, args...))
}

// Analyze runs both passes and returns the partitions. Any store failure
// or inconsistency aborts the run; no partial result is returned.
func (a *Analyzer) Analyze(ctx context.Context) (*Partitions, error) {
	a.report = Report{}
	stats := a.st.Stats()
	a.shared = store.ID(stats.Shared)

	typePred, err := a.st.TermToID(RDFType, store.RolePredicate)
	if err != nil {
		return nil, fmt.Errorf("locate rdf:type: %w", err)
	}
	a.typePred = typePred

	parts := New()
	if err := a.discoverClasses(ctx, parts); err != nil {
		return nil, fmt.Errorf("pass 1: %w", err)
	}
	if err := a.attribute(ctx, parts); err != nil {
		return nil, fmt.Errorf("pass 2: %w", err)
	}
	a.logf("  Done. Total searches: %s, cache clears: %s",
		humanize.Comma(a.report.TypeSearches), humanize.Comma(a.report.CacheClears))
	return parts, nil
}

// discoverClasses is pass 1.
func (a *Analyzer) discoverClasses(ctx context.Context, parts *Partitions) error {
	a.classes = make(map[store.ID]Resource)
	if err := ctx.Err(); err != nil {
		return err
	}
	a.logf("Pass 1: counting instances per class...")
	if a.typePred == store.Wildcard {
		a.logf("  No rdf:type predicate found in dataset")
		return nil
	}

	it, total, err := a.st.Search(store.Wildcard, a.typePred, store.Wildcard)
	if err != nil {
		return err
	}
	defer it.Close()
	a.logf("  rdf:type triples to process: %s", humanize.Comma(total))

	// Triples are unique, so one (s, rdf:type, c) triple is one instance.
	counts := make(map[store.ID]int64)
	var n int64
	for it.Next() {
		counts[it.Triple().O]++
		n++
		if n%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if a.opts.ProgressInterval > 0 && n%a.opts.ProgressInterval == 0 {
			a.logf("  Pass 1: %s type triples processed", humanize.Comma(n))
		}
	}
	if err := it.Err(); err != nil {
		return err
	}
	a.report.TypeTriples = n
	a.opts.Metrics.TriplesScanned.WithLabelValues("1").Add(float64(n))

	for id, count := range counts {
		term, err := a.st.IDToTerm(id, store.RoleObject)
		if err != nil {
			return fmt.Errorf("class object %d: %w: %w", id, ErrInconsistentStore, err)
		}
		iri, ok := term.(rdf.IRI)
		if !ok {
			flowbase.Debug.Printf("Skipping non-IRI class %s\n", store.TermKey(term))
			continue
		}
		class := Resource{ID: id, IRI: iri}
		a.classes[id] = class
		parts.Seed(class, count)
	}
	a.report.Classes = len(a.classes)
	a.opts.Metrics.ClassPartitions.Set(float64(len(a.classes)))
	a.logf("  Found %d classes", len(a.classes))
	return nil
}

// attribute is pass 2.
func (a *Analyzer) attribute(ctx context.Context, parts *Partitions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a.logf("Pass 2: counting property usage per class...")
	if a.opts.Workers > 1 {
		return a.attributeParallel(ctx, parts)
	}

	it, total, err := a.st.Search(store.Wildcard, store.Wildcard, store.Wildcard)
	if err != nil {
		return err
	}
	defer it.Close()
	a.logf("  Total triples to process: %s", humanize.Comma(total))

	sc := a.newScanner(parts)
	for it.Next() {
		if err := sc.visit(it.Triple()); err != nil {
			return err
		}
		if sc.report.Triples%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if a.opts.ProgressInterval > 0 && sc.report.Triples%a.opts.ProgressInterval == 0 {
			a.logf("  Pass 2: %s/%s triples | obj_cache: %s | searches: %s | cache_clears: %d",
				humanize.Comma(sc.report.Triples), humanize.Comma(total),
				humanize.Comma(int64(sc.objects.len())), humanize.Comma(sc.report.TypeSearches),
				sc.report.CacheClears)
		}
	}
	if err := it.Err(); err != nil {
		return err
	}
	a.report.add(sc.report)
	return nil
}

// scanner attributes triples to partitions. Each scanner owns its caches
// and must only be used by one goroutine.
type scanner struct {
	a        *Analyzer
	parts    *Partitions
	preds    map[store.ID]Resource
	subjects subjectCache
	objects  *objectCache
	scanned  prometheus.Counter
	report   Report
}

func (a *Analyzer) newScanner(parts *Partitions) *scanner {
	return &scanner{
		a:       a,
		parts:   parts,
		preds:   make(map[store.ID]Resource),
		objects: newObjectCache(a.opts.CacheSize),
		scanned: a.opts.Metrics.TriplesScanned.WithLabelValues("2"),
	}
}

var untypedTargets = []TargetClass{Untyped}

func (sc *scanner) visit(t store.Triple) error {
	sc.report.Triples++
	sc.scanned.Inc()

	pred, err := sc.predicate(t.P)
	if err != nil {
		return err
	}
	sc.parts.RecordDataset(pred)

	classes, err := sc.subjectClasses(t.S)
	if err != nil {
		return err
	}
	if len(classes) == 0 {
		return nil
	}

	targets, err := sc.objectTargets(t.O)
	if err != nil {
		return err
	}
	for _, c := range classes {
		sc.parts.Record(c, pred, targets)
	}
	return nil
}

func (sc *scanner) predicate(id store.ID) (Resource, error) {
	if r, ok := sc.preds[id]; ok {
		return r, nil
	}
	term, err := sc.a.st.IDToTerm(id, store.RolePredicate)
	if err != nil {
		return Resource{}, fmt.Errorf("predicate %d: %w: %w", id, ErrInconsistentStore, err)
	}
	iri, ok := term.(rdf.IRI)
	if !ok {
		return Resource{}, fmt.Errorf("predicate %d is %s: %w", id, store.TermKey(term), ErrInconsistentStore)
	}
	r := Resource{ID: id, IRI: iri}
	sc.preds[id] = r
	return r, nil
}

func (sc *scanner) subjectClasses(id store.ID) ([]Resource, error) {
	if classes, ok := sc.subjects.get(id); ok {
		return classes, nil
	}
	classes, err := sc.lookupClasses(id)
	if err != nil {
		return nil, err
	}
	sc.subjects.put(id, classes)
	return classes, nil
}

// objectTargets returns the target classes of an object. Objects above the
// shared boundary never occur as subjects, so they have no rdf:type triples
// and are untyped without a lookup. An object whose asserted types are all
// unknown classes counts as untyped too.
func (sc *scanner) objectTargets(id store.ID) ([]TargetClass, error) {
	if id > sc.a.shared {
		sc.report.LookupsSkipped++
		sc.a.opts.Metrics.LookupsSkipped.Inc()
		return untypedTargets, nil
	}
	if targets, ok := sc.objects.get(id); ok {
		sc.report.CacheHits++
		sc.a.opts.Metrics.CacheHits.Inc()
		return targets, nil
	}
	sc.report.CacheMisses++
	sc.a.opts.Metrics.CacheMisses.Inc()

	classes, err := sc.lookupClasses(id)
	if err != nil {
		return nil, err
	}
	targets := untypedTargets
	if len(classes) > 0 {
		targets = make([]TargetClass, len(classes))
		for i, c := range classes {
			targets[i] = Typed(c)
		}
	}
	if sc.objects.put(id, targets) {
		sc.report.CacheClears++
		sc.a.opts.Metrics.CacheClears.Inc()
		flowbase.Debug.Printf("Object cache cleared after reaching %d entries\n", sc.objects.capacity)
	}
	return targets, nil
}

// lookupClasses returns the known classes of a subject ID.
func (sc *scanner) lookupClasses(id store.ID) ([]Resource, error) {
	if sc.a.typePred == store.Wildcard || len(sc.a.classes) == 0 {
		return nil, nil
	}
	sc.report.TypeSearches++
	sc.a.opts.Metrics.TypeSearches.Inc()

	it, n, err := sc.a.st.Search(id, sc.a.typePred, store.Wildcard)
	if err != nil {
		return nil, err
	}
	defer it.Close()
	if n == 0 {
		return nil, nil
	}
	var classes []Resource
	for it.Next() {
		if c, ok := sc.a.classes[it.Triple().O]; ok {
			classes = append(classes, c)
		}
	}
	return classes, it.Err()
}
