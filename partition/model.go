package partition

import (
	"iter"
	"maps"
	"slices"
	"strings"

	"github.com/knakk/rdf"

	"github.com/rdfio/rdf2void/store"
)

// Resource is a class or predicate: its store ID (object space for classes,
// predicate space for predicates) and its IRI.
type Resource struct {
	ID  store.ID
	IRI rdf.IRI
}

func (r Resource) String() string { return r.IRI.String() }

// TargetClass is the class of a triple's object, or Untyped for literals and
// objects without a known class.
type TargetClass struct {
	class Resource
	typed bool
}

// Untyped is the target of objects that have no known class.
var Untyped = TargetClass{}

// Typed returns the target for objects of class c.
func Typed(c Resource) TargetClass {
	return TargetClass{class: c, typed: true}
}

// Class returns the target class and true, or false for Untyped.
func (t TargetClass) Class() (Resource, bool) {
	return t.class, t.typed
}

// IsUntyped reports whether t is the Untyped target.
func (t TargetClass) IsUntyped() bool { return !t.typed }

func (t TargetClass) String() string {
	if !t.typed {
		return "untyped"
	}
	return t.class.String()
}

// compareTargets orders typed targets by IRI and puts Untyped last.
func compareTargets(a, b TargetClass) int {
	switch {
	case a.typed && b.typed:
		return strings.Compare(a.class.IRI.String(), b.class.IRI.String())
	case a.typed:
		return -1
	case b.typed:
		return 1
	}
	return 0
}

func compareResources(a, b Resource) int {
	return strings.Compare(a.IRI.String(), b.IRI.String())
}

// PropertyPartition counts the triples of one predicate within a class
// partition, broken down by the class of the object.
type PropertyPartition struct {
	predicate Resource
	total     int64
	targets   map[TargetClass]int64
}

func newPropertyPartition(p Resource) *PropertyPartition {
	return &PropertyPartition{predicate: p, targets: make(map[TargetClass]int64)}
}

// add counts one triple. The total grows by one, each target by one.
func (pp *PropertyPartition) add(targets []TargetClass) {
	pp.total++
	for _, t := range targets {
		pp.targets[t]++
	}
}

func (pp *PropertyPartition) merge(o *PropertyPartition) {
	pp.total += o.total
	for t, n := range o.targets {
		pp.targets[t] += n
	}
}

// Predicate is the predicate of the partition.
func (pp *PropertyPartition) Predicate() Resource { return pp.predicate }

// TotalCount is the number of triples in the partition.
func (pp *PropertyPartition) TotalCount() int64 { return pp.total }

// Target returns the count for one target class.
func (pp *PropertyPartition) Target(t TargetClass) int64 { return pp.targets[t] }

// Targets yields every target class with its count, typed targets by IRI
// and Untyped last.
func (pp *PropertyPartition) Targets() iter.Seq2[TargetClass, int64] {
	return func(yield func(TargetClass, int64) bool) {
		keys := slices.SortedFunc(maps.Keys(pp.targets), compareTargets)
		for _, k := range keys {
			if !yield(k, pp.targets[k]) {
				return
			}
		}
	}
}

// ClassPartition aggregates the triples whose subject is an instance of a
// class.
type ClassPartition struct {
	class      Resource
	instances  int64
	properties map[store.ID]*PropertyPartition
}

func newClassPartition(c Resource) *ClassPartition {
	return &ClassPartition{class: c, properties: make(map[store.ID]*PropertyPartition)}
}

// Class is the class of the partition.
func (cp *ClassPartition) Class() Resource { return cp.class }

// InstanceCount is the number of distinct subjects typed with the class.
func (cp *ClassPartition) InstanceCount() int64 { return cp.instances }

// TripleCount is the sum of the total counts of all property partitions.
func (cp *ClassPartition) TripleCount() int64 {
	var n int64
	for _, pp := range cp.properties {
		n += pp.total
	}
	return n
}

// NumProperties is the number of property partitions.
func (cp *ClassPartition) NumProperties() int { return len(cp.properties) }

// Property returns the property partition for the predicate IRI.
func (cp *ClassPartition) Property(predicate rdf.IRI) (*PropertyPartition, bool) {
	for _, pp := range cp.properties {
		if pp.predicate.IRI == predicate {
			return pp, true
		}
	}
	return nil, false
}

// Properties yields the property partitions ordered by predicate IRI.
func (cp *ClassPartition) Properties() iter.Seq[*PropertyPartition] {
	return func(yield func(*PropertyPartition) bool) {
		pps := slices.Collect(maps.Values(cp.properties))
		slices.SortFunc(pps, func(a, b *PropertyPartition) int {
			return compareResources(a.predicate, b.predicate)
		})
		for _, pp := range pps {
			if !yield(pp) {
				return
			}
		}
	}
}

func (cp *ClassPartition) record(predicate Resource, targets []TargetClass) {
	pp, ok := cp.properties[predicate.ID]
	if !ok {
		pp = newPropertyPartition(predicate)
		cp.properties[predicate.ID] = pp
	}
	pp.add(targets)
}

type datasetProperty struct {
	predicate Resource
	count     int64
}

// Partitions is the result of a partition analysis: one class partition per
// class and the per-predicate triple counts of the whole dataset. Nothing is
// ever removed or decremented.
type Partitions struct {
	classes    map[store.ID]*ClassPartition
	properties map[store.ID]*datasetProperty
}

// New returns an empty Partitions.
func New() *Partitions {
	return &Partitions{
		classes:    make(map[store.ID]*ClassPartition),
		properties: make(map[store.ID]*datasetProperty),
	}
}

// Seed sets the instance count of class, creating its partition.
func (p *Partitions) Seed(class Resource, instances int64) {
	p.class(class).instances = instances
}

func (p *Partitions) class(c Resource) *ClassPartition {
	cp, ok := p.classes[c.ID]
	if !ok {
		cp = newClassPartition(c)
		p.classes[c.ID] = cp
	}
	return cp
}

// Record counts one triple with the predicate against the class partition
// of class, with targets as the classes of the object.
func (p *Partitions) Record(class, predicate Resource, targets []TargetClass) {
	p.class(class).record(predicate, targets)
}

// RecordDataset counts one triple with the predicate at dataset level.
func (p *Partitions) RecordDataset(predicate Resource) {
	dp, ok := p.properties[predicate.ID]
	if !ok {
		dp = &datasetProperty{predicate: predicate}
		p.properties[predicate.ID] = dp
	}
	dp.count++
}

// Merge adds all counts of o to p.
func (p *Partitions) Merge(o *Partitions) {
	for _, ocp := range o.classes {
		cp := p.class(ocp.class)
		cp.instances += ocp.instances
		for id, opp := range ocp.properties {
			pp, ok := cp.properties[id]
			if !ok {
				pp = newPropertyPartition(opp.predicate)
				cp.properties[id] = pp
			}
			pp.merge(opp)
		}
	}
	for id, odp := range o.properties {
		dp, ok := p.properties[id]
		if !ok {
			dp = &datasetProperty{predicate: odp.predicate}
			p.properties[id] = dp
		}
		dp.count += odp.count
	}
}

// NumClasses is the number of class partitions.
func (p *Partitions) NumClasses() int { return len(p.classes) }

// Class returns the partition of the class IRI.
func (p *Partitions) Class(class rdf.IRI) (*ClassPartition, bool) {
	for _, cp := range p.classes {
		if cp.class.IRI == class {
			return cp, true
		}
	}
	return nil, false
}

// Classes yields the class partitions ordered by class IRI.
func (p *Partitions) Classes() iter.Seq[*ClassPartition] {
	return func(yield func(*ClassPartition) bool) {
		cps := slices.Collect(maps.Values(p.classes))
		slices.SortFunc(cps, func(a, b *ClassPartition) int {
			return compareResources(a.class, b.class)
		})
		for _, cp := range cps {
			if !yield(cp) {
				return
			}
		}
	}
}

// DatasetProperty returns the dataset-level triple count of the predicate.
func (p *Partitions) DatasetProperty(predicate rdf.IRI) int64 {
	for _, dp := range p.properties {
		if dp.predicate.IRI == predicate {
			return dp.count
		}
	}
	return 0
}

// NumDatasetProperties is the number of distinct predicates counted at
// dataset level.
func (p *Partitions) NumDatasetProperties() int { return len(p.properties) }

// DatasetProperties yields every predicate of the dataset with its triple
// count, ordered by predicate IRI.
func (p *Partitions) DatasetProperties() iter.Seq2[Resource, int64] {
	return func(yield func(Resource, int64) bool) {
		dps := slices.Collect(maps.Values(p.properties))
		slices.SortFunc(dps, func(a, b *datasetProperty) int {
			return compareResources(a.predicate, b.predicate)
		})
		for _, dp := range dps {
			if !yield(dp.predicate, dp.count) {
				return
			}
		}
	}
}
