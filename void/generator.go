// Package void turns partition analysis results into a VOID description.
//
// Partition nodes are named by hashing the identity of what they partition,
// so the same dataset always yields the same node names:
//
//	{dataset}/class/{md5(class)}
//	{dataset}/class/{md5(class)}/property/{md5(predicate)}
//	{dataset}/class/{md5(class)}/property/{md5(predicate)}/target/{md5(target)}
//	{dataset}/property/{md5(predicate)}
//
// where an untyped target hashes the marker "__untyped__".
package void

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/knakk/rdf"

	"github.com/rdfio/rdf2void/partition"
	"github.com/rdfio/rdf2void/store"
)

// DefaultDatasetURI names the dataset when nothing else is configured.
const DefaultDatasetURI = "http://example.org/dataset"

const untypedMarker = "__untyped__"

// Options configure a Generator.
type Options struct {
	// DatasetURI is the IRI of the described dataset.
	DatasetURI string

	// UseBlankNodes makes every partition node a blank node instead of an
	// IRI. Labels are still derived from the IRI the node would have had.
	UseBlankNodes bool
}

// Generator accumulates the triples of a VOID description. Triples come out
// in the order they were added.
type Generator struct {
	opts    Options
	dataset rdf.IRI
	triples []rdf.Triple
}

// NewGenerator returns a generator describing the dataset opts.DatasetURI.
func NewGenerator(opts Options) (*Generator, error) {
	if opts.DatasetURI == "" {
		opts.DatasetURI = DefaultDatasetURI
	}
	dataset, err := rdf.NewIRI(opts.DatasetURI)
	if err != nil {
		return nil, fmt.Errorf("invalid dataset uri %q: %w", opts.DatasetURI, err)
	}
	return &Generator{opts: opts, dataset: dataset}, nil
}

// Triples returns the description built so far.
func (g *Generator) Triples() []rdf.Triple { return g.triples }

func (g *Generator) add(s rdf.Subject, p rdf.IRI, o rdf.Object) {
	g.triples = append(g.triples, rdf.Triple{Subj: s, Pred: p, Obj: o})
}

func hashIRI(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// partitionNode is a partition node and the IRI naming it. The IRI is kept
// in blank node mode too, since child nodes are named below it.
type partitionNode struct {
	iri  string
	term rdf.Subject
	obj  rdf.Object
}

func (g *Generator) node(iri string) (partitionNode, error) {
	if g.opts.UseBlankNodes {
		b, err := rdf.NewBlank("p" + hashIRI(iri))
		if err != nil {
			return partitionNode{}, err
		}
		return partitionNode{iri: iri, term: b, obj: b}, nil
	}
	term, err := rdf.NewIRI(iri)
	if err != nil {
		return partitionNode{}, fmt.Errorf("partition node %q: %w", iri, err)
	}
	return partitionNode{iri: iri, term: term, obj: term}, nil
}

func (g *Generator) child(parent, kind string, identity string) (partitionNode, error) {
	return g.node(parent + "/" + kind + "/" + hashIRI(identity))
}

// AddDatasetStatistics describes the dataset as a whole from the global
// counters of the store.
func (g *Generator) AddDatasetStatistics(stats store.Stats) {
	g.add(g.dataset, rdfType, voidDataset)
	g.add(g.dataset, voidTriples, integer(stats.Triples))
	g.add(g.dataset, voidDistinctSubjects, integer(stats.Subjects))
	g.add(g.dataset, voidProperties, integer(stats.Predicates))
	g.add(g.dataset, voidDistinctObjects, integer(stats.Objects))
}

// AddDatasetPropertyPartitions adds one property partition per predicate,
// counting all triples of the dataset regardless of subject type.
func (g *Generator) AddDatasetPropertyPartitions(parts *partition.Partitions) error {
	for pred, count := range parts.DatasetProperties() {
		n, err := g.child(g.dataset.String(), "property", pred.IRI.String())
		if err != nil {
			return err
		}
		g.add(n.term, rdfType, voidDataset)
		g.add(g.dataset, voidPropertyPartition, n.obj)
		g.add(n.term, voidProperty, pred.IRI)
		g.add(n.term, voidTriples, integer(count))
	}
	return nil
}

// AddClassPartitions adds the class partitions with their property and
// object class partitions.
func (g *Generator) AddClassPartitions(parts *partition.Partitions) error {
	g.add(g.dataset, voidClasses, integer(int64(parts.NumClasses())))
	for cp := range parts.Classes() {
		cn, err := g.child(g.dataset.String(), "class", cp.Class().IRI.String())
		if err != nil {
			return err
		}
		g.add(cn.term, rdfType, voidDataset)
		g.add(g.dataset, voidClassPartition, cn.obj)
		g.add(cn.term, voidClass, cp.Class().IRI)
		g.add(cn.term, voidEntities, integer(cp.InstanceCount()))
		g.add(cn.term, voidTriples, integer(cp.TripleCount()))

		for pp := range cp.Properties() {
			if err := g.addPropertyPartition(cn, pp); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *Generator) addPropertyPartition(cn partitionNode, pp *partition.PropertyPartition) error {
	pn, err := g.child(cn.iri, "property", pp.Predicate().IRI.String())
	if err != nil {
		return err
	}
	g.add(pn.term, rdfType, voidDataset)
	g.add(cn.term, voidPropertyPartition, pn.obj)
	g.add(pn.term, voidProperty, pp.Predicate().IRI)
	g.add(pn.term, voidTriples, integer(pp.TotalCount()))

	for target, count := range pp.Targets() {
		class, typed := target.Class()
		identity := untypedMarker
		if typed {
			identity = class.IRI.String()
		}
		tn, err := g.child(pn.iri, "target", identity)
		if err != nil {
			return err
		}
		g.add(tn.term, rdfType, voidDataset)
		g.add(pn.term, voidExtObjectClassPartition, tn.obj)
		if typed {
			g.add(tn.term, voidClass, class.IRI)
		}
		g.add(tn.term, voidTriples, integer(count))
	}
	return nil
}

// Encode writes the description to w in format f.
func (g *Generator) Encode(w io.Writer, f Format) error {
	enc := rdf.NewTripleEncoder(w, f.RDFFormat())
	if err := enc.EncodeAll(g.triples); err != nil {
		return fmt.Errorf("encode %s: %w", f, err)
	}
	return enc.Close()
}
