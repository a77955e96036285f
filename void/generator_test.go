package void

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/knakk/rdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rdfio/rdf2void/partition"
	"github.com/rdfio/rdf2void/store"
	"github.com/rdfio/rdf2void/store/storetest"
)

const (
	ds = "http://example.org/dataset"
	ex = "http://example.org/"
)

func md5hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

func sampleParts() *partition.Partitions {
	person := partition.Resource{ID: 1, IRI: storetest.IRI(ex + "Person")}
	company := partition.Resource{ID: 2, IRI: storetest.IRI(ex + "Company")}
	worksFor := partition.Resource{ID: 1, IRI: storetest.IRI(ex + "worksFor")}
	name := partition.Resource{ID: 2, IRI: storetest.IRI(ex + "name")}

	parts := partition.New()
	parts.Seed(person, 2)
	parts.Seed(company, 1)
	parts.Record(person, worksFor, []partition.TargetClass{partition.Typed(company)})
	parts.Record(person, name, []partition.TargetClass{partition.Untyped})
	parts.Record(person, name, []partition.TargetClass{partition.Untyped})
	parts.RecordDataset(worksFor)
	parts.RecordDataset(name)
	parts.RecordDataset(name)
	parts.RecordDataset(name)
	return parts
}

func generate(t *testing.T, opts Options) *Generator {
	t.Helper()
	g, err := NewGenerator(opts)
	require.NoError(t, err)
	g.AddDatasetStatistics(store.Stats{Triples: 9, Subjects: 4, Predicates: 3, Objects: 7, Shared: 2})
	require.NoError(t, g.AddDatasetPropertyPartitions(sampleParts()))
	require.NoError(t, g.AddClassPartitions(sampleParts()))
	return g
}

type statement struct{ s, p, o string }

func statements(g *Generator) []statement {
	var out []statement
	for _, tr := range g.Triples() {
		out = append(out, statement{
			store.TermKey(tr.Subj),
			store.TermKey(tr.Pred),
			store.TermKey(tr.Obj),
		})
	}
	return out
}

func iriKey(s string) string { return "<" + s + ">" }

func intKey(n string) string {
	return `"` + n + `"^^<http://www.w3.org/2001/XMLSchema#integer>`
}

func TestDatasetStatistics(t *testing.T) {
	st := statements(generate(t, Options{DatasetURI: ds}))
	d := iriKey(ds)
	assert.Contains(t, st, statement{d, iriKey(rdfNS + "type"), iriKey(voidNS + "Dataset")})
	assert.Contains(t, st, statement{d, iriKey(voidNS + "triples"), intKey("9")})
	assert.Contains(t, st, statement{d, iriKey(voidNS + "distinctSubjects"), intKey("4")})
	assert.Contains(t, st, statement{d, iriKey(voidNS + "properties"), intKey("3")})
	assert.Contains(t, st, statement{d, iriKey(voidNS + "distinctObjects"), intKey("7")})
	assert.Contains(t, st, statement{d, iriKey(voidNS + "classes"), intKey("2")})
}

func TestPartitionNodeIRIs(t *testing.T) {
	st := statements(generate(t, Options{DatasetURI: ds}))

	person := ds + "/class/" + md5hex(ex+"Person")
	worksFor := person + "/property/" + md5hex(ex+"worksFor")
	name := person + "/property/" + md5hex(ex+"name")
	toCompany := worksFor + "/target/" + md5hex(ex+"Company")
	untyped := name + "/target/" + md5hex("__untyped__")
	dsName := ds + "/property/" + md5hex(ex+"name")

	assert.Contains(t, st, statement{iriKey(ds), iriKey(voidNS + "classPartition"), iriKey(person)})
	assert.Contains(t, st, statement{iriKey(person), iriKey(voidNS + "class"), iriKey(ex + "Person")})
	assert.Contains(t, st, statement{iriKey(person), iriKey(voidNS + "entities"), intKey("2")})
	assert.Contains(t, st, statement{iriKey(person), iriKey(voidNS + "triples"), intKey("3")})

	assert.Contains(t, st, statement{iriKey(person), iriKey(voidNS + "propertyPartition"), iriKey(worksFor)})
	assert.Contains(t, st, statement{iriKey(worksFor), iriKey(voidNS + "property"), iriKey(ex + "worksFor")})
	assert.Contains(t, st, statement{iriKey(worksFor), iriKey(voidNS + "triples"), intKey("1")})

	assert.Contains(t, st, statement{iriKey(worksFor), iriKey(voidExtNS + "objectClassPartition"), iriKey(toCompany)})
	assert.Contains(t, st, statement{iriKey(toCompany), iriKey(voidNS + "class"), iriKey(ex + "Company")})
	assert.Contains(t, st, statement{iriKey(toCompany), iriKey(voidNS + "triples"), intKey("1")})

	assert.Contains(t, st, statement{iriKey(name), iriKey(voidExtNS + "objectClassPartition"), iriKey(untyped)})
	assert.Contains(t, st, statement{iriKey(untyped), iriKey(voidNS + "triples"), intKey("2")})
	for _, s := range st {
		if s.s == iriKey(untyped) {
			assert.NotEqual(t, iriKey(voidNS+"class"), s.p, "untyped target must not link a class")
		}
	}

	assert.Contains(t, st, statement{iriKey(ds), iriKey(voidNS + "propertyPartition"), iriKey(dsName)})
	assert.Contains(t, st, statement{iriKey(dsName), iriKey(voidNS + "triples"), intKey("3")})

	company := ds + "/class/" + md5hex(ex+"Company")
	assert.Contains(t, st, statement{iriKey(company), iriKey(voidNS + "triples"), intKey("0")})
}

func TestBlankNodes(t *testing.T) {
	g := generate(t, Options{DatasetURI: ds, UseBlankNodes: true})
	st := statements(g)

	person := ds + "/class/" + md5hex(ex+"Person")
	assert.Contains(t, st, statement{iriKey(ds), iriKey(voidNS + "classPartition"), "_:p" + md5hex(person)})

	for _, s := range st {
		assert.NotContains(t, s.s, "/class/")
		assert.NotContains(t, s.s, "/property/")
		assert.NotContains(t, s.o, "/class/")
	}
	n := 0
	for _, tr := range g.Triples() {
		if _, ok := tr.Subj.(rdf.Blank); ok {
			n++
		}
	}
	assert.Positive(t, n)
	assert.Len(t, st, len(statements(generate(t, Options{DatasetURI: ds}))))
}

func TestPartitionLinksPointAtNodes(t *testing.T) {
	links := map[string]bool{
		iriKey(voidNS + "classPartition"):          true,
		iriKey(voidNS + "propertyPartition"):       true,
		iriKey(voidExtNS + "objectClassPartition"): true,
	}
	for _, blank := range []bool{false, true} {
		st := statements(generate(t, Options{DatasetURI: ds, UseBlankNodes: blank}))
		n := 0
		for _, s := range st {
			if !links[s.p] {
				continue
			}
			n++
			assert.Contains(t, st, statement{s.o, iriKey(rdfNS + "type"), iriKey(voidNS + "Dataset")},
				"linked node %s is not described (blank nodes: %v)", s.o, blank)
		}
		// 2 classes, 2 class property partitions, 2 targets, 2 dataset properties
		assert.Equal(t, 8, n, "blank nodes: %v", blank)
	}
}

func TestDeterministicOutput(t *testing.T) {
	for _, f := range []Format{Turtle, NTriples} {
		var a, b bytes.Buffer
		require.NoError(t, generate(t, Options{DatasetURI: ds}).Encode(&a, f))
		require.NoError(t, generate(t, Options{DatasetURI: ds}).Encode(&b, f))
		assert.NotEmpty(t, a.String())
		assert.Equal(t, a.String(), b.String(), "format %s", f)
	}
}

func TestNTriplesDecodes(t *testing.T) {
	g := generate(t, Options{DatasetURI: ds})
	var buf bytes.Buffer
	require.NoError(t, g.Encode(&buf, NTriples))

	dec := rdf.NewTripleDecoder(strings.NewReader(buf.String()), rdf.NTriples)
	triples, err := dec.DecodeAll()
	require.NoError(t, err)
	assert.Len(t, triples, len(g.Triples()))
	assert.Equal(t, len(g.Triples()), strings.Count(buf.String(), "\n"))
}

func TestDefaultDatasetURI(t *testing.T) {
	g, err := NewGenerator(Options{})
	require.NoError(t, err)
	g.AddDatasetStatistics(store.Stats{})
	assert.Equal(t, iriKey(DefaultDatasetURI), store.TermKey(g.Triples()[0].Subj))
}

func TestInvalidDatasetURI(t *testing.T) {
	_, err := NewGenerator(Options{DatasetURI: "not an iri"})
	assert.Error(t, err)
}

func TestEmptyPartitions(t *testing.T) {
	g, err := NewGenerator(Options{DatasetURI: ds})
	require.NoError(t, err)
	require.NoError(t, g.AddDatasetPropertyPartitions(partition.New()))
	require.NoError(t, g.AddClassPartitions(partition.New()))
	assert.Equal(t, []statement{{iriKey(ds), iriKey(voidNS + "classes"), intKey("0")}}, statements(g))
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"turtle": Turtle, "TTL": Turtle, "ntriples": NTriples, "nt": NTriples, "N-Triples": NTriples,
	} {
		f, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, f, in)
	}
	_, err := ParseFormat("rdfxml")
	assert.Error(t, err)

	assert.Equal(t, NTriples, FormatForFile("data/dump.NT"))
	assert.Equal(t, Turtle, FormatForFile("data/dump.ttl"))
	assert.Equal(t, "ntriples", NTriples.String())
}
