package void

import (
	"strconv"

	"github.com/knakk/rdf"
)

const (
	voidNS    = "http://rdfs.org/ns/void#"
	voidExtNS = "http://ldf.fi/void-ext#"
	rdfNS     = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	xsdNS     = "http://www.w3.org/2001/XMLSchema#"
)

var (
	rdfType = mustIRI(rdfNS + "type")

	voidDataset           = mustIRI(voidNS + "Dataset")
	voidTriples           = mustIRI(voidNS + "triples")
	voidDistinctSubjects  = mustIRI(voidNS + "distinctSubjects")
	voidProperties        = mustIRI(voidNS + "properties")
	voidDistinctObjects   = mustIRI(voidNS + "distinctObjects")
	voidClasses           = mustIRI(voidNS + "classes")
	voidEntities          = mustIRI(voidNS + "entities")
	voidClass             = mustIRI(voidNS + "class")
	voidProperty          = mustIRI(voidNS + "property")
	voidClassPartition    = mustIRI(voidNS + "classPartition")
	voidPropertyPartition = mustIRI(voidNS + "propertyPartition")

	voidExtObjectClassPartition = mustIRI(voidExtNS + "objectClassPartition")

	xsdInteger = mustIRI(xsdNS + "integer")
)

func mustIRI(s string) rdf.IRI {
	iri, err := rdf.NewIRI(s)
	if err != nil {
		panic(err)
	}
	return iri
}

func integer(n int64) rdf.Literal {
	return rdf.NewTypedLiteral(strconv.FormatInt(n, 10), xsdInteger)
}
