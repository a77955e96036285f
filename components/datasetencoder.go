package components

import (
	"github.com/flowbase/flowbase"
	"github.com/knakk/rdf"

	"github.com/rdfio/rdf2void/store/dictionary"
)

// DatasetEncoder collects all triples arriving on In and, once In is closed,
// sends them as one dictionary-encoded dataset on Out.
type DatasetEncoder struct {
	In  chan rdf.Triple
	Out chan *dictionary.Dataset
}

func NewDatasetEncoder() *DatasetEncoder {
	if !flowbase.LogExists {
		flowbase.InitLogWarning()
	}
	return &DatasetEncoder{
		In:  make(chan rdf.Triple, BUFSIZE),
		Out: make(chan *dictionary.Dataset, BUFSIZE),
	}
}

func (p *DatasetEncoder) Run() {
	defer close(p.Out)

	enc := dictionary.NewEncoder()
	for t := range p.In {
		enc.Add(t)
	}
	ds := enc.Dataset()
	flowbase.Debug.Printf("Encoded %d triples (%d read)\n", len(ds.Triples), enc.Len())
	p.Out <- ds
}
