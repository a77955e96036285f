package components

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/flowbase/flowbase"

	"github.com/rdfio/rdf2void/store/badgerstore"
	"github.com/rdfio/rdf2void/store/dictionary"
)

// StoreWriter writes the dataset arriving on In into a badger database, and
// sends a DoneSignal on OutDone when In is closed. A database holds one
// dataset; any further dataset is an error.
type StoreWriter struct {
	In      chan *dictionary.Dataset
	OutDone chan interface{}
	db      *badger.DB
	ctx     context.Context
	err     error
}

func NewStoreWriter(ctx context.Context, db *badger.DB) *StoreWriter {
	if !flowbase.LogExists {
		flowbase.InitLogWarning()
	}
	return &StoreWriter{
		In:      make(chan *dictionary.Dataset, BUFSIZE),
		OutDone: make(chan interface{}, BUFSIZE),
		db:      db,
		ctx:     ctx,
	}
}

// Err returns the first write error. Only valid after OutDone has been
// closed.
func (p *StoreWriter) Err() error { return p.err }

func (p *StoreWriter) Run() {
	defer close(p.OutDone)

	written := 0
	for ds := range p.In {
		if p.err != nil {
			continue
		}
		if written > 0 {
			p.err = errors.New("store already holds a dataset")
			continue
		}
		if err := badgerstore.Write(p.ctx, p.db, ds); err != nil {
			p.err = err
			continue
		}
		written++
	}

	flowbase.Debug.Printf("Sending done signal on chan %v now in StoreWriter ...\n", p.OutDone)
	p.OutDone <- &DoneSignal{}
}

type DoneSignal struct{}
