// Package memstore is an in-memory store.Store over an encoded dataset.
package memstore

import (
	"sort"

	"github.com/knakk/rdf"

	"github.com/rdfio/rdf2void/store"
	"github.com/rdfio/rdf2void/store/dictionary"
)

// Store is immutable once created and safe for concurrent use.
type Store struct {
	dict      *dictionary.Dictionary
	triples   []store.Triple
	predCount map[store.ID]int64
	stats     store.Stats
}

var _ store.Store = (*Store)(nil)

// New returns a store serving ds.
func New(ds *dictionary.Dataset) *Store {
	s := &Store{
		dict:      ds.Dict,
		triples:   ds.Triples,
		predCount: make(map[store.ID]int64),
		stats:     ds.Stats(),
	}
	for _, t := range ds.Triples {
		s.predCount[t.P]++
	}
	return s
}

// FromTriples encodes triples and returns a store serving them.
func FromTriples(triples []rdf.Triple) *Store {
	return New(dictionary.Encode(triples))
}

func (s *Store) Search(subj, pred, obj store.ID) (store.Iterator, int64, error) {
	if subj == store.Wildcard {
		var n int64
		switch {
		case pred == store.Wildcard && obj == store.Wildcard:
			n = int64(len(s.triples))
		case obj == store.Wildcard:
			n = s.predCount[pred]
		default:
			n = store.Count(s.triples, subj, pred, obj)
		}
		return store.NewSliceIterator(s.triples, subj, pred, obj), n, nil
	}
	lo := sort.Search(len(s.triples), func(i int) bool { return s.triples[i].S >= subj })
	hi := lo + sort.Search(len(s.triples)-lo, func(i int) bool { return s.triples[lo+i].S > subj })
	run := s.triples[lo:hi]
	return store.NewSliceIterator(run, subj, pred, obj), store.Count(run, subj, pred, obj), nil
}

func (s *Store) TermToID(term rdf.Term, role store.Role) (store.ID, error) {
	return s.dict.Locate(term, role), nil
}

func (s *Store) IDToTerm(id store.ID, role store.Role) (rdf.Term, error) {
	return s.dict.Extract(id, role)
}

func (s *Store) Stats() store.Stats { return s.stats }

// Dataset returns the dataset the store serves.
func (s *Store) Dataset() *dictionary.Dataset {
	return &dictionary.Dataset{Dict: s.dict, Triples: s.triples}
}
