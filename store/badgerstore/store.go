package badgerstore

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/knakk/rdf"

	"github.com/rdfio/rdf2void/store"
)

// Store serves a dataset written with Write. It is safe for concurrent use.
type Store struct {
	db     *badger.DB
	owned  bool
	stats  store.Stats
	closed bool
}

var _ store.Store = (*Store)(nil)

// Open opens the store database described by cfg. The returned store owns
// the database and closes it on Close.
func Open(cfg Config) (*Store, error) {
	db, err := OpenDB(cfg)
	if err != nil {
		return nil, err
	}
	s, err := New(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	s.owned = true
	return s, nil
}

// New serves the dataset already written into db. Closing the store leaves
// db open.
func New(db *badger.DB) (*Store, error) {
	s := &Store{db: db}
	err := db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte{prefixStats})
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			s.stats, err = decodeStats(val)
			return err
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, errors.New("database holds no triple store")
	}
	if err != nil {
		return nil, fmt.Errorf("read store stats: %w", err)
	}
	return s, nil
}

// Close releases the database if the store owns it.
func (s *Store) Close() error {
	if s.closed || !s.owned {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

func (s *Store) Stats() store.Stats { return s.stats }

func (s *Store) TermToID(term rdf.Term, role store.Role) (store.ID, error) {
	if term == nil {
		return store.Wildcard, nil
	}
	var id store.ID
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(termToIDKey(role, store.TermKey(term)))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			id = readID(val)
			return nil
		})
	})
	if err != nil {
		return store.Wildcard, fmt.Errorf("locate %s term: %w", role, err)
	}
	return id, nil
}

func (s *Store) IDToTerm(id store.ID, role store.Role) (rdf.Term, error) {
	var term rdf.Term
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(idToTermKey(role, id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%s id %d: %w", role, id, store.ErrUnknownID)
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			term, err = decodeTerm(val)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return term, nil
}

// Search picks the SPO index unless only the predicate leads the pattern,
// in which case the PSO index is used. Positions that cannot be part of the
// index prefix are filtered while iterating. Patterns without a stored count
// are collected in a single pass over the index.
func (s *Store) Search(subj, pred, obj store.ID) (store.Iterator, int64, error) {
	var (
		prefix []byte
		decode func([]byte) store.Triple
	)
	if subj == store.Wildcard && pred != store.Wildcard {
		prefix = indexPrefix(prefixPSO, pred, subj, obj)
		decode = decodePSO
	} else {
		prefix = indexPrefix(prefixSPO, subj, pred, obj)
		decode = decodeSPO
	}

	count, counted, err := s.count(subj, pred, obj)
	if err != nil {
		return nil, 0, err
	}
	if !counted {
		triples, err := s.collect(prefix, decode, subj, pred, obj)
		if err != nil {
			return nil, 0, err
		}
		return store.NewSliceIterator(triples, subj, pred, obj), int64(len(triples)), nil
	}

	txn := s.db.NewTransaction(false)
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	it.Seek(prefix)
	return &iterator{
		txn:    txn,
		it:     it,
		prefix: prefix,
		decode: decode,
		s:      subj,
		p:      pred,
		o:      obj,
	}, count, nil
}

// count looks up the number of triples matching the pattern from the count
// records. It reports false for patterns that bind the object but not the
// whole triple.
func (s *Store) count(subj, pred, obj store.ID) (int64, bool, error) {
	switch {
	case subj == store.Wildcard && pred == store.Wildcard && obj == store.Wildcard:
		return s.stats.Triples, true, nil
	case subj == store.Wildcard && obj == store.Wildcard:
		n, err := s.counter(predCountKey(pred))
		return n, true, err
	case subj != store.Wildcard && obj == store.Wildcard:
		n, err := s.counter(subjCountKey(subj, pred))
		return n, true, err
	case subj != store.Wildcard && pred != store.Wildcard:
		var n int64
		err := s.db.View(func(txn *badger.Txn) error {
			_, err := txn.Get(spoKey(store.Triple{S: subj, P: pred, O: obj}))
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			if err == nil {
				n = 1
			}
			return err
		})
		return n, true, err
	}
	return 0, false, nil
}

func (s *Store) counter(key []byte) (int64, error) {
	var n int64
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			n = int64(readID(val))
			return nil
		})
	})
	return n, err
}

func (s *Store) collect(prefix []byte, decode func([]byte) store.Triple, subj, pred, obj store.ID) ([]store.Triple, error) {
	var out []store.Triple
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if t := decode(it.Item().Key()); t.Matches(subj, pred, obj) {
				out = append(out, t)
			}
		}
		return nil
	})
	return out, err
}

type iterator struct {
	txn     *badger.Txn
	it      *badger.Iterator
	prefix  []byte
	decode  func([]byte) store.Triple
	s, p, o store.ID
	cur     store.Triple
	started bool
	closed  bool
}

func (it *iterator) Next() bool {
	if it.closed {
		return false
	}
	for {
		if it.started {
			it.it.Next()
		}
		it.started = true
		if !it.it.ValidForPrefix(it.prefix) {
			return false
		}
		t := it.decode(it.it.Item().Key())
		if t.Matches(it.s, it.p, it.o) {
			it.cur = t
			return true
		}
	}
}

func (it *iterator) Triple() store.Triple { return it.cur }

func (it *iterator) Err() error { return nil }

func (it *iterator) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	it.it.Close()
	it.txn.Discard()
	return nil
}
