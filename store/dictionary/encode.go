package dictionary

import (
	"slices"
	"strings"

	"github.com/knakk/rdf"

	"github.com/rdfio/rdf2void/store"
)

// Dataset is a dictionary together with the triples encoded against it,
// sorted subject-major and free of duplicates.
type Dataset struct {
	Dict    *Dictionary
	Triples []store.Triple
}

// Stats returns the global cardinalities of the dataset.
func (ds *Dataset) Stats() store.Stats {
	return store.Stats{
		Triples:    int64(len(ds.Triples)),
		Subjects:   ds.Dict.NumSubjects(),
		Predicates: ds.Dict.NumPredicates(),
		Objects:    ds.Dict.NumObjects(),
		Shared:     ds.Dict.NumShared(),
	}
}

const (
	usedAsSubject = 1 << iota
	usedAsObject
)

// Encoder accumulates triples and builds a Dataset from them.
type Encoder struct {
	terms      map[string]rdf.Term
	usage      map[string]uint8
	predicates map[string]rdf.Term
	keyed      [][3]string
}

// NewEncoder returns an empty Encoder.
func NewEncoder() *Encoder {
	return &Encoder{
		terms:      make(map[string]rdf.Term),
		usage:      make(map[string]uint8),
		predicates: make(map[string]rdf.Term),
	}
}

// Add records one triple.
func (e *Encoder) Add(tr rdf.Triple) {
	s, p, o := store.TermKey(tr.Subj), store.TermKey(tr.Pred), store.TermKey(tr.Obj)
	e.terms[s] = tr.Subj
	e.terms[o] = tr.Obj
	e.usage[s] |= usedAsSubject
	e.usage[o] |= usedAsObject
	e.predicates[p] = tr.Pred
	e.keyed = append(e.keyed, [3]string{s, p, o})
}

// Len is the number of triples added so far, duplicates included.
func (e *Encoder) Len() int { return len(e.keyed) }

// Dataset builds the dictionary and the encoded triples.
func (e *Encoder) Dataset() *Dataset {
	d := &Dictionary{}
	for key, term := range e.terms {
		entry := Entry{Key: key, Term: term}
		switch e.usage[key] {
		case usedAsSubject | usedAsObject:
			d.Shared = append(d.Shared, entry)
		case usedAsSubject:
			d.Subjects = append(d.Subjects, entry)
		default:
			d.Objects = append(d.Objects, entry)
		}
	}
	for key, term := range e.predicates {
		d.Predicates = append(d.Predicates, Entry{Key: key, Term: term})
	}
	for _, sec := range []Section{d.Shared, d.Subjects, d.Objects, d.Predicates} {
		slices.SortFunc(sec, func(a, b Entry) int { return strings.Compare(a.Key, b.Key) })
	}

	triples := make([]store.Triple, 0, len(e.keyed))
	for _, k := range e.keyed {
		triples = append(triples, store.Triple{
			S: d.LocateKey(k[0], store.RoleSubject),
			P: d.LocateKey(k[1], store.RolePredicate),
			O: d.LocateKey(k[2], store.RoleObject),
		})
	}
	slices.SortFunc(triples, func(a, b store.Triple) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		}
		return 0
	})
	return &Dataset{Dict: d, Triples: slices.Compact(triples)}
}

// Encode builds a Dataset from a slice of triples.
func Encode(triples []rdf.Triple) *Dataset {
	e := NewEncoder()
	for _, tr := range triples {
		e.Add(tr)
	}
	return e.Dataset()
}
