// Package store defines the dictionary-encoded triple store that partition
// analysis runs against. A store numbers subjects, predicates and objects in
// three independent ID spaces, where terms occurring both as subject and as
// object ("shared" terms) get the same low IDs in the subject and object
// spaces. Backends live in the sub packages memstore and badgerstore.
package store

import (
	"errors"
	"fmt"

	"github.com/knakk/rdf"
)

// ID is a term identifier within one role space. IDs start at 1.
type ID uint64

// Wildcard matches any ID in a search pattern.
const Wildcard ID = 0

// Role selects one of the three ID spaces.
type Role int

const (
	_ Role = iota
	RoleSubject
	RolePredicate
	RoleObject
)

func (r Role) String() string {
	switch r {
	case RoleSubject:
		return "subject"
	case RolePredicate:
		return "predicate"
	case RoleObject:
		return "object"
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// ErrUnknownID is returned by IDToTerm for IDs that have no term.
var ErrUnknownID = errors.New("unknown id")

// Triple is a dictionary-encoded triple.
type Triple struct {
	S, P, O ID
}

// Less orders triples subject-major (SPO).
func (t Triple) Less(o Triple) bool {
	if t.S != o.S {
		return t.S < o.S
	}
	if t.P != o.P {
		return t.P < o.P
	}
	return t.O < o.O
}

// Matches reports whether t matches the pattern, where Wildcard matches any ID.
func (t Triple) Matches(s, p, o ID) bool {
	return (s == Wildcard || s == t.S) &&
		(p == Wildcard || p == t.P) &&
		(o == Wildcard || o == t.O)
}

// Stats are the global cardinalities of a store.
type Stats struct {
	Triples    int64
	Subjects   int64
	Predicates int64
	Objects    int64
	// Shared is the number of terms used both as subject and as object.
	// Object IDs above Shared can never occur as subjects.
	Shared int64
}

// Iterator walks the result of a search. Triple is only valid after Next
// returned true. Close must always be called.
type Iterator interface {
	Next() bool
	Triple() Triple
	Err() error
	Close() error
}

// Store is the capability a partition analysis needs from a triple store.
//
// Search returns the triples matching the pattern and their exact count.
// A full scan (Wildcard, Wildcard, Wildcard) must return triples ordered
// subject-major, with all triples of one subject contiguous. Patterns with IDs
// that do not exist yield no triples, never an error.
//
// TermToID returns Wildcard (0) when the term does not occur in the role.
// IDToTerm returns ErrUnknownID for IDs outside the role space.
type Store interface {
	Search(s, p, o ID) (Iterator, int64, error)
	TermToID(term rdf.Term, role Role) (ID, error)
	IDToTerm(id ID, role Role) (rdf.Term, error)
	Stats() Stats
}

// TermKey is the canonical string form of a term, used to order and index
// dictionary entries.
func TermKey(term rdf.Term) string {
	return term.Serialize(rdf.NTriples)
}
