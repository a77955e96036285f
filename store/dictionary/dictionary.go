// Package dictionary assigns store IDs to RDF terms.
//
// Terms are split into four sections, the way HDT dictionaries are:
//
//	shared     terms used as subject and as object  IDs 1..S in both spaces
//	subjects   subject-only terms                   IDs S+1.. in subject space
//	objects    object-only terms                    IDs S+1.. in object space
//	predicates all predicates                       IDs 1..P in predicate space
//
// Inside a section terms are ordered by store.TermKey.
package dictionary

import (
	"fmt"
	"slices"
	"strings"

	"github.com/knakk/rdf"

	"github.com/rdfio/rdf2void/store"
)

// Entry is one dictionary term with its canonical key.
type Entry struct {
	Key  string
	Term rdf.Term
}

// Section is an ordered list of dictionary entries.
type Section []Entry

func (s Section) locate(key string) (int, bool) {
	return slices.BinarySearchFunc(s, key, func(e Entry, k string) int {
		return strings.Compare(e.Key, k)
	})
}

// Dictionary maps terms to IDs and back.
type Dictionary struct {
	Shared     Section
	Subjects   Section
	Objects    Section
	Predicates Section
}

// NumShared is the boundary between shared and role-only IDs.
func (d *Dictionary) NumShared() int64 { return int64(len(d.Shared)) }

// NumSubjects is the number of distinct subjects.
func (d *Dictionary) NumSubjects() int64 { return int64(len(d.Shared) + len(d.Subjects)) }

// NumObjects is the number of distinct objects.
func (d *Dictionary) NumObjects() int64 { return int64(len(d.Shared) + len(d.Objects)) }

// NumPredicates is the number of distinct predicates.
func (d *Dictionary) NumPredicates() int64 { return int64(len(d.Predicates)) }

// Locate returns the ID of term in role, or store.Wildcard when it is absent.
func (d *Dictionary) Locate(term rdf.Term, role store.Role) store.ID {
	if term == nil {
		return store.Wildcard
	}
	return d.LocateKey(store.TermKey(term), role)
}

// LocateKey is Locate for an already computed term key.
func (d *Dictionary) LocateKey(key string, role store.Role) store.ID {
	switch role {
	case store.RolePredicate:
		if i, ok := d.Predicates.locate(key); ok {
			return store.ID(i + 1)
		}
		return store.Wildcard
	case store.RoleSubject, store.RoleObject:
		if i, ok := d.Shared.locate(key); ok {
			return store.ID(i + 1)
		}
		own := d.Subjects
		if role == store.RoleObject {
			own = d.Objects
		}
		if i, ok := own.locate(key); ok {
			return store.ID(len(d.Shared) + i + 1)
		}
	}
	return store.Wildcard
}

// Extract returns the term for id in role.
func (d *Dictionary) Extract(id store.ID, role store.Role) (rdf.Term, error) {
	e, err := d.entry(id, role)
	if err != nil {
		return nil, err
	}
	return e.Term, nil
}

// ExtractKey returns the canonical key for id in role.
func (d *Dictionary) ExtractKey(id store.ID, role store.Role) (string, error) {
	e, err := d.entry(id, role)
	if err != nil {
		return "", err
	}
	return e.Key, nil
}

func (d *Dictionary) entry(id store.ID, role store.Role) (Entry, error) {
	if id == store.Wildcard {
		return Entry{}, fmt.Errorf("%s id 0: %w", role, store.ErrUnknownID)
	}
	i := int(id - 1)
	switch role {
	case store.RolePredicate:
		if i < len(d.Predicates) {
			return d.Predicates[i], nil
		}
	case store.RoleSubject, store.RoleObject:
		if i < len(d.Shared) {
			return d.Shared[i], nil
		}
		own := d.Subjects
		if role == store.RoleObject {
			own = d.Objects
		}
		if j := i - len(d.Shared); j < len(own) {
			return own[j], nil
		}
	default:
		return Entry{}, fmt.Errorf("invalid role %s", role)
	}
	return Entry{}, fmt.Errorf("%s id %d: %w", role, id, store.ErrUnknownID)
}
