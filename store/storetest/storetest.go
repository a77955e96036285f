// Package storetest provides helpers for tests that need small stores.
package storetest

import (
	"log"
	"sync"
	"testing"

	"github.com/flowbase/flowbase"
	"github.com/knakk/rdf"

	"github.com/rdfio/rdf2void/store"
)

// IRI returns the IRI for s, panicking on invalid input.
func IRI(s string) rdf.IRI {
	iri, err := rdf.NewIRI(s)
	if err != nil {
		panic(err)
	}
	return iri
}

// Literal returns a plain literal.
func Literal(s string) rdf.Literal {
	lit, err := rdf.NewLiteral(s)
	if err != nil {
		panic(err)
	}
	return lit
}

// Blank returns a blank node.
func Blank(id string) rdf.Blank {
	b, err := rdf.NewBlank(id)
	if err != nil {
		panic(err)
	}
	return b
}

// Triple builds a triple from subject, predicate and object terms.
func Triple(s rdf.Subject, p rdf.Predicate, o rdf.Object) rdf.Triple {
	return rdf.Triple{Subj: s, Pred: p, Obj: o}
}

// Search is one recorded search pattern.
type Search struct {
	S, P, O store.ID
}

// CountingStore wraps a store and records every search issued against it.
type CountingStore struct {
	store.Store

	mu       sync.Mutex
	searches []Search
}

// NewCountingStore wraps st.
func NewCountingStore(st store.Store) *CountingStore {
	return &CountingStore{Store: st}
}

func (c *CountingStore) Search(s, p, o store.ID) (store.Iterator, int64, error) {
	c.mu.Lock()
	c.searches = append(c.searches, Search{S: s, P: p, O: o})
	c.mu.Unlock()
	return c.Store.Search(s, p, o)
}

// Searches returns the recorded searches in issue order.
func (c *CountingStore) Searches() []Search {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Search(nil), c.searches...)
}

// SearchedSubject reports whether any search had subject s bound.
func (c *CountingStore) SearchedSubject(s store.ID) bool {
	for _, q := range c.Searches() {
		if q.S == s {
			return true
		}
	}
	return false
}

// UninitLogs puts the flowbase loggers back in their state before any
// flowbase.InitLog call, and restores them when t ends.
func UninitLogs(t testing.TB) {
	loggers := []**log.Logger{
		&flowbase.Trace, &flowbase.Debug, &flowbase.Info,
		&flowbase.Audit, &flowbase.Warning, &flowbase.Error,
	}
	saved := make([]*log.Logger, len(loggers))
	for i, l := range loggers {
		saved[i] = *l
		*l = nil
	}
	exists := flowbase.LogExists
	flowbase.LogExists = false
	t.Cleanup(func() {
		for i, l := range loggers {
			*l = saved[i]
		}
		flowbase.LogExists = exists
	})
}
