package memstore

import (
	"testing"

	"github.com/knakk/rdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rdfio/rdf2void/store"
	"github.com/rdfio/rdf2void/store/storetest"
)

const ex = "http://example.org/"

var (
	rdfType = storetest.IRI("http://www.w3.org/1999/02/22-rdf-syntax-ns#type")
	person  = storetest.IRI(ex + "Person")
	alice   = storetest.IRI(ex + "alice")
	bob     = storetest.IRI(ex + "bob")
	carol   = storetest.IRI(ex + "carol")
	knows   = storetest.IRI(ex + "knows")
	name    = storetest.IRI(ex + "name")
)

func newStore() *Store {
	return FromTriples([]rdf.Triple{
		storetest.Triple(alice, rdfType, person),
		storetest.Triple(alice, knows, bob),
		storetest.Triple(alice, name, storetest.Literal("Alice")),
		storetest.Triple(bob, rdfType, person),
		storetest.Triple(bob, knows, carol),
		storetest.Triple(carol, name, storetest.Literal("Carol")),
	})
}

func collect(t *testing.T, st store.Store, s, p, o store.ID) ([]store.Triple, int64) {
	t.Helper()
	it, n, err := st.Search(s, p, o)
	require.NoError(t, err)
	defer it.Close()
	var out []store.Triple
	for it.Next() {
		out = append(out, it.Triple())
	}
	require.NoError(t, it.Err())
	return out, n
}

func id(t *testing.T, st store.Store, term rdf.Term, role store.Role) store.ID {
	t.Helper()
	v, err := st.TermToID(term, role)
	require.NoError(t, err)
	require.NotEqual(t, store.Wildcard, v)
	return v
}

func TestFullScanIsSubjectContiguous(t *testing.T) {
	st := newStore()
	all, n := collect(t, st, 0, 0, 0)
	require.Len(t, all, 6)
	assert.EqualValues(t, 6, n)

	seen := map[store.ID]bool{}
	for i, tr := range all {
		if i > 0 && all[i-1].S != tr.S {
			assert.False(t, seen[tr.S], "subject %d appears in two runs", tr.S)
		}
		seen[tr.S] = true
	}
}

func TestSearchPatterns(t *testing.T) {
	st := newStore()
	typeP := id(t, st, rdfType, store.RolePredicate)
	personO := id(t, st, person, store.RoleObject)
	aliceS := id(t, st, alice, store.RoleSubject)

	types, n := collect(t, st, 0, typeP, 0)
	assert.Len(t, types, 2)
	assert.EqualValues(t, 2, n)
	for _, tr := range types {
		assert.Equal(t, personO, tr.O)
	}

	aliceTypes, n := collect(t, st, aliceS, typeP, 0)
	require.Len(t, aliceTypes, 1)
	assert.EqualValues(t, 1, n)
	assert.Equal(t, personO, aliceTypes[0].O)

	aliceAll, n := collect(t, st, aliceS, 0, 0)
	assert.Len(t, aliceAll, 3)
	assert.EqualValues(t, 3, n)

	byObject, n := collect(t, st, 0, 0, personO)
	assert.Len(t, byObject, 2)
	assert.EqualValues(t, 2, n)
}

func TestSearchUnknownIDsIsEmpty(t *testing.T) {
	st := newStore()
	out, n := collect(t, st, 999, 0, 0)
	assert.Empty(t, out)
	assert.Zero(t, n)

	out, n = collect(t, st, 0, 999, 0)
	assert.Empty(t, out)
	assert.Zero(t, n)
}

func TestStatsAndShared(t *testing.T) {
	st := newStore()
	stats := st.Stats()
	assert.EqualValues(t, 6, stats.Triples)
	assert.EqualValues(t, 3, stats.Subjects)
	assert.EqualValues(t, 3, stats.Predicates)
	// bob, carol shared; Person and two literals object-only.
	assert.EqualValues(t, 2, stats.Shared)
	assert.EqualValues(t, 5, stats.Objects)

	lit := id(t, st, storetest.Literal("Alice"), store.RoleObject)
	assert.Greater(t, int64(lit), stats.Shared)
}

func TestIDToTerm(t *testing.T) {
	st := newStore()
	bobS := id(t, st, bob, store.RoleSubject)
	term, err := st.IDToTerm(bobS, store.RoleObject)
	require.NoError(t, err)
	assert.Equal(t, bob.String(), term.String())

	_, err = st.IDToTerm(100, store.RolePredicate)
	assert.ErrorIs(t, err, store.ErrUnknownID)
}

func TestEmptyStore(t *testing.T) {
	st := FromTriples(nil)
	out, n := collect(t, st, 0, 0, 0)
	assert.Empty(t, out)
	assert.Zero(t, n)
	assert.Equal(t, store.Stats{}, st.Stats())
}
