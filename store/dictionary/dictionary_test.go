package dictionary

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
	knows   = storetest.IRI(ex + "knows")
	name    = storetest.IRI(ex + "name")
)

func sample() []rdf.Triple {
	return []rdf.Triple{
		storetest.Triple(alice, rdfType, person),
		storetest.Triple(alice, knows, bob),
		storetest.Triple(bob, name, storetest.Literal("Bob")),
		storetest.Triple(alice, name, storetest.Literal("Alice")),
	}
}

func TestEncodeSections(t *testing.T) {
	ds := Encode(sample())
	d := ds.Dict

	// bob is subject and object; alice is subject only; Person and the
	// literals are objects only.
	assert.EqualValues(t, 1, d.NumShared())
	assert.EqualValues(t, 2, d.NumSubjects())
	assert.EqualValues(t, 4, d.NumObjects())
	assert.EqualValues(t, 3, d.NumPredicates())

	bobS := d.Locate(bob, store.RoleSubject)
	bobO := d.Locate(bob, store.RoleObject)
	assert.Equal(t, store.ID(1), bobS)
	assert.Equal(t, bobS, bobO, "shared terms have the same ID in both spaces")

	aliceS := d.Locate(alice, store.RoleSubject)
	assert.Greater(t, int64(aliceS), d.NumShared())
	assert.Equal(t, store.Wildcard, d.Locate(alice, store.RoleObject))

	personO := d.Locate(person, store.RoleObject)
	assert.Greater(t, int64(personO), d.NumShared())
	assert.Equal(t, store.Wildcard, d.Locate(person, store.RoleSubject))
}

func TestExtractRoundTrip(t *testing.T) {
	d := Encode(sample()).Dict
	for _, role := range []store.Role{store.RoleSubject, store.RolePredicate, store.RoleObject} {
		var n int64
		switch role {
		case store.RoleSubject:
			n = d.NumSubjects()
		case store.RolePredicate:
			n = d.NumPredicates()
		case store.RoleObject:
			n = d.NumObjects()
		}
		for id := store.ID(1); int64(id) <= n; id++ {
			term, err := d.Extract(id, role)
			require.NoError(t, err)
			assert.Equal(t, id, d.Locate(term, role), "%s %s", role, store.TermKey(term))
		}
		_, err := d.Extract(store.ID(n+1), role)
		assert.ErrorIs(t, err, store.ErrUnknownID)
		_, err = d.Extract(store.Wildcard, role)
		assert.ErrorIs(t, err, store.ErrUnknownID)
	}
}

func TestEncodeSortsAndDeduplicates(t *testing.T) {
	triples := append(sample(), storetest.Triple(alice, knows, bob))
	ds := Encode(triples)

	require.Len(t, ds.Triples, 4)
	for i := 1; i < len(ds.Triples); i++ {
		assert.True(t, ds.Triples[i-1].Less(ds.Triples[i]), "triples must be strictly SPO ordered")
	}
	assert.EqualValues(t, 4, ds.Stats().Triples)
}

func TestLocateMissing(t *testing.T) {
	d := Encode(sample()).Dict
	assert.Equal(t, store.Wildcard, d.Locate(storetest.IRI(ex+"nobody"), store.RoleSubject))
	assert.Equal(t, store.Wildcard, d.Locate(alice, store.RolePredicate))
	assert.Equal(t, store.Wildcard, d.Locate(nil, store.RoleObject))
}

func TestEncodeEmpty(t *testing.T) {
	ds := Encode(nil)
	assert.Empty(t, ds.Triples)
	assert.Equal(t, store.Stats{}, ds.Stats())
}
