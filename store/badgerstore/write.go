package badgerstore

import (
	"context"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/flowbase/flowbase"

	"github.com/rdfio/rdf2void/store"
	"github.com/rdfio/rdf2void/store/dictionary"
)

// Write persists ds into db. The database is expected to be empty; writing
// a second dataset into the same database mixes both dictionaries.
func Write(ctx context.Context, db *badger.DB, ds *dictionary.Dataset) error {
	if !flowbase.LogExists {
		flowbase.InitLogWarning()
	}
	wb := db.NewWriteBatch()
	defer wb.Cancel()

	sections := []struct {
		role    store.Role
		entries []dictionary.Section
	}{
		{store.RoleSubject, []dictionary.Section{ds.Dict.Shared, ds.Dict.Subjects}},
		{store.RoleObject, []dictionary.Section{ds.Dict.Shared, ds.Dict.Objects}},
		{store.RolePredicate, []dictionary.Section{ds.Dict.Predicates}},
	}
	for _, sec := range sections {
		id := store.ID(0)
		for _, entries := range sec.entries {
			for _, e := range entries {
				id++
				enc, err := encodeTerm(e.Term)
				if err != nil {
					return fmt.Errorf("encode %s %s: %w", sec.role, e.Key, err)
				}
				if err := wb.Set(termToIDKey(sec.role, e.Key), appendID(nil, id)); err != nil {
					return err
				}
				if err := wb.Set(idToTermKey(sec.role, id), enc); err != nil {
					return err
				}
			}
		}
		flowbase.Debug.Printf("Wrote %d %s terms\n", id, sec.role)
	}

	predCount := make(map[store.ID]int64)
	for i, t := range ds.Triples {
		if i%65536 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if err := wb.Set(spoKey(t), nil); err != nil {
			return err
		}
		if err := wb.Set(psoKey(t), nil); err != nil {
			return err
		}
		predCount[t.P]++
	}
	for p, n := range predCount {
		if err := wb.Set(predCountKey(p), appendID(nil, store.ID(n))); err != nil {
			return err
		}
	}
	if err := writeSubjectCounts(wb, ds.Triples); err != nil {
		return err
	}
	if err := wb.Set([]byte{prefixStats}, encodeStats(ds.Stats())); err != nil {
		return err
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("flush store: %w", err)
	}
	flowbase.Debug.Printf("Wrote %d triples\n", len(ds.Triples))
	return nil
}

// writeSubjectCounts stores the number of triples per subject and per
// subject and predicate. triples are in SPO order.
func writeSubjectCounts(wb *badger.WriteBatch, triples []store.Triple) error {
	for i := 0; i < len(triples); {
		s := triples[i].S
		j := i
		for j < len(triples) && triples[j].S == s {
			p := triples[j].P
			k := j
			for k < len(triples) && triples[k].S == s && triples[k].P == p {
				k++
			}
			if err := wb.Set(subjCountKey(s, p), appendID(nil, store.ID(k-j))); err != nil {
				return err
			}
			j = k
		}
		if err := wb.Set(subjCountKey(s, store.Wildcard), appendID(nil, store.ID(j-i))); err != nil {
			return err
		}
		i = j
	}
	return nil
}
