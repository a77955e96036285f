package store

// SliceIterator iterates the triples of a slice that match a pattern.
type SliceIterator struct {
	triples []Triple
	s, p, o ID
	pos     int
	cur     Triple
}

// NewSliceIterator returns an iterator over the triples matching (s, p, o).
// The slice is not copied.
func NewSliceIterator(triples []Triple, s, p, o ID) *SliceIterator {
	return &SliceIterator{triples: triples, s: s, p: p, o: o}
}

// Empty returns an iterator without triples.
func Empty() Iterator {
	return &SliceIterator{}
}

func (it *SliceIterator) Next() bool {
	for it.pos < len(it.triples) {
		t := it.triples[it.pos]
		it.pos++
		if t.Matches(it.s, it.p, it.o) {
			it.cur = t
			return true
		}
	}
	return false
}

func (it *SliceIterator) Triple() Triple { return it.cur }

func (it *SliceIterator) Err() error { return nil }

func (it *SliceIterator) Close() error {
	it.triples = nil
	return nil
}

// Count returns the number of triples in the slice matching (s, p, o).
func Count(triples []Triple, s, p, o ID) int64 {
	var n int64
	for _, t := range triples {
		if t.Matches(s, p, o) {
			n++
		}
	}
	return n
}
