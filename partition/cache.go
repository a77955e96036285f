package partition

import "github.com/rdfio/rdf2void/store"

// subjectCache remembers the classes of the most recently resolved subject.
// A single slot is enough because full scans return the triples of one
// subject contiguously.
type subjectCache struct {
	id      store.ID
	classes []Resource
}

func (c *subjectCache) get(id store.ID) ([]Resource, bool) {
	if id == store.Wildcard || id != c.id {
		return nil, false
	}
	return c.classes, true
}

func (c *subjectCache) put(id store.ID, classes []Resource) {
	c.id = id
	c.classes = classes
}

// objectCache memoizes the target classes of objects. When it reaches its
// capacity it is emptied as a whole before the next insert, never one entry
// at a time.
type objectCache struct {
	capacity int
	entries  map[store.ID][]TargetClass
	clears   int64
}

func newObjectCache(capacity int) *objectCache {
	c := &objectCache{capacity: max(capacity, 0)}
	c.entries = make(map[store.ID][]TargetClass, c.initialSize())
	return c
}

func (c *objectCache) initialSize() int {
	return min(c.capacity, 1<<16)
}

func (c *objectCache) get(id store.ID) ([]TargetClass, bool) {
	t, ok := c.entries[id]
	return t, ok
}

// put stores the targets of id and reports whether the cache was cleared to
// make room. A zero capacity disables caching.
func (c *objectCache) put(id store.ID, targets []TargetClass) (cleared bool) {
	if c.capacity == 0 {
		return false
	}
	if len(c.entries) >= c.capacity {
		c.entries = make(map[store.ID][]TargetClass, c.initialSize())
		c.clears++
		cleared = true
	}
	c.entries[id] = targets
	return cleared
}

func (c *objectCache) len() int { return len(c.entries) }
