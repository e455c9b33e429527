package fakeapi

import (
	"sort"
	"sync"
	"time"

	"github.com/thepivo/pivoadmin/internal/common/uuid"
)

// table is an in-memory collection keyed by service-assigned ids. Records are
// copied in and out, so callers never share a record with the table.
type table[T any] struct {
	mu      sync.RWMutex
	items   map[string]T
	created map[string]time.Time
	id      func(*T) *string
}

func newTable[T any](id func(*T) *string) *table[T] {
	return &table[T]{
		items:   make(map[string]T),
		created: make(map[string]time.Time),
		id:      id,
	}
}

func (t *table[T]) insert(item T) T {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := uuid.NewString()
	*t.id(&item) = id
	t.items[id] = item
	t.created[id] = time.Now()
	return item
}

func (t *table[T]) get(id string) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	item, ok := t.items[id]
	return item, ok
}

// update applies fn to a copy of the record and stores the copy when fn succeeds.
func (t *table[T]) update(id string, fn func(*T) error) (T, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	item, ok := t.items[id]
	if !ok {
		return item, false, nil
	}
	if err := fn(&item); err != nil {
		return item, true, err
	}
	*t.id(&item) = id
	t.items[id] = item
	return item, true, nil
}

func (t *table[T]) remove(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.items[id]; !ok {
		return false
	}
	delete(t.items, id)
	delete(t.created, id)
	return true
}

// find returns the first record matching fn.
func (t *table[T]) find(fn func(*T) bool) (T, bool) {
	items := t.list(fn)
	if len(items) == 0 {
		var zero T
		return zero, false
	}
	return items[0], true
}

// list returns the records matching fn in insertion order. A nil fn matches all.
func (t *table[T]) list(fn func(*T) bool) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	ids := make([]string, 0, len(t.items))
	for id := range t.items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		ci, cj := t.created[ids[i]], t.created[ids[j]]
		if ci.Equal(cj) {
			return ids[i] < ids[j]
		}
		return ci.Before(cj)
	})
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		item := t.items[id]
		if fn == nil || fn(&item) {
			out = append(out, item)
		}
	}
	return out
}
