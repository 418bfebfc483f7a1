package session

import (
	"sync"

	"github.com/pixil98/go-lobby/internal/platform"
)

// Map is a per-entity map that is safe for concurrent use. Every hub subsystem keeps its
// per-entity state in its own Map so join, leave and tick paths never share a lock.
type Map[V any] struct {
	mu      sync.RWMutex
	entries map[platform.EntityId]V
}

// NewMap returns an empty Map.
func NewMap[V any]() *Map[V] {
	return &Map[V]{entries: make(map[platform.EntityId]V)}
}

// Get returns the value stored for id.
func (m *Map[V]) Get(id platform.EntityId) (V, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.entries[id]
	return v, ok
}

// Set stores v for id, replacing any previous value.
func (m *Map[V]) Set(id platform.EntityId, v V) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[id] = v
}

// LoadOrStore returns the existing value for id if present. Otherwise it stores v and
// returns it with loaded=false.
func (m *Map[V]) LoadOrStore(id platform.EntityId, v V) (actual V, loaded bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if cur, ok := m.entries[id]; ok {
		return cur, true
	}
	m.entries[id] = v
	return v, false
}

// Delete removes id and returns the value it held.
func (m *Map[V]) Delete(id platform.EntityId) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.entries[id]
	if ok {
		delete(m.entries, id)
	}
	return v, ok
}

// DeleteIf removes id only when pred reports true for its current value.
func (m *Map[V]) DeleteIf(id platform.EntityId, pred func(V) bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.entries[id]
	if !ok || !pred(v) {
		return false
	}
	delete(m.entries, id)
	return true
}

// Compute replaces the value for id with fn(current, present) while holding the write
// lock. Returning keep=false deletes the entry.
func (m *Map[V]) Compute(id platform.EntityId, fn func(cur V, ok bool) (next V, keep bool)) V {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, ok := m.entries[id]
	next, keep := fn(cur, ok)
	if keep {
		m.entries[id] = next
	} else {
		delete(m.entries, id)
	}
	return next
}

// Keys returns a snapshot of the stored ids.
func (m *Map[V]) Keys() []platform.EntityId {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]platform.EntityId, 0, len(m.entries))
	for id := range m.entries {
		ids = append(ids, id)
	}
	return ids
}

// Snapshot returns a copy of the map contents.
func (m *Map[V]) Snapshot() map[platform.EntityId]V {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[platform.EntityId]V, len(m.entries))
	for id, v := range m.entries {
		out[id] = v
	}
	return out
}

// Len returns the number of entries.
func (m *Map[V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.entries)
}

// Clear removes every entry and returns what was stored.
func (m *Map[V]) Clear() map[platform.EntityId]V {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := m.entries
	m.entries = make(map[platform.EntityId]V)
	return out
}
