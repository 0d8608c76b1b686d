package dictionary

import (
	"context"
	"sync"
)

// MemStore keeps the whole dictionary in maps. It is safe for concurrent
// use.
type MemStore struct {
	mu    sync.RWMutex
	byID  map[int]Entry
	byKey map[string][]int
}

func NewMemStore(entries ...Entry) *MemStore {
	m := &MemStore{
		byID:  make(map[int]Entry),
		byKey: make(map[string][]int),
	}
	m.add(entries)
	return m
}

// Import adds entries, replacing stored entries with the same ID.
func (m *MemStore) Import(ctx context.Context, entries []Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.add(entries)
	return nil
}

func (m *MemStore) add(entries []Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range entries {
		if old, ok := m.byID[e.ID]; ok {
			m.unindex(old)
		}
		m.byID[e.ID] = e.Clone()
		for _, k := range EntryKeys(e) {
			m.byKey[k] = append(m.byKey[k], e.ID)
		}
	}
}

func (m *MemStore) unindex(e Entry) {
	for _, k := range EntryKeys(e) {
		ids := m.byKey[k]
		out := ids[:0]
		for _, id := range ids {
			if id != e.ID {
				out = append(out, id)
			}
		}
		if len(out) == 0 {
			delete(m.byKey, k)
		} else {
			m.byKey[k] = out
		}
	}
}

func (m *MemStore) LookupByKey(ctx context.Context, key string) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := m.byKey[key]
	if len(ids) == 0 {
		return nil, nil
	}
	out := make([]Entry, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.byID[id].Clone())
	}
	return out, nil
}

func (m *MemStore) LookupByID(ctx context.Context, id int) (Entry, bool, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.byID[id]
	if !ok {
		return Entry{}, false, nil
	}
	return e.Clone(), true, nil
}

// Len returns the number of entries stored.
func (m *MemStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byID)
}
