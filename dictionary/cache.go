package dictionary

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the default number of keys and of IDs kept by
// Cached. The resolver asks for the same few thousand words over and over.
const DefaultCacheSize = 50_000

// Cached puts an LRU in front of another Dictionary. Results are copied on
// the way in and out, so callers may modify them.
type Cached struct {
	inner Dictionary
	byKey *lru.Cache[string, []Entry]
	byID  *lru.Cache[int, Entry]
}

// NewCached wraps inner. A non-positive size selects DefaultCacheSize.
func NewCached(inner Dictionary, size int) (*Cached, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	byKey, err := lru.New[string, []Entry](size)
	if err != nil {
		return nil, err
	}
	byID, err := lru.New[int, Entry](size)
	if err != nil {
		return nil, err
	}
	return &Cached{inner: inner, byKey: byKey, byID: byID}, nil
}

func cloneEntries(entries []Entry) []Entry {
	if entries == nil {
		return nil
	}
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = e.Clone()
	}
	return out
}

func (c *Cached) LookupByKey(ctx context.Context, key string) ([]Entry, error) {
	if entries, ok := c.byKey.Get(key); ok {
		return cloneEntries(entries), nil
	}
	entries, err := c.inner.LookupByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	c.byKey.Add(key, cloneEntries(entries))
	for _, e := range entries {
		c.byID.Add(e.ID, e.Clone())
	}
	return entries, nil
}

func (c *Cached) LookupByID(ctx context.Context, id int) (Entry, bool, error) {
	if e, ok := c.byID.Get(id); ok {
		return e.Clone(), true, nil
	}
	e, ok, err := c.inner.LookupByID(ctx, id)
	if err != nil || !ok {
		return Entry{}, false, err
	}
	c.byID.Add(id, e.Clone())
	return e, true, nil
}

// Purge drops every cached result.
func (c *Cached) Purge() {
	c.byKey.Purge()
	c.byID.Purge()
}

// Len returns the number of cached keys.
func (c *Cached) Len() int {
	return c.byKey.Len()
}
