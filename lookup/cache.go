package lookup

import (
	"context"
	"sync"

	"jplemma/model"
)

// CacheKey identifies a resolution: the same surface with the same POS
// guess and declared dictionary form always resolves the same way.
type CacheKey struct {
	Text           string
	POS            model.PartOfSpeech
	DictionaryForm string
}

func KeyOf(tok model.Token) CacheKey {
	return CacheKey{Text: tok.Text, POS: tok.POS, DictionaryForm: tok.DictionaryForm}
}

func (k CacheKey) String() string {
	return k.Text + "|" + k.POS.String() + "|" + k.DictionaryForm
}

// WordCache stores successful resolutions. Implementations must be safe
// for concurrent use and must hand out copies.
type WordCache interface {
	Get(ctx context.Context, key CacheKey) (model.ResolvedWord, bool)
	Set(ctx context.Context, key CacheKey, w model.ResolvedWord)
	Clear(ctx context.Context) error
}

// MemoryCache is an unbounded in-process WordCache.
type MemoryCache struct {
	mu    sync.RWMutex
	words map[CacheKey]model.ResolvedWord
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{words: make(map[CacheKey]model.ResolvedWord)}
}

func (c *MemoryCache) Get(ctx context.Context, key CacheKey) (model.ResolvedWord, bool) {
	c.mu.RLock()
	w, ok := c.words[key]
	c.mu.RUnlock()
	if !ok {
		return model.ResolvedWord{}, false
	}
	return w.Clone(), true
}

func (c *MemoryCache) Set(ctx context.Context, key CacheKey, w model.ResolvedWord) {
	c.mu.Lock()
	c.words[key] = w.Clone()
	c.mu.Unlock()
}

func (c *MemoryCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	c.words = make(map[CacheKey]model.ResolvedWord)
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.words)
}
