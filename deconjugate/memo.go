package deconjugate

import (
	"sync"
	"unicode/utf8"
)

const (
	DefaultMemoMaxTextLen = 20
	DefaultMemoMaxResults = 55
	DefaultMemoMaxEntries = 250000
)

// Memo stores deconjugation results of short inputs. Entries are never
// evicted; once full, new results are simply not stored.
type Memo struct {
	mu         sync.RWMutex
	entries    map[string][]Form
	maxTextLen int
	maxResults int
	maxEntries int
}

// NewMemo creates a memo with the default limits. Non-positive arguments
// keep their defaults.
func NewMemo(maxEntries int) *Memo {
	if maxEntries <= 0 {
		maxEntries = DefaultMemoMaxEntries
	}
	return &Memo{
		entries:    make(map[string][]Form),
		maxTextLen: DefaultMemoMaxTextLen,
		maxResults: DefaultMemoMaxResults,
		maxEntries: maxEntries,
	}
}

func cloneForms(forms []Form) []Form {
	out := make([]Form, len(forms))
	for i, f := range forms {
		out[i] = f.clone()
	}
	return out
}

// Get returns a copy of the stored result for text.
func (m *Memo) Get(text string) ([]Form, bool) {
	m.mu.RLock()
	forms, ok := m.entries[text]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return cloneForms(forms), true
}

// Put stores forms for text when the input, the result and the table are
// within their limits.
func (m *Memo) Put(text string, forms []Form) {
	if utf8.RuneCountInString(text) > m.maxTextLen || len(forms) >= m.maxResults {
		return
	}
	stored := cloneForms(forms)
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.entries) >= m.maxEntries {
		return
	}
	m.entries[text] = stored
}

// Len returns the number of stored results.
func (m *Memo) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Clear drops every stored result.
func (m *Memo) Clear() {
	m.mu.Lock()
	m.entries = make(map[string][]Form)
	m.mu.Unlock()
}
