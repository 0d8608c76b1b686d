// Package ingest turns submitted text into documents ready for analysis.
package ingest

import (
	"crypto/rand"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ErrEmptyDocument is returned for text that is blank after trimming.
var ErrEmptyDocument = errors.New("empty document")

// Document is a piece of Japanese text submitted for analysis.
type Document struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// newID returns a ULID; IDs created within one process sort by creation.
func newID(t time.Time) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// NewDocument trims text and wraps it in a Document with a fresh ID.
func NewDocument(text string) (Document, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Document{}, ErrEmptyDocument
	}
	now := time.Now().UTC()
	return Document{
		ID:        newID(now),
		Text:      trimmed,
		CreatedAt: now,
	}, nil
}
