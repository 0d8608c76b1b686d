// Package dictionary holds the lemma dictionary: the entry type, the
// lookup interface used by the resolver and its backends.
package dictionary

import (
	"context"
	"errors"
	"sort"

	"jplemma/kana"
	"jplemma/model"
)

// ErrResourceMissing reports a dictionary file or database that cannot be
// opened. It is a startup failure, unlike a lookup miss.
var ErrResourceMissing = errors.New("dictionary resource missing")

// ReadingType tells how a reading is written.
type ReadingType int

const (
	// Graphemic readings contain kanji (JMdict keb).
	Graphemic ReadingType = iota
	// Phonetic readings are kana only (JMdict reb).
	Phonetic
	// Obsolete readings are kept apart from the indexed ones.
	Obsolete
)

func (t ReadingType) String() string {
	switch t {
	case Graphemic:
		return "graphemic"
	case Phonetic:
		return "phonetic"
	case Obsolete:
		return "obsolete"
	}
	return "unknown"
}

// DefaultLanguage is the gloss language assumed when none is declared.
const DefaultLanguage = "eng"

// Definition is one sense of an entry. Meanings are keyed by ISO 639-2
// language code.
type Definition struct {
	PartsOfSpeech []string            `json:"parts_of_speech,omitempty"`
	Meanings      map[string][]string `json:"meanings,omitempty"`
}

// Entry is a dictionary word. Readings and ReadingTypes are parallel, and
// so is ReadingsFurigana once the entry is finalized.
type Entry struct {
	ID               int           `json:"id"`
	Readings         []string      `json:"readings"`
	ReadingTypes     []ReadingType `json:"reading_types"`
	ObsoleteReadings []string      `json:"obsolete_readings,omitempty"`
	ReadingsFurigana []string      `json:"readings_furigana,omitempty"`
	PartsOfSpeech    []string      `json:"parts_of_speech,omitempty"`
	Definitions      []Definition  `json:"definitions,omitempty"`
	Priorities       []string      `json:"priorities,omitempty"`
	PitchAccents     []int         `json:"pitch_accents,omitempty"`
	Origin           model.Origin  `json:"origin"`
}

// HasPOS reports whether code is among the entry's POS codes.
func (e Entry) HasPOS(code string) bool {
	for _, p := range e.PartsOfSpeech {
		if p == code {
			return true
		}
	}
	return false
}

// HasPriority reports whether tag is among the entry's priority tags.
func (e Entry) HasPriority(tag string) bool {
	for _, p := range e.Priorities {
		if p == tag {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of e.
func (e Entry) Clone() Entry {
	out := e
	out.Readings = cloneStrings(e.Readings)
	out.ReadingTypes = append([]ReadingType(nil), e.ReadingTypes...)
	out.ObsoleteReadings = cloneStrings(e.ObsoleteReadings)
	out.ReadingsFurigana = cloneStrings(e.ReadingsFurigana)
	out.PartsOfSpeech = cloneStrings(e.PartsOfSpeech)
	out.Priorities = cloneStrings(e.Priorities)
	out.PitchAccents = append([]int(nil), e.PitchAccents...)
	if e.Definitions != nil {
		out.Definitions = make([]Definition, len(e.Definitions))
		for i, d := range e.Definitions {
			nd := Definition{PartsOfSpeech: cloneStrings(d.PartsOfSpeech)}
			if d.Meanings != nil {
				nd.Meanings = make(map[string][]string, len(d.Meanings))
				for lang, m := range d.Meanings {
					nd.Meanings[lang] = cloneStrings(m)
				}
			}
			out.Definitions[i] = nd
		}
	}
	return out
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}

// Dictionary is the lookup service the resolver depends on. A miss is an
// empty result, never an error.
type Dictionary interface {
	LookupByKey(ctx context.Context, key string) ([]Entry, error)
	LookupByID(ctx context.Context, id int) (Entry, bool, error)
}

// Importer stores entries, replacing any with the same ID.
type Importer interface {
	Import(ctx context.Context, entries []Entry) error
}

// LookupKeys returns the index keys of a reading: its hiragana form, the
// same with long vowel marks spelled out and the reading as written when
// that differs (katakana).
func LookupKeys(reading string) []string {
	keys := make([]string, 0, 3)
	add := func(k string) {
		if k == "" {
			return
		}
		for _, existing := range keys {
			if existing == k {
				return
			}
		}
		keys = append(keys, k)
	}
	add(kana.ToHiragana(reading))
	add(kana.ToHiraganaLongVowels(reading))
	add(reading)
	return keys
}

// EntryKeys returns the lookup keys of every reading of e, deduplicated
// in reading order.
func EntryKeys(e Entry) []string {
	var keys []string
	seen := make(map[string]struct{})
	for _, r := range e.Readings {
		for _, k := range LookupKeys(r) {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
	}
	return keys
}

// Finalize fills the derived fields of e: the entry POS set is the sorted
// union of its definitions' POS and missing furigana default to the
// reading itself.
func Finalize(e *Entry) {
	set := make(map[string]struct{})
	for _, d := range e.Definitions {
		for _, p := range d.PartsOfSpeech {
			set[p] = struct{}{}
		}
	}
	for _, p := range e.PartsOfSpeech {
		set[p] = struct{}{}
	}
	pos := make([]string, 0, len(set))
	for p := range set {
		pos = append(pos, p)
	}
	sort.Strings(pos)
	if len(pos) == 0 {
		pos = nil
	}
	e.PartsOfSpeech = pos

	for len(e.ReadingsFurigana) < len(e.Readings) {
		e.ReadingsFurigana = append(e.ReadingsFurigana, e.Readings[len(e.ReadingsFurigana)])
	}
	for len(e.ReadingTypes) < len(e.Readings) {
		e.ReadingTypes = append(e.ReadingTypes, Phonetic)
	}
}

// CustomEntries returns words missing from JMdict that the tokenizer
// emits as single units. Their IDs start at 8000000.
func CustomEntries() []Entry {
	entries := []Entry{
		{
			ID:           8000000,
			Readings:     []string{"でした"},
			ReadingTypes: []ReadingType{Phonetic},
			Definitions: []Definition{{
				PartsOfSpeech: []string{"exp"},
				Meanings:      map[string][]string{DefaultLanguage: {"was, were"}},
			}},
		},
		{
			ID:           8000001,
			Readings:     []string{"ですか"},
			ReadingTypes: []ReadingType{Phonetic},
			Definitions: []Definition{{
				PartsOfSpeech: []string{"exp"},
				Meanings:      map[string][]string{DefaultLanguage: {"is it?"}},
			}},
		},
		{
			ID:           8000002,
			Readings:     []string{"だった"},
			ReadingTypes: []ReadingType{Phonetic},
			Definitions: []Definition{{
				PartsOfSpeech: []string{"exp"},
				Meanings:      map[string][]string{DefaultLanguage: {"was, were (plain)"}},
			}},
		},
	}
	for i := range entries {
		Finalize(&entries[i])
	}
	return entries
}
