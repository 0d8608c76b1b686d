package dictionary

import (
	"io"

	"github.com/rs/zerolog/log"
)

// NamePriority marks entries imported from JMnedict.
const NamePriority = "name"

type jmnTrans struct {
	NameType []string `xml:"name_type"`
	Detail   []string `xml:"trans_det"`
}

type jmnEntry struct {
	Seq     int         `xml:"ent_seq"`
	Kanji   []jmKanji   `xml:"k_ele"`
	Reading []jmReading `xml:"r_ele"`
	Trans   []jmnTrans  `xml:"trans"`
}

// ReadingSet collects every reading of entries.
func ReadingSet(entries []Entry) map[string]struct{} {
	set := make(map[string]struct{})
	for _, e := range entries {
		for _, r := range e.Readings {
			set[r] = struct{}{}
		}
	}
	return set
}

func convertName(je jmnEntry) Entry {
	e := Entry{ID: je.Seq}
	for _, k := range je.Kanji {
		if k.Keb == "" {
			continue
		}
		e.Readings = append(e.Readings, foldSmallWa(k.Keb))
		e.ReadingTypes = append(e.ReadingTypes, Graphemic)
		e.Priorities = addUnique(e.Priorities, k.Priority...)
	}
	kebs := append([]string(nil), e.Readings...)
	for _, r := range je.Reading {
		if r.Reb == "" || !appliesTo(r.Restriction, kebs) {
			continue
		}
		e.Priorities = addUnique(e.Priorities, r.Priority...)
		e.Readings = append(e.Readings, foldSmallWa(r.Reb))
		e.ReadingTypes = append(e.ReadingTypes, Phonetic)
	}
	for _, t := range je.Trans {
		if len(t.Detail) == 0 {
			continue
		}
		def := Definition{
			PartsOfSpeech: addUnique(nil, t.NameType...),
			Meanings:      map[string][]string{DefaultLanguage: append([]string(nil), t.Detail...)},
		}
		if len(def.PartsOfSpeech) == 0 {
			def.PartsOfSpeech = []string{NamePriority}
		}
		e.Definitions = append(e.Definitions, def)
	}
	return e
}

// mergeName folds src into dst: new readings, all definitions and any
// missing priorities.
func mergeName(dst *Entry, src Entry) {
	for i, r := range src.Readings {
		if !contains(dst.Readings, r) {
			dst.Readings = append(dst.Readings, r)
			dst.ReadingTypes = append(dst.ReadingTypes, src.ReadingTypes[i])
		}
	}
	dst.Definitions = append(dst.Definitions, src.Definitions...)
	dst.Priorities = addUnique(dst.Priorities, src.Priorities...)
}

// LoadJMnedict decodes the JMnedict name dictionary. A name sharing any
// reading with known (usually the JMdict readings) is skipped, so common
// words keep priority over names. Names with the same first reading are
// merged into one entry, and every entry gets the NamePriority tag.
func LoadJMnedict(r io.Reader, known map[string]struct{}) ([]Entry, error) {
	var (
		entries []Entry
		byKey   = make(map[string]int)
		skipped int
	)
	err := decodeEntries(r, "JMnedict", func(je jmnEntry) bool {
		e := convertName(je)
		if len(e.Readings) == 0 {
			return true
		}
		for _, rd := range e.Readings {
			if _, ok := known[rd]; ok {
				skipped++
				return true
			}
		}
		key := e.Readings[0]
		if i, ok := byKey[key]; ok {
			mergeName(&entries[i], e)
			return true
		}
		byKey[key] = len(entries)
		entries = append(entries, e)
		return true
	})
	if err != nil {
		return nil, err
	}
	for i := range entries {
		e := &entries[i]
		e.Priorities = addUnique(e.Priorities, NamePriority)
		Finalize(e)
	}
	log.Info().
		Int("entries", len(entries)).
		Int("skipped", skipped).
		Msg("[dictionary.LoadJMnedict] JMnedict loaded")
	return entries, nil
}

// OpenJMnedictFile memory-maps a JMnedict XML file and loads it.
func OpenJMnedictFile(path string, known map[string]struct{}) ([]Entry, error) {
	return mapFile(path, "JMnedict", func(r io.Reader) ([]Entry, error) {
		return LoadJMnedict(r, known)
	})
}
