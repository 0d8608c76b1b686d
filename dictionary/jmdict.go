package dictionary

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"jplemma/kana"
	"jplemma/kanji"
	"jplemma/model"

	"github.com/edsrzf/mmap-go"
	"github.com/rs/zerolog/log"
)

type jmKanji struct {
	Keb      string   `xml:"keb"`
	Priority []string `xml:"ke_pri"`
}

type jmReading struct {
	Reb         string    `xml:"reb"`
	NoKanji     *struct{} `xml:"re_nokanji"`
	Restriction []string  `xml:"re_restr"`
	Info        []string  `xml:"re_inf"`
	Priority    []string  `xml:"re_pri"`
}

type jmGloss struct {
	Lang string `xml:"lang,attr"`
	Text string `xml:",chardata"`
}

type jmSense struct {
	StagK   []string  `xml:"stagk"`
	StagR   []string  `xml:"stagr"`
	POS     []string  `xml:"pos"`
	Misc    []string  `xml:"misc"`
	LSource []string  `xml:"lsource"`
	Gloss   []jmGloss `xml:"gloss"`
}

type jmEntry struct {
	Seq     int         `xml:"ent_seq"`
	Kanji   []jmKanji   `xml:"k_ele"`
	Reading []jmReading `xml:"r_ele"`
	Sense   []jmSense   `xml:"sense"`
}

// jitenPriorityIDs are common words whose default reading is the wrong one
// for running text (秋, 陽 and similar). They get the "jiten" priority.
var jitenPriorityIDs = []int{
	1332650, 2848543, 1160790, 1203260, 1397260, 1499720, 1315130, 1191730,
	2844190, 2207630, 1442490, 1423310, 1502390, 1343100, 1610040, 2059630,
	1495580, 1288850, 1392580, 1511350, 1648450, 1534790, 2105530, 1223615,
	1421850, 1020650, 1310640, 1495770, 1375610, 1605840, 1334590, 1609980,
	1579260, 1351580, 2820490, 1983760,
}

// naParticleID is な, which JMdict lacks as the na-adjective particle.
const naParticleID = 2029110

var entityDecl = regexp.MustCompile(`<!ENTITY\s+([A-Za-z0-9_-]+)\s+"[^"]*"\s*>`)

type jmdictConfig struct {
	kanji      *kanji.Store
	jitenIDs   []int
	languages  map[string]bool
	maxEntries int
}

// JMdictOption configures LoadJMdict.
type JMdictOption func(*jmdictConfig)

// WithKanjiStore enables furigana alignment of graphemic readings.
func WithKanjiStore(s *kanji.Store) JMdictOption {
	return func(c *jmdictConfig) {
		c.kanji = s
	}
}

// WithLanguages keeps only glosses in the listed languages.
func WithLanguages(langs ...string) JMdictOption {
	return func(c *jmdictConfig) {
		c.languages = make(map[string]bool, len(langs))
		for _, l := range langs {
			c.languages[l] = true
		}
	}
}

// WithMaxEntries stops the import after n entries. Zero means no limit.
func WithMaxEntries(n int) JMdictOption {
	return func(c *jmdictConfig) {
		c.maxEntries = n
	}
}

// entityCode returns the entity name of a JMdict code. Declared entities
// are already replaced by their names; an undeclared one survives as
// "&name;" in non-strict mode.
func entityCode(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "&") && strings.HasSuffix(s, ";") {
		return s[1 : len(s)-1]
	}
	return s
}

// decodeEntries streams the <entry> elements of a JMdict-family file into
// fn, which returns false to stop early. Entity references such as &v1;
// are kept as their codes ("v1") instead of the expanded description.
func decodeEntries[T any](r io.Reader, what string, fn func(T) bool) error {
	d := xml.NewDecoder(r)
	d.Strict = false
	d.Entity = make(map[string]string)
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("parse %s: %w", what, err)
		}
		switch t := tok.(type) {
		case xml.Directive:
			for _, m := range entityDecl.FindAllSubmatch(t, -1) {
				name := string(m[1])
				d.Entity[name] = name
			}
		case xml.StartElement:
			if t.Name.Local != "entry" {
				continue
			}
			var e T
			if err := d.DecodeElement(&e, &t); err != nil {
				var syntaxErr *xml.SyntaxError
				if errors.As(err, &syntaxErr) {
					return fmt.Errorf("parse %s: %w", what, err)
				}
				log.Warn().Err(err).Str("source", what).Msg("[dictionary.decodeEntries] skipping undecodable entry")
				continue
			}
			if !fn(e) {
				return nil
			}
		}
	}
}

// LoadJMdict decodes JMdict XML one <entry> at a time.
func LoadJMdict(r io.Reader, opts ...JMdictOption) ([]Entry, error) {
	cfg := jmdictConfig{jitenIDs: jitenPriorityIDs}
	for _, opt := range opts {
		opt(&cfg)
	}
	var entries []Entry
	err := decodeEntries(r, "JMdict", func(je jmEntry) bool {
		entries = append(entries, cfg.convert(je))
		return cfg.maxEntries <= 0 || len(entries) < cfg.maxEntries
	})
	if err != nil {
		return nil, err
	}
	return cfg.finish(entries), nil
}

func (cfg *jmdictConfig) finish(entries []Entry) []Entry {
	jiten := make(map[int]bool, len(cfg.jitenIDs))
	for _, id := range cfg.jitenIDs {
		jiten[id] = true
	}
	for i := range entries {
		e := &entries[i]
		if jiten[e.ID] && !e.HasPriority("jiten") {
			e.Priorities = append(e.Priorities, "jiten")
		}
		if e.ID == naParticleID {
			e.Definitions = append(e.Definitions, Definition{
				PartsOfSpeech: []string{"prt"},
				Meanings:      map[string][]string{DefaultLanguage: {"indicates na-adjective"}},
			})
		}
		Finalize(e)
	}
	log.Info().Int("entries", len(entries)).Msg("[dictionary.LoadJMdict] JMdict loaded")
	return entries
}

func foldSmallWa(s string) string {
	return strings.NewReplacer("ゎ", "わ", "ヮ", "わ").Replace(s)
}

func addUnique(list []string, items ...string) []string {
	for _, it := range items {
		it = entityCode(it)
		if it == "" {
			continue
		}
		dup := false
		for _, l := range list {
			if l == it {
				dup = true
				break
			}
		}
		if !dup {
			list = append(list, it)
		}
	}
	return list
}

func (cfg *jmdictConfig) convert(je jmEntry) Entry {
	e := Entry{ID: je.Seq}
	for _, k := range je.Kanji {
		if k.Keb == "" {
			continue
		}
		e.Readings = append(e.Readings, k.Keb)
		e.ReadingTypes = append(e.ReadingTypes, Graphemic)
		e.Priorities = addUnique(e.Priorities, k.Priority...)
	}
	kebs := append([]string(nil), e.Readings...)

	// kana reading usable as furigana for each keb
	furiganaReading := make(map[string]string)
	for _, r := range je.Reading {
		if r.Reb == "" {
			continue
		}
		e.Priorities = addUnique(e.Priorities, r.Priority...)
		if !appliesTo(r.Restriction, kebs) {
			continue
		}
		if isObsolete(r.Info) {
			e.ObsoleteReadings = append(e.ObsoleteReadings, foldSmallWa(r.Reb))
			continue
		}
		e.Readings = append(e.Readings, foldSmallWa(r.Reb))
		e.ReadingTypes = append(e.ReadingTypes, Phonetic)
		if r.NoKanji != nil {
			continue
		}
		for _, keb := range kebs {
			if _, ok := furiganaReading[keb]; ok {
				continue
			}
			if len(r.Restriction) == 0 || contains(r.Restriction, keb) {
				furiganaReading[keb] = r.Reb
			}
		}
	}
	for _, s := range je.Sense {
		if !appliesTo(s.StagR, e.Readings) || !appliesTo(s.StagK, e.Readings) {
			continue
		}
		def := Definition{}
		def.PartsOfSpeech = addUnique(def.PartsOfSpeech, s.POS...)
		def.PartsOfSpeech = addUnique(def.PartsOfSpeech, s.Misc...)
		for _, g := range s.Gloss {
			if g.Text == "" {
				continue
			}
			lang := g.Lang
			if lang == "" {
				lang = DefaultLanguage
			}
			if cfg.languages != nil && !cfg.languages[lang] {
				continue
			}
			if def.Meanings == nil {
				def.Meanings = make(map[string][]string)
			}
			def.Meanings[lang] = append(def.Meanings[lang], g.Text)
		}
		if len(s.LSource) > 0 {
			e.Origin = model.OriginGairaigo
		}
		e.Definitions = append(e.Definitions, def)
	}

	e.ReadingsFurigana = make([]string, len(e.Readings))
	for i, r := range e.Readings {
		e.ReadingsFurigana[i] = r
		if e.ReadingTypes[i] != Graphemic {
			continue
		}
		if f := cfg.furigana(r, furiganaReading[r]); f != "" {
			e.ReadingsFurigana[i] = f
		}
	}
	return e
}

// furigana renders a keb with its kana reading. Single kanji need no
// alignment; longer words go through the kanji store when one is set.
func (cfg *jmdictConfig) furigana(keb, reading string) string {
	if reading == "" {
		return ""
	}
	if utf8.RuneCountInString(keb) == 1 {
		r, _ := utf8.DecodeRuneInString(keb)
		if kana.IsKanji(r) {
			return keb + "[" + reading + "]"
		}
	}
	if cfg.kanji == nil {
		return ""
	}
	return kanji.Furigana(cfg.kanji.Align(keb, reading))
}

func contains(list []string, s string) bool {
	for _, l := range list {
		if l == s {
			return true
		}
	}
	return false
}

// appliesTo reports whether a restriction list is empty or names one of
// the readings.
func appliesTo(restrictions, readings []string) bool {
	if len(restrictions) == 0 {
		return true
	}
	for _, r := range restrictions {
		if contains(readings, r) {
			return true
		}
	}
	return false
}

func isObsolete(info []string) bool {
	for _, i := range info {
		switch entityCode(i) {
		case "ok", "oK":
			return true
		}
	}
	return false
}

// mapFile memory-maps path read-only and hands its contents to load.
func mapFile[T any](path, what string, load func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, fmt.Errorf("%w: %s", ErrResourceMissing, err)
	}
	defer f.Close()
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return zero, fmt.Errorf("map %s: %w", what, err)
	}
	defer m.Unmap()
	return load(bytes.NewReader(m))
}

// OpenJMdictFile memory-maps a JMdict XML file and loads it.
func OpenJMdictFile(path string, opts ...JMdictOption) ([]Entry, error) {
	return mapFile(path, "JMdict", func(r io.Reader) ([]Entry, error) {
		return LoadJMdict(r, opts...)
	})
}
