package kanji

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"jplemma/kana"

	"github.com/edsrzf/mmap-go"
	"github.com/rs/zerolog/log"
)

type kanjidic2Character struct {
	Literal        string `xml:"literal"`
	ReadingMeaning struct {
		RMGroup []struct {
			Reading []struct {
				Value string `xml:",chardata"`
				Type  string `xml:"r_type,attr"`
			} `xml:"reading"`
		} `xml:"rmgroup"`
	} `xml:"reading_meaning"`
}

// Store maps each kanji to its on and kun readings as written in kanjidic2
// (katakana on-yomi, hiragana kun-yomi with okurigana dots).
type Store struct {
	readings map[rune][]string
}

// Load parses kanjidic2 XML, decoding <character> elements one at a time.
func Load(r io.Reader) (*Store, error) {
	s := &Store{readings: make(map[rune][]string)}
	d := xml.NewDecoder(r)
	// kanjidic2 declares its entities in an internal DTD the decoder does
	// not expand.
	d.Strict = false
	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse kanjidic2: %w", err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "character" {
			continue
		}
		var k kanjidic2Character
		if err := d.DecodeElement(&k, &se); err != nil {
			log.Warn().Err(err).Msg("[kanji.Load] skipping undecodable character")
			continue
		}
		if utf8.RuneCountInString(k.Literal) != 1 {
			continue
		}
		var readings []string
		for _, group := range k.ReadingMeaning.RMGroup {
			for _, rd := range group.Reading {
				if rd.Type == "ja_on" || rd.Type == "ja_kun" {
					readings = append(readings, rd.Value)
				}
			}
		}
		kr, _ := utf8.DecodeRuneInString(k.Literal)
		s.readings[kr] = readings
	}
	log.Info().Int("entries", len(s.readings)).Msg("[kanji.Load] kanjidic2 loaded")
	return s, nil
}

// OpenFile memory-maps a kanjidic2 file and loads it.
func OpenFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open kanjidic2: %w", err)
	}
	defer f.Close()
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("map kanjidic2: %w", err)
	}
	defer m.Unmap()
	return Load(bytes.NewReader(m))
}

// Readings returns the readings for a kanji, nil if unknown.
func (s *Store) Readings(r rune) []string {
	if s == nil {
		return nil
	}
	return s.readings[r]
}

// Count returns the number of kanji entries loaded.
func (s *Store) Count() int {
	if s == nil {
		return 0
	}
	return len(s.readings)
}

// NormalizeReading turns a kanjidic2 reading into plain hiragana:
// okurigana dots and affix dashes are dropped.
func NormalizeReading(r string) string {
	r = strings.ReplaceAll(r, ".", "")
	r = strings.ReplaceAll(r, "-", "")
	return kana.ToHiragana(r)
}

var rendaku = map[rune]rune{
	'か': 'が', 'き': 'ぎ', 'く': 'ぐ', 'け': 'げ', 'こ': 'ご',
	'さ': 'ざ', 'し': 'じ', 'す': 'ず', 'せ': 'ぜ', 'そ': 'ぞ',
	'た': 'だ', 'ち': 'ぢ', 'つ': 'づ', 'て': 'で', 'と': 'ど',
	'は': 'ば', 'ひ': 'び', 'ふ': 'ぶ', 'へ': 'べ', 'ほ': 'ぼ',
}

// RendakuForm voices the first mora of a reading (かわ -> がわ).
func RendakuForm(r string) string {
	runes := []rune(r)
	if len(runes) == 0 {
		return r
	}
	if v, ok := rendaku[runes[0]]; ok {
		runes[0] = v
	}
	return string(runes)
}

// variants lists the match candidates of one kanjidic2 reading: the full
// reading, the part before the okurigana dot and the reading without a
// leading dash.
func variants(kr string) []string {
	var out []string
	add := func(v string) {
		if v == "" {
			return
		}
		for _, x := range out {
			if x == v {
				return
			}
		}
		out = append(out, v)
	}
	add(NormalizeReading(kr))
	if idx := strings.IndexRune(kr, '.'); idx >= 0 {
		add(NormalizeReading(kr[:idx]))
	}
	if strings.HasPrefix(kr, "-") {
		add(NormalizeReading(strings.TrimPrefix(kr, "-")))
	}
	return out
}

func hasPrefixAt(rs []rune, at int, v []rune) bool {
	if at+len(v) > len(rs) {
		return false
	}
	for i := range v {
		if rs[at+i] != v[i] {
			return false
		}
	}
	return true
}

// Align splits reading over the characters of surface. Each kanji gets
// the longest kanjidic2 reading (rendaku allowed after the first
// character) that matches at the current position and still lets the
// following okurigana match; the last kanji takes any reading left over.
// Kana characters consume themselves.
func (s *Store) Align(surface, reading string) [][2]string {
	result := make([][2]string, 0)
	surfaceRunes := []rune(surface)
	readingRunes := []rune(kana.ToHiragana(reading))
	k := 0
	for j, ch := range surfaceRunes {
		switch {
		case kana.IsKanji(ch):
			best := 0
			for _, kr := range s.Readings(ch) {
				for _, v := range variants(kr) {
					cands := [][]rune{[]rune(v)}
					if j > 0 {
						cands = append(cands, []rune(RendakuForm(v)))
					}
					for _, c := range cands {
						if len(c) > best && hasPrefixAt(readingRunes, k, c) &&
							okuriganaFits(surfaceRunes, j, readingRunes, k+len(c)) {
							best = len(c)
						}
					}
				}
			}
			if best > 0 {
				result = append(result, [2]string{string(ch), string(readingRunes[k : k+best])})
				k += best
				continue
			}
			if lastKanji(surfaceRunes, j) && k < len(readingRunes) {
				result = append(result, [2]string{string(ch), string(readingRunes[k:])})
				k = len(readingRunes)
				continue
			}
			result = append(result, [2]string{string(ch), ""})
		default:
			result = append(result, [2]string{string(ch), ""})
			if k < len(readingRunes) && readingRunes[k] == []rune(kana.ToHiragana(string(ch)))[0] {
				k++
			}
		}
	}
	if k < len(readingRunes) && !containsKanji(surfaceRunes) {
		result = append(result, [2]string{"", string(readingRunes[k:])})
	}
	return result
}

// okuriganaFits reports whether the kana following surface[j], if any,
// appears in the reading at end.
func okuriganaFits(surface []rune, j int, reading []rune, end int) bool {
	if j+1 >= len(surface) || kana.IsKanji(surface[j+1]) {
		return true
	}
	next := []rune(kana.ToHiragana(string(surface[j+1])))[0]
	return end < len(reading) && reading[end] == next
}

func lastKanji(rs []rune, j int) bool {
	return !containsKanji(rs[j+1:])
}

func containsKanji(rs []rune) bool {
	for _, r := range rs {
		if kana.IsKanji(r) {
			return true
		}
	}
	return false
}

// FormatBracketsOnly renders aligned pairs with every kanji replaced by
// its bracketed reading and kana kept as is.
func FormatBracketsOnly(pairs [][2]string) string {
	var sb strings.Builder
	for _, p := range pairs {
		if p[0] == "" {
			continue
		}
		r, _ := utf8.DecodeRuneInString(p[0])
		if kana.IsKanji(r) {
			sb.WriteString("[" + p[1] + "]")
		} else {
			sb.WriteString(p[0])
		}
	}
	return sb.String()
}

// Furigana renders aligned pairs as ruby text: 入[い]り口[ぐち].
// Kanji without a reading are written bare.
func Furigana(pairs [][2]string) string {
	var sb strings.Builder
	for _, p := range pairs {
		sb.WriteString(p[0])
		if p[1] != "" && p[0] != "" {
			sb.WriteString("[" + p[1] + "]")
		}
	}
	return sb.String()
}
