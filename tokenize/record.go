package tokenize

import (
	"strings"

	"jplemma/model"

	"github.com/rs/zerolog/log"
)

// EOS terminates a record stream.
const EOS = "EOS"

const (
	fieldSurface = iota
	fieldPOS
	fieldNormalized
	fieldDictionary
	fieldReading
	minFields
)

// FormatRecord writes one morpheme as a tab separated record line:
// surface, POS and three sub-tags joined by commas, normalized form,
// dictionary form, reading.
func FormatRecord(surface string, pos [4]string, normalized, dictionary, reading string) string {
	for i, p := range pos {
		if p == "" {
			pos[i] = "*"
		}
	}
	return strings.Join([]string{
		surface,
		strings.Join(pos[:], ","),
		normalized,
		dictionary,
		reading,
	}, "\t")
}

// ParseRecord reads one record line. The returned token is marked Invalid
// when the line has too few fields or too few POS tags.
func ParseRecord(line string) model.Token {
	parts := strings.Split(line, "\t")
	if len(parts) < minFields {
		return model.Token{Invalid: true}
	}
	pos := strings.Split(parts[fieldPOS], ",")
	if len(pos) < 4 {
		return model.Token{Invalid: true}
	}
	return model.Token{
		Text: parts[fieldSurface],
		POS:  model.ParsePartOfSpeech(pos[0]),
		Sections: [3]model.Section{
			model.ParseSection(pos[1]),
			model.ParseSection(pos[2]),
			model.ParseSection(pos[3]),
		},
		NormalizedForm: parts[fieldNormalized],
		DictionaryForm: parts[fieldDictionary],
		Reading:        parts[fieldReading],
	}
}

// ParseRecords reads a whole tokenizer output. EOS markers and malformed
// lines are dropped.
func ParseRecords(output string) []model.Token {
	var out []model.Token
	dropped := 0
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" || line == EOS {
			continue
		}
		tok := ParseRecord(line)
		if tok.Invalid {
			dropped++
			continue
		}
		out = append(out, tok)
	}
	if dropped > 0 {
		log.Debug().Int("dropped", dropped).Msg("[tokenize.ParseRecords] malformed records")
	}
	return out
}
