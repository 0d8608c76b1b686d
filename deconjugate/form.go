package deconjugate

import (
	"sort"
	"strings"
)

// Form is one state of a deconjugation: the current text, the tag stack
// of the grammatical categories it passed through, every text visited so
// far and the rule descriptions that led to it.
type Form struct {
	Text         string   `json:"text"`
	OriginalText string   `json:"original_text"`
	Tags         []string `json:"tags"`
	SeenText     []string `json:"seen_text"`
	Process      []string `json:"process"`
}

func initialForm(text string) Form {
	return Form{Text: text, OriginalText: text}
}

// key identifies a form by all of its fields.
func (f Form) key() string {
	var sb strings.Builder
	sb.WriteString(f.Text)
	sb.WriteByte(0)
	sb.WriteString(f.OriginalText)
	sb.WriteByte(0)
	sb.WriteString(strings.Join(f.Tags, "\x01"))
	sb.WriteByte(0)
	sb.WriteString(strings.Join(f.SeenText, "\x01"))
	sb.WriteByte(0)
	sb.WriteString(strings.Join(f.Process, "\x01"))
	return sb.String()
}

// Seen reports whether text was visited on the way to f.
func (f Form) Seen(text string) bool {
	i := sort.SearchStrings(f.SeenText, text)
	return i < len(f.SeenText) && f.SeenText[i] == text
}

func (f Form) clone() Form {
	return Form{
		Text:         f.Text,
		OriginalText: f.OriginalText,
		Tags:         append([]string(nil), f.Tags...),
		SeenText:     append([]string(nil), f.SeenText...),
		Process:      append([]string(nil), f.Process...),
	}
}

func withSeen(seen []string, text string) []string {
	i := sort.SearchStrings(seen, text)
	if i < len(seen) && seen[i] == text {
		return seen
	}
	seen = append(seen, "")
	copy(seen[i+1:], seen[i:])
	seen[i] = text
	return seen
}

// derive builds the form produced by one rule firing. The tag stack is
// seeded with conTag when empty; decTag is pushed when set.
func (f Form) derive(text, conTag, decTag, detail string, retag bool) Form {
	out := Form{
		Text:         text,
		OriginalText: f.OriginalText,
		Tags:         append([]string(nil), f.Tags...),
		SeenText:     append([]string(nil), f.SeenText...),
		Process:      append(append([]string(nil), f.Process...), detail),
	}
	if retag {
		if len(out.Tags) == 0 && conTag != "" {
			out.Tags = append(out.Tags, conTag)
		}
		if decTag != "" {
			out.Tags = append(out.Tags, decTag)
		}
	}
	if len(out.SeenText) == 0 {
		out.SeenText = withSeen(out.SeenText, f.Text)
	}
	out.SeenText = withSeen(out.SeenText, text)
	return out
}
