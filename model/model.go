package model

// Token is one word unit: a tokenizer morpheme, or several of them after
// the combination passes merged them. Token is a plain value; passes
// return new Tokens instead of changing shared ones.
type Token struct {
	Text           string       `json:"text"`
	POS            PartOfSpeech `json:"pos"`
	Sections       [3]Section   `json:"sections"`
	NormalizedForm string       `json:"normalized_form,omitempty"`
	DictionaryForm string       `json:"dictionary_form,omitempty"`
	Reading        string       `json:"reading,omitempty"`
	Invalid        bool         `json:"-"`
}

// HasSection reports whether any of the three sub-tags equals s.
func (t Token) HasSection(s Section) bool {
	return t.Sections[0] == s || t.Sections[1] == s || t.Sections[2] == s
}

// WithText returns a copy of t carrying text.
func (t Token) WithText(text string) Token {
	t.Text = text
	return t
}

// WithPOS returns a copy of t carrying pos.
func (t Token) WithPOS(pos PartOfSpeech) Token {
	t.POS = pos
	return t
}

// Append returns a copy of t with next's text concatenated to its own.
func (t Token) Append(next Token) Token {
	t.Text += next.Text
	return t
}

// WordSpan places a unit inside its sentence. Start and Length count runes.
type WordSpan struct {
	Token  Token `json:"token"`
	Start  int   `json:"start"`
	Length int   `json:"length"`
}

// Sentence is one segment of the analysed text.
type Sentence struct {
	Text  string     `json:"text"`
	Words []WordSpan `json:"words"`
}

// Origin classifies where a word comes from.
type Origin int

const (
	OriginUnknown Origin = iota
	OriginWago
	OriginKango
	OriginGairaigo
	OriginMixed
)

var originNames = [...]string{"unknown", "wago", "kango", "gairaigo", "mixed"}

func (o Origin) String() string {
	if o < 0 || int(o) >= len(originNames) {
		return originNames[0]
	}
	return originNames[o]
}

func (o Origin) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Origin) UnmarshalText(b []byte) error {
	*o = OriginUnknown
	for i, n := range originNames {
		if n == string(b) {
			*o = Origin(i)
		}
	}
	return nil
}

// ResolvedWord is the dictionary entry chosen for one unit.
type ResolvedWord struct {
	WordID        int            `json:"word_id"`
	OriginalText  string         `json:"original_text"`
	ReadingIndex  int            `json:"reading_index"`
	Occurrences   int            `json:"occurrences"`
	Conjugations  []string       `json:"conjugations,omitempty"`
	PartsOfSpeech []PartOfSpeech `json:"parts_of_speech,omitempty"`
	Origin        Origin         `json:"origin"`
}

// Clone returns a copy sharing no slices with w.
func (w ResolvedWord) Clone() ResolvedWord {
	out := w
	if w.Conjugations != nil {
		out.Conjugations = append([]string(nil), w.Conjugations...)
	}
	if w.PartsOfSpeech != nil {
		out.PartsOfSpeech = append([]PartOfSpeech(nil), w.PartsOfSpeech...)
	}
	return out
}
