// Package analyze runs the whole pipeline: text to sentences of word
// units, each unit resolved to a dictionary word.
package analyze

import (
	"context"
	"regexp"
	"strings"

	"jplemma/combine"
	"jplemma/ingest"
	"jplemma/lookup"
	"jplemma/model"

	"github.com/rs/zerolog/log"
)

// nonWord matches what a unit may carry but no dictionary word contains.
var nonWord = regexp.MustCompile(
	`[^a-zA-Z0-9\x{3040}-\x{309F}\x{30A0}-\x{30FF}\x{4E00}-\x{9FAF}` +
		`\x{FF21}-\x{FF3A}\x{FF41}-\x{FF5A}\x{FF10}-\x{FF19}\x{3005}．]`,
)

// CleanUnitText strips a unit down to the characters worth looking up.
// An empty result means the unit is punctuation only.
func CleanUnitText(text string) string {
	text = nonWord.ReplaceAllString(text, "")
	return strings.ReplaceAll(text, "ッー", "")
}

// Resolution pairs a unit with the word it resolved to, if any. Start
// and Length are rune offsets in the sentence text.
type Resolution struct {
	Token  model.Token         `json:"token"`
	Start  int                 `json:"start"`
	Length int                 `json:"length"`
	Word   *model.ResolvedWord `json:"word,omitempty"`
}

// Sentence is one analysed sentence.
type Sentence struct {
	Text  string       `json:"text"`
	Words []Resolution `json:"words"`
}

// Analysis is the result of analysing one document.
type Analysis struct {
	DocumentID string               `json:"document_id"`
	TokenCount int                  `json:"token_count"`
	Resolved   int                  `json:"resolved"`
	Sentences  []Sentence           `json:"sentences"`
	Deck       []model.ResolvedWord `json:"deck"`
}

// Analyzer ties the combination engine to the resolver.
type Analyzer struct {
	combiner *combine.Analyser
	resolver *lookup.Resolver
}

func New(c *combine.Analyser, r *lookup.Resolver) *Analyzer {
	return &Analyzer{combiner: c, resolver: r}
}

// Resolver returns the resolver used for units.
func (a *Analyzer) Resolver() *lookup.Resolver {
	return a.resolver
}

// resolve looks up one unit after cleaning its text. A nil word with a
// nil error is a miss or a punctuation unit.
func (a *Analyzer) resolve(ctx context.Context, tok model.Token) (*model.ResolvedWord, error) {
	tok.Text = CleanUnitText(tok.Text)
	if strings.TrimSpace(tok.Text) == "" {
		return nil, nil
	}
	w, ok, err := a.resolver.Resolve(ctx, tok)
	if err != nil || !ok {
		return nil, err
	}
	w.Occurrences = 1
	return &w, nil
}

// ParseText returns the resolved words of text in order. Units that do not
// resolve are left out.
func (a *Analyzer) ParseText(ctx context.Context, text string) ([]model.ResolvedWord, error) {
	sentences, err := a.combiner.Analyse(ctx, text)
	if err != nil {
		return nil, err
	}
	var out []model.ResolvedWord
	for _, s := range sentences {
		for _, span := range s.Words {
			w, err := a.resolve(ctx, span.Token)
			if err != nil {
				return nil, err
			}
			if w != nil {
				out = append(out, *w)
			}
		}
	}
	return out, nil
}

// ParseMorphemes resolves every raw morpheme of text. Word is nil where a
// morpheme has no entry.
func (a *Analyzer) ParseMorphemes(ctx context.Context, text string) ([]Resolution, error) {
	toks, err := a.combiner.AnalyseMorphemes(ctx, text)
	if err != nil {
		return nil, err
	}
	out := make([]Resolution, 0, len(toks))
	for _, t := range toks {
		if CleanUnitText(t.Text) == "" {
			continue
		}
		w, err := a.resolve(ctx, t)
		if err != nil {
			return nil, err
		}
		out = append(out, Resolution{Token: t, Word: w})
	}
	return out, nil
}

// Analyze runs the pipeline over a document and aggregates its deck.
func (a *Analyzer) Analyze(ctx context.Context, doc ingest.Document) (Analysis, error) {
	sentences, err := a.combiner.Analyse(ctx, doc.Text)
	if err != nil {
		return Analysis{}, err
	}
	ans := Analysis{DocumentID: doc.ID, Sentences: make([]Sentence, 0, len(sentences))}
	var words []model.ResolvedWord
	for _, s := range sentences {
		as := Sentence{Text: s.Text, Words: make([]Resolution, 0, len(s.Words))}
		for _, span := range s.Words {
			w, err := a.resolve(ctx, span.Token)
			if err != nil {
				return Analysis{}, err
			}
			as.Words = append(as.Words, Resolution{
				Token:  span.Token,
				Start:  span.Start,
				Length: span.Length,
				Word:   w,
			})
			ans.TokenCount++
			if w != nil {
				ans.Resolved++
				words = append(words, *w)
			}
		}
		ans.Sentences = append(ans.Sentences, as)
	}
	ans.Deck = Deck(words)
	log.Info().
		Str("document", doc.ID).
		Int("sentences", len(ans.Sentences)).
		Int("units", ans.TokenCount).
		Int("resolved", ans.Resolved).
		Msg("[analyze.Analyze] document analysed")
	return ans, nil
}

type deckKey struct {
	wordID       int
	readingIndex int
}

// Deck merges resolutions of the same word and reading, summing their
// occurrences. The order of first appearance is kept.
func Deck(words []model.ResolvedWord) []model.ResolvedWord {
	index := make(map[deckKey]int, len(words))
	var out []model.ResolvedWord
	for _, w := range words {
		k := deckKey{w.WordID, w.ReadingIndex}
		if i, ok := index[k]; ok {
			out[i].Occurrences += w.Occurrences
			continue
		}
		index[k] = len(out)
		out = append(out, w.Clone())
	}
	return out
}
