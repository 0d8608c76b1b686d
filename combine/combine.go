// Package combine turns the tokenizer's morpheme stream into word units
// and places them in sentences.
package combine

import (
	"context"
	"fmt"

	"jplemma/kana"
	"jplemma/model"
	"jplemma/tokenize"

	"github.com/rs/zerolog/log"
)

// Options tunes the combination passes.
type Options struct {
	// SeparateHonorifics splits さん, ちゃん and くん off names.
	SeparateHonorifics bool `yaml:"separateHonorifics" json:"separateHonorifics"`
}

// Combine runs every pass over raw morphemes. The order matters: later
// passes rely on the units built by earlier ones.
func Combine(toks []model.Token, opts Options) []model.Token {
	toks = specialCases(toks)
	toks = combinePrefixes(toks)
	toks = combineAmounts(toks)
	toks = combineTte(toks)
	toks = combineAuxiliaryVerbStem(toks)
	toks = combineAdverbialParticle(toks)
	toks = combineSuffix(toks)
	toks = combineAuxiliary(toks)
	toks = combineVerbDependant(toks)
	toks = combineConjunctiveParticle(toks)
	toks = combineParticles(toks)
	toks = combineFinal(toks)
	toks = separateHonorifics(toks, opts.SeparateHonorifics)
	return filterMisparses(toks)
}

// Analyser drives the tokenizer and the combination passes.
type Analyser struct {
	tokenizer tokenize.Tokenizer
	opts      Options
}

func NewAnalyser(t tokenize.Tokenizer, opts Options) *Analyser {
	return &Analyser{tokenizer: t, opts: opts}
}

func (a *Analyser) morphemes(ctx context.Context, text string, mode tokenize.Mode) ([]model.Token, error) {
	out, err := a.tokenizer.Tokenize(ctx, Preprocess(text), mode)
	if err != nil {
		return nil, fmt.Errorf("failed to tokenize text: %w", err)
	}
	return tokenize.ParseRecords(out), nil
}

// Analyse splits text into sentences of combined word units. Text without
// kana or kanji yields no sentences.
func (a *Analyser) Analyse(ctx context.Context, text string) ([]model.Sentence, error) {
	if !kana.ContainsJapanese(text) {
		return nil, nil
	}
	toks, err := a.morphemes(ctx, text, tokenize.Normal)
	if err != nil {
		return nil, err
	}
	units := Combine(toks, a.opts)
	sentences := SplitSentences(CleanText(text), units)
	log.Debug().
		Int("morphemes", len(toks)).
		Int("units", len(units)).
		Int("sentences", len(sentences)).
		Msg("[combine.Analyse] text analysed")
	return sentences, nil
}

// AnalyseMorphemes returns the raw morphemes of text, tokenized in search
// mode and without any combination.
func (a *Analyser) AnalyseMorphemes(ctx context.Context, text string) ([]model.Token, error) {
	if !kana.ContainsJapanese(text) {
		return nil, nil
	}
	return a.morphemes(ctx, text, tokenize.Search)
}
