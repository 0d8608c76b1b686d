// Package lookup picks one dictionary entry per word unit, combining
// direct dictionary lookups with deconjugation and a priority score.
package lookup

import (
	"context"
	"sort"
	"strings"
	"unicode/utf8"

	"jplemma/deconjugate"
	"jplemma/dictionary"
	"jplemma/kana"
	"jplemma/model"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const maxStripAttempts = 3

// alternatePOS are tried by the deconjugative lookup when a unit the
// tokenizer did not tag as inflecting has no direct match.
var alternatePOS = []model.PartOfSpeech{model.Verb, model.IAdjective, model.NaAdjective}

// Resolver turns word units into resolved dictionary words.
type Resolver struct {
	dict   dictionary.Dictionary
	decon  *deconjugate.Deconjugator
	cache  WordCache
	logger zerolog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithCache replaces the default in-memory resolution cache. A nil cache
// disables caching.
func WithCache(c WordCache) Option {
	return func(r *Resolver) {
		r.cache = c
	}
}

// WithLogger sets the logger used for resolution traces.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Resolver) {
		r.logger = l
	}
}

func NewResolver(dict dictionary.Dictionary, decon *deconjugate.Deconjugator, opts ...Option) *Resolver {
	r := &Resolver{
		dict:   dict,
		decon:  decon,
		cache:  NewMemoryCache(),
		logger: log.Logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Cache returns the resolution cache, nil when caching is off.
func (r *Resolver) Cache() WordCache {
	return r.cache
}

// lookupSession memoizes dictionary lookups for a single Resolve call;
// the POS hypotheses and stripping attempts query the same keys repeatedly.
type lookupSession struct {
	dict dictionary.Dictionary
	seen map[string][]dictionary.Entry
}

func (s *lookupSession) lookup(ctx context.Context, key string) ([]dictionary.Entry, error) {
	if entries, ok := s.seen[key]; ok {
		return entries, nil
	}
	entries, err := s.dict.LookupByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	s.seen[key] = entries
	return entries, nil
}

// unit is the mutable working copy of a token during one resolution.
type unit struct {
	text           string
	pos            model.PartOfSpeech
	section        model.Section
	normalizedForm string
	dictionaryForm string
}

func (u unit) inflecting() bool {
	switch u.pos {
	case model.Verb, model.IAdjective, model.Auxiliary, model.NaAdjective:
		return true
	}
	return u.section == model.SectionAdjectival
}

// Resolve finds the dictionary entry for tok. ok is false when nothing
// matches; err only reports dictionary failures.
func (r *Resolver) Resolve(ctx context.Context, tok model.Token) (model.ResolvedWord, bool, error) {
	key := KeyOf(tok)
	if r.cache != nil {
		if w, ok := r.cache.Get(ctx, key); ok {
			return w, true, nil
		}
	}

	sess := &lookupSession{dict: r.dict, seen: make(map[string][]dictionary.Entry)}
	u := unit{
		text:           tok.Text,
		pos:            tok.POS,
		section:        tok.Sections[0],
		normalizedForm: tok.NormalizedForm,
		dictionaryForm: tok.DictionaryForm,
	}
	for attempt := 0; attempt < maxStripAttempts; attempt++ {
		w, ok, err := r.resolveUnit(ctx, sess, u)
		if err != nil {
			return model.ResolvedWord{}, false, err
		}
		if ok {
			if r.cache != nil {
				r.cache.Set(ctx, key, w)
			}
			r.logger.Debug().
				Str("text", tok.Text).
				Int("wordId", w.WordID).
				Int("attempt", attempt).
				Msg("[lookup.Resolve] resolved")
			return w, true, nil
		}
		stripped, more := stripText(u.text)
		if !more {
			break
		}
		u.text = stripped
	}
	r.logger.Debug().Str("text", tok.Text).Str("pos", tok.POS.String()).Msg("[lookup.Resolve] unresolved")
	return model.ResolvedWord{}, false, nil
}

func (r *Resolver) resolveUnit(ctx context.Context, sess *lookupSession, u unit) (model.ResolvedWord, bool, error) {
	if u.inflecting() {
		w, ok, err := r.deconjugated(ctx, sess, u)
		if err != nil || ok {
			return w, ok, err
		}
		return r.direct(ctx, sess, u)
	}
	w, ok, err := r.direct(ctx, sess, u)
	if err != nil || ok {
		return w, ok, err
	}
	for _, pos := range alternatePOS {
		alt := u
		alt.pos = pos
		w, ok, err := r.deconjugated(ctx, sess, alt)
		if err != nil || ok {
			return w, ok, err
		}
	}
	return model.ResolvedWord{}, false, nil
}

// stripText is one step of the retry ladder: drop a trailing elongation
// or doubled character, else a leading お, else every ー.
func stripText(text string) (string, bool) {
	runes := []rune(text)
	n := len(runes)
	switch {
	case n > 2 && (runes[n-1] == 'っ' || runes[n-1] == 'ー' || runes[n-1] == runes[n-2]):
		return string(runes[:n-1]), true
	case n > 0 && runes[0] == 'お':
		return string(runes[1:]), true
	case strings.ContainsRune(text, 'ー'):
		return strings.ReplaceAll(text, "ー", ""), true
	}
	return text, false
}

func phonetic(s string) string {
	return kana.ToHiraganaLongVowels(s)
}

func hasPOS(e dictionary.Entry, pos model.PartOfSpeech) bool {
	for _, code := range e.PartsOfSpeech {
		if model.ParsePartOfSpeech(code) == pos {
			return true
		}
	}
	return false
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

func phoneticIndex(readings []string, s string) int {
	for i, v := range readings {
		if phonetic(v) == s {
			return i
		}
	}
	return -1
}

func resolvedWord(e dictionary.Entry, text string, readingIndex int, process []string) model.ResolvedWord {
	w := model.ResolvedWord{
		WordID:        e.ID,
		OriginalText:  text,
		ReadingIndex:  readingIndex,
		PartsOfSpeech: model.ParsePartsOfSpeech(e.PartsOfSpeech),
		Origin:        e.Origin,
	}
	if len(process) > 0 {
		w.Conjugations = append([]string(nil), process...)
	}
	return w
}

// skipDirect reports text the dictionary never holds as a word: digit runs
// and lone Latin letters.
func skipDirect(text string) bool {
	return kana.IsDigits(text) || kana.IsSingleLatinLetter(text)
}

func (r *Resolver) direct(ctx context.Context, sess *lookupSession, u unit) (model.ResolvedWord, bool, error) {
	if u.text == "" || skipDirect(u.text) {
		return model.ResolvedWord{}, false, nil
	}
	candidates, err := sess.lookup(ctx, u.text)
	if err != nil {
		return model.ResolvedWord{}, false, err
	}
	hira := phonetic(u.text)
	if !kana.IsJapanese(u.text) || u.text != hira {
		more, err := sess.lookup(ctx, hira)
		if err != nil {
			return model.ResolvedWord{}, false, err
		}
		candidates = append(append([]dictionary.Entry(nil), candidates...), more...)
	}

	seen := make(map[int]bool, len(candidates))
	unique := candidates[:0:0]
	for _, c := range candidates {
		if !seen[c.ID] {
			seen[c.ID] = true
			unique = append(unique, c)
		}
	}
	if len(unique) == 0 {
		return model.ResolvedWord{}, false, nil
	}

	var matches []dictionary.Entry
	for _, c := range unique {
		if hasPOS(c, u.pos) {
			matches = append(matches, c)
		}
	}
	var best dictionary.Entry
	switch len(matches) {
	case 0:
		best = unique[0]
	case 1:
		best = matches[0]
	default:
		isKana := kana.IsKana(u.text)
		best = matches[0]
		bestScore := PriorityScore(best, isKana)
		for _, m := range matches[1:] {
			if s := PriorityScore(m, isKana); s > bestScore {
				best, bestScore = m, s
			}
		}
	}

	idx := indexOf(best.Readings, u.text)
	if idx < 0 {
		idx = phoneticIndex(best.Readings, hira)
	}
	if idx < 0 {
		return model.ResolvedWord{}, false, nil
	}
	return resolvedWord(best, u.text, idx, nil), true, nil
}

type formCandidate struct {
	form    deconjugate.Form
	entries []dictionary.Entry
}

type formMatch struct {
	entry dictionary.Entry
	form  deconjugate.Form
}

func formRank(text, dictForm, surface string) int {
	switch text {
	case dictForm:
		return 0
	case surface:
		return 1
	}
	return 2
}

func (r *Resolver) deconjugated(ctx context.Context, sess *lookupSession, u unit) (model.ResolvedWord, bool, error) {
	if u.text == "" {
		return model.ResolvedWord{}, false, nil
	}
	surface := phonetic(u.text)
	forms := r.decon.Deconjugate(surface)
	sort.SliceStable(forms, func(i, j int) bool {
		return utf8.RuneCountInString(forms[i].Text) > utf8.RuneCountInString(forms[j].Text)
	})

	var candidates []formCandidate
	for _, f := range forms {
		entries, err := sess.lookup(ctx, f.Text)
		if err != nil {
			return model.ResolvedWord{}, false, err
		}
		if len(entries) > 0 {
			candidates = append(candidates, formCandidate{form: f, entries: entries})
		}
	}
	if len(candidates) == 0 {
		return model.ResolvedWord{}, false, nil
	}

	dictForm := phonetic(strings.NewReplacer("ゎ", "わ", "ヮ", "わ").Replace(u.dictionaryForm))
	sort.SliceStable(candidates, func(i, j int) bool {
		return formRank(candidates[i].form.Text, dictForm, surface) <
			formRank(candidates[j].form.Text, dictForm, surface)
	})

	var matches []formMatch
	for _, c := range candidates {
		for _, e := range c.entries {
			if hasPOS(e, u.pos) {
				matches = append(matches, formMatch{entry: e, form: c.form})
			}
		}
	}
	if len(matches) == 0 {
		return model.ResolvedWord{}, false, nil
	}

	best := matches[0]
	if len(matches) > 1 {
		isKana := kana.IsKana(u.text)
		sort.SliceStable(matches, func(i, j int) bool {
			return PriorityScore(matches[i].entry, isKana) > PriorityScore(matches[j].entry, isKana)
		})
		best = matches[0]
		if !kana.IsKana(u.normalizedForm) {
			for _, m := range matches {
				if indexOf(m.entry.Readings, u.normalizedForm) >= 0 {
					best = m
					break
				}
			}
		}
	}

	idx := phoneticIndex(best.entry.Readings, best.form.Text)
	if idx < 0 {
		return model.ResolvedWord{}, false, nil
	}
	return resolvedWord(best.entry, u.text, idx, best.form.Process), true, nil
}
