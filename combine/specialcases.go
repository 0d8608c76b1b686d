package combine

import (
	"jplemma/kana"
	"jplemma/model"
)

// trigrams are literal three morpheme sequences merged into one unit.
var trigrams = map[[3]string]model.PartOfSpeech{
	{"な", "の", "で"}:  model.Expression,
	{"で", "は", "ない"}: model.Expression,
	{"それ", "で", "も"}: model.Conjunction,
	{"なく", "なっ", "た"}: model.Verb,
}

// bigrams are literal two morpheme sequences merged into one unit.
var bigrams = map[[2]string]model.PartOfSpeech{
	{"じゃ", "ない"}: model.Expression,
	{"に", "しろ"}:  model.Expression,
	{"だ", "けど"}:  model.Conjunction,
	{"だ", "が"}:   model.Conjunction,
	{"で", "さえ"}:  model.Expression,
	{"で", "すら"}:  model.Expression,
	{"と", "いう"}:  model.Expression,
	{"と", "か"}:   model.Conjunction,
	{"だ", "から"}:  model.Conjunction,
	{"これ", "まで"}: model.Expression,
	{"それ", "も"}:  model.Conjunction,
	{"それ", "だけ"}: model.Noun,
	{"くせ", "に"}:  model.Conjunction,
	{"の", "で"}:   model.Particle,
	{"誰", "も"}:   model.Expression,
	{"誰", "か"}:   model.Expression,
	{"すぐ", "に"}:  model.Adverb,
	{"なん", "か"}:  model.Particle,
	{"だっ", "た"}:  model.Expression,
	{"だっ", "たら"}: model.Conjunction,
	{"よう", "に"}:  model.Expression,
	{"ん", "です"}:  model.Expression,
	{"ん", "だ"}:   model.Expression,
	{"です", "か"}:  model.Expression,
}

// specialCases merges the literal tables and fixes single tokens the
// tokenizer is known to tag wrongly.
func specialCases(toks []model.Token) []model.Token {
	out := make([]model.Token, 0, len(toks))
	i := 0
	for i < len(toks) {
		w1 := toks[i]

		if w1.POS == model.Conjunction && w1.Text == "で" {
			out = append(out, w1.WithPOS(model.Particle))
			i++
			continue
		}

		if i+2 < len(toks) {
			w2, w3 := toks[i+1], toks[i+2]
			// して下さる and friends
			if w1.DictionaryForm == "する" && w2.Text == "て" && w3.DictionaryForm == "くださる" {
				out = append(out, w1.WithText(w1.Text+w2.Text+w3.Text))
				i += 3
				continue
			}
			if pos, ok := trigrams[[3]string{w1.Text, w2.Text, w3.Text}]; ok {
				out = append(out, w1.WithText(w1.Text+w2.Text+w3.Text).WithPOS(pos))
				i += 3
				continue
			}
		}

		if i+1 < len(toks) {
			w2 := toks[i+1]
			if pos, ok := bigrams[[2]string{w1.Text, w2.Text}]; ok {
				out = append(out, w1.WithText(w1.Text+w2.Text).WithPOS(pos))
				i += 2
				continue
			}
		}

		switch w1.Text {
		case "でしょう":
			w1.POS = model.Expression
			w1.Sections[0] = model.SectionNone
		case "だし":
			out = append(out,
				model.Token{Text: "だ", DictionaryForm: "だ", Reading: "だ", POS: model.Auxiliary},
				model.Token{Text: "し", DictionaryForm: "し", Reading: "し", POS: model.Conjunction},
			)
			i++
			continue
		case "な", "に":
			w1.POS = model.Particle
		case "よう":
			w1.POS = model.Noun
		case "十五":
			w1.POS = model.Numeral
		}
		out = append(out, w1)
		i++
	}
	return out
}

// filterMisparses retags a few frequent tokenizer misfires and drops the
// stray kana fragments that never resolve to a word.
func filterMisparses(toks []model.Token) []model.Token {
	out := make([]model.Token, 0, len(toks))
	for _, t := range toks {
		switch t.Text {
		case "なん", "フン", "ふん":
			t.POS = model.Prefix
		case "そう":
			t.POS = model.Adverb
		case "おい":
			t.POS = model.Interjection
		case "つ":
			if t.POS == model.Suffix {
				t.POS = model.Counter
			}
		}
		if strayFragments[t.Text] || isKanaLetterNoun(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

var strayFragments = map[string]bool{
	"そ": true, "ー": true, "る": true, "ま": true, "ふ": true,
	"ち": true, "ほ": true, "す": true, "じ": true, "なさ": true,
}

func isKanaLetterNoun(t model.Token) bool {
	if t.POS != model.Noun {
		return false
	}
	runes := []rune(t.Text)
	switch {
	case len(runes) == 1:
		return kana.IsKana(t.Text)
	case len(runes) == 2 && runes[1] == 'ー':
		return kana.IsKana(string(runes[0]))
	}
	return t.Text == "エナ" || t.Text == "えな"
}
