package combine

import (
	"strings"

	"jplemma/model"
)

// appendWhen folds next into the preceding unit whenever join holds. prev
// is the raw predecessor of next in the input, cur the unit being built.
func appendWhen(toks []model.Token, join func(cur, prev, next model.Token) bool) []model.Token {
	if len(toks) < 2 {
		return toks
	}
	out := make([]model.Token, 0, len(toks))
	cur := toks[0]
	for i := 1; i < len(toks); i++ {
		next := toks[i]
		if join(cur, toks[i-1], next) {
			cur = cur.Append(next)
			continue
		}
		out = append(out, cur)
		cur = next
	}
	return append(out, cur)
}

func oneOf(s string, list ...string) bool {
	for _, l := range list {
		if s == l {
			return true
		}
	}
	return false
}

func posIn(p model.PartOfSpeech, list ...model.PartOfSpeech) bool {
	for _, l := range list {
		if p == l {
			return true
		}
	}
	return false
}

// combinePrefixes lets a prefix take over the following unit. 御 is kept
// apart because the dictionary lists honorific forms separately.
func combinePrefixes(toks []model.Token) []model.Token {
	if len(toks) < 2 {
		return toks
	}
	out := make([]model.Token, 0, len(toks))
	cur := toks[0]
	for _, next := range toks[1:] {
		if cur.POS == model.Prefix && cur.NormalizedForm != "御" {
			cur = next.WithText(cur.Text + next.Text)
			continue
		}
		out = append(out, cur)
		cur = next
	}
	return append(out, cur)
}

func combineAmounts(toks []model.Token) []model.Token {
	if len(toks) < 2 {
		return toks
	}
	out := make([]model.Token, 0, len(toks))
	cur := toks[0]
	for _, next := range toks[1:] {
		isAmount := cur.HasSection(model.SectionAmount) || cur.HasSection(model.SectionNumeral)
		if isAmount && amountPairs[[2]string{cur.Text, next.Text}] {
			cur = next.WithText(cur.Text + next.Text).WithPOS(model.Noun)
			continue
		}
		out = append(out, cur)
		cur = next
	}
	return append(out, cur)
}

// combineTte glues a unit ending in っ to a following て.
func combineTte(toks []model.Token) []model.Token {
	return appendWhen(toks, func(cur, _, next model.Token) bool {
		return strings.HasSuffix(cur.Text, "っ") && strings.HasPrefix(next.Text, "て")
	})
}

func combineAuxiliaryVerbStem(toks []model.Token) []model.Token {
	return appendWhen(toks, func(_, prev, next model.Token) bool {
		return next.HasSection(model.SectionAuxiliaryVerbStem) &&
			!oneOf(next.Text, "ように", "よう", "みたい") &&
			posIn(prev.POS, model.Verb, model.IAdjective)
	})
}

// combineAdverbialParticle handles the たり/だり listing form.
func combineAdverbialParticle(toks []model.Token) []model.Token {
	return appendWhen(toks, func(cur, _, next model.Token) bool {
		return next.HasSection(model.SectionAdverbialParticle) &&
			oneOf(next.DictionaryForm, "だり", "たり") &&
			cur.POS == model.Verb
	})
}

func combineSuffix(toks []model.Token) []model.Token {
	return appendWhen(toks, func(_, prev, next model.Token) bool {
		isSuffix := next.POS == model.Suffix || next.HasSection(model.SectionSuffix)
		combinable := oneOf(next.DictionaryForm, "っこ", "さ", "がる") ||
			(next.DictionaryForm == "ら" && prev.POS == model.Pronoun)
		return isSuffix && combinable
	})
}

func combineAuxiliary(toks []model.Token) []model.Token {
	return appendWhen(toks, func(cur, _, next model.Token) bool {
		if next.POS != model.Auxiliary {
			return false
		}
		combinable := posIn(cur.POS, model.Verb, model.IAdjective, model.NaAdjective, model.Auxiliary) ||
			cur.HasSection(model.SectionAdjectival)
		// です stays apart except for でし/でした after a verb (ませんでした)
		desuException := next.DictionaryForm == "です" &&
			!(cur.POS == model.Verb && oneOf(next.Text, "でし", "でした"))
		return combinable && !desuException &&
			!oneOf(next.Text, "な", "に", "なら", "だろう") &&
			!oneOf(next.DictionaryForm, "らしい", "べし", "ようだ", "やがる")
	})
}

func combineVerbDependant(toks []model.Token) []model.Token {
	if len(toks) < 2 {
		return toks
	}
	toks = combineVerbDependants(toks)
	toks = combineVerbPossibleDependants(toks)
	toks = combineVerbSuru(toks)
	return combineVerbTeiru(toks)
}

func combineVerbDependants(toks []model.Token) []model.Token {
	return appendWhen(toks, func(cur, _, next model.Token) bool {
		return next.HasSection(model.SectionDependant) && cur.POS == model.Verb
	})
}

var possibleDependants = []string{
	"得る", "する", "しまう", "おる", "きる", "こなす", "いく", "貰う", "いる", "ない",
}

func combineVerbPossibleDependants(toks []model.Token) []model.Token {
	return appendWhen(toks, func(cur, _, next model.Token) bool {
		return next.HasSection(model.SectionPossibleDependant) &&
			cur.POS == model.Verb &&
			oneOf(next.DictionaryForm, possibleDependants...)
	})
}

// combineVerbSuru turns a suru-capable noun followed by a form of する
// into a verb. The bare する and しない stay separate.
func combineVerbSuru(toks []model.Token) []model.Token {
	if len(toks) < 2 {
		return toks
	}
	out := make([]model.Token, 0, len(toks))
	i := 0
	for i < len(toks) {
		cur := toks[i]
		if i+1 < len(toks) {
			next := toks[i+1]
			if cur.HasSection(model.SectionPossibleSuru) &&
				next.DictionaryForm == "する" && !oneOf(next.Text, "する", "しない") {
				out = append(out, cur.Append(next).WithPOS(model.Verb))
				i += 2
				continue
			}
		}
		out = append(out, cur)
		i++
	}
	return out
}

// combineVerbTeiru merges verb + て + いる.
func combineVerbTeiru(toks []model.Token) []model.Token {
	if len(toks) < 3 {
		return toks
	}
	out := make([]model.Token, 0, len(toks))
	i := 0
	for i < len(toks) {
		if i+2 < len(toks) {
			cur, te, iru := toks[i], toks[i+1], toks[i+2]
			if cur.POS == model.Verb && te.DictionaryForm == "て" && iru.DictionaryForm == "いる" {
				out = append(out, cur.Append(te).Append(iru))
				i += 3
				continue
			}
		}
		out = append(out, toks[i])
		i++
	}
	return out
}

func combineConjunctiveParticle(toks []model.Token) []model.Token {
	return appendWhen(toks, func(cur, _, next model.Token) bool {
		return next.HasSection(model.SectionConjunctionParticle) &&
			oneOf(next.Text, "て", "で", "ちゃ", "ば") &&
			posIn(cur.POS, model.Verb, model.IAdjective, model.Auxiliary)
	})
}

var particlePairs = map[[2]string]bool{
	{"に", "は"}: true,
	{"と", "は"}: true,
	{"で", "は"}: true,
	{"の", "に"}: true,
}

func combineParticles(toks []model.Token) []model.Token {
	if len(toks) < 2 {
		return toks
	}
	out := make([]model.Token, 0, len(toks))
	i := 0
	for i < len(toks) {
		cur := toks[i]
		if i+1 < len(toks) && particlePairs[[2]string{cur.Text, toks[i+1].Text}] {
			out = append(out, cur.Append(toks[i+1]))
			i += 2
			continue
		}
		out = append(out, cur)
		i++
	}
	return out
}

// combineFinal attaches a conditional ば left over after a verb.
func combineFinal(toks []model.Token) []model.Token {
	return appendWhen(toks, func(_, prev, next model.Token) bool {
		return next.Text == "ば" && prev.POS == model.Verb
	})
}

var honorifics = []string{"さん", "ちゃん", "くん"}

// separateHonorifics splits さん, ちゃん and くん off person and proper
// names. With split false the input is returned as is.
func separateHonorifics(toks []model.Token, split bool) []model.Token {
	if !split || len(toks) < 2 {
		return toks
	}
	out := make([]model.Token, 0, len(toks))
	for _, t := range toks {
		properNoun := t.HasSection(model.SectionPersonName) || t.HasSection(model.SectionProperNoun)
		separated := false
		for _, h := range honorifics {
			if !properNoun || !strings.HasSuffix(t.Text, h) || len(t.Text) <= len(h) {
				continue
			}
			name := t.WithText(strings.TrimSuffix(t.Text, h))
			name.DictionaryForm = strings.TrimSuffix(name.DictionaryForm, h)
			out = append(out, name, model.Token{Text: h, Reading: h, DictionaryForm: h, POS: model.Suffix})
			separated = true
			break
		}
		if !separated {
			out = append(out, t)
		}
	}
	return out
}
