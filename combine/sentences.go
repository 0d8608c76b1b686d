package combine

import (
	"strings"

	"jplemma/model"
)

func isSentenceEnder(r rune) bool {
	switch r {
	case '。', '！', '？', '」':
		return true
	}
	return false
}

// splitRaw cuts text after each run of sentence enders. Line breaks are
// removed first so a sentence wrapped over two lines stays whole.
func splitRaw(text string) [][]rune {
	text = strings.NewReplacer("\r", "", "\n", "").Replace(text)
	var (
		sentences [][]rune
		cur       []rune
		seenEnder bool
	)
	for _, r := range text {
		if isSentenceEnder(r) {
			cur = append(cur, r)
			seenEnder = true
			continue
		}
		if seenEnder {
			sentences = append(sentences, cur)
			cur = nil
			seenEnder = false
		}
		cur = append(cur, r)
	}
	if len(cur) > 0 {
		sentences = append(sentences, cur)
	}
	return sentences
}

func runeIndex(hay, needle []rune, from int) int {
	for i := from; i+len(needle) <= len(hay); i++ {
		match := true
		for j, r := range needle {
			if hay[i+j] != r {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

func hasRunePrefix(s, prefix []rune) bool {
	return len(prefix) <= len(s) && runeIndex(s[:len(prefix)], prefix, 0) == 0
}

func hasRuneSuffix(s, suffix []rune) bool {
	return len(suffix) <= len(s) && runeIndex(s[len(s)-len(suffix):], suffix, 0) == 0
}

type sentenceBuilder struct {
	text  []rune
	words []model.WordSpan
}

// SplitSentences segments cleaned text into sentences and places every
// unit in order. Offsets are rune positions in the sentence text. A unit
// spanning a sentence boundary merges the two sentences. Units that cannot
// be found are dropped.
func SplitSentences(text string, units []model.Token) []model.Sentence {
	raw := splitRaw(text)
	sentences := make([]*sentenceBuilder, len(raw))
	for i, r := range raw {
		sentences[i] = &sentenceBuilder{text: r}
	}

	idx, pos := 0, 0
	for _, u := range units {
		if u.Text == "" {
			continue
		}
		word := []rune(u.Text)
		assigned := false
		for idx < len(sentences) && !assigned {
			s := sentences[idx]
			if at := runeIndex(s.text, word, pos); at >= 0 {
				s.words = append(s.words, model.WordSpan{Token: u, Start: at, Length: len(word)})
				pos = at + len(word)
				assigned = true
				continue
			}
			if idx+1 < len(sentences) && straddles(s.text[pos:], sentences[idx+1].text, word) {
				s.text = append(s.text, sentences[idx+1].text...)
				sentences = append(sentences[:idx+1], sentences[idx+2:]...)
				if at := runeIndex(s.text, word, pos); at >= 0 {
					s.words = append(s.words, model.WordSpan{Token: u, Start: at, Length: len(word)})
					pos = at + len(word)
					assigned = true
					continue
				}
			}
			idx++
			pos = 0
		}
	}

	out := make([]model.Sentence, len(sentences))
	for i, s := range sentences {
		out[i] = model.Sentence{Text: string(s.text), Words: s.words}
	}
	return out
}

// straddles reports whether word starts at the end of remaining and goes
// on at the start of next.
func straddles(remaining, next, word []rune) bool {
	for i := 1; i < len(word); i++ {
		if hasRuneSuffix(remaining, word[:i]) && hasRunePrefix(next, word[i:]) {
			return true
		}
	}
	return false
}
