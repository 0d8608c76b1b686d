package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePartOfSpeech(t *testing.T) {
	cases := map[string]PartOfSpeech{
		"名詞":     Noun,
		"動詞":     Verb,
		"v5r":    Verb,
		"vs-i":   Verb,
		"adj-i":  IAdjective,
		"形状詞":    NaAdjective,
		"助動詞":    Auxiliary,
		"接頭詞":    Prefix,
		"surname": Name,
		"n-suf":  NounSuffix,
		"uk":     Unknown,
		"":       Unknown,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParsePartOfSpeech(in), in)
	}
}

func TestParseSection(t *testing.T) {
	assert.Equal(t, SectionNone, ParseSection("*"))
	assert.Equal(t, SectionDependant, ParseSection("非自立"))
	assert.Equal(t, SectionPossibleDependant, ParseSection("非自立可能"))
	assert.Equal(t, SectionPossibleSuru, ParseSection("サ変可能"))
	assert.Equal(t, SectionName, ParseSection("given"))
	assert.Equal(t, SectionNone, ParseSection("nonsense"))
}

func TestTokenValueSemantics(t *testing.T) {
	a := Token{Text: "食べ", POS: Verb}
	b := a.Append(Token{Text: "る"})
	assert.Equal(t, "食べ", a.Text)
	assert.Equal(t, "食べる", b.Text)
	assert.Equal(t, Noun, a.WithPOS(Noun).POS)
	assert.Equal(t, Verb, a.POS)
}

func TestResolvedWordClone(t *testing.T) {
	w := ResolvedWord{WordID: 1, Conjugations: []string{"past"}, PartsOfSpeech: []PartOfSpeech{Verb}}
	c := w.Clone()
	c.Conjugations[0] = "changed"
	c.PartsOfSpeech[0] = Noun
	assert.Equal(t, "past", w.Conjugations[0])
	assert.Equal(t, Verb, w.PartsOfSpeech[0])
}

func TestEnumJSON(t *testing.T) {
	b, err := json.Marshal(Token{Text: "猫", POS: Noun, Sections: [3]Section{SectionCommon}})
	assert.NoError(t, err)
	assert.Contains(t, string(b), `"pos":"noun"`)
	assert.Contains(t, string(b), `"sections":["common","none","none"]`)

	var tok Token
	assert.NoError(t, json.Unmarshal(b, &tok))
	assert.Equal(t, Noun, tok.POS)
	assert.Equal(t, SectionCommon, tok.Sections[0])
}
