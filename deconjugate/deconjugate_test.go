package deconjugate

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultEngine(t *testing.T) *Deconjugator {
	d, err := Default()
	require.NoError(t, err)
	return d
}

func findForm(forms []Form, text string) (Form, bool) {
	for _, f := range forms {
		if f.Text == text {
			return f, true
		}
	}
	return Form{}, false
}

func texts(forms []Form) []string {
	out := make([]string, len(forms))
	for i, f := range forms {
		out[i] = f.Text
	}
	return out
}

func TestDeconjugateCommonForms(t *testing.T) {
	d := defaultEngine(t)
	cases := []struct {
		input string
		want  string
	}{
		{"食べた", "食べる"},
		{"食べて", "食べる"},
		{"食べない", "食べる"},
		{"食べなかった", "食べる"},
		{"食べます", "食べる"},
		{"食べました", "食べる"},
		{"食べている", "食べる"},
		{"食べていた", "食べる"},
		{"食べたい", "食べる"},
		{"食べさせられる", "食べる"},
		{"食べたら", "食べる"},
		{"書いた", "書く"},
		{"読んだ", "読む"},
		{"読ます", "読む"},
		{"話さない", "話す"},
		{"待って", "待つ"},
		{"泳いだ", "泳ぐ"},
		{"勉強した", "勉強する"},
		{"勉強しない", "勉強する"},
		{"きた", "くる"},
		{"高かった", "高い"},
		{"高くない", "高い"},
		{"高そう", "高い"},
		{"よかった", "いい"},
		{"食べちゃった", "食べる"},
		{"しらねえ", "しる"},
	}
	for _, c := range cases {
		forms := d.Deconjugate(c.input)
		_, ok := findForm(forms, c.want)
		assert.True(t, ok, "%s should reach %s, got %v", c.input, c.want, texts(forms))
	}
}

func TestDeconjugatePastChain(t *testing.T) {
	d := defaultEngine(t)
	f, ok := findForm(d.Deconjugate("食べた"), "食べる")
	require.True(t, ok)
	assert.Equal(t, []string{"past"}, f.Process)
	assert.Equal(t, []string{"uninflectable", "v1"}, f.Tags)
	assert.Equal(t, "食べた", f.OriginalText)
}

func TestDeconjugateIncludesInput(t *testing.T) {
	d := defaultEngine(t)
	forms := d.Deconjugate("猫")
	require.NotEmpty(t, forms)
	assert.Equal(t, "猫", forms[0].Text)
	assert.Empty(t, forms[0].Process)
}

func TestDeconjugateEmpty(t *testing.T) {
	d := defaultEngine(t)
	assert.Empty(t, d.Deconjugate(""))
}

// Every derived form must differ from its parent, remember the texts on
// its path and log one description per firing.
func TestDeconjugateFormProperties(t *testing.T) {
	d := defaultEngine(t)
	for _, input := range []string{"食べさせられなかった", "行っていました", "読ませたくない", "しちゃった"} {
		forms := d.Deconjugate(input)
		keys := make(map[string]struct{})
		for _, f := range forms {
			k := f.key()
			_, dup := keys[k]
			assert.False(t, dup, "duplicate form %v", f)
			keys[k] = struct{}{}

			if len(f.Process) == 0 {
				assert.Equal(t, input, f.Text)
				continue
			}
			assert.True(t, f.Seen(f.OriginalText), "%v lacks original text", f)
			assert.True(t, f.Seen(f.Text), "%v lacks own text", f)
			assert.NotEqual(t, f.OriginalText, f.Text)
			assert.LessOrEqual(t, len(f.Tags), 2*len(f.Process))
		}
	}
}

func TestDeconjugateProcessCountsFirings(t *testing.T) {
	rules := []Rule{
		{Kind: Standard, Detail: "a", ConEnd: []string{"c"}, DecEnd: []string{"b"}, ConTag: []string{"x"}, DecTag: []string{"y"}},
		{Kind: Standard, Detail: "b", ConEnd: []string{"b"}, DecEnd: []string{"a"}, ConTag: []string{"y"}, DecTag: []string{"z"}},
	}
	d := New(rules)
	forms := d.Deconjugate("ac")
	require.Len(t, forms, 3)
	assert.Equal(t, []string{"ac", "ab", "aa"}, texts(forms))
	assert.Equal(t, []string{"a", "b"}, forms[2].Process)
	assert.Equal(t, []string{"x", "y", "z"}, forms[2].Tags)
	assert.Equal(t, []string{"aa", "ab", "ac"}, forms[2].SeenText)
}

func TestNoOpGuard(t *testing.T) {
	rules := []Rule{
		{Kind: Standard, Detail: "same", ConEnd: []string{"る"}, DecEnd: []string{"る"}, ConTag: []string{"v1"}, DecTag: []string{"v1"}},
		{Kind: Standard, Detail: "back", ConEnd: []string{"た"}, DecEnd: []string{"る"}, ConTag: []string{"t"}, DecTag: []string{"v1"}},
		{Kind: Standard, Detail: "forth", ConEnd: []string{"る"}, DecEnd: []string{"た"}, ConTag: []string{"v1"}, DecTag: []string{"t"}},
	}
	d := New(rules)
	forms := d.Deconjugate("見た")
	assert.Equal(t, []string{"見た", "見る"}, texts(forms))
}

func TestPruningBoundsGrowth(t *testing.T) {
	rules := []Rule{
		{Kind: Standard, Detail: "grow", ConEnd: []string{""}, DecEnd: []string{"あ"}, ConTag: []string{"g"}, DecTag: []string{"g"}},
	}
	d := New(rules)
	forms := d.Deconjugate("か")
	for _, f := range forms {
		assert.LessOrEqual(t, len([]rune(f.Text)), 1+maxTextGrowth+1)
		assert.LessOrEqual(t, len(f.Tags), 1+maxTagGrowth+2)
	}
	assert.NotEmpty(t, forms)
}

func TestRuleKinds(t *testing.T) {
	t.Run("rewrite needs whole text", func(t *testing.T) {
		d := New([]Rule{{Kind: Rewrite, Detail: "r", ConEnd: []string{"よく"}, DecEnd: []string{"いい"}}})
		assert.Len(t, d.Deconjugate("よく"), 2)
		assert.Len(t, d.Deconjugate("つよく"), 1)
	})
	t.Run("only final", func(t *testing.T) {
		d := New([]Rule{
			{Kind: Standard, Detail: "s", ConEnd: []string{"た"}, DecEnd: []string{"ろ"}, ConTag: []string{"a"}, DecTag: []string{"b"}},
			{Kind: OnlyFinal, Detail: "o", ConEnd: []string{"ろ"}, DecEnd: []string{"る"}, ConTag: []string{"b"}, DecTag: []string{"c"}},
		})
		assert.Equal(t, []string{"見た", "見ろ"}, texts(d.Deconjugate("見た")))
		assert.Equal(t, []string{"見ろ", "見る"}, texts(d.Deconjugate("見ろ")))
	})
	t.Run("never final", func(t *testing.T) {
		d := New([]Rule{
			{Kind: Standard, Detail: "s", ConEnd: []string{"ない"}, DecEnd: []string{""}, ConTag: []string{"a"}, DecTag: []string{"b"}},
			{Kind: NeverFinal, Detail: "n", ConEnd: []string{""}, DecEnd: []string{"る"}, ConTag: []string{"b"}, DecTag: []string{"c"}},
		})
		assert.Equal(t, []string{"見ない", "見", "見る"}, texts(d.Deconjugate("見ない")))
		assert.Equal(t, []string{"見"}, texts(d.Deconjugate("見")))
	})
	t.Run("substitution only first", func(t *testing.T) {
		d := New([]Rule{
			{Kind: Substitution, Detail: "sub", ConEnd: []string{"ちゃ"}, DecEnd: []string{"ては"}},
		})
		forms := d.Deconjugate("ちゃちゃ")
		assert.Equal(t, []string{"ちゃちゃ", "てはては"}, texts(forms))
		assert.Empty(t, forms[1].Tags)
	})
	t.Run("detail-less rule needs a tag", func(t *testing.T) {
		d := New([]Rule{{Kind: Standard, ConEnd: []string{"た"}, DecEnd: []string{"る"}, DecTag: []string{"v1"}}})
		assert.Len(t, d.Deconjugate("見た"), 1)
	})
}

func TestContextPredicates(t *testing.T) {
	trap := Rule{Kind: Context, Context: ContextV1InfTrap, Detail: "inf", ConEnd: []string{""}, DecEnd: []string{"る"}, ConTag: []string{stemRenTag}, DecTag: []string{"v1"}}
	assert.False(t, contextAllows(Form{Text: "見", Tags: []string{stemRenTag}}, trap))
	assert.True(t, contextAllows(Form{Text: "見"}, trap))
	assert.True(t, contextAllows(Form{Text: "見", Tags: []string{"masu", stemRenTag}}, trap))

	// a form whose only tag is the stem tag is not expanded by the trap rule
	d := New([]Rule{
		{Kind: OnlyFinal, Detail: "bare stem", ConEnd: []string{"ちゃ"}, DecEnd: []string{""}, ConTag: []string{stemRenTag}},
		trap,
	})
	forms := d.Deconjugate("見ちゃ")
	_, ok := findForm(forms, "見る")
	assert.False(t, ok, "%v", texts(forms))
	_, ok = findForm(forms, "見ちゃる")
	assert.True(t, ok)

	sa := Rule{Kind: Context, Context: ContextSaSpecial, Detail: "short causative", ConEnd: []string{"す"}, DecEnd: []string{"せる"}, ConTag: []string{"v5s"}, DecTag: []string{"v1"}}
	assert.False(t, contextAllows(Form{Text: "食べさす"}, sa))
	assert.True(t, contextAllows(Form{Text: "読ます"}, sa))
	assert.True(t, contextAllows(Form{Text: "す"}, sa))
	assert.False(t, contextAllows(Form{Text: "読む"}, sa))
}

func TestMemo(t *testing.T) {
	m := NewMemo(2)
	d := New([]Rule{
		{Kind: Standard, Detail: "past", ConEnd: []string{"た", "いた"}, DecEnd: []string{"る", "く"}, ConTag: []string{"uninflectable"}, DecTag: []string{"v1", "v5k"}},
	}, WithMemo(m))

	first := d.Deconjugate("食べた")
	assert.Equal(t, 1, m.Len())
	second := d.Deconjugate("食べた")
	assert.Equal(t, first, second)

	second[0].Tags = append(second[0].Tags, "mutated")
	third := d.Deconjugate("食べた")
	assert.Empty(t, third[0].Tags)

	d.Deconjugate(strings.Repeat("あ", DefaultMemoMaxTextLen+1))
	assert.Equal(t, 1, m.Len())

	d.Deconjugate("見た")
	d.Deconjugate("書いた")
	assert.Equal(t, 2, m.Len())

	m.Clear()
	assert.Equal(t, 0, m.Len())
}

func TestMemoSkipsLargeResults(t *testing.T) {
	m := NewMemo(0)
	forms := make([]Form, DefaultMemoMaxResults)
	m.Put("x", forms)
	assert.Equal(t, 0, m.Len())
	m.Put("x", forms[:3])
	assert.Equal(t, 1, m.Len())
}

func TestConcurrentDeconjugate(t *testing.T) {
	d, err := Default(WithMemo(NewMemo(0)))
	require.NoError(t, err)
	want := texts(New(d.rules).Deconjugate("読んでいた"))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, texts(d.Deconjugate("読んでいた")))
		}()
	}
	wg.Wait()
}
