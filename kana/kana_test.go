package kana

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToHiragana(t *testing.T) {
	assert.Equal(t, "いりみないかわ", ToHiragana("イリミナイカワ"))
	assert.Equal(t, "らーめん", ToHiragana("ラーメン"))
	assert.Equal(t, "食べる", ToHiragana("食べる"))
	assert.Equal(t, "カワ", ToKatakana("かわ"))
}

func TestToHiraganaLongVowels(t *testing.T) {
	assert.Equal(t, "らあめん", ToHiraganaLongVowels("ラーメン"))
	assert.Equal(t, "こおひい", ToHiraganaLongVowels("コーヒー"))
	assert.Equal(t, "ー", ToHiraganaLongVowels("ー"))
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsKana("たべる"))
	assert.True(t, IsKana("ラーメン"))
	assert.False(t, IsKana("食べる"))
	assert.False(t, IsKana(""))

	assert.True(t, IsJapanese("食べる。"))
	assert.False(t, IsJapanese("abc"))
	assert.True(t, ContainsJapanese("abc猫"))
	assert.False(t, ContainsJapanese("abc ー"))
}

func TestDigits(t *testing.T) {
	assert.Equal(t, "２０２４年", ToFullWidthDigits("2024年"))
	assert.Equal(t, "2024年", ToHalfWidthDigits("２０２４年"))
	assert.True(t, IsDigits("１２3"))
	assert.False(t, IsDigits("12a"))
	assert.False(t, IsDigits(""))
}

func TestIsSingleLatinLetter(t *testing.T) {
	assert.True(t, IsSingleLatinLetter("a"))
	assert.True(t, IsSingleLatinLetter("Ｂ"))
	assert.False(t, IsSingleLatinLetter("ab"))
	assert.False(t, IsSingleLatinLetter("あ"))
}
