// Package kana holds the phonetic transforms and script predicates
// shared by the tokenizer, the dictionary importer and the resolver.
package kana

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/width"
)

const prolongedSoundMark = 'ー'

// IsHiragana reports whether r is in the hiragana block.
func IsHiragana(r rune) bool {
	return r >= 0x3041 && r <= 0x309F
}

// IsKatakana reports whether r is in the katakana block, halfwidth forms
// included.
func IsKatakana(r rune) bool {
	return (r >= 0x30A0 && r <= 0x30FF) || (r >= 0xFF66 && r <= 0xFF9F)
}

func IsKanji(r rune) bool {
	return (r >= 0x4E00 && r <= 0x9FFF) || (r >= 0x3400 && r <= 0x4DBF) || r == '々' || r == '〆'
}

func isKanaRune(r rune) bool {
	return IsHiragana(r) || IsKatakana(r) || r == prolongedSoundMark
}

// IsKana reports whether s is non-empty and written in kana only.
func IsKana(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isKanaRune(r) {
			return false
		}
	}
	return true
}

func isJapaneseRune(r rune) bool {
	return isKanaRune(r) || IsKanji(r) ||
		(r >= 0x3000 && r <= 0x303F) || // CJK punctuation
		(r >= 0xFF01 && r <= 0xFF5E) // fullwidth forms
}

// IsJapanese reports whether s is non-empty and made of Japanese script,
// Japanese punctuation and fullwidth characters only.
func IsJapanese(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isJapaneseRune(r) {
			return false
		}
	}
	return true
}

// ContainsJapanese reports whether s has at least one kana or kanji.
func ContainsJapanese(s string) bool {
	for _, r := range s {
		if (isKanaRune(r) && r != prolongedSoundMark) || IsKanji(r) {
			return true
		}
	}
	return false
}

// ToHiragana folds katakana to hiragana. The prolonged sound mark is kept.
func ToHiragana(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 0x30A1 && r <= 0x30F6 {
			return r - 0x60
		}
		return r
	}, s)
}

// ToKatakana folds hiragana to katakana.
func ToKatakana(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 0x3041 && r <= 0x3096 {
			return r + 0x60
		}
		return r
	}, s)
}

// ToHiraganaLongVowels folds to hiragana and replaces every prolonged
// sound mark following kana with the vowel of that kana (ラーメン -> らあめん).
func ToHiraganaLongVowels(s string) string {
	runes := []rune(ToHiragana(s))
	for i, r := range runes {
		if r != prolongedSoundMark || i == 0 {
			continue
		}
		if v, ok := vowelOf(runes[i-1]); ok {
			runes[i] = v
		}
	}
	return string(runes)
}

var vowelRows = map[rune]string{
	'あ': "あかさたなはまやらわがざだばぱぁゃゎ",
	'い': "いきしちにひみりぎじぢびぴぃ",
	'う': "うくすつぬふむゆるぐずづぶぷぅゅっゔ",
	'え': "えけせてねへめれげぜでべぺぇ",
	'お': "おこそとのほもよろをごぞどぼぽぉょ",
}

var vowelByRune = func() map[rune]rune {
	out := make(map[rune]rune)
	for v, row := range vowelRows {
		for _, r := range row {
			out[r] = v
		}
	}
	return out
}()

func vowelOf(r rune) (rune, bool) {
	v, ok := vowelByRune[r]
	return v, ok
}

// ToFullWidthDigits widens ASCII digits, leaving everything else alone.
func ToFullWidthDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return width.LookupRune(r).Wide()
		}
		return r
	}, s)
}

// ToHalfWidthDigits narrows fullwidth digits.
func ToHalfWidthDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '０' && r <= '９' {
			return width.LookupRune(r).Narrow()
		}
		return r
	}, s)
}

// IsDigits reports whether s is non-empty and made of ASCII or fullwidth
// digits.
func IsDigits(s string) bool {
	s = ToHalfWidthDigits(s)
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// IsSingleLatinLetter reports whether s is exactly one ASCII or fullwidth
// Latin letter.
func IsSingleLatinLetter(s string) bool {
	if utf8.RuneCountInString(s) != 1 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r >= 0xFF21 && r <= 0xFF5A {
		r = width.LookupRune(r).Narrow()
	}
	return r < unicode.MaxASCII && unicode.IsLetter(r)
}
