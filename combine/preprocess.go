package combine

import (
	"regexp"
	"strings"

	"jplemma/kana"
)

// disallowed matches everything outside kana, kanji, CJK and fullwidth
// punctuation, ASCII letters and digits, and whitespace.
var disallowed = regexp.MustCompile(
	`[^\x{3040}-\x{309F}\x{30A0}-\x{30FF}\x{4E00}-\x{9FAF}` +
		`\x{FF21}-\x{FF3A}\x{FF41}-\x{FF5A}\x{FF10}-\x{FF19}\x{3005}` +
		`\x{3001}-\x{3003}\x{3008}-\x{3011}\x{3014}-\x{301F}` +
		`\x{FF01}-\x{FF0F}\x{FF1A}-\x{FF1F}\x{FF3B}-\x{FF3F}\x{FF5B}-\x{FF60}\x{FF62}-\x{FF65}` +
		`．…―\x{2500}\x{201C}\x{201D}\x{3000}()。！？「」）a-zA-Z0-9 \t\r\n]`,
)

var angleBrackets = strings.NewReplacer("<", " ", ">", " ")

// padding isolates quotes and brackets and breaks lines after sentence
// enders so the tokenizer never glues them to a word.
var padding = strings.NewReplacer(
	"「", "\n「 ",
	"」", " 」\n",
	"〈", " \n〈 ",
	"〉", " 〉\n",
	"《", " \n《 ",
	"》", " 》\n",
	"“", " \n“ ",
	"”", " ”\n",
	"―", " ― ",
	"。", " 。\n",
	"！", " ！\n",
	"？", " ？\n",
)

// lineEndEllipsis turns a line ending … into a sentence ender.
var lineEndEllipsis = strings.NewReplacer("…\r", "。\r", "…\n", "。\n")

// Preprocess prepares text for the tokenizer.
func Preprocess(text string) string {
	text = angleBrackets.Replace(text)
	text = disallowed.ReplaceAllString(text, "")
	text = padding.Replace(text)
	text = lineEndEllipsis.Replace(text)
	return kana.ToFullWidthDigits(text)
}

// CleanText applies the character level cleaning of Preprocess without the
// padding. Word offsets are computed against it.
func CleanText(text string) string {
	text = angleBrackets.Replace(text)
	text = disallowed.ReplaceAllString(text, "")
	text = lineEndEllipsis.Replace(text)
	return kana.ToFullWidthDigits(text)
}
