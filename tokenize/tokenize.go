package tokenize

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome-dict/uni"
	"github.com/ikawaha/kagome/v2/tokenizer"
	"github.com/rs/zerolog/log"
)

// Mode selects how aggressively compounds are split.
type Mode int

const (
	// Normal keeps dictionary compounds whole.
	Normal Mode = iota
	// Search splits long compounds into their parts.
	Search
	// Extended additionally splits unknown words into characters.
	Extended
)

func (m Mode) kagome() tokenizer.TokenizeMode {
	switch m {
	case Search:
		return tokenizer.Search
	case Extended:
		return tokenizer.Extended
	default:
		return tokenizer.Normal
	}
}

// Tokenizer turns preprocessed text into newline separated morpheme
// records terminated by an EOS line (see FormatRecord).
type Tokenizer interface {
	Tokenize(ctx context.Context, text string, mode Mode) (string, error)
}

// Dictionary names accepted by NewKagome.
const (
	DictIPA = "ipa"
	DictUni = "uni"
)

// uniLemmaIndex is the UniDic feature holding the lemma (語彙素).
const uniLemmaIndex = 7

// Kagome is a Tokenizer backed by kagome. Calls are serialised.
type Kagome struct {
	mu       sync.Mutex
	t        *tokenizer.Tokenizer
	dictName string
}

// NewKagome builds a tokenizer over the named system dictionary.
func NewKagome(dictName string) (*Kagome, error) {
	var (
		t   *tokenizer.Tokenizer
		err error
	)
	switch dictName {
	case DictIPA:
		t, err = tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	case DictUni, "":
		dictName = DictUni
		t, err = tokenizer.New(uni.Dict(), tokenizer.OmitBosEos())
	default:
		return nil, fmt.Errorf("unknown tokenizer dictionary %q", dictName)
	}
	if err != nil {
		return nil, fmt.Errorf("init kagome (%s): %w", dictName, err)
	}
	log.Info().Str("dict", dictName).Msg("[tokenize.NewKagome] tokenizer ready")
	return &Kagome{t: t, dictName: dictName}, nil
}

func (k *Kagome) Tokenize(ctx context.Context, text string, mode Mode) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	k.mu.Lock()
	toks := k.t.Analyze(text, mode.kagome())
	k.mu.Unlock()

	var sb strings.Builder
	for _, kt := range toks {
		if kt.Class == tokenizer.DUMMY || strings.TrimFunc(kt.Surface, unicode.IsSpace) == "" {
			continue
		}
		sb.WriteString(k.record(kt))
		sb.WriteByte('\n')
	}
	sb.WriteString(EOS)
	sb.WriteByte('\n')
	return sb.String(), nil
}

func (k *Kagome) record(kt tokenizer.Token) string {
	var pos [4]string
	copy(pos[:], kt.POS())

	base, ok := kt.BaseForm()
	if !ok || base == "" || base == "*" {
		base = kt.Surface
	}
	reading, ok := kt.Reading()
	if !ok || reading == "*" {
		reading = ""
	}
	normalized := base
	if k.dictName == DictUni {
		if f := kt.Features(); len(f) > uniLemmaIndex && f[uniLemmaIndex] != "*" {
			normalized = f[uniLemmaIndex]
			// loanword lemmas carry their source spelling: ペン-pen
			if i := strings.Index(normalized, "-"); i > 0 {
				normalized = normalized[:i]
			}
		}
	}
	return FormatRecord(kt.Surface, pos, normalized, base, reading)
}

// Func adapts a plain function to the Tokenizer interface.
type Func func(ctx context.Context, text string, mode Mode) (string, error)

func (f Func) Tokenize(ctx context.Context, text string, mode Mode) (string, error) {
	return f(ctx, text, mode)
}
