// Package deconjugate undoes Japanese verb and adjective inflection by a
// breadth-first search over a table of reverse conjugation rules.
package deconjugate

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"
)

//go:embed rules.yaml
var defaultRules []byte

const (
	maxTextGrowth = 10
	maxTagGrowth  = 6
)

// Deconjugator holds a rule table and its virtual rules. It is safe for
// concurrent use once built.
type Deconjugator struct {
	rules   []Rule
	virtual [][]virtualRule
	memo    *Memo
}

// Option configures a Deconjugator.
type Option func(*Deconjugator)

// WithMemo shares results across calls through m.
func WithMemo(m *Memo) Option {
	return func(d *Deconjugator) {
		d.memo = m
	}
}

// New builds a Deconjugator and expands the virtual rules of every rule.
func New(rules []Rule, opts ...Option) *Deconjugator {
	d := &Deconjugator{
		rules:   rules,
		virtual: make([][]virtualRule, len(rules)),
	}
	for i, r := range rules {
		d.virtual[i] = r.virtualRules()
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Default builds a Deconjugator over the embedded rule table.
func Default(opts ...Option) (*Deconjugator, error) {
	rules, err := LoadRules(bytes.NewReader(defaultRules))
	if err != nil {
		return nil, err
	}
	return New(rules, opts...), nil
}

// FromFile builds a Deconjugator over a rule table on disk.
func FromFile(path string, opts ...Option) (*Deconjugator, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrRuleTable, err)
	}
	defer f.Close()
	rules, err := LoadRules(f)
	if err != nil {
		return nil, fmt.Errorf("load rules %s: %w", path, err)
	}
	return New(rules, opts...), nil
}

// Rules returns the number of rules loaded.
func (d *Deconjugator) Rules() int {
	return len(d.rules)
}

// formSet keeps forms in insertion order.
type formSet struct {
	keys  map[string]struct{}
	forms []Form
}

func newFormSet() *formSet {
	return &formSet{keys: make(map[string]struct{})}
}

func (s *formSet) has(k string) bool {
	_, ok := s.keys[k]
	return ok
}

func (s *formSet) add(k string, f Form) {
	s.keys[k] = struct{}{}
	s.forms = append(s.forms, f)
}

// Deconjugate returns every form reachable from text, the unchanged input
// included. Forms come in discovery order. Empty text yields nothing.
func (d *Deconjugator) Deconjugate(text string) []Form {
	if text == "" {
		return nil
	}
	if d.memo != nil {
		if forms, ok := d.memo.Get(text); ok {
			return forms
		}
	}

	processed := newFormSet()
	novel := newFormSet()
	start := initialForm(text)
	novel.add(start.key(), start)

	for len(novel.forms) > 0 {
		next := newFormSet()
		for _, form := range novel.forms {
			if d.skip(form) {
				continue
			}
			for i := range d.rules {
				for _, f := range d.apply(form, i) {
					k := f.key()
					if processed.has(k) || novel.has(k) || next.has(k) {
						continue
					}
					next.add(k, f)
				}
			}
		}
		for i, f := range novel.forms {
			k := f.key()
			if !processed.has(k) {
				processed.add(k, novel.forms[i])
			}
		}
		novel = next
	}

	if d.memo != nil {
		d.memo.Put(text, processed.forms)
	}
	return processed.forms
}

func (d *Deconjugator) skip(f Form) bool {
	n := utf8.RuneCountInString(f.OriginalText)
	return f.Text == "" ||
		utf8.RuneCountInString(f.Text) > n+maxTextGrowth ||
		len(f.Tags) > n+maxTagGrowth
}

func (d *Deconjugator) apply(f Form, i int) []Form {
	r := d.rules[i]
	switch r.Kind {
	case Standard:
		return d.applyStandard(f, i)
	case Rewrite:
		if f.Text != r.ConEnd[0] {
			return nil
		}
		return d.applyStandard(f, i)
	case OnlyFinal:
		if len(f.Tags) > 0 {
			return nil
		}
		return d.applyStandard(f, i)
	case NeverFinal:
		if len(f.Tags) == 0 {
			return nil
		}
		return d.applyStandard(f, i)
	case Context:
		if !contextAllows(f, r) {
			return nil
		}
		return d.applyStandard(f, i)
	case Substitution:
		return d.applySubstitution(f, i)
	default:
		panic(fmt.Sprintf("unhandled rule kind %d", r.Kind))
	}
}

func contextAllows(f Form, r Rule) bool {
	switch r.Context {
	case ContextV1InfTrap:
		return !(len(f.Tags) == 1 && f.Tags[0] == stemRenTag)
	case ContextSaSpecial:
		conEnd := r.ConEnd[0]
		if f.Text == "" || !strings.HasSuffix(f.Text, conEnd) {
			return false
		}
		prefix := f.Text[:len(f.Text)-len(conEnd)]
		last, _ := utf8.DecodeLastRuneInString(prefix)
		return prefix == "" || last != 'さ'
	}
	return true
}

func (d *Deconjugator) applyStandard(f Form, i int) []Form {
	// a rule without a description never starts a chain
	if d.rules[i].Detail == "" && len(f.Tags) == 0 {
		return nil
	}
	var out []Form
	for _, vr := range d.virtual[i] {
		if !strings.HasSuffix(f.Text, vr.conEnd) {
			continue
		}
		if len(f.Tags) > 0 && f.Tags[len(f.Tags)-1] != vr.conTag {
			continue
		}
		text := f.Text[:len(f.Text)-len(vr.conEnd)] + vr.decEnd
		if text == f.OriginalText || text == f.Text {
			continue
		}
		out = append(out, f.derive(text, vr.conTag, vr.decTag, vr.detail, true))
	}
	return out
}

func (d *Deconjugator) applySubstitution(f Form, i int) []Form {
	if len(f.Process) > 0 || f.Text == "" {
		return nil
	}
	var out []Form
	for _, vr := range d.virtual[i] {
		if vr.conEnd == "" || !strings.Contains(f.Text, vr.conEnd) {
			continue
		}
		text := strings.ReplaceAll(f.Text, vr.conEnd, vr.decEnd)
		if text == f.Text {
			continue
		}
		out = append(out, f.derive(text, "", "", vr.detail, false))
	}
	return out
}
