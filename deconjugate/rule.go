package deconjugate

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ErrRuleTable marks a rule table that cannot be loaded. Callers treat it
// as a startup failure.
var ErrRuleTable = errors.New("invalid deconjugation rule table")

// Kind selects how a rule is applied.
type Kind int

const (
	// Standard swaps a conjugated ending for a dictionary ending.
	Standard Kind = iota
	// Rewrite is Standard restricted to a whole-text match.
	Rewrite
	// OnlyFinal fires only on forms without tags.
	OnlyFinal
	// NeverFinal fires only on forms with tags.
	NeverFinal
	// Context is Standard gated by a named predicate.
	Context
	// Substitution replaces a literal anywhere in the untransformed text.
	Substitution
)

var kindNames = map[string]Kind{
	"stdrule":        Standard,
	"rewriterule":    Rewrite,
	"onlyfinalrule":  OnlyFinal,
	"neverfinalrule": NeverFinal,
	"contextrule":    Context,
	"substitution":   Substitution,
}

func (k Kind) String() string {
	for n, v := range kindNames {
		if v == k {
			return n
		}
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Context predicate names.
const (
	// ContextV1InfTrap rejects a form whose only tag is the
	// continuative stem tag.
	ContextV1InfTrap = "v1inftrap"
	// ContextSaSpecial rejects a match preceded by さ.
	ContextSaSpecial = "saspecial"
)

const stemRenTag = "stem-ren"

// Rule is one entry of the rule table. DecEnd, ConEnd, DecTag and ConTag
// are parallel lists; a shorter list repeats its first element.
type Rule struct {
	Kind    Kind
	Detail  string
	DecEnd  []string
	ConEnd  []string
	DecTag  []string
	ConTag  []string
	Context string
}

// virtualRule is a single ending/tag combination of a Rule.
type virtualRule struct {
	decEnd string
	conEnd string
	decTag string
	conTag string
	detail string
}

func nth(list []string, i int) string {
	if i < len(list) {
		return list[i]
	}
	if len(list) > 0 {
		return list[0]
	}
	return ""
}

func (r Rule) virtualRules() []virtualRule {
	out := make([]virtualRule, len(r.DecEnd))
	for i := range r.DecEnd {
		out[i] = virtualRule{
			decEnd: nth(r.DecEnd, i),
			conEnd: nth(r.ConEnd, i),
			decTag: nth(r.DecTag, i),
			conTag: nth(r.ConTag, i),
			detail: r.Detail,
		}
	}
	return out
}

// stringList accepts either a scalar or a sequence.
type stringList []string

func (s *stringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			*s = nil
			return nil
		}
		*s = stringList{value.Value}
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := value.Decode(&items); err != nil {
			return err
		}
		*s = items
		return nil
	default:
		return fmt.Errorf("line %d: expected string or list", value.Line)
	}
}

type rawRule struct {
	Type    string     `yaml:"type"`
	Detail  string     `yaml:"detail"`
	DecEnd  stringList `yaml:"dec_end"`
	ConEnd  stringList `yaml:"con_end"`
	DecTag  stringList `yaml:"dec_tag"`
	ConTag  stringList `yaml:"con_tag"`
	Context string     `yaml:"context"`
}

func (rr rawRule) rule(i int) (Rule, error) {
	kind, ok := kindNames[rr.Type]
	if !ok {
		return Rule{}, fmt.Errorf("%w: rule %d: unknown type %q", ErrRuleTable, i, rr.Type)
	}
	if len(rr.DecEnd) == 0 || len(rr.ConEnd) == 0 {
		return Rule{}, fmt.Errorf("%w: rule %d: missing endings", ErrRuleTable, i)
	}
	if kind == Context && rr.Context != ContextV1InfTrap && rr.Context != ContextSaSpecial {
		return Rule{}, fmt.Errorf("%w: rule %d: unknown context %q", ErrRuleTable, i, rr.Context)
	}
	return Rule{
		Kind:    kind,
		Detail:  rr.Detail,
		DecEnd:  rr.DecEnd,
		ConEnd:  rr.ConEnd,
		DecTag:  rr.DecTag,
		ConTag:  rr.ConTag,
		Context: rr.Context,
	}, nil
}

// LoadRules reads a YAML rule table.
func LoadRules(r io.Reader) ([]Rule, error) {
	var raw []rawRule
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrRuleTable, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: no rules", ErrRuleTable)
	}
	rules := make([]Rule, len(raw))
	for i, rr := range raw {
		rule, err := rr.rule(i)
		if err != nil {
			return nil, err
		}
		rules[i] = rule
	}
	return rules, nil
}
