package model

import (
	"fmt"
	"strings"
)

// PartOfSpeech is the primary word class of a unit or dictionary entry.
type PartOfSpeech int

const (
	Unknown PartOfSpeech = iota
	Noun
	Verb
	IAdjective
	Adverb
	Particle
	Conjunction
	Auxiliary
	Adnominal
	Interjection
	Symbol
	Prefix
	Filler
	Name
	Pronoun
	NaAdjective
	Suffix
	CommonNoun
	SupplementarySymbol
	BlankSpace
	Expression
	NominalAdjective
	Numeral
	PrenounAdjectival
	Counter
	AdverbTo
	NounSuffix
)

var posNames = [...]string{
	"unknown", "noun", "verb", "i-adjective", "adverb", "particle",
	"conjunction", "auxiliary", "adnominal", "interjection", "symbol",
	"prefix", "filler", "name", "pronoun", "na-adjective", "suffix",
	"common-noun", "supplementary-symbol", "blank-space", "expression",
	"nominal-adjective", "numeral", "prenoun-adjectival", "counter",
	"adverb-to", "noun-suffix",
}

func (p PartOfSpeech) String() string {
	if p < 0 || int(p) >= len(posNames) {
		return fmt.Sprintf("PartOfSpeech(%d)", int(p))
	}
	return posNames[p]
}

func (p PartOfSpeech) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *PartOfSpeech) UnmarshalText(b []byte) error {
	for i, n := range posNames {
		if n == string(b) {
			*p = PartOfSpeech(i)
			return nil
		}
	}
	return fmt.Errorf("unknown part of speech %q", string(b))
}

// nameTags lists JMnedict name types, all mapped to Name / SectionName.
var nameTags = []string{
	"名", "company", "given", "place", "person", "product", "ship",
	"surname", "unclass", "name-fem", "name-masc", "station", "group",
	"char", "creat", "dei", "doc", "ev", "fem", "fict", "leg",
	"masc", "myth", "obj", "organization", "oth", "relig", "serv",
	"work", "unc", "name",
}

var posByTag = map[string]PartOfSpeech{
	"名詞": Noun, "n": Noun,
	"動詞":  Verb,
	"形容詞": IAdjective, "adj-i": IAdjective, "adj-ix": IAdjective,
	"形状詞": NaAdjective, "adj-na": NaAdjective,
	"副詞": Adverb, "adv": Adverb,
	"助詞": Particle, "prt": Particle,
	"接続詞": Conjunction, "conj": Conjunction,
	"助動詞": Auxiliary, "aux": Auxiliary, "aux-v": Auxiliary,
	"感動詞": Interjection, "int": Interjection,
	"記号":  Symbol,
	"接頭詞": Prefix, "接頭辞": Prefix, "pref": Prefix,
	"フィラー": Filler,
	"代名詞":  Pronoun, "pn": Pronoun,
	"接尾辞": Suffix, "suf": Suffix,
	"普通名詞": CommonNoun,
	"補助記号": SupplementarySymbol,
	"空白":   BlankSpace,
	"表現":   Expression, "exp": Expression,
	"形動": NominalAdjective, "adj-no": NominalAdjective, "adj-t": NominalAdjective, "adj-f": NominalAdjective,
	"連体詞": PrenounAdjectival, "adj-pn": PrenounAdjectival,
	"数詞": Numeral, "num": Numeral,
	"助数詞": Counter, "ctr": Counter,
	"副詞的と": AdverbTo, "adv-to": AdverbTo,
	"名詞接尾辞": NounSuffix, "n-suf": NounSuffix,
}

func init() {
	for _, t := range nameTags {
		posByTag[t] = Name
		sectionByTag[t] = SectionName
	}
}

// ParsePartOfSpeech maps a tokenizer POS tag or a JMdict code to a
// PartOfSpeech. Every JMdict code starting with "v" is a verb class.
func ParsePartOfSpeech(tag string) PartOfSpeech {
	if p, ok := posByTag[tag]; ok {
		return p
	}
	if strings.HasPrefix(tag, "v") {
		return Verb
	}
	return Unknown
}

// ParsePartsOfSpeech maps every code of a list.
func ParsePartsOfSpeech(tags []string) []PartOfSpeech {
	out := make([]PartOfSpeech, len(tags))
	for i, t := range tags {
		out[i] = ParsePartOfSpeech(t)
	}
	return out
}

// Section is a POS sub-tag.
type Section int

const (
	SectionNone Section = iota
	SectionAmount
	SectionAlphabet
	SectionFullStop
	SectionBlankSpace
	SectionSuffix
	SectionPronoun
	SectionIndependant
	SectionDependant
	SectionFiller
	SectionCommon
	SectionSentenceEndingParticle
	SectionCounter
	SectionParallelMarker
	SectionBindingParticle
	SectionPotentialAdverb
	SectionCaseMarkingParticle
	SectionIrregularConjunction
	SectionConjunctionParticle
	SectionAuxiliaryVerbStem
	SectionAdjectivalStem
	SectionCompoundWord
	SectionQuotation
	SectionNounConjunction
	SectionAdverbialParticle
	SectionConjunctiveParticleClass
	SectionAdverbialization
	SectionAdverbialParallelOrEndingParticle
	SectionAdnominalAdjective
	SectionProperNoun
	SectionSpecial
	SectionVerbConjunction
	SectionPersonName
	SectionFamilyName
	SectionOrganization
	SectionNotAdjectiveStem
	SectionComma
	SectionOpeningBracket
	SectionClosingBracket
	SectionRegion
	SectionCountry
	SectionNumeral
	SectionPossibleDependant
	SectionCommonNoun
	SectionSubstantiveAdjective
	SectionPossibleCounterWord
	SectionPossibleSuru
	SectionJuntaijoushi
	SectionPossibleNaAdjective
	SectionVerbLike
	SectionPossibleVerbSuruNoun
	SectionAdjectival
	SectionNaAdjectiveLike
	SectionName
	SectionLetter
	SectionPlaceName
	SectionTaruAdjective
)

var sectionNames = [...]string{
	"none", "amount", "alphabet", "full-stop", "blank-space", "suffix",
	"pronoun", "independant", "dependant", "filler", "common",
	"sentence-ending-particle", "counter", "parallel-marker",
	"binding-particle", "potential-adverb", "case-marking-particle",
	"irregular-conjunction", "conjunction-particle", "auxiliary-verb-stem",
	"adjectival-stem", "compound-word", "quotation", "noun-conjunction",
	"adverbial-particle", "conjunctive-particle-class", "adverbialization",
	"adverbial-parallel-or-ending-particle", "adnominal-adjective",
	"proper-noun", "special", "verb-conjunction", "person-name",
	"family-name", "organization", "not-adjective-stem", "comma",
	"opening-bracket", "closing-bracket", "region", "country", "numeral",
	"possible-dependant", "common-noun", "substantive-adjective",
	"possible-counter-word", "possible-suru", "juntaijoushi",
	"possible-na-adjective", "verb-like", "possible-verb-suru-noun",
	"adjectival", "na-adjective-like", "name", "letter", "place-name",
	"taru-adjective",
}

func (s Section) String() string {
	if s < 0 || int(s) >= len(sectionNames) {
		return fmt.Sprintf("Section(%d)", int(s))
	}
	return sectionNames[s]
}

func (s Section) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Section) UnmarshalText(b []byte) error {
	for i, n := range sectionNames {
		if n == string(b) {
			*s = Section(i)
			return nil
		}
	}
	return fmt.Errorf("unknown section %q", string(b))
}

var sectionByTag = map[string]Section{
	"*":       SectionNone,
	"数":       SectionAmount,
	"アルファベット": SectionAlphabet,
	"句点":      SectionFullStop,
	"空白":      SectionBlankSpace,
	"接尾":      SectionSuffix, "suf": SectionSuffix,
	"代名詞": SectionPronoun, "pn": SectionPronoun,
	"自立":   SectionIndependant,
	"フィラー": SectionFiller,
	"一般":   SectionCommon,
	"非自立":  SectionDependant,
	"終助詞":  SectionSentenceEndingParticle,
	"助数詞":  SectionCounter, "ctr": SectionCounter,
	"並立助詞":         SectionParallelMarker,
	"係助詞":          SectionBindingParticle,
	"副詞可能":         SectionPotentialAdverb,
	"格助詞":          SectionCaseMarkingParticle,
	"サ変接続":         SectionIrregularConjunction,
	"接続助詞":         SectionConjunctionParticle,
	"助動詞語幹":        SectionAuxiliaryVerbStem,
	"形容動詞語幹":       SectionAdjectivalStem,
	"連語":           SectionCompoundWord,
	"引用":           SectionQuotation,
	"名詞接続":         SectionNounConjunction,
	"副助詞":          SectionAdverbialParticle,
	"助詞類接続":        SectionConjunctiveParticleClass,
	"副詞化":          SectionAdverbialization,
	"副助詞／並立助詞／終助詞": SectionAdverbialParallelOrEndingParticle,
	"連体化":          SectionAdnominalAdjective,
	"固有名詞":         SectionProperNoun,
	"特殊":           SectionSpecial,
	"動詞接続":         SectionVerbConjunction,
	"人名":           SectionPersonName,
	"姓":            SectionFamilyName,
	"組織":           SectionOrganization,
	"ナイ形容詞語幹":      SectionNotAdjectiveStem,
	"読点":           SectionComma,
	"括弧開":          SectionOpeningBracket,
	"括弧閉":          SectionClosingBracket,
	"地域":           SectionRegion,
	"国":            SectionCountry,
	"数詞":           SectionNumeral, "num": SectionNumeral,
	"非自立可能":    SectionPossibleDependant,
	"普通名詞":     SectionCommonNoun,
	"名詞的":      SectionSubstantiveAdjective,
	"助数詞可能":    SectionPossibleCounterWord,
	"サ変可能":     SectionPossibleSuru,
	"準体助詞":     SectionJuntaijoushi,
	"形状詞可能":    SectionPossibleNaAdjective,
	"動詞的":      SectionVerbLike,
	"サ変形状詞可能":  SectionPossibleVerbSuruNoun,
	"形容詞的":     SectionAdjectival,
	"文字":       SectionLetter,
	"形状詞的":     SectionNaAdjectiveLike,
	"地名":       SectionPlaceName,
	"タリ":       SectionTaruAdjective,
}

// ParseSection maps a tokenizer sub-tag or JMdict code to a Section.
// Unrecognised tags yield SectionNone.
func ParseSection(tag string) Section {
	return sectionByTag[tag]
}
