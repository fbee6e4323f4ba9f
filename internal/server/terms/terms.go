// Package terms holds the controlled vocabulary used to tag articles.
//
// The vocabulary has seven concepts, each labelled in Russian and English.
// Russian is the canonical language: the database always stores the Russian
// label, and the service layer translates to and from the article language
// with ToCanonical and ToDisplay.
package terms

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/scicatalog/internal/common"
)

// Lang is an article language.
type Lang string

const (
	RU Lang = "ru"
	EN Lang = "en"
)

// Canonical is the language terms are stored in.
const Canonical = RU

// Langs lists the supported languages.
var Langs = []Lang{RU, EN}

// Concept identifies a vocabulary entry independently of language.
type Concept int

const (
	DigitalTransformation Concept = iota
	TransferOfDigitalTechnology
	DigitalTechnology
	EndToEndDigitalTechnology
	BreakthroughTechnology
	NearFutureTechnology
	GraduallyIntroducedTechnology
	conceptCount
)

type row struct {
	concept Concept
	labels  map[Lang]string
}

// table is the single source of the bijection. Order is display order.
var table = []row{
	{DigitalTransformation, map[Lang]string{
		RU: "Цифровая трансформация",
		EN: "Digital transformation",
	}},
	{TransferOfDigitalTechnology, map[Lang]string{
		RU: "Трансфер цифровой технологии",
		EN: "Transfer of digital technology",
	}},
	{DigitalTechnology, map[Lang]string{
		RU: "Цифровая технология",
		EN: "Digital technology",
	}},
	{EndToEndDigitalTechnology, map[Lang]string{
		RU: "Сквозная цифровая технология",
		EN: "End-to-end digital technology",
	}},
	{BreakthroughTechnology, map[Lang]string{
		RU: "Прорывная технология",
		EN: "Breakthrough technology",
	}},
	{NearFutureTechnology, map[Lang]string{
		RU: "Технология ближайшего будущего",
		EN: "Near future technology",
	}},
	{GraduallyIntroducedTechnology, map[Lang]string{
		RU: "Постепенно внедряемая технология",
		EN: "Gradually introduced technology",
	}},
}

type vocabulary struct {
	byLabel   map[Lang]map[string]Concept
	byConcept map[Lang][]string
}

var std = mustVocabulary(table, int(conceptCount))

func mustVocabulary(rows []row, size int) *vocabulary {
	v, err := newVocabulary(rows, size)
	if err != nil {
		panic(err)
	}
	return v
}

// newVocabulary indexes rows and checks that they form a bijection: every
// concept 0..size-1 appears exactly once and every language labels every
// concept with a label unique within that language.
func newVocabulary(rows []row, size int) (*vocabulary, error) {
	if len(rows) != size {
		return nil, fmt.Errorf("vocabulary has %d rows, want %d", len(rows), size)
	}

	v := &vocabulary{
		byLabel:   make(map[Lang]map[string]Concept, len(Langs)),
		byConcept: make(map[Lang][]string, len(Langs)),
	}
	for _, lang := range Langs {
		v.byLabel[lang] = make(map[string]Concept, size)
		v.byConcept[lang] = make([]string, size)
	}

	seen := make(map[Concept]bool, size)
	for _, r := range rows {
		if r.concept < 0 || int(r.concept) >= size {
			return nil, fmt.Errorf("concept %d out of range", r.concept)
		}
		if seen[r.concept] {
			return nil, fmt.Errorf("concept %d declared twice", r.concept)
		}
		seen[r.concept] = true

		for _, lang := range Langs {
			label := r.labels[lang]
			if strings.TrimSpace(label) == "" {
				return nil, fmt.Errorf("concept %d has no %s label", r.concept, lang)
			}
			if other, dup := v.byLabel[lang][label]; dup {
				return nil, fmt.Errorf("%s label %q used by concepts %d and %d", lang, label, other, r.concept)
			}
			v.byLabel[lang][label] = r.concept
			v.byConcept[lang][r.concept] = label
		}
	}

	return v, nil
}

// ParseLang validates a language code.
func ParseLang(s string) (Lang, error) {
	switch l := Lang(strings.ToLower(strings.TrimSpace(s))); l {
	case RU, EN:
		return l, nil
	default:
		return "", fmt.Errorf("%w: unsupported language %q", common.ErrValidation, s)
	}
}

// Lookup finds the concept of a label in any language.
func Lookup(value string) (Concept, Lang, bool) {
	for _, lang := range Langs {
		if c, ok := std.byLabel[lang][value]; ok {
			return c, lang, true
		}
	}
	return 0, "", false
}

// ToCanonical converts a label submitted for an article in source language
// into the canonical label. A label from the other language is accepted too,
// since clients may submit either enumeration.
func ToCanonical(value string, source Lang) (string, error) {
	if c, ok := std.byLabel[source][value]; ok {
		return std.byConcept[Canonical][c], nil
	}
	c, _, ok := Lookup(value)
	if !ok {
		return "", fmt.Errorf("%w: %q", common.ErrInvalidTerm, value)
	}
	return std.byConcept[Canonical][c], nil
}

// ToDisplay converts a canonical label into the target language.
func ToDisplay(canonical string, target Lang) (string, error) {
	c, ok := std.byLabel[Canonical][canonical]
	if !ok {
		return "", fmt.Errorf("%w: %q is not a canonical term", common.ErrInvalidTerm, canonical)
	}
	labels, ok := std.byConcept[target]
	if !ok {
		return "", fmt.Errorf("%w: unsupported language %q", common.ErrValidation, target)
	}
	return labels[c], nil
}

// Labels returns the labels of lang in declaration order.
func Labels(lang Lang) []string {
	labels := std.byConcept[lang]
	out := make([]string, len(labels))
	copy(out, labels)
	return out
}

// IsLabel reports whether value belongs to either enumeration.
func IsLabel(value string) bool {
	_, _, ok := Lookup(value)
	return ok
}
