package model

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrInvalidVocabulary is returned when a rule set breaks the vocabulary invariants
var ErrInvalidVocabulary = errors.New("invalid vocabulary")

// CategoryRule maps a set of keywords (and a numeric fallback token) to a category index
type CategoryRule struct {
	Index    int      `json:"index" yaml:"index" mapstructure:"index"`                           // 0-based, unique within a vocabulary
	Name     string   `json:"name" yaml:"name" mapstructure:"name"`                              // Display name (e.g., "slim", "short")
	Keywords []string `json:"keywords" yaml:"keywords" mapstructure:"keywords"`                  // Case-insensitive substring terms
	Fallback string   `json:"fallback,omitempty" yaml:"fallback,omitempty" mapstructure:"fallback"` // Numeric token (e.g., "1")
}

// Vocabulary is an ordered, immutable list of category rules.
// Declared order is priority order: the first matching rule wins.
type Vocabulary struct {
	name  string
	rules []CategoryRule
}

// Normalize lowercases text with locale-invariant casing.
// A Caser is stateful, so one is created per call to stay goroutine-safe.
func Normalize(s string) string {
	return cases.Lower(language.Und).String(s)
}

// NewVocabulary validates rules and builds a vocabulary.
// Keywords and fallback tokens are normalized.
func NewVocabulary(name string, rules []CategoryRule) (Vocabulary, error) {
	if len(rules) == 0 {
		return Vocabulary{}, fmt.Errorf("%w: %q has no rules", ErrInvalidVocabulary, name)
	}

	seen := make(map[int]bool, len(rules))
	built := make([]CategoryRule, 0, len(rules))

	for _, r := range rules {
		if r.Index < 0 || r.Index >= len(rules) {
			return Vocabulary{}, fmt.Errorf("%w: %q rule %q has index %d outside [0, %d)", ErrInvalidVocabulary, name, r.Name, r.Index, len(rules))
		}
		if seen[r.Index] {
			return Vocabulary{}, fmt.Errorf("%w: %q has duplicate index %d", ErrInvalidVocabulary, name, r.Index)
		}
		seen[r.Index] = true

		keywords := make([]string, 0, len(r.Keywords))
		for _, kw := range r.Keywords {
			// An empty keyword is a substring of everything
			if strings.TrimSpace(kw) == "" {
				return Vocabulary{}, fmt.Errorf("%w: %q rule %d has an empty keyword", ErrInvalidVocabulary, name, r.Index)
			}
			keywords = append(keywords, Normalize(kw))
		}

		fallback := strings.TrimSpace(r.Fallback)
		if len(keywords) == 0 && fallback == "" {
			return Vocabulary{}, fmt.Errorf("%w: %q rule %d has neither keywords nor a fallback token", ErrInvalidVocabulary, name, r.Index)
		}

		ruleName := r.Name
		if ruleName == "" {
			ruleName = fmt.Sprintf("category-%d", r.Index)
		}

		built = append(built, CategoryRule{
			Index:    r.Index,
			Name:     ruleName,
			Keywords: keywords,
			Fallback: Normalize(fallback),
		})
	}

	return Vocabulary{name: name, rules: built}, nil
}

// MustVocabulary is like NewVocabulary but panics on error.
// Only meant for the built-in tables.
func MustVocabulary(name string, rules []CategoryRule) Vocabulary {
	v, err := NewVocabulary(name, rules)
	if err != nil {
		panic(err)
	}
	return v
}

// Name returns the vocabulary name
func (v Vocabulary) Name() string {
	return v.name
}

// Len returns the number of categories
func (v Vocabulary) Len() int {
	return len(v.rules)
}

// At returns the rule at declared position i
func (v Vocabulary) At(i int) CategoryRule {
	return v.rules[i]
}

// Rules returns a copy of the rules in declared order
func (v Vocabulary) Rules() []CategoryRule {
	out := make([]CategoryRule, len(v.rules))
	for i, r := range v.rules {
		r.Keywords = append([]string(nil), r.Keywords...)
		out[i] = r
	}
	return out
}

// Valid reports whether index is a category of this vocabulary
func (v Vocabulary) Valid(index int) bool {
	return index >= 0 && index < len(v.rules)
}

// CategoryName returns the display name for a category index
func (v Vocabulary) CategoryName(index int) string {
	for _, r := range v.rules {
		if r.Index == index {
			return r.Name
		}
	}
	return fmt.Sprintf("category-%d", index)
}

// Built-in vocabulary names
const (
	VocabularyBody = "body"
	VocabularyHair = "hair"
)

// BodyShapeRules returns the default body shape table
func BodyShapeRules() []CategoryRule {
	return []CategoryRule{
		{Index: 0, Name: "slim", Keywords: []string{"slim", "thin", "skinny", "narrow", "lean"}, Fallback: "1"},
		{Index: 1, Name: "average", Keywords: []string{"average", "normal", "standard", "regular"}, Fallback: "2"},
		{Index: 2, Name: "muscular", Keywords: []string{"muscular", "strong", "athletic", "ripped", "fit"}, Fallback: "3"},
		{Index: 3, Name: "plus", Keywords: []string{"plus", "big", "curvy", "thicker", "larger"}, Fallback: "4"},
	}
}

// HairStyleRules returns the default hair style table
func HairStyleRules() []CategoryRule {
	return []CategoryRule{
		{Index: 0, Name: "short", Keywords: []string{"short", "shorter", "buzz", "buzzcut"}, Fallback: "1"},
		{Index: 1, Name: "medium", Keywords: []string{"medium", "mid", "in between"}, Fallback: "2"},
		{Index: 2, Name: "long", Keywords: []string{"long", "longer"}, Fallback: "3"},
		{Index: 3, Name: "bald", Keywords: []string{"bald", "no hair", "shaved"}, Fallback: "4"},
	}
}

// DefaultBodyShape returns the built-in body shape vocabulary
func DefaultBodyShape() Vocabulary {
	return MustVocabulary(VocabularyBody, BodyShapeRules())
}

// DefaultHairStyle returns the built-in hair style vocabulary
func DefaultHairStyle() Vocabulary {
	return MustVocabulary(VocabularyHair, HairStyleRules())
}
