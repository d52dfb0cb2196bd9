package naming

import (
	"strings"

	"github.com/go-openapi/inflect"
)

// Pluralizer holds the immutable tables used to pluralize identifiers.
// The zero value is not usable; use NewPluralizer or the package-level Plural.
type Pluralizer struct {
	irregular map[string]string
	rules     *inflect.Ruleset
}

var (
	// irregular plurals, keyed by lower-case singular.
	irregulars = map[string]string{
		"person":    "people",
		"man":       "men",
		"woman":     "women",
		"child":     "children",
		"tooth":     "teeth",
		"foot":      "feet",
		"mouse":     "mice",
		"goose":     "geese",
		"ox":        "oxen",
		"datum":     "data",
		"criterion": "criteria",
		"medium":    "media",
		"analysis":  "analyses",
		"axis":      "axes",
		"index":     "indices",
		"matrix":    "matrices",
		"vertex":    "vertices",
		"photo":     "photos",
		"piano":     "pianos",
		"halo":      "halos",
		"video":     "videos",
		"radio":     "radios",
		"studio":    "studios",
		"zoo":       "zoos",
		"safe":      "safes",
		"cafe":      "cafes",
		"chief":     "chiefs",
		"roof":      "roofs",
		"belief":    "beliefs",
	}
	// words with the same singular and plural form.
	invariants = []string{
		"sheep", "fish", "deer", "series", "species", "news",
		"information", "equipment", "metadata", "data", "money",
		"rice", "moose", "aircraft", "software", "feedback", "staff",
	}
)

const consonants = "bcdfghjklmnpqrstvwxz"

// NewPluralizer returns a Pluralizer loaded with the English rule set.
// Rules added later take precedence over earlier ones.
func NewPluralizer() *Pluralizer {
	rs := inflect.NewRuleset()
	rs.AddPlural("f", "ves")
	rs.AddPlural("fe", "ves")
	for _, c := range consonants {
		rs.AddPlural(string(c)+"o", string(c)+"oes")
	}
	for _, suffix := range []string{"s", "x", "z", "ch", "sh"} {
		rs.AddPlural(suffix, suffix+"es")
	}
	for _, c := range consonants {
		rs.AddPlural(string(c)+"y", string(c)+"ies")
	}
	for _, w := range invariants {
		rs.AddUncountable(w)
	}
	return &Pluralizer{irregular: irregulars, rules: rs}
}

// std is built once at package initialization and only read afterwards.
var std = NewPluralizer()

// Plural returns the plural form of s using the default Pluralizer.
func Plural(s string) string { return std.Plural(s) }

// Plural returns the plural form of s. Only the last word of a compound
// identifier is pluralized ("SalesPerson" -> "SalesPeople") and the casing
// of that word is kept. Blank input is returned unchanged.
func (p *Pluralizer) Plural(s string) string {
	sp := spans(s)
	if len(sp) == 0 {
		return s
	}
	last := sp[len(sp)-1]
	return s[:last.start] + p.word(s[last.start:last.end]) + s[last.end:]
}

func (p *Pluralizer) word(w string) string {
	lw := strings.ToLower(w)
	if pl, ok := p.irregular[lw]; ok {
		return PreserveCase(w, pl)
	}
	if p.rules.Uncountables()[lw] {
		return w
	}
	// a trailing number ("Line2") is not an English word.
	if c := lw[len(lw)-1]; c >= '0' && c <= '9' {
		return w + "s"
	}
	return PreserveCase(w, p.rules.Pluralize(lw))
}
