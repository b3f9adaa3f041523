// Package rules holds the declarative keyword tables used to recognise
// sheets, headers and columns, and the single lookup that consults them.
package rules

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lower-cases s, strips diacritics and collapses inner whitespace so
// that "  Área " and "area" compare equal.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(strings.ToLower(out)), " ")
}

// Contains reports whether the folded text contains any folded term.
func Contains(text string, terms ...string) bool {
	folded := Fold(text)
	for _, term := range terms {
		if strings.Contains(folded, Fold(term)) {
			return true
		}
	}
	return false
}

// Rule associates a category with the terms that select it. A text matches
// when it contains any Include term and none of the Exclude terms.
type Rule[C comparable] struct {
	Category C
	Include  []string
	Exclude  []string
}

// Matches reports whether text satisfies the rule.
func (r Rule[C]) Matches(text string) bool {
	return Contains(text, r.Include...) && !Contains(text, r.Exclude...)
}

// Table is an ordered list of rules; earlier rules take precedence.
type Table[C comparable] []Rule[C]

// Match returns the category of the first rule text satisfies.
func (t Table[C]) Match(text string) (C, bool) {
	for _, r := range t {
		if r.Matches(text) {
			return r.Category, true
		}
	}
	var zero C
	return zero, false
}

// Accepts reports whether any rule of category c matches text.
func (t Table[C]) Accepts(c C, text string) bool {
	for _, r := range t {
		if r.Category == c && r.Matches(text) {
			return true
		}
	}
	return false
}

// Rule returns the first rule for category c.
func (t Table[C]) Rule(c C) (Rule[C], bool) {
	for _, r := range t {
		if r.Category == c {
			return r, true
		}
	}
	return Rule[C]{}, false
}

// Keyword maps a search term to a canonical display label.
type Keyword struct {
	Term  string
	Label string
}

// FirstKeyword returns the first keyword whose term text contains and for
// which skip returns false.
func FirstKeyword(text string, keywords []Keyword, skip func(Keyword) bool) (Keyword, bool) {
	folded := Fold(text)
	for _, kw := range keywords {
		if !strings.Contains(folded, Fold(kw.Term)) {
			continue
		}
		if skip != nil && skip(kw) {
			continue
		}
		return kw, true
	}
	return Keyword{}, false
}
