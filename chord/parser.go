// Package chord finds chord names such as "Am", "C#m7" or "G/B" in free text.
//
// Matching is purely lexical: a token only has to follow the chord grammar,
// it is never checked for harmonic sense. A leading backslash ("\Am") marks a
// token that must be passed through literally.
package chord

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Parser scans a fixed input text. It is safe for concurrent use.
type Parser struct {
	input   string
	matches []Match
}

// NewParser scans input once; the results are reused by every method.
func NewParser(input string) *Parser {
	return &Parser{input: input, matches: scan(input)}
}

// Input returns the text the parser was created with.
func (p *Parser) Input() string { return p.input }

// Matches returns every grammar match in scan order, escaped ones included.
func (p *Parser) Matches() []Match {
	return slices.Clone(p.matches)
}

// All returns the non-escaped chord tokens sorted case-insensitively.
// Tokens that compare equal keep their scan order.
func (p *Parser) All() []string {
	out := make([]string, 0, len(p.matches))
	for _, m := range p.matches {
		if !m.Escaped {
			out = append(out, m.Text)
		}
	}
	lower := cases.Lower(language.Und)
	keys := make(map[string]string, len(out))
	for _, tok := range out {
		if _, ok := keys[tok]; !ok {
			keys[tok] = lower.String(tok)
		}
	}
	slices.SortStableFunc(out, func(a, b string) int {
		return strings.Compare(keys[a], keys[b])
	})
	return out
}

// Unique returns All without repeats, keeping the first of each
// case-insensitive group.
func (p *Parser) Unique() []string {
	all := p.All()
	out := make([]string, 0, len(all))
	for _, tok := range all {
		if !slices.ContainsFunc(out, func(seen string) bool { return strings.EqualFold(seen, tok) }) {
			out = append(out, tok)
		}
	}
	return out
}

// Wrap rewrites the input, replacing each chord token with fn(token).
// Escaped tokens lose their backslash and are not passed to fn; a nil fn
// keeps every token as it is.
func (p *Parser) Wrap(fn func(string) string) string {
	if len(p.matches) == 0 {
		return p.input
	}
	var b strings.Builder
	b.Grow(len(p.input))
	last := 0
	for _, m := range p.matches {
		b.WriteString(p.input[last:m.Start])
		if m.Escaped || fn == nil {
			b.WriteString(m.Literal())
		} else {
			b.WriteString(fn(m.Text))
		}
		last = m.End
	}
	b.WriteString(p.input[last:])
	return b.String()
}

// All is shorthand for NewParser(text).All().
func All(text string) []string { return NewParser(text).All() }

// Unique is shorthand for NewParser(text).Unique().
func Unique(text string) []string { return NewParser(text).Unique() }

// Wrap is shorthand for NewParser(text).Wrap(fn).
func Wrap(text string, fn func(string) string) string { return NewParser(text).Wrap(fn) }
