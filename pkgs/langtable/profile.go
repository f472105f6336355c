// Package langtable resolves a file extension to the syntax profile the
// lexer and parser need: ordered atom and comment regexes plus a single
// open- and close-delimiter regex per language.
package langtable

import "regexp"

// SyntaxProfile is the per-language regex bundle. Pattern order is
// semantically significant: the first AtomPattern that matches at the
// cursor wins, and likewise for CommentPatterns.
type SyntaxProfile struct {
	Name            string
	Extensions      []string
	AtomPatterns    []*regexp.Regexp
	CommentPatterns []*regexp.Regexp
	OpenDelimiter   *regexp.Regexp
	CloseDelimiter  *regexp.Regexp
}

// Table is a small in-memory registry mapping a file extension to the
// profile that should lex and parse it. Lookup is pure: the table is built
// once at program start and never mutated during a diff.
type Table struct {
	byExtension map[string]*SyntaxProfile
}

// NewTable builds an empty table. Use Register or Load/LoadFile to
// populate it.
func NewTable() *Table {
	return &Table{byExtension: make(map[string]*SyntaxProfile)}
}

// Register adds profile to the table under each of its extensions,
// overwriting any prior registration for the same extension (last writer
// wins).
func (t *Table) Register(profile *SyntaxProfile) {
	for _, ext := range profile.Extensions {
		t.byExtension[ext] = profile
	}
}

// Resolve looks up the profile for extension (no leading dot, matched
// case-sensitively as stored). A false second return means the caller
// should downgrade to a line-oriented fallback; that fallback is outside
// this package's scope.
func (t *Table) Resolve(extension string) (*SyntaxProfile, bool) {
	p, ok := t.byExtension[extension]
	return p, ok
}

// Languages returns every registered profile, in no particular order.
func (t *Table) Languages() []*SyntaxProfile {
	out := make([]*SyntaxProfile, 0, len(t.byExtension))
	seen := make(map[*SyntaxProfile]bool)
	for _, p := range t.byExtension {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}
