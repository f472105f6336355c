// Package lexer turns source bytes plus a langtable.SyntaxProfile into a
// flat token stream. It does not build a tree; pkgs/tree consumes this
// stream and assembles the Atom/List structure.
package lexer

import "fmt"

// Kind discriminates the handful of token shapes the parser needs to
// build a tree: delimiters, comments, atoms, and the permissive-mode
// fallback for bytes that matched nothing.
type Kind int

const (
	EOF Kind = iota
	Open
	Close
	Comment
	Atom
	Unknown
)

var kindNames = [...]string{
	EOF:     "EOF",
	Open:    "OPEN",
	Close:   "CLOSE",
	Comment: "COMMENT",
	Atom:    "ATOM",
	Unknown: "UNKNOWN",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Position locates a token's start (or end) in the source: a byte offset
// plus 1-based line and column.
type Position struct {
	Offset int
	Line   int
	Column int
}

// Token is one lexical unit: its kind, its literal source text, the
// trivia (whitespace) immediately preceding it, and its source span.
type Token struct {
	Kind   Kind
	Text   string
	Trivia string
	Start  Position
	End    Position
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d:%d", t.Kind, t.Text, t.Start.Line, t.Start.Column)
}
