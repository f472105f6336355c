// Package tree defines the syntactic tree (atoms and delimited lists) and
// the shift-reduce parser that builds one from a lexer.Token stream.
package tree

import "github.com/aledsdavies/structdiff/pkgs/lexer"

// Position mirrors lexer.Position; re-declared here so tree has no
// lexer-specific vocabulary leaking into its public API beyond the token
// kinds it consumes while parsing.
type Position struct {
	Offset int
	Line   int
	Column int
}

func fromLexerPos(p lexer.Position) Position {
	return Position{Offset: p.Offset, Line: p.Line, Column: p.Column}
}

// AtomKind distinguishes the handful of atom flavors the diff engine's
// cost model cares about. Only comment vs. non-comment strictly needs to
// be distinguishable; Code and String are kept separate because a string
// literal changing is a more precise signal for the printer than "some
// atom changed", even though the engine currently costs them identically.
type AtomKind int

const (
	CodeAtom AtomKind = iota
	StringAtom
	CommentAtom
	UnknownAtom
)

// Node is the closed two-case tree variant: every Node is either an Atom
// or a List, dispatched by a type switch, never by an open interface
// hierarchy.
type Node interface {
	isNode()
	// Literal is the node's own source text including its leading trivia
	// (an Atom's trivia plus token text, or a List's concatenation of its
	// delimiters and children including their trivia) — used by the
	// reconstruction check.
	Literal() string
	Start() Position
	End() Position
	// Hash is the post-order structural hash computed at parse time,
	// consumed by the diff engine's subtree-equality fast edge.
	Hash() uint64
}

// Atom is an indivisible lexical token: number, identifier, operator,
// string literal, or comment.
type Atom struct {
	Text     string
	Kind     AtomKind
	Trivia   string
	StartPos Position
	EndPos   Position
	hash     uint64
}

func (*Atom) isNode()           {}
func (a *Atom) Literal() string { return a.Trivia + a.Text }
func (a *Atom) Start() Position { return a.StartPos }
func (a *Atom) End() Position   { return a.EndPos }
func (a *Atom) Hash() uint64    { return a.hash }

// List is a balanced-delimiter grouping of child nodes.
type List struct {
	Open        string
	Close       string
	OpenPos     Position
	ClosePos    Position
	OpenTrivia  string
	CloseTrivia string
	Children    []Node

	// TrailingTrivia holds whitespace that appears after this list's last
	// child (and, for an unclosed list, after its last token) with no
	// following token to attach to — in practice only ever set on
	// whichever list is innermost when the input runs out. Non-empty only
	// there; every other list's own Close token already carries any
	// trivia before it.
	TrailingTrivia string

	// Anomalies is non-empty only on the root of a parse that hit a
	// stray close delimiter or an unmatched open at EOF. It is never
	// fatal.
	Anomalies []Anomaly

	hash uint64
}

func (*List) isNode() {}

func (l *List) Literal() string {
	s := l.OpenTrivia + l.Open
	for _, c := range l.Children {
		s += c.Literal()
	}
	s += l.CloseTrivia + l.Close + l.TrailingTrivia
	return s
}

func (l *List) Start() Position { return l.OpenPos }
func (l *List) End() Position   { return l.ClosePos }
func (l *List) Hash() uint64    { return l.hash }

// AnomalyKind names the two parse anomalies the parser tolerates.
type AnomalyKind int

const (
	StrayClose AnomalyKind = iota
	MissingClose
)

// Anomaly is a non-fatal parse warning attached to the tree rather than
// discarded.
type Anomaly struct {
	Kind    AnomalyKind
	Pos     Position
	Message string
}
