package lexer

import (
	"regexp"
	"unicode/utf8"

	"github.com/aledsdavies/structdiff/pkgs/langtable"
)

// Lexer walks the input byte slice under a single syntax profile,
// producing one Token per call to Next. There is no mode switching here:
// a structural diff profile has exactly one lexical mode, unlike a DSL
// lexer juggling embedded shell text.
type Lexer struct {
	input    string
	profile  *langtable.SyntaxProfile
	position int
	line     int
	column   int
}

// New constructs a Lexer over src using profile's patterns.
func New(src []byte, profile *langtable.SyntaxProfile) *Lexer {
	return &Lexer{
		input:   string(src),
		profile: profile,
		line:    1,
		column:  1,
	}
}

func (l *Lexer) pos() Position {
	return Position{Offset: l.position, Line: l.line, Column: l.column}
}

func (l *Lexer) advance(n int) {
	for i := 0; i < n; {
		r, size := utf8.DecodeRuneInString(l.input[l.position:])
		if r == '\n' {
			l.line++
			l.column = 1
		} else {
			l.column++
		}
		l.position += size
		i += size
	}
}

func (l *Lexer) consumeWhitespace() string {
	start := l.position
	for l.position < len(l.input) {
		switch l.input[l.position] {
		case ' ', '\t', '\r', '\n', '\f':
			l.advance(1)
		default:
			return l.input[start:l.position]
		}
	}
	return l.input[start:l.position]
}

// Next returns the next token, or a Token with Kind==EOF (carrying any
// trailing whitespace as its Trivia) once the input is exhausted. It never
// returns an error: a rune that matches nothing is emitted as a one-rune
// Unknown token, permissively, so reconstruction stays exact.
func (l *Lexer) Next() Token {
	trivia := l.consumeWhitespace()
	start := l.pos()

	if l.position >= len(l.input) {
		return Token{Kind: EOF, Trivia: trivia, Start: start, End: start}
	}

	rest := l.input[l.position:]

	if loc := matchAt(l.profile.OpenDelimiter, rest); loc != "" {
		return l.emit(Open, loc, trivia, start)
	}
	if loc := matchAt(l.profile.CloseDelimiter, rest); loc != "" {
		return l.emit(Close, loc, trivia, start)
	}
	for _, pattern := range l.profile.CommentPatterns {
		if loc := matchAt(pattern, rest); loc != "" {
			return l.emit(Comment, loc, trivia, start)
		}
	}
	for _, pattern := range l.profile.AtomPatterns {
		if loc := matchAt(pattern, rest); loc != "" {
			return l.emit(Atom, loc, trivia, start)
		}
	}

	// Nothing matched: skip one rune, preserved as an Unknown atom so the
	// concatenation-of-literals invariant still holds.
	_, size := utf8.DecodeRuneInString(rest)
	return l.emit(Unknown, rest[:size], trivia, start)
}

func (l *Lexer) emit(kind Kind, text, trivia string, start Position) Token {
	l.advance(len(text))
	return Token{
		Kind:   kind,
		Text:   text,
		Trivia: trivia,
		Start:  start,
		End:    l.pos(),
	}
}

// matchAt returns the text of pattern's match when it is anchored at the
// very start of s, or "" when there is no such match. A zero-length match
// is rejected here defensively; the configuration loader already refuses
// to register a pattern that can match empty, so this never triggers
// against a correctly loaded profile.
func matchAt(pattern *regexp.Regexp, s string) string {
	if pattern == nil {
		return ""
	}
	loc := pattern.FindStringIndex(s)
	if loc == nil || loc[0] != 0 || loc[1] == 0 {
		return ""
	}
	return s[:loc[1]]
}
