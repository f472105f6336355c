package tree

import (
	"github.com/aledsdavies/structdiff/pkgs/langtable"
	"github.com/aledsdavies/structdiff/pkgs/lexer"
)

// frame is one level of the shift-reduce stack: the List under
// construction at that nesting depth. The virtual root's frame has a
// List with empty delimiters.
type frame struct {
	list *List
}

// Parse turns src into a syntactic tree under profile with a shift-reduce
// scan: an open token pushes a frame, a close token closes the innermost
// frame (or is recorded as a stray atom if none is open), and any frames
// still open at EOF are auto-closed with a MissingClose anomaly. The root
// is a virtual List with empty delimiters whose children are the file's
// top-level nodes.
//
// Parse never fails on well-formed or malformed input; anomalies are
// recorded on the returned root's Anomalies field, never returned as an
// error.
func Parse(src []byte, profile *langtable.SyntaxProfile) *List {
	root := &List{}
	stack := []*frame{{list: root}}

	l := lexer.New(src, profile)
	for {
		tok := l.Next()
		if tok.Kind == lexer.EOF {
			// The EOF token still carries trivia (whitespace after the last
			// real token); it belongs to whichever list is innermost right
			// now, or the reconstruction invariant loses trailing bytes.
			stack[len(stack)-1].list.TrailingTrivia = tok.Trivia
			break
		}

		top := stack[len(stack)-1]
		switch tok.Kind {
		case lexer.Open:
			child := &List{
				Open:       tok.Text,
				OpenPos:    fromLexerPos(tok.Start),
				OpenTrivia: tok.Trivia,
			}
			top.list.Children = append(top.list.Children, child)
			stack = append(stack, &frame{list: child})

		case lexer.Close:
			if len(stack) == 1 {
				// No open frame to close: fail-soft, record as a stray atom.
				root.Anomalies = append(root.Anomalies, Anomaly{
					Kind:    StrayClose,
					Pos:     fromLexerPos(tok.Start),
					Message: "close delimiter with no matching open",
				})
				top.list.Children = append(top.list.Children, &Atom{
					Text:     tok.Text,
					Kind:     UnknownAtom,
					Trivia:   tok.Trivia,
					StartPos: fromLexerPos(tok.Start),
					EndPos:   fromLexerPos(tok.End),
				})
				continue
			}
			top.list.Close = tok.Text
			top.list.ClosePos = fromLexerPos(tok.Start)
			top.list.CloseTrivia = tok.Trivia
			stack = stack[:len(stack)-1]

		case lexer.Comment:
			top.list.Children = append(top.list.Children, &Atom{
				Text:     tok.Text,
				Kind:     CommentAtom,
				Trivia:   tok.Trivia,
				StartPos: fromLexerPos(tok.Start),
				EndPos:   fromLexerPos(tok.End),
			})

		case lexer.Unknown:
			top.list.Children = append(top.list.Children, &Atom{
				Text:     tok.Text,
				Kind:     UnknownAtom,
				Trivia:   tok.Trivia,
				StartPos: fromLexerPos(tok.Start),
				EndPos:   fromLexerPos(tok.End),
			})

		default: // lexer.Atom
			top.list.Children = append(top.list.Children, &Atom{
				Text:     tok.Text,
				Kind:     classifyAtom(tok.Text),
				Trivia:   tok.Trivia,
				StartPos: fromLexerPos(tok.Start),
				EndPos:   fromLexerPos(tok.End),
			})
		}
	}

	// Auto-close any frames still open at EOF.
	for len(stack) > 1 {
		top := stack[len(stack)-1]
		root.Anomalies = append(root.Anomalies, Anomaly{
			Kind:    MissingClose,
			Pos:     top.list.OpenPos,
			Message: "list opened with \"" + top.list.Open + "\" was never closed",
		})
		stack = stack[:len(stack)-1]
	}

	hashTree(root)
	return root
}

// classifyAtom distinguishes string literals from other code atoms by
// their surface form; a profile's own pattern ordering already decided
// what counts as an atom at all, this only refines the kind for the
// cost model and printer.
func classifyAtom(text string) AtomKind {
	if len(text) >= 2 {
		switch text[0] {
		case '"', '\'', '`':
			if text[len(text)-1] == text[0] {
				return StringAtom
			}
		}
	}
	return CodeAtom
}
