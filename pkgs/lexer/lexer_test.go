package lexer

import (
	"testing"

	"github.com/aledsdavies/structdiff/pkgs/langtable"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func goProfile() *langtable.SyntaxProfile {
	p, _ := langtable.Builtins().Resolve("go")
	return p
}

func tokenKinds(src string) []Kind {
	l := New([]byte(src), goProfile())
	var kinds []Kind
	for {
		tok := l.Next()
		kinds = append(kinds, tok.Kind)
		if tok.Kind == EOF {
			return kinds
		}
	}
}

func TestBasicTokenKinds(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []Kind
	}{
		{
			name: "empty",
			src:  "",
			want: []Kind{EOF},
		},
		{
			name: "single atom",
			src:  "foo",
			want: []Kind{Atom, EOF},
		},
		{
			name: "paren list",
			src:  "(a b)",
			want: []Kind{Open, Atom, Atom, Close, EOF},
		},
		{
			name: "line comment then atom",
			src:  "// hi\nx",
			want: []Kind{Comment, Atom, EOF},
		},
		{
			name: "unknown byte preserved",
			src:  "a $ b",
			want: []Kind{Atom, Unknown, Atom, EOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tokenKinds(tt.src)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("token kinds mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReconstructionFromTrivia(t *testing.T) {
	src := "  foo   (bar)  "
	l := New([]byte(src), goProfile())

	var rebuilt string
	for {
		tok := l.Next()
		rebuilt += tok.Trivia + tok.Text
		if tok.Kind == EOF {
			break
		}
	}
	if diff := cmp.Diff(src, rebuilt, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("trivia+literal concatenation did not reproduce source (-want +got):\n%s", diff)
	}
}
