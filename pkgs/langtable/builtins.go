package langtable

import "regexp"

// Builtins returns a small default Table covering a C-like language and
// JSON, enough for the CLI and tests to resolve a profile without
// supplying an external configuration file. Real installs are expected to
// load a full table with LoadFile.
func Builtins() *Table {
	t := NewTable()
	t.Register(cLikeProfile())
	t.Register(jsonProfile())
	return t
}

func mustCompile(pattern string) *regexp.Regexp {
	return regexp.MustCompile(pattern)
}

func cLikeProfile() *SyntaxProfile {
	return &SyntaxProfile{
		Name:       "c-like",
		Extensions: []string{"c", "h", "cc", "cpp", "hpp", "js", "ts", "go", "java", "rs"},
		AtomPatterns: []*regexp.Regexp{
			mustCompile(`^"(?:\\.|[^"\\])*"`),
			mustCompile("^`(?:\\\\.|[^`\\\\])*`"),
			mustCompile(`^'(?:\\.|[^'\\])*'`),
			mustCompile(`^[0-9]+(?:\.[0-9]+)?(?:[eE][+-]?[0-9]+)?`),
			mustCompile(`^[A-Za-z_][A-Za-z0-9_]*`),
			mustCompile(`^(?:==|!=|<=|>=|&&|\|\||::|->|\+\+|--|[+\-*/%=<>!&|^~.,;:?])`),
		},
		CommentPatterns: []*regexp.Regexp{
			mustCompile(`^//[^\n]*`),
			mustCompile(`(?s)^/\*.*?\*/`),
		},
		OpenDelimiter:  mustCompile(`^[({\[]`),
		CloseDelimiter: mustCompile(`^[)}\]]`),
	}
}

func jsonProfile() *SyntaxProfile {
	return &SyntaxProfile{
		Name:       "json",
		Extensions: []string{"json"},
		AtomPatterns: []*regexp.Regexp{
			mustCompile(`^"(?:\\.|[^"\\])*"`),
			mustCompile(`^-?[0-9]+(?:\.[0-9]+)?(?:[eE][+-]?[0-9]+)?`),
			mustCompile(`^true\b`),
			mustCompile(`^false\b`),
			mustCompile(`^null\b`),
			mustCompile(`^[:,]`),
		},
		CommentPatterns: nil,
		OpenDelimiter:   mustCompile(`^[\[{]`),
		CloseDelimiter:  mustCompile(`^[\]}]`),
	}
}
