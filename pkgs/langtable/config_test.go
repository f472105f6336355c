package langtable

import (
	"errors"
	"strings"
	"testing"
)

func TestLoadCompilesPatterns(t *testing.T) {
	doc := `
toy:
  extensions: [".toy", "TOY"]
  atom_patterns:
    - "[a-z]+"
    - "[0-9]+"
  comment_patterns:
    - "#[^\n]*"
  open_delimiter_pattern: "\\("
  close_delimiter_pattern: "\\)"
`
	table, warnings, err := Load(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	profile, ok := table.Resolve("toy")
	if !ok {
		t.Fatalf("expected leading-dot extension to be normalized to %q", "toy")
	}
	if len(profile.AtomPatterns) != 2 {
		t.Fatalf("got %d atom patterns, want 2", len(profile.AtomPatterns))
	}
	if _, ok := table.Resolve("TOY"); ok {
		t.Fatalf("uppercase extension should not resolve; extensions are lowercased on load")
	}

	if len(warnings) == 0 {
		t.Fatalf("expected a warning about the stripped leading dot on %q", ".toy")
	}
}

func TestLoadRejectsEmptyMatchPattern(t *testing.T) {
	doc := `
bad:
  extensions: ["bad"]
  atom_patterns:
    - "[a-z]*"
  open_delimiter_pattern: "\\("
  close_delimiter_pattern: "\\)"
`
	_, _, err := Load(strings.NewReader(doc))
	if err == nil {
		t.Fatal("expected a ConfigError for a pattern that can match the empty string")
	}
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *ConfigError, got %T: %v", err, err)
	}
	if ce.Field != "atom_patterns" {
		t.Fatalf("got field %q, want %q", ce.Field, "atom_patterns")
	}
}

func TestFixKnownTypoIsRepairedNotReplicated(t *testing.T) {
	// The known malformed shape: a backtick-string pattern ending in a
	// stray "1`" instead of a closing backtick.
	raw := "`(?:[^`]|\\\\.)*1`"
	fixed, note := fixKnownTypos(raw)
	if note == "" {
		t.Fatal("expected a repair note for the known typo shape")
	}
	if strings.Contains(fixed, "1`") {
		t.Fatalf("typo was not repaired: %q", fixed)
	}
}

func TestBuiltinsResolveCommonExtensions(t *testing.T) {
	table := Builtins()
	for _, ext := range []string{"go", "js", "json", "rs"} {
		if _, ok := table.Resolve(ext); !ok {
			t.Errorf("expected builtin profile for extension %q", ext)
		}
	}
	if _, ok := table.Resolve("cobol"); ok {
		t.Errorf("did not expect a builtin profile for %q", "cobol")
	}
}

