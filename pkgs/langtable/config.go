package langtable

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigError is returned when a syntax configuration document cannot be
// turned into a usable Table. It is the "configuration error" kind from
// the error taxonomy: fatal for the affected language, reported at load
// time, never a diff-time concern.
type ConfigError struct {
	Language string
	Field    string
	Err      error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("langtable: %s: %s: %v", e.Language, e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Warning is a non-fatal note recorded while loading a configuration
// document, such as a stripped leading dot on an extension or a known
// pattern typo that was repaired rather than replicated.
type Warning struct {
	Language string
	Message  string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Language, w.Message)
}

// langEntry is the decoded shape of one language's YAML block.
type langEntry struct {
	Extensions            []string `yaml:"extensions"`
	AtomPatterns          []string `yaml:"atom_patterns"`
	CommentPatterns       []string `yaml:"comment_patterns"`
	OpenDelimiterPattern  string   `yaml:"open_delimiter_pattern"`
	CloseDelimiterPattern string   `yaml:"close_delimiter_pattern"`
}

// Config is the declarative table keyed by language name, decoded
// directly from YAML.
type Config map[string]langEntry

// Load decodes a syntax configuration document, compiles every pattern,
// and returns the resulting Table plus any non-fatal warnings. The first
// configuration error aborts the load for that language's entry only;
// other languages in the same document still load.
func Load(r io.Reader) (*Table, []Warning, error) {
	var cfg Config
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&cfg); err != nil {
		return nil, nil, fmt.Errorf("langtable: decode config: %w", err)
	}

	table := NewTable()
	var warnings []Warning
	var firstErr error

	for name, entry := range cfg {
		profile, langWarnings, err := compileEntry(name, entry)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		warnings = append(warnings, langWarnings...)
		table.Register(profile)
	}

	if firstErr != nil {
		return table, warnings, firstErr
	}
	return table, warnings, nil
}

// LoadFile is Load reading from a path on disk.
func LoadFile(path string) (*Table, []Warning, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("langtable: open %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

func compileEntry(name string, entry langEntry) (*SyntaxProfile, []Warning, error) {
	var warnings []Warning

	extensions := make([]string, 0, len(entry.Extensions))
	for _, ext := range entry.Extensions {
		trimmed := strings.TrimPrefix(ext, ".")
		if trimmed != ext {
			warnings = append(warnings, Warning{name, fmt.Sprintf("extension %q has a leading dot; stripped", ext)})
		}
		extensions = append(extensions, strings.ToLower(trimmed))
	}

	atomPatterns, w, err := compilePatterns(name, "atom_patterns", entry.AtomPatterns)
	warnings = append(warnings, w...)
	if err != nil {
		return nil, warnings, err
	}

	commentPatterns, w, err := compilePatterns(name, "comment_patterns", entry.CommentPatterns)
	warnings = append(warnings, w...)
	if err != nil {
		return nil, warnings, err
	}

	open, w, err := compileSingle(name, "open_delimiter_pattern", entry.OpenDelimiterPattern)
	warnings = append(warnings, w...)
	if err != nil {
		return nil, warnings, err
	}

	closeP, w, err := compileSingle(name, "close_delimiter_pattern", entry.CloseDelimiterPattern)
	warnings = append(warnings, w...)
	if err != nil {
		return nil, warnings, err
	}

	return &SyntaxProfile{
		Name:            name,
		Extensions:      extensions,
		AtomPatterns:    atomPatterns,
		CommentPatterns: commentPatterns,
		OpenDelimiter:   open,
		CloseDelimiter:  closeP,
	}, warnings, nil
}

func compilePatterns(lang, field string, patterns []string) ([]*regexp.Regexp, []Warning, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	var warnings []Warning
	for _, raw := range patterns {
		re, warn, err := compileSingle(lang, field, raw)
		if warn != nil {
			warnings = append(warnings, warn...)
		}
		if err != nil {
			return nil, warnings, err
		}
		out = append(out, re)
	}
	return out, warnings, nil
}

func compileSingle(lang, field, raw string) (*regexp.Regexp, []Warning, error) {
	fixed, fixedNote := fixKnownTypos(raw)
	var warnings []Warning
	if fixedNote != "" {
		warnings = append(warnings, Warning{lang, fixedNote})
	}

	re, err := regexp.Compile(fixed)
	if err != nil {
		return nil, warnings, &ConfigError{Language: lang, Field: field, Err: err}
	}
	if re.MatchString("") {
		return nil, warnings, &ConfigError{
			Language: lang,
			Field:    field,
			Err:      fmt.Errorf("pattern %q matches the empty string", raw),
		}
	}
	return re, warnings, nil
}

// fixKnownTypos repairs a known configuration defect: a backtick-string
// character class that was typo'd as ending in a literal "1`" instead of
// a closing backtick. It is not replicated; it is detected and fixed,
// with the fix recorded as a load warning rather than silently applied.
func fixKnownTypos(pattern string) (fixed string, note string) {
	const typo = "1`"
	const want = "`"
	if strings.Contains(pattern, typo) && strings.Contains(pattern, "`") {
		repaired := strings.Replace(pattern, typo, want, 1)
		return repaired, fmt.Sprintf("pattern %q looked like the known backtick-class typo; replaced %q with %q", pattern, typo, want)
	}
	return pattern, ""
}
