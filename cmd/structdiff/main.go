package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aledsdavies/structdiff/pkgs/align"
	"github.com/aledsdavies/structdiff/pkgs/diff"
	"github.com/aledsdavies/structdiff/pkgs/langtable"
	"github.com/aledsdavies/structdiff/pkgs/tree"
	"github.com/spf13/cobra"
)

// Build-time variables - can be set via ldflags
var (
	Version   string = "dev"
	BuildTime string = "unknown"
	GitCommit string = "unknown"
)

// Global flags
var (
	configFile string
	langName   string
	timeout    time.Duration
	debug      bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "structdiff <old-file> <new-file>",
	Short: "Compare two source files by syntax tree structure, not by line",
	Long: `structdiff parses two source files with a language's syntax profile and
reports a structural diff: atoms and lists added, removed, or replaced,
rather than a line-by-line comparison. A node that moved is reported as
removed in one place and added in the other.`,
	Args: cobra.ExactArgs(2),
	RunE: diffCommand,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long:  "Display version, build time, and git commit information for structdiff.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("structdiff %s\n", Version)
		fmt.Printf("Built: %s\n", BuildTime)
		fmt.Printf("Commit: %s\n", GitCommit)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to a YAML syntax table (default: built-in C-like/JSON profiles)")
	rootCmd.PersistentFlags().StringVarP(&langName, "lang", "l", "", "Force a specific language profile instead of resolving by extension")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Abandon the diff and fall back to a no-pairing result after this long (0 = no deadline)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug output")

	rootCmd.AddCommand(versionCmd)
}

func diffCommand(cmd *cobra.Command, args []string) error {
	lhsPath, rhsPath := args[0], args[1]

	table, err := resolveTable()
	if err != nil {
		return err
	}

	lhsProfile, err := resolveProfile(table, lhsPath)
	if err != nil {
		return err
	}
	rhsProfile, err := resolveProfile(table, rhsPath)
	if err != nil {
		return err
	}

	lhsSrc, err := os.ReadFile(lhsPath)
	if err != nil {
		return fmt.Errorf("error reading file %s: %w", lhsPath, err)
	}
	rhsSrc, err := os.ReadFile(rhsPath)
	if err != nil {
		return fmt.Errorf("error reading file %s: %w", rhsPath, err)
	}

	if debug {
		fmt.Fprintf(os.Stderr, "parsing %s as %q, %s as %q\n", lhsPath, lhsProfile.Name, rhsPath, rhsProfile.Name)
	}

	lhsTree := tree.Parse(lhsSrc, lhsProfile)
	rhsTree := tree.Parse(rhsSrc, rhsProfile)

	reportAnomalies(lhsPath, lhsTree.Anomalies)
	reportAnomalies(rhsPath, rhsTree.Anomalies)

	cfg := diff.DefaultDiffConfig()
	if timeout > 0 {
		cfg.HasDeadline = true
		cfg.Deadline = time.Now().Add(timeout)
	}

	result := diff.Diff(lhsTree, rhsTree, cfg)
	if result.FellBack {
		fmt.Fprintf(os.Stderr, "structdiff: deadline exceeded, falling back to a no-pairing diff\n")
	}
	if debug {
		fmt.Fprintf(os.Stderr, "edit script cost: %d\n", result.Cost)
	}

	printRows(lhsPath, rhsPath, align.Rows(result))
	return nil
}

func resolveTable() (*langtable.Table, error) {
	if configFile == "" {
		return langtable.Builtins(), nil
	}
	table, warnings, err := langtable.LoadFile(configFile)
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "structdiff: %s\n", w.String())
	}
	if err != nil {
		return nil, fmt.Errorf("error loading syntax config %s: %w", configFile, err)
	}
	return table, nil
}

func resolveProfile(table *langtable.Table, path string) (*langtable.SyntaxProfile, error) {
	if langName != "" {
		for _, p := range table.Languages() {
			if p.Name == langName {
				return p, nil
			}
		}
		if p, ok := table.Resolve(langName); ok {
			return p, nil
		}
		return nil, fmt.Errorf("no syntax profile registered for language %q", langName)
	}

	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	p, ok := table.Resolve(ext)
	if !ok {
		return nil, fmt.Errorf("no syntax profile registered for extension %q (file %s)", ext, path)
	}
	return p, nil
}

func reportAnomalies(path string, anomalies []tree.Anomaly) {
	for _, a := range anomalies {
		fmt.Fprintf(os.Stderr, "structdiff: %s:%d: %s\n", path, a.Pos.Line, a.Message)
	}
}

// printRows renders the row stream as plain two-column text: a leading
// marker (" ", "-", "+", "~") and the row's literal content on each side.
// Color, width-fitting, and truncation are a printer's concern, not this
// tool's.
func printRows(lhsPath, rhsPath string, rows []align.Row) {
	fmt.Printf("--- %s\n+++ %s\n", lhsPath, rhsPath)
	for _, r := range rows {
		switch {
		case r.LHS != nil && r.RHS == nil:
			fmt.Printf("-%d: %s\n", r.LHS.Number, lineText(r.LHS))
		case r.RHS != nil && r.LHS == nil:
			fmt.Printf("+%d: %s\n", r.RHS.Number, lineText(r.RHS))
		default:
			marker := " "
			if rowHasChange(r) {
				marker = "~"
			}
			fmt.Printf("%s%d,%d: %s | %s\n", marker, r.LHS.Number, r.RHS.Number, lineText(r.LHS), lineText(r.RHS))
		}
	}
}

func lineText(line *align.Line) string {
	var sb strings.Builder
	for _, n := range line.Nodes {
		sb.WriteString(n.Node.Literal())
	}
	return strings.TrimSpace(sb.String())
}

func rowHasChange(r align.Row) bool {
	for _, n := range r.LHS.Nodes {
		if n.Mark != diff.Unchanged {
			return true
		}
	}
	for _, n := range r.RHS.Nodes {
		if n.Mark != diff.Unchanged {
			return true
		}
	}
	return false
}
