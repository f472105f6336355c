package diff

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/aledsdavies/structdiff/pkgs/langtable"
	"github.com/aledsdavies/structdiff/pkgs/tree"
)

func goProfile() *langtable.SyntaxProfile {
	p, _ := langtable.Builtins().Resolve("go")
	return p
}

func jsonProfile() *langtable.SyntaxProfile {
	p, _ := langtable.Builtins().Resolve("json")
	return p
}

// parse returns the virtual root of src's parse: every test source here
// is one balanced list or one flat atom sequence, so callers either take
// that list's MarkedNode with topList or work directly off the root.
func parse(src string, profile *langtable.SyntaxProfile) *tree.List {
	return tree.Parse([]byte(src), profile)
}

func marks(m *MarkedNode) []MarkKind {
	out := []MarkKind{m.Mark}
	for _, c := range m.Children {
		out = append(out, marks(c)...)
	}
	return out
}

func literals(m *MarkedNode) []string {
	out := []string{m.Node.Literal()}
	for _, c := range m.Children {
		out = append(out, literals(c)...)
	}
	return out
}

// topList returns the single top-level list under a parsed root, the
// MarkedNode for it on both sides of a result.
func topList(result *Result) (lhs, rhs *MarkedNode) {
	return result.LHS.Children[0], result.RHS.Children[0]
}

func TestIdentityDiffAllUnchanged(t *testing.T) {
	a := parse("(a b (c d) e)", goProfile())
	b := parse("(a b (c d) e)", goProfile())

	result := Diff(a, b, DefaultDiffConfig())

	for _, m := range marks(result.LHS) {
		if m != Unchanged {
			t.Fatalf("identity diff: got non-Unchanged mark %v", m)
		}
	}
	for _, m := range marks(result.RHS) {
		if m != Unchanged {
			t.Fatalf("identity diff: got non-Unchanged mark %v", m)
		}
	}
	if result.Cost != 0 {
		t.Fatalf("identity diff: cost = %d, want 0", result.Cost)
	}
}

func TestSingleAtomReplacement(t *testing.T) {
	a := parse("(a b c)", goProfile())
	b := parse("(a x c)", goProfile())

	result := Diff(a, b, DefaultDiffConfig())
	lhsList, rhsList := topList(result)

	want := []MarkKind{Unchanged, ReplacedAtom, Unchanged}
	if diff := cmp.Diff(want, marks(lhsList)[1:]); diff != "" {
		t.Fatalf("lhs child marks mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, marks(rhsList)[1:]); diff != "" {
		t.Fatalf("rhs child marks mismatch (-want +got):\n%s", diff)
	}
}

func TestSublistRemoval(t *testing.T) {
	a := parse("(a (b c) d)", goProfile())
	b := parse("(a d)", goProfile())

	result := Diff(a, b, DefaultDiffConfig())
	lhsList, _ := topList(result)

	var sawRemovedList bool
	for _, c := range lhsList.Children {
		if _, ok := c.Node.(*tree.List); ok && c.Mark == Removed {
			sawRemovedList = true
		}
	}
	if !sawRemovedList {
		t.Fatalf("expected the (b c) sublist to be marked Removed wholesale")
	}
}

func TestJSONAppendedElement(t *testing.T) {
	a := parse("[1,2,3]", jsonProfile())
	b := parse("[1,2,3,4]", jsonProfile())

	result := Diff(a, b, DefaultDiffConfig())
	_, rhsList := topList(result)

	added := 0
	for _, m := range marks(rhsList) {
		if m == Added {
			added++
		}
	}
	// The JSON profile tokenizes "," as its own atom, so appending the
	// element "4" appends two atoms: the separator and the literal.
	if added != 2 {
		t.Fatalf("appended-element diff: got %d Added marks, want 2 (comma + 4)", added)
	}

	lhsList, _ := topList(result)
	for _, m := range marks(lhsList) {
		if m != Unchanged {
			t.Fatalf("appended-element diff: lhs should be untouched, got %v", m)
		}
	}
}

func TestCommentOnlyChangeIsIsolated(t *testing.T) {
	a := parse("(a // old\nb)", goProfile())
	b := parse("(a // new\nb)", goProfile())

	result := Diff(a, b, DefaultDiffConfig())
	lhsList, _ := topList(result)

	for i, c := range lhsList.Children {
		lit := c.Node.(*tree.Atom).Text
		switch lit {
		case "a", "b":
			if c.Mark != Unchanged {
				t.Fatalf("child %d (%q): mark = %v, want Unchanged", i, lit, c.Mark)
			}
		default:
			if c.Mark != Removed && c.Mark != ReplacedAtom {
				t.Fatalf("comment child %q: mark = %v, want Removed or ReplacedAtom", lit, c.Mark)
			}
		}
	}
}

func TestUnbalancedInputStillProducesAResult(t *testing.T) {
	a := parse("(a (b c", goProfile())
	b := parse("(a (b c d))", goProfile())

	result := Diff(a, b, DefaultDiffConfig())
	if result == nil {
		t.Fatal("Diff returned nil on unbalanced input")
	}
	if len(a.Anomalies) == 0 {
		t.Fatal("expected a to carry a MissingClose anomaly")
	}
}

func TestDiffSymmetry(t *testing.T) {
	forward := Diff(parse("(a b c)", goProfile()), parse("(a x c)", goProfile()), DefaultDiffConfig())
	backward := Diff(parse("(a x c)", goProfile()), parse("(a b c)", goProfile()), DefaultDiffConfig())

	if forward.Cost != backward.Cost {
		t.Fatalf("symmetry: forward cost %d != backward cost %d", forward.Cost, backward.Cost)
	}
}

func TestAppendingIdenticalSuffixDoesNotChangeOriginalMarks(t *testing.T) {
	base := Diff(parse("a b c", goProfile()), parse("a b c", goProfile()), DefaultDiffConfig())
	baseMarks := marks(base.LHS)

	extended := Diff(parse("a b c d", goProfile()), parse("a b c d", goProfile()), DefaultDiffConfig())

	if diff := cmp.Diff(baseMarks, marks(extended.LHS)[:len(baseMarks)]); diff != "" {
		t.Fatalf("monotonicity: original prefix marks changed (-before +after):\n%s", diff)
	}
}

// bruteForceCost enumerates every edit script between two flat atom
// sequences by plain recursion (remove, add, match, replace) and returns
// the minimum cost. It shares only nodeCost with search.diffChildren, not
// the search itself, so agreement between the two is a genuine
// cross-check of optimality, not a tautology.
func bruteForceCost(lhs, rhs []tree.Node, cfg DiffConfig) int {
	var rec func(i, j int) int
	rec = func(i, j int) int {
		if i == len(lhs) && j == len(rhs) {
			return 0
		}
		best := -1
		consider := func(c int) {
			if best == -1 || c < best {
				best = c
			}
		}
		if i < len(lhs) {
			consider(nodeCost(lhs[i], cfg.Cost) + rec(i+1, j))
		}
		if j < len(rhs) {
			consider(nodeCost(rhs[j], cfg.Cost) + rec(i, j+1))
		}
		if i < len(lhs) && j < len(rhs) {
			if la, ok := lhs[i].(*tree.Atom); ok {
				if ra, ok := rhs[j].(*tree.Atom); ok {
					if la.Kind == ra.Kind && la.Text == ra.Text {
						consider(rec(i+1, j+1))
					} else if cfg.EnableReplace && la.Kind == ra.Kind {
						consider(cfg.Cost.ReplaceAtomCost + rec(i+1, j+1))
					}
				}
			}
		}
		return best
	}
	return rec(0, 0)
}

func TestOptimalCostOnSmallBruteForceableInput(t *testing.T) {
	cases := []struct{ lhs, rhs string }{
		{"a b", "a b c"},
		{"a b c", "a x c"},
		{"a b c d", "b c"},
		{"a b c", "c b a"},
		{"a b", "a b"},
		{"", "a b"},
	}
	cfg := DefaultDiffConfig()
	for _, tc := range cases {
		lhsList := parse(tc.lhs, goProfile())
		rhsList := parse(tc.rhs, goProfile())

		got := Diff(lhsList, rhsList, cfg).Cost
		want := bruteForceCost(lhsList.Children, rhsList.Children, cfg)
		if got != want {
			t.Fatalf("Diff(%q, %q).Cost = %d, want %d (brute-force optimum)", tc.lhs, tc.rhs, got, want)
		}
	}
}

func TestReplacedAtomPartnerLinksAreReciprocal(t *testing.T) {
	result := Diff(parse("a b c", goProfile()), parse("a x c", goProfile()), DefaultDiffConfig())

	for _, c := range result.LHS.Children {
		if c.Mark != ReplacedAtom {
			continue
		}
		if c.Partner == nil {
			t.Fatal("ReplacedAtom node has nil Partner")
		}
		if c.Partner.Partner != c {
			t.Fatal("Partner link is not reciprocal")
		}
	}
}

func TestFallbackResultMarksEverythingRemovedOrAdded(t *testing.T) {
	a := parse("a b", goProfile())
	b := parse("a b c", goProfile())

	result := fallbackResult(a, b)
	if !result.FellBack {
		t.Fatal("expected FellBack to be true")
	}

	for _, m := range marks(result.LHS)[1:] {
		if m != Removed {
			t.Fatalf("fallback lhs: got mark %v, want Removed", m)
		}
	}
	for _, m := range marks(result.RHS)[1:] {
		if m != Added {
			t.Fatalf("fallback rhs: got mark %v, want Added", m)
		}
	}
}

func TestParallelHashingMatchesSequentialResult(t *testing.T) {
	a := parse("(a (b c) d (e f))", goProfile())
	b := parse("(a (b x) d (e f g))", goProfile())

	sequential := DefaultDiffConfig()
	parallel := DefaultDiffConfig()
	parallel.ParallelHashing = true

	want := Diff(a, b, sequential)
	got := Diff(parse("(a (b c) d (e f))", goProfile()), parse("(a (b x) d (e f g))", goProfile()), parallel)

	if got.Cost != want.Cost {
		t.Fatalf("ParallelHashing cost = %d, want %d", got.Cost, want.Cost)
	}
	if diff := cmp.Diff(marks(want.LHS), marks(got.LHS)); diff != "" {
		t.Fatalf("ParallelHashing lhs marks mismatch (-sequential +parallel):\n%s", diff)
	}
}

func TestLiteralsMatchOriginalInput(t *testing.T) {
	result := Diff(parse("a b c", goProfile()), parse("a b c", goProfile()), DefaultDiffConfig())
	if got := result.LHS.Node.Literal(); got != "a b c" {
		t.Fatalf("lhs root literal = %q, want the original input %q", got, "a b c")
	}
	if diff := cmp.Diff(literals(result.LHS), literals(result.RHS), cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("identity diff: literal mismatch (-lhs +rhs):\n%s", diff)
	}
}
