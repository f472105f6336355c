package diff

import "github.com/aledsdavies/structdiff/pkgs/tree"

// CostModel gives the non-negative integer edge costs the search uses.
// Two relative relationships must hold for any conforming cost function:
// exact matches always beat non-matches, and a whole-subtree match in one
// hop beats matching every child individually. These are the defaults.
type CostModel struct {
	// AtomCost is charged per non-comment atom added or removed.
	AtomCost int
	// CommentCost is charged per comment atom added or removed; higher
	// than AtomCost so preferring to match comments never distorts code
	// matching. Defaults to twice the atom cost.
	CommentCost int
	// ReplaceAtomCost is charged for the optional Replace-Atom edge; must
	// stay below AtomCost*2 (remove+add) or the edge never wins.
	ReplaceAtomCost int
	// ListStepPastEpsilon is charged for skipping a hash-confirmed
	// identical subtree in one hop, instead of matching every descendant
	// individually (both cost ~0; this one also skips the search).
	ListStepPastEpsilon int
}

// DefaultCostModel returns the standard defaults: CommentCost is twice
// AtomCost, ReplaceAtomCost sits strictly between 0 and AtomCost*2, and
// step-past is free.
func DefaultCostModel() CostModel {
	return CostModel{
		AtomCost:            1,
		CommentCost:         2,
		ReplaceAtomCost:     1,
		ListStepPastEpsilon: 0,
	}
}

// nodeCost is deliberately both the removal and the addition cost: the
// cost of a node's absence from one side is identical whichever side it
// is missing from, which is what makes diff(A,B) and diff(B,A) produce
// equal-cost edit scripts with Added/Removed swapped.
func nodeCost(n tree.Node, cfg CostModel) int {
	switch v := n.(type) {
	case *tree.Atom:
		if v.Kind == tree.CommentAtom {
			return cfg.CommentCost
		}
		return cfg.AtomCost
	case *tree.List:
		total := 0
		for _, c := range v.Children {
			total += nodeCost(c, cfg)
		}
		return total
	default:
		return 0
	}
}
