package diff

import "github.com/aledsdavies/structdiff/pkgs/tree"

// MarkKind is the change kind the Diff Engine annotates each node with.
type MarkKind int

const (
	// Unchanged pairs a node with exactly one structurally-equal,
	// positionally-corresponding node on the other side.
	Unchanged MarkKind = iota
	// Added appears only on the rhs tree: no partner on lhs.
	Added
	// Removed appears only on the lhs tree: no partner on rhs.
	Removed
	// ReplacedAtom is an Atom whose literal changed but whose positional
	// slot corresponds to an Atom on the other side (the optional
	// Replace-Atom edge).
	ReplacedAtom
)

func (m MarkKind) String() string {
	switch m {
	case Unchanged:
		return "Unchanged"
	case Added:
		return "Added"
	case Removed:
		return "Removed"
	case ReplacedAtom:
		return "ReplacedAtom"
	default:
		return "MarkKind(?)"
	}
}

// MarkedNode wraps one tree.Node with its change kind, its pairing link
// to the corresponding node on the other side (non-owning; nil for Added
// and Removed), and — when Node is a *tree.List — the marked children in
// the same order as Node's own Children.
type MarkedNode struct {
	Node     tree.Node
	Mark     MarkKind
	Partner  *MarkedNode
	Children []*MarkedNode
}

// Result is the Diff Engine's output: the marked overlay of both input
// roots, plus the total edit-script cost and whether a deadline forced
// the no-pairing fallback forced by a deadline.
type Result struct {
	LHS      *MarkedNode
	RHS      *MarkedNode
	Cost     int
	FellBack bool
}
