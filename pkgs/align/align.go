// Package align turns a diff.Result's marked tree pair into a row stream
// suitable for a side-by-side printer, without deciding how those rows
// are rendered.
package align

import (
	"github.com/aledsdavies/structdiff/pkgs/diff"
)

// Line is every node that begins on one source line of one side, plus
// that line's 1-based number.
type Line struct {
	Number int
	Nodes  []*diff.MarkedNode
}

// Row pairs (or doesn't) one lhs Line with one rhs Line. Either side may
// be nil: a Removed-only row has a nil RHS, an Added-only row has a nil
// LHS; a row with both set is either a pairing match or a coincident
// partial change.
type Row struct {
	LHS *Line
	RHS *Line
}

// Rows walks both trees in source order, building one Line per distinct
// start line, then merges the two Line streams with a two-pointer sweep.
func Rows(result *diff.Result) []Row {
	lhsLines := collectLines(result.LHS)
	rhsLines := collectLines(result.RHS)

	var rows []Row
	i, j := 0, 0
	for i < len(lhsLines) || j < len(rhsLines) {
		switch {
		case i < len(lhsLines) && j < len(rhsLines) && sharePairing(lhsLines[i], rhsLines[j]):
			rows = append(rows, Row{LHS: lhsLines[i], RHS: rhsLines[j]})
			i++
			j++

		case i < len(lhsLines) && allRemoved(lhsLines[i]):
			rows = append(rows, Row{LHS: lhsLines[i]})
			i++

		case j < len(rhsLines) && allAdded(rhsLines[j]):
			rows = append(rows, Row{RHS: rhsLines[j]})
			j++

		case i < len(lhsLines) && j < len(rhsLines):
			rows = append(rows, Row{LHS: lhsLines[i], RHS: rhsLines[j]})
			i++
			j++

		case i < len(lhsLines):
			rows = append(rows, Row{LHS: lhsLines[i]})
			i++

		default:
			rows = append(rows, Row{RHS: rhsLines[j]})
			j++
		}
	}
	return rows
}

// collectLines walks a marked tree in source order and groups every node
// by the source line its Start position falls on. A List and its first
// child can share a start line; both land on the same Line, in the order
// the walk visits them.
func collectLines(root *diff.MarkedNode) []*Line {
	var lines []*Line
	byNumber := map[int]*Line{}

	var walk func(m *diff.MarkedNode)
	walk = func(m *diff.MarkedNode) {
		n := m.Node.Start().Line
		line, ok := byNumber[n]
		if !ok {
			line = &Line{Number: n}
			byNumber[n] = line
			lines = append(lines, line)
		}
		line.Nodes = append(line.Nodes, m)
		for _, c := range m.Children {
			walk(c)
		}
	}
	for _, c := range root.Children {
		walk(c)
	}
	return lines
}

// sharePairing reports whether any node on lhs and any node on rhs are
// each other's Partner.
func sharePairing(lhs, rhs *Line) bool {
	rhsSet := make(map[*diff.MarkedNode]bool, len(rhs.Nodes))
	for _, n := range rhs.Nodes {
		rhsSet[n] = true
	}
	for _, n := range lhs.Nodes {
		if n.Partner != nil && rhsSet[n.Partner] {
			return true
		}
	}
	return false
}

func allRemoved(line *Line) bool {
	for _, n := range line.Nodes {
		if n.Mark != diff.Removed {
			return false
		}
	}
	return true
}

func allAdded(line *Line) bool {
	for _, n := range line.Nodes {
		if n.Mark != diff.Added {
			return false
		}
	}
	return true
}
