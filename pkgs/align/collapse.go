package align

import "github.com/aledsdavies/structdiff/pkgs/diff"

// Collapse folds long runs of all-Unchanged rows down to a `context`-sized
// window on either side of each change, replacing the folded middle with
// a single marker row (LHS and RHS both nil signals "elided" to the
// caller). Passing context == -1 returns rows unmodified: consuming
// elided markers is a printer's job, out of scope here.
func Collapse(rows []Row, context int) []Row {
	if context < 0 {
		return rows
	}

	unchanged := make([]bool, len(rows))
	for i, r := range rows {
		unchanged[i] = isUnchangedRow(r)
	}

	keep := make([]bool, len(rows))
	for i, u := range unchanged {
		if u {
			continue
		}
		lo := i - context
		if lo < 0 {
			lo = 0
		}
		hi := i + context
		if hi >= len(rows) {
			hi = len(rows) - 1
		}
		for k := lo; k <= hi; k++ {
			keep[k] = true
		}
	}

	var out []Row
	i := 0
	for i < len(rows) {
		if keep[i] {
			out = append(out, rows[i])
			i++
			continue
		}
		for i < len(rows) && !keep[i] {
			i++
		}
		out = append(out, Row{}) // elided marker: both sides nil
	}
	return out
}

func isUnchangedRow(r Row) bool {
	if r.LHS == nil || r.RHS == nil {
		return false
	}
	for _, n := range r.LHS.Nodes {
		if n.Mark != diff.Unchanged {
			return false
		}
	}
	for _, n := range r.RHS.Nodes {
		if n.Mark != diff.Unchanged {
			return false
		}
	}
	return true
}
