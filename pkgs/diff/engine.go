package diff

import (
	"container/heap"
	"context"
	"time"

	"github.com/aledsdavies/structdiff/pkgs/tree"
)

// DiffConfig carries the cost model and the optional cooperative deadline.
type DiffConfig struct {
	Cost          CostModel
	Deadline      time.Time
	HasDeadline   bool
	EnableReplace bool

	// ParallelHashing rehashes both input trees with tree.HashParallel
	// before the search starts, instead of relying on the sequential hash
	// Parse already computed. Off by default; worth it only for callers
	// with large trees, since the errgroup fan-out has its own overhead.
	ParallelHashing bool
}

// DefaultDiffConfig returns the standard defaults: default costs, no
// deadline, Replace-Atom enabled (it's optional; this configuration
// includes it).
func DefaultDiffConfig() DiffConfig {
	return DiffConfig{Cost: DefaultCostModel(), EnableReplace: true}
}

// Diff computes the marked tree pair for lhs and rhs. It never fails on
// well-formed trees: a deadline crossing produces the no-pairing fallback
// result rather than an error.
func Diff(lhs, rhs *tree.List, cfg DiffConfig) *Result {
	if cfg.ParallelHashing {
		// hashTree never fails; the error return exists only because
		// errgroup.Group.Go requires it.
		_ = tree.HashParallel(context.Background(), lhs)
		_ = tree.HashParallel(context.Background(), rhs)
	}

	s := &search{cfg: cfg}

	ops, cost := s.diffChildren(lhs.Children, rhs.Children)
	if s.timedOut {
		return fallbackResult(lhs, rhs)
	}

	lhsChildren, rhsChildren := buildLevel(lhs.Children, rhs.Children, ops)
	lhsRoot := &MarkedNode{Node: lhs, Mark: Unchanged, Children: lhsChildren}
	rhsRoot := &MarkedNode{Node: rhs, Mark: Unchanged, Children: rhsChildren}
	lhsRoot.Partner = rhsRoot
	rhsRoot.Partner = lhsRoot

	return &Result{LHS: lhsRoot, RHS: rhsRoot, Cost: cost}
}

func fallbackResult(lhs, rhs *tree.List) *Result {
	lhsChildren := make([]*MarkedNode, len(lhs.Children))
	for i, c := range lhs.Children {
		lhsChildren[i] = markAllRemoved(c)
	}
	rhsChildren := make([]*MarkedNode, len(rhs.Children))
	for i, c := range rhs.Children {
		rhsChildren[i] = markAllAdded(c)
	}
	lhsRoot := &MarkedNode{Node: lhs, Mark: Unchanged, Children: lhsChildren}
	rhsRoot := &MarkedNode{Node: rhs, Mark: Unchanged, Children: rhsChildren}
	lhsRoot.Partner = rhsRoot
	rhsRoot.Partner = lhsRoot
	return &Result{LHS: lhsRoot, RHS: rhsRoot, FellBack: true}
}

// search carries the state shared across every nesting level of one
// Diff call: the cost model, the cooperative deadline, and the flag that
// propagates a deadline trip back up through the recursion.
type search struct {
	cfg      DiffConfig
	timedOut bool
	pops     int
}

// deadlineCheckEvery bounds how often we pay the cost of a wall-clock
// read while popping vertices off the priority queue.
const deadlineCheckEvery = 256

func (s *search) deadlineHit() bool {
	if s.timedOut {
		return true
	}
	if !s.cfg.HasDeadline {
		return false
	}
	s.pops++
	if s.pops%deadlineCheckEvery != 0 {
		return false
	}
	if time.Now().After(s.cfg.Deadline) {
		s.timedOut = true
	}
	return s.timedOut
}

// opKind names one step of the edit script at a single nesting level.
type opKind int

const (
	opMatch opKind = iota
	opReplace
	opStepPast
	opEnter
	opRemove
	opAdd
)

// op is one edge of the shortest path found at a single level, enough to
// rebuild the marked children for that level.
type op struct {
	kind    opKind
	lhsIdx  int
	rhsIdx  int
	sub     []op // populated only for opEnter: the recursive result
}

// cursor is a vertex within a single level's grid: how many of each
// side's children have been consumed so far.
type cursor struct {
	i, j int
}

// pathState is one entry in the priority queue: a vertex, the cost to
// reach it, and a monotonic sequence number that makes tie-breaking
// deterministic. The edge that reached each vertex is kept separately, in
// diffChildren's predecessor maps.
type pathState struct {
	v    cursor
	cost int
	seq  int
}

type pqueue []*pathState

func (q pqueue) Len() int { return len(q) }
func (q pqueue) Less(a, b int) bool {
	if q[a].cost != q[b].cost {
		return q[a].cost < q[b].cost
	}
	return q[a].seq < q[b].seq
}
func (q pqueue) Swap(a, b int)      { q[a], q[b] = q[b], q[a] }
func (q *pqueue) Push(x any)        { *q = append(*q, x.(*pathState)) }
func (q *pqueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// edge is a candidate transition out of a vertex, paired with the op that
// produced it.
type edge struct {
	to   cursor
	cost int
	op   op
}

// diffChildren runs Dijkstra's algorithm over the implicit graph whose
// vertices are (lhsIndex, rhsIndex) positions within lhs and rhs, lazily
// generating neighbors as vertices are popped, and returns the shortest
// edit script plus its cost.
func (s *search) diffChildren(lhs, rhs []tree.Node) ([]op, int) {
	n, m := len(lhs), len(rhs)
	start := cursor{0, 0}
	goal := cursor{n, m}

	dist := map[cursor]int{start: 0}
	prevOp := map[cursor]op{}
	prevVertex := map[cursor]cursor{}
	visited := map[cursor]bool{}

	pq := &pqueue{{v: start, cost: 0, seq: 0}}
	heap.Init(pq)
	seq := 1

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(*pathState)
		if visited[cur.v] {
			continue
		}
		visited[cur.v] = true

		if s.deadlineHit() {
			return nil, 0
		}

		if cur.v == goal {
			break
		}

		for _, e := range s.neighbors(lhs, rhs, cur.v) {
			if visited[e.to] {
				continue
			}
			next := cur.cost + e.cost
			if d, ok := dist[e.to]; !ok || next < d {
				dist[e.to] = next
				prevOp[e.to] = e.op
				prevVertex[e.to] = cur.v
				heap.Push(pq, &pathState{v: e.to, cost: next, seq: seq})
				seq++
			}
		}
	}

	if s.timedOut {
		return nil, 0
	}

	// Reconstruct the edge sequence via predecessor links.
	var ops []op
	for v := goal; v != start; v = prevVertex[v] {
		ops = append(ops, prevOp[v])
	}
	for i, j := 0, len(ops)-1; i < j; i, j = i+1, j-1 {
		ops[i], ops[j] = ops[j], ops[i]
	}
	return ops, dist[goal]
}

func (s *search) neighbors(lhs, rhs []tree.Node, v cursor) []edge {
	var out []edge
	cfg := s.cfg.Cost

	if v.i < len(lhs) && v.j < len(rhs) {
		l, r := lhs[v.i], rhs[v.j]
		out = append(out, s.matchEdges(l, r, v, cfg)...)
	}
	if v.i < len(lhs) {
		cost := nodeCost(lhs[v.i], cfg)
		out = append(out, edge{
			to:   cursor{v.i + 1, v.j},
			cost: cost,
			op:   op{kind: opRemove, lhsIdx: v.i, rhsIdx: -1},
		})
	}
	if v.j < len(rhs) {
		cost := nodeCost(rhs[v.j], cfg)
		out = append(out, edge{
			to:   cursor{v.i, v.j + 1},
			cost: cost,
			op:   op{kind: opAdd, lhsIdx: -1, rhsIdx: v.j},
		})
	}
	return out
}

func (s *search) matchEdges(l, r tree.Node, v cursor, cfg CostModel) []edge {
	to := cursor{v.i + 1, v.j + 1}

	switch lv := l.(type) {
	case *tree.Atom:
		rv, ok := r.(*tree.Atom)
		if !ok {
			return nil
		}
		if lv.Kind == rv.Kind && lv.Text == rv.Text {
			return []edge{{to: to, cost: 0, op: op{kind: opMatch, lhsIdx: v.i, rhsIdx: v.j}}}
		}
		if s.cfg.EnableReplace && lv.Kind == rv.Kind {
			return []edge{{to: to, cost: cfg.ReplaceAtomCost, op: op{kind: opReplace, lhsIdx: v.i, rhsIdx: v.j}}}
		}
		return nil

	case *tree.List:
		rv, ok := r.(*tree.List)
		if !ok || lv.Open != rv.Open || lv.Close != rv.Close {
			return nil
		}
		if tree.SubtreeEqual(lv, rv) {
			return []edge{{to: to, cost: cfg.ListStepPastEpsilon, op: op{kind: opStepPast, lhsIdx: v.i, rhsIdx: v.j}}}
		}
		subOps, subCost := s.diffChildren(lv.Children, rv.Children)
		if s.timedOut {
			return nil
		}
		return []edge{{to: to, cost: subCost, op: op{kind: opEnter, lhsIdx: v.i, rhsIdx: v.j, sub: subOps}}}

	default:
		return nil
	}
}

// buildLevel turns one level's ops into the marked children for both
// sides, in source order.
func buildLevel(lhs, rhs []tree.Node, ops []op) (lhsOut, rhsOut []*MarkedNode) {
	for _, o := range ops {
		switch o.kind {
		case opMatch:
			lm := &MarkedNode{Node: lhs[o.lhsIdx], Mark: Unchanged}
			rm := &MarkedNode{Node: rhs[o.rhsIdx], Mark: Unchanged}
			lm.Partner, rm.Partner = rm, lm
			lhsOut = append(lhsOut, lm)
			rhsOut = append(rhsOut, rm)

		case opReplace:
			lm := &MarkedNode{Node: lhs[o.lhsIdx], Mark: ReplacedAtom}
			rm := &MarkedNode{Node: rhs[o.rhsIdx], Mark: ReplacedAtom}
			lm.Partner, rm.Partner = rm, lm
			lhsOut = append(lhsOut, lm)
			rhsOut = append(rhsOut, rm)

		case opStepPast:
			l := lhs[o.lhsIdx].(*tree.List)
			r := rhs[o.rhsIdx].(*tree.List)
			lm, rm := markLockstepUnchanged(l, r)
			lhsOut = append(lhsOut, lm)
			rhsOut = append(rhsOut, rm)

		case opEnter:
			l := lhs[o.lhsIdx].(*tree.List)
			r := rhs[o.rhsIdx].(*tree.List)
			subLhs, subRhs := buildLevel(l.Children, r.Children, o.sub)
			lm := &MarkedNode{Node: l, Mark: Unchanged, Children: subLhs}
			rm := &MarkedNode{Node: r, Mark: Unchanged, Children: subRhs}
			lm.Partner, rm.Partner = rm, lm
			lhsOut = append(lhsOut, lm)
			rhsOut = append(rhsOut, rm)

		case opRemove:
			lhsOut = append(lhsOut, markAllRemoved(lhs[o.lhsIdx]))

		case opAdd:
			rhsOut = append(rhsOut, markAllAdded(rhs[o.rhsIdx]))
		}
	}
	return lhsOut, rhsOut
}

// markLockstepUnchanged pairs two hash-confirmed-identical lists and
// every descendant within them without running a further search: the
// search is skipped, but marks still need to reach every node, so this
// walks both subtrees together.
func markLockstepUnchanged(l, r *tree.List) (*MarkedNode, *MarkedNode) {
	lm := &MarkedNode{Node: l, Mark: Unchanged}
	rm := &MarkedNode{Node: r, Mark: Unchanged}
	lm.Partner, rm.Partner = rm, lm

	for i := range l.Children {
		lc, rc := l.Children[i], r.Children[i]
		switch lc.(type) {
		case *tree.Atom:
			lcm := &MarkedNode{Node: lc, Mark: Unchanged}
			rcm := &MarkedNode{Node: rc, Mark: Unchanged}
			lcm.Partner, rcm.Partner = rcm, lcm
			lm.Children = append(lm.Children, lcm)
			rm.Children = append(rm.Children, rcm)
		case *tree.List:
			subLhs, subRhs := markLockstepUnchanged(lc.(*tree.List), rc.(*tree.List))
			lm.Children = append(lm.Children, subLhs)
			rm.Children = append(rm.Children, subRhs)
		}
	}
	return lm, rm
}

func markAllRemoved(n tree.Node) *MarkedNode {
	m := &MarkedNode{Node: n, Mark: Removed}
	if l, ok := n.(*tree.List); ok {
		for _, c := range l.Children {
			m.Children = append(m.Children, markAllRemoved(c))
		}
	}
	return m
}

func markAllAdded(n tree.Node) *MarkedNode {
	m := &MarkedNode{Node: n, Mark: Added}
	if l, ok := n.(*tree.List); ok {
		for _, c := range l.Children {
			m.Children = append(m.Children, markAllAdded(c))
		}
	}
	return m
}
