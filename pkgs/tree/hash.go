package tree

import (
	"context"
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"
)

// hashTree computes a post-order structural hash for every node in root,
// caching it on the node. Two nodes with equal hashes are presumed
// structurally equal; the diff engine still verifies with a literal
// comparison before trusting it (hash-compare-then-verify, to survive a
// collision).
func hashTree(n Node) uint64 {
	switch v := n.(type) {
	case *Atom:
		h := xxhash.New()
		h.Write([]byte{byte(v.Kind)})
		h.Write([]byte(v.Text))
		v.hash = h.Sum64()
		return v.hash

	case *List:
		for _, c := range v.Children {
			hashTree(c)
		}
		combineListHash(v)
		return v.hash

	default:
		return 0
	}
}

// combineListHash folds a List's own delimiters with its children's
// already-computed hashes, without recursing into them. Used directly by
// HashParallel once every child has been hashed concurrently, so the
// root's own combine step doesn't redo the children's work sequentially.
func combineListHash(v *List) {
	h := xxhash.New()
	h.Write([]byte(v.Open))
	h.Write([]byte(v.Close))
	var buf [8]byte
	for _, c := range v.Children {
		binary.LittleEndian.PutUint64(buf[:], c.Hash())
		h.Write(buf[:])
	}
	v.hash = h.Sum64()
}

// HashParallel recomputes the structural hash of every node in root using
// one goroutine per top-level child, via golang.org/x/sync/errgroup. The
// default Parse path hashes sequentially; this is for callers with large
// trees who opt in via DiffConfig.ParallelHashing.
func HashParallel(ctx context.Context, root *List) error {
	g, _ := errgroup.WithContext(ctx)
	for _, child := range root.Children {
		child := child
		g.Go(func() error {
			hashTree(child)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	combineListHash(root)
	return nil
}

// SubtreeEqual reports whether a and b are structurally identical: same
// hash, confirmed by a literal comparison (with whitespace stripped) to
// guard against a hash collision.
func SubtreeEqual(a, b Node) bool {
	if a.Hash() != b.Hash() {
		return false
	}
	return literalWithoutTrivia(a) == literalWithoutTrivia(b)
}

func literalWithoutTrivia(n Node) string {
	switch v := n.(type) {
	case *Atom:
		return v.Text
	case *List:
		s := v.Open
		for _, c := range v.Children {
			s += literalWithoutTrivia(c)
		}
		s += v.Close
		return s
	default:
		return ""
	}
}
