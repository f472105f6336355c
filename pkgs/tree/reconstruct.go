package tree

// Reconstruct concatenates every node's recorded trivia and literal text
// in tree order. For a tree produced by Parse, this equals the original
// input exactly. It exists for tests, never for the diff path, which is
// whitespace-blind by design.
func Reconstruct(root *List) []byte {
	return []byte(root.Literal())
}
