package services

// UnlimitedDepth disables the depth cutoff. A MaxDepth of 0 is honored
// literally and produces an empty tree.
const UnlimitedDepth = -1

type TreeOptions struct {
	MinSize  int64
	MaxDepth int
}

type DeleteRequest struct {
	Paths    []string
	SafeMode bool
}
