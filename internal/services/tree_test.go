package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTreeRollsUpSizes(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "big.bin", make([]byte, 4000))
	writeFile(t, root, "docs/a.txt", make([]byte, 1000))
	writeFile(t, root, "docs/b.txt", make([]byte, 500))

	builder := NewTreeBuilder()
	result := builder.BuildTree(context.Background(), root, TreeOptions{MaxDepth: UnlimitedDepth}, nil)

	node := result.Root
	assert.Equal(t, int64(5500), node.Size)
	assert.Equal(t, 3, node.ItemCount)
	assert.Equal(t, float64(100), node.PercentOfParent)
	require.Len(t, node.Children, 2)

	// Children come back largest first.
	assert.Equal(t, "big.bin", node.Children[0].Name)
	assert.Equal(t, "docs", node.Children[1].Name)
	assert.True(t, node.Children[1].IsDir)
	assert.Equal(t, int64(1500), node.Children[1].Size)
	assert.Equal(t, 2, node.Children[1].ItemCount)

	var percent float64
	for _, child := range node.Children {
		percent += child.PercentOfParent
	}
	assert.InDelta(t, 100, percent, 0.01)
}

func TestBuildTreeMinSizeFiltersAndShrinksRollup(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "large.dat", make([]byte, 2048))
	writeFile(t, root, "tiny.dat", make([]byte, 10))
	writeFile(t, root, "small/only-tiny.dat", make([]byte, 10))

	builder := NewTreeBuilder()
	result := builder.BuildTree(context.Background(), root, TreeOptions{MinSize: 1024, MaxDepth: UnlimitedDepth}, nil)

	node := result.Root
	assert.Equal(t, int64(2048), node.Size)
	assert.Equal(t, 1, node.ItemCount)
	require.Len(t, node.Children, 1)
	assert.Equal(t, "large.dat", node.Children[0].Name)
}

func TestBuildTreeMaxDepthZeroYieldsEmptyRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "ignored.bin", make([]byte, 100))

	builder := NewTreeBuilder()
	result := builder.BuildTree(context.Background(), root, TreeOptions{MaxDepth: 0}, nil)

	assert.Equal(t, int64(0), result.Root.Size)
	assert.Equal(t, 0, result.Root.ItemCount)
	assert.Empty(t, result.Root.Children)
}

func TestBuildTreeMaxDepthOneStopsBelowRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "visible.bin", make([]byte, 300))
	writeFile(t, root, "sub/hidden.bin", make([]byte, 700))

	builder := NewTreeBuilder()
	result := builder.BuildTree(context.Background(), root, TreeOptions{MaxDepth: 1}, nil)

	// The subdirectory itself is listed but nothing below it counts.
	assert.Equal(t, int64(300), result.Root.Size)
	assert.Equal(t, 1, result.Root.ItemCount)
	for _, child := range result.Root.Children {
		if child.IsDir {
			assert.Equal(t, int64(0), child.Size)
			assert.Empty(t, child.Children)
		}
	}
}

func TestBuildTreeMissingRoot(t *testing.T) {
	builder := NewTreeBuilder()
	result := builder.BuildTree(context.Background(), t.TempDir()+"/gone", TreeOptions{MaxDepth: UnlimitedDepth}, nil)

	assert.Equal(t, int64(0), result.Root.Size)
	assert.Empty(t, result.Root.Children)
	assert.True(t, result.Root.IsDir)
}
