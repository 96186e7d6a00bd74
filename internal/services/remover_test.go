package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteFilesAndDirectories(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "plain.txt", []byte("x"))
	tree := filepath.Join(dir, "tree")
	writeFile(t, tree, "a.txt", []byte("a"))
	writeFile(t, tree, "sub/b.txt", []byte("b"))

	remover := NewRemover()
	result := remover.Delete(context.Background(), DeleteRequest{Paths: []string{file, tree}}, nil)

	assert.Equal(t, "delete complete", result.Message)
	assert.Zero(t, result.FailureCount)

	for _, path := range []string{file, tree} {
		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err))
	}
}

func TestDeleteMissingPathFailsSoft(t *testing.T) {
	dir := t.TempDir()
	keep := writeFile(t, dir, "keep.txt", []byte("k"))

	remover := NewRemover()
	result := remover.Delete(context.Background(), DeleteRequest{
		Paths: []string{filepath.Join(dir, "nope"), keep},
	}, nil)

	assert.Equal(t, 1, result.FailureCount)
	assert.Equal(t, 1, result.SuccessCount)
	require.Len(t, result.Errors, 1)
}

func TestDeleteSafeModeBlocksCriticalPaths(t *testing.T) {
	dir := t.TempDir()
	victim := writeFile(t, dir, "victim.txt", []byte("v"))

	remover := NewRemover()
	result := remover.Delete(context.Background(), DeleteRequest{
		Paths:    []string{victim, "/etc"},
		SafeMode: true,
	}, nil)

	assert.Equal(t, "delete blocked", result.Message)
	assert.Zero(t, result.SuccessCount)

	_, err := os.Stat(victim)
	assert.NoError(t, err, "nothing is deleted when any target is critical")
}

func TestIsCriticalPath(t *testing.T) {
	assert.True(t, IsCriticalPath("/"))
	assert.True(t, IsCriticalPath("/etc"))
	assert.True(t, IsCriticalPath("/etc/"))
	assert.False(t, IsCriticalPath(t.TempDir()))
	assert.False(t, IsCriticalPath("/etc/hosts"))
}

func TestDeleteCancelled(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "still-here.txt", []byte("s"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	remover := NewRemover()
	result := remover.Delete(ctx, DeleteRequest{Paths: []string{file}}, nil)

	assert.Equal(t, "delete cancelled", result.Message)
	_, err := os.Stat(file)
	assert.NoError(t, err)
}
