package services

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scourfs/internal/domain"
)

func TestFindDuplicatesGroupsIdenticalContent(t *testing.T) {
	root := t.TempDir()
	content := []byte("the same forty-two bytes of file content!!")
	first := writeFile(t, root, "a/original.txt", content)
	second := writeFile(t, root, "b/copy.txt", content)
	writeFile(t, root, "unique.txt", []byte("different length entirely"))

	older := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(first, older, older))

	detector := NewDuplicateDetector(NewWalker(nil))
	result := detector.FindDuplicates(context.Background(), []string{root}, 1, nil)

	require.Len(t, result.Groups, 1)
	assert.Equal(t, 1, result.Stats.GroupCount)
	assert.Equal(t, 1, result.Stats.DuplicateFiles)
	assert.Equal(t, int64(len(content)), result.Stats.WastedBytes)

	// unique.txt has a singleton size, so only the pair was ever hashed.
	assert.Equal(t, 2, result.Stats.HashedFiles)

	for _, group := range result.Groups {
		require.Len(t, group.Members, 2)
		assert.Equal(t, first, group.Keeper().Path, "oldest member is the keeper")
		assert.Equal(t, second, group.Duplicates()[0].Path)
		assert.Equal(t, int64(2*len(content)), group.TotalSize)
		assert.Equal(t, int64(len(content)), group.WastedSpace())
	}
}

func TestFindDuplicatesSameSizeDifferentContent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "one.bin", []byte("aaaaaaaaaa"))
	writeFile(t, root, "two.bin", []byte("bbbbbbbbbb"))

	detector := NewDuplicateDetector(NewWalker(nil))
	result := detector.FindDuplicates(context.Background(), []string{root}, 1, nil)

	assert.Empty(t, result.Groups)
	assert.Equal(t, 2, result.Stats.HashedFiles, "size collision still forces both hashes")
	assert.Equal(t, int64(0), result.Stats.WastedBytes)
}

func TestFindDuplicatesMinFileSize(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "small1.txt", []byte("tiny"))
	writeFile(t, root, "small2.txt", []byte("tiny"))

	detector := NewDuplicateDetector(NewWalker(nil))
	result := detector.FindDuplicates(context.Background(), []string{root}, 1024, nil)

	assert.Empty(t, result.Groups)
	assert.Zero(t, result.Stats.HashedFiles)
}

func TestFindDuplicatesAcrossDirectories(t *testing.T) {
	left := t.TempDir()
	right := t.TempDir()
	content := []byte("shared across two scan roots")
	writeFile(t, left, "l.txt", content)
	writeFile(t, right, "r.txt", content)

	detector := NewDuplicateDetector(NewWalker(nil))
	result := detector.FindDuplicates(context.Background(), []string{left, right, "does-not-exist"}, 1, nil)

	require.Len(t, result.Groups, 1)
	for _, group := range result.Groups {
		assert.Len(t, group.Members, 2)
	}
}

func TestFindDuplicatesEmitsHashProgress(t *testing.T) {
	root := t.TempDir()
	content := []byte("progress payload")
	writeFile(t, root, "x.txt", content)
	writeFile(t, root, "y.txt", content)

	var events []domain.ProgressEvent
	detector := NewDuplicateDetector(NewWalker(nil))
	detector.FindDuplicates(context.Background(), []string{root}, 1, func(event domain.ProgressEvent) {
		if event.Kind == domain.ProgressHash {
			events = append(events, event)
		}
	})

	require.Len(t, events, 2)
	assert.Equal(t, int64(1), events[0].Current)
	assert.Equal(t, int64(2), events[1].Current)
}
