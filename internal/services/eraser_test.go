package services

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scourfs/internal/domain"
)

func TestPassPlanPresets(t *testing.T) {
	assert.Len(t, passPlan(1), 1)
	assert.Len(t, passPlan(3), 3)
	assert.Len(t, passPlan(7), 7)
	assert.Len(t, passPlan(35), 35)
	assert.Len(t, passPlan(5), 5)

	plan := passPlan(3)
	assert.Equal(t, bytes.Repeat([]byte{0x00}, patternSize), plan[0])
	assert.Equal(t, bytes.Repeat([]byte{0xFF}, patternSize), plan[1])
	assert.Len(t, plan[2], patternSize)

	seven := passPlan(7)
	assert.Equal(t, bytes.Repeat([]byte{0x00}, patternSize), seven[2])
	assert.Equal(t, bytes.Repeat([]byte{0xFF}, patternSize), seven[3])
}

func TestPassPlanGutmannSection(t *testing.T) {
	plan := passPlan(35)
	require.Len(t, plan, 35)
	for index, pattern := range gutmannTable {
		assert.Equal(t, pattern, plan[4+index], "fixed pass %d", index)
	}
}

func TestOverwritePassCoversExactLength(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "victim.bin", bytes.Repeat([]byte{0xAB}, 1500))

	require.NoError(t, overwritePass(path, bytes.Repeat([]byte{0x00}, patternSize)))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, content, 1500, "overwrite never grows or truncates the file")
	assert.Equal(t, bytes.Repeat([]byte{0x00}, 1500), content)
}

func TestEraseFileRemovesAndReportsPasses(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "secret.txt", bytes.Repeat([]byte{0x42}, 1500))

	var passes []domain.ProgressEvent
	eraser := NewSecureEraser()
	err := eraser.EraseFile(context.Background(), path, 3, func(event domain.ProgressEvent) {
		if event.Kind == domain.ProgressPass {
			passes = append(passes, event)
		}
	})
	require.NoError(t, err)

	_, statErr := os.Lstat(path)
	assert.True(t, os.IsNotExist(statErr))

	// Three overwrite passes plus the final completion event.
	require.Len(t, passes, 4)
	assert.Equal(t, int64(3), passes[0].Total)
	assert.Equal(t, "file erased", passes[3].Status)
}

func TestEraseFileDefaultsToThreePasses(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "zero.txt", []byte("content"))

	var total int64
	eraser := NewSecureEraser()
	err := eraser.EraseFile(context.Background(), path, 0, func(event domain.ProgressEvent) {
		total = event.Total
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestEraseFileRejectsNonRegular(t *testing.T) {
	dir := t.TempDir()
	eraser := NewSecureEraser()

	assert.Error(t, eraser.EraseFile(context.Background(), dir, 3, nil))
	assert.Error(t, eraser.EraseFile(context.Background(), filepath.Join(dir, "missing"), 3, nil))

	// A refused target is left in place.
	_, err := os.Lstat(dir)
	assert.NoError(t, err)
}

func TestEraseFileFailureLeavesTarget(t *testing.T) {
	dir := t.TempDir()
	fifo := filepath.Join(dir, "pipe")
	require.NoError(t, syscall.Mkfifo(fifo, 0o644))

	eraser := NewSecureEraser()
	err := eraser.EraseFile(context.Background(), fifo, 3, nil)
	require.Error(t, err)

	// Failed erases never silently unlink: the original path survives
	// under its original name.
	info, statErr := os.Lstat(fifo)
	require.NoError(t, statErr)
	assert.Equal(t, "pipe", info.Name())
}

func TestEraseFolderFailureIsRecordedAndTargetSurvives(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "mixed")
	writeFile(t, root, "plain.txt", []byte("gone"))
	fifo := filepath.Join(root, "pipe")
	require.NoError(t, syscall.Mkfifo(fifo, 0o644))

	eraser := NewSecureEraser()
	result := eraser.EraseFolder(context.Background(), root, 1, nil)

	assert.False(t, result.Success())
	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 1, result.FailureCount)
	require.Len(t, result.Errors, 1)

	// The unerasable entry and its parent are still there.
	_, err := os.Lstat(fifo)
	assert.NoError(t, err)
	_, err = os.Stat(root)
	assert.NoError(t, err)
}

func TestEraseFolder(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "doomed")
	writeFile(t, root, "a.txt", []byte("aaa"))
	writeFile(t, root, "nested/b.txt", []byte("bbb"))

	eraser := NewSecureEraser()
	result := eraser.EraseFolder(context.Background(), root, 1, nil)

	assert.True(t, result.Success())
	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, "erase complete", result.Message)

	_, err := os.Stat(root)
	assert.True(t, os.IsNotExist(err), "directory skeleton is removed")
}

func TestEraseFolderMissing(t *testing.T) {
	eraser := NewSecureEraser()
	result := eraser.EraseFolder(context.Background(), filepath.Join(t.TempDir(), "gone"), 1, nil)

	assert.False(t, result.Success())
	assert.Equal(t, "erase failed", result.Message)
}

func TestEraseFolderCancelledBetweenFiles(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "tree")
	writeFile(t, root, "a.txt", []byte("aaa"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	eraser := NewSecureEraser()
	result := eraser.EraseFolder(ctx, root, 1, nil)
	assert.Equal(t, "erase cancelled", result.Message)
	assert.Zero(t, result.SuccessCount)
}
