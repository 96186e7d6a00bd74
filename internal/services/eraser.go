package services

import (
	"bytes"
	"context"
	"crypto/rand"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"scourfs/internal/domain"
)

const patternSize = 512

// gutmannTable is the fixed middle section of the 35-pass plan. It
// approximates the published scheme rather than reproducing it; swap the
// entries if a different sequence is required.
var gutmannTable = [][]byte{
	bytes.Repeat([]byte{0x55}, patternSize),
	bytes.Repeat([]byte{0xAA}, patternSize),
	bytes.Repeat([]byte{0x92, 0x49, 0x24}, 171),
	bytes.Repeat([]byte{0x49, 0x24, 0x92}, 171),
	bytes.Repeat([]byte{0x24, 0x92, 0x49}, 171),
	bytes.Repeat([]byte{0x00}, patternSize),
	bytes.Repeat([]byte{0x11}, patternSize),
	bytes.Repeat([]byte{0x22}, patternSize),
	bytes.Repeat([]byte{0x33}, patternSize),
	bytes.Repeat([]byte{0x44}, patternSize),
	bytes.Repeat([]byte{0x55}, patternSize),
	bytes.Repeat([]byte{0x66}, patternSize),
	bytes.Repeat([]byte{0x77}, patternSize),
	bytes.Repeat([]byte{0x88}, patternSize),
	bytes.Repeat([]byte{0x99}, patternSize),
	bytes.Repeat([]byte{0xAA}, patternSize),
	bytes.Repeat([]byte{0xBB}, patternSize),
	bytes.Repeat([]byte{0xCC}, patternSize),
	bytes.Repeat([]byte{0xDD}, patternSize),
	bytes.Repeat([]byte{0xEE}, patternSize),
	bytes.Repeat([]byte{0xFF}, patternSize),
}

type SecureEraser struct{}

func NewSecureEraser() *SecureEraser {
	return &SecureEraser{}
}

// EraseFile overwrites the file's content with the pass plan for the
// requested count, renames it to a random name and unlinks it. A nil return
// means every pass and the final removal succeeded; any I/O error stops the
// routine for this file.
func (eraser *SecureEraser) EraseFile(ctx context.Context, path string, passes int, progress ProgressFunc) error {
	info, err := os.Lstat(path)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("not a regular file: %s", path)
	}
	if passes <= 0 {
		passes = 3
	}

	plan := passPlan(passes)
	for index, pattern := range plan {
		if err := ctx.Err(); err != nil {
			return err
		}
		emit(progress, domain.ProgressEvent{
			Kind:    domain.ProgressPass,
			Current: int64(index + 1),
			Total:   int64(len(plan)),
			Status:  fmt.Sprintf("overwriting pass %d/%d", index+1, len(plan)),
		})
		if err := overwritePass(path, pattern); err != nil {
			return fmt.Errorf("pass %d: %w", index+1, err)
		}
	}

	// Best-effort rename defeats filename-based recovery; erasure proceeds
	// under the original name when it fails.
	target := path
	renamed := filepath.Join(filepath.Dir(path), randomHexName(16))
	if err := os.Rename(path, renamed); err == nil {
		target = renamed
	}
	if err := os.Remove(target); err != nil {
		return err
	}
	emit(progress, domain.ProgressEvent{
		Kind:    domain.ProgressPass,
		Current: int64(len(plan)),
		Total:   int64(len(plan)),
		Status:  "file erased",
	})
	return nil
}

// EraseFolder enumerates every file up front, erases each independently and
// then removes the emptied directory skeleton bottom-up. One file's failure
// does not stop the rest.
func (eraser *SecureEraser) EraseFolder(ctx context.Context, folder string, passes int, progress ProgressFunc) EraseResult {
	start := time.Now()
	result := EraseResult{}

	root := cleanPath(folder)
	info, err := os.Stat(root)
	if err != nil {
		result.FailureCount++
		result.Errors = append(result.Errors, err.Error())
		result.Message = "erase failed"
		return result
	}
	if !info.IsDir() {
		result.FailureCount++
		result.Errors = append(result.Errors, fmt.Sprintf("not a directory: %s", root))
		result.Message = "erase failed"
		return result
	}

	var files []string
	var dirs []string
	_ = filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			result.Errors = append(result.Errors, walkErr.Error())
			return nil
		}
		if entry.IsDir() {
			if path != root {
				dirs = append(dirs, path)
			}
			return nil
		}
		files = append(files, path)
		return nil
	})

	for index, path := range files {
		// Cancellation lands between files; a pass in flight always runs to
		// completion first.
		if ctx.Err() != nil {
			result.Message = "erase cancelled"
			result.Duration = time.Since(start)
			return result
		}
		emit(progress, domain.ProgressEvent{
			Kind:    domain.ProgressFile,
			Path:    path,
			Current: int64(index + 1),
			Total:   int64(len(files)),
		})
		if err := eraser.EraseFile(ctx, path, passes, progress); err != nil {
			result.FailureCount++
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		result.SuccessCount++
	}

	for index := len(dirs) - 1; index >= 0; index-- {
		_ = os.Remove(dirs[index])
	}
	_ = os.Remove(root)

	if result.Success() {
		result.Message = "erase complete"
	} else {
		result.Message = fmt.Sprintf("erase finished with %d failures", result.FailureCount)
	}
	result.Duration = time.Since(start)
	return result
}

func passPlan(passes int) [][]byte {
	zeros := bytes.Repeat([]byte{0x00}, patternSize)
	ones := bytes.Repeat([]byte{0xFF}, patternSize)

	switch passes {
	case 1:
		return [][]byte{randomPattern()}
	case 3:
		return [][]byte{zeros, ones, randomPattern()}
	case 7:
		return [][]byte{
			randomPattern(), randomPattern(),
			zeros, ones,
			randomPattern(), randomPattern(), randomPattern(),
		}
	case 35:
		plan := make([][]byte, 0, 35)
		for i := 0; i < 4; i++ {
			plan = append(plan, randomPattern())
		}
		plan = append(plan, gutmannTable...)
		for i := 0; i < 10; i++ {
			plan = append(plan, randomPattern())
		}
		return plan
	default:
		plan := make([][]byte, 0, passes)
		for i := 0; i < passes; i++ {
			plan = append(plan, randomPattern())
		}
		return plan
	}
}

func randomPattern() []byte {
	pattern := make([]byte, patternSize)
	_, _ = rand.Read(pattern)
	return pattern
}

// overwritePass covers the file's exact current length with whole and partial
// repeats of the pattern, then forces the pass to stable storage.
func overwritePass(path string, pattern []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	size := info.Size()

	file, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return err
	}

	var written int64
	for written < size {
		chunk := int64(len(pattern))
		if remaining := size - written; remaining < chunk {
			chunk = remaining
		}
		n, err := file.Write(pattern[:chunk])
		if err != nil {
			_ = file.Close()
			return err
		}
		written += int64(n)
	}
	if err := file.Sync(); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
