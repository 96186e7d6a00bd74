package services

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"scourfs/internal/domain"
)

// Remover performs ordinary (non-secure) deletion of explicit paths, the
// cheap counterpart to SecureEraser for content that needs no overwrite.
type Remover struct{}

func NewRemover() *Remover {
	return &Remover{}
}

func (remover *Remover) Delete(ctx context.Context, req DeleteRequest, progress ProgressFunc) DeleteResult {
	start := time.Now()
	result := DeleteResult{}

	paths := normalizePaths(req.Paths)
	if req.SafeMode {
		for _, path := range paths {
			if IsCriticalPath(path) {
				result.FailureCount++
				result.Errors = append(result.Errors, fmt.Sprintf("blocked critical path: %s", path))
				result.Message = "delete blocked"
				result.Duration = time.Since(start)
				return result
			}
		}
	}

	for index, path := range paths {
		if ctx.Err() != nil {
			result.Message = "delete cancelled"
			result.Duration = time.Since(start)
			return result
		}
		emit(progress, domain.ProgressEvent{
			Kind:    domain.ProgressFile,
			Path:    path,
			Current: int64(index + 1),
			Total:   int64(len(paths)),
		})
		info, err := os.Lstat(path)
		if err != nil {
			result.FailureCount++
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		if info.IsDir() {
			remover.deleteDirectory(ctx, path, &result)
			continue
		}
		if err := os.Remove(path); err != nil {
			result.FailureCount++
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		result.SuccessCount++
	}
	result.Message = "delete complete"
	result.Duration = time.Since(start)
	return result
}

func (remover *Remover) deleteDirectory(ctx context.Context, path string, result *DeleteResult) {
	var dirs []string
	_ = filepath.WalkDir(path, func(child string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			result.FailureCount++
			result.Errors = append(result.Errors, walkErr.Error())
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if entry.IsDir() {
			dirs = append(dirs, child)
			return nil
		}
		if err := os.Remove(child); err != nil {
			result.FailureCount++
			result.Errors = append(result.Errors, err.Error())
			return nil
		}
		result.SuccessCount++
		return nil
	})
	for index := len(dirs) - 1; index >= 0; index-- {
		if ctx.Err() != nil {
			return
		}
		if err := os.Remove(dirs[index]); err != nil {
			result.FailureCount++
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		result.SuccessCount++
	}
}
