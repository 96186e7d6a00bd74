package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"scourfs/internal/domain"
)

// Walker lists files under a directory while honoring a fixed set of
// case-insensitive excluded path prefixes. All counters are returned, never
// held on the struct, so one Walker is safe to reuse across calls.
type Walker struct {
	exclusions []string
}

func NewWalker(exclusions []string) *Walker {
	return &Walker{exclusions: lowerPrefixes(exclusions)}
}

func (walker *Walker) Excluded(path string) bool {
	lowered := strings.ToLower(path)
	for _, prefix := range walker.exclusions {
		if strings.HasPrefix(lowered, prefix) {
			return true
		}
	}
	return false
}

func (walker *Walker) Scan(ctx context.Context, directory string, recursive bool, progress ProgressFunc) WalkResult {
	result := WalkResult{}
	root := cleanPath(directory)
	if walker.Excluded(root) {
		return result
	}

	// Explicit work stack instead of recursion; directory depth is only
	// bounded by the filesystem.
	pending := []string{root}
	for len(pending) > 0 {
		if ctx.Err() != nil {
			return result
		}
		dir := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		entries, err := os.ReadDir(dir)
		if err != nil {
			result.SkippedCount++
			continue
		}
		for _, entry := range entries {
			if ctx.Err() != nil {
				return result
			}
			path := filepath.Join(dir, entry.Name())
			if entry.IsDir() {
				if recursive && !walker.Excluded(path) {
					pending = append(pending, path)
				}
				continue
			}
			if walker.Excluded(path) {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				result.SkippedCount++
				continue
			}
			result.Files = append(result.Files, domain.FileRecord{
				Path:    path,
				Size:    info.Size(),
				ModTime: info.ModTime(),
			})
			result.ScannedCount++
			result.TotalSize += info.Size()
			emit(progress, domain.ProgressEvent{
				Kind:    domain.ProgressFileSeen,
				Path:    path,
				Current: result.ScannedCount,
			})
		}
	}
	return result
}
