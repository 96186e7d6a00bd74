package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"sort"
	"time"

	"scourfs/internal/domain"
)

const hashChunkSize = 8 * 1024

type DuplicateDetector struct {
	walker *Walker
}

func NewDuplicateDetector(walker *Walker) *DuplicateDetector {
	return &DuplicateDetector{walker: walker}
}

// FindDuplicates groups byte-identical files across the given directories.
// Files are first bucketed by exact size; only sizes shared by two or more
// files are ever hashed, so a file with a unique length costs no I/O beyond
// its stat.
func (detector *DuplicateDetector) FindDuplicates(ctx context.Context, directories []string, minFileSize int64, progress ProgressFunc) DuplicateResult {
	start := time.Now()

	sizeGroups := make(map[int64][]domain.FileRecord)
	for _, directory := range normalizePaths(directories) {
		if info, err := os.Stat(directory); err != nil || !info.IsDir() {
			continue
		}
		walk := detector.walker.Scan(ctx, directory, true, nil)
		for _, record := range walk.Files {
			if record.Size >= minFileSize {
				sizeGroups[record.Size] = append(sizeGroups[record.Size], record)
			}
		}
	}

	hashGroups := make(map[string][]domain.FileRecord)
	var hashed int
	cancelled := false
	for _, records := range sizeGroups {
		if len(records) < 2 {
			continue
		}
		for _, record := range records {
			if ctx.Err() != nil {
				cancelled = true
				break
			}
			sum, err := hashFile(record.Path)
			if err != nil {
				// Unreadable content drops the file from consideration.
				continue
			}
			hashGroups[sum] = append(hashGroups[sum], record)
			hashed++
			emit(progress, domain.ProgressEvent{
				Kind:    domain.ProgressHash,
				Path:    record.Path,
				Current: int64(hashed),
			})
		}
		if cancelled {
			break
		}
	}

	result := DuplicateResult{Groups: make(map[string]domain.DuplicateGroup)}
	for sum, records := range hashGroups {
		if len(records) < 2 {
			continue
		}
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].ModTime.Before(records[j].ModTime)
		})
		var total int64
		for _, record := range records {
			total += record.Size
		}
		group := domain.DuplicateGroup{Hash: sum, Members: records, TotalSize: total}
		result.Groups[sum] = group
		result.Stats.GroupCount++
		result.Stats.DuplicateFiles += len(records) - 1
		result.Stats.WastedBytes += group.WastedSpace()
	}
	result.Stats.HashedFiles = hashed
	result.Duration = time.Since(start)
	return result
}

func hashFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	digest := sha256.New()
	if _, err := io.CopyBuffer(digest, file, make([]byte, hashChunkSize)); err != nil {
		return "", err
	}
	return hex.EncodeToString(digest.Sum(nil)), nil
}
