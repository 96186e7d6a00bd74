package services

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"scourfs/internal/domain"
)

const noExtensionKey = "[no extension]"

type Analyzer struct {
	walker *Walker
}

func NewAnalyzer(walker *Walker) *Analyzer {
	return &Analyzer{walker: walker}
}

// Analyze scans root recursively and aggregates totals, the top-N largest
// files and folders, and size grouped by lowercased extension.
func (analyzer *Analyzer) Analyze(ctx context.Context, root string, topN int, progress ProgressFunc) domain.DiskAnalysis {
	if topN <= 0 {
		topN = 10
	}
	walk := analyzer.walker.Scan(ctx, root, true, progress)

	folderSizes := make(map[string]int64)
	byExtension := make(map[string]int64)
	for _, record := range walk.Files {
		folderSizes[filepath.Dir(record.Path)] += record.Size
		byExtension[extensionKey(record.Path)] += record.Size
	}

	largestFiles := append([]domain.FileRecord{}, walk.Files...)
	sort.SliceStable(largestFiles, func(i, j int) bool {
		return largestFiles[i].Size > largestFiles[j].Size
	})
	if len(largestFiles) > topN {
		largestFiles = largestFiles[:topN]
	}

	largestFolders := make([]domain.FolderStat, 0, len(folderSizes))
	for path, size := range folderSizes {
		largestFolders = append(largestFolders, domain.FolderStat{Path: path, Size: size})
	}
	sort.SliceStable(largestFolders, func(i, j int) bool {
		return largestFolders[i].Size > largestFolders[j].Size
	})
	if len(largestFolders) > topN {
		largestFolders = largestFolders[:topN]
	}

	return domain.DiskAnalysis{
		TotalSize:       walk.TotalSize,
		FileCount:       len(walk.Files),
		FolderCount:     len(folderSizes),
		LargestFiles:    largestFiles,
		LargestFolders:  largestFolders,
		SizeByExtension: byExtension,
	}
}

func (analyzer *Analyzer) FindLargeFiles(ctx context.Context, root string, minSize int64, topN int, progress ProgressFunc) []domain.FileRecord {
	if topN <= 0 {
		topN = 50
	}
	walk := analyzer.walker.Scan(ctx, root, true, progress)

	large := make([]domain.FileRecord, 0, len(walk.Files))
	for _, record := range walk.Files {
		if record.Size >= minSize {
			large = append(large, record)
		}
	}
	sort.SliceStable(large, func(i, j int) bool {
		return large[i].Size > large[j].Size
	})
	if len(large) > topN {
		large = large[:topN]
	}
	return large
}

func extensionKey(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return noExtensionKey
	}
	return ext
}
