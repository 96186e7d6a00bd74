package services

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"time"

	"scourfs/internal/domain"
)

type TreeBuilder struct{}

func NewTreeBuilder() *TreeBuilder {
	return &TreeBuilder{}
}

// BuildTree materializes a size-ranked directory tree rooted at root. With a
// positive MinSize the reported sizes cover retained content only; pass 0 for
// true on-disk totals. MaxDepth counts from the root, so 0 yields an empty
// tree and UnlimitedDepth removes the cutoff.
func (builder *TreeBuilder) BuildTree(ctx context.Context, root string, opts TreeOptions, progress ProgressFunc) TreeResult {
	start := time.Now()
	cleaned := cleanPath(root)
	size, items, children := builder.buildSubtree(ctx, cleaned, 0, opts, progress)
	node := domain.DiskNode{
		Path:            cleaned,
		Name:            displayName(cleaned),
		Size:            size,
		IsDir:           true,
		ItemCount:       items,
		PercentOfParent: 100,
		Children:        children,
	}
	return TreeResult{Root: node, Duration: time.Since(start)}
}

func (builder *TreeBuilder) buildSubtree(ctx context.Context, path string, depth int, opts TreeOptions, progress ProgressFunc) (int64, int, []domain.DiskNode) {
	if opts.MaxDepth >= 0 && depth >= opts.MaxDepth {
		return 0, 0, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		// Unreadable directories roll up as empty, never as an error.
		return 0, 0, nil
	}
	emit(progress, domain.ProgressEvent{
		Kind:  domain.ProgressDirectoryEntry,
		Path:  path,
		Total: int64(len(entries)),
	})

	var total int64
	var count int
	var children []domain.DiskNode
	for index, entry := range entries {
		if ctx.Err() != nil {
			break
		}
		entryPath := filepath.Join(path, entry.Name())
		emit(progress, domain.ProgressEvent{
			Kind:    domain.ProgressDirectoryEntry,
			Path:    entryPath,
			Current: int64(index + 1),
			Total:   int64(len(entries)),
		})

		if entry.IsDir() {
			subSize, subCount, subChildren := builder.buildSubtree(ctx, entryPath, depth+1, opts, progress)
			// A directory survives the filter when its retained content is
			// large enough or any child already survived.
			if subSize >= opts.MinSize || len(subChildren) > 0 {
				children = append(children, domain.DiskNode{
					Path:      entryPath,
					Name:      entry.Name(),
					Size:      subSize,
					IsDir:     true,
					ItemCount: subCount,
					Children:  subChildren,
				})
				total += subSize
				count += subCount
			}
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		size := info.Size()
		if size < opts.MinSize {
			continue
		}
		children = append(children, domain.DiskNode{
			Path:      entryPath,
			Name:      entry.Name(),
			Size:      size,
			ItemCount: 1,
		})
		total += size
		count++
	}

	sort.SliceStable(children, func(i, j int) bool {
		return children[i].Size > children[j].Size
	})
	if total > 0 {
		for index := range children {
			children[index].PercentOfParent = float64(children[index].Size) / float64(total) * 100
		}
	}
	return total, count, children
}
