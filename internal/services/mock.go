package services

import (
	"context"
	"time"

	"scourfs/internal/domain"
)

type MockTreeBuilder struct {
	Result TreeResult
}

func (mock *MockTreeBuilder) BuildTree(ctx context.Context, root string, opts TreeOptions, progress ProgressFunc) TreeResult {
	select {
	case <-ctx.Done():
		return TreeResult{}
	case <-time.After(10 * time.Millisecond):
	}
	result := mock.Result
	if result.Root.Path == "" {
		result.Root = domain.DiskNode{Path: root, Name: displayName(root), IsDir: true, PercentOfParent: 100}
	}
	return result
}

type MockDuplicateFinder struct {
	Result DuplicateResult
}

func (mock *MockDuplicateFinder) FindDuplicates(ctx context.Context, directories []string, minFileSize int64, progress ProgressFunc) DuplicateResult {
	select {
	case <-ctx.Done():
		return DuplicateResult{Groups: map[string]domain.DuplicateGroup{}}
	case <-time.After(10 * time.Millisecond):
	}
	result := mock.Result
	if result.Groups == nil {
		result.Groups = map[string]domain.DuplicateGroup{}
	}
	return result
}

type MockEraser struct {
	FileErr      error
	FolderResult EraseResult
	EraseCalls   int
}

func (mock *MockEraser) EraseFile(ctx context.Context, path string, passes int, progress ProgressFunc) error {
	mock.EraseCalls++
	return mock.FileErr
}

func (mock *MockEraser) EraseFolder(ctx context.Context, folder string, passes int, progress ProgressFunc) EraseResult {
	mock.EraseCalls++
	return mock.FolderResult
}
