package services

import (
	"context"

	"scourfs/internal/domain"
)

type TreeBuilding interface {
	BuildTree(ctx context.Context, root string, opts TreeOptions, progress ProgressFunc) TreeResult
}

type DuplicateFinding interface {
	FindDuplicates(ctx context.Context, directories []string, minFileSize int64, progress ProgressFunc) DuplicateResult
}

type Erasing interface {
	EraseFile(ctx context.Context, path string, passes int, progress ProgressFunc) error
	EraseFolder(ctx context.Context, folder string, passes int, progress ProgressFunc) EraseResult
}

type Deleting interface {
	Delete(ctx context.Context, req DeleteRequest, progress ProgressFunc) DeleteResult
}

type Analyzing interface {
	Analyze(ctx context.Context, root string, topN int, progress ProgressFunc) domain.DiskAnalysis
}
