package services

import (
	"time"

	"scourfs/internal/domain"
)

type WalkResult struct {
	Files        []domain.FileRecord
	ScannedCount int64
	TotalSize    int64
	SkippedCount int64
}

type TreeResult struct {
	Root     domain.DiskNode
	Duration time.Duration
}

type DuplicateStats struct {
	GroupCount     int
	DuplicateFiles int
	WastedBytes    int64
	HashedFiles    int
}

type DuplicateResult struct {
	Groups   map[string]domain.DuplicateGroup
	Stats    DuplicateStats
	Duration time.Duration
}

type EraseResult struct {
	SuccessCount int
	FailureCount int
	Errors       []string
	Message      string
	Duration     time.Duration
}

func (result EraseResult) Success() bool {
	return result.FailureCount == 0
}

type DeleteResult struct {
	SuccessCount int
	FailureCount int
	Errors       []string
	Message      string
	Duration     time.Duration
}
