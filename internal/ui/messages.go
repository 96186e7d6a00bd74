package ui

import (
	"scourfs/internal/domain"
	"scourfs/internal/services"
)

type treeBuiltMsg struct {
	result   services.TreeResult
	analysis domain.DiskAnalysis
	err      error
}

type duplicatesMsg struct {
	result services.DuplicateResult
	err    error
}

type eraseDoneMsg struct {
	result services.EraseResult
}

type deleteDoneMsg struct {
	result services.DeleteResult
}

type progressMsg struct {
	event domain.ProgressEvent
}

type progressDoneMsg struct{}
