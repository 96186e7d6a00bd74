package config

import "scourfs/internal/domain"

type Config struct {
	Root             string          `json:"root"`
	ShowHidden       bool            `json:"showHidden"`
	SafeMode         bool            `json:"safeMode"`
	SortMode         domain.SortMode `json:"sortMode"`
	Theme            string          `json:"theme"`
	Exclusions       []string        `json:"exclusions"`
	MinTreeSize      int64           `json:"minTreeSize"`
	MaxDepth         int             `json:"maxDepth"`
	MinDuplicateSize int64           `json:"minDuplicateSize"`
	ErasePasses      int             `json:"erasePasses"`
	TopN             int             `json:"topN"`
	HistoryLimit     int             `json:"historyLimit"`
}

type fileConfig struct {
	Root             *string  `json:"root"`
	ShowHidden       *bool    `json:"showHidden"`
	SafeMode         *bool    `json:"safeMode"`
	SortMode         *string  `json:"sortMode"`
	Theme            *string  `json:"theme"`
	Exclusions       []string `json:"exclusions"`
	MinTreeSize      *int64   `json:"minTreeSize"`
	MaxDepth         *int     `json:"maxDepth"`
	MinDuplicateSize *int64   `json:"minDuplicateSize"`
	ErasePasses      *int     `json:"erasePasses"`
	TopN             *int     `json:"topN"`
	HistoryLimit     *int     `json:"historyLimit"`
}
