package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"scourfs/internal/domain"
	"scourfs/internal/services"
)

const (
	configDirName  = "scourfs"
	configFileName = "config.json"
)

func DefaultConfig() Config {
	return Config{
		Root:             ".",
		ShowHidden:       false,
		SafeMode:         true,
		SortMode:         domain.SortBySize,
		Theme:            "dark",
		Exclusions:       []string{},
		MinTreeSize:      0,
		MaxDepth:         services.UnlimitedDepth,
		MinDuplicateSize: 1,
		ErasePasses:      3,
		TopN:             10,
		HistoryLimit:     50,
	}
}

func ConfigPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, configDirName, configFileName), nil
}

func LoadConfig() (Config, error) {
	config := DefaultConfig()
	path, err := ConfigPath()
	if err != nil {
		return config, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return config, err
	}
	var stored fileConfig
	if err := json.Unmarshal(data, &stored); err != nil {
		return config, err
	}
	return mergeConfig(config, stored), nil
}

func SaveConfig(config Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func mergeConfig(base Config, stored fileConfig) Config {
	merged := base
	if stored.Root != nil {
		merged.Root = *stored.Root
	}
	if stored.ShowHidden != nil {
		merged.ShowHidden = *stored.ShowHidden
	}
	if stored.SafeMode != nil {
		merged.SafeMode = *stored.SafeMode
	}
	if stored.SortMode != nil {
		merged.SortMode = domainSortMode(*stored.SortMode, base.SortMode)
	}
	if stored.Theme != nil {
		merged.Theme = *stored.Theme
	}
	if stored.Exclusions != nil {
		merged.Exclusions = stored.Exclusions
	}
	if stored.MinTreeSize != nil && *stored.MinTreeSize >= 0 {
		merged.MinTreeSize = *stored.MinTreeSize
	}
	if stored.MaxDepth != nil {
		merged.MaxDepth = *stored.MaxDepth
	}
	if stored.MinDuplicateSize != nil && *stored.MinDuplicateSize >= 0 {
		merged.MinDuplicateSize = *stored.MinDuplicateSize
	}
	if stored.ErasePasses != nil && *stored.ErasePasses > 0 {
		merged.ErasePasses = *stored.ErasePasses
	}
	if stored.TopN != nil && *stored.TopN > 0 {
		merged.TopN = *stored.TopN
	}
	if stored.HistoryLimit != nil && *stored.HistoryLimit > 0 {
		merged.HistoryLimit = *stored.HistoryLimit
	}
	return merged
}

func domainSortMode(value string, fallback domain.SortMode) domain.SortMode {
	switch domain.SortMode(value) {
	case domain.SortBySize, domain.SortByName:
		return domain.SortMode(value)
	default:
		return fallback
	}
}
