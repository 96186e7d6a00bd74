package config

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scourfs/internal/domain"
	"scourfs/internal/services"
)

func TestMergeConfigOverridesOnlyPresentFields(t *testing.T) {
	var stored fileConfig
	require.NoError(t, json.Unmarshal([]byte(`{
		"root": "/data",
		"sortMode": "name",
		"erasePasses": 7
	}`), &stored))

	merged := mergeConfig(DefaultConfig(), stored)

	assert.Equal(t, "/data", merged.Root)
	assert.Equal(t, domain.SortByName, merged.SortMode)
	assert.Equal(t, 7, merged.ErasePasses)

	defaults := DefaultConfig()
	assert.Equal(t, defaults.SafeMode, merged.SafeMode)
	assert.Equal(t, defaults.MaxDepth, merged.MaxDepth)
	assert.Equal(t, defaults.TopN, merged.TopN)
}

func TestMergeConfigRejectsInvalidValues(t *testing.T) {
	var stored fileConfig
	require.NoError(t, json.Unmarshal([]byte(`{
		"sortMode": "bogus",
		"erasePasses": -5,
		"minTreeSize": -1,
		"topN": 0
	}`), &stored))

	merged := mergeConfig(DefaultConfig(), stored)
	defaults := DefaultConfig()

	assert.Equal(t, defaults.SortMode, merged.SortMode)
	assert.Equal(t, defaults.ErasePasses, merged.ErasePasses)
	assert.Equal(t, defaults.MinTreeSize, merged.MinTreeSize)
	assert.Equal(t, defaults.TopN, merged.TopN)
}

func TestParseFlags(t *testing.T) {
	cfg, mode, err := ParseFlags(DefaultConfig(), []string{
		"--report", "tree",
		"-o", "json",
		"--min-size", "1MiB",
		"-d", "2",
		"-e", "/proc,/sys",
		"/srv/media",
	})
	require.NoError(t, err)

	assert.Equal(t, "tree", mode.Report)
	assert.Equal(t, "json", mode.Output)
	assert.Equal(t, []string{"/srv/media"}, mode.Targets)
	assert.Equal(t, "/srv/media", cfg.Root)
	assert.Equal(t, int64(1<<20), cfg.MinTreeSize)
	assert.Equal(t, 2, cfg.MaxDepth)
	assert.Equal(t, []string{"/proc", "/sys"}, cfg.Exclusions)
}

func TestParseFlagsDefaults(t *testing.T) {
	cfg, mode, err := ParseFlags(DefaultConfig(), nil)
	require.NoError(t, err)

	assert.Empty(t, mode.Report)
	assert.Equal(t, "table", mode.Output)
	assert.Equal(t, ".", cfg.Root)
	assert.Equal(t, services.UnlimitedDepth, cfg.MaxDepth)
}

func TestParseFlagsRejectsBadValues(t *testing.T) {
	_, _, err := ParseFlags(DefaultConfig(), []string{"--report", "wipe"})
	assert.Error(t, err)

	_, _, err = ParseFlags(DefaultConfig(), []string{"-o", "xml"})
	assert.Error(t, err)

	_, _, err = ParseFlags(DefaultConfig(), []string{"--min-size", "a-lot"})
	assert.Error(t, err)

	_, _, err = ParseFlags(DefaultConfig(), []string{"-p", "0"})
	assert.Error(t, err)
}
