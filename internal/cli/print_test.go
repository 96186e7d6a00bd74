package cli

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scourfs/internal/domain"
	"scourfs/internal/services"
)

func sampleAnalysis() domain.DiskAnalysis {
	return domain.DiskAnalysis{
		TotalSize:   3 << 20,
		FileCount:   12,
		FolderCount: 3,
		LargestFiles: []domain.FileRecord{
			{Path: "/data/video.mkv", Size: 2 << 20},
		},
		LargestFolders: []domain.FolderStat{
			{Path: "/data", Size: 3 << 20},
		},
		SizeByExtension: map[string]int64{".mkv": 2 << 20, ".txt": 1 << 20},
	}
}

func TestPrintAnalysisTable(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printAnalysisTable(&out, "/data", sampleAnalysis()))

	text := out.String()
	assert.Contains(t, text, "/data: 3.0 MiB in 12 files, 3 folders")
	assert.Contains(t, text, "video.mkv")
	assert.Contains(t, text, ".mkv")
}

func TestPrintTreeTable(t *testing.T) {
	root := domain.DiskNode{
		Path: "/data", Name: "data", Size: 1024, IsDir: true, ItemCount: 1, PercentOfParent: 100,
		Children: []domain.DiskNode{
			{Path: "/data/a.bin", Name: "a.bin", Size: 1024, ItemCount: 1, PercentOfParent: 100},
		},
	}

	var out bytes.Buffer
	require.NoError(t, printTreeTable(&out, root))

	text := out.String()
	assert.Contains(t, text, "data/")
	assert.Contains(t, text, "  a.bin")
	assert.Contains(t, text, "1.0 KiB")
}

func TestPrintDuplicatesTable(t *testing.T) {
	group := domain.DuplicateGroup{
		Hash:      "deadbeefcafe0123",
		TotalSize: 2048,
		Members: []domain.FileRecord{
			{Path: "/data/old.txt", Size: 1024, ModTime: time.Now().Add(-time.Hour)},
			{Path: "/data/new.txt", Size: 1024, ModTime: time.Now()},
		},
	}
	stats := services.DuplicateStats{GroupCount: 1, DuplicateFiles: 1, WastedBytes: 1024, HashedFiles: 2}

	var out bytes.Buffer
	require.NoError(t, printDuplicatesTable(&out, stats, []domain.DuplicateGroup{group}))

	text := out.String()
	assert.Contains(t, text, "group deadbeefcafe")
	assert.Contains(t, text, "[keep] /data/old.txt")
	assert.Contains(t, text, "[dup ] /data/new.txt")
}

func TestSortedGroupsOrdersByWastedSpace(t *testing.T) {
	result := services.DuplicateResult{Groups: map[string]domain.DuplicateGroup{
		"small": {Hash: "small", TotalSize: 20, Members: []domain.FileRecord{{Size: 10}, {Size: 10}}},
		"large": {Hash: "large", TotalSize: 300, Members: []domain.FileRecord{{Size: 100}, {Size: 100}, {Size: 100}}},
	}}

	groups := sortedGroups(result)
	require.Len(t, groups, 2)
	assert.Equal(t, "large", groups[0].Hash)
}

func TestPrintJSON(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printJSON(&out, analysisReport("/data", sampleAnalysis())))

	var decoded analysisPayload
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, "/data", decoded.Root)
	assert.Equal(t, 12, decoded.FileCount)
}
