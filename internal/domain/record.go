package domain

import "time"

type FileRecord struct {
	Path    string
	Size    int64
	ModTime time.Time
	IsDir   bool
}

type DiskNode struct {
	Path            string
	Name            string
	Size            int64
	IsDir           bool
	ItemCount       int
	PercentOfParent float64
	Children        []DiskNode
}

type DuplicateGroup struct {
	Hash      string
	Members   []FileRecord
	TotalSize int64
}

// Keeper is the oldest member by modification time, suggested for retention.
func (group DuplicateGroup) Keeper() FileRecord {
	return group.Members[0]
}

func (group DuplicateGroup) Duplicates() []FileRecord {
	if len(group.Members) < 2 {
		return nil
	}
	return group.Members[1:]
}

func (group DuplicateGroup) WastedSpace() int64 {
	if len(group.Members) < 2 {
		return 0
	}
	return group.TotalSize - group.Members[0].Size
}

type FolderStat struct {
	Path string
	Size int64
}

type DiskAnalysis struct {
	TotalSize       int64
	FileCount       int
	FolderCount     int
	LargestFiles    []FileRecord
	LargestFolders  []FolderStat
	SizeByExtension map[string]int64
}
