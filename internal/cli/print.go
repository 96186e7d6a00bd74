package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"scourfs/internal/domain"
	"scourfs/internal/history"
	"scourfs/internal/services"
)

type analysisPayload struct {
	Root            string             `json:"root"`
	TotalSize       int64              `json:"total_size"`
	FileCount       int                `json:"file_count"`
	FolderCount     int                `json:"folder_count"`
	LargestFiles    []domain.FileRecord `json:"largest_files"`
	LargestFolders  []domain.FolderStat `json:"largest_folders"`
	SizeByExtension map[string]int64   `json:"size_by_extension"`
}

type duplicatePayload struct {
	Stats  services.DuplicateStats `json:"stats"`
	Groups []domain.DuplicateGroup `json:"groups"`
}

func analysisReport(root string, analysis domain.DiskAnalysis) analysisPayload {
	return analysisPayload{
		Root:            root,
		TotalSize:       analysis.TotalSize,
		FileCount:       analysis.FileCount,
		FolderCount:     analysis.FolderCount,
		LargestFiles:    analysis.LargestFiles,
		LargestFolders:  analysis.LargestFolders,
		SizeByExtension: analysis.SizeByExtension,
	}
}

func duplicateReport(result services.DuplicateResult, groups []domain.DuplicateGroup) duplicatePayload {
	return duplicatePayload{Stats: result.Stats, Groups: groups}
}

func printJSON(out io.Writer, payload any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}

func printAnalysisTable(out io.Writer, root string, analysis domain.DiskAnalysis) error {
	fmt.Fprintf(out, "%s: %s in %d files, %d folders\n\n",
		root, humanize.IBytes(uint64(analysis.TotalSize)), analysis.FileCount, analysis.FolderCount)

	writer := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if len(analysis.LargestFiles) > 0 {
		fmt.Fprintln(writer, "LARGEST FILES\tSIZE")
		for _, file := range analysis.LargestFiles {
			fmt.Fprintf(writer, "%s\t%s\n", file.Path, humanize.IBytes(uint64(file.Size)))
		}
		fmt.Fprintln(writer, "\t")
	}
	if len(analysis.LargestFolders) > 0 {
		fmt.Fprintln(writer, "LARGEST FOLDERS\tSIZE")
		for _, folder := range analysis.LargestFolders {
			fmt.Fprintf(writer, "%s\t%s\n", folder.Path, humanize.IBytes(uint64(folder.Size)))
		}
		fmt.Fprintln(writer, "\t")
	}
	if len(analysis.SizeByExtension) > 0 {
		fmt.Fprintln(writer, "EXTENSION\tSIZE")
		for _, extension := range sortedExtensions(analysis.SizeByExtension) {
			fmt.Fprintf(writer, "%s\t%s\n", extension, humanize.IBytes(uint64(analysis.SizeByExtension[extension])))
		}
	}
	return writer.Flush()
}

func printTreeTable(out io.Writer, root domain.DiskNode) error {
	writer := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(writer, "PATH\tSIZE\tITEMS\t%")
	writeTreeRows(writer, root, 0)
	return writer.Flush()
}

func writeTreeRows(writer io.Writer, node domain.DiskNode, depth int) {
	name := node.Name
	if node.IsDir {
		name += "/"
	}
	fmt.Fprintf(writer, "%s%s\t%s\t%d\t%.1f\n",
		strings.Repeat("  ", depth), name,
		humanize.IBytes(uint64(node.Size)), node.ItemCount, node.PercentOfParent)
	for _, child := range node.Children {
		writeTreeRows(writer, child, depth+1)
	}
}

func printDuplicatesTable(out io.Writer, stats services.DuplicateStats, groups []domain.DuplicateGroup) error {
	fmt.Fprintf(out, "%d duplicate groups, %d redundant files, %s reclaimable (%d files hashed)\n\n",
		stats.GroupCount, stats.DuplicateFiles, humanize.IBytes(uint64(stats.WastedBytes)), stats.HashedFiles)

	writer := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, group := range groups {
		fmt.Fprintf(writer, "group %s\t%d files\t%s wasted\n",
			shortHash(group.Hash), len(group.Members), humanize.IBytes(uint64(group.WastedSpace())))
		for position, member := range group.Members {
			label := "dup "
			if position == 0 {
				label = "keep"
			}
			fmt.Fprintf(writer, "  [%s] %s\t%s\t%s\n",
				label, member.Path, humanize.IBytes(uint64(member.Size)),
				member.ModTime.Format("2006-01-02 15:04"))
		}
	}
	return writer.Flush()
}

func printHistoryTable(out io.Writer, runs []history.Run) error {
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs recorded yet")
		return nil
	}
	writer := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(writer, "WHEN\tKIND\tROOT\tBYTES\tFILES\tGROUPS\tWASTED\tFAILURES")
	for _, run := range runs {
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%d\t%d\t%s\t%d\n",
			run.StartedAt.Format("2006-01-02 15:04"), run.Kind, run.Root,
			humanize.IBytes(uint64(run.TotalBytes)), run.FileCount, run.GroupCount,
			humanize.IBytes(uint64(run.WastedBytes)), run.Failures)
	}
	return writer.Flush()
}

func sortedExtensions(sizes map[string]int64) []string {
	extensions := make([]string, 0, len(sizes))
	for extension := range sizes {
		extensions = append(extensions, extension)
	}
	sort.Slice(extensions, func(left, right int) bool {
		if sizes[extensions[left]] != sizes[extensions[right]] {
			return sizes[extensions[left]] > sizes[extensions[right]]
		}
		return extensions[left] < extensions[right]
	})
	return extensions
}

func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
