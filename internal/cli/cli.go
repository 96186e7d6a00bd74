package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/mattn/go-isatty"

	"scourfs/internal/config"
	"scourfs/internal/domain"
	"scourfs/internal/history"
	"scourfs/internal/services"
)

// Options carries everything a one-shot invocation needs. Out receives the
// report, Err receives progress when it is a terminal.
type Options struct {
	Config config.Config
	Mode   config.Mode
	Store  *history.Store
	Out    io.Writer
	Err    *os.File
}

func Run(ctx context.Context, opts Options) error {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	if opts.Mode.History {
		return printHistory(opts)
	}

	targets := opts.Mode.Targets
	if len(targets) == 0 {
		targets = []string{opts.Config.Root}
	}

	// A piped invocation without --report still produces something useful.
	switch opts.Mode.Report {
	case "analyze", "":
		return runAnalyze(ctx, opts, targets[0])
	case "tree":
		return runTree(ctx, opts, targets[0])
	case "duplicates":
		return runDuplicates(ctx, opts, targets)
	default:
		return fmt.Errorf("unknown report %q", opts.Mode.Report)
	}
}

func runAnalyze(ctx context.Context, opts Options, root string) error {
	walker := services.NewWalker(opts.Config.Exclusions)
	analyzer := services.NewAnalyzer(walker)
	analysis := analyzer.Analyze(ctx, root, opts.Config.TopN, progressFor(opts.Err))
	clearProgress(opts.Err)
	if err := ctx.Err(); err != nil {
		return err
	}

	recordRun(opts, history.Run{
		Kind:       history.RunKindAnalyze,
		Root:       root,
		TotalBytes: analysis.TotalSize,
		FileCount:  int64(analysis.FileCount),
	})

	if opts.Mode.Output == "json" {
		return printJSON(opts.Out, analysisReport(root, analysis))
	}
	return printAnalysisTable(opts.Out, root, analysis)
}

func runTree(ctx context.Context, opts Options, root string) error {
	builder := services.NewTreeBuilder()
	result := builder.BuildTree(ctx, root, services.TreeOptions{
		MinSize:  opts.Config.MinTreeSize,
		MaxDepth: opts.Config.MaxDepth,
	}, progressFor(opts.Err))
	clearProgress(opts.Err)
	if err := ctx.Err(); err != nil {
		return err
	}

	recordRun(opts, history.Run{
		Kind:       history.RunKindTree,
		Root:       root,
		Duration:   result.Duration,
		TotalBytes: result.Root.Size,
		FileCount:  int64(result.Root.ItemCount),
	})

	if opts.Mode.Output == "json" {
		return printJSON(opts.Out, result.Root)
	}
	return printTreeTable(opts.Out, result.Root)
}

func runDuplicates(ctx context.Context, opts Options, targets []string) error {
	walker := services.NewWalker(opts.Config.Exclusions)
	detector := services.NewDuplicateDetector(walker)
	result := detector.FindDuplicates(ctx, targets, opts.Config.MinDuplicateSize, progressFor(opts.Err))
	clearProgress(opts.Err)
	if err := ctx.Err(); err != nil {
		return err
	}

	recordRun(opts, history.Run{
		Kind:        history.RunKindDuplicates,
		Root:        targets[0],
		Duration:    result.Duration,
		FileCount:   int64(result.Stats.HashedFiles),
		GroupCount:  int64(result.Stats.GroupCount),
		WastedBytes: result.Stats.WastedBytes,
	})

	groups := sortedGroups(result)
	if opts.Mode.Output == "json" {
		return printJSON(opts.Out, duplicateReport(result, groups))
	}
	return printDuplicatesTable(opts.Out, result.Stats, groups)
}

func printHistory(opts Options) error {
	if opts.Store == nil {
		return errors.New("run history is unavailable")
	}
	runs, err := opts.Store.RecentRuns(opts.Config.HistoryLimit)
	if err != nil {
		return fmt.Errorf("failed to read run history: %w", err)
	}
	if opts.Mode.Output == "json" {
		return printJSON(opts.Out, runs)
	}
	return printHistoryTable(opts.Out, runs)
}

func sortedGroups(result services.DuplicateResult) []domain.DuplicateGroup {
	groups := make([]domain.DuplicateGroup, 0, len(result.Groups))
	for _, group := range result.Groups {
		groups = append(groups, group)
	}
	sort.Slice(groups, func(left, right int) bool {
		if groups[left].WastedSpace() != groups[right].WastedSpace() {
			return groups[left].WastedSpace() > groups[right].WastedSpace()
		}
		return groups[left].Hash < groups[right].Hash
	})
	return groups
}

func recordRun(opts Options, run history.Run) {
	if opts.Store == nil {
		return
	}
	run.StartedAt = time.Now()
	if _, err := opts.Store.RecordRun(run); err != nil {
		return
	}
	_ = opts.Store.Prune(opts.Config.HistoryLimit)
}

// progressFor reports walk progress on the terminal without polluting piped
// output. It is a no-op when stderr is redirected.
func progressFor(errOut *os.File) services.ProgressFunc {
	if errOut == nil || !isatty.IsTerminal(errOut.Fd()) {
		return nil
	}
	var count int
	return func(event domain.ProgressEvent) {
		count++
		if count%100 != 0 {
			return
		}
		fmt.Fprintf(errOut, "\r%-60s", fmt.Sprintf("scanning... %d entries", count))
	}
}

func clearProgress(errOut *os.File) {
	if errOut == nil || !isatty.IsTerminal(errOut.Fd()) {
		return
	}
	fmt.Fprintf(errOut, "\r%-60s\r", "")
}
