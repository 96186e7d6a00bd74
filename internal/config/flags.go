package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"
)

// Mode captures the non-persisted, per-invocation choices.
type Mode struct {
	Report  string
	Output  string
	History bool
	Version bool
	Targets []string
}

var allowedReports = []string{"", "analyze", "tree", "duplicates"}
var allowedOutputs = []string{"table", "json"}

func usage(flags *pflag.FlagSet) func() {
	return func() {
		fmt.Println(heredoc.Doc(`
			scourfs inspects and reclaims local storage: it sizes directory
			trees, finds byte-identical files and can securely erase content
			through multi-pass overwrite.

			Usage:

				scourfs [flags] [path ...]

			Without --report and with a terminal attached, scourfs starts its
			interactive browser. Otherwise it prints a one-shot report for the
			given paths (current directory if none).

			Flags:
		`))
		flags.PrintDefaults()
	}
}

// ParseFlags layers command-line flags over the merged config and returns the
// per-invocation mode alongside the effective config.
func ParseFlags(base Config, args []string) (Config, Mode, error) {
	flags := pflag.NewFlagSet("scourfs", pflag.ContinueOnError)
	flags.SortFlags = false
	flags.Usage = usage(flags)

	var (
		minTreeStr string
		minDupStr  string
		mode       Mode
	)

	flags.StringVar(&mode.Report, "report", "", "One-shot report: analyze, tree or duplicates")
	flags.StringVarP(&mode.Output, "output", "o", "table", "Report format: table or json")
	flags.StringVar(&minTreeStr, "min-size", "", "Minimum size for tree entries (e.g. 1MiB)")
	flags.StringVar(&minDupStr, "dup-min-size", "", "Minimum size for duplicate candidates (e.g. 4KiB)")
	flags.IntVarP(&base.MaxDepth, "depth", "d", base.MaxDepth, "Maximum tree depth from the root (-1 = unlimited, 0 = empty)")
	flags.IntVarP(&base.ErasePasses, "passes", "p", base.ErasePasses, "Overwrite passes for secure erase (1/3/7/35 presets, other = random)")
	flags.StringSliceVarP(&base.Exclusions, "exclude", "e", base.Exclusions, "Path prefixes to exclude (case-insensitive)")
	flags.IntVarP(&base.TopN, "top", "t", base.TopN, "Number of top entries in reports")
	flags.BoolVar(&base.ShowHidden, "show-hidden", base.ShowHidden, "Show hidden files in the browser")
	flags.BoolVar(&base.SafeMode, "safe-mode", base.SafeMode, "Refuse destructive operations on critical paths")
	flags.BoolVar(&mode.History, "history", false, "Print recent runs and exit")
	flags.BoolVarP(&mode.Version, "version", "v", false, "Show version and exit")

	if err := flags.Parse(args); err != nil {
		return base, mode, err
	}

	if minTreeStr != "" {
		size, err := humanize.ParseBytes(minTreeStr)
		if err != nil {
			return base, mode, fmt.Errorf("invalid min-size: %w", err)
		}
		base.MinTreeSize = int64(size)
	}
	if minDupStr != "" {
		size, err := humanize.ParseBytes(minDupStr)
		if err != nil {
			return base, mode, fmt.Errorf("invalid dup-min-size: %w", err)
		}
		base.MinDuplicateSize = int64(size)
	}

	if !slices.Contains(allowedReports, mode.Report) {
		return base, mode, fmt.Errorf("invalid report %q: must be one of analyze, tree, duplicates", mode.Report)
	}
	if !slices.Contains(allowedOutputs, mode.Output) {
		return base, mode, fmt.Errorf("invalid output format %q: must be one of %v", mode.Output, allowedOutputs)
	}
	if base.ErasePasses <= 0 {
		return base, mode, errors.New("passes must be positive")
	}

	mode.Targets = flags.Args()
	if len(mode.Targets) > 0 {
		base.Root = mode.Targets[0]
	}
	return base, mode, nil
}
