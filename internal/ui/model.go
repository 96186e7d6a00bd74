package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"scourfs/internal/config"
	"scourfs/internal/domain"
	"scourfs/internal/history"
	"scourfs/internal/services"
	"scourfs/internal/state"
)

type Services struct {
	Trees      services.TreeBuilding
	Duplicates services.DuplicateFinding
	Eraser     services.Erasing
	Remover    services.Deleting
	Analyzer   services.Analyzing
}

type Model struct {
	state    *state.State
	svc      Services
	store    *history.Store
	cfg      config.Config
	keys     KeyMap
	showHelp bool
	status   string

	running    bool
	runKind    string
	cancel     context.CancelFunc
	progressCh chan domain.ProgressEvent

	confirming    bool
	confirmStep   int
	pendingAction string
	pendingPaths  []string

	recentRuns []history.Run

	width   int
	height  int
	viewTop int

	progressCount int64
	progressLabel string
}

type ConfigProvider interface {
	ConfigSnapshot() config.Config
}

func NewModel(appState *state.State, svc Services, store *history.Store, cfg config.Config) Model {
	return Model{
		state:      appState,
		svc:        svc,
		store:      store,
		cfg:        cfg,
		keys:       DefaultKeyMap(),
		status:     "Ready - press s to scan",
		width:      100,
		height:     30,
		recentRuns: loadRecentRuns(store),
	}
}

const recentRunCount = 5

func loadRecentRuns(store *history.Store) []history.Run {
	if store == nil {
		return nil
	}
	runs, err := store.RecentRuns(recentRunCount)
	if err != nil {
		return nil
	}
	return runs
}

func (model Model) WithStatus(message string) Model {
	if message != "" {
		model.status = message
	}
	return model
}

func (model Model) ConfigSnapshot() config.Config {
	snapshot := model.cfg
	snapshot.Root = model.state.Root
	snapshot.ShowHidden = model.state.Prefs.ShowHidden
	snapshot.SafeMode = model.state.Prefs.SafeMode
	snapshot.SortMode = model.state.Prefs.SortMode
	snapshot.Theme = model.state.Prefs.Theme
	return snapshot
}

func (model Model) Init() tea.Cmd {
	return nil
}

func (model Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		return model.handleKey(typed)
	case tea.WindowSizeMsg:
		model.width = typed.Width
		model.height = typed.Height
		model.ensureCursorVisible()
		return model, nil
	case treeBuiltMsg:
		model.running = false
		model.cancel = nil
		if typed.err != nil {
			if errors.Is(typed.err, context.Canceled) {
				model.status = "Scan cancelled"
				return model, nil
			}
			model.status = fmt.Sprintf("Scan error: %v", typed.err)
			return model, nil
		}
		model.state.SetTree(typed.result.Root)
		model.state.Analysis = &typed.analysis
		model.state.View = state.ViewTree
		model.status = fmt.Sprintf("Scan complete (%s)", typed.result.Duration.Round(time.Millisecond))
		model.recordRun(history.Run{
			Kind:       history.RunKindTree,
			Root:       typed.result.Root.Path,
			StartedAt:  time.Now().Add(-typed.result.Duration),
			Duration:   typed.result.Duration,
			TotalBytes: typed.result.Root.Size,
			FileCount:  int64(typed.result.Root.ItemCount),
		})
		model.ensureCursorVisible()
		return model, nil
	case duplicatesMsg:
		model.running = false
		model.cancel = nil
		if typed.err != nil {
			model.status = fmt.Sprintf("Duplicate scan error: %v", typed.err)
			return model, nil
		}
		model.state.SetDuplicates(typed.result)
		model.state.View = state.ViewDuplicates
		model.status = fmt.Sprintf("%d duplicate groups, %s wasted",
			typed.result.Stats.GroupCount, formatSize(typed.result.Stats.WastedBytes))
		model.recordRun(history.Run{
			Kind:        history.RunKindDuplicates,
			Root:        model.state.Root,
			StartedAt:   time.Now().Add(-typed.result.Duration),
			Duration:    typed.result.Duration,
			TotalBytes:  typed.result.Stats.WastedBytes,
			FileCount:   int64(typed.result.Stats.HashedFiles),
			GroupCount:  int64(typed.result.Stats.GroupCount),
			WastedBytes: typed.result.Stats.WastedBytes,
		})
		return model, nil
	case eraseDoneMsg:
		model.running = false
		model.cancel = nil
		model.status = fmt.Sprintf("%s (%d ok, %d failed)",
			typed.result.Message, typed.result.SuccessCount, typed.result.FailureCount)
		model.recordRun(history.Run{
			Kind:      history.RunKindErase,
			Root:      model.state.Root,
			StartedAt: time.Now().Add(-typed.result.Duration),
			Duration:  typed.result.Duration,
			FileCount: int64(typed.result.SuccessCount),
			Failures:  int64(typed.result.FailureCount),
		})
		return model, nil
	case deleteDoneMsg:
		model.running = false
		model.cancel = nil
		model.status = fmt.Sprintf("%s (%d ok, %d failed)",
			typed.result.Message, typed.result.SuccessCount, typed.result.FailureCount)
		model.recordRun(history.Run{
			Kind:      history.RunKindDelete,
			Root:      model.state.Root,
			StartedAt: time.Now().Add(-typed.result.Duration),
			Duration:  typed.result.Duration,
			FileCount: int64(typed.result.SuccessCount),
			Failures:  int64(typed.result.FailureCount),
		})
		return model, nil
	case progressMsg:
		model.applyProgress(typed.event)
		return model, model.progressCmd()
	case progressDoneMsg:
		return model, nil
	default:
		return model, nil
	}
}

func (model *Model) applyProgress(event domain.ProgressEvent) {
	switch event.Kind {
	case domain.ProgressDirectoryEntry:
		model.progressCount++
		model.progressLabel = fmt.Sprintf("Scanning... %s", event.Path)
	case domain.ProgressFileSeen:
		model.progressCount = event.Current
		model.progressLabel = fmt.Sprintf("Scanning... %d files", event.Current)
	case domain.ProgressHash:
		model.progressCount = event.Current
		model.progressLabel = fmt.Sprintf("Hashing %d: %s", event.Current, event.Path)
	case domain.ProgressPass:
		model.progressLabel = event.Status
	case domain.ProgressFile:
		model.progressCount = event.Current
		model.progressLabel = fmt.Sprintf("File %d/%d: %s", event.Current, event.Total, event.Path)
	}
	if model.running {
		model.status = model.progressLabel
	}
}

func (model Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, model.keys.Quit):
		model = model.cancelRun("")
		return model, tea.Quit
	case key.Matches(msg, model.keys.Help):
		model.showHelp = !model.showHelp
		return model, nil
	case model.confirming && key.Matches(msg, model.keys.Confirm):
		return model.confirmAction()
	case model.confirming && key.Matches(msg, model.keys.Cancel):
		model.confirming = false
		model.confirmStep = 0
		model.status = "Action cancelled"
		return model, nil
	case key.Matches(msg, model.keys.Cancel):
		if model.running {
			return model.cancelRun(fmt.Sprintf("Cancelling %s...", model.runKind)), nil
		}
		return model, nil
	case key.Matches(msg, model.keys.Up):
		model.moveCursor(-1)
		return model, nil
	case key.Matches(msg, model.keys.Down):
		model.moveCursor(1)
		return model, nil
	case key.Matches(msg, model.keys.Enter):
		if model.state.View == state.ViewTree {
			if node := model.state.CurrentNode(); node != nil && node.IsDir {
				model.state.ToggleExpanded(node.Path)
				model.ensureCursorVisible()
			}
		}
		return model, nil
	case key.Matches(msg, model.keys.Select):
		model.toggleSelection()
		return model, nil
	case key.Matches(msg, model.keys.SwitchView):
		model.state.ToggleView()
		model.ensureCursorVisible()
		return model, nil
	case key.Matches(msg, model.keys.Sort):
		model.state.ToggleSortMode()
		return model, nil
	case key.Matches(msg, model.keys.Hidden):
		model.state.ToggleShowHidden()
		model.ensureCursorVisible()
		return model, nil
	case key.Matches(msg, model.keys.Scan):
		return model.beginTreeScan()
	case key.Matches(msg, model.keys.Duplicates):
		return model.beginDuplicateScan()
	case key.Matches(msg, model.keys.Delete):
		return model.beginDestructive("delete")
	case key.Matches(msg, model.keys.Erase):
		return model.beginDestructive("erase")
	default:
		return model, nil
	}
}

func (model *Model) moveCursor(delta int) {
	if model.state.View == state.ViewDuplicates {
		next := model.state.DupCursor + delta
		if next >= 0 && next < len(model.state.Groups) {
			model.state.DupCursor = next
		}
		return
	}
	visible := model.state.VisibleNodes()
	next := model.state.Cursor + delta
	if next >= 0 && next < len(visible) {
		model.state.Cursor = next
		model.ensureCursorVisible()
	}
}

func (model *Model) toggleSelection() {
	if model.state.View == state.ViewDuplicates {
		if group := model.state.CurrentGroup(); group != nil {
			for _, record := range group.Duplicates() {
				model.state.ToggleSelection(record.Path)
			}
		}
		return
	}
	if node := model.state.CurrentNode(); node != nil {
		model.state.ToggleSelection(node.Path)
	}
}

func (model Model) beginTreeScan() (tea.Model, tea.Cmd) {
	if model.running {
		model.status = "Operation already running"
		return model, nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	model.running = true
	model.runKind = "scan"
	model.cancel = cancel
	model.progressCh = make(chan domain.ProgressEvent, 64)
	model.progressCount = 0
	model.status = fmt.Sprintf("Scanning... %s", model.state.Root)
	return model, tea.Batch(model.treeCmd(ctx), model.progressCmd())
}

func (model Model) treeCmd(ctx context.Context) tea.Cmd {
	root := model.state.Root
	opts := services.TreeOptions{MinSize: model.cfg.MinTreeSize, MaxDepth: model.cfg.MaxDepth}
	topN := model.cfg.TopN
	trees := model.svc.Trees
	analyzer := model.svc.Analyzer
	ch := model.progressCh
	return func() tea.Msg {
		progress := channelProgress(ch)
		if _, err := os.Stat(root); err != nil {
			close(ch)
			return treeBuiltMsg{err: err}
		}
		result := trees.BuildTree(ctx, root, opts, progress)
		var analysis domain.DiskAnalysis
		if analyzer != nil {
			analysis = analyzer.Analyze(ctx, root, topN, nil)
		}
		close(ch)
		if err := ctx.Err(); err != nil {
			return treeBuiltMsg{err: err}
		}
		return treeBuiltMsg{result: result, analysis: analysis}
	}
}

func (model Model) beginDuplicateScan() (tea.Model, tea.Cmd) {
	if model.running {
		model.status = "Operation already running"
		return model, nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	model.running = true
	model.runKind = "duplicates"
	model.cancel = cancel
	model.progressCh = make(chan domain.ProgressEvent, 64)
	model.progressCount = 0
	model.status = "Looking for duplicates..."
	directories := []string{model.state.Root}
	minSize := model.cfg.MinDuplicateSize
	finder := model.svc.Duplicates
	ch := model.progressCh
	cmd := func() tea.Msg {
		result := finder.FindDuplicates(ctx, directories, minSize, channelProgress(ch))
		close(ch)
		if err := ctx.Err(); err != nil {
			return duplicatesMsg{err: err}
		}
		return duplicatesMsg{result: result}
	}
	return model, tea.Batch(cmd, model.progressCmd())
}

func (model Model) beginDestructive(action string) (tea.Model, tea.Cmd) {
	if model.running {
		model.status = "Operation already running"
		return model, nil
	}
	paths := model.state.SelectedPaths()
	if len(paths) == 0 {
		model.status = "Nothing selected"
		return model, nil
	}
	model.confirming = true
	model.confirmStep = 1
	model.pendingAction = action
	model.pendingPaths = paths
	verb := "Delete"
	if action == "erase" {
		verb = fmt.Sprintf("Securely erase (%d passes)", model.cfg.ErasePasses)
	}
	model.status = fmt.Sprintf("%s %d path(s)? (y/n)", verb, len(paths))
	return model, nil
}

func (model Model) confirmAction() (tea.Model, tea.Cmd) {
	// Secure erase is irreversible by design, so it gets a second prompt.
	if model.pendingAction == "erase" && model.confirmStep == 1 {
		model.confirmStep = 2
		model.status = fmt.Sprintf("Really erase %d path(s)? Content cannot be recovered (y/n)", len(model.pendingPaths))
		return model, nil
	}
	model.confirming = false
	model.confirmStep = 0

	ctx, cancel := context.WithCancel(context.Background())
	model.running = true
	model.runKind = model.pendingAction
	model.cancel = cancel
	model.progressCh = make(chan domain.ProgressEvent, 64)
	model.progressCount = 0

	paths := model.pendingPaths
	safeMode := model.state.Prefs.SafeMode
	passes := model.cfg.ErasePasses
	ch := model.progressCh

	if model.pendingAction == "erase" {
		eraser := model.svc.Eraser
		model.status = "Erasing..."
		cmd := func() tea.Msg {
			result := eraseAll(ctx, eraser, paths, passes, safeMode, channelProgress(ch))
			close(ch)
			return eraseDoneMsg{result: result}
		}
		return model, tea.Batch(cmd, model.progressCmd())
	}

	remover := model.svc.Remover
	model.status = "Deleting..."
	cmd := func() tea.Msg {
		result := remover.Delete(ctx, services.DeleteRequest{Paths: paths, SafeMode: safeMode}, channelProgress(ch))
		close(ch)
		return deleteDoneMsg{result: result}
	}
	return model, tea.Batch(cmd, model.progressCmd())
}

func eraseAll(ctx context.Context, eraser services.Erasing, paths []string, passes int, safeMode bool, progress services.ProgressFunc) services.EraseResult {
	start := time.Now()
	combined := services.EraseResult{}
	for _, path := range paths {
		if ctx.Err() != nil {
			combined.Message = "erase cancelled"
			combined.Duration = time.Since(start)
			return combined
		}
		if safeMode && services.IsCriticalPath(path) {
			combined.FailureCount++
			combined.Errors = append(combined.Errors, fmt.Sprintf("blocked critical path: %s", path))
			continue
		}
		info, err := os.Lstat(path)
		if err != nil {
			combined.FailureCount++
			combined.Errors = append(combined.Errors, err.Error())
			continue
		}
		if info.IsDir() {
			result := eraser.EraseFolder(ctx, path, passes, progress)
			combined.SuccessCount += result.SuccessCount
			combined.FailureCount += result.FailureCount
			combined.Errors = append(combined.Errors, result.Errors...)
			continue
		}
		if err := eraser.EraseFile(ctx, path, passes, progress); err != nil {
			combined.FailureCount++
			combined.Errors = append(combined.Errors, err.Error())
			continue
		}
		combined.SuccessCount++
	}
	if combined.Success() {
		combined.Message = "erase complete"
	} else {
		combined.Message = fmt.Sprintf("erase finished with %d failures", combined.FailureCount)
	}
	combined.Duration = time.Since(start)
	return combined
}

func channelProgress(ch chan domain.ProgressEvent) services.ProgressFunc {
	return func(event domain.ProgressEvent) {
		select {
		case ch <- event:
		default:
		}
	}
}

func (model Model) progressCmd() tea.Cmd {
	ch := model.progressCh
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return progressDoneMsg{}
		}
		return progressMsg{event: event}
	}
}

func (model Model) cancelRun(status string) Model {
	if model.cancel != nil {
		model.cancel()
		model.cancel = nil
	}
	if status != "" {
		model.status = status
	}
	return model
}

func (model *Model) recordRun(run history.Run) {
	if model.store == nil {
		return
	}
	if _, err := model.store.RecordRun(run); err != nil {
		return
	}
	_ = model.store.Prune(model.cfg.HistoryLimit)
	model.recentRuns = loadRecentRuns(model.store)
}

func (model *Model) ensureCursorVisible() {
	visibleLines := model.listHeight()
	if visibleLines < 1 {
		visibleLines = 1
	}
	cursor := model.state.Cursor
	if model.state.View == state.ViewDuplicates {
		cursor = model.state.DupCursor
	}
	if cursor < model.viewTop {
		model.viewTop = cursor
	}
	if cursor >= model.viewTop+visibleLines {
		model.viewTop = cursor - visibleLines + 1
	}
	if model.viewTop < 0 {
		model.viewTop = 0
	}
}

func (model Model) listHeight() int {
	return model.height - 6
}
