package state

import (
	"sort"
	"strings"

	"scourfs/internal/config"
	"scourfs/internal/domain"
	"scourfs/internal/services"
)

type ViewMode int

const (
	ViewTree ViewMode = iota
	ViewDuplicates
)

type Preferences struct {
	ShowHidden bool
	SafeMode   bool
	SortMode   domain.SortMode
	Theme      string
}

type State struct {
	Root     string
	Tree     *domain.DiskNode
	Cursor   int
	Selected map[string]bool
	Expanded map[string]bool
	Prefs    Preferences
	View     ViewMode

	Groups    []domain.DuplicateGroup
	DupStats  services.DuplicateStats
	DupCursor int

	Analysis *domain.DiskAnalysis
}

func NewState(cfg config.Config) *State {
	return &State{
		Root:     cfg.Root,
		Selected: make(map[string]bool),
		Expanded: make(map[string]bool),
		Prefs: Preferences{
			ShowHidden: cfg.ShowHidden,
			SafeMode:   cfg.SafeMode,
			SortMode:   cfg.SortMode,
			Theme:      cfg.Theme,
		},
	}
}

func (appState *State) SetTree(root domain.DiskNode) {
	appState.Tree = &root
	appState.Cursor = 0
	appState.Expanded = map[string]bool{root.Path: true}

	filteredSelected := make(map[string]bool, len(appState.Selected))
	for path := range appState.Selected {
		if findNode(appState.Tree, path) != nil {
			filteredSelected[path] = true
		}
	}
	appState.Selected = filteredSelected
}

func (appState *State) SetDuplicates(result services.DuplicateResult) {
	groups := make([]domain.DuplicateGroup, 0, len(result.Groups))
	for _, group := range result.Groups {
		groups = append(groups, group)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].WastedSpace() > groups[j].WastedSpace()
	})
	appState.Groups = groups
	appState.DupStats = result.Stats
	appState.DupCursor = 0
}

type VisibleNode struct {
	Node  *domain.DiskNode
	Depth int
}

func (appState *State) VisibleNodes() []VisibleNode {
	if appState.Tree == nil {
		return nil
	}
	visible := make([]VisibleNode, 0, 64)
	appState.appendNode(&visible, appState.Tree, 0)
	return visible
}

func (appState *State) appendNode(visible *[]VisibleNode, node *domain.DiskNode, depth int) {
	if node != appState.Tree && !appState.Prefs.ShowHidden && isHiddenName(node.Name) {
		return
	}
	*visible = append(*visible, VisibleNode{Node: node, Depth: depth})
	if !node.IsDir || !appState.IsExpanded(node.Path) {
		return
	}
	for _, child := range appState.sortedChildren(node) {
		appState.appendNode(visible, child, depth+1)
	}
}

func (appState *State) sortedChildren(node *domain.DiskNode) []*domain.DiskNode {
	children := make([]*domain.DiskNode, 0, len(node.Children))
	for index := range node.Children {
		children = append(children, &node.Children[index])
	}
	if appState.Prefs.SortMode == domain.SortByName {
		sort.SliceStable(children, func(i, j int) bool {
			if children[i].IsDir != children[j].IsDir {
				return children[i].IsDir
			}
			return children[i].Name < children[j].Name
		})
	}
	// Size order is how the tree is materialized; nothing to do for it.
	return children
}

func (appState *State) CurrentNode() *domain.DiskNode {
	visible := appState.VisibleNodes()
	if len(visible) == 0 || appState.Cursor < 0 || appState.Cursor >= len(visible) {
		return nil
	}
	return visible[appState.Cursor].Node
}

func (appState *State) CurrentGroup() *domain.DuplicateGroup {
	if appState.DupCursor < 0 || appState.DupCursor >= len(appState.Groups) {
		return nil
	}
	return &appState.Groups[appState.DupCursor]
}

func (appState *State) ToggleExpanded(path string) bool {
	if path == "" {
		return false
	}
	appState.Expanded[path] = !appState.Expanded[path]
	return appState.Expanded[path]
}

func (appState *State) IsExpanded(path string) bool {
	return appState.Expanded[path]
}

func (appState *State) ToggleSelection(path string) {
	if path == "" {
		return
	}
	appState.Selected[path] = !appState.Selected[path]
	if !appState.Selected[path] {
		delete(appState.Selected, path)
	}
}

// SelectedPaths returns the explicit selection, falling back to the node
// under the cursor so destructive actions always have a target.
func (appState *State) SelectedPaths() []string {
	paths := make([]string, 0, len(appState.Selected))
	for path := range appState.Selected {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	if len(paths) == 0 {
		switch appState.View {
		case ViewDuplicates:
			if group := appState.CurrentGroup(); group != nil {
				for _, record := range group.Duplicates() {
					paths = append(paths, record.Path)
				}
			}
		default:
			if node := appState.CurrentNode(); node != nil {
				paths = append(paths, node.Path)
			}
		}
	}
	return paths
}

func (appState *State) SelectionSummary() (int, int64) {
	var total int64
	for path := range appState.Selected {
		if node := findNode(appState.Tree, path); node != nil {
			total += node.Size
		}
	}
	return len(appState.Selected), total
}

func (appState *State) ToggleSortMode() domain.SortMode {
	if appState.Prefs.SortMode == domain.SortBySize {
		appState.Prefs.SortMode = domain.SortByName
	} else {
		appState.Prefs.SortMode = domain.SortBySize
	}
	return appState.Prefs.SortMode
}

func (appState *State) ToggleShowHidden() bool {
	appState.Prefs.ShowHidden = !appState.Prefs.ShowHidden
	return appState.Prefs.ShowHidden
}

func (appState *State) ToggleView() ViewMode {
	if appState.View == ViewTree {
		appState.View = ViewDuplicates
	} else {
		appState.View = ViewTree
	}
	return appState.View
}

func findNode(node *domain.DiskNode, path string) *domain.DiskNode {
	if node == nil {
		return nil
	}
	if node.Path == path {
		return node
	}
	if !strings.HasPrefix(path, node.Path) {
		return nil
	}
	for index := range node.Children {
		if found := findNode(&node.Children[index], path); found != nil {
			return found
		}
	}
	return nil
}

func isHiddenName(name string) bool {
	return strings.HasPrefix(name, ".")
}
