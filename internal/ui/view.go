package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"scourfs/internal/state"
)

type uiStyles struct {
	headerStyle   lipgloss.Style
	mutedStyle    lipgloss.Style
	statusStyle   lipgloss.Style
	warnStyle     lipgloss.Style
	cursorStyle   lipgloss.Style
	selectedStyle lipgloss.Style
	barStyle      lipgloss.Style
}

func stylesFor(model Model) uiStyles {
	if strings.ToLower(model.state.Prefs.Theme) == "light" {
		return uiStyles{
			headerStyle:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("235")),
			mutedStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
			statusStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("25")).Bold(true),
			warnStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("124")).Bold(true),
			cursorStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("90")).Bold(true),
			selectedStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("28")).Bold(true),
			barStyle:      lipgloss.NewStyle().Foreground(lipgloss.Color("25")),
		}
	}
	return uiStyles{
		headerStyle:   lipgloss.NewStyle().Bold(true),
		mutedStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		statusStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("69")).Bold(true),
		warnStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("204")).Bold(true),
		cursorStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		selectedStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		barStyle:      lipgloss.NewStyle().Foreground(lipgloss.Color("69")),
	}
}

func (model Model) View() string {
	styles := stylesFor(model)
	if model.showHelp {
		return renderHelpView(model, styles)
	}
	header := renderHeader(model, styles)
	var body string
	if model.state.View == state.ViewDuplicates {
		body = renderDuplicatesPanel(model, styles)
	} else {
		body = renderTreePanel(model, styles)
	}
	footer := renderFooter(model, styles)
	return strings.Join([]string{header, body, footer}, "\n")
}

func renderHeader(model Model, styles uiStyles) string {
	title := styles.headerStyle.Render(fmt.Sprintf("scourfs — %s", model.state.Root))
	if model.state.Analysis == nil {
		return title
	}
	analysis := model.state.Analysis
	summary := fmt.Sprintf("%s in %d files, %d folders",
		formatSize(analysis.TotalSize), analysis.FileCount, analysis.FolderCount)
	return title + "  " + styles.mutedStyle.Render(summary)
}

func renderTreePanel(model Model, styles uiStyles) string {
	visible := model.state.VisibleNodes()
	if len(visible) == 0 {
		return styles.mutedStyle.Render("  (no scan yet - press s)")
	}
	height := model.listHeight()
	if height < 3 {
		height = 3
	}
	top := model.viewTop
	if top > len(visible)-1 {
		top = 0
	}
	end := top + height
	if end > len(visible) {
		end = len(visible)
	}

	lines := make([]string, 0, height)
	for index := top; index < end; index++ {
		entry := visible[index]
		node := entry.Node
		indent := strings.Repeat("  ", entry.Depth)
		marker := " "
		if model.state.Selected[node.Path] {
			marker = "*"
		}
		name := node.Name
		if node.IsDir {
			prefix := "+"
			if model.state.IsExpanded(node.Path) {
				prefix = "-"
			}
			name = fmt.Sprintf("%s %s/", prefix, name)
		}
		line := fmt.Sprintf("%s%s %s  %s %s  %5.1f%%",
			indent, marker, name, formatSize(node.Size),
			percentBar(node.PercentOfParent, 10), node.PercentOfParent)
		switch {
		case index == model.state.Cursor:
			line = styles.cursorStyle.Render(line)
		case model.state.Selected[node.Path]:
			line = styles.selectedStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func renderDuplicatesPanel(model Model, styles uiStyles) string {
	if len(model.state.Groups) == 0 {
		return styles.mutedStyle.Render("  (no duplicates found - press u to scan)")
	}
	height := model.listHeight()
	if height < 3 {
		height = 3
	}

	stats := model.state.DupStats
	lines := []string{styles.headerStyle.Render(fmt.Sprintf(
		"%d groups, %d duplicate files, %s wasted (%d hashed)",
		stats.GroupCount, stats.DuplicateFiles, formatSize(stats.WastedBytes), stats.HashedFiles))}

	top := model.viewTop
	if top > len(model.state.Groups)-1 {
		top = 0
	}
	for index := top; index < len(model.state.Groups) && len(lines) < height; index++ {
		group := model.state.Groups[index]
		head := fmt.Sprintf("%d files, %s wasted  %s",
			len(group.Members), formatSize(group.WastedSpace()), shortHash(group.Hash))
		if index == model.state.DupCursor {
			head = styles.cursorStyle.Render(head)
		}
		lines = append(lines, head)
		if index == model.state.DupCursor {
			for position, member := range group.Members {
				label := "keep"
				if position > 0 {
					label = "dup "
				}
				memberLine := fmt.Sprintf("    [%s] %s (%s)", label, member.Path, member.ModTime.Format("2006-01-02"))
				if model.state.Selected[member.Path] {
					memberLine = styles.selectedStyle.Render(memberLine)
				} else {
					memberLine = styles.mutedStyle.Render(memberLine)
				}
				if len(lines) >= height {
					break
				}
				lines = append(lines, memberLine)
			}
		}
	}
	return strings.Join(lines, "\n")
}

func renderFooter(model Model, styles uiStyles) string {
	statusLine := trimStatus(model.status, model.width)
	statusStyle := styles.statusStyle
	if strings.Contains(strings.ToLower(model.status), "error") ||
		strings.Contains(strings.ToLower(model.status), "failed") {
		statusStyle = styles.warnStyle
	}
	statusLine = statusStyle.Render(statusLine)

	selectedCount, selectedSize := model.state.SelectionSummary()
	left := fmt.Sprintf("Selected: %d (%s)  Sort: %s  Hidden: %s",
		selectedCount, formatSize(selectedSize),
		strings.ToUpper(string(model.state.Prefs.SortMode)),
		onOff(model.state.Prefs.ShowHidden))
	keys := "↑/↓ move  enter expand  space select  s scan  u dupes  tab view  d delete  x erase  o sort  h hidden  ? help  q quit"
	if model.confirming {
		keys = "y confirm  n cancel"
	}
	footerLine := padLine(left, keys, model.width)
	return strings.Join([]string{statusLine, styles.mutedStyle.Render(footerLine)}, "\n")
}

func renderHelpView(model Model, styles uiStyles) string {
	lines := []string{
		styles.headerStyle.Render("scourfs keys"),
		"",
		"  ↑/k, ↓/j   move cursor",
		"  enter      expand/collapse directory",
		"  space      toggle selection (duplicate view: select all dups in group)",
		"  s          scan current root (tree + totals)",
		"  u          find duplicate files under root",
		"  tab        switch between tree and duplicates",
		"  d          delete selection",
		"  x          securely erase selection (multi-pass overwrite)",
		"  o          toggle sort order",
		"  h          toggle hidden files",
		"  n/esc      cancel running operation or prompt",
		"  q          quit",
	}
	if len(model.recentRuns) > 0 {
		lines = append(lines, "", styles.headerStyle.Render("recent runs"))
		for _, run := range model.recentRuns {
			lines = append(lines, styles.mutedStyle.Render(fmt.Sprintf(
				"  %s  %-10s %s  %s, %d files, %d failed",
				run.StartedAt.Format("2006-01-02 15:04"), run.Kind, run.Root,
				formatSize(run.TotalBytes), run.FileCount, run.Failures)))
		}
	}
	lines = append(lines, "", styles.mutedStyle.Render("press ? to close help"))
	return strings.Join(lines, "\n")
}

func percentBar(percent float64, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := int(percent / 100 * float64(width))
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}

func formatSize(size int64) string {
	if size < 0 {
		size = 0
	}
	return humanize.IBytes(uint64(size))
}

func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}

func onOff(value bool) string {
	if value {
		return "on"
	}
	return "off"
}

// trimStatus shortens by runes, not bytes, so a status embedding a
// multi-byte path is never cut mid-character.
func trimStatus(status string, width int) string {
	runes := []rune(status)
	if width <= 3 || len(runes) <= width {
		return status
	}
	return string(runes[:width-3]) + "..."
}

func padLine(left, right string, width int) string {
	gap := width - len(left) - len(right)
	if gap < 2 {
		return left + "  " + right
	}
	return left + strings.Repeat(" ", gap) + right
}
