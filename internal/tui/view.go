package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/groveworks/grove/internal/preview"
	"github.com/groveworks/grove/internal/styles"
	"github.com/groveworks/grove/internal/ui"
	"github.com/groveworks/grove/internal/workspace"
)

const dividerWidth = 1

// View renders the whole screen: top bar, sidebar/preview split, footer,
// with the palette, an active dialog, or a toast composited on top.
func (m *Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	background := m.renderScreen()

	switch {
	case m.activeDialog != DialogNone && m.dialog != nil:
		box := m.dialog.Render(m.width, m.height, m.mouseHandler)
		return ui.OverlayModal(background, box, m.width, m.height)
	case m.paletteVisible:
		box := m.renderPaletteBox()
		return ui.OverlayModal(background, box, m.width, m.height)
	}
	return background
}

func (m *Model) renderScreen() string {
	header := m.renderTopBar()
	footer := m.renderFooter()

	paneHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if paneHeight < 1 {
		paneHeight = 1
	}

	m.mouseHandler.Clear()

	var panes string
	if m.sidebarHidden {
		m.mouseHandler.HitMap.AddRect(regionPreviewPane, 0, lipgloss.Height(header), m.width, paneHeight, nil)
		panes = m.renderPreviewPane(m.width, paneHeight)
	} else {
		sidebarW := m.width * m.sidebarWidthPct / 100
		if sidebarW < 20 {
			sidebarW = 20
		}
		if sidebarW > m.width-30 {
			sidebarW = m.width - 30
		}
		if sidebarW < 1 {
			sidebarW = 1
		}
		previewW := m.width - sidebarW - dividerWidth
		if previewW < 1 {
			previewW = 1
		}

		headerH := lipgloss.Height(header)
		m.mouseHandler.HitMap.AddRect(regionSidebarRow, 0, headerH, sidebarW, paneHeight, -1)
		m.mouseHandler.HitMap.AddRect(regionPreviewPane, sidebarW+dividerWidth, headerH, previewW, paneHeight, nil)
		m.mouseHandler.HitMap.AddRect(regionDivider, sidebarW, headerH, dividerWidth, paneHeight, nil)

		sidebar := m.renderSidebarPane(sidebarW, paneHeight, headerH)
		divider := lipgloss.NewStyle().Foreground(styles.BorderNormal).Render(strings.Repeat("│\n", paneHeight-1) + "│")
		previewPane := m.renderPreviewPane(previewW, paneHeight)
		panes = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, divider, previewPane)
	}

	if m.footerHidden {
		footer = ""
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, panes, footer, m.renderToast())
}

func (m *Model) renderTopBar() string {
	title := styles.BarTitle.Render("Grove")
	project := ""
	if w := m.selectedWorkspace(); w != nil && w.ProjectName != "" {
		project = styles.BarText.Render(" · " + w.ProjectName)
	}
	return title + project
}

func (m *Model) renderFooter() string {
	hints := []string{
		"create " + hintFor("create-workspace"),
		"delete " + hintFor("delete-workspace"),
		"merge " + hintFor("merge-workspace"),
		"attach " + hintFor("attach"),
		"palette ?",
		"quit " + hintFor("quit"),
	}
	if m.interactiveActive() {
		hints = []string{"exit interactive (esc esc)", "copy", "paste"}
	}
	chips := make([]string, 0, len(hints))
	for _, h := range hints {
		chips = append(chips, styles.BarChip.Render(h))
	}
	return strings.Join(chips, " ")
}

func (m *Model) renderToast() string {
	if m.toastMessage == "" || !time.Now().Before(m.toastUntil) {
		return ""
	}
	style := styles.ToastSuccess
	if m.toastIsError {
		style = styles.ToastError
	}
	return style.Render(m.toastMessage)
}

// renderSidebarPane lists every discovered workspace, two lines each: name
// plus status glyph on the first, agent/branch detail on the second.
func (m *Model) renderSidebarPane(width, height, topY int) string {
	var lines []string
	lines = append(lines, styles.PanelHeader.Render("Workspaces"))

	if len(m.workspaces) == 0 {
		lines = append(lines, styles.Muted.Render("No workspaces yet"), styles.Muted.Render("press n to create one"))
		content := strings.Join(lines, "\n")
		return styles.PanelInactive.Width(width).Height(height).Render(content)
	}

	const rowHeight = 2
	visibleCount := (height - 1) / rowHeight
	if visibleCount < 1 {
		visibleCount = 1
	}
	start := 0
	if m.selected >= visibleCount {
		start = m.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(m.workspaces) {
		end = len(m.workspaces)
		start = end - visibleCount
		if start < 0 {
			start = 0
		}
	}

	currentY := topY + 1
	for i := start; i < end; i++ {
		w := m.workspaces[i]
		lines = append(lines, m.renderWorkspaceRow(w, i == m.selected, width-2))
		m.mouseHandler.HitMap.AddRect(regionSidebarRow, 0, currentY, width, rowHeight, i)
		currentY += rowHeight
	}

	content := strings.Join(lines, "\n")
	active := m.focus == FocusSidebar
	if active {
		return styles.PanelActive.Width(width).Height(height).Render(content)
	}
	return styles.PanelInactive.Width(width).Height(height).Render(content)
}

func (m *Model) renderWorkspaceRow(w *workspace.Workspace, selected bool, width int) string {
	statusGlyph := statusGlyphFor(w.Status)
	line1 := fmt.Sprintf("%s %s", statusGlyph, w.Name)
	line2 := fmt.Sprintf("  %s", w.Agent)
	if w.Branch != "" {
		line2 += " · " + w.Branch
	}
	content := line1 + "\n" + line2
	if selected {
		if m.focus == FocusSidebar {
			return styles.ListItemFocused.Width(width).Render(content)
		}
		return styles.ListItemSelected.Width(width).Render(content)
	}
	return styles.ListItemNormal.Width(width).Render(statusStyleFor(w.Status).Render(statusGlyph) + " " + w.Name + "\n" + styles.Muted.Render(line2))
}

func statusGlyphFor(s workspace.Status) string {
	switch s {
	case workspace.StatusActive:
		return "●"
	case workspace.StatusWaiting:
		return "◆"
	case workspace.StatusThinking:
		return "◐"
	case workspace.StatusDone:
		return "✓"
	case workspace.StatusError:
		return "✗"
	case workspace.StatusMain:
		return "▶"
	case workspace.StatusUnsupported:
		return "?"
	default:
		return "○"
	}
}

func statusStyleFor(s workspace.Status) lipgloss.Style {
	switch s {
	case workspace.StatusActive:
		return styles.StatusActive
	case workspace.StatusWaiting:
		return styles.StatusWaiting
	case workspace.StatusThinking:
		return styles.StatusThink
	case workspace.StatusDone:
		return styles.StatusDone
	case workspace.StatusError:
		return styles.StatusError
	case workspace.StatusMain:
		return styles.StatusMain
	case workspace.StatusUnknown:
		return styles.StatusUnknown
	default:
		return styles.StatusIdle
	}
}

// renderPreviewPane shows the selected workspace's captured pane output,
// with the cursor glyph overlaid when the session is attached.
func (m *Model) renderPreviewPane(width, height int) string {
	w := m.selectedWorkspace()
	if w == nil {
		content := styles.Muted.Render("No workspace selected")
		return styles.PanelInactive.Width(width).Height(height).Render(content)
	}

	st := m.sessionFor(w)
	rendered := preview.OverlayCursor(st.preview.RenderLines, st.cursor)

	innerH := height - 2
	if innerH < 1 {
		innerH = 1
	}
	start := len(rendered) - innerH - st.preview.Offset
	if start < 0 {
		start = 0
	}
	end := start + innerH
	if end > len(rendered) {
		end = len(rendered)
	}
	visible := rendered[start:end]

	title := fmt.Sprintf("%s (%s)", w.Name, w.Status)
	if st.interactive {
		title += " · interactive"
	}
	content := styles.PanelHeader.Render(title) + "\n" + strings.Join(visible, "\n")

	active := m.focus == FocusPreview
	if active {
		return styles.PanelActive.Width(width).Height(height).Render(content)
	}
	return styles.PanelInactive.Width(width).Height(height).Render(content)
}

// renderPaletteBox renders the command palette as its own small modal; it
// predates the declarative modal package and keeps its own hit regions.
func (m *Model) renderPaletteBox() string {
	m.mouseHandler.Clear()
	boxWidth := m.width * 2 / 3
	if boxWidth < 30 {
		boxWidth = 30
	}
	if boxWidth > 70 {
		boxWidth = 70
	}

	var lines []string
	lines = append(lines, styles.Title.Render("Commands"))
	lines = append(lines, m.paletteInput.View())
	lines = append(lines, "")

	m.mouseHandler.HitMap.AddRect("modal-backdrop", 0, 0, m.width, m.height, nil)

	const itemY = 4
	y := itemY
	for i, item := range m.paletteItems {
		row := fmt.Sprintf("%-30s %s", item.Label, item.Hint)
		if i == m.paletteCursor {
			row = styles.ListItemFocused.Width(boxWidth - 4).Render(row)
		} else {
			row = styles.ListItemNormal.Width(boxWidth - 4).Render(row)
		}
		lines = append(lines, row)
		m.mouseHandler.HitMap.AddRect(regionPaletteItem, 2, y, boxWidth-4, 1, i)
		y++
	}
	if len(m.paletteItems) == 0 {
		lines = append(lines, styles.Muted.Render("No matching commands"))
	}

	content := strings.Join(lines, "\n")
	return styles.ModalBox.Width(boxWidth).Render(content)
}
