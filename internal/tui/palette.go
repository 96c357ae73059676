package tui

import (
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// UiCommand is one palette-executable, hint-describable action. The
// palette's item list and the footer's key hints for catalog commands are
// both derived from executeUiCommand's catalog, so the two never drift apart.
type UiCommand struct {
	ID    string
	Label string
	Hint  string
}

// uiCommandCatalog is the single source of truth for every command the
// palette can run and of the key hints the footer shows for those commands.
func uiCommandCatalog() []UiCommand {
	return []UiCommand{
		{ID: "create-workspace", Label: "Create workspace", Hint: "n"},
		{ID: "edit-workspace", Label: "Edit workspace", Hint: "e"},
		{ID: "delete-workspace", Label: "Delete workspace", Hint: "d"},
		{ID: "merge-workspace", Label: "Merge workspace", Hint: "m"},
		{ID: "update-from-base", Label: "Update from base", Hint: "u"},
		{ID: "start-agent", Label: "Start agent", Hint: "s"},
		{ID: "stop-agent", Label: "Stop agent", Hint: "x"},
		{ID: "restart-agent", Label: "Restart agent", Hint: "R"},
		{ID: "attach", Label: "Attach to session", Hint: "enter"},
		{ID: "launch-lazygit", Label: "Open lazygit", Hint: "g"},
		{ID: "launch-shell", Label: "Open shell", Hint: "!"},
		{ID: "open-settings", Label: "Settings", Hint: ","},
		{ID: "switch-project", Label: "Switch project", Hint: "@"},
		{ID: "toggle-sidebar", Label: "Toggle sidebar", Hint: "B"},
		{ID: "toggle-footer", Label: "Toggle footer", Hint: "F"},
		{ID: "refresh", Label: "Refresh workspaces", Hint: "r"},
		{ID: "quit", Label: "Quit Grove", Hint: "q"},
	}
}

// hintFor returns the key hint for a command id, or "" if unknown.
func hintFor(id string) string {
	for _, c := range uiCommandCatalog() {
		if c.ID == id {
			return c.Hint
		}
	}
	return ""
}

func (m *Model) openPalette() {
	m.paletteVisible = true
	m.paletteInput.SetValue("")
	m.paletteInput.Focus()
	m.paletteCursor = 0
	m.filterPalette()
}

func (m *Model) closePalette() {
	m.paletteVisible = false
	m.paletteInput.Blur()
	m.paletteItems = nil
}

func (m *Model) filterPalette() {
	query := strings.ToLower(strings.TrimSpace(m.paletteInput.Value()))
	all := uiCommandCatalog()
	if query == "" {
		m.paletteItems = all
		return
	}
	filtered := make([]UiCommand, 0, len(all))
	for _, c := range all {
		if strings.Contains(strings.ToLower(c.Label), query) || strings.Contains(strings.ToLower(c.ID), query) {
			filtered = append(filtered, c)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool { return len(filtered[i].Label) < len(filtered[j].Label) })
	m.paletteItems = filtered
	if m.paletteCursor >= len(m.paletteItems) {
		m.paletteCursor = 0
	}
}

// executeUiCommand runs the palette-selected (or directly key-dispatched)
// command id, returning whatever tea.Cmd the action produces.
func (m *Model) executeUiCommand(id string) tea.Cmd {
	switch id {
	case "create-workspace":
		m.openCreateDialog()
	case "edit-workspace":
		m.openEditDialog()
	case "delete-workspace":
		m.openDeleteDialog()
	case "merge-workspace":
		return m.openMergeDialog()
	case "update-from-base":
		m.openUpdateFromBaseDialog()
	case "start-agent":
		return m.startAgentCmd()
	case "stop-agent":
		return m.stopAgentCmd()
	case "restart-agent":
		return m.restartAgentCmd()
	case "attach":
		return m.attachCmd()
	case "launch-lazygit":
		return m.launchLazygitCmd()
	case "launch-shell":
		return m.launchShellCmd()
	case "open-settings":
		m.openSettingsDialog()
	case "switch-project":
		m.openProjectDialog()
	case "toggle-sidebar":
		m.sidebarHidden = !m.sidebarHidden
	case "toggle-footer":
		m.footerHidden = !m.footerHidden
	case "toggle-sidebar-width":
		m.cycleSidebarWidth()
	case "toggle-palette":
		if m.paletteVisible {
			m.closePalette()
		} else {
			m.openPalette()
		}
	case "refresh":
		return m.refreshCmd()
	case "quit":
		m.quitting = true
		return tea.Quit

	case "select-next":
		m.moveSelection(1)
	case "select-prev":
		m.moveSelection(-1)
	case "select-next-project", "select-prev-project":
		m.moveSelection(0) // project grouping is a sidebar rendering concern only
	case "focus-sidebar":
		m.setFocus(FocusSidebar)
	case "focus-preview":
		m.setFocus(FocusPreview)

	case "scroll-up":
		m.scrollPreview(-1)
	case "scroll-down":
		m.scrollPreview(1)
	case "page-up":
		m.scrollPreview(-previewPageSize)
	case "page-down":
		m.scrollPreview(previewPageSize)
	case "jump-to-bottom":
		if st := m.sessionFor(m.selectedWorkspace()); st != nil {
			st.preview.JumpToBottom()
		}

	case "exit-interactive", "exit-interactive-maybe":
		m.exitInteractive()
	case "copy-selection":
		return m.copySelectionCmd()
	case "paste-clipboard":
		return m.pasteClipboardCmd()
	}
	return nil
}

const previewPageSize = 10
