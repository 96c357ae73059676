package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/groveworks/grove/internal/mouse"
)

// Region IDs registered into m.mouseHandler.HitMap by view.go each render.
const (
	regionSidebarRow  = "sidebar-row"
	regionDivider     = "divider"
	regionPreviewPane = "preview-pane"
	regionPaletteItem = "palette-item"
)

// applyMouseAction turns a normalized mouse.Action against the main screen
// (sidebar, divider, preview pane) into model mutations and commands. Mouse
// events inside an open dialog or palette are routed in handleMouse before
// this is reached.
func (m *Model) applyMouseAction(action mouse.Action) tea.Cmd {
	switch action.Type {
	case mouse.ActionClick:
		return m.handleMouseClick(action)
	case mouse.ActionDoubleClick:
		return m.handleMouseDoubleClick(action)
	case mouse.ActionScrollUp, mouse.ActionScrollDown:
		return m.handleMouseScroll(action)
	case mouse.ActionDrag:
		return m.handleMouseDrag(action)
	case mouse.ActionDragEnd:
		m.mouseHandler.EndDrag()
		return nil
	}
	return nil
}

func (m *Model) handleMouseClick(action mouse.Action) tea.Cmd {
	if action.Region == nil {
		return nil
	}
	switch action.Region.ID {
	case regionSidebarRow:
		idx, ok := action.Region.Data.(int)
		if !ok || idx < 0 || idx >= len(m.workspaces) {
			return nil
		}
		from := m.selected
		m.selected = idx
		m.setFocus(FocusSidebar)
		if from != m.selected {
			m.events.EmitSelectionChanged(m.events.StartTrace(), indexLabel(m.workspaces, from), indexLabel(m.workspaces, m.selected))
		}
	case regionDivider:
		m.mouseHandler.StartDrag(0, 0, regionDivider, m.sidebarWidthPct)
	case regionPreviewPane:
		m.setFocus(FocusPreview)
	case regionPaletteItem:
		if idx, ok := action.Region.Data.(int); ok && idx >= 0 && idx < len(m.paletteItems) {
			m.paletteCursor = idx
		}
	}
	return nil
}

func (m *Model) handleMouseDoubleClick(action mouse.Action) tea.Cmd {
	if action.Region == nil {
		return nil
	}
	switch action.Region.ID {
	case regionSidebarRow:
		idx, ok := action.Region.Data.(int)
		if !ok || idx < 0 || idx >= len(m.workspaces) {
			return nil
		}
		m.selected = idx
		return m.attachCmd()
	case regionPreviewPane:
		return m.attachCmd()
	case regionPaletteItem:
		if idx, ok := action.Region.Data.(int); ok && idx >= 0 && idx < len(m.paletteItems) {
			id := m.paletteItems[idx].ID
			m.closePalette()
			return m.executeUiCommand(id)
		}
	}
	return nil
}

func (m *Model) handleMouseScroll(action mouse.Action) tea.Cmd {
	delta := 1
	if action.Type == mouse.ActionScrollUp {
		delta = -1
	}
	regionID := ""
	if action.Region != nil {
		regionID = action.Region.ID
	}
	switch regionID {
	case regionSidebarRow:
		m.moveSelection(delta)
	default:
		m.scrollPreview(delta)
	}
	return nil
}

func (m *Model) handleMouseDrag(action mouse.Action) tea.Cmd {
	if m.mouseHandler.DragRegion() != regionDivider || m.width == 0 {
		return nil
	}
	start := m.mouseHandler.DragStartValue()
	pct := start + action.DragDX*100/m.width
	if pct < 15 {
		pct = 15
	}
	if pct > 70 {
		pct = 70
	}
	m.sidebarWidthPct = pct
	return nil
}
