package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/groveworks/grove/internal/diagnostics"
	"github.com/groveworks/grove/internal/eventlog"
	"github.com/groveworks/grove/internal/modal"
	"github.com/groveworks/grove/internal/ui"
	"github.com/groveworks/grove/internal/workspace"
)

// dialogForm holds the scratch input state shared by the create/edit
// dialogs; the other dialog variants (delete/merge/update-from-base) only
// need the checkboxes below plus the selected workspace itself.
type dialogForm struct {
	nameInput       textinput.Model
	branchInput     textinput.Model
	baseBranchInput textinput.Model
	promptInput     textinput.Model

	agentIdx        int
	skipPermissions bool

	forceDelete  bool
	deleteBranch bool
}

var agentOrder = []workspace.AgentType{workspace.AgentClaude, workspace.AgentCodex, workspace.AgentOpenCode}

func newDialogForm() dialogForm {
	mk := func(placeholder string) textinput.Model {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.CharLimit = 256
		return ti
	}
	return dialogForm{
		nameInput:       mk("workspace name"),
		branchInput:     mk("branch (optional)"),
		baseBranchInput: mk("base branch"),
		promptInput:     mk("initial prompt (optional)"),
		deleteBranch:    true,
	}
}

func (m *Model) closeDialog() {
	m.activeDialog = DialogNone
	m.dialog = nil
}

func (m *Model) openCreateDialog() {
	m.dialogForm = newDialogForm()
	m.dialogForm.baseBranchInput.SetValue("main")
	m.activeDialog = DialogCreate
	m.dialog = modal.New("Create workspace",
		modal.WithWidth(60),
		modal.WithPrimaryAction("create"),
	).AddSection(modal.InputWithLabel("name", "Name", &m.dialogForm.nameInput)).
		AddSection(modal.InputWithLabel("branch", "Branch", &m.dialogForm.branchInput)).
		AddSection(modal.InputWithLabel("base", "Base branch", &m.dialogForm.baseBranchInput)).
		AddSection(modal.InputWithLabel("prompt", "Prompt", &m.dialogForm.promptInput)).
		AddSection(modal.Checkbox("skip-permissions", "Skip permissions", &m.dialogForm.skipPermissions)).
		AddSection(modal.Buttons(
			modal.Btn("Create", "create"),
			modal.Btn("Cancel", "cancel"),
		))
}

func (m *Model) openEditDialog() {
	w := m.selectedWorkspace()
	if w == nil {
		return
	}
	m.dialogForm = newDialogForm()
	m.dialogForm.baseBranchInput.SetValue(w.BaseBranch)
	for i, a := range agentOrder {
		if a == w.Agent {
			m.dialogForm.agentIdx = i
		}
	}
	m.activeDialog = DialogEdit
	m.dialog = modal.New(fmt.Sprintf("Edit %s", w.Name),
		modal.WithWidth(60),
		modal.WithPrimaryAction("save"),
	).AddSection(modal.Text(fmt.Sprintf("Agent: %s", w.Agent))).
		AddSection(modal.Checkbox("supported", "Supported agent", &w.SupportedAgent)).
		AddSection(modal.Buttons(
			modal.Btn("Save", "save"),
			modal.Btn("Cancel", "cancel"),
		))
}

func (m *Model) openDeleteDialog() {
	w := m.selectedWorkspace()
	if w == nil {
		return
	}
	m.dialogForm = newDialogForm()
	m.activeDialog = DialogDelete
	m.dialog = modal.New(fmt.Sprintf("Delete %s?", w.Name),
		modal.WithWidth(50),
		modal.WithVariant(modal.VariantDanger),
		modal.WithPrimaryAction("confirm"),
	).AddSection(modal.Text("This removes the worktree and kills its sessions.")).
		AddSection(modal.Checkbox("force", "Force (discard uncommitted changes)", &m.dialogForm.forceDelete)).
		AddSection(modal.Checkbox("delete-branch", "Also delete branch", &m.dialogForm.deleteBranch)).
		AddSection(modal.Buttons(
			modal.Btn("Delete", "confirm", modal.BtnDanger()),
			modal.Btn("Cancel", "cancel"),
		))
}

func (m *Model) openUpdateFromBaseDialog() {
	w := m.selectedWorkspace()
	if w == nil {
		return
	}
	m.dialogForm = newDialogForm()
	m.activeDialog = DialogUpdateFromBase
	dlg := ui.NewConfirmDialog(
		fmt.Sprintf("Update %s from %s?", w.Name, w.BaseBranch),
		"Merges the base branch into this workspace.",
	)
	dlg.ConfirmLabel = " Update "
	m.dialog = dlg.ToModal()
}

// openSettingsDialog shows a small diagnostics panel alongside the sidebar
// control: the running version, whether tmux is reachable (the one binary
// every workspace depends on regardless of agent), and where events are
// being logged.
func (m *Model) openSettingsDialog() {
	m.activeDialog = DialogSettings
	b := modal.New("Settings",
		modal.WithWidth(55),
	).AddSection(modal.Text(fmt.Sprintf("Sidebar width: %d%%", m.sidebarWidthPct))).
		AddSection(modal.Text(fmt.Sprintf("Version: %s", m.version))).
		AddSection(modal.Text(tmuxDiagnosticLine())).
		AddSection(modal.Text(fmt.Sprintf("Event log: %s", eventlog.DefaultPath())))
	m.dialog = b.AddSection(modal.Buttons(modal.Btn("Close", "cancel")))
}

// tmuxDiagnosticLine reports whether tmux is reachable on PATH, reusing the
// same lookup `grove doctor` runs.
func tmuxDiagnosticLine() string {
	for _, c := range diagnostics.CheckBinaries() {
		if strings.EqualFold(c.Name, "tmux") {
			if c.Found {
				return fmt.Sprintf("tmux: found (%s)", c.Path)
			}
			return "tmux: not found on PATH"
		}
	}
	return "tmux: unknown"
}

func (m *Model) openProjectDialog() {
	m.activeDialog = DialogProject
	b := modal.New("Switch project", modal.WithWidth(55))
	for _, p := range m.cfg.Projects {
		b = b.AddSection(modal.Text(fmt.Sprintf("%s (%s)", p.Name, p.Path)))
	}
	m.dialog = b.AddSection(modal.Buttons(modal.Btn("Close", "cancel")))
}
