package tui

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/evanschultz/checklist/internal/app"
	"github.com/evanschultz/checklist/internal/domain"
)

// TaskList is the controller surface the model drives.
type TaskList interface {
	SetPendingInput(string)
	AddTask() (domain.Task, bool)
	ToggleTask(string, bool) error
	RemoveTask(string) (bool, error)
	Snapshot() app.Snapshot
}

// ModalConfirmer hands the answer picked in the confirmation modal to the task list.
// The task list must be constructed with the same confirmer passed to NewModel.
type ModalConfirmer struct {
	answer bool
}

// NewModalConfirmer constructs a confirmer that declines until resolved.
func NewModalConfirmer() *ModalConfirmer {
	return &ModalConfirmer{}
}

// Resolve records the answer for the next Confirm call.
func (c *ModalConfirmer) Resolve(answer bool) {
	c.answer = answer
}

// Confirm returns the recorded answer once and then falls back to declining.
func (c *ModalConfirmer) Confirm(domain.Task) bool {
	answer := c.answer
	c.answer = false
	return answer
}

// focusArea identifies which pane receives key presses.
type focusArea int

// focusInput and related constants define package defaults.
const (
	focusInput focusArea = iota
	focusList
)

// inputMode represents a selectable mode.
type inputMode int

// modeNone and related constants define package defaults.
const (
	modeNone inputMode = iota
	modeConfirmRemove
)

// minListRows keeps a usable list window on short terminals.
const minListRows = 3

// Model is the Bubble Tea model for the checklist screen.
type Model struct {
	list    TaskList
	confirm *ModalConfirmer

	input  textinput.Model
	help   help.Model
	keys   keyMap
	labels Labels

	focus         focusArea
	mode          inputMode
	selected      int
	pendingRemove domain.Task
	confirmChoice int

	copyText func(string) error

	status string
	width  int
	height int
	ready  bool
}

// NewModel constructs a new value for this package.
func NewModel(list TaskList, confirm *ModalConfirmer, opts ...Option) Model {
	if confirm == nil {
		confirm = NewModalConfirmer()
	}
	h := help.New()
	h.ShowAll = false
	input := textinput.New()
	input.Prompt = "› "
	input.CharLimit = 280
	labels := DefaultLabels()
	input.Placeholder = labels.InputPlaceholder
	_ = input.Focus()

	m := Model{
		list:          list,
		confirm:       confirm,
		input:         input,
		help:          h,
		keys:          newKeyMap(),
		labels:        labels,
		focus:         focusInput,
		confirmChoice: 1,
		copyText:      defaultClipboard,
		status:        "ready",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	m.input.SetValue(list.Snapshot().PendingInput)
	return m
}

// Init handles init.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update updates state for the requested operation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.height = msg.Height
		m.input.SetWidth(max(10, msg.Width-20))
		m.help.SetWidth(max(0, msg.Width-2))
		return m, nil

	case tea.KeyPressMsg:
		if key.Matches(msg, m.keys.forceQuit) {
			return m, tea.Quit
		}
		if m.mode == modeConfirmRemove {
			return m.handleConfirmKey(msg)
		}
		if m.focus == focusList {
			return m.handleListKey(msg)
		}
		return m.handleInputKey(msg)

	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.syncDraft()
		return m, cmd
	}
}

// syncDraft hands the visible draft to the task list when it changed.
func (m Model) syncDraft() {
	if value := m.input.Value(); value != m.list.Snapshot().PendingInput {
		m.list.SetPendingInput(value)
	}
}

// handleInputKey edits the draft and submits it on enter.
func (m Model) handleInputKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "esc":
		return m, tea.Quit
	case key.Matches(msg, m.keys.addTask):
		m.addTask()
		return m, nil
	case key.Matches(msg, m.keys.focusNext), msg.String() == "down":
		return m.focusListArea()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.syncDraft()
	return m, cmd
}

// handleListKey navigates the list and applies per-task actions.
func (m Model) handleListKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	snap := m.list.Snapshot()
	switch {
	case key.Matches(msg, m.keys.toggleTask):
		task, ok := m.selectedTask(snap)
		if !ok {
			m.status = "no task selected"
			return m, nil
		}
		if err := m.list.ToggleTask(task.ID, !task.Checked); err != nil {
			m.status = statusForError(err)
			return m, nil
		}
		if task.Checked {
			m.status = "marked open"
		} else {
			m.status = "marked done"
		}
		return m, nil

	case key.Matches(msg, m.keys.removeTask):
		task, ok := m.selectedTask(snap)
		if !ok {
			m.status = "no task selected"
			return m, nil
		}
		m.mode = modeConfirmRemove
		m.pendingRemove = task
		m.confirmChoice = 1
		m.status = "confirm remove"
		return m, nil

	case key.Matches(msg, m.keys.copyTask):
		task, ok := m.selectedTask(snap)
		if !ok {
			m.status = "no task selected"
			return m, nil
		}
		if err := m.copyText(task.Text); err != nil {
			m.status = "copy failed: " + err.Error()
			return m, nil
		}
		m.status = "copied to clipboard"
		return m, nil

	case key.Matches(msg, m.keys.moveUp):
		if m.selected == 0 {
			return m.focusInputArea()
		}
		m.selected = clamp(m.selected-1, 0, len(snap.Tasks)-1)
		return m, nil

	case key.Matches(msg, m.keys.moveDown):
		m.selected = clamp(m.selected+1, 0, len(snap.Tasks)-1)
		return m, nil

	case key.Matches(msg, m.keys.focusNext), msg.String() == "i":
		return m.focusInputArea()

	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	}
	return m, nil
}

// handleConfirmKey resolves the remove confirmation modal.
func (m Model) handleConfirmKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "n":
		return m.resolveRemove(false)
	case "h", "left", "l", "right", "tab":
		if m.confirmChoice == 0 {
			m.confirmChoice = 1
		} else {
			m.confirmChoice = 0
		}
		return m, nil
	case "y":
		return m.resolveRemove(true)
	case "enter":
		return m.resolveRemove(m.confirmChoice == 0)
	default:
		return m, nil
	}
}

// resolveRemove hands the modal answer to the task list and runs the removal.
func (m Model) resolveRemove(answer bool) (tea.Model, tea.Cmd) {
	task := m.pendingRemove
	m.mode = modeNone
	m.pendingRemove = domain.Task{}
	m.confirmChoice = 1

	m.confirm.Resolve(answer)
	removed, err := m.list.RemoveTask(task.ID)
	switch {
	case err != nil:
		m.status = statusForError(err)
	case !removed:
		m.status = "cancelled"
	default:
		m.status = "removed " + quoteText(task.Text)
	}

	snap := m.list.Snapshot()
	if snap.Empty() {
		return m.focusInputArea()
	}
	m.selected = clamp(m.selected, 0, len(snap.Tasks)-1)
	return m, nil
}

// addTask submits the draft; an empty draft is ignored without a status change.
func (m *Model) addTask() {
	m.list.SetPendingInput(m.input.Value())
	task, ok := m.list.AddTask()
	if !ok {
		return
	}
	snap := m.list.Snapshot()
	m.input.SetValue(snap.PendingInput)
	m.selected = len(snap.Tasks) - 1
	m.status = "added " + quoteText(task.Text)
}

// focusListArea moves key focus to the task list when it has entries.
func (m Model) focusListArea() (tea.Model, tea.Cmd) {
	snap := m.list.Snapshot()
	if snap.Empty() {
		m.status = "no tasks yet"
		return m, nil
	}
	m.focus = focusList
	m.input.Blur()
	m.selected = clamp(m.selected, 0, len(snap.Tasks)-1)
	return m, nil
}

// focusInputArea moves key focus back to the draft input.
func (m Model) focusInputArea() (tea.Model, tea.Cmd) {
	m.focus = focusInput
	return m, m.input.Focus()
}

// selectedTask returns the highlighted task in snap.
func (m Model) selectedTask(snap app.Snapshot) (domain.Task, bool) {
	if m.selected < 0 || m.selected >= len(snap.Tasks) {
		return domain.Task{}, false
	}
	return snap.Tasks[m.selected], true
}

// View handles view.
func (m Model) View() tea.View {
	v := tea.NewView(m.renderContent())
	v.AltScreen = true
	return v
}

// renderContent renders the full screen as plain terminal text.
func (m Model) renderContent() string {
	if !m.ready {
		return "loading..."
	}

	accent := lipgloss.Color("62")
	muted := lipgloss.Color("241")
	dim := lipgloss.Color("239")
	done := lipgloss.Color("108")

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	statusStyle := lipgloss.NewStyle().Foreground(dim)

	snap := m.list.Snapshot()
	sections := []string{
		titleStyle.Render(m.labels.Title),
		"",
		m.renderInputRow(snap, accent, dim),
		"",
		m.renderCounters(snap, accent, done),
		"",
	}
	if m.mode == modeConfirmRemove {
		sections = append(sections, m.renderConfirmModal(accent, muted))
	} else {
		sections = append(sections, m.renderTaskRows(snap, accent, muted, done))
	}
	if strings.TrimSpace(m.status) != "" && m.status != "ready" {
		sections = append(sections, "", statusStyle.Render(m.status))
	}

	helpLine := lipgloss.NewStyle().
		Foreground(muted).
		BorderTop(true).
		BorderForeground(dim).
		Padding(0, 1).
		Width(max(0, m.width)).
		Render(m.help.View(m.keys))

	return strings.Join(sections, "\n") + "\n" + helpLine
}

// renderInputRow renders the draft input and the add affordance, dimmed while the draft is empty.
func (m Model) renderInputRow(snap app.Snapshot, accent, dim color.Color) string {
	addStyle := lipgloss.NewStyle().Padding(0, 1)
	if snap.CanAdd {
		addStyle = addStyle.Bold(true).Foreground(lipgloss.Color("255")).Background(accent)
	} else {
		addStyle = addStyle.Foreground(dim)
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, m.input.View(), " ", addStyle.Render("add +"))
}

// renderCounters renders the created and done counters.
func (m Model) renderCounters(snap app.Snapshot, accent, done color.Color) string {
	created := lipgloss.NewStyle().Bold(true).Foreground(accent).Render("Created")
	finished := lipgloss.NewStyle().Bold(true).Foreground(done).Render("Done")
	badge := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	return fmt.Sprintf(
		"%s %s   %s %s",
		created, badge.Render(fmt.Sprintf("%d", snap.Total)),
		finished, badge.Render(fmt.Sprintf("%d of %d", snap.Checked, snap.Total)),
	)
}

// renderTaskRows renders the empty state or the visible window of task rows.
func (m Model) renderTaskRows(snap app.Snapshot, accent, muted, done color.Color) string {
	if snap.Empty() {
		lines := []string{lipgloss.NewStyle().Bold(true).Foreground(muted).Render(m.labels.EmptyTitle)}
		if hint := strings.TrimSpace(m.labels.EmptyHint); hint != "" {
			lines = append(lines, lipgloss.NewStyle().Foreground(muted).Render(hint))
		}
		return lipgloss.NewStyle().Padding(1, 2).Render(strings.Join(lines, "\n"))
	}

	start, end := visibleRange(m.selected, len(snap.Tasks), m.listRows())
	listFocused := m.focus == focusList
	rows := make([]string, 0, end-start+2)
	if start > 0 {
		rows = append(rows, lipgloss.NewStyle().Foreground(muted).Render(fmt.Sprintf("  ↑ %d more", start)))
	}
	for idx := start; idx < end; idx++ {
		task := snap.Tasks[idx]
		cursor := "  "
		if listFocused && idx == m.selected {
			cursor = lipgloss.NewStyle().Foreground(accent).Render("› ")
		}
		box := "[ ]"
		text := task.Text
		textStyle := lipgloss.NewStyle()
		if task.Checked {
			box = lipgloss.NewStyle().Foreground(done).Render("[x]")
			textStyle = textStyle.Foreground(muted).Strikethrough(true)
		}
		row := cursor + box + " " + textStyle.Render(text)
		if listFocused && idx == m.selected {
			row += "  " + lipgloss.NewStyle().Foreground(muted).Render(m.keys.removeTask.Help().Key+" ✕")
		}
		rows = append(rows, row)
	}
	if end < len(snap.Tasks) {
		rows = append(rows, lipgloss.NewStyle().Foreground(muted).Render(fmt.Sprintf("  ↓ %d more", len(snap.Tasks)-end)))
	}
	return strings.Join(rows, "\n")
}

// renderConfirmModal renders the yes/no removal prompt.
func (m Model) renderConfirmModal(accent, muted color.Color) string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1)
	if m.width > 0 {
		style = style.Width(clamp(m.width-4, 36, 88))
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(accent)
	hintStyle := lipgloss.NewStyle().Foreground(muted)
	chosen := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255")).Background(accent).Padding(0, 1)
	plain := lipgloss.NewStyle().Foreground(muted).Padding(0, 1)

	yes, no := plain.Render("yes"), chosen.Render("no")
	if m.confirmChoice == 0 {
		yes, no = chosen.Render("yes"), plain.Render("no")
	}
	lines := []string{
		titleStyle.Render(m.labels.RemovePrompt),
		quoteText(m.pendingRemove.Text),
		"",
		yes + " " + no,
		hintStyle.Render("y confirm • n/esc cancel • ←/→ choose • enter apply"),
	}
	return style.Render(strings.Join(lines, "\n"))
}

// listRows returns how many task rows fit below the header.
func (m Model) listRows() int {
	if m.height <= 0 {
		return 0
	}
	reserved := 10
	if m.help.ShowAll {
		reserved += 4
	}
	return max(minListRows, m.height-reserved)
}

// visibleRange returns the half-open window of rows keeping selected in view.
func visibleRange(selected, total, window int) (int, int) {
	if window <= 0 || total <= window {
		return 0, total
	}
	selected = clamp(selected, 0, total-1)
	start := selected - window/2
	start = clamp(start, 0, total-window)
	return start, start + window
}

// statusForError maps task list errors to status text.
func statusForError(err error) string {
	if errors.Is(err, app.ErrNotFound) {
		return "task no longer exists"
	}
	return err.Error()
}

// quoteText formats task text for status lines.
func quoteText(text string) string {
	return fmt.Sprintf("%q", text)
}

// clamp bounds v to [lo, hi]; an empty range yields lo.
func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
