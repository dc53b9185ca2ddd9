// Package ui provides the interactive task board.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"fstodo/internal/config"
	"fstodo/internal/countdown"
	"fstodo/internal/service"
	"fstodo/internal/tasklist"
)

// Toast messages shown after successful changes.
const (
	toastUpdated = "Task updated"
	toastDeleted = "Task deleted"
)

// ErrNoTTY is returned by RunTUI when out is not a terminal.
var ErrNoTTY = errors.New("the board requires a terminal (try: fstodo list)")

// RunTUI starts the board on out and blocks until the user quits or ctx is
// cancelled.
func RunTUI(ctx context.Context, cfg *config.Config, list *tasklist.List, out io.Writer) error {
	if !IsTTY(out) {
		return ErrNoTTY
	}

	m := newModel(ctx, list, cfg.Settings.UI.Toast())
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx), tea.WithOutput(out))
	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}

type model struct {
	ctx  context.Context
	list *tasklist.List

	tickInterval  time.Duration
	toastDuration time.Duration

	// remaining is rebuilt from scratch on every tick. tickedAt is the time
	// it was built for; row colours use the same instant.
	remaining map[string]string
	tickedAt  time.Time
	cursor    int
	loading   bool
	loadErr   error
	showHelp  bool
	modal     *modal
	toast     toast
	toastSeq  int
}

type tickMsg time.Time

type loadedMsg struct {
	err error
}

// persistedMsg reports a finished store call. success is the toast to show
// when err is nil; empty means no toast.
type persistedMsg struct {
	success string
	err     error
}

func newModel(ctx context.Context, list *tasklist.List, toastDuration time.Duration) *model {
	return &model{
		ctx:           ctx,
		list:          list,
		tickInterval:  time.Second,
		toastDuration: toastDuration,
		remaining:     map[string]string{},
		loading:       true,
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), tickCmd(m.tickInterval))
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.modal != nil {
			return m, m.updateModal(msg)
		}
		return m, m.updateList(msg)
	case tickMsg:
		m.tickedAt = time.Time(msg)
		m.remaining = countdown.Snapshot(m.list.Tasks(), m.tickedAt)
		return m, tickCmd(m.tickInterval)
	case loadedMsg:
		m.loading = false
		m.loadErr = msg.err
		m.clampCursor()
		if msg.err != nil {
			return m, m.showToast(msg.err.Error(), toastError)
		}
	case persistedMsg:
		m.clampCursor()
		if msg.err != nil {
			return m, m.showToast(msg.err.Error(), toastError)
		}
		if msg.success != "" {
			return m, m.showToast(msg.success, toastInfo)
		}
	case toastExpiredMsg:
		m.expireToast(msg)
	}
	return m, nil
}

func (m *model) updateList(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c", "q":
		return tea.Quit
	case "?":
		m.showHelp = !m.showHelp
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < m.list.Len()-1 {
			m.cursor++
		}
	case "r":
		m.loading = true
		return m.loadCmd()
	case "a":
		m.modal = newModal("New task", "", "", "")
		return textinput.Blink
	case "e":
		task, ok := m.selected()
		if !ok {
			return nil
		}
		m.modal = newModal("Edit task", task.ID, task.Text, service.FormatDeadline(task.Deadline))
		return textinput.Blink
	case " ", "space", "enter", "t":
		task, ok := m.selected()
		if !ok {
			return nil
		}
		persist, err := m.list.Toggle(task.ID)
		if err != nil {
			return m.showToast(err.Error(), toastError)
		}
		return m.persistCmd(persist, "")
	case "d":
		task, ok := m.selected()
		if !ok {
			return nil
		}
		persist, err := m.list.Delete(task.ID)
		if err != nil {
			return m.showToast(err.Error(), toastError)
		}
		return m.persistCmd(persist, toastDeleted)
	}
	return nil
}

func (m *model) updateModal(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.modal = nil
		return nil
	case "tab", "shift+tab":
		return m.modal.switchField()
	case "enter":
		return m.submitModal()
	}
	return m.modal.update(msg)
}

// submitModal closes the dialog and starts the add or edit. Blank input closes
// it without a change; an unparsable deadline keeps it open.
func (m *model) submitModal() tea.Cmd {
	text, deadline := m.modal.values()
	var (
		persist tasklist.Persist
		err     error
		success string
	)
	if m.modal.taskID == "" {
		persist, err = m.list.Add(text, deadline)
	} else {
		persist, err = m.list.Edit(m.modal.taskID, text, deadline)
		success = toastUpdated
	}

	switch {
	case errors.Is(err, tasklist.ErrEmptyInput):
		m.modal = nil
		return nil
	case errors.Is(err, service.ErrInvalid):
		return m.showToast(err.Error(), toastError)
	case err != nil:
		m.modal = nil
		return m.showToast(err.Error(), toastError)
	}
	m.modal = nil
	return m.persistCmd(persist, success)
}

func (m *model) persistCmd(persist tasklist.Persist, success string) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		err := persist(ctx)
		if err != nil {
			log.WithError(err).Debug("board: persist failed")
		}
		return persistedMsg{success: success, err: err}
	}
}

func (m *model) loadCmd() tea.Cmd {
	ctx := m.ctx
	list := m.list
	return func() tea.Msg {
		return loadedMsg{err: list.Load(ctx)}
	}
}

func (m *model) selected() (service.Task, bool) {
	tasks := m.list.Tasks()
	if m.cursor < 0 || m.cursor >= len(tasks) {
		return service.Task{}, false
	}
	return tasks[m.cursor], true
}

func (m *model) clampCursor() {
	n := m.list.Len()
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *model) View() string {
	var b strings.Builder
	writeTitle(&b)

	if m.showHelp {
		writeHelp(&b)
		return b.String()
	}

	switch {
	case m.loading && m.list.Len() == 0:
		b.WriteString("Loading...\n")
	case m.loadErr != nil && m.list.Len() == 0:
		b.WriteString("Error loading tasks:\n  " + m.loadErr.Error() + "\n")
	case m.list.Len() == 0:
		b.WriteString("No tasks yet. Press 'a' to add one.\n")
	default:
		m.writeTasks(&b)
	}

	if m.modal != nil {
		b.WriteString("\n" + m.modal.view() + "\n")
	}
	if t := m.toast.view(); t != "" {
		b.WriteString("\n" + t + "\n")
	}
	b.WriteString("\n" + footerStyle.Render("a add • e edit • space toggle • d delete • r reload • ? help • q quit"))
	return b.String()
}

func (m *model) writeTasks(b *strings.Builder) {
	for i, t := range m.list.Tasks() {
		prefix := "  "
		if i == m.cursor {
			prefix = cursorStyle.Render("> ")
		}
		check := "[ ]"
		if t.Completed {
			check = "[x]"
		}
		remaining, state := m.row(t)
		line := fmt.Sprintf("%s %s  %s  %s", check, t.Text, t.Deadline.Local().Format("2006-01-02 15:04"), remaining)
		b.WriteString(prefix + stateStyle(state).Render(line) + "\n")
	}
}

// row returns the countdown text and display state of t as of the last tick.
// Tasks the last tick did not see show the placeholder and stay active until
// the next one.
func (m *model) row(t service.Task) (string, countdown.State) {
	remaining, ok := m.remaining[t.ID]
	if !ok {
		if t.Completed {
			return countdown.Pending, countdown.StateCompleted
		}
		return countdown.Pending, countdown.StateActive
	}
	return remaining, countdown.Classify(t, m.tickedAt)
}

func writeTitle(b *strings.Builder) {
	b.WriteString(titleStyle.Render("fstodo") + "\n\n")
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keys:\n")
	b.WriteString("  a              add a task\n")
	b.WriteString("  e              edit the selected task\n")
	b.WriteString("  space/enter/t  toggle completion\n")
	b.WriteString("  d              delete the selected task\n")
	b.WriteString("  r              reload from the store\n")
	b.WriteString("  up/k, down/j   move\n")
	b.WriteString("  ?              close this help\n")
	b.WriteString("  q, ctrl+c      quit\n")
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
