package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"fstodo/internal/service"
)

const (
	fieldText = iota
	fieldDeadline
)

// modal collects a task's text and deadline. taskID is empty when adding.
type modal struct {
	title  string
	taskID string
	inputs [2]textinput.Model
	focus  int
}

func newModal(title, taskID, text, deadline string) *modal {
	d := &modal{title: title, taskID: taskID}

	d.inputs[fieldText] = textinput.New()
	d.inputs[fieldText].Prompt = "Task:     "
	d.inputs[fieldText].Placeholder = "What needs doing?"
	d.inputs[fieldText].CharLimit = 256
	d.inputs[fieldText].Width = 40
	d.inputs[fieldText].SetValue(text)

	d.inputs[fieldDeadline] = textinput.New()
	d.inputs[fieldDeadline].Prompt = "Deadline: "
	d.inputs[fieldDeadline].Placeholder = "YYYY-MM-DDTHH:MM"
	d.inputs[fieldDeadline].CharLimit = len(service.DeadlineLayout) + 3
	d.inputs[fieldDeadline].Width = 20
	d.inputs[fieldDeadline].SetValue(deadline)

	d.inputs[fieldText].Focus()
	return d
}

func (d *modal) values() (text, deadline string) {
	return d.inputs[fieldText].Value(), d.inputs[fieldDeadline].Value()
}

// switchField moves focus to the other input.
func (d *modal) switchField() tea.Cmd {
	d.inputs[d.focus].Blur()
	d.focus = (d.focus + 1) % len(d.inputs)
	return d.inputs[d.focus].Focus()
}

func (d *modal) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	d.inputs[d.focus], cmd = d.inputs[d.focus].Update(msg)
	return cmd
}

func (d *modal) view() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(d.title) + "\n\n")
	b.WriteString(d.inputs[fieldText].View() + "\n")
	b.WriteString(d.inputs[fieldDeadline].View() + "\n\n")
	b.WriteString(footerStyle.Render("tab switch field • enter save • esc cancel"))
	return modalStyle.Render(b.String())
}
