package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type toastKind int

const (
	toastInfo toastKind = iota
	toastError
)

// toast is a transient message at the bottom of the board. seq ties the
// expiry message to the toast that scheduled it, so an older timer never
// clears a newer toast.
type toast struct {
	text string
	kind toastKind
	seq  int
}

type toastExpiredMsg struct {
	seq int
}

func (m *model) showToast(text string, kind toastKind) tea.Cmd {
	m.toastSeq++
	m.toast = toast{text: text, kind: kind, seq: m.toastSeq}
	seq := m.toastSeq
	return tea.Tick(m.toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}

func (m *model) expireToast(msg toastExpiredMsg) {
	if msg.seq == m.toast.seq {
		m.toast = toast{}
	}
}

func (t toast) view() string {
	if t.text == "" {
		return ""
	}
	if t.kind == toastError {
		return toastErrorStyle.Render(t.text)
	}
	return toastInfoStyle.Render(t.text)
}
