package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/sunnyfarm/tablet/internal/panel"
)

// toast is one stacked, auto-expiring notification. Each instance owns an
// independent fire-and-forget expiry timer; no cancellation is needed since
// removing an already-removed toast is a safe no-op.
type toast struct {
	id string
	vm panel.ToastVM
}

// pushToast appends a toast and schedules its expiry.
func (m *Model) pushToast(vm panel.ToastVM) tea.Cmd {
	t := toast{id: uuid.NewString(), vm: vm}
	m.toasts = append(m.toasts, t)
	id := t.id
	return tea.Tick(m.cfg.UI.ToastDuration, func(time.Time) tea.Msg {
		return toastExpireMsg{id: id}
	})
}

// expireToast drops the toast with the given id, if it is still shown.
func (m *Model) expireToast(id string) {
	for i, t := range m.toasts {
		if t.id == id {
			m.toasts = append(m.toasts[:i], m.toasts[i+1:]...)
			return
		}
	}
}

// renderToastStack renders newest-last so fresh toasts appear at the bottom.
func (m Model) renderToastStack() string {
	if len(m.toasts) == 0 {
		return ""
	}
	boxes := make([]string, 0, len(m.toasts))
	for _, t := range m.toasts {
		boxes = append(boxes, toastStyleFor(t.vm.Type).Render(truncate(t.vm.Text, 48)))
	}
	return strings.Join(boxes, "\n")
}
