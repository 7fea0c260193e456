package tui

// Overlay precedence: the first matching guard owns the keystroke. Update
// and the footer hints both read this table, so adding an overlay means one
// entry in the correct priority position.

import tea "github.com/charmbracelet/bubbletea"

type overlayEntry struct {
	name    string
	guard   func(m Model) bool
	handler func(m Model, msg tea.KeyMsg) (Model, tea.Cmd)
}

// overlayPrecedence is ordered highest to lowest. Progress outranks the
// receipt: a host-driven blocking indicator must swallow input even with a
// receipt underneath.
func overlayPrecedence() []overlayEntry {
	return []overlayEntry{
		{
			name:    "progress",
			guard:   func(m Model) bool { return m.progress != nil },
			handler: func(m Model, msg tea.KeyMsg) (Model, tea.Cmd) { return m.updateProgressOverlay(msg) },
		},
		{
			name:    "receipt",
			guard:   func(m Model) bool { return m.receipt != nil },
			handler: func(m Model, msg tea.KeyMsg) (Model, tea.Cmd) { return m.updateReceiptModal(msg) },
		},
		{
			name:    "cropFilter",
			guard:   func(m Model) bool { return m.cropFiltering },
			handler: func(m Model, msg tea.KeyMsg) (Model, tea.Cmd) { return m.updateCropFilter(msg) },
		},
	}
}

// dispatchOverlayKey finds the first matching overlay and dispatches the key.
// Returns handled=false when no overlay is active and the caller should
// continue with tab-level dispatch.
func (m Model) dispatchOverlayKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	for _, entry := range overlayPrecedence() {
		if entry.guard(m) {
			result, cmd := entry.handler(m, msg)
			return result, cmd, true
		}
	}
	return m, nil, false
}

// activeOverlay names the highest-priority active overlay, or "".
func (m Model) activeOverlay() string {
	for _, entry := range overlayPrecedence() {
		if entry.guard(m) {
			return entry.name
		}
	}
	return ""
}
