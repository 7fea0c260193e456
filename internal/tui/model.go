// Package tui is the tablet's view-state engine: it ingests host-pushed
// events one at a time, reconciles them with local ephemeral state (active
// tab, sell drafts, overlay flags) and re-derives every visible surface from
// the merged result.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sunnyfarm/tablet/internal/config"
	"github.com/sunnyfarm/tablet/internal/panel"
	"github.com/sunnyfarm/tablet/internal/protocol"
	"github.com/sunnyfarm/tablet/internal/store"
)

const defaultTitle = "Sunny Farm Tablet"

// Emitter sends one-way commands to the host. Implemented by *host.Client;
// tests substitute a recorder.
type Emitter interface {
	Emit(cmd protocol.Command)
}

// Model owns all panel-side state. The host snapshot is replaced wholesale on
// every sync and never merged field-by-field.
type Model struct {
	cfg     config.Config
	emitter Emitter
	journal *store.Store

	visible   bool
	title     string
	activeTab panel.Tab

	state  *protocol.State
	drafts *panel.DraftStore

	toasts   []toast
	receipt  *panel.ReceiptVM
	progress *panel.ProgressVM
	levelPop bool

	sellCursor int
	editBuffer string

	cropCursor    int
	cropFilter    string
	cropFiltering bool
	selectedCrop  string

	recipeCursor int

	connected bool
	status    string
	width     int
	height    int
	keys      keyMap
}

// New builds the initial model. The last-active tab from the previous session
// is restored when the journal has one.
func New(cfg config.Config, emitter Emitter, journal *store.Store) Model {
	m := Model{
		cfg:       cfg,
		emitter:   emitter,
		journal:   journal,
		title:     defaultTitle,
		activeTab: panel.TabCollect,
		drafts:    panel.NewDraftStore(),
		keys:      newKeyMap(),
		status:    "Connecting to farm host...",
	}
	if tab, ok := journal.LastTab(); ok {
		if t, valid := panel.TabFromKey(tab); valid {
			m.activeTab = t
		}
	}
	_ = journal.BeginSession(m.activeTab.Key())
	return m
}

// Init requests the initial snapshot. Emitted exactly once, without waiting
// for an open event.
func (m Model) Init() tea.Cmd {
	return func() tea.Msg {
		m.emitter.Emit(protocol.RequestSync())
		return nil
	}
}

// setTab switches the active tab and persists it for the next session.
func (m *Model) setTab(t panel.Tab) {
	m.activeTab = t
	m.editBuffer = ""
	_ = m.journal.SetLastTab(t.Key())
}

// inventory returns the current snapshot's inventory, or an empty map when no
// snapshot has arrived.
func (m Model) inventory() map[string]int {
	if m.state == nil {
		return nil
	}
	return m.state.Inventory
}

// build derives the view models from the current snapshot, rendering currency
// with the configured symbol.
func (m Model) build() panel.VM {
	return panel.Build(m.state, m.drafts, m.cfg.UI.CurrencySymbol)
}

// visibleCrops is the collect tab's crop list after filtering.
func (m Model) visibleCrops() []panel.CropVM {
	if m.state == nil {
		return nil
	}
	return filterCrops(m.build().Collect.Crops, m.cropFilter)
}
