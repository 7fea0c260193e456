package tui

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sunnyfarm/tablet/internal/host"
	"github.com/sunnyfarm/tablet/internal/panel"
	"github.com/sunnyfarm/tablet/internal/protocol"
)

const editBufferMax = 6

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case host.EventMsg:
		return m.dispatchHostEvent(msg.Data)
	case host.ConnMsg:
		return m.handleConn(msg)
	case toastExpireMsg:
		m.expireToast(msg.id)
		return m, nil
	case levelPopDoneMsg:
		m.levelPop = false
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// ---------------------------------------------------------------------------
// Host event dispatch
// ---------------------------------------------------------------------------

// dispatchHostEvent routes one pushed frame by its action discriminator and
// runs its state transition to completion before the next event is handled.
// Unknown actions are no-ops; a malformed optional field never aborts the
// whole render.
func (m Model) dispatchHostEvent(data []byte) (tea.Model, tea.Cmd) {
	env, err := protocol.DecodeAction(data)
	if err != nil {
		m.status = "Discarded a malformed host frame."
		return m, nil
	}

	switch env.Action {
	case protocol.ActionOpen:
		var msg protocol.OpenMsg
		_ = json.Unmarshal(data, &msg)
		return m.handleOpen(msg)
	case protocol.ActionClose:
		return m.handleClose()
	case protocol.ActionSync:
		var msg protocol.SyncMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			m.status = "Discarded a malformed snapshot."
			return m, nil
		}
		return m.handleSync(msg)
	case protocol.ActionToast:
		var msg protocol.ToastMsg
		_ = json.Unmarshal(data, &msg)
		cmd := m.pushToast(panel.BuildToast(msg.Toast))
		return m, cmd
	case protocol.ActionReceipt:
		var msg protocol.ReceiptMsg
		_ = json.Unmarshal(data, &msg)
		return m.handleReceipt(msg.Receipt)
	case protocol.ActionLevelUp:
		var msg protocol.LevelUpMsg
		_ = json.Unmarshal(data, &msg)
		return m.handleLevelUp(msg.Data)
	case protocol.ActionProgress:
		var msg protocol.ProgressMsg
		_ = json.Unmarshal(data, &msg)
		return m.handleProgress(msg)
	}
	// Forward compatibility: unrecognized actions are ignored.
	return m, nil
}

func (m Model) handleOpen(msg protocol.OpenMsg) (tea.Model, tea.Cmd) {
	m.visible = true
	m.title = msg.Title
	if m.title == "" {
		m.title = defaultTitle
	}
	// Tab only changes when the host names a known one; otherwise the
	// last-active tab is retained. Panel State and drafts are untouched and
	// may be stale until the next sync.
	if t, ok := panel.TabFromKey(msg.Tab); ok && msg.Tab != "" {
		m.setTab(t)
	}
	return m, nil
}

func (m Model) handleClose() (tea.Model, tea.Cmd) {
	if !m.visible {
		return m, nil
	}
	m.visible = false
	// A blocking overlay must not survive a close.
	m.progress = nil
	m.drafts.Reset()
	m.editBuffer = ""
	m.cropFiltering = false
	m.cropFilter = ""
	return m, nil
}

// handleSync replaces the snapshot wholesale. Nothing from the previous
// snapshot survives; drafts are re-clamped against the new inventory.
func (m Model) handleSync(msg protocol.SyncMsg) (tea.Model, tea.Cmd) {
	m.state = msg.State
	m.drafts.Reclamp(m.inventory())
	m.clampCursors()
	if m.state == nil {
		m.selectedCrop = ""
		return m, nil
	}
	if _, ok := m.state.Crops[m.selectedCrop]; !ok {
		m.selectedCrop = ""
	}
	if m.status == "" || m.status == "Connecting to farm host..." {
		m.status = "Synced with the farm."
	}
	return m, nil
}

func (m Model) handleReceipt(r protocol.Receipt) (tea.Model, tea.Cmd) {
	vm := panel.BuildReceipt(r, m.cfg.UI.CurrencySymbol)
	m.receipt = &vm
	if err := m.journal.LogReceipt(r); err == nil {
		if n, total := m.journal.SessionReceipts(); n > 0 {
			m.status = fmt.Sprintf("Receipt logged (%d this session, %s total).",
				n, panel.Cash(m.cfg.UI.CurrencySymbol, total))
		}
	}
	return m, nil
}

// handleLevelUp triggers the transient emphasis and a toast. The snapshot is
// not mutated; the authoritative level arrives on the next sync.
func (m Model) handleLevelUp(data protocol.LevelUpData) (tea.Model, tea.Cmd) {
	m.levelPop = true
	level := "?"
	if data.Level > 0 {
		level = strconv.Itoa(data.Level)
	}
	toastCmd := m.pushToast(panel.ToastVM{
		Type: "success",
		Text: fmt.Sprintf("Level up! You are now level %s.", level),
	})
	popCmd := tea.Tick(m.cfg.UI.LevelPopDuration, func(time.Time) tea.Msg {
		return levelPopDoneMsg{}
	})
	return m, tea.Batch(toastCmd, popCmd)
}

func (m Model) handleProgress(msg protocol.ProgressMsg) (tea.Model, tea.Cmd) {
	if !msg.Show {
		m.progress = nil
		return m, nil
	}
	vm := panel.BuildProgress(msg.Label, msg.Percent)
	m.progress = &vm
	return m, nil
}

func (m Model) handleConn(msg host.ConnMsg) (tea.Model, tea.Cmd) {
	m.connected = msg.Connected
	switch {
	case msg.Connected:
		m.status = "Connected to farm host."
	case msg.Err != nil:
		m.status = fmt.Sprintf("Connection failed: %v. Retrying...", msg.Err)
	default:
		m.status = "Connection lost. Retrying..."
	}
	return m, nil
}

// ---------------------------------------------------------------------------
// Key input
// ---------------------------------------------------------------------------

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// While stowed the panel accepts no gestures: commands other than the
	// boot-time sync request are only meaningful when open.
	if !m.visible {
		if msg.String() == "q" {
			return m, tea.Quit
		}
		return m, nil
	}

	// Overlays own the keystroke first, so "q" stays typable in the crop
	// filter input.
	if result, cmd, handled := m.dispatchOverlayKey(msg); handled {
		return result, cmd
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "tab":
		m.setTab(m.activeTab.Next())
		return m, nil
	case "shift+tab":
		m.setTab(m.activeTab.Prev())
		return m, nil
	case "1", "2", "3", "4", "5":
		// On the sell tab digits edit the focused draft quantity instead of
		// jumping tabs.
		if m.activeTab != panel.TabSell {
			n, _ := strconv.Atoi(msg.String())
			m.setTab(panel.Tab(n - 1))
			return m, nil
		}
	case "esc":
		// The host owns visibility: ask it to stow the tablet and wait for
		// the close event to come back.
		m.emitter.Emit(protocol.RequestClose())
		return m, nil
	}

	switch m.activeTab {
	case panel.TabCollect:
		return m.updateCollect(msg)
	case panel.TabProcess:
		return m.updateProcess(msg)
	case panel.TabSell:
		return m.updateSell(msg)
	case panel.TabQuest:
		return m.updateQuest(msg)
	}
	return m, nil
}

// ---------------------------------------------------------------------------
// Overlay handlers
// ---------------------------------------------------------------------------

// updateProgressOverlay swallows everything: the host decides when the
// blocking indicator goes away.
func (m Model) updateProgressOverlay(_ tea.KeyMsg) (Model, tea.Cmd) {
	return m, nil
}

func (m Model) updateReceiptModal(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.receipt = nil
	}
	return m, nil
}

func (m Model) updateCropFilter(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.cropFiltering = false
		m.cropFilter = ""
		m.cropCursor = 0
		return m, nil
	case "enter":
		m.cropFiltering = false
		return m, nil
	case "backspace":
		if len(m.cropFilter) > 0 {
			m.cropFilter = m.cropFilter[:len(m.cropFilter)-1]
		}
		m.cropCursor = 0
		return m, nil
	}
	if len(msg.String()) == 1 {
		m.cropFilter += msg.String()
		m.cropCursor = 0
	}
	return m, nil
}

// ---------------------------------------------------------------------------
// Tab handlers
// ---------------------------------------------------------------------------

func (m Model) updateCollect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	crops := m.visibleCrops()
	switch msg.String() {
	case "up", "k":
		if m.cropCursor > 0 {
			m.cropCursor--
		}
	case "down", "j":
		if m.cropCursor < len(crops)-1 {
			m.cropCursor++
		}
	case "/":
		m.cropFiltering = true
	case "enter":
		if m.cropCursor >= 0 && m.cropCursor < len(crops) {
			crop := crops[m.cropCursor]
			m.selectedCrop = crop.ID
			m.emitter.Emit(protocol.Collect(crop.ID))
			m.status = fmt.Sprintf("Collect requested: %s.", crop.Label)
		}
	}
	return m, nil
}

func (m Model) updateProcess(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var rows []panel.RecipeVM
	if m.state != nil {
		rows = m.build().Recipes.Rows
	}
	switch msg.String() {
	case "up", "k":
		if m.recipeCursor > 0 {
			m.recipeCursor--
		}
	case "down", "j":
		if m.recipeCursor < len(rows)-1 {
			m.recipeCursor++
		}
	case "enter":
		// Always enabled: affordability is validated host-side and comes
		// back as a toast when it fails.
		if m.recipeCursor >= 0 && m.recipeCursor < len(rows) {
			r := rows[m.recipeCursor]
			m.emitter.Emit(protocol.Process(r.Key))
			m.status = fmt.Sprintf("Process requested: %s.", r.Label)
		}
	}
	return m, nil
}

func (m Model) updateSell(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var rows []panel.SellRowVM
	if m.state != nil {
		rows = m.build().Sell.Rows
	}
	key := msg.String()
	switch key {
	case "up", "k":
		if m.sellCursor > 0 {
			m.sellCursor--
		}
		m.editBuffer = ""
		return m, nil
	case "down", "j":
		if m.sellCursor < len(rows)-1 {
			m.sellCursor++
		}
		m.editBuffer = ""
		return m, nil
	case "backspace":
		if len(m.editBuffer) > 0 {
			m.editBuffer = m.editBuffer[:len(m.editBuffer)-1]
			m.applyEditBuffer(rows)
		}
		return m, nil
	case "f":
		if m.state != nil {
			m.drafts.FillAll(m.state.ItemOrder, m.state.Inventory)
			m.editBuffer = ""
			m.status = "Draft filled from inventory."
		}
		return m, nil
	case "s", "enter":
		return m.submitSell()
	}
	if len(key) == 1 && key[0] >= '0' && key[0] <= '9' {
		if len(m.editBuffer) < editBufferMax {
			m.editBuffer += key
		}
		m.applyEditBuffer(rows)
	}
	return m, nil
}

// applyEditBuffer stores the typed quantity for the focused row. The draft
// store clamps against current inventory, so the shown value may be lower
// than what was typed.
func (m *Model) applyEditBuffer(rows []panel.SellRowVM) {
	if m.sellCursor < 0 || m.sellCursor >= len(rows) {
		return
	}
	raw, _ := strconv.Atoi(m.editBuffer)
	m.drafts.Set(rows[m.sellCursor].ID, raw, m.inventory())
}

func (m Model) submitSell() (tea.Model, tea.Cmd) {
	if m.state == nil || m.drafts.Len() == 0 {
		m.status = "Nothing drafted to sell."
		return m, nil
	}
	m.emitter.Emit(protocol.Sell(m.drafts.Snapshot(m.inventory())))
	if m.cfg.Sell.ClearDraftOnSubmit {
		m.drafts.Reset()
	}
	m.editBuffer = ""
	m.status = "Sell order sent."
	return m, nil
}

func (m Model) updateQuest(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "w":
		if m.state != nil {
			m.emitter.Emit(protocol.SetWaypoint(!m.state.Preferences.Waypoint))
			m.status = "Waypoint toggle requested."
		}
	}
	return m, nil
}

// clampCursors pins every list cursor inside the freshly synced catalog.
func (m *Model) clampCursors() {
	clamp := func(cur *int, n int) {
		if *cur >= n {
			*cur = n - 1
		}
		if *cur < 0 {
			*cur = 0
		}
	}
	if m.state == nil {
		m.sellCursor, m.cropCursor, m.recipeCursor = 0, 0, 0
		return
	}
	clamp(&m.sellCursor, len(m.state.ItemOrder))
	clamp(&m.cropCursor, len(m.visibleCrops()))
	clamp(&m.recipeCursor, len(m.state.Recipes))
}
