package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/sunnyfarm/tablet/internal/panel"
)

// View derives the whole frame from the model. It is a pure function of the
// model: re-rendering an unchanged model yields a byte-identical frame, so an
// unchanged snapshot re-sync costs nothing visible.
func (m Model) View() string {
	if !m.visible {
		return m.stowedView()
	}

	vm := m.build()

	header := m.renderHeader()
	var body string
	if !vm.HasState {
		body = m.renderSection("Farm", statusStyle.Render("Waiting for the first farm snapshot..."))
	} else {
		body = m.renderXP(vm.Header) + "\n" + m.tabBody(vm)
	}

	frame := m.placeWithFooter(header+"\n"+body, m.renderStatusBar(), m.renderFooter(m.footerBindings()))

	if toasts := m.renderToastStack(); toasts != "" {
		frame = overlayBottomRight(frame, toasts, m.frameWidth(), m.frameHeight())
	}
	if m.receipt != nil {
		frame = overlayCentered(frame, m.renderReceipt(*m.receipt), m.frameWidth(), m.frameHeight())
	}
	if m.progress != nil {
		frame = overlayCentered(frame, m.renderProgress(*m.progress), m.frameWidth(), m.frameHeight())
	}
	return frame
}

func (m Model) tabBody(vm panel.VM) string {
	switch m.activeTab {
	case panel.TabCollect:
		return m.renderCollect(vm.Collect)
	case panel.TabProcess:
		return m.renderRecipes(vm.Recipes)
	case panel.TabSell:
		return m.renderSell(vm.Sell)
	case panel.TabQuest:
		return m.renderQuest(vm.Quest)
	case panel.TabInventory:
		return m.renderInventory(vm.Inventory)
	default:
		return m.renderCollect(vm.Collect)
	}
}

// ---------------------------------------------------------------------------
// Chrome
// ---------------------------------------------------------------------------

func (m Model) stowedView() string {
	note := statusStyle.Render("Tablet stowed. Waiting for the host to open it.")
	return m.placeWithFooter(note, m.renderStatusBar(), m.renderFooter([]key.Binding{m.keys.Quit}))
}

func (m Model) renderHeader() string {
	name := headerAppStyle.Render(m.title)

	var tabs []string
	for t := panel.Tab(0); t < panel.TabCount; t++ {
		if t == m.activeTab {
			tabs = append(tabs, activeTabStyle.Render(t.Title()))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(t.Title()))
		}
	}
	tabBar := tabSepStyle.Render(" ") + strings.Join(tabs, tabSepStyle.Render("│"))

	content := name + "  " + tabBar
	if m.width <= 0 {
		return headerBarStyle.Render(content)
	}
	return headerBarStyle.Width(m.width).Render(content)
}

func (m Model) renderXP(h panel.HeaderVM) string {
	level := titleStyle.Render(h.LevelText)
	if m.levelPop {
		level = levelPopStyle.Render(h.LevelText)
	}
	bar := renderBar(h.LevelPct, 24)
	line1 := level + "  " + statusStyle.Render(h.XPText) + "  " + bar
	line2 := labelStyle.Render(h.BonusText) +
		dimStyle.Render("  |  ") + labelStyle.Render("Daily: ") + valueStyle.Render(h.DailyText) +
		dimStyle.Render("  |  ") + labelStyle.Render(h.ResetText) +
		dimStyle.Render("  |  ") + labelStyle.Render("Wallet: ") + valueStyle.Render(h.WalletText)
	return m.renderSection("Progress", line1+"\n"+line2)
}

// renderBar draws a clamped percent bar of the given cell width.
func renderBar(pct float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(panel.ClampPct(pct) / 100 * float64(width))
	if filled > width {
		filled = width
	}
	return barFillStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", width-filled))
}

func (m Model) renderSection(title, content string) string {
	contentWidth := m.contentWidth()
	header := padRight(titleStyle.Render(title), contentWidth)
	separator := lipgloss.NewStyle().Foreground(colorSurface2).Render(strings.Repeat("─", contentWidth))
	section := sectionStyle.Width(m.sectionWidth()).Render(header + "\n" + separator + "\n" + content)
	if m.width == 0 {
		return section
	}
	return lipgloss.Place(m.width, lipgloss.Height(section), lipgloss.Center, lipgloss.Top, section)
}

func (m Model) renderStatusBar() string {
	flat := strings.ReplaceAll(m.status, "\n", " ")
	if m.width == 0 {
		return statusBarStyle.Render(flat)
	}
	return statusBarStyle.Width(m.width).Render(flat)
}

func (m Model) renderFooter(bindings []key.Binding) string {
	bg := colorMantle
	keyStyle := helpKeyStyle.Background(bg)
	descStyle := helpDescStyle.Background(bg)
	space := lipgloss.NewStyle().Background(bg).Render(" ")
	sep := lipgloss.NewStyle().Background(bg).Render("  ")

	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		if help.Key == "" && help.Desc == "" {
			continue
		}
		parts = append(parts, keyStyle.Render(help.Key)+space+descStyle.Render(help.Desc))
	}
	content := strings.Join(parts, sep)

	if m.width == 0 {
		return footerStyle.Render(content)
	}
	return footerStyle.Width(m.width).Render(content)
}

func (m Model) footerBindings() []key.Binding {
	switch m.activeOverlay() {
	case "progress":
		return nil
	case "receipt":
		return []key.Binding{m.keys.Dismiss, m.keys.Quit}
	case "cropFilter":
		return []key.Binding{m.keys.Select, m.keys.Stow, m.keys.Quit}
	}
	switch m.activeTab {
	case panel.TabCollect:
		return []key.Binding{m.keys.NextTab, m.keys.UpDown, m.keys.Select, m.keys.Filter, m.keys.Stow, m.keys.Quit}
	case panel.TabSell:
		return []key.Binding{m.keys.NextTab, m.keys.UpDown, m.keys.FillAll, m.keys.SellNow, m.keys.Stow, m.keys.Quit}
	case panel.TabQuest:
		return []key.Binding{m.keys.NextTab, m.keys.Waypoint, m.keys.Stow, m.keys.Quit}
	default:
		return m.keys.ShortHelp()
	}
}

func (m Model) placeWithFooter(body, statusLine, footer string) string {
	if m.height == 0 {
		return body + "\n\n" + statusLine + "\n" + footer
	}
	contentHeight := m.height - 2
	if contentHeight < 1 {
		contentHeight = 1
	}
	if lipgloss.Height(body) >= contentHeight {
		return body + "\n" + statusLine + "\n" + footer
	}
	main := lipgloss.Place(m.width, contentHeight, lipgloss.Left, lipgloss.Top, body)
	// Full-width lines prevent ghosting from the previous frame.
	lines := splitLines(main)
	for i, line := range lines {
		lines[i] = padRight(line, m.width)
	}
	return strings.Join(lines, "\n") + "\n" + statusLine + "\n" + footer
}

// ---------------------------------------------------------------------------
// Tab surfaces
// ---------------------------------------------------------------------------

func (m Model) renderCollect(vm panel.CollectVM) string {
	crops := filterCrops(vm.Crops, m.cropFilter)

	var b strings.Builder
	if m.cropFiltering || m.cropFilter != "" {
		prompt := filterPromptStyle.Render("Filter: " + m.cropFilter)
		if m.cropFiltering {
			prompt += filterPromptStyle.Render("▌")
		}
		b.WriteString(prompt + "\n")
	}
	if len(crops) == 0 {
		b.WriteString(dimStyle.Render("No crops match."))
	}
	for i, crop := range crops {
		prefix := "  "
		if i == m.cropCursor {
			prefix = cursorStyle.Render("> ")
		}
		line := crop.Label
		if crop.ID == m.selectedCrop {
			line += dimStyle.Render("  (last collected)")
		}
		b.WriteString(prefix + line + "\n")
	}
	b.WriteString("\n" + dimStyle.Render("enter collects the highlighted crop"))
	return m.renderSection("Collect", strings.TrimRight(b.String(), "\n"))
}

func (m Model) renderRecipes(vm panel.RecipesVM) string {
	if len(vm.Rows) == 0 {
		return m.renderSection("Process", dimStyle.Render("No recipes known."))
	}
	var b strings.Builder
	for i, r := range vm.Rows {
		prefix := "  "
		if i == m.recipeCursor {
			prefix = cursorStyle.Render("> ")
		}
		b.WriteString(prefix + titleStyle.Render(r.Label) + "\n")
		b.WriteString("    " + dimStyle.Render(r.InputText) + "\n")
		b.WriteString("    " + dimStyle.Render(r.OutputText) + "\n")
	}
	b.WriteString("\n" + dimStyle.Render("enter processes the highlighted recipe"))
	return m.renderSection("Process", strings.TrimRight(b.String(), "\n"))
}

func (m Model) renderSell(vm panel.SellVM) string {
	if len(vm.Rows) == 0 {
		return m.renderSection("Sell", dimStyle.Render("Nothing to sell yet."))
	}
	labelWidth := 0
	for _, row := range vm.Rows {
		if len(row.Label) > labelWidth {
			labelWidth = len(row.Label)
		}
	}
	var b strings.Builder
	for i, row := range vm.Rows {
		prefix := "  "
		qty := fmt.Sprintf("%4d", row.Qty)
		if i == m.sellCursor {
			prefix = cursorStyle.Render("> ")
			qty = draftQtyStyle.Render(qty)
		}
		meta := dimStyle.Render(fmt.Sprintf("Have: %d | Price: %s", row.Have, row.PriceText))
		b.WriteString(fmt.Sprintf("%s%s  %s  %s\n", prefix, padRight(row.Label, labelWidth), qty, meta))
	}
	b.WriteString("\n" + valueStyle.Render(vm.EstimateText))
	b.WriteString("\n" + dimStyle.Render("type a quantity, f fills all, s sells the draft"))
	return m.renderSection("Sell", strings.TrimRight(b.String(), "\n"))
}

func (m Model) renderQuest(vm panel.QuestVM) string {
	var b strings.Builder
	b.WriteString(vm.Objective + "\n\n")
	for _, step := range vm.Steps {
		if step.Done {
			b.WriteString(stepDoneStyle.Render("● "+step.Label) + "\n")
		} else {
			b.WriteString(stepPendingStyle.Render("○ "+step.Label) + "\n")
		}
	}
	b.WriteString("\n")
	if vm.WaypointOn {
		b.WriteString(stepDoneStyle.Render(vm.WaypointText))
	} else {
		b.WriteString(dimStyle.Render(vm.WaypointText))
	}
	return m.renderSection("Quest", b.String())
}

func (m Model) renderInventory(vm panel.InventoryVM) string {
	var b strings.Builder
	if len(vm.Rows) == 0 {
		b.WriteString(dimStyle.Render("Empty pockets.") + "\n")
	}
	labelWidth := 0
	for _, row := range vm.Rows {
		if len(row.Label) > labelWidth {
			labelWidth = len(row.Label)
		}
	}
	for _, row := range vm.Rows {
		b.WriteString(fmt.Sprintf("  %s  %s\n",
			padRight(row.Label, labelWidth), valueStyle.Render(fmt.Sprintf("%d", row.Qty))))
	}
	b.WriteString("\n" + labelStyle.Render(vm.LoopsText))
	b.WriteString("\n" + labelStyle.Render(vm.EarnedText))
	return m.renderSection("Inventory", b.String())
}

// ---------------------------------------------------------------------------
// Overlays
// ---------------------------------------------------------------------------

func (m Model) renderReceipt(vm panel.ReceiptVM) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Sale Receipt") + "\n\n")
	for _, line := range vm.Lines {
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + valueStyle.Render(vm.TotalText))
	b.WriteString("\n\n" + dimStyle.Render("enter to dismiss"))
	return modalStyle.Render(b.String())
}

func (m Model) renderProgress(vm panel.ProgressVM) string {
	content := vm.Label + "\n" + renderBar(vm.Pct, 28) + " " + panel.Percent(vm.Pct)
	return modalStyle.Render(content)
}

// ---------------------------------------------------------------------------
// Layout helpers
// ---------------------------------------------------------------------------

func (m Model) frameWidth() int {
	if m.width > 0 {
		return m.width
	}
	return 80
}

func (m Model) frameHeight() int {
	if m.height > 0 {
		return m.height
	}
	return 24
}

func (m Model) sectionWidth() int {
	if m.width == 0 {
		return 76
	}
	width := m.width - 4
	if width < 20 {
		width = m.width
	}
	return width
}

func (m Model) contentWidth() int {
	frameH := sectionStyle.GetHorizontalFrameSize()
	w := m.sectionWidth() - frameH
	if w < 20 {
		w = 20
	}
	return w
}
