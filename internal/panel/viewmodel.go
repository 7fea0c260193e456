package panel

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/sunnyfarm/tablet/internal/protocol"
)

// View models are immutable, render-ready derivations of the latest snapshot
// plus the draft store. The renderer consumes these and nothing else, so two
// builds from the same inputs always produce the same frame.

const (
	// Shown when the host omits objective text.
	DefaultObjective = "Open your tablet near a farm zone."
	// Shown for a toast with no text.
	DefaultToastText = "Farm update"
	// Shown for a progress overlay with no label.
	DefaultProgressLabel = "Working..."
)

type VM struct {
	HasState  bool
	Header    HeaderVM
	Quest     QuestVM
	Inventory InventoryVM
	Collect   CollectVM
	Recipes   RecipesVM
	Sell      SellVM
}

type HeaderVM struct {
	LevelText  string
	XPText     string
	LevelPct   float64
	BonusText  string
	DailyText  string
	ResetText  string
	WalletText string
}

type QuestVM struct {
	Objective    string
	Steps        []QuestStepVM
	WaypointOn   bool
	WaypointText string
}

type QuestStepVM struct {
	Label string
	Done  bool
}

type ItemRowVM struct {
	ID    string
	Label string
	Qty   int
}

type InventoryVM struct {
	Rows       []ItemRowVM
	LoopsText  string
	EarnedText string
}

type CropVM struct {
	ID    string
	Label string
}

type CollectVM struct {
	Crops []CropVM
}

type RecipeVM struct {
	Key        string
	Label      string
	InputText  string
	OutputText string
}

type RecipesVM struct {
	Rows []RecipeVM
}

type SellRowVM struct {
	ID        string
	Label     string
	Have      int
	PriceText string
	Qty       int
}

type SellVM struct {
	Rows         []SellRowVM
	EstimateText string
}

// Build derives every surface from the snapshot and drafts. Currency values
// render with symbol. A nil state yields HasState=false and zero-valued
// surfaces; the renderer shows a waiting placeholder instead.
func Build(s *protocol.State, drafts *DraftStore, symbol string) VM {
	if s == nil {
		return VM{}
	}
	return VM{
		HasState:  true,
		Header:    buildHeader(s, symbol),
		Quest:     buildQuest(s),
		Inventory: buildInventory(s, symbol),
		Collect:   buildCollect(s),
		Recipes:   buildRecipes(s),
		Sell:      buildSell(s, drafts, symbol),
	}
}

func buildHeader(s *protocol.State, symbol string) HeaderVM {
	level := s.Level
	if level < 1 {
		level = 1
	}
	xp := s.XP
	if xp < 0 {
		xp = 0
	}
	reset := s.Daily.LastResetDate
	if reset == "" {
		reset = "-"
	}
	return HeaderVM{
		LevelText:  fmt.Sprintf("Level %d", level),
		XPText:     fmt.Sprintf("%d XP", xp),
		LevelPct:   ClampPct(s.LevelProgressPct),
		BonusText:  fmt.Sprintf("Payout bonus: +%s%%", trimFloat(nonNegative(s.LevelBonusPct))),
		DailyText:  fmt.Sprintf("%d / %d", maxInt(s.Daily.Actions, 0), maxInt(s.Daily.MaxActions, 0)),
		ResetText:  fmt.Sprintf("Reset date: %s", reset),
		WalletText: Cash(symbol, s.Wallet),
	}
}

func buildQuest(s *protocol.State) QuestVM {
	objective := s.Objective.Text
	if objective == "" {
		objective = DefaultObjective
	}
	steps := make([]QuestStepVM, 0, len(s.QuestSteps))
	for _, step := range s.QuestSteps {
		label := step.Label
		if label == "" {
			label = step.Key
		}
		steps = append(steps, QuestStepVM{Label: label, Done: step.Done})
	}
	on := s.Preferences.Waypoint
	text := "Waypoint: OFF"
	if on {
		text = "Waypoint: ON"
	}
	return QuestVM{Objective: objective, Steps: steps, WaypointOn: on, WaypointText: text}
}

func buildInventory(s *protocol.State, symbol string) InventoryVM {
	rows := make([]ItemRowVM, 0, len(s.ItemOrder))
	for _, id := range s.ItemOrder {
		rows = append(rows, ItemRowVM{ID: id, Label: s.Label(id), Qty: s.Qty(id)})
	}
	return InventoryVM{
		Rows:       rows,
		LoopsText:  fmt.Sprintf("Loops complete: %d", maxInt(s.Stats.LoopsCompleted, 0)),
		EarnedText: fmt.Sprintf("Total earned: %s", Cash(symbol, s.Stats.TotalEarned)),
	}
}

func buildCollect(s *protocol.State) CollectVM {
	crops := make([]CropVM, 0, len(s.Crops))
	for id, crop := range s.Crops {
		label := crop.Label
		if label == "" {
			label = id
		}
		crops = append(crops, CropVM{ID: id, Label: label})
	}
	sort.Slice(crops, func(i, j int) bool {
		if crops[i].Label != crops[j].Label {
			return crops[i].Label < crops[j].Label
		}
		return crops[i].ID < crops[j].ID
	})
	return CollectVM{Crops: crops}
}

func buildRecipes(s *protocol.State) RecipesVM {
	rows := make([]RecipeVM, 0, len(s.Recipes))
	for id, r := range s.Recipes {
		key := r.Key
		if key == "" {
			key = id
		}
		label := r.Label
		if label == "" {
			label = key
		}
		rows = append(rows, RecipeVM{
			Key:        key,
			Label:      label,
			InputText:  fmt.Sprintf("Input: %s", ItemList(r.Inputs, s.ItemLabels)),
			OutputText: fmt.Sprintf("Output: %s | +%d XP", ItemList(r.Outputs, s.ItemLabels), maxInt(r.XP, 0)),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Label != rows[j].Label {
			return rows[i].Label < rows[j].Label
		}
		return rows[i].Key < rows[j].Key
	})
	return RecipesVM{Rows: rows}
}

// buildSell derives quantities at build time, not edit time, so a shrinking
// inventory between syncs is reflected without a new edit. ItemOrder is the
// single source of display-membership truth: items absent from it are not
// rendered even when priced.
func buildSell(s *protocol.State, drafts *DraftStore, symbol string) SellVM {
	rows := make([]SellRowVM, 0, len(s.ItemOrder))
	estimate := 0.0
	for _, id := range s.ItemOrder {
		have := s.Qty(id)
		qty := 0
		if drafts != nil {
			qty = drafts.Qty(id, s.Inventory)
		}
		estimate += float64(qty) * s.Price(id)
		rows = append(rows, SellRowVM{
			ID:        id,
			Label:     s.Label(id),
			Have:      have,
			PriceText: Cash(symbol, s.Price(id)),
			Qty:       qty,
		})
	}
	return SellVM{Rows: rows, EstimateText: fmt.Sprintf("Estimated payout: %s", Cash(symbol, estimate))}
}

// ReceiptVM is the rendered form of a host receipt event.
type ReceiptVM struct {
	Lines     []string
	TotalText string
}

func BuildReceipt(r protocol.Receipt, symbol string) ReceiptVM {
	lines := make([]string, 0, len(r.Items))
	for _, line := range r.Items {
		lines = append(lines, fmt.Sprintf("%s x%d = %s", line.Label, line.Quantity, Cash(symbol, line.LineTotal)))
	}
	paidTo := "cash"
	if r.PaidToWallet {
		paidTo = "farm wallet"
	}
	total := fmt.Sprintf("Total %s (bonus +%s%%) paid to %s.",
		Cash(symbol, r.TotalPayout), trimFloat(nonNegative(r.BonusPct)), paidTo)
	return ReceiptVM{Lines: lines, TotalText: total}
}

// ProgressVM is the rendered form of a progress directive.
type ProgressVM struct {
	Label string
	Pct   float64
}

func BuildProgress(label string, percent float64) ProgressVM {
	if label == "" {
		label = DefaultProgressLabel
	}
	return ProgressVM{Label: label, Pct: ClampPct(percent)}
}

// ToastVM is the rendered form of a toast event.
type ToastVM struct {
	Type string
	Text string
}

func BuildToast(t protocol.Toast) ToastVM {
	kind := t.Type
	if kind == "" {
		kind = "success"
	}
	text := t.Text
	if text == "" {
		text = DefaultToastText
	}
	return ToastVM{Type: kind, Text: text}
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func nonNegative(v float64) float64 {
	if v != v || v < 0 {
		return 0
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
