package panel

import (
	"reflect"
	"testing"

	"github.com/sunnyfarm/tablet/internal/protocol"
)

func sampleState() *protocol.State {
	return &protocol.State{
		Level:            3,
		XP:               120,
		LevelProgressPct: 42.5,
		LevelBonusPct:    5,
		Daily:            protocol.Daily{Actions: 4, MaxActions: 20, LastResetDate: "2026-08-31"},
		Wallet:           1250,
		Objective:        protocol.Objective{Text: "Deliver flour to the mill."},
		QuestSteps: []protocol.QuestStep{
			{Key: "collect", Label: "Collect wheat", Done: true},
			{Key: "mill", Label: "Mill flour", Done: false},
		},
		Preferences: protocol.Preferences{Waypoint: true},
		Inventory:   map[string]int{"wheat": 5, "flour": 2, "secret": 9},
		ItemOrder:   []string{"wheat", "flour"},
		ItemLabels:  map[string]string{"wheat": "Wheat", "flour": "Flour"},
		Crops:       map[string]protocol.Crop{"wheat": {Label: "Wheat"}, "corn": {Label: "Corn"}},
		Recipes: map[string]protocol.Recipe{
			"mill_flour": {Key: "mill_flour", Label: "Mill Flour", Inputs: map[string]int{"wheat": 2}, Outputs: map[string]int{"flour": 1}, XP: 5},
		},
		SellPrices: map[string]float64{"wheat": 10, "flour": 25, "secret": 999},
		Stats:      protocol.Stats{LoopsCompleted: 7, TotalEarned: 900},
	}
}

func TestBuildNilState(t *testing.T) {
	vm := Build(nil, NewDraftStore(), "$")
	if vm.HasState {
		t.Fatal("nil state should yield HasState=false")
	}
}

func TestBuildHeader(t *testing.T) {
	vm := Build(sampleState(), NewDraftStore(), "$")
	h := vm.Header
	if h.LevelText != "Level 3" || h.XPText != "120 XP" {
		t.Fatalf("header=%+v", h)
	}
	if h.LevelPct != 42.5 {
		t.Fatalf("LevelPct=%v", h.LevelPct)
	}
	if h.BonusText != "Payout bonus: +5%" {
		t.Fatalf("BonusText=%q", h.BonusText)
	}
	if h.DailyText != "4 / 20" || h.ResetText != "Reset date: 2026-08-31" {
		t.Fatalf("daily=%q reset=%q", h.DailyText, h.ResetText)
	}
	if h.WalletText != "$1,250" {
		t.Fatalf("WalletText=%q", h.WalletText)
	}
}

func TestBuildHeaderDefaults(t *testing.T) {
	s := &protocol.State{}
	h := Build(s, NewDraftStore(), "$").Header
	if h.LevelText != "Level 1" {
		t.Fatalf("zero level should display as 1, got %q", h.LevelText)
	}
	if h.ResetText != "Reset date: -" {
		t.Fatalf("ResetText=%q", h.ResetText)
	}
	if h.WalletText != "$0" {
		t.Fatalf("WalletText=%q", h.WalletText)
	}
}

func TestBuildHeaderClampsOutOfRangeBar(t *testing.T) {
	s := sampleState()
	s.LevelProgressPct = 150
	if got := Build(s, NewDraftStore(), "$").Header.LevelPct; got != 100 {
		t.Fatalf("LevelPct=%v, want 100", got)
	}
	s.LevelProgressPct = -10
	if got := Build(s, NewDraftStore(), "$").Header.LevelPct; got != 0 {
		t.Fatalf("LevelPct=%v, want 0", got)
	}
}

func TestBuildQuest(t *testing.T) {
	vm := Build(sampleState(), NewDraftStore(), "$").Quest
	if vm.Objective != "Deliver flour to the mill." {
		t.Fatalf("objective=%q", vm.Objective)
	}
	want := []QuestStepVM{{Label: "Collect wheat", Done: true}, {Label: "Mill flour", Done: false}}
	if !reflect.DeepEqual(vm.Steps, want) {
		t.Fatalf("steps=%+v", vm.Steps)
	}
	if !vm.WaypointOn || vm.WaypointText != "Waypoint: ON" {
		t.Fatalf("waypoint=%+v", vm)
	}
}

func TestBuildQuestDefaults(t *testing.T) {
	s := &protocol.State{QuestSteps: []protocol.QuestStep{{Key: "step_key"}}}
	vm := Build(s, NewDraftStore(), "$").Quest
	if vm.Objective != DefaultObjective {
		t.Fatalf("objective=%q, want placeholder", vm.Objective)
	}
	if vm.Steps[0].Label != "step_key" {
		t.Fatalf("missing label should fall back to key, got %q", vm.Steps[0].Label)
	}
	if vm.WaypointText != "Waypoint: OFF" {
		t.Fatalf("waypoint=%q", vm.WaypointText)
	}
}

func TestItemOrderIsDisplayMembershipTruth(t *testing.T) {
	// "secret" is in inventory and priced but absent from itemOrder, so it
	// must not appear in the inventory or sell surfaces.
	vm := Build(sampleState(), NewDraftStore(), "$")
	for _, row := range vm.Inventory.Rows {
		if row.ID == "secret" {
			t.Fatal("inventory rendered an item outside itemOrder")
		}
	}
	for _, row := range vm.Sell.Rows {
		if row.ID == "secret" {
			t.Fatal("sell rendered an item outside itemOrder")
		}
	}
	if len(vm.Sell.Rows) != 2 || vm.Sell.Rows[0].ID != "wheat" || vm.Sell.Rows[1].ID != "flour" {
		t.Fatalf("sell rows should follow itemOrder, got %+v", vm.Sell.Rows)
	}
}

func TestSellQtyDerivedAtBuildTime(t *testing.T) {
	s := sampleState()
	d := NewDraftStore()
	d.Set("wheat", 8, map[string]int{"wheat": 10}) // drafted against a larger inventory

	// s.Inventory holds 5 wheat now: displayed quantity follows the shrink
	// without a new edit.
	vm := Build(s, d, "$")
	if got := vm.Sell.Rows[0].Qty; got != 5 {
		t.Fatalf("sell qty=%d, want 5", got)
	}
}

func TestFillAllShowsFullInventory(t *testing.T) {
	s := sampleState()
	d := NewDraftStore()
	d.FillAll(s.ItemOrder, s.Inventory)

	vm := Build(s, d, "$")
	for _, row := range vm.Sell.Rows {
		if row.Qty != s.Inventory[row.ID] {
			t.Fatalf("row %s qty=%d, want %d", row.ID, row.Qty, s.Inventory[row.ID])
		}
	}
	if vm.Sell.EstimateText != "Estimated payout: $100" {
		t.Fatalf("estimate=%q", vm.Sell.EstimateText)
	}
}

func TestBuildRecipes(t *testing.T) {
	vm := Build(sampleState(), NewDraftStore(), "$").Recipes
	if len(vm.Rows) != 1 {
		t.Fatalf("rows=%+v", vm.Rows)
	}
	r := vm.Rows[0]
	if r.Key != "mill_flour" || r.Label != "Mill Flour" {
		t.Fatalf("recipe=%+v", r)
	}
	if r.InputText != "Input: 2x Wheat" {
		t.Fatalf("InputText=%q", r.InputText)
	}
	if r.OutputText != "Output: 1x Flour | +5 XP" {
		t.Fatalf("OutputText=%q", r.OutputText)
	}
}

func TestBuildCollectSorted(t *testing.T) {
	vm := Build(sampleState(), NewDraftStore(), "$").Collect
	if len(vm.Crops) != 2 || vm.Crops[0].Label != "Corn" || vm.Crops[1].Label != "Wheat" {
		t.Fatalf("crops=%+v", vm.Crops)
	}
}

func TestSyncLeavesNoFieldOfPreviousSnapshot(t *testing.T) {
	s1 := sampleState()
	s2 := &protocol.State{
		Level:     9,
		Inventory: map[string]int{"corn": 1},
		ItemOrder: []string{"corn"},
	}

	d := NewDraftStore()
	_ = Build(s1, d, "$")
	vm := Build(s2, d, "$") // wholesale replacement: only s2 is visible

	if vm.Header.LevelText != "Level 9" {
		t.Fatalf("LevelText=%q", vm.Header.LevelText)
	}
	if vm.Header.WalletText != "$0" {
		t.Fatalf("wallet leaked from s1: %q", vm.Header.WalletText)
	}
	if vm.Quest.Objective != DefaultObjective {
		t.Fatalf("objective leaked from s1: %q", vm.Quest.Objective)
	}
	if len(vm.Quest.Steps) != 0 {
		t.Fatalf("quest steps leaked from s1: %+v", vm.Quest.Steps)
	}
	for _, row := range vm.Sell.Rows {
		if row.ID == "wheat" || row.ID == "flour" {
			t.Fatalf("item %s leaked from s1", row.ID)
		}
	}
	if len(vm.Recipes.Rows) != 0 || len(vm.Collect.Crops) != 0 {
		t.Fatal("catalogs leaked from s1")
	}
}

func TestBuildReceipt(t *testing.T) {
	vm := BuildReceipt(protocol.Receipt{
		Items:        []protocol.ReceiptLine{{Label: "Wheat", Quantity: 5, LineTotal: 50}},
		TotalPayout:  50,
		BonusPct:     10,
		PaidToWallet: true,
	}, "$")
	if len(vm.Lines) != 1 || vm.Lines[0] != "Wheat x5 = $50" {
		t.Fatalf("lines=%+v", vm.Lines)
	}
	if vm.TotalText != "Total $50 (bonus +10%) paid to farm wallet." {
		t.Fatalf("TotalText=%q", vm.TotalText)
	}
}

func TestBuildReceiptPaidToCash(t *testing.T) {
	vm := BuildReceipt(protocol.Receipt{TotalPayout: 25}, "$")
	if vm.TotalText != "Total $25 (bonus +0%) paid to cash." {
		t.Fatalf("TotalText=%q", vm.TotalText)
	}
}

func TestBuildUsesConfiguredSymbol(t *testing.T) {
	vm := Build(sampleState(), NewDraftStore(), "€")
	if vm.Header.WalletText != "€1,250" {
		t.Fatalf("WalletText=%q", vm.Header.WalletText)
	}
	if vm.Sell.Rows[0].PriceText != "€10" {
		t.Fatalf("PriceText=%q", vm.Sell.Rows[0].PriceText)
	}
	if vm.Inventory.EarnedText != "Total earned: €900" {
		t.Fatalf("EarnedText=%q", vm.Inventory.EarnedText)
	}

	r := BuildReceipt(protocol.Receipt{TotalPayout: 50, PaidToWallet: true}, "€")
	if r.TotalText != "Total €50 (bonus +0%) paid to farm wallet." {
		t.Fatalf("TotalText=%q", r.TotalText)
	}
}

func TestBuildProgressDefaults(t *testing.T) {
	vm := BuildProgress("", 150)
	if vm.Label != DefaultProgressLabel {
		t.Fatalf("label=%q", vm.Label)
	}
	if vm.Pct != 100 {
		t.Fatalf("pct=%v, want 100", vm.Pct)
	}
}

func TestBuildToastDefaults(t *testing.T) {
	vm := BuildToast(protocol.Toast{})
	if vm.Type != "success" || vm.Text != DefaultToastText {
		t.Fatalf("toast=%+v", vm)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	s := sampleState()
	d := NewDraftStore()
	d.Set("wheat", 3, s.Inventory)
	a := Build(s, d, "$")
	b := Build(s, d, "$")
	if !reflect.DeepEqual(a, b) {
		t.Fatal("two builds from identical inputs differ")
	}
}
