package protocol

// OPEN (host -> panel): show the panel. Tab is optional; when empty the
// panel keeps its last-active tab.
type OpenMsg struct {
	Action string `json:"action"`
	Title  string `json:"title,omitempty"`
	Tab    string `json:"tab,omitempty"`
}

// SYNC (host -> panel): wholesale replacement of the authoritative snapshot.
// A nil state clears the panel back to the absent/pre-sync condition.
type SyncMsg struct {
	Action string `json:"action"`
	State  *State `json:"state"`
}

// TOAST (host -> panel): transient notification, never blocks input.
type ToastMsg struct {
	Action string `json:"action"`
	Toast  Toast  `json:"toast"`
}

type Toast struct {
	Type string `json:"type,omitempty"`
	Text string `json:"text,omitempty"`
}

// RECEIPT (host -> panel): line-itemized payout shown as a modal.
type ReceiptMsg struct {
	Action  string  `json:"action"`
	Receipt Receipt `json:"receipt"`
}

type Receipt struct {
	Items        []ReceiptLine `json:"items"`
	TotalPayout  float64       `json:"totalPayout"`
	BonusPct     float64       `json:"bonusPct"`
	PaidToWallet bool          `json:"paidToWallet"`
}

type ReceiptLine struct {
	Label     string  `json:"label"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"lineTotal"`
}

// LEVELUP (host -> panel): transient emphasis only. The authoritative level
// arrives on a subsequent SYNC.
type LevelUpMsg struct {
	Action string      `json:"action"`
	Data   LevelUpData `json:"data"`
}

type LevelUpData struct {
	Level int `json:"level"`
}

// PROGRESS (host -> panel): blocking indicator toggled by explicit host
// directive. Label and Percent are ignored when Show is false.
type ProgressMsg struct {
	Action  string  `json:"action"`
	Show    bool    `json:"show"`
	Label   string  `json:"label,omitempty"`
	Percent float64 `json:"percent,omitempty"`
}

// State is the authoritative snapshot pushed by the host. The panel never
// mutates it and never merges it field-by-field with a previous snapshot.
type State struct {
	Level            int     `json:"level"`
	XP               int     `json:"xp"`
	LevelProgressPct float64 `json:"levelProgressPct"`
	LevelBonusPct    float64 `json:"levelBonusPct"`

	Daily       Daily       `json:"daily"`
	Wallet      float64     `json:"wallet"`
	Objective   Objective   `json:"objective"`
	QuestSteps  []QuestStep `json:"questSteps"`
	Preferences Preferences `json:"preferences"`

	Inventory  map[string]int     `json:"inventory"`
	ItemOrder  []string           `json:"itemOrder"`
	ItemLabels map[string]string  `json:"itemLabels"`
	Crops      map[string]Crop    `json:"crops"`
	Recipes    map[string]Recipe  `json:"recipes"`
	SellPrices map[string]float64 `json:"sellPrices"`

	Stats Stats `json:"stats"`
}

type Daily struct {
	Actions       int    `json:"actions"`
	MaxActions    int    `json:"maxActions"`
	LastResetDate string `json:"lastResetDate"`
}

type Objective struct {
	Text string `json:"text"`
}

type QuestStep struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Done  bool   `json:"done"`
}

type Preferences struct {
	Waypoint bool `json:"waypoint"`
}

type Crop struct {
	Label string `json:"label"`
}

type Recipe struct {
	Key     string         `json:"key"`
	Label   string         `json:"label"`
	Inputs  map[string]int `json:"inputs"`
	Outputs map[string]int `json:"outputs"`
	XP      int            `json:"xp"`
}

type Stats struct {
	LoopsCompleted int     `json:"loopsCompleted"`
	TotalEarned    float64 `json:"totalEarned"`
}

// Qty returns the inventory count for an item, defaulting absent ids to 0.
func (s *State) Qty(item string) int {
	if s == nil {
		return 0
	}
	return s.Inventory[item]
}

// Label returns the display label for an item id, falling back to the id.
func (s *State) Label(item string) string {
	if s == nil {
		return item
	}
	if l, ok := s.ItemLabels[item]; ok && l != "" {
		return l
	}
	return item
}

// Price returns the unit sell price for an item, defaulting to 0.
func (s *State) Price(item string) float64 {
	if s == nil {
		return 0
	}
	return s.SellPrices[item]
}
