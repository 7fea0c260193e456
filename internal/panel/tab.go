package panel

// Tab identifies one surface of the tablet. Exactly one is active at a time.
type Tab int

const (
	TabCollect Tab = iota
	TabProcess
	TabSell
	TabQuest
	TabInventory
	TabCount
)

var tabKeys = [TabCount]string{"collect", "process", "sell", "quest", "inventory"}
var tabTitles = [TabCount]string{"Collect", "Process", "Sell", "Quest", "Inventory"}

// Key is the wire name the host uses in open{tab}.
func (t Tab) Key() string {
	if t < 0 || t >= TabCount {
		return tabKeys[TabCollect]
	}
	return tabKeys[t]
}

// Title is the tab-bar label.
func (t Tab) Title() string {
	if t < 0 || t >= TabCount {
		return tabTitles[TabCollect]
	}
	return tabTitles[t]
}

// Next cycles forward, wrapping.
func (t Tab) Next() Tab { return (t + 1) % TabCount }

// Prev cycles backward, wrapping.
func (t Tab) Prev() Tab { return (t - 1 + TabCount) % TabCount }

// TabFromKey resolves a host tab name. Unknown names report ok=false so the
// dispatcher can retain the current tab.
func TabFromKey(key string) (Tab, bool) {
	for i, k := range tabKeys {
		if k == key {
			return Tab(i), true
		}
	}
	return TabCollect, false
}
