package panel

// DraftStore holds the player's in-progress, unsubmitted sell quantities.
// It survives snapshot syncs: inventory can shrink between edits (another
// sell may complete elsewhere), so every read re-clamps against the
// inventory the caller supplies.
type DraftStore struct {
	qty map[string]int
}

func NewDraftStore() *DraftStore {
	return &DraftStore{qty: make(map[string]int)}
}

func clampQty(raw, have int) int {
	if raw < 0 {
		return 0
	}
	if raw > have {
		return have
	}
	return raw
}

// Set stores a clamped draft quantity for one item. Returns the stored value.
// Calling again with the same raw value changes nothing observable.
func (d *DraftStore) Set(item string, raw int, inv map[string]int) int {
	v := clampQty(raw, inv[item])
	d.qty[item] = v
	return v
}

// Qty returns the draft for an item, re-clamped against current inventory.
func (d *DraftStore) Qty(item string, inv map[string]int) int {
	return clampQty(d.qty[item], inv[item])
}

// FillAll bulk-sets every item in order to its full current inventory count,
// overwriting prior drafts.
func (d *DraftStore) FillAll(order []string, inv map[string]int) {
	for _, item := range order {
		d.qty[item] = inv[item]
	}
}

// Reclamp pins every stored draft to the new inventory. Called on sync so
// stale drafts never exceed what the player actually holds.
func (d *DraftStore) Reclamp(inv map[string]int) {
	for item, v := range d.qty {
		d.qty[item] = clampQty(v, inv[item])
	}
}

// Snapshot copies the current drafts for an outbound sell command, re-clamped
// against inventory.
func (d *DraftStore) Snapshot(inv map[string]int) map[string]int {
	out := make(map[string]int, len(d.qty))
	for item, v := range d.qty {
		out[item] = clampQty(v, inv[item])
	}
	return out
}

// Reset drops all drafts. Runs at panel close, and after a sell submit when
// the clear-on-submit policy is enabled.
func (d *DraftStore) Reset() {
	d.qty = make(map[string]int)
}

// Len reports how many items have a draft entry (including zeros).
func (d *DraftStore) Len() int { return len(d.qty) }
