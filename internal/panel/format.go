package panel

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
)

// Display formatting for raw host values. Pure functions; the host is free to
// send garbage and these coerce rather than error.

// Cash renders a wallet amount with thousands grouping, prefixed with the
// configured currency symbol (empty falls back to "$"). Negative and
// non-numeric inputs coerce to 0 so the panel never shows NaN or negative cash.
func Cash(symbol string, v float64) string {
	if symbol == "" {
		symbol = "$"
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		v = 0
	}
	if v == math.Trunc(v) {
		return symbol + humanize.Comma(int64(v))
	}
	return symbol + humanize.CommafWithDigits(v, 2)
}

// ClampPct clamps a percentage to [0,100]. NaN coerces to 0.
func ClampPct(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Percent renders a clamped percentage without decimals.
func Percent(v float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(ClampPct(v))))
}

// ItemList renders a quantity map as "2x Wheat, 1x Flour", labels falling back
// to the item id. Output order is deterministic: by label, then id.
func ItemList(m map[string]int, labels map[string]string) string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		li, lj := labelFor(ids[i], labels), labelFor(ids[j], labels)
		if li != lj {
			return li < lj
		}
		return ids[i] < ids[j]
	})
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%dx %s", m[id], labelFor(id, labels)))
	}
	return strings.Join(parts, ", ")
}

func labelFor(id string, labels map[string]string) string {
	if l, ok := labels[id]; ok && l != "" {
		return l
	}
	return id
}
