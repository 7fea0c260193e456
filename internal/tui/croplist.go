package tui

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/sunnyfarm/tablet/internal/panel"
)

// Near-miss cutoff for the crop filter. Anything further than this from the
// query is not worth suggesting.
const cropFilterMaxDistance = 3

// filterCrops narrows the crop catalog by query. Substring matches keep their
// catalog order and rank first; non-substring labels within a small edit
// distance of the query follow, closest first. An empty query returns the
// catalog unchanged.
func filterCrops(crops []panel.CropVM, query string) []panel.CropVM {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return crops
	}

	var hits []panel.CropVM
	type nearMiss struct {
		crop panel.CropVM
		dist int
	}
	var near []nearMiss

	for _, c := range crops {
		label := strings.ToLower(c.Label)
		if strings.Contains(label, q) {
			hits = append(hits, c)
			continue
		}
		if d := levenshtein.ComputeDistance(q, label); d <= cropFilterMaxDistance {
			near = append(near, nearMiss{crop: c, dist: d})
		}
	}

	sort.SliceStable(near, func(i, j int) bool { return near[i].dist < near[j].dist })
	for _, n := range near {
		hits = append(hits, n.crop)
	}
	return hits
}
