package schedule

import "sort"

// Period is a planning period. Base periods come from the site calendar;
// movement periods are derived from them via MovementPeriods.
type Period struct {
	Number  int    `json:"number"`
	Name    string `json:"name"`
	Cleanup bool   `json:"cleanup,omitempty"`
}

// SortPeriods orders periods ascending by number. Callers resolve cross-site
// ties before planning; within one site numbers are unique.
func SortPeriods(periods []Period) {
	sort.SliceStable(periods, func(i, j int) bool {
		return periods[i].Number < periods[j].Number
	})
}

// MovementPeriods derives the planning timeline from the base periods: one
// "Before X" period per base period X, carrying X's demands, plus a terminal
// synthetic "Cleanup" period (number max+1) in which the final sweep back to
// storage happens. An empty calendar yields an empty timeline.
func MovementPeriods(base []Period) []Period {
	if len(base) == 0 {
		return nil
	}

	out := make([]Period, 0, len(base)+1)
	max := base[0].Number
	for _, p := range base {
		if p.Number > max {
			max = p.Number
		}
		out = append(out, Period{Number: p.Number, Name: "Before " + p.Name})
	}
	out = append(out, Period{Number: max + 1, Name: "Cleanup", Cleanup: true})

	return out
}
