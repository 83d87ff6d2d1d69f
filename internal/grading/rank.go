package grading

import (
	"fmt"
	"sort"
)

// Standing is a 1-based position among Total completed submissions.
type Standing struct {
	Position int `json:"position"`
	Total    int `json:"total"`
}

func (s Standing) String() string { return fmt.Sprintf("%d/%d", s.Position, s.Total) }

// FirstStanding is reported when there is no history to compare against,
// including preview runs that are never persisted.
var FirstStanding = Standing{Position: 1, Total: 1}

// Rank locates score among completed, which must already contain the new
// submission. Scores are ordered descending and equal scores share the
// position of the first of them. A score missing from a non-empty set is
// placed where it would be inserted, counting itself in the total.
func Rank(completed []float64, score float64) Standing {
	if len(completed) == 0 {
		return FirstStanding
	}
	sorted := append([]float64(nil), completed...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i] > sorted[j] })

	for i, v := range sorted {
		if v == score {
			return Standing{Position: i + 1, Total: len(sorted)}
		}
	}
	above := 0
	for _, v := range sorted {
		if v > score {
			above++
		}
	}
	return Standing{Position: above + 1, Total: len(sorted) + 1}
}
