package stats

import (
	"sort"

	"github.com/verte-zerg/aimdrill/internal/model"
)

// BestSessions returns the top n sessions by final score, earliest first on ties.
func BestSessions(records []model.SessionRecord, n int) []model.SessionRecord {
	if n <= 0 || len(records) == 0 {
		return nil
	}
	sorted := make([]model.SessionRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Row.Metrics.FinalScore > sorted[j].Row.Metrics.FinalScore
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}
