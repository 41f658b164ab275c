package stats

import "github.com/verte-zerg/aimdrill/internal/model"

// Phase names a drill phase for focus suggestions.
type Phase string

const (
	PhaseFlick  Phase = "flick"
	PhaseRecoil Phase = "recoil"
)

// WeakestPhase compares the mean flick and recoil sub-scores over the last window
// sessions and returns the lower one with its mean. ok is false without data.
func WeakestPhase(records []model.SessionRecord, window int) (phase Phase, score float64, ok bool) {
	if len(records) == 0 {
		return "", 0, false
	}
	if window > 0 && len(records) > window {
		records = records[len(records)-window:]
	}
	var flick, recoil float64
	for _, rec := range records {
		flick += rec.Row.Metrics.FlickScore
		recoil += rec.Row.Metrics.RecoilScore
	}
	n := float64(len(records))
	flick /= n
	recoil /= n
	if recoil < flick {
		return PhaseRecoil, recoil, true
	}
	return PhaseFlick, flick, true
}
