package session

import "github.com/verte-zerg/aimdrill/internal/model"

// Aggregate sums per-round metrics across a round cycle.
type Aggregate struct {
	Rounds int
	sum    model.Metrics
}

// Add folds one round into the sums.
func (a *Aggregate) Add(m model.Metrics) {
	a.Rounds++
	a.sum.OverallAccuracy += m.OverallAccuracy
	a.sum.Wave1Accuracy += m.Wave1Accuracy
	a.sum.Wave2Accuracy += m.Wave2Accuracy
	a.sum.Wave1AvgTimePerTarget += m.Wave1AvgTimePerTarget
	a.sum.HitsPerMinute += m.HitsPerMinute
	a.sum.Wave2AvgRecoilRadius += m.Wave2AvgRecoilRadius
	a.sum.Wave2Tightness += m.Wave2Tightness
	a.sum.FlickScore += m.FlickScore
	a.sum.RecoilScore += m.RecoilScore
	a.sum.FinalScore += m.FinalScore
	a.sum.AvgReloadTime += m.AvgReloadTime
}

// Reset clears the cycle.
func (a *Aggregate) Reset() {
	*a = Aggregate{}
}

// Average returns the per-round mean of every metric, or zeros before any round.
func (a Aggregate) Average() model.Metrics {
	if a.Rounds == 0 {
		return model.Metrics{}
	}
	n := float64(a.Rounds)
	return model.Metrics{
		OverallAccuracy:       a.sum.OverallAccuracy / n,
		Wave1Accuracy:         a.sum.Wave1Accuracy / n,
		Wave2Accuracy:         a.sum.Wave2Accuracy / n,
		Wave1AvgTimePerTarget: a.sum.Wave1AvgTimePerTarget / n,
		HitsPerMinute:         a.sum.HitsPerMinute / n,
		Wave2AvgRecoilRadius:  a.sum.Wave2AvgRecoilRadius / n,
		Wave2Tightness:        a.sum.Wave2Tightness / n,
		FlickScore:            a.sum.FlickScore / n,
		RecoilScore:           a.sum.RecoilScore / n,
		FinalScore:            a.sum.FinalScore / n,
		AvgReloadTime:         a.sum.AvgReloadTime / n,
	}
}
