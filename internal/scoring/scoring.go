// Package scoring converts raw drill counters into accuracy, timing and tightness
// metrics, blended sub-scores and a letter rank.
//
// Every ratio guards its denominator and returns 0 instead of dividing by zero.
package scoring

import (
	"math"

	"github.com/verte-zerg/aimdrill/internal/geom"
	"github.com/verte-zerg/aimdrill/internal/model"
)

const (
	// DefaultInsideRadius is used when a recoil sample arrives without a positive radius.
	DefaultInsideRadius = 0.15
	// TimeScoreCap is the average seconds per flick target that scores zero time points.
	TimeScoreCap = 1.2

	accuracyWeight  = 0.6
	secondaryWeight = 0.4
	minElapsed      = 0.01
)

// Accuracy returns hits/shots as a percentage.
func Accuracy(hits, shots int) float64 {
	if hits <= 0 || shots <= 0 {
		return 0
	}
	return 100 * float64(hits) / float64(shots)
}

// HitsPerMinute scales total hits to a per-minute rate over the elapsed seconds.
func HitsPerMinute(hits int, elapsed float64) float64 {
	if hits <= 0 {
		return 0
	}
	return 60 * float64(hits) / math.Max(elapsed, minElapsed)
}

// AvgTimePerTarget averages the intervals between consecutive flick hits.
// The first hit has no predecessor, so at least two hits are needed.
func AvgTimePerTarget(sumIntervals float64, hits int) float64 {
	if hits <= 1 {
		return 0
	}
	return sumIntervals / float64(hits-1)
}

// AvgRecoilRadius returns the mean distance of recoil samples from target center.
func AvgRecoilRadius(sumError float64, samples int) float64 {
	if samples <= 0 {
		return 0
	}
	return sumError / float64(samples)
}

// Tightness returns the share of recoil samples inside the radius as a percentage.
func Tightness(inside, samples int) float64 {
	if samples <= 0 {
		return 0
	}
	return 100 * float64(inside) / float64(samples)
}

// AvgReloadTime returns the mean reload duration in seconds.
func AvgReloadTime(total float64, count int) float64 {
	if count <= 0 {
		return 0
	}
	return total / float64(count)
}

// FlickScore blends wave 1 accuracy with a time score capped at TimeScoreCap.
// Without a measured interval the time score is 0.
func FlickScore(accuracyWave1, avgTimePerTarget float64) float64 {
	timeScore := 0.0
	if avgTimePerTarget > 0 {
		timeScore = geom.Clamp01(1-avgTimePerTarget/TimeScoreCap) * 100
	}
	return accuracyWeight*accuracyWave1 + secondaryWeight*timeScore
}

// RecoilScore blends wave 2 accuracy with tightness.
func RecoilScore(accuracyWave2, tightness float64) float64 {
	return accuracyWeight*accuracyWave2 + secondaryWeight*tightness
}

// FinalScore averages the two wave scores.
func FinalScore(flick, recoil float64) float64 {
	return 0.5 * (flick + recoil)
}

// Rank maps a 0-100 score to a letter. Lower bounds are inclusive.
func Rank(score float64) string {
	switch {
	case score >= 90:
		return "S"
	case score >= 75:
		return "A"
	case score >= 60:
		return "B"
	case score >= 45:
		return "C"
	default:
		return "D"
	}
}

// Compute derives every metric from the counters and the elapsed session time.
func Compute(c model.Counters, elapsed float64) model.Metrics {
	m := model.Metrics{
		OverallAccuracy:       Accuracy(c.TotalHits, c.TotalShots),
		Wave1Accuracy:         Accuracy(c.Wave1Hits, c.Wave1Shots),
		Wave2Accuracy:         Accuracy(c.Wave2Hits, c.Wave2Shots),
		Wave1AvgTimePerTarget: AvgTimePerTarget(c.SumWave1HitIntervals, c.Wave1Hits),
		HitsPerMinute:         HitsPerMinute(c.TotalHits, elapsed),
		Wave2AvgRecoilRadius:  AvgRecoilRadius(c.SumRecoilError, c.RecoilSamples),
		Wave2Tightness:        Tightness(c.Wave2InsideHits, c.RecoilSamples),
		AvgReloadTime:         AvgReloadTime(c.ReloadTimeSum, c.ReloadCount),
	}
	m.FlickScore = FlickScore(m.Wave1Accuracy, m.Wave1AvgTimePerTarget)
	m.RecoilScore = RecoilScore(m.Wave2Accuracy, m.Wave2Tightness)
	m.FinalScore = FinalScore(m.FlickScore, m.RecoilScore)
	m.Rank = Rank(m.FinalScore)
	return m
}
