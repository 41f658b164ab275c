package session

import (
	"fmt"
	"math"
	"strings"

	"github.com/verte-zerg/aimdrill/internal/model"
	"github.com/verte-zerg/aimdrill/internal/scoring"
)

// RefreshHUD redraws the live stat panels from the counters. It never mutates state.
func (m *Manager) RefreshHUD() {
	c := m.counters
	m.deps.HUD.Display(PanelAccuracy, fmt.Sprintf("Accuracy: %.1f%%", scoring.Accuracy(c.TotalHits, c.TotalShots)))

	switch m.wave {
	case 1:
		m.deps.HUD.Display(PanelFlickStats, flickStatsText(c))
	case 2:
		m.deps.HUD.Display(PanelRecoilStats, recoilStatsText(c))
	}
}

// UpdateAmmoDisplay shows the magazine state, with a reload hint when empty.
func (m *Manager) UpdateAmmoDisplay(current, max int, showReloadHint bool) {
	if max <= 0 {
		m.deps.HUD.Display(PanelAmmo, "Ammo: -")
		return
	}
	text := fmt.Sprintf("Ammo: %d/%d", current, max)
	if showReloadHint && current == 0 {
		text += "  Press R"
	}
	m.deps.HUD.Display(PanelAmmo, text)
}

func (m *Manager) updateTimerUI() {
	m.deps.HUD.Display(PanelTimer, fmt.Sprintf("Time: %ds", int(math.Ceil(m.timeRemaining))))
}

func flickStatsText(c model.Counters) string {
	if c.Wave1Hits > 1 {
		avg := scoring.AvgTimePerTarget(c.SumWave1HitIntervals, c.Wave1Hits)
		return fmt.Sprintf("Hits: %d  Avg: %.2fs", c.Wave1Hits, avg)
	}
	return fmt.Sprintf("Hits: %d", c.Wave1Hits)
}

func recoilStatsText(c model.Counters) string {
	avgR := "-"
	if c.RecoilSamples > 0 {
		avgR = fmt.Sprintf("%.2f", scoring.AvgRecoilRadius(c.SumRecoilError, c.RecoilSamples))
	}
	return fmt.Sprintf("Hits: %d  Miss: %d  In: %d  Out: %d  Tight: %.1f%%  AvgR: %s",
		c.Wave2Hits,
		c.Wave2Misses,
		c.Wave2InsideHits,
		c.Wave2OutsideHits,
		scoring.Tightness(c.Wave2InsideHits, c.RecoilSamples),
		avgR,
	)
}

func (m *Manager) summaryText(metrics model.Metrics) string {
	lines := []string{
		"Player: " + m.playerID,
		fmt.Sprintf("Drill score: %.0f  %s", metrics.FinalScore, metrics.Rank),
		fmt.Sprintf("Accuracy: %.1f%%", metrics.OverallAccuracy),
		fmt.Sprintf("Reloads: %d  Avg reload: %.2fs", m.counters.ReloadCount, metrics.AvgReloadTime),
	}
	if m.settings.MaxRounds > 1 {
		avg := m.aggregate.Average()
		lines = append(lines,
			fmt.Sprintf("Round %d/%d", m.round, m.settings.MaxRounds),
			fmt.Sprintf("Round avg: %.0f  %s over %d", avg.FinalScore, scoring.Rank(avg.FinalScore), m.aggregate.Rounds),
		)
		if m.round >= m.settings.MaxRounds {
			lines = append(lines, "Cycle complete. Next start begins round 1.")
		}
	}
	return strings.Join(lines, "\n")
}
