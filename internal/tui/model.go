// Package tui provides the Bubble Tea drill interface.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/verte-zerg/aimdrill/internal/drill"
	"github.com/verte-zerg/aimdrill/internal/session"
)

// holdWindow is how long a key counts as held after its last press or repeat.
const holdWindow = 150 * time.Millisecond

// maxFrame caps a single simulation step after a stall.
const maxFrame = 0.1

type action int

const (
	actLookLeft action = iota
	actLookRight
	actLookUp
	actLookDown
	actForward
	actBack
	actLeft
	actRight
	actFire
)

// Scores reports a player's best recorded score.
type Scores interface {
	BestScore(ctx context.Context, player string) (float64, bool, error)
}

type tickMsg time.Time

// Model implements the Bubble Tea drill UI.
type Model struct {
	drill  *drill.Drill
	scores Scores
	keys   KeyMap
	input  textinput.Model
	log    zerolog.Logger
	fps    int
	now    func() time.Time

	width  int
	height int

	held          map[action]time.Time
	reloadPending bool
	lastTick      time.Time
	prevState     session.State

	best    float64
	hasBest bool
}

var (
	hudStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	flickStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#40A9FF"))
	flashStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
	recoilStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF7A45"))
	tracerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FADB14"))
	crossStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#73D13D")).Bold(true)
	floorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#3A3A3A"))
	overlayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
)

// NewModel constructs a drill TUI model. scores may be nil.
func NewModel(d *drill.Drill, scores Scores, player string, log zerolog.Logger) *Model {
	in := textinput.New()
	in.Placeholder = session.DefaultPlayerID
	in.Prompt = "Player: "
	in.CharLimit = 32
	in.SetValue(player)
	in.Focus()

	fps := d.Config().FPS
	if fps <= 0 {
		fps = 60
	}
	m := &Model{
		drill:  d,
		scores: scores,
		keys:   DefaultKeyMap(),
		input:  in,
		log:    log,
		fps:    fps,
		now:    time.Now,
		held:   map[action]time.Time{},
	}
	d.Init()
	m.prevState = d.Session().State()
	m.loadBest(player)
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.tick())
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		m.step(time.Time(msg))
		return m, m.tick()
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		if m.editingPlayer() {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}
	running := m.drill.Session().State() == session.StateRunning
	if !running {
		switch {
		case key.Matches(msg, m.keys.Start):
			m.start()
			return m, nil
		case msg.Type == tea.KeyEsc:
			return m, tea.Quit
		}
		if m.editingPlayer() {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Reset):
			m.drill.ResetRounds()
		}
		return m, nil
	}

	if key.Matches(msg, m.keys.Reload) {
		m.reloadPending = true
		return m, nil
	}
	if a, ok := m.actionFor(msg); ok {
		m.held[a] = m.now().Add(holdWindow)
	}
	return m, nil
}

func (m *Model) actionFor(msg tea.KeyMsg) (action, bool) {
	bindings := []struct {
		b key.Binding
		a action
	}{
		{m.keys.LookLeft, actLookLeft},
		{m.keys.LookRight, actLookRight},
		{m.keys.LookUp, actLookUp},
		{m.keys.LookDown, actLookDown},
		{m.keys.Forward, actForward},
		{m.keys.Back, actBack},
		{m.keys.Left, actLeft},
		{m.keys.Right, actRight},
		{m.keys.Fire, actFire},
	}
	for _, entry := range bindings {
		if key.Matches(msg, entry.b) {
			return entry.a, true
		}
	}
	return 0, false
}

func (m *Model) editingPlayer() bool {
	v := m.drill.View()
	return v.Snapshot.State != session.StateRunning && v.Visible[session.ComponentPlayerInput]
}

func (m *Model) start() {
	if m.editingPlayer() {
		m.drill.SetPlayer(m.input.Value())
		m.input.Blur()
	}
	m.held = map[action]time.Time{}
	m.reloadPending = false
	m.drill.Start()
	m.loadBest(m.drill.Session().Snapshot().PlayerID)
}

// step advances the drill to now.
func (m *Model) step(now time.Time) {
	dt := 0.0
	if !m.lastTick.IsZero() {
		dt = now.Sub(m.lastTick).Seconds()
	}
	m.lastTick = now
	if dt > maxFrame {
		dt = maxFrame
	}
	m.drill.Tick(dt, m.currentInput(now))
	m.reloadPending = false

	state := m.drill.Session().State()
	if m.prevState == session.StateRunning && state == session.StateEnded {
		m.loadBest(m.drill.Session().Snapshot().PlayerID)
	}
	m.prevState = state
}

func (m *Model) currentInput(now time.Time) drill.Input {
	axis := func(neg, pos action) float64 {
		v := 0.0
		if m.isHeld(neg, now) {
			v--
		}
		if m.isHeld(pos, now) {
			v++
		}
		return v
	}
	return drill.Input{
		LookX:   axis(actLookLeft, actLookRight),
		LookY:   axis(actLookDown, actLookUp),
		Strafe:  axis(actLeft, actRight),
		Forward: axis(actBack, actForward),
		Fire:    m.isHeld(actFire, now),
		Reload:  m.reloadPending,
	}
}

func (m *Model) isHeld(a action, now time.Time) bool {
	until, ok := m.held[a]
	return ok && now.Before(until)
}

func (m *Model) loadBest(player string) {
	if m.scores == nil {
		return
	}
	if player == "" {
		player = session.DefaultPlayerID
	}
	best, ok, err := m.scores.BestScore(context.Background(), player)
	if err != nil {
		m.log.Warn().Err(err).Msg("failed to load best score")
		return
	}
	m.best = best
	m.hasBest = ok
}

// View implements tea.Model.
func (m *Model) View() string {
	v := m.drill.View()
	width, height := m.width, m.height
	if width == 0 || height == 0 {
		width, height = 80, 24
	}

	header := m.renderHeader(v, width)
	footer := m.renderFooter(v)
	sceneHeight := height - lipgloss.Height(header) - 1
	if sceneHeight < 3 {
		sceneHeight = 3
	}

	var body string
	if v.Visible[session.ComponentStartUI] {
		body = lipgloss.Place(width, sceneHeight, lipgloss.Center, lipgloss.Center, m.renderOverlay(v))
	} else {
		body = renderScene(v, width, sceneHeight)
	}
	footerLine := lipgloss.Place(width, 1, lipgloss.Center, lipgloss.Center, footer)
	return header + "\n" + body + "\n" + footerLine
}

func (m *Model) renderHeader(v drill.View, width int) string {
	ammo := v.Panels[session.PanelAmmo]
	ammoStyle := hudStyle
	if strings.Contains(ammo, "Press R") || v.Reloading {
		ammoStyle = warnStyle
	}
	if v.Reloading {
		ammo = "Reloading..."
	}
	top := joinColumns(width,
		hudStyle.Render(v.Panels[session.PanelTimer]),
		hudStyle.Render(v.Panels[session.PanelAccuracy]),
		ammoStyle.Render(ammo),
	)

	lines := []string{top}
	if title := v.Panels[session.PanelWaveTitle]; title != "" {
		lines = append(lines, titleStyle.Render(title)+"  "+mutedStyle.Render(v.Panels[session.PanelWaveInstruction]))
	} else {
		lines = append(lines, "")
	}
	stats := ""
	switch {
	case v.Visible[session.ComponentFlickStats]:
		stats = v.Panels[session.PanelFlickStats]
	case v.Visible[session.ComponentRecoilStats]:
		stats = v.Panels[session.PanelRecoilStats]
	}
	lines = append(lines, mutedStyle.Render(truncate(stats, width)))
	return strings.Join(lines, "\n")
}

func (m *Model) renderOverlay(v drill.View) string {
	parts := []string{titleStyle.Render("Aim Drill")}
	if summary := v.Panels[session.PanelSummary]; summary != "" {
		parts = append(parts, "", hudStyle.Render(summary))
	}
	if v.Visible[session.ComponentPlayerInput] {
		parts = append(parts, "", m.input.View())
	}
	help := "enter: start  q: quit"
	if v.Snapshot.MaxRounds > 1 && v.Snapshot.Round > 0 {
		help += "  x: reset rounds"
	}
	parts = append(parts, "", mutedStyle.Render(help))
	return overlayStyle.Render(strings.Join(parts, "\n"))
}

func (m *Model) renderFooter(v drill.View) string {
	segments := []string{}
	if v.Snapshot.MaxRounds > 1 && v.Snapshot.Round > 0 {
		segments = append(segments, fmt.Sprintf("Round %d/%d", v.Snapshot.Round, v.Snapshot.MaxRounds))
	}
	if last := v.Snapshot.LastResult; last != nil {
		segments = append(segments, fmt.Sprintf("Last %.0f %s · %.1f%%", last.Metrics.FinalScore, last.Metrics.Rank, last.Metrics.OverallAccuracy))
	}
	if m.hasBest {
		segments = append(segments, fmt.Sprintf("Best %.0f", m.best))
	}
	if len(segments) == 0 {
		return ""
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}
