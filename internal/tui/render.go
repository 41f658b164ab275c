package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/aimdrill/internal/arena"
	"github.com/verte-zerg/aimdrill/internal/drill"
	"github.com/verte-zerg/aimdrill/internal/geom"
)

const (
	// fieldOfView is the horizontal view angle in degrees.
	fieldOfView = 70
	// cellAspect is the height/width ratio of a terminal cell.
	cellAspect = 2.0
	nearPlane  = 0.1
	tracerDots = 24
)

type cellKind int

const (
	cellEmpty cellKind = iota
	cellFloor
	cellTracer
	cellFlick
	cellFlash
	cellRecoil
	cellCross
)

type cell struct {
	r    rune
	kind cellKind
}

// camera projects world points onto a width x height cell grid.
type camera struct {
	eye, forward, right, up geom.Vec3
	width, height           int
	focal                   float64
}

func newCamera(v drill.View, width, height int) camera {
	return camera{
		eye:     v.Eye,
		forward: v.Forward,
		right:   v.Right,
		up:      v.Up,
		width:   width,
		height:  height,
		focal:   float64(width) / 2 / math.Tan(fieldOfView*math.Pi/360),
	}
}

// project returns the cell coordinates of p and its depth. ok is false behind the eye.
func (c camera) project(p geom.Vec3) (x, y, depth float64, ok bool) {
	rel := p.Sub(c.eye)
	depth = rel.Dot(c.forward)
	if depth < nearPlane {
		return 0, 0, depth, false
	}
	x = float64(c.width)/2 + rel.Dot(c.right)/depth*c.focal
	y = float64(c.height)/2 - rel.Dot(c.up)/depth*c.focal/cellAspect
	return x, y, depth, true
}

func renderScene(v drill.View, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	grid := make([][]cell, height)
	for i := range grid {
		grid[i] = make([]cell, width)
		for j := range grid[i] {
			grid[i][j] = cell{r: ' '}
		}
	}
	cam := newCamera(v, width, height)

	drawFloor(grid, cam)
	if v.HasTracer {
		drawTracer(grid, cam, v.Tracer.From, v.Tracer.To)
	}
	for _, t := range v.Targets {
		drawTarget(grid, cam, t)
	}
	drawCrosshair(grid, v.KickUp)

	var b strings.Builder
	for i, row := range grid {
		if i > 0 {
			b.WriteByte('\n')
		}
		writeRow(&b, row)
	}
	return b.String()
}

// drawFloor marks cells whose view ray points below the horizon.
func drawFloor(grid [][]cell, cam camera) {
	for y := range grid {
		for x := range grid[y] {
			dx := (float64(x) + 0.5 - float64(cam.width)/2) / cam.focal
			dy := -(float64(y) + 0.5 - float64(cam.height)/2) / cam.focal * cellAspect
			dir := cam.forward.Add(cam.right.Scale(dx)).Add(cam.up.Scale(dy))
			if dir.Y >= 0 {
				continue
			}
			dist := -cam.eye.Y / dir.Y
			if dist > 60 {
				continue
			}
			hit := cam.eye.Add(dir.Scale(dist))
			if int(math.Floor(hit.X))%2 == 0 && int(math.Floor(hit.Z))%2 == 0 {
				grid[y][x] = cell{r: '.', kind: cellFloor}
			}
		}
	}
}

func drawTracer(grid [][]cell, cam camera, from, to geom.Vec3) {
	for i := 1; i <= tracerDots; i++ {
		p := geom.Lerp(from, to, float64(i)/tracerDots)
		x, y, _, ok := cam.project(p)
		if !ok {
			continue
		}
		set(grid, int(x), int(y), cell{r: '·', kind: cellTracer})
	}
}

func drawTarget(grid [][]cell, cam camera, t drill.TargetView) {
	cx, cy, depth, ok := cam.project(t.Center)
	if !ok {
		return
	}
	rx := t.Radius / depth * cam.focal
	ry := rx / cellAspect
	if rx < 0.5 {
		rx = 0.5
	}
	if ry < 0.5 {
		ry = 0.5
	}
	c := cell{r: 'o', kind: cellFlick}
	switch {
	case t.Kind == arena.KindRecoil:
		c = cell{r: recoilGlyph(t.Progress), kind: cellRecoil}
	case t.Flashing:
		c = cell{r: '*', kind: cellFlash}
	}
	for y := int(math.Floor(cy - ry)); y <= int(math.Ceil(cy+ry)); y++ {
		for x := int(math.Floor(cx - rx)); x <= int(math.Ceil(cx+rx)); x++ {
			nx := (float64(x) + 0.5 - cx) / rx
			ny := (float64(y) + 0.5 - cy) / ry
			if nx*nx+ny*ny <= 1 {
				set(grid, x, y, c)
			}
		}
	}
	set(grid, int(cx), int(cy), cell{r: '+', kind: c.kind})
}

// recoilGlyph darkens as the target takes hits.
func recoilGlyph(progress float64) rune {
	switch {
	case progress >= 0.75:
		return '░'
	case progress >= 0.5:
		return '▒'
	case progress >= 0.25:
		return '▓'
	default:
		return '█'
	}
}

// drawCrosshair marks the screen center, nudged up while the gun kicks.
func drawCrosshair(grid [][]cell, kickUp float64) {
	h := len(grid)
	if h == 0 {
		return
	}
	w := len(grid[0])
	y := h/2 - int(math.Round(kickUp*10))
	set(grid, w/2, y, cell{r: '+', kind: cellCross})
}

func set(grid [][]cell, x, y int, c cell) {
	if y < 0 || y >= len(grid) || x < 0 || x >= len(grid[y]) {
		return
	}
	grid[y][x] = c
}

func styleFor(kind cellKind) lipgloss.Style {
	switch kind {
	case cellFloor:
		return floorStyle
	case cellTracer:
		return tracerStyle
	case cellFlick:
		return flickStyle
	case cellFlash:
		return flashStyle
	case cellRecoil:
		return recoilStyle
	case cellCross:
		return crossStyle
	default:
		return lipgloss.NewStyle()
	}
}

// writeRow renders runs of same-kind cells with one style call each.
func writeRow(b *strings.Builder, row []cell) {
	start := 0
	for i := 1; i <= len(row); i++ {
		if i < len(row) && row[i].kind == row[start].kind {
			continue
		}
		var run strings.Builder
		for _, c := range row[start:i] {
			run.WriteRune(c.r)
		}
		if row[start].kind == cellEmpty {
			b.WriteString(run.String())
		} else {
			b.WriteString(styleFor(row[start].kind).Render(run.String()))
		}
		start = i
	}
}

// joinColumns spreads cols across width with equal gaps.
func joinColumns(width int, cols ...string) string {
	used := 0
	for _, c := range cols {
		used += lipgloss.Width(c)
	}
	if len(cols) < 2 || used >= width {
		return strings.Join(cols, " ")
	}
	gap := (width - used) / (len(cols) - 1)
	var b strings.Builder
	for i, c := range cols {
		if i > 0 {
			b.WriteString(strings.Repeat(" ", gap))
		}
		b.WriteString(c)
	}
	return b.String()
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}
