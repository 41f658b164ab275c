package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Series represents a named data series for plotting.
type Series struct {
	Name   string
	Values []float64
}

const (
	defaultPlotHeight = 10
	minPlotWidth      = 10
	axisWidth         = 6
	axisSeparator     = " ┤ "
	fallbackWidth     = 80
	colorReset        = "\x1b[0m"
)

var seriesColors = []string{"\x1b[36m", "\x1b[33m", "\x1b[35m", "\x1b[32m"}

// braille dot bits indexed by [row][col] inside a 2x4 cell.
var brailleBits = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// canvas is a braille grid with two dot columns and four dot rows per cell.
// Each cell remembers the first series that touched it for coloring.
type canvas struct {
	width, height int
	masks         [][]uint8
	owner         [][]int
}

func newCanvas(width, height int) *canvas {
	c := &canvas{width: width, height: height}
	c.masks = make([][]uint8, height)
	c.owner = make([][]int, height)
	for y := range c.masks {
		c.masks[y] = make([]uint8, width)
		c.owner[y] = make([]int, width)
		for x := range c.owner[y] {
			c.owner[y][x] = -1
		}
	}
	return c
}

func (c *canvas) dot(px, py, series int) {
	cx, cy := px/2, py/4
	if px < 0 || py < 0 || cx >= c.width || cy >= c.height {
		return
	}
	c.masks[cy][cx] |= brailleBits[py%4][px%2]
	if c.owner[cy][cx] < 0 {
		c.owner[cy][cx] = series
	}
}

// line draws between two dot positions with Bresenham's algorithm.
func (c *canvas) line(x0, y0, x1, y1, series int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := sign(x1-x0), sign(y1-y0)
	e := dx + dy
	for {
		c.dot(x0, y0, series)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func (c *canvas) row(y int, useColor bool) string {
	var b strings.Builder
	for x := 0; x < c.width; x++ {
		ch := rune(0x2800 + int(c.masks[y][x]))
		if useColor && c.owner[y][x] >= 0 {
			b.WriteString(seriesColors[c.owner[y][x]%len(seriesColors)])
			b.WriteRune(ch)
			b.WriteString(colorReset)
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}

// PlotSeries renders series as a braille line chart. Each series is scaled to its
// own range, printed below the chart. width 0 fits the terminal.
func PlotSeries(w io.Writer, title string, series []Series, width, height int, useColor bool) error {
	kept := series[:0:0]
	for _, s := range series {
		if len(s.Values) > 0 {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	width = max(width, minPlotWidth)
	useColor = useColor && os.Getenv("NO_COLOR") == ""

	c := newCanvas(width, height)
	dotRows := height * 4
	ranges := make([][2]float64, len(kept))
	for si, s := range kept {
		values := resample(s.Values, width)
		lo, hi := bounds(values)
		ranges[si] = [2]float64{lo, hi}
		prevX, prevY := -1, -1
		for x, v := range values {
			px := x * 2
			py := int(math.Round((1 - (v-lo)/(hi-lo)) * float64(dotRows-1)))
			py = max(0, min(py, dotRows-1))
			if prevX < 0 {
				c.dot(px, py, si)
			} else {
				c.line(prevX, prevY, px, py, si)
			}
			prevX, prevY = px, py
		}
	}

	lines := []string{}
	if title != "" {
		lines = append(lines, title)
	}
	for y := 0; y < height; y++ {
		label := ""
		switch y {
		case 0:
			label = "max"
		case height - 1:
			label = "min"
		}
		lines = append(lines, runewidth.FillLeft(label, axisWidth)+axisSeparator+c.row(y, useColor))
	}
	legend := make([]string, 0, len(kept))
	for si, s := range kept {
		entry := fmt.Sprintf("%s %.1f..%.1f", s.Name, ranges[si][0], ranges[si][1])
		if useColor {
			entry = seriesColors[si%len(seriesColors)] + entry + colorReset
		}
		legend = append(legend, entry)
	}
	lines = append(lines, strings.Join(legend, "  "), "")
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	return max(totalWidth-axisWidth-runewidth.StringWidth(axisSeparator), minPlotWidth)
}

// IsTerminal reports whether w is a terminal, for color decisions.
func IsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallbackWidth
	}
	return width
}

// resample stretches or averages values to exactly n points.
func resample(values []float64, n int) []float64 {
	out := make([]float64, n)
	switch {
	case len(values) == n:
		copy(out, values)
	case len(values) == 1 || n == 1:
		for i := range out {
			out[i] = values[0]
		}
	case len(values) > n:
		for i := range out {
			start := i * len(values) / n
			end := max((i+1)*len(values)/n, start+1)
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
	default:
		for i := range out {
			pos := float64(i) * float64(len(values)-1) / float64(n-1)
			idx := min(int(pos), len(values)-2)
			frac := pos - float64(idx)
			out[i] = values[idx]*(1-frac) + values[idx+1]*frac
		}
	}
	return out
}

// bounds returns min and max, widened when flat so scaling never divides by zero.
func bounds(values []float64) (float64, float64) {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi-lo < 1e-9 {
		lo--
		hi++
	}
	return lo, hi
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
