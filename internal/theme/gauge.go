package theme

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	drawille "github.com/exrook/drawille-go"

	"charm.land/lipgloss/v2"
)

const (
	// ring size in braille dots; one cell is 2 dots wide and 4 tall
	ringDots      = 28
	ringThickness = 3
	ringStart     = 270.0 // 12 o'clock, screen coordinates
)

// Gauge is a ring filled clockwise to Value/Max with the value and label
// printed underneath.
type Gauge struct {
	Value *float64 // nil renders as no data
	Max   float64
	Label string
	Color color.Color
}

func (g Gauge) fraction() float64 {
	if g.Value == nil || g.Max <= 0 {
		return 0
	}
	return math.Min(math.Max(*g.Value/g.Max, 0), 1)
}

func (g Gauge) text() string {
	switch {
	case g.Value == nil:
		return "--"
	case g.Max == 100:
		return fmt.Sprintf("%.0f%%", *g.Value)
	default:
		return fmt.Sprintf("%.1f", *g.Value)
	}
}

func (g Gauge) Render() string {
	var (
		bg        = ring(1)
		fill      = ring(g.fraction())
		bgStyle   = lipgloss.NewStyle().Foreground(ColorBgLight)
		fillStyle = lipgloss.NewStyle().Foreground(g.Color)
		lines     = make([]string, len(bg))
	)

	for i := range bg {
		var b strings.Builder
		fillRow := []rune(fill[i])
		for j, r := range []rune(bg[i]) {
			switch {
			case j < len(fillRow) && fillRow[j] != emptyBraille && fillRow[j] != ' ':
				b.WriteString(fillStyle.Render(string(fillRow[j])))
			case r != emptyBraille && r != ' ':
				b.WriteString(bgStyle.Render(string(r)))
			default:
				b.WriteRune(' ')
			}
		}
		lines[i] = b.String()
	}

	width := ringDots / 2
	value := lipgloss.NewStyle().Foreground(g.Color).Bold(true).Width(width).Align(lipgloss.Center)
	label := lipgloss.NewStyle().Foreground(ColorWhite).Width(width).Align(lipgloss.Center)

	return lipgloss.JoinVertical(lipgloss.Center,
		strings.Join(lines, "\n"),
		value.Render(g.text()),
		label.Render(g.Label),
	)
}

// Gauges renders gauges side by side.
func Gauges(gauges ...Gauge) string {
	rendered := make([]string, 0, 2*len(gauges))
	for i, g := range gauges {
		if i > 0 {
			rendered = append(rendered, "  ")
		}
		rendered = append(rendered, g.Render())
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

const emptyBraille = '⠀'

// ring draws the first fraction of a circle and returns its braille rows,
// each exactly ringDots/2 cells wide.
func ring(fraction float64) []string {
	canvas := drawille.NewCanvas()
	center := ringDots / 2
	sweep := fraction * 360

	if sweep > 0 {
		for t := range ringThickness {
			r := center - 1 - t
			// midpoint circle; each octant point is kept when inside the sweep
			x, y, d := r, 0, 1-r
			for x >= y {
				for _, p := range [][2]int{
					{x, -y}, {y, -x}, {-y, -x}, {-x, -y},
					{-x, y}, {-y, x}, {y, x}, {x, y},
				} {
					if inSweep(p[0], p[1], sweep) {
						canvas.Set(center+p[0], center+p[1])
					}
				}
				y++
				if d < 0 {
					d += 2*y + 1
				} else {
					x--
					d += 2*(y-x) + 1
				}
			}
		}
	}

	rows := canvas.Rows(0, 0, ringDots, ringDots)
	cells := ringDots / 2
	out := make([]string, ringDots/4)
	for i := range out {
		var row []rune
		if i < len(rows) {
			row = []rune(rows[i])
		}
		if len(row) > cells {
			row = row[:cells]
		}
		out[i] = string(row) + strings.Repeat(" ", cells-len(row))
	}
	return out
}

func inSweep(dx, dy int, sweep float64) bool {
	if sweep >= 360 {
		return true
	}
	angle := math.Atan2(float64(dy), float64(dx)) * 180 / math.Pi
	if angle < 0 {
		angle += 360
	}
	// degrees travelled clockwise from 12 o'clock
	travelled := math.Mod(angle-ringStart+360, 360)
	return travelled <= sweep
}
