// Package visualizer draws a spectrum snapshot as vertical block bars.
package visualizer

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/soundfolio/player/internal/spectrum"
	"github.com/soundfolio/player/internal/ui/styles"
)

var barChars = []rune(" ▁▂▃▄▅▆▇█")

// minBrightness keeps idle bars visible.
const minBrightness = 0.35

// Columns reduces the bars to at most width columns by averaging
// neighbouring bars. With width >= BarCount every bar gets a column.
func Columns(bars [spectrum.BarCount]float64, width int) []float64 {
	n := min(max(width, 1), spectrum.BarCount)
	cols := make([]float64, n)
	for c := range n {
		lo := c * spectrum.BarCount / n
		hi := max((c+1)*spectrum.BarCount/n, lo+1)
		var sum float64
		for _, v := range bars[lo:hi] {
			sum += v
		}
		cols[c] = sum / float64(hi-lo)
	}
	return cols
}

// Glyph returns the block for one cell of a bar of the given level
// (0..1 of the full height), rowFromBottom counting from 0.
func Glyph(level float64, height, rowFromBottom int) rune {
	scaled := level * float64(height)
	row := float64(rowFromBottom)
	switch {
	case scaled >= row+1:
		return barChars[len(barChars)-1]
	case scaled > row:
		return barChars[int((scaled-row)*float64(len(barChars)-1))]
	default:
		return barChars[0]
	}
}

// Render draws the snapshot in width x height cells. Hue runs from low to
// high frequency; brightness follows the snapshot intensity.
func Render(snap spectrum.Snapshot, width, height int) string {
	if width < 1 || height < 1 {
		return ""
	}
	cols := Columns(snap.Bars, width)
	colWidth := max(width/len(cols), 1)
	gap := 0
	if colWidth > 2 {
		gap = 1
	}

	t := styles.T()
	brightness := minBrightness + (1-minBrightness)*min(max(snap.Intensity, 0), 1)
	palette := styles.Blend(len(cols), t.BarLow, t.BarHigh)
	cellStyles := make([]lipgloss.Style, len(cols))
	for i, c := range palette {
		cellStyles[i] = lipgloss.NewStyle().Foreground(styles.Scale(c, brightness))
	}

	rows := make([]string, height)
	for r := range height {
		rowFromBottom := height - 1 - r
		var line strings.Builder
		for c, level := range cols {
			ch := string(Glyph(level, height, rowFromBottom))
			line.WriteString(cellStyles[c].Render(strings.Repeat(ch, colWidth-gap)))
			if gap > 0 {
				line.WriteByte(' ')
			}
		}
		rows[r] = line.String()
	}
	return strings.Join(rows, "\n")
}
