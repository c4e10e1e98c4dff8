package playerbar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const (
	filledBlock = "━"
	emptyBlock  = "─"
)

// RenderProgressBar renders "1:23  ━━━━────  4:56" in width cells with
// progress (0-1) of the bar filled. The bar is omitted when there is no
// room for it.
func RenderProgressBar(position, duration time.Duration, progress float64, width int) string {
	posStr := FormatDuration(position)
	durStr := FormatDuration(duration)

	fixedWidth := lipgloss.Width(posStr) + 2 + 2 + lipgloss.Width(durStr)
	barWidth := width - fixedWidth
	if barWidth < 3 {
		return posStr + " / " + durStr
	}

	filled := int(float64(barWidth) * min(max(progress, 0), 1))
	bar := progressBarFilled().Render(strings.Repeat(filledBlock, filled)) +
		progressBarEmpty().Render(strings.Repeat(emptyBlock, barWidth-filled))

	return posStr + "  " + bar + "  " + durStr
}

// FormatDuration renders d as m:ss. Negative durations render as 0:00.
func FormatDuration(d time.Duration) string {
	d = max(d, 0)
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
