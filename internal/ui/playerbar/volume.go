package playerbar

import (
	"fmt"
	"math"

	"github.com/soundfolio/player/internal/ui/styles"
)

// RenderVolume renders the volume as "vol  80%".
func RenderVolume(volume float64) string {
	pct := int(math.Round(min(max(volume, 0), 1) * 100))
	return styles.T().S().Muted.Render(fmt.Sprintf("vol %3d%%", pct))
}
