package app

import (
	"time"

	"github.com/soundfolio/player/internal/session"
)

// FrameMsg paces visualizer redraws.
type FrameMsg time.Time

// ChangedMsg reports that the session state changed.
type ChangedMsg struct{}

// CatalogLoadedMsg carries the result of a catalog refresh.
type CatalogLoadedMsg struct {
	Status session.CatalogStatus
}
