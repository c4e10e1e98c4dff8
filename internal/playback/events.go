package playback

import (
	"time"

	"github.com/soundfolio/player/internal/catalog"
)

// StateChange is emitted when the transport state changes.
type StateChange struct {
	Previous State
	Current  State
}

// TrackChange is emitted when a play request targets a track.
//
// Emitted by Play, Next, Previous, Toggle (when it has to reload) and
// automatic advance on track end. Not emitted by Pause or Resume.
type TrackChange struct {
	Previous      *catalog.Track
	Current       *catalog.Track
	PreviousIndex int
	Index         int
}

// PlaylistChange is emitted when the playlist contents change.
type PlaylistChange struct {
	Tracks []catalog.Track
	Index  int
}

// PositionChange is emitted on seeks and media time updates.
type PositionChange struct {
	Position time.Duration
	Duration time.Duration
}

// ErrorEvent is emitted when playback of a track fails.
type ErrorEvent struct {
	Index   int
	Track   string
	Message string // user-facing text, also stored in Snapshot.Err
	Err     error
}
