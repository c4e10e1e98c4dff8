// internal/player/state.go
package player

// State represents the media engine state.
//
//	┌──────────┐   load    ┌──────────┐  decoded  ┌──────────┐
//	│  Stopped │ ─────────▶│ Loading  │ ─────────▶│ Playing  │
//	└──────────┘           └──────────┘           └──────────┘
//	     ▲                      │                    │    ▲
//	     │       release/error  │              pause │    │ play
//	     └──────────────────────┘                    ▼    │
//	     ▲                                        ┌──────────┐
//	     └────────────────────────────────────────│  Paused  │
//	                      release/end             └──────────┘
//
// A Load while in any state releases the current stream first.
type State int

const (
	Stopped State = iota
	Loading
	Playing
	Paused
)

var stateNames = [...]string{"Stopped", "Loading", "Playing", "Paused"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "Unknown"
	}
	return stateNames[s]
}

// CanPause reports whether a stream is audible.
func (s State) CanPause() bool { return s == Playing }

// CanResume reports whether a paused stream is attached.
func (s State) CanResume() bool { return s == Paused }
