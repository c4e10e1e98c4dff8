// internal/playback/state.go
package playback

// State represents the transport state.
//
// Valid transitions:
//   - Idle    → Playing (via Play)
//   - Playing → Paused  (via Pause or Toggle)
//   - Paused  → Playing (via Resume or Toggle)
//   - Playing → Ended   (media completion on the last track)
//   - Playing → Playing (media completion with a next track: auto-advance)
//   - Ended   → Playing (via Play or Toggle, replays the current track)
//   - any     → Idle    (playback error, playlist replaced, current track removed)
type State int

const (
	StateIdle State = iota
	StatePlaying
	StatePaused
	StateEnded
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	case StateEnded:
		return "Ended"
	default:
		return "Unknown"
	}
}

// Audible reports whether the media port has a track attached.
func (s State) Audible() bool {
	return s == StatePlaying || s == StatePaused
}
