package playback

import (
	"math"
	"time"
)

// LoadRequest asks the media engine to fetch and start a track.
// ID is echoed back on every MediaEvent produced for this request.
type LoadRequest struct {
	ID  uint64
	URL string
}

// MediaEventKind identifies a media engine notification.
type MediaEventKind int

const (
	EventTimeUpdate MediaEventKind = iota
	EventDurationKnown
	EventEnded
	EventPlayStarted
	EventPaused
	EventError
)

// String returns the event kind name.
func (k MediaEventKind) String() string {
	switch k {
	case EventTimeUpdate:
		return "TimeUpdate"
	case EventDurationKnown:
		return "DurationKnown"
	case EventEnded:
		return "Ended"
	case EventPlayStarted:
		return "PlayStarted"
	case EventPaused:
		return "Paused"
	case EventError:
		return "Error"
	default:
		return "Unknown"
	}
}

// MediaEvent is a notification from the media engine.
type MediaEvent struct {
	Kind     MediaEventKind
	Request  uint64
	Position time.Duration
	Duration time.Duration
	Err      error
}

// MediaPort is the media engine driven by the Transport.
//
// Load is asynchronous: readiness, failure and completion are reported
// through the observer. Implementations must not invoke the observer
// synchronously from any MediaPort method.
type MediaPort interface {
	Load(req LoadRequest)
	Play()
	Pause()
	Seek(pos time.Duration)
	SetVolume(v float64)
	Release()
	Observe(fn func(MediaEvent))
}

// Seconds converts a float number of seconds to a Duration.
// NaN, infinities and negative values map to 0.
func Seconds(s float64) time.Duration {
	if math.IsNaN(s) || math.IsInf(s, 0) || s <= 0 {
		return 0
	}
	return time.Duration(s * float64(time.Second))
}
