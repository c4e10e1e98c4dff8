// internal/playback/service.go
package playback

import (
	"errors"
	"time"

	"github.com/soundfolio/player/internal/catalog"
)

var (
	// ErrIndexOutOfRange is returned when a command targets a missing playlist entry.
	ErrIndexOutOfRange = errors.New("track index out of range")
	// ErrClosed is returned by commands issued after Close.
	ErrClosed = errors.New("transport closed")
)

// Service is the playback transport used by the session and the UI.
type Service interface {
	// Commands
	Play(index int) error
	TogglePlay() error
	Pause() error
	Resume() error
	Next() error
	Previous() error
	Seek(target time.Duration) error
	SetVolume(v float64)
	SetPlaylist(tracks []catalog.Track)
	RemoveTrack(index int) error

	// State queries
	Snapshot() Snapshot
	State() State
	IsPlaying() bool
	CurrentTrack() *catalog.Track

	Subscribe() *Subscription
	Close() error
}

// Snapshot is a copy of the transport state at a point in time.
type Snapshot struct {
	Playlist     []catalog.Track
	CurrentIndex int
	State        State
	IsPlaying    bool
	Loading      bool
	CurrentTime  time.Duration
	Duration     time.Duration
	Volume       float64
	Err          string
}

// CurrentTrack returns the track at CurrentIndex, or nil.
func (s Snapshot) CurrentTrack() *catalog.Track {
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Playlist) {
		return nil
	}
	t := s.Playlist[s.CurrentIndex]
	return &t
}

// HasNext reports whether Next would change the track.
func (s Snapshot) HasNext() bool {
	return s.CurrentIndex >= 0 && s.CurrentIndex < len(s.Playlist)-1
}

// HasPrevious reports whether Previous would change the track.
func (s Snapshot) HasPrevious() bool {
	return s.CurrentIndex > 0 && s.CurrentIndex < len(s.Playlist)
}

// Progress returns CurrentTime/Duration in [0,1], 0 while the duration is unknown.
func (s Snapshot) Progress() float64 {
	if s.Duration <= 0 {
		return 0
	}
	p := float64(s.CurrentTime) / float64(s.Duration)
	return min(max(p, 0), 1)
}
