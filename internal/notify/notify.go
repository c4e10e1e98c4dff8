// Package notify shows desktop notifications via D-Bus.
package notify

import (
	"sync"

	"github.com/soundfolio/player/internal/catalog"
)

// Urgency is the freedesktop notification urgency hint.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

const appName = "soundfolio"

// Notification contains data for a desktop notification.
type Notification struct {
	Title      string  // Summary text (required)
	Body       string  // Body text (optional)
	Icon       string  // Icon name or image path (optional)
	Timeout    int32   // ms, -1 = server default, 0 = never expire
	ReplacesID uint32  // 0 = new notification, >0 = replace existing
	Urgency    Urgency // Low, Normal, Critical
}

// Notifier sends desktop notifications.
type Notifier interface {
	// Notify sends a notification and returns its ID.
	// Returns 0 and nil error if notifications are unavailable.
	Notify(n Notification) (uint32, error)
	// Close closes a notification by ID.
	Close(id uint32) error
}

type stubNotifier struct{}

func (stubNotifier) Notify(Notification) (uint32, error) { return 0, nil }
func (stubNotifier) Close(uint32) error                  { return nil }

// NowPlayingTimeout is how long a track notification stays up.
const NowPlayingTimeout int32 = 4000

// NowPlaying announces track starts, keeping a single notification on
// screen by replacing the previous one.
type NowPlaying struct {
	n Notifier

	mu     sync.Mutex
	lastID uint32
}

// NewNowPlaying wraps n.
func NewNowPlaying(n Notifier) *NowPlaying {
	return &NowPlaying{n: n}
}

// Track announces t.
func (p *NowPlaying) Track(t catalog.Track) error {
	body := t.Artist
	if body == "" {
		body = catalog.UnknownArtist
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	id, err := p.n.Notify(Notification{
		Title:      t.Name,
		Body:       body,
		Icon:       "audio-x-generic",
		Timeout:    NowPlayingTimeout,
		ReplacesID: p.lastID,
		Urgency:    UrgencyLow,
	})
	if err != nil {
		return err
	}
	p.lastID = id
	return nil
}

// Close dismisses the current notification.
func (p *NowPlaying) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.lastID == 0 {
		return nil
	}
	id := p.lastID
	p.lastID = 0
	return p.n.Close(id)
}
