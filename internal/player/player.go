// Package player is the beep-based media engine behind the playback
// transport. It fetches a track, decodes it and streams it to the speaker,
// reporting progress through playback.MediaEvent notifications.
package player

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"go.uber.org/zap"

	"github.com/soundfolio/player/internal/playback"
)

var (
	// ErrUnsupportedFormat is reported for audio formats without a decoder.
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	// ErrTapInstalled is returned by SetTap when a sink is already installed.
	ErrTapInstalled = errors.New("tap already installed")
)

// Verify Player implements playback.MediaPort at compile time.
var _ playback.MediaPort = (*Player)(nil)

// Options configures a Player.
type Options struct {
	SampleRate       int           // speaker rate, tracks are resampled to it
	BufferSize       time.Duration // speaker buffer
	FetchTimeout     time.Duration
	MaxBytes         int64 // upper bound for a fetched track
	PositionInterval time.Duration
	HTTPClient       *http.Client
}

// Option defaults.
const (
	DefaultSampleRate       = 44100
	DefaultBufferSize       = 100 * time.Millisecond
	DefaultFetchTimeout     = 30 * time.Second
	DefaultMaxBytes         = 200 << 20
	DefaultPositionInterval = 250 * time.Millisecond
)

func (o Options) withDefaults() Options {
	if o.SampleRate <= 0 {
		o.SampleRate = DefaultSampleRate
	}
	if o.BufferSize <= 0 {
		o.BufferSize = DefaultBufferSize
	}
	if o.FetchTimeout <= 0 {
		o.FetchTimeout = DefaultFetchTimeout
	}
	if o.MaxBytes <= 0 {
		o.MaxBytes = DefaultMaxBytes
	}
	if o.PositionInterval <= 0 {
		o.PositionInterval = DefaultPositionInterval
	}
	if o.HTTPClient == nil {
		o.HTTPClient = &http.Client{Timeout: o.FetchTimeout}
	}
	return o
}

// TrackInfo describes the decoded track.
type TrackInfo struct {
	URL        string
	Title      string
	Artist     string
	Album      string
	Year       int
	Track      int
	Genre      string
	Duration   time.Duration
	SampleRate int
	Format     string
}

// stream is one decoded track attached to the speaker.
type stream struct {
	id      uint64
	decoder beep.StreamSeekCloser
	format  beep.Format
	ctrl    *beep.Ctrl
	volume  *effects.Volume
	info    *TrackInfo
}

// Player plays one track at a time.
//
// Lock order is p.mu before the speaker lock. Nothing running under the
// speaker lock takes p.mu.
type Player struct {
	mu   sync.Mutex
	opts Options
	log  *zap.Logger

	state       State
	loadID      uint64
	cancelLoad  context.CancelFunc
	current     *stream
	volumeLevel float64

	observer func(playback.MediaEvent)

	tapMu sync.Mutex
	tap   SampleSink
}

// New creates a stopped player.
func New(opts Options, log *zap.Logger) *Player {
	if log == nil {
		log = zap.NewNop()
	}
	return &Player{
		opts:        opts.withDefaults(),
		log:         log,
		state:       Stopped,
		volumeLevel: 1,
	}
}

// Observe registers the single event observer.
func (p *Player) Observe(fn func(playback.MediaEvent)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observer = fn
}

// emit delivers e to the observer. Callers must not hold p.mu.
func (p *Player) emit(e playback.MediaEvent) {
	p.mu.Lock()
	fn := p.observer
	p.mu.Unlock()
	if fn != nil {
		fn(e)
	}
}

// TrackInfo returns the tags and format of the current track, or nil.
func (p *Player) TrackInfo() *TrackInfo {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return nil
	}
	info := *p.current.info
	return &info
}

// Close releases the current stream.
func (p *Player) Close() error {
	p.Release()
	return nil
}
