// internal/playback/transport.go
package playback

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/soundfolio/player/internal/catalog"
	"github.com/soundfolio/player/internal/errmsg"
)

// Verify Transport implements Service at compile time.
var _ Service = (*Transport)(nil)

var errUnknownMedia = errors.New("media error")

// pendingPlay is a play request waiting for PlayStarted.
type pendingPlay struct {
	index int
	id    uint64
}

// Transport owns the playlist and drives a MediaPort.
// Commands and media events are serialized under mu.
type Transport struct {
	mu sync.Mutex

	media MediaPort
	log   *zap.Logger

	playlist []catalog.Track
	index    int
	state    State
	loading  bool
	loaded   bool
	position time.Duration
	duration time.Duration
	volume   float64
	errText  string

	nextID  uint64
	active  uint64
	pending *pendingPlay

	subs   []*Subscription
	subsMu sync.RWMutex

	closed bool
}

// New creates a transport with an empty playlist and full volume.
func New(media MediaPort, log *zap.Logger) *Transport {
	if log == nil {
		log = zap.NewNop()
	}
	t := &Transport{
		media:  media,
		log:    log,
		index:  -1,
		volume: 1,
	}
	media.SetVolume(t.volume)
	media.Observe(t.handleEvent)
	return t
}

// Snapshot returns a copy of the current state.
func (t *Transport) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Snapshot{
		Playlist:     slices.Clone(t.playlist),
		CurrentIndex: t.index,
		State:        t.state,
		IsPlaying:    t.state == StatePlaying,
		Loading:      t.loading,
		CurrentTime:  t.position,
		Duration:     t.duration,
		Volume:       t.volume,
		Err:          t.errText,
	}
}

// State returns the transport state.
func (t *Transport) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// IsPlaying reports whether a track is playing or about to play.
func (t *Transport) IsPlaying() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state == StatePlaying
}

// CurrentTrack returns a copy of the current track, or nil.
func (t *Transport) CurrentTrack() *catalog.Track {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.trackLocked(t.index)
}

func (t *Transport) trackLocked(i int) *catalog.Track {
	if i < 0 || i >= len(t.playlist) {
		return nil
	}
	tr := t.playlist[i]
	return &tr
}

// Play starts the track at index.
func (t *Transport) Play(index int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	return t.playLocked(index)
}

func (t *Transport) playLocked(index int) error {
	if index < 0 || index >= len(t.playlist) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(t.playlist))
	}

	prevIndex := t.index
	prev := t.trackLocked(prevIndex)

	t.media.Release()
	t.nextID++
	id := t.nextID
	t.active = id
	t.pending = &pendingPlay{index: index, id: id}
	t.index = index
	t.loading = true
	t.loaded = false
	t.position, t.duration = 0, 0
	t.errText = ""
	t.setStateLocked(StatePlaying)

	track := t.playlist[index]
	t.log.Debug("play",
		zap.Int("index", index),
		zap.String("track", track.Name),
		zap.Uint64("request", id))
	t.media.Load(LoadRequest{ID: id, URL: track.URL})

	t.emit(func(s *Subscription) {
		s.sendTrack(TrackChange{
			Previous:      prev,
			Current:       &track,
			PreviousIndex: prevIndex,
			Index:         index,
		})
	})
	return nil
}

// TogglePlay pauses a playing track, resumes a paused one, or (re)starts
// the current track.
func (t *Transport) TogglePlay() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	if len(t.playlist) == 0 {
		return nil
	}
	switch t.state {
	case StatePlaying:
		t.pauseLocked()
		return nil
	case StatePaused:
		if t.resumeLocked() {
			return nil
		}
	}
	return t.playLocked(max(t.index, 0))
}

// Pause pauses playback. It is a no-op unless playing.
func (t *Transport) Pause() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	t.pauseLocked()
	return nil
}

func (t *Transport) pauseLocked() {
	if t.state != StatePlaying {
		return
	}
	// While loading, PlayStarted pauses the media once it is ready.
	if t.loaded {
		t.media.Pause()
	}
	t.setStateLocked(StatePaused)
}

// Resume continues a paused track. It is a no-op unless paused.
func (t *Transport) Resume() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	if t.state != StatePaused {
		return nil
	}
	if !t.resumeLocked() {
		return t.playLocked(max(t.index, 0))
	}
	return nil
}

// resumeLocked resumes the loaded or loading track and reports whether
// there was one.
func (t *Transport) resumeLocked() bool {
	switch {
	case t.loaded:
		t.media.Play()
	case t.pending != nil:
	default:
		return false
	}
	t.setStateLocked(StatePlaying)
	return true
}

// Next plays the following track. No-op on the last track.
func (t *Transport) Next() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	if t.index < 0 || t.index >= len(t.playlist)-1 {
		return nil
	}
	return t.playLocked(t.index + 1)
}

// Previous plays the preceding track. No-op on the first track.
func (t *Transport) Previous() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	if t.index <= 0 {
		return nil
	}
	return t.playLocked(t.index - 1)
}

// Seek moves playback to target, clamped to [0, duration].
// Ignored while the duration is unknown.
func (t *Transport) Seek(target time.Duration) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	if t.duration <= 0 {
		return nil
	}
	target = min(max(target, 0), t.duration)
	t.media.Seek(target)
	t.position = target
	t.emitPositionLocked()
	return nil
}

// SetVolume sets the output volume, clamped to [0,1]. NaN is ignored.
func (t *Transport) SetVolume(v float64) {
	if math.IsNaN(v) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.volume = min(max(v, 0), 1)
	t.media.SetVolume(t.volume)
}

// SetPlaylist replaces the playlist and stops playback.
func (t *Transport) SetPlaylist(tracks []catalog.Track) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.playlist = slices.Clone(tracks)
	t.stopLocked()
	t.index = 0
	if len(t.playlist) == 0 {
		t.index = -1
	}
	t.errText = ""
	t.emitPlaylistLocked()
}

// RemoveTrack deletes the playlist entry at index.
// Removing the current track stops playback.
func (t *Transport) RemoveTrack(index int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	if index < 0 || index >= len(t.playlist) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(t.playlist))
	}
	t.playlist = slices.Delete(t.playlist, index, index+1)
	switch {
	case index == t.index:
		t.stopLocked()
		t.index = min(t.index, len(t.playlist)-1)
	case index < t.index:
		t.index--
		if t.pending != nil {
			t.pending.index--
		}
	}
	t.emitPlaylistLocked()
	return nil
}

// stopLocked releases the media and returns to Idle.
func (t *Transport) stopLocked() {
	t.media.Release()
	t.active = 0
	t.pending = nil
	t.loading = false
	t.loaded = false
	t.position, t.duration = 0, 0
	t.setStateLocked(StateIdle)
}

// Subscribe returns a new event subscription.
func (t *Transport) Subscribe() *Subscription {
	sub := newSubscription()
	t.subsMu.Lock()
	defer t.subsMu.Unlock()
	if t.closed {
		sub.close()
		return sub
	}
	t.subs = append(t.subs, sub)
	return sub
}

// Close releases the media and closes all subscriptions.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	// Subscribers see the final transition to Idle before Done closes.
	t.stopLocked()

	t.subsMu.Lock()
	t.closed = true
	for _, sub := range t.subs {
		sub.close()
	}
	t.subs = nil
	t.subsMu.Unlock()
	return nil
}

// handleEvent applies a media event. Events for any request other than
// the active one are stale and dropped.
func (t *Transport) handleEvent(e MediaEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed || e.Request == 0 || e.Request != t.active {
		t.log.Debug("stale media event",
			zap.Stringer("kind", e.Kind),
			zap.Uint64("request", e.Request),
			zap.Uint64("active", t.active))
		return
	}

	switch e.Kind {
	case EventPlayStarted:
		p := t.pending
		if p == nil || p.id != e.Request || p.index != t.index {
			return
		}
		t.pending = nil
		t.loading = false
		t.loaded = true
		if t.state == StatePaused {
			t.media.Pause()
		}

	case EventError:
		t.pending = nil
		t.loading = false
		t.loaded = false
		name := ""
		if tr := t.trackLocked(t.index); tr != nil {
			name = tr.Name
		}
		if e.Err == nil {
			e.Err = errUnknownMedia
		}
		t.errText = errmsg.Format(errmsg.OpPlaybackStart, e.Err)
		t.log.Warn("playback failed",
			zap.Int("index", t.index),
			zap.String("track", name),
			zap.Error(e.Err))
		t.setStateLocked(StateIdle)
		ev := ErrorEvent{Index: t.index, Track: name, Message: t.errText, Err: e.Err}
		t.emit(func(s *Subscription) { s.sendError(ev) })

	case EventEnded:
		t.loaded = false
		if t.index >= 0 && t.index < len(t.playlist)-1 {
			if err := t.playLocked(t.index + 1); err != nil {
				t.log.Warn("auto-advance failed", zap.Error(err))
			}
			return
		}
		t.active = 0
		t.position = t.duration
		t.setStateLocked(StateEnded)

	case EventTimeUpdate:
		t.position = max(e.Position, 0)
		if t.duration > 0 {
			t.position = min(t.position, t.duration)
		}
		t.emitPositionLocked()

	case EventDurationKnown:
		if e.Duration > 0 {
			t.duration = e.Duration
			t.emitPositionLocked()
		}

	case EventPaused:
		if t.state == StatePlaying {
			t.setStateLocked(StatePaused)
		}
	}
}

func (t *Transport) setStateLocked(s State) {
	if t.state == s {
		return
	}
	prev := t.state
	t.state = s
	t.emit(func(sub *Subscription) {
		sub.sendState(StateChange{Previous: prev, Current: s})
	})
}

func (t *Transport) emitPositionLocked() {
	e := PositionChange{Position: t.position, Duration: t.duration}
	t.emit(func(s *Subscription) { s.sendPosition(e) })
}

func (t *Transport) emitPlaylistLocked() {
	e := PlaylistChange{Tracks: slices.Clone(t.playlist), Index: t.index}
	t.emit(func(s *Subscription) { s.sendPlaylist(e) })
}

func (t *Transport) emit(send func(*Subscription)) {
	t.subsMu.RLock()
	defer t.subsMu.RUnlock()
	for _, sub := range t.subs {
		send(sub)
	}
}
