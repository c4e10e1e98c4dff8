// Package session wires the catalog loader, the playback transport and the
// spectrum pipeline into the single object the front end talks to.
package session

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/soundfolio/player/internal/catalog"
	"github.com/soundfolio/player/internal/errmsg"
	"github.com/soundfolio/player/internal/metrics"
	"github.com/soundfolio/player/internal/playback"
	"github.com/soundfolio/player/internal/player"
	"github.com/soundfolio/player/internal/spectrum"
	"github.com/soundfolio/player/internal/state"
)

// EmptyCatalogMessage is shown when no backend produced a track.
const EmptyCatalogMessage = "No tracks found. Upload audio files to the storage bucket or add them to the registry."

// CatalogLoader loads the track catalog.
type CatalogLoader interface {
	Load(ctx context.Context) catalog.Result
}

// Visualizer is the spectrum pipeline as seen by the session.
type Visualizer interface {
	Start()
	Stop()
	Close()
	Current() spectrum.Snapshot
	OnFrame(fn func(spectrum.Snapshot))
}

// Resumer persists the volume and last track between runs.
type Resumer interface {
	Save(state.State)
}

// Announcer tells the desktop about track starts.
type Announcer interface {
	Track(catalog.Track) error
}

// TagReader exposes the tags embedded in the loaded track.
type TagReader interface {
	TrackInfo() *player.TrackInfo
}

// CatalogStatus describes the last catalog load.
type CatalogStatus struct {
	Loading     bool
	Source      catalog.Source
	Count       int
	Dropped     int
	Message     string // user-visible; empty when tracks were found
	LoadedAt    time.Time
	ResumeIndex int // index of the last played track in the new playlist, or -1
}

// View is everything the presentation layer renders.
type View struct {
	Playback playback.Snapshot
	Spectrum spectrum.Snapshot
	Catalog  CatalogStatus
}

// Session owns the transport and the visualizer for one player instance.
type Session struct {
	id        string
	loader    CatalogLoader
	transport playback.Service
	visual    Visualizer
	metrics   *metrics.Metrics
	log       *zap.Logger
	closers   []io.Closer

	mu      sync.Mutex
	status  CatalogStatus
	resumer Resumer
	saved   state.State
	herald  Announcer
	tags    TagReader

	changes chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
}

// New creates a session and starts following the transport's events.
// Closing the session closes the transport and the visualizer.
func New(loader CatalogLoader, transport playback.Service, visual Visualizer, m *metrics.Metrics, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	id := uuid.NewString()
	s := &Session{
		id:        id,
		loader:    loader,
		transport: transport,
		visual:    visual,
		metrics:   m,
		log:       log.With(zap.String("session", id)),
		changes:   make(chan struct{}, 1),
		status:    CatalogStatus{ResumeIndex: -1},
	}
	visual.OnFrame(func(spectrum.Snapshot) { m.SpectrumFrame() })

	sub := transport.Subscribe()
	s.wg.Add(1)
	go s.watch(sub)
	return s
}

// Resume restores the saved volume and remembers the saved track so the
// next catalog load can point at it. Later changes are saved through r.
func (s *Session) Resume(r Resumer, saved state.State, found bool) {
	s.mu.Lock()
	s.resumer = r
	if found {
		s.saved = saved
	}
	s.mu.Unlock()
	if found {
		s.transport.SetVolume(saved.Volume)
	}
}

func (s *Session) save() {
	s.mu.Lock()
	r := s.resumer
	s.mu.Unlock()
	if r == nil {
		return
	}
	snap := s.transport.Snapshot()
	st := state.State{Volume: snap.Volume}
	if t := snap.CurrentTrack(); t != nil && snap.State != playback.StateIdle {
		st.TrackID = t.ID
		st.TrackURL = t.URL
	} else {
		s.mu.Lock()
		st.TrackID, st.TrackURL = s.saved.TrackID, s.saved.TrackURL
		s.mu.Unlock()
	}
	r.Save(st)
}

// ID returns the session identifier used in logs.
func (s *Session) ID() string { return s.id }

// Transport returns the playback transport for issuing commands.
func (s *Session) Transport() playback.Service { return s.transport }

// Changes signals after state changes worth a redraw. Signals coalesce.
func (s *Session) Changes() <-chan struct{} { return s.changes }

// Announce sends every track start to a.
func (s *Session) Announce(a Announcer) {
	s.mu.Lock()
	s.herald = a
	s.mu.Unlock()
}

// UseTags fills in missing artists of the playing track from r.
func (s *Session) UseTags(r TagReader) {
	s.mu.Lock()
	s.tags = r
	s.mu.Unlock()
}

func (s *Session) announce(t catalog.Track) {
	s.mu.Lock()
	a := s.herald
	s.mu.Unlock()
	if a == nil {
		return
	}
	if err := a.Track(t); err != nil {
		s.log.Debug("announce track", zap.Error(err))
	}
}

func (s *Session) notify() {
	select {
	case s.changes <- struct{}{}:
	default:
	}
}

// watch keeps the visualizer in step with the transport.
func (s *Session) watch(sub *playback.Subscription) {
	defer s.wg.Done()
	for {
		select {
		case <-sub.Done:
			return
		case <-sub.StateChanged:
		case e := <-sub.TrackChanged:
			s.metrics.TrackStarted()
			// A new track never inherits the previous track's pending frame.
			s.visual.Stop()
			if e.Current != nil {
				s.log.Info("track requested",
					zap.Int("index", e.Index),
					zap.String("name", e.Current.Name))
				s.mu.Lock()
				s.saved.TrackID, s.saved.TrackURL = e.Current.ID, e.Current.URL
				s.mu.Unlock()
				s.save()
				s.announce(*e.Current)
			}
		case e := <-sub.Error:
			s.metrics.PlaybackError()
			s.log.Warn("playback error", zap.String("track", e.Track), zap.Error(e.Err))
		case <-sub.PlaylistChanged:
		case <-sub.PositionChanged:
		}
		s.syncVisualizer()
		s.notify()
	}
}

func (s *Session) syncVisualizer() {
	if s.transport.IsPlaying() {
		s.visual.Start()
	} else {
		s.visual.Stop()
	}
}

// RefreshCatalog reloads the catalog and replaces the playlist.
func (s *Session) RefreshCatalog(ctx context.Context) CatalogStatus {
	s.mu.Lock()
	s.status.Loading = true
	s.mu.Unlock()
	s.notify()

	start := time.Now()
	res := s.loader.Load(ctx)
	took := time.Since(start)

	s.transport.SetPlaylist(res.Tracks)
	s.metrics.CatalogLoaded(res.Source.String(), res.Dropped, took)

	s.mu.Lock()
	saved := s.saved
	s.mu.Unlock()

	status := CatalogStatus{
		Source:      res.Source,
		Count:       len(res.Tracks),
		Dropped:     res.Dropped,
		LoadedAt:    time.Now(),
		ResumeIndex: resumeIndex(res.Tracks, saved),
	}
	if len(res.Tracks) == 0 {
		status.Message = EmptyCatalogMessage
		if res.Err != nil {
			status.Message = errmsg.Format(errmsg.OpCatalogLoad, res.Err)
		}
	}

	s.log.Info("catalog loaded",
		zap.Stringer("source", res.Source),
		zap.Int("tracks", status.Count),
		zap.Int("dropped", status.Dropped),
		zap.Duration("took", took))

	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
	s.notify()
	return status
}

// resumeIndex finds the saved track by URL, or by id for registry rows
// saved without a URL.
func resumeIndex(tracks []catalog.Track, saved state.State) int {
	if saved.TrackID == 0 && saved.TrackURL == "" {
		return -1
	}
	for i, t := range tracks {
		if saved.TrackURL != "" {
			if t.URL == saved.TrackURL {
				return i
			}
			continue
		}
		if t.ID == saved.TrackID {
			return i
		}
	}
	return -1
}

// CatalogStatus returns the last catalog load status.
func (s *Session) CatalogStatus() CatalogStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// View returns a consistent-enough copy of everything to render.
func (s *Session) View() View {
	v := View{
		Playback: s.transport.Snapshot(),
		Spectrum: s.visual.Current(),
		Catalog:  s.CatalogStatus(),
	}
	s.fillArtist(&v.Playback)
	return v
}

// fillArtist replaces a missing artist on the current track with the one
// tagged in the loaded file. snap owns its playlist copy.
func (s *Session) fillArtist(snap *playback.Snapshot) {
	s.mu.Lock()
	r := s.tags
	s.mu.Unlock()
	if r == nil || snap.CurrentIndex < 0 || snap.CurrentIndex >= len(snap.Playlist) {
		return
	}
	t := &snap.Playlist[snap.CurrentIndex]
	if t.Artist != "" && t.Artist != catalog.UnknownArtist {
		return
	}
	info := r.TrackInfo()
	if info == nil || info.URL != t.URL || info.Artist == "" {
		return
	}
	t.Artist = info.Artist
}

// Close tears down the visualizer, the transport and any backends handed
// to the session.
func (s *Session) Close() error {
	var err error
	s.once.Do(func() {
		s.save()
		s.visual.Close()
		err = s.transport.Close()
		s.wg.Wait()
		for i := len(s.closers) - 1; i >= 0; i-- {
			if cerr := s.closers[i].Close(); cerr != nil && err == nil {
				err = cerr
			}
		}
	})
	return err
}
