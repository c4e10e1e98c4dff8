//go:build linux

// Package mpris exposes the playback transport on the session bus as an
// MPRIS2 media player, so desktop media keys and applets can drive it.
package mpris

import (
	"sync"

	"github.com/quarckster/go-mpris-server/pkg/server"
	"go.uber.org/zap"

	"github.com/soundfolio/player/internal/playback"
)

const busName = "soundfolio"

// Adapter connects a playback.Service to MPRIS over D-Bus.
type Adapter struct {
	server *server.Server
	log    *zap.Logger
	done   chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
}

// New creates and starts a new MPRIS adapter.
func New(service playback.Service, log *zap.Logger) (*Adapter, error) {
	if log == nil {
		log = zap.NewNop()
	}
	a := &Adapter{
		server: server.NewServer(busName, &rootAdapter{}, &playerAdapter{service: service}),
		log:    log,
		done:   make(chan struct{}),
	}

	go func() {
		if err := a.server.Listen(); err != nil {
			log.Warn("mpris listener stopped", zap.Error(err))
		}
	}()

	a.wg.Add(1)
	go a.follow(service.Subscribe())
	return a, nil
}

// follow stops serving once the transport shuts down.
func (a *Adapter) follow(sub *playback.Subscription) {
	defer a.wg.Done()
	for {
		select {
		case <-a.done:
			return
		case <-sub.Done:
			a.log.Debug("transport closed, leaving the bus")
			a.stop()
			return
		case e := <-sub.TrackChanged:
			if e.Current != nil {
				a.log.Debug("track", zap.String("id", string(trackID(*e.Current))))
			}
		case <-sub.StateChanged:
		case <-sub.PositionChanged:
		case <-sub.PlaylistChanged:
		case <-sub.Error:
		}
	}
}

func (a *Adapter) stop() error {
	var err error
	a.once.Do(func() {
		err = a.server.Stop()
	})
	return err
}

// Close stops the adapter and releases D-Bus resources.
func (a *Adapter) Close() error {
	select {
	case <-a.done:
	default:
		close(a.done)
	}
	a.wg.Wait()
	return a.stop()
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error { return nil }

// Quit is ignored; the terminal owns the process lifetime.
func (r *rootAdapter) Quit() error { return nil }

func (r *rootAdapter) CanQuit() (bool, error)      { return false, nil }
func (r *rootAdapter) CanRaise() (bool, error)     { return false, nil }
func (r *rootAdapter) HasTrackList() (bool, error) { return false, nil }
func (r *rootAdapter) Identity() (string, error)   { return "Soundfolio", nil }

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"http", "https"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/mpeg", "audio/flac", "audio/wav", "audio/ogg", "audio/mp4", "audio/aac"}, nil
}
