//go:build linux

package mpris

import (
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/soundfolio/player/internal/catalog"
	"github.com/soundfolio/player/internal/playback"
)

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter.
type playerAdapter struct {
	service playback.Service
}

func (p *playerAdapter) Next() error      { return p.service.Next() }
func (p *playerAdapter) Previous() error  { return p.service.Previous() }
func (p *playerAdapter) Pause() error     { return p.service.Pause() }
func (p *playerAdapter) PlayPause() error { return p.service.TogglePlay() }

// Stop pauses; the transport keeps the track loaded so Play resumes it.
func (p *playerAdapter) Stop() error { return p.service.Pause() }

func (p *playerAdapter) Play() error {
	if p.service.State() == playback.StatePaused {
		return p.service.Resume()
	}
	if p.service.IsPlaying() {
		return nil
	}
	return p.service.TogglePlay()
}

// Seek moves relative to the current position.
func (p *playerAdapter) Seek(offset types.Microseconds) error {
	snap := p.service.Snapshot()
	return p.service.Seek(snap.CurrentTime + time.Duration(offset)*time.Microsecond)
}

func (p *playerAdapter) SetPosition(id string, position types.Microseconds) error {
	t := p.service.CurrentTrack()
	if t == nil || string(trackID(*t)) != id {
		return nil
	}
	return p.service.Seek(time.Duration(position) * time.Microsecond)
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(_ string) error { return nil }

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	return status(p.service.State()), nil
}

func status(s playback.State) types.PlaybackStatus {
	switch s {
	case playback.StatePlaying:
		return types.PlaybackStatusPlaying
	case playback.StatePaused:
		return types.PlaybackStatusPaused
	case playback.StateIdle, playback.StateEnded:
		return types.PlaybackStatusStopped
	}
	return types.PlaybackStatusStopped
}

func (p *playerAdapter) Rate() (float64, error)        { return 1.0, nil }
func (p *playerAdapter) SetRate(_ float64) error       { return nil }
func (p *playerAdapter) MinimumRate() (float64, error) { return 1.0, nil }
func (p *playerAdapter) MaximumRate() (float64, error) { return 1.0, nil }

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	snap := p.service.Snapshot()
	t := snap.CurrentTrack()
	if t == nil {
		return types.Metadata{}, nil
	}
	length := t.Duration
	if snap.Duration > 0 {
		length = snap.Duration
	}
	artist := t.Artist
	if artist == "" {
		artist = catalog.UnknownArtist
	}
	return types.Metadata{
		TrackId: trackID(*t),
		Length:  types.Microseconds(length.Microseconds()),
		Title:   t.Name,
		Artist:  []string{artist},
		Url:     t.URL,
	}, nil
}

func (p *playerAdapter) Volume() (float64, error) {
	return p.service.Snapshot().Volume, nil
}

func (p *playerAdapter) SetVolume(v float64) error {
	p.service.SetVolume(v)
	return nil
}

func (p *playerAdapter) Position() (int64, error) {
	return p.service.Snapshot().CurrentTime.Microseconds(), nil
}

func (p *playerAdapter) CanGoNext() (bool, error) {
	return p.service.Snapshot().HasNext(), nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return p.service.Snapshot().HasPrevious(), nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	return len(p.service.Snapshot().Playlist) > 0, nil
}

func (p *playerAdapter) CanPause() (bool, error)   { return true, nil }
func (p *playerAdapter) CanSeek() (bool, error)    { return p.service.Snapshot().Duration > 0, nil }
func (p *playerAdapter) CanControl() (bool, error) { return true, nil }

func trackID(t catalog.Track) dbus.ObjectPath {
	return dbus.ObjectPath(fmt.Sprintf("/org/soundfolio/track/%d", t.ID))
}
