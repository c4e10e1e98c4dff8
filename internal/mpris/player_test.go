//go:build linux

package mpris

import (
	"testing"
	"time"

	"github.com/quarckster/go-mpris-server/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundfolio/player/internal/catalog"
	"github.com/soundfolio/player/internal/playback"
)

func newTestAdapter(t *testing.T) (*playerAdapter, *playback.Transport, *playback.MockMedia) {
	t.Helper()
	media := playback.NewMockMedia()
	tr := playback.New(media, nil)
	t.Cleanup(func() { _ = tr.Close() })
	tr.SetPlaylist([]catalog.Track{
		{ID: 1, Name: "Intro", URL: "https://cdn.example.com/songlist1/intro.mp3", Artist: "Nova"},
		{ID: 2, Name: "Outro", URL: "https://cdn.example.com/songlist1/outro.mp3"},
	})
	return &playerAdapter{service: tr}, tr, media
}

func TestPlayerAdapter_PlayPauseToggles(t *testing.T) {
	p, tr, media := newTestAdapter(t)

	require.NoError(t, p.PlayPause())
	assert.Equal(t, playback.StatePlaying, tr.State())
	media.SimulateStarted(media.LastLoad().ID, 3*time.Minute)

	require.NoError(t, p.PlayPause())
	assert.Equal(t, playback.StatePaused, tr.State())

	st, err := p.PlaybackStatus()
	require.NoError(t, err)
	assert.Equal(t, types.PlaybackStatusPaused, st)

	require.NoError(t, p.Play())
	assert.Equal(t, playback.StatePlaying, tr.State())
}

func TestPlayerAdapter_NextPrevious(t *testing.T) {
	p, tr, _ := newTestAdapter(t)
	require.NoError(t, tr.Play(0))

	prev, _ := p.CanGoPrevious()
	next, _ := p.CanGoNext()
	assert.False(t, prev)
	assert.True(t, next)

	require.NoError(t, p.Next())
	assert.Equal(t, 1, tr.Snapshot().CurrentIndex)

	next, _ = p.CanGoNext()
	assert.False(t, next)

	require.NoError(t, p.Previous())
	assert.Equal(t, 0, tr.Snapshot().CurrentIndex)
}

func TestPlayerAdapter_SeekIsRelative(t *testing.T) {
	p, tr, media := newTestAdapter(t)
	require.NoError(t, tr.Play(0))
	id := media.LastLoad().ID
	media.SimulateStarted(id, 3*time.Minute)
	media.SimulateTime(id, 30*time.Second)

	require.NoError(t, p.Seek(types.Microseconds(15*time.Second/time.Microsecond)))
	assert.Equal(t, 45*time.Second, tr.Snapshot().CurrentTime)

	pos, err := p.Position()
	require.NoError(t, err)
	assert.Equal(t, (45 * time.Second).Microseconds(), pos)
}

func TestPlayerAdapter_SetPositionChecksTrack(t *testing.T) {
	p, tr, media := newTestAdapter(t)
	require.NoError(t, tr.Play(0))
	media.SimulateStarted(media.LastLoad().ID, 3*time.Minute)

	require.NoError(t, p.SetPosition("/org/soundfolio/track/2", types.Microseconds(time.Minute/time.Microsecond)))
	assert.Zero(t, tr.Snapshot().CurrentTime)

	require.NoError(t, p.SetPosition("/org/soundfolio/track/1", types.Microseconds(time.Minute/time.Microsecond)))
	assert.Equal(t, time.Minute, tr.Snapshot().CurrentTime)
}

func TestPlayerAdapter_Volume(t *testing.T) {
	p, _, media := newTestAdapter(t)

	require.NoError(t, p.SetVolume(0.25))
	v, err := p.Volume()
	require.NoError(t, err)
	assert.InDelta(t, 0.25, v, 1e-9)
	assert.InDelta(t, 0.25, media.Volume(), 1e-9)
}

func TestPlayerAdapter_Metadata(t *testing.T) {
	p, tr, media := newTestAdapter(t)

	meta, err := p.Metadata()
	require.NoError(t, err)
	assert.Empty(t, meta.Title)

	require.NoError(t, tr.Play(0))
	media.SimulateStarted(media.LastLoad().ID, 2*time.Minute)

	meta, err = p.Metadata()
	require.NoError(t, err)
	assert.Equal(t, "Intro", meta.Title)
	assert.Equal(t, []string{"Nova"}, meta.Artist)
	assert.Equal(t, "https://cdn.example.com/songlist1/intro.mp3", meta.Url)
	assert.Equal(t, types.Microseconds((2 * time.Minute).Microseconds()), meta.Length)
	assert.EqualValues(t, "/org/soundfolio/track/1", meta.TrackId)

	require.NoError(t, tr.Play(1))
	meta, err = p.Metadata()
	require.NoError(t, err)
	assert.Equal(t, []string{catalog.UnknownArtist}, meta.Artist)
}

func TestStatus(t *testing.T) {
	tests := []struct {
		state playback.State
		want  types.PlaybackStatus
	}{
		{playback.StateIdle, types.PlaybackStatusStopped},
		{playback.StatePlaying, types.PlaybackStatusPlaying},
		{playback.StatePaused, types.PlaybackStatusPaused},
		{playback.StateEnded, types.PlaybackStatusStopped},
	}
	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, status(tt.state))
		})
	}
}
