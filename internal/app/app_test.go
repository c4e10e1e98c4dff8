package app

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundfolio/player/internal/catalog"
	"github.com/soundfolio/player/internal/playback"
	"github.com/soundfolio/player/internal/session"
	"github.com/soundfolio/player/internal/spectrum"
)

type stubLoader struct{ result catalog.Result }

func (s stubLoader) Load(context.Context) catalog.Result { return s.result }

type stubPort struct{}

func (stubPort) Attach(any) (spectrum.Handle, error) { return "h", nil }
func (stubPort) ReadSnapshot(spectrum.Handle) []byte { return make([]byte, 256) }
func (stubPort) Release(spectrum.Handle)             {}

func newTestModel(t *testing.T, res catalog.Result) (Model, *playback.MockMedia) {
	t.Helper()
	media := playback.NewMockMedia()
	pipe := spectrum.NewPipeline(stubPort{}, media, spectrum.NewManualClock(), spectrum.DefaultConfig(), nil)
	s := session.New(stubLoader{result: res}, playback.New(media, nil), pipe, nil, nil)
	t.Cleanup(func() { _ = s.Close() })

	m := New(context.Background(), s, 0)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = updated.(Model)

	status := s.RefreshCatalog(context.Background())
	updated, _ = m.Update(CatalogLoadedMsg{Status: status})
	return updated.(Model), media
}

func threeTracks() catalog.Result {
	return catalog.Result{
		Source: catalog.SourceRegistry,
		Tracks: []catalog.Track{
			{ID: 1, Name: "Opening", Artist: "Quartet", URL: "https://cdn.example.com/1.mp3"},
			{ID: 2, Name: "Interlude", Artist: "Quartet", URL: "https://cdn.example.com/2.mp3"},
			{ID: 3, Name: "Finale", URL: "https://cdn.example.com/3.mp3"},
		},
	}
}

func press(t *testing.T, m Model, key string) (Model, tea.Cmd) {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case " ":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "right":
		msg = tea.KeyMsg{Type: tea.KeyRight}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func TestModel_InitialView(t *testing.T) {
	m, _ := newTestModel(t, threeTracks())

	out := m.View()
	assert.Contains(t, out, "soundfolio")
	assert.Contains(t, out, "registry · 3 tracks")
	assert.Contains(t, out, "Opening · Quartet")
	assert.Contains(t, out, "Finale · "+catalog.UnknownArtist)
	assert.Contains(t, out, "Track 1 of 3")
}

func TestModel_EmptyCatalog(t *testing.T) {
	m, _ := newTestModel(t, catalog.Result{})

	out := m.View()
	assert.Contains(t, out, "No tracks found.")
	assert.Contains(t, out, "Press r to retry.")
	assert.Contains(t, out, "Nothing selected")
}

func TestModel_SelectPlaysCursorTrack(t *testing.T) {
	m, media := newTestModel(t, threeTracks())

	m, _ = press(t, m, "j")
	m, _ = press(t, m, "enter")

	assert.Equal(t, "https://cdn.example.com/2.mp3", media.LastLoad().URL)
	assert.Equal(t, 1, m.view.Playback.CurrentIndex)
	assert.Contains(t, m.View(), "Track 2 of 3")
}

func TestModel_SpaceToggles(t *testing.T) {
	m, media := newTestModel(t, threeTracks())

	m, _ = press(t, m, " ")
	require.Len(t, media.Loads(), 1)
	assert.Equal(t, "https://cdn.example.com/1.mp3", media.LastLoad().URL)

	media.SimulateStarted(media.LastLoad().ID, time.Minute)
	m, _ = press(t, m, " ")
	assert.Equal(t, playback.StatePaused, m.view.Playback.State)
}

func TestModel_NextMovesCursor(t *testing.T) {
	m, _ := newTestModel(t, threeTracks())

	m, _ = press(t, m, "n")
	m, _ = press(t, m, "n")
	assert.Equal(t, 2, m.list.Cursor())

	m, _ = press(t, m, "n")
	assert.Empty(t, m.notice, "end of playlist is not an error")
	assert.Equal(t, 2, m.view.Playback.CurrentIndex)
}

func TestModel_SeekAndVolume(t *testing.T) {
	m, media := newTestModel(t, threeTracks())
	m, _ = press(t, m, "enter")
	media.SimulateStarted(media.LastLoad().ID, time.Minute)
	m = m.sync()

	m, _ = press(t, m, "right")
	require.NotEmpty(t, media.Seeks())
	assert.Equal(t, 5*time.Second, media.Seeks()[len(media.Seeks())-1])

	m, _ = press(t, m, "-")
	assert.InDelta(t, 0.9, m.view.Playback.Volume, 1e-9)
	m, _ = press(t, m, "+")
	m, _ = press(t, m, "+")
	assert.InDelta(t, 1.0, m.view.Playback.Volume, 1e-9)
}

func TestModel_RemoveClampsCursor(t *testing.T) {
	m, _ := newTestModel(t, threeTracks())
	m, _ = press(t, m, "G")
	assert.Equal(t, 2, m.list.Cursor())

	m, _ = press(t, m, "x")

	assert.Len(t, m.view.Playback.Playlist, 2)
	assert.Equal(t, 1, m.list.Cursor())
	assert.NotContains(t, m.View(), "Finale")
}

func TestModel_Quit(t *testing.T) {
	m, _ := newTestModel(t, threeTracks())
	_, cmd := press(t, m, "q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_HelpToggle(t *testing.T) {
	m, _ := newTestModel(t, threeTracks())
	m, _ = press(t, m, "?")
	assert.True(t, m.showHelp)
	assert.Contains(t, m.View(), "Play/pause")
}

func TestModel_FrameReschedules(t *testing.T) {
	m, _ := newTestModel(t, threeTracks())
	_, cmd := m.Update(FrameMsg(time.Now()))
	assert.NotNil(t, cmd)
}

func TestModel_ZeroSizeRendersNothing(t *testing.T) {
	media := playback.NewMockMedia()
	pipe := spectrum.NewPipeline(stubPort{}, media, spectrum.NewManualClock(), spectrum.DefaultConfig(), nil)
	s := session.New(stubLoader{}, playback.New(media, nil), pipe, nil, nil)
	defer s.Close()

	assert.Empty(t, strings.TrimSpace(New(context.Background(), s, 0).View()))
}

func TestModel_SpinnerWhileLoading(t *testing.T) {
	m, media := newTestModel(t, threeTracks())

	m, _ = press(t, m, " ")
	updated, _ := m.Update(FrameMsg{})
	m = updated.(Model)
	require.True(t, m.view.Playback.Loading)
	assert.True(t, m.spinning)

	media.SimulateStarted(media.LastLoad().ID, time.Minute)
	updated, _ = m.Update(FrameMsg{})
	m = updated.(Model)
	updated, cmd := m.Update(spinner.TickMsg{})
	m = updated.(Model)
	assert.False(t, m.spinning)
	assert.Nil(t, cmd)
}
