package tracklist

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundfolio/player/internal/catalog"
)

func someTracks(n int) []catalog.Track {
	out := make([]catalog.Track, n)
	for i := range out {
		out[i] = catalog.Track{ID: int64(i + 1), Name: "Track " + string(rune('A'+i)), Artist: "Band"}
	}
	return out
}

func TestModel_Move(t *testing.T) {
	var m Model
	m = m.Move(1, 3)
	assert.Equal(t, 1, m.Cursor())
	m = m.Move(10, 3)
	assert.Equal(t, 2, m.Cursor())
	m = m.Move(-10, 3)
	assert.Equal(t, 0, m.Cursor())
	m = m.Jump(2, 0)
	assert.Equal(t, 0, m.Cursor(), "empty list resets")
}

func TestModel_ClampAfterRemoval(t *testing.T) {
	m := Model{}.Jump(4, 5)
	m = m.Clamp(3)
	assert.Equal(t, 2, m.Cursor())
}

func TestRender_Loading(t *testing.T) {
	_, out := Model{}.Render(Content{Loading: true, Current: -1}, 40, 3)
	assert.Contains(t, out, "Loading tracks")
	assert.Equal(t, 3, lipgloss.Height(out))
}

func TestRender_EmptyShowsMessageAndRetry(t *testing.T) {
	_, out := Model{}.Render(Content{Current: -1, Message: "No tracks found."}, 60, 4)
	assert.Contains(t, out, "No tracks found.")
	assert.Contains(t, out, RetryHint)
}

func TestRender_Rows(t *testing.T) {
	tracks := someTracks(3)
	tracks[1].Duration = 83 * time.Second
	tracks[2].Artist = ""

	_, out := Model{}.Render(Content{Tracks: tracks, Current: 1, Playing: true}, 50, 5)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 5)

	assert.Contains(t, lines[0], "Track A · Band")
	assert.Contains(t, lines[1], "▶ Track B")
	assert.Contains(t, lines[1], "1:23")
	assert.Contains(t, lines[2], catalog.UnknownArtist)
	for _, l := range lines {
		assert.Equal(t, 50, lipgloss.Width(l))
	}
}

func TestRender_Description(t *testing.T) {
	tracks := someTracks(3)
	tracks[0].Description = "Live at the\nHarbour Stage"
	tracks[1].Description = "A very long description that cannot possibly fit on one row"
	tracks[1].Duration = 3 * time.Minute

	_, out := Model{}.Render(Content{Tracks: tracks, Current: -1}, 50, 3)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)

	assert.Contains(t, lines[0], "Track A · Band")
	assert.Contains(t, lines[0], "Live at the Harbour Stage")
	assert.Contains(t, lines[1], "A very long")
	assert.Contains(t, lines[1], "…")
	assert.Contains(t, lines[1], "3:00")
	assert.NotContains(t, lines[2], " ·  ")
	for _, l := range lines {
		assert.Equal(t, 50, lipgloss.Width(l))
	}
}

func TestRender_PausedMarker(t *testing.T) {
	_, out := Model{}.Render(Content{Tracks: someTracks(2), Current: 0}, 40, 2)
	assert.Contains(t, out, "○ Track A")
}

func TestRender_ScrollsToCursor(t *testing.T) {
	m := Model{}.Jump(7, 10)
	m, out := m.Render(Content{Tracks: someTracks(10), Current: -1}, 40, 3)

	assert.Equal(t, 5, m.offset)
	assert.Contains(t, out, "Track H")
	assert.NotContains(t, out, "Track E")

	m = m.Jump(1, 10)
	m, _ = m.Render(Content{Tracks: someTracks(10), Current: -1}, 40, 3)
	assert.Equal(t, 1, m.offset)
}
