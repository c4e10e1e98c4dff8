// Package tracklist renders the selectable playlist with its loading,
// empty and error states.
package tracklist

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/soundfolio/player/internal/catalog"
	"github.com/soundfolio/player/internal/ui/playerbar"
	"github.com/soundfolio/player/internal/ui/render"
	"github.com/soundfolio/player/internal/ui/styles"
)

// RetryHint follows the empty or error message.
const RetryHint = "Press r to retry."

// Model is the cursor and scroll position over the playlist.
type Model struct {
	cursor int
	offset int
}

// Cursor returns the highlighted row.
func (m Model) Cursor() int { return m.cursor }

// Move shifts the cursor by delta rows, clamped to n tracks.
func (m Model) Move(delta, n int) Model {
	return m.Jump(m.cursor+delta, n)
}

// Jump places the cursor on row i, clamped to n tracks.
func (m Model) Jump(i, n int) Model {
	if n == 0 {
		return Model{}
	}
	m.cursor = min(max(i, 0), n-1)
	return m
}

// Clamp keeps the cursor inside a playlist of n tracks.
func (m Model) Clamp(n int) Model {
	return m.Jump(m.cursor, n)
}

// scroll keeps the cursor inside a window of height rows.
func (m Model) scroll(height int) Model {
	if height <= 0 {
		return m
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+height {
		m.offset = m.cursor - height + 1
	}
	m.offset = max(m.offset, 0)
	return m
}

// Content is what the list shows besides the cursor.
type Content struct {
	Tracks  []catalog.Track
	Current int // index of the transport's track, -1 for none
	Playing bool
	Loading bool
	Message string // catalog message shown when Tracks is empty
}

// Render draws the list in width x height cells and returns the model
// with its scroll offset updated.
func (m Model) Render(c Content, width, height int) (Model, string) {
	s := styles.T().S()
	if height <= 0 || width <= 0 {
		return m, ""
	}

	switch {
	case c.Loading && len(c.Tracks) == 0:
		return m, fill([]string{s.Muted.Render("Loading tracks…")}, width, height)
	case len(c.Tracks) == 0:
		msg := c.Message
		if msg == "" {
			msg = "No tracks."
		}
		lines := []string{s.Warning.Render(render.Truncate(msg, width)), s.Subtle.Render(RetryHint)}
		return m, fill(lines, width, height)
	}

	m = m.Clamp(len(c.Tracks)).scroll(height)
	end := min(m.offset+height, len(c.Tracks))
	lines := make([]string, 0, height)
	for i := m.offset; i < end; i++ {
		lines = append(lines, row(c, i, i == m.cursor, width))
	}
	return m, fill(lines, width, height)
}

func row(c Content, i int, selected bool, width int) string {
	s := styles.T().S()
	t := c.Tracks[i]

	marker := "  "
	if i == c.Current {
		marker = "○ "
		if c.Playing {
			marker = "▶ "
		}
	}

	right := ""
	if t.Duration > 0 {
		right = playerbar.FormatDuration(t.Duration)
	}
	artist := t.Artist
	if artist == "" {
		artist = catalog.UnknownArtist
	}
	avail := max(width-lipgloss.Width(right)-1, 1)
	main := render.Truncate(marker+t.Name+" · "+artist, avail)
	desc := ""
	if d := strings.Join(strings.Fields(t.Description), " "); d != "" {
		desc = render.Truncate(" · "+d, avail-lipgloss.Width(main))
	}
	gap := max(width-lipgloss.Width(main)-lipgloss.Width(desc)-lipgloss.Width(right), 1)

	style, muted := s.Base, s.Muted
	switch {
	case selected:
		style = s.Cursor
		muted = s.Muted.Background(styles.T().BgCursor)
	case i == c.Current:
		style = s.Playing
	}
	// The description keeps its muted colour without breaking the row style.
	return style.Render(main) + muted.Render(desc) + style.Render(strings.Repeat(" ", gap)+right)
}

func fill(lines []string, width, height int) string {
	out := make([]string, height)
	for i := range height {
		if i < len(lines) {
			out[i] = lines[i]
			continue
		}
		out[i] = strings.Repeat(" ", width)
	}
	return strings.Join(out, "\n")
}
