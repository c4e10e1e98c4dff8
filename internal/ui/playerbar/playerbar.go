// Package playerbar renders the now-playing header: track, position,
// progress and volume.
package playerbar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/soundfolio/player/internal/catalog"
	"github.com/soundfolio/player/internal/playback"
	"github.com/soundfolio/player/internal/ui/render"
	"github.com/soundfolio/player/internal/ui/styles"
)

// Height is the rendered height including the border.
const Height = 5

// State holds everything needed to render the player bar.
type State struct {
	Status   playback.State
	Loading  bool
	Title    string
	Artist   string
	Index    int // 0-based, -1 when nothing is selected
	Total    int
	Position time.Duration
	Duration time.Duration
	Progress float64 // Position/Duration in [0,1]
	Volume   float64
	Err      string

	HasPrevious bool
	HasNext     bool
}

// NewState builds a State from a transport snapshot.
// The catalog duration stands in until the media reports one.
func NewState(s playback.Snapshot) State {
	t := s.CurrentTrack()
	if t != nil && s.Duration <= 0 {
		s.Duration = t.Duration
	}
	st := State{
		Status:      s.State,
		Loading:     s.Loading,
		Index:       s.CurrentIndex,
		Total:       len(s.Playlist),
		Position:    s.CurrentTime,
		Duration:    s.Duration,
		Progress:    s.Progress(),
		Volume:      s.Volume,
		Err:         s.Err,
		HasPrevious: s.HasPrevious(),
		HasNext:     s.HasNext(),
	}
	if t != nil {
		st.Title = t.Name
		st.Artist = t.Artist
	}
	return st
}

// Render returns the bordered player bar for the given width.
func Render(s State, width int) string {
	inner := max(width-6, 10)
	lines := []string{
		headerLine(s, inner),
		progressLine(s, inner),
		footerLine(s, inner),
	}
	return barStyle.Padding(0, 2).Width(width - 2).Render(strings.Join(lines, "\n"))
}

func headerLine(s State, width int) string {
	t := styles.T().S()
	if s.Index < 0 || s.Total == 0 {
		return t.Muted.Render("Nothing selected")
	}

	position := fmt.Sprintf("%s Track %d of %d %s", navMark(s.HasPrevious, "‹"), s.Index+1, s.Total, navMark(s.HasNext, "›"))
	avail := max(width-lipgloss.Width(position)-4, 5)

	title := s.Title
	artist := s.Artist
	if artist == "" {
		artist = catalog.UnknownArtist
	}
	text := t.Title.Render(render.Truncate(title, avail))
	if rest := avail - lipgloss.Width(title) - 3; rest > 3 {
		text += t.Muted.Render(" · " + render.Truncate(artist, rest))
	}
	return render.Row(statusSymbol(s)+" "+text, t.Subtle.Render(position), width)
}

func navMark(ok bool, mark string) string {
	if ok {
		return mark
	}
	return " "
}

func progressLine(s State, width int) string {
	pos, progress := s.Position, s.Progress
	if !s.Status.Audible() && s.Status != playback.StateEnded {
		pos, progress = 0, 0
	}
	return styles.T().S().Muted.Render(RenderProgressBar(pos, s.Duration, progress, width))
}

func footerLine(s State, width int) string {
	t := styles.T().S()
	left := t.Subtle.Render(statusText(s))
	if s.Err != "" {
		left = t.Error.Render(render.Truncate(s.Err, max(width-12, 5)))
	}
	return render.Row(left, RenderVolume(s.Volume), width)
}

func statusSymbol(s State) string {
	switch {
	case s.Loading:
		return "…"
	case s.Status == playback.StatePlaying:
		return playSymbol
	case s.Status == playback.StatePaused:
		return pauseSymbol
	default:
		return stopSymbol
	}
}

func statusText(s State) string {
	if s.Loading {
		return "Loading"
	}
	switch s.Status {
	case playback.StatePlaying:
		return "Playing"
	case playback.StatePaused:
		return "Paused"
	case playback.StateEnded:
		return "Finished"
	default:
		return "Stopped"
	}
}
