package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/soundfolio/player/internal/ui/playerbar"
	"github.com/soundfolio/player/internal/ui/render"
	"github.com/soundfolio/player/internal/ui/styles"
	"github.com/soundfolio/player/internal/ui/tracklist"
	"github.com/soundfolio/player/internal/ui/visualizer"
)

const (
	headerHeight     = 1
	footerHeight     = 1
	visualizerHeight = 8
	minListHeight    = 3
)

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	t := styles.T()
	s := t.S()

	header := render.Row(
		styles.ApplyBoldGradient("soundfolio", t.Primary, t.Secondary),
		s.Subtle.Render(m.catalogSummary()),
		m.width,
	)

	visHeight := visualizerHeight
	listHeight := m.height - headerHeight - footerHeight - playerbar.Height - visHeight
	if listHeight < minListHeight {
		visHeight = max(visHeight-(minListHeight-listHeight), 0)
		listHeight = max(m.height-headerHeight-footerHeight-playerbar.Height-visHeight, 0)
	}

	parts := []string{header}
	if visHeight > 0 {
		parts = append(parts, visualizer.Render(m.view.Spectrum, m.width, visHeight))
	}
	parts = append(parts, playerbar.Render(playerbar.NewState(m.view.Playback), m.width))

	pb := m.view.Playback
	_, list := m.list.Render(tracklist.Content{
		Tracks:  pb.Playlist,
		Current: pb.CurrentIndex,
		Playing: pb.IsPlaying,
		Loading: m.view.Catalog.Loading,
		Message: m.view.Catalog.Message,
	}, m.width, listHeight)
	parts = append(parts, list, m.footer())

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) catalogSummary() string {
	c := m.view.Catalog
	switch {
	case c.Loading:
		return m.spin.View() + " loading catalog"
	case c.LoadedAt.IsZero():
		return ""
	default:
		return c.Source.String() + " · " + pluralTracks(c.Count)
	}
}

func pluralTracks(n int) string {
	if n == 1 {
		return "1 track"
	}
	return humanize.Comma(int64(n)) + " tracks"
}

func (m Model) footer() string {
	s := styles.T().S()
	if m.notice != "" {
		return s.Error.Render(render.Truncate(m.notice, m.width))
	}
	if m.showHelp {
		var lines []string
		for _, ctx := range []string{"playback", "tracklist", "global"} {
			lines = append(lines, m.keys.Help(ctx)...)
		}
		return s.Muted.Render(render.Truncate(strings.Join(lines, "   "), m.width))
	}
	return s.Subtle.Render(render.Truncate("space play/pause · n/p next/prev · ←/→ seek · +/- volume · ? help · q quit", m.width))
}
