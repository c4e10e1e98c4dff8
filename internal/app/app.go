// Package app is the terminal front end: a bubbletea model over a
// player session.
package app

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/soundfolio/player/internal/keymap"
	"github.com/soundfolio/player/internal/playback"
	"github.com/soundfolio/player/internal/session"
	"github.com/soundfolio/player/internal/ui/styles"
	"github.com/soundfolio/player/internal/ui/tracklist"
)

// Backend is the part of a session the front end drives.
type Backend interface {
	Transport() playback.Service
	View() session.View
	RefreshCatalog(ctx context.Context) session.CatalogStatus
	Changes() <-chan struct{}
}

// Model is the root bubbletea model.
type Model struct {
	ctx     context.Context
	backend Backend
	keys    *keymap.Resolver

	list     tracklist.Model
	view     session.View
	notice   string // last command error
	showHelp bool

	spin     spinner.Model
	spinning bool

	frameInterval time.Duration
	width         int
	height        int
}

// New creates the model. frameInterval paces redraws of the visualizer.
func New(ctx context.Context, backend Backend, frameInterval time.Duration) Model {
	if frameInterval <= 0 {
		frameInterval = time.Second / 30
	}
	return Model{
		ctx:           ctx,
		backend:       backend,
		keys:          keymap.Default(),
		view:          backend.View(),
		spin:          spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(styles.T().S().Muted)),
		frameInterval: frameInterval,
	}
}

// busy reports whether the catalog or a track is loading.
func (m Model) busy() bool {
	return m.view.Catalog.Loading || m.view.Playback.Loading
}

// kick starts the spinner when something is loading and it is not
// already ticking.
func (m Model) kick() (Model, tea.Cmd) {
	if !m.busy() || m.spinning {
		return m, nil
	}
	m.spinning = true
	return m, m.spin.Tick
}

// Init loads the catalog and starts the redraw loops.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.refreshCmd(),
		m.waitForChange(),
		m.frameCmd(),
	)
}

// Run starts the program in the alternate screen and blocks until quit.
func Run(ctx context.Context, backend Backend, frameInterval time.Duration) error {
	p := tea.NewProgram(New(ctx, backend, frameInterval), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
