package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) frameCmd() tea.Cmd {
	return tea.Tick(m.frameInterval, func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}

// waitForChange blocks until the session signals a change.
func (m Model) waitForChange() tea.Cmd {
	changes := m.backend.Changes()
	ctx := m.ctx
	return func() tea.Msg {
		select {
		case <-changes:
			return ChangedMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

func (m Model) refreshCmd() tea.Cmd {
	backend := m.backend
	ctx := m.ctx
	return func() tea.Msg {
		return CatalogLoadedMsg{Status: backend.RefreshCatalog(ctx)}
	}
}
