package app

import (
	"errors"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/soundfolio/player/internal/keymap"
	"github.com/soundfolio/player/internal/playback"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case FrameMsg:
		m.view = m.backend.View()
		var spin tea.Cmd
		m, spin = m.kick()
		return m, tea.Batch(m.frameCmd(), spin)

	case ChangedMsg:
		m = m.sync()
		var spin tea.Cmd
		m, spin = m.kick()
		return m, tea.Batch(m.waitForChange(), spin)

	case spinner.TickMsg:
		if !m.busy() {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case CatalogLoadedMsg:
		m = m.sync()
		m.list = m.list.Jump(max(msg.Status.ResumeIndex, 0), len(m.view.Playback.Playlist))
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg.String())
	}
	return m, nil
}

// sync refreshes the cached view and keeps the cursor in range.
func (m Model) sync() Model {
	m.view = m.backend.View()
	m.list = m.list.Clamp(len(m.view.Playback.Playlist))
	return m
}

func (m Model) handleKey(key string) (tea.Model, tea.Cmd) {
	t := m.backend.Transport()
	snap := m.view.Playback
	n := len(snap.Playlist)

	var err error
	switch m.keys.Resolve(key) { //nolint:exhaustive // unbound keys fall through
	case keymap.ActionQuit:
		return m, tea.Quit
	case keymap.ActionHelp:
		m.showHelp = !m.showHelp
		return m, nil
	case keymap.ActionRefresh:
		m.notice = ""
		return m, m.refreshCmd()

	case keymap.ActionPlayPause:
		err = t.TogglePlay()
	case keymap.ActionNextTrack:
		err = t.Next()
	case keymap.ActionPrevTrack:
		err = t.Previous()
	case keymap.ActionSeekForward:
		err = t.Seek(snap.CurrentTime + keymap.SeekStep)
	case keymap.ActionSeekBack:
		err = t.Seek(max(snap.CurrentTime-keymap.SeekStep, 0))
	case keymap.ActionVolumeUp:
		t.SetVolume(snap.Volume + keymap.VolumeStep)
	case keymap.ActionVolumeDown:
		t.SetVolume(snap.Volume - keymap.VolumeStep)

	case keymap.ActionMoveUp:
		m.list = m.list.Move(-1, n)
		return m, nil
	case keymap.ActionMoveDown:
		m.list = m.list.Move(1, n)
		return m, nil
	case keymap.ActionJumpStart:
		m.list = m.list.Jump(0, n)
		return m, nil
	case keymap.ActionJumpEnd:
		m.list = m.list.Jump(n-1, n)
		return m, nil
	case keymap.ActionSelect:
		err = t.Play(m.list.Cursor())
	case keymap.ActionRemove:
		err = t.RemoveTrack(m.list.Cursor())

	default:
		return m, nil
	}

	m.notice = noticeFor(err)
	m = m.sync()
	if a := m.keys.Resolve(key); a == keymap.ActionNextTrack || a == keymap.ActionPrevTrack {
		m.list = m.list.Jump(m.view.Playback.CurrentIndex, len(m.view.Playback.Playlist))
	}
	return m, nil
}

// noticeFor hides the boundary errors of next/previous on the first and
// last track.
func noticeFor(err error) string {
	if err == nil || errors.Is(err, playback.ErrIndexOutOfRange) {
		return ""
	}
	return err.Error()
}
