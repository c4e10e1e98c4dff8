package keymap

import "time"

// Step sizes for the relative transport actions.
const (
	SeekStep   = 5 * time.Second
	VolumeStep = 0.1
)

// Binding ties keys to an action and documents it.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string // "global", "playback" or "tracklist"
}

// All contains every key binding, in help order.
var All = []Binding{
	// Global
	{ActionQuit, []string{"q", "ctrl+c"}, "Quit", "global"},
	{ActionRefresh, []string{"r"}, "Reload catalog", "global"},
	{ActionHelp, []string{"?"}, "Toggle help", "global"},

	// Playback
	{ActionPlayPause, []string{" ", "space"}, "Play/pause", "playback"},
	{ActionNextTrack, []string{"n"}, "Next track", "playback"},
	{ActionPrevTrack, []string{"p"}, "Previous track", "playback"},
	{ActionSeekBack, []string{"left", "h"}, "Seek -5s", "playback"},
	{ActionSeekForward, []string{"right", "l"}, "Seek +5s", "playback"},
	{ActionVolumeUp, []string{"+", "="}, "Volume up", "playback"},
	{ActionVolumeDown, []string{"-"}, "Volume down", "playback"},

	// Track list
	{ActionMoveUp, []string{"k", "up"}, "Move up", "tracklist"},
	{ActionMoveDown, []string{"j", "down"}, "Move down", "tracklist"},
	{ActionJumpStart, []string{"g", "home"}, "First track", "tracklist"},
	{ActionJumpEnd, []string{"G", "end"}, "Last track", "tracklist"},
	{ActionSelect, []string{"enter"}, "Play track", "tracklist"},
	{ActionRemove, []string{"x", "delete"}, "Remove from playlist", "tracklist"},
}

// ByContext returns key bindings filtered by context.
func ByContext(context string) []Binding {
	var result []Binding
	for _, kb := range All {
		if kb.Context == context {
			result = append(result, kb)
		}
	}
	return result
}

// Default returns a resolver over All.
func Default() *Resolver {
	return NewResolver(All)
}
