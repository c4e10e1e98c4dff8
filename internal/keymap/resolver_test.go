package keymap

import (
	"slices"
	"testing"
)

func TestResolver_Resolve(t *testing.T) {
	r := NewResolver([]Binding{
		{ActionQuit, []string{"q", "ctrl+c"}, "Quit", "global"},
		{ActionMoveUp, []string{"k", "up"}, "Move up", "tracklist"},
	})

	tests := []struct {
		key      string
		expected Action
	}{
		{"q", ActionQuit},
		{"ctrl+c", ActionQuit},
		{"k", ActionMoveUp},
		{"up", ActionMoveUp},
		{"unknown", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := r.Resolve(tt.key); got != tt.expected {
				t.Errorf("Resolve(%q) = %q, want %q", tt.key, got, tt.expected)
			}
		})
	}
}

func TestResolver_KeysForDeduplicates(t *testing.T) {
	r := NewResolver([]Binding{
		{ActionSelect, []string{"enter"}, "Play", "tracklist"},
		{ActionSelect, []string{"enter", "o"}, "Play", "other"},
	})

	keys := r.KeysFor(ActionSelect)
	slices.Sort(keys)
	if !slices.Equal(keys, []string{"enter", "o"}) {
		t.Errorf("KeysFor(select) = %v", keys)
	}
	if r.KeysFor(ActionQuit) != nil {
		t.Error("unbound action should have no keys")
	}
}

func TestResolver_Help(t *testing.T) {
	lines := Default().Help("playback")
	if len(lines) == 0 {
		t.Fatal("no help lines")
	}
	if lines[0] != "space  Play/pause" {
		t.Errorf("first line = %q", lines[0])
	}
}
