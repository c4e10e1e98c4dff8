package keymap

import "testing"

func TestByContext(t *testing.T) {
	tests := []struct {
		context string
		min     int
	}{
		{"global", 3},
		{"playback", 7},
		{"tracklist", 6},
		{"unknown", 0},
		{"", 0},
	}

	for _, tt := range tests {
		t.Run(tt.context, func(t *testing.T) {
			result := ByContext(tt.context)
			if len(result) < tt.min {
				t.Errorf("ByContext(%q) returned %d items, expected at least %d", tt.context, len(result), tt.min)
			}
			if tt.min == 0 && len(result) != 0 {
				t.Errorf("ByContext(%q) returned %d items, expected none", tt.context, len(result))
			}
			for _, b := range result {
				if b.Context != tt.context {
					t.Errorf("binding context = %q, want %q", b.Context, tt.context)
				}
			}
		})
	}
}

func TestAll_NoKeyBoundTwice(t *testing.T) {
	seen := make(map[string]Action)
	for _, b := range All {
		for _, k := range b.Keys {
			if prev, ok := seen[k]; ok {
				t.Errorf("key %q bound to both %s and %s", k, prev, b.Action)
			}
			seen[k] = b.Action
		}
	}
}

func TestDefault_PlayerKeys(t *testing.T) {
	r := Default()
	tests := map[string]Action{
		" ":      ActionPlayPause,
		"space":  ActionPlayPause,
		"n":      ActionNextTrack,
		"p":      ActionPrevTrack,
		"enter":  ActionSelect,
		"left":   ActionSeekBack,
		"right":  ActionSeekForward,
		"+":      ActionVolumeUp,
		"-":      ActionVolumeDown,
		"x":      ActionRemove,
		"r":      ActionRefresh,
		"q":      ActionQuit,
		"ctrl+c": ActionQuit,
	}
	for key, want := range tests {
		if got := r.Resolve(key); got != want {
			t.Errorf("Resolve(%q) = %q, want %q", key, got, want)
		}
	}
}
