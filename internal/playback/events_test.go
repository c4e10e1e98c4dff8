package playback

import (
	"math"
	"testing"
	"time"

	"github.com/soundfolio/player/internal/catalog"
)

func TestSeconds(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want time.Duration
	}{
		{"whole", 3, 3 * time.Second},
		{"fraction", 1.5, 1500 * time.Millisecond},
		{"zero", 0, 0},
		{"negative", -2, 0},
		{"nan", math.NaN(), 0},
		{"inf", math.Inf(1), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Seconds(tt.in); got != tt.want {
				t.Errorf("Seconds(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSnapshot_Helpers(t *testing.T) {
	s := Snapshot{
		Playlist:     []catalog.Track{{Name: "A"}, {Name: "B"}, {Name: "C"}},
		CurrentIndex: 1,
		CurrentTime:  30 * time.Second,
		Duration:     2 * time.Minute,
	}
	if tr := s.CurrentTrack(); tr == nil || tr.Name != "B" {
		t.Errorf("CurrentTrack() = %v, want B", tr)
	}
	if !s.HasNext() || !s.HasPrevious() {
		t.Errorf("HasNext/HasPrevious = %v/%v, want true/true", s.HasNext(), s.HasPrevious())
	}
	if got := s.Progress(); got != 0.25 {
		t.Errorf("Progress() = %v, want 0.25", got)
	}

	empty := Snapshot{CurrentIndex: -1}
	if empty.CurrentTrack() != nil {
		t.Error("CurrentTrack() on empty playlist should be nil")
	}
	if empty.HasNext() || empty.HasPrevious() {
		t.Error("empty playlist should have neither next nor previous")
	}
	if empty.Progress() != 0 {
		t.Error("Progress() with unknown duration should be 0")
	}
}

func TestMediaEventKind_String(t *testing.T) {
	if got := EventPlayStarted.String(); got != "PlayStarted" {
		t.Errorf("EventPlayStarted.String() = %q", got)
	}
	if got := MediaEventKind(42).String(); got != "Unknown" {
		t.Errorf("MediaEventKind(42).String() = %q", got)
	}
}
