package player

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestState(t *testing.T) {
	tests := []struct {
		state     State
		name      string
		canPause  bool
		canResume bool
	}{
		{Stopped, "Stopped", false, false},
		{Loading, "Loading", false, false},
		{Playing, "Playing", true, false},
		{Paused, "Paused", false, true},
		{State(-1), "Unknown", false, false},
		{State(99), "Unknown", false, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.name, tt.state.String())
		assert.Equal(t, tt.canPause, tt.state.CanPause(), tt.name)
		assert.Equal(t, tt.canResume, tt.state.CanResume(), tt.name)
	}
}
