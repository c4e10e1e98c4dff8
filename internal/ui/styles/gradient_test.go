package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestBlend(t *testing.T) {
	colors := Blend(5, "#000000", "#ffffff")
	assert.Len(t, colors, 5)
	assert.NotEqual(t, colors[0], colors[4])

	assert.Len(t, Blend(1, "#123456", "#ffffff"), 1)
}

func TestScale(t *testing.T) {
	assert.Equal(t, lipgloss.Color("#ff0000"), Scale("#ff0000", 1))
	assert.Equal(t, lipgloss.Color("#000000"), Scale("#ff0000", 0))
	assert.Equal(t, lipgloss.Color("#000000"), Scale("#ff0000", -3))
	assert.NotEqual(t, lipgloss.Color("#ff0000"), Scale("#ff0000", 0.5))
}

func TestApplyGradient(t *testing.T) {
	assert.Empty(t, ApplyGradient("", "#000000", "#ffffff"))
	out := ApplyGradient("soundfolio", "#000000", "#ffffff")
	assert.Equal(t, len("soundfolio"), lipgloss.Width(out))
}

func TestBlend_Empty(t *testing.T) {
	assert.Nil(t, Blend(0, "#000000", "#ffffff"))
}

func TestBlend_AnsiIndexFallsBackToGrey(t *testing.T) {
	colors := Blend(2, "12", "12")
	assert.Equal(t, colors[0], colors[1])
}
