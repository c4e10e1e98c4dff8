package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// neutral stands in for ANSI palette indexes, which have no fixed RGB.
var neutral = colorful.Color{R: 0.5, G: 0.5, B: 0.5}

// ApplyGradient colors each grapheme of text along a from-to gradient.
func ApplyGradient(text string, from, to lipgloss.Color) string {
	return gradient(text, lipgloss.NewStyle(), from, to)
}

// ApplyBoldGradient is ApplyGradient in bold.
func ApplyBoldGradient(text string, from, to lipgloss.Color) string {
	return gradient(text, lipgloss.NewStyle().Bold(true), from, to)
}

func gradient(text string, base lipgloss.Style, from, to lipgloss.Color) string {
	var clusters []string
	for gr := uniseg.NewGraphemes(text); gr.Next(); {
		clusters = append(clusters, gr.Str())
	}

	var b strings.Builder
	for i, c := range Blend(len(clusters), from, to) {
		b.WriteString(base.Foreground(c).Render(clusters[i]))
	}
	return b.String()
}

// Blend returns size colors stepping from from to to in HCL space.
// A single step is just from.
func Blend(size int, from, to lipgloss.Color) []lipgloss.Color {
	switch {
	case size <= 0:
		return nil
	case size == 1:
		return []lipgloss.Color{from}
	}
	a, b := parse(from), parse(to)
	out := make([]lipgloss.Color, size)
	for i := range out {
		out[i] = lipgloss.Color(a.BlendHcl(b, float64(i)/float64(size-1)).Clamped().Hex())
	}
	return out
}

// Scale darkens c towards black; f=1 keeps c, f<=0 is black.
func Scale(c lipgloss.Color, f float64) lipgloss.Color {
	switch {
	case f >= 1:
		return c
	case f <= 0:
		return lipgloss.Color("#000000")
	}
	return lipgloss.Color(parse(c).BlendLab(colorful.Color{}, 1-f).Clamped().Hex())
}

func parse(c lipgloss.Color) colorful.Color {
	col, err := colorful.Hex(string(c))
	if err != nil {
		return neutral
	}
	return col
}
