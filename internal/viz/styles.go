package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00ffff"))

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	Label = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888899"))

	Value = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#00ccff")).
		Bold(true)

	Positive = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))
	Negative = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4466"))
	Zero     = lipgloss.NewStyle().Foreground(lipgloss.Color("#444466"))

	StatusOK     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88"))
	StatusFailed = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff4444"))

	KeyHint = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688")).
		Italic(true)

	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444466")).
		Padding(0, 1)

	borderColor = lipgloss.NewStyle().Foreground(lipgloss.Color("#444466"))
)

// WeightBar draws |w| relative to scale as a horizontal bar, colored by sign.
func WeightBar(w, scale float64, width int) string {
	if width <= 0 {
		return ""
	}
	if scale <= 0 || w == 0 {
		return Zero.Render("·")
	}
	n := int(math.Round(math.Abs(w) / scale * float64(width)))
	n = max(1, min(n, width))
	bar := strings.Repeat("█", n)
	if w < 0 {
		return Negative.Render(bar)
	}
	return Positive.Render(bar)
}

// SparklineChart draws signed weights against a zero baseline, one cell per
// sampled value: positive weights rise from the bottom of the cell, negative
// weights hang from the top, zeros sit on the baseline. Heights are relative
// to the largest magnitude.
func SparklineChart(weights []float64, width int) string {
	if len(weights) == 0 {
		return strings.Repeat("─", width)
	}

	rise := []rune{'▁', '▄', '█'}
	hang := []rune{'▔', '▀'}
	scale := maxAbs(weights)

	step := max(1, len(weights)/width)

	var b strings.Builder
	for i := 0; i < width && i*step < len(weights); i++ {
		v := weights[i*step]
		switch {
		case v == 0 || scale == 0:
			b.WriteRune('─')
		case v > 0:
			b.WriteRune(rise[level(v, scale, len(rise))])
		default:
			b.WriteRune(hang[level(v, scale, len(hang))])
		}
	}
	return b.String()
}

// level buckets |v|/scale into 0..n-1.
func level(v, scale float64, n int) int {
	return min(int(math.Abs(v)/scale*float64(n)), n-1)
}

func maxAbs(values []float64) float64 {
	m := 0.0
	for _, v := range values {
		m = max(m, math.Abs(v))
	}
	return m
}
