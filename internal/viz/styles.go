package viz

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	KeyHint = lipgloss.NewStyle().
		Foreground(lipgloss.Color("242")).
		Italic(true)

	StatusRunning = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("82"))

	StatusWaiting = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("220"))

	StatusIdle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242"))

	SparkHigh = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	SparkMid  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	SparkLow  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// GradientText colors each rune of text along a gradient between two hex
// colors.
func GradientText(text string, startColor, endColor lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}

	sr, sg, sb := parseHex(string(startColor))
	er, eg, eb := parseHex(string(endColor))

	var b strings.Builder
	n := len(runes)
	for i, c := range runes {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		r := sr + int(t*float64(er-sr))
		g := sg + int(t*float64(eg-sg))
		bl := sb + int(t*float64(eb-sb))
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor(r, g, bl))).Render(string(c)))
	}
	return b.String()
}

// ProgressBar renders a horizontal gauge for percent in [0,1].
func ProgressBar(percent float64, width int) string {
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	switch {
	case percent > 0.8:
		return SparkHigh.Render(bar)
	case percent > 0.4:
		return SparkMid.Render(bar)
	}
	return SparkLow.Render(bar)
}

// SparklineChart renders the most recent width values as a sparkline.
func SparklineChart(values []float64, width int) string {
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	var b strings.Builder
	for _, v := range values {
		idx := int((v - lo) / span * float64(len(chars)-1))
		b.WriteRune(chars[max(0, min(idx, len(chars)-1))])
	}
	return b.String()
}

// Separator draws a rule exactly width cells wide.
func Separator(width int) string {
	if width < 8 {
		return strings.Repeat("─", max(width, 0))
	}
	mid := width / 2
	return KeyHint.UnsetItalic().Render(strings.Repeat("─", mid-2) + " ◆ " + strings.Repeat("─", width-mid-1))
}

func parseHex(hex string) (r, g, b int) {
	if len(hex) != 7 || hex[0] != '#' {
		return 255, 255, 255
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return 255, 255, 255
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}

func hexColor(r, g, b int) string {
	clamp := func(v int) int { return max(0, min(v, 255)) }
	s := strconv.FormatUint(uint64(clamp(r)<<16|clamp(g)<<8|clamp(b)), 16)
	return "#" + strings.Repeat("0", 6-len(s)) + s
}
