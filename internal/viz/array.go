package viz

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/algosim/internal/sim"
)

const (
	barWidth = 3
	barGap   = 1
	cellPad  = 1
)

func roleOf(h sim.Highlight, i int) sim.Role {
	if h == nil {
		return sim.RoleNone
	}
	return h.Role(i)
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}

// barHeights scales values to [1,height]. Negative values share the scale
// so that the smallest element is always one row tall.
func barHeights(values sim.Sequence, height int) []int {
	out := make([]int, len(values))
	if len(values) == 0 || height <= 0 {
		return out
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if lo > 0 {
		lo = 0
	}
	span := hi - lo
	for i, v := range values {
		if span == 0 {
			out[i] = height
			continue
		}
		out[i] = max(1, int((v-lo)/span*float64(height)+0.5))
	}
	return out
}

// Bars renders values as vertical bars height rows tall with value labels
// underneath.
func Bars(values sim.Sequence, h sim.Highlight, theme Theme, height int) string {
	if len(values) == 0 {
		return theme.Style(theme.Muted).Render("(empty)")
	}
	heights := barHeights(values, height)
	gap := strings.Repeat(" ", barGap)

	var b strings.Builder
	for row := height; row >= 1; row-- {
		for i := range values {
			cell := strings.Repeat(" ", barWidth)
			if heights[i] >= row {
				cell = theme.Style(theme.RoleColor(roleOf(h, i))).Render(strings.Repeat("█", barWidth))
			}
			b.WriteString(cell)
			b.WriteString(gap)
		}
		b.WriteString("\n")
	}

	for i, v := range values {
		label := formatValue(v)
		if len(label) > barWidth {
			label = label[:barWidth]
		}
		style := theme.Style(theme.Muted)
		if r := roleOf(h, i); r != sim.RoleNone {
			style = theme.Style(theme.RoleColor(r)).Bold(true)
		}
		b.WriteString(style.Render(fmt.Sprintf("%*s", barWidth, label)))
		b.WriteString(gap)
	}
	return b.String()
}

// Badges renders values as a row of boxed cells with indices underneath.
func Badges(values sim.Sequence, h sim.Highlight, theme Theme) string {
	if len(values) == 0 {
		return theme.Style(theme.Muted).Render("(empty)")
	}

	cells := make([]string, len(values))
	for i, v := range values {
		border := theme.Faint
		fg := theme.Text
		if r := roleOf(h, i); r != sim.RoleNone {
			border = theme.RoleColor(r)
			fg = theme.RoleColor(r)
		}
		badge := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Foreground(fg).
			Padding(0, cellPad).
			Render(formatValue(v))
		index := theme.Style(theme.Faint).Render(strconv.Itoa(i))
		cells[i] = lipgloss.JoinVertical(lipgloss.Center, badge, index)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

// Counters renders the comparison and write counters with the driver's
// write label.
func Counters(c sim.Counters, info sim.Info, theme Theme) string {
	label := theme.Style(theme.Muted)
	value := theme.Style(theme.Primary).Bold(true)
	return label.Render("comparisons ") + value.Render(strconv.Itoa(c.Comparisons)) +
		label.Render("   "+info.WriteLabel+" ") + value.Render(strconv.Itoa(c.Writes))
}

// Status renders the run state.
func Status(s sim.RunState) string {
	switch s {
	case sim.Running:
		return StatusRunning.Render("● running")
	case sim.AwaitingStep:
		return StatusWaiting.Render("○ waiting for step")
	case sim.Completed:
		return StatusRunning.Render("✓ done")
	}
	return StatusIdle.Render("· idle")
}

// NoticeLine renders a notice, or nothing for the zero notice.
func NoticeLine(n sim.Notice, theme Theme) string {
	if n.IsZero() {
		return ""
	}
	color := theme.Muted
	switch n.Kind {
	case sim.NoticeSorted, sim.NoticeFound:
		color = theme.Success
	case sim.NoticeNotFound, sim.NoticeTruncated:
		color = theme.Warning
	case sim.NoticeEmpty, sim.NoticeNoTarget, sim.NoticeAborted:
		color = theme.Error
	}
	return theme.Style(color).Render(n.Message)
}

// Legend lists the roles a highlight type uses with their colors.
func Legend(h sim.Highlight, theme Theme) string {
	var roles []sim.Role
	switch h.(type) {
	case sim.BubbleHighlight:
		roles = []sim.Role{sim.RoleCurrent, sim.RoleNext}
	case sim.QuickHighlight:
		roles = []sim.Role{sim.RolePivot, sim.RoleLeft, sim.RoleRight}
	case sim.MergeHighlight:
		roles = []sim.Role{sim.RoleLeft, sim.RoleRight, sim.RoleMerge}
	case sim.LinearHighlight:
		roles = []sim.Role{sim.RoleCurrent, sim.RoleFound}
	case sim.BinaryHighlight:
		roles = []sim.Role{sim.RoleLeft, sim.RoleMid, sim.RoleRight, sim.RoleFound}
	default:
		return ""
	}
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = theme.Style(theme.RoleColor(r)).Render("■ " + r.String())
	}
	return strings.Join(parts, "  ")
}
