package viz

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/algosim/internal/sim"
)

func TestBarHeights(t *testing.T) {
	require.Equal(t, []int{5, 1, 3}, barHeights(sim.Sequence{10, 2, 6}, 5))
	require.Equal(t, []int{4, 4}, barHeights(sim.Sequence{7, 7}, 4))
	require.Equal(t, []int{1, 4}, barHeights(sim.Sequence{-3, 3}, 4))
	require.Empty(t, barHeights(nil, 4))
}

func TestBars(t *testing.T) {
	values := sim.Sequence{10, 2, 6}
	out := Bars(values, sim.BubbleHighlight{Current: 0, Next: 1}, ThemeClassic, 5)

	require.Equal(t, 5, strings.Count(out, "\n"), "one line per row plus labels")
	require.Equal(t, (5+1+3)*barWidth, strings.Count(out, "█"))
	require.Contains(t, out, "10")
	require.Contains(t, out, "6")

	require.Contains(t, Bars(nil, nil, ThemeClassic, 5), "empty")
}

func TestBadges(t *testing.T) {
	out := Badges(sim.Sequence{4, 8, 15}, sim.LinearHighlight{Current: 1, Found: sim.NoIndex}, ThemeOcean)
	for _, want := range []string{"4", "8", "15", "0", "1", "2", "╭"} {
		require.Contains(t, out, want)
	}
}

func TestCountersAndNotice(t *testing.T) {
	info := sim.Info{WriteLabel: "swaps"}
	out := stripped(Counters(sim.Counters{Comparisons: 36, Writes: 20}, info, ThemeClassic))
	require.Contains(t, out, "comparisons 36")
	require.Contains(t, out, "swaps 20")

	require.Empty(t, NoticeLine(sim.Notice{}, ThemeClassic))
	require.Contains(t, NoticeLine(sim.Notice{Kind: sim.NoticeFound, Message: "7 found at index 3"}, ThemeClassic), "index 3")
}

func TestLegend(t *testing.T) {
	require.Empty(t, Legend(nil, ThemeClassic))
	out := stripped(Legend(sim.PivotOnly(0), ThemeClassic))
	require.Contains(t, out, "pivot")
	require.Contains(t, out, "left")
	require.Contains(t, out, "right")
}

func TestThemes(t *testing.T) {
	require.Equal(t, "classic", GetTheme("nope").Name)
	require.Equal(t, "ocean", GetTheme("ocean").Name)

	_, ok := LookupTheme("retro")
	require.True(t, ok)
	_, ok = LookupTheme("sunset")
	require.False(t, ok)

	require.Equal(t, []string{"classic", "retro", "minimal", "ocean"}, ThemeNames())
	require.Equal(t, "retro", ThemeClassic.Next().Name)
	require.Equal(t, "classic", ThemeOcean.Next().Name)

	for _, th := range Themes {
		require.NotEqual(t, th.Bar, th.RoleColor(sim.RolePivot), th.Name)
		require.Equal(t, th.Bar, th.RoleColor(sim.RoleNone), th.Name)
	}
}

func TestHexHelpers(t *testing.T) {
	r, g, b := parseHex("#0a80ff")
	require.Equal(t, []int{10, 128, 255}, []int{r, g, b})
	require.Equal(t, "#0a80ff", hexColor(r, g, b))
	require.Equal(t, "#000000", hexColor(-5, 0, 0))

	r, g, b = parseHex("86")
	require.Equal(t, []int{255, 255, 255}, []int{r, g, b})

	require.Equal(t, 5, utf8.RuneCountInString(stripped(GradientText("algos", lipgloss.Color("#00ffff"), lipgloss.Color("#ff00ff")))))
}

func stripped(s string) string {
	var b strings.Builder
	inEsc := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEsc = true
		case inEsc && r == 'm':
			inEsc = false
		case !inEsc:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func TestSparklineAndProgress(t *testing.T) {
	require.Equal(t, "──────", SparklineChart(nil, 6))
	line := SparklineChart([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 4)
	require.Equal(t, 4, utf8.RuneCountInString(line))
	require.Equal(t, "▁███", SparklineChart([]float64{0, 5, 5, 5}, 8))

	require.Equal(t, 10, strings.Count(stripped(ProgressBar(1.5, 10)), "█"))
	require.Equal(t, 10, strings.Count(stripped(ProgressBar(-1, 10)), "░"))
}

func TestSeparator(t *testing.T) {
	require.Equal(t, "────", Separator(4))
	require.Empty(t, Separator(-3))
	for _, w := range []int{8, 9, 40} {
		line := stripped(Separator(w))
		require.Equal(t, w, utf8.RuneCountInString(line))
		require.Contains(t, line, "◆")
	}
}

func TestCanvas(t *testing.T) {
	c := NewCanvas(4, 2)
	blank := strings.Repeat(string(rune(brailleBase)), 4)
	require.Equal(t, blank+"\n"+blank, c.String())

	c.Set(0, 0)
	c.Set(1, 3)
	require.Equal(t, rune(0x2800|0x1|0x80), c.Grid[0][0])

	c.Set(-1, 0)
	c.Set(100, 100)
	c.Clear()
	c.Plot(sim.Sequence{1, 5, 3, 9})
	dots := 0
	for _, row := range c.Grid {
		for _, cell := range row {
			if cell != brailleBase {
				dots++
			}
		}
	}
	require.Positive(t, dots)
}

func TestLiveRenderer(t *testing.T) {
	var buf bytes.Buffer
	info := sim.Info{Name: "bubble", Title: "Bubble Sort", Kind: sim.KindSort, WriteLabel: "swaps"}
	r := NewLiveRenderer(&buf, info, ThemeClassic, 1)
	r.SetStepHint("press enter to step")

	r.OnFrame(sim.Frame{Values: sim.Sequence{2, 1}, State: sim.Running})
	first := buf.Len()
	require.Positive(t, first)
	require.Contains(t, buf.String(), "Bubble Sort")

	r.OnFrame(sim.Frame{Values: sim.Sequence{2, 1}, State: sim.Running})
	require.Equal(t, first, buf.Len(), "running frames are throttled")

	r.OnFrame(sim.Frame{Values: sim.Sequence{2, 1}, State: sim.AwaitingStep, Highlight: sim.BubbleHighlight{Current: 0, Next: 1}})
	require.Contains(t, buf.String(), "press enter to step")

	r.OnFrame(sim.Frame{
		Values: sim.Sequence{1, 2},
		State:  sim.Completed,
		Notice: sim.Notice{Kind: sim.NoticeSorted, Message: "sorting complete"},
	})
	require.Contains(t, buf.String(), "sorting complete")
}
