package tui

import (
	"context"
	"runtime"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/algosim/internal/config"
	"github.com/san-kum/algosim/internal/sim"
	"github.com/san-kum/algosim/internal/storage"
)

func press(k string) tea.KeyMsg {
	switch k {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func newTestModel(t *testing.T, cfg *config.Config, store *storage.Store) *Model {
	t.Helper()
	m, err := NewModel(context.Background(), Options{
		Config:     cfg,
		Store:      store,
		SimOptions: []sim.Option{sim.WithSleeper(sim.Instant())},
	})
	require.NoError(t, err)
	t.Cleanup(m.Shutdown)
	return m
}

// runActive starts the active tab, waits for completion and feeds the final
// frame back through Update.
func runActive(t *testing.T, m *Model) {
	t.Helper()
	m.Update(press("s"))
	tb := m.current()
	tb.vis.Wait()
	f, ok := tb.recv.Latest()
	require.True(t, ok)
	m.Update(frameMsg{tab: m.active, frame: f})
}

func TestNewModelLoadsPresets(t *testing.T) {
	m := newTestModel(t, nil, nil)

	require.Len(t, m.tabs, 5)
	require.Equal(t, 0, m.active)
	require.Equal(t, "bubble", m.current().info.Name)
	require.Equal(t, sim.Sequence{12, 4, 8, 20, 1, 15, 7, 3, 10}, m.current().vis.Values())

	binary := m.tabs[4]
	require.True(t, binary.vis.Values().IsSorted())
	target, ok := binary.vis.Target()
	require.True(t, ok)
	require.Equal(t, 7.0, target)
}

func TestNewModelConfiguredAlgorithm(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Algorithm = "merge"
	cfg.Values = []float64{5, 4, 3, 2, 1}

	m := newTestModel(t, cfg, nil)
	require.Equal(t, "merge", m.current().info.Name)
	require.Equal(t, sim.Sequence{5, 4, 3, 2, 1}, m.current().vis.Values())
}

func TestTabNavigation(t *testing.T) {
	m := newTestModel(t, nil, nil)

	m.Update(press("tab"))
	require.Equal(t, 1, m.active)
	m.Update(press("shift+tab"))
	m.Update(press("shift+tab"))
	require.Equal(t, 4, m.active)
}

func TestStartRunsToCompletion(t *testing.T) {
	m := newTestModel(t, nil, nil)
	runActive(t, m)

	tb := m.current()
	require.Equal(t, sim.Completed, tb.frame.State)
	require.Equal(t, sim.Counters{Comparisons: 36, Writes: 20}, tb.frame.Counters)
	require.Equal(t, 1.0, tb.sortedness.Value())

	view := m.View()
	require.Contains(t, view, "sorting complete")
	require.Contains(t, view, "done")
	require.Contains(t, view, "◆")
}

func TestStepModeAndSpeedKeys(t *testing.T) {
	m := newTestModel(t, nil, nil)
	tb := m.current()

	m.Update(press("p"))
	require.True(t, tb.vis.Gate().Enabled())
	require.Equal(t, "step mode on", m.status)

	m.Update(press("+"))
	require.Equal(t, sim.DefaultSpeed+1, tb.vis.Timing().Speed())
	m.Update(press("-"))
	m.Update(press("-"))
	require.Equal(t, sim.DefaultSpeed-1, tb.vis.Timing().Speed())
}

func TestStepKeyAdvancesRun(t *testing.T) {
	m := newTestModel(t, nil, nil)
	tb := m.current()
	_, err := tb.vis.LoadText("2 1")
	require.NoError(t, err)

	m.Update(press("p"))
	m.Update(press("s"))
	for tb.vis.State() != sim.Completed {
		if tb.vis.Gate().Waiting() {
			m.Update(press("n"))
		}
		runtime.Gosched()
	}
	tb.vis.Wait()
	require.Equal(t, sim.Sequence{1, 2}, tb.vis.Values())
	require.GreaterOrEqual(t, tb.vis.Gate().Released(), uint64(1))
}

func TestSizeKeysRandomize(t *testing.T) {
	m := newTestModel(t, nil, nil)
	tb := m.current()

	m.Update(press("]"))
	require.Equal(t, config.DefaultSize+1, tb.size)
	require.Len(t, tb.vis.Values(), config.DefaultSize+1)

	for i := 0; i < 20; i++ {
		m.Update(press("["))
	}
	require.Len(t, tb.vis.Values(), 5)
}

func TestEditValues(t *testing.T) {
	m := newTestModel(t, nil, nil)

	m.Update(press("e"))
	require.Equal(t, editValues, m.editing)
	m.input.SetValue("3, 1; 2 9 5")
	m.Update(press("enter"))

	require.Equal(t, editNone, m.editing)
	require.Equal(t, sim.Sequence{3, 1, 2, 9, 5}, m.current().vis.Values())
}

func TestEditCancel(t *testing.T) {
	m := newTestModel(t, nil, nil)
	before := m.current().vis.Values()

	m.Update(press("e"))
	m.input.SetValue("1 2 3")
	m.Update(press("esc"))
	require.Equal(t, editNone, m.editing)
	require.Equal(t, before, m.current().vis.Values())
}

func TestEditTarget(t *testing.T) {
	m := newTestModel(t, nil, nil)

	m.Update(press("t"))
	require.Equal(t, editNone, m.editing)
	require.Equal(t, "target applies to searches only", m.status)

	m.active = 3
	m.Update(press("t"))
	require.Equal(t, editTarget, m.editing)
	m.input.SetValue("abc")
	m.Update(press("enter"))
	require.Contains(t, m.status, "invalid target")

	m.Update(press("t"))
	m.input.SetValue("15")
	m.Update(press("enter"))
	target, ok := m.current().vis.Target()
	require.True(t, ok)
	require.Equal(t, 15.0, target)

	m.Update(press("t"))
	m.input.SetValue("")
	m.Update(press("enter"))
	_, ok = m.current().vis.Target()
	require.False(t, ok)
}

func TestSaveTrace(t *testing.T) {
	dir := t.TempDir()
	st := storage.New(dir)
	m := newTestModel(t, nil, st)

	m.Update(press("w"))
	require.Equal(t, "nothing to save yet", m.status)

	runActive(t, m)
	m.Update(press("w"))
	require.Contains(t, m.status, "saved bubble_")

	runs, err := st.List()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	out, _ := m.current().vis.LastOutcome()
	require.Equal(t, out.Frames, runs[0].Frames)
	require.Equal(t, 36, runs[0].Comparisons)
}

func TestSaveDisabled(t *testing.T) {
	m := newTestModel(t, nil, nil)
	m.Update(press("w"))
	require.Equal(t, "saving disabled", m.status)
}

func TestViewAndThemeCycle(t *testing.T) {
	m := newTestModel(t, nil, nil)

	m.Update(press("v"))
	require.Equal(t, viewBadges, m.view)
	m.Update(press("v"))
	require.Equal(t, viewLine, m.view)
	require.NotEmpty(t, m.View())
	m.Update(press("v"))
	require.Equal(t, viewBars, m.view)

	m.Update(press("T"))
	require.Equal(t, "retro", m.theme.Name)
}

func TestQuitShutsDown(t *testing.T) {
	m := newTestModel(t, nil, nil)

	_, cmd := m.Update(press("q"))
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
	require.Error(t, m.ctx.Err())
}
