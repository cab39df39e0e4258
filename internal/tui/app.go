// Package tui is the interactive terminal shell: one tab per algorithm, each
// tab owning a visualizer whose frames arrive through a latest-frame bus
// receiver.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/san-kum/algosim/internal/bus"
	"github.com/san-kum/algosim/internal/config"
	"github.com/san-kum/algosim/internal/experiment"
	"github.com/san-kum/algosim/internal/metrics"
	"github.com/san-kum/algosim/internal/sequence"
	"github.com/san-kum/algosim/internal/sim"
	"github.com/san-kum/algosim/internal/storage"
	"github.com/san-kum/algosim/internal/telemetry"
	"github.com/san-kum/algosim/internal/viz"
)

const (
	historyLen   = 60
	sparkWidth   = 40
	gaugeWidth   = 30
	minBarHeight = 6
	maxBarHeight = 16
	plotHeight   = 8
)

type viewMode int

const (
	viewBars viewMode = iota
	viewBadges
	viewLine
)

var viewNames = [...]string{"bars", "badges", "line"}

func (v viewMode) String() string { return viewNames[v] }

type editField int

const (
	editNone editField = iota
	editValues
	editTarget
)

type frameMsg struct {
	tab   int
	frame sim.Frame
}

type tab struct {
	info       sim.Info
	vis        *sim.Visualizer
	bus        *bus.Bus
	recv       *bus.Receiver
	rec        *storage.Recorder
	sortedness *metrics.Sortedness
	frame      sim.Frame
	history    []float64
	size       int
}

// Options configures the shell.
type Options struct {
	Config   *config.Config
	Registry *experiment.Registry
	// Store enables saving traces. Nil disables the save key.
	Store  *storage.Store
	Logger zerolog.Logger
	// SimOptions are appended to every visualizer's options.
	SimOptions []sim.Option
}

type Model struct {
	ctx     context.Context
	cancel  context.CancelFunc
	cfg     *config.Config
	store   *storage.Store
	logger  zerolog.Logger
	tabs    []*tab
	active  int
	theme   viz.Theme
	view    viewMode
	editing editField
	input   textinput.Model
	help    help.Model
	status  string
	width   int
	height  int
}

// NewModel builds one tab per registered algorithm, loads each with its
// classic preset and selects the configured algorithm. Configured values and
// target replace the preset for the selected tab.
func NewModel(ctx context.Context, opts Options) (*Model, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	reg := opts.Registry
	if reg == nil {
		reg = experiment.NewRegistry()
	}

	ctx, cancel := context.WithCancel(ctx)
	m := &Model{
		ctx:    ctx,
		cancel: cancel,
		cfg:    cfg,
		store:  opts.Store,
		logger: opts.Logger,
		theme:  viz.GetTheme(cfg.Theme),
		input:  textinput.New(),
		help:   help.New(),
	}
	m.input.CharLimit = 256

	for i, name := range reg.List() {
		t, err := m.newTab(reg, name, opts.SimOptions)
		if err != nil {
			cancel()
			return nil, err
		}
		m.tabs = append(m.tabs, t)
		if name == cfg.Algorithm {
			m.active = i
		}
	}
	return m, nil
}

func (m *Model) newTab(reg *experiment.Registry, name string, extra []sim.Option) (*tab, error) {
	driver, err := reg.Get(name)
	if err != nil {
		return nil, err
	}

	opts := []sim.Option{
		sim.WithLogger(m.logger.With().Str("tab", name).Logger()),
		sim.WithSpeed(m.cfg.Speed),
		sim.WithStepMode(m.cfg.StepMode),
		sim.WithMaxLen(m.cfg.MaxLen),
		sim.WithHook(telemetry.RecordRun),
	}
	if m.cfg.Seed != 0 {
		opts = append(opts, sim.WithSeed(m.cfg.Seed))
	}
	vis := sim.New(driver, append(opts, extra...)...)
	for _, metric := range reg.DefaultMetrics() {
		vis.AddMetric(metric)
	}

	t := &tab{
		info:       vis.Info(),
		vis:        vis,
		bus:        bus.New(),
		rec:        storage.NewRecorder(),
		sortedness: metrics.NewSortedness(),
		size:       m.cfg.Size,
	}
	t.recv, err = t.bus.SubscribeLatest("tui")
	if err != nil {
		return nil, err
	}
	vis.AddObserver(t.bus)
	vis.AddObserver(t.rec)

	values, target := m.initialInput(name)
	if target != nil {
		if err := vis.SetTarget(*target); err != nil {
			return nil, err
		}
	}
	if len(values) > 0 {
		if _, err := vis.Load(values); err != nil {
			return nil, err
		}
	} else if err := vis.Randomize(t.size); err != nil {
		return nil, err
	}
	t.frame = vis.Snapshot()
	t.sortedness.Observe(t.frame)
	return t, nil
}

func (m *Model) initialInput(name string) ([]float64, *float64) {
	if name == m.cfg.Algorithm && (len(m.cfg.Values) > 0 || m.cfg.Target != nil) {
		values := m.cfg.Values
		target := m.cfg.Target
		if p := config.GetPreset(name, "classic"); p != nil {
			if len(values) == 0 {
				values = p.Values
			}
			if target == nil {
				target = p.Target
			}
		}
		return values, target
	}
	if p := config.GetPreset(name, "classic"); p != nil {
		return p.Values, p.Target
	}
	return nil, nil
}

func waitForFrame(ctx context.Context, idx int, recv *bus.Receiver) tea.Cmd {
	return func() tea.Msg {
		f, err := recv.Next(ctx)
		if err != nil {
			return nil
		}
		return frameMsg{tab: idx, frame: f}
	}
}

func (m *Model) Init() tea.Cmd {
	cmds := make([]tea.Cmd, len(m.tabs))
	for i, t := range m.tabs {
		cmds[i] = waitForFrame(m.ctx, i, t.recv)
	}
	return tea.Batch(cmds...)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case frameMsg:
		m.applyFrame(msg)
		return m, waitForFrame(m.ctx, msg.tab, m.tabs[msg.tab].recv)

	case tea.KeyMsg:
		if m.editing != editNone {
			return m.updateEdit(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m *Model) applyFrame(msg frameMsg) {
	if msg.tab < 0 || msg.tab >= len(m.tabs) {
		return
	}
	t := m.tabs[msg.tab]
	f := msg.frame
	t.frame = f
	t.sortedness.Observe(f)

	switch f.State {
	case sim.Idle:
		t.history = t.history[:0]
	default:
		t.history = append(t.history, float64(f.Counters.Comparisons))
		if len(t.history) > historyLen {
			t.history = t.history[len(t.history)-historyLen:]
		}
	}
}

func (m *Model) current() *tab { return m.tabs[m.active] }

func (m *Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	t := m.current()

	switch {
	case key.Matches(msg, keys.Quit):
		m.Shutdown()
		return m, tea.Quit

	case key.Matches(msg, keys.NextTab):
		m.active = (m.active + 1) % len(m.tabs)
		m.status = ""

	case key.Matches(msg, keys.PrevTab):
		m.active = (m.active - 1 + len(m.tabs)) % len(m.tabs)
		m.status = ""

	case key.Matches(msg, keys.Start):
		if t.vis.State() == sim.Idle || t.vis.State() == sim.Completed {
			t.rec.Reset()
			t.history = t.history[:0]
		}
		m.report(t.vis.Start(m.ctx))

	case key.Matches(msg, keys.Step):
		t.vis.Advance()

	case key.Matches(msg, keys.StepMode):
		on := !t.vis.Gate().Enabled()
		t.vis.SetStepMode(on)
		m.status = "step mode " + onOff(on)

	case key.Matches(msg, keys.Faster):
		t.vis.SetSpeed(t.vis.Timing().Speed() + speedStep(t.vis.Timing().Speed()))

	case key.Matches(msg, keys.Slower):
		speed := t.vis.Timing().Speed()
		t.vis.SetSpeed(speed - speedStep(speed-1))

	case key.Matches(msg, keys.Randomize):
		m.report(t.vis.Randomize(t.size))

	case key.Matches(msg, keys.Reset):
		m.report(t.vis.Reset())

	case key.Matches(msg, keys.Grow):
		t.size = min(t.size+1, m.cfg.MaxLen)
		m.report(t.vis.Randomize(t.size))

	case key.Matches(msg, keys.Shrink):
		t.size = max(t.size-1, sequence.MinRandom)
		m.report(t.vis.Randomize(t.size))

	case key.Matches(msg, keys.Values):
		return m, m.beginEdit(editValues, sequence.Format(t.vis.Values()))

	case key.Matches(msg, keys.Target):
		if t.info.Kind != sim.KindSearch {
			m.status = "target applies to searches only"
			return m, nil
		}
		current := ""
		if v, ok := t.vis.Target(); ok {
			current = strconv.FormatFloat(v, 'g', -1, 64)
		}
		return m, m.beginEdit(editTarget, current)

	case key.Matches(msg, keys.View):
		m.view = (m.view + 1) % viewMode(len(viewNames))

	case key.Matches(msg, keys.Theme):
		m.theme = m.theme.Next()
		m.status = "theme " + m.theme.Name

	case key.Matches(msg, keys.Save):
		m.save(t)

	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// speedStep grows with speed so the whole range stays reachable.
func speedStep(speed int) int {
	if speed < 10 {
		return 1
	}
	return 5
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

func (m *Model) report(err error) {
	switch {
	case err == nil:
		m.status = ""
	case errors.Is(err, sim.ErrRunInProgress):
		m.status = "run in progress"
	default:
		m.status = err.Error()
	}
}

func (m *Model) beginEdit(field editField, value string) tea.Cmd {
	m.editing = field
	m.input.SetValue(value)
	m.input.CursorEnd()
	if field == editValues {
		m.input.Placeholder = "12, 4, 8 20"
	} else {
		m.input.Placeholder = "target"
	}
	m.input.Focus()
	return textinput.Blink
}

func (m *Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.endEdit()
		return m, nil
	case tea.KeyEnter:
		m.applyEdit(m.input.Value())
		m.endEdit()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) endEdit() {
	m.editing = editNone
	m.input.Blur()
	m.input.Reset()
}

func (m *Model) applyEdit(text string) {
	t := m.current()
	switch m.editing {
	case editValues:
		notice, err := t.vis.LoadText(text)
		if err != nil {
			m.report(err)
			return
		}
		m.status = notice.Message
		if n := len(t.vis.Values()); n >= sequence.MinRandom {
			t.size = n
		}

	case editTarget:
		text = strings.TrimSpace(text)
		if text == "" {
			t.vis.ClearTarget()
			m.status = "target cleared"
			return
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			m.status = fmt.Sprintf("invalid target %q", text)
			return
		}
		m.report(t.vis.SetTarget(v))
	}
}

func (m *Model) save(t *tab) {
	if m.store == nil {
		m.status = "saving disabled"
		return
	}
	out, ok := t.vis.LastOutcome()
	if !ok {
		m.status = "nothing to save yet"
		return
	}
	frames := t.rec.Frames()
	if len(frames) > out.Frames {
		frames = frames[:out.Frames]
	}
	id, err := m.store.Save(out, frames, storage.RunOptions{Seed: m.cfg.Seed, Speed: t.vis.Timing().Speed()})
	if err != nil {
		m.logger.Error().Err(err).Str("algorithm", t.info.Name).Msg("save trace")
		m.status = "save failed: " + err.Error()
		return
	}
	m.status = "saved " + id
}

// Shutdown aborts in-flight runs and closes every bus.
func (m *Model) Shutdown() {
	m.cancel()
	for _, t := range m.tabs {
		t.bus.Close()
	}
}

func (m *Model) View() string {
	var b strings.Builder
	th := m.theme
	t := m.current()
	f := t.frame

	b.WriteString(viz.GradientText("algosim", th.Primary, th.Secondary))
	b.WriteString("  " + th.Style(th.Muted).Render(t.info.Kind.String()+" · theme "+th.Name+" · view "+m.view.String()))
	b.WriteString("\n\n" + m.tabBar() + "\n\n")

	b.WriteString(th.Style(th.Primary).Bold(true).Render(t.info.Title) + "  " + viz.Status(f.State))
	if f.Phase != sim.PhaseNone && f.State != sim.Completed && f.State != sim.Idle {
		b.WriteString("  " + th.Style(th.Muted).Render(f.Phase.String()))
	}
	b.WriteString("\n")
	b.WriteString(th.Style(th.Muted).Render(fmt.Sprintf("speed %d · step mode %s · size %d",
		t.vis.Timing().Speed(), onOff(t.vis.Gate().Enabled()), len(f.Values))))
	if target, ok := t.vis.Target(); ok && t.info.Kind == sim.KindSearch {
		b.WriteString(th.Style(th.Muted).Render(" · target ") + th.Style(th.Warning).Render(strconv.FormatFloat(target, 'g', -1, 64)))
	}
	b.WriteString("\n\n")

	b.WriteString(m.arrayView(f))
	b.WriteString("\n\n")

	b.WriteString(viz.Counters(f.Counters, t.info, th))
	if t.info.Kind == sim.KindSearch {
		b.WriteString("   " + th.Style(th.Muted).Render("result ") + f.Result.String())
	}
	b.WriteString("\n")
	if t.info.Kind == sim.KindSort {
		b.WriteString(th.Style(th.Muted).Render("sorted ") + viz.ProgressBar(t.sortedness.Value(), gaugeWidth) + "\n")
	}
	if len(t.history) > 1 {
		b.WriteString(th.Style(th.Muted).Render("comparisons ") + viz.SparklineChart(t.history, sparkWidth) + "\n")
	}
	if legend := viz.Legend(f.Highlight, th); legend != "" {
		b.WriteString(legend + "\n")
	}
	if n := viz.NoticeLine(f.Notice, th); n != "" {
		b.WriteString(n + "\n")
	}
	if m.status != "" {
		b.WriteString(viz.KeyHint.Render(m.status) + "\n")
	}

	if m.editing != editNone {
		label := "values: "
		if m.editing == editTarget {
			label = "target: "
		}
		b.WriteString("\n" + th.Style(th.Primary).Render(label) + m.input.View() + "\n")
		b.WriteString(viz.KeyHint.Render("enter to apply · esc to cancel") + "\n")
	}

	b.WriteString("\n" + viz.Separator(m.separatorWidth()) + "\n")
	b.WriteString(m.help.View(keys))
	return b.String()
}

func (m *Model) tabBar() string {
	th := m.theme
	parts := make([]string, len(m.tabs))
	for i, t := range m.tabs {
		label := " " + t.info.Name + " "
		if i == m.active {
			parts[i] = lipgloss.NewStyle().Bold(true).Foreground(th.Text).Background(th.Faint).Render(label)
		} else {
			parts[i] = th.Style(th.Muted).Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) arrayView(f sim.Frame) string {
	switch m.view {
	case viewBadges:
		return viz.Badges(f.Values, f.Highlight, m.theme)
	case viewLine:
		if len(f.Values) < 2 {
			return viz.Bars(f.Values, f.Highlight, m.theme, minBarHeight)
		}
		c := viz.NewCanvas(len(f.Values)*2, plotHeight)
		c.Plot(f.Values)
		return m.theme.Style(m.theme.Bar).Render(c.String())
	}
	return viz.Bars(f.Values, f.Highlight, m.theme, m.barHeight())
}

func (m *Model) separatorWidth() int {
	if m.width == 0 {
		return 40
	}
	return min(m.width, 80)
}

func (m *Model) barHeight() int {
	if m.height == 0 {
		return maxBarHeight / 2
	}
	return min(max(m.height-20, minBarHeight), maxBarHeight)
}

// Run starts the shell and blocks until the user quits or ctx is done.
func Run(ctx context.Context, opts Options) error {
	m, err := NewModel(ctx, opts)
	if err != nil {
		return err
	}
	defer m.Shutdown()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
