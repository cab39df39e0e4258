package viz

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/san-kum/algosim/internal/sim"
)

const (
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"

	liveBarHeight = 10
)

// LiveRenderer redraws the array in place on every frame, throttled to
// frameRate. Frames that end a step or the run are always drawn.
type LiveRenderer struct {
	mu        sync.Mutex
	out       io.Writer
	info      sim.Info
	theme     Theme
	frameRate int
	lastFrame time.Time
	stepHint  string
}

func NewLiveRenderer(out io.Writer, info sim.Info, theme Theme, frameRate int) *LiveRenderer {
	if frameRate <= 0 {
		frameRate = 30
	}
	return &LiveRenderer{
		out:       out,
		info:      info,
		theme:     theme,
		frameRate: frameRate,
	}
}

// SetStepHint sets the line shown while the run waits for a step.
func (r *LiveRenderer) SetStepHint(hint string) {
	r.mu.Lock()
	r.stepHint = hint
	r.mu.Unlock()
}

func (r *LiveRenderer) OnFrame(f sim.Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if f.State == sim.Running && time.Since(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
		return
	}
	r.lastFrame = time.Now()
	fmt.Fprint(r.out, clearScreen+r.render(f))
}

func (r *LiveRenderer) render(f sim.Frame) string {
	var b strings.Builder
	t := r.theme

	fmt.Fprintf(&b, "  %s  %s", t.Style(t.Primary).Bold(true).Render(r.info.Title), Status(f.State))
	if f.Phase != sim.PhaseNone && f.State != sim.Completed {
		b.WriteString("  " + t.Style(t.Muted).Render(f.Phase.String()))
	}
	b.WriteString("\n\n")

	for _, line := range strings.Split(Bars(f.Values, f.Highlight, t, liveBarHeight), "\n") {
		b.WriteString("  " + line + "\n")
	}
	b.WriteString("\n  " + Counters(f.Counters, r.info, t))
	if r.info.Kind == sim.KindSearch {
		b.WriteString("   " + t.Style(t.Muted).Render("result ") + f.Result.String())
	}
	b.WriteString("\n")

	if legend := Legend(f.Highlight, t); legend != "" {
		b.WriteString("  " + legend + "\n")
	}
	if n := NoticeLine(f.Notice, t); n != "" {
		b.WriteString("  " + n + "\n")
	}
	if f.State == sim.AwaitingStep && r.stepHint != "" {
		b.WriteString("  " + KeyHint.Render(r.stepHint) + "\n")
	}
	return b.String()
}

func (r *LiveRenderer) Start() { fmt.Fprint(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Fprint(r.out, showCursor) }
