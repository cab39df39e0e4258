package sim

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/san-kum/algosim/internal/sequence"
)

// Metric accumulates a value over the frames of one run.
type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

// Outcome summarises a finished run.
type Outcome struct {
	Algorithm string
	Input     Sequence
	Output    Sequence
	Target    *float64
	Counters  Counters
	Result    SearchResult
	Frames    int
	Elapsed   time.Duration
	Metrics   map[string]float64
}

// Visualizer owns one driver, its sequence and the run lifecycle. All
// methods are safe to call from a UI goroutine while a run is in flight.
type Visualizer struct {
	driver  Driver
	info    Info
	gate    *Gate
	timing  *Timing
	sleeper Sleeper
	logger  zerolog.Logger
	maxLen  int
	rng     *rand.Rand
	hooks   []func(Info, Outcome)

	emitMu    sync.Mutex
	observers []Observer
	metrics   []Metric

	mu       sync.Mutex
	loaded   Sequence
	values   Sequence
	target   *float64
	state    RunState
	counters Counters
	result   SearchResult
	last     Frame
	seq      uint64
	done     chan struct{}
	outcome  *Outcome
}

type Option func(*Visualizer)

func WithLogger(l zerolog.Logger) Option { return func(v *Visualizer) { v.logger = l } }

func WithSleeper(s Sleeper) Option { return func(v *Visualizer) { v.sleeper = s } }

func WithSpeed(speed int) Option { return func(v *Visualizer) { v.timing.SetSpeed(speed) } }

func WithStepMode(on bool) Option { return func(v *Visualizer) { v.gate.SetEnabled(on) } }

func WithSeed(seed int64) Option {
	return func(v *Visualizer) { v.rng = rand.New(rand.NewSource(seed)) }
}

func WithMaxLen(n int) Option {
	return func(v *Visualizer) {
		if n > 0 {
			v.maxLen = n
		}
	}
}

// WithHook registers a callback invoked after every completed run.
func WithHook(fn func(Info, Outcome)) Option {
	return func(v *Visualizer) { v.hooks = append(v.hooks, fn) }
}

func New(driver Driver, opts ...Option) *Visualizer {
	closed := make(chan struct{})
	close(closed)

	v := &Visualizer{
		driver:  driver,
		info:    driver.Info(),
		gate:    NewGate(false),
		timing:  NewTiming(DefaultSpeed),
		sleeper: RealClock(),
		logger:  zerolog.New(io.Discard),
		maxLen:  sequence.MaxLen,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		done:    closed,
	}
	for _, opt := range opts {
		opt(v)
	}
	v.last = Frame{Algorithm: v.info.Name, State: Idle, Result: SearchResult{Index: NoIndex}}
	v.result = SearchResult{Index: NoIndex}
	return v
}

func (v *Visualizer) AddObserver(o Observer) {
	v.emitMu.Lock()
	v.observers = append(v.observers, o)
	v.emitMu.Unlock()
}

func (v *Visualizer) AddMetric(m Metric) {
	v.emitMu.Lock()
	v.metrics = append(v.metrics, m)
	v.emitMu.Unlock()
}

func (v *Visualizer) Info() Info { return v.info }

func (v *Visualizer) Gate() *Gate { return v.gate }

func (v *Visualizer) Timing() *Timing { return v.timing }

func (v *Visualizer) State() RunState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

func (v *Visualizer) Counters() Counters {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.counters
}

// Values returns the current sequence. During a run this is the last
// published snapshot.
func (v *Visualizer) Values() Sequence {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.isActive() {
		return v.last.Values.Clone()
	}
	return v.values.Clone()
}

func (v *Visualizer) Target() (float64, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.target == nil {
		return 0, false
	}
	return *v.target, true
}

// Snapshot returns the most recently published frame.
func (v *Visualizer) Snapshot() Frame {
	v.mu.Lock()
	defer v.mu.Unlock()
	f := v.last
	f.Values = f.Values.Clone()
	return f
}

// LastOutcome returns the outcome of the most recent completed run.
func (v *Visualizer) LastOutcome() (Outcome, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.outcome == nil {
		return Outcome{}, false
	}
	return *v.outcome, true
}

func (v *Visualizer) isActive() bool {
	return v.state == Running || v.state == AwaitingStep
}

func (v *Visualizer) SetSpeed(speed int) { v.timing.SetSpeed(speed) }

func (v *Visualizer) SetStepMode(on bool) { v.gate.SetEnabled(on) }

// Advance releases the driver if it is waiting on the step gate.
func (v *Visualizer) Advance() bool { return v.gate.Advance() }

func (v *Visualizer) SetTarget(t float64) error {
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return ErrInvalidTarget
	}
	v.mu.Lock()
	v.target = &t
	v.mu.Unlock()
	return nil
}

func (v *Visualizer) ClearTarget() {
	v.mu.Lock()
	v.target = nil
	v.mu.Unlock()
}

// Load replaces the sequence. Non-finite values are dropped and input
// beyond the size cap is truncated with a notice. Input that leaves
// nothing is rejected and the previous sequence is kept.
func (v *Visualizer) Load(values []float64) (Notice, error) {
	clean, dropped := sequence.Clean(values, v.maxLen)
	if len(clean) == 0 {
		return Notice{}, ErrEmptyInput
	}
	var notice Notice
	if dropped > 0 {
		notice = Notice{
			Kind:    NoticeTruncated,
			Message: fmt.Sprintf("input truncated to %d elements, %d dropped", v.maxLen, dropped),
		}
	}
	if err := v.replace(clean, notice); err != nil {
		return Notice{}, err
	}
	return notice, nil
}

// LoadText parses delimited text and loads the numbers it contains.
func (v *Visualizer) LoadText(text string) (Notice, error) {
	return v.Load(sequence.Parse(text))
}

// Randomize loads count random values in [1,100]. The count is clamped to
// [sequence.MinRandom, max length].
func (v *Visualizer) Randomize(count int) error {
	if count < sequence.MinRandom {
		count = sequence.MinRandom
	}
	if count > v.maxLen {
		count = v.maxLen
	}
	v.mu.Lock()
	if v.isActive() {
		v.mu.Unlock()
		return ErrRunInProgress
	}
	values := sequence.Random(v.rng, count)
	v.mu.Unlock()
	return v.replace(values, Notice{})
}

func (v *Visualizer) replace(values []float64, notice Notice) error {
	seq := Sequence(values).Clone()
	if v.info.RequiresSorted && !seq.IsSorted() {
		sort.Float64s(seq)
	}

	v.mu.Lock()
	if v.isActive() {
		v.mu.Unlock()
		return ErrRunInProgress
	}
	v.loaded = seq.Clone()
	v.values = seq
	v.resetLocked()
	f := v.frameLocked(nil, PhaseNone, notice)
	v.mu.Unlock()

	v.publish(f)
	return nil
}

// Reset restores the last loaded sequence, zeroes the counters and clears
// highlight and result.
func (v *Visualizer) Reset() error {
	v.mu.Lock()
	if v.isActive() {
		v.mu.Unlock()
		return ErrRunInProgress
	}
	v.values = v.loaded.Clone()
	v.resetLocked()
	f := v.frameLocked(nil, PhaseNone, Notice{})
	v.mu.Unlock()

	v.publish(f)
	return nil
}

func (v *Visualizer) resetLocked() {
	v.state = Idle
	v.counters = Counters{}
	v.result = SearchResult{Index: NoIndex}
}

func (v *Visualizer) frameLocked(h Highlight, phase Phase, notice Notice) Frame {
	return Frame{
		Values:    v.values.Clone(),
		Highlight: h,
		Counters:  v.counters,
		State:     v.state,
		Result:    v.result,
		Phase:     phase,
		Notice:    notice,
	}
}

func (v *Visualizer) publish(f Frame) {
	v.emitMu.Lock()
	defer v.emitMu.Unlock()

	v.mu.Lock()
	v.seq++
	f.Seq = v.seq
	f.Algorithm = v.info.Name
	v.last = f
	v.mu.Unlock()

	for _, o := range v.observers {
		o.OnFrame(f)
	}
}

// Start launches a run on its own goroutine. Starting while a run is in
// flight is ignored. Precondition failures are returned and also published
// as a notice.
func (v *Visualizer) Start(ctx context.Context) error {
	r, err := v.begin()
	if errors.Is(err, ErrRunInProgress) {
		v.logger.Debug().Str("algorithm", v.info.Name).Msg("start ignored, run in progress")
		return nil
	}
	if err != nil {
		return err
	}
	go func() {
		_, _ = v.execute(ctx, r)
	}()
	return nil
}

// Run executes a run on the calling goroutine and returns its outcome.
func (v *Visualizer) Run(ctx context.Context) (Outcome, error) {
	r, err := v.begin()
	if err != nil {
		return Outcome{}, err
	}
	return v.execute(ctx, r)
}

// Done is closed when the current run, if any, has finished.
func (v *Visualizer) Done() <-chan struct{} {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.done
}

func (v *Visualizer) Wait() { <-v.Done() }

func (v *Visualizer) begin() (*Run, error) {
	v.mu.Lock()
	if v.isActive() {
		v.mu.Unlock()
		return nil, ErrRunInProgress
	}

	var reject error
	var notice Notice
	switch err := v.driver.Validate(v.values, v.target); {
	case len(v.values) == 0 || errors.Is(err, ErrEmptySequence):
		reject = ErrEmptySequence
		notice = Notice{Kind: NoticeEmpty, Message: "array is empty"}
	case errors.Is(err, ErrTargetUnset):
		reject = err
		notice = Notice{Kind: NoticeNoTarget, Message: "set a target before searching"}
	case err != nil:
		reject = err
		notice = Notice{Kind: NoticeAborted, Message: err.Error()}
	}
	if reject != nil {
		f := v.frameLocked(nil, PhaseNone, notice)
		v.mu.Unlock()
		v.publish(f)
		return nil, reject
	}

	input := v.values.Clone()
	var target *float64
	if v.target != nil {
		t := *v.target
		target = &t
	}
	v.resetLocked()
	v.state = Running
	v.done = make(chan struct{})
	v.mu.Unlock()

	v.emitMu.Lock()
	metrics := append([]Metric(nil), v.metrics...)
	v.emitMu.Unlock()
	for _, m := range metrics {
		m.Reset()
	}

	r := &Run{v: v, input: input, target: target, metrics: metrics}
	r.arr = NewArray(input, r.emit)
	return r, nil
}

func (v *Visualizer) execute(ctx context.Context, r *Run) (Outcome, error) {
	v.mu.Lock()
	done := v.done
	v.mu.Unlock()
	defer close(done)

	start := time.Now()
	v.logger.Debug().
		Str("algorithm", v.info.Name).
		Int("len", len(r.input)).
		Int("speed", v.timing.Speed()).
		Bool("step_mode", v.gate.Enabled()).
		Msg("run started")

	r.emit(r.arr.Snapshot(), nil, Counters{})

	result, err := v.driver.Run(ctx, r)
	if err != nil {
		v.abort(r, err)
		return Outcome{}, err
	}
	if v.info.Kind == KindSort {
		result = SearchResult{Index: NoIndex}
	}

	out := r.arr.Values()
	counters := r.arr.Counters()
	notice := completionNotice(v.info, result, r.target)
	if v.info.Kind == KindSort && !out.IsSorted() {
		v.logger.Error().Str("algorithm", v.info.Name).Floats64("output", out).Msg("sort finished out of order")
	}
	r.arr.Clear()

	v.mu.Lock()
	v.values = out.Clone()
	v.counters = counters
	v.result = result
	v.state = Completed
	f := v.frameLocked(r.arr.Highlight(), PhaseNone, notice)
	v.mu.Unlock()
	r.observe(f)
	v.publish(f)

	outcome := Outcome{
		Algorithm: v.info.Name,
		Input:     r.input,
		Output:    out,
		Target:    r.target,
		Counters:  counters,
		Result:    result,
		Frames:    r.frames,
		Elapsed:   time.Since(start),
		Metrics:   make(map[string]float64, len(r.metrics)),
	}
	for _, m := range r.metrics {
		outcome.Metrics[m.Name()] = m.Value()
	}

	v.mu.Lock()
	v.outcome = &outcome
	v.mu.Unlock()

	v.logger.Info().
		Str("algorithm", v.info.Name).
		Int("comparisons", counters.Comparisons).
		Int("writes", counters.Writes).
		Str("result", result.String()).
		Dur("elapsed", outcome.Elapsed).
		Msg("run completed")

	for _, hook := range v.hooks {
		hook(v.info, outcome)
	}
	return outcome, nil
}

func (v *Visualizer) abort(r *Run, err error) {
	v.logger.Error().Err(err).Str("algorithm", v.info.Name).Msg("run aborted")

	v.mu.Lock()
	v.values = r.input.Clone()
	v.resetLocked()
	f := v.frameLocked(nil, PhaseNone, Notice{Kind: NoticeAborted, Message: "run aborted"})
	v.mu.Unlock()
	v.publish(f)
}

func (v *Visualizer) setState(s RunState) {
	v.mu.Lock()
	v.state = s
	v.mu.Unlock()
}

func completionNotice(info Info, result SearchResult, target *float64) Notice {
	if info.Kind == KindSort {
		return Notice{Kind: NoticeSorted, Message: "sorting complete"}
	}
	t := 0.0
	if target != nil {
		t = *target
	}
	if result.Status == Found {
		return Notice{Kind: NoticeFound, Message: fmt.Sprintf("%g found at index %d", t, result.Index)}
	}
	return Notice{Kind: NoticeNotFound, Message: fmt.Sprintf("%g not found", t)}
}

// Run is the context handed to a driver for one execution. It carries the
// instrumented array, the captured target and the pacing primitives.
type Run struct {
	v       *Visualizer
	arr     *Array
	input   Sequence
	target  *float64
	metrics []Metric
	phase   Phase
	frames  int
}

func (r *Run) Array() *Array { return r.arr }

func (r *Run) Target() (float64, bool) {
	if r.target == nil {
		return 0, false
	}
	return *r.target, true
}

func (r *Run) emit(values Sequence, h Highlight, c Counters) {
	r.v.mu.Lock()
	state := r.v.state
	r.v.counters = c
	r.v.mu.Unlock()

	f := Frame{
		Values:    values,
		Highlight: h,
		Counters:  c,
		State:     state,
		Result:    SearchResult{Index: NoIndex},
		Phase:     r.phase,
	}
	r.observe(f)
	r.v.publish(f)
}

func (r *Run) observe(f Frame) {
	r.frames++
	for _, m := range r.metrics {
		m.Observe(f)
	}
}

// Show publishes a highlight for the upcoming step.
func (r *Run) Show(phase Phase, h Highlight) error {
	r.phase = phase
	return r.arr.Show(h)
}

// Delay sleeps for the phase's delay without consulting the step gate.
func (r *Run) Delay(ctx context.Context, phase Phase) error {
	r.phase = phase
	return r.v.sleeper.Sleep(ctx, r.v.timing.DelayFor(phase))
}

// Pause sleeps for the phase's delay and then waits on the step gate.
func (r *Run) Pause(ctx context.Context, phase Phase) error {
	if err := r.Delay(ctx, phase); err != nil {
		return err
	}
	ch := r.v.gate.Arm()
	if ch == nil {
		return ctx.Err()
	}

	// Armed before publishing, so an advance sent in reply to this frame
	// releases it.
	r.v.setState(AwaitingStep)
	r.emit(r.arr.Snapshot(), r.arr.Highlight(), r.arr.Counters())
	err := r.v.gate.Await(ctx, ch)
	r.v.setState(Running)
	return err
}

// Step shows a highlight and pauses: the common shape of one visual step.
func (r *Run) Step(ctx context.Context, phase Phase, h Highlight) error {
	if err := r.Show(phase, h); err != nil {
		return err
	}
	return r.Pause(ctx, phase)
}
