package experiment

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/san-kum/algosim/internal/sequence"
	"github.com/san-kum/algosim/internal/sim"
)

type Config struct {
	Algorithm string
	Values    []float64
	Size      int
	Target    *float64
	Speed     int
	StepMode  bool
	Instant   bool
	Seed      int64
	MaxLen    int
}

// Experiment drives one visualizer without the interactive shell.
type Experiment struct {
	cfg        Config
	logger     zerolog.Logger
	visualizer *sim.Visualizer
	notice     sim.Notice
	randSource *rand.Rand
}

func New(cfg Config, logger zerolog.Logger) *Experiment {
	return &Experiment{
		cfg:        cfg,
		logger:     logger,
		randSource: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Setup builds the visualizer and loads its input: the configured values,
// or Size random values when none are given.
func (e *Experiment) Setup(driver sim.Driver, metrics []sim.Metric, opts ...sim.Option) error {
	speed := e.cfg.Speed
	if speed == 0 {
		speed = sim.DefaultSpeed
	}
	base := []sim.Option{
		sim.WithLogger(e.logger),
		sim.WithSpeed(speed),
		sim.WithStepMode(e.cfg.StepMode),
		sim.WithSeed(e.randSource.Int63()),
		sim.WithMaxLen(e.cfg.MaxLen),
	}
	if e.cfg.Instant {
		base = append(base, sim.WithSleeper(sim.Instant()))
	}
	e.visualizer = sim.New(driver, append(base, opts...)...)
	for _, m := range metrics {
		e.visualizer.AddMetric(m)
	}

	if len(e.cfg.Values) > 0 {
		notice, err := e.visualizer.Load(e.cfg.Values)
		if err != nil {
			return err
		}
		e.notice = notice
	} else {
		size := e.cfg.Size
		if size == 0 {
			size = sequence.MaxLen / 2
		}
		if err := e.visualizer.Randomize(size); err != nil {
			return err
		}
	}

	if e.cfg.Target != nil {
		if err := e.visualizer.SetTarget(*e.cfg.Target); err != nil {
			return err
		}
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (sim.Outcome, error) {
	if e.visualizer == nil {
		return sim.Outcome{}, fmt.Errorf("experiment not setup")
	}
	return e.visualizer.Run(ctx)
}

// Notice returns the notice produced while loading input, if any.
func (e *Experiment) Notice() sim.Notice {
	return e.notice
}

// Visualizer returns the underlying visualizer for adding observers.
func (e *Experiment) Visualizer() *sim.Visualizer {
	return e.visualizer
}
