// Package automation runs scripted scenarios and size sweeps headlessly.
package automation

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/algosim/internal/config"
	"github.com/san-kum/algosim/internal/experiment"
	"github.com/san-kum/algosim/internal/sequence"
	"github.com/san-kum/algosim/internal/sim"
	"github.com/san-kum/algosim/internal/storage"
)

var ErrEmptyScenario = errors.New("automation: scenario has no steps")

// Scenario is a scripted list of runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run. Input comes from Values, else Preset, else Size
// random values.
type ScenarioStep struct {
	Algorithm string    `yaml:"algorithm"`
	Preset    string    `yaml:"preset"`
	Values    []float64 `yaml:"values"`
	Size      int       `yaml:"size"`
	Target    *float64  `yaml:"target"`
	Seed      int64     `yaml:"seed"`
	Save      bool      `yaml:"save"`
}

// StepResult pairs a step with its outcome and, when saved, its run ID.
type StepResult struct {
	Step    ScenarioStep
	Outcome sim.Outcome
	RunID   string
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, ErrEmptyScenario
	}
	return &scenario, nil
}

func (s ScenarioStep) input() ([]float64, *float64, error) {
	values, target := s.Values, s.Target
	if len(values) == 0 && s.Preset != "" {
		p := config.GetPreset(s.Algorithm, s.Preset)
		if p == nil {
			return nil, nil, fmt.Errorf("unknown preset: %s", s.Preset)
		}
		values = p.Values
		if target == nil {
			target = p.Target
		}
	}
	return values, target, nil
}

// RunScenario executes every step without delays. Steps marked save are
// written to st, which may be nil when no step saves.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, st *storage.Store, logger zerolog.Logger) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		logger.Info().Int("step", i+1).Int("of", len(scenario.Steps)).Str("algorithm", step.Algorithm).Msg("scenario step")

		driver, err := registry.Get(step.Algorithm)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		values, target, err := step.input()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		exp := experiment.New(experiment.Config{
			Algorithm: step.Algorithm,
			Values:    values,
			Size:      step.Size,
			Target:    target,
			Speed:     sim.MaxSpeed,
			Instant:   true,
			Seed:      step.Seed,
		}, logger)
		if err := exp.Setup(driver, registry.DefaultMetrics()); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}
		rec := storage.NewRecorder()
		exp.Visualizer().AddObserver(rec)

		out, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		res := StepResult{Step: step, Outcome: out}
		if step.Save {
			if st == nil {
				return results, fmt.Errorf("step %d: no store to save into", i+1)
			}
			res.RunID, err = st.Save(out, rec.Frames(), storage.RunOptions{Seed: step.Seed, Speed: sim.MaxSpeed})
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, res)
	}

	return results, nil
}

// Sweep runs each algorithm Trials times at every size on random input.
type Sweep struct {
	Algorithms []string
	Sizes      []int
	Trials     int
	Seed       int64
}

// SweepResult aggregates the trials of one algorithm at one size.
type SweepResult struct {
	Algorithm       string
	Size            int
	Trials          int
	MeanComparisons float64
	MaxComparisons  int
	MeanWrites      float64
	MaxWrites       int
}

// RunSweep executes the grid. Search trials probe a random value from
// [1,100], so some trials miss.
func RunSweep(ctx context.Context, sweep Sweep, registry *experiment.Registry, logger zerolog.Logger) ([]SweepResult, error) {
	trials := max(sweep.Trials, 1)
	rng := rand.New(rand.NewSource(sweep.Seed))
	results := make([]SweepResult, 0, len(sweep.Algorithms)*len(sweep.Sizes))

	for _, name := range sweep.Algorithms {
		for _, size := range sweep.Sizes {
			res := SweepResult{Algorithm: name, Size: size, Trials: trials}
			var comparisons, writes int

			for trial := 0; trial < trials; trial++ {
				driver, err := registry.Get(name)
				if err != nil {
					return nil, err
				}
				cfg := experiment.Config{
					Algorithm: name,
					Size:      size,
					Speed:     sim.MaxSpeed,
					Instant:   true,
					Seed:      rng.Int63(),
					MaxLen:    max(size, sequence.MaxLen),
				}
				if driver.Info().Kind == sim.KindSearch {
					t := sequence.Random(rng, 1)[0]
					cfg.Target = &t
				}

				exp := experiment.New(cfg, logger)
				if err := exp.Setup(driver, nil); err != nil {
					return nil, fmt.Errorf("%s size %d: %w", name, size, err)
				}
				out, err := exp.Run(ctx)
				if err != nil {
					return nil, fmt.Errorf("%s size %d: %w", name, size, err)
				}

				comparisons += out.Counters.Comparisons
				writes += out.Counters.Writes
				res.MaxComparisons = max(res.MaxComparisons, out.Counters.Comparisons)
				res.MaxWrites = max(res.MaxWrites, out.Counters.Writes)
			}

			res.MeanComparisons = float64(comparisons) / float64(trials)
			res.MeanWrites = float64(writes) / float64(trials)
			results = append(results, res)
			logger.Debug().Str("algorithm", name).Int("size", size).Float64("mean_comparisons", res.MeanComparisons).Msg("sweep cell")
		}
	}
	return results, nil
}
