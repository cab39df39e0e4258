package experiment

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/algosim/internal/sim"
)

// Compare runs every driver of the given kind on the same input with no
// delays and returns the outcomes in registry order. Each driver runs on its
// own visualizer in parallel; the first failure cancels the rest.
func Compare(ctx context.Context, reg *Registry, kind sim.Kind, values []float64, target *float64, logger zerolog.Logger) ([]sim.Outcome, error) {
	names := reg.ListKind(kind)
	outcomes := make([]sim.Outcome, len(names))

	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		driver, err := reg.Get(name)
		if err != nil {
			return nil, err
		}
		exp := New(Config{Algorithm: name, Values: values, Target: target, Speed: sim.MaxSpeed, Instant: true}, logger)
		if err := exp.Setup(driver, reg.DefaultMetrics()); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}

		g.Go(func() error {
			out, err := exp.Run(gctx)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			outcomes[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}
