package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/algosim/internal/algorithms"
	"github.com/san-kum/algosim/internal/metrics"
	"github.com/san-kum/algosim/internal/sim"
)

type Registry struct {
	drivers map[string]func() sim.Driver
	order   []string
}

func NewRegistry() *Registry {
	r := &Registry{drivers: make(map[string]func() sim.Driver)}

	r.register("bubble", func() sim.Driver { return algorithms.NewBubble() })
	r.register("quick", func() sim.Driver { return algorithms.NewQuick() })
	r.register("merge", func() sim.Driver { return algorithms.NewMerge() })
	r.register("linear", func() sim.Driver { return algorithms.NewLinear() })
	r.register("binary", func() sim.Driver { return algorithms.NewBinary() })

	return r
}

func (r *Registry) register(name string, fn func() sim.Driver) {
	r.drivers[name] = fn
	r.order = append(r.order, name)
}

func (r *Registry) Get(name string) (sim.Driver, error) {
	fn, ok := r.drivers[name]
	if !ok {
		return nil, fmt.Errorf("unknown algorithm: %s", name)
	}
	return fn(), nil
}

// List returns driver names in display order: sorts first, then searches.
func (r *Registry) List() []string {
	return append([]string(nil), r.order...)
}

// ListKind returns the names of drivers of one kind.
func (r *Registry) ListKind(kind sim.Kind) []string {
	var names []string
	for _, name := range r.order {
		if r.drivers[name]().Info().Kind == kind {
			names = append(names, name)
		}
	}
	return names
}

// Infos returns the driver descriptions sorted by name.
func (r *Registry) Infos() []sim.Info {
	infos := make([]sim.Info, 0, len(r.drivers))
	for _, fn := range r.drivers {
		infos = append(infos, fn().Info())
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

func (r *Registry) DefaultMetrics() []sim.Metric {
	return metrics.Default()
}
