// Package telemetry exports run counters to Prometheus.
package telemetry

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/san-kum/algosim/internal/sim"
)

var (
	// runsTotal counts finished runs.
	// Labels: algorithm, outcome (sorted, found, not_found)
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "algosim",
		Subsystem: "runs",
		Name:      "total",
		Help:      "Total completed runs",
	}, []string{"algorithm", "outcome"})

	// comparisonsTotal counts comparisons across runs.
	// Labels: algorithm
	comparisonsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "algosim",
		Subsystem: "runs",
		Name:      "comparisons_total",
		Help:      "Total comparisons performed by drivers",
	}, []string{"algorithm"})

	// writesTotal counts counted writes (swaps or staged merge writes).
	// Labels: algorithm
	writesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "algosim",
		Subsystem: "runs",
		Name:      "writes_total",
		Help:      "Total counted writes performed by drivers",
	}, []string{"algorithm"})

	// runFrames measures frames published per run.
	// Labels: algorithm
	runFrames = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "algosim",
		Subsystem: "runs",
		Name:      "frames",
		Help:      "Frames published per run",
		Buckets:   []float64{10, 25, 50, 100, 200, 400, 800, 1600},
	}, []string{"algorithm"})

	// runDuration measures wall time per run.
	// Labels: algorithm
	runDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "algosim",
		Subsystem: "runs",
		Name:      "duration_seconds",
		Help:      "Wall time of completed runs in seconds",
		Buckets:   []float64{0.001, 0.01, 0.1, 1, 5, 15, 30, 60, 120},
	}, []string{"algorithm"})
)

func outcomeLabel(info sim.Info, r sim.SearchResult) string {
	if info.Kind == sim.KindSort {
		return "sorted"
	}
	if r.Status == sim.Found {
		return "found"
	}
	return "not_found"
}

// RecordRun is a visualizer completion hook.
func RecordRun(info sim.Info, out sim.Outcome) {
	runsTotal.WithLabelValues(info.Name, outcomeLabel(info, out.Result)).Inc()
	comparisonsTotal.WithLabelValues(info.Name).Add(float64(out.Counters.Comparisons))
	writesTotal.WithLabelValues(info.Name).Add(float64(out.Counters.Writes))
	runFrames.WithLabelValues(info.Name).Observe(float64(out.Frames))
	runDuration.WithLabelValues(info.Name).Observe(out.Elapsed.Seconds())
}

// Handler returns the mux serving /metrics.
func Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// Serve exposes /metrics on addr until ctx is done.
func Serve(ctx context.Context, addr string, logger zerolog.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return serve(ctx, ln, logger)
}

func serve(ctx context.Context, ln net.Listener, logger zerolog.Logger) error {
	srv := &http.Server{Handler: Handler(), ReadHeaderTimeout: 5 * time.Second}

	errc := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", ln.Addr().String()).Msg("metrics listening")
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdown)
	}
}
