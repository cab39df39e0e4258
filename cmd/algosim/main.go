package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/san-kum/algosim/internal/automation"
	"github.com/san-kum/algosim/internal/config"
	"github.com/san-kum/algosim/internal/experiment"
	"github.com/san-kum/algosim/internal/export"
	"github.com/san-kum/algosim/internal/logging"
	"github.com/san-kum/algosim/internal/metrics"
	"github.com/san-kum/algosim/internal/sequence"
	"github.com/san-kum/algosim/internal/sim"
	"github.com/san-kum/algosim/internal/storage"
	"github.com/san-kum/algosim/internal/telemetry"
	"github.com/san-kum/algosim/internal/tui"
	"github.com/san-kum/algosim/internal/viz"
)

var (
	dataDir     string
	logFile     string
	logLevel    string
	metricsAddr string

	values     string
	random     int
	target     float64
	speed      int
	instant    bool
	stepMode   bool
	seed       int64
	themeName  string
	configFile string
	preset     string
	save       bool
	frameRate  int

	compareKind string

	benchSizes  []int
	benchTrials int
	benchSeed   int64

	svgFrame int
	svgStyle string
	svgOut   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "algosim",
		Short:         "step-through sorting and searching visualizer",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runTUI,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".algosim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")
	addInputFlags(rootCmd)

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "interactive terminal visualizer",
		Args:  cobra.NoArgs,
		RunE:  runTUI,
	}
	addInputFlags(tuiCmd)

	runCmd := &cobra.Command{
		Use:   "run [algorithm]",
		Short: "run one algorithm with live rendering",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runAlgorithm,
	}
	addInputFlags(runCmd)
	runCmd.Flags().BoolVar(&instant, "instant", false, "skip step delays and live rendering")
	runCmd.Flags().BoolVar(&save, "save", false, "save the run trace to the data directory")
	runCmd.Flags().IntVar(&frameRate, "fps", 30, "live rendering frame rate")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot counters of a saved run (\"latest\" for the newest)",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export the frames of a saved run as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, runID, err := openRun(args[0])
			if err != nil {
				return err
			}
			return st.ExportCSV(os.Stdout, runID)
		},
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a saved run and its frames as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, runID, err := openRun(args[0])
			if err != nil {
				return err
			}
			return st.ExportJSON(os.Stdout, runID)
		},
	}

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "run every algorithm of one kind on the same input",
		Args:  cobra.NoArgs,
		RunE:  compareAlgorithms,
	}
	compareCmd.Flags().StringVar(&values, "values", "", "comma or space separated input")
	compareCmd.Flags().Float64Var(&target, "target", 0, "search target")
	compareCmd.Flags().StringVar(&compareKind, "kind", "sort", "sort or search")

	presetsCmd := &cobra.Command{
		Use:   "presets [algorithm]",
		Short: "list available presets for an algorithm",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for algorithm: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				cfg := config.GetPreset(args[0], p)
				line := fmt.Sprintf("  %-12s %s", p, sequence.Format(cfg.Values))
				if cfg.Target != nil {
					line += fmt.Sprintf("  target %g", *cfg.Target)
				}
				fmt.Println(line)
			}
			return nil
		},
	}

	algorithmsCmd := &cobra.Command{
		Use:   "algorithms",
		Short: "list available algorithms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tKIND\tTITLE")
			for _, info := range experiment.NewRegistry().Infos() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", info.Name, info.Kind, info.Title)
			}
			return w.Flush()
		},
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a default config file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "algosim.yaml"
			if len(args) > 0 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			if err := config.Save(path, config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render a saved run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().IntVar(&svgFrame, "frame", -1, "frame index, negative counts from the end")
	exportSVGCmd.Flags().StringVar(&svgStyle, "style", "bars", "bars, line or counters")
	exportSVGCmd.Flags().StringVarP(&svgOut, "out", "o", "", "output file (default stdout)")

	scriptCmd := &cobra.Command{
		Use:   "script [scenario.yaml]",
		Short: "run a scripted scenario without delays",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}

	benchCmd := &cobra.Command{
		Use:   "bench [algorithm...]",
		Short: "average counters over random inputs of several sizes",
		RunE:  benchAlgorithms,
	}
	benchCmd.Flags().IntSliceVar(&benchSizes, "sizes", []int{5, 10, 20}, "input sizes")
	benchCmd.Flags().IntVar(&benchTrials, "trials", 20, "trials per size")
	benchCmd.Flags().Int64Var(&benchSeed, "seed", 42, "random seed")

	rootCmd.AddCommand(tuiCmd, runCmd, listCmd, plotCmd, exportCmd, exportJSONCmd, exportSVGCmd, compareCmd, scriptCmd, benchCmd, presetsCmd, algorithmsCmd, initCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&values, "values", "", "comma or space separated input")
	cmd.Flags().IntVar(&random, "random", 0, "generate this many random values")
	cmd.Flags().Float64Var(&target, "target", 0, "search target")
	cmd.Flags().IntVar(&speed, "speed", config.DefaultSpeed, "speed 1-100")
	cmd.Flags().BoolVar(&stepMode, "step", false, "pause after every step")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 picks one)")
	cmd.Flags().StringVar(&themeName, "theme", config.DefaultTheme, "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset input")
}

// resolveConfig starts from the config file, fills input missing there from
// the preset and applies explicitly set flags last.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if len(args) > 0 {
		cfg.Algorithm = args[0]
	}

	if preset != "" {
		p := config.GetPreset(cfg.Algorithm, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(cfg.Algorithm))
		}
		if configFile == "" || len(cfg.Values) == 0 {
			cfg.Values = p.Values
		}
		if configFile == "" || cfg.Target == nil {
			cfg.Target = p.Target
		}
	}

	flags := cmd.Flags()
	if flags.Changed("values") {
		cfg.Values = sequence.Parse(values)
		if len(cfg.Values) == 0 {
			return nil, sim.ErrEmptyInput
		}
	}
	if flags.Changed("random") {
		cfg.Values = nil
		cfg.Size = min(max(random, sequence.MinRandom), cfg.MaxLen)
	}
	if flags.Changed("target") {
		t := target
		cfg.Target = &t
	}
	if flags.Changed("speed") {
		cfg.Speed = speed
	}
	if flags.Changed("step") {
		cfg.StepMode = stepMode
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("theme") {
		if _, ok := viz.LookupTheme(themeName); !ok {
			return nil, fmt.Errorf("unknown theme: %s (available: %v)", themeName, viz.ThemeNames())
		}
		cfg.Theme = themeName
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger logs to --log-file when set. Interactive sessions never log to
// the terminal.
func newLogger(interactive bool) (zerolog.Logger, func() error, error) {
	if logFile != "" || interactive {
		return logging.File(logFile, logLevel)
	}
	logger, err := logging.New(os.Stderr, logLevel)
	return logger, func() error { return nil }, err
}

func startMetrics(ctx context.Context, logger zerolog.Logger) {
	if metricsAddr == "" {
		return
	}
	go func() {
		if err := telemetry.Serve(ctx, metricsAddr, logger); err != nil {
			logger.Error().Err(err).Msg("metrics server")
		}
	}()
}

func runTUI(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("the interactive visualizer needs a terminal; use `algosim run` instead")
	}
	cfg, err := resolveConfig(cmd, nil)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(true)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx := cmd.Context()
	startMetrics(ctx, logger)

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	return tui.Run(ctx, tui.Options{
		Config:   cfg,
		Registry: experiment.NewRegistry(),
		Store:    st,
		Logger:   logger,
	})
}

func runAlgorithm(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	logger, closeLog, err := newLogger(false)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx := cmd.Context()
	startMetrics(ctx, logger)

	registry := experiment.NewRegistry()
	driver, err := registry.Get(cfg.Algorithm)
	if err != nil {
		return err
	}

	exp := experiment.New(experiment.Config{
		Algorithm: cfg.Algorithm,
		Values:    cfg.Values,
		Size:      cfg.Size,
		Target:    cfg.Target,
		Speed:     cfg.Speed,
		StepMode:  cfg.StepMode,
		Instant:   instant,
		Seed:      cfg.Seed,
		MaxLen:    cfg.MaxLen,
	}, logger)
	if err := exp.Setup(driver, registry.DefaultMetrics(), sim.WithHook(telemetry.RecordRun)); err != nil {
		return err
	}
	vis := exp.Visualizer()
	info := vis.Info()

	rec := storage.NewRecorder()
	vis.AddObserver(rec)

	if !instant {
		renderer := viz.NewLiveRenderer(os.Stdout, info, viz.GetTheme(cfg.Theme), frameRate)
		if cfg.StepMode {
			renderer.SetStepHint("press enter for the next step")
		}
		vis.AddObserver(renderer)
		renderer.Start()
		defer renderer.Stop()
	}
	if cfg.StepMode {
		go advanceOnEnter(os.Stdin, vis)
	}

	out, err := exp.Run(ctx)
	if err != nil {
		return err
	}

	if n := exp.Notice(); !n.IsZero() {
		fmt.Printf("\nnote: %s\n", n.Message)
	}
	printOutcome(os.Stdout, info, out)

	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(out, rec.Frames(), storage.RunOptions{Seed: cfg.Seed, Speed: vis.Timing().Speed()})
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}
	return nil
}

// advanceOnEnter releases one step per input line until r is exhausted.
func advanceOnEnter(r io.Reader, vis *sim.Visualizer) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		vis.Advance()
	}
}

func printOutcome(w io.Writer, info sim.Info, out sim.Outcome) {
	fmt.Fprintf(w, "\n%s\n", info.Title)
	fmt.Fprintf(w, "input:       %s\n", sequence.Format(out.Input))
	if info.Kind == sim.KindSort {
		fmt.Fprintf(w, "output:      %s\n", sequence.Format(out.Output))
	} else {
		fmt.Fprintf(w, "target:      %g\n", *out.Target)
		fmt.Fprintf(w, "result:      %s\n", out.Result)
	}
	fmt.Fprintf(w, "comparisons: %d\n", out.Counters.Comparisons)
	fmt.Fprintf(w, "%-12s %d\n", info.WriteLabel+":", out.Counters.Writes)
	fmt.Fprintf(w, "frames:      %d\n", out.Frames)
	fmt.Fprintf(w, "elapsed:     %v\n", out.Elapsed.Round(time.Millisecond))

	names := make([]string, 0, len(out.Metrics))
	for name := range out.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(w, "\nmetrics:")
	for _, name := range names {
		fmt.Fprintf(w, "  %s: %.4f\n", name, out.Metrics[name])
	}
}

// openRun resolves "latest" to the newest stored run.
func openRun(runID string) (*storage.Store, string, error) {
	st := storage.New(dataDir)
	if runID != "latest" {
		return st, runID, nil
	}
	id, err := st.Latest()
	if err != nil {
		return nil, "", err
	}
	return st, id, nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tALGORITHM\tTIME\tLEN\tCOMPARISONS\tWRITES\tFRAMES\tRESULT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
			run.ID,
			run.Algorithm,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			len(run.Input),
			run.Comparisons,
			run.Writes,
			run.Frames,
			run.Result,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st, runID, err := openRun(args[0])
	if err != nil {
		return err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("algorithm: %s\n", meta.Algorithm)
	fmt.Printf("frames: %d\n\n", len(frames))

	comparisons := make([]float64, len(frames))
	writes := make([]float64, len(frames))
	order := make([]float64, len(frames))
	sortedness := metrics.NewSortedness()
	for i, f := range frames {
		comparisons[i] = float64(f.Comparisons)
		writes[i] = float64(f.Writes)
		sortedness.Observe(sim.Frame{Values: f.Values})
		order[i] = sortedness.Value()
	}

	graph := asciigraph.PlotMany([][]float64{comparisons, writes},
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Red),
		asciigraph.Caption("comparisons (blue) and writes (red) per frame"),
	)
	fmt.Println(graph)
	fmt.Println()

	if registryKind(meta.Algorithm) == sim.KindSort {
		graph = asciigraph.Plot(order,
			asciigraph.Height(6),
			asciigraph.Width(80),
			asciigraph.Caption("sortedness per frame"),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func registryKind(name string) sim.Kind {
	driver, err := experiment.NewRegistry().Get(name)
	if err != nil {
		return sim.KindSort
	}
	return driver.Info().Kind
}

func compareAlgorithms(cmd *cobra.Command, args []string) error {
	var kind sim.Kind
	switch compareKind {
	case "sort":
		kind = sim.KindSort
	case "search":
		kind = sim.KindSearch
	default:
		return fmt.Errorf("unknown kind: %s (sort or search)", compareKind)
	}

	input := sequence.Parse(values)
	if !cmd.Flags().Changed("values") {
		p := config.GetPreset("quick", "classic")
		input = p.Values
	}
	if len(input) == 0 {
		return sim.ErrEmptyInput
	}

	var tgt *float64
	if cmd.Flags().Changed("target") {
		t := target
		tgt = &t
	} else if kind == sim.KindSearch {
		return sim.ErrTargetUnset
	}

	logger, closeLog, err := newLogger(false)
	if err != nil {
		return err
	}
	defer closeLog()

	registry := experiment.NewRegistry()
	outcomes, err := experiment.Compare(cmd.Context(), registry, kind, input, tgt, logger)
	if err != nil {
		return err
	}

	fmt.Printf("comparing %s algorithms on %s\n\n", kind, sequence.Format(input))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ALGORITHM\tCOMPARISONS\tWRITES\tFRAMES\tRESULT")
	for _, out := range outcomes {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\n",
			out.Algorithm,
			out.Counters.Comparisons,
			out.Counters.Writes,
			out.Frames,
			out.Result,
		)
	}
	return w.Flush()
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st, runID, err := openRun(args[0])
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("run %s has no frames", runID)
	}

	idx := svgFrame
	if idx < 0 {
		idx += len(frames)
	}
	if idx < 0 || idx >= len(frames) {
		return fmt.Errorf("frame %d outside [0,%d)", svgFrame, len(frames))
	}

	var svg string
	switch svgStyle {
	case "bars":
		svg = export.FrameToSVG(frames[idx], 640, 320)
	case "line":
		svg = export.LineToSVG(frames[idx].Values, 40, 10, 6)
	case "counters":
		svg = export.CountersToSVG(frames, 640, 320)
	default:
		return fmt.Errorf("unknown style: %s (bars, line or counters)", svgStyle)
	}

	if svgOut == "" {
		_, err = fmt.Fprintln(os.Stdout, svg)
		return err
	}
	if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", svgOut)
	return nil
}

func runScript(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(false)
	if err != nil {
		return err
	}
	defer closeLog()

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	if scenario.Name != "" {
		fmt.Printf("scenario: %s\n", scenario.Name)
	}
	if scenario.Description != "" {
		fmt.Printf("%s\n", scenario.Description)
	}
	fmt.Println()

	results, err := automation.RunScenario(cmd.Context(), scenario, experiment.NewRegistry(), st, logger)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tALGORITHM\tLEN\tCOMPARISONS\tWRITES\tRESULT\tRUN ID")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%s\t%s\n",
			i+1,
			r.Outcome.Algorithm,
			len(r.Outcome.Input),
			r.Outcome.Counters.Comparisons,
			r.Outcome.Counters.Writes,
			r.Outcome.Result,
			r.RunID,
		)
	}
	if ferr := w.Flush(); ferr != nil {
		return ferr
	}
	return err
}

func benchAlgorithms(cmd *cobra.Command, args []string) error {
	registry := experiment.NewRegistry()
	names := args
	if len(names) == 0 {
		names = registry.List()
	}

	logger, closeLog, err := newLogger(false)
	if err != nil {
		return err
	}
	defer closeLog()

	results, err := automation.RunSweep(cmd.Context(), automation.Sweep{
		Algorithms: names,
		Sizes:      benchSizes,
		Trials:     benchTrials,
		Seed:       benchSeed,
	}, registry, logger)
	if err != nil {
		return err
	}

	fmt.Printf("benchmarking %d trials per size\n\n", max(benchTrials, 1))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ALGORITHM\tSIZE\tMEAN CMP\tMAX CMP\tMEAN WRITES\tMAX WRITES")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%d\t%.1f\t%d\t%.1f\t%d\n",
			r.Algorithm, r.Size, r.MeanComparisons, r.MaxComparisons, r.MeanWrites, r.MaxWrites)
	}
	return w.Flush()
}
