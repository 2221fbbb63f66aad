package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/gravwell/internal/analysis"
	"github.com/san-kum/gravwell/internal/automation"
	"github.com/san-kum/gravwell/internal/config"
	"github.com/san-kum/gravwell/internal/control"
	"github.com/san-kum/gravwell/internal/engine"
	"github.com/san-kum/gravwell/internal/export"
	"github.com/san-kum/gravwell/internal/gui"
	"github.com/san-kum/gravwell/internal/metrics"
	"github.com/san-kum/gravwell/internal/storage"
	"github.com/san-kum/gravwell/internal/vecmath"
	"github.com/san-kum/gravwell/internal/viz"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string
	seed       int64
	autoCount  bool

	// tui
	gifPath  string
	gifLimit int

	// run
	ticks       int
	trials      int
	metricNames []string
	noSave      bool

	// sweep
	axes        []string
	sweepMetric string
	maximize    bool

	// snapshot
	svgPath   string
	snapGIF   string
	snapTicks int
	wells     int

	// plot
	column  string
	plotSVG string

	// config
	outPath string
)

// main registers the commands and runs the root command, which opens the
// terminal launcher when no subcommand is given.
func main() {
	rootCmd := &cobra.Command{
		Use:           "gravwell",
		Short:         "interactive gravity well particle simulation",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runTUI,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".gravwell", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "apply a named preset")
	pf.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.Int64Var(&seed, "seed", 0, "random seed (0 picks one from the clock)")
	pf.BoolVar(&autoCount, "auto-count", false, "adjust particle count to hold the target frame rate (tui, gui)")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "run in the terminal",
		RunE:  runTUI,
	}
	tuiCmd.Flags().StringVar(&gifPath, "gif", "gravwell.gif", "where the g key saves recordings")
	tuiCmd.Flags().IntVar(&gifLimit, "gif-frames", 600, "maximum frames kept per recording")
	rootCmd.Flags().AddFlagSet(tuiCmd.Flags())

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run in a native window",
		RunE:  runGUI,
	}

	runCmd := &cobra.Command{
		Use:   "run [scenario.yaml]",
		Short: "replay a scenario headless and store the results",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScenario,
	}
	runCmd.Flags().IntVar(&ticks, "ticks", 600, "ticks to run when no scenario is given")
	runCmd.Flags().IntVar(&trials, "trials", 1, "seeded replays; more than one prints a summary and stores nothing")
	runCmd.Flags().StringSliceVar(&metricNames, "metrics", nil, "metrics to compute (default all: "+strings.Join(metrics.Names(), ", ")+")")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	sweepCmd := &cobra.Command{
		Use:   "sweep [scenario.yaml]",
		Short: "grid search config parameters against a metric",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringArrayVar(&axes, "param", nil, "swept parameter as name=v1,v2 (repeatable)")
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "energy_drift", "metric to optimise")
	sweepCmd.Flags().BoolVar(&maximize, "maximize", false, "pick the highest value instead of the lowest")
	sweepCmd.Flags().IntVar(&ticks, "ticks", 600, "ticks to run when no scenario is given")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "render frames to SVG or GIF",
		RunE:  runSnapshot,
	}
	snapshotCmd.Flags().StringVar(&svgPath, "svg", "", "write the last frame as SVG")
	snapshotCmd.Flags().StringVar(&snapGIF, "gif", "", "write every frame as an animated GIF")
	snapshotCmd.Flags().IntVar(&snapTicks, "ticks", 120, "ticks to simulate")
	snapshotCmd.Flags().IntVar(&wells, "wells", 3, "random wells spawned before the first tick")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata as JSON, or frames as CSV with --csv",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().Bool("csv", false, "print frames as CSV")

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a frame column of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&column, "column", "mean_speed", "mean_speed, max_speed, kinetic_energy, particles, wells or resets")
	plotCmd.Flags().StringVar(&plotSVG, "svg", "", "also write the series as SVG")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets and themes",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("presets:")
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
			fmt.Println("themes:")
			for _, t := range config.ListThemes() {
				fmt.Printf("  %s\n", t)
			}
			return nil
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the effective configuration",
		RunE:  showConfig,
	}
	configCmd.Flags().StringVar(&outPath, "out", "", "save to this path instead of printing")

	rootCmd.AddCommand(tuiCmd, guiCmd, runCmd, sweepCmd, snapshotCmd, listCmd, exportCmd, plotCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadConfig layers the config file (or defaults), environment, preset and
// flags, in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	if configFile != "" {
		c, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = c
	} else {
		cfg = config.DefaultConfig()
		if err := cfg.ApplyEnv(nil); err != nil {
			return nil, err
		}
	}

	if preset != "" {
		apply, ok := config.Presets[preset]
		if !ok {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		apply(cfg)
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func resolveSeed(s int64) int64 {
	if s == 0 {
		return time.Now().UnixNano()
	}
	return s
}

func newEngine(cfg *config.Config, s int64, log *slog.Logger) (*engine.Engine, error) {
	return engine.New(cfg.Simulation, cfg.Bounds(),
		engine.WithRand(rand.New(rand.NewSource(s))),
		engine.WithLogger(log.With("component", "engine")),
	)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// The terminal belongs to bubbletea; only errors reach stderr.
	log := newLogger("error")

	build := func(name string) (*viz.Model, error) {
		c := cfg
		if p := config.GetPreset(name); p != nil && preset == "" {
			p.Seed, p.Theme, p.FPS = cfg.Seed, cfg.Theme, cfg.FPS
			c = p
		}
		e, err := newEngine(c, resolveSeed(c.Seed), log)
		if err != nil {
			return nil, err
		}
		opts := []viz.Option{
			viz.WithTheme(c.Theme),
			viz.WithFPS(c.FPS),
			viz.WithLogger(log),
			viz.WithRecorder(export.NewGIFRecorder(gifPath, 100/max(c.FPS, 1), gifLimit)),
		}
		if autoCount {
			opts = append(opts, viz.WithGovernor(control.NewGovernor(float64(c.FPS), 10, 5000)))
		}
		return viz.NewModel(e, opts...), nil
	}

	var m tea.Model
	if preset != "" || configFile != "" {
		live, err := build(preset)
		if err != nil {
			return err
		}
		m = live
	} else {
		items := []viz.LaunchItem{{Name: "default", Description: "configured defaults"}}
		for _, name := range config.ListPresets() {
			items = append(items, viz.LaunchItem{Name: name, Description: presetSummary(name)})
		}
		m = viz.NewLauncher(items, build)
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}

func presetSummary(name string) string {
	p := config.GetPreset(name)
	if p == nil {
		return ""
	}
	s := p.Simulation
	return fmt.Sprintf("%d particles, max speed %.0f, %s spawn", s.ParticleCount, s.Particle.MaxSpeed, s.Spawn)
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger(cfg.LogLevel)
	e, err := newEngine(cfg, resolveSeed(cfg.Seed), log)
	if err != nil {
		return err
	}
	return gui.Run(e, gui.Options{
		FPS:       int32(cfg.FPS),
		Theme:     cfg.Theme,
		Logger:    log.With("component", "gui"),
		AutoCount: autoCount,
	})
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger(cfg.LogLevel)

	sc, err := loadScenario(args)
	if err != nil {
		return err
	}
	if _, err := metrics.New(metricNames...); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	base := resolveSeed(cfg.Seed)
	if trials > 1 {
		results, err := automation.RunTrials(ctx, sc, base, trials, func(s int64) (*engine.Engine, []engine.Metric, error) {
			e, err := newEngine(cfg, s, log)
			if err != nil {
				return nil, nil, err
			}
			ms, err := metrics.New(metricNames...)
			return e, ms, err
		}, log)
		if err != nil {
			return err
		}
		return printSummary(sc, results)
	}

	e, err := newEngine(cfg, base, log)
	if err != nil {
		return err
	}
	ms, _ := metrics.New(metricNames...)
	for _, m := range ms {
		e.AddMetric(m)
	}
	rec := storage.NewRecorder()
	e.AddMetric(rec)

	start := time.Now()
	if err := automation.Run(ctx, e, sc, log, nil); err != nil {
		return err
	}
	log.Info("scenario finished", "scenario", sc.Name, "ticks", sc.Ticks, "elapsed", time.Since(start))

	values := metrics.Values(ms)
	perf := e.PerformanceMetrics()
	fmt.Printf("scenario: %s\n", sc.Name)
	fmt.Printf("ticks: %d  particles: %d  wells: %d  resets: %d\n\n", sc.Ticks, perf.ParticleCount, perf.WellCount, perf.ParticleResets)
	if err := printMetrics(values); err != nil {
		return err
	}

	if noSave {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	b := e.Bounds()
	runID, err := st.Save(storage.RunMetadata{
		Scenario: sc.Name,
		Seed:     base,
		Ticks:    sc.Ticks,
		Dt:       sc.FrameTime().Seconds(),
		Width:    b.Width,
		Height:   b.Height,
		Config:   e.Config(),
		Metrics:  values,
	}, rec.Frames)
	if err != nil {
		return err
	}
	fmt.Printf("\nsaved: %s\n", runID)
	return nil
}

func loadScenario(args []string) (*automation.Scenario, error) {
	if len(args) == 1 {
		return automation.LoadScenario(args[0])
	}
	return &automation.Scenario{Name: "free", Ticks: ticks}, nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	if len(axes) == 0 {
		return fmt.Errorf("nothing to sweep: pass --param name=v1,v2")
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger(cfg.LogLevel)
	sc, err := loadScenario(args)
	if err != nil {
		return err
	}
	if _, err := metrics.New(sweepMetric); err != nil {
		return err
	}

	grid := make([]automation.Axis, 0, len(axes))
	for _, spec := range axes {
		ax, err := automation.ParseAxis(spec)
		if err != nil {
			return err
		}
		grid = append(grid, ax)
	}

	ctx, cancel := signalContext()
	defer cancel()

	s := resolveSeed(cfg.Seed)
	points, err := automation.Sweep(ctx, sc, cfg.Simulation, grid, func(c engine.Config) (*engine.Engine, []engine.Metric, error) {
		e, err := engine.New(c, cfg.Bounds(),
			engine.WithRand(rand.New(rand.NewSource(s))),
			engine.WithLogger(log.With("component", "engine")),
		)
		if err != nil {
			return nil, nil, err
		}
		ms, err := metrics.New(sweepMetric)
		return e, ms, err
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	header := make([]string, 0, len(grid)+1)
	for _, ax := range grid {
		header = append(header, strings.ToUpper(ax.Name))
	}
	fmt.Fprintln(w, strings.Join(append(header, strings.ToUpper(sweepMetric)), "\t"))
	for _, pt := range points {
		row := make([]string, 0, len(grid)+1)
		for _, ax := range grid {
			row = append(row, fmt.Sprintf("%g", pt.Params[ax.Name]))
		}
		if pt.Err != nil {
			row = append(row, "error: "+pt.Err.Error())
		} else {
			row = append(row, fmt.Sprintf("%.4f", pt.Metrics[sweepMetric]))
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	best, ok := automation.Best(points, sweepMetric, maximize)
	if !ok {
		return fmt.Errorf("no sweep point completed")
	}
	fmt.Printf("\nbest %s = %.4f at %v\n", sweepMetric, best.Metrics[sweepMetric], best.Params)
	return nil
}

func printMetrics(values map[string]float64) error {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tVALUE")
	for _, name := range names {
		fmt.Fprintf(w, "%s\t%.4f\n", name, values[name])
	}
	return w.Flush()
}

func printSummary(sc *automation.Scenario, results []automation.TrialResult) error {
	summary := automation.Summarize(results)
	names := make([]string, 0, len(summary))
	for name := range summary {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Printf("scenario: %s\ntrials: %d\n\n", sc.Name, len(results))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tMEAN\tMIN\tMAX")
	for _, name := range names {
		s := summary[name]
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%.4f\n", name, s.Mean, s.Min, s.Max)
	}
	return w.Flush()
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	if svgPath == "" && snapGIF == "" {
		return fmt.Errorf("nothing to write: pass --svg or --gif")
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger(cfg.LogLevel)
	s := resolveSeed(cfg.Seed)
	e, err := newEngine(cfg, s, log)
	if err != nil {
		return err
	}

	b := e.Bounds()
	rng := rand.New(rand.NewSource(s))
	for i := 0; i < wells; i++ {
		e.SpawnWell(b.Center().Add(randomOffset(rng, b.Width/3, b.Height/3)), i%3 == 2)
	}

	var (
		term *viz.Surface
		rec  *export.GIFRecorder
	)
	if snapGIF != "" {
		cols, rows := viz.CanvasForBounds(b, 100, 40)
		term = viz.NewSurface(cols, rows, b)
		rec = export.NewGIFRecorder(snapGIF, 100/max(cfg.FPS, 1), 0)
	}

	dt := time.Second / time.Duration(max(cfg.FPS, 1))
	for i := 0; i < snapTicks; i++ {
		e.Update(dt)
		if term != nil {
			if err := e.Render(term); err != nil {
				return err
			}
			rec.Capture(term.Canvas())
		}
	}

	if rec != nil {
		path, err := rec.Save()
		if err != nil {
			return err
		}
		fmt.Printf("wrote %s (%d frames)\n", path, snapTicks)
	}
	if svgPath != "" {
		svg := export.NewSVG(b)
		if err := e.Render(svg); err != nil {
			return err
		}
		f, err := os.Create(svgPath)
		if err != nil {
			return err
		}
		defer f.Close()
		if _, err := svg.WriteTo(f); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgPath)
	}
	return nil
}

func randomOffset(rng *rand.Rand, rx, ry float64) vecmath.Vec2 {
	return vecmath.Vec2{X: (rng.Float64()*2 - 1) * rx, Y: (rng.Float64()*2 - 1) * ry}
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
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tTICKS\tSEED\tPARTICLES")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Ticks,
			run.Seed,
			run.Config.ParticleCount,
		)
	}

	return w.Flush()
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	if asCSV, _ := cmd.Flags().GetBool("csv"); asCSV {
		frames, err := st.LoadFrames(args[0])
		if err != nil {
			return err
		}
		return storage.WriteFrames(os.Stdout, frames)
	}
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, *meta)
}

var columns = map[string]func(engine.FrameStats) float64{
	"mean_speed":     func(f engine.FrameStats) float64 { return f.MeanSpeed },
	"max_speed":      func(f engine.FrameStats) float64 { return f.MaxSpeed },
	"kinetic_energy": func(f engine.FrameStats) float64 { return f.KineticEnergy },
	"particles":      func(f engine.FrameStats) float64 { return float64(f.Particles) },
	"wells":          func(f engine.FrameStats) float64 { return float64(f.Wells) },
	"resets":         func(f engine.FrameStats) float64 { return float64(f.Resets) },
}

func plotRun(cmd *cobra.Command, args []string) error {
	pick, ok := columns[column]
	if !ok {
		return fmt.Errorf("unknown column: %s", column)
	}

	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	data := storage.Series(frames, pick)
	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", len(data))

	graph := asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(column+" vs tick"),
	)
	fmt.Println(graph)
	if period, _ := analysis.DominantPeriod(data, meta.Dt); period > 0 {
		fmt.Printf("\ndominant period: %.3fs\n", period)
	}

	if plotSVG != "" {
		out := export.SeriesToSVG(data, 800, 240, "#00ffff")
		if err := os.WriteFile(plotSVG, []byte(out), 0644); err != nil {
			return err
		}
		fmt.Printf("\nwrote %s\n", plotSVG)
	}
	return nil
}

func showConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if outPath != "" {
		if err := config.Save(outPath, cfg); err != nil {
			return err
		}
		fmt.Printf("saved %s\n", outPath)
		return nil
	}
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(cfg)
}
