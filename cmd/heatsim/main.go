package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/heatsim/internal/config"
	"github.com/san-kum/heatsim/internal/export"
	"github.com/san-kum/heatsim/internal/heat"
	"github.com/san-kum/heatsim/internal/metrics"
	"github.com/san-kum/heatsim/internal/stream"
	"github.com/san-kum/heatsim/internal/sweep"
	"github.com/san-kum/heatsim/internal/viz"
)

var (
	configFile string
	preset     string
	logLevel   string

	diffusivity  float64
	length       float64
	duration     float64
	nodes        int
	interior     float64
	boundary     float64
	safetyFactor float64

	frameRate int
	showField bool
	svgOut    string

	format  string
	outPath string
	stride  int

	addr string

	axes    []string
	workers int
	bestBy  string
)

var log = logrus.New()

func main() {
	os.Exit(execute(newRootCmd(), os.Args[1:]))
}

// execute runs root with args and returns the process exit code. Errors are
// logged rather than printed by cobra.
func execute(root *cobra.Command, args []string) int {
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		log.WithError(err).WithField("command", root.Name()).Error("command failed")
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "heatsim",
		Short: "2D transient heat conduction on a square plate",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logrus.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			log.SetLevel(level)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml or ini)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.Float64VarP(&diffusivity, "diffusivity", "a", heat.DefaultDiffusivity, "thermal diffusivity")
	pf.Float64Var(&length, "length", heat.DefaultLength, "plate side length")
	pf.Float64Var(&duration, "time", heat.DefaultDuration, "simulated duration")
	pf.IntVar(&nodes, "nodes", heat.DefaultNodes, "nodes per side")
	pf.Float64Var(&interior, "interior", heat.DefaultInterior, "initial interior temperature")
	pf.Float64Var(&boundary, "boundary", heat.DefaultBoundary, "boundary temperature")
	pf.Float64Var(&safetyFactor, "safety", heat.DefaultSafetyFactor, "time step safety factor")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run simulation and report metrics",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	runCmd.Flags().BoolVar(&showField, "show", false, "print the final field as a heatmap")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run simulation with live visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	liveCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")

	plotCmd := &cobra.Command{
		Use:   "plot",
		Short: "plot the centre temperature over time",
		Args:  cobra.NoArgs,
		RunE:  plotCentre,
	}
	plotCmd.Flags().StringVar(&svgOut, "svg", "", "also write the history as SVG")

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "export field, animation or chart",
		Args:  cobra.NoArgs,
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&format, "format", "png", "output format (svg, png, avi, chart, json)")
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "", "output path (default heat.<ext>)")
	exportCmd.Flags().IntVar(&stride, "stride", 1, "keep every k-th frame (avi)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "stream runs over websocket",
		Args:  cobra.NoArgs,
		RunE:  serve,
	}
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	serveCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frames per second sent to clients (0 = unpaced)")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run a grid of parameter values concurrently",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringArrayVarP(&axes, "param", "p", nil, "swept parameter as name=v1,v2,... (repeatable)")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "concurrent runs (0 = number of CPUs)")
	sweepCmd.Flags().StringVar(&bestBy, "best", "max_change", "metric to minimise when picking the best case")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	rootCmd.AddCommand(runCmd, liveCmd, plotCmd, exportCmd, sweepCmd, serveCmd, presetsCmd)
	return rootCmd
}

// loadConfig starts from the preset, replaces it with the config file when
// one is given, then applies explicitly set flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("diffusivity") {
		cfg.Diffusivity = diffusivity
	}
	if flags.Changed("length") {
		cfg.Length = length
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("nodes") {
		cfg.Nodes = nodes
	}
	if flags.Changed("interior") {
		cfg.Interior = interior
	}
	if flags.Changed("boundary") {
		cfg.Boundary = boundary
	}
	if flags.Changed("safety") {
		cfg.SafetyFactor = safetyFactor
	}
	if flags.Changed("fps") {
		cfg.Render.FPS = frameRate
	}
	return cfg, nil
}

func newSimulation(cmd *cobra.Command) (*config.Config, *heat.Simulation, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	sim, err := heat.New(cfg.Heat())
	if err != nil {
		return nil, nil, err
	}

	fields := logrus.Fields{
		"nodes": cfg.Nodes,
		"dx":    sim.Dx(),
		"dt":    sim.Dt(),
		"steps": sim.Steps(),
		"ratio": fmt.Sprintf("%.3f", sim.StabilityRatio()),
	}
	log.WithFields(fields).Debug("simulation configured")
	if !sim.Stable() {
		log.WithFields(fields).Warn("time step exceeds the explicit stability limit (ratio > 0.5); expect oscillations, lower --safety to fix")
	}
	return cfg, sim, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, sim, err := newSimulation(cmd)
	if err != nil {
		return err
	}

	set := metrics.NewSet(metrics.Default(sim)...)
	probe := metrics.NewCentreProbe(cfg.Nodes)
	set.Add(probe)

	final, last := sim.Initial(), 0.0
	fmt.Printf("running %d steps on a %dx%d grid...\n", sim.Steps(), cfg.Nodes, cfg.Nodes)
	start := time.Now()
	sim.Run(heat.Chain(set.OnStep, func(_ int, t float64, f *heat.Field) { final, last = f, t }))
	elapsed := time.Since(start)

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("dx: %g  dt: %g  steps: %d\n", sim.Dx(), sim.Dt(), sim.Steps())
	fmt.Println("\nmetrics:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, m := range set.Metrics() {
		fmt.Fprintf(w, "  %s:\t%.6f\n", m.Name(), m.Value())
	}
	w.Flush()

	if showField {
		fmt.Println()
		fmt.Println(viz.Title(last))
		fmt.Println(viz.Heatmap(final, cfg.Render.MinT, cfg.Render.MaxT))
		fmt.Println(viz.Colorbar(cfg.Render.MinT, cfg.Render.MaxT, cfg.Nodes))
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, sim, err := newSimulation(cmd)
	if err != nil {
		return err
	}
	player := viz.NewPlayer(sim, viz.PlayerOptions{
		FPS:     cfg.Render.FPS,
		Lo:      cfg.Render.MinT,
		Hi:      cfg.Render.MaxT,
		Metrics: metrics.NewSet(metrics.Default(sim)...),
	})
	if _, err := tea.NewProgram(player, tea.WithAltScreen()).Run(); err != nil {
		return err
	}
	return player.Err()
}

func centreHistory(cfg *config.Config, sim *heat.Simulation) *metrics.Probe {
	probe := metrics.NewCentreProbe(cfg.Nodes)
	sim.Run(probe.Observe)
	return probe
}

func plotCentre(cmd *cobra.Command, args []string) error {
	cfg, sim, err := newSimulation(cmd)
	if err != nil {
		return err
	}
	probe := centreHistory(cfg, sim)
	if len(probe.Values()) == 0 {
		fmt.Println("no steps to plot")
		return nil
	}

	graph := asciigraph.Plot(probe.Values(),
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("centre temperature, t = 0 .. %.3f s", probe.Times()[len(probe.Times())-1])),
	)
	fmt.Println(graph)

	if svgOut != "" {
		if err := ensureDir(svgOut); err != nil {
			return err
		}
		svg := export.HistoryToSVG(probe.Times(), probe.Values(), 800, 400, cfg.Render.MinT, cfg.Render.MaxT)
		if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
			return err
		}
		log.WithField("path", svgOut).Info("history written")
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	cfg, sim, err := newSimulation(cmd)
	if err != nil {
		return err
	}

	format = strings.ToLower(format)
	ext := map[string]string{"svg": ".svg", "png": ".png", "avi": ".avi", "chart": ".png", "json": ".json"}[format]
	if ext == "" {
		return fmt.Errorf("unknown format: %s (available: svg, png, avi, chart, json)", format)
	}
	path := outPath
	if path == "" {
		path = "heat" + ext
		if format == "chart" {
			path = "heat_history.png"
		}
	}
	if err := ensureDir(path); err != nil {
		return err
	}
	lo, hi := cfg.Render.MinT, cfg.Render.MaxT

	switch format {
	case "avi":
		anim, err := export.NewAnimation(path, cfg.Nodes, export.AnimationOptions{
			FPS:    cfg.Render.FPS,
			Scale:  cfg.Render.Scale,
			Stride: stride,
			Lo:     lo,
			Hi:     hi,
		})
		if err != nil {
			return err
		}
		sim.Run(anim.OnStep)
		if err := anim.Close(); err != nil {
			return err
		}
		log.WithFields(logrus.Fields{"path": path, "frames": anim.Frames()}).Info("animation written")
		return nil

	case "chart":
		probe := centreHistory(cfg, sim)
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := export.HistoryChart(f, probe.Times(), probe.Values(), probe.Name()); err != nil {
			return err
		}
		log.WithField("path", path).Info("chart written")
		return nil

	case "json":
		set := metrics.NewSet(metrics.Default(sim)...)
		probe := metrics.NewCentreProbe(cfg.Nodes)
		set.Add(probe)
		final := sim.Initial()
		sim.Run(heat.Chain(set.OnStep, func(_ int, _ float64, f *heat.Field) { final = f }))

		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		data := export.NewRunData(sim, probe.Times(), probe.Values(), final, set.Values())
		if err := export.WriteJSON(f, data); err != nil {
			return err
		}
		log.WithField("path", path).Info("run data written")
		return nil
	}

	final, elapsed := sim.Initial(), 0.0
	sim.Run(func(_ int, t float64, f *heat.Field) { final, elapsed = f, t })

	switch format {
	case "svg":
		cell := float64(cfg.Render.Scale)
		if err := os.WriteFile(path, []byte(export.FieldToSVG(final, cell, lo, hi)), 0644); err != nil {
			return err
		}
	case "png":
		if err := export.WritePNG(path, export.FieldToImage(final, cfg.Render.Scale, lo, hi, viz.Title(elapsed))); err != nil {
			return err
		}
	}
	log.WithFields(logrus.Fields{"path": path, "format": format}).Info("field written")
	return nil
}

// ensureDir creates the parent directory of path.
func ensureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0755)
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	parsed := make([]sweep.Axis, 0, len(axes))
	for _, a := range axes {
		axis, err := sweep.ParseAxis(a)
		if err != nil {
			return err
		}
		parsed = append(parsed, axis)
	}
	cases := sweep.Grid(cfg.Heat(), parsed)
	log.WithFields(logrus.Fields{"cases": len(cases), "workers": workers}).Info("starting sweep")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	results, err := sweep.Run(ctx, cases, workers)
	if err != nil {
		return err
	}
	log.WithField("elapsed", time.Since(start)).Info("sweep finished")

	names := sweep.Names(cases)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, n := range names {
		fmt.Fprintf(w, "%s\t", strings.ToUpper(n))
	}
	fmt.Fprintf(w, "STEPS\tRATIO\tSTABLE\tCENTRE\t%s\n", strings.ToUpper(bestBy))
	for _, r := range results {
		for _, n := range names {
			fmt.Fprintf(w, "%g\t", r.Params[n])
		}
		if r.Err != nil {
			fmt.Fprintf(w, "-\t-\t-\t-\t%v\n", r.Err)
			continue
		}
		fmt.Fprintf(w, "%d\t%.3f\t%v\t%.3f\t%.6g\n", r.Steps, r.Ratio, r.Stable, r.Metrics["centre_temperature"], r.Metrics[bestBy])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if idx := sweep.Best(results, bestBy); idx >= 0 {
		fmt.Printf("\nbest by %s: %v\n", bestBy, results[idx].Params)
	}
	return nil
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, sim, err := newSimulation(cmd)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := stream.NewServer(sim, cfg.Render.FPS, log)
	return srv.ListenAndServe(ctx, addr)
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tNODES\tTIME\tSAFETY\tSTEPS\tSTABLE")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		sim, err := heat.New(p.Heat())
		if err != nil {
			return fmt.Errorf("preset %s: %w", name, err)
		}
		fmt.Fprintf(w, "%s\t%d\t%g\t%g\t%d\t%v\n", name, p.Nodes, p.Duration, p.SafetyFactor, sim.Steps(), sim.Stable())
	}
	return w.Flush()
}
