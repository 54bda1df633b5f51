package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/partisim/internal/analysis"
	"github.com/san-kum/partisim/internal/automation"
	"github.com/san-kum/partisim/internal/config"
	"github.com/san-kum/partisim/internal/export"
	"github.com/san-kum/partisim/internal/metrics"
	"github.com/san-kum/partisim/internal/optim"
	"github.com/san-kum/partisim/internal/particle"
	"github.com/san-kum/partisim/internal/sim"
	"github.com/san-kum/partisim/internal/storage"
	"github.com/san-kum/partisim/internal/stream"
	"github.com/san-kum/partisim/internal/tui"
	"github.com/san-kum/partisim/internal/viz"
)

var (
	dataDir string

	runFlags   systemFlags
	liveFlags  systemFlags
	serveFlags systemFlags
	ensFlags   systemFlags
	sweepFlags systemFlags

	watch           bool
	trace           uint64
	tick            int
	plotParticle    int
	svgParticle     int
	analyzeParticle int
	svgOut          string
	gifOut          string
	scale           float64
	delay           int
	addr            string
	ensembleRuns    int
	benchN          int
	sweepParam      string
	sweepMin        float64
	sweepMax        float64
	sweepSteps      int
	tuneCount       int
	tuneTicks       int
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Registering the flags resets every
// flag variable to its default.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "partisim",
		Short: "deterministic bouncing particle simulator",
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunPicker()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".partisim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and save it",
		Long:  "Run a headless simulation and save its frames and metrics.\nInterrupting with Ctrl-C stops early and saves the ticks completed so far.",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addSystemFlags(runCmd, &runFlags)
	runCmd.Flags().BoolVar(&watch, "watch", false, "draw the system in the terminal while running")
	runCmd.Flags().Uint64Var(&trace, "trace", 0, "print the first particle every n ticks")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot one particle's path and the kinetic energy",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&plotParticle, "particle", 0, "particle index")

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "print run metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, err := storage.New(dataDir).Load(args[0])
			if err != nil {
				return err
			}
			return printJSON(meta)
		},
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run frames to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and frames to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render a frame, or one particle's trajectory, to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().IntVar(&tick, "tick", -1, "tick to render (default last recorded)")
	exportSVGCmd.Flags().IntVar(&svgParticle, "particle", -1, "draw this particle's trajectory instead of a frame")
	exportSVGCmd.Flags().StringVarP(&svgOut, "out", "o", "", "output file (default stdout)")

	exportGIFCmd := &cobra.Command{
		Use:   "export-gif [run_id]",
		Short: "animate the recorded frames as a GIF",
		Args:  cobra.ExactArgs(1),
		RunE:  exportGIF,
	}
	exportGIFCmd.Flags().StringVarP(&gifOut, "out", "o", "particles.gif", "output file")
	exportGIFCmd.Flags().Float64Var(&scale, "scale", 1, "pixels per unit")
	exportGIFCmd.Flags().IntVar(&delay, "delay", 4, "delay between frames in 1/100s")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "estimate a particle's bounce period from its x spectrum",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&analyzeParticle, "particle", 0, "particle index")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "measure steps per second, sequential and parallel",
		Args:  cobra.NoArgs,
		RunE:  bench,
	}
	benchCmd.Flags().IntVar(&benchN, "ticks", 200, "ticks per measurement")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "run several seeds concurrently and compare their metrics",
		Args:  cobra.NoArgs,
		RunE:  runEnsemble,
	}
	addSystemFlags(ensembleCmd, &ensFlags)
	ensembleCmd.Flags().IntVar(&ensembleRuns, "runs", 4, "number of seeds")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted sequence of simulations from yaml",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one parameter and report throughput and metrics",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addSystemFlags(sweepCmd, &sweepFlags)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "count", "parameter to sweep (count, width, height, seed)")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 100, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 10000, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "find the fastest parallel chunk size",
		Args:  cobra.NoArgs,
		RunE:  tune,
	}
	tuneCmd.Flags().IntVarP(&tuneCount, "count", "n", 100000, "number of particles")
	tuneCmd.Flags().IntVar(&tuneTicks, "ticks", 50, "ticks per candidate")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the simulation with live visualization",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, &liveFlags)
			if err != nil {
				return err
			}
			return viz.Run(cfg)
		},
	}
	addSystemFlags(liveCmd, &liveFlags)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "stream frames to websocket clients on /ws",
		Args:  cobra.NoArgs,
		RunE:  serve,
	}
	addSystemFlags(serveCmd, &serveFlags)
	serveCmd.Flags().StringVar(&addr, "addr", "localhost:8080", "listen address")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tCOUNT\tREGION\tSEED\tTICKS\tPARALLEL")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d\t%gx%g\t%d\t%d\t%t\n", name, p.Count, p.Width, p.Height, p.Seed, p.Ticks, p.Parallel)
			}
			return w.Flush()
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, showCmd, plotCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, exportGIFCmd,
		analyzeCmd, benchCmd, ensembleCmd, scenarioCmd, sweepCmd, tuneCmd, liveCmd, serveCmd, presetsCmd)

	return rootCmd
}

func simConfig(cfg *config.Config) sim.Config {
	sc := sim.DefaultConfig()
	sc.Ticks = cfg.Ticks
	sc.SampleEvery = cfg.SampleEvery
	sc.Parallel = cfg.Parallel
	return sc
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, &runFlags)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	s := sim.New(cfg.NewSystem())
	ms := metrics.Defaults()
	for _, m := range ms {
		s.AddMetric(m)
	}
	if trace > 0 {
		s.AddObserver(sim.NewTraceObserver(os.Stdout, trace))
	}
	if watch {
		r := tui.NewLiveRenderer(os.Stdout, cfg.FPS)
		r.Start()
		defer r.Stop()
		s.AddObserver(r)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("running %d particles for %d ticks...\n", cfg.Count, cfg.Ticks)
	runID, result, err := runAndSave(ctx, st, s, cfg)
	if errors.Is(err, context.Canceled) {
		fmt.Printf("interrupted after %d ticks, saved partial run\n", result.StepsTaken)
	} else if err != nil {
		return err
	}

	printRunSummary(os.Stdout, runID, result, ms)
	return nil
}

// runAndSave runs s and stores the result. A canceled run is still saved and
// its context error returned alongside the partial result.
func runAndSave(ctx context.Context, st *storage.Store, s *sim.Simulator, cfg *config.Config) (string, *sim.Result, error) {
	result, runErr := s.Run(ctx, simConfig(cfg))
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return "", nil, runErr
	}

	runID, err := st.Save(cfg, result)
	if err != nil {
		return "", nil, err
	}
	return runID, result, runErr
}

func printRunSummary(w io.Writer, runID string, result *sim.Result, ms []sim.Metric) {
	fmt.Fprintf(w, "completed in %v\n", result.Elapsed)
	fmt.Fprintf(w, "run id: %s\n", runID)
	fmt.Fprintf(w, "steps: %d (%.0f steps/sec)\n", result.StepsTaken, result.StepsPerSecond)
	fmt.Fprintf(w, "frames: %d\n", len(result.Frames))
	fmt.Fprintln(w, "\nmetrics:")
	for _, m := range ms {
		fmt.Fprintf(w, "  %s: %.6f\n", m.Name(), result.Metrics[m.Name()])
		if ke, ok := m.(*metrics.KineticEnergy); ok {
			fmt.Fprintf(w, "  %s_drift: %.3g\n", m.Name(), ke.Drift())
		}
	}
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
	fmt.Fprintln(w, "ID\tTIME\tCOUNT\tREGION\tSEED\tTICKS\tSTEPS/SEC")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%gx%g\t%d\t%d\t%.0f\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Count,
			run.Width,
			run.Height,
			run.Seed,
			run.Ticks,
			run.StepsPerSecond,
		)
	}

	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, []sim.Frame, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(frames) == 0 {
		return nil, nil, fmt.Errorf("run %s has no frames", runID)
	}
	return meta, frames, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	path, err := storage.Trajectory(frames, plotParticle)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("particles: %d  region: %gx%g\n", meta.Count, meta.Width, meta.Height)
	fmt.Printf("samples: %d\n\n", len(frames))

	series := []struct {
		caption string
		data    []float64
	}{
		{fmt.Sprintf("particle %d x", plotParticle), analysis.Series(path, func(p particle.Particle) float64 { return p.X })},
		{fmt.Sprintf("particle %d y", plotParticle), analysis.Series(path, func(p particle.Particle) float64 { return p.Y })},
		{"mean kinetic energy", analysis.Series(frames, func(f sim.Frame) float64 { return metrics.MeanKineticEnergy(f.Particles) })},
	}

	for _, s := range series {
		graph := asciigraph.Plot(s.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}

	w := csv.NewWriter(os.Stdout)
	if err := storage.WriteFramesCSV(w, frames); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return export.WriteJSON(os.Stdout, meta, frames)
}

func output(path string) (io.Writer, func() error, error) {
	if path == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	var svg string
	if svgParticle >= 0 {
		path, err := storage.Trajectory(frames, svgParticle)
		if err != nil {
			return err
		}
		svg = export.TrajectoryToSVG(path, meta.Width, meta.Height, "")
	} else {
		frame := frames[len(frames)-1]
		if tick >= 0 {
			found := false
			for _, f := range frames {
				if f.Tick == uint64(tick) {
					frame, found = f, true
					break
				}
			}
			if !found {
				return fmt.Errorf("tick %d was not recorded (sample every %d)", tick, meta.SampleEvery)
			}
		}
		svg = export.FrameToSVG(frame, meta.Width, meta.Height)
	}

	w, closeOut, err := output(svgOut)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, svg); err != nil {
		closeOut()
		return err
	}
	return closeOut()
}

func exportGIF(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	w, closeOut, err := output(gifOut)
	if err != nil {
		return err
	}
	if err := export.WriteGIF(w, frames, meta.Width, meta.Height, scale, delay); err != nil {
		closeOut()
		return err
	}
	if err := closeOut(); err != nil {
		return err
	}
	fmt.Printf("wrote %d frames to %s\n", len(frames), gifOut)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	// drop the trailing final-tick frame when it breaks the sampling grid
	uniform := frames[:0:0]
	for _, f := range frames {
		if f.Tick%uint64(meta.SampleEvery) == 0 {
			uniform = append(uniform, f)
		}
	}

	path, err := storage.Trajectory(uniform, analyzeParticle)
	if err != nil {
		return err
	}
	xs := analysis.Series(path, func(p particle.Particle) float64 { return p.X })
	if len(xs) < 4 {
		return fmt.Errorf("need at least 4 samples, have %d", len(xs))
	}

	fmt.Printf("bounce analysis: %s\n", meta.ID)
	fmt.Printf("particle: %d  samples: %d (every %d ticks)\n\n", analyzeParticle, len(xs), meta.SampleEvery)

	ps := analysis.PowerSpectrum(xs)
	plotData := ps[:max(len(ps)/4, 2)]
	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("power spectrum (particle %d x)", analyzeParticle)),
	)
	fmt.Println(graph)
	fmt.Println()

	period := analysis.DominantPeriod(xs) * float64(meta.SampleEvery)
	if period == 0 {
		fmt.Println("no dominant period found")
		return nil
	}
	fmt.Printf("dominant period: %.1f ticks\n", period)
	if vx := math.Abs(path[0].VX); vx > 0 {
		fmt.Printf("expected ~2W/|vx|: %.1f ticks\n", 2*meta.Width/vx)
	}
	return nil
}

func bench(cmd *cobra.Command, args []string) error {
	counts := []int{100, 1000, 10000}

	fmt.Printf("benchmarking %d ticks per run\n\n", benchN)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARTICLES\tMODE\tTIME\tSTEPS/SEC\tPARTICLE-UPDATES/SEC")

	for _, n := range counts {
		for _, parallel := range []bool{false, true} {
			s := sim.New(particle.New(n, config.DefaultWidth, config.DefaultHeight))
			sc := sim.DefaultConfig()
			sc.Ticks = benchN
			sc.Parallel = parallel

			start := time.Now()
			err := s.RunWithCallback(context.Background(), sc, func(uint64, *particle.System) bool { return true })
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			mode := "sequential"
			if parallel {
				mode = "parallel"
			}
			stepsPerSec := float64(benchN) / elapsed.Seconds()
			fmt.Fprintf(w, "%d\t%s\t%v\t%.0f\t%.0f\n", n, mode, elapsed, stepsPerSec, stepsPerSec*float64(n))
		}
	}

	return w.Flush()
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, &ensFlags)
	if err != nil {
		return err
	}
	if ensembleRuns <= 0 {
		return fmt.Errorf("runs must be positive, got %d", ensembleRuns)
	}

	ens := sim.NewEnsemble(cfg.Count, cfg.Width, cfg.Height, ensembleRuns, cfg.Seed, metrics.Defaults)
	results, err := ens.Run(context.Background(), simConfig(cfg))
	if err != nil {
		return err
	}

	names := make([]string, 0)
	for _, m := range metrics.Defaults() {
		names = append(names, m.Name())
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprint(w, "SEED")
	for _, n := range names {
		fmt.Fprintf(w, "\t%s", n)
	}
	fmt.Fprintln(w, "\tSTEPS/SEC")
	for i, r := range results {
		fmt.Fprintf(w, "%d", cfg.Seed+uint32(i))
		for _, n := range names {
			fmt.Fprintf(w, "\t%.4f", r.Metrics[n])
		}
		fmt.Fprintf(w, "\t%.0f\n", r.StepsPerSecond)
	}
	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("scenario: %s\n", sc.Name)
	if sc.Description != "" {
		fmt.Printf("%s\n", sc.Description)
	}
	results, err := automation.RunScenario(context.Background(), sc, os.Stdout)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nSTEP\tRUN ID\tPARTICLES\tSTEPS/SEC\tKINETIC ENERGY")
	for _, r := range results {
		runID, err := st.Save(r.Config, r.Result)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%.0f\t%.4f\n", r.Name, runID, r.Config.Count, r.Result.StepsPerSecond, r.Result.Metrics["kinetic_energy"])
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, &sweepFlags)
	if err != nil {
		return err
	}

	sweep := &automation.ParameterSweep{
		Base:      cfg,
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
	}
	results, err := automation.RunSweep(context.Background(), sweep, os.Stdout)
	if err != nil {
		return err
	}

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tSTEPS/SEC\tKINETIC ENERGY\tREFLECTIONS\n", sweepParam)
	for _, r := range results {
		fmt.Fprintf(w, "%g\t%.0f\t%.4f\t%.0f\n", r.ParamValue, r.StepsPerSecond, r.Metrics["kinetic_energy"], r.Metrics["reflections"])
	}
	return w.Flush()
}

func tune(cmd *cobra.Command, args []string) error {
	sys := particle.New(tuneCount, config.DefaultWidth, config.DefaultHeight)
	chunks := []float64{64, 256, 1024, 4096, 16384}

	g := optim.NewGridSearch([]string{"min_chunk"}, [][]float64{chunks})
	best, perStep, err := g.Search(context.Background(), optim.StepTime(sys, tuneTicks))
	if err != nil {
		return err
	}

	fmt.Printf("particles: %d\n", tuneCount)
	fmt.Printf("best min chunk: %d\n", int(best["min_chunk"]))
	fmt.Printf("step time: %v\n", time.Duration(perStep*float64(time.Second)))
	return nil
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, &serveFlags)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return stream.New(cfg).ListenAndServe(ctx, addr)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
