package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/phasekit/internal/config"
	"github.com/san-kum/phasekit/internal/storage"
)

var (
	dataDir    string
	logLevel   string
	configFile string
	preset     string

	method   string
	dt       float64
	duration float64
	steps    int
	kOverM   float64
	q0       float64
	v0       float64

	outFile   string
	showField bool
	save      bool
	plotAfter bool
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	TimeFormat:      time.Kitchen,
	Prefix:          "phasekit",
})

func main() {
	rootCmd := &cobra.Command{
		Use:           "phasekit",
		Short:         "integrator comparison lab for the harmonic oscillator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := log.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logger.SetLevel(lvl)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "integrate one method and store the run",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().BoolVar(&plotAfter, "plot", true, "plot q and the invariant after the run")

	compareCmd := &cobra.Command{
		Use:   "compare [method...]",
		Short: "run several methods from the same start and tabulate them",
		RunE:  compareMethods,
	}
	addSimFlags(compareCmd)
	compareCmd.Flags().BoolVar(&save, "save", false, "store every compared run")

	analyticCmd := &cobra.Command{
		Use:   "analytic",
		Short: "sample the exact solution at the step times",
		Args:  cobra.NoArgs,
		RunE:  printAnalytic,
	}
	addSimFlags(analyticCmd)

	watchCmd := &cobra.Command{
		Use:   "watch [method...]",
		Short: "replay the methods side by side in phase space",
		RunE:  watchMethods,
	}
	addSimFlags(watchCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run-id]",
		Short: "plot position, velocity and invariant of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	phaseCmd := &cobra.Command{
		Use:   "phase [run-id...]",
		Short: "draw stored runs in the phase plane",
		Args:  cobra.MinimumNArgs(1),
		RunE:  phasePlot,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run-id]",
		Short: "error, growth and frequency analysis of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run-id]",
		Short: "write a run's states as csv",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run-id]",
		Short: "write a run with its metadata as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run-id...]",
		Short: "render runs in the phase plane as svg",
		Args:  cobra.MinimumNArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default phase.svg)")
	exportSVGCmd.Flags().BoolVar(&showField, "field", true, "draw the flow field")

	exportPNGCmd := &cobra.Command{
		Use:   "export-png [run-id...]",
		Short: "render runs in the phase plane as png",
		Args:  cobra.MinimumNArgs(1),
		RunE:  exportPNG,
	}
	exportPNGCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default phase.png)")
	exportPNGCmd.Flags().BoolVar(&showField, "field", true, "draw the flow field")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "grid search dt and k/m for the smallest energy drift",
		Args:  cobra.NoArgs,
		RunE:  sweepParams,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&sweepDtMin, "dt-min", 0.05, "smallest dt")
	sweepCmd.Flags().Float64Var(&sweepDtMax, "dt-max", 0.5, "largest dt")
	sweepCmd.Flags().Float64SliceVar(&sweepK, "k-values", []float64{1}, "k/m values to try")
	sweepCmd.Flags().IntVar(&sweepPoints, "points", 10, "dt grid points")

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "measure the per-step growth factor over a range of dt",
		Args:  cobra.NoArgs,
		RunE:  scanStability,
	}
	addSimFlags(scanCmd)
	scanCmd.Flags().Float64Var(&scanDtMin, "dt-min", 0.1, "smallest dt")
	scanCmd.Flags().Float64Var(&scanDtMax, "dt-max", 2.5, "largest dt")
	scanCmd.Flags().IntVar(&scanPoints, "points", 25, "dt grid points")

	meshCmd := &cobra.Command{
		Use:   "mesh",
		Short: "assemble the stiffness matrix of a spring grid",
		Args:  cobra.NoArgs,
		RunE:  assembleMesh,
	}
	meshCmd.Flags().IntVar(&meshWidth, "width", 3, "nodes per row")
	meshCmd.Flags().IntVar(&meshHeight, "height", 2, "rows")
	meshCmd.Flags().Float64Var(&meshStiffness, "stiffness", 1, "spring constant")
	meshCmd.Flags().IntSliceVar(&meshPins, "pin", nil, "node indices to pin")
	meshCmd.Flags().IntVar(&meshSpring, "spring", -1, "show the contribution of one spring")
	meshCmd.Flags().Float64Var(&meshMass, "mass", 1, "node mass for natural frequencies")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted sequence of configurations",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "repeat a run from randomly perturbed initial states",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	addSimFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&mcTrials, "trials", 100, "number of trials")
	monteCarloCmd.Flags().Float64Var(&mcPerturbation, "perturbation", 0.1, "max offset added to q0 and v0")
	monteCarloCmd.Flags().Int64Var(&mcSeed, "seed", 1, "random seed")
	monteCarloCmd.Flags().Float64Var(&mcBound, "bound", 10, "phase radius counted as blown up")

	rootCmd.AddCommand(runCmd, compareCmd, analyticCmd, watchCmd, listCmd, plotCmd, phaseCmd,
		analyzeCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, exportPNGCmd, presetsCmd,
		sweepCmd, scanCmd, meshCmd, scenarioCmd, monteCarloCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		logger.Error("command failed", "err", err)
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringVar(&method, "method", config.DefaultMethod, "integration method")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().IntVar(&steps, "steps", 0, "step count (overrides --time)")
	cmd.Flags().Float64Var(&kOverM, "k", 1, "stiffness over mass")
	cmd.Flags().Float64Var(&q0, "q0", config.DefaultQ, "initial position")
	cmd.Flags().Float64Var(&v0, "v0", 0, "initial velocity")
}

// resolveConfig layers preset, then config file, then explicitly set flags.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		logger.Debug("applied preset", "name", preset)
	}

	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		logger.Debug("loaded config", "path", configFile)
	}

	flags := cmd.Flags()
	if flags.Changed("method") {
		cfg.Method = method
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("steps") {
		cfg.StepCount = steps
	}
	if flags.Changed("k") {
		cfg.KOverM = kOverM
	}
	if flags.Changed("q0") {
		cfg.InitState.Q = q0
	}
	if flags.Changed("v0") {
		cfg.InitState.V = v0
	}

	if !flags.Changed("data") && cfg.DataDir != "" {
		dataDir = cfg.DataDir
	}
	if !flags.Changed("log-level") && cfg.LogLevel != "" {
		if lvl, err := log.ParseLevel(cfg.LogLevel); err == nil {
			logger.SetLevel(lvl)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openStore() (*storage.Store, error) {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return nil, err
	}
	return st, nil
}
