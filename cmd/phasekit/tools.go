package main

import (
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/phasekit/internal/analysis"
	"github.com/san-kum/phasekit/internal/automation"
	"github.com/san-kum/phasekit/internal/config"
	"github.com/san-kum/phasekit/internal/experiment"
	"github.com/san-kum/phasekit/internal/optim"
	"github.com/san-kum/phasekit/internal/physics"
)

var (
	sweepDtMin  float64
	sweepDtMax  float64
	sweepK      []float64
	sweepPoints int

	scanDtMin  float64
	scanDtMax  float64
	scanPoints int

	meshWidth     int
	meshHeight    int
	meshStiffness float64
	meshPins      []int
	meshSpring    int
	meshMass      float64

	mcTrials       int
	mcPerturbation float64
	mcSeed         int64
	mcBound        float64
)

func listPresets(cmd *cobra.Command, args []string) error {
	for _, name := range config.ListPresets() {
		fmt.Println(presetSummary(name, config.GetPreset(name)))
	}
	return nil
}

func sweepParams(cmd *cobra.Command, args []string) error {
	base, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	g := optim.NewGridSearch(
		[]string{"dt", "k_over_m"},
		[][]float64{optim.Linspace(sweepDtMin, sweepDtMax, sweepPoints), sweepK},
	)
	registry := experiment.NewRegistry()

	build := func(params map[string]float64) (*experiment.Experiment, error) {
		cfg := *base
		cfg.Dt = params["dt"]
		cfg.KOverM = params["k_over_m"]
		exp, err := experiment.New(&cfg)
		if err != nil {
			return nil, err
		}
		exp.SetupDefault(registry)
		return exp, nil
	}

	logger.Info("sweeping", "method", base.Method, "points", sweepPoints*len(sweepK))
	best, score, trials, err := g.Search(cmd.Context(), build, "energy_drift", math.Abs)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DT\tK/M\tENERGY_DRIFT\t")
	for _, t := range trials {
		if t.Err != nil {
			fmt.Fprintf(w, "%.4f\t%.3f\terror: %v\t\n", t.Params["dt"], t.Params["k_over_m"], t.Err)
			continue
		}
		fmt.Fprintf(w, "%.4f\t%.3f\t%.6e\t\n", t.Params["dt"], t.Params["k_over_m"], t.Value)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nbest: dt=%.4f k/m=%.3f drift=%.6e\n", best["dt"], best["k_over_m"], score)
	return nil
}

func scanStability(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	m, err := cfg.ParseMethod()
	if err != nil {
		return err
	}

	scan, err := analysis.StabilityScan(m, cfg.InitialState(), cfg.KOverM, scanDtMin, scanDtMax, scanPoints, cfg.Steps())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DT\tMEASURED\tPREDICTED\t")
	measured := make([]float64, 0, len(scan))
	for _, p := range scan {
		fmt.Fprintf(w, "%.4f\t%.6f\t%.6f\t\n", p.Dt, p.Measured, p.Predicted)
		if !math.IsNaN(p.Measured) {
			measured = append(measured, p.Measured)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(measured) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(measured, asciigraph.Height(8), asciigraph.Width(60),
			asciigraph.Caption(fmt.Sprintf("%s growth per step vs dt", m))))
	}
	fmt.Printf("\nlargest stable dt: %.4f\n", analysis.StableLimit(scan, 1e-3))
	return nil
}

func assembleMesh(cmd *cobra.Command, args []string) error {
	mesh, err := physics.NewGridMesh(meshWidth, meshHeight, meshStiffness)
	if err != nil {
		return err
	}
	if err := mesh.Pin(meshPins...); err != nil {
		return err
	}

	fmt.Printf("%dx%d mesh: %d nodes, %d springs\n\n", meshWidth, meshHeight, mesh.NumNodes(), len(mesh.Springs))
	fmt.Printf("K =\n%v\n\n", mat.Formatted(mesh.Assemble(), mat.Prefix("    "), mat.Squeeze()))

	if meshSpring >= 0 {
		entries, err := mesh.Contribution(meshSpring)
		if err != nil {
			return err
		}
		s := mesh.Springs[meshSpring]
		fmt.Printf("spring %d connects nodes %d and %d:\n", meshSpring, s.A, s.B)
		for _, e := range entries {
			fmt.Printf("  K[%d][%d] += %g\n", e.Row, e.Col, e.Value)
		}
		fmt.Println()
	}

	if len(mesh.Pinned()) == 0 {
		return nil
	}

	reduced, err := mesh.Reduced()
	if err != nil {
		return err
	}
	fmt.Printf("pinned %v, free DOFs %v\n", mesh.Pinned(), mesh.FreeDOFs())
	fmt.Printf("K_reduced =\n%v\n\n", mat.Formatted(reduced, mat.Prefix("            "), mat.Squeeze()))

	freqs, err := mesh.NaturalFrequencies(meshMass)
	if err != nil {
		return err
	}
	fmt.Println("natural frequencies (rad/s):")
	for i, f := range freqs {
		fmt.Printf("  %2d  %.6f\n", i+1, f)
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}

	r := automation.NewRunner(experiment.NewRegistry(), st, logger)
	results, err := r.RunScenario(cmd.Context(), sc)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tMETHOD\tDT\tSTEPS\tDRIFT\tRUN\t")
	for i, res := range results {
		fmt.Fprintf(w, "%d\t%s\t%.4f\t%d\t%+.3e\t%s\t\n",
			i+1, res.Result.Trajectory.Method(), res.Config.Dt, res.Result.StepsTaken, res.Result.EnergyDrift, res.RunID)
	}
	if ferr := w.Flush(); ferr != nil {
		return ferr
	}
	return err
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	r := automation.NewRunner(experiment.NewRegistry(), nil, logger)
	results, err := r.RunMonteCarlo(cmd.Context(), automation.MonteCarloConfig{
		Base:         cfg,
		Perturbation: mcPerturbation,
		NumTrials:    mcTrials,
		Seed:         mcSeed,
		Bound:        mcBound,
	})
	if err != nil {
		return err
	}

	s := automation.Summarize(results)
	fmt.Printf("%s, %d trials, perturbation %.3f\n", cfg.Method, len(results), mcPerturbation)
	fmt.Printf("stable:   %d\n", s.Stable)
	fmt.Printf("unstable: %d\n", s.Unstable)
	fmt.Printf("energy drift: mean %+.4e, std %.4e\n", s.MeanDrift, s.StdDrift)
	return nil
}
