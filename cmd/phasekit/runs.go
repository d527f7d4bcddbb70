package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"

	"github.com/san-kum/phasekit/internal/analysis"
	"github.com/san-kum/phasekit/internal/dynamo"
	"github.com/san-kum/phasekit/internal/export"
	"github.com/san-kum/phasekit/internal/integrators"
	"github.com/san-kum/phasekit/internal/physics"
	"github.com/san-kum/phasekit/internal/sim"
	"github.com/san-kum/phasekit/internal/storage"
)

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
	fmt.Fprintln(w, "ID\tMETHOD\tTIME\tSTEPS\tDT\tK/M\tDRIFT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.4f\t%.3f\t%+.3e\n",
			run.ID,
			run.Method,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps,
			run.Dt,
			run.KOverM,
			run.EnergyDrift,
		)
	}

	return w.Flush()
}

func loadRuns(ids []string) ([]*dynamo.Trajectory, error) {
	st := storage.New(dataDir)
	trajs := make([]*dynamo.Trajectory, 0, len(ids))
	for _, id := range ids {
		traj, err := st.LoadTrajectory(id)
		if err != nil {
			return nil, err
		}
		logger.Debug("loaded run", "id", id, "states", traj.Len())
		trajs = append(trajs, traj)
	}
	return trajs, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	trajs, err := loadRuns(args)
	if err != nil {
		return err
	}
	traj := trajs[0]
	if traj.Len() < 2 {
		return fmt.Errorf("no data to plot")
	}

	osc := physics.NewOscillator(traj.Params().KOverM)
	inv := make([]float64, traj.Len())
	for i := range inv {
		inv[i] = osc.Invariant(traj.At(i))
	}

	fmt.Printf("run: %s\n", args[0])
	fmt.Printf("method: %s\n", traj.Method())
	fmt.Printf("samples: %d\n\n", traj.Len())

	for _, series := range []struct {
		caption string
		data    []float64
	}{
		{"q (position)", traj.Positions()},
		{"v (velocity)", traj.Velocities()},
		{"q^2 + v^2/omega^2", inv},
	} {
		fmt.Println(asciigraph.Plot(series.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(series.caption),
		))
		fmt.Println()
	}
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	trajs, err := loadRuns(args)
	if err != nil {
		return err
	}
	for i, traj := range trajs {
		fmt.Printf("%s (%s)\n", args[i], traj.Method())
		fmt.Println(analysis.PhasePortraitToASCII(traj.Points(), 60, 24))
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	trajs, err := loadRuns(args)
	if err != nil {
		return err
	}
	traj := trajs[0]
	p := traj.Params()
	osc := physics.NewOscillator(p.KOverM)

	ref, err := sim.Analytic(traj.First(), sim.Config{Params: p, Steps: traj.Steps()})
	if err != nil {
		return err
	}

	fmt.Printf("run: %s (%s, dt=%.4f, k/m=%.3f, %d steps)\n\n", args[0], traj.Method(), p.Dt, p.KOverM, traj.Steps())

	if rep, err := analysis.GlobalError(traj, ref); err == nil {
		fmt.Printf("max |q - q_exact|:      %.6e\n", rep.MaxPosition)
		fmt.Printf("rms |q - q_exact|:      %.6e\n", rep.RMSPosition)
		fmt.Printf("max phase-space error:  %.6e\n", rep.MaxPhase)
		fmt.Printf("final phase-space error: %.6e\n", rep.FinalPhase)
	} else {
		logger.Warn("global error unavailable", "err", err)
	}

	if g, err := analysis.GrowthRate(traj); err == nil {
		fmt.Printf("\ngrowth per step:        %.6f\n", g)
	} else {
		logger.Warn("growth rate unavailable", "err", err)
	}

	if m, err := integrators.ParseMethod(traj.Method()); err == nil {
		fmt.Printf("amplification factor:   %.6f\n", integrators.AmplificationFactor(m, p))
		if rate, err := analysis.SeparationRate(m, traj.First(), p, max(traj.Steps(), 1), 1e-6); err == nil {
			fmt.Printf("separation rate:        %+.6f per unit time\n", rate)
		}
	}

	if w, err := analysis.DominantFrequency(traj.Positions(), p.Dt); err == nil {
		fmt.Printf("\ndominant frequency:     %.4f rad/s (exact %.4f)\n", w, osc.Omega())
	} else {
		logger.Warn("frequency unavailable", "err", err)
	}
	return nil
}

// output returns stdout when no file was requested.
func output() (io.WriteCloser, error) {
	if outFile == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(outFile)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func exportCSV(cmd *cobra.Command, args []string) error {
	trajs, err := loadRuns(args)
	if err != nil {
		return err
	}

	w, err := output()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := storage.WriteCSV(w, trajs[0]); err != nil {
		return err
	}
	if outFile != "" {
		logger.Info("exported", "file", outFile, "rows", trajs[0].Len())
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	traj, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}

	w, err := output()
	if err != nil {
		return err
	}
	defer w.Close()

	return storage.ExportJSON(w, &dynamo.Result{
		Trajectory:  traj,
		Metrics:     meta.Metrics,
		EnergyDrift: meta.EnergyDrift,
		StepsTaken:  traj.Steps(),
	})
}

func phaseSeries(ids []string) ([]export.Series, []analysis.Arrow, error) {
	trajs, err := loadRuns(ids)
	if err != nil {
		return nil, nil, err
	}
	series := make([]export.Series, len(trajs))
	for i, traj := range trajs {
		series[i] = export.FromTrajectory(traj)
	}

	var arrows []analysis.Arrow
	if showField {
		arrows = analysis.VectorField(physics.NewOscillator(trajs[0].Params().KOverM), analysis.DefaultGrid())
	}
	return series, arrows, nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	series, arrows, err := phaseSeries(args)
	if err != nil {
		return err
	}

	if outFile == "" {
		outFile = "phase.svg"
	}
	svg := export.PhaseSVG(series, arrows, 600, 600)
	if svg == "" {
		return fmt.Errorf("%w: nothing finite to draw", dynamo.ErrDegenerate)
	}
	if err := os.WriteFile(outFile, []byte(svg), 0644); err != nil {
		return err
	}
	logger.Info("exported", "file", outFile, "series", len(series))
	return nil
}

func exportPNG(cmd *cobra.Command, args []string) error {
	series, arrows, err := phaseSeries(args)
	if err != nil {
		return err
	}

	if outFile == "" {
		outFile = "phase.png"
	}
	f, err := os.Create(outFile)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := export.PhasePNG(f, "phase space", series, arrows, 6*vg.Inch, 6*vg.Inch); err != nil {
		return err
	}
	logger.Info("exported", "file", outFile, "series", len(series))
	return nil
}
