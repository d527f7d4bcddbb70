package main

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/phasekit/internal/analysis"
	"github.com/san-kum/phasekit/internal/config"
	"github.com/san-kum/phasekit/internal/dynamo"
	"github.com/san-kum/phasekit/internal/experiment"
	"github.com/san-kum/phasekit/internal/integrators"
	"github.com/san-kum/phasekit/internal/physics"
	"github.com/san-kum/phasekit/internal/sim"
	"github.com/san-kum/phasekit/internal/viz"
)

// progressLogger reports every tenth of the run at debug level.
type progressLogger struct {
	every int
}

func (p progressLogger) OnStep(step int, x dynamo.State, t float64) {
	if p.every > 0 && step%p.every == 0 {
		logger.Debug("step", "n", step, "t", t, "q", x.Q, "v", x.V)
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}

	exp, err := experiment.New(cfg)
	if err != nil {
		return err
	}
	exp.SetupDefault(experiment.NewRegistry(), progressLogger{every: max(cfg.Steps()/10, 1)})

	logger.Info("running", "method", exp.Method(), "dt", cfg.Dt, "steps", cfg.Steps(), "k_over_m", cfg.KOverM)
	start := time.Now()

	result, err := exp.Run(cmd.Context())
	if err != nil {
		return err
	}

	runID, err := st.Save(result)
	if err != nil {
		return err
	}
	logger.Info("completed", "elapsed", time.Since(start), "id", runID)

	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("energy drift: %+.6f\n", result.EnergyDrift)
	fmt.Println("\nmetrics:")
	for _, name := range experiment.NewRegistry().ListMetrics() {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}

	if plotAfter && result.Trajectory.Len() > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(result.Trajectory.Positions(),
			asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption("q vs step")))
	}
	return nil
}

func parseMethods(args []string) ([]integrators.Method, error) {
	if len(args) == 0 {
		return integrators.Methods(), nil
	}
	methods := make([]integrators.Method, 0, len(args))
	for _, a := range args {
		m, err := integrators.ParseMethod(a)
		if err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}
	return methods, nil
}

var (
	tableHeader = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ffff"))
	tableCell   = lipgloss.NewStyle().PaddingRight(2)
)

func compareMethods(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	methods, err := parseMethods(args)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	osc := physics.NewOscillator(cfg.KOverM)
	x0 := cfg.InitialState()
	simCfg := cfg.SimConfig()

	logger.Info("comparing", "methods", len(methods), "dt", cfg.Dt, "steps", simCfg.Steps)
	results, err := sim.Compare(cmd.Context(), methods, x0, simCfg, func(integrators.Method) []dynamo.Metric {
		return registry.DefaultMetrics(osc)
	})
	if err != nil {
		return err
	}

	ref, err := sim.Analytic(x0, simCfg)
	if err != nil {
		return err
	}

	header := []string{"method", "final q", "final v", "drift", "growth", "predicted", "max err", "invariant"}
	rows := [][]string{header}
	for i, r := range results {
		traj := r.Trajectory
		growth, gerr := analysis.GrowthRate(traj)
		growthCol := fmt.Sprintf("%.5f", growth)
		if gerr != nil {
			growthCol = "n/a"
		}
		errCol := "n/a"
		if rep, err := analysis.GlobalError(traj, ref); err == nil {
			errCol = fmt.Sprintf("%.3e", rep.MaxPhase)
		}

		inv := make([]float64, traj.Len())
		for j := range inv {
			inv[j] = osc.Invariant(traj.At(j))
		}

		rows = append(rows, []string{
			viz.SeriesStyle(i).Render(traj.Method()),
			fmt.Sprintf("%.6f", traj.Last().Q),
			fmt.Sprintf("%.6f", traj.Last().V),
			fmt.Sprintf("%+.3e", r.EnergyDrift),
			growthCol,
			fmt.Sprintf("%.5f", integrators.AmplificationFactor(methods[i], cfg.Params())),
			errCol,
			viz.SparklineChart(inv, 20),
		})
	}

	fmt.Printf("dt=%.4f  steps=%d  k/m=%.3f  start=(%.3f, %.3f)\n\n", cfg.Dt, simCfg.Steps, cfg.KOverM, x0.Q, x0.V)
	fmt.Println(renderTable(rows))

	if save {
		st, err := openStore()
		if err != nil {
			return err
		}
		for _, r := range results {
			id, err := st.Save(r)
			if err != nil {
				return err
			}
			fmt.Printf("saved %s\n", id)
		}
	}
	return nil
}

func renderTable(rows [][]string) string {
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for j, cell := range row {
			widths[j] = max(widths[j], lipgloss.Width(cell))
		}
	}

	var b strings.Builder
	for i, row := range rows {
		cells := make([]string, len(row))
		for j, cell := range row {
			style := tableCell.Width(widths[j] + 2)
			if i == 0 {
				style = style.Inherit(tableHeader)
			}
			cells[j] = style.Render(cell)
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...) + "\n")
	}
	return b.String()
}

func printAnalytic(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	traj, err := sim.Analytic(cfg.InitialState(), cfg.SimConfig())
	if err != nil {
		return err
	}

	osc := physics.NewOscillator(cfg.KOverM)
	fmt.Printf("omega=%.6f  period=%.6f\n\n", osc.Omega(), 2*math.Pi/osc.Omega())
	fmt.Printf("%6s  %10s  %12s  %12s\n", "step", "t", "q", "v")
	times := traj.Times()
	for i := 0; i < traj.Len(); i++ {
		x := traj.At(i)
		fmt.Printf("%6d  %10.4f  %12.6f  %12.6f\n", i, times[i], x.Q, x.V)
	}
	return nil
}

func watchMethods(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	methods, err := parseMethods(args)
	if err != nil {
		return err
	}

	results, err := sim.Compare(cmd.Context(), methods, cfg.InitialState(), cfg.SimConfig(), nil)
	if err != nil {
		return err
	}
	trajs := make([]*dynamo.Trajectory, len(results))
	for i, r := range results {
		trajs[i] = r.Trajectory
	}

	_, err = tea.NewProgram(viz.NewWatch(trajs), tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
	return err
}

func presetSummary(name string, cfg *config.Config) string {
	return fmt.Sprintf("%-12s %-17s dt=%-5.2f t=%-5.1f steps=%-4d q0=%.1f v0=%.1f k/m=%.1f",
		name, cfg.Method, cfg.Dt, cfg.Duration, cfg.Steps(), cfg.InitState.Q, cfg.InitState.V, cfg.KOverM)
}
