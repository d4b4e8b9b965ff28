package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/triadlab/triadsim/internal/analysis"
	"github.com/triadlab/triadsim/internal/config"
	"github.com/triadlab/triadsim/internal/field"
	"github.com/triadlab/triadsim/internal/infometrics"
	"github.com/triadlab/triadsim/internal/resonance"
	"github.com/triadlab/triadsim/internal/steppers"
	"github.com/triadlab/triadsim/internal/storage"
	"github.com/triadlab/triadsim/internal/sweep"
	"github.com/triadlab/triadsim/internal/tui"
	"github.com/triadlab/triadsim/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	modelName  string
	stepper    string
	dt         float64
	duration   float64
	// Sweep range
	gainLo    float64
	gainHi    float64
	gainSteps int
	// Metrics options
	bins       int
	designated string
	// Phase plot axes
	xAxis int
	yAxis int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "triadsim",
		Short: "triadic resonance field simulation lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".triadsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and store the trajectory",
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)

	metricsCmd := &cobra.Command{
		Use:   "metrics [run_id]",
		Short: "extract information metrics from a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  extractMetrics,
	}
	metricsCmd.Flags().IntVar(&bins, "bins", infometrics.DefaultBins, "histogram bins per field")
	metricsCmd.Flags().StringVar(&designated, "designated", "spatial", "field for the surface/volume ratio")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase-plane scatter of two fields",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().IntVar(&xAxis, "x-axis", 0, "field index for x-axis")
	phaseCmd.Flags().IntVar(&yAxis, "y-axis", 1, "field index for y-axis")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "spectral and phase-locking analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write a stored trajectory to stdout as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "write a stored run to stdout as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep coupling gain and chart the information measure",
		RunE:  runSweep,
	}
	addRunFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&gainLo, "from", 0.0, "lowest coupling gain")
	sweepCmd.Flags().Float64Var(&gainHi, "to", 2.0, "highest coupling gain")
	sweepCmd.Flags().IntVar(&gainSteps, "steps", 21, "number of gains")

	compareCmd := &cobra.Command{
		Use:   "compare [stepper1] [stepper2] ...",
		Short: "compare steppers on the same configuration",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareSteppers,
	}
	addRunFlags(compareCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range config.ListPresets() {
				fmt.Println(p)
			}
			return nil
		},
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with live terminal visualization",
		RunE:  runLive,
	}
	addRunFlags(liveCmd)

	rootCmd.AddCommand(runCmd, metricsCmd, listCmd, plotCmd, phaseCmd, analyzeCmd,
		exportCSVCmd, exportJSONCmd, sweepCmd, compareCmd, presetsCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use a named preset")
	cmd.Flags().StringVar(&modelName, "model", config.DefaultModel, "model (triad, phase)")
	cmd.Flags().StringVar(&stepper, "stepper", config.DefaultStepper, "stepper (euler, rk4, rk45)")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
}

// buildConfig resolves the effective configuration: preset, then config
// file, then CLI flags, later sources overriding earlier ones only for
// flags the user actually set.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("model") {
		cfg.Model = modelName
	}
	if cmd.Flags().Changed("stepper") {
		cfg.Stepper = stepper
	}
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func buildSystem(cfg *config.Config) (resonance.System, resonance.Vector, error) {
	switch cfg.Model {
	case "phase":
		sys, err := field.NewPhaseTriad(cfg.Mass, cfg.Coupling)
		if err != nil {
			return nil, nil, err
		}
		x0 := resonance.Vector{cfg.Init.Fields[0], cfg.Init.Fields[1], cfg.Init.Fields[2]}
		return sys, x0, nil
	default:
		sys, err := field.NewTriad(cfg.Mass, cfg.Coupling)
		if err != nil {
			return nil, nil, err
		}
		sys.SetStiffness(cfg.Stiffness)
		sys.SetDamping(cfg.Damping)
		return sys, sys.InitialVector(cfg.Init.Fields, cfg.Init.Velocities), nil
	}
}

func buildStepper(name string) (resonance.Stepper, error) {
	switch name {
	case "euler":
		return steppers.NewEuler(), nil
	case "rk4":
		return steppers.NewRK4(), nil
	case "rk45":
		return steppers.NewRK45(), nil
	default:
		return nil, fmt.Errorf("unknown stepper: %s", name)
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	sys, x0, err := buildSystem(cfg)
	if err != nil {
		return err
	}
	step, err := buildStepper(cfg.Stepper)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("running %s simulation...\n", cfg.Model)
	start := time.Now()

	sim := resonance.New(sys, step)
	result, err := sim.Run(context.Background(), x0, cfg.RunConfig())
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	opts, err := cfg.MetricsOptions()
	if err != nil {
		return err
	}
	m, err := infometrics.ExtractWith(result.Trajectory, opts)
	if err != nil {
		return err
	}

	meta := storage.RunMetadata{
		Model:    cfg.Model,
		Stepper:  cfg.Stepper,
		Dt:       cfg.Dt,
		Duration: cfg.Duration,
		Mass:     cfg.Mass,
		Coupling: cfg.Coupling,
		Metrics: map[string]float64{
			"multi_information":    m.MultiInformation,
			"surface_volume_ratio": m.SurfaceVolumeRatio,
			"energy_drift":         result.EnergyDrift,
		},
	}

	runID, err := st.Save(meta, result.Trajectory)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("samples: %d\n", len(result.Trajectory))
	fmt.Println("\nmetrics:")
	fmt.Printf("  multi_information:    %.6f bits\n", m.MultiInformation)
	fmt.Printf("  surface_volume_ratio: %.6f\n", m.SurfaceVolumeRatio)
	fmt.Printf("  energy_drift:         %.2e\n", result.EnergyDrift)

	return nil
}

func extractMetrics(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	traj, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}

	idx := resonance.FieldSpatial
	for i, name := range resonance.FieldNames {
		if name == designated {
			idx = i
		}
	}

	m, err := infometrics.ExtractWith(traj, infometrics.Options{Bins: bins, Designated: idx})
	if err != nil {
		return err
	}

	fmt.Printf("samples: %d\n", len(traj))
	fmt.Printf("multi_information:    %.6f bits\n", m.MultiInformation)
	fmt.Printf("surface_volume_ratio: %.6f\n", m.SurfaceVolumeRatio)
	for i, e := range m.FieldEntropy {
		fmt.Printf("H(%s): %.6f bits\n", resonance.FieldNames[i], e)
	}
	fmt.Printf("H(joint): %.6f bits\n", m.JointEntropy)

	return nil
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
	fmt.Fprintln(w, "ID\tMODEL\tTIME\tDURATION\tDT\tSTEPPER")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\n",
			run.ID,
			run.Model,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Stepper,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	traj, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	if len(traj) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("model: %s\n", meta.Model)
	fmt.Printf("samples: %d\n\n", len(traj))
	fmt.Println(viz.PlotTrajectory(traj, 80, 10))

	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	traj, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	if len(traj) == 0 {
		return fmt.Errorf("no data to plot")
	}
	if xAxis < 0 || xAxis >= resonance.NumFields || yAxis < 0 || yAxis >= resonance.NumFields {
		return fmt.Errorf("field index out of range")
	}

	fmt.Printf("phase plane: %s\n", meta.ID)
	fmt.Printf("x-axis: %s, y-axis: %s\n\n", resonance.FieldNames[xAxis], resonance.FieldNames[yAxis])
	fmt.Println(viz.PhaseScatter(traj.Field(xAxis), traj.Field(yAxis), 70, 20))

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	traj, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	if len(traj) == 0 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("analysis: %s (model %s)\n\n", meta.ID, meta.Model)

	ps := analysis.PowerSpectrum(analysis.PadPow2(traj.Field(resonance.FieldSpatial)))
	plotData := ps[:len(ps)/4]
	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum (spatial)"),
	)
	fmt.Println(graph)
	fmt.Println()

	maxPower := 0.0
	maxIdx := 0
	for i := 1; i < len(plotData); i++ {
		if plotData[i] > maxPower {
			maxPower = plotData[i]
			maxIdx = i
		}
	}
	freq := float64(maxIdx) / meta.Duration
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n\n", 1.0/freq)
	}

	plv, err := analysis.PLVMatrix(traj)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprint(w, "PLV")
	for _, name := range resonance.FieldNames {
		fmt.Fprintf(w, "\t%s", name)
	}
	fmt.Fprintln(w)
	for i, name := range resonance.FieldNames {
		fmt.Fprintf(w, "%s", name)
		for j := range resonance.FieldNames {
			fmt.Fprintf(w, "\t%.4f", plv[i][j])
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	traj, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	if len(traj) == 0 {
		return fmt.Errorf("no data to export")
	}
	return storage.WriteCSV(os.Stdout, traj)
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
	return storage.ExportJSON(os.Stdout, meta, traj)
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	opts, err := cfg.MetricsOptions()
	if err != nil {
		return err
	}

	gains := sweep.Range(gainLo, gainHi, gainSteps)
	points, err := sweep.Gains(context.Background(), sweep.Options{
		Mass:     cfg.Mass,
		Coupling: cfg.Coupling,
		Duration: cfg.Duration,
		Dt:       cfg.Dt,
		Metrics:  opts,
	}, gains)
	if err != nil {
		return err
	}

	info := make([]float64, len(points))
	for i, p := range points {
		info[i] = p.MultiInformation
	}

	graph := asciigraph.Plot(info,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("multi_information vs coupling gain [%.2f, %.2f]", gainLo, gainHi)),
	)
	fmt.Println(graph)
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "GAIN\tMULTI_INFO\tSV_RATIO")
	for _, p := range points {
		fmt.Fprintf(w, "%.3f\t%.6f\t%.6f\n", p.Gain, p.MultiInformation, p.SurfaceVolumeRatio)
	}
	return w.Flush()
}

func compareSteppers(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("comparing steppers for %s (dt=%.4f, duration=%.1fs)\n\n", cfg.Model, cfg.Dt, cfg.Duration)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEPPER\tFINAL_SPATIAL\tENERGY_DRIFT\tTIME_MS")

	for _, name := range args {
		step, err := buildStepper(name)
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", name, err)
			continue
		}

		sys, x0, err := buildSystem(cfg)
		if err != nil {
			return err
		}

		start := time.Now()
		sim := resonance.New(sys, step)
		result, err := sim.Run(context.Background(), x0, cfg.RunConfig())
		elapsed := time.Since(start)

		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", name, err)
			continue
		}

		final := result.Trajectory[len(result.Trajectory)-1].Fields[resonance.FieldSpatial]
		fmt.Fprintf(w, "%s\t%.6f\t%.2e\t%.2f\n", name, final, result.EnergyDrift, float64(elapsed.Microseconds())/1000)
	}

	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	sys, x0, err := buildSystem(cfg)
	if err != nil {
		return err
	}
	step, err := buildStepper(cfg.Stepper)
	if err != nil {
		return err
	}

	m := tui.NewModel(sys, step, x0, cfg.Dt, cfg.Model)
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
