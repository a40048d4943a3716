package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/jspahr/cgmark/internal/config"
	"github.com/jspahr/cgmark/internal/report"
	"github.com/jspahr/cgmark/internal/result"
	"github.com/jspahr/cgmark/internal/runner"
)

var (
	flagBudget  float64
	flagWorkers int
	flagOutput  string
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [nx ny nz]",
		Short: "Execute a benchmark run",
		Long: "Run the benchmark with the built-in problem size, or with exactly three " +
			"positive integers giving the local per-worker grid dimensions.",
		Args: dimArgs,
		RunE: runBenchmark,
	}
	cmd.Flags().Float64Var(&flagBudget, "budget", 0, "wall-clock budget in seconds for the scored phase")
	cmd.Flags().IntVar(&flagWorkers, "workers", 0, "worker group size")
	cmd.Flags().StringVar(&flagOutput, "output", "", "results directory")
	return cmd
}

// dimArgs enforces the historical CLI contract: no problem-size arguments,
// or exactly three positive integers. Anything else is fatal here, before
// any collective phase could start with inconsistent configuration.
func dimArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 0 && len(args) != 3 {
		return fmt.Errorf("expected no arguments or exactly three dimensions, got %d", len(args))
	}
	for _, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil || n < 1 {
			return fmt.Errorf("dimension %q must be a positive integer", a)
		}
	}
	return nil
}

func runBenchmark(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if len(args) == 3 {
		cfg.Problem.NX, _ = strconv.Atoi(args[0])
		cfg.Problem.NY, _ = strconv.Atoi(args[1])
		cfg.Problem.NZ, _ = strconv.Atoi(args[2])
	}
	if flagBudget > 0 {
		cfg.BudgetSecs = flagBudget
	}
	if flagWorkers > 0 {
		cfg.Workers = flagWorkers
	}
	if flagOutput != "" {
		cfg.Results.Dir = flagOutput
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	outcome, err := runner.Run(cfg, log)
	if err != nil {
		return err
	}

	runDir, err := result.CreateRunDir(cfg.Results.Dir)
	if err != nil {
		return err
	}
	if err := result.Write(runDir, buildDocument(cfg, outcome)); err != nil {
		return err
	}
	fmt.Printf("Run directory: %s\n\n", runDir)

	if err := report.Generate(runDir, "table", os.Stdout); err != nil {
		return err
	}
	// A failed verdict is reported in-band in the result document, not
	// through the exit status.
	if outcome.Verdict.GlobalFailure {
		log.Warn("benchmark completed with a failed verdict")
	}
	return nil
}

func loadConfig() (*config.Config, error) {
	if cfgFile == "" {
		return config.Default(), nil
	}
	return config.Load(cfgFile)
}

func buildDocument(cfg *config.Config, out *runner.Outcome) *result.Document {
	phases := make([]result.Phase, 0, 9)
	for _, p := range out.Verdict.Timing.Phases() {
		phases = append(phases, result.Phase{Name: p.Name, Seconds: p.Seconds})
	}
	return &result.Document{
		Benchmark: "cgmark",
		Version:   "1.0.0",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Problem: result.Problem{
			NX: cfg.Problem.NX,
			NY: cfg.Problem.NY,
			NZ: cfg.Problem.NZ,
		},
		Workers:       cfg.Workers,
		BudgetSeconds: cfg.BudgetSecs,
		Correctness: result.Correctness{
			Passed: out.Gate.Passed,
			Failed: out.Gate.Failed,
		},
		Calibration: result.Calibration{
			TargetTolerance:    out.Calibration.TargetTolerance,
			RequiredIterations: out.Calibration.RequiredIterations,
			WorstCaseSeconds:   out.Calibration.WorstCaseSeconds,
			ToleranceFailures:  out.Calibration.ToleranceFailures,
			Errors:             out.Calibration.Errors,
		},
		Scored: result.Scored{
			Repetitions:     out.Verdict.Repetitions,
			TotalIterations: out.Verdict.TotalIterations,
			SampleFailures:  out.Verdict.SampleFailures,
			Seconds:         out.ScoredSeconds,
			Samples:         out.Verdict.Samples,
		},
		Timing:        phases,
		GlobalFailure: out.Verdict.GlobalFailure,
	}
}
