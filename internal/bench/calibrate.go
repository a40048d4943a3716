// Package bench implements the self-calibrating benchmark protocol: fix a
// quality baseline with the reference solver, calibrate the optimized
// solver's worst-case cost, derive a repetition count from the wall-clock
// budget, run exactly that many scored solves, and aggregate the samples
// into a verdict. The package only sees solver invocations as functions, so
// the control loop is testable without any numerical plumbing.
package bench

import (
	"log/slog"

	"github.com/jspahr/cgmark/internal/kernel"
)

// SolveFunc runs one full solver invocation with the given iteration cap and
// convergence tolerance. Implementations must reset their solution vector to
// zero before solving; every benchmark run starts cold.
type SolveFunc func(maxIters int, tolerance float64) kernel.Record

// Calibration is the result of the calibration phase. It is computed once
// and never recomputed; the scheduler and aggregator treat it as read-only.
type Calibration struct {
	TargetTolerance    float64 `yaml:"target_tolerance" json:"target_tolerance"`
	RequiredIterations int     `yaml:"required_iterations" json:"required_iterations"`
	WorstCaseSeconds   float64 `yaml:"worst_case_seconds" json:"worst_case_seconds"`
	ToleranceFailures  int     `yaml:"tolerance_failures" json:"tolerance_failures"`
	Errors             int     `yaml:"errors" json:"errors"`
}

// CalibrateOpts mirror the reference driver's constants: a 50-iteration
// reference cap, a single optimized calibration repetition, and an optimized
// cap an order of magnitude above the reference cap.
type CalibrateOpts struct {
	RefMaxIters    int
	Runs           int
	IterMultiplier int
}

func (o *CalibrateOpts) setDefaults() {
	if o.RefMaxIters < 1 {
		o.RefMaxIters = 50
	}
	if o.Runs < 1 {
		o.Runs = 1
	}
	if o.IterMultiplier < 1 {
		o.IterMultiplier = 10
	}
}

// Calibrate establishes the quality baseline and the worst-case per-run cost.
//
// The reference solver runs once with zero tolerance, forcing it through the
// full iteration cap; its final scaled residual becomes the target tolerance
// every later run must match or beat. The optimized solver then runs the
// calibration repetitions against that tolerance with a generous cap,
// recording the maximum iteration count and the maximum per-repetition
// elapsed time. Maxima, not averages: an average would under-estimate the
// per-run cost and over-pack the scored phase.
//
// Kernel failures are counted and logged, never fatal; a partial calibration
// still yields a usable, if pessimistic, budget.
func Calibrate(ref, opt SolveFunc, opts CalibrateOpts, log *slog.Logger) Calibration {
	opts.setDefaults()

	cal := Calibration{}

	rec := ref(opts.RefMaxIters, 0)
	if rec.Failure != nil {
		cal.Errors++
		log.Warn("reference solve failed", "kind", rec.Failure.Kind.String())
	}
	cal.TargetTolerance = rec.ScaledResidual()
	log.Info("calibration baseline",
		"iterations", rec.Iterations,
		"target_tolerance", cal.TargetTolerance)

	optMaxIters := opts.IterMultiplier * opts.RefMaxIters
	for i := 0; i < opts.Runs; i++ {
		rec := opt(optMaxIters, cal.TargetTolerance)
		if rec.Failure != nil {
			cal.Errors++
			log.Warn("optimized calibration solve failed",
				"run", i, "kind", rec.Failure.Kind.String())
		}
		if rec.ScaledResidual() > cal.TargetTolerance {
			cal.ToleranceFailures++
		}
		if rec.Iterations > cal.RequiredIterations {
			cal.RequiredIterations = rec.Iterations
		}
		if rec.ElapsedSeconds > cal.WorstCaseSeconds {
			cal.WorstCaseSeconds = rec.ElapsedSeconds
		}
	}

	if cal.ToleranceFailures > 0 {
		log.Warn("failed to reduce the residual during calibration",
			"failures", cal.ToleranceFailures)
	}
	return cal
}
