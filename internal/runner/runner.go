// Package runner drives the worker group through the benchmark's phase
// sequence: problem setup, tunable optimization, reference-kernel timing,
// the correctness gate, calibration, and the time-boxed scored phase. Every
// phase is collective (all workers execute identical control flow), and the
// calibration numbers that size the scored phase are reduced across the
// group so no worker computes its own repetition count.
package runner

import (
	"io"
	"log/slog"
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jspahr/cgmark/internal/bench"
	"github.com/jspahr/cgmark/internal/comm"
	"github.com/jspahr/cgmark/internal/config"
	"github.com/jspahr/cgmark/internal/kernel"
	"github.com/jspahr/cgmark/internal/problem"
	"github.com/jspahr/cgmark/internal/verify"
)

// refTimingCalls is how many reference SpMV+SymGS pairs the kernel timing
// phase averages over.
const refTimingCalls = 10

// Outcome is what rank 0 hands to the report sink after the group finishes.
type Outcome struct {
	Calibration   bench.Calibration
	Gate          verify.Tally
	Verdict       bench.Verdict
	ScoredSeconds float64
}

// Run executes the whole benchmark on an in-process worker group of the
// configured size and returns rank 0's outcome.
func Run(cfg *config.Config, log *slog.Logger) (*Outcome, error) {
	net, err := comm.NewNetwork(cfg.Workers)
	if err != nil {
		return nil, err
	}

	outcomes := make([]*Outcome, cfg.Workers)
	var g errgroup.Group
	for rank := 0; rank < cfg.Workers; rank++ {
		rank := rank
		g.Go(func() error {
			out, err := runWorker(net.Comm(rank), cfg, log)
			outcomes[rank] = out
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes[0], nil
}

func runWorker(c *comm.Comm, cfg *config.Config, log *slog.Logger) (*Outcome, error) {
	// Only rank 0 speaks; every rank still executes every phase.
	if c.Rank() != 0 {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	geom, err := problem.NewGeometry(cfg.Problem.NX, cfg.Problem.NY, cfg.Problem.NZ, c.Rank(), c.Size())
	if err != nil {
		return nil, err
	}
	sys := problem.Generate(geom)
	halo := problem.SetupHalo(sys.Op)
	ws := problem.NewWorkspace(sys.Op)
	bk := &kernel.Buckets{}

	t0 := time.Now()
	problem.Optimize(sys.Op, ws)
	bk.Optimize = time.Since(t0).Seconds()

	timeReferenceKernels(c, sys, halo, bk)

	gate := verify.Run(c, sys, halo)
	if gate.Failed > 0 {
		log.Warn("correctness gate reported failures",
			"passed", gate.Passed, "failed", gate.Failed)
	}

	refSolve := func(maxIters int, tol float64) kernel.Record {
		ws.ZeroGuess()
		return kernel.CG(c, sys, halo, ws, kernel.Reference(),
			kernel.SolveOpts{MaxIters: maxIters, Tolerance: tol, Precondition: true}, bk)
	}
	optSolve := func(maxIters int, tol float64) kernel.Record {
		ws.ZeroGuess()
		return kernel.CG(c, sys, halo, ws, kernel.Optimized(),
			kernel.SolveOpts{MaxIters: maxIters, Tolerance: tol, Precondition: true}, bk)
	}

	cal := bench.Calibrate(refSolve, optSolve, bench.CalibrateOpts{
		RefMaxIters:    cfg.Calibration.RefMaxIters,
		Runs:           cfg.Calibration.Runs,
		IterMultiplier: cfg.Calibration.IterMultiplier,
	}, log)

	// Wall clocks are local, so reduce the calibration maxima before any
	// rank derives a repetition count from them. Identical inputs keep the
	// group in lock-step through the scored phase.
	cal.WorstCaseSeconds = c.AllreduceMax(cal.WorstCaseSeconds)
	cal.RequiredIterations = c.AllreduceMaxInt(cal.RequiredIterations)
	cal.ToleranceFailures = c.AllreduceMaxInt(cal.ToleranceFailures)
	cal.Errors = c.AllreduceMaxInt(cal.Errors)

	reps := bench.Repetitions(cfg.BudgetSecs, cal.WorstCaseSeconds)
	log.Info("scored phase scheduled",
		"repetitions", reps,
		"worst_case_seconds", cal.WorstCaseSeconds,
		"budget_seconds", cfg.BudgetSecs)

	// Every scored run must be permitted at least the calibrated iteration
	// count, or non-convergence would be baked in silently.
	scoredCap := cfg.Calibration.RefMaxIters
	if cal.RequiredIterations > scoredCap {
		scoredCap = cal.RequiredIterations
	}

	scoredStart := time.Now()
	scored := bench.RunScored(optSolve, reps, scoredCap, log)
	scoredSeconds := time.Since(scoredStart).Seconds()

	verdict := bench.NewVerdict(cal, scored, gate.Failed, *bk)
	if c.Rank() != 0 {
		return nil, nil
	}
	return &Outcome{
		Calibration:   cal,
		Gate:          gate,
		Verdict:       verdict,
		ScoredSeconds: scoredSeconds,
	}, nil
}

// timeReferenceKernels measures the reference SpMV and SymGS on throwaway
// vectors, averaged per call, for the refkernels slot of the breakdown.
func timeReferenceKernels(c *comm.Comm, sys *problem.System, halo *problem.Halo, bk *kernel.Buckets) {
	op := sys.Op
	s := kernel.Reference()
	rng := rand.New(rand.NewSource(int64(c.Rank() + 1)))

	x := make([]float64, op.Cols)
	y := make([]float64, op.Rows)
	for i := 0; i < op.Rows; i++ {
		x[i] = rng.Float64() + 1
	}

	t0 := time.Now()
	for i := 0; i < refTimingCalls; i++ {
		halo.Exchange(c, x)
		s.SpMV(op, x, y)
		s.SymGS(op, y, x)
	}
	bk.RefKernels = time.Since(t0).Seconds() / refTimingCalls
}
