package bench

import (
	"log/slog"
	"math"
)

// Repetitions converts the wall-clock budget into the number of scored
// solver invocations: floor(budget / worstCase), clamped to at least one run
// so the benchmark always produces a sample. A degenerate worst case (zero,
// negative, NaN or Inf) also clamps to one rather than failing the run.
func Repetitions(budgetSeconds, worstCaseSeconds float64) int {
	if worstCaseSeconds <= 0 || math.IsNaN(worstCaseSeconds) || math.IsInf(worstCaseSeconds, 0) {
		return 1
	}
	n := int(budgetSeconds / worstCaseSeconds)
	if n < 1 {
		n = 1
	}
	return n
}

// SampleSet holds one scaled-residual sample per scored repetition, in run
// order. Its length is fixed at schedule time.
type SampleSet []float64

// ScoredResult is everything the scored phase produced.
type ScoredResult struct {
	Samples         SampleSet
	TotalIterations int
	Errors          int
}

// RunScored drives exactly reps scored solver invocations with the original
// iteration cap and zero tolerance, so every run does a fixed, comparable
// amount of work. One sample is appended per run, no more, no fewer; kernel
// failures are logged and counted but never skip a run. The duration of this
// phase is the reported score, which is why the budget is never polled
// mid-run to interrupt a solve.
func RunScored(opt SolveFunc, reps, maxIters int, log *slog.Logger) ScoredResult {
	res := ScoredResult{Samples: make(SampleSet, 0, reps)}
	for i := 0; i < reps; i++ {
		rec := opt(maxIters, 0)
		if rec.Failure != nil {
			res.Errors++
			log.Warn("scored solve failed", "run", i, "kind", rec.Failure.Kind.String())
		}
		sample := rec.ScaledResidual()
		res.Samples = append(res.Samples, sample)
		res.TotalIterations += rec.Iterations
		log.Info("scored run", "run", i, "scaled_residual", sample)
	}
	return res
}
