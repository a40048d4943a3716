package bench

import "github.com/jspahr/cgmark/internal/kernel"

// Verdict is the terminal artifact of a benchmark run, handed to the report
// sink.
type Verdict struct {
	GlobalFailure   bool
	SampleFailures  int
	TotalIterations int
	Repetitions     int
	Samples         SampleSet
	Timing          kernel.Buckets
}

// NewVerdict aggregates the three failure channels into the global flag:
// sample failures against the calibrated threshold, tolerance failures from
// calibration, and failing sub-tests from the correctness gate. Any nonzero
// channel fails the run; the OR is monotonic, nothing clears it.
func NewVerdict(cal Calibration, scored ScoredResult, gateFailures int, timing kernel.Buckets) Verdict {
	sampleFailures := CountFailures(scored.Samples, cal.TargetTolerance)
	return Verdict{
		GlobalFailure:   sampleFailures > 0 || cal.ToleranceFailures > 0 || gateFailures > 0,
		SampleFailures:  sampleFailures,
		TotalIterations: scored.TotalIterations,
		Repetitions:     len(scored.Samples),
		Samples:         scored.Samples,
		Timing:          timing,
	}
}
