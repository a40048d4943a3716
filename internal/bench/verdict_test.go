package bench_test

import (
	"math"
	"testing"

	"github.com/jspahr/cgmark/internal/bench"
	"github.com/jspahr/cgmark/internal/kernel"
)

func TestCountFailures(t *testing.T) {
	tests := []struct {
		name      string
		samples   bench.SampleSet
		threshold float64
		want      int
	}{
		{"all below threshold", bench.SampleSet{0.8e-9, 0.95e-9}, 1.0e-9, 0},
		{"one above threshold", bench.SampleSet{0.8e-9, 1.2e-9, 0.95e-9}, 1.0e-9, 1},
		{"all above threshold", bench.SampleSet{2e-9, 3e-9}, 1.0e-9, 2},
		{"nan sample", bench.SampleSet{math.NaN()}, 1.0e-9, 1},
		{"inf sample", bench.SampleSet{math.Inf(1)}, 1.0e-9, 1},
		{"negative sample", bench.SampleSet{-1e-12}, 1.0e-9, 1},
		{"exactly at threshold", bench.SampleSet{1.0e-9}, 1.0e-9, 0},
		{"empty set", bench.SampleSet{}, 1.0e-9, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := bench.CountFailures(tt.samples, tt.threshold)
			if got != tt.want {
				t.Errorf("CountFailures(%v, %g) = %d, want %d", tt.samples, tt.threshold, got, tt.want)
			}
		})
	}
}

func TestVerdictFailureChannels(t *testing.T) {
	good := bench.SampleSet{0.5e-9, 0.6e-9}
	bad := bench.SampleSet{0.5e-9, 1.2e-9}

	tests := []struct {
		name        string
		samples     bench.SampleSet
		tolFailures int
		gateFailed  int
		wantFailure bool
	}{
		{"all channels clean", good, 0, 0, false},
		{"sample failure alone", bad, 0, 0, true},
		{"tolerance failure alone", good, 1, 0, true},
		{"gate failure alone", good, 0, 1, true},
		{"every channel failing", bad, 2, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cal := bench.Calibration{
				TargetTolerance:   1.0e-9,
				ToleranceFailures: tt.tolFailures,
			}
			scored := bench.ScoredResult{Samples: tt.samples, TotalIterations: 100}

			v := bench.NewVerdict(cal, scored, tt.gateFailed, kernel.Buckets{})

			if v.GlobalFailure != tt.wantFailure {
				t.Errorf("GlobalFailure = %v, want %v", v.GlobalFailure, tt.wantFailure)
			}
			if v.Repetitions != len(tt.samples) {
				t.Errorf("Repetitions = %d, want %d", v.Repetitions, len(tt.samples))
			}
			if v.TotalIterations != 100 {
				t.Errorf("TotalIterations = %d, want 100", v.TotalIterations)
			}
		})
	}
}

func TestVerdictCountsSampleFailures(t *testing.T) {
	cal := bench.Calibration{TargetTolerance: 1.0e-9}
	scored := bench.ScoredResult{Samples: bench.SampleSet{0.8e-9, 1.2e-9, 0.95e-9}}

	v := bench.NewVerdict(cal, scored, 0, kernel.Buckets{})

	if v.SampleFailures != 1 {
		t.Errorf("SampleFailures = %d, want 1", v.SampleFailures)
	}
	if !v.GlobalFailure {
		t.Error("GlobalFailure = false, want true")
	}
}
