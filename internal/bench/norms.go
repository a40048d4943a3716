package bench

import "math"

// CountFailures tallies the samples that miss the accuracy requirement. A
// sample fails if it is NaN, infinite, negative, or above the threshold
// fixed during calibration.
func CountFailures(samples SampleSet, threshold float64) int {
	failures := 0
	for _, s := range samples {
		if math.IsNaN(s) || math.IsInf(s, 0) || s < 0 || s > threshold {
			failures++
		}
	}
	return failures
}
