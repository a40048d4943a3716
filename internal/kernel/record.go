// Package kernel implements the numerical kernels the benchmark times:
// sparse matrix-vector product, a symmetric Gauss-Seidel smoother, vector
// primitives, and the preconditioned conjugate gradient solve built from
// them. Reference kernels are plain loops; the optimized suite swaps the
// vector primitives for gonum's.
package kernel

import (
	"fmt"
	"math"
)

// FailureKind names the ways a kernel invocation can fail. Failures are
// counted and logged by the harness, never fatal mid-phase.
type FailureKind int

const (
	FailureDimension FailureKind = iota + 1 // vector/operator shape mismatch
	FailureBreakdown                        // zero denominator in CG recurrence
)

func (k FailureKind) String() string {
	switch k {
	case FailureDimension:
		return "dimension"
	case FailureBreakdown:
		return "breakdown"
	}
	return "unknown"
}

// Failure is a tagged kernel failure. It satisfies error so callers can log
// it directly, but the kind stays inspectable.
type Failure struct {
	Kind FailureKind
	Op   string
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s failure", f.Op, f.Kind)
}

// Record captures one solver invocation. A valid record has a finite,
// non-negative scaled residual; the quality aggregator rejects anything else.
type Record struct {
	Iterations          int
	ResidualNorm        float64
	InitialResidualNorm float64
	ElapsedSeconds      float64
	Failure             *Failure
}

// ScaledResidual is the benchmark's accuracy metric: the final residual norm
// relative to the initial one.
func (r Record) ScaledResidual() float64 {
	if r.InitialResidualNorm == 0 {
		if r.ResidualNorm == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return r.ResidualNorm / r.InitialResidualNorm
}
