package kernel

import (
	"gonum.org/v1/gonum/floats"

	"github.com/jspahr/cgmark/internal/problem"
)

// Suite is one set of kernel implementations. The benchmark runs the
// reference suite to fix the quality baseline and the optimized suite for
// every timed solve.
type Suite struct {
	Name  string
	SpMV  func(op *problem.Operator, x, y []float64) *Failure
	SymGS func(op *problem.Operator, r, x []float64) *Failure
	Dot   func(a, b []float64) float64
	Axpy  func(w []float64, alpha float64, x []float64, beta float64, y []float64)
}

// Reference returns the unoptimized kernels: straight loops, no library
// primitives. This suite defines correct behavior.
func Reference() Suite {
	return Suite{
		Name:  "reference",
		SpMV:  spmv,
		SymGS: symgs,
		Dot:   dotRef,
		Axpy:  axpyRef,
	}
}

// Optimized returns the tuned suite. The stencil kernels are shared with the
// reference suite; the vector primitives use gonum's assembly-backed floats
// routines.
func Optimized() Suite {
	return Suite{
		Name:  "optimized",
		SpMV:  spmv,
		SymGS: symgs,
		Dot:   floats.Dot,
		Axpy:  axpyOpt,
	}
}

// spmv computes y = A·x. x must carry current halo planes.
func spmv(op *problem.Operator, x, y []float64) *Failure {
	if len(x) < op.Cols || len(y) < op.Rows {
		return &Failure{Kind: FailureDimension, Op: "spmv"}
	}
	for i := 0; i < op.Rows; i++ {
		vals := op.Vals[i]
		inds := op.Inds[i]
		sum := 0.0
		for j := range vals {
			sum += vals[j] * x[inds[j]]
		}
		y[i] = sum
	}
	return nil
}

// symgs applies one symmetric Gauss-Seidel sweep to M·x ≈ r: a forward pass
// over the local rows followed by a backward pass. x must carry current halo
// planes; the sweeps update interior values in place.
func symgs(op *problem.Operator, r, x []float64) *Failure {
	if len(x) < op.Cols || len(r) < op.Rows {
		return &Failure{Kind: FailureDimension, Op: "symgs"}
	}
	for i := 0; i < op.Rows; i++ {
		x[i] = sweepRow(op, r, x, i)
	}
	for i := op.Rows - 1; i >= 0; i-- {
		x[i] = sweepRow(op, r, x, i)
	}
	return nil
}

func sweepRow(op *problem.Operator, r, x []float64, i int) float64 {
	vals := op.Vals[i]
	inds := op.Inds[i]
	diag := vals[op.Diag[i]]
	sum := r[i]
	for j := range vals {
		sum -= vals[j] * x[inds[j]]
	}
	sum += diag * x[i] // the diagonal term stays on the left-hand side
	return sum / diag
}

func dotRef(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// axpyRef computes w = alpha·x + beta·y elementwise. w may alias x or y.
func axpyRef(w []float64, alpha float64, x []float64, beta float64, y []float64) {
	for i := range w {
		w[i] = alpha*x[i] + beta*y[i]
	}
}

// axpyOpt is axpyRef on gonum primitives, branching on the alias patterns CG
// actually produces.
func axpyOpt(w []float64, alpha float64, x []float64, beta float64, y []float64) {
	switch {
	case sameSlice(w, x) && alpha == 1:
		floats.AddScaled(w, beta, y) // x += beta·y
	case sameSlice(w, y):
		floats.Scale(beta, w)
		floats.AddScaled(w, alpha, x) // y = alpha·x + beta·y
	default:
		floats.ScaleTo(w, alpha, x)
		floats.AddScaled(w, beta, y)
	}
}

func sameSlice(a, b []float64) bool {
	return len(a) > 0 && len(b) > 0 && &a[0] == &b[0]
}
