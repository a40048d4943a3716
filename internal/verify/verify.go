// Package verify is the correctness gate run before any timed phase: it
// checks that the operator and the smoother are symmetric and that the
// solver actually converges on the generated problem. The benchmark only
// consumes the pass/fail tally; a failing sub-test marks the whole run as
// failed without stopping it.
package verify

import (
	"math"

	"github.com/jspahr/cgmark/internal/comm"
	"github.com/jspahr/cgmark/internal/kernel"
	"github.com/jspahr/cgmark/internal/problem"
)

// Tally counts sub-test outcomes.
type Tally struct {
	Passed int `yaml:"passed" json:"passed"`
	Failed int `yaml:"failed" json:"failed"`
}

func (t *Tally) add(ok bool) {
	if ok {
		t.Passed++
	} else {
		t.Failed++
	}
}

// Run executes the validation suites. Collective: every rank must call it
// with identical control flow, and the tally comes out identical on every
// rank because all comparisons go through group reductions.
func Run(c *comm.Comm, sys *problem.System, halo *problem.Halo) Tally {
	var t Tally
	t.add(operatorSymmetric(c, sys, halo))
	t.add(smootherSymmetric(c, sys))
	t.add(convergence(c, sys, halo))
	return t
}

// operatorSymmetric checks |x·Ay - y·Ax| against a scaled epsilon.
func operatorSymmetric(c *comm.Comm, sys *problem.System, halo *problem.Halo) bool {
	op := sys.Op
	s := kernel.Reference()

	x := make([]float64, op.Cols)
	y := make([]float64, op.Cols)
	ax := make([]float64, op.Rows)
	ay := make([]float64, op.Rows)

	base := op.Geom.Rank * op.Rows
	for i := 0; i < op.Rows; i++ {
		x[i] = 1.0
		y[i] = 1.0 / float64(base+i+1)
	}
	halo.Exchange(c, x)
	halo.Exchange(c, y)
	if s.SpMV(op, x, ax) != nil || s.SpMV(op, y, ay) != nil {
		return false
	}

	xAy := c.AllreduceSum(s.Dot(x[:op.Rows], ay))
	yAx := c.AllreduceSum(s.Dot(y[:op.Rows], ax))
	return symmetryHolds(xAy, yAx)
}

// smootherSymmetric checks the same identity through the preconditioner.
// Both sweeps start from the zero vector, matching how the solver applies
// the smoother.
func smootherSymmetric(c *comm.Comm, sys *problem.System) bool {
	op := sys.Op
	s := kernel.Reference()

	rx := make([]float64, op.Rows)
	ry := make([]float64, op.Rows)
	zx := make([]float64, op.Cols)
	zy := make([]float64, op.Cols)

	base := op.Geom.Rank * op.Rows
	for i := 0; i < op.Rows; i++ {
		rx[i] = 1.0
		ry[i] = 1.0 / float64(base+i+1)
	}
	if s.SymGS(op, rx, zx) != nil || s.SymGS(op, ry, zy) != nil {
		return false
	}

	xMy := c.AllreduceSum(s.Dot(rx, zy[:op.Rows]))
	yMx := c.AllreduceSum(s.Dot(ry, zx[:op.Rows]))
	return symmetryHolds(xMy, yMx)
}

// convergence runs the solver both with and without the preconditioner and
// checks that both converge and that the preconditioner earns its keep.
func convergence(c *comm.Comm, sys *problem.System, halo *problem.Halo) bool {
	const tol = 1e-9
	ws := problem.NewWorkspace(sys.Op)
	var scratch kernel.Buckets

	ws.ZeroGuess()
	precond := kernel.CG(c, sys, halo, ws, kernel.Optimized(),
		kernel.SolveOpts{MaxIters: 50, Tolerance: tol, Precondition: true}, &scratch)

	ws.ZeroGuess()
	plain := kernel.CG(c, sys, halo, ws, kernel.Optimized(),
		kernel.SolveOpts{MaxIters: 500, Tolerance: tol, Precondition: false}, &scratch)

	if precond.Failure != nil || plain.Failure != nil {
		return false
	}
	if precond.ScaledResidual() > tol || plain.ScaledResidual() > tol {
		return false
	}
	return precond.Iterations <= plain.Iterations
}

func symmetryHolds(a, b float64) bool {
	scale := math.Abs(a) + math.Abs(b) + 1
	return math.Abs(a-b) <= 1e-10*scale
}
