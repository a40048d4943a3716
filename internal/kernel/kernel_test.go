package kernel_test

import (
	"math"
	"testing"

	"github.com/jspahr/cgmark/internal/comm"
	"github.com/jspahr/cgmark/internal/kernel"
	"github.com/jspahr/cgmark/internal/problem"
)

func buildSingleRank(t *testing.T, nx, ny, nz int) (*comm.Comm, *problem.System, *problem.Halo, *problem.Workspace) {
	t.Helper()
	net, err := comm.NewNetwork(1)
	if err != nil {
		t.Fatalf("NewNetwork: %v", err)
	}
	g, err := problem.NewGeometry(nx, ny, nz, 0, 1)
	if err != nil {
		t.Fatalf("NewGeometry: %v", err)
	}
	sys := problem.Generate(g)
	return net.Comm(0), sys, problem.SetupHalo(sys.Op), problem.NewWorkspace(sys.Op)
}

// A applied to the all-ones vector equals the right-hand side by
// construction of the problem.
func TestSpMVOnesGivesRHS(t *testing.T) {
	_, sys, _, _ := buildSingleRank(t, 4, 4, 4)
	op := sys.Op

	x := make([]float64, op.Cols)
	for i := range x {
		x[i] = 1
	}
	y := make([]float64, op.Rows)
	if f := kernel.Reference().SpMV(op, x, y); f != nil {
		t.Fatalf("SpMV failed: %v", f)
	}
	for i := range y {
		if y[i] != sys.B[i] {
			t.Fatalf("row %d: A·1 = %g, want b = %g", i, y[i], sys.B[i])
		}
	}
}

func TestSpMVDimensionFailure(t *testing.T) {
	_, sys, _, _ := buildSingleRank(t, 2, 2, 2)

	short := make([]float64, 1)
	y := make([]float64, sys.Op.Rows)
	f := kernel.Reference().SpMV(sys.Op, short, y)
	if f == nil || f.Kind != kernel.FailureDimension {
		t.Fatalf("expected dimension failure, got %v", f)
	}
}

func TestSymGSReducesResidual(t *testing.T) {
	_, sys, _, _ := buildSingleRank(t, 4, 4, 4)
	op := sys.Op
	s := kernel.Reference()

	z := make([]float64, op.Cols)
	if f := s.SymGS(op, sys.B, z); f != nil {
		t.Fatalf("SymGS failed: %v", f)
	}

	// residual of M z ≈ b must be smaller than ||b||
	az := make([]float64, op.Rows)
	if f := s.SpMV(op, z, az); f != nil {
		t.Fatalf("SpMV failed: %v", f)
	}
	var rnorm, bnorm float64
	for i := range az {
		d := sys.B[i] - az[i]
		rnorm += d * d
		bnorm += sys.B[i] * sys.B[i]
	}
	if !(rnorm < bnorm) {
		t.Errorf("one smoother sweep did not reduce the residual: %g >= %g", rnorm, bnorm)
	}
}

func TestOptimizedPrimitivesMatchReference(t *testing.T) {
	ref := kernel.Reference()
	opt := kernel.Optimized()

	a := []float64{1, -2, 3.5, 0.25}
	b := []float64{-1, 4, 2, 8}

	if got, want := opt.Dot(a, b), ref.Dot(a, b); got != want {
		t.Errorf("optimized dot = %g, reference = %g", got, want)
	}

	tests := []struct {
		name        string
		alpha, beta float64
		alias       string
	}{
		{"distinct operands", 2, -3, "none"},
		{"w aliases x with unit alpha", 1, 0.5, "x"},
		{"w aliases x with scaling", 2, 0.5, "x"},
		{"w aliases y", 1.5, -0.25, "y"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := []float64{1, -2, 3.5, 0.25}
			y := []float64{-1, 4, 2, 8}
			xo := append([]float64(nil), x...)
			yo := append([]float64(nil), y...)

			var wRef, wOpt []float64
			switch tt.alias {
			case "x":
				wRef, wOpt = append([]float64(nil), x...), x
				ref.Axpy(wRef, tt.alpha, wRef, tt.beta, yo)
				opt.Axpy(wOpt, tt.alpha, wOpt, tt.beta, y)
			case "y":
				wRef, wOpt = append([]float64(nil), y...), y
				ref.Axpy(wRef, tt.alpha, xo, tt.beta, wRef)
				opt.Axpy(wOpt, tt.alpha, x, tt.beta, wOpt)
			default:
				wRef, wOpt = make([]float64, 4), make([]float64, 4)
				ref.Axpy(wRef, tt.alpha, xo, tt.beta, yo)
				opt.Axpy(wOpt, tt.alpha, x, tt.beta, y)
			}
			for i := range wRef {
				if wRef[i] != wOpt[i] {
					t.Errorf("element %d: optimized %g, reference %g", i, wOpt[i], wRef[i])
				}
			}
		})
	}
}

func TestRecordScaledResidual(t *testing.T) {
	tests := []struct {
		name string
		rec  kernel.Record
		want float64
	}{
		{"normal ratio", kernel.Record{ResidualNorm: 1e-8, InitialResidualNorm: 1e-2}, 1e-6},
		{"zero over zero", kernel.Record{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.ScaledResidual(); got != tt.want {
				t.Errorf("ScaledResidual = %g, want %g", got, tt.want)
			}
		})
	}
	inf := kernel.Record{ResidualNorm: 1, InitialResidualNorm: 0}
	if !math.IsInf(inf.ScaledResidual(), 1) {
		t.Error("nonzero residual over zero initial must be +Inf")
	}
}
