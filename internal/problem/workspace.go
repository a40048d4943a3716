package problem

// Workspace is the per-run mutable state of one solver invocation: the
// current iterate and the scratch vectors CG cycles through. Vectors that
// feed the stencil or the smoother carry halo planes.
type Workspace struct {
	X  []float64 // iterate, length Rows
	R  []float64 // residual, length Rows
	Z  []float64 // preconditioned residual, carries halo, length Cols
	P  []float64 // search direction, carries halo, length Cols
	AP []float64 // operator applied to P, length Rows
}

func NewWorkspace(op *Operator) *Workspace {
	return &Workspace{
		X:  make([]float64, op.Rows),
		R:  make([]float64, op.Rows),
		Z:  make([]float64, op.Cols),
		P:  make([]float64, op.Cols),
		AP: make([]float64, op.Rows),
	}
}

// ZeroGuess resets the iterate to the zero vector. Callers own this reset:
// every solver invocation in the benchmark starts cold.
func (ws *Workspace) ZeroGuess() {
	for i := range ws.X {
		ws.X[i] = 0
	}
}
