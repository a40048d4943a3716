package kernel

// Buckets accumulates wall-clock time per phase across every solver call of
// a run. Times only ever grow; per-repetition costs are taken as deltas of
// the cumulative values, never as averages.
type Buckets struct {
	Total      float64 // whole CG solves
	Dot        float64 // local dot products
	Axpy       float64 // vector updates
	SpMV       float64 // sparse matrix-vector products
	Allreduce  float64 // dot-product reductions across the group
	Precond    float64 // smoother applications
	Halo       float64 // boundary-plane exchange
	Optimize   float64 // user-tunable setup hook
	RefKernels float64 // reference SpMV+SymGS timing loop, averaged per call
}

// Phase is one named slot of the timing breakdown.
type Phase struct {
	Name    string  `yaml:"name" json:"name"`
	Seconds float64 `yaml:"seconds" json:"seconds"`
}

// Phases returns the breakdown in its fixed reporting order.
func (b *Buckets) Phases() []Phase {
	return []Phase{
		{"total", b.Total},
		{"dot", b.Dot},
		{"axpy", b.Axpy},
		{"spmv", b.SpMV},
		{"allreduce", b.Allreduce},
		{"precond", b.Precond},
		{"halo", b.Halo},
		{"optimize", b.Optimize},
		{"refkernels", b.RefKernels},
	}
}
