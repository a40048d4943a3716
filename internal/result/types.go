package result

// Document is the structured result record written at the end of a run. It
// is deliberately plain: every field the report renders lives here, with no
// references back into the phases that produced it.
type Document struct {
	Benchmark     string      `yaml:"benchmark" json:"benchmark"`
	Version       string      `yaml:"version" json:"version"`
	Timestamp     string      `yaml:"timestamp" json:"timestamp"`
	Problem       Problem     `yaml:"problem" json:"problem"`
	Workers       int         `yaml:"workers" json:"workers"`
	BudgetSeconds float64     `yaml:"budget_seconds" json:"budget_seconds"`
	Correctness   Correctness `yaml:"correctness" json:"correctness"`
	Calibration   Calibration `yaml:"calibration" json:"calibration"`
	Scored        Scored      `yaml:"scored" json:"scored"`
	Timing        []Phase     `yaml:"timing" json:"timing"`
	GlobalFailure bool        `yaml:"global_failure" json:"global_failure"`
}

type Problem struct {
	NX int `yaml:"nx" json:"nx"`
	NY int `yaml:"ny" json:"ny"`
	NZ int `yaml:"nz" json:"nz"`
}

type Correctness struct {
	Passed int `yaml:"passed" json:"passed"`
	Failed int `yaml:"failed" json:"failed"`
}

type Calibration struct {
	TargetTolerance    float64 `yaml:"target_tolerance" json:"target_tolerance"`
	RequiredIterations int     `yaml:"required_iterations" json:"required_iterations"`
	WorstCaseSeconds   float64 `yaml:"worst_case_seconds" json:"worst_case_seconds"`
	ToleranceFailures  int     `yaml:"tolerance_failures" json:"tolerance_failures"`
	Errors             int     `yaml:"errors" json:"errors"`
}

type Scored struct {
	Repetitions     int       `yaml:"repetitions" json:"repetitions"`
	TotalIterations int       `yaml:"total_iterations" json:"total_iterations"`
	SampleFailures  int       `yaml:"sample_failures" json:"sample_failures"`
	Seconds         float64   `yaml:"seconds" json:"seconds"`
	Samples         []float64 `yaml:"samples" json:"samples"`
}

type Phase struct {
	Name    string  `yaml:"name" json:"name"`
	Seconds float64 `yaml:"seconds" json:"seconds"`
}
