package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/jspahr/cgmark/internal/result"
)

// Generate reads a stored run and renders it in the requested format.
// "yaml" re-emits the result document unchanged; "json" converts it; the
// default is a human-readable table.
func Generate(runDir, format string, w io.Writer) error {
	doc, err := result.Read(runDir)
	if err != nil {
		return err
	}
	switch format {
	case "yaml":
		return writeYAML(doc, w)
	case "json":
		return writeJSON(doc, w)
	default:
		return writeTable(doc, w)
	}
}

func writeYAML(doc *result.Document, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(doc)
}

func writeJSON(doc *result.Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func writeTable(doc *result.Document, w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s %s\t%s\n", doc.Benchmark, doc.Version, doc.Timestamp)
	fmt.Fprintf(tw, "problem\t%dx%dx%d per worker, %d workers\n",
		doc.Problem.NX, doc.Problem.NY, doc.Problem.NZ, doc.Workers)
	fmt.Fprintf(tw, "budget\t%.1fs\n", doc.BudgetSeconds)
	fmt.Fprintf(tw, "correctness\t%d passed, %d failed\n",
		doc.Correctness.Passed, doc.Correctness.Failed)
	fmt.Fprintf(tw, "target tolerance\t%.6e\n", doc.Calibration.TargetTolerance)
	fmt.Fprintf(tw, "required iterations\t%d\n", doc.Calibration.RequiredIterations)
	fmt.Fprintf(tw, "worst case\t%.6fs\n", doc.Calibration.WorstCaseSeconds)
	fmt.Fprintf(tw, "repetitions\t%d\n", doc.Scored.Repetitions)
	fmt.Fprintf(tw, "total iterations\t%d\n", doc.Scored.TotalIterations)
	fmt.Fprintf(tw, "scored phase\t%.3fs\n", doc.Scored.Seconds)
	fmt.Fprintf(tw, "sample failures\t%d\n", doc.Scored.SampleFailures)
	for _, p := range doc.Timing {
		fmt.Fprintf(tw, "time[%s]\t%.6fs\n", p.Name, p.Seconds)
	}
	verdict := "PASSED"
	if doc.GlobalFailure {
		verdict = "FAILED"
	}
	fmt.Fprintf(tw, "verdict\t%s\n", verdict)
	return tw.Flush()
}
