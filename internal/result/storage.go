package result

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const documentName = "verdict.yaml"

// CreateRunDir makes a timestamped directory for one run under
// baseDir/runs and points baseDir/latest at it.
func CreateRunDir(baseDir string) (string, error) {
	runsDir := filepath.Join(baseDir, "runs")
	stamp := time.Now().UTC().Format("2006-01-02T15-04-05")
	runDir := filepath.Join(runsDir, stamp)
	runDir, err := filepath.Abs(runDir)
	if err != nil {
		return "", fmt.Errorf("resolving run dir: %w", err)
	}
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", fmt.Errorf("creating run dir: %w", err)
	}
	latest := filepath.Join(baseDir, "latest")
	os.Remove(latest)
	if err := os.Symlink(runDir, latest); err != nil {
		return "", fmt.Errorf("creating latest symlink: %w", err)
	}
	return runDir, nil
}

// Write stores the result document in the run directory as YAML, the
// structured key/value format the benchmark has always reported in.
func Write(runDir string, doc *Document) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling verdict: %w", err)
	}
	return os.WriteFile(filepath.Join(runDir, documentName), data, 0o644)
}

// Read loads the result document from a run directory.
func Read(runDir string) (*Document, error) {
	data, err := os.ReadFile(filepath.Join(runDir, documentName))
	if err != nil {
		return nil, fmt.Errorf("reading verdict: %w", err)
	}
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing verdict: %w", err)
	}
	return &doc, nil
}
