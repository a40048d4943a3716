package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Problem     Problem     `yaml:"problem"`
	Workers     int         `yaml:"workers"`
	BudgetSecs  float64     `yaml:"budget_seconds"`
	Calibration Calibration `yaml:"calibration"`
	Results     Results     `yaml:"results"`
}

// Problem gives the local per-worker grid dimensions. Every worker owns a
// slab of this size; the global grid scales with the worker count.
type Problem struct {
	NX int `yaml:"nx"`
	NY int `yaml:"ny"`
	NZ int `yaml:"nz"`
}

type Calibration struct {
	RefMaxIters    int `yaml:"ref_max_iters"`
	Runs           int `yaml:"runs"`
	IterMultiplier int `yaml:"iter_multiplier"`
}

type Results struct {
	Dir string `yaml:"dir"`
}

// Default is the configuration used when no config file is given: a small
// exploratory problem and a one-minute budget. Official runs override the
// budget upward.
func Default() *Config {
	return &Config{
		Problem:    Problem{NX: 32, NY: 32, NZ: 32},
		Workers:    4,
		BudgetSecs: 60,
		Calibration: Calibration{
			RefMaxIters:    50,
			Runs:           1,
			IterMultiplier: 10,
		},
		Results: Results{Dir: "results"},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects configurations no worker group could safely run with.
// Configuration errors are the one fatal error class: they must surface
// before any collective phase starts.
func Validate(cfg *Config) error {
	if cfg.Problem.NX < 1 || cfg.Problem.NY < 1 || cfg.Problem.NZ < 1 {
		return fmt.Errorf("problem dimensions must be positive, got %dx%dx%d",
			cfg.Problem.NX, cfg.Problem.NY, cfg.Problem.NZ)
	}
	if cfg.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", cfg.Workers)
	}
	if cfg.BudgetSecs <= 0 {
		return fmt.Errorf("budget_seconds must be positive, got %g", cfg.BudgetSecs)
	}
	if cfg.Calibration.RefMaxIters < 1 {
		return fmt.Errorf("calibration ref_max_iters must be at least 1, got %d", cfg.Calibration.RefMaxIters)
	}
	if cfg.Calibration.Runs < 1 {
		return fmt.Errorf("calibration runs must be at least 1, got %d", cfg.Calibration.Runs)
	}
	if cfg.Calibration.IterMultiplier < 1 {
		return fmt.Errorf("calibration iter_multiplier must be at least 1, got %d", cfg.Calibration.IterMultiplier)
	}
	if cfg.Results.Dir == "" {
		return fmt.Errorf("results dir is required")
	}
	return nil
}
