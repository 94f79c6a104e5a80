// Package testsupport provides fixtures shared by package tests: temp-dir
// configs, workflow template files, and a fake service endpoint.
package testsupport

import (
	"path/filepath"
	"testing"

	"easel/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// The flux and hidream profiles point at generated template files.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.ScanDir = filepath.Join(base, "scan")
	cfg.Paths.OutDir = filepath.Join(base, "out")
	cfg.Paths.InputStore = filepath.Join(base, "comfy", "input")
	cfg.Paths.OutputStore = filepath.Join(base, "comfy", "output")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Service.PollTimeoutSeconds = 2
	cfg.Service.PollIntervalMS = 10
	cfg.Service.JobPauseMS = 0

	flux := cfg.Profiles["flux"]
	flux.Template = WriteFluxTemplate(t, filepath.Join(base, "flux_template.json"))
	cfg.Profiles["flux"] = flux

	hidream := cfg.Profiles["hidream"]
	hidream.Template = WriteHidreamTemplate(t, filepath.Join(base, "hidream_template.json"))
	cfg.Profiles["hidream"] = hidream

	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithBaseImage sets the sweep base image.
func WithBaseImage(path string) ConfigOption {
	return func(c *config.Config) {
		c.Sweep.BaseImage = path
	}
}

// WithSweepCountries narrows the sweep country list.
func WithSweepCountries(countries ...string) ConfigOption {
	return func(c *config.Config) {
		c.Sweep.Countries = countries
	}
}

// WithChainSteps overrides the chain length.
func WithChainSteps(steps int) ConfigOption {
	return func(c *config.Config) {
		c.Chain.Steps = steps
	}
}
