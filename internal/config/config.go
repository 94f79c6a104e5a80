package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	// ScanDir holds source images for directory edit runs.
	ScanDir string `toml:"scan_dir"`
	// OutDir receives finished images.
	OutDir string `toml:"out_dir"`
	// InputStore is the service's upload directory (read by LoadImage).
	InputStore string `toml:"input_store"`
	// OutputStore is the service's own output directory (read by
	// LoadImageOutput and probed for finished artifacts).
	OutputStore string `toml:"output_store"`
	// WorkDir is the fallback probed when the service reports bare
	// filenames relative to its working directory.
	WorkDir string `toml:"work_dir"`
	LogDir  string `toml:"log_dir"`
}

// Service contains the remote endpoint and polling cadence.
type Service struct {
	BaseURL            string `toml:"base_url"`
	PollTimeoutSeconds int    `toml:"poll_timeout_seconds"`
	PollIntervalMS     int    `toml:"poll_interval_ms"`
	JobPauseMS         int    `toml:"job_pause_ms"`
}

// Prompt contains filename decoding and instruction synthesis settings.
type Prompt struct {
	AllowCountries          []string `toml:"allow_countries"`
	NoSubcategoryCategories []string `toml:"no_subcategory_categories"`
}

// Chain contains multi-step edit settings.
type Chain struct {
	Steps int `toml:"steps"`
}

// Sweep contains settings for the attribute-addition sweep across countries.
type Sweep struct {
	Countries []string          `toml:"countries"`
	Demonyms  map[string]string `toml:"demonyms"`
	BaseImage string            `toml:"base_image"`
}

// Logging contains log output settings.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Profile describes one workflow template family and how to patch it.
type Profile struct {
	Template           string `toml:"template"`
	ModelTag           string `toml:"model_tag"`
	ImageNodeClass     string `toml:"image_node_class"`
	StagingStore       string `toml:"staging_store"`
	NegativeSentinel   string `toml:"negative_sentinel"`
	RewireConditioning bool   `toml:"rewire_conditioning"`
}

// Config encapsulates all configuration values for easel.
type Config struct {
	DefaultProfile string             `toml:"default_profile"`
	Paths          Paths              `toml:"paths"`
	Service        Service            `toml:"service"`
	Prompt         Prompt             `toml:"prompt"`
	Chain          Chain              `toml:"chain"`
	Sweep          Sweep              `toml:"sweep"`
	Logging        Logging            `toml:"logging"`
	Profiles       map[string]Profile `toml:"profile"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/easel/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("easel.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a run writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutDir, c.Paths.InputStore, c.Paths.OutputStore, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// GetProfile resolves a profile by name; the empty name selects the default
// profile.
func (c *Config) GetProfile(name string) (string, Profile, error) {
	resolved := strings.TrimSpace(name)
	if resolved == "" {
		resolved = c.DefaultProfile
	}
	profile, ok := c.Profiles[resolved]
	if !ok {
		known := make([]string, 0, len(c.Profiles))
		for k := range c.Profiles {
			known = append(known, k)
		}
		return "", Profile{}, fmt.Errorf("unknown profile %q (configured: %s)", resolved, strings.Join(known, ", "))
	}
	return resolved, profile, nil
}

// PollTimeout returns the history poll deadline.
func (c *Config) PollTimeout() time.Duration {
	return time.Duration(c.Service.PollTimeoutSeconds) * time.Second
}

// PollInterval returns the fixed history poll interval.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Service.PollIntervalMS) * time.Millisecond
}

// JobPause returns the delay inserted between executed jobs.
func (c *Config) JobPause() time.Duration {
	return time.Duration(c.Service.JobPauseMS) * time.Millisecond
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
