package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeService()
	c.normalizePrompt()
	c.normalizeChain()
	c.normalizeSweep()
	c.normalizeLogging()
	return c.normalizeProfiles()
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.ScanDir, err = expandPath(c.Paths.ScanDir); err != nil {
		return fmt.Errorf("paths.scan_dir: %w", err)
	}
	if c.Paths.OutDir, err = expandPath(c.Paths.OutDir); err != nil {
		return fmt.Errorf("paths.out_dir: %w", err)
	}
	if c.Paths.InputStore, err = expandPath(c.Paths.InputStore); err != nil {
		return fmt.Errorf("paths.input_store: %w", err)
	}
	if c.Paths.OutputStore, err = expandPath(c.Paths.OutputStore); err != nil {
		return fmt.Errorf("paths.output_store: %w", err)
	}
	if strings.TrimSpace(c.Paths.WorkDir) != "" {
		if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
			return fmt.Errorf("paths.work_dir: %w", err)
		}
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeService() {
	if value, ok := os.LookupEnv("COMFY_HOST"); ok && strings.TrimSpace(value) != "" {
		c.Service.BaseURL = strings.TrimSpace(value)
	}
	c.Service.BaseURL = strings.TrimRight(strings.TrimSpace(c.Service.BaseURL), "/")
	if c.Service.BaseURL == "" {
		c.Service.BaseURL = defaultBaseURL
	}
	if c.Service.PollTimeoutSeconds <= 0 {
		c.Service.PollTimeoutSeconds = defaultPollTimeoutSeconds
	}
	if c.Service.PollIntervalMS <= 0 {
		c.Service.PollIntervalMS = defaultPollIntervalMS
	}
	if c.Service.JobPauseMS < 0 {
		c.Service.JobPauseMS = defaultJobPauseMS
	}
}

func normalizeTokenList(values []string, fallback []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		normalized := strings.ToLower(strings.TrimSpace(v))
		normalized = strings.ReplaceAll(normalized, " ", "_")
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func (c *Config) normalizePrompt() {
	c.Prompt.AllowCountries = normalizeTokenList(c.Prompt.AllowCountries, defaultCountries())
	c.Prompt.NoSubcategoryCategories = normalizeTokenList(c.Prompt.NoSubcategoryCategories, defaultNoSubcategoryCategories())
}

func (c *Config) normalizeChain() {
	if c.Chain.Steps <= 0 {
		c.Chain.Steps = defaultChainSteps
	}
}

func (c *Config) normalizeSweep() {
	c.Sweep.Countries = normalizeTokenList(c.Sweep.Countries, defaultCountries())
	demonyms := defaultDemonyms()
	for country, demonym := range c.Sweep.Demonyms {
		key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(country)), " ", "_")
		value := strings.TrimSpace(demonym)
		if key == "" || value == "" {
			continue
		}
		demonyms[key] = value
	}
	c.Sweep.Demonyms = demonyms
	c.Sweep.BaseImage = strings.TrimSpace(c.Sweep.BaseImage)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizeProfiles() error {
	if len(c.Profiles) == 0 {
		c.Profiles = defaultProfiles()
	}
	defaults := defaultProfiles()
	for name, profile := range c.Profiles {
		base, hasDefaults := defaults[name]

		profile.Template = strings.TrimSpace(profile.Template)
		if profile.Template == "" && hasDefaults {
			profile.Template = base.Template
		}
		if profile.Template != "" {
			expanded, err := expandPath(profile.Template)
			if err != nil {
				return fmt.Errorf("profile.%s.template: %w", name, err)
			}
			profile.Template = expanded
		}

		profile.ModelTag = strings.ToLower(strings.TrimSpace(profile.ModelTag))
		if profile.ModelTag == "" {
			profile.ModelTag = name
		}
		profile.ImageNodeClass = strings.TrimSpace(profile.ImageNodeClass)
		if profile.ImageNodeClass == "" {
			if hasDefaults {
				profile.ImageNodeClass = base.ImageNodeClass
			} else {
				profile.ImageNodeClass = "LoadImage"
			}
		}
		profile.StagingStore = strings.ToLower(strings.TrimSpace(profile.StagingStore))
		if profile.StagingStore == "" {
			if hasDefaults {
				profile.StagingStore = base.StagingStore
			} else {
				profile.StagingStore = "input"
			}
		}
		c.Profiles[name] = profile
	}

	c.DefaultProfile = strings.TrimSpace(c.DefaultProfile)
	if c.DefaultProfile == "" {
		c.DefaultProfile = defaultProfileName
	}
	return nil
}
