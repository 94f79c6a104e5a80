package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateService(); err != nil {
		return err
	}
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateProfiles(); err != nil {
		return err
	}
	if err := c.validateSweep(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateService() error {
	base := c.Service.BaseURL
	if base == "" {
		return errors.New("service.base_url must be set")
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		return fmt.Errorf("service.base_url must start with http:// or https://, got %q", base)
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.OutDir) == "" {
		return errors.New("paths.out_dir must be set")
	}
	if strings.TrimSpace(c.Paths.InputStore) == "" {
		return errors.New("paths.input_store must be set")
	}
	if strings.TrimSpace(c.Paths.OutputStore) == "" {
		return errors.New("paths.output_store must be set")
	}
	return nil
}

func (c *Config) validateProfiles() error {
	if len(c.Profiles) == 0 {
		return errors.New("at least one [profile.NAME] section must be configured")
	}
	if _, ok := c.Profiles[c.DefaultProfile]; !ok {
		return fmt.Errorf("default_profile %q has no [profile.%s] section", c.DefaultProfile, c.DefaultProfile)
	}
	for name, profile := range c.Profiles {
		if profile.Template == "" {
			return fmt.Errorf("profile.%s.template must be set", name)
		}
		switch profile.ImageNodeClass {
		case "LoadImage", "LoadImageOutput":
		default:
			return fmt.Errorf("profile.%s.image_node_class must be LoadImage or LoadImageOutput, got %q", name, profile.ImageNodeClass)
		}
		switch profile.StagingStore {
		case "input", "output":
		default:
			return fmt.Errorf("profile.%s.staging_store must be input or output, got %q", name, profile.StagingStore)
		}
	}
	return nil
}

func (c *Config) validateSweep() error {
	for _, country := range c.Sweep.Countries {
		if _, ok := c.Sweep.Demonyms[country]; !ok {
			return fmt.Errorf("sweep.demonyms is missing an entry for %q", country)
		}
	}
	return nil
}
