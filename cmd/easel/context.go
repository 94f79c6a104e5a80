package main

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"easel/internal/comfy"
	"easel/internal/config"
	"easel/internal/logging"
	"easel/internal/pipeline"
	"easel/internal/runlock"
	"easel/internal/runlog"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) logger(cfg *config.Config) *slog.Logger {
	format := cfg.Logging.Format
	// Console output only makes sense on a terminal; pipes get JSON.
	if format == "console" && !isatty.IsTerminal(os.Stderr.Fd()) {
		format = "json"
	}
	return logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: format,
		Output: os.Stderr,
	})
}

// withRunner builds a pipeline runner for a mutating command: single-instance
// lock, run log store, service client. The lock and store are released when
// fn returns.
func (c *commandContext) withRunner(ctx context.Context, dryRun bool, fn func(context.Context, *pipeline.Runner) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger := c.logger(cfg)

	lock := runlock.New(cfg.Paths.LogDir)
	if err := lock.Acquire(); err != nil {
		return err
	}
	defer func() { _ = lock.Release() }()

	store, err := runlog.Open(cfg.Paths.LogDir)
	if err != nil {
		return err
	}
	defer store.Close()

	client := comfy.NewClient(cfg.Service.BaseURL, logging.NewComponentLogger(logger, "comfy"))
	runner := pipeline.New(cfg, client, logger,
		pipeline.WithRunLog(store),
		pipeline.WithDryRun(dryRun))
	return fn(ctx, runner)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
