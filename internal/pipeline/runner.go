// Package pipeline wires staging, template patching, job submission, polling
// and artifact relocation into the operations the CLI exposes.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"easel/internal/artifacts"
	"easel/internal/comfy"
	"easel/internal/config"
	"easel/internal/logging"
	"easel/internal/runlog"
	"easel/internal/services"
	"easel/internal/staging"
	"easel/internal/workflow"
)

// Service is the remote endpoint surface the runner needs. *comfy.Client
// implements it.
type Service interface {
	Submit(ctx context.Context, doc workflow.Document) (string, error)
	WaitForHistory(ctx context.Context, promptID string, timeout, interval time.Duration) (comfy.History, error)
}

// Runner executes pipeline operations against one configured service.
type Runner struct {
	cfg     *config.Config
	service Service
	logger  *slog.Logger
	log     *runlog.Store
	dryRun  bool
	runID   string
}

// Option adjusts runner construction.
type Option func(*Runner)

// WithRunLog records every completed step in the given store.
func WithRunLog(store *runlog.Store) Option {
	return func(r *Runner) { r.log = store }
}

// WithDryRun logs what would be submitted without calling the service or
// touching the filesystem.
func WithDryRun(enabled bool) Option {
	return func(r *Runner) { r.dryRun = enabled }
}

// New builds a runner. Every runner carries a fresh run id that tags log
// lines and run log entries from the same invocation.
func New(cfg *config.Config, service Service, logger *slog.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	r := &Runner{
		cfg:     cfg,
		service: service,
		logger:  logger,
		runID:   uuid.NewString(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With(logging.String(logging.FieldCorrelationID, r.runID))
	return r
}

// RunID reports the correlation id for this invocation.
func (r *Runner) RunID() string {
	return r.runID
}

func (r *Runner) stager() staging.Stager {
	return staging.Stager{
		InputDir:  r.cfg.Paths.InputStore,
		OutputDir: r.cfg.Paths.OutputStore,
	}
}

func (r *Runner) resolver() artifacts.Resolver {
	return artifacts.Resolver{
		OutputDir: r.cfg.Paths.OutputStore,
		WorkDir:   r.cfg.Paths.WorkDir,
	}
}

func patchOptions(profile config.Profile) workflow.Options {
	return workflow.Options{
		ImageNodeClass:     profile.ImageNodeClass,
		NegativeSentinel:   profile.NegativeSentinel,
		RewireConditioning: profile.RewireConditioning,
	}
}

// job is one submit-poll-resolve-relocate cycle.
type job struct {
	profileName string
	profile     config.Profile
	instruction string
	// inputPath is empty for text-to-image jobs.
	inputPath string
	// outputPrefix is what the template's output node writes under,
	// extension-less.
	outputPrefix string
	// finalPath is where the selected artifact ends up.
	finalPath string
	country   string
	step      int
}

// execute runs one job end to end.
func (r *Runner) execute(ctx context.Context, j job) error {
	logger := r.logger.With(
		logging.String(logging.FieldProfile, j.profileName),
		logging.Int(logging.FieldStep, j.step),
	)
	logger.Info("running job",
		logging.String("instruction", j.instruction),
		logging.String("output", j.finalPath))

	if r.dryRun {
		logger.Info("dry run, skipping submission")
		return nil
	}

	imageName := ""
	if j.inputPath != "" {
		store, err := staging.ParseStore(j.profile.StagingStore)
		if err != nil {
			return services.Wrap(services.ErrConfiguration, "stage", "store", "", err)
		}
		imageName, err = r.stager().Stage(j.inputPath, store)
		if err != nil {
			return services.Wrap(services.ErrTransient, "stage", "copy", "", err)
		}
	}

	doc, err := workflow.Load(j.profile.Template)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "patch", "load", "", err)
	}
	patch := workflow.Patch{
		Instruction:  j.instruction,
		ImageName:    imageName,
		OutputPrefix: j.outputPrefix,
	}
	if err := doc.Apply(patch, patchOptions(j.profile)); err != nil {
		return services.Wrap(services.ErrConfiguration, "patch", "apply", "", err)
	}

	promptID, err := r.service.Submit(ctx, doc)
	if err != nil {
		return err
	}
	logger.Debug("job submitted", logging.String("prompt_id", promptID))

	history, err := r.service.WaitForHistory(ctx, promptID, r.cfg.PollTimeout(), r.cfg.PollInterval())
	if err != nil {
		return err
	}

	selected, err := r.resolver().Resolve(history.Images())
	if err != nil {
		return err
	}
	if err := artifacts.Relocate(selected, j.finalPath); err != nil {
		return err
	}
	logger.Info("artifact saved", logging.String("path", j.finalPath))

	if r.log != nil {
		_, err := r.log.Record(ctx, runlog.Entry{
			RunID:       r.runID,
			Profile:     j.profileName,
			Country:     j.country,
			Step:        j.step,
			Instruction: j.instruction,
			OutputPath:  j.finalPath,
		})
		if err != nil {
			logger.Warn("failed to record run entry", logging.Error(err))
		}
	}
	return nil
}

// outputPrefix strips the extension from a final path for the template's
// output node, which appends its own numbering and extension.
func outputPrefix(finalPath string) string {
	return strings.TrimSuffix(finalPath, filepath.Ext(finalPath))
}

// pause sleeps between submitted jobs so the service is not hammered.
func (r *Runner) pause(ctx context.Context) error {
	if r.dryRun || r.cfg.JobPause() <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(r.cfg.JobPause()):
		return nil
	}
}

func (r *Runner) profileFor(name string) (string, config.Profile, error) {
	resolved, profile, err := r.cfg.GetProfile(name)
	if err != nil {
		return "", config.Profile{}, fmt.Errorf("resolve profile: %w", err)
	}
	return resolved, profile, nil
}
