// Package chain sequences multi-step edits where each step consumes the
// previous step's output. Progress is reconstructed from the filesystem, so
// an interrupted chain resumes at the first missing output.
package chain

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"easel/internal/logging"
)

// Status is the terminal disposition of a chain run.
type Status int

const (
	// StatusPending means the chain has not produced all its outputs yet.
	StatusPending Status = iota
	// StatusDone means every step output exists.
	StatusDone
	// StatusAborted means a step failed; earlier outputs are kept.
	StatusAborted
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusDone:
		return "done"
	case StatusAborted:
		return "aborted"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// StepFunc executes one edit step, reading input and producing output.
type StepFunc func(ctx context.Context, step int, input, output string) error

// Chain describes one run: the source asset, the canonical per-step output
// paths in order, and the step executor.
type Chain struct {
	Source  string
	Outputs []string
	Run     StepFunc
}

// Driver runs chains. Exists is injectable so the resume decision can be
// tested without touching disk; nil means os.Stat.
type Driver struct {
	Pause  time.Duration
	Exists func(path string) bool
	Logger *slog.Logger
}

// Result reports how far a run got.
type Result struct {
	Status     Status
	Executed   int
	Skipped    int
	Final      string
	FailedStep int
}

// Run walks the chain from the first step. Steps whose output already exists
// are skipped and their output becomes the next step's input, so a rerun
// picks up exactly where the last run stopped. A step failure aborts the
// chain; completed outputs stay on disk. The pause applies only between
// executed steps, never around skips.
func (d Driver) Run(ctx context.Context, c Chain) (Result, error) {
	exists := d.Exists
	if exists == nil {
		exists = func(path string) bool {
			_, err := os.Stat(path)
			return err == nil
		}
	}
	logger := d.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	res := Result{Status: StatusPending}
	input := c.Source
	for i, output := range c.Outputs {
		step := i + 1
		if exists(output) {
			logger.Info("step output exists, skipping",
				logging.Int("step", step),
				logging.String("output", output))
			res.Skipped++
			res.Final = output
			input = output
			continue
		}

		if res.Executed > 0 && d.Pause > 0 {
			select {
			case <-ctx.Done():
				res.Status = StatusAborted
				res.FailedStep = step
				return res, ctx.Err()
			case <-time.After(d.Pause):
			}
		}

		if err := c.Run(ctx, step, input, output); err != nil {
			res.Status = StatusAborted
			res.FailedStep = step
			logger.Error("step failed, aborting chain",
				logging.Int("step", step),
				logging.Error(err))
			return res, err
		}
		res.Executed++
		res.Final = output
		input = output
	}

	res.Status = StatusDone
	return res, nil
}
