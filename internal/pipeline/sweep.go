package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"easel/internal/chain"
	"easel/internal/logging"
	"easel/internal/prompt"
	"easel/internal/services"
)

// SweepResult reports one country's chain within a sweep.
type SweepResult struct {
	Country string
	Chain   chain.Result
}

// Sweep runs the attribute-addition chain against the configured base image
// for every sweep country: each step layers one more country attribute onto
// the previous step's output. Countries are independent; one aborting does
// not stop the others.
func (r *Runner) Sweep(ctx context.Context, profileName string) ([]SweepResult, error) {
	resolvedName, profile, err := r.profileFor(profileName)
	if err != nil {
		return nil, err
	}
	base := r.cfg.Sweep.BaseImage
	if base == "" {
		return nil, services.Wrap(services.ErrConfiguration, "sweep", "base-image",
			"sweep.base_image must be set", nil)
	}

	var results []SweepResult
	for _, country := range r.cfg.Sweep.Countries {
		if ctx.Err() != nil {
			return results, ctx.Err()
		}
		demonym := r.cfg.Sweep.Demonyms[country]
		instructions := prompt.ChainInstructions(prompt.CountryPhrase(country), demonym)

		outputs := make([]string, 0, len(instructions))
		for step := 1; step <= len(instructions); step++ {
			outputs = append(outputs, filepath.Join(
				r.cfg.Paths.OutDir, country,
				fmt.Sprintf("%s_%s_edit_%d.png", profile.ModelTag, country, step)))
		}

		logger := r.logger.With(logging.String("country", country))
		driver := chain.Driver{
			Pause:  r.cfg.JobPause(),
			Logger: logger,
		}
		if r.dryRun {
			driver.Exists = func(string) bool { return false }
		}
		result, err := driver.Run(ctx, chain.Chain{
			Source:  base,
			Outputs: outputs,
			Run: func(ctx context.Context, step int, input, output string) error {
				return r.execute(ctx, job{
					profileName:  resolvedName,
					profile:      profile,
					instruction:  instructions[step-1],
					inputPath:    input,
					outputPrefix: outputPrefix(output),
					finalPath:    output,
					country:      country,
					step:         step,
				})
			},
		})
		results = append(results, SweepResult{Country: country, Chain: result})
		if err != nil {
			if ctx.Err() != nil {
				return results, ctx.Err()
			}
			logger.Error("country chain aborted", logging.Error(err))
		}
	}
	return results, nil
}
