package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"easel/internal/chain"
	"easel/internal/logging"
	"easel/internal/prompt"
	"easel/internal/services"
	"easel/internal/stem"
)

// EditResult reports one asset's chain run.
type EditResult struct {
	Asset       string
	Instruction string
	Chain       chain.Result
}

// ScanSummary aggregates a directory edit run.
type ScanSummary struct {
	Processed int
	Skipped   int
	Failed    int
	Results   []EditResult
}

// EditAsset runs the full edit chain for one source image. The filename stem
// is decoded into attributes, one instruction is synthesized, and the same
// instruction is applied for every chain step, each step feeding the next.
func (r *Runner) EditAsset(ctx context.Context, profileName, assetPath string) (EditResult, error) {
	resolvedName, profile, err := r.profileFor(profileName)
	if err != nil {
		return EditResult{}, err
	}

	base := filepath.Base(assetPath)
	stemName := strings.TrimSuffix(base, filepath.Ext(base))
	attrs, err := stem.Decode(stemName, stem.Options{
		ModelTag:       profile.ModelTag,
		AllowCountries: r.cfg.Prompt.AllowCountries,
		NoSubcategory:  r.cfg.Prompt.NoSubcategoryCategories,
	})
	if err != nil {
		return EditResult{}, err
	}
	if attrs.CountryMatch != stem.MatchExact {
		return EditResult{}, services.Wrap(services.ErrDisallowedCountry, "decode", "country",
			fmt.Sprintf("country %q is not on the allow list", attrs.Country), nil)
	}

	instruction := prompt.BuildInstruction(attrs)
	ext := filepath.Ext(base)
	if ext == "" {
		ext = ".png"
	}

	outputs := make([]string, 0, r.cfg.Chain.Steps)
	for step := 1; step <= r.cfg.Chain.Steps; step++ {
		outputs = append(outputs, filepath.Join(r.cfg.Paths.OutDir, fmt.Sprintf("%s_%d%s", stemName, step, ext)))
	}

	ctx = services.WithAsset(services.WithProfile(ctx, resolvedName), base)
	driver := chain.Driver{
		Pause:  r.cfg.JobPause(),
		Logger: r.logger.With(logging.String(logging.FieldAsset, base)),
	}
	if r.dryRun {
		driver.Exists = func(string) bool { return false }
	}
	result, err := driver.Run(ctx, chain.Chain{
		Source:  assetPath,
		Outputs: outputs,
		Run: func(ctx context.Context, step int, input, output string) error {
			return r.execute(ctx, job{
				profileName:  resolvedName,
				profile:      profile,
				instruction:  instruction,
				inputPath:    input,
				outputPrefix: outputPrefix(output),
				finalPath:    output,
				country:      attrs.Country,
				step:         step,
			})
		},
	})
	return EditResult{Asset: assetPath, Instruction: instruction, Chain: result}, err
}

// EditScan runs EditAsset over every matching image in the scan directory.
// Assets with undecodable names or disallowed countries are skipped; a chain
// abort fails that asset but the scan moves on to the next one.
func (r *Runner) EditScan(ctx context.Context, profileName string) (ScanSummary, error) {
	resolvedName, profile, err := r.profileFor(profileName)
	if err != nil {
		return ScanSummary{}, err
	}

	pattern := filepath.Join(r.cfg.Paths.ScanDir, profile.ModelTag+"_*.png")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return ScanSummary{}, fmt.Errorf("scan %s: %w", pattern, err)
	}
	sort.Strings(matches)

	var summary ScanSummary
	for _, path := range matches {
		if info, statErr := os.Stat(path); statErr != nil || info.IsDir() {
			continue
		}
		result, err := r.EditAsset(ctx, resolvedName, path)
		switch {
		case err == nil:
			summary.Processed++
		case services.SkipsAsset(err):
			summary.Skipped++
			r.logger.Warn("skipping asset",
				logging.String(logging.FieldAsset, filepath.Base(path)),
				logging.Error(err))
		case ctx.Err() != nil:
			return summary, ctx.Err()
		default:
			summary.Failed++
			r.logger.Error("asset failed",
				logging.String(logging.FieldAsset, filepath.Base(path)),
				logging.Error(err))
		}
		summary.Results = append(summary.Results, result)
	}
	r.logger.Info("scan finished",
		logging.Int("processed", summary.Processed),
		logging.Int("skipped", summary.Skipped),
		logging.Int("failed", summary.Failed))
	return summary, nil
}
