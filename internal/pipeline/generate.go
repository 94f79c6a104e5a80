package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"easel/internal/batch"
	"easel/internal/logging"
)

// GenerateSummary aggregates a sheet-driven generation run.
type GenerateSummary struct {
	Submitted int
	Skipped   int
	Failed    int
}

// Generate submits one text-to-image job per non-blank prompt cell in the
// sheet. Outputs that already exist are skipped, so an interrupted run can be
// restarted with the same sheet. The service writes under a tmp_ prefix and
// the finished artifact is relocated to its canonical name.
func (r *Runner) Generate(ctx context.Context, profileName, sheetPath string) (GenerateSummary, error) {
	resolvedName, profile, err := r.profileFor(profileName)
	if err != nil {
		return GenerateSummary{}, err
	}

	rows, err := batch.ReadFile(sheetPath)
	if err != nil {
		return GenerateSummary{}, err
	}
	r.logger.Info("sheet loaded",
		logging.String("sheet", sheetPath),
		logging.Int("rows", len(rows)))

	var summary GenerateSummary
	for _, row := range rows {
		for _, vp := range row.Prompts {
			if ctx.Err() != nil {
				return summary, ctx.Err()
			}
			name := row.StemName(profile.ModelTag, vp.Variant)
			finalPath := filepath.Join(r.cfg.Paths.OutDir, name+".png")
			if _, statErr := os.Stat(finalPath); statErr == nil {
				summary.Skipped++
				r.logger.Info("output exists, skipping", logging.String("path", finalPath))
				continue
			}

			err := r.execute(ctx, job{
				profileName:  resolvedName,
				profile:      profile,
				instruction:  vp.Text,
				outputPrefix: filepath.Join(r.cfg.Paths.OutDir, "tmp_"+name),
				finalPath:    finalPath,
				country:      row.CountryToken,
				step:         1,
			})
			if err != nil {
				if ctx.Err() != nil {
					return summary, ctx.Err()
				}
				summary.Failed++
				r.logger.Error("generation failed",
					logging.String("name", name),
					logging.Error(err))
				continue
			}
			summary.Submitted++
			if err := r.pause(ctx); err != nil {
				return summary, err
			}
		}
	}
	r.logger.Info("generation finished",
		logging.Int("submitted", summary.Submitted),
		logging.Int("skipped", summary.Skipped),
		logging.Int("failed", summary.Failed))
	return summary, nil
}

// SheetJob is one job Generate would run.
type SheetJob struct {
	Name        string
	Country     string
	Variant     string
	Instruction string
}

// PlanSheet expands a sheet into the concrete jobs it implies.
func (r *Runner) PlanSheet(profileName, sheetPath string) ([]SheetJob, error) {
	_, profile, err := r.profileFor(profileName)
	if err != nil {
		return nil, err
	}
	rows, err := batch.ReadFile(sheetPath)
	if err != nil {
		return nil, err
	}
	var jobs []SheetJob
	for _, row := range rows {
		for _, vp := range row.Prompts {
			jobs = append(jobs, SheetJob{
				Name:        row.StemName(profile.ModelTag, vp.Variant) + ".png",
				Country:     row.CountryToken,
				Variant:     vp.Variant,
				Instruction: vp.Text,
			})
		}
	}
	if len(jobs) == 0 {
		return nil, fmt.Errorf("sheet %s contains no runnable prompts", sheetPath)
	}
	return jobs, nil
}
