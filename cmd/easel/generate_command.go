package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"easel/internal/config"
	"easel/internal/pipeline"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var profileFlag string
	var dryRun bool
	var plan bool

	cmd := &cobra.Command{
		Use:   "generate <sheet.csv>",
		Short: "Generate images from a prompt sheet",
		Long: "Reads a CSV sheet with per-country rows and per-variant prompt columns,\n" +
			"then submits one generation job per prompt. Outputs that already exist\n" +
			"are skipped, so an interrupted run can be restarted with the same sheet.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sheet, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if plan {
				cfg, err := ctx.ensureConfig()
				if err != nil {
					return err
				}
				runner := pipeline.New(cfg, nil, nil)
				jobs, err := runner.PlanSheet(profileFlag, sheet)
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(jobs))
				for _, j := range jobs {
					rows = append(rows, []string{j.Name, j.Country, j.Variant, j.Instruction})
				}
				fmt.Fprintln(out, renderTable([]string{"Output", "Country", "Variant", "Prompt"}, rows))
				return nil
			}

			return ctx.withRunner(cmd.Context(), dryRun, func(runCtx context.Context, runner *pipeline.Runner) error {
				summary, err := runner.Generate(runCtx, profileFlag, sheet)
				if err != nil {
					return err
				}
				rows := [][]string{{
					strconv.Itoa(summary.Submitted),
					strconv.Itoa(summary.Skipped),
					strconv.Itoa(summary.Failed),
				}}
				fmt.Fprintln(out, renderTable([]string{"Submitted", "Skipped", "Failed"}, rows))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&profileFlag, "profile", "p", "", "Workflow profile (defaults to default_profile)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the jobs without contacting the service")
	cmd.Flags().BoolVar(&plan, "plan", false, "List the jobs the sheet implies and exit")
	return cmd
}
