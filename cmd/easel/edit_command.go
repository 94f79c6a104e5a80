package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"easel/internal/config"
	"easel/internal/pipeline"
)

func newEditCommand(ctx *commandContext) *cobra.Command {
	var profileFlag string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "edit [image...]",
		Short: "Run the multi-step edit chain for source images",
		Long: "Decodes each image's filename into attributes, synthesizes an edit\n" +
			"instruction, and runs the configured chain of edit jobs where each step\n" +
			"consumes the previous step's output. Without arguments, every matching\n" +
			"image in the scan directory is processed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRunner(cmd.Context(), dryRun, func(runCtx context.Context, runner *pipeline.Runner) error {
				out := cmd.OutOrStdout()
				if len(args) == 0 {
					summary, err := runner.EditScan(runCtx, profileFlag)
					if err != nil {
						return err
					}
					fmt.Fprintln(out, renderScanSummary(summary))
					return nil
				}

				var results []pipeline.EditResult
				for _, arg := range args {
					path, err := config.ExpandPath(arg)
					if err != nil {
						return err
					}
					result, err := runner.EditAsset(runCtx, profileFlag, path)
					if err != nil {
						return err
					}
					results = append(results, result)
				}
				fmt.Fprintln(out, renderEditResults(results))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&profileFlag, "profile", "p", "", "Workflow profile (defaults to default_profile)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the jobs without contacting the service")
	return cmd
}

func renderEditResults(results []pipeline.EditResult) string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			r.Asset,
			r.Chain.Status.String(),
			strconv.Itoa(r.Chain.Executed),
			strconv.Itoa(r.Chain.Skipped),
			r.Instruction,
		})
	}
	return renderTable([]string{"Asset", "Status", "Executed", "Skipped", "Instruction"}, rows)
}

func renderScanSummary(summary pipeline.ScanSummary) string {
	rows := [][]string{{
		strconv.Itoa(summary.Processed),
		strconv.Itoa(summary.Skipped),
		strconv.Itoa(summary.Failed),
	}}
	return renderTable([]string{"Processed", "Skipped", "Failed"}, rows)
}
