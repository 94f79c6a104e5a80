package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"easel/internal/config"
	"easel/internal/pipeline"
)

func newSweepCommand(ctx *commandContext) *cobra.Command {
	var profileFlag string
	var baseImage string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Layer country attributes onto a base image for every sweep country",
		Long: "For each configured country, runs the fixed attribute-addition chain\n" +
			"(background, signage, food, clothing, accessories) against the base\n" +
			"image, each step editing the previous step's output.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if baseImage != "" {
				expanded, err := config.ExpandPath(baseImage)
				if err != nil {
					return err
				}
				cfg.Sweep.BaseImage = expanded
			}

			return ctx.withRunner(cmd.Context(), dryRun, func(runCtx context.Context, runner *pipeline.Runner) error {
				results, err := runner.Sweep(runCtx, profileFlag)
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(results))
				for _, r := range results {
					rows = append(rows, []string{
						r.Country,
						r.Chain.Status.String(),
						strconv.Itoa(r.Chain.Executed),
						strconv.Itoa(r.Chain.Skipped),
						r.Chain.Final,
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Country", "Status", "Executed", "Skipped", "Final"}, rows))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&profileFlag, "profile", "p", "", "Workflow profile (defaults to default_profile)")
	cmd.Flags().StringVar(&baseImage, "base", "", "Base image (overrides sweep.base_image)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the jobs without contacting the service")
	return cmd
}
