package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"easel/internal/config"
	"easel/internal/runlog"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var runID string
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Show recorded edit and generation steps",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := runlog.Open(cfg.Paths.LogDir)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List(cmd.Context(), runID, limit)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{
					e.CreatedAt.Local().Format(time.DateTime),
					shortID(e.RunID),
					e.Profile,
					e.Country,
					strconv.Itoa(e.Step),
					e.OutputPath,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"When", "Run", "Profile", "Country", "Step", "Output"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "Only show entries for this run id")
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Maximum entries to show (0 for all)")

	cmd.AddCommand(newRunsExportCommand(ctx))
	return cmd
}

func newRunsExportCommand(ctx *commandContext) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the run log as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := runlog.Open(cfg.Paths.LogDir)
			if err != nil {
				return err
			}
			defer store.Close()

			if output == "" {
				return store.ExportCSV(cmd.Context(), cmd.OutOrStdout())
			}
			path, err := config.ExpandPath(output)
			if err != nil {
				return err
			}
			file, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("create export file: %w", err)
			}
			defer file.Close()
			if err := store.ExportCSV(cmd.Context(), file); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote run log to %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination file (stdout when empty)")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
