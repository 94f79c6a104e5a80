package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"easel/internal/config"
	"easel/internal/prompt"
	"easel/internal/stem"
)

func newPromptCommand(ctx *commandContext) *cobra.Command {
	var profileFlag string
	var showChain bool

	cmd := &cobra.Command{
		Use:   "prompt <stem-or-filename...>",
		Short: "Show the instruction a filename stem would produce",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			_, profile, err := cfg.GetProfile(profileFlag)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			rows := make([][]string, 0, len(args))
			for _, arg := range args {
				name := filepath.Base(arg)
				name = strings.TrimSuffix(name, filepath.Ext(name))
				attrs, err := stem.Decode(name, stem.Options{
					ModelTag:       profile.ModelTag,
					AllowCountries: cfg.Prompt.AllowCountries,
					NoSubcategory:  cfg.Prompt.NoSubcategoryCategories,
				})
				if err != nil {
					return err
				}
				rows = append(rows, []string{
					name,
					attrs.Country,
					attrs.CountryMatch.String(),
					attrs.Category,
					attrs.Subcategory,
					attrs.Variant,
					prompt.BuildInstruction(attrs),
				})
				if showChain {
					if err := printChain(out, cfg, attrs.Country); err != nil {
						return err
					}
				}
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Stem", "Country", "Match", "Category", "Subcategory", "Variant", "Instruction"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVarP(&profileFlag, "profile", "p", "", "Workflow profile (defaults to default_profile)")
	cmd.Flags().BoolVar(&showChain, "chain", false, "Also print the attribute-addition chain for the stem's country")
	return cmd
}

func printChain(out io.Writer, cfg *config.Config, country string) error {
	demonym, ok := cfg.Sweep.Demonyms[country]
	if !ok {
		demonym, ok = prompt.Demonym(country)
	}
	if !ok {
		return fmt.Errorf("no demonym configured for country %q", country)
	}
	for i, instruction := range prompt.ChainInstructions(prompt.CountryPhrase(country), demonym) {
		fmt.Fprintf(out, "%d. %s\n", i+1, instruction)
	}
	return nil
}
