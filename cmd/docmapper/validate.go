package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"docmapper/internal/engine"
	"docmapper/internal/mapping"
)

func newValidateCmd(a *app) *cobra.Command {
	var (
		rulesFile string
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a rule file without running it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rf, err := mapping.LoadFile(rulesFile)
			if err != nil {
				return err
			}

			diags := engine.Validate(rf.MappingRules())

			if asJSON {
				if err := writeJSON(cmd.OutOrStdout(), diags); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				for _, d := range diags.Errors {
					fmt.Fprintln(out, "error:", d)
				}

				for _, d := range diags.Warnings {
					fmt.Fprintln(out, "warning:", d)
				}

				for _, d := range diags.Infos {
					fmt.Fprintln(out, "info:", d)
				}

				if diags.IsValid() {
					fmt.Fprintf(out, "%d rules ok\n", len(rf.Rules))
				}
			}

			if diags.HasErrors() {
				return fmt.Errorf("%d errors in %s: %s", len(diags.Errors), rulesFile, strings.Join(diags.Codes(), ", "))
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&rulesFile, "rules", "", "YAML rule file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print diagnostics as JSON")
	_ = cmd.MarkFlagRequired("rules")

	return cmd
}
