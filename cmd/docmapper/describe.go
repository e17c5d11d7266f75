package main

import (
	"github.com/spf13/cobra"

	"docmapper/internal/describe"
)

func newDescribeCmd(a *app) *cobra.Command {
	var rulesFile, clientID string

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Print the OpenAPI schema of the documents a rule set produces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rules, err := a.loadRules(cmd, rulesFile, clientID)
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), describe.Schema(rules))
		},
	}

	cmd.Flags().StringVar(&rulesFile, "rules", "", "YAML rule file")
	cmd.Flags().StringVar(&clientID, "client", "", "stored client whose rules to describe")
	cmd.MarkFlagsMutuallyExclusive("rules", "client")
	cmd.MarkFlagsOneRequired("rules", "client")

	return cmd
}
