package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"docmapper/internal/engine"
	"docmapper/internal/mapping"
)

func newRuleCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rule",
		Short: "Manage a client's stored rules",
	}

	cmd.AddCommand(
		newRuleImportCmd(a),
		newRuleListCmd(a),
		newRuleDeleteCmd(a),
	)

	return cmd
}

func newRuleImportCmd(a *app) *cobra.Command {
	var clientID, rulesFile string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Append the rules of a YAML file to a client",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rf, err := mapping.LoadFile(rulesFile)
			if err != nil {
				return err
			}

			rules := rf.MappingRules()

			diags := engine.Validate(rules)
			if err := diags.Error(); err != nil {
				return err
			}

			for _, w := range diags.Warnings {
				a.logger.Warn("rule warning", zap.String("diagnostic", w.String()))
			}

			s, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			created, err := s.CreateRules(cmd.Context(), clientID, rules)
			if err != nil {
				return err
			}

			a.logger.Info("rules imported", zap.String("client", clientID), zap.Int("count", len(created)))

			for _, r := range created {
				fmt.Fprintln(cmd.OutOrStdout(), r.ID)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&clientID, "client", "", "client ID")
	cmd.Flags().StringVar(&rulesFile, "rules", "", "YAML rule file")
	_ = cmd.MarkFlagRequired("client")
	_ = cmd.MarkFlagRequired("rules")

	return cmd
}

func newRuleListCmd(a *app) *cobra.Command {
	var (
		clientID, outFile string
		asYAML            bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a client's rules in evaluation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			client, err := s.GetClient(cmd.Context(), clientID)
			if err != nil {
				return err
			}

			rules, err := s.ListRules(cmd.Context(), clientID)
			if err != nil {
				return err
			}

			if asYAML || outFile != "" {
				return writeRuleFile(cmd, mapping.NewRuleFile(client.Name, rules), outFile)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSOURCE\tDESTINATION\tTRANSFORM\tREQUIRED")

			for _, r := range rules {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\n", r.ID, r.SourcePath, r.DestinationPath, r.TransformType, r.Required)
			}

			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&clientID, "client", "", "client ID")
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print the rules as a rule file")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "write the rules as a rule file here (implies --yaml)")
	_ = cmd.MarkFlagRequired("client")

	return cmd
}

func newRuleDeleteCmd(a *app) *cobra.Command {
	var clientID string

	cmd := &cobra.Command{
		Use:   "delete RULE_ID",
		Short: "Remove one rule from a client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.DeleteRule(cmd.Context(), clientID, args[0]); err != nil {
				return err
			}

			a.logger.Info("rule deleted", zap.String("client", clientID), zap.String("rule", args[0]))

			return nil
		},
	}

	cmd.Flags().StringVar(&clientID, "client", "", "client ID")
	_ = cmd.MarkFlagRequired("client")

	return cmd
}

// writeRuleFile writes rf to path, or to stdout when path is empty.
func writeRuleFile(cmd *cobra.Command, rf *mapping.RuleFile, path string) error {
	if path != "" {
		return mapping.WriteFile(rf, path)
	}

	data, err := mapping.Marshal(rf)
	if err != nil {
		return err
	}

	_, err = cmd.OutOrStdout().Write(data)

	return err
}
