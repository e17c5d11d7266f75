package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"docmapper/internal/mapping"
	"docmapper/internal/suggest"
)

func newSuggestCmd(a *app) *cobra.Command {
	var (
		sourceFile, targetFile, client, outFile string
		cfg                                     = suggest.DefaultConfig()
	)

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Propose a rule file from a sample input and the output it should become",
		Long: `Matches every leaf of the target sample against the leaves of the source
sample by name and by which transform reproduces the target value, then prints
the confident matches as a rule file. Fields without a clear match are listed
on stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			source, err := readJSON(cmd.InOrStdin(), sourceFile)
			if err != nil {
				return err
			}

			target, err := readJSON(cmd.InOrStdin(), targetFile)
			if err != nil {
				return err
			}

			res := suggest.Rules(source, target, cfg)

			a.logger.Debug("rules suggested",
				zap.Int("matched", len(res.Rules)),
				zap.Int("unmapped", len(res.Unmapped)))

			if len(res.Unmapped) > 0 {
				fmt.Fprint(cmd.ErrOrStderr(), res.Explain())
			}

			return writeRuleFile(cmd, mapping.NewRuleFile(client, res.Rules), outFile)
		},
	}

	f := cmd.Flags()
	f.StringVar(&sourceFile, "source", "", "sample input JSON file")
	f.StringVar(&targetFile, "target", "", "sample output JSON file")
	f.StringVar(&client, "client", "", "client name written into the rule file")
	f.StringVarP(&outFile, "out", "o", "", "write the rule file here instead of stdout")
	f.Float64Var(&cfg.MinConfidence, "min-confidence", cfg.MinConfidence, "lowest score a match may have")
	f.Float64Var(&cfg.MinGap, "min-gap", cfg.MinGap, "how far the best match must lead the runner-up")
	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("target")

	return cmd
}
