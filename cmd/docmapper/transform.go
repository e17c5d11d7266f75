package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"docmapper/internal/describe"
	"docmapper/internal/engine"
	"docmapper/internal/mapping"
)

type transformOptions struct {
	rulesFile string
	clientID  string
	input     string
	items     string
	into      string
	each      bool
	strict    bool
	check     bool
	dump      bool
}

func newTransformCmd(a *app) *cobra.Command {
	opts := &transformOptions{}

	cmd := &cobra.Command{
		Use:   "transform",
		Short: "Apply a rule set to a JSON document",
		Long: `Reads a JSON document (from --input or stdin), applies the rules of a rule
file or of a stored client and prints {"output": ..., "outcomes": [...]}.

With --items and --into the rules are applied to every element of the list at
--items and the outputs are written as a list at --into. With --each the input
must be a JSON array and every element is transformed independently.`,
		Example: `  docmapper transform --rules rules.yaml --input order.json
  docmapper transform --client 6f1c... --items applicantDetails --into applicants < app.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runTransform(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.rulesFile, "rules", "", "YAML rule file")
	f.StringVar(&opts.clientID, "client", "", "stored client whose rules to apply")
	f.StringVarP(&opts.input, "input", "i", "-", "input JSON file, - for stdin")
	f.StringVar(&opts.items, "items", "", "dotted path of a list whose elements are transformed one by one")
	f.StringVar(&opts.into, "into", "", "dotted destination of the transformed list (with --items)")
	f.BoolVar(&opts.each, "each", false, "treat the input as an array of independent documents")
	f.BoolVar(&opts.strict, "strict", false, "exit non-zero when any rule fails")
	f.BoolVar(&opts.check, "check", false, "check the output against the schema the rules describe")
	f.BoolVar(&opts.dump, "dump", false, "dump the result structure to stderr")

	cmd.MarkFlagsMutuallyExclusive("rules", "client")
	cmd.MarkFlagsOneRequired("rules", "client")
	cmd.MarkFlagsRequiredTogether("items", "into")
	cmd.MarkFlagsMutuallyExclusive("each", "items")

	return cmd
}

func (a *app) runTransform(cmd *cobra.Command, opts *transformOptions) error {
	ctx := cmd.Context()

	rules, err := a.loadRules(cmd, opts.rulesFile, opts.clientID)
	if err != nil {
		return err
	}

	input, err := readJSON(cmd.InOrStdin(), opts.input)
	if err != nil {
		return err
	}

	eng, err := a.engine()
	if err != nil {
		return err
	}

	var (
		result  any
		outputs []map[string]any
		failErr error
	)

	switch {
	case opts.items != "":
		c, err := parseCollection(opts.items, opts.into)
		if err != nil {
			return err
		}

		res, err := eng.TransformCollection(ctx, input, rules, c)
		if err != nil {
			return err
		}

		result, outputs, failErr = res, []map[string]any{res.Output}, res.Err()
	case opts.each:
		docs, ok := input.([]any)
		if !ok {
			return fmt.Errorf("--each needs a JSON array input")
		}

		results, err := eng.TransformEach(ctx, docs, rules)
		if err != nil {
			return err
		}

		errs := make([]error, 0, len(results))
		for i, res := range results {
			outputs = append(outputs, res.Output)

			if err := res.Err(); err != nil {
				errs = append(errs, fmt.Errorf("document %d: %w", i, err))
			}
		}

		result, failErr = map[string]any{"results": results}, errors.Join(errs...)
	default:
		res, err := eng.Transform(input, rules)
		if err != nil {
			return err
		}

		result, outputs, failErr = res, []map[string]any{res.Output}, res.Err()
	}

	if opts.dump {
		spew.Fdump(cmd.ErrOrStderr(), result)
	}

	if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
		return err
	}

	if opts.check && !opts.each && opts.items == "" {
		schema := describe.Schema(rules)
		for _, out := range outputs {
			if err := describe.Check(schema, out); err != nil {
				return err
			}
		}
	}

	if failErr != nil {
		a.logger.Info("rules failed", zap.Error(failErr))

		if opts.strict {
			return failErr
		}
	}

	return nil
}

// loadRules reads rules from a file or from the configured store.
func (a *app) loadRules(cmd *cobra.Command, file, clientID string) ([]mapping.MappingRule, error) {
	if file != "" {
		rf, err := mapping.LoadFile(file)
		if err != nil {
			return nil, err
		}

		return rf.MappingRules(), nil
	}

	s, err := a.openStore(cmd.Context())
	if err != nil {
		return nil, err
	}
	defer s.Close()

	return s.ListRules(cmd.Context(), clientID)
}

func parseCollection(items, into string) (engine.Collection, error) {
	itemsPath, err := mapping.ParsePath(items)
	if err != nil {
		return engine.Collection{}, fmt.Errorf("--items: %w", err)
	}

	intoPath, err := mapping.ParsePath(into)
	if err != nil {
		return engine.Collection{}, fmt.Errorf("--into: %w", err)
	}

	return engine.Collection{Items: itemsPath, Into: intoPath}, nil
}

var errTrailingData = errors.New("input JSON has data after the first value")

// readJSON decodes exactly one JSON value, keeping numbers as json.Number.
func readJSON(stdin io.Reader, name string) (any, error) {
	r := stdin

	if name != "-" && name != "" {
		f, err := os.Open(name)
		if err != nil {
			return nil, fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()

		r = f
	}

	dec := json.NewDecoder(r)
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode input JSON: %w", err)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, errTrailingData
	}

	return doc, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}
