package engine

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"docmapper/internal/docpath"
	"docmapper/internal/expr"
	"docmapper/internal/mapping"
	"docmapper/internal/transform"
)

// Transform applies rules to input in declared order.
//
// The returned error is reserved for rule sets that break a structural
// invariant (ErrInvalidRuleSet); failures of individual rules are reported in
// Result.Outcomes while the remaining rules still run.
func (e *Engine) Transform(input any, rules []mapping.MappingRule) (*Result, error) {
	p, err := compile(rules)
	if err != nil {
		return nil, err
	}

	return e.run(p, input)
}

func (e *Engine) run(p *plan, input any) (*Result, error) {
	res := &Result{
		Output:   make(map[string]any),
		Outcomes: make([]Outcome, 0, len(p.steps)),
	}

	for i := range p.steps {
		out, err := e.apply(&p.steps[i], input, res.Output)
		if err != nil {
			return nil, err
		}

		e.logger.Debug("rule evaluated",
			zap.String("rule_id", out.RuleID),
			zap.String("status", string(out.Status)),
			zap.String("reason", string(out.Reason)),
		)

		res.Outcomes = append(res.Outcomes, out)
	}

	nApplied, nSkipped, nFailed := res.Counts()
	e.logger.Debug("rules applied",
		zap.Int("applied", nApplied),
		zap.Int("skipped", nSkipped),
		zap.Int("failed", nFailed),
	)

	return res, nil
}

func (e *Engine) apply(s *step, input any, output map[string]any) (Outcome, error) {
	rule := &s.rule

	value, found := docpath.Get(input, rule.SourcePath)
	if !found {
		switch {
		case rule.HasDefault():
			value = *rule.DefaultValue
		case rule.Required:
			return failed(rule.ID, ReasonMissingRequired,
				fmt.Sprintf("source %s not found and no default is set", rule.SourcePath)), nil
		default:
			return skipped(rule.ID, ReasonMissingOptional,
				fmt.Sprintf("source %s not found", rule.SourcePath)), nil
		}
	}

	result, err := e.evaluate(s, value)
	if err != nil {
		return failed(rule.ID, classify(rule.TransformType, err), err.Error()), nil
	}

	if err := docpath.Set(output, rule.DestinationPath, docpath.Clone(result)); err != nil {
		return Outcome{}, fmt.Errorf("rule %q: %w", rule.ID, err)
	}

	return applied(rule.ID), nil
}

func (e *Engine) evaluate(s *step, value any) (any, error) {
	if s.rule.TransformType != transform.Expression {
		return transform.Apply(s.rule.TransformType, value)
	}

	if s.parseErr != nil {
		return nil, s.parseErr
	}

	return s.program.Eval(expr.Env{Value: value, Now: e.now})
}

func classify(kind transform.Kind, err error) Reason {
	switch {
	case kind == transform.Expression, errors.Is(err, expr.ErrExpression):
		return ReasonExpressionError
	case errors.Is(err, transform.ErrInvalidFormat):
		return ReasonInvalidFormat
	default:
		return ReasonTypeMismatch
	}
}
