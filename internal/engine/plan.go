package engine

import (
	"fmt"

	"docmapper/internal/expr"
	"docmapper/internal/mapping"
	"docmapper/internal/transform"
)

// step is a rule ready to run. Expressions are parsed once per plan; a parse
// failure is kept and reported as the rule's outcome.
type step struct {
	rule     mapping.MappingRule
	program  *expr.Program
	parseErr error
}

// plan is a validated, compiled rule set. It is read-only once built.
type plan struct {
	steps []step
}

func compile(rules []mapping.MappingRule) (*plan, error) {
	if err := mapping.ValidateRules(rules); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRuleSet, err)
	}

	p := &plan{steps: make([]step, len(rules))}

	for i, rule := range rules {
		p.steps[i] = step{rule: rule}

		if rule.TransformType == transform.Expression {
			p.steps[i].program, p.steps[i].parseErr = expr.Parse(rule.TransformLogic)
		}
	}

	return p, nil
}
