package engine

import (
	"errors"
	"fmt"

	"docmapper/internal/diagnostic"
	"docmapper/internal/expr"
	"docmapper/internal/mapping"
	"docmapper/internal/transform"
)

// fieldCodes maps a rule field to the diagnostic code of its errors.
var fieldCodes = map[string]string{
	"source_path":      "invalid_source_path",
	"destination_path": "invalid_destination_path",
	"transform_type":   "unknown_transform",
	"transform_logic":  "missing_expression",
}

// Validate checks a rule set without running it.
//
// Errors: structural violations (the rules Transform would reject with
// ErrInvalidRuleSet) and expressions that do not parse. Warnings: duplicate
// rule IDs, destinations written by more than one rule, and required flags made
// moot by a default. Infos: transform logic on non-expression rules.
func Validate(rules []mapping.MappingRule) *diagnostic.Diagnostics {
	diags := &diagnostic.Diagnostics{}

	seenIDs := make(map[string]struct{}, len(rules))
	destinations := make(map[string]string, len(rules))

	for i := range rules {
		rule := &rules[i]
		id := ruleLabel(i, rule)

		validateStructure(diags, id, rule)
		validateExpression(diags, id, rule)

		if rule.ID != "" {
			if _, ok := seenIDs[rule.ID]; ok {
				diags.AddWarning("duplicate_rule_id",
					fmt.Sprintf("rule id %q is used more than once", rule.ID), id, "id")
			}

			seenIDs[rule.ID] = struct{}{}
		}

		if !rule.DestinationPath.IsEmpty() {
			dest := rule.DestinationPath.String()
			if prev, ok := destinations[dest]; ok {
				diags.AddWarning("duplicate_destination",
					fmt.Sprintf("destination %s is also written by rule %s; the later rule wins", dest, prev),
					id, "destination_path")
			}

			destinations[dest] = id
		}

		if rule.Required && rule.HasDefault() {
			diags.AddWarning("required_with_default",
				"required has no effect when a default is set", id, "required")
		}

		if rule.TransformType != transform.Expression && rule.TransformLogic != "" {
			diags.AddInfo("ignored_logic",
				fmt.Sprintf("transform logic is ignored for %s rules", rule.TransformType), id, "transform_logic")
		}
	}

	return diags
}

func validateStructure(diags *diagnostic.Diagnostics, id string, rule *mapping.MappingRule) {
	for _, fe := range mapping.FieldErrors(rule.Validate()) {
		code, ok := fieldCodes[fe.Field]
		if !ok {
			code = fe.Code
		}

		if fe.Field == "source_path" && fe.Code != mapping.CodeEmptySegment {
			code = "missing_source_path"
		}

		if fe.Field == "destination_path" && fe.Code != mapping.CodeEmptySegment {
			code = "missing_destination_path"
		}

		diags.AddError(code, fe.Message, id, fe.Field)
	}
}

func validateExpression(diags *diagnostic.Diagnostics, id string, rule *mapping.MappingRule) {
	if rule.TransformType != transform.Expression || rule.TransformLogic == "" {
		return
	}

	_, err := expr.Parse(rule.TransformLogic)
	if err == nil {
		return
	}

	var perr *expr.Error
	if errors.As(err, &perr) {
		diags.AddError("invalid_expression", perr.Msg, id, "transform_logic", perr.Suggestions...)
		return
	}

	diags.AddError("invalid_expression", err.Error(), id, "transform_logic")
}

func ruleLabel(i int, rule *mapping.MappingRule) string {
	if rule.ID != "" {
		return rule.ID
	}

	return fmt.Sprintf("#%d", i+1)
}
