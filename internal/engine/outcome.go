package engine

import (
	"errors"
	"fmt"

	"docmapper/internal/diagnostic"
	"docmapper/internal/expr"
	"docmapper/internal/transform"
)

// Status is the result of one rule.
type Status string

const (
	StatusApplied Status = "applied"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Reason explains a skipped or failed rule.
type Reason string

const (
	ReasonNone            Reason = ""
	ReasonMissingRequired Reason = "missing_required"
	ReasonMissingOptional Reason = "missing_optional"
	ReasonTypeMismatch    Reason = "type_mismatch"
	ReasonInvalidFormat   Reason = "invalid_format"
	ReasonExpressionError Reason = "expression_error"
)

// ErrMissingRequired is the cause of a missing_required failure.
var ErrMissingRequired = errors.New("required source value is missing")

// Err returns the sentinel error a failure with this reason wraps.
func (r Reason) Err() error {
	switch r {
	case ReasonMissingRequired:
		return ErrMissingRequired
	case ReasonTypeMismatch:
		return transform.ErrTypeMismatch
	case ReasonInvalidFormat:
		return transform.ErrInvalidFormat
	case ReasonExpressionError:
		return expr.ErrExpression
	default:
		return nil
	}
}

// Outcome records what happened to one rule.
type Outcome struct {
	RuleID  string `json:"rule_id"`
	Status  Status `json:"status"`
	Reason  Reason `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
}

// Result is the output document and one outcome per rule, in rule order.
type Result struct {
	Output   map[string]any `json:"output"`
	Outcomes []Outcome      `json:"outcomes"`
}

// Counts returns the number of applied, skipped and failed rules.
func (r *Result) Counts() (applied, skipped, failed int) {
	for _, o := range r.Outcomes {
		switch o.Status {
		case StatusApplied:
			applied++
		case StatusSkipped:
			skipped++
		case StatusFailed:
			failed++
		}
	}

	return applied, skipped, failed
}

// Failed returns the outcomes of failed rules.
func (r *Result) Failed() []Outcome {
	var failed []Outcome

	for _, o := range r.Outcomes {
		if o.Status == StatusFailed {
			failed = append(failed, o)
		}
	}

	return failed
}

// RuleError is a failed rule seen as an error.
type RuleError struct {
	RuleID  string
	Reason  Reason
	Message string
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("rule %q: %s: %s", e.RuleID, e.Reason, e.Message)
}

func (e *RuleError) Unwrap() error {
	return e.Reason.Err()
}

// Err joins the failed rules into one error, or returns nil when none failed.
// Callers that treat any failing rule as a failed request use it instead of
// walking Outcomes.
func (r *Result) Err() error {
	var errs []error

	for _, o := range r.Failed() {
		errs = append(errs, &RuleError{RuleID: o.RuleID, Reason: o.Reason, Message: o.Message})
	}

	return errors.Join(errs...)
}

// Diagnostics reports failed rules as errors and skipped rules as infos.
func (r *Result) Diagnostics() *diagnostic.Diagnostics {
	diags := &diagnostic.Diagnostics{}

	for _, o := range r.Outcomes {
		switch o.Status {
		case StatusFailed:
			diags.AddError(string(o.Reason), o.Message, o.RuleID, "")
		case StatusSkipped:
			diags.AddInfo(string(o.Reason), o.Message, o.RuleID, "")
		}
	}

	return diags
}

func applied(id string) Outcome {
	return Outcome{RuleID: id, Status: StatusApplied}
}

func skipped(id string, reason Reason, msg string) Outcome {
	return Outcome{RuleID: id, Status: StatusSkipped, Reason: reason, Message: msg}
}

func failed(id string, reason Reason, msg string) Outcome {
	return Outcome{RuleID: id, Status: StatusFailed, Reason: reason, Message: msg}
}
