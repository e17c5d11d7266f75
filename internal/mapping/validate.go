package mapping

import (
	"errors"
	"fmt"
	"slices"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"docmapper/internal/transform"
)

// Validation error codes attached to field errors.
const (
	CodeEmptySegment = "empty_segment"
	CodeInvalidKind  = "invalid_transform"
	CodeMissingLogic = "missing_expression"
	CodeInvalid      = "invalid"
)

var errEmptySegment = validation.NewError(CodeEmptySegment, "must not contain empty segments")

var errInvalidKind = validation.NewError(CodeInvalidKind, "must be a known transform type")

// Validate checks the structural invariants of a rule: non-empty paths
// without empty segments, a known transform type, and logic for expressions.
// The error is a validation.Errors keyed by JSON field name.
func (r MappingRule) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.SourcePath, validation.Required, validation.By(noEmptySegment)),
		validation.Field(&r.DestinationPath, validation.Required, validation.By(noEmptySegment)),
		validation.Field(&r.TransformType, validation.By(knownKind)),
		validation.Field(&r.TransformLogic,
			validation.When(r.TransformType == transform.Expression,
				validation.Required.ErrorObject(
					validation.NewError(CodeMissingLogic, "is required for expression rules"),
				),
			),
		),
	)
}

// Validate checks that the client has a usable name.
func (c Client) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required, validation.RuneLength(1, 200)),
	)
}

func noEmptySegment(value any) error {
	p, _ := value.(Path)
	if p.HasEmptySegment() {
		return errEmptySegment
	}

	return nil
}

func knownKind(value any) error {
	k, _ := value.(transform.Kind)
	if !k.IsValid() {
		return errInvalidKind
	}

	return nil
}

// FieldError is one failed field of a rule.
type FieldError struct {
	Field   string
	Code    string
	Message string
}

// FieldErrors flattens a Validate error into per-field errors ordered by
// field name. Errors that did not come from validation are returned as a
// single entry with an empty Field.
func FieldErrors(err error) []FieldError {
	if err == nil {
		return nil
	}

	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return []FieldError{{Message: err.Error()}}
	}

	keys := make([]string, 0, len(verrs))
	for k := range verrs {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	out := make([]FieldError, 0, len(keys))

	for _, k := range keys {
		fe := FieldError{Field: k, Code: CodeInvalid, Message: verrs[k].Error()}

		var verr validation.Error
		if errors.As(verrs[k], &verr) {
			fe.Code = verr.Code()
		}

		out = append(out, fe)
	}

	return out
}

// RuleError ties a validation failure to a rule.
type RuleError struct {
	Index  int
	RuleID string
	Err    error
}

func (e *RuleError) Error() string {
	if e.RuleID != "" {
		return fmt.Sprintf("rule %q: %v", e.RuleID, e.Err)
	}

	return fmt.Sprintf("rule #%d: %v", e.Index+1, e.Err)
}

func (e *RuleError) Unwrap() error {
	return e.Err
}

// ValidateRules validates every rule and joins the failures in order.
func ValidateRules(rules []MappingRule) error {
	var errs []error

	for i := range rules {
		if err := rules[i].Validate(); err != nil {
			errs = append(errs, &RuleError{Index: i, RuleID: rules[i].ID, Err: err})
		}
	}

	return errors.Join(errs...)
}
