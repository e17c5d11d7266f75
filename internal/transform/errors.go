package transform

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrTypeMismatch is returned when a transform receives a value of the wrong kind.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrInvalidFormat is returned when text cannot be parsed in the expected format.
	ErrInvalidFormat = errors.New("invalid format")
	// ErrNotCatalog is returned by Apply for kinds it does not evaluate.
	ErrNotCatalog = errors.New("not a catalog transform")
)

// Error describes a failed transform.
type Error struct {
	Kind  Kind
	Value any
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v (got %s)", e.Kind, e.Err, describe(e.Value))
}

func (e *Error) Unwrap() error {
	return e.Err
}

func fail(kind Kind, value any, err error) *Error {
	return &Error{Kind: kind, Value: value, Err: err}
}

// UnknownKindError is returned by ParseKind.
type UnknownKindError struct {
	Name        string
	Suggestions []string
}

func (e *UnknownKindError) Error() string {
	msg := fmt.Sprintf("unknown transform type %q", e.Name)
	if len(e.Suggestions) > 0 {
		quoted := make([]string, len(e.Suggestions))
		for i, s := range e.Suggestions {
			quoted[i] = strconv.Quote(s)
		}

		msg += ", did you mean " + strings.Join(quoted, " or ") + "?"
	}

	return msg
}

// describe names the JSON kind of v for error messages.
func describe(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("string %q", t)
	case bool:
		return "boolean"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	default:
		if _, ok := number(v); ok {
			return "number " + formatNumber(v)
		}

		return fmt.Sprintf("%T", v)
	}
}
