package expr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrExpression matches every error returned by this package.
var ErrExpression = errors.New("expression error")

// Error reports a parse or evaluation failure at byte offset Pos of the source.
type Error struct {
	Pos         int
	Msg         string
	Suggestions []string
	Err         error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("expression: %s at offset %d", e.Msg, e.Pos)
	if len(e.Suggestions) > 0 {
		quoted := make([]string, len(e.Suggestions))
		for i, s := range e.Suggestions {
			quoted[i] = strconv.Quote(s)
		}

		msg += " (did you mean " + strings.Join(quoted, " or ") + "?)"
	}

	return msg
}

func (e *Error) Is(target error) bool {
	return target == ErrExpression
}

func (e *Error) Unwrap() error {
	return e.Err
}

func errorf(pos int, format string, args ...any) *Error {
	return &Error{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}
