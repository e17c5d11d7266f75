package expr

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"docmapper/internal/transform"
)

// ErrNoClock is returned by getCurrentDate when the environment has no clock.
var ErrNoClock = errors.New("no clock configured")

type builtin struct {
	name    string
	minArgs int
	maxArgs int // -1 for variadic
	call    func(env Env, args []any) (any, error)
}

func (b *builtin) checkArity(n int) error {
	switch {
	case b.maxArgs < 0 && n < b.minArgs:
		return fmt.Errorf("expects at least %d arguments, got %d", b.minArgs, n)
	case b.maxArgs >= 0 && b.minArgs == b.maxArgs && n != b.minArgs:
		return fmt.Errorf("expects %d arguments, got %d", b.minArgs, n)
	case b.maxArgs >= 0 && (n < b.minArgs || n > b.maxArgs):
		return fmt.Errorf("expects %d to %d arguments, got %d", b.minArgs, b.maxArgs, n)
	default:
		return nil
	}
}

var builtins = map[string]*builtin{}

func init() {
	for _, b := range []*builtin{
		unary("toUpper", catalog(transform.ToUpperCase)),
		unary("toLower", catalog(transform.ToLowerCase)),
		unary("capitalize", catalog(transform.Capitalize)),
		unary("formatDate", catalog(transform.FormatDate)),
		unary("toString", catalog(transform.ToString)),
		unary("trim", trim),
		{name: "concat", minArgs: 0, maxArgs: -1, call: concat},
		{name: "coalesce", minArgs: 1, maxArgs: -1, call: coalesce},
		{name: "getCurrentDate", call: currentDate},
	} {
		builtins[b.name] = b
	}
}

// Builtins returns the names of the callable functions, sorted.
func Builtins() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

func unary(name string, fn func(any) (any, error)) *builtin {
	return &builtin{
		name:    name,
		minArgs: 1,
		maxArgs: 1,
		call: func(_ Env, args []any) (any, error) {
			return fn(args[0])
		},
	}
}

func catalog(kind transform.Kind) func(any) (any, error) {
	return func(v any) (any, error) {
		return transform.Apply(kind, v)
	}
}

func trim(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("%w: got %s", transform.ErrTypeMismatch, typeName(v))
	}

	return strings.TrimSpace(s), nil
}

func concat(_ Env, args []any) (any, error) {
	var sb strings.Builder
	for _, a := range args {
		sb.WriteString(transform.Text(a))
	}

	return sb.String(), nil
}

func coalesce(_ Env, args []any) (any, error) {
	for _, a := range args {
		if a != nil {
			return a, nil
		}
	}

	return nil, nil
}

func currentDate(env Env, _ []any) (any, error) {
	if env.Now == nil {
		return nil, ErrNoClock
	}

	return env.Now().Format(transform.DateLayout), nil
}
