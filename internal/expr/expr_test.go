package expr

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docmapper/internal/transform"
)

func fixedNow() time.Time {
	return time.Date(2024, 3, 9, 15, 4, 5, 0, time.UTC)
}

func TestEval(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		value    any
		expected any
	}{
		{"value", "value", "abc", "abc"},
		{"upper and suffix", "toUpper(value) + ' - OK'", "abc", "ABC - OK"},
		{"double quotes", `"x" + value`, "y", "xy"},
		{"escapes", `'it\'s' + "\t"`, nil, "it's\t"},
		{"number addition", "value + 2", float64(40), float64(42)},
		{"int value addition", "value + 0.5", 2, 2.5},
		{"text wins", "value + 1", "n", "n1"},
		{"number then text", "1 + 2 + 'x'", nil, "3x"},
		{"text then numbers", "'x' + 1 + 2", nil, "x12"},
		{"parentheses", "'x' + (1 + 2)", nil, "x3"},
		{"negation", "-value", float64(3), float64(-3)},
		{"double negation", "--value", float64(3), float64(3)},
		{"null concatenation", "'a' + value", nil, "anull"},
		{"bool literal", "true", nil, true},
		{"null literal", "null", "x", nil},
		{"exponent", "1e3", nil, float64(1000)},
		{"lower", "toLower(value)", "MiXed", "mixed"},
		{"trim", "trim(value)", "  a b  ", "a b"},
		{"capitalize", "capitalize(value)", "jOHN", "John"},
		{"toString", "toString(value)", float64(12), "12"},
		{"formatDate", "formatDate(value)", "2024-01-05T10:00:00Z", "2024-01-05"},
		{"concat", "concat(value, '-', 7, true)", "a", "a-7true"},
		{"concat none", "concat()", nil, ""},
		{"coalesce", "coalesce(value, 'fallback')", nil, "fallback"},
		{"coalesce present", "coalesce(value, 'fallback')", "v", "v"},
		{"coalesce all null", "coalesce(null, value)", nil, nil},
		{"current date", "'on ' + getCurrentDate()", nil, "on 2024-03-09"},
		{"nested calls", "toUpper(trim(concat(value, ' ')))", "ok", "OK"},
		{"unicode identifier chars in string", "'héllo' + value", "!", "héllo!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Parse(tt.src)
			require.NoError(t, err)

			got, err := p.Eval(Env{Value: tt.value, Now: fixedNow})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		message string
	}{
		{"empty", "", "unexpected end of expression"},
		{"unknown identifier", "valeu", `unknown identifier "valeu"`},
		{"unknown function", "toUpperCase(value)", `unknown function "toUpperCase"`},
		{"unterminated string", "'abc", "unterminated string literal"},
		{"bad escape", `'\q'`, `invalid escape`},
		{"bad number", "1.2.3", `invalid number "1.2.3"`},
		{"dangling plus", "value +", "unexpected end of expression"},
		{"missing paren", "(value", `expected ")"`},
		{"trailing tokens", "value value", "expected end of expression"},
		{"bad character", "value * 2", `unexpected character '*'`},
		{"arity", "toUpper()", "toUpper: expects 1 arguments, got 0"},
		{"arity variadic", "coalesce()", "coalesce: expects at least 1 arguments, got 0"},
		{"arity none", "getCurrentDate(1)", "getCurrentDate: expects 0 arguments, got 1"},
		{"trailing comma", "concat(value,)", "unexpected"},
		{"assignment", "value = 1", "unexpected character '='"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src)
			require.Error(t, err)
			require.ErrorIs(t, err, ErrExpression)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestParse_Suggestions(t *testing.T) {
	_, err := Parse("toUppr(value)")

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, []string{"toUpper"}, perr.Suggestions)
	assert.Contains(t, err.Error(), `did you mean "toUpper"`)

	_, err = Parse("vlue")
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, []string{"value"}, perr.Suggestions)
	assert.Equal(t, 0, perr.Pos)
}

func TestParse_DepthLimit(t *testing.T) {
	deep := strings.Repeat("(", MaxDepth+1) + "value" + strings.Repeat(")", MaxDepth+1)
	_, err := Parse(deep)
	require.ErrorIs(t, err, ErrExpression)
	assert.Contains(t, err.Error(), "nested deeper")

	ok := strings.Repeat("(", MaxDepth) + "value" + strings.Repeat(")", MaxDepth)
	_, err = Parse(ok)
	require.NoError(t, err)

	_, err = Parse(strings.Repeat("-", 10_000) + "1")
	require.ErrorIs(t, err, ErrExpression)

	_, err = Parse(strings.Repeat("toUpper(", 100) + "value" + strings.Repeat(")", 100))
	require.ErrorIs(t, err, ErrExpression)
}

func TestEval_RuntimeErrors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		value any
		is    error
	}{
		{"upper of number", "toUpper(value)", float64(42), transform.ErrTypeMismatch},
		{"trim of bool", "trim(value)", true, transform.ErrTypeMismatch},
		{"bad date", "formatDate(value)", "not-a-date", transform.ErrInvalidFormat},
		{"add bool", "value + 1", true, transform.ErrTypeMismatch},
		{"add null and number", "null + 1", nil, transform.ErrTypeMismatch},
		{"negate text", "-value", "x", transform.ErrTypeMismatch},
		{"no clock", "getCurrentDate()", nil, ErrNoClock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Parse(tt.src)
			require.NoError(t, err)

			env := Env{Value: tt.value}
			if !errors.Is(tt.is, ErrNoClock) {
				env.Now = fixedNow
			}

			_, err = p.Eval(env)
			require.ErrorIs(t, err, ErrExpression)
			require.ErrorIs(t, err, tt.is)
		})
	}
}

func TestProgram_Reusable(t *testing.T) {
	p, err := Parse("concat(value, '!')")
	require.NoError(t, err)
	assert.Equal(t, "concat(value, '!')", p.String())

	for _, in := range []string{"a", "b", "c"} {
		got, err := p.Eval(Env{Value: in})
		require.NoError(t, err)
		assert.Equal(t, in+"!", got)
	}
}

func TestBuiltins(t *testing.T) {
	assert.Equal(t, []string{
		"capitalize", "coalesce", "concat", "formatDate", "getCurrentDate",
		"toLower", "toString", "toUpper", "trim",
	}, Builtins())
}
