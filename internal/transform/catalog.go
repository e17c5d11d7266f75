package transform

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Apply runs the catalog transform kind on value.
// Expression and invalid kinds return ErrNotCatalog.
func Apply(kind Kind, value any) (any, error) {
	switch kind {
	case Copy:
		return value, nil
	case ToString:
		return Text(value), nil
	case ToBool:
		return Truthy(value), nil
	case ToUpperCase:
		return foldText(kind, value, strings.ToUpper)
	case ToLowerCase:
		return foldText(kind, value, strings.ToLower)
	case Capitalize:
		return foldText(kind, value, capitalize)
	case FormatDate:
		return formatDate(value)
	case MapGender:
		return mapGender(value), nil
	case Expression:
		return nil, fmt.Errorf("%s: %w", kind, ErrNotCatalog)
	default:
		return nil, fmt.Errorf("%s: %w", kind, ErrNotCatalog)
	}
}

// Text renders value the way toString does: strings unchanged, numbers in
// shortest decimal form, booleans and null as JSON literals, containers as
// canonical JSON with sorted keys.
func Text(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case map[string]any, []any:
		var b strings.Builder

		enc := json.NewEncoder(&b)
		enc.SetEscapeHTML(false)

		if err := enc.Encode(v); err != nil {
			return fmt.Sprint(v)
		}

		return strings.TrimSuffix(b.String(), "\n")
	}

	if _, ok := number(value); ok {
		return formatNumber(value)
	}

	return fmt.Sprint(value)
}

// Truthy reports the boolean reading of value: false for false, null, numeric
// zero and the empty string, true for everything else.
func Truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	}

	if f, ok := number(value); ok {
		return f != 0 && !math.IsNaN(f)
	}

	return true
}

func foldText(kind Kind, value any, fn func(string) string) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, fail(kind, value, ErrTypeMismatch)
	}

	return fn(s), nil
}

func capitalize(s string) string {
	first, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}

	return string(unicode.ToUpper(first)) + strings.ToLower(s[size:])
}

var genderTokens = map[string]string{
	"male":   "M",
	"m":      "M",
	"man":    "M",
	"female": "F",
	"f":      "F",
	"woman":  "F",
}

// mapGender normalizes free-text gender tokens; unknown tokens and non-text
// values pass through unchanged.
func mapGender(value any) any {
	s, ok := value.(string)
	if !ok {
		return value
	}

	if code, ok := genderTokens[strings.ToLower(strings.TrimSpace(s))]; ok {
		return code
	}

	return value
}

// number widens the numeric types a decoded document can hold.
func number(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// Number reports the float64 value of any numeric document value.
func Number(value any) (float64, bool) {
	return number(value)
}

func formatNumber(value any) string {
	switch v := value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(v)
	case json.Number:
		return v.String()
	}

	f, _ := number(value)
	if math.IsInf(f, 0) || math.IsNaN(f) || math.Abs(f) >= 1e21 {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}

	return strconv.FormatFloat(f, 'f', -1, 64)
}
