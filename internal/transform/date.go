package transform

import (
	"strings"
	"time"
)

// DateLayout is the canonical output of formatDate.
const DateLayout = "2006-01-02"

// dateLayouts are tried in order. ISO-8601 forms first, then the legacy
// day-month-year layouts rule authors already use.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	DateLayout,
	"20060102",
	"02-January-2006",
	"02-Jan-2006",
	"02/January/2006",
	"02-January-06",
}

// ParseDate parses s with the accepted layouts.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)

	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// formatDate renders the calendar date of value in its own offset.
func formatDate(value any) (any, error) {
	switch v := value.(type) {
	case time.Time:
		return v.Format(DateLayout), nil
	case string:
		t, ok := ParseDate(v)
		if !ok {
			return nil, fail(FormatDate, value, ErrInvalidFormat)
		}

		return t.Format(DateLayout), nil
	default:
		return nil, fail(FormatDate, value, ErrTypeMismatch)
	}
}
