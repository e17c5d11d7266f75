package docpath

import (
	"errors"
	"strconv"

	"github.com/asaskevich/govalidator"
)

// ErrEmptyPath is returned by Set when the path has no segments.
var ErrEmptyPath = errors.New("docpath: empty path")

// Get resolves path inside document.
// It returns the value and true when every segment resolves, or nil and false
// as soon as one segment is missing or addresses a non-container.
// An empty path resolves to the document itself.
func Get(document any, path []string) (any, bool) {
	current := document

	for _, segment := range path {
		next, ok := step(current, segment)
		if !ok {
			return nil, false
		}

		current = next
	}

	return current, true
}

// Set assigns value at path inside document, creating a map for every missing
// intermediate segment. An intermediate holding a scalar is replaced by a map.
// An existing list is indexed when the segment is an in-range index and
// replaced by a map otherwise; lists are never created.
func Set(document map[string]any, path []string, value any) error {
	if len(path) == 0 {
		return ErrEmptyPath
	}

	var container any = document

	for i, segment := range path {
		last := i == len(path)-1

		switch c := container.(type) {
		case map[string]any:
			if last {
				c[segment] = value
				return nil
			}

			container = descend(c, segment, path[i+1])
		case []any:
			// Only reachable for in-range indexes, see descend.
			idx, _ := index(segment)
			if last {
				c[idx] = value
				return nil
			}

			container = descendList(c, idx, path[i+1])
		}
	}

	return nil
}

// descend returns the container stored under key in m, replacing it with a
// fresh map when it cannot hold the next segment.
func descend(m map[string]any, key, next string) any {
	switch child := m[key].(type) {
	case map[string]any:
		return child
	case []any:
		if idx, ok := index(next); ok && idx < len(child) {
			return child
		}
	}

	fresh := make(map[string]any)
	m[key] = fresh

	return fresh
}

func descendList(l []any, idx int, next string) any {
	switch child := l[idx].(type) {
	case map[string]any:
		return child
	case []any:
		if i, ok := index(next); ok && i < len(child) {
			return child
		}
	}

	fresh := make(map[string]any)
	l[idx] = fresh

	return fresh
}

func step(container any, segment string) (any, bool) {
	switch c := container.(type) {
	case map[string]any:
		v, ok := c[segment]
		return v, ok
	case []any:
		idx, ok := index(segment)
		if !ok || idx >= len(c) {
			return nil, false
		}

		return c[idx], true
	default:
		return nil, false
	}
}

// index parses a list index segment. Signs, spaces and empty strings are rejected.
func index(segment string) (int, bool) {
	if segment == "" || !govalidator.IsNumeric(segment) {
		return 0, false
	}

	idx, err := strconv.Atoi(segment)
	if err != nil {
		return 0, false
	}

	return idx, true
}

// Clone returns a deep copy of v. Maps and lists are copied recursively,
// scalars are returned as is.
func Clone(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			out[k] = Clone(child)
		}

		return out
	case []any:
		out := make([]any, len(t))
		for i, child := range t {
			out[i] = Clone(child)
		}

		return out
	default:
		return v
	}
}
