package suggest

import (
	"encoding/json"
	"maps"
	"slices"
	"time"

	"docmapper/internal/mapping"
)

// ValueKind classifies a leaf value of a sample document.
type ValueKind string

const (
	KindString ValueKind = "string"
	KindNumber ValueKind = "number"
	KindBool   ValueKind = "bool"
	KindNull   ValueKind = "null"
	KindList   ValueKind = "list"
	KindObject ValueKind = "object"
)

// Field is one leaf of a sample document.
type Field struct {
	Path   mapping.Path
	Kind   ValueKind
	Sample any
}

// Leaf returns the last path segment.
func (f Field) Leaf() string {
	return f.Path.Leaf()
}

// Fields walks doc depth-first in key order and returns its leaves. Lists and
// empty objects are leaves; non-empty objects are descended into.
func Fields(doc any) []Field {
	var fields []Field

	walk(nil, doc, &fields)

	return fields
}

func walk(prefix mapping.Path, v any, out *[]Field) {
	obj, ok := v.(map[string]any)
	if !ok || len(obj) == 0 {
		if len(prefix) > 0 {
			*out = append(*out, Field{Path: prefix, Kind: kindOf(v), Sample: v})
		}

		return
	}

	for _, key := range slices.Sorted(maps.Keys(obj)) {
		walk(append(slices.Clone(prefix), key), obj[key], out)
	}
}

func kindOf(v any) ValueKind {
	switch v.(type) {
	case nil:
		return KindNull
	case string, time.Time:
		return KindString
	case float64, float32, int, int64, int32, json.Number:
		return KindNumber
	case bool:
		return KindBool
	case []any:
		return KindList
	default:
		return KindObject
	}
}
