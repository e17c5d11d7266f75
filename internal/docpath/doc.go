// Package docpath reads and writes values inside decoded JSON documents.
//
// A document is any tree built from map[string]any, []any and scalars, as
// produced by encoding/json or yaml.v3. Paths are ordered segment lists; a
// segment addresses a key in a map or, when it is a non-negative decimal
// integer, an element of a list.
//
// Absence is a normal outcome: Get reports it through its boolean result and
// never panics. Set creates missing intermediate containers, always as maps.
package docpath
