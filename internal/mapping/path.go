package mapping

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"docmapper/internal/common"
)

// ErrEmptyPath is returned when a path has no non-empty segment.
var ErrEmptyPath = errors.New("empty path")

// Path is an ordered list of keys addressing a value inside a document.
type Path []string

// ParsePath splits dotted notation into a Path.
// "user.profile.name" becomes [user profile name]; empty segments are dropped.
func ParsePath(s string) (Path, error) {
	var segments Path

	for part := range strings.SplitSeq(strings.TrimSpace(s), ".") {
		if part != "" {
			segments = append(segments, part)
		}
	}

	if common.IsEmpty(segments) {
		return nil, fmt.Errorf("path %q: %w", s, ErrEmptyPath)
	}

	return segments, nil
}

// MustParsePath is like ParsePath but panics on error.
// It is intended for tests and static tables.
func MustParsePath(s string) Path {
	p, err := ParsePath(s)
	if err != nil {
		panic(err)
	}

	return p
}

func (p Path) String() string {
	return strings.Join(p, ".")
}

// IsEmpty reports whether p has no segments.
func (p Path) IsEmpty() bool {
	return common.IsEmpty(p)
}

// HasEmptySegment reports whether any segment of p is the empty string.
func (p Path) HasEmptySegment() bool {
	return slices.Contains(p, "")
}

// Equal reports whether p and other address the same location.
func (p Path) Equal(other Path) bool {
	return slices.Equal(p, other)
}

// Leaf returns the last segment, or "" for an empty path.
func (p Path) Leaf() string {
	if common.IsEmpty(p) {
		return ""
	}

	return p[len(p)-1]
}

// dotted reports whether p can be written as a dotted string without loss.
func (p Path) dotted() bool {
	for _, s := range p {
		if s == "" || strings.Contains(s, ".") || s != strings.TrimSpace(s) {
			return false
		}
	}

	return true
}

// UnmarshalYAML accepts a dotted string or a list of segments.
func (p *Path) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}

		parsed, err := ParsePath(s)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}

		*p = parsed

		return nil
	case yaml.SequenceNode:
		var segments []string
		if err := node.Decode(&segments); err != nil {
			return err
		}

		*p = segments

		return nil
	default:
		return fmt.Errorf("line %d: expected string or list of segments for path", node.Line)
	}
}

// MarshalYAML writes the dotted form when it round-trips, a list otherwise.
func (p Path) MarshalYAML() (any, error) {
	if p.dotted() && len(p) > 0 {
		return p.String(), nil
	}

	return []string(p), nil
}

// UnmarshalJSON accepts a dotted string or an array of segments.
func (p *Path) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := ParsePath(s)
		if err != nil {
			return err
		}

		*p = parsed

		return nil
	}

	var segments []string
	if err := json.Unmarshal(data, &segments); err != nil {
		return fmt.Errorf("path: expected string or array of strings: %w", err)
	}

	*p = segments

	return nil
}
