package mapping

import (
	"time"

	"docmapper/internal/transform"
)

// Client owns an ordered rule set.
type Client struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// MappingRule copies one source value to one destination, through a transform.
type MappingRule struct {
	ID       string `json:"id"`
	ClientID string `json:"client_id,omitempty"`

	SourcePath      Path `json:"source_path"`
	DestinationPath Path `json:"destination_path"`

	TransformType transform.Kind `json:"transform_type"`
	// TransformLogic is the expression text; only read when TransformType is
	// transform.Expression.
	TransformLogic string `json:"transform_logic,omitempty"`

	// DefaultValue replaces a missing source value when set.
	DefaultValue *string `json:"default_value,omitempty"`
	Required     bool    `json:"required"`

	CreatedAt time.Time `json:"created_at"`
}

// HasDefault reports whether the rule carries a default value.
func (r *MappingRule) HasDefault() bool {
	return r.DefaultValue != nil
}

// Default returns a pointer to s, for building rules with a default value.
func Default(s string) *string {
	return &s
}
