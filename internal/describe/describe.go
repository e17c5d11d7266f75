// Package describe derives an OpenAPI 3 schema for the output document a rule
// set produces.
package describe

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/getkin/kin-openapi/openapi3"

	"docmapper/internal/mapping"
	"docmapper/internal/transform"
)

// Schema returns the object schema of the documents rules write.
//
// Destination paths become nested object properties. A leaf is typed by its
// transform and listed as required in its parent when the rule is required or
// has a default, since such a rule either writes the leaf or fails. Rules are
// applied in order, so a later rule on the same destination replaces an earlier
// one.
func Schema(rules []mapping.MappingRule) *openapi3.Schema {
	root := openapi3.NewObjectSchema()

	for i := range rules {
		addRule(root, &rules[i])
	}

	return root
}

func addRule(root *openapi3.Schema, rule *mapping.MappingRule) {
	path := rule.DestinationPath
	if path.IsEmpty() {
		return
	}

	parent := root
	for _, segment := range path[:len(path)-1] {
		parent = child(parent, segment)
	}

	leaf := path.Leaf()
	parent.Properties[leaf] = openapi3.NewSchemaRef("", leafSchema(rule))

	if rule.Required || rule.HasDefault() {
		if !slices.Contains(parent.Required, leaf) {
			parent.Required = append(parent.Required, leaf)
		}
	} else {
		parent.Required = slices.DeleteFunc(parent.Required, func(s string) bool { return s == leaf })
	}
}

// child returns the object schema under name, replacing a non-object
// property the way a write replaces a scalar intermediate.
func child(parent *openapi3.Schema, name string) *openapi3.Schema {
	if ref, ok := parent.Properties[name]; ok && ref.Value != nil && ref.Value.Type.Is(openapi3.TypeObject) {
		return ref.Value
	}

	obj := openapi3.NewObjectSchema()
	parent.Properties[name] = openapi3.NewSchemaRef("", obj)
	parent.Required = slices.DeleteFunc(parent.Required, func(s string) bool { return s == name })

	return obj
}

func leafSchema(rule *mapping.MappingRule) *openapi3.Schema {
	var s *openapi3.Schema

	switch rule.TransformType {
	case transform.ToBool:
		s = openapi3.NewBoolSchema()
	case transform.FormatDate:
		s = openapi3.NewStringSchema().WithFormat("date")
	case transform.ToString, transform.ToUpperCase, transform.ToLowerCase, transform.Capitalize:
		s = openapi3.NewStringSchema()
	default:
		// copy, expression and mapGender, which passes non-text values through.
		s = openapi3.NewSchema()
	}

	s.Description = fmt.Sprintf("%s of %s (rule %s)", rule.TransformType, rule.SourcePath, rule.ID)

	return s
}

// Check validates an output document against a schema built by Schema.
func Check(schema *openapi3.Schema, output map[string]any) error {
	if err := schema.VisitJSON(plain(output), openapi3.MultiErrors()); err != nil {
		return fmt.Errorf("output does not match rule set schema: %w", err)
	}

	return nil
}

// plain copies v with json.Number values turned into float64.
func plain(v any) any {
	switch t := v.(type) {
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return f
		}

		return t.String()
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = plain(e)
		}

		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plain(e)
		}

		return out
	default:
		return v
	}
}
