package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docmapper/internal/mapping"
	"docmapper/internal/transform"
)

func TestValidate_Clean(t *testing.T) {
	diags := Validate(applicantRules())
	assert.True(t, diags.IsValid())
	assert.Empty(t, diags.Warnings)
	assert.Empty(t, diags.Infos)
}

func TestValidate_Errors(t *testing.T) {
	rules := []mapping.MappingRule{
		{ID: "no-source", DestinationPath: mapping.Path{"a"}, TransformType: transform.Copy},
		{ID: "bad-dest", SourcePath: mapping.Path{"a"}, DestinationPath: mapping.Path{"x", ""}, TransformType: transform.Copy},
		rule("no-kind", "a", "b", 0),
		rule("no-logic", "a", "c", transform.Expression),
		exprRule("bad-expr", "a", "d", "toUppr(value)"),
	}

	diags := Validate(rules)
	require.False(t, diags.IsValid())

	assert.Equal(t, []string{
		"missing_source_path",
		"invalid_destination_path",
		"unknown_transform",
		"missing_expression",
		"invalid_expression",
	}, diags.Codes())

	last := diags.Errors[4]
	assert.Equal(t, "bad-expr", last.RuleID)
	assert.Equal(t, "transform_logic", last.Field)
	assert.Equal(t, []string{"toUpper"}, last.Suggestions)
}

func TestValidate_Warnings(t *testing.T) {
	withDefault := rule("b", "x", "out.name", transform.Copy)
	withDefault.Required = true
	withDefault.DefaultValue = mapping.Default("n/a")

	logic := rule("c", "y", "out.other", transform.ToString)
	logic.TransformLogic = "value"

	rules := []mapping.MappingRule{
		rule("a", "x", "out.name", transform.Copy),
		withDefault,
		logic,
		rule("a", "z", "out.third", transform.Copy),
	}

	diags := Validate(rules)
	require.True(t, diags.IsValid())

	codes := make([]string, 0, len(diags.Warnings))
	for _, w := range diags.Warnings {
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []string{"duplicate_destination", "required_with_default", "duplicate_rule_id"}, codes)
	assert.Contains(t, diags.Warnings[0].Message, "also written by rule a")

	require.Len(t, diags.Infos, 1)
	assert.Equal(t, "ignored_logic", diags.Infos[0].Code)
}

func TestValidate_UnnamedRulesAreLabelled(t *testing.T) {
	diags := Validate([]mapping.MappingRule{
		{SourcePath: mapping.Path{"a"}, DestinationPath: mapping.Path{"b"}},
	})

	require.Len(t, diags.Errors, 1)
	assert.Equal(t, "#1", diags.Errors[0].RuleID)
}
