package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docmapper/internal/transform"
)

func validRule() MappingRule {
	return MappingRule{
		ID:              "r1",
		SourcePath:      Path{"a"},
		DestinationPath: Path{"b"},
		TransformType:   transform.Copy,
	}
}

func TestMappingRule_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(r *MappingRule)
		field  string
		code   string
	}{
		{"missing source", func(r *MappingRule) { r.SourcePath = nil }, "source_path", "validation_required"},
		{"empty segment", func(r *MappingRule) { r.DestinationPath = Path{"a", ""} }, "destination_path", CodeEmptySegment},
		{"unset kind", func(r *MappingRule) { r.TransformType = 0 }, "transform_type", CodeInvalidKind},
		{"out of range kind", func(r *MappingRule) { r.TransformType = transform.Kind(99) }, "transform_type", CodeInvalidKind},
		{"expression without logic", func(r *MappingRule) { r.TransformType = transform.Expression }, "transform_logic", CodeMissingLogic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRule()
			tt.modify(&r)

			fields := FieldErrors(r.Validate())
			require.Len(t, fields, 1)
			assert.Equal(t, tt.field, fields[0].Field)
			assert.Equal(t, tt.code, fields[0].Code)
			assert.NotEmpty(t, fields[0].Message)
		})
	}
}

func TestMappingRule_ValidateOK(t *testing.T) {
	r := validRule()
	require.NoError(t, r.Validate())

	r.TransformLogic = "ignored for copy"
	require.NoError(t, r.Validate())

	r.TransformType = transform.Expression
	r.TransformLogic = "value"
	require.NoError(t, r.Validate())
}

func TestValidateRules(t *testing.T) {
	bad := validRule()
	bad.ID = "broken"
	bad.SourcePath = nil

	unnamed := validRule()
	unnamed.ID = ""
	unnamed.TransformType = 0

	err := ValidateRules([]MappingRule{validRule(), bad, unnamed})
	require.Error(t, err)

	var rerr *RuleError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "broken", rerr.RuleID)
	assert.Equal(t, 1, rerr.Index)
	assert.Contains(t, err.Error(), `rule "broken": source_path: cannot be blank`)
	assert.Contains(t, err.Error(), "rule #3: transform_type")
}

func TestClient_Validate(t *testing.T) {
	require.NoError(t, Client{Name: "acme"}.Validate())

	fields := FieldErrors(Client{}.Validate())
	require.Len(t, fields, 1)
	assert.Equal(t, "name", fields[0].Field)
}

func TestFieldErrors_Plain(t *testing.T) {
	assert.Nil(t, FieldErrors(nil))

	fields := FieldErrors(assert.AnError)
	require.Len(t, fields, 1)
	assert.Empty(t, fields[0].Field)
}
