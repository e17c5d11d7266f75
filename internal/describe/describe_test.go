package describe

import (
	"encoding/json"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docmapper/internal/mapping"
	"docmapper/internal/transform"
)

func rule(id, src, dst string, kind transform.Kind) mapping.MappingRule {
	return mapping.MappingRule{
		ID:              id,
		SourcePath:      mapping.MustParsePath(src),
		DestinationPath: mapping.MustParsePath(dst),
		TransformType:   kind,
	}
}

func TestSchema(t *testing.T) {
	name := rule("name", "customer.name", "user.name", transform.Capitalize)
	name.Required = true

	gender := rule("gender", "customer.gender", "user.gender", transform.MapGender)
	gender.DefaultValue = mapping.Default("unknown")

	rules := []mapping.MappingRule{
		name,
		gender,
		rule("active", "customer.active", "user.active", transform.ToBool),
		rule("dob", "customer.dob", "user.dob", transform.FormatDate),
		rule("raw", "customer", "raw", transform.Copy),
	}

	s := Schema(rules)
	require.True(t, s.Type.Is(openapi3.TypeObject))

	user := s.Properties["user"].Value
	require.NotNil(t, user)
	assert.True(t, user.Type.Is(openapi3.TypeObject))
	assert.Equal(t, []string{"name", "gender"}, user.Required)

	assert.True(t, user.Properties["name"].Value.Type.Is(openapi3.TypeString))
	assert.True(t, user.Properties["active"].Value.Type.Is(openapi3.TypeBoolean))
	assert.Equal(t, "date", user.Properties["dob"].Value.Format)
	assert.Nil(t, s.Properties["raw"].Value.Type)
	assert.Nil(t, user.Properties["gender"].Value.Type)
	assert.Contains(t, user.Properties["name"].Value.Description, "rule name")

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"required":["name","gender"]`)
}

func TestSchema_LaterRuleReplaces(t *testing.T) {
	first := rule("a", "x", "out.v", transform.ToBool)
	first.Required = true

	rules := []mapping.MappingRule{
		first,
		rule("b", "y", "out.v", transform.ToString),
		rule("c", "z", "scalar", transform.ToString),
		rule("d", "z", "scalar.nested", transform.ToBool),
	}

	s := Schema(rules)

	out := s.Properties["out"].Value
	assert.True(t, out.Properties["v"].Value.Type.Is(openapi3.TypeString))
	assert.Empty(t, out.Required)

	scalar := s.Properties["scalar"].Value
	assert.True(t, scalar.Type.Is(openapi3.TypeObject))
	assert.True(t, scalar.Properties["nested"].Value.Type.Is(openapi3.TypeBoolean))
}

func TestCheck(t *testing.T) {
	name := rule("name", "n", "user.name", transform.ToString)
	name.Required = true

	s := Schema([]mapping.MappingRule{name, rule("flag", "f", "user.flag", transform.ToBool)})

	require.NoError(t, Check(s, map[string]any{"user": map[string]any{"name": "x", "flag": true}}))
	require.Error(t, Check(s, map[string]any{"user": map[string]any{"flag": true}}))
	require.Error(t, Check(s, map[string]any{"user": map[string]any{"name": "x", "flag": "yes"}}))
}

func TestCheck_PassThroughValues(t *testing.T) {
	s := Schema([]mapping.MappingRule{
		rule("g", "g", "g", transform.MapGender),
		rule("id", "id", "id", transform.Copy),
	})

	require.NoError(t, Check(s, map[string]any{"g": 1.0, "id": json.Number("9007199254740993")}))
	require.NoError(t, Check(s, map[string]any{"g": "F", "id": []any{json.Number("1")}}))
}
