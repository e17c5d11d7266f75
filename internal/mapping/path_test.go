package mapping

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		input    string
		expected Path
	}{
		{"name", Path{"name"}},
		{"user.profile.name", Path{"user", "profile", "name"}},
		{"  user.name  ", Path{"user", "name"}},
		{"a..b", Path{"a", "b"}},
		{".a.b.", Path{"a", "b"}},
		{"items.0.id", Path{"items", "0", "id"}},
		{"with space.key", Path{"with space", "key"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePath(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParsePath_Empty(t *testing.T) {
	for _, input := range []string{"", "   ", ".", "..."} {
		_, err := ParsePath(input)
		require.ErrorIs(t, err, ErrEmptyPath, input)
	}
}

func TestMustParsePath_Panics(t *testing.T) {
	assert.Panics(t, func() { MustParsePath("..") })
	assert.Equal(t, Path{"a"}, MustParsePath("a"))
}

func TestPath_Helpers(t *testing.T) {
	p := Path{"user", "profile", "name"}

	assert.Equal(t, "user.profile.name", p.String())
	assert.Equal(t, "name", p.Leaf())
	assert.True(t, p.Equal(Path{"user", "profile", "name"}))
	assert.False(t, p.Equal(Path{"user"}))
	assert.False(t, p.IsEmpty())
	assert.False(t, p.HasEmptySegment())
	assert.True(t, Path{"a", ""}.HasEmptySegment())
	assert.True(t, Path(nil).IsEmpty())
	assert.Empty(t, Path(nil).Leaf())
}

func TestPath_YAML(t *testing.T) {
	var doc struct {
		A Path `yaml:"a"`
		B Path `yaml:"b"`
	}

	err := yaml.Unmarshal([]byte("a: user.name\nb: [user.v2, name]\n"), &doc)
	require.NoError(t, err)
	assert.Equal(t, Path{"user", "name"}, doc.A)
	assert.Equal(t, Path{"user.v2", "name"}, doc.B)

	out, err := yaml.Marshal(doc)
	require.NoError(t, err)
	assert.Contains(t, string(out), "a: user.name")
	assert.Contains(t, string(out), "- user.v2")

	err = yaml.Unmarshal([]byte("a: {x: 1}\n"), &doc)
	require.Error(t, err)

	err = yaml.Unmarshal([]byte("a: '.'\n"), &doc)
	require.ErrorIs(t, err, ErrEmptyPath)
}

func TestPath_JSON(t *testing.T) {
	var p Path

	require.NoError(t, json.Unmarshal([]byte(`"a.b"`), &p))
	assert.Equal(t, Path{"a", "b"}, p)

	require.NoError(t, json.Unmarshal([]byte(`["a.b","c"]`), &p))
	assert.Equal(t, Path{"a.b", "c"}, p)

	require.Error(t, json.Unmarshal([]byte(`42`), &p))
	require.ErrorIs(t, json.Unmarshal([]byte(`""`), &p), ErrEmptyPath)

	data, err := json.Marshal(Path{"a", "b"})
	require.NoError(t, err)
	assert.JSONEq(t, `["a","b"]`, string(data))
}
