package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docmapper/internal/mapping"
	"docmapper/internal/transform"
)

var now = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

func TestNewClient(t *testing.T) {
	c, err := NewClient("acme", now)
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "acme", c.Name)
	assert.Equal(t, now, c.CreatedAt)

	_, err = NewClient("", now)
	require.ErrorIs(t, err, ErrInvalidClient)
}

func TestPrepareRules(t *testing.T) {
	rules := []mapping.MappingRule{
		{ID: "a", SourcePath: mapping.Path{"x"}, DestinationPath: mapping.Path{"y"}, TransformType: transform.Copy, DefaultValue: mapping.Default("d")},
		{SourcePath: mapping.Path{"x"}, DestinationPath: mapping.Path{"z"}, TransformType: transform.ToBool},
	}

	out, err := PrepareRules("client-1", rules, now)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "a", out[0].ID)
	assert.NotEmpty(t, out[1].ID)
	assert.Equal(t, "client-1", out[1].ClientID)
	assert.Equal(t, now, out[0].CreatedAt)

	// Copies do not share memory with the input.
	out[0].SourcePath[0] = "changed"
	*out[0].DefaultValue = "changed"
	assert.Equal(t, "x", rules[0].SourcePath[0])
	assert.Equal(t, "d", *rules[0].DefaultValue)
	assert.Empty(t, rules[1].ID)
}

func TestPrepareRules_Errors(t *testing.T) {
	_, err := PrepareRules("c", []mapping.MappingRule{{ID: "a"}}, now)
	require.ErrorIs(t, err, ErrInvalidRule)

	dup := mapping.MappingRule{ID: "a", SourcePath: mapping.Path{"x"}, DestinationPath: mapping.Path{"y"}, TransformType: transform.Copy}
	_, err = PrepareRules("c", []mapping.MappingRule{dup, dup}, now)
	require.ErrorIs(t, err, ErrDuplicateRule)
}
