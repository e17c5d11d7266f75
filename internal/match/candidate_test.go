package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var transformNames = []string{
	"copy", "toString", "toBool", "toUpperCase", "toLowerCase",
	"capitalize", "formatDate", "mapGender", "expression",
}

func TestRankNames(t *testing.T) {
	ranked := RankNames("toUppercase", transformNames)
	require.Len(t, ranked, len(transformNames))

	best := ranked[0]
	assert.Equal(t, "toUpperCase", best.Name)
	assert.True(t, best.Exact)
}

func TestRankNames_Determinism(t *testing.T) {
	first := RankNames("date", transformNames)
	for range 10 {
		assert.Equal(t, first, RankNames("date", transformNames))
	}
}

func TestSuggest(t *testing.T) {
	tests := []struct {
		query string
		want  []string
	}{
		{"to_upper_case", []string{"toUpperCase"}},
		{"formatdat", []string{"formatDate"}},
		{"mapGendr", []string{"mapGender"}},
		{"zzzzzzzz", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := Suggest(tt.query, transformNames, 1)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCandidateList_Top(t *testing.T) {
	list := CandidateList{{Name: "a"}, {Name: "b"}, {Name: "c"}}

	assert.Len(t, list.Top(2), 2)
	assert.Len(t, list.Top(10), 3)
	assert.Empty(t, CandidateList{}.Top(1))
}

func TestCandidateList_AboveThreshold(t *testing.T) {
	list := CandidateList{
		{Name: "exact", Exact: true, Score: 0.1},
		{Name: "close", Score: 0.8},
		{Name: "far", Score: 0.2},
	}

	got := list.AboveThreshold(0.5)
	require.Len(t, got, 2)
	assert.Equal(t, "exact", got[0].Name)
	assert.Equal(t, "close", got[1].Name)
}
