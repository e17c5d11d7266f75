package engine

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docmapper/internal/mapping"
	"docmapper/internal/transform"
)

func applicantRules() []mapping.MappingRule {
	name := rule("name", "fullName", "name", transform.Capitalize)
	name.Required = true

	return []mapping.MappingRule{
		name,
		rule("gender", "sex", "gender", transform.MapGender),
		rule("dob", "birthDate", "dob", transform.FormatDate),
	}
}

func TestTransformEach_PreservesOrder(t *testing.T) {
	inputs := make([]any, 50)
	for i := range inputs {
		inputs[i] = map[string]any{"fullName": fmt.Sprintf("APPLICANT %d", i), "sex": "m"}
	}

	results, err := New(WithConcurrency(4)).TransformEach(context.Background(), inputs, applicantRules())
	require.NoError(t, err)
	require.Len(t, results, len(inputs))

	for i, res := range results {
		assert.Equal(t, fmt.Sprintf("Applicant %d", i), res.Output["name"])
		assert.Equal(t, "M", res.Output["gender"])
		assert.Equal(t, StatusSkipped, res.Outcomes[2].Status)
	}
}

func TestTransformEach_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().TransformEach(ctx, []any{map[string]any{}}, applicantRules())
	require.ErrorIs(t, err, context.Canceled)
}

func TestTransformEach_InvalidRuleSet(t *testing.T) {
	_, err := New().TransformEach(context.Background(), []any{map[string]any{}}, []mapping.MappingRule{
		rule("bad", "a", "b", 0),
	})
	require.ErrorIs(t, err, ErrInvalidRuleSet)
}

func TestTransform_ConcurrentUse(t *testing.T) {
	e := New()
	rules := applicantRules()
	input := map[string]any{"fullName": "grace HOPPER", "sex": "female", "birthDate": "1906-12-09"}

	want := map[string]any{"name": "Grace hopper", "gender": "F", "dob": "1906-12-09"}

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			res, err := e.Transform(input, rules)
			if !assert.NoError(t, err) {
				return
			}

			assert.Empty(t, cmp.Diff(want, res.Output))
		}()
	}

	wg.Wait()
}

func TestTransformCollection(t *testing.T) {
	input := map[string]any{
		"applicantDetails": []any{
			map[string]any{"fullName": "ada", "sex": "female", "birthDate": "10-December-1815"},
			"not an object",
			map[string]any{"sex": "male"},
		},
	}

	res, err := New().TransformCollection(context.Background(), input, applicantRules(), Collection{
		Items: mapping.Path{"applicantDetails"},
		Into:  mapping.Path{"applicants"},
	})
	require.NoError(t, err)
	assert.False(t, res.Fallback)

	want := map[string]any{
		"applicants": []any{
			map[string]any{"name": "Ada", "gender": "F", "dob": "1815-12-10"},
			map[string]any{"gender": "M"},
		},
	}

	if diff := cmp.Diff(want, res.Output); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, res.Elements, 2)
	assert.Equal(t, []int{1}, res.Dropped)
	assert.Equal(t, ReasonMissingRequired, res.Elements[1].Outcomes[0].Reason)
	assert.True(t, res.Failed())
	require.ErrorIs(t, res.Err(), ErrMissingRequired)
	assert.Contains(t, res.Err().Error(), "element 2")
}

func TestTransformCollection_Fallback(t *testing.T) {
	input := map[string]any{"fullName": "solo", "sex": "f"}

	res, err := New().TransformCollection(context.Background(), input, applicantRules(), Collection{
		Items: mapping.Path{"applicantDetails"},
		Into:  mapping.Path{"applicants"},
	})
	require.NoError(t, err)

	assert.True(t, res.Fallback)
	assert.Equal(t, map[string]any{"name": "Solo", "gender": "F"}, res.Output)
	require.Len(t, res.Elements, 1)
	assert.False(t, res.Failed())
	require.NoError(t, res.Err())
}

func TestTransformCollection_InvalidCollection(t *testing.T) {
	_, err := New().TransformCollection(context.Background(), map[string]any{}, applicantRules(), Collection{
		Items: mapping.Path{"items"},
	})
	require.ErrorIs(t, err, ErrInvalidCollection)
}
