// Package storetest holds the behavior every store.Store backend must share.
package storetest

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docmapper/internal/mapping"
	"docmapper/internal/store"
	"docmapper/internal/transform"
)

// Run exercises a backend. newStore must return an empty store; it is called
// once per subtest.
func Run(t *testing.T, newStore func(t *testing.T) store.Store) {
	t.Helper()

	tests := map[string]func(t *testing.T, s store.Store){
		"ClientLifecycle":     testClientLifecycle,
		"DuplicateName":       testDuplicateName,
		"InvalidClient":       testInvalidClient,
		"RulesKeepOrder":      testRulesKeepOrder,
		"RulesUnknownClient":  testRulesUnknownClient,
		"InvalidRule":         testInvalidRule,
		"DuplicateRule":       testDuplicateRule,
		"ConcurrentImports":   testConcurrentImports,
		"DeleteRule":          testDeleteRule,
		"DeleteCascades":      testDeleteCascades,
		"SnapshotsAreCopies":  testSnapshotsAreCopies,
		"RuleFieldsRoundTrip": testRuleFieldsRoundTrip,
	}

	for name, fn := range tests {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			t.Cleanup(func() { _ = s.Close() })

			fn(t, s)
		})
	}
}

func sampleRules() []mapping.MappingRule {
	return []mapping.MappingRule{
		{ID: "first", SourcePath: mapping.Path{"a"}, DestinationPath: mapping.Path{"out", "a"}, TransformType: transform.Copy},
		{ID: "second", SourcePath: mapping.Path{"b"}, DestinationPath: mapping.Path{"out", "b"}, TransformType: transform.ToUpperCase, Required: true},
		{ID: "third", SourcePath: mapping.Path{"c"}, DestinationPath: mapping.Path{"out", "c"}, TransformType: transform.Expression, TransformLogic: "value + '!'", DefaultValue: mapping.Default("none")},
	}
}

func ids(rules []mapping.MappingRule) []string {
	out := make([]string, len(rules))
	for i, r := range rules {
		out[i] = r.ID
	}

	return out
}

func testClientLifecycle(t *testing.T, s store.Store) {
	ctx := context.Background()

	a, err := s.CreateClient(ctx, "acme")
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.False(t, a.CreatedAt.IsZero())

	b, err := s.CreateClient(ctx, "globex")
	require.NoError(t, err)

	got, err := s.GetClient(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
	assert.Equal(t, "acme", got.Name)
	assert.True(t, a.CreatedAt.Equal(got.CreatedAt))

	clients, err := s.ListClients(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 2)
	assert.Equal(t, []string{a.ID, b.ID}, []string{clients[0].ID, clients[1].ID})

	require.NoError(t, s.DeleteClient(ctx, a.ID))

	_, err = s.GetClient(ctx, a.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
	require.ErrorIs(t, s.DeleteClient(ctx, a.ID), store.ErrNotFound)

	clients, err = s.ListClients(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, "globex", clients[0].Name)
}

func testDuplicateName(t *testing.T, s store.Store) {
	ctx := context.Background()

	c, err := s.CreateClient(ctx, "acme")
	require.NoError(t, err)

	_, err = s.CreateClient(ctx, "acme")
	require.ErrorIs(t, err, store.ErrDuplicateName)

	// The name is free again once the client is gone.
	require.NoError(t, s.DeleteClient(ctx, c.ID))

	_, err = s.CreateClient(ctx, "acme")
	require.NoError(t, err)
}

func testInvalidClient(t *testing.T, s store.Store) {
	_, err := s.CreateClient(context.Background(), "")
	require.ErrorIs(t, err, store.ErrInvalidClient)
}

func testRulesKeepOrder(t *testing.T, s store.Store) {
	ctx := context.Background()

	c, err := s.CreateClient(ctx, "acme")
	require.NoError(t, err)

	created, err := s.CreateRules(ctx, c.ID, sampleRules()[:2])
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, c.ID, created[0].ClientID)
	assert.False(t, created[0].CreatedAt.IsZero())

	_, err = s.CreateRules(ctx, c.ID, sampleRules()[2:])
	require.NoError(t, err)

	unnamed := sampleRules()[0]
	unnamed.ID = ""

	added, err := s.CreateRules(ctx, c.ID, []mapping.MappingRule{unnamed})
	require.NoError(t, err)
	require.NotEmpty(t, added[0].ID)

	rules, err := s.ListRules(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third", added[0].ID}, ids(rules))
}

func testRulesUnknownClient(t *testing.T, s store.Store) {
	ctx := context.Background()

	_, err := s.CreateRules(ctx, "missing", sampleRules())
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.ListRules(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.ErrorIs(t, s.DeleteRule(ctx, "missing", "first"), store.ErrNotFound)
}

func testInvalidRule(t *testing.T, s store.Store) {
	ctx := context.Background()

	c, err := s.CreateClient(ctx, "acme")
	require.NoError(t, err)

	bad := sampleRules()
	bad[1].SourcePath = nil

	_, err = s.CreateRules(ctx, c.ID, bad)
	require.ErrorIs(t, err, store.ErrInvalidRule)

	// Nothing from a rejected batch is stored.
	rules, err := s.ListRules(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, rules)
}

func testDuplicateRule(t *testing.T, s store.Store) {
	ctx := context.Background()

	c, err := s.CreateClient(ctx, "acme")
	require.NoError(t, err)

	_, err = s.CreateRules(ctx, c.ID, sampleRules()[:1])
	require.NoError(t, err)

	_, err = s.CreateRules(ctx, c.ID, sampleRules())
	require.ErrorIs(t, err, store.ErrDuplicateRule)

	rules, err := s.ListRules(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"first"}, ids(rules))

	// Rule IDs are scoped to their client.
	other, err := s.CreateClient(ctx, "globex")
	require.NoError(t, err)

	_, err = s.CreateRules(ctx, other.ID, sampleRules()[:1])
	require.NoError(t, err)
}

func testConcurrentImports(t *testing.T, s store.Store) {
	ctx := context.Background()

	c, err := s.CreateClient(ctx, "acme")
	require.NoError(t, err)

	const writers = 8

	var (
		wg   sync.WaitGroup
		errs = make([]error, writers)
	)

	for i := range writers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, errs[i] = s.CreateRules(ctx, c.ID, sampleRules()[:1])
		}()
	}

	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}

		require.ErrorIs(t, err, store.ErrDuplicateRule)
	}

	assert.Equal(t, 1, succeeded)

	rules, err := s.ListRules(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"first"}, ids(rules))

	// A batch rejected part way leaves none of its rules behind.
	_, err = s.CreateRules(ctx, c.ID, []mapping.MappingRule{sampleRules()[1], sampleRules()[0]})
	require.ErrorIs(t, err, store.ErrDuplicateRule)

	_, err = s.CreateRules(ctx, c.ID, sampleRules()[1:2])
	require.NoError(t, err)

	rules, err = s.ListRules(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, ids(rules))
}

func testDeleteRule(t *testing.T, s store.Store) {
	ctx := context.Background()

	c, err := s.CreateClient(ctx, "acme")
	require.NoError(t, err)

	_, err = s.CreateRules(ctx, c.ID, sampleRules())
	require.NoError(t, err)

	require.NoError(t, s.DeleteRule(ctx, c.ID, "second"))
	require.ErrorIs(t, s.DeleteRule(ctx, c.ID, "second"), store.ErrNotFound)

	rules, err := s.ListRules(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "third"}, ids(rules))
}

func testDeleteCascades(t *testing.T, s store.Store) {
	ctx := context.Background()

	c, err := s.CreateClient(ctx, "acme")
	require.NoError(t, err)

	_, err = s.CreateRules(ctx, c.ID, sampleRules())
	require.NoError(t, err)

	require.NoError(t, s.DeleteClient(ctx, c.ID))

	_, err = s.ListRules(ctx, c.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	// A new client with the same name starts empty.
	again, err := s.CreateClient(ctx, "acme")
	require.NoError(t, err)

	rules, err := s.ListRules(ctx, again.ID)
	require.NoError(t, err)
	assert.Empty(t, rules)
}

func testSnapshotsAreCopies(t *testing.T, s store.Store) {
	ctx := context.Background()

	c, err := s.CreateClient(ctx, "acme")
	require.NoError(t, err)

	input := sampleRules()

	_, err = s.CreateRules(ctx, c.ID, input)
	require.NoError(t, err)

	input[0].SourcePath[0] = "mutated"

	first, err := s.ListRules(ctx, c.ID)
	require.NoError(t, err)

	first[0].DestinationPath[0] = "mutated"
	*first[2].DefaultValue = "mutated"

	second, err := s.ListRules(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, mapping.Path{"a"}, second[0].SourcePath)
	assert.Equal(t, mapping.Path{"out", "a"}, second[0].DestinationPath)
	assert.Equal(t, "none", *second[2].DefaultValue)
}

func testRuleFieldsRoundTrip(t *testing.T, s store.Store) {
	ctx := context.Background()

	c, err := s.CreateClient(ctx, "acme")
	require.NoError(t, err)

	created, err := s.CreateRules(ctx, c.ID, sampleRules())
	require.NoError(t, err)

	rules, err := s.ListRules(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, rules, len(created))

	for i := range rules {
		want, got := created[i], rules[i]
		assert.True(t, want.CreatedAt.Equal(got.CreatedAt), want.ID)

		want.CreatedAt, got.CreatedAt = got.CreatedAt, got.CreatedAt
		assert.Equal(t, want, got)
	}

	third := rules[2]
	assert.Equal(t, transform.Expression, third.TransformType)
	assert.Equal(t, "value + '!'", third.TransformLogic)
	require.NotNil(t, third.DefaultValue)
	assert.Equal(t, "none", *third.DefaultValue)
	assert.True(t, rules[1].Required)
	assert.Nil(t, rules[0].DefaultValue)
}
