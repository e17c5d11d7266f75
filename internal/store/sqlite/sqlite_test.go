package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docmapper/internal/mapping"
	"docmapper/internal/store"
	"docmapper/internal/store/storetest"
	"docmapper/internal/transform"
)

func TestSQLiteStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		s, err := Open(filepath.Join(t.TempDir(), "rules.db"))
		require.NoError(t, err)

		return s
	})
}

func TestSQLiteStore_InMemory(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		s, err := Open(MemoryPath)
		require.NoError(t, err)

		return s
	})
}

func TestSQLiteStore_Persists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "rules.db")

	s, err := Open(path)
	require.NoError(t, err)

	c, err := s.CreateClient(ctx, "acme")
	require.NoError(t, err)

	_, err = s.CreateRules(ctx, c.ID, []mapping.MappingRule{{
		ID:              "r1",
		SourcePath:      mapping.Path{"a.b", "c"},
		DestinationPath: mapping.Path{"d"},
		TransformType:   transform.FormatDate,
	}})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	rules, err := reopened.ListRules(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, mapping.Path{"a.b", "c"}, rules[0].SourcePath)
	assert.Equal(t, transform.FormatDate, rules[0].TransformType)
}
