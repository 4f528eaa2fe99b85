package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryQuery(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory(false)

	a := record("Garson")
	b := record("Aşçı")
	b.Category = "service"
	_, err := mem.Insert(ctx, CollectionJobs, a)
	require.NoError(t, err)
	_, err = mem.Insert(ctx, CollectionJobs, b)
	require.NoError(t, err)

	got, err := mem.Query(ctx, CollectionJobs, FieldCategory, "service")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Aşçı", got[0].Record.Title)

	got, err = mem.Query(ctx, "other", FieldTitle, "Garson")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = mem.Query(ctx, CollectionJobs, "salary", "x")
	require.ErrorIs(t, err, ErrUnknownField)
}

func TestMemoryUnique(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory(true)

	_, err := mem.Insert(ctx, CollectionJobs, record("Garson"))
	require.NoError(t, err)
	_, err = mem.Insert(ctx, CollectionJobs, record("Garson"))
	require.ErrorIs(t, err, ErrDuplicate)
	_, err = mem.Insert(ctx, "other", record("Garson"))
	require.NoError(t, err)
}

func TestMemoryClosed(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory(false)
	require.NoError(t, mem.Close())

	_, err := mem.Insert(ctx, CollectionJobs, record("Garson"))
	require.ErrorIs(t, err, ErrClosed)
	_, err = mem.List(ctx, CollectionJobs)
	require.ErrorIs(t, err, ErrClosed)
}

func TestDuplicates(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory(false)
	for _, title := range []string{"A", "B", "A", "", "C", "A", "B"} {
		_, err := mem.Insert(ctx, CollectionJobs, record(title))
		require.NoError(t, err)
	}
	all, err := mem.List(ctx, CollectionJobs)
	require.NoError(t, err)

	groups, stats := Duplicates(all)
	require.Len(t, groups, 2)
	assert.Equal(t, "A", groups[0].Title)
	assert.Len(t, groups[0].Records, 3)
	assert.Equal(t, "B", groups[1].Title)
	assert.Equal(t, DuplicateStats{Total: 7, Untitled: 1, Groups: 2, Redundant: 3, UniqueKeys: 3}, stats)
}
