package stats

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnold/taskboard/internal/testutil"
)

func TestEngineHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	testutil.CreateCompletion(t, f.db, f.alice.ID, f.pray.ID, "2024-05-08", 1, 10)
	testutil.CreateCompletion(t, f.db, f.alice.ID, f.pray.ID, "2024-05-10", 1, 10)
	testutil.CreateCompletion(t, f.db, f.alice.ID, f.read.ID, "2024-05-09", 4, 8)
	testutil.CreateCompletion(t, f.db, f.bob.ID, f.run.ID, "2024-05-10", 1, 5)
	// older than the window
	testutil.CreateCompletion(t, f.db, f.alice.ID, f.pray.ID, "2024-05-01", 1, 10)

	page, err := f.engine.History(ctx, &f.alice.ID, 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 2, page.Limit)
	require.Len(t, page.Entries, 2)
	assert.Equal(t, "2024-05-10", page.Entries[0].Date)
	assert.Equal(t, "Pray", page.Entries[0].TaskTitle)
	assert.Equal(t, "Alice", page.Entries[0].UserName)
	assert.Equal(t, "2024-05-09", page.Entries[1].Date)
	assert.Equal(t, "Read", page.Entries[1].TaskTitle)
	assert.Equal(t, 8.0, page.Entries[1].Points)

	page, err = f.engine.History(ctx, &f.alice.ID, 2, 2)
	require.NoError(t, err)
	require.Len(t, page.Entries, 1)
	assert.Equal(t, "2024-05-08", page.Entries[0].Date)

	page, err = f.engine.History(ctx, nil, 0, 500)
	require.NoError(t, err)
	assert.EqualValues(t, 4, page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, DefaultPageSize, page.Limit)
	assert.Len(t, page.Entries, 4)
}

func TestEngineHistoryPastTheEnd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	testutil.CreateCompletion(t, f.db, f.alice.ID, f.pray.ID, "2024-05-10", 1, 10)
	testutil.CreateCompletion(t, f.db, f.alice.ID, f.pray.ID, "2024-05-09", 1, 10)
	testutil.CreateCompletion(t, f.db, f.alice.ID, f.pray.ID, "2024-05-08", 1, 10)

	for _, page := range []int{3, 1000, math.MaxInt} {
		got, err := f.engine.History(ctx, &f.alice.ID, page, 2)
		require.NoError(t, err)
		assert.EqualValues(t, 3, got.Total)
		assert.Equal(t, 2, got.Page)
		assert.Len(t, got.Entries, 1)
	}
}
