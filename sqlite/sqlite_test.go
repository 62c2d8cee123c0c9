package sqlitestore

import (
	"path/filepath"
	"stockroom"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "stockroom.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoadStateMissing(t *testing.T) {
	s := openTemp(t)
	_, ok, err := s.LoadState("nothing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSaveAndLoadState(t *testing.T) {
	s := openTemp(t)
	snap := stockroom.DefaultSnapshot("2025-03-14", now)

	require.NoError(t, s.SaveState("bakery", snap))
	snap.Ingredients[0].CurrentStock = stockroom.BaseQuantityFromInt(1)
	require.NoError(t, s.SaveState("bakery", snap))

	got, ok, err := s.LoadState("bakery")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "1", got.Ingredients[0].CurrentStock.String())
	assert.Len(t, got.Orders, 1)

	_, ok, err = s.LoadState("other")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStockroomPersistsThroughSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stockroom.db")
	store, err := Open(path)
	require.NoError(t, err)

	clock := func() time.Time { return now }
	stock, err := stockroom.Open(store, "bakery", stockroom.WithClock(clock))
	require.NoError(t, err)
	stock.AddHook(store.EventLog())

	_, err = stock.SetOrderStatus("o1", stockroom.OrderStatusCompleted)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()
	reopened, err := stockroom.Open(store, "bakery", stockroom.WithClock(clock))
	require.NoError(t, err)

	flour, ok := reopened.Ingredient("1")
	require.True(t, ok)
	assert.Equal(t, "48900", flour.CurrentStock.String())

	events, err := store.Events()
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, stockroom.OpSetOrderStatus, events[0].Op)
	assert.Equal(t, "o1", events[0].EntityID)
	assert.True(t, now.Equal(events[0].Timestamp))
	require.Len(t, events[0].Deducted, 5)
	assert.Equal(t, "1100", events[0].Deducted["1"].String())
	assert.Equal(t, "6", events[0].Deducted["3"].String())
}
