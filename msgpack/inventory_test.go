package stockmsgpack

import (
	"stockroom"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

var now = time.Date(2025, 3, 14, 9, 30, 15, 123456789, time.UTC)

func TestSnapshotRoundTrip(t *testing.T) {
	snap := stockroom.DefaultSnapshot("2025-03-14", now)

	data, err := MarshalSnapshot(snap, now)
	require.NoError(t, err)
	got, err := UnmarshalSnapshot(data)
	require.NoError(t, err)

	require.Len(t, got.Ingredients, len(snap.Ingredients))
	for i, ing := range snap.Ingredients {
		g := got.Ingredients[i]
		assert.Equal(t, ing.ID, g.ID)
		assert.Equal(t, ing.Unit, g.Unit)
		// stock stays in base units, cost per display unit
		assert.True(t, ing.CurrentStock.Equal(g.CurrentStock), "stock of %s", ing.ID)
		assert.True(t, ing.MinStock.Equal(g.MinStock), "min of %s", ing.ID)
		assert.True(t, ing.CostPerUnit.Equal(g.CostPerUnit), "cost of %s", ing.ID)
	}

	require.Len(t, got.Products, 2)
	assert.Equal(t, "Torta de Chocolate", got.Products[0].Name)
	require.Len(t, got.Products[0].Recipe, 5)
	assert.Equal(t, stockroom.UnitMilliliter, got.Products[0].Recipe[4].Unit)
	assert.Equal(t, "250", got.Products[0].Recipe[4].Quantity.String())

	require.Len(t, got.Orders, 1)
	o := got.Orders[0]
	assert.Equal(t, "o1", o.ID)
	assert.Equal(t, stockroom.OrderStatusPending, o.Status)
	assert.Equal(t, stockroom.Date("2025-03-14"), o.DeliveryDate)
	assert.Equal(t, "47", o.TotalPrice.String())
	assert.True(t, now.Equal(o.CreatedAt))
	assert.Equal(t, snap.Orders[0].Lines, o.Lines)

	assert.Equal(t, snap.Customers, got.Customers)
}

func TestDecimalsTravelAsStrings(t *testing.T) {
	ing := stockroom.DefaultSnapshot("2025-03-14", now).Ingredients[0]
	wire := NewIngredient(ing)
	assert.Equal(t, "50000", wire.CurrentStock)
	assert.Equal(t, "kg", wire.Unit)
	assert.Equal(t, "1.5", wire.CostPerUnit)
}

func TestUnmarshalRejectsBadData(t *testing.T) {
	bad := Snapshot{Version: SnapshotVersion, Ingredients: []Ingredient{{ID: "x", Unit: "oz", CurrentStock: "1"}}}
	data, err := msgpack.Marshal(&bad)
	require.NoError(t, err)
	_, err = UnmarshalSnapshot(data)
	assert.ErrorIs(t, err, stockroom.ErrUnknownUnit)

	bad = Snapshot{Version: SnapshotVersion, Orders: []Order{{ID: "o", Status: "shipped", DeliveryDate: "2025-03-14"}}}
	data, err = msgpack.Marshal(&bad)
	require.NoError(t, err)
	_, err = UnmarshalSnapshot(data)
	assert.ErrorIs(t, err, stockroom.ErrInvalidStatus)

	bad = Snapshot{Version: SnapshotVersion, Ingredients: []Ingredient{{ID: "x", Unit: "g", CurrentStock: "lots"}}}
	data, err = msgpack.Marshal(&bad)
	require.NoError(t, err)
	_, err = UnmarshalSnapshot(data)
	assert.ErrorIs(t, err, stockroom.ErrInvalidQuantity)

	newer := Snapshot{Version: SnapshotVersion + 1}
	data, err = msgpack.Marshal(&newer)
	require.NoError(t, err)
	_, err = UnmarshalSnapshot(data)
	assert.Error(t, err)

	_, err = UnmarshalSnapshot([]byte{0xc1})
	assert.Error(t, err)
}
