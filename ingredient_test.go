package stockroom

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flour() Ingredient {
	return Ingredient{
		ID:           "flour",
		Name:         "Flour",
		CurrentStock: BaseQuantityFromInt(10000),
		Unit:         UnitKilogram,
		CostPerUnit:  decimal.RequireFromString("1.5"),
		MinStock:     BaseQuantityFromInt(2000),
	}
}

func TestIngredientLedgerAdd(t *testing.T) {
	l := NewIngredientLedger()

	added, err := l.Add(flour())
	require.NoError(t, err)
	assert.Equal(t, "flour", added.ID)

	_, err = l.Add(flour())
	assert.ErrorIs(t, err, ErrDuplicateID)

	generated, err := l.Add(Ingredient{Name: "Salt", Unit: UnitGram})
	require.NoError(t, err)
	assert.NotEmpty(t, generated.ID)
	assert.Equal(t, 2, l.Len())

	_, err = l.Add(Ingredient{ID: "x", Name: "Bad", Unit: Unit("oz")})
	assert.ErrorIs(t, err, ErrUnknownUnit)

	_, err = l.Add(Ingredient{ID: "y", Name: "Neg", Unit: UnitGram, CurrentStock: BaseQuantityFromInt(-1)})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = l.Add(Ingredient{ID: "z", Name: " ", Unit: UnitGram})
	assert.ErrorIs(t, err, ErrInvalidInput)

	list := l.List()
	require.Len(t, list, 2)
	assert.Equal(t, "flour", list[0].ID)
}

func TestSetStockLevelWeightedAverage(t *testing.T) {
	l := NewIngredientLedger()
	_, err := l.Add(flour())
	require.NoError(t, err)

	// 10 kg at 1.50 plus 10 kg at 2.00
	updated, err := l.SetStockLevel("flour", BaseQuantityFromInt(20000), costPtr("2"))
	require.NoError(t, err)
	assert.Equal(t, "20000", updated.CurrentStock.String())
	assert.Equal(t, "1.75", updated.CostPerUnit.String())
}

func TestSetStockLevelKeepsCost(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
		cost   *decimal.Decimal
	}{
		{"decrease with cost", 4000, costPtr("9")},
		{"increase without cost", 15000, nil},
		{"increase with zero cost", 15000, costPtr("0")},
		{"same level", 10000, costPtr("3")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewIngredientLedger()
			_, err := l.Add(flour())
			require.NoError(t, err)

			updated, err := l.SetStockLevel("flour", BaseQuantityFromInt(tt.amount), tt.cost)
			require.NoError(t, err)
			assert.Equal(t, BaseQuantityFromInt(tt.amount).String(), updated.CurrentStock.String())
			assert.Equal(t, "1.5", updated.CostPerUnit.String())
		})
	}
}

func TestSetStockLevelFromEmpty(t *testing.T) {
	l := NewIngredientLedger()
	ing := flour()
	ing.CurrentStock = BaseQuantity{}
	_, err := l.Add(ing)
	require.NoError(t, err)

	updated, err := l.SetStockLevel("flour", BaseQuantityFromInt(5000), costPtr("2.4"))
	require.NoError(t, err)
	assert.Equal(t, "2.4", updated.CostPerUnit.String())
}

func TestSetStockLevelErrors(t *testing.T) {
	l := NewIngredientLedger()
	_, err := l.Add(flour())
	require.NoError(t, err)

	_, err = l.SetStockLevel("missing", BaseQuantityFromInt(1), nil)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = l.SetStockLevel("flour", BaseQuantityFromInt(-5), nil)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	ing, _ := l.Get("flour")
	assert.Equal(t, "10000", ing.CurrentStock.String())
}

func TestDeductClampsAtZero(t *testing.T) {
	l := NewIngredientLedger()
	_, err := l.Add(flour())
	require.NoError(t, err)

	ing, err := l.Deduct("flour", BaseQuantityFromInt(2500))
	require.NoError(t, err)
	assert.Equal(t, "7500", ing.CurrentStock.String())

	ing, err = l.Deduct("flour", BaseQuantityFromInt(99999))
	require.NoError(t, err)
	assert.True(t, ing.CurrentStock.IsZero())

	_, err = l.Deduct("flour", BaseQuantityFromInt(-1))
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestUpdateIngredient(t *testing.T) {
	l := NewIngredientLedger()
	_, err := l.Add(flour())
	require.NoError(t, err)

	name := "Flour 000"
	unit := UnitGram
	minStock := BaseQuantityFromInt(500)
	updated, err := l.Update("flour", IngredientEdit{Name: &name, Unit: &unit, MinStock: &minStock})
	require.NoError(t, err)
	assert.Equal(t, "Flour 000", updated.Name)
	assert.Equal(t, UnitGram, updated.Unit)
	assert.Equal(t, "10000", updated.CurrentStock.String())
	assert.Equal(t, "500", updated.MinStock.String())

	liters := UnitLiter
	_, err = l.Update("flour", IngredientEdit{Unit: &liters})
	assert.ErrorIs(t, err, ErrIncompatibleUnitFamily)

	negative := decimal.NewFromInt(-1)
	_, err = l.Update("flour", IngredientEdit{CostPerUnit: &negative})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	ing, _ := l.Get("flour")
	assert.Equal(t, "1.5", ing.CostPerUnit.String())

	_, err = l.Update("nope", IngredientEdit{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLowStock(t *testing.T) {
	l := NewIngredientLedger()
	_, err := l.Add(flour())
	require.NoError(t, err)
	_, err = l.Add(Ingredient{ID: "eggs", Name: "Eggs", Unit: UnitItem, CurrentStock: BaseQuantityFromInt(30), MinStock: BaseQuantityFromInt(30)})
	require.NoError(t, err)

	low := l.LowStock()
	require.Len(t, low, 1)
	assert.Equal(t, "eggs", low[0].ID)
	assert.Equal(t, "30 u", low[0].StockDisplay().String())
}
