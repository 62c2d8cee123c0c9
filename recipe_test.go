package stockroom

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalog(t *testing.T) (*IngredientLedger, *RecipeCatalog) {
	t.Helper()
	l := NewIngredientLedger()
	for _, ing := range DefaultSnapshot(DateOf(testNow), testNow).Ingredients {
		_, err := l.Add(ing)
		require.NoError(t, err)
	}
	return l, NewRecipeCatalog(l)
}

func line(id, qty string, unit Unit) RecipeLine {
	return RecipeLine{IngredientID: id, Quantity: decimal.RequireFromString(qty), Unit: unit}
}

func TestRecipeCatalogAdd(t *testing.T) {
	_, c := newCatalog(t)

	p, err := c.Add(Product{Name: "Bread", Price: decimal.NewFromInt(3), Recipe: []RecipeLine{line("1", "0.5", UnitKilogram)}})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)

	got, ok := c.Get(p.ID)
	require.True(t, ok)
	assert.Equal(t, "Bread", got.Name)

	tests := []struct {
		name string
		p    Product
		err  error
	}{
		{"unknown ingredient", Product{Name: "X", Recipe: []RecipeLine{line("99", "1", UnitGram)}}, ErrNotFound},
		{"wrong family", Product{Name: "X", Recipe: []RecipeLine{line("1", "1", UnitLiter)}}, ErrIncompatibleUnitFamily},
		{"unknown unit", Product{Name: "X", Recipe: []RecipeLine{line("1", "1", Unit("cup"))}}, ErrUnknownUnit},
		{"zero quantity", Product{Name: "X", Recipe: []RecipeLine{line("1", "0", UnitGram)}}, ErrInvalidQuantity},
		{"negative price", Product{Name: "X", Price: decimal.NewFromInt(-1)}, ErrInvalidQuantity},
		{"empty name", Product{Name: ""}, ErrInvalidInput},
		{"duplicate id", Product{ID: p.ID, Name: "Again"}, ErrDuplicateID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Add(tt.p)
			assert.ErrorIs(t, err, tt.err)
		})
	}
	assert.Len(t, c.List(), 1)
}

func TestRecipeCatalogDelete(t *testing.T) {
	_, c := newCatalog(t)
	_, err := c.Add(Product{ID: "p", Name: "Bread"})
	require.NoError(t, err)

	require.NoError(t, c.Delete("p"))
	_, ok := c.Get("p")
	assert.False(t, ok)
	assert.ErrorIs(t, c.Delete("p"), ErrNotFound)
}

func TestComputeUsage(t *testing.T) {
	p := Product{ID: "p", Recipe: []RecipeLine{
		line("1", "0.5", UnitKilogram),
		line("1", "100", UnitGram),
		line("4", "0.25", UnitLiter),
		line("3", "2", UnitItem),
	}}
	usage, err := ComputeUsage(p, 3)
	require.NoError(t, err)
	assert.Equal(t, "1800", usage["1"].String())
	assert.Equal(t, "750", usage["4"].String())
	assert.Equal(t, "6", usage["3"].String())

	usage, err = ComputeUsage(p, 0)
	require.NoError(t, err)
	assert.True(t, usage["1"].IsZero())

	_, err = ComputeUsage(p, -1)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestUsageMerge(t *testing.T) {
	u := Usage{"a": BaseQuantityFromInt(10)}
	u.Merge(Usage{"a": BaseQuantityFromInt(5), "b": BaseQuantityFromInt(1)})
	assert.Equal(t, "15", u["a"].String())
	assert.Equal(t, "1", u["b"].String())
}

func TestEstimateVariableCost(t *testing.T) {
	_, c := newCatalog(t)
	snap := DefaultSnapshot(DateOf(testNow), testNow)

	// flour 0.6 kg * 1.5 + sugar 0.2 kg * 2 + 2 eggs * 0.2 + milk 0.3 L * 1.2
	cost, err := c.EstimateVariableCost(snap.Products[1].Recipe)
	require.NoError(t, err)
	assert.Equal(t, "2.06", cost.String())

	cost, err = c.EstimateVariableCost([]RecipeLine{line("missing", "1", UnitGram), line("3", "1", UnitItem)})
	require.NoError(t, err)
	assert.Equal(t, "0.2", cost.String())

	cost, err = c.EstimateVariableCost(nil)
	require.NoError(t, err)
	assert.True(t, cost.IsZero())
}
