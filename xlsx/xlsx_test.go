package xlsx

import (
	"bytes"
	"stockroom"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var now = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func TestExport(t *testing.T) {
	snap := stockroom.DefaultSnapshot("2025-03-14", now)
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, snap, stockroom.NewCurrencyFormatter("$")))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetStock, SheetLowStock, SheetProduction, SheetCosting, SheetOrders}, f.GetSheetList())

	rows, err := f.GetRows(SheetStock)
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, []string{"1", "Harina 0000", "50", "kg", "10", "1.5"}, rows[1])

	rows, err = f.GetRows(SheetLowStock)
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	rows, err = f.GetRows(SheetProduction)
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, []string{"Harina 0000", "kg", "1.1", "50", "0"}, rows[3])

	rows, err = f.GetRows(SheetCosting)
	require.NoError(t, err)
	assert.Equal(t, []string{"Docena de Medialunas", "$12.00", "$2.06", "$9.94"}, rows[2])

	rows, err = f.GetRows(SheetOrders)
	require.NoError(t, err)
	assert.Equal(t, []string{"o1", "Juan Pérez", "2025-03-14", "pending", "$47.00"}, rows[1])
}

func TestReadIngredientsRoundTrip(t *testing.T) {
	snap := stockroom.DefaultSnapshot("2025-03-14", now)
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, snap, stockroom.NewCurrencyFormatter("$")))

	got, err := ReadIngredients(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, got, len(snap.Ingredients))
	for i, ing := range snap.Ingredients {
		assert.Equal(t, ing.ID, got[i].ID)
		assert.Equal(t, ing.Unit, got[i].Unit)
		assert.True(t, ing.CurrentStock.Equal(got[i].CurrentStock), "stock of %s", ing.ID)
		assert.True(t, ing.CostPerUnit.Equal(got[i].CostPerUnit), "cost of %s", ing.ID)
	}
}

func TestReadIngredientsKeepsFractionalStock(t *testing.T) {
	stock, err := stockroom.ToBase(decimal.RequireFromString("1234.5"), stockroom.UnitMilliliter)
	require.NoError(t, err)
	minStock, err := stockroom.ToBase(decimal.RequireFromString("0.5"), stockroom.UnitMilliliter)
	require.NoError(t, err)
	milk := stockroom.Ingredient{
		ID:           "milk",
		Name:         "Leche",
		CurrentStock: stock,
		Unit:         stockroom.UnitLiter,
		CostPerUnit:  decimal.RequireFromString("1.2"),
		MinStock:     minStock,
	}

	var buf bytes.Buffer
	snap := stockroom.Snapshot{Ingredients: []stockroom.Ingredient{milk}}
	require.NoError(t, Export(&buf, snap, stockroom.NewCurrencyFormatter("$")))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	rows, err := f.GetRows(SheetStock)
	require.NoError(t, err)
	assert.Equal(t, "1.2345", rows[1][2])

	got, err := ReadIngredients(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "1234.5", got[0].CurrentStock.String())
	assert.Equal(t, "0.5", got[0].MinStock.String())
}

func TestReadIngredientsBadUnit(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName(f.GetSheetName(0), SheetStock))
	require.NoError(t, f.SetSheetRow(SheetStock, "A1", &stockHeader))
	require.NoError(t, f.SetSheetRow(SheetStock, "A2", &[]any{"x", "Salt", "1", "oz", "0", "1"}))
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)

	_, err = ReadIngredients(&buf)
	assert.ErrorIs(t, err, stockroom.ErrUnknownUnit)
}
