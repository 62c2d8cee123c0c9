package stockroom

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUnit(t *testing.T) {
	tests := []struct {
		in   string
		want Unit
		err  error
	}{
		{"g", UnitGram, nil},
		{"kg", UnitKilogram, nil},
		{"ml", UnitMilliliter, nil},
		{"L", UnitLiter, nil},
		{"l", UnitLiter, nil},
		{" u ", UnitItem, nil},
		{"lb", "", ErrUnknownUnit},
		{"", "", ErrUnknownUnit},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseUnit(tt.in)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnitFamilies(t *testing.T) {
	assert.Equal(t, FamilyMass, UnitKilogram.Family())
	assert.Equal(t, UnitGram, UnitKilogram.BaseUnit())
	assert.Equal(t, UnitMilliliter, UnitLiter.BaseUnit())
	assert.Equal(t, UnitItem, UnitItem.BaseUnit())
	assert.Len(t, Units(), 5)

	same, err := SameFamily(UnitGram, UnitKilogram)
	require.NoError(t, err)
	assert.True(t, same)

	same, err = SameFamily(UnitGram, UnitLiter)
	require.NoError(t, err)
	assert.False(t, same)

	_, err = SameFamily(UnitGram, Unit("oz"))
	assert.ErrorIs(t, err, ErrUnknownUnit)
}

func TestToBase(t *testing.T) {
	tests := []struct {
		amount string
		unit   Unit
		want   string
	}{
		{"2.5", UnitKilogram, "2500"},
		{"1.5", UnitLiter, "1500"},
		{"250", UnitGram, "250"},
		{"12", UnitItem, "12"},
		{"0", UnitKilogram, "0"},
	}
	for _, tt := range tests {
		got, err := ToBase(decimal.RequireFromString(tt.amount), tt.unit)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got.String(), "%s %s", tt.amount, tt.unit)
	}

	_, err := ToBase(decimal.NewFromInt(-1), UnitGram)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = ToBase(decimal.NewFromInt(1), Unit("cup"))
	assert.ErrorIs(t, err, ErrUnknownUnit)
}

func TestFromBaseRoundTrip(t *testing.T) {
	for _, unit := range Units() {
		amount := decimal.RequireFromString("3.125")
		b, err := ToBase(amount, unit)
		require.NoError(t, err)
		dq, err := FromBase(b, unit)
		require.NoError(t, err)
		assert.True(t, amount.Equal(dq.Amount), "unit %s: got %s", unit, dq.Amount)
		assert.Equal(t, unit, dq.Unit)
	}
}

func TestConvert(t *testing.T) {
	got, err := Convert(decimal.NewFromInt(500), UnitGram, UnitKilogram)
	require.NoError(t, err)
	assert.Equal(t, "0.5", got.String())

	got, err = Convert(decimal.RequireFromString("0.25"), UnitLiter, UnitMilliliter)
	require.NoError(t, err)
	assert.Equal(t, "250", got.String())

	_, err = Convert(decimal.NewFromInt(1), UnitGram, UnitMilliliter)
	assert.ErrorIs(t, err, ErrIncompatibleUnitFamily)
}

func TestFormatStock(t *testing.T) {
	assert.Equal(t, "8 kg", FormatStock(BaseQuantityFromInt(8000), UnitKilogram))
	assert.Equal(t, "1.235 L", FormatStock(NewBaseQuantity(decimal.RequireFromString("1234.5")), UnitLiter))
	assert.Equal(t, "150 u", FormatStock(BaseQuantityFromInt(150), UnitItem))
}

func TestParseQuantity(t *testing.T) {
	d, err := ParseQuantity("1.25")
	require.NoError(t, err)
	assert.Equal(t, "1.25", d.String())

	_, err = ParseQuantity("abc")
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestBaseQuantityArithmetic(t *testing.T) {
	a := BaseQuantityFromInt(300)
	b := BaseQuantityFromInt(500)
	assert.Equal(t, "800", a.Add(b).String())
	assert.True(t, a.Sub(b).IsNegative())
	assert.True(t, a.Sub(b).ClampZero().IsZero())
	assert.Equal(t, "1500", b.Mul(3).String())
	assert.Equal(t, -1, a.Cmp(b))
}

func TestCurrencyFormatter(t *testing.T) {
	cf := NewCurrencyFormatter("")
	assert.Equal(t, "$47.00", cf.Format(decimal.NewFromInt(47)))
	assert.Equal(t, "-$1.50", cf.Format(decimal.RequireFromString("-1.5")))
	assert.Equal(t, "1.76", RoundMoney(decimal.RequireFromString("1.755")).String())
	assert.Equal(t, "€3.10", NewCurrencyFormatter("€").Format(decimal.RequireFromString("3.1")))
}
