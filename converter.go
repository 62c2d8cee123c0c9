package stockroom

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ToBase multiplies by the unit's integer scale factor.
func ToBase(quantity decimal.Decimal, unit Unit) (BaseQuantity, error) {
	rule, err := LookupUnit(unit)
	if err != nil {
		return BaseQuantity{}, err
	}
	if quantity.IsNegative() {
		return BaseQuantity{}, fmt.Errorf("%w: %s %s", ErrInvalidQuantity, quantity, unit)
	}
	return BaseQuantity{v: quantity.Mul(decimal.NewFromInt(rule.Factor))}, nil
}

// FromBase divides by the unit's scale factor. Factors are powers of ten so the
// division is exact.
func FromBase(quantity BaseQuantity, unit Unit) (DisplayQuantity, error) {
	rule, err := LookupUnit(unit)
	if err != nil {
		return DisplayQuantity{}, err
	}
	if rule.Factor == 1 {
		return DisplayQuantity{Amount: quantity.v, Unit: unit}, nil
	}
	return DisplayQuantity{Amount: quantity.v.Div(decimal.NewFromInt(rule.Factor)), Unit: unit}, nil
}

func Convert(quantity decimal.Decimal, fromUnit, toUnit Unit) (decimal.Decimal, error) {
	same, err := SameFamily(fromUnit, toUnit)
	if err != nil {
		return decimal.Zero, err
	}
	if !same {
		return decimal.Zero, fmt.Errorf("%w: %s to %s", ErrIncompatibleUnitFamily, fromUnit, toUnit)
	}
	if fromUnit == toUnit {
		return quantity, nil
	}
	base, err := ToBase(quantity, fromUnit)
	if err != nil {
		return decimal.Zero, err
	}
	dq, err := FromBase(base, toUnit)
	if err != nil {
		return decimal.Zero, err
	}
	return dq.Amount, nil
}

// FormatStock renders a base amount in the given display unit, e.g. "8 kg".
func FormatStock(quantity BaseQuantity, unit Unit) string {
	dq, err := FromBase(quantity, unit)
	if err != nil {
		return quantity.String() + " ?"
	}
	return dq.Amount.Round(3).String() + " " + string(unit)
}
