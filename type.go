package stockroom

import (
	"database/sql/driver"
	"fmt"

	"github.com/shopspring/decimal"
)

// BaseQuantity is an amount expressed in a family's base unit (g, ml, u).
// It never carries a unit of its own; the owning record knows the family.
type BaseQuantity struct {
	v decimal.Decimal
}

// DisplayQuantity is an amount in a specific unit, usually an ingredient's display unit.
type DisplayQuantity struct {
	Amount decimal.Decimal
	Unit   Unit
}

func NewBaseQuantity(d decimal.Decimal) BaseQuantity {
	return BaseQuantity{v: d}
}

func BaseQuantityFromInt(i int64) BaseQuantity {
	return BaseQuantity{v: decimal.NewFromInt(i)}
}

func ParseQuantity(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidQuantity, s)
	}
	return d, nil
}

func (q BaseQuantity) Decimal() decimal.Decimal { return q.v }

func (q BaseQuantity) Add(o BaseQuantity) BaseQuantity { return BaseQuantity{v: q.v.Add(o.v)} }

func (q BaseQuantity) Sub(o BaseQuantity) BaseQuantity { return BaseQuantity{v: q.v.Sub(o.v)} }

func (q BaseQuantity) Mul(n int64) BaseQuantity {
	return BaseQuantity{v: q.v.Mul(decimal.NewFromInt(n))}
}

// ClampZero floors the quantity at zero.
func (q BaseQuantity) ClampZero() BaseQuantity {
	if q.v.IsNegative() {
		return BaseQuantity{}
	}
	return q
}

func (q BaseQuantity) Cmp(o BaseQuantity) int { return q.v.Cmp(o.v) }

func (q BaseQuantity) Equal(o BaseQuantity) bool { return q.v.Equal(o.v) }

func (q BaseQuantity) IsZero() bool { return q.v.IsZero() }

func (q BaseQuantity) IsNegative() bool { return q.v.IsNegative() }

func (q BaseQuantity) String() string { return q.v.String() }

func (q *BaseQuantity) Scan(src any) error {
	var d decimal.Decimal
	if err := d.Scan(src); err != nil {
		return err
	}
	q.v = d
	return nil
}

func (q BaseQuantity) Value() (driver.Value, error) {
	return q.v.String(), nil
}

// Base converts back to the family's base unit.
func (q DisplayQuantity) Base() (BaseQuantity, error) {
	return ToBase(q.Amount, q.Unit)
}

func (q DisplayQuantity) String() string {
	return q.Amount.String() + " " + string(q.Unit)
}
