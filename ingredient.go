package stockroom

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ingredient is a raw material. Stock and threshold are stored in base units while
// CostPerUnit is quoted per one display Unit.
type Ingredient struct {
	ID           string
	Name         string
	CurrentStock BaseQuantity
	Unit         Unit
	CostPerUnit  decimal.Decimal
	MinStock     BaseQuantity
}

// IngredientEdit carries the editable fields; nil means unchanged.
type IngredientEdit struct {
	Name        *string
	Unit        *Unit
	CostPerUnit *decimal.Decimal
	MinStock    *BaseQuantity
}

func (ing Ingredient) IsLowStock() bool {
	return ing.CurrentStock.Cmp(ing.MinStock) <= 0
}

func (ing Ingredient) StockDisplay() DisplayQuantity {
	dq, _ := FromBase(ing.CurrentStock, ing.Unit)
	return dq
}

func (ing Ingredient) validate() error {
	if strings.TrimSpace(ing.Name) == "" {
		return fmt.Errorf("%w: ingredient name is empty", ErrInvalidInput)
	}
	if _, err := LookupUnit(ing.Unit); err != nil {
		return err
	}
	if ing.CurrentStock.IsNegative() || ing.MinStock.IsNegative() {
		return fmt.Errorf("%w: ingredient %s stock must be non-negative", ErrInvalidQuantity, ing.ID)
	}
	if ing.CostPerUnit.IsNegative() {
		return fmt.Errorf("%w: ingredient %s cost must be non-negative", ErrInvalidQuantity, ing.ID)
	}
	return nil
}

type IngredientLedger struct {
	items map[string]*Ingredient
	order []string
}

func NewIngredientLedger() *IngredientLedger {
	return &IngredientLedger{
		items: make(map[string]*Ingredient),
	}
}

func (l *IngredientLedger) Add(ing Ingredient) (Ingredient, error) {
	if ing.ID == "" {
		ing.ID = uuid.NewString()
	}
	if _, ok := l.items[ing.ID]; ok {
		return Ingredient{}, fmt.Errorf("%w: ingredient %s", ErrDuplicateID, ing.ID)
	}
	if err := ing.validate(); err != nil {
		return Ingredient{}, err
	}
	stored := ing
	l.items[ing.ID] = &stored
	l.order = append(l.order, ing.ID)
	return stored, nil
}

func (l *IngredientLedger) Get(id string) (Ingredient, bool) {
	ing, ok := l.items[id]
	if !ok {
		return Ingredient{}, false
	}
	return *ing, true
}

func (l *IngredientLedger) mustGet(id string) (*Ingredient, error) {
	ing, ok := l.items[id]
	if !ok {
		return nil, fmt.Errorf("%w: ingredient %s", ErrNotFound, id)
	}
	return ing, nil
}

func (l *IngredientLedger) List() []Ingredient {
	out := make([]Ingredient, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, *l.items[id])
	}
	return out
}

func (l *IngredientLedger) Len() int {
	return len(l.order)
}

// Update edits an ingredient in place. A new display unit must stay in the same family,
// since stock and threshold are already normalized to that family's base unit.
func (l *IngredientLedger) Update(id string, edit IngredientEdit) (Ingredient, error) {
	ing, err := l.mustGet(id)
	if err != nil {
		return Ingredient{}, err
	}
	next := *ing
	if edit.Name != nil {
		next.Name = *edit.Name
	}
	if edit.Unit != nil {
		same, err := SameFamily(ing.Unit, *edit.Unit)
		if err != nil {
			return Ingredient{}, err
		}
		if !same {
			return Ingredient{}, fmt.Errorf("%w: ingredient %s cannot move from %s to %s",
				ErrIncompatibleUnitFamily, id, ing.Unit, *edit.Unit)
		}
		next.Unit = *edit.Unit
	}
	if edit.CostPerUnit != nil {
		next.CostPerUnit = *edit.CostPerUnit
	}
	if edit.MinStock != nil {
		next.MinStock = *edit.MinStock
	}
	if err := next.validate(); err != nil {
		return Ingredient{}, err
	}
	*ing = next
	return next, nil
}

// SetStockLevel replaces the on-hand amount. When stock rises and a positive purchase
// cost per display unit is given, CostPerUnit becomes the weighted average of the
// existing stock at the old cost and the added stock at the purchase cost.
// Decreases and plain corrections keep the historical cost basis.
func (l *IngredientLedger) SetStockLevel(id string, newAmount BaseQuantity, purchaseUnitCost *decimal.Decimal) (Ingredient, error) {
	ing, err := l.mustGet(id)
	if err != nil {
		return Ingredient{}, err
	}
	if newAmount.IsNegative() {
		return Ingredient{}, fmt.Errorf("%w: stock level %s", ErrInvalidQuantity, newAmount)
	}

	if purchaseUnitCost != nil && newAmount.Cmp(ing.CurrentStock) > 0 && purchaseUnitCost.IsPositive() {
		cost, err := weightedAverageCost(*ing, newAmount, *purchaseUnitCost)
		if err != nil {
			return Ingredient{}, err
		}
		ing.CostPerUnit = cost
	}
	ing.CurrentStock = newAmount
	return *ing, nil
}

func weightedAverageCost(ing Ingredient, newAmount BaseQuantity, purchaseUnitCost decimal.Decimal) (decimal.Decimal, error) {
	added := newAmount.Sub(ing.CurrentStock)

	currentDisplay, err := FromBase(ing.CurrentStock, ing.Unit)
	if err != nil {
		return decimal.Zero, err
	}
	addedDisplay, err := FromBase(added, ing.Unit)
	if err != nil {
		return decimal.Zero, err
	}
	totalDisplay, err := FromBase(newAmount, ing.Unit)
	if err != nil {
		return decimal.Zero, err
	}
	if totalDisplay.Amount.IsZero() {
		return ing.CostPerUnit, nil
	}

	oldValue := currentDisplay.Amount.Mul(ing.CostPerUnit)
	addedValue := addedDisplay.Amount.Mul(purchaseUnitCost)
	return RoundMoney(oldValue.Add(addedValue).Div(totalDisplay.Amount)), nil
}

// Deduct removes stock, flooring at zero rather than failing.
func (l *IngredientLedger) Deduct(id string, amount BaseQuantity) (Ingredient, error) {
	ing, err := l.mustGet(id)
	if err != nil {
		return Ingredient{}, err
	}
	if amount.IsNegative() {
		return Ingredient{}, fmt.Errorf("%w: deduction %s", ErrInvalidQuantity, amount)
	}
	ing.CurrentStock = ing.CurrentStock.Sub(amount).ClampZero()
	return *ing, nil
}

func (l *IngredientLedger) LowStock() []Ingredient {
	var out []Ingredient
	for _, id := range l.order {
		if ing := l.items[id]; ing.IsLowStock() {
			out = append(out, *ing)
		}
	}
	return out
}
