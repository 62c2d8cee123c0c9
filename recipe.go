package stockroom

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecipeLine is the amount of one ingredient needed for a single unit of product,
// in any unit of the ingredient's family.
type RecipeLine struct {
	IngredientID string
	Quantity     decimal.Decimal
	Unit         Unit
}

type Product struct {
	ID          string
	Name        string
	Price       decimal.Decimal
	Description string
	Recipe      []RecipeLine
}

// Usage maps ingredient id to the base amount consumed.
type Usage map[string]BaseQuantity

// Merge accumulates other into u.
func (u Usage) Merge(other Usage) {
	for id, q := range other {
		u[id] = u[id].Add(q)
	}
}

// IngredientLookup is the read side of the ingredient ledger the catalog depends on.
type IngredientLookup interface {
	Get(id string) (Ingredient, bool)
}

type RecipeCatalog struct {
	ingredients IngredientLookup
	products    map[string]*Product
	order       []string
}

func NewRecipeCatalog(ingredients IngredientLookup) *RecipeCatalog {
	return &RecipeCatalog{
		ingredients: ingredients,
		products:    make(map[string]*Product),
	}
}

func (c *RecipeCatalog) validateLine(line RecipeLine) error {
	ing, ok := c.ingredients.Get(line.IngredientID)
	if !ok {
		return fmt.Errorf("%w: ingredient %s", ErrNotFound, line.IngredientID)
	}
	same, err := SameFamily(ing.Unit, line.Unit)
	if err != nil {
		return err
	}
	if !same {
		return fmt.Errorf("%w: %s is measured in %s, recipe uses %s",
			ErrIncompatibleUnitFamily, ing.Name, ing.Unit.Family(), line.Unit.Family())
	}
	if !line.Quantity.IsPositive() {
		return fmt.Errorf("%w: recipe quantity %s for %s", ErrInvalidQuantity, line.Quantity, ing.Name)
	}
	return nil
}

func (c *RecipeCatalog) Add(p Product) (Product, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if _, ok := c.products[p.ID]; ok {
		return Product{}, fmt.Errorf("%w: product %s", ErrDuplicateID, p.ID)
	}
	if strings.TrimSpace(p.Name) == "" {
		return Product{}, fmt.Errorf("%w: product name is empty", ErrInvalidInput)
	}
	if p.Price.IsNegative() {
		return Product{}, fmt.Errorf("%w: product price %s", ErrInvalidQuantity, p.Price)
	}
	for _, line := range p.Recipe {
		if err := c.validateLine(line); err != nil {
			return Product{}, err
		}
	}
	stored := p
	stored.Recipe = append([]RecipeLine(nil), p.Recipe...)
	c.products[p.ID] = &stored
	c.order = append(c.order, p.ID)
	return stored, nil
}

// Delete removes the product. Orders that still reference it are left alone.
func (c *RecipeCatalog) Delete(id string) error {
	if _, ok := c.products[id]; !ok {
		return fmt.Errorf("%w: product %s", ErrNotFound, id)
	}
	delete(c.products, id)
	for i := range c.order {
		if c.order[i] == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

func (c *RecipeCatalog) Get(id string) (Product, bool) {
	p, ok := c.products[id]
	if !ok {
		return Product{}, false
	}
	out := *p
	out.Recipe = append([]RecipeLine(nil), p.Recipe...)
	return out, true
}

func (c *RecipeCatalog) List() []Product {
	out := make([]Product, 0, len(c.order))
	for _, id := range c.order {
		p, _ := c.Get(id)
		out = append(out, p)
	}
	return out
}

// ComputeUsage scales the per-unit recipe by multiplier, in base units.
func ComputeUsage(p Product, multiplier int) (Usage, error) {
	if multiplier < 0 {
		return nil, fmt.Errorf("%w: multiplier %d", ErrInvalidQuantity, multiplier)
	}
	usage := make(Usage, len(p.Recipe))
	for _, line := range p.Recipe {
		perUnit, err := ToBase(line.Quantity, line.Unit)
		if err != nil {
			return nil, fmt.Errorf("product %s: %w", p.ID, err)
		}
		usage[line.IngredientID] = usage[line.IngredientID].Add(perUnit.Mul(int64(multiplier)))
	}
	return usage, nil
}

// EstimateVariableCost prices recipe lines at current ingredient costs. Lines whose
// ingredient no longer exists contribute nothing.
func (c *RecipeCatalog) EstimateVariableCost(lines []RecipeLine) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, line := range lines {
		ing, ok := c.ingredients.Get(line.IngredientID)
		if !ok {
			continue
		}
		qty := line.Quantity
		if line.Unit != ing.Unit {
			var err error
			qty, err = Convert(line.Quantity, line.Unit, ing.Unit)
			if err != nil {
				return decimal.Zero, err
			}
		}
		total = total.Add(qty.Mul(ing.CostPerUnit))
	}
	return RoundMoney(total), nil
}
