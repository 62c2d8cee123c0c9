package stockrpc

import (
	"stockroom"
	stockmsgpack "stockroom/msgpack"

	"github.com/shopspring/decimal"
)

// Request arguments. Amounts are decimal strings; stock amounts are given in the
// unit named next to them.

type IDArg struct {
	ID string `msgpack:"id" validate:"required"`
}

type IngredientArg struct {
	ID          string `msgpack:"id"`
	Name        string `msgpack:"name" validate:"required,max=100"`
	Unit        string `msgpack:"unit" validate:"required,oneof=g kg ml L l u"`
	Stock       string `msgpack:"stock" validate:"omitempty,numeric"`
	CostPerUnit string `msgpack:"cost_per_unit" validate:"omitempty,numeric"`
	MinStock    string `msgpack:"min_stock" validate:"omitempty,numeric"`
}

type UpdateIngredientArg struct {
	ID          string  `msgpack:"id" validate:"required"`
	Name        *string `msgpack:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Unit        *string `msgpack:"unit,omitempty" validate:"omitempty,oneof=g kg ml L l u"`
	CostPerUnit *string `msgpack:"cost_per_unit,omitempty" validate:"omitempty,numeric"`
	// In the ingredient's unit after the edit.
	MinStock *string `msgpack:"min_stock,omitempty" validate:"omitempty,numeric"`
}

type StockArg struct {
	ID               string  `msgpack:"id" validate:"required"`
	Amount           string  `msgpack:"amount" validate:"required,numeric"`
	Unit             string  `msgpack:"unit" validate:"required,oneof=g kg ml L l u"`
	PurchaseUnitCost *string `msgpack:"purchase_unit_cost,omitempty" validate:"omitempty,numeric"`
}

type RecipeLineArg struct {
	IngredientID string `msgpack:"ingredient_id" validate:"required"`
	Quantity     string `msgpack:"quantity" validate:"required,numeric"`
	Unit         string `msgpack:"unit" validate:"required,oneof=g kg ml L l u"`
}

type ProductArg struct {
	ID          string          `msgpack:"id"`
	Name        string          `msgpack:"name" validate:"required,max=100"`
	Price       string          `msgpack:"price" validate:"required,numeric"`
	Description string          `msgpack:"description"`
	Recipe      []RecipeLineArg `msgpack:"recipe" validate:"dive"`
}

type CostArg struct {
	Recipe []RecipeLineArg `msgpack:"recipe" validate:"required,dive"`
}

type CustomerArg struct {
	ID    string `msgpack:"id"`
	Name  string `msgpack:"name" validate:"required,max=100"`
	Phone string `msgpack:"phone"`
}

type OrderLineArg struct {
	ProductID string `msgpack:"product_id" validate:"required"`
	Quantity  int    `msgpack:"quantity" validate:"required,gt=0"`
}

type OrderArg struct {
	ID           string         `msgpack:"id"`
	CustomerID   string         `msgpack:"customer_id"`
	CustomerName string         `msgpack:"customer_name" validate:"required_without=CustomerID"`
	DeliveryDate string         `msgpack:"delivery_date" validate:"required,datetime=2006-01-02"`
	Lines        []OrderLineArg `msgpack:"lines" validate:"required,min=1,dive"`
}

type StatusArg struct {
	ID     string `msgpack:"id" validate:"required"`
	Status string `msgpack:"status" validate:"required,oneof=pending in_progress completed delivered cancelled"`
}

// Results. Entities travel in their persisted wire shape.

type CostResult struct {
	Cost string `msgpack:"cost"`
}

type DashboardResult struct {
	Today             string                    `msgpack:"today"`
	TodayOrders       int                       `msgpack:"today_orders"`
	Pending           int                       `msgpack:"pending"`
	LowStock          []stockmsgpack.Ingredient `msgpack:"low_stock"`
	Revenue           string                    `msgpack:"revenue"`
	DeliveredCount    int                       `msgpack:"delivered_count"`
	Loss              string                    `msgpack:"loss"`
	CancelledCount    int                       `msgpack:"cancelled_count"`
	EffectivenessRate string                    `msgpack:"effectiveness_rate"`
}

// RequirementResult amounts are in the ingredient's display unit.
type RequirementResult struct {
	IngredientID string `msgpack:"ingredient_id"`
	Name         string `msgpack:"name"`
	Unit         string `msgpack:"unit"`
	TotalNeeded  string `msgpack:"total_needed"`
	CurrentStock string `msgpack:"current_stock"`
	Missing      string `msgpack:"missing"`
}

type ProductCostResult struct {
	ProductID    string `msgpack:"product_id"`
	Name         string `msgpack:"name"`
	Price        string `msgpack:"price"`
	VariableCost string `msgpack:"variable_cost"`
	Margin       string `msgpack:"margin"`
}

func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return stockroom.ParseQuantity(s)
}

func (a *IngredientArg) toIngredient() (stockroom.Ingredient, error) {
	unit, err := stockroom.ParseUnit(a.Unit)
	if err != nil {
		return stockroom.Ingredient{}, err
	}
	stock, err := displayToBase(a.Stock, unit)
	if err != nil {
		return stockroom.Ingredient{}, err
	}
	minStock, err := displayToBase(a.MinStock, unit)
	if err != nil {
		return stockroom.Ingredient{}, err
	}
	cost, err := parseAmount(a.CostPerUnit)
	if err != nil {
		return stockroom.Ingredient{}, err
	}
	return stockroom.Ingredient{
		ID:           a.ID,
		Name:         a.Name,
		CurrentStock: stock,
		Unit:         unit,
		CostPerUnit:  cost,
		MinStock:     minStock,
	}, nil
}

func displayToBase(s string, unit stockroom.Unit) (stockroom.BaseQuantity, error) {
	amount, err := parseAmount(s)
	if err != nil {
		return stockroom.BaseQuantity{}, err
	}
	return stockroom.ToBase(amount, unit)
}

// toEdit resolves the edit against current, the ingredient as it is before the edit.
func (a *UpdateIngredientArg) toEdit(current stockroom.Ingredient) (stockroom.IngredientEdit, error) {
	var edit stockroom.IngredientEdit
	edit.Name = a.Name
	unit := current.Unit
	if a.Unit != nil {
		u, err := stockroom.ParseUnit(*a.Unit)
		if err != nil {
			return edit, err
		}
		unit = u
		edit.Unit = &u
	}
	if a.CostPerUnit != nil {
		cost, err := parseAmount(*a.CostPerUnit)
		if err != nil {
			return edit, err
		}
		edit.CostPerUnit = &cost
	}
	if a.MinStock != nil {
		minStock, err := displayToBase(*a.MinStock, unit)
		if err != nil {
			return edit, err
		}
		edit.MinStock = &minStock
	}
	return edit, nil
}

func (a *StockArg) toDisplay() (stockroom.DisplayQuantity, *decimal.Decimal, error) {
	unit, err := stockroom.ParseUnit(a.Unit)
	if err != nil {
		return stockroom.DisplayQuantity{}, nil, err
	}
	amount, err := parseAmount(a.Amount)
	if err != nil {
		return stockroom.DisplayQuantity{}, nil, err
	}
	var cost *decimal.Decimal
	if a.PurchaseUnitCost != nil {
		c, err := parseAmount(*a.PurchaseUnitCost)
		if err != nil {
			return stockroom.DisplayQuantity{}, nil, err
		}
		cost = &c
	}
	return stockroom.DisplayQuantity{Amount: amount, Unit: unit}, cost, nil
}

func toRecipe(lines []RecipeLineArg) ([]stockroom.RecipeLine, error) {
	out := make([]stockroom.RecipeLine, 0, len(lines))
	for _, l := range lines {
		unit, err := stockroom.ParseUnit(l.Unit)
		if err != nil {
			return nil, err
		}
		qty, err := parseAmount(l.Quantity)
		if err != nil {
			return nil, err
		}
		out = append(out, stockroom.RecipeLine{IngredientID: l.IngredientID, Quantity: qty, Unit: unit})
	}
	return out, nil
}

func (a *ProductArg) toProduct() (stockroom.Product, error) {
	price, err := parseAmount(a.Price)
	if err != nil {
		return stockroom.Product{}, err
	}
	recipe, err := toRecipe(a.Recipe)
	if err != nil {
		return stockroom.Product{}, err
	}
	return stockroom.Product{
		ID:          a.ID,
		Name:        a.Name,
		Price:       price,
		Description: a.Description,
		Recipe:      recipe,
	}, nil
}

func (a *OrderArg) toRequest() (stockroom.NewOrderRequest, error) {
	date, err := stockroom.ParseDate(a.DeliveryDate)
	if err != nil {
		return stockroom.NewOrderRequest{}, err
	}
	lines := make([]stockroom.OrderLine, 0, len(a.Lines))
	for _, l := range a.Lines {
		lines = append(lines, stockroom.OrderLine{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return stockroom.NewOrderRequest{
		ID:           a.ID,
		CustomerID:   a.CustomerID,
		CustomerName: a.CustomerName,
		DeliveryDate: date,
		Lines:        lines,
	}, nil
}

func newDashboardResult(d stockroom.Dashboard) DashboardResult {
	lowStock := make([]stockmsgpack.Ingredient, 0, len(d.LowStock))
	for _, ing := range d.LowStock {
		lowStock = append(lowStock, stockmsgpack.NewIngredient(ing))
	}
	return DashboardResult{
		Today:             string(d.Today),
		TodayOrders:       d.TodayOrders,
		Pending:           d.Pending,
		LowStock:          lowStock,
		Revenue:           d.Financials.Revenue.String(),
		DeliveredCount:    d.Financials.DeliveredCount,
		Loss:              d.Financials.Loss.String(),
		CancelledCount:    d.Financials.CancelledCount,
		EffectivenessRate: d.Financials.EffectivenessRate.String(),
	}
}

func newRequirementResult(r stockroom.ProductionRequirement) RequirementResult {
	display := func(q stockroom.BaseQuantity) string {
		dq, err := stockroom.FromBase(q, r.Unit)
		if err != nil {
			return q.String()
		}
		return dq.Amount.String()
	}
	return RequirementResult{
		IngredientID: r.IngredientID,
		Name:         r.IngredientName,
		Unit:         string(r.Unit),
		TotalNeeded:  display(r.TotalNeeded),
		CurrentStock: display(r.CurrentStock),
		Missing:      display(r.Missing),
	}
}

func newProductCostResult(c stockroom.ProductCost) ProductCostResult {
	return ProductCostResult{
		ProductID:    c.ProductID,
		Name:         c.Name,
		Price:        c.Price.String(),
		VariableCost: c.VariableCost.String(),
		Margin:       c.Margin.String(),
	}
}
