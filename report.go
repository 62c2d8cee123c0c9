package stockroom

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Reports are pure functions of a Snapshot and are recomputed on every call.

func (s Snapshot) LowStock() []Ingredient {
	var out []Ingredient
	for _, ing := range s.Ingredients {
		if ing.IsLowStock() {
			out = append(out, ing)
		}
	}
	return out
}

func (s Snapshot) sumByStatus(status OrderStatus) (decimal.Decimal, int) {
	total := decimal.Zero
	n := 0
	for _, o := range s.Orders {
		if o.Status == status {
			total = total.Add(o.TotalPrice)
			n++
		}
	}
	return total, n
}

// Revenue sums delivered orders.
func (s Snapshot) Revenue() decimal.Decimal {
	total, _ := s.sumByStatus(OrderStatusDelivered)
	return total
}

// Loss sums cancelled orders.
func (s Snapshot) Loss() decimal.Decimal {
	total, _ := s.sumByStatus(OrderStatusCancelled)
	return total
}

// EffectivenessRate is revenue / (revenue + loss) as a percentage, 100 when both are zero.
func (s Snapshot) EffectivenessRate() decimal.Decimal {
	revenue := s.Revenue()
	processed := revenue.Add(s.Loss())
	if processed.IsZero() {
		return hundred
	}
	return RoundMoney(revenue.Div(processed).Mul(hundred))
}

func (s Snapshot) OrdersDueOn(d Date) []Order {
	var out []Order
	for _, o := range s.Orders {
		if o.DeliveryDate == d {
			out = append(out, o)
		}
	}
	return out
}

func (s Snapshot) PendingCount() int {
	_, n := s.sumByStatus(OrderStatusPending)
	return n
}

type FinancialSummary struct {
	Revenue           decimal.Decimal
	DeliveredCount    int
	Loss              decimal.Decimal
	CancelledCount    int
	EffectivenessRate decimal.Decimal
}

func (s Snapshot) Financials() FinancialSummary {
	revenue, delivered := s.sumByStatus(OrderStatusDelivered)
	loss, cancelled := s.sumByStatus(OrderStatusCancelled)
	return FinancialSummary{
		Revenue:           revenue,
		DeliveredCount:    delivered,
		Loss:              loss,
		CancelledCount:    cancelled,
		EffectivenessRate: s.EffectivenessRate(),
	}
}

type Dashboard struct {
	Today       Date
	TodayOrders int
	Pending     int
	LowStock    []Ingredient
	Financials  FinancialSummary
}

func (s Snapshot) Dashboard(today Date) Dashboard {
	return Dashboard{
		Today:       today,
		TodayOrders: len(s.OrdersDueOn(today)),
		Pending:     s.PendingCount(),
		LowStock:    s.LowStock(),
		Financials:  s.Financials(),
	}
}

// ProductionRequirement is the projected need for one ingredient across open orders.
type ProductionRequirement struct {
	IngredientID   string
	IngredientName string
	Unit           Unit
	TotalNeeded    BaseQuantity
	CurrentStock   BaseQuantity
	Missing        BaseQuantity
}

// ProductionRequirements aggregates the recipe usage of every pending and in-progress
// order and compares it with stock on hand. Ingredients are sorted by name.
func (s Snapshot) ProductionRequirements() ([]ProductionRequirement, error) {
	products := s.productIndex()
	usage := make(Usage)
	for _, o := range s.Orders {
		if o.Status.Fulfilled() || o.Status == OrderStatusCancelled {
			continue
		}
		for _, line := range o.Lines {
			p, ok := products[line.ProductID]
			if !ok {
				continue
			}
			u, err := ComputeUsage(p, line.Quantity)
			if err != nil {
				return nil, err
			}
			usage.Merge(u)
		}
	}

	ingredients := s.ingredientIndex()
	out := make([]ProductionRequirement, 0, len(usage))
	for id, needed := range usage {
		ing, ok := ingredients[id]
		if !ok {
			continue
		}
		out = append(out, ProductionRequirement{
			IngredientID:   id,
			IngredientName: ing.Name,
			Unit:           ing.Unit,
			TotalNeeded:    needed,
			CurrentStock:   ing.CurrentStock,
			Missing:        needed.Sub(ing.CurrentStock).ClampZero(),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IngredientName != out[j].IngredientName {
			return out[i].IngredientName < out[j].IngredientName
		}
		return out[i].IngredientID < out[j].IngredientID
	})
	return out, nil
}

type ProductCost struct {
	ProductID    string
	Name         string
	Price        decimal.Decimal
	VariableCost decimal.Decimal
	Margin       decimal.Decimal
}

// ProductCosting estimates each product's variable cost and margin from current
// ingredient costs.
func (s Snapshot) ProductCosting() ([]ProductCost, error) {
	catalog := NewRecipeCatalog(snapshotIngredients(s.ingredientIndex()))
	out := make([]ProductCost, 0, len(s.Products))
	for _, p := range s.Products {
		cost, err := catalog.EstimateVariableCost(p.Recipe)
		if err != nil {
			return nil, err
		}
		out = append(out, ProductCost{
			ProductID:    p.ID,
			Name:         p.Name,
			Price:        p.Price,
			VariableCost: cost,
			Margin:       p.Price.Sub(cost),
		})
	}
	return out, nil
}

type snapshotIngredients map[string]Ingredient

func (m snapshotIngredients) Get(id string) (Ingredient, bool) {
	ing, ok := m[id]
	return ing, ok
}
