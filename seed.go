package stockroom

import (
	"time"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func base(s string) BaseQuantity {
	return NewBaseQuantity(dec(s))
}

// DefaultSnapshot is the starter data used when the store has nothing saved yet:
// five bakery ingredients, two products and one pending order due today.
func DefaultSnapshot(today Date, now time.Time) Snapshot {
	return Snapshot{
		Ingredients: []Ingredient{
			{ID: "1", Name: "Harina 0000", CurrentStock: base("50000"), Unit: UnitKilogram, CostPerUnit: dec("1.5"), MinStock: base("10000")},
			{ID: "2", Name: "Azúcar Blanca", CurrentStock: base("8000"), Unit: UnitKilogram, CostPerUnit: dec("2"), MinStock: base("10000")},
			{ID: "3", Name: "Huevos", CurrentStock: base("150"), Unit: UnitItem, CostPerUnit: dec("0.2"), MinStock: base("30")},
			{ID: "4", Name: "Leche Entera", CurrentStock: base("12000"), Unit: UnitLiter, CostPerUnit: dec("1.2"), MinStock: base("5000")},
			{ID: "5", Name: "Chocolate Cobertura", CurrentStock: base("2500"), Unit: UnitGram, CostPerUnit: dec("15"), MinStock: base("3000")},
		},
		Products: []Product{
			{
				ID:          "p1",
				Name:        "Torta de Chocolate",
				Price:       dec("35"),
				Description: "Bizcocho húmedo con ganache.",
				Recipe: []RecipeLine{
					{IngredientID: "1", Quantity: dec("500"), Unit: UnitGram},
					{IngredientID: "2", Quantity: dec("400"), Unit: UnitGram},
					{IngredientID: "3", Quantity: dec("4"), Unit: UnitItem},
					{IngredientID: "5", Quantity: dec("200"), Unit: UnitGram},
					{IngredientID: "4", Quantity: dec("250"), Unit: UnitMilliliter},
				},
			},
			{
				ID:          "p2",
				Name:        "Docena de Medialunas",
				Price:       dec("12"),
				Description: "Clásicas de manteca.",
				Recipe: []RecipeLine{
					{IngredientID: "1", Quantity: dec("600"), Unit: UnitGram},
					{IngredientID: "2", Quantity: dec("200"), Unit: UnitGram},
					{IngredientID: "3", Quantity: dec("2"), Unit: UnitItem},
					{IngredientID: "4", Quantity: dec("300"), Unit: UnitMilliliter},
				},
			},
		},
		Orders: []Order{
			{
				ID:           "o1",
				CustomerID:   "c1",
				CustomerName: "Juan Pérez",
				DeliveryDate: today,
				Status:       OrderStatusPending,
				Lines: []OrderLine{
					{ProductID: "p1", Quantity: 1},
					{ProductID: "p2", Quantity: 1},
				},
				TotalPrice: dec("47"),
				CreatedAt:  now,
			},
		},
		Customers: []Customer{
			{ID: "c1", Name: "Juan Pérez"},
		},
	}
}
