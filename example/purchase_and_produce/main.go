package main

import (
	"fmt"
	"os"
	"stockroom"
	"stockroom/internal/logger"
	"time"

	"github.com/shopspring/decimal"
)

func printStock(s *stockroom.Stockroom, title string) {
	fmt.Println("==", title)
	for _, ing := range s.Ingredients() {
		low := ""
		if ing.IsLowStock() {
			low = "  (low)"
		}
		fmt.Printf("%-22s %12s  @ %s/%s%s\n", ing.Name, stockroom.FormatStock(ing.CurrentStock, ing.Unit), ing.CostPerUnit.StringFixed(2), ing.Unit, low)
	}
}

func run() error {
	log := logger.New(false, "info")
	store := stockroom.NewMemoryStore()
	s, err := stockroom.Open(store, "example", stockroom.WithLogger(log))
	if err != nil {
		return err
	}
	printStock(s, "starting stock")

	// buy 4 kg of sugar at 2.75/kg; the average cost moves from 2.00
	price := decimal.RequireFromString("2.75")
	sugar, err := s.Restock("2", stockroom.DisplayQuantity{Amount: decimal.NewFromInt(4), Unit: stockroom.UnitKilogram}, &price)
	if err != nil {
		return err
	}
	fmt.Printf("\nsugar after purchase: %s at %s/kg\n", stockroom.FormatStock(sugar.CurrentStock, sugar.Unit), sugar.CostPerUnit)

	tomorrow := stockroom.DateOf(time.Now().AddDate(0, 0, 1))
	order, err := s.CreateOrder("María Gómez", tomorrow, []stockroom.OrderLine{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 3},
	})
	if err != nil {
		return err
	}
	fmt.Printf("order %s for %s: total %s\n\n", order.ID, order.CustomerName, order.TotalPrice.StringFixed(2))

	reqs, err := s.Snapshot().ProductionRequirements()
	if err != nil {
		return err
	}
	fmt.Println("== production requirements")
	for _, r := range reqs {
		fmt.Printf("%-22s need %12s  missing %s\n", r.IngredientName, stockroom.FormatStock(r.TotalNeeded, r.Unit), stockroom.FormatStock(r.Missing, r.Unit))
	}
	fmt.Println()

	for _, status := range []stockroom.OrderStatus{stockroom.OrderStatusInProgress, stockroom.OrderStatusCompleted, stockroom.OrderStatusDelivered} {
		if _, err := s.SetOrderStatus(order.ID, status); err != nil {
			return err
		}
	}
	printStock(s, "after producing the order")

	dash := s.Dashboard()
	fmt.Printf("\nrevenue %s, effectiveness %s%%, %d pending, %d saves\n",
		dash.Financials.Revenue.StringFixed(2), dash.Financials.EffectivenessRate.StringFixed(2), dash.Pending, store.Saves())
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
