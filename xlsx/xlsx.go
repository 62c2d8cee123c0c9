package xlsx

import (
	"fmt"
	"io"
	"stockroom"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	SheetStock      = "Stock"
	SheetLowStock   = "Low Stock"
	SheetProduction = "Production"
	SheetCosting    = "Costing"
	SheetOrders     = "Orders"
)

var stockHeader = []any{"ID", "Name", "Stock", "Unit", "Min Stock", "Cost Per Unit"}

// Export writes a workbook with one sheet per report. Amounts are shown in each
// ingredient's display unit and money through cf.
func Export(w io.Writer, snap stockroom.Snapshot, cf *stockroom.CurrencyFormatter) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetStock); err != nil {
		return err
	}
	if err := writeIngredients(f, SheetStock, snap.Ingredients); err != nil {
		return err
	}
	if err := addSheet(f, SheetLowStock); err != nil {
		return err
	}
	if err := writeIngredients(f, SheetLowStock, snap.LowStock()); err != nil {
		return err
	}

	reqs, err := snap.ProductionRequirements()
	if err != nil {
		return err
	}
	if err := addSheet(f, SheetProduction); err != nil {
		return err
	}
	rows := [][]any{{"Ingredient", "Unit", "Needed", "In Stock", "Missing"}}
	for _, r := range reqs {
		rows = append(rows, []any{
			r.IngredientName,
			string(r.Unit),
			display(r.TotalNeeded, r.Unit),
			display(r.CurrentStock, r.Unit),
			display(r.Missing, r.Unit),
		})
	}
	if err := writeRows(f, SheetProduction, rows); err != nil {
		return err
	}

	costs, err := snap.ProductCosting()
	if err != nil {
		return err
	}
	if err := addSheet(f, SheetCosting); err != nil {
		return err
	}
	rows = [][]any{{"Product", "Price", "Variable Cost", "Margin"}}
	for _, c := range costs {
		rows = append(rows, []any{c.Name, cf.Format(c.Price), cf.Format(c.VariableCost), cf.Format(c.Margin)})
	}
	if err := writeRows(f, SheetCosting, rows); err != nil {
		return err
	}

	if err := addSheet(f, SheetOrders); err != nil {
		return err
	}
	rows = [][]any{{"ID", "Customer", "Delivery", "Status", "Total"}}
	for _, o := range snap.Orders {
		rows = append(rows, []any{o.ID, o.CustomerName, string(o.DeliveryDate), string(o.Status), cf.Format(o.TotalPrice)})
	}
	if err := writeRows(f, SheetOrders, rows); err != nil {
		return err
	}

	_, err = f.WriteTo(w)
	return err
}

func addSheet(f *excelize.File, name string) error {
	_, err := f.NewSheet(name)
	return err
}

func writeIngredients(f *excelize.File, sheet string, ingredients []stockroom.Ingredient) error {
	rows := [][]any{stockHeader}
	for _, ing := range ingredients {
		rows = append(rows, []any{
			ing.ID,
			ing.Name,
			display(ing.CurrentStock, ing.Unit),
			string(ing.Unit),
			display(ing.MinStock, ing.Unit),
			ing.CostPerUnit.String(),
		})
	}
	return writeRows(f, sheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return err
		}
	}
	return nil
}

func display(q stockroom.BaseQuantity, unit stockroom.Unit) string {
	dq, err := stockroom.FromBase(q, unit)
	if err != nil {
		return q.String()
	}
	return dq.Amount.String()
}

// ReadIngredients parses the Stock sheet of a workbook in the layout Export writes.
// Blank rows are skipped.
func ReadIngredients(r io.Reader) ([]stockroom.Ingredient, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetStock)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", SheetStock, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %s is empty", stockroom.ErrInvalidInput, SheetStock)
	}

	var out []stockroom.Ingredient
	for i, row := range rows[1:] {
		if len(row) == 0 || strings.TrimSpace(strings.Join(row, "")) == "" {
			continue
		}
		ing, err := parseIngredientRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		out = append(out, ing)
	}
	return out, nil
}

func parseIngredientRow(row []string) (stockroom.Ingredient, error) {
	for len(row) < len(stockHeader) {
		row = append(row, "")
	}
	unit, err := stockroom.ParseUnit(row[3])
	if err != nil {
		return stockroom.Ingredient{}, err
	}
	stock, err := parseDisplay(row[2], unit)
	if err != nil {
		return stockroom.Ingredient{}, err
	}
	minStock, err := parseDisplay(row[4], unit)
	if err != nil {
		return stockroom.Ingredient{}, err
	}
	cost, err := stockroom.ParseQuantity(orZero(row[5]))
	if err != nil {
		return stockroom.Ingredient{}, err
	}
	return stockroom.Ingredient{
		ID:           strings.TrimSpace(row[0]),
		Name:         strings.TrimSpace(row[1]),
		CurrentStock: stock,
		Unit:         unit,
		CostPerUnit:  cost,
		MinStock:     minStock,
	}, nil
}

func parseDisplay(s string, unit stockroom.Unit) (stockroom.BaseQuantity, error) {
	amount, err := stockroom.ParseQuantity(orZero(s))
	if err != nil {
		return stockroom.BaseQuantity{}, err
	}
	return stockroom.ToBase(amount, unit)
}

func orZero(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "0"
	}
	return s
}
