package stockmsgpack

import (
	"fmt"
	"stockroom"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vmihailenco/msgpack/v5"
)

// Decimals travel as strings so no precision is lost; stock amounts are base units
// and costs are per display unit, exactly as in the domain model.

type Ingredient struct {
	ID           string `msgpack:"id"`
	Name         string `msgpack:"name,omitempty"`
	CurrentStock string `msgpack:"current_stock"`
	Unit         string `msgpack:"unit"`
	CostPerUnit  string `msgpack:"cost_per_unit"`
	MinStock     string `msgpack:"min_stock"`
}

type RecipeLine struct {
	IngredientID string `msgpack:"ingredient_id"`
	Quantity     string `msgpack:"quantity"`
	Unit         string `msgpack:"unit"`
}

type Product struct {
	ID          string       `msgpack:"id"`
	Name        string       `msgpack:"name,omitempty"`
	Price       string       `msgpack:"price"`
	Description string       `msgpack:"description,omitempty"`
	Recipe      []RecipeLine `msgpack:"recipe,omitempty"`
}

type OrderLine struct {
	ProductID string `msgpack:"product_id"`
	Quantity  int    `msgpack:"quantity"`
}

type Order struct {
	ID           string      `msgpack:"id"`
	CustomerID   string      `msgpack:"customer_id,omitempty"`
	CustomerName string      `msgpack:"customer_name"`
	DeliveryDate string      `msgpack:"delivery_date"`
	Status       string      `msgpack:"status"`
	Lines        []OrderLine `msgpack:"lines,omitempty"`
	TotalPrice   string      `msgpack:"total_price"`
	CreatedAtNs  int64       `msgpack:"created_at,omitempty"`
}

type Customer struct {
	ID    string `msgpack:"id"`
	Name  string `msgpack:"name"`
	Phone string `msgpack:"phone,omitempty"`
}

const SnapshotVersion = 1

type Snapshot struct {
	Version     int          `msgpack:"version"`
	SavedAtMs   int64        `msgpack:"saved_at,omitempty"`
	Ingredients []Ingredient `msgpack:"ingredients,omitempty"`
	Products    []Product    `msgpack:"products,omitempty"`
	Orders      []Order      `msgpack:"orders,omitempty"`
	Customers   []Customer   `msgpack:"customers,omitempty"`
}

func NewIngredient(ing stockroom.Ingredient) Ingredient {
	return Ingredient{
		ID:           ing.ID,
		Name:         ing.Name,
		CurrentStock: ing.CurrentStock.String(),
		Unit:         string(ing.Unit),
		CostPerUnit:  ing.CostPerUnit.String(),
		MinStock:     ing.MinStock.String(),
	}
}

func ToInvIngredient(ing *Ingredient) (stockroom.Ingredient, error) {
	stock, err := parseDecimal("current_stock", ing.CurrentStock)
	if err != nil {
		return stockroom.Ingredient{}, err
	}
	minStock, err := parseDecimal("min_stock", ing.MinStock)
	if err != nil {
		return stockroom.Ingredient{}, err
	}
	cost, err := parseDecimal("cost_per_unit", ing.CostPerUnit)
	if err != nil {
		return stockroom.Ingredient{}, err
	}
	unit, err := stockroom.ParseUnit(ing.Unit)
	if err != nil {
		return stockroom.Ingredient{}, err
	}
	return stockroom.Ingredient{
		ID:           ing.ID,
		Name:         ing.Name,
		CurrentStock: stockroom.NewBaseQuantity(stock),
		Unit:         unit,
		CostPerUnit:  cost,
		MinStock:     stockroom.NewBaseQuantity(minStock),
	}, nil
}

func NewRecipeLine(line stockroom.RecipeLine) RecipeLine {
	return RecipeLine{
		IngredientID: line.IngredientID,
		Quantity:     line.Quantity.String(),
		Unit:         string(line.Unit),
	}
}

func ToInvRecipeLine(line *RecipeLine) (stockroom.RecipeLine, error) {
	qty, err := parseDecimal("quantity", line.Quantity)
	if err != nil {
		return stockroom.RecipeLine{}, err
	}
	unit, err := stockroom.ParseUnit(line.Unit)
	if err != nil {
		return stockroom.RecipeLine{}, err
	}
	return stockroom.RecipeLine{IngredientID: line.IngredientID, Quantity: qty, Unit: unit}, nil
}

func NewProduct(p stockroom.Product) Product {
	var lines []RecipeLine
	for i := range p.Recipe {
		lines = append(lines, NewRecipeLine(p.Recipe[i]))
	}
	return Product{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price.String(),
		Description: p.Description,
		Recipe:      lines,
	}
}

func ToInvProduct(p *Product) (stockroom.Product, error) {
	price, err := parseDecimal("price", p.Price)
	if err != nil {
		return stockroom.Product{}, err
	}
	out := stockroom.Product{
		ID:          p.ID,
		Name:        p.Name,
		Price:       price,
		Description: p.Description,
	}
	for i := range p.Recipe {
		line, err := ToInvRecipeLine(&p.Recipe[i])
		if err != nil {
			return stockroom.Product{}, fmt.Errorf("product %s: %w", p.ID, err)
		}
		out.Recipe = append(out.Recipe, line)
	}
	return out, nil
}

func NewOrderLines(lines []stockroom.OrderLine) []OrderLine {
	out := make([]OrderLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, OrderLine{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return out
}

func ToInvOrderLines(lines []OrderLine) []stockroom.OrderLine {
	out := make([]stockroom.OrderLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, stockroom.OrderLine{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return out
}

func NewOrder(o stockroom.Order) Order {
	var createdAt int64
	if !o.CreatedAt.IsZero() {
		createdAt = o.CreatedAt.UnixNano()
	}
	return Order{
		ID:           o.ID,
		CustomerID:   o.CustomerID,
		CustomerName: o.CustomerName,
		DeliveryDate: string(o.DeliveryDate),
		Status:       string(o.Status),
		Lines:        NewOrderLines(o.Lines),
		TotalPrice:   o.TotalPrice.String(),
		CreatedAtNs:  createdAt,
	}
}

func ToInvOrder(o *Order) (stockroom.Order, error) {
	total, err := parseDecimal("total_price", o.TotalPrice)
	if err != nil {
		return stockroom.Order{}, err
	}
	status, err := stockroom.ParseOrderStatus(o.Status)
	if err != nil {
		return stockroom.Order{}, err
	}
	date, err := stockroom.ParseDate(o.DeliveryDate)
	if err != nil {
		return stockroom.Order{}, err
	}
	out := stockroom.Order{
		ID:           o.ID,
		CustomerID:   o.CustomerID,
		CustomerName: o.CustomerName,
		DeliveryDate: date,
		Status:       status,
		Lines:        ToInvOrderLines(o.Lines),
		TotalPrice:   total,
	}
	if o.CreatedAtNs != 0 {
		out.CreatedAt = time.Unix(0, o.CreatedAtNs).UTC()
	}
	return out, nil
}

func NewCustomer(c stockroom.Customer) Customer {
	return Customer{ID: c.ID, Name: c.Name, Phone: c.Phone}
}

func ToInvCustomer(c *Customer) stockroom.Customer {
	return stockroom.Customer{ID: c.ID, Name: c.Name, Phone: c.Phone}
}

func NewSnapshot(snap stockroom.Snapshot, savedAt time.Time) Snapshot {
	out := Snapshot{Version: SnapshotVersion}
	if !savedAt.IsZero() {
		out.SavedAtMs = savedAt.UnixMilli()
	}
	for _, ing := range snap.Ingredients {
		out.Ingredients = append(out.Ingredients, NewIngredient(ing))
	}
	for _, p := range snap.Products {
		out.Products = append(out.Products, NewProduct(p))
	}
	for _, o := range snap.Orders {
		out.Orders = append(out.Orders, NewOrder(o))
	}
	for _, c := range snap.Customers {
		out.Customers = append(out.Customers, NewCustomer(c))
	}
	return out
}

func ToInvSnapshot(snap *Snapshot) (stockroom.Snapshot, error) {
	if snap.Version > SnapshotVersion {
		return stockroom.Snapshot{}, fmt.Errorf("snapshot version %d is newer than supported %d", snap.Version, SnapshotVersion)
	}
	var out stockroom.Snapshot
	for i := range snap.Ingredients {
		ing, err := ToInvIngredient(&snap.Ingredients[i])
		if err != nil {
			return stockroom.Snapshot{}, fmt.Errorf("ingredient %s: %w", snap.Ingredients[i].ID, err)
		}
		out.Ingredients = append(out.Ingredients, ing)
	}
	for i := range snap.Products {
		p, err := ToInvProduct(&snap.Products[i])
		if err != nil {
			return stockroom.Snapshot{}, err
		}
		out.Products = append(out.Products, p)
	}
	for i := range snap.Orders {
		o, err := ToInvOrder(&snap.Orders[i])
		if err != nil {
			return stockroom.Snapshot{}, fmt.Errorf("order %s: %w", snap.Orders[i].ID, err)
		}
		out.Orders = append(out.Orders, o)
	}
	for i := range snap.Customers {
		out.Customers = append(out.Customers, ToInvCustomer(&snap.Customers[i]))
	}
	return out, nil
}

func MarshalSnapshot(snap stockroom.Snapshot, savedAt time.Time) ([]byte, error) {
	wire := NewSnapshot(snap, savedAt)
	return msgpack.Marshal(&wire)
}

func UnmarshalSnapshot(data []byte) (stockroom.Snapshot, error) {
	var wire Snapshot
	if err := msgpack.Unmarshal(data, &wire); err != nil {
		return stockroom.Snapshot{}, err
	}
	return ToInvSnapshot(&wire)
}

func parseDecimal(field, s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", field, stockroom.ErrInvalidQuantity)
	}
	return d, nil
}
