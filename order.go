package stockroom

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusInProgress,
	OrderStatusCompleted,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	st := OrderStatus(strings.TrimSpace(s))
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return st, nil
}

func (s OrderStatus) Valid() bool {
	for _, st := range OrderStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// Fulfilled reports whether goods have been produced for the order.
func (s OrderStatus) Fulfilled() bool {
	return s == OrderStatusCompleted || s == OrderStatusDelivered
}

// transition reports whether moving from -> to consumes stock. Every pair of statuses is
// allowed; only entering Completed from elsewhere has an inventory effect.
func transition(from, to OrderStatus) (deduct bool) {
	return to == OrderStatusCompleted && from != OrderStatusCompleted
}

const DateLayout = "2006-01-02"

// Date is a calendar day, YYYY-MM-DD.
type Date string

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("%w: delivery date %q", ErrInvalidInput, s)
	}
	return Date(t.Format(DateLayout)), nil
}

func DateOf(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

func (d Date) String() string { return string(d) }

type OrderLine struct {
	ProductID string
	Quantity  int
}

type Order struct {
	ID           string
	CustomerID   string
	CustomerName string
	DeliveryDate Date
	Status       OrderStatus
	Lines        []OrderLine
	TotalPrice   decimal.Decimal
	CreatedAt    time.Time
}

// ProductLookup is the read side of the recipe catalog the order ledger depends on.
type ProductLookup interface {
	Get(id string) (Product, bool)
}

type OrderLedger struct {
	products ProductLookup
	orders   map[string]*Order
	order    []string // newest first
}

func NewOrderLedger(products ProductLookup) *OrderLedger {
	return &OrderLedger{
		products: products,
		orders:   make(map[string]*Order),
	}
}

// NewOrderRequest is everything needed to open an order.
type NewOrderRequest struct {
	ID           string
	CustomerID   string
	CustomerName string
	DeliveryDate Date
	Lines        []OrderLine
}

// Create prices each line at the product's current price. The total is frozen; later
// price edits do not touch existing orders.
func (l *OrderLedger) Create(req NewOrderRequest, now time.Time) (Order, error) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if _, ok := l.orders[req.ID]; ok {
		return Order{}, fmt.Errorf("%w: order %s", ErrDuplicateID, req.ID)
	}
	if strings.TrimSpace(req.CustomerName) == "" {
		return Order{}, fmt.Errorf("%w: customer name is empty", ErrInvalidInput)
	}
	if _, err := ParseDate(string(req.DeliveryDate)); err != nil {
		return Order{}, err
	}
	if len(req.Lines) == 0 {
		return Order{}, fmt.Errorf("%w: order has no lines", ErrInvalidInput)
	}

	total := decimal.Zero
	for _, line := range req.Lines {
		if line.Quantity <= 0 {
			return Order{}, fmt.Errorf("%w: line quantity %d for product %s", ErrInvalidQuantity, line.Quantity, line.ProductID)
		}
		p, ok := l.products.Get(line.ProductID)
		if !ok {
			return Order{}, fmt.Errorf("%w: product %s", ErrNotFound, line.ProductID)
		}
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	o := &Order{
		ID:           req.ID,
		CustomerID:   req.CustomerID,
		CustomerName: strings.TrimSpace(req.CustomerName),
		DeliveryDate: req.DeliveryDate,
		Status:       OrderStatusPending,
		Lines:        append([]OrderLine(nil), req.Lines...),
		TotalPrice:   total,
		CreatedAt:    now,
	}
	l.orders[o.ID] = o
	l.order = append([]string{o.ID}, l.order...)
	return o.clone(), nil
}

// insert restores a persisted order, keeping the persisted ordering.
func (l *OrderLedger) insert(o Order) error {
	if o.ID == "" {
		return fmt.Errorf("%w: order without id", ErrInvalidInput)
	}
	if _, ok := l.orders[o.ID]; ok {
		return fmt.Errorf("%w: order %s", ErrDuplicateID, o.ID)
	}
	if !o.Status.Valid() {
		return fmt.Errorf("%w: order %s has status %q", ErrInvalidStatus, o.ID, o.Status)
	}
	stored := o.clone()
	l.orders[o.ID] = &stored
	l.order = append(l.order, o.ID)
	return nil
}

func (o Order) clone() Order {
	o.Lines = append([]OrderLine(nil), o.Lines...)
	return o
}

func (l *OrderLedger) Get(id string) (Order, bool) {
	o, ok := l.orders[id]
	if !ok {
		return Order{}, false
	}
	return o.clone(), true
}

func (l *OrderLedger) List() []Order {
	out := make([]Order, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.orders[id].clone())
	}
	return out
}

// Usage aggregates recipe consumption over every line. Lines whose product has been
// deleted are skipped.
func (l *OrderLedger) Usage(o Order) (Usage, error) {
	total := make(Usage)
	for _, line := range o.Lines {
		p, ok := l.products.Get(line.ProductID)
		if !ok {
			continue
		}
		u, err := ComputeUsage(p, line.Quantity)
		if err != nil {
			return nil, err
		}
		total.Merge(u)
	}
	return total, nil
}

// setStatus writes the new status and returns the usage to deduct, or nil when the
// transition carries no inventory effect.
func (l *OrderLedger) setStatus(id string, status OrderStatus) (Order, OrderStatus, Usage, error) {
	if !status.Valid() {
		return Order{}, "", nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	o, ok := l.orders[id]
	if !ok {
		return Order{}, "", nil, fmt.Errorf("%w: order %s", ErrNotFound, id)
	}
	prev := o.Status
	var usage Usage
	if transition(prev, status) {
		var err error
		usage, err = l.Usage(*o)
		if err != nil {
			return Order{}, "", nil, err
		}
	}
	o.Status = status
	return o.clone(), prev, usage, nil
}

func (l *OrderLedger) linkCustomer(orderID, customerID string) Order {
	o := l.orders[orderID]
	o.CustomerID = customerID
	return o.clone()
}

// Delete drops the order. Stock already consumed stays consumed.
func (l *OrderLedger) Delete(id string) error {
	if _, ok := l.orders[id]; !ok {
		return fmt.Errorf("%w: order %s", ErrNotFound, id)
	}
	delete(l.orders, id)
	for i := range l.order {
		if l.order[i] == id {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
	return nil
}
