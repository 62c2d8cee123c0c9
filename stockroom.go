package stockroom

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Stockroom owns all domain state and is its only mutator. Every command runs to
// completion under one lock, then observers receive the resulting snapshot.
type Stockroom struct {
	mutex       sync.Mutex
	ingredients *IngredientLedger
	catalog     *RecipeCatalog
	orders      *OrderLedger
	customers   *CustomerBook

	hooks  []HookFunc
	logger zerolog.Logger
	now    func() time.Time
}

type Option func(*Stockroom)

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Stockroom) { s.logger = logger }
}

func WithClock(now func() time.Time) Option {
	return func(s *Stockroom) { s.now = now }
}

func WithHook(hook HookFunc) Option {
	return func(s *Stockroom) { s.hooks = append(s.hooks, hook) }
}

func New(opts ...Option) *Stockroom {
	s := &Stockroom{
		ingredients: NewIngredientLedger(),
		customers:   NewCustomerBook(),
		logger:      zerolog.Nop(),
		now:         time.Now,
	}
	s.catalog = NewRecipeCatalog(s.ingredients)
	s.orders = NewOrderLedger(s.catalog)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FromSnapshot rebuilds a Stockroom from persisted state. Ingredients are restored
// before products so recipe lines can be checked against them.
func FromSnapshot(snap Snapshot, opts ...Option) (*Stockroom, error) {
	s := New(opts...)
	for _, ing := range snap.Ingredients {
		if _, err := s.ingredients.Add(ing); err != nil {
			return nil, fmt.Errorf("restore ingredient %s: %w", ing.ID, err)
		}
	}
	for _, p := range snap.Products {
		if _, err := s.catalog.Add(p); err != nil {
			return nil, fmt.Errorf("restore product %s: %w", p.ID, err)
		}
	}
	for _, c := range snap.Customers {
		if _, err := s.customers.Add(c); err != nil {
			return nil, fmt.Errorf("restore customer %s: %w", c.ID, err)
		}
	}
	for _, o := range snap.Orders {
		if err := s.orders.insert(o); err != nil {
			return nil, fmt.Errorf("restore order %s: %w", o.ID, err)
		}
	}
	return s, nil
}

// Open loads the snapshot saved under key, falling back to DefaultSnapshot, and
// registers a hook that saves back to the same store after every mutation.
func Open(store StateStore, key string, opts ...Option) (*Stockroom, error) {
	snap, ok, err := store.LoadState(key)
	if err != nil {
		return nil, fmt.Errorf("load state %q: %w", key, err)
	}
	configured := New(opts...)
	if !ok {
		now := configured.now()
		snap = DefaultSnapshot(DateOf(now), now)
		configured.logger.Info().Str("key", key).Msg("no saved state, starting from defaults")
	}
	s, err := FromSnapshot(snap, opts...)
	if err != nil {
		return nil, err
	}
	s.hooks = append(s.hooks, PersistTo(store, key))
	return s, nil
}

func (s *Stockroom) AddHook(hook HookFunc) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.hooks = append(s.hooks, hook)
}

func (s *Stockroom) snapshotLocked() Snapshot {
	return Snapshot{
		Ingredients: s.ingredients.List(),
		Products:    s.catalog.List(),
		Orders:      s.orders.List(),
		Customers:   s.customers.List(),
	}
}

func (s *Stockroom) Snapshot() Snapshot {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.snapshotLocked()
}

// commit is called with the lock held; it releases it before running hooks.
func (s *Stockroom) commit(ev Event) {
	ev.At = s.now()
	snap := s.snapshotLocked()
	hooks := append([]HookFunc(nil), s.hooks...)
	s.mutex.Unlock()

	s.logger.Debug().Str("op", ev.Op).Str("collection", string(ev.Collection)).Str("id", ev.ID).Msg("mutation applied")
	for _, hook := range hooks {
		if err := hook(ev, snap); err != nil {
			s.logger.Error().Err(err).Str("op", ev.Op).Str("id", ev.ID).Msg("hook failed")
		}
	}
}

func (s *Stockroom) AddIngredient(ing Ingredient) (Ingredient, error) {
	s.mutex.Lock()
	added, err := s.ingredients.Add(ing)
	if err != nil {
		s.mutex.Unlock()
		return Ingredient{}, err
	}
	s.commit(Event{Op: OpAddIngredient, Collection: CollectionIngredients, ID: added.ID})
	return added, nil
}

func (s *Stockroom) UpdateIngredient(id string, edit IngredientEdit) (Ingredient, error) {
	s.mutex.Lock()
	updated, err := s.ingredients.Update(id, edit)
	if err != nil {
		s.mutex.Unlock()
		return Ingredient{}, err
	}
	s.commit(Event{Op: OpUpdateIngredient, Collection: CollectionIngredients, ID: id})
	return updated, nil
}

// SetStockLevel sets the on-hand amount in base units; see IngredientLedger.SetStockLevel
// for when purchaseUnitCost moves the average cost.
func (s *Stockroom) SetStockLevel(id string, newAmount BaseQuantity, purchaseUnitCost *decimal.Decimal) (Ingredient, error) {
	s.mutex.Lock()
	updated, err := s.ingredients.SetStockLevel(id, newAmount, purchaseUnitCost)
	if err != nil {
		s.mutex.Unlock()
		return Ingredient{}, err
	}
	s.commit(Event{Op: OpSetStockLevel, Collection: CollectionIngredients, ID: id})
	return updated, nil
}

// SetStockAmount is SetStockLevel with the new amount given in any unit of the
// ingredient's family.
func (s *Stockroom) SetStockAmount(id string, amount DisplayQuantity, purchaseUnitCost *decimal.Decimal) (Ingredient, error) {
	s.mutex.Lock()
	if _, err := s.familyCheckLocked(id, amount.Unit); err != nil {
		s.mutex.Unlock()
		return Ingredient{}, err
	}
	level, err := amount.Base()
	if err != nil {
		s.mutex.Unlock()
		return Ingredient{}, err
	}
	updated, err := s.ingredients.SetStockLevel(id, level, purchaseUnitCost)
	if err != nil {
		s.mutex.Unlock()
		return Ingredient{}, err
	}
	s.commit(Event{Op: OpSetStockLevel, Collection: CollectionIngredients, ID: id})
	return updated, nil
}

// Restock is SetStockLevel expressed as an amount added in any unit of the family.
func (s *Stockroom) Restock(id string, added DisplayQuantity, purchaseUnitCost *decimal.Decimal) (Ingredient, error) {
	s.mutex.Lock()
	ing, err := s.familyCheckLocked(id, added.Unit)
	if err != nil {
		s.mutex.Unlock()
		return Ingredient{}, err
	}
	amount, err := added.Base()
	if err != nil {
		s.mutex.Unlock()
		return Ingredient{}, err
	}
	updated, err := s.ingredients.SetStockLevel(id, ing.CurrentStock.Add(amount), purchaseUnitCost)
	if err != nil {
		s.mutex.Unlock()
		return Ingredient{}, err
	}
	s.commit(Event{Op: OpSetStockLevel, Collection: CollectionIngredients, ID: id})
	return updated, nil
}

func (s *Stockroom) familyCheckLocked(id string, unit Unit) (Ingredient, error) {
	ing, ok := s.ingredients.Get(id)
	if !ok {
		return Ingredient{}, fmt.Errorf("%w: ingredient %s", ErrNotFound, id)
	}
	same, err := SameFamily(ing.Unit, unit)
	if err != nil {
		return Ingredient{}, err
	}
	if !same {
		return Ingredient{}, fmt.Errorf("%w: %s is measured in %s", ErrIncompatibleUnitFamily, ing.Name, ing.Unit.Family())
	}
	return ing, nil
}

func (s *Stockroom) AddProduct(p Product) (Product, error) {
	s.mutex.Lock()
	added, err := s.catalog.Add(p)
	if err != nil {
		s.mutex.Unlock()
		return Product{}, err
	}
	s.commit(Event{Op: OpAddProduct, Collection: CollectionProducts, ID: added.ID})
	return added, nil
}

func (s *Stockroom) DeleteProduct(id string) error {
	s.mutex.Lock()
	if err := s.catalog.Delete(id); err != nil {
		s.mutex.Unlock()
		return err
	}
	s.commit(Event{Op: OpDeleteProduct, Collection: CollectionProducts, ID: id})
	return nil
}

func (s *Stockroom) AddCustomer(c Customer) (Customer, error) {
	s.mutex.Lock()
	added, err := s.customers.Add(c)
	if err != nil {
		s.mutex.Unlock()
		return Customer{}, err
	}
	s.commit(Event{Op: OpAddCustomer, Collection: CollectionCustomers, ID: added.ID})
	return added, nil
}

func (s *Stockroom) CreateOrder(customerName string, deliveryDate Date, lines []OrderLine) (Order, error) {
	return s.PlaceOrder(NewOrderRequest{
		CustomerName: customerName,
		DeliveryDate: deliveryDate,
		Lines:        lines,
	})
}

// PlaceOrder creates a pending order. A customer name not yet on file is registered
// alongside the order.
func (s *Stockroom) PlaceOrder(req NewOrderRequest) (Order, error) {
	s.mutex.Lock()
	var newCustomer *Customer
	if req.CustomerID != "" {
		c, ok := s.customers.Get(req.CustomerID)
		if !ok {
			s.mutex.Unlock()
			return Order{}, fmt.Errorf("%w: customer %s", ErrNotFound, req.CustomerID)
		}
		if req.CustomerName == "" {
			req.CustomerName = c.Name
		}
	} else if c, ok := s.customers.FindByName(req.CustomerName); ok {
		req.CustomerID = c.ID
	} else {
		newCustomer = &Customer{Name: req.CustomerName}
	}

	o, err := s.orders.Create(req, s.now())
	if err != nil {
		s.mutex.Unlock()
		return Order{}, err
	}
	if newCustomer != nil {
		o = s.registerCustomerLocked(o, *newCustomer)
	}
	s.commit(Event{Op: OpCreateOrder, Collection: CollectionOrders, ID: o.ID})
	return o, nil
}

// registerCustomerLocked adds c and links it to o. A failed registration leaves the
// order unlinked.
func (s *Stockroom) registerCustomerLocked(o Order, c Customer) Order {
	added, err := s.customers.Add(c)
	if err != nil {
		s.logger.Warn().Err(err).Str("order", o.ID).Str("customer", c.Name).Msg("customer not registered, order left unlinked")
		return o
	}
	return s.orders.linkCustomer(o.ID, added.ID)
}

// SetOrderStatus moves an order to status. Entering Completed from any other status
// deducts the aggregated recipe usage once per ingredient; nothing else touches stock,
// and leaving Completed restores nothing.
func (s *Stockroom) SetOrderStatus(id string, status OrderStatus) (Order, error) {
	s.mutex.Lock()
	o, prev, usage, err := s.orders.setStatus(id, status)
	if err != nil {
		s.mutex.Unlock()
		return Order{}, err
	}
	ev := Event{
		Op:         OpSetOrderStatus,
		Collection: CollectionOrders,
		ID:         id,
		FromStatus: prev,
		ToStatus:   status,
	}
	if usage != nil {
		ev.Deducted = s.deductLocked(id, usage)
	}
	s.commit(ev)
	return o, nil
}

func (s *Stockroom) deductLocked(orderID string, usage Usage) Usage {
	ids := make([]string, 0, len(usage))
	for id := range usage {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	applied := make(Usage, len(ids))
	for _, ingID := range ids {
		amount := usage[ingID]
		ing, err := s.ingredients.Deduct(ingID, amount)
		if err != nil {
			s.logger.Warn().Err(err).Str("order", orderID).Str("ingredient", ingID).Msg("skipping deduction")
			continue
		}
		applied[ingID] = amount
		s.logger.Info().
			Str("order", orderID).
			Str("ingredient", ingID).
			Str("amount", amount.String()).
			Str("remaining", ing.CurrentStock.String()).
			Msg("stock deducted")
	}
	return applied
}

func (s *Stockroom) DeleteOrder(id string) error {
	s.mutex.Lock()
	if err := s.orders.Delete(id); err != nil {
		s.mutex.Unlock()
		return err
	}
	s.commit(Event{Op: OpDeleteOrder, Collection: CollectionOrders, ID: id})
	return nil
}

func (s *Stockroom) Ingredient(id string) (Ingredient, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.ingredients.Get(id)
}

func (s *Stockroom) Ingredients() []Ingredient {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.ingredients.List()
}

func (s *Stockroom) Product(id string) (Product, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.catalog.Get(id)
}

func (s *Stockroom) Products() []Product {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.catalog.List()
}

func (s *Stockroom) Order(id string) (Order, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.orders.Get(id)
}

func (s *Stockroom) Orders() []Order {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.orders.List()
}

func (s *Stockroom) Customers() []Customer {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.customers.List()
}

func (s *Stockroom) LowStock() []Ingredient {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.ingredients.LowStock()
}

// EstimateVariableCost prices recipe lines at current ingredient costs.
func (s *Stockroom) EstimateVariableCost(lines []RecipeLine) (decimal.Decimal, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.catalog.EstimateVariableCost(lines)
}

// Dashboard summarizes the current state as of the stockroom clock's today.
func (s *Stockroom) Dashboard() Dashboard {
	today := DateOf(s.now())
	return s.Snapshot().Dashboard(today)
}
