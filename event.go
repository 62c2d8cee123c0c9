package stockroom

import "time"

type Collection string

const (
	CollectionIngredients Collection = "ingredients"
	CollectionProducts    Collection = "products"
	CollectionOrders      Collection = "orders"
	CollectionCustomers   Collection = "customers"
)

const (
	OpAddIngredient    = "AddIngredient"
	OpUpdateIngredient = "UpdateIngredient"
	OpSetStockLevel    = "SetStockLevel"
	OpAddProduct       = "AddProduct"
	OpDeleteProduct    = "DeleteProduct"
	OpAddCustomer      = "AddCustomer"
	OpCreateOrder      = "CreateOrder"
	OpSetOrderStatus   = "SetOrderStatus"
	OpDeleteOrder      = "DeleteOrder"
)

// Event describes one applied mutation.
type Event struct {
	Op         string
	Collection Collection
	ID         string
	At         time.Time

	// Set by SetOrderStatus only.
	FromStatus OrderStatus
	ToStatus   OrderStatus
	// Base amounts taken from stock, set when an order enters Completed.
	Deducted Usage
}

// HookFunc observes a mutation after it has been applied. A failing hook is logged;
// it never undoes the mutation.
type HookFunc func(ev Event, snap Snapshot) error
