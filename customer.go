package stockroom

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type Customer struct {
	ID    string
	Name  string
	Phone string
}

type CustomerBook struct {
	customers map[string]*Customer
	byName    map[string]string
	order     []string
}

func NewCustomerBook() *CustomerBook {
	return &CustomerBook{
		customers: make(map[string]*Customer),
		byName:    make(map[string]string),
	}
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (b *CustomerBook) Add(c Customer) (Customer, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return Customer{}, fmt.Errorf("%w: customer name is empty", ErrInvalidInput)
	}
	if _, ok := b.customers[c.ID]; ok {
		return Customer{}, fmt.Errorf("%w: customer %s", ErrDuplicateID, c.ID)
	}
	stored := c
	b.customers[c.ID] = &stored
	b.byName[nameKey(c.Name)] = c.ID
	b.order = append(b.order, c.ID)
	return stored, nil
}

func (b *CustomerBook) Get(id string) (Customer, bool) {
	c, ok := b.customers[id]
	if !ok {
		return Customer{}, false
	}
	return *c, true
}

func (b *CustomerBook) FindByName(name string) (Customer, bool) {
	id, ok := b.byName[nameKey(name)]
	if !ok {
		return Customer{}, false
	}
	return b.Get(id)
}

func (b *CustomerBook) List() []Customer {
	out := make([]Customer, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, *b.customers[id])
	}
	return out
}
