package stockroom

import (
	"sync"
)

// Snapshot is the full domain state handed to persistence after every mutation.
type Snapshot struct {
	Ingredients []Ingredient
	Products    []Product
	Orders      []Order
	Customers   []Customer
}

// StateStore is the persistence collaborator. LoadState reports ok=false when nothing
// has been saved under key yet.
type StateStore interface {
	LoadState(key string) (snap Snapshot, ok bool, err error)
	SaveState(key string, snap Snapshot) error
}

// PersistTo returns a hook that saves every post-mutation snapshot under key.
func PersistTo(store StateStore, key string) HookFunc {
	return func(_ Event, snap Snapshot) error {
		return store.SaveState(key, snap)
	}
}

func (s Snapshot) clone() Snapshot {
	out := Snapshot{
		Ingredients: append([]Ingredient(nil), s.Ingredients...),
		Customers:   append([]Customer(nil), s.Customers...),
	}
	out.Products = make([]Product, len(s.Products))
	for i, p := range s.Products {
		p.Recipe = append([]RecipeLine(nil), p.Recipe...)
		out.Products[i] = p
	}
	out.Orders = make([]Order, len(s.Orders))
	for i, o := range s.Orders {
		out.Orders[i] = o.clone()
	}
	return out
}

func (s Snapshot) ingredientIndex() map[string]Ingredient {
	idx := make(map[string]Ingredient, len(s.Ingredients))
	for _, ing := range s.Ingredients {
		idx[ing.ID] = ing
	}
	return idx
}

func (s Snapshot) productIndex() map[string]Product {
	idx := make(map[string]Product, len(s.Products))
	for _, p := range s.Products {
		idx[p.ID] = p
	}
	return idx
}

// MemoryStore keeps snapshots in process; useful for tests and for running without a database.
type MemoryStore struct {
	mutex sync.Mutex
	saves int
	state map[string]Snapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: make(map[string]Snapshot)}
}

func (m *MemoryStore) LoadState(key string) (Snapshot, bool, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	snap, ok := m.state[key]
	if !ok {
		return Snapshot{}, false, nil
	}
	return snap.clone(), true, nil
}

func (m *MemoryStore) SaveState(key string, snap Snapshot) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.state[key] = snap.clone()
	m.saves++
	return nil
}

// Saves counts successful SaveState calls.
func (m *MemoryStore) Saves() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.saves
}
