package ecs

// Registry is the set of component stores an entity's data can live in.
// Destroying an entity strips it from every registered store.
type Registry struct {
	stores []Removable
}

func NewRegistry() *Registry {
	return &Registry{
		stores: make([]Removable, 0, 8),
	}
}

// Register adds component stores. Registering the same store twice is harmless.
func (r *Registry) Register(stores ...Removable) {
	r.stores = append(r.stores, stores...)
}

// Len returns the number of registered stores.
func (r *Registry) Len() int { return len(r.stores) }

// RemoveAll clears id from every registered store.
func (r *Registry) RemoveAll(id EntityID) {
	for _, s := range r.stores {
		s.Remove(id)
	}
}
