package ecs

// Removable lets World drop an entity's data from a store it knows nothing
// else about.
type Removable interface {
	Remove(id EntityID)
}

// PtrComponentStore holds at most one *T per entity.
type PtrComponentStore[T any] struct {
	data map[EntityID]*T
}

func NewPtrComponentStore[T any]() *PtrComponentStore[T] {
	return &PtrComponentStore[T]{data: make(map[EntityID]*T, 256)}
}

// Set attaches c to id, replacing any previous component.
func (s *PtrComponentStore[T]) Set(id EntityID, c *T) { s.data[id] = c }

func (s *PtrComponentStore[T]) Get(id EntityID) (*T, bool) {
	c, ok := s.data[id]
	return c, ok
}

func (s *PtrComponentStore[T]) Has(id EntityID) bool {
	_, ok := s.data[id]
	return ok
}

func (s *PtrComponentStore[T]) Remove(id EntityID) { delete(s.data, id) }
func (s *PtrComponentStore[T]) Len() int           { return len(s.data) }

// Each visits components in map order. fn must not add to the store.
func (s *PtrComponentStore[T]) Each(fn func(EntityID, *T)) {
	for id, c := range s.data {
		fn(id, c)
	}
}
