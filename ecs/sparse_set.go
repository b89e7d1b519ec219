package ecs

// SparseSet is a cache-friendly storage for components keyed by entity slot.
// Values are stored as `any`; the typed helpers in generics.go unwrap them.
type SparseSet struct {
	denseEntities []Entity
	denseValues   []any
	sparse        []int
}

func NewSparseSet() *SparseSet {
	return &SparseSet{}
}

// Has returns true if the entity is present in the set with the same
// generation.
func (s *SparseSet) Has(e Entity) bool {
	idx, ok := s.index(e)
	return ok && s.denseEntities[idx] == e
}

func (s *SparseSet) index(e Entity) (int, bool) {
	if s == nil {
		return 0, false
	}
	slot := int(e.slot()) - 1
	if slot < 0 || slot >= len(s.sparse) {
		return 0, false
	}
	idx := s.sparse[slot]
	if idx < 0 || idx >= len(s.denseEntities) {
		return 0, false
	}
	return idx, true
}

// Get returns the component for e, or nil.
func (s *SparseSet) Get(e Entity) any {
	if !s.Has(e) {
		return nil
	}
	idx, _ := s.index(e)
	return s.denseValues[idx]
}

// Set inserts or updates a component for e.
func (s *SparseSet) Set(e Entity, v any) {
	if s == nil || !e.Valid() {
		return
	}
	slot := int(e.slot()) - 1
	for len(s.sparse) <= slot {
		s.sparse = append(s.sparse, -1)
	}
	if idx, ok := s.index(e); ok && s.denseEntities[idx].slot() == e.slot() {
		s.denseEntities[idx] = e
		s.denseValues[idx] = v
		return
	}
	s.denseEntities = append(s.denseEntities, e)
	s.denseValues = append(s.denseValues, v)
	s.sparse[slot] = len(s.denseEntities) - 1
}

// Remove deletes the component for e if present.
func (s *SparseSet) Remove(e Entity) bool {
	if !s.Has(e) {
		return false
	}
	idx, _ := s.index(e)
	last := len(s.denseEntities) - 1
	moved := s.denseEntities[last]

	s.denseEntities[idx] = moved
	s.denseValues[idx] = s.denseValues[last]
	s.sparse[int(moved.slot())-1] = idx

	s.denseEntities = s.denseEntities[:last]
	s.denseValues = s.denseValues[:last]
	s.sparse[int(e.slot())-1] = -1
	return true
}

// removeSlot drops whatever occupies e's slot regardless of generation.
func (s *SparseSet) removeSlot(e Entity) {
	if idx, ok := s.index(e); ok && s.denseEntities[idx].slot() == e.slot() {
		s.Remove(s.denseEntities[idx])
	}
}

// Entities returns the dense entity list.
func (s *SparseSet) Entities() []Entity {
	if s == nil {
		return nil
	}
	return s.denseEntities
}

func (s *SparseSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.denseEntities)
}
