package ecs

import (
	"slices"

	"github.com/milk9111/duel/ecs/component"
)

// Kind is satisfied by every component.ComponentKind.
type Kind interface {
	ID() component.ComponentID
}

// Query returns the live entities holding every kind, in ascending entity
// slot order so systems iterate deterministically.
func Query(w *World, kinds ...Kind) []Entity {
	if w == nil || len(kinds) == 0 {
		return nil
	}
	sets := make([]*SparseSet, 0, len(kinds))
	for _, k := range kinds {
		s := w.store(k.ID())
		if s == nil || s.Len() == 0 {
			return nil
		}
		sets = append(sets, s)
	}
	// iterate smallest set
	slices.SortFunc(sets, func(a, b *SparseSet) int { return a.Len() - b.Len() })

	out := make([]Entity, 0, sets[0].Len())
	for _, e := range sets[0].Entities() {
		if !w.entities.isAlive(e) {
			continue
		}
		inAll := true
		for _, s := range sets[1:] {
			if !s.Has(e) {
				inAll = false
				break
			}
		}
		if inAll {
			out = append(out, e)
		}
	}
	slices.SortFunc(out, func(a, b Entity) int { return int(a.slot()) - int(b.slot()) })
	return out
}

// Query is the method form of Query.
func (w *World) Query(kinds ...Kind) []Entity {
	return Query(w, kinds...)
}
