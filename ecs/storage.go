package ecs

import "strconv"

// Entity is a generational handle. The low half is the slot, the high half
// counts how often the slot was reused, so a handle to a destroyed
// combatant never resolves to whatever took its slot.
type Entity uint64

type slotID uint32
type generation uint32

func pack(slot slotID, gen generation) Entity {
	return Entity(uint64(gen)<<32 | uint64(slot))
}

func (e Entity) slot() slotID { return slotID(uint32(e)) }

func (e Entity) generation() generation { return generation(uint32(uint64(e) >> 32)) }

// String renders the handle as slot and generation, e.g. "3v1".
func (e Entity) String() string {
	return strconv.FormatUint(uint64(e.slot()), 10) + "v" + strconv.FormatUint(uint64(e.generation()), 10)
}

// Valid reports whether e was ever issued. Slots start at 1, so the zero
// Entity is never valid.
func (e Entity) Valid() bool { return e.slot() > 0 }

type entityStore struct {
	gens  []generation
	alive []bool
	free  []slotID
}

func (s *entityStore) create() Entity {
	var slot slotID
	if n := len(s.free); n > 0 {
		slot = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		s.gens = append(s.gens, 0)
		s.alive = append(s.alive, false)
		slot = slotID(len(s.gens))
	}
	s.alive[slot-1] = true
	return pack(slot, s.gens[slot-1])
}

// destroy retires e and bumps its slot generation.
func (s *entityStore) destroy(e Entity) bool {
	if !s.isAlive(e) {
		return false
	}
	i := e.slot() - 1
	s.alive[i] = false
	s.gens[i]++
	s.free = append(s.free, e.slot())
	return true
}

func (s *entityStore) isAlive(e Entity) bool {
	slot := e.slot()
	if slot == 0 || int(slot) > len(s.gens) {
		return false
	}
	return s.alive[slot-1] && s.gens[slot-1] == e.generation()
}

// list returns live entities in slot order.
func (s *entityStore) list() []Entity {
	out := make([]Entity, 0, len(s.gens)-len(s.free))
	for i, ok := range s.alive {
		if ok {
			out = append(out, pack(slotID(i+1), s.gens[i]))
		}
	}
	return out
}
