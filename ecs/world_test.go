package ecs

import (
	"errors"
	"strings"
	"testing"

	"github.com/milk9111/duel/ecs/component"
)

func TestSparseWorldEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_create_destroy_middle", 3, 1},
		{"none_destroy", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, CreateEntity(w))
			}
			if len(Entities(w)) != c.create {
				t.Fatalf("expected %d entities, got %d", c.create, len(Entities(w)))
			}
			if c.destroyIndex >= 0 {
				if !DestroyEntity(w, ents[c.destroyIndex]) {
					t.Fatalf("DestroyEntity should return true for alive entity")
				}
				if IsAlive(w, ents[c.destroyIndex]) {
					t.Fatalf("entity should not be alive after destruction")
				}
				if DestroyEntity(w, ents[c.destroyIndex]) {
					t.Fatalf("second destroy should report false")
				}
			}
		})
	}
}

func TestRecycledSlotGetsNewGeneration(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()

	old := CreateEntity(w)
	if err := Add(w, old, h.Kind(), intPtr(7)); err != nil {
		t.Fatal(err)
	}
	DestroyEntity(w, old)

	fresh := CreateEntity(w)
	if fresh.slot() != old.slot() {
		t.Fatalf("expected slot reuse, got %d vs %d", fresh.slot(), old.slot())
	}
	if fresh == old {
		t.Fatalf("recycled entity must not equal stale handle")
	}
	if Has(w, fresh, h.Kind()) {
		t.Fatalf("components must not survive destroy")
	}
	if err := Add(w, old, h.Kind(), intPtr(1)); !errors.Is(err, component.ErrEntityNotAlive) {
		t.Fatalf("expected ErrEntityNotAlive for stale handle, got %v", err)
	}
}

func TestAddRejectsInvalidInput(t *testing.T) {
	w := NewWorld()
	e := CreateEntity(w)
	h := component.NewComponent[int]()

	if err := Add(w, e, component.ComponentKind[int]{}, intPtr(1)); err != component.ErrInvalidComponentKind {
		t.Fatalf("expected invalid kind error, got %v", err)
	}
	if err := Add[int](w, e, h.Kind(), nil); !errors.Is(err, component.ErrNilComponent) {
		t.Fatalf("expected nil component error, got %v", err)
	}
	if err := Add[int](w, e, h.Kind(), nil); !strings.Contains(err.Error(), "int") {
		t.Fatalf("expected kind name in error, got %v", err)
	}
}

func TestEntityString(t *testing.T) {
	w := NewWorld()
	e := CreateEntity(w)
	if got := e.String(); got != "1v0" {
		t.Fatalf("expected 1v0, got %s", got)
	}
	DestroyEntity(w, e)
	if got := CreateEntity(w).String(); got != "1v1" {
		t.Fatalf("expected recycled slot 1v1, got %s", got)
	}
}

func toSet(ents []Entity) map[Entity]struct{} {
	m := make(map[Entity]struct{}, len(ents))
	for _, e := range ents {
		m[e] = struct{}{}
	}
	return m
}

func intPtr(i int) *int {
	return &i
}

func stringPtr(s string) *string {
	return &s
}

func TestSparseWorldComponentsAndQueries(t *testing.T) {
	w := NewWorld()

	h1 := component.NewComponent[int]()
	h2 := component.NewComponent[string]()

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)

	tests := []struct {
		name     string
		setup    func() error
		check    func(t *testing.T)
		teardown func() bool
	}{
		{
			name:  "add_int_to_e1",
			setup: func() error { return Add(w, e1, h1.Kind(), intPtr(10)) },
			check: func(t *testing.T) {
				v, ok := Get(w, e1, h1.Kind())
				if !ok || *v != 10 {
					t.Fatalf("expected 10, got %v ok=%v", v, ok)
				}
			},
			teardown: func() bool { return Remove(w, e1, h1.Kind()) },
		},
		{
			name: "add_str_to_e1_and_e2",
			setup: func() error {
				if err := Add(w, e1, h2.Kind(), stringPtr("a")); err != nil {
					return err
				}
				return Add(w, e2, h2.Kind(), stringPtr("b"))
			},
			check: func(t *testing.T) {
				if !Has(w, e1, h2.Kind()) || !Has(w, e2, h2.Kind()) {
					t.Fatalf("expected both entities to have string component")
				}
				if got := Query(w, h2.Kind()); len(got) != 2 || got[0] != e1 || got[1] != e2 {
					t.Fatalf("expected ordered [e1 e2], got %v", got)
				}
			},
			teardown: func() bool { return Remove(w, e1, h2.Kind()) },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.setup(); err != nil {
				t.Fatalf("setup failed: %v", err)
			}
			tc.check(t)
			if !tc.teardown() {
				t.Fatalf("teardown failed for %s", tc.name)
			}
		})
	}
}

func TestForEach(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)
	e3 := CreateEntity(w)

	if err := Add(w, e1, h.Kind(), intPtr(1)); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := Add(w, e3, h.Kind(), intPtr(3)); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	var ents []Entity
	ForEach(w, h.Kind(), func(e Entity, v *int) {
		ents = append(ents, e)
		// removing during iteration is allowed
		Remove(w, e, h.Kind())
	})
	set := toSet(ents)

	if _, ok := set[e1]; !ok {
		t.Fatalf("expected e1 in ForEach result")
	}
	if _, ok := set[e3]; !ok {
		t.Fatalf("expected e3 in ForEach result")
	}
	if _, ok := set[e2]; ok {
		t.Fatalf("did not expect e2 in ForEach result")
	}
}

func TestForEach3(t *testing.T) {
	tests := []struct {
		name string
		run  func(t *testing.T)
	}{
		{
			name: "intersection",
			run: func(t *testing.T) {
				w := NewWorld()
				e1 := CreateEntity(w)
				e2 := CreateEntity(w)
				e3 := CreateEntity(w)

				ka := component.NewComponentKind[int]()
				kb := component.NewComponentKind[int]()
				kc := component.NewComponentKind[int]()

				for _, step := range []error{
					Add(w, e1, ka, intPtr(1)),
					Add(w, e2, ka, intPtr(2)),
					Add(w, e2, kb, intPtr(3)),
					Add(w, e2, kc, intPtr(5)),
					Add(w, e3, kb, intPtr(4)),
				} {
					if step != nil {
						t.Fatal(step)
					}
				}

				var res []Entity
				ForEach3(w, ka, kb, kc, func(e Entity, _ *int, _ *int, _ *int) { res = append(res, e) })
				if len(res) != 1 || res[0] != e2 {
					t.Fatalf("expected only e2, got %v", res)
				}
			},
		},
		{
			name: "ignores_dead_entities",
			run: func(t *testing.T) {
				w := NewWorld()
				e := CreateEntity(w)

				ka := component.NewComponentKind[int]()
				kb := component.NewComponentKind[int]()
				kc := component.NewComponentKind[int]()

				_ = Add(w, e, ka, intPtr(1))
				_ = Add(w, e, kb, intPtr(2))
				_ = Add(w, e, kc, intPtr(3))

				if !DestroyEntity(w, e) {
					t.Fatal("failed to destroy entity")
				}

				var res []Entity
				ForEach3(w, ka, kb, kc, func(e Entity, _ *int, _ *int, _ *int) { res = append(res, e) })
				if len(res) != 0 {
					t.Fatalf("expected empty result after destroy, got %v", res)
				}
			},
		},
		{
			name: "missing_store_returns_nil",
			run: func(t *testing.T) {
				w := NewWorld()
				e := CreateEntity(w)

				ka := component.NewComponentKind[int]()
				kb := component.NewComponentKind[int]()
				kc := component.NewComponentKind[int]()

				_ = Add(w, e, ka, intPtr(1))

				var res []Entity
				ForEach3(w, ka, kb, kc, func(e Entity, _ *int, _ *int, _ *int) { res = append(res, e) })
				if len(res) != 0 {
					t.Fatalf("expected empty when other store missing, got %v", res)
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, tc.run)
	}
}

func TestFirstAndEvents(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[string]()
	if _, _, ok := First(w, h.Kind()); ok {
		t.Fatalf("expected no entity in empty world")
	}
	e := CreateEntity(w)
	_ = Add(w, e, h.Kind(), stringPtr("only"))
	got, v, ok := First(w, h.Kind())
	if !ok || got != e || *v != "only" {
		t.Fatalf("unexpected First result %v %v %v", got, v, ok)
	}

	w.Events().Push(Event{Type: "a"})
	w.Events().Stamp(7)
	w.Events().Push(Event{Type: "b", Tick: 99})
	w.Events().Push(Event{Type: "a"})
	if w.Events().Len() != 3 {
		t.Fatalf("expected 3 queued events")
	}
	evts := w.Events().Drain()
	if len(evts) != 3 || evts[0].Type != "a" || evts[1].Type != "b" {
		t.Fatalf("expected FIFO order, got %v", evts)
	}
	if evts[0].Tick != 0 || evts[1].Tick != 7 {
		t.Fatalf("expected queue to stamp ticks, got %d and %d", evts[0].Tick, evts[1].Tick)
	}
	if got := Select(evts, "a"); len(got) != 2 || got[1].Tick != 7 {
		t.Fatalf("expected two a events, got %v", got)
	}
	if w.Events().Drain() != nil {
		t.Fatalf("expected empty queue after drain")
	}
}
