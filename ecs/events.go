package ecs

// Event is something a system published during a tick. Tick is stamped by
// the queue, so producers only fill Type and Data.
type Event struct {
	Type string
	Tick uint64
	Data any
}

// EventQueue collects events in publish order until they are drained.
type EventQueue struct {
	tick  uint64
	items []Event
}

// Stamp sets the tick recorded on events pushed from now on.
func (q *EventQueue) Stamp(tick uint64) {
	if q != nil {
		q.tick = tick
	}
}

func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	evt.Tick = q.tick
	q.items = append(q.items, evt)
}

// Drain returns all pending events and empties the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Select returns the events of type typ, keeping their order.
func Select(events []Event, typ string) []Event {
	var out []Event
	for _, ev := range events {
		if ev.Type == typ {
			out = append(out, ev)
		}
	}
	return out
}
