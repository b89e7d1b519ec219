package component

// Edge is a one-tick presentation signal.
type Edge uint16

const (
	EdgeJumped Edge = 1 << iota
	EdgeHurt
	EdgeDied
	EdgeUltimateStarted
	EdgeUltimateDamageInstant
	EdgeUltimateFinished
)

var edgeNames = []struct {
	edge Edge
	name string
}{
	{EdgeJumped, "jumped"},
	{EdgeHurt, "hurt"},
	{EdgeDied, "died"},
	{EdgeUltimateStarted, "ultimate_started"},
	{EdgeUltimateDamageInstant, "ultimate_damage_instant"},
	{EdgeUltimateFinished, "ultimate_finished"},
}

// Names lists the set edges in declaration order.
func (e Edge) Names() []string {
	var out []string
	for _, n := range edgeNames {
		if e&n.edge != 0 {
			out = append(out, n.name)
		}
	}
	return out
}

// Signals is what the core publishes to the rendering and animation layer.
//
// Edges raised between two steps, including from external callbacks, are
// collected in pending and published together at the end of the next step.
type Signals struct {
	Running   bool
	Grounded  bool
	Crouching bool
	Attacking bool
	YVelocity float64
	Flash     bool
	State     ActionState

	Edges   Edge
	pending Edge
}

var SignalsComponent = NewComponent[Signals]()

func (s *Signals) Emit(e Edge) {
	if s == nil {
		return
	}
	s.pending |= e
}

// Publish makes pending edges visible and starts a new collection window.
func (s *Signals) Publish() {
	s.Edges = s.pending
	s.pending = 0
}

func (s *Signals) Has(e Edge) bool {
	return s != nil && s.Edges&e != 0
}
