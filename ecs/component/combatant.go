package component

import "strings"

// Faction is a bit set so attacks and targeting can filter several at once.
type Faction uint8

const (
	FactionPlayer Faction = 1 << iota
	FactionEnemy
)

func (f Faction) String() string {
	var parts []string
	if f&FactionPlayer != 0 {
		parts = append(parts, "player")
	}
	if f&FactionEnemy != 0 {
		parts = append(parts, "enemy")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// ParseFaction maps a prefab faction name to its bit.
func ParseFaction(name string) (Faction, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "player":
		return FactionPlayer, true
	case "enemy":
		return FactionEnemy, true
	}
	return 0, false
}

// Combatant tags an entity as a participant in the encounter.
type Combatant struct {
	Name      string
	Faction   Faction
	Opponents Faction
}

var CombatantComponent = NewComponent[Combatant]()

// Spawn is where the combatant is placed at every round start.
type Spawn struct {
	X      float64
	Y      float64
	Facing float64
}

var SpawnComponent = NewComponent[Spawn]()

// PlayerControlled marks combatants whose intents come from a human.
type PlayerControlled struct{}

var PlayerControlledComponent = NewComponent[PlayerControlled]()
