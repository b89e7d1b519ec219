package component

import "image/color"

// Appearance is how the debug renderer draws a combatant.
type Appearance struct {
	Color color.Color
}

var AppearanceComponent = NewComponent[Appearance]()
