package main

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/duel/common"
	"github.com/milk9111/duel/ecs"
	"github.com/milk9111/duel/ecs/component"
	"github.com/milk9111/duel/match"
	"github.com/milk9111/duel/results"
	"golang.org/x/image/colornames"
)

const (
	healthBarWidth  = 420
	healthBarHeight = 14
	healthBarMargin = 24
)

// drawMatch is a stand-in for sprites: every combatant is its hurt box in
// its prefab color, flashing white while invulnerable.
func drawMatch(screen *ebiten.Image, m *match.Match, shownHealth map[ecs.Entity]float64, debug bool) {
	spec := m.Spec()
	var bg color.Color = colornames.Midnightblue
	if spec.Arena.Color != nil && spec.Arena.Color.Color != nil {
		bg = spec.Arena.Color.Color
	}
	screen.Fill(bg)

	for _, o := range spec.Arena.Obstacles {
		vector.FillRect(screen, float32(o.X), float32(o.Y), float32(o.Width), float32(o.Height), colornames.Dimgray, false)
	}

	w := m.World()
	ecs.ForEach3(w, component.TransformComponent.Kind(), component.BodyComponent.Kind(), component.SignalsComponent.Kind(),
		func(e ecs.Entity, t *component.Transform, b *component.Body, sig *component.Signals) {
			drawCombatant(screen, w, e, t, b, sig)
		})

	drawHealthBar(screen, healthBarMargin, shownHealth[m.Player()], colornames.Deepskyblue)
	drawHealthBar(screen, baseWidth-healthBarMargin-healthBarWidth, shownHealth[m.Enemy()], colornames.Crimson)

	if debug {
		m.DrawSpatial(&spatialDebugDrawer{screen: screen})
	}
}

func drawCombatant(screen *ebiten.Image, w *ecs.World, e ecs.Entity, t *component.Transform, b *component.Body, sig *component.Signals) {
	var fill color.Color = colornames.White
	if a, ok := ecs.Get(w, e, component.AppearanceComponent.Kind()); ok && a.Color != nil && !sig.Flash {
		fill = a.Color
	}
	if h, ok := ecs.Get(w, e, component.HealthComponent.Kind()); ok && !h.IsAlive() {
		fill = colornames.Gray
	}

	hh := b.HalfHeight
	top := t.Y - hh
	if sig.Crouching {
		top = t.Y
		hh /= 2
	}
	vector.FillRect(screen, float32(t.X-b.HalfWidth), float32(top), float32(b.HalfWidth*2), float32(hh*2), fill, false)

	eyeX := t.X + t.FacingSign()*b.HalfWidth*0.6
	vector.StrokeLine(screen, float32(t.X), float32(t.Y-b.HalfHeight*0.6), float32(eyeX), float32(t.Y-b.HalfHeight*0.6), 3, colornames.Black, false)

	ctrl, ok := ecs.Get(w, e, component.ControllerComponent.Kind())
	if !ok || !(ctrl.State == component.StateAttacking || ctrl.State == component.StateInUltimate) {
		return
	}
	profile, ok := ecs.Get(w, e, component.AttackProfileComponent.Kind())
	if !ok {
		return
	}
	kind := ctrl.Attack
	if ctrl.State == component.StateInUltimate {
		kind = component.AttackUltimate
	}
	spec := profile.Spec(kind)
	if spec == nil {
		return
	}
	ox, oy := spec.Origin(t)
	switch spec.Area.Shape {
	case component.ShapeBox:
		vector.StrokeRect(screen, float32(ox-spec.Area.Width/2), float32(oy-spec.Area.Height/2), float32(spec.Area.Width), float32(spec.Area.Height), 2, colornames.Orange, false)
	default:
		vector.StrokeCircle(screen, float32(ox), float32(oy), float32(spec.Area.Radius), 2, colornames.Orange, true)
	}
}

func drawHealthBar(screen *ebiten.Image, x float64, fraction float64, fill color.Color) {
	fraction = common.Clamp(fraction, 0, 1)
	vector.FillRect(screen, float32(x), healthBarMargin, healthBarWidth, healthBarHeight, colornames.Darkslategray, false)
	vector.FillRect(screen, float32(x), healthBarMargin, float32(healthBarWidth*fraction), healthBarHeight, fill, false)
	vector.StrokeRect(screen, float32(x), healthBarMargin, healthBarWidth, healthBarHeight, 1, colornames.White, false)
}

func drawHUD(screen *ebiten.Image, m *match.Match, banner string, leaderboard []results.Result) {
	r := m.Round()
	gate := m.Gate()

	status := fmt.Sprintf("Round %d   %d - %d   first to %d", r.Number, r.PlayerWins, r.EnemyWins, r.RoundsToWin)
	ebitenutil.DebugPrintAt(screen, status, baseWidth/2-len(status)*3, healthBarMargin)

	session := gate.SessionRemaining()
	clock := fmt.Sprintf("%d:%02d", int(session)/60, int(session)%60)
	ebitenutil.DebugPrintAt(screen, clock, baseWidth/2-len(clock)*3, healthBarMargin+16)

	if gate.IsBlocking() {
		count := fmt.Sprintf("%d", int(math.Ceil(gate.Countdown())))
		ebitenutil.DebugPrintAt(screen, count, baseWidth/2-3, baseHeight/3)
	}
	if banner != "" {
		ebitenutil.DebugPrintAt(screen, banner, baseWidth/2-len(banner)*3, baseHeight/3+20)
	}

	if m.Ended() && len(leaderboard) > 0 {
		var sb strings.Builder
		sb.WriteString("Fastest wins\n")
		for i, res := range leaderboard {
			fmt.Fprintf(&sb, "%d. %-12s %6.1fs\n", i+1, res.PlayerName, res.Seconds)
		}
		ebitenutil.DebugPrintAt(screen, sb.String(), baseWidth/2-60, baseHeight/2)
	}

	ps, _ := ecs.Get(m.World(), m.Player(), component.ControllerComponent.Kind())
	es, _ := ecs.Get(m.World(), m.Enemy(), component.ControllerComponent.Kind())
	if ps != nil && es != nil {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("FPS %.0f  player %s  enemy %s", ebiten.ActualFPS(), ps.State, es.State), 10, baseHeight-20)
	}
}

// spatialDebugDrawer outlines the collision space. Only shapes are drawn.
type spatialDebugDrawer struct {
	screen *ebiten.Image
}

func (d *spatialDebugDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	vector.StrokeCircle(d.screen, float32(pos.X), float32(pos.Y), float32(radius), 1, fcolor(outline), true)
}

func (d *spatialDebugDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.line(a, b, fill)
}

func (d *spatialDebugDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.line(a, b, outline)
}

func (d *spatialDebugDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	for i := 0; i < count; i++ {
		d.line(verts[i], verts[(i+1)%count], outline)
	}
}

func (d *spatialDebugDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	vector.FillCircle(d.screen, float32(pos.X), float32(pos.Y), float32(max(size, 2)/2), fcolor(fill), true)
}

func (d *spatialDebugDrawer) Flags() uint { return cp.DRAW_SHAPES }

func (d *spatialDebugDrawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 0.2, G: 1, B: 0.2, A: 0.9}
}

func (d *spatialDebugDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	return cp.FColor{R: 0.1, G: 0.6, B: 0.1, A: 0.5}
}

func (d *spatialDebugDrawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.5, B: 0.1, A: 0.9}
}

func (d *spatialDebugDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.2, B: 0.2, A: 0.9}
}

func (d *spatialDebugDrawer) Data() interface{} { return nil }

func (d *spatialDebugDrawer) line(a, b cp.Vector, c cp.FColor) {
	vector.StrokeLine(d.screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), 1, fcolor(c), false)
}

func fcolor(c cp.FColor) color.NRGBA {
	to8 := func(v float32) uint8 {
		return uint8(common.Clamp(float64(v), 0, 1) * 255)
	}
	return color.NRGBA{R: to8(c.R), G: to8(c.G), B: to8(c.B), A: to8(c.A)}
}
