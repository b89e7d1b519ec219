package system

import (
	"slices"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/duel/ecs"
	"github.com/milk9111/duel/ecs/component"
)

// Collision categories. Terrain is every static arena shape; each faction
// gets its own bit so hit queries can mask by faction.
const (
	categoryTerrain uint = 1 << iota
	categoryPlayer
	categoryEnemy
)

// syncStep is the step used to refresh the broadphase after kinematic
// bodies are moved. Bodies carry no velocity, so it never displaces them.
const syncStep = 1.0 / 60.0

func factionCategories(f component.Faction) uint {
	var c uint
	if f&component.FactionPlayer != 0 {
		c |= categoryPlayer
	}
	if f&component.FactionEnemy != 0 {
		c |= categoryEnemy
	}
	return c
}

type spatialBody struct {
	body    *cp.Body
	shape   *cp.Shape
	hw, hh  float64
	faction component.Faction
}

// Spatial indexes combatant hurt boxes and arena terrain in a chipmunk
// space. It answers hit queries and casts movement probes against terrain.
type Spatial struct {
	space  *cp.Space
	bodies map[ecs.Entity]*spatialBody
}

func NewSpatial() *Spatial {
	space := cp.NewSpace()
	space.SetGravity(cp.Vector{})
	return &Spatial{
		space:  space,
		bodies: make(map[ecs.Entity]*spatialBody),
	}
}

// AddObstacle adds an axis-aligned terrain box given its edges.
func (s *Spatial) AddObstacle(left, top, right, bottom float64) {
	if s == nil || right <= left || bottom <= top {
		return
	}
	bb := cp.BB{L: left, B: top, R: right, T: bottom}
	shape := cp.NewBox2(s.space.StaticBody, bb, 0)
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, categoryTerrain, cp.ALL_CATEGORIES))
	s.space.AddShape(shape)
}

// Sync moves every combatant's hurt box to its transform and drops boxes of
// entities that no longer exist.
func (s *Spatial) Sync(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	seen := make(map[ecs.Entity]struct{}, len(s.bodies))
	ecs.ForEach3(w,
		component.CombatantComponent.Kind(),
		component.TransformComponent.Kind(),
		component.BodyComponent.Kind(),
		func(e ecs.Entity, c *component.Combatant, t *component.Transform, b *component.Body) {
			seen[e] = struct{}{}
			sb := s.bodies[e]
			if sb == nil || sb.hw != b.HalfWidth || sb.hh != b.HalfHeight || sb.faction != c.Faction {
				s.remove(e)
				sb = s.add(e, c.Faction, b.HalfWidth, b.HalfHeight)
			}
			sb.body.SetPosition(cp.Vector{X: t.X, Y: t.Y})
		})
	for e := range s.bodies {
		if _, ok := seen[e]; !ok {
			s.remove(e)
		}
	}
	s.space.Step(syncStep)
}

func (s *Spatial) add(e ecs.Entity, faction component.Faction, hw, hh float64) *spatialBody {
	body := s.space.AddBody(cp.NewKinematicBody())
	shape := cp.NewBox(body, max(hw, 0.5)*2, max(hh, 0.5)*2, 0)
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, factionCategories(faction), cp.ALL_CATEGORIES))
	shape.UserData = e
	s.space.AddShape(shape)
	sb := &spatialBody{body: body, shape: shape, hw: hw, hh: hh, faction: faction}
	s.bodies[e] = sb
	return sb
}

func (s *Spatial) remove(e ecs.Entity) {
	sb, ok := s.bodies[e]
	if !ok {
		return
	}
	s.space.RemoveShape(sb.shape)
	s.space.RemoveBody(sb.body)
	delete(s.bodies, e)
}

// Query returns the combatants in filter whose hurt box overlaps area placed
// at origin, deduplicated and in ascending entity order.
func (s *Spatial) Query(w *ecs.World, area component.Area, origin cp.Vector, filter component.Faction) []ecs.Entity {
	if s == nil {
		return nil
	}
	mask := factionCategories(filter)
	if mask == 0 {
		return nil
	}
	s.Sync(w)

	var bb cp.BB
	switch area.Shape {
	case component.ShapeBox:
		if area.Width <= 0 || area.Height <= 0 {
			return nil
		}
		bb = cp.NewBBForExtents(origin, area.Width/2, area.Height/2)
	default:
		if area.Radius <= 0 {
			return nil
		}
		bb = cp.NewBBForExtents(origin, area.Radius, area.Radius)
	}

	hits := make(map[ecs.Entity]struct{})
	queryFilter := cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, mask)
	s.space.BBQuery(bb, queryFilter, func(shape *cp.Shape, _ interface{}) {
		e, ok := shape.UserData.(ecs.Entity)
		if !ok {
			return
		}
		if area.Shape != component.ShapeBox && shape.PointQuery(origin).Distance > area.Radius {
			return
		}
		hits[e] = struct{}{}
	}, nil)

	out := make([]ecs.Entity, 0, len(hits))
	for e := range hits {
		out = append(out, e)
	}
	slices.Sort(out)
	return out
}

// Cast returns the distance from origin along the unit direction dir to the
// first terrain surface within maxDist.
func (s *Spatial) Cast(origin, dir cp.Vector, maxDist float64) (float64, bool) {
	if s == nil || maxDist <= 0 {
		return 0, false
	}
	end := origin.Add(dir.Mult(maxDist))
	filter := cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, categoryTerrain)
	info := s.space.SegmentQueryFirst(origin, end, 0, filter)
	if info.Shape == nil {
		return 0, false
	}
	return info.Alpha * maxDist, true
}

// Probe returns how far a body centered at (x, y) may travel horizontally in
// direction dir (sign only) without entering terrain, capped at distance.
// The cast is shortened by skin and the body's half width, and is taken at
// three heights so low obstacles are not missed.
func (s *Spatial) Probe(x, y, dir, distance, halfWidth, halfHeight, skin float64) float64 {
	if distance <= 0 || dir == 0 {
		return 0
	}
	unit := cp.Vector{X: 1}
	if dir < 0 {
		unit.X = -1
	}
	reach := distance + halfWidth + skin
	allowed := distance
	for _, oy := range []float64{-0.75 * halfHeight, 0, 0.75 * halfHeight} {
		if d, ok := s.Cast(cp.Vector{X: x, Y: y + oy}, unit, reach); ok {
			allowed = min(allowed, max(0, d-halfWidth-skin))
		}
	}
	return allowed
}

// DrawDebug renders every terrain and hurt box shape through d.
func (s *Spatial) DrawDebug(d cp.Drawer) {
	if s == nil || d == nil {
		return
	}
	cp.DrawSpace(s.space, d)
}
