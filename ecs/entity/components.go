package entity

import (
	"fmt"
	"image/color"

	"github.com/milk9111/duel/ecs"
	"github.com/milk9111/duel/ecs/component"
	"github.com/milk9111/duel/prefabs"
)

func addCombatant(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.CombatantComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode combatant spec: %w", err)
	}
	faction, ok := component.ParseFaction(spec.Faction)
	if !ok {
		return fmt.Errorf("unknown faction %q", spec.Faction)
	}
	opponents := component.FactionEnemy
	if faction == component.FactionEnemy {
		opponents = component.FactionPlayer
	}

	if c, ok := ecs.Get(w, e, component.CombatantComponent.Kind()); ok {
		c.Name, c.Faction, c.Opponents = ctx.Name, faction, opponents
		return nil
	}
	return ecs.Add(w, e, component.CombatantComponent.Kind(), &component.Combatant{
		Name:      ctx.Name,
		Faction:   faction,
		Opponents: opponents,
	})
}

func addPlayerControlled(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	if ecs.Has(w, e, component.PlayerControlledComponent.Kind()) {
		return nil
	}
	return ecs.Add(w, e, component.PlayerControlledComponent.Kind(), &component.PlayerControlled{})
}

func addAppearance(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.AppearanceComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode appearance spec: %w", err)
	}
	var c color.Color = color.White
	if spec.Color != nil && spec.Color.Color != nil {
		c = spec.Color.Color
	}
	return ecs.Add(w, e, component.AppearanceComponent.Kind(), &component.Appearance{Color: c})
}

func addHealth(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.HealthComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode health spec: %w", err)
	}
	if spec.Max <= 0 {
		return fmt.Errorf("health max must be positive, got %v", spec.Max)
	}

	if h, ok := ecs.Get(w, e, component.HealthComponent.Kind()); ok {
		h.Max = spec.Max
		h.IFrameDuration = max(spec.IFrames, 0)
		h.Current = min(h.Current, h.Max)
	} else if err := ecs.Add(w, e, component.HealthComponent.Kind(), component.NewHealth(spec.Max, spec.IFrames)); err != nil {
		return err
	}

	flash := component.NewWhiteFlash(spec.IFrames, spec.Flashes)
	if wf, ok := ecs.Get(w, e, component.WhiteFlashComponent.Kind()); ok {
		wf.Interval = flash.Interval
		return nil
	}
	return ecs.Add(w, e, component.WhiteFlashComponent.Kind(), flash)
}

func addBody(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.BodyComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode body spec: %w", err)
	}
	if spec.Width <= 0 || spec.Height <= 0 {
		return fmt.Errorf("body size must be positive, got %vx%v", spec.Width, spec.Height)
	}
	gravity := 1.0
	if spec.GravityScale != nil {
		gravity = *spec.GravityScale
	}

	b, ok := ecs.Get(w, e, component.BodyComponent.Kind())
	if !ok {
		b = &component.Body{}
		if err := ecs.Add(w, e, component.BodyComponent.Kind(), b); err != nil {
			return err
		}
	}
	b.HalfWidth = spec.Width / 2
	b.HalfHeight = spec.Height / 2
	b.GravityScale = gravity
	return nil
}

func addFighter(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.FighterComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode fighter spec: %w", err)
	}
	extra := 1
	if spec.ExtraJumps != nil {
		extra = max(*spec.ExtraJumps, 0)
	}
	fighter := &component.Fighter{
		MoveSpeed:           spec.MoveSpeed,
		JumpSpeed:           spec.JumpSpeed,
		ExtraJumps:          extra,
		AttackDuration:      spec.AttackDuration,
		DashPower:           spec.Dash.Power,
		DashDuration:        spec.Dash.Duration,
		DashFlatten:         spec.Dash.Flatten,
		WarpDistance:        spec.Warp.Distance,
		WarpSkin:            spec.Warp.Skin,
		UltimateStartsReady: spec.UltimateStartReady,
	}
	if existing, ok := ecs.Get(w, e, component.FighterComponent.Kind()); ok {
		*existing = *fighter
		return nil
	}
	return ecs.Add(w, e, component.FighterComponent.Kind(), fighter)
}

func addCooldowns(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.CooldownsComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode cooldowns spec: %w", err)
	}
	cds, ok := ecs.Get(w, e, component.CooldownsComponent.Kind())
	if !ok {
		cds = &component.Cooldowns{}
		if err := ecs.Add(w, e, component.CooldownsComponent.Kind(), cds); err != nil {
			return err
		}
	}
	cds.Attack.Duration = spec.Attack
	cds.Dash.Duration = spec.Dash
	cds.Ultimate.Duration = spec.Ultimate
	// A shorter duration also shortens a cooldown already running.
	cds.Attack.Remaining = min(cds.Attack.Remaining, spec.Attack)
	cds.Dash.Remaining = min(cds.Dash.Remaining, spec.Dash)
	cds.Ultimate.Remaining = min(cds.Ultimate.Remaining, spec.Ultimate)
	return nil
}

func attackSpec(spec *prefabs.AttackSpec, fallback *prefabs.PointSpec) *component.AttackSpec {
	if spec == nil {
		return nil
	}
	origin := spec.Origin
	if origin == nil {
		origin = fallback
	}
	if origin == nil {
		return nil
	}
	out := &component.AttackSpec{
		OffsetX:                 origin.X,
		OffsetY:                 origin.Y,
		Damage:                  spec.Damage,
		BypassesInvulnerability: spec.Bypass,
		Area:                    component.Area{Shape: component.ShapeCircle, Radius: spec.Radius},
	}
	if spec.Box != nil {
		out.Area = component.Area{Shape: component.ShapeBox, Width: spec.Box.Width, Height: spec.Box.Height}
	}
	return out
}

func addAttackProfile(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.AttackProfileComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode attack_profile spec: %w", err)
	}

	var normalOrigin *prefabs.PointSpec
	var normalRadius float64
	if spec.Normal != nil {
		normalOrigin = spec.Normal.Origin
		normalRadius = spec.Normal.Radius
	}

	var ultimate *component.AttackSpec
	if spec.Ultimate != nil {
		u := spec.Ultimate.AttackSpec
		if u.Radius <= 0 && u.Box == nil {
			mult := spec.Ultimate.RadiusMultiplier
			if mult <= 0 {
				mult = 1
			}
			u.Radius = normalRadius * mult
		}
		ultimate = attackSpec(&u, normalOrigin)
		if ultimate != nil {
			ultimate.BypassesInvulnerability = true
		}
	}

	profile, ok := ecs.Get(w, e, component.AttackProfileComponent.Kind())
	if !ok {
		profile = &component.AttackProfile{}
		if err := ecs.Add(w, e, component.AttackProfileComponent.Kind(), profile); err != nil {
			return err
		}
	}
	profile.Normal = attackSpec(spec.Normal, nil)
	profile.Crouch = attackSpec(spec.Crouch, nil)
	profile.Ultimate = ultimate
	return nil
}

func addTimeline(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.TimelineComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode timeline spec: %w", err)
	}
	tl, ok := ecs.Get(w, e, component.TimelineComponent.Kind())
	if !ok {
		tl = &component.Timeline{}
		if err := ecs.Add(w, e, component.TimelineComponent.Kind(), tl); err != nil {
			return err
		}
	}
	tl.AttackImpact = spec.AttackImpact
	tl.UltimateImpact = spec.UltimateImpact
	tl.UltimateFinish = spec.UltimateFinish
	return nil
}

func addAI(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.AIComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode AI spec: %w", err)
	}
	ai, ok := ecs.Get(w, e, component.AIComponent.Kind())
	if !ok {
		ai = &component.AI{}
		if err := ecs.Add(w, e, component.AIComponent.Kind(), ai); err != nil {
			return err
		}
	}
	ai.DetectRange = spec.DetectRange
	ai.AttackRange = spec.AttackRange
	ai.DashRangeMultiplier = spec.DashRangeMultiplier
	ai.Script = spec.Script
	return nil
}
