package entity

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/milk9111/duel/ecs"
	"github.com/milk9111/duel/ecs/component"
	"github.com/milk9111/duel/prefabs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useEmbeddedPrefabs(t *testing.T) {
	t.Helper()
	prev := prefabs.Dir()
	prefabs.SetDir("")
	t.Cleanup(func() { prefabs.SetDir(prev) })
}

func TestBuildCombatantFromPrefab(t *testing.T) {
	useEmbeddedPrefabs(t)
	w := ecs.NewWorld()

	e, err := BuildCombatant(w, "roman.yaml", component.Spawn{X: 900, Y: 600, Facing: -1})
	require.NoError(t, err)

	c, ok := ecs.Get(w, e, component.CombatantComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, "roman", c.Name)
	assert.Equal(t, component.FactionEnemy, c.Faction)
	assert.Equal(t, component.FactionPlayer, c.Opponents)

	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	assert.Equal(t, 900.0, tr.X)
	assert.Equal(t, -1.0, tr.FacingSign())

	profile, _ := ecs.Get(w, e, component.AttackProfileComponent.Kind())
	require.NotNil(t, profile.Normal)
	require.NotNil(t, profile.Ultimate)
	assert.Equal(t, component.ShapeBox, profile.Ultimate.Area.Shape)
	assert.True(t, profile.Ultimate.BypassesInvulnerability)

	cds, _ := ecs.Get(w, e, component.CooldownsComponent.Kind())
	assert.False(t, cds.Ultimate.Ready(), "ultimate starts on cooldown")
	assert.True(t, cds.Attack.Ready())

	assert.True(t, ecs.Has(w, e, component.AIComponent.Kind()))
	assert.False(t, ecs.Has(w, e, component.PlayerControlledComponent.Kind()))
	assert.True(t, ecs.Has(w, e, component.SignalsComponent.Kind()))
}

func TestUltimateFallsBackToNormalOriginAndRadius(t *testing.T) {
	useEmbeddedPrefabs(t)
	w := ecs.NewWorld()

	e, err := BuildCombatant(w, "hero.yaml", component.Spawn{X: 100, Y: 600})
	require.NoError(t, err)
	assert.True(t, ecs.Has(w, e, component.PlayerControlledComponent.Kind()))

	profile, _ := ecs.Get(w, e, component.AttackProfileComponent.Kind())
	require.NotNil(t, profile.Ultimate)
	assert.Equal(t, profile.Normal.OffsetX, profile.Ultimate.OffsetX)
	assert.Equal(t, component.ShapeCircle, profile.Ultimate.Area.Shape)
	assert.Equal(t, profile.Normal.Area.Radius*3, profile.Ultimate.Area.Radius)
}

func TestMissingOriginsLeaveGaps(t *testing.T) {
	useEmbeddedPrefabs(t)
	w := ecs.NewWorld()

	e, err := BuildCombatant(w, "brute.yaml", component.Spawn{X: 100, Y: 600})
	require.NoError(t, err)

	profile, _ := ecs.Get(w, e, component.AttackProfileComponent.Kind())
	assert.NotNil(t, profile.Normal)
	assert.Nil(t, profile.Crouch)
	assert.Nil(t, profile.Ultimate)
}

func TestBuildEntityRejectsBadPrefabs(t *testing.T) {
	dir := t.TempDir()
	prev := prefabs.Dir()
	prefabs.SetDir(dir)
	t.Cleanup(func() { prefabs.SetDir(prev) })

	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	write("nofaction.yaml", "name: x\ncomponents:\n  combatant:\n    faction: neutral\n")
	write("unknown.yaml", "name: x\ncomponents:\n  combatant:\n    faction: enemy\n  sprite: {}\n")
	write("empty.yaml", "name: x\n")
	write("notcombatant.yaml", "name: x\ncomponents:\n  health:\n    max: 10\n")

	tests := []struct {
		name   string
		prefab string
	}{
		{name: "unknown faction", prefab: "nofaction.yaml"},
		{name: "unknown component", prefab: "unknown.yaml"},
		{name: "no components", prefab: "empty.yaml"},
		{name: "not a combatant", prefab: "notcombatant.yaml"},
		{name: "missing file", prefab: "missing.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ecs.NewWorld()
			_, err := BuildCombatant(w, tt.prefab, component.Spawn{})
			require.Error(t, err)
			assert.Empty(t, ecs.Entities(w), "failed builds leave nothing behind")
		})
	}
}

func TestApplyTuningKeepsRuntimeState(t *testing.T) {
	dir := t.TempDir()
	prev := prefabs.Dir()
	prefabs.SetDir(dir)
	t.Cleanup(func() { prefabs.SetDir(prev) })

	path := filepath.Join(dir, "tuned.yaml")
	base := `name: tuned
components:
  combatant:
    faction: enemy
  health:
    max: 100
    iframes: 0.5
  fighter:
    move_speed: 100
  cooldowns:
    attack: 1
  attack_profile:
    normal:
      origin: {x: 10, y: 0}
      radius: 10
      damage: 5
`
	require.NoError(t, os.WriteFile(path, []byte(base), 0o644))

	w := ecs.NewWorld()
	e, err := BuildCombatant(w, "tuned.yaml", component.Spawn{X: 50, Y: 60})
	require.NoError(t, err)

	h, _ := ecs.Get(w, e, component.HealthComponent.Kind())
	h.TakeDamage(30, false)
	cds, _ := ecs.Get(w, e, component.CooldownsComponent.Kind())
	cds.Attack.Start()
	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	tr.X = 75

	tuned := `name: tuned
components:
  combatant:
    faction: enemy
  health:
    max: 50
    iframes: 0.2
  fighter:
    move_speed: 300
  cooldowns:
    attack: 0.25
  attack_profile:
    normal:
      origin: {x: 10, y: 0}
      radius: 10
      damage: 40
`
	require.NoError(t, os.WriteFile(path, []byte(tuned), 0o644))
	require.NoError(t, ApplyTuning(w, e, "tuned.yaml"))

	fighter, _ := ecs.Get(w, e, component.FighterComponent.Kind())
	profile, _ := ecs.Get(w, e, component.AttackProfileComponent.Kind())
	assert.Equal(t, 300.0, fighter.MoveSpeed)
	assert.Equal(t, 40.0, profile.Normal.Damage)
	assert.Equal(t, 50.0, h.Max)
	assert.Equal(t, 50.0, h.Current)
	assert.True(t, h.Invulnerable)
	assert.Equal(t, 0.25, cds.Attack.Remaining)
	assert.Equal(t, 75.0, tr.X)
}
