// Package match assembles one encounter: the world, its two combatants, the
// arena, and the systems that run them in tick order.
package match

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/duel/ecs"
	"github.com/milk9111/duel/ecs/component"
	"github.com/milk9111/duel/ecs/entity"
	"github.com/milk9111/duel/ecs/system"
	"github.com/milk9111/duel/logging"
	"github.com/milk9111/duel/prefabs"
	"github.com/milk9111/duel/results"
	"github.com/milk9111/duel/timing"
)

// ResultSubmitter receives the result of a match the player won.
// results.Recorder satisfies it.
type ResultSubmitter interface {
	Submit(r results.Result) bool
}

type Options struct {
	// MatchFile names the match spec. Defaults to match.yaml.
	MatchFile string
	// Enemy overrides the enemy prefab named by the match spec.
	Enemy      string
	PlayerName string
	Difficulty string
	Results    ResultSubmitter
}

// Match owns one encounter. It is not safe for concurrent use; the caller
// drives it from a single loop.
type Match struct {
	world      *ecs.World
	spatial    *system.Spatial
	ai         *system.AISystem
	controller *system.ControllerSystem
	physics    *system.PhysicsSystem
	round      *system.RoundSystem
	scheduler  *system.Scheduler
	frame      system.Frame

	spec       prefabs.MatchSpec
	matchFile  string
	player     ecs.Entity
	enemy      ecs.Entity
	roundE     ecs.Entity
	prefabOf   map[ecs.Entity]string
	playerName string
	difficulty string
	results    ResultSubmitter
	events     []ecs.Event
}

// New loads the match spec and builds both combatants. The gate starts idle;
// the first countdown begins when the enemy engages.
func New(opts Options) (*Match, error) {
	if opts.MatchFile == "" {
		opts.MatchFile = "match.yaml"
	}
	spec, err := prefabs.LoadMatchSpec(opts.MatchFile)
	if err != nil {
		return nil, fmt.Errorf("match: %w", err)
	}
	if opts.Enemy != "" {
		spec.Enemy.Prefab = opts.Enemy
	}

	m := &Match{
		world:      ecs.NewWorld(),
		spatial:    system.NewSpatial(),
		spec:       spec,
		matchFile:  opts.MatchFile,
		prefabOf:   map[ecs.Entity]string{},
		playerName: opts.PlayerName,
		difficulty: opts.Difficulty,
		results:    opts.Results,
	}
	m.frame = system.Frame{
		Gate:      timing.NewCountdownGate(),
		Clock:     timing.NewWorldClock(),
		Countdown: spec.CountdownSeconds,
		Session:   spec.SessionSeconds,
	}

	for _, o := range spec.Arena.Obstacles {
		m.spatial.AddObstacle(o.X, o.Y, o.X+o.Width, o.Y+o.Height)
	}

	resolver := system.NewCombatResolver(m.spatial)
	m.ai = system.NewAISystem(prefabs.LoadScript)
	m.controller = system.NewControllerSystem(resolver, m.spatial)
	m.physics = system.NewPhysicsSystem(m.spatial, arenaFromSpec(spec.Arena))
	m.round = system.NewRoundSystem(m.onMatchEnd)
	m.scheduler = system.NewScheduler(
		system.NewGateSystem(),
		m.ai,
		m.controller,
		system.NewTimelineSystem(m.controller),
		m.physics,
		system.NewHealthSystem(),
		m.round,
		system.NewSignalSystem(),
	)

	if m.player, err = m.spawn(spec.Player, component.FactionPlayer); err != nil {
		return nil, err
	}
	if m.enemy, err = m.spawn(spec.Enemy, component.FactionEnemy); err != nil {
		return nil, err
	}

	m.roundE = ecs.CreateEntity(m.world)
	if err := ecs.Add(m.world, m.roundE, component.RoundComponent.Kind(), &component.Round{
		RoundsToWin:      spec.RoundsToWin,
		Number:           1,
		CountdownSeconds: spec.CountdownSeconds,
		SessionSeconds:   spec.SessionSeconds,
	}); err != nil {
		return nil, fmt.Errorf("match: add round: %w", err)
	}
	m.spatial.Sync(m.world)

	logging.Info("match created", logging.Fields{
		"match":         spec.Name,
		"player":        spec.Player.Prefab,
		"enemy":         spec.Enemy.Prefab,
		"rounds_to_win": spec.RoundsToWin,
	})
	return m, nil
}

func (m *Match) spawn(s prefabs.SpawnSpec, faction component.Faction) (ecs.Entity, error) {
	e, err := entity.BuildCombatant(m.world, s.Prefab, component.Spawn{X: s.X, Y: s.Y, Facing: s.Facing})
	if err != nil {
		return 0, fmt.Errorf("match: spawn %s: %w", faction, err)
	}
	c, _ := ecs.Get(m.world, e, component.CombatantComponent.Kind())
	if c.Faction != faction {
		return 0, fmt.Errorf("match: prefab %q is %s, want %s", s.Prefab, c.Faction, faction)
	}
	m.prefabOf[e] = s.Prefab
	return e, nil
}

func arenaFromSpec(a prefabs.ArenaSpec) system.Arena {
	return system.Arena{
		Left:    0,
		Right:   a.Width,
		Floor:   a.Floor,
		Gravity: a.Gravity,
		MaxFall: a.MaxFall,
	}
}

// Step advances the encounter by dt seconds of real time.
func (m *Match) Step(dt float64) {
	if dt < 0 {
		dt = 0
	}
	m.frame.Dt = dt
	m.frame.Tick++
	m.world.Events().Stamp(m.frame.Tick)
	m.scheduler.Update(m.world, &m.frame)
	m.events = append(m.events, m.world.Events().Drain()...)
}

// Events returns and clears everything published since the last call.
func (m *Match) Events() []ecs.Event {
	m.events = append(m.events, m.world.Events().Drain()...)
	out := m.events
	m.events = nil
	return out
}

func (m *Match) World() *ecs.World { return m.world }

func (m *Match) Player() ecs.Entity { return m.player }

func (m *Match) Enemy() ecs.Entity { return m.enemy }

// Actor returns the capability surface used to drive e.
func (m *Match) Actor(e ecs.Entity) system.ActorHandle {
	return system.NewActor(m.world, e)
}

func (m *Match) Gate() *timing.CountdownGate { return m.frame.Gate }

func (m *Match) Clock() *timing.WorldClock { return m.frame.Clock }

func (m *Match) Spec() prefabs.MatchSpec { return m.spec }

// Round returns a snapshot of the scoreboard.
func (m *Match) Round() component.Round {
	if r, ok := ecs.Get(m.world, m.roundE, component.RoundComponent.Kind()); ok {
		return *r
	}
	return component.Round{}
}

// RoundState is the lifecycle state of the round orchestrator.
func (m *Match) RoundState() string { return m.round.State() }

func (m *Match) Ended() bool { return m.round.State() == system.RoundEnded }

// AttackDamageInstant is called by presentation at the impact frame of a
// normal attack.
func (m *Match) AttackDamageInstant(e ecs.Entity) []system.HitEvent {
	return m.controller.AttackDamageInstant(m.world, &m.frame, e)
}

func (m *Match) AttackEnd(e ecs.Entity) bool {
	return m.controller.AttackEnd(m.world, &m.frame, e)
}

func (m *Match) UltimateDamageInstant(e ecs.Entity) []system.HitEvent {
	return m.controller.UltimateDamageInstant(m.world, &m.frame, e)
}

func (m *Match) UltimateFinish(e ecs.Entity) bool {
	return m.controller.UltimateFinish(m.world, &m.frame, e)
}

// ForceNeutral is the operator escape hatch.
func (m *Match) ForceNeutral() {
	system.ForceNeutral(m.world, &m.frame)
}

// ApplyTuning re-reads prefabPath and retunes every live combatant built
// from it. Runtime state such as health and cooldown progress is kept.
func (m *Match) ApplyTuning(prefabPath string) error {
	want := prefabKey(prefabPath)
	applied := 0
	for e, p := range m.prefabOf {
		if prefabKey(p) != want {
			continue
		}
		if err := entity.ApplyTuning(m.world, e, p); err != nil {
			return fmt.Errorf("match: %w", err)
		}
		applied++
	}
	m.ai.Reload()
	logging.Info("tuning applied", logging.Fields{"prefab": prefabPath, "entities": applied})
	return nil
}

// Reload applies a changed prefab, match spec, or AI script from disk.
func (m *Match) Reload(c prefabs.Change) error {
	switch {
	case c.Kind == prefabs.ChangeScript:
		m.ai.Reload()
		logging.Info("ai scripts reloaded", logging.Fields{"file": c.Name()})
		return nil
	case prefabKey(c.Name()) == prefabKey(m.matchFile):
		return m.reloadMatchSpec()
	default:
		return m.ApplyTuning(c.Name())
	}
}

// reloadMatchSpec retunes physics constants and round settings. Obstacles
// and spawns apply to the next match.
func (m *Match) reloadMatchSpec() error {
	spec, err := prefabs.LoadMatchSpec(m.matchFile)
	if err != nil {
		return fmt.Errorf("match: %w", err)
	}
	m.physics.SetArena(arenaFromSpec(spec.Arena))
	m.frame.Countdown = spec.CountdownSeconds
	m.frame.Session = spec.SessionSeconds
	if r, ok := ecs.Get(m.world, m.roundE, component.RoundComponent.Kind()); ok {
		r.RoundsToWin = spec.RoundsToWin
		r.CountdownSeconds = spec.CountdownSeconds
		r.SessionSeconds = spec.SessionSeconds
	}
	m.spec.Arena.Gravity = spec.Arena.Gravity
	m.spec.Arena.MaxFall = spec.Arena.MaxFall
	m.spec.RoundsToWin = spec.RoundsToWin
	logging.Info("match spec reloaded", logging.Fields{"file": m.matchFile})
	return nil
}

func (m *Match) onMatchEnd(ev system.RoundEvent) {
	if ev.Winner != component.FactionPlayer || m.results == nil {
		return
	}
	ok := m.results.Submit(results.Result{
		PlayerName: m.playerName,
		Seconds:    ev.Elapsed,
		Stage:      m.spec.Name,
		Difficulty: m.difficulty,
		PlayerWins: ev.PlayerWins,
		EnemyWins:  ev.EnemyWins,
	})
	if !ok {
		logging.Warn("match result not queued", logging.Fields{"seconds": ev.Elapsed})
	}
}

func prefabKey(p string) string {
	return strings.ToLower(path.Base(filepath.ToSlash(p)))
}

// DrawSpatial renders the collision shapes for debugging.
func (m *Match) DrawSpatial(d cp.Drawer) {
	m.spatial.DrawDebug(d)
}
