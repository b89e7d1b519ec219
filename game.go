package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/duel/common"
	"github.com/milk9111/duel/config"
	"github.com/milk9111/duel/ecs"
	"github.com/milk9111/duel/ecs/component"
	"github.com/milk9111/duel/ecs/system"
	"github.com/milk9111/duel/logging"
	"github.com/milk9111/duel/match"
	"github.com/milk9111/duel/prefabs"
	"github.com/milk9111/duel/results"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	// healthBarRate is how fast the drawn health bars catch up, in bar
	// fractions per second.
	healthBarRate   = 1.5
	leaderboardSize = 5
)

type Game struct {
	cfg      config.Config
	store    *results.Store
	recorder *results.Recorder
	watcher  *prefabs.Watcher

	match  *match.Match
	input  Input
	ui     *ebitenui.UI
	paused bool
	quit   bool
	frames int

	shownHealth map[ecs.Entity]float64
	banner      string
	leaderboard []results.Result
}

func NewGame(cfg config.Config, store *results.Store, recorder *results.Recorder, watcher *prefabs.Watcher) (*Game, error) {
	g := &Game{
		cfg:      cfg,
		store:    store,
		recorder: recorder,
		watcher:  watcher,
	}
	if err := g.newMatch(); err != nil {
		return nil, err
	}
	g.ui = NewPauseUI(g)
	return g, nil
}

func (g *Game) newMatch() error {
	m, err := match.New(match.Options{
		MatchFile:  g.cfg.Match,
		Enemy:      g.cfg.Enemy,
		PlayerName: g.cfg.PlayerName,
		Difficulty: g.cfg.Difficulty,
		Results:    g.recorder,
	})
	if err != nil {
		return err
	}
	g.match = m
	g.shownHealth = map[ecs.Entity]float64{m.Player(): 1, m.Enemy(): 1}
	g.banner = ""
	return nil
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}
	g.frames++
	g.drainReloads()

	g.input.Update()
	if g.input.Pause {
		g.paused = !g.paused
	}
	if g.paused {
		g.ui.Update()
		return nil
	}

	if g.match.Ended() {
		if g.input.Restart {
			if err := g.newMatch(); err != nil {
				logging.Error("restart match", err, nil)
			}
		}
		return nil
	}

	dt := 1.0 / float64(ebiten.TPS())
	g.input.Apply(g.match.Actor(g.match.Player()))
	g.match.Step(dt)
	g.handleEvents()

	for e := range g.shownHealth {
		if h, ok := ecs.Get(g.match.World(), e, component.HealthComponent.Kind()); ok {
			g.shownHealth[e] = common.Approach(g.shownHealth[e], h.Fraction(), healthBarRate*dt)
		}
	}
	return nil
}

func (g *Game) handleEvents() {
	for _, ev := range g.match.Events() {
		switch ev.Type {
		case system.EventRoundWon:
			if r, ok := ev.Data.(system.RoundEvent); ok {
				g.banner = fmt.Sprintf("%s takes round %d", strings.ToUpper(r.Winner.String()), r.Round)
			}
		case system.EventMatchEnded:
			if r, ok := ev.Data.(system.RoundEvent); ok {
				g.banner = fmt.Sprintf("%s wins the match in %.1fs  (enter to rematch)", strings.ToUpper(r.Winner.String()), r.Elapsed)
			}
			g.refreshLeaderboard()
		case system.EventGateReleased:
			g.banner = ""
		default:
			logging.Debug("event", logging.Fields{"type": ev.Type})
		}
	}
}

// refreshLeaderboard reads the store directly; the recorder may not have
// written the latest result yet, in which case it shows on the next match.
func (g *Game) refreshLeaderboard() {
	if g.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()
	top, err := g.store.Top(ctx, g.cfg.Difficulty, leaderboardSize)
	if err != nil {
		logging.Error("load leaderboard", err, nil)
		return
	}
	g.leaderboard = top
}

func (g *Game) drainReloads() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case change, ok := <-g.watcher.Changes:
			if !ok {
				g.watcher = nil
				return
			}
			if err := g.match.Reload(change); err != nil {
				logging.Error("hot reload", err, logging.Fields{"file": change.Path, "kind": change.Kind.String()})
			}
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			logging.Error("prefab watcher", err, nil)
		default:
			return
		}
	}
}

// forceReset is the pause menu's operator escape hatch.
func (g *Game) forceReset() {
	g.match.ForceNeutral()
	g.paused = false
}

func (g *Game) Draw(screen *ebiten.Image) {
	drawMatch(screen, g.match, g.shownHealth, g.cfg.Debug)
	drawHUD(screen, g.match, g.banner, g.leaderboard)
	if g.paused {
		g.ui.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
