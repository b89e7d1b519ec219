package main

import (
	"errors"
	"flag"
	"log"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/duel/config"
	"github.com/milk9111/duel/logging"
	"github.com/milk9111/duel/prefabs"
	"github.com/milk9111/duel/results"
)

func main() {
	envFile := flag.String("env", ".env", "optional .env file")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatal(err)
	}
	logging.SetDebug(cfg.Debug)
	prefabs.SetDir(cfg.PrefabDir)

	store, err := results.Open(cfg.DBPath)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()
	recorder := results.NewRecorder(store, 0)
	defer recorder.Close()

	var watcher *prefabs.Watcher
	if cfg.HotReload && cfg.PrefabDir != "" {
		watcher, err = prefabs.NewWatcher(cfg.PrefabDir, filepath.Join(cfg.PrefabDir, "scripts"))
		if err != nil {
			logging.Error("prefab watcher disabled", err, logging.Fields{"dir": cfg.PrefabDir})
			watcher = nil
		} else {
			defer watcher.Close()
		}
	}

	game, err := NewGame(cfg, store, recorder, watcher)
	if err != nil {
		log.Fatal(err)
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("duel")
	ebiten.SetTPS(cfg.TPS)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
