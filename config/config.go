package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the process configuration. Gameplay tuning lives in prefabs.
type Config struct {
	DBPath     string `env:"DB_PATH" envDefault:"duel.db"`
	PrefabDir  string `env:"PREFAB_DIR" envDefault:"prefabs"`
	Match      string `env:"MATCH" envDefault:"match.yaml"`
	Enemy      string `env:"ENEMY"`
	Difficulty string `env:"DIFFICULTY" envDefault:"Normal"`
	PlayerName string `env:"PLAYER_NAME" envDefault:"Player"`
	HotReload  bool   `env:"HOT_RELOAD" envDefault:"false"`
	Debug      bool   `env:"DEBUG" envDefault:"false"`
	TPS        int    `env:"TPS" envDefault:"60"`
}

const envPrefix = "DUEL_"

// Load reads an optional .env file and then the DUEL_* environment.
// Variables already set in the environment win over the file.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return Parse()
}

// Parse reads the DUEL_* environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: envPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.TPS <= 0 {
		return fmt.Errorf("config: %sTPS must be positive, got %d", envPrefix, c.TPS)
	}
	switch strings.ToLower(c.Difficulty) {
	case "normal", "hard":
	default:
		return fmt.Errorf("config: %sDIFFICULTY must be Normal or Hard, got %q", envPrefix, c.Difficulty)
	}
	return nil
}
