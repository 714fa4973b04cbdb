// Package config loads runtime configuration from a YAML file, a .env file
// and WILDSIM_* environment variables, in that order of precedence (last wins).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/talgya/wildlife-control/internal/settings"
)

// Config is the full runtime configuration.
type Config struct {
	Seed         int64         `yaml:"seed"`
	DBPath       string        `yaml:"db_path"`
	Port         int           `yaml:"port"`
	AdminKey     string        `yaml:"-"` // Env only: WILDSIM_ADMIN_KEY
	Maps         int           `yaml:"maps"`
	PlanetRadius int           `yaml:"planet_radius"`
	TickInterval time.Duration `yaml:"tick_interval"`
	DayTicks     uint64        `yaml:"day_ticks"`
	ShortDelay   uint64        `yaml:"short_delay_ticks"`

	// MaxWildAnimals seeds the setting for a fresh database only; a saved
	// value always wins.
	MaxWildAnimals int `yaml:"max_wild_animals"`

	Dynamics Dynamics `yaml:"dynamics"`
}

// Dynamics mirrors engine.Dynamics for the YAML file.
type Dynamics struct {
	InjuryChance    float64 `yaml:"injury_chance"`
	MigrationChance float64 `yaml:"migration_chance"`
	TameChance      float64 `yaml:"tame_chance"`
	HealPerHour     float64 `yaml:"heal_per_hour"`
	OldAgeMortality float64 `yaml:"old_age_mortality"`
	MaturityRatio   float64 `yaml:"maturity_ratio"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Seed:           42,
		DBPath:         "data/wildlife.db",
		Port:           8080,
		Maps:           3,
		PlanetRadius:   40,
		TickInterval:   time.Millisecond,
		DayTicks:       60000,
		ShortDelay:     2,
		MaxWildAnimals: settings.DefaultMaxWildAnimals,
		Dynamics: Dynamics{
			InjuryChance:    0.01,
			MigrationChance: 0.35,
			TameChance:      0.05,
			HealPerHour:     0.004,
			OldAgeMortality: 0.2,
			MaturityRatio:   0.15,
		},
	}
}

// Load reads path over the defaults. An empty path or a missing file yields
// the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv loads envFile (if present) into the process environment, then
// applies WILDSIM_* overrides.
func (c *Config) ApplyEnv(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	if v := os.Getenv("WILDSIM_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("WILDSIM_ADMIN_KEY"); v != "" {
		c.AdminKey = v
	}
	if err := envInt64("WILDSIM_SEED", &c.Seed); err != nil {
		return err
	}
	if err := envInt("WILDSIM_PORT", &c.Port); err != nil {
		return err
	}
	if err := envInt("WILDSIM_MAPS", &c.Maps); err != nil {
		return err
	}
	if err := envInt("WILDSIM_MAX_WILD_ANIMALS", &c.MaxWildAnimals); err != nil {
		return err
	}
	if v := os.Getenv("WILDSIM_TICK_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("WILDSIM_TICK_INTERVAL: %w", err)
		}
		c.TickInterval = d
	}
	return nil
}

func envInt(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func envInt64(key string, dst *int64) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

// Validate rejects configurations the simulation cannot run with. The wild
// animal limit is clamped rather than rejected.
func (c *Config) Validate() error {
	c.MaxWildAnimals = settings.Clamp(c.MaxWildAnimals)

	switch {
	case c.DBPath == "":
		return errors.New("db_path must be set")
	case c.Port <= 0 || c.Port > 65535:
		return fmt.Errorf("port %d out of range", c.Port)
	case c.Maps <= 0:
		return fmt.Errorf("maps must be positive, got %d", c.Maps)
	case c.DayTicks == 0:
		return errors.New("day_ticks must be positive")
	case c.ShortDelay == 0:
		return errors.New("short_delay_ticks must be positive")
	case c.ShortDelay >= c.DayTicks:
		return fmt.Errorf("short_delay_ticks (%d) must be shorter than day_ticks (%d)", c.ShortDelay, c.DayTicks)
	case c.TickInterval < 0:
		return fmt.Errorf("tick_interval %s is negative", c.TickInterval)
	}
	return nil
}
