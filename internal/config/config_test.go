package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wildsim.yaml")
	body := `
seed: 7
maps: 5
day_ticks: 2400
short_delay_ticks: 3
tick_interval: 5ms
max_wild_animals: 40
dynamics:
  migration_chance: 0.9
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, 5, cfg.Maps)
	assert.Equal(t, uint64(2400), cfg.DayTicks)
	assert.Equal(t, uint64(3), cfg.ShortDelay)
	assert.Equal(t, 5*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, 40, cfg.MaxWildAnimals)
	assert.Equal(t, 0.9, cfg.Dynamics.MigrationChance)
	// Untouched keys keep their defaults.
	assert.Equal(t, Default().DBPath, cfg.DBPath)
	assert.Equal(t, Default().Dynamics.HealPerHour, cfg.Dynamics.HealPerHour)
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("maps: [unclosed"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("WILDSIM_ADMIN_KEY=from-dotenv\n"), 0o644))

	// godotenv never overrides a variable that is already set, even to "".
	t.Setenv("WILDSIM_ADMIN_KEY", "")
	require.NoError(t, os.Unsetenv("WILDSIM_ADMIN_KEY"))
	t.Setenv("WILDSIM_DB", filepath.Join(dir, "w.db"))
	t.Setenv("WILDSIM_PORT", "9090")
	t.Setenv("WILDSIM_SEED", "123")
	t.Setenv("WILDSIM_MAX_WILD_ANIMALS", "250")
	t.Setenv("WILDSIM_TICK_INTERVAL", "2ms")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(envFile))
	assert.Equal(t, "from-dotenv", cfg.AdminKey)
	assert.Equal(t, filepath.Join(dir, "w.db"), cfg.DBPath)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, int64(123), cfg.Seed)
	assert.Equal(t, 250, cfg.MaxWildAnimals)
	assert.Equal(t, 2*time.Millisecond, cfg.TickInterval)
}

func TestApplyEnv_ProcessEnvBeatsDotenv(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("WILDSIM_ADMIN_KEY=from-dotenv\n"), 0o644))
	t.Setenv("WILDSIM_ADMIN_KEY", "from-shell")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(envFile))
	assert.Equal(t, "from-shell", cfg.AdminKey)
}

func TestApplyEnv_MissingEnvFileAndBadValues(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(filepath.Join(t.TempDir(), ".env")))

	t.Setenv("WILDSIM_PORT", "eighty")
	assert.Error(t, cfg.ApplyEnv(""))
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.MaxWildAnimals = 5000
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1000, cfg.MaxWildAnimals)

	bad := Default()
	bad.ShortDelay = bad.DayTicks
	assert.Error(t, bad.Validate())

	bad = Default()
	bad.Maps = 0
	assert.Error(t, bad.Validate())

	bad = Default()
	bad.Port = 70000
	assert.Error(t, bad.Validate())
}
