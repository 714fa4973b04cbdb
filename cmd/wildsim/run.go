package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/talgya/wildlife-control/internal/api"
	"github.com/talgya/wildlife-control/internal/capper"
	"github.com/talgya/wildlife-control/internal/config"
	"github.com/talgya/wildlife-control/internal/engine"
	"github.com/talgya/wildlife-control/internal/fauna"
	"github.com/talgya/wildlife-control/internal/persistence"
	"github.com/talgya/wildlife-control/internal/settings"
	"github.com/talgya/wildlife-control/internal/world"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the simulation and serve the HTTP API until interrupted.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return run(cmd.Context(), cfg)
	},
}

func openDB(path string) (*persistence.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return persistence.Open(path)
}

// loadSettings reads the stored limit, seeding a fresh database from the
// configured value.
func loadSettings(db *persistence.DB, seed int) (*settings.Settings, error) {
	if _, err := db.GetMeta(settings.Key); errors.Is(err, settings.ErrNotFound) {
		st := settings.New(seed)
		return st, settings.Save(db, st)
	}
	return settings.Load(db)
}

// loadWorld restores the saved world, or generates and saves a fresh one.
// It returns the tick the engine resumes from.
func loadWorld(db *persistence.DB, cfg config.Config, st *settings.Settings) (*engine.Simulation, uint64, error) {
	catalog := fauna.DefaultCatalog()
	spawner := fauna.NewSpawner(cfg.Seed, catalog, cfg.DayTicks)

	var (
		maps      []*world.Map
		creatures []*fauna.Creature
		startTick uint64
		state     capper.State
		removed   int
		err       error
	)
	saved := db.HasWorldState()
	if saved {
		slog.Info("found saved world state, loading...")
		if maps, err = db.LoadMaps(); err != nil {
			return nil, 0, err
		}
		if creatures, err = db.LoadCreatures(); err != nil {
			return nil, 0, err
		}
		if startTick, state, err = db.LoadClock(); err != nil {
			return nil, 0, err
		}
		if removed, err = db.CountRemovals(); err != nil {
			return nil, 0, fmt.Errorf("count removals: %w", err)
		}
		slog.Info("world state restored",
			"maps", len(maps),
			"creatures", humanize.Comma(int64(len(creatures))),
			"removals", humanize.Comma(int64(removed)),
			"tick", startTick,
			"sim_time", engine.SimTime(startTick, cfg.DayTicks),
		)
	} else {
		slog.Info("no saved state found, generating new world...")
		gen := world.DefaultGenConfig()
		gen.Maps = cfg.Maps
		gen.PlanetRadius = cfg.PlanetRadius
		gen.Seed = cfg.Seed
		maps = world.Generate(gen)
		for _, m := range maps {
			herd := spawner.InitialPopulation(m, 0)
			creatures = append(creatures, herd...)
			slog.Info("map generated", "map", m.String(), "creatures", len(herd))
		}
	}

	sim := engine.NewSimulation(maps, creatures, catalog, spawner, st, engine.Options{
		Seed:     cfg.Seed,
		DayTicks: cfg.DayTicks,
		Cadence:  capper.Cadence{ShortDelay: cfg.ShortDelay, FullDelay: cfg.DayTicks},
		Dynamics: engine.Dynamics{
			InjuryChance:    cfg.Dynamics.InjuryChance,
			MigrationChance: cfg.Dynamics.MigrationChance,
			TameChance:      cfg.Dynamics.TameChance,
			HealPerHour:     cfg.Dynamics.HealPerHour,
			OldAgeMortality: cfg.Dynamics.OldAgeMortality,
			MaturityRatio:   cfg.Dynamics.MaturityRatio,
		},
	})
	if saved {
		sim.Restore(startTick, state)
		sim.RestoreRemovalCount(removed)
	} else if err := save(db, sim); err != nil {
		slog.Error("initial save failed", "error", err)
	}
	return sim, startTick, nil
}

func run(ctx context.Context, cfg config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// ── Database ──────────────────────────────────────────────────────
	db, err := openDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()
	slog.Info("database opened", "path", cfg.DBPath)

	st, err := loadSettings(db, cfg.MaxWildAnimals)
	if err != nil {
		return err
	}
	slog.Info("wildlife control", "setting", st.Label())

	sim, startTick, err := loadWorld(db, cfg, st)
	if err != nil {
		return err
	}

	eng := engine.NewEngine(cfg.DayTicks)
	eng.Tick = startTick
	eng.Interval = cfg.TickInterval

	// Wire tick callbacks; auto-save every sim-day.
	eng.OnTick = sim.Tick
	eng.OnHour = sim.TickHour
	eng.OnDay = func(tick uint64) {
		sim.TickDay(tick)
		if err := save(db, sim); err != nil {
			slog.Error("daily save failed", "error", err)
		}
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	if cfg.AdminKey == "" {
		slog.Warn("WILDSIM_ADMIN_KEY not set, admin POST endpoints will be disabled")
	}
	apiServer := &api.Server{
		Sim:      sim,
		DB:       db,
		Port:     cfg.Port,
		AdminKey: cfg.AdminKey,
	}
	httpServer := apiServer.Start()

	// ── Start ─────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		slog.Info("shutting down")
		eng.Stop()
	}()

	status := sim.Status()
	fmt.Printf("\nWildlife is alive: %s creatures (%s wild) across %d maps, limit %d per map.\n",
		humanize.Comma(int64(status.Stats.TotalCreatures)),
		humanize.Comma(int64(status.Stats.WildCreatures)),
		status.Maps, status.MaxWildAnimals)
	fmt.Printf("API: http://localhost:%d/api/v1/status\n", cfg.Port)
	if startTick > 0 {
		fmt.Printf("Resuming from tick %d (%s)\n", startTick, engine.SimTime(startTick, cfg.DayTicks))
	}
	fmt.Println("Starting simulation... (Ctrl+C to stop)")

	eng.Run()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Warn("HTTP shutdown", "error", err)
	}

	// Final save on shutdown.
	slog.Info("final save...")
	if err := save(db, sim); err != nil {
		return fmt.Errorf("final save: %w", err)
	}
	fmt.Println("Simulation stopped. World state saved.")
	return nil
}

// save writes the world snapshot, the pending removal log and the limit.
func save(db *persistence.DB, sim *engine.Simulation) error {
	if err := db.SaveWorldState(sim.Snapshot()); err != nil {
		return err
	}
	if err := db.FlushRemovals(sim); err != nil {
		return err
	}
	return settings.Save(db, sim.Settings)
}
