// Package persistence provides SQLite-based world state storage.
package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/wildlife-control/internal/capper"
	"github.com/talgya/wildlife-control/internal/engine"
	"github.com/talgya/wildlife-control/internal/fauna"
	"github.com/talgya/wildlife-control/internal/settings"
	"github.com/talgya/wildlife-control/internal/world"
)

// World metadata keys.
const (
	MetaLastTick      = "last_tick"
	MetaNextCheckTick = "capper_next_check"
	MetaLastRemoval   = "capper_last_removal"
)

// DB wraps a SQLite connection for world state persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS maps (
		seq INTEGER NOT NULL,
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		tile_q INTEGER NOT NULL,
		tile_r INTEGER NOT NULL,
		biome INTEGER NOT NULL,
		elevation REAL NOT NULL,
		rainfall REAL NOT NULL,
		temperature REAL NOT NULL,
		fertility REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS creatures (
		seq INTEGER NOT NULL,
		id TEXT PRIMARY KEY,
		def TEXT NOT NULL,
		map_id TEXT NOT NULL,
		faction_id INTEGER,
		hediffs_json TEXT NOT NULL,
		age_ticks INTEGER NOT NULL,
		born_tick INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS removals (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tick INTEGER NOT NULL,
		map_id TEXT NOT NULL,
		creature_id TEXT NOT NULL,
		species TEXT NOT NULL,
		health REAL NOT NULL,
		permanent_injury INTEGER NOT NULL,
		age_ratio REAL NOT NULL,
		eligible_count INTEGER NOT NULL,
		max_population INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS world_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_creatures_map ON creatures(map_id);
	CREATE INDEX IF NOT EXISTS idx_removals_tick ON removals(tick);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveMaps writes all maps to the database (full replace).
func (db *DB) SaveMaps(maps []world.Map) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM maps"); err != nil {
		return err
	}

	for i, m := range maps {
		_, err := tx.Exec(`INSERT INTO maps
			(seq, id, name, tile_q, tile_r, biome, elevation, rainfall, temperature, fertility)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			i, m.ID, m.Name, m.Tile.Q, m.Tile.R, int(m.Biome),
			m.Elevation, m.Rainfall, m.Temperature, m.Fertility,
		)
		if err != nil {
			return fmt.Errorf("insert map %s: %w", m.ID, err)
		}
	}

	return tx.Commit()
}

// SaveCreatures writes all creatures to the database (full replace). Row
// order is preserved so that ties in removal ranking resolve the same way
// after a reload.
func (db *DB) SaveCreatures(creatures []fauna.Creature) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM creatures"); err != nil {
		return err
	}

	stmt, err := tx.Preparex(`INSERT INTO creatures
		(seq, id, def, map_id, faction_id, hediffs_json, age_ticks, born_tick)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, c := range creatures {
		hediffsJSON, err := json.Marshal(c.Hediffs)
		if err != nil {
			return fmt.Errorf("encode hediffs for %s: %w", c.ID, err)
		}
		var faction any
		if c.FactionID != nil {
			faction = int64(*c.FactionID)
		}
		_, err = stmt.Exec(
			i, c.ID, c.Def, c.MapID, faction, string(hediffsJSON),
			int64(c.AgeBiologicalTicks), int64(c.BornTick),
		)
		if err != nil {
			return fmt.Errorf("insert creature %s: %w", c.ID, err)
		}
	}

	return tx.Commit()
}

// SaveRemovals appends removal records to the database.
func (db *DB) SaveRemovals(records []engine.RemovalRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, r := range records {
		_, err := tx.NamedExec(`INSERT INTO removals
			(tick, map_id, creature_id, species, health, permanent_injury,
			 age_ratio, eligible_count, max_population)
			VALUES (:tick, :map_id, :creature_id, :species, :health, :permanent_injury,
			 :age_ratio, :eligible_count, :max_population)`, r)
		if err != nil {
			return fmt.Errorf("insert removal of %s: %w", r.CreatureID, err)
		}
	}

	return tx.Commit()
}

// FlushRemovals saves the simulation's pending removals. On failure the
// records go back to the simulation for the next flush.
func (db *DB) FlushRemovals(sim *engine.Simulation) error {
	records := sim.DrainRemovals()
	if err := db.SaveRemovals(records); err != nil {
		sim.RequeueRemovals(records)
		return fmt.Errorf("save removals: %w", err)
	}
	return nil
}

// RecentRemovals returns the most recent N removals, newest first.
func (db *DB) RecentRemovals(limit int) ([]engine.RemovalRecord, error) {
	var records []engine.RemovalRecord
	err := db.conn.Select(&records,
		`SELECT tick, map_id, creature_id, species, health, permanent_injury,
			age_ratio, eligible_count, max_population
		FROM removals ORDER BY id DESC LIMIT ?`,
		limit,
	)
	return records, err
}

// CountRemovals returns the number of removals ever recorded.
func (db *DB) CountRemovals() (int, error) {
	var n int
	err := db.conn.Get(&n, "SELECT COUNT(*) FROM removals")
	return n, err
}

// SaveMeta stores a key-value pair in world metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value. A missing key yields
// settings.ErrNotFound.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM world_meta WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%s: %w", key, settings.ErrNotFound)
	}
	return value, err
}

func (db *DB) getMetaUint(key string) (uint64, error) {
	raw, err := db.GetMeta(key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}

// SaveWorldState performs a full save of a world snapshot.
func (db *DB) SaveWorldState(snap engine.WorldSnapshot) error {
	slog.Info("saving world state", "maps", len(snap.Maps), "creatures", len(snap.Creatures), "tick", snap.Tick)

	if err := db.SaveMaps(snap.Maps); err != nil {
		return fmt.Errorf("save maps: %w", err)
	}
	if err := db.SaveCreatures(snap.Creatures); err != nil {
		return fmt.Errorf("save creatures: %w", err)
	}
	meta := map[string]string{
		MetaLastTick:      strconv.FormatUint(snap.Tick, 10),
		MetaNextCheckTick: strconv.FormatUint(snap.Capper.NextCheckTick, 10),
		MetaLastRemoval:   strconv.FormatBool(snap.Capper.LastRemovalOccurred),
	}
	for k, v := range meta {
		if err := db.SaveMeta(k, v); err != nil {
			return fmt.Errorf("save meta: %w", err)
		}
	}

	slog.Info("world state saved")
	return nil
}

// HasWorldState reports whether a world has been saved before.
func (db *DB) HasWorldState() bool {
	var n int
	if err := db.conn.Get(&n, "SELECT COUNT(*) FROM maps"); err != nil {
		return false
	}
	return n > 0
}

// LoadMaps reads all maps in their saved order.
func (db *DB) LoadMaps() ([]*world.Map, error) {
	var rows []struct {
		ID          string  `db:"id"`
		Name        string  `db:"name"`
		TileQ       int     `db:"tile_q"`
		TileR       int     `db:"tile_r"`
		Biome       int     `db:"biome"`
		Elevation   float64 `db:"elevation"`
		Rainfall    float64 `db:"rainfall"`
		Temperature float64 `db:"temperature"`
		Fertility   float64 `db:"fertility"`
	}
	err := db.conn.Select(&rows, `SELECT id, name, tile_q, tile_r, biome,
		elevation, rainfall, temperature, fertility FROM maps ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("load maps: %w", err)
	}

	maps := make([]*world.Map, 0, len(rows))
	for _, r := range rows {
		maps = append(maps, &world.Map{
			ID:          r.ID,
			Name:        r.Name,
			Tile:        world.HexCoord{Q: r.TileQ, R: r.TileR},
			Biome:       world.Biome(r.Biome),
			Elevation:   r.Elevation,
			Rainfall:    r.Rainfall,
			Temperature: r.Temperature,
			Fertility:   r.Fertility,
		})
	}
	return maps, nil
}

// LoadCreatures reads all creatures in their saved order. Every loaded
// creature is spawned.
func (db *DB) LoadCreatures() ([]*fauna.Creature, error) {
	var rows []struct {
		ID          string        `db:"id"`
		Def         string        `db:"def"`
		MapID       string        `db:"map_id"`
		FactionID   sql.NullInt64 `db:"faction_id"`
		HediffsJSON string        `db:"hediffs_json"`
		AgeTicks    int64         `db:"age_ticks"`
		BornTick    int64         `db:"born_tick"`
	}
	err := db.conn.Select(&rows, `SELECT id, def, map_id, faction_id, hediffs_json,
		age_ticks, born_tick FROM creatures ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("load creatures: %w", err)
	}

	creatures := make([]*fauna.Creature, 0, len(rows))
	for _, r := range rows {
		c := &fauna.Creature{
			ID:                 r.ID,
			Def:                r.Def,
			MapID:              r.MapID,
			AgeBiologicalTicks: uint64(r.AgeTicks),
			BornTick:           uint64(r.BornTick),
			Spawned:            true,
		}
		if r.FactionID.Valid {
			f := uint64(r.FactionID.Int64)
			c.FactionID = &f
		}
		if err := json.Unmarshal([]byte(r.HediffsJSON), &c.Hediffs); err != nil {
			return nil, fmt.Errorf("decode hediffs for %s: %w", r.ID, err)
		}
		creatures = append(creatures, c)
	}
	return creatures, nil
}

// LoadClock returns the saved tick and scheduler state. A database with no
// saved clock yields zero values.
func (db *DB) LoadClock() (uint64, capper.State, error) {
	var state capper.State

	tick, err := db.getMetaUint(MetaLastTick)
	if errors.Is(err, settings.ErrNotFound) {
		return 0, state, nil
	}
	if err != nil {
		return 0, state, err
	}

	next, err := db.getMetaUint(MetaNextCheckTick)
	if err != nil && !errors.Is(err, settings.ErrNotFound) {
		return 0, state, err
	}
	state.NextCheckTick = next

	raw, err := db.GetMeta(MetaLastRemoval)
	switch {
	case errors.Is(err, settings.ErrNotFound):
	case err != nil:
		return 0, state, err
	default:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return 0, state, fmt.Errorf("parse %s: %w", MetaLastRemoval, err)
		}
		state.LastRemovalOccurred = b
	}

	return tick, state, nil
}
