// Package archive persists a cleaned fix set to SQLite so downstream
// correlation tooling can query it without re-running the pipeline.
package archive

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"aisingest/nav"

	_ "modernc.org/sqlite"
)

// Writer owns one SQLite database of archived runs. Unlike a live feed there
// is no hot path to protect, so writes are synchronous: one transaction per
// batch, committed before Store returns.
type Writer struct {
	db *sql.DB
}

// NewWriter opens (or creates) the database at path and ensures the schema
// exists.
func NewWriter(path string) (*Writer, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("archive: ensure dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("archive: open db: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec(`pragma journal_mode=WAL; pragma synchronous=NORMAL`); err != nil {
		db.Close()
		return nil, fmt.Errorf("archive: pragmas: %w", err)
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Writer{db: db}, nil
}

func initSchema(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS nav_fixes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    utc_ts REAL,
    pc_ts REAL,
    mmsi INTEGER,
    ship_name TEXT,
    ship_type TEXT,
    nav_status INTEGER,
    sog REAL,
    lat REAL,
    lon REAL,
    cog REAL,
    heading REAL
);
CREATE INDEX IF NOT EXISTS idx_nav_fixes_mmsi_utc ON nav_fixes(mmsi, utc_ts);`
	_, err := db.Exec(schema)
	return err
}

// Store inserts the whole fix set in one transaction. NaN sentinels are
// stored as SQL NULL so numeric queries skip them naturally.
func (w *Writer) Store(fixes []nav.Fix) error {
	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("archive: begin tx: %w", err)
	}
	stmt, err := tx.Prepare(`insert into nav_fixes(utc_ts, pc_ts, mmsi, ship_name, ship_type, nav_status, sog, lat, lon, cog, heading) values(?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("archive: prepare: %w", err)
	}
	for i := range fixes {
		f := &fixes[i]
		if _, err := stmt.Exec(
			nullFloat(f.UTCTime),
			nullFloat(f.PCTime),
			f.MMSI,
			f.ShipName,
			f.ShipType,
			f.NavStatus,
			nullFloat(float64(f.SOG)),
			nullFloat(f.Lat),
			nullFloat(f.Lon),
			nullFloat(float64(f.COG)),
			nullFloat(float64(f.Heading)),
		); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return fmt.Errorf("archive: insert: %w", err)
		}
	}
	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("archive: close stmt: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("archive: commit: %w", err)
	}
	return nil
}

// Count returns the number of archived fixes.
func (w *Writer) Count() (int64, error) {
	var n int64
	err := w.db.QueryRow(`select count(*) from nav_fixes`).Scan(&n)
	return n, err
}

// Close closes the underlying database.
func (w *Writer) Close() error {
	if w == nil || w.db == nil {
		return nil
	}
	return w.db.Close()
}

func nullFloat(v float64) sql.NullFloat64 {
	if v != v { // NaN
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}
