// Package airports provides the airport directory: IATA to ICAO resolution,
// display names and coordinates for the supported airport set. The directory
// is backed by SQLite and seeded once from a CSV asset.
package airports

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/jszwec/csvutil"

	"github.com/flightcast/flightcast/pkg/logger"
)

// Directory is the SQLite-backed airport lookup
type Directory struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewDirectory creates a directory on the given database handle
func NewDirectory(db *sql.DB, logger *logger.Logger) (*Directory, error) {
	d := &Directory{
		db:     db,
		logger: logger.Named("airports"),
	}
	if err := d.initDB(); err != nil {
		return nil, fmt.Errorf("failed to initialize airport directory: %w", err)
	}
	return d, nil
}

// initDB initializes the database tables
func (d *Directory) initDB() error {
	_, err := d.db.Exec(`
		CREATE TABLE IF NOT EXISTS airports (
			iata TEXT PRIMARY KEY,
			icao TEXT NOT NULL,
			name TEXT NOT NULL,
			latitude REAL NOT NULL,
			longitude REAL NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create airports table: %w", err)
	}

	_, err = d.db.Exec(`CREATE INDEX IF NOT EXISTS idx_airports_icao ON airports(icao)`)
	if err != nil {
		return fmt.Errorf("failed to create airport index: %w", err)
	}

	return nil
}

// SeedFromCSV loads the directory from a CSV asset if the table is empty.
// Rows without an IATA or ICAO code are skipped.
func (d *Directory) SeedFromCSV(path string) error {
	var count int
	if err := d.db.QueryRow(`SELECT COUNT(*) FROM airports`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count airports: %w", err)
	}
	if count > 0 {
		d.logger.Debug("Airport directory already seeded", logger.Int("count", count))
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read airport CSV: %w", err)
	}

	var entries []Airport
	if err := csvutil.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("failed to parse airport CSV: %w", err)
	}

	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR IGNORE INTO airports (iata, icao, name, latitude, longitude) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare seed statement: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, a := range entries {
		if a.IATA == "" || a.ICAO == "" {
			continue
		}
		if _, err := stmt.Exec(a.IATA, a.ICAO, a.Name, a.Latitude, a.Longitude); err != nil {
			return fmt.Errorf("failed to insert airport %s: %w", a.IATA, err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit airport seed: %w", err)
	}

	d.logger.Info("Seeded airport directory",
		logger.String("csv", path),
		logger.Int("airports", inserted))
	return nil
}

// ResolveICAO maps a public IATA code to the route network's ICAO identifier
func (d *Directory) ResolveICAO(iata string) (string, error) {
	var icao string
	err := d.db.QueryRow(`SELECT icao FROM airports WHERE iata = ?`, iata).Scan(&icao)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("%w: %s", ErrUnknownAirport, iata)
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve ICAO for %s: %w", iata, err)
	}
	return icao, nil
}

// Get returns the full directory entry for an IATA code
func (d *Directory) Get(iata string) (*Airport, error) {
	var a Airport
	err := d.db.QueryRow(
		`SELECT iata, icao, name, latitude, longitude FROM airports WHERE iata = ?`, iata,
	).Scan(&a.IATA, &a.ICAO, &a.Name, &a.Latitude, &a.Longitude)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAirport, iata)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query airport %s: %w", iata, err)
	}
	return &a, nil
}

// DisplayName returns the airport's display name for an IATA code
func (d *Directory) DisplayName(iata string) (string, error) {
	a, err := d.Get(iata)
	if err != nil {
		return "", err
	}
	return a.Name, nil
}

// Known reports whether the IATA code is in the supported airport set
func (d *Directory) Known(iata string) bool {
	_, err := d.Get(iata)
	return err == nil
}

// List returns all airports ordered by IATA code, for UI pickers
func (d *Directory) List() ([]Airport, error) {
	rows, err := d.db.Query(`SELECT iata, icao, name, latitude, longitude FROM airports ORDER BY iata`)
	if err != nil {
		return nil, fmt.Errorf("failed to list airports: %w", err)
	}
	defer rows.Close()

	var out []Airport
	for rows.Next() {
		var a Airport
		if err := rows.Scan(&a.IATA, &a.ICAO, &a.Name, &a.Latitude, &a.Longitude); err != nil {
			return nil, fmt.Errorf("failed to scan airport row: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
