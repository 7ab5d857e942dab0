package db

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Open opens (or creates) the readings database and ensures the schema.
func Open(path string) (*sql.DB, error) {
	dbConn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := Migrate(dbConn); err != nil {
		dbConn.Close()
		return nil, err
	}
	return dbConn, nil
}

// Migrate creates the readings log schema when missing.
func Migrate(dbConn *sql.DB) error {
	_, err := dbConn.Exec(`CREATE TABLE IF NOT EXISTS readings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		raw_code INTEGER NOT NULL,
		resistance_ohms REAL NOT NULL,
		celsius REAL NOT NULL,
		fahrenheit REAL NOT NULL,
		kelvin REAL NOT NULL,
		recorded_at TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("failed to create readings table: %w", err)
	}

	_, err = dbConn.Exec(`CREATE INDEX IF NOT EXISTS idx_readings_recorded_at ON readings(recorded_at)`)
	if err != nil {
		return fmt.Errorf("failed to create readings index: %w", err)
	}

	return nil
}
