package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/thatsimonsguy/ntc-thermostat/internal/sensor"
)

type ReadingRow struct {
	ID             int64
	RawCode        int
	ResistanceOhms float64
	Celsius        float64
	Fahrenheit     float64
	Kelvin         float64
	RecordedAt     time.Time
}

func InsertReading(dbConn *sql.DB, r sensor.Reading, at time.Time) error {
	_, err := dbConn.Exec(
		`INSERT INTO readings (raw_code, resistance_ohms, celsius, fahrenheit, kelvin, recorded_at) VALUES (?, ?, ?, ?, ?, ?)`,
		r.RawCode, r.ResistanceOhms, r.TemperatureCelsius, r.TemperatureFahrenheit, r.TemperatureKelvin,
		at.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to insert reading: %w", err)
	}
	return nil
}

// RecentReadings returns up to limit readings, newest first.
func RecentReadings(dbConn *sql.DB, limit int) ([]ReadingRow, error) {
	rows, err := dbConn.Query(
		`SELECT id, raw_code, resistance_ohms, celsius, fahrenheit, kelvin, recorded_at
		 FROM readings ORDER BY recorded_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query readings: %w", err)
	}
	defer rows.Close()

	var result []ReadingRow
	for rows.Next() {
		var row ReadingRow
		var recordedAt string
		if err := rows.Scan(&row.ID, &row.RawCode, &row.ResistanceOhms, &row.Celsius, &row.Fahrenheit, &row.Kelvin, &recordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan reading: %w", err)
		}
		row.RecordedAt, err = time.Parse(time.RFC3339Nano, recordedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse recorded_at %q: %w", recordedAt, err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// PurgeBefore deletes readings older than the cutoff and reports how many
// rows went away.
func PurgeBefore(dbConn *sql.DB, cutoff time.Time) (int64, error) {
	res, err := dbConn.Exec(`DELETE FROM readings WHERE recorded_at < ?`, cutoff.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("failed to purge readings: %w", err)
	}
	return res.RowsAffected()
}
