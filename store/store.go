package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/solhub/solarsched/core/model"
)

// Store persists weather history and production estimates using SQLite.
type Store struct {
	db *sql.DB
}

// Config locates the history database.
type Config struct {
	// Path is the SQLite file location. ":memory:" keeps history in memory.
	Path string `json:"path"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Path == "" {
		c.Path = "solarsched.db"
	}
}

// New opens the database and initializes the schema.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("init: %w (close: %v)", err, cerr)
		}
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS weather_samples (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		temperature REAL,
		cloud_cover REAL,
		solar_irradiance REAL,
		wind_speed REAL,
		humidity REAL
	);

	CREATE TABLE IF NOT EXISTS production_estimates (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		output_kw REAL NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_weather_run ON weather_samples(run_id);
	CREATE INDEX IF NOT EXISTS idx_production_run ON production_estimates(run_id);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// SaveForecast records the weather samples used by an optimization run.
func (s *Store) SaveForecast(runID string, samples []model.WeatherSample) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO weather_samples
		(run_id, timestamp, temperature, cloud_cover, solar_irradiance, wind_speed, humidity)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare: %w", err)
	}
	defer func() { _ = stmt.Close() }()
	for _, sample := range samples {
		if _, err := stmt.Exec(runID, sample.Timestamp.Format(time.RFC3339),
			sample.Temperature, sample.CloudCover, sample.SolarIrradiance,
			sample.WindSpeed, sample.Humidity); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert sample: %w", err)
		}
	}
	return tx.Commit()
}

// SaveProduction records the estimated production schedule of a run.
func (s *Store) SaveProduction(runID string, schedule []model.ProductionPoint) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO production_estimates (run_id, timestamp, output_kw) VALUES (?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare: %w", err)
	}
	defer func() { _ = stmt.Close() }()
	for _, p := range schedule {
		if _, err := stmt.Exec(runID, p.Timestamp.Format(time.RFC3339), p.OutputKW); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert point: %w", err)
		}
	}
	return tx.Commit()
}

// ProductionHistory returns the stored schedule for a run in insertion order.
func (s *Store) ProductionHistory(runID string) ([]model.ProductionPoint, error) {
	rows, err := s.db.Query(`SELECT timestamp, output_kw FROM production_estimates WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query production: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var schedule []model.ProductionPoint
	for rows.Next() {
		var ts string
		var out float64
		if err := rows.Scan(&ts, &out); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		parsed, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			return nil, fmt.Errorf("parse timestamp: %w", err)
		}
		schedule = append(schedule, model.ProductionPoint{Timestamp: parsed, OutputKW: out})
	}
	return schedule, rows.Err()
}

// RunIDs lists stored run identifiers, most recent first.
func (s *Store) RunIDs(limit int) ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT run_id FROM production_estimates ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
