package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteConfig struct {
	OnDisk    bool
	Directory string
}

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(cfg ...SQLiteConfig) (*SQLiteStore, error) {
	onDisk := false
	directory := ""
	if len(cfg) > 0 {
		onDisk = cfg[0].OnDisk
		directory = cfg[0].Directory
	}

	sourceName := ":memory:"
	if onDisk {
		sourceName = directory + "/stations.db"
	}

	db, err := sql.Open("sqlite3", sourceName)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS user_station (
    user_id TEXT PRIMARY KEY,
    stop_code TEXT NOT NULL,
    display_name TEXT NOT NULL,
    last_used TIMESTAMP NOT NULL
);`)
	if err != nil {
		return nil, fmt.Errorf("creating table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Save(station Station) error {
	_, err := s.db.Exec(`
INSERT INTO user_station (user_id, stop_code, display_name, last_used)
VALUES (?, ?, ?, ?)
ON CONFLICT(user_id) DO UPDATE SET
    stop_code = excluded.stop_code,
    display_name = excluded.display_name,
    last_used = excluded.last_used;`,
		station.UserID, station.StopCode, station.DisplayName, station.LastUsed,
	)
	if err != nil {
		return fmt.Errorf("saving station: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(userID string) (Station, bool, error) {
	row := s.db.QueryRow(`
SELECT user_id, stop_code, display_name, last_used
FROM user_station
WHERE user_id = ?;`, userID)

	var station Station
	err := row.Scan(&station.UserID, &station.StopCode, &station.DisplayName, &station.LastUsed)
	if err == sql.ErrNoRows {
		return Station{}, false, nil
	}
	if err != nil {
		return Station{}, false, fmt.Errorf("reading station: %w", err)
	}

	return station, true, nil
}

func (s *SQLiteStore) Delete(userID string) error {
	_, err := s.db.Exec(`DELETE FROM user_station WHERE user_id = ?;`, userID)
	if err != nil {
		return fmt.Errorf("deleting station: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
