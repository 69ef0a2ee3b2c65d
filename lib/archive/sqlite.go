package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// timeLayout has a fixed width so that creation times sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore keeps encoded runs in an sqlite database.
type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}
	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) Save(ctx context.Context, run *Run) (string, error) {
	db, err := s.getDB()
	if err != nil {
		return "", err
	}
	if err := prepare(run); err != nil {
		return "", err
	}
	payload, err := encodeTable(run)
	if err != nil {
		return "", err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO runs (id, instrument, seed, particles, created, payload)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			instrument = excluded.instrument,
			seed = excluded.seed,
			particles = excluded.particles,
			created = excluded.created,
			payload = excluded.payload
	`, run.ID, run.Instrument, run.Seed, run.Particles,
		run.Created.UTC().Format(timeLayout), payload)
	if err != nil {
		return "", fmt.Errorf("save run %s: %w", run.ID, err)
	}
	return run.ID, nil
}

func (s *SQLiteStore) Load(ctx context.Context, id string) (*Run, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, false, err
	}

	run := &Run{}
	var created string
	var payload []byte
	err = db.QueryRowContext(ctx, `
		SELECT id, instrument, seed, particles, created, payload
		FROM runs WHERE id = ?
	`, id).Scan(&run.ID, &run.Instrument, &run.Seed, &run.Particles,
		&created, &payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	if run.Created, err = time.Parse(timeLayout, created); err != nil {
		return nil, false, fmt.Errorf("decode run %s: %w", id, err)
	}
	if err := decodeTable(payload, run); err != nil {
		return nil, false, fmt.Errorf("decode run %s: %w", id, err)
	}
	return run, true, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]Summary, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, instrument, seed, particles, created, length(payload)
		FROM runs ORDER BY created, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sum Summary
		var created string
		err := rows.Scan(&sum.ID, &sum.Instrument, &sum.Seed, &sum.Particles,
			&created, &sum.PayloadSize)
		if err != nil {
			return nil, err
		}
		if sum.Created, err = time.Parse(timeLayout, created); err != nil {
			return nil, fmt.Errorf("decode run %s: %w", sum.ID, err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, ErrNotInitialized
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			instrument TEXT NOT NULL,
			seed INTEGER NOT NULL,
			particles INTEGER NOT NULL,
			created TEXT NOT NULL,
			payload BLOB NOT NULL
		);
	`)
	return err
}
