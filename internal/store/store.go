// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists sync state between runs. It records, per
// requirement id, what was last pushed to the issue tracker so the next
// run can skip unchanged requirements and close issues whose ids have
// disappeared from the source documents.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/reqif-engine/pkg/types"
)

const dbFile = "sync.db"

// Record is the stored sync state for one requirement.
type Record struct {
	ID          string
	Title       string
	ContentHash string
	IssueNumber int
	State       string
	LastSynced  time.Time
}

// Issue states recorded per requirement.
const (
	StateOpen   = "open"
	StateClosed = "closed"
)

// Store manages the sync-state SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the sync-state database at StateDir/sync.db,
// creating the schema if it does not exist.
func Open(cfg types.StoreConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.StateDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}

	dbPath := filepath.Join(cfg.StateDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS requirements (
			id TEXT PRIMARY KEY,
			title TEXT,
			content_hash TEXT NOT NULL,
			issue_number INTEGER,
			state TEXT NOT NULL DEFAULT 'open',
			last_synced TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_requirements_state ON requirements(state)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Get returns the stored record for id. The second return value is false
// when the id has never been synced.
func (s *Store) Get(ctx context.Context, id string) (Record, bool, error) {
	var (
		rec    Record
		synced string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, content_hash, issue_number, state, last_synced
		 FROM requirements WHERE id = ?`, id,
	).Scan(&rec.ID, &rec.Title, &rec.ContentHash, &rec.IssueNumber, &rec.State, &synced)
	if err == sql.ErrNoRows {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("querying requirement %s: %w", id, err)
	}
	if synced != "" {
		rec.LastSynced, _ = time.Parse(time.RFC3339Nano, synced)
	}
	return rec, true, nil
}

// Upsert inserts or replaces the record for rec.ID.
func (s *Store) Upsert(ctx context.Context, rec Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO requirements (id, title, content_hash, issue_number, state, last_synced)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title=excluded.title, content_hash=excluded.content_hash,
			issue_number=excluded.issue_number, state=excluded.state,
			last_synced=excluded.last_synced`,
		rec.ID, rec.Title, rec.ContentHash, rec.IssueNumber, rec.State,
		rec.LastSynced.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upserting requirement %s: %w", rec.ID, err)
	}
	return nil
}

// SaveAll upserts every record in one transaction.
func (s *Store) SaveAll(ctx context.Context, recs []Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO requirements (id, title, content_hash, issue_number, state, last_synced)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title=excluded.title, content_hash=excluded.content_hash,
			issue_number=excluded.issue_number, state=excluded.state,
			last_synced=excluded.last_synced`)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range recs {
		_, err := stmt.ExecContext(ctx,
			rec.ID, rec.Title, rec.ContentHash, rec.IssueNumber, rec.State,
			rec.LastSynced.UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("upserting requirement %s: %w", rec.ID, err)
		}
	}

	return tx.Commit()
}

// StaleIDs returns the ids recorded as open whose id is absent from
// current, in stored id order. These are the issues sync should close.
func (s *Store) StaleIDs(ctx context.Context, current map[string]bool) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM requirements WHERE state = ? ORDER BY id`, StateOpen)
	if err != nil {
		return nil, fmt.Errorf("querying open requirements: %w", err)
	}
	defer rows.Close()

	var stale []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning requirement id: %w", err)
		}
		if !current[id] {
			stale = append(stale, id)
		}
	}
	return stale, rows.Err()
}

// All returns every stored record ordered by id.
func (s *Store) All(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, content_hash, issue_number, state, last_synced
		 FROM requirements ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying requirements: %w", err)
	}
	defer rows.Close()

	var recs []Record
	for rows.Next() {
		var (
			rec    Record
			synced string
		)
		if err := rows.Scan(&rec.ID, &rec.Title, &rec.ContentHash, &rec.IssueNumber, &rec.State, &synced); err != nil {
			return nil, fmt.Errorf("scanning requirement: %w", err)
		}
		if synced != "" {
			rec.LastSynced, _ = time.Parse(time.RFC3339Nano, synced)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
