package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mikelady/voicegit/internal/models"
	"github.com/mikelady/voicegit/internal/services"
	_ "modernc.org/sqlite"
)

// SQLiteSchema is applied on every open
const SQLiteSchema = `
CREATE TABLE IF NOT EXISTS commit_records (
    seq            INTEGER PRIMARY KEY AUTOINCREMENT,
    id             TEXT NOT NULL UNIQUE,
    author         TEXT NOT NULL,
    date           TEXT NOT NULL,
    cost           TEXT NOT NULL,
    transcript     TEXT NOT NULL,
    commit_message TEXT NOT NULL,
    status         TEXT NOT NULL CHECK (status IN ('pending', 'completed'))
);
`

// SQLiteCommitStore implements services.CommitStore in a single SQLite file
type SQLiteCommitStore struct {
	db    *sql.DB
	now   func() time.Time
	newID func() string
}

var _ services.CommitStore = (*SQLiteCommitStore)(nil)

// OpenSQLiteCommitStore opens (or creates) the database at path and applies the schema.
// Use ":memory:" for a throwaway store.
func OpenSQLiteCommitStore(ctx context.Context, path string) (*SQLiteCommitStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// One connection keeps writes serialized and ":memory:" on a single database
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	if _, err := db.ExecContext(ctx, SQLiteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteCommitStore{db: db, now: time.Now, newID: services.NewRecordID}, nil
}

// Close closes the underlying database
func (s *SQLiteCommitStore) Close() error {
	return s.db.Close()
}

// List returns records matching filter, newest first. SQLite's lower() only
// folds ASCII, so matching happens in Go.
func (s *SQLiteCommitStore) List(ctx context.Context, filter string) ([]models.CommitRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+commitRecordColumns+` FROM commit_records ORDER BY seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list commit records: %w", err)
	}
	defer rows.Close()

	records := []models.CommitRecord{}
	for rows.Next() {
		var r models.CommitRecord
		if err := rows.Scan(&r.ID, &r.Author, &r.Date, &r.Cost, &r.Transcript, &r.CommitMessage, &r.Status); err != nil {
			return nil, fmt.Errorf("failed to scan commit record: %w", err)
		}
		if services.MatchesFilter(r, filter) {
			records = append(records, r)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list commit records: %w", err)
	}
	return records, nil
}

// Get returns the record with the given id, or nil, nil when absent
func (s *SQLiteCommitStore) Get(ctx context.Context, id string) (*models.CommitRecord, error) {
	var r models.CommitRecord
	err := s.db.QueryRowContext(ctx,
		`SELECT `+commitRecordColumns+` FROM commit_records WHERE id = ?`, id,
	).Scan(&r.ID, &r.Author, &r.Date, &r.Cost, &r.Transcript, &r.CommitMessage, &r.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get commit record %s: %w", id, err)
	}
	return &r, nil
}

// Add inserts a completed record, replacing a colliding id with a fresh one
func (s *SQLiteCommitStore) Add(ctx context.Context, transcript, commitMessage string) (models.CommitRecord, error) {
	record := services.NewRecord(s.newID(), s.now(), transcript, commitMessage)

	existing, err := s.Get(ctx, record.ID)
	if err != nil {
		return models.CommitRecord{}, err
	}
	if existing != nil {
		record.ID = services.NewRecordID()
	}

	if err := insertSQLite(ctx, s.db, record); err != nil {
		return models.CommitRecord{}, fmt.Errorf("failed to add commit record: %w", err)
	}
	return record, nil
}

// Remove deletes the record with the given id; absent ids are a no-op
func (s *SQLiteCommitStore) Remove(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM commit_records WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to remove commit record %s: %w", id, err)
	}
	return nil
}

// Regenerate replaces the commit message of the given record; absent ids are a no-op
func (s *SQLiteCommitStore) Regenerate(ctx context.Context, id, commitMessage string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE commit_records SET commit_message = ? WHERE id = ?`, commitMessage, id)
	if err != nil {
		return fmt.Errorf("failed to regenerate commit record %s: %w", id, err)
	}
	return nil
}

// Export serializes the full list, newest first
func (s *SQLiteCommitStore) Export(ctx context.Context) ([]byte, error) {
	records, err := s.List(ctx, "")
	if err != nil {
		return nil, err
	}
	return services.EncodeSnapshot(records)
}

// Count returns the number of stored records
func (s *SQLiteCommitStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM commit_records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count commit records: %w", err)
	}
	return n, nil
}

// SeedIfEmpty inserts records (given newest first) in one transaction when the
// table has no rows. Returns the number inserted.
func (s *SQLiteCommitStore) SeedIfEmpty(ctx context.Context, records []models.CommitRecord) (int, error) {
	n, err := s.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 || len(records) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i := len(records) - 1; i >= 0; i-- {
		if err := insertSQLite(ctx, tx, records[i]); err != nil {
			return 0, fmt.Errorf("failed to seed commit record %s: %w", records[i].ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit seed: %w", err)
	}
	return len(records), nil
}

type sqliteExecer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertSQLite(ctx context.Context, db sqliteExecer, r models.CommitRecord) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO commit_records (`+commitRecordColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Author, r.Date, r.Cost, r.Transcript, r.CommitMessage, r.Status,
	)
	return err
}
