package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mikelady/voicegit/internal/models"
	"github.com/mikelady/voicegit/internal/services"
)

// uniqueViolation is the Postgres SQLSTATE for a duplicate key
const uniqueViolation = "23505"

const commitRecordColumns = `id, author, date, cost, transcript, commit_message, status`

// PostgresCommitStore implements services.CommitStore on the commit_records table.
// Rows are ordered by seq, so the newest insert lists first.
type PostgresCommitStore struct {
	db    DBTX
	now   func() time.Time
	newID func() string
}

var _ services.CommitStore = (*PostgresCommitStore)(nil)

// NewPostgresCommitStore creates a store backed by pool
func NewPostgresCommitStore(pool *Pool) *PostgresCommitStore {
	return NewPostgresCommitStoreWithDB(pool)
}

// NewPostgresCommitStoreWithDB creates a store with a custom DBTX (for testing with mocks)
func NewPostgresCommitStoreWithDB(db DBTX) *PostgresCommitStore {
	return &PostgresCommitStore{db: db, now: time.Now, newID: services.NewRecordID}
}

// List returns records matching filter, newest first. Matching runs in Go
// through services.MatchesFilter so every store folds case the same way,
// independent of the database collation.
func (s *PostgresCommitStore) List(ctx context.Context, filter string) ([]models.CommitRecord, error) {
	rows, err := s.db.Query(ctx,
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
func (s *PostgresCommitStore) Get(ctx context.Context, id string) (*models.CommitRecord, error) {
	var r models.CommitRecord
	err := s.db.QueryRow(ctx,
		`SELECT `+commitRecordColumns+` FROM commit_records WHERE id = $1`,
		id,
	).Scan(&r.ID, &r.Author, &r.Date, &r.Cost, &r.Transcript, &r.CommitMessage, &r.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get commit record %s: %w", id, err)
	}
	return &r, nil
}

// Add inserts a completed record. A duplicate id is retried once with a fresh one.
func (s *PostgresCommitStore) Add(ctx context.Context, transcript, commitMessage string) (models.CommitRecord, error) {
	record := services.NewRecord(s.newID(), s.now(), transcript, commitMessage)

	err := s.insert(ctx, record)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		record.ID = services.NewRecordID()
		err = s.insert(ctx, record)
	}
	if err != nil {
		return models.CommitRecord{}, fmt.Errorf("failed to add commit record: %w", err)
	}
	return record, nil
}

func (s *PostgresCommitStore) insert(ctx context.Context, r models.CommitRecord) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO commit_records (`+commitRecordColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		r.ID, r.Author, r.Date, r.Cost, r.Transcript, r.CommitMessage, r.Status,
	)
	return err
}

// Remove deletes the record with the given id; absent ids are a no-op
func (s *PostgresCommitStore) Remove(ctx context.Context, id string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM commit_records WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to remove commit record %s: %w", id, err)
	}
	return nil
}

// Regenerate replaces the commit message of the given record; absent ids are a no-op
func (s *PostgresCommitStore) Regenerate(ctx context.Context, id, commitMessage string) error {
	_, err := s.db.Exec(ctx,
		`UPDATE commit_records SET commit_message = $2, updated_at = NOW() WHERE id = $1`,
		id, commitMessage,
	)
	if err != nil {
		return fmt.Errorf("failed to regenerate commit record %s: %w", id, err)
	}
	return nil
}

// Export serializes the full list, newest first
func (s *PostgresCommitStore) Export(ctx context.Context) ([]byte, error) {
	records, err := s.List(ctx, "")
	if err != nil {
		return nil, err
	}
	return services.EncodeSnapshot(records)
}

// Count returns the number of stored records
func (s *PostgresCommitStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM commit_records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count commit records: %w", err)
	}
	return n, nil
}

// SeedIfEmpty inserts records (given newest first) when the table has no rows.
// Returns the number inserted.
func (s *PostgresCommitStore) SeedIfEmpty(ctx context.Context, records []models.CommitRecord) (int, error) {
	n, err := s.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	inserted := 0
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		tag, err := s.db.Exec(ctx,
			`INSERT INTO commit_records (`+commitRecordColumns+`)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 ON CONFLICT (id) DO NOTHING`,
			r.ID, r.Author, r.Date, r.Cost, r.Transcript, r.CommitMessage, r.Status,
		)
		if err != nil {
			return inserted, fmt.Errorf("failed to seed commit record %s: %w", r.ID, err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}
