package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mikelady/voicegit/internal/models"
	"github.com/mikelady/voicegit/internal/services"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var recordColumns = []string{"id", "author", "date", "cost", "transcript", "commit_message", "status"}

func newMockedStore(t *testing.T) (*PostgresCommitStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock := NewMockPool(t)
	store := NewPostgresCommitStoreWithDB(mock)
	store.now = func() time.Time { return time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC) }
	store.newID = func() string { return "new-1" }
	return store, mock
}

func addRecordRow(rows *pgxmock.Rows, r models.CommitRecord) *pgxmock.Rows {
	return rows.AddRow(r.ID, r.Author, r.Date, r.Cost, r.Transcript, r.CommitMessage, r.Status)
}

// ===== List =====

func TestPostgresCommitStore_List(t *testing.T) {
	store, mock := newMockedStore(t)
	seed := services.SeedRecords()

	rows := pgxmock.NewRows(recordColumns)
	addRecordRow(rows, seed[0])
	addRecordRow(rows, seed[1])
	mock.ExpectQuery(`SELECT id, author, date, cost, transcript, commit_message, status FROM commit_records ORDER BY seq DESC`).
		WillReturnRows(rows)

	records, err := store.List(context.Background(), "")

	require.NoError(t, err)
	assert.Equal(t, seed[:2], records)
}

func TestPostgresCommitStore_ListFiltersCaseInsensitively(t *testing.T) {
	store, mock := newMockedStore(t)
	seed := services.SeedRecords()
	accented := models.CommitRecord{
		ID: "9", Author: "ÉLODIE", Date: "2026-10-16", Cost: "$4.99",
		Transcript: "Tuned the retry budget", CommitMessage: "perf(http): tune retries", Status: models.StatusCompleted,
	}

	rows := pgxmock.NewRows(recordColumns)
	addRecordRow(rows, accented)
	for _, r := range seed {
		addRecordRow(rows, r)
	}
	mock.ExpectQuery(`SELECT id, author`).WillReturnRows(rows)

	records, err := store.List(context.Background(), "élodie")

	require.NoError(t, err)
	assert.Equal(t, []models.CommitRecord{accented}, records)
}

func TestPostgresCommitStore_ListNoMatchIsEmpty(t *testing.T) {
	store, mock := newMockedStore(t)

	rows := pgxmock.NewRows(recordColumns)
	for _, r := range services.SeedRecords() {
		addRecordRow(rows, r)
	}
	mock.ExpectQuery(`SELECT id, author`).WillReturnRows(rows)

	records, err := store.List(context.Background(), "zzz")

	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestPostgresCommitStore_ListQueryError(t *testing.T) {
	store, mock := newMockedStore(t)

	mock.ExpectQuery(`SELECT id, author`).
		WillReturnError(errors.New("connection reset"))

	records, err := store.List(context.Background(), "")

	assert.ErrorContains(t, err, "connection reset")
	assert.Nil(t, records)
}

func TestPostgresCommitStore_ListRowError(t *testing.T) {
	store, mock := newMockedStore(t)

	rows := addRecordRow(pgxmock.NewRows(recordColumns), services.SeedRecords()[0]).
		RowError(0, errors.New("row error"))
	mock.ExpectQuery(`SELECT id, author`).WillReturnRows(rows)

	records, err := store.List(context.Background(), "")

	assert.Error(t, err)
	assert.Nil(t, records)
}

// ===== Get =====

func TestPostgresCommitStore_Get(t *testing.T) {
	store, mock := newMockedStore(t)
	want := services.SeedRecords()[2]

	mock.ExpectQuery(`SELECT id, author, .* FROM commit_records WHERE id = \$1`).
		WithArgs("3").
		WillReturnRows(addRecordRow(pgxmock.NewRows(recordColumns), want))

	got, err := store.Get(context.Background(), "3")

	require.NoError(t, err)
	assert.Equal(t, &want, got)
}

func TestPostgresCommitStore_GetMissing(t *testing.T) {
	store, mock := newMockedStore(t)

	mock.ExpectQuery(`FROM commit_records WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	got, err := store.Get(context.Background(), "missing")

	assert.NoError(t, err)
	assert.Nil(t, got)
}

// ===== Add =====

func TestPostgresCommitStore_Add(t *testing.T) {
	store, mock := newMockedStore(t)

	mock.ExpectExec(`INSERT INTO commit_records`).
		WithArgs("new-1", "Current User", "2026-10-16", "$4.99", "Added dark mode toggle", "feat(ui): add dark mode toggle", "completed").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	record, err := store.Add(context.Background(), "Added dark mode toggle", "feat(ui): add dark mode toggle")

	require.NoError(t, err)
	assert.Equal(t, models.CommitRecord{
		ID:            "new-1",
		Author:        services.DefaultAuthor,
		Date:          "2026-10-16",
		Cost:          services.DefaultCost,
		Transcript:    "Added dark mode toggle",
		CommitMessage: "feat(ui): add dark mode toggle",
		Status:        models.StatusCompleted,
	}, record)
}

func TestPostgresCommitStore_AddRetriesDuplicateID(t *testing.T) {
	store, mock := newMockedStore(t)

	mock.ExpectExec(`INSERT INTO commit_records`).
		WithArgs("new-1", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectExec(`INSERT INTO commit_records`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	record, err := store.Add(context.Background(), "t", "m")

	require.NoError(t, err)
	assert.NotEqual(t, "new-1", record.ID)
	assert.NotEmpty(t, record.ID)
}

func TestPostgresCommitStore_AddError(t *testing.T) {
	store, mock := newMockedStore(t)

	mock.ExpectExec(`INSERT INTO commit_records`).
		WithArgs("new-1", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errors.New("disk full"))

	_, err := store.Add(context.Background(), "t", "m")

	assert.ErrorContains(t, err, "failed to add commit record")
}

// ===== Remove / Regenerate =====

func TestPostgresCommitStore_Remove(t *testing.T) {
	store, mock := newMockedStore(t)

	mock.ExpectExec(`DELETE FROM commit_records WHERE id = \$1`).
		WithArgs("4").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	assert.NoError(t, store.Remove(context.Background(), "4"))
}

func TestPostgresCommitStore_RemoveMissingIsNoop(t *testing.T) {
	store, mock := newMockedStore(t)

	mock.ExpectExec(`DELETE FROM commit_records`).
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.NoError(t, store.Remove(context.Background(), "missing"))
}

func TestPostgresCommitStore_Regenerate(t *testing.T) {
	store, mock := newMockedStore(t)

	mock.ExpectExec(`UPDATE commit_records SET commit_message = \$2`).
		WithArgs("1", "fix(auth): handle expired tokens").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(t, store.Regenerate(context.Background(), "1", "fix(auth): handle expired tokens"))
}

func TestPostgresCommitStore_RegenerateError(t *testing.T) {
	store, mock := newMockedStore(t)

	mock.ExpectExec(`UPDATE commit_records`).
		WithArgs("1", "m").
		WillReturnError(errors.New("timeout"))

	assert.ErrorContains(t, store.Regenerate(context.Background(), "1", "m"), "timeout")
}

// ===== Export / Seed =====

func TestPostgresCommitStore_Export(t *testing.T) {
	store, mock := newMockedStore(t)
	seed := services.SeedRecords()

	rows := pgxmock.NewRows(recordColumns)
	for _, r := range seed {
		addRecordRow(rows, r)
	}
	mock.ExpectQuery(`SELECT id, author`).WillReturnRows(rows)

	data, err := store.Export(context.Background())

	require.NoError(t, err)
	decoded, err := services.DecodeSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, seed, decoded)
}

func TestPostgresCommitStore_SeedIfEmptyInsertsOldestFirst(t *testing.T) {
	store, mock := newMockedStore(t)
	seed := services.SeedRecords()[:3]

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM commit_records`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
	for _, id := range []string{"3", "2", "1"} {
		mock.ExpectExec(`ON CONFLICT \(id\) DO NOTHING`).
			WithArgs(id, pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}

	n, err := store.SeedIfEmpty(context.Background(), seed)

	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestPostgresCommitStore_SeedIfEmptySkipsPopulatedTable(t *testing.T) {
	store, mock := newMockedStore(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\)`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(5))

	n, err := store.SeedIfEmpty(context.Background(), services.SeedRecords())

	require.NoError(t, err)
	assert.Zero(t, n)
}
