package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mikelady/voicegit/internal/models"
)

// =============================================================================
// Types and Interface
// =============================================================================

// Placeholder metadata stamped on records created from a voice submission
const (
	DefaultAuthor = "Current User"
	DefaultCost   = "$4.99"
	DateLayout    = "2006-01-02"
)

// CommitStore holds commit records newest first
type CommitStore interface {
	// List returns records whose transcript, commit message or author contains
	// filter (case-insensitive). An empty filter returns every record.
	List(ctx context.Context, filter string) ([]models.CommitRecord, error)

	// Get returns the record with the given id, or nil, nil when absent
	Get(ctx context.Context, id string) (*models.CommitRecord, error)

	// Add creates a completed record and prepends it
	Add(ctx context.Context, transcript, commitMessage string) (models.CommitRecord, error)

	// Remove deletes the record with the given id; absent ids are a no-op
	Remove(ctx context.Context, id string) error

	// Regenerate replaces the commit message of the given record; absent ids are a no-op
	Regenerate(ctx context.Context, id, commitMessage string) error

	// Export serializes the full list without changing it
	Export(ctx context.Context) ([]byte, error)
}

// NewRecordID returns a time-ordered unique id (UUIDv7), falling back to a random UUID
func NewRecordID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// NewRecord builds the record Add stores for a fresh submission
func NewRecord(id string, now time.Time, transcript, commitMessage string) models.CommitRecord {
	return models.CommitRecord{
		ID:            id,
		Author:        DefaultAuthor,
		Date:          now.UTC().Format(DateLayout),
		Cost:          DefaultCost,
		Transcript:    transcript,
		CommitMessage: commitMessage,
		Status:        models.StatusCompleted,
	}
}

// MatchesFilter reports whether the record matches a case-insensitive search filter
func MatchesFilter(record models.CommitRecord, filter string) bool {
	if filter == "" {
		return true
	}
	needle := strings.ToLower(filter)
	return strings.Contains(strings.ToLower(record.Transcript), needle) ||
		strings.Contains(strings.ToLower(record.CommitMessage), needle) ||
		strings.Contains(strings.ToLower(record.Author), needle)
}

// =============================================================================
// In-Memory Implementation
// =============================================================================

// InMemoryCommitStore keeps records in a slice, newest first.
// Its lifetime is the process; the SQL stores in internal/database persist.
type InMemoryCommitStore struct {
	mu      sync.RWMutex
	records []models.CommitRecord

	now   func() time.Time
	newID func() string
}

// InMemoryOption customizes an InMemoryCommitStore
type InMemoryOption func(*InMemoryCommitStore)

// WithClock sets the clock used to date new records
func WithClock(now func() time.Time) InMemoryOption {
	return func(s *InMemoryCommitStore) {
		s.now = now
	}
}

// WithIDGenerator sets the id generator used for new records
func WithIDGenerator(newID func() string) InMemoryOption {
	return func(s *InMemoryCommitStore) {
		s.newID = newID
	}
}

// NewInMemoryCommitStore creates a store holding seed in the given order
func NewInMemoryCommitStore(seed []models.CommitRecord, opts ...InMemoryOption) *InMemoryCommitStore {
	s := &InMemoryCommitStore{
		records: append([]models.CommitRecord(nil), seed...),
		now:     time.Now,
		newID:   NewRecordID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns matching records, newest first
func (s *InMemoryCommitStore) List(ctx context.Context, filter string) ([]models.CommitRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.CommitRecord, 0, len(s.records))
	for _, record := range s.records {
		if MatchesFilter(record, filter) {
			result = append(result, record)
		}
	}
	return result, nil
}

// Get returns a copy of the record with the given id
func (s *InMemoryCommitStore) Get(ctx context.Context, id string) (*models.CommitRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		record := s.records[i]
		return &record, nil
	}
	return nil, nil // Not found returns nil, nil (not an error)
}

// Add prepends a new completed record
func (s *InMemoryCommitStore) Add(ctx context.Context, transcript, commitMessage string) (models.CommitRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newID()
	for s.indexOf(id) >= 0 {
		id = NewRecordID()
	}

	record := NewRecord(id, s.now(), transcript, commitMessage)
	s.records = append([]models.CommitRecord{record}, s.records...)
	return record, nil
}

// Remove deletes the record with the given id
func (s *InMemoryCommitStore) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(id); i >= 0 {
		s.records = append(s.records[:i:i], s.records[i+1:]...)
	}
	return nil
}

// Regenerate replaces the commit message of the given record
func (s *InMemoryCommitStore) Regenerate(ctx context.Context, id, commitMessage string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(id); i >= 0 {
		s.records[i].CommitMessage = commitMessage
	}
	return nil
}

// Export serializes the full list
func (s *InMemoryCommitStore) Export(ctx context.Context) ([]byte, error) {
	records, err := s.List(ctx, "")
	if err != nil {
		return nil, err
	}
	return EncodeSnapshot(records)
}

// Len returns the number of stored records
func (s *InMemoryCommitStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// indexOf must be called with the lock held
func (s *InMemoryCommitStore) indexOf(id string) int {
	for i := range s.records {
		if s.records[i].ID == id {
			return i
		}
	}
	return -1
}
