package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/mikelady/voicegit/internal/models"
)

// ErrGenerationInFlight is returned when a second generation starts before the first resolves
var ErrGenerationInFlight = errors.New("a commit message is already being generated")

// Toast messages shown after each action
const (
	MsgGenerated        = "Voice commit generated successfully"
	MsgGenerateFailed   = "Failed to generate commit"
	MsgRegenerated      = "Commit message regenerated"
	MsgRegenerateFailed = "Failed to regenerate message"
	MsgDeleted          = "Commit deleted successfully"
	MsgDeleteFailed     = "Failed to delete commit"
	MsgExported         = "Commits exported successfully"
	MsgExportFailed     = "Failed to export commits"
	MsgSearchPrefix     = "Searching for: "
	MsgSearchCleared    = "Search cleared"
	MsgNotFound         = "Commit not found"
	MsgBusy             = "A commit message is already being generated"
)

// ActionResult is what a UI needs to re-render after an action
type ActionResult struct {
	Commit *models.CommitRecord `json:"commit,omitempty"`
	Toast  models.Notification  `json:"toast"`
}

// VoiceCommitService drives the voice-to-commit workflow against an injected store,
// generator and capturer. At most one generation is in flight at a time.
type VoiceCommitService struct {
	store     CommitStore
	generator CommitMessageGenerator
	capturer  TranscriptCapturer
	logger    *slog.Logger

	loading atomic.Bool
}

// NewVoiceCommitService wires the workflow together
func NewVoiceCommitService(store CommitStore, generator CommitMessageGenerator, capturer TranscriptCapturer, logger *slog.Logger) *VoiceCommitService {
	if logger == nil {
		logger = slog.Default()
	}
	return &VoiceCommitService{
		store:     store,
		generator: generator,
		capturer:  capturer,
		logger:    logger,
	}
}

// Loading reports whether a generation request is outstanding
func (s *VoiceCommitService) Loading() bool {
	return s.loading.Load()
}

// Submit generates a commit message for transcript and prepends the new record
func (s *VoiceCommitService) Submit(ctx context.Context, transcript string) (ActionResult, error) {
	if strings.TrimSpace(transcript) == "" {
		return ActionResult{}, ErrEmptyTranscript
	}
	if !s.loading.CompareAndSwap(false, true) {
		return ActionResult{Toast: models.Failure(MsgBusy)}, ErrGenerationInFlight
	}
	defer s.loading.Store(false)

	return s.submitLocked(ctx, transcript)
}

// Record captures a transcript and submits it. The in-flight flag is held
// across the capture so a second record is rejected before it starts waiting.
func (s *VoiceCommitService) Record(ctx context.Context) (ActionResult, error) {
	if s.capturer == nil {
		return ActionResult{Toast: models.Failure(MsgGenerateFailed)}, errors.New("no transcript capturer configured")
	}
	if !s.loading.CompareAndSwap(false, true) {
		return ActionResult{Toast: models.Failure(MsgBusy)}, ErrGenerationInFlight
	}
	defer s.loading.Store(false)

	transcript, err := s.capturer.CaptureTranscript(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "transcript capture failed", slog.String("error", err.Error()))
		return ActionResult{Toast: models.Failure(MsgGenerateFailed)}, fmt.Errorf("failed to capture transcript: %w", err)
	}
	if strings.TrimSpace(transcript) == "" {
		return ActionResult{}, ErrEmptyTranscript
	}

	return s.submitLocked(ctx, transcript)
}

// submitLocked runs the generation; the caller holds the in-flight flag
func (s *VoiceCommitService) submitLocked(ctx context.Context, transcript string) (ActionResult, error) {
	message := s.generator.GenerateCommitMessage(ctx, transcript, CommitMessageSystemPrompt)

	record, err := s.store.Add(ctx, transcript, message)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to store commit", slog.String("error", err.Error()))
		return ActionResult{Toast: models.Failure(MsgGenerateFailed)}, fmt.Errorf("failed to store commit: %w", err)
	}

	s.logger.InfoContext(ctx, "voice commit generated", slog.String("id", record.ID))
	return ActionResult{Commit: &record, Toast: models.Success(MsgGenerated)}, nil
}

// Regenerate asks for a fresh commit message for the record's transcript
func (s *VoiceCommitService) Regenerate(ctx context.Context, id string) (ActionResult, error) {
	if !s.loading.CompareAndSwap(false, true) {
		return ActionResult{Toast: models.Failure(MsgBusy)}, ErrGenerationInFlight
	}
	defer s.loading.Store(false)

	record, err := s.store.Get(ctx, id)
	if err != nil {
		return ActionResult{Toast: models.Failure(MsgRegenerateFailed)}, fmt.Errorf("failed to load commit: %w", err)
	}
	if record == nil {
		return ActionResult{Toast: models.Info(MsgNotFound)}, nil
	}

	message := s.generator.GenerateCommitMessage(ctx, record.Transcript, CommitMessageSystemPrompt)

	if err := s.store.Regenerate(ctx, id, message); err != nil {
		s.logger.ErrorContext(ctx, "failed to update commit", slog.String("id", id), slog.String("error", err.Error()))
		return ActionResult{Toast: models.Failure(MsgRegenerateFailed)}, fmt.Errorf("failed to update commit: %w", err)
	}

	record.CommitMessage = message
	return ActionResult{Commit: record, Toast: models.Success(MsgRegenerated)}, nil
}

// Delete removes a record; unknown ids still report success
func (s *VoiceCommitService) Delete(ctx context.Context, id string) (ActionResult, error) {
	if err := s.store.Remove(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to delete commit", slog.String("id", id), slog.String("error", err.Error()))
		return ActionResult{Toast: models.Failure(MsgDeleteFailed)}, fmt.Errorf("failed to delete commit: %w", err)
	}
	return ActionResult{Toast: models.Success(MsgDeleted)}, nil
}

// Search lists records matching query
func (s *VoiceCommitService) Search(ctx context.Context, query string) ([]models.CommitRecord, error) {
	return s.store.List(ctx, query)
}

// Export returns the snapshot of the full list
func (s *VoiceCommitService) Export(ctx context.Context) ([]byte, models.Notification, error) {
	data, err := s.store.Export(ctx)
	if err != nil {
		return nil, models.Failure(MsgExportFailed), fmt.Errorf("failed to export commits: %w", err)
	}
	return data, models.Success(MsgExported), nil
}
