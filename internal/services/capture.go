package services

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

// ErrEmptyTranscript indicates a submission carried no usable speech
var ErrEmptyTranscript = errors.New("transcript is empty")

// DefaultCaptureDuration is how long the canned recorder "listens"
const DefaultCaptureDuration = 3 * time.Second

// TranscriptCapturer produces a transcript from the user's voice.
// Real speech-to-text and test doubles both satisfy it.
type TranscriptCapturer interface {
	CaptureTranscript(ctx context.Context) (string, error)
}

// CannedTranscripts are the sample descriptions the canned recorder picks from
var CannedTranscripts = []string{
	"Refactored the authentication middleware to handle JWT tokens properly",
	"Added unit tests for the payment gateway integration",
	"Fixed CSS alignment issues in the mobile navigation menu",
	"Updated documentation for the API endpoints",
}

// CannedTranscriptCapturer waits for a fixed duration and returns a random canned transcript.
// It stands in for a streaming speech recognizer.
type CannedTranscriptCapturer struct {
	Duration    time.Duration
	Transcripts []string
	// Pick returns an index in [0, n); defaults to math/rand/v2
	Pick func(n int) int
}

// NewCannedTranscriptCapturer creates a canned capturer with the default samples
func NewCannedTranscriptCapturer(duration time.Duration) *CannedTranscriptCapturer {
	return &CannedTranscriptCapturer{
		Duration:    duration,
		Transcripts: CannedTranscripts,
		Pick:        rand.IntN,
	}
}

// CaptureTranscript blocks for Duration unless ctx is done first
func (c *CannedTranscriptCapturer) CaptureTranscript(ctx context.Context) (string, error) {
	if len(c.Transcripts) == 0 {
		return "", ErrEmptyTranscript
	}

	if c.Duration > 0 {
		timer := time.NewTimer(c.Duration)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
		}
	}

	pick := c.Pick
	if pick == nil {
		pick = rand.IntN
	}
	return c.Transcripts[pick(len(c.Transcripts))], nil
}

// FixedTranscriptCapturer always returns the same transcript
type FixedTranscriptCapturer struct {
	Transcript string
	Err        error
}

// CaptureTranscript returns the fixed transcript or error
func (f FixedTranscriptCapturer) CaptureTranscript(ctx context.Context) (string, error) {
	if f.Err != nil {
		return "", f.Err
	}
	return f.Transcript, nil
}
