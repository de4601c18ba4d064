package services

import (
	"context"
	"log/slog"
)

// FallbackResponse is returned by the gateway whenever no completion text is available.
// Callers cannot tell it apart from a model answer with the same text.
const FallbackResponse = "No response"

// DefaultSystemPrompt is used when a caller sends no system prompt
const DefaultSystemPrompt = "You are a helpful assistant that generates conventional commit messages from voice descriptions."

// CommitMessageSystemPrompt instructs the model to answer with a single conventional commit line
const CommitMessageSystemPrompt = "You are a commit message generator. Convert the following description into a conventional commit message (type(scope): description). Only respond with the commit message, nothing else."

// ChatClient interface for chat-completion calls with a system instruction
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, systemPrompt, prompt string) (string, error)
}

// CommitMessageGenerator turns a transcript into commit message text
type CommitMessageGenerator interface {
	GenerateCommitMessage(ctx context.Context, transcript, systemPrompt string) string
}

// AIGateway relays prompts to the chat client and collapses every failure into
// FallbackResponse. The cause is logged, never returned.
type AIGateway struct {
	client ChatClient
	logger *slog.Logger
}

// NewAIGateway creates a gateway around the given chat client
func NewAIGateway(client ChatClient, logger *slog.Logger) *AIGateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &AIGateway{
		client: client,
		logger: logger,
	}
}

// GenerateCommitMessage returns the first completion's text or FallbackResponse
func (g *AIGateway) GenerateCommitMessage(ctx context.Context, transcript, systemPrompt string) string {
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}

	content, err := g.client.CreateChatCompletion(ctx, systemPrompt, transcript)
	if err != nil {
		g.logger.WarnContext(ctx, "chat completion failed, using fallback",
			slog.String("error", err.Error()),
			slog.Int("transcript_len", len(transcript)),
		)
		return FallbackResponse
	}
	if content == "" {
		g.logger.WarnContext(ctx, "chat completion returned empty content, using fallback")
		return FallbackResponse
	}
	return content
}
