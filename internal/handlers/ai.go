package handlers

import (
	"log/slog"
	"net/http"

	"github.com/mikelady/voicegit/internal/services"
)

// ErrProcessingRequest is the result text for an unreadable /api/ai body
const ErrProcessingRequest = "Error processing request"

// AIRequest is the body of POST /api/ai
type AIRequest struct {
	Prompt       string `json:"prompt"`
	SystemPrompt string `json:"systemPrompt,omitempty"`
}

// AIResponse is the body returned by POST /api/ai
type AIResponse struct {
	Result string `json:"result"`
}

// AIHandler proxies a single prompt to the chat-completion gateway
type AIHandler struct {
	gateway services.CommitMessageGenerator
	logger  *slog.Logger
}

// NewAIHandler creates a new AI proxy handler
func NewAIHandler(gateway services.CommitMessageGenerator, logger *slog.Logger) *AIHandler {
	return &AIHandler{gateway: gateway, logger: logger}
}

// Generate handles POST /api/ai. Upstream failures are already collapsed to
// the fallback text by the gateway, so only a bad body produces an error status.
func (h *AIHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req AIRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "invalid ai request body", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, AIResponse{Result: ErrProcessingRequest})
		return
	}

	result := h.gateway.GenerateCommitMessage(r.Context(), req.Prompt, req.SystemPrompt)
	writeJSON(w, http.StatusOK, AIResponse{Result: result})
}
