package clients

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newChatServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(handler))
	t.Cleanup(server.Close)
	return server
}

// TestChatCompletion_SendsFixedParameters verifies model, ordered messages, max_tokens and temperature
func TestChatCompletion_SendsFixedParameters(t *testing.T) {
	var got chatRequest
	server := newChatServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("Expected /v1/chat/completions, got %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Authorization = %q, want %q", auth, "Bearer test-key")
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"feat(ui): add dark mode toggle"}}]}`))
	})

	client := NewChatClient(ChatConfig{BaseURL: server.URL, Credential: StaticCredential("test-key")})

	result, err := client.CreateChatCompletion(context.Background(), "system instruction", "Added dark mode toggle")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result != "feat(ui): add dark mode toggle" {
		t.Errorf("result = %q", result)
	}

	if got.Model != DefaultChatModel {
		t.Errorf("model = %q, want %q", got.Model, DefaultChatModel)
	}
	if got.MaxTokens != DefaultMaxTokens {
		t.Errorf("max_tokens = %d, want %d", got.MaxTokens, DefaultMaxTokens)
	}
	if got.Temperature != DefaultTemperature {
		t.Errorf("temperature = %v, want %v", got.Temperature, DefaultTemperature)
	}
	if len(got.Messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(got.Messages))
	}
	if got.Messages[0].Role != "system" || got.Messages[0].Content != "system instruction" {
		t.Errorf("first message = %+v, want system instruction", got.Messages[0])
	}
	if got.Messages[1].Role != "user" || got.Messages[1].Content != "Added dark mode toggle" {
		t.Errorf("second message = %+v, want user transcript", got.Messages[1])
	}
}

// TestChatCompletion_ReadsCredentialPerCall verifies the env credential is resolved at call time
func TestChatCompletion_ReadsCredentialPerCall(t *testing.T) {
	var auth string
	server := newChatServer(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	})

	t.Setenv("VOICEGIT_TEST_KEY", "")
	client := NewChatClient(ChatConfig{BaseURL: server.URL, Credential: EnvCredential("VOICEGIT_TEST_KEY")})

	t.Setenv("VOICEGIT_TEST_KEY", "rotated")
	if _, err := client.CreateChatCompletion(context.Background(), "s", "p"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if auth != "Bearer rotated" {
		t.Errorf("Authorization = %q, want %q", auth, "Bearer rotated")
	}
}

func TestChatCompletion_MissingCredentialSendsEmptyBearer(t *testing.T) {
	var auth string
	server := newChatServer(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusUnauthorized)
	})

	t.Setenv("VOICEGIT_TEST_KEY", "")
	client := NewChatClient(ChatConfig{BaseURL: server.URL, Credential: EnvCredential("VOICEGIT_TEST_KEY")})

	_, err := client.CreateChatCompletion(context.Background(), "s", "p")
	if err == nil {
		t.Fatal("Expected error for unauthenticated call")
	}
	if !strings.HasPrefix(auth, "Bearer") {
		t.Errorf("Authorization = %q, want Bearer prefix", auth)
	}
}

// TestChatCompletion_HandlesAPIError tests non-2xx responses
func TestChatCompletion_HandlesAPIError(t *testing.T) {
	server := newChatServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"message": "Rate limit exceeded"}}`))
	})

	client := NewChatClient(ChatConfig{BaseURL: server.URL, Credential: StaticCredential("k")})

	_, err := client.CreateChatCompletion(context.Background(), "s", "p")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("StatusCode = %d, want 429", apiErr.StatusCode)
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("Expected status in error, got: %v", err)
	}
}

func TestChatCompletion_NoChoices(t *testing.T) {
	server := newChatServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	})

	client := NewChatClient(ChatConfig{BaseURL: server.URL, Credential: StaticCredential("k")})

	_, err := client.CreateChatCompletion(context.Background(), "s", "p")
	if !errors.Is(err, ErrNoChoices) {
		t.Errorf("Expected ErrNoChoices, got %v", err)
	}
}

func TestChatCompletion_MalformedBody(t *testing.T) {
	server := newChatServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})

	client := NewChatClient(ChatConfig{BaseURL: server.URL, Credential: StaticCredential("k")})

	_, err := client.CreateChatCompletion(context.Background(), "s", "p")
	if err == nil || !strings.Contains(err.Error(), "failed to parse response") {
		t.Errorf("Expected parse error, got %v", err)
	}
}

func TestChatCompletion_ErrorFieldInOKResponse(t *testing.T) {
	server := newChatServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":{"message":"model overloaded"}}`))
	})

	client := NewChatClient(ChatConfig{BaseURL: server.URL, Credential: StaticCredential("k")})

	_, err := client.CreateChatCompletion(context.Background(), "s", "p")
	if err == nil || !strings.Contains(err.Error(), "model overloaded") {
		t.Errorf("Expected upstream error message, got %v", err)
	}
}

// TestChatCompletion_HandlesNetworkError tests transport failures
func TestChatCompletion_HandlesNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewChatClient(ChatConfig{BaseURL: url, Credential: StaticCredential("k")})

	if _, err := client.CreateChatCompletion(context.Background(), "s", "p"); err == nil {
		t.Error("Expected network error, got nil")
	}
}

func TestNewChatClient_AppliesDefaults(t *testing.T) {
	client := NewChatClient(ChatConfig{})

	if client.cfg.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", client.cfg.BaseURL, DefaultBaseURL)
	}
	if client.Model() != DefaultChatModel {
		t.Errorf("Model = %q, want %q", client.Model(), DefaultChatModel)
	}
	if client.cfg.Credential == nil {
		t.Error("Credential should default to the environment")
	}
}
