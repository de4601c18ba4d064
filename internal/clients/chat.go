// Package clients provides HTTP clients for external API integrations.
// ChatClient speaks the OpenAI-compatible chat-completions protocol used by
// NVIDIA's hosted inference endpoint.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
)

// Defaults match the hosted endpoint the commit generator was built against
const (
	DefaultBaseURL     = "https://integrate.api.nvidia.com"
	DefaultChatModel   = "moonshotai/kimi-k2.5"
	DefaultMaxTokens   = 2048
	DefaultTemperature = 0.7
	DefaultAPIKeyEnv   = "NVIDIA_API_KEY"
)

// ErrNoChoices is returned when the upstream response carries no completion
var ErrNoChoices = errors.New("no choices in response")

// APIError is a non-2xx answer from the upstream API
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Body)
}

// Credential returns the bearer token to send. It is called once per request.
type Credential func() string

// EnvCredential reads the named environment variable at call time
func EnvCredential(name string) Credential {
	return func() string {
		return os.Getenv(name)
	}
}

// StaticCredential always returns the same token
func StaticCredential(token string) Credential {
	return func() string {
		return token
	}
}

// ChatConfig holds the fixed request parameters of a ChatClient
type ChatConfig struct {
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	Credential  Credential
}

// ChatMessage is one entry of the ordered messages array
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// ChatClient calls a chat-completions endpoint with fixed model and sampling parameters
type ChatClient struct {
	cfg    ChatConfig
	client *http.Client
}

// NewChatClient creates a chat client. Zero-valued fields fall back to the defaults;
// a nil credential reads DefaultAPIKeyEnv.
func NewChatClient(cfg ChatConfig) *ChatClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultChatModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = DefaultTemperature
	}
	if cfg.Credential == nil {
		cfg.Credential = EnvCredential(DefaultAPIKeyEnv)
	}

	return &ChatClient{
		cfg:    cfg,
		client: &http.Client{},
	}
}

// Model returns the model identifier sent with every request
func (c *ChatClient) Model() string {
	return c.cfg.Model
}

// CreateChatCompletion sends a system instruction and user content, returning the
// first choice's content
func (c *ChatClient) CreateChatCompletion(ctx context.Context, systemPrompt, prompt string) (string, error) {
	url := c.cfg.BaseURL + "/v1/chat/completions"

	requestBody := chatRequest{
		Model: c.cfg.Model,
		Messages: []ChatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.Credential())

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var response chatResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if response.Error != nil && response.Error.Message != "" {
		return "", fmt.Errorf("API error: %s", response.Error.Message)
	}

	if len(response.Choices) == 0 {
		return "", ErrNoChoices
	}

	return response.Choices[0].Message.Content, nil
}
