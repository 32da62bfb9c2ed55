// Package agent talks to an OpenAI-compatible chat completion endpoint
// and turns its free-text answers into typed records.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"LyricRec/logger"
	"LyricRec/model"
)

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4"
	DefaultTimeout = 60 * time.Second
)

// ErrEmptyCompletion is returned when the endpoint answers without content.
var ErrEmptyCompletion = errors.New("agent: empty completion")

// Config contains configuration for the chat client.
type Config struct {
	APIBaseURL string
	APIKey     string
	Model      string
	Timeout    time.Duration
}

// CompletionOptions are the sampling controls of a single call.
// MaxTokens <= 0 leaves the limit to the server.
type CompletionOptions struct {
	Temperature float64
	MaxTokens   int
}

// ChatClient sends non-streaming chat completion requests.
type ChatClient struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewChatClient 创建聊天客户端，API Key 通过 oauth2 静态令牌注入
func NewChatClient(cfg Config) *ChatClient {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.APIBaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	modelName := strings.TrimSpace(cfg.Model)
	if modelName == "" {
		modelName = DefaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &ChatClient{
		baseURL: baseURL,
		model:   modelName,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &oauth2.Transport{
				Source: oauth2.StaticTokenSource(&oauth2.Token{
					AccessToken: strings.TrimSpace(cfg.APIKey),
					TokenType:   "Bearer",
				}),
			},
		},
	}
}

// Model returns the model name sent with every request.
func (c *ChatClient) Model() string {
	return c.model
}

// Complete sends messages and returns the first choice's content.
func (c *ChatClient) Complete(ctx context.Context, messages []model.OpenAIChatMessage, opts CompletionOptions) (string, error) {
	temperature := opts.Temperature
	reqBody := model.OpenAIChatRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   opts.MaxTokens,
		Temperature: &temperature,
		Stream:      false,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("agent: marshal request: %w", err)
	}

	logger.Debug("[ChatClient] sending chat request",
		logger.String("model", c.model),
		logger.Int("messages", len(messages)),
		logger.Int("maxTokens", opts.MaxTokens),
		logger.Float64("temperature", opts.Temperature))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("agent: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("agent: send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("agent: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("agent: API error (status %d): %s", resp.StatusCode, summarize(string(body)))
	}

	var chatResp model.OpenAIChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("agent: decode response: %w", err)
	}
	if chatResp.Error != nil {
		return "", fmt.Errorf("agent: API error: %s", chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	content := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	if content == "" {
		return "", ErrEmptyCompletion
	}

	logger.Debug("[ChatClient] chat request finished",
		logger.Duration("elapsed", time.Since(start)),
		logger.Int("totalTokens", chatResp.Usage.TotalTokens))
	return content, nil
}
