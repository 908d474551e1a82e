package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"dashterm/internal/logging"
)

// AnthropicConfig holds configuration for the Anthropic-style backend.
type AnthropicConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// DefaultAnthropicConfig returns sensible defaults.
func DefaultAnthropicConfig(apiKey string) AnthropicConfig {
	return AnthropicConfig{
		APIKey:      apiKey,
		BaseURL:     "https://api.anthropic.com/v1",
		Model:       "claude-sonnet-4-5",
		MaxTokens:   4096,
		Temperature: 0.1,
		Timeout:     2 * time.Minute,
	}
}

// AnthropicClient implements Client against the Anthropic messages API.
type AnthropicClient struct {
	apiKey      string
	baseURL     string
	model       string
	maxTokens   int
	temperature float64
	httpClient  *http.Client

	mu          sync.Mutex
	lastRequest time.Time
}

// NewAnthropicClient creates a client with default config.
func NewAnthropicClient(apiKey string) *AnthropicClient {
	return NewAnthropicClientWithConfig(DefaultAnthropicConfig(apiKey))
}

// NewAnthropicClientWithConfig creates a client with custom config.
func NewAnthropicClientWithConfig(cfg AnthropicConfig) *AnthropicClient {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 4096
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	return &AnthropicClient{
		apiKey:      cfg.APIKey,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
	}
}

type anthropicRequest struct {
	Model       string           `json:"model"`
	MaxTokens   int              `json:"max_tokens"`
	System      string           `json:"system,omitempty"`
	Messages    []Message        `json:"messages"`
	Tools       []ToolDefinition `json:"tools,omitempty"`
	Temperature float64          `json:"temperature,omitempty"`
}

type anthropicResponse struct {
	ID         string         `json:"id"`
	Content    []ContentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
	Usage      Usage          `json:"usage"`
	Error      *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Converse sends one conversation round and returns the parsed reply.
func (c *AnthropicClient) Converse(ctx context.Context, req *Request) (*Reply, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	// Auto-apply timeout if the context has no deadline.
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.httpClient.Timeout)
		defer cancel()
	}

	start := time.Now()
	log := logging.Get(logging.CategoryAPI)
	log.Debug("converse: model=%s turns=%d tools=%d system_len=%d",
		c.model, len(req.Messages), len(req.Tools), len(req.System))

	// Rate limiting: keep a minimum gap between requests.
	c.mu.Lock()
	if elapsed := time.Since(c.lastRequest); elapsed < 100*time.Millisecond {
		time.Sleep(100*time.Millisecond - elapsed)
	}
	c.lastRequest = time.Now()
	c.mu.Unlock()

	body := anthropicRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		System:      req.System,
		Messages:    req.Messages,
		Tools:       req.Tools,
		Temperature: c.temperature,
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, &BackendError{Op: "marshal", Err: err}
	}

	const maxRetries = 3
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(time.Duration(1<<uint(attempt-1)) * time.Second):
			case <-ctx.Done():
				return nil, &BackendError{Op: "request", Err: ctx.Err()}
			}
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(jsonData))
		if err != nil {
			return nil, &BackendError{Op: "request", Err: err}
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("x-api-key", c.apiKey)
		httpReq.Header.Set("anthropic-version", "2023-06-01")

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			lastErr = err
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response: %w", err)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			lastErr = fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
			continue
		}
		if resp.StatusCode != http.StatusOK {
			return nil, &BackendError{Op: "request", Err: fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))}
		}

		var parsed anthropicResponse
		if err := json.Unmarshal(respBody, &parsed); err != nil {
			return nil, &BackendError{Op: "decode", Err: err}
		}
		if parsed.Error != nil {
			return nil, &BackendError{Op: "request", Err: fmt.Errorf("%s: %s", parsed.Error.Type, parsed.Error.Message)}
		}
		if len(parsed.Content) == 0 {
			return nil, &BackendError{Op: "decode", Err: fmt.Errorf("empty reply")}
		}

		reply := replyFromBlocks(parsed.Content)
		reply.StopReason = parsed.StopReason
		reply.Usage = parsed.Usage
		log.Info("converse: completed in %v stop=%s text_blocks=%d tool_calls=%d",
			time.Since(start), reply.StopReason, len(reply.TextBlocks), len(reply.ToolCalls))
		return reply, nil
	}

	log.Error("converse: max retries exceeded after %v: %v", time.Since(start), lastErr)
	return nil, &BackendError{Op: "request", Err: fmt.Errorf("max retries exceeded: %w", lastErr)}
}

// replyFromBlocks splits a raw assistant content list into text blocks and
// tool calls, preserving reply order within each kind.
func replyFromBlocks(blocks []ContentBlock) *Reply {
	reply := &Reply{Assistant: Message{Role: RoleAssistant, Content: blocks}}
	for _, b := range blocks {
		switch b.Type {
		case BlockText:
			reply.TextBlocks = append(reply.TextBlocks, b.Text)
		case BlockToolUse:
			reply.ToolCalls = append(reply.ToolCalls, ToolCall{ID: b.ID, Name: b.Name, Input: b.Input})
		}
	}
	return reply
}
