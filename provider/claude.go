package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	anthropicMessagesURL = "https://api.anthropic.com/v1/messages"
	anthropicVersion     = "2023-06-01"
)

// ClaudeProvider generates text through the Anthropic messages API
// with a hand-rolled HTTP request and response parse.
type ClaudeProvider struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClaudeProvider creates a Claude-backed provider. The caller is
// responsible for validating apiKey and model (see ForBot).
func NewClaudeProvider(apiKey, model string, timeout time.Duration) *ClaudeProvider {
	return &ClaudeProvider{
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (p *ClaudeProvider) GeneratePost(ctx context.Context, persona, topic, category, tone string, recentPosts []string) (string, error) {
	return p.request(ctx, renderPostPrompt(persona, topic, category, tone, recentPosts))
}

func (p *ClaudeProvider) GenerateComment(ctx context.Context, persona, postTitle, postCategory, postContent, tone string, recentComments []string) (string, error) {
	return p.request(ctx, renderCommentPrompt(persona, postTitle, postCategory, postContent, tone, recentComments))
}

type claudeRequest struct {
	Model       string          `json:"model"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature"`
	Messages    []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func (p *ClaudeProvider) request(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(claudeRequest{
		Model:       p.model,
		MaxTokens:   220,
		Temperature: 0.9,
		Messages:    []claudeMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode claude request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, anthropicMessagesURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build claude request: %w", err)
	}
	req.Header.Set("x-api-key", p.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("content-type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", &ProviderError{Provider: "claude", Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ProviderError{Provider: "claude", Message: "response read failed", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &ProviderError{Provider: "claude", Message: fmt.Sprintf("request failed with status %d", resp.StatusCode)}
	}

	var parsed claudeResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return "", &ProviderError{Provider: "claude", Message: "response parse failed", Err: err}
	}
	for _, item := range parsed.Content {
		if item.Type == "text" {
			if text := strings.TrimSpace(item.Text); text != "" {
				return text, nil
			}
		}
	}
	return "", &ProviderError{Provider: "claude", Message: "response parse failed"}
}
