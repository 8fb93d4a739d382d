package provider

import (
	"context"
	"strings"
	"time"

	"google.golang.org/genai"
)

// GeminiProvider generates text through the Google Gemini API.
type GeminiProvider struct {
	apiKey  string
	model   string
	timeout time.Duration
}

// NewGeminiProvider creates a Gemini-backed provider. The caller is
// responsible for validating apiKey and model (see ForBot).
func NewGeminiProvider(apiKey, model string, timeout time.Duration) *GeminiProvider {
	return &GeminiProvider{apiKey: apiKey, model: model, timeout: timeout}
}

func (p *GeminiProvider) GeneratePost(ctx context.Context, persona, topic, category, tone string, recentPosts []string) (string, error) {
	return p.request(ctx, renderPostPrompt(persona, topic, category, tone, recentPosts))
}

func (p *GeminiProvider) GenerateComment(ctx context.Context, persona, postTitle, postCategory, postContent, tone string, recentComments []string) (string, error) {
	return p.request(ctx, renderCommentPrompt(persona, postTitle, postCategory, postContent, tone, recentComments))
}

func (p *GeminiProvider) request(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	// Credentials are per-bot, so the client is built per call.
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: p.apiKey})
	if err != nil {
		return "", &ProviderError{Provider: "gemini", Message: "client init failed", Err: err}
	}

	result, err := client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.9),
		MaxOutputTokens: 220,
	})
	if err != nil {
		return "", &ProviderError{Provider: "gemini", Message: "request failed", Err: err}
	}

	if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
		var builder strings.Builder
		for _, part := range result.Candidates[0].Content.Parts {
			if part != nil {
				builder.WriteString(part.Text)
			}
		}
		if text := strings.TrimSpace(builder.String()); text != "" {
			return text, nil
		}
	}
	return "", &ProviderError{Provider: "gemini", Message: "response parse failed"}
}
