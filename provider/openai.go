package provider

import (
	"context"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider generates text through the OpenAI chat completion API.
type OpenAIProvider struct {
	apiKey  string
	model   string
	timeout time.Duration
}

// NewOpenAIProvider creates an OpenAI-backed provider. The caller is
// responsible for validating apiKey and model (see ForBot).
func NewOpenAIProvider(apiKey, model string, timeout time.Duration) *OpenAIProvider {
	return &OpenAIProvider{apiKey: apiKey, model: model, timeout: timeout}
}

func (p *OpenAIProvider) GeneratePost(ctx context.Context, persona, topic, category, tone string, recentPosts []string) (string, error) {
	return p.request(ctx, renderPostPrompt(persona, topic, category, tone, recentPosts))
}

func (p *OpenAIProvider) GenerateComment(ctx context.Context, persona, postTitle, postCategory, postContent, tone string, recentComments []string) (string, error) {
	return p.request(ctx, renderCommentPrompt(persona, postTitle, postCategory, postContent, tone, recentComments))
}

func (p *OpenAIProvider) request(ctx context.Context, prompt string) (string, error) {
	clientConfig := openai.DefaultConfig(p.apiKey)
	clientConfig.HTTPClient = &http.Client{Timeout: p.timeout}
	client := openai.NewClientWithConfig(clientConfig)

	completion, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.9,
		MaxTokens:   220,
	})
	if err != nil {
		return "", &ProviderError{Provider: "openai", Message: "request failed", Err: err}
	}

	if len(completion.Choices) == 0 {
		return "", &ProviderError{Provider: "openai", Message: "response parse failed"}
	}
	text := strings.TrimSpace(completion.Choices[0].Message.Content)
	if text == "" {
		return "", &ProviderError{Provider: "openai", Message: "response parse failed"}
	}
	return text, nil
}
