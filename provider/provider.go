package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// AIProvider is the capability interface every text-generation backend
// implements. recentPosts/recentComments carry the bot's latest outputs so
// backends can avoid repeating phrasing; the list is advisory for remote
// providers and binding for the deterministic mock.
type AIProvider interface {
	GeneratePost(ctx context.Context, persona, topic, category, tone string, recentPosts []string) (string, error)
	GenerateComment(ctx context.Context, persona, postTitle, postCategory, postContent, tone string, recentComments []string) (string, error)
}

// ProviderError marks a transient remote failure (transport error,
// non-2xx response or unparseable payload). The executor retries these;
// every other error fails the attempt immediately.
type ProviderError struct {
	Provider string
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Provider, e.Message, e.Err)
	}
	return fmt.Sprintf("%s %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is a retryable provider failure.
func IsTransient(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}

// ConfigError marks an invalid provider configuration (missing credential
// or model). Never retried.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return e.Reason
}

// IsConfigError reports whether err is a provider configuration error.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// ForBot returns the provider variant selected by the bot's stored
// provider name. Remote variants require a non-empty credential and model
// and fail fast here, before any network call. The parameterless mock is
// always available.
func ForBot(providerName, apiKey, model string, timeout time.Duration) (AIProvider, error) {
	name := strings.ToLower(strings.TrimSpace(providerName))
	apiKey = strings.TrimSpace(apiKey)
	model = strings.TrimSpace(model)

	switch name {
	case "", "mock":
		return NewMockProvider(), nil
	case "gpt", "openai":
		if apiKey == "" {
			return nil, &ConfigError{Reason: "OPENAI API Key가 필요합니다."}
		}
		if model == "" {
			return nil, &ConfigError{Reason: "OPENAI 모델을 선택해주세요."}
		}
		return NewOpenAIProvider(apiKey, model, timeout), nil
	case "gemini":
		if apiKey == "" {
			return nil, &ConfigError{Reason: "Gemini API Key가 필요합니다."}
		}
		if model == "" {
			return nil, &ConfigError{Reason: "Gemini 모델을 선택해주세요."}
		}
		return NewGeminiProvider(apiKey, model, timeout), nil
	case "claude":
		if apiKey == "" {
			return nil, &ConfigError{Reason: "Claude API Key가 필요합니다."}
		}
		if model == "" {
			return nil, &ConfigError{Reason: "Claude 모델을 선택해주세요."}
		}
		return NewClaudeProvider(apiKey, model, timeout), nil
	default:
		return nil, &ConfigError{Reason: fmt.Sprintf("지원하지 않는 AI 종류입니다: %s", providerName)}
	}
}
