package provider

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForBot_MockVariants(t *testing.T) {
	for _, name := range []string{"", "mock", "MOCK", " mock "} {
		p, err := ForBot(name, "", "", time.Second)
		assert.NoError(t, err, "name=%q", name)
		assert.IsType(t, &MockProvider{}, p, "name=%q", name)
	}
}

func TestForBot_RemoteVariants(t *testing.T) {
	cases := []struct {
		name     string
		expected interface{}
	}{
		{"gpt", &OpenAIProvider{}},
		{"openai", &OpenAIProvider{}},
		{"gemini", &GeminiProvider{}},
		{"claude", &ClaudeProvider{}},
	}
	for _, tc := range cases {
		p, err := ForBot(tc.name, "test-key", "test-model", time.Second)
		require.NoError(t, err, "name=%q", tc.name)
		assert.IsType(t, tc.expected, p, "name=%q", tc.name)
	}
}

func TestForBot_MissingCredentialOrModel(t *testing.T) {
	for _, name := range []string{"gpt", "gemini", "claude"} {
		_, err := ForBot(name, "", "test-model", time.Second)
		require.Error(t, err, "name=%q", name)
		assert.True(t, IsConfigError(err), "missing key for %q must be a config error", name)
		assert.Contains(t, err.Error(), "API Key")

		_, err = ForBot(name, "test-key", "", time.Second)
		require.Error(t, err, "name=%q", name)
		assert.True(t, IsConfigError(err), "missing model for %q must be a config error", name)

		// Whitespace-only values count as missing.
		_, err = ForBot(name, "   ", "test-model", time.Second)
		assert.True(t, IsConfigError(err), "blank key for %q must be a config error", name)
	}
}

func TestForBot_UnknownProvider(t *testing.T) {
	_, err := ForBot("bard", "test-key", "test-model", time.Second)
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
	assert.Contains(t, err.Error(), "지원하지 않는 AI 종류입니다")
}

func TestErrorClassification(t *testing.T) {
	transient := &ProviderError{Provider: "OPENAI", Message: "request failed", Err: errors.New("connection reset")}
	assert.True(t, IsTransient(transient))
	assert.False(t, IsConfigError(transient))
	assert.Contains(t, transient.Error(), "OPENAI request failed")
	assert.Contains(t, transient.Error(), "connection reset")

	// Classification survives wrapping.
	wrapped := fmt.Errorf("post generation: %w", transient)
	assert.True(t, IsTransient(wrapped))

	config := &ConfigError{Reason: "Gemini API Key가 필요합니다."}
	assert.True(t, IsConfigError(config))
	assert.False(t, IsTransient(config))
	assert.Equal(t, "Gemini API Key가 필요합니다.", config.Error())

	assert.False(t, IsTransient(errors.New("plain")))
	assert.False(t, IsConfigError(nil))
}
