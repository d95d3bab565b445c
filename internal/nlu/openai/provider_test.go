package openai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tripmind/tripmind/internal/config"
)

func TestNewProvider_DefaultModel(t *testing.T) {
	p := NewProvider(config.OpenAIConfig{APIKey: "key"})
	assert.Equal(t, "gpt-4o-mini", p.model)
	assert.True(t, p.IsConfigured())
}

func TestNewProvider_ModelOverride(t *testing.T) {
	p := NewProvider(config.OpenAIConfig{APIKey: "key", Model: "gpt-4o"})
	assert.Equal(t, "gpt-4o", p.model)
}

func TestProvider_NotConfigured(t *testing.T) {
	p := NewProvider(config.OpenAIConfig{})
	assert.False(t, p.IsConfigured())

	_, err := p.complete(context.Background(), "hello")
	assert.Error(t, err)
}
