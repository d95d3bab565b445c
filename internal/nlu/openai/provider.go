package openai

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/tripmind/tripmind/internal/config"
	"github.com/tripmind/tripmind/internal/nlu"
)

// Provider implements nlu.Provider on the OpenAI chat API
type Provider struct {
	apiKey string
	model  string
	client *openai.Client
}

func NewProvider(cfg config.OpenAIConfig) *Provider {
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &Provider{
		apiKey: cfg.APIKey,
		model:  model,
		client: openai.NewClient(cfg.APIKey),
	}
}

func (p *Provider) Name() string {
	return "openai"
}

func (p *Provider) IsConfigured() bool {
	return p.apiKey != ""
}

func (p *Provider) Classify(ctx context.Context, text string) (*nlu.Classification, error) {
	output, err := p.complete(ctx, nlu.BuildClassifyPrompt(text))
	if err != nil {
		return nil, err
	}
	return nlu.ParseClassification(output)
}

func (p *Provider) Extract(ctx context.Context, text string, shape nlu.Shape) (any, error) {
	output, err := p.complete(ctx, nlu.BuildExtractPrompt(text, shape))
	if err != nil {
		return nil, err
	}
	return nlu.ParseValue(output, shape)
}

func (p *Provider) GenerateItinerary(ctx context.Context, req nlu.ItineraryRequest) (*nlu.ItineraryResult, error) {
	output, err := p.complete(ctx, nlu.BuildItineraryPrompt(req))
	if err != nil {
		return nil, err
	}
	return nlu.ParseItinerary(output)
}

func (p *Provider) complete(ctx context.Context, prompt string) (string, error) {
	if !p.IsConfigured() {
		return "", fmt.Errorf("openai provider is not configured (missing API key)")
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai completion error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from openai")
	}

	return resp.Choices[0].Message.Content, nil
}
