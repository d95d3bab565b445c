package gemini

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/tripmind/tripmind/internal/config"
	"github.com/tripmind/tripmind/internal/nlu"
)

// Provider implements nlu.Provider on the Gemini API
type Provider struct {
	apiKey string
	model  string
}

func NewProvider(cfg config.GeminiConfig) *Provider {
	return &Provider{
		apiKey: cfg.APIKey,
		model:  cfg.Model,
	}
}

func (p *Provider) Name() string {
	return "gemini"
}

func (p *Provider) IsConfigured() bool {
	return p.apiKey != ""
}

func (p *Provider) Classify(ctx context.Context, text string) (*nlu.Classification, error) {
	output, err := p.generate(ctx, nlu.BuildClassifyPrompt(text))
	if err != nil {
		return nil, err
	}
	return nlu.ParseClassification(output)
}

func (p *Provider) Extract(ctx context.Context, text string, shape nlu.Shape) (any, error) {
	output, err := p.generate(ctx, nlu.BuildExtractPrompt(text, shape))
	if err != nil {
		return nil, err
	}
	return nlu.ParseValue(output, shape)
}

func (p *Provider) GenerateItinerary(ctx context.Context, req nlu.ItineraryRequest) (*nlu.ItineraryResult, error) {
	output, err := p.generate(ctx, nlu.BuildItineraryPrompt(req))
	if err != nil {
		return nil, err
	}
	return nlu.ParseItinerary(output)
}

func (p *Provider) generate(ctx context.Context, prompt string) (string, error) {
	if !p.IsConfigured() {
		return "", fmt.Errorf("gemini provider is not configured (missing API key)")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(p.apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	generativeModel := client.GenerativeModel(p.model)
	// Temperature 0 keeps extraction and classification deterministic
	var temperature float32 = 0.0
	generativeModel.Temperature = &temperature
	generativeModel.ResponseMIMEType = "application/json"

	resp, err := generativeModel.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generation error: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from gemini")
	}

	var output string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			output += string(text)
		}
	}

	return output, nil
}
