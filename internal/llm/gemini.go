package llm

import (
	"context"
	"encoding/base64"
	"fmt"

	"google.golang.org/genai"

	"github.com/techvote/techvote/internal/config"
	"github.com/techvote/techvote/internal/models"
)

// GeminiProvider implements Provider using the Google Gen AI SDK.
type GeminiProvider struct {
	client      *genai.Client
	model       string
	temperature float32
}

// NewGeminiProvider creates a new Gemini provider.
func NewGeminiProvider(cfg *config.LLMConfig) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(context.Background(), clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiProvider{
		client:      client,
		model:       model,
		temperature: float32(cfg.Temperature),
	}, nil
}

// Name returns the provider name.
func (p *GeminiProvider) Name() string {
	return "gemini"
}

func geminiResultSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"status":       {Type: genai.TypeString, Enum: statusEnum()},
			"summary":      {Type: genai.TypeString},
			"keyQuestions": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
			"safetyTip":    {Type: genai.TypeString},
			"isHarmful":    {Type: genai.TypeBoolean},
		},
		Required: []string{"status", "summary", "keyQuestions", "safetyTip", "isHarmful"},
	}
}

// Assess sends the prompt and any inline media to Gemini with a response schema.
func (p *GeminiProvider) Assess(ctx context.Context, req models.RumorCheckRequest) (*models.RumorCheckResult, error) {
	parts := []*genai.Part{genai.NewPartFromText(BuildPrompt(req))}
	if req.Media != nil {
		data, err := base64.StdEncoding.DecodeString(req.Media.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode media: %w", err)
		}
		parts = append(parts, genai.NewPartFromBytes(data, req.Media.MIMEType))
	}

	resp, err := p.client.Models.GenerateContent(ctx,
		p.model,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)},
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   geminiResultSchema(),
			Temperature:      genai.Ptr(p.temperature),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("Gemini request failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("Gemini returned no content")
	}

	return ParseResult(text)
}
