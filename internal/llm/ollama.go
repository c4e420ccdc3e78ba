package llm

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"

	"github.com/techvote/techvote/internal/config"
	"github.com/techvote/techvote/internal/models"
)

// OllamaProvider implements Provider using a local Ollama server.
type OllamaProvider struct {
	client      *api.Client
	model       string
	temperature float64
}

// NewOllamaProvider creates a new Ollama provider. No credential is needed.
func NewOllamaProvider(cfg *config.LLMConfig) (*OllamaProvider, error) {
	rawURL := cfg.OllamaURL
	if rawURL == "" {
		rawURL = "http://localhost:11434"
	}
	base, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama url %q: %w", rawURL, err)
	}

	model := cfg.Model
	if model == "" {
		model = "llava"
	}

	return &OllamaProvider{
		client:      api.NewClient(base, http.DefaultClient),
		model:       model,
		temperature: cfg.Temperature,
	}, nil
}

// Name returns the provider name.
func (p *OllamaProvider) Name() string {
	return "ollama"
}

// Assess runs a non-streaming chat constrained by the result schema. Images
// are passed to multimodal models; other media types are not accepted.
func (p *OllamaProvider) Assess(ctx context.Context, req models.RumorCheckRequest) (*models.RumorCheckResult, error) {
	msg := api.Message{Role: "user", Content: BuildPrompt(req)}
	if req.Media != nil {
		if !strings.HasPrefix(req.Media.MIMEType, "image/") {
			return nil, fmt.Errorf("%w: %s", ErrMediaUnsupported, req.Media.MIMEType)
		}
		data, err := base64.StdEncoding.DecodeString(req.Media.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode media: %w", err)
		}
		msg.Images = []api.ImageData{data}
	}

	stream := false
	chatReq := &api.ChatRequest{
		Model:    p.model,
		Messages: []api.Message{msg},
		Stream:   &stream,
		Format:   resultJSONSchema(),
		Options: map[string]interface{}{
			"temperature": p.temperature,
		},
	}

	var reply strings.Builder
	err := p.client.Chat(ctx, chatReq, func(resp api.ChatResponse) error {
		_, err := reply.WriteString(resp.Message.Content)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("Ollama chat failed: %w", err)
	}

	return ParseResult(reply.String())
}
