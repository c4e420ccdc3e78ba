package llm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techvote/techvote/internal/config"
	"github.com/techvote/techvote/internal/models"
)

const validReply = `{"status":"Likely Misleading","summary":"No official notice exists.","keyQuestions":["Who posted it?"],"safetyTip":"Check the EC website.","isHarmful":false}`

func TestParseResult(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"plain", validReply, false},
		{"fenced", "```json\n" + validReply + "\n```", false},
		{"prose around", "Here you go:\n" + validReply + "\nThanks!", false},
		{"empty", "", true},
		{"no json", "I cannot help with that.", true},
		{"bad status", `{"status":"True","summary":"s","keyQuestions":["q"],"safetyTip":"t","isHarmful":false}`, true},
		{"missing harmful", `{"status":"Unverifiable","summary":"s","keyQuestions":["q"],"safetyTip":"t"}`, true},
		{"no questions", `{"status":"Unverifiable","summary":"s","keyQuestions":[],"safetyTip":"t","isHarmful":false}`, true},
		{"blank summary", `{"status":"Unverifiable","summary":" ","keyQuestions":["q"],"safetyTip":"t","isHarmful":false}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ParseResult(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, models.StatusLikelyMisleading, res.Status)
			assert.Equal(t, []string{"Who posted it?"}, res.KeyQuestions)
		})
	}
}

func TestParseResultIncompleteIsTyped(t *testing.T) {
	_, err := ParseResult(`{"status":"Unverifiable","summary":"s","keyQuestions":["q"],"safetyTip":"t"}`)
	assert.True(t, errors.Is(err, models.ErrIncompleteResult))
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt(models.RumorCheckRequest{Text: "polls closed", Category: "Voting Process"})
	assert.Contains(t, p, "TechVote")
	assert.Contains(t, p, "Bangladesh 2026 election")
	assert.Contains(t, p, "Category: Voting Process")
	assert.Contains(t, p, `"polls closed"`)
	assert.NotContains(t, p, "Deepfake")

	withMedia := BuildPrompt(models.RumorCheckRequest{Media: &models.Media{Data: "AA==", MIMEType: "image/png"}})
	assert.Contains(t, withMedia, "Deepfake indicators")
	assert.Contains(t, withMedia, "old footage")
}

func TestResultJSONSchemaRequiresEveryField(t *testing.T) {
	var schema struct {
		Required   []string                  `json:"required"`
		Properties map[string]map[string]any `json:"properties"`
	}
	require.NoError(t, json.Unmarshal(resultJSONSchema(), &schema))
	assert.ElementsMatch(t, []string{"status", "summary", "keyQuestions", "safetyTip", "isHarmful"}, schema.Required)
	assert.Len(t, schema.Properties["status"]["enum"], 4)
}

func TestNewProviderWithoutCredential(t *testing.T) {
	for _, name := range []string{"gemini", "openai", "anthropic"} {
		p, err := NewProvider(&config.LLMConfig{Provider: name})
		assert.NoError(t, err, name)
		assert.Nil(t, p, name)
	}

	p, err := NewProvider(&config.LLMConfig{Provider: "ollama"})
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "ollama", p.Name())

	_, err = NewProvider(&config.LLMConfig{Provider: "bard", APIKey: "k"})
	assert.Error(t, err)
}

func imageRequest() models.RumorCheckRequest {
	return models.RumorCheckRequest{
		Text:     "Is this photo real?",
		Category: "Security & Safety",
		Media:    &models.Media{Data: base64.StdEncoding.EncodeToString([]byte("png-bytes")), MIMEType: "image/png"},
	}
}

func TestOpenAIProvider(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": validReply},
			}},
		})
	}))
	defer srv.Close()

	p, err := NewOpenAIProvider(&config.LLMConfig{APIKey: "sk-test", BaseURL: srv.URL + "/v1", Temperature: 0.3})
	require.NoError(t, err)

	res, err := p.Assess(context.Background(), imageRequest())
	require.NoError(t, err)
	assert.Equal(t, models.StatusLikelyMisleading, res.Status)

	format := body["response_format"].(map[string]any)
	assert.Equal(t, "json_schema", format["type"])
	assert.Contains(t, mustJSON(t, body["messages"]), "data:image/png;base64,")
}

func TestOpenAIProviderRejectsVideo(t *testing.T) {
	p, err := NewOpenAIProvider(&config.LLMConfig{APIKey: "sk-test", BaseURL: "http://127.0.0.1:1"})
	require.NoError(t, err)
	req := imageRequest()
	req.Media.MIMEType = "video/mp4"
	_, err = p.Assess(context.Background(), req)
	assert.ErrorIs(t, err, ErrMediaUnsupported)
}

func TestAnthropicProvider(t *testing.T) {
	var body anthropicRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "ak-test", r.Header.Get("x-api-key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]any{{"type": "text", "text": "```json\n" + validReply + "\n```"}},
		})
	}))
	defer srv.Close()

	p, err := NewAnthropicProvider(&config.LLMConfig{APIKey: "ak-test", BaseURL: srv.URL})
	require.NoError(t, err)

	res, err := p.Assess(context.Background(), imageRequest())
	require.NoError(t, err)
	assert.False(t, res.IsHarmful)

	require.Len(t, body.Messages, 1)
	blocks := body.Messages[0].Content
	require.Len(t, blocks, 2)
	assert.Equal(t, "image", blocks[0].Type)
	assert.Equal(t, "image/png", blocks[0].Source.MediaType)
	assert.Equal(t, "text", blocks[1].Type)
}

func TestAnthropicProviderServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"error":{"message":"overloaded"}}`)
	}))
	defer srv.Close()

	p, err := NewAnthropicProvider(&config.LLMConfig{APIKey: "ak-test", BaseURL: srv.URL})
	require.NoError(t, err)
	_, err = p.Assess(context.Background(), models.RumorCheckRequest{Text: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overloaded")
}

func TestOllamaProvider(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/x-ndjson")
		json.NewEncoder(w).Encode(map[string]any{
			"model":      "llava",
			"created_at": "2026-01-01T00:00:00Z",
			"message":    map[string]any{"role": "assistant", "content": validReply},
			"done":       true,
		})
	}))
	defer srv.Close()

	p, err := NewOllamaProvider(&config.LLMConfig{OllamaURL: srv.URL})
	require.NoError(t, err)

	res, err := p.Assess(context.Background(), imageRequest())
	require.NoError(t, err)
	assert.Equal(t, models.StatusLikelyMisleading, res.Status)

	assert.Equal(t, false, body["stream"])
	assert.NotNil(t, body["format"])
	msgs := body["messages"].([]any)
	images := msgs[0].(map[string]any)["images"].([]any)
	assert.Len(t, images, 1)
}

func TestGeminiProvider(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/models/gemini-2.5-flash:generateContent"), r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"role":  "model",
					"parts": []map[string]any{{"text": validReply}},
				},
			}},
		})
	}))
	defer srv.Close()

	p, err := NewGeminiProvider(&config.LLMConfig{APIKey: "g-test", BaseURL: srv.URL, Temperature: 0.3})
	require.NoError(t, err)

	res, err := p.Assess(context.Background(), imageRequest())
	require.NoError(t, err)
	assert.Equal(t, models.StatusLikelyMisleading, res.Status)

	raw := mustJSON(t, body)
	assert.Contains(t, raw, "application/json")
	assert.Contains(t, raw, "inlineData")
}

func TestGeminiProviderGarbageReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"not json"}]}}]}`)
	}))
	defer srv.Close()

	p, err := NewGeminiProvider(&config.LLMConfig{APIKey: "g-test", BaseURL: srv.URL})
	require.NoError(t, err)
	_, err = p.Assess(context.Background(), models.RumorCheckRequest{Text: "x"})
	assert.Error(t, err)
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}
