package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/techvote/techvote/internal/models"
)

// BuildPrompt renders the instruction text sent with every assessment.
func BuildPrompt(req models.RumorCheckRequest) string {
	var b strings.Builder

	b.WriteString(`You are a neutral, non-partisan civic-tech assistant for the Bangladesh 2026 election called "TechVote".
Analyze the following user input (text and optionally an image or video) which they suspect might be a rumor or misinformation.

`)
	fmt.Fprintf(&b, "Category: %s\n", req.Category)
	fmt.Fprintf(&b, "User Text Context: %q\n\n", req.Text)

	if req.HasMedia() {
		b.WriteString(`An attachment is provided. Analyze it for:
1. Signs of manipulation (shadows, lighting, artifacts).
2. Context mismatch (old footage used as new).
3. Deepfake indicators (unnatural movement, audio and lip sync).

`)
	}

	b.WriteString(`Your goal is to promote media literacy and fact-checking, not to be the final judge of truth, but to guide the user on how to verify it.

Rules:
1. Be objective and calm.
2. If the content contains hate speech or incitement to violence, flag it as harmful but give safety advice.
3. Return a JSON object strictly matching this schema:
{
  "status": "Likely Misleading|Unverifiable|Likely Accurate|Needs Expert Review",
  "summary": "short analysis",
  "keyQuestions": ["question the user should ask", "..."],
  "safetyTip": "one practical safety tip",
  "isHarmful": true|false
}

Only respond with the JSON object, no other text.`)

	return b.String()
}

func statusEnum() []string {
	out := make([]string, len(models.RumorStatuses))
	for i, s := range models.RumorStatuses {
		out[i] = string(s)
	}
	return out
}

// resultJSONSchema is the JSON Schema of models.RumorCheckResult used by
// providers that accept a schema document.
func resultJSONSchema() json.RawMessage {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"status":       map[string]any{"type": "string", "enum": statusEnum()},
			"summary":      map[string]any{"type": "string"},
			"keyQuestions": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"safetyTip":    map[string]any{"type": "string"},
			"isHarmful":    map[string]any{"type": "boolean"},
		},
		"required":             []string{"status", "summary", "keyQuestions", "safetyTip", "isHarmful"},
		"additionalProperties": false,
	}
	data, _ := json.Marshal(schema)
	return data
}
