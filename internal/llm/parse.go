package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/techvote/techvote/internal/models"
)

var codeFence = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")

// wireResult mirrors models.RumorCheckResult with a pointer for the boolean
// so an absent isHarmful can be told apart from false.
type wireResult struct {
	Status       models.RumorStatus `json:"status"`
	Summary      string             `json:"summary"`
	KeyQuestions []string           `json:"keyQuestions"`
	SafetyTip    string             `json:"safetyTip"`
	IsHarmful    *bool              `json:"isHarmful"`
}

// ParseResult extracts and validates a result from a model reply. Code fences
// and surrounding prose are tolerated; missing fields are not.
func ParseResult(response string) (*models.RumorCheckResult, error) {
	response = strings.TrimSpace(response)
	if response == "" {
		return nil, fmt.Errorf("empty response")
	}

	// Handle markdown code blocks
	if strings.HasPrefix(response, "```") {
		if matches := codeFence.FindStringSubmatch(response); len(matches) > 1 {
			response = matches[1]
		}
	}

	var wire wireResult
	if err := json.Unmarshal([]byte(response), &wire); err != nil {
		// Try to find JSON object in response
		start := strings.Index(response, "{")
		end := strings.LastIndex(response, "}")
		if start < 0 || end <= start {
			return nil, fmt.Errorf("no JSON found in response")
		}
		if err := json.Unmarshal([]byte(response[start:end+1]), &wire); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	}

	if wire.IsHarmful == nil {
		return nil, fmt.Errorf("%w: missing isHarmful", models.ErrIncompleteResult)
	}
	result := &models.RumorCheckResult{
		Status:       wire.Status,
		Summary:      wire.Summary,
		KeyQuestions: wire.KeyQuestions,
		SafetyTip:    wire.SafetyTip,
		IsHarmful:    *wire.IsHarmful,
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}
	return result, nil
}
