package rumor

import (
	"context"
	"strings"
	"time"

	"github.com/techvote/techvote/internal/models"
)

// Rule is one entry of the fallback table.
type Rule struct {
	Name   string
	Match  func(req models.RumorCheckRequest) bool
	Result models.RumorCheckResult
}

func containsAny(words ...string) func(models.RumorCheckRequest) bool {
	return func(req models.RumorCheckRequest) bool {
		lower := strings.ToLower(req.Text)
		for _, w := range words {
			if strings.Contains(lower, w) {
				return true
			}
		}
		return false
	}
}

// DefaultRules is the ordered fallback table. The first match wins; the last
// rule always matches.
var DefaultRules = []Rule{
	{
		Name:  "media",
		Match: func(req models.RumorCheckRequest) bool { return req.HasMedia() },
		Result: models.RumorCheckResult{
			Status:  models.StatusNeedsExpertReview,
			Summary: "We have detected media content. While AI can analyze visual elements for signs of manipulation (like deepfakes), it is recommended to cross-reference this image/video with official news sources.",
			KeyQuestions: []string{
				"Does the shadow/lighting in the image look consistent?",
				"Is the audio lip-synced correctly (for video)?",
				"Reverse search this image: has it appeared in older contexts?",
			},
			SafetyTip: "Manipulated media is often used to incite anger. Verify before sharing.",
			IsHarmful: false,
		},
	},
	{
		Name:  "postponement",
		Match: containsAny("cancel", "postpone"),
		Result: models.RumorCheckResult{
			Status:  models.StatusLikelyMisleading,
			Summary: "We found no official announcements regarding election postponement. This type of rumor often spreads to suppress voter turnout.",
			KeyQuestions: []string{
				"Is the source the official Election Commission website?",
				"Are mainstream news outlets reporting this?",
				"Does the post use emotional or urgent language?",
			},
			SafetyTip: "Always verify dates on the official EC Bangladesh website.",
			IsHarmful: false,
		},
	},
	{
		Name:  "violence",
		Match: containsAny("violence", "hate"),
		Result: models.RumorCheckResult{
			Status:  models.StatusNeedsExpertReview,
			Summary: "This content contains sensitive allegations. Please report it to local authorities or verified safety helplines if it incites violence.",
			KeyQuestions: []string{
				"Is this an isolated incident or a coordinated campaign?",
				"Is the image verifiable via reverse image search?",
			},
			SafetyTip: "Do not share unverified content that may incite panic.",
			IsHarmful: true,
		},
	},
	{
		Name:  "default",
		Match: func(models.RumorCheckRequest) bool { return true },
		Result: models.RumorCheckResult{
			Status:  models.StatusUnverifiable,
			Summary: "The context provided is insufficient for a definitive check. However, always be cautious of sensational claims.",
			KeyQuestions: []string{
				"Who is the original author?",
				"When was this originally posted?",
				"Why might someone want me to believe this?",
			},
			SafetyTip: "If in doubt, do not share.",
			IsHarmful: false,
		},
	},
}

// FallbackResponder answers from a fixed rule table after a fixed delay, so
// the pending state looks the same as with the remote service.
type FallbackResponder struct {
	rules []Rule
	delay time.Duration
}

// NewFallbackResponder creates a responder over rules. A nil rules slice
// selects DefaultRules.
func NewFallbackResponder(rules []Rule, delay time.Duration) *FallbackResponder {
	if rules == nil {
		rules = DefaultRules
	}
	return &FallbackResponder{rules: rules, delay: delay}
}

// Match returns the first rule matching req.
func (f *FallbackResponder) Match(req models.RumorCheckRequest) Rule {
	for _, r := range f.rules {
		if r.Match(req) {
			return r
		}
	}
	return DefaultRules[len(DefaultRules)-1]
}

// Respond waits for the configured delay, or until ctx is done, and returns
// a copy of the matching result. It never fails.
func (f *FallbackResponder) Respond(ctx context.Context, req models.RumorCheckRequest) models.RumorCheckResult {
	if f.delay > 0 {
		timer := time.NewTimer(f.delay)
		select {
		case <-ctx.Done():
		case <-timer.C:
		}
		timer.Stop()
	}
	return f.Match(req).Result.Clone()
}
