// Package models defines the core data structures used throughout the application.
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Language is the UI language of a session.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageBangla  Language = "bn"
)

// Valid reports whether l is a supported language.
func (l Language) Valid() bool {
	return l == LanguageEnglish || l == LanguageBangla
}

// ViewState identifies the page a session is looking at.
type ViewState string

const (
	ViewHome          ViewState = "HOME"
	ViewJourney       ViewState = "JOURNEY"
	ViewRumorChecker  ViewState = "RUMOR_CHECKER"
	ViewInfoHub       ViewState = "INFO_HUB"
	ViewMediaLiteracy ViewState = "MEDIA_LITERACY"
	ViewCommunity     ViewState = "COMMUNITY"
	ViewAbout         ViewState = "ABOUT"
)

// Valid reports whether v is a known view.
func (v ViewState) Valid() bool {
	switch v {
	case ViewHome, ViewJourney, ViewRumorChecker, ViewInfoHub, ViewMediaLiteracy, ViewCommunity, ViewAbout:
		return true
	}
	return false
}

// RumorStatus is the verdict of a rumor check.
type RumorStatus string

const (
	StatusLikelyMisleading  RumorStatus = "Likely Misleading"
	StatusUnverifiable      RumorStatus = "Unverifiable"
	StatusLikelyAccurate    RumorStatus = "Likely Accurate"
	StatusNeedsExpertReview RumorStatus = "Needs Expert Review"
)

// RumorStatuses lists every valid verdict in schema order.
var RumorStatuses = []RumorStatus{
	StatusLikelyMisleading,
	StatusUnverifiable,
	StatusLikelyAccurate,
	StatusNeedsExpertReview,
}

// Valid reports whether s is one of the four verdicts.
func (s RumorStatus) Valid() bool {
	for _, v := range RumorStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Media is an encoded attachment sent to the assessment service.
// Data holds base64 text without any data-URL prefix.
type Media struct {
	Data     string `json:"data"`
	MIMEType string `json:"mime_type"`
}

// RumorCheckRequest is the input of a rumor check.
type RumorCheckRequest struct {
	Text     string `json:"text"`
	Category string `json:"category"`
	Media    *Media `json:"media,omitempty"`
}

// HasMedia reports whether the request carries an attachment.
func (r RumorCheckRequest) HasMedia() bool {
	return r.Media != nil
}

// RumorCheckResult is the structured verdict returned by an assessor.
type RumorCheckResult struct {
	Status       RumorStatus `json:"status"`
	Summary      string      `json:"summary"`
	KeyQuestions []string    `json:"keyQuestions"`
	SafetyTip    string      `json:"safetyTip"`
	IsHarmful    bool        `json:"isHarmful"`
}

// ErrIncompleteResult is returned when a result is missing required fields.
var ErrIncompleteResult = errors.New("incomplete rumor check result")

// Validate checks that every field of the result is populated.
func (r *RumorCheckResult) Validate() error {
	if r == nil {
		return ErrIncompleteResult
	}
	if !r.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrIncompleteResult, r.Status)
	}
	if strings.TrimSpace(r.Summary) == "" {
		return fmt.Errorf("%w: empty summary", ErrIncompleteResult)
	}
	if len(r.KeyQuestions) == 0 {
		return fmt.Errorf("%w: no key questions", ErrIncompleteResult)
	}
	if strings.TrimSpace(r.SafetyTip) == "" {
		return fmt.Errorf("%w: empty safety tip", ErrIncompleteResult)
	}
	return nil
}

// Clone returns a deep copy so callers can't mutate shared results.
func (r RumorCheckResult) Clone() RumorCheckResult {
	r.KeyQuestions = append([]string(nil), r.KeyQuestions...)
	return r
}

// CheckSource tells where a verdict came from.
type CheckSource string

const (
	SourceRemote   CheckSource = "remote"
	SourceCache    CheckSource = "cache"
	SourceFallback CheckSource = "fallback"
)

// CheckRecord is the stored trace of a rumor check. It never holds the user's text.
type CheckRecord struct {
	ID          string      `json:"id"`
	RequestHash string      `json:"request_hash"`
	Category    string      `json:"category"`
	HasMedia    bool        `json:"has_media"`
	Status      RumorStatus `json:"status"`
	IsHarmful   bool        `json:"is_harmful"`
	Source      CheckSource `json:"source"`
	Provider    string      `json:"provider,omitempty"`
	DurationMs  int64       `json:"duration_ms"`
	ResultJSON  string      `json:"-"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Report is a frozen, submitted incident report.
type Report struct {
	ID           string    `json:"id"`
	Division     string    `json:"division"`
	District     string    `json:"district"`
	Seat         string    `json:"seat"`
	ReporterRole string    `json:"reporter_role"`
	Category     string    `json:"category"`
	Description  string    `json:"description,omitempty"`
	HasMedia     bool      `json:"has_media"`
	MediaName    string    `json:"media_name,omitempty"`
	MediaType    string    `json:"media_type,omitempty"`
	MediaSize    int       `json:"media_size,omitempty"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

// AuditLog represents an API request audit entry.
type AuditLog struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"session_id"`
	Endpoint     string    `json:"endpoint"`
	Method       string    `json:"method"`
	RequestSize  int64     `json:"request_size"`
	ResponseCode int       `json:"response_code"`
	DurationMs   int64     `json:"duration_ms"`
	Timestamp    time.Time `json:"timestamp"`
}
