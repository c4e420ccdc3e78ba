// Package session keeps the per-tab state of the application: language,
// current view, the report form, the rumor cycle and the voter journey.
package session

import (
	"errors"
	"fmt"

	"github.com/techvote/techvote/internal/models"
)

var (
	// ErrUnknownLanguage is returned for languages other than en and bn.
	ErrUnknownLanguage = errors.New("unknown language")
	// ErrUnknownView is returned for an unknown view name.
	ErrUnknownView = errors.New("unknown view")
)

// State is the top-level application state of one session.
type State struct {
	Language models.Language  `json:"language"`
	View     models.ViewState `json:"view"`
}

// DefaultState is where every session starts.
func DefaultState() State {
	return State{Language: models.LanguageEnglish, View: models.ViewHome}
}

// SetLanguage switches the UI language.
func (s *State) SetLanguage(lang models.Language) error {
	if !lang.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownLanguage, lang)
	}
	s.Language = lang
	return nil
}

// ToggleLanguage flips between English and Bangla.
func (s *State) ToggleLanguage() models.Language {
	if s.Language == models.LanguageBangla {
		s.Language = models.LanguageEnglish
	} else {
		s.Language = models.LanguageBangla
	}
	return s.Language
}

// Navigate changes the current view.
func (s *State) Navigate(v models.ViewState) error {
	if !v.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownView, v)
	}
	s.View = v
	return nil
}
