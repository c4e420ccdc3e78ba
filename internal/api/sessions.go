package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/techvote/techvote/internal/content"
	"github.com/techvote/techvote/internal/journey"
	"github.com/techvote/techvote/internal/models"
	"github.com/techvote/techvote/internal/report"
	"github.com/techvote/techvote/internal/rumor"
	"github.com/techvote/techvote/internal/session"
)

type sessionKey struct{}

// SessionMiddleware resolves {sid} into a live session.
func (h *Handler) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, err := h.sessions.Get(chi.URLParam(r, "sid"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		ctx := context.WithValue(r.Context(), sessionKey{}, s)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFrom(r *http.Request) *session.Session {
	return r.Context().Value(sessionKey{}).(*session.Session)
}

type sessionView struct {
	ID         string            `json:"id"`
	CreatedAt  time.Time         `json:"created_at"`
	Language   models.Language   `json:"language"`
	View       models.ViewState  `json:"view"`
	Navigation []content.NavItem `json:"navigation"`
	Toggle     string            `json:"language_toggle"`
}

func renderSession(s *session.Session) sessionView {
	st := s.State()
	items, toggle := content.Navigation(st.Language)
	return sessionView{
		ID:         s.ID,
		CreatedAt:  s.CreatedAt,
		Language:   st.Language,
		View:       st.View,
		Navigation: items,
		Toggle:     toggle,
	}
}

// CreateSession starts a new session.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Create()
	writeJSON(w, http.StatusCreated, renderSession(s))
}

// GetSession returns the application state of a session.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, renderSession(sessionFrom(r)))
}

// DeleteSession ends a session and releases its previews.
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	h.sessions.Delete(sessionFrom(r).ID)
	w.WriteHeader(http.StatusNoContent)
}

type valueRequest struct {
	Value string `json:"value"`
}

func decodeValue(r *http.Request) (string, error) {
	var req valueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", err
	}
	return req.Value, nil
}

// SetLanguage switches the UI language. An empty value toggles it.
func (h *Handler) SetLanguage(w http.ResponseWriter, r *http.Request) {
	value, err := decodeValue(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s := sessionFrom(r)
	_, err = s.Update(func(st *session.State) error {
		if value == "" {
			st.ToggleLanguage()
			return nil
		}
		return st.SetLanguage(models.Language(value))
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, renderSession(s))
}

// Navigate changes the current view.
func (h *Handler) Navigate(w http.ResponseWriter, r *http.Request) {
	value, err := decodeValue(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s := sessionFrom(r)
	if _, err := s.Update(func(st *session.State) error {
		return st.Navigate(models.ViewState(value))
	}); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, renderSession(s))
}

// Report

type reportView struct {
	State           report.State          `json:"state"`
	Draft           report.Draft          `json:"draft"`
	DistrictEnabled bool                  `json:"district_enabled"`
	SeatEnabled     bool                  `json:"seat_enabled"`
	Suggestions     report.Suggestions    `json:"suggestions"`
	Roles           []content.LocalOption `json:"roles"`
	Categories      []content.LocalOption `json:"categories"`
	Strict          bool                  `json:"strict_location_validation"`
	LastReport      *models.Report        `json:"last_report,omitempty"`
	Labels          map[string]string     `json:"labels"`
}

// renderReport must be called with the session locked.
func renderReport(f *report.Form, lang models.Language) reportView {
	d := f.Draft()
	sel := f.Selector()
	return reportView{
		State:           f.State(),
		Draft:           d,
		DistrictEnabled: sel.DistrictEnabled(d.Location),
		SeatEnabled:     sel.SeatEnabled(d.Location),
		Suggestions:     sel.Suggestions(d.Location),
		Roles:           content.Localize(report.Roles, lang),
		Categories:      content.Localize(report.Categories, lang),
		Strict:          f.Options().StrictLocationValidation,
		LastReport:      f.LastReport(),
		Labels:          content.ReportLabels.Localize(lang),
	}
}

// withReport runs fn on the locked report form and writes the resulting view.
func (h *Handler) withReport(w http.ResponseWriter, r *http.Request, status int, fn func(f *report.Form) error) {
	s := sessionFrom(r)
	lang := queryLanguage(r, s.State().Language)

	var view reportView
	err := s.Do(func() error {
		if err := fn(s.Report); err != nil {
			return err
		}
		view = renderReport(s.Report, lang)
		return nil
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, status, view)
}

// GetReport returns the report form.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	h.withReport(w, r, http.StatusOK, func(*report.Form) error { return nil })
}

// SetReportField updates one field of the draft.
func (h *Handler) SetReportField(w http.ResponseWriter, r *http.Request) {
	value, err := decodeValue(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var set func(f *report.Form) error
	switch chi.URLParam(r, "field") {
	case "division":
		set = func(f *report.Form) error { return f.SetDivision(value) }
	case "district":
		set = func(f *report.Form) error { return f.SetDistrict(value) }
	case "seat":
		set = func(f *report.Form) error { return f.SetSeat(value) }
	case "role":
		set = func(f *report.Form) error { return f.SetRole(value) }
	case "category":
		set = func(f *report.Form) error { return f.SetCategory(value) }
	case "description":
		set = func(f *report.Form) error { return f.SetDescription(value) }
	default:
		writeError(w, http.StatusNotFound, "Unknown field")
		return
	}
	h.withReport(w, r, http.StatusOK, set)
}

// AttachReportFile replaces the draft attachment with a multipart upload.
func (h *Handler) AttachReportFile(w http.ResponseWriter, r *http.Request) {
	name, mimeType, data, err := h.readUpload(w, r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	h.withReport(w, r, http.StatusCreated, func(f *report.Form) error {
		_, err := f.AttachFile(name, mimeType, data)
		return err
	})
}

// ClearReportFile removes the draft attachment.
func (h *Handler) ClearReportFile(w http.ResponseWriter, r *http.Request) {
	h.withReport(w, r, http.StatusOK, func(f *report.Form) error { return f.ClearFile() })
}

// SubmitReport freezes and transmits the draft.
func (h *Handler) SubmitReport(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)
	lang := queryLanguage(r, s.State().Language)

	var view reportView
	err := s.Do(func() error {
		if _, err := s.Report.Submit(r.Context()); err != nil {
			return err
		}
		view = renderReport(s.Report, lang)
		return nil
	})
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, view)
	case errors.Is(err, report.ErrIncomplete),
		errors.Is(err, report.ErrInconsistentLocation),
		errors.Is(err, report.ErrAlreadySubmitted):
		writeDomainError(w, err)
	default:
		writeError(w, http.StatusBadGateway, "Failed to transmit report, please try again")
	}
}

// RestartReport discards the draft and starts a fresh one.
func (h *Handler) RestartReport(w http.ResponseWriter, r *http.Request) {
	h.withReport(w, r, http.StatusOK, func(f *report.Form) error {
		f.Restart()
		return nil
	})
}

// readUpload reads the "file" part of a multipart request.
func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) (name, mimeType string, data []byte, err error) {
	limit := h.cfg.Reports.MaxAttachmentBytes
	r.Body = http.MaxBytesReader(w, r.Body, limit+(1<<20))
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", "", nil, fmt.Errorf("%w: limit is %d bytes", report.ErrAttachmentTooLarge, limit)
		}
		return "", "", nil, fmt.Errorf("%w: %v", rumor.ErrInvalidMedia, err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return "", "", nil, fmt.Errorf("%w: missing file part", rumor.ErrInvalidMedia)
	}
	defer file.Close()

	data, err = io.ReadAll(file)
	if err != nil {
		return "", "", nil, fmt.Errorf("%w: %v", rumor.ErrInvalidMedia, err)
	}

	mimeType = header.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}
	return header.Filename, mimeType, data, nil
}

// Rumor checker

type outcomeView struct {
	Source     models.CheckSource `json:"source"`
	DurationMs int64              `json:"duration_ms"`
}

type rumorView struct {
	Category   string                   `json:"category"`
	Categories []content.LocalOption    `json:"categories"`
	Loading    bool                     `json:"loading"`
	Result     *models.RumorCheckResult `json:"result"`
	Outcome    *outcomeView             `json:"outcome,omitempty"`
	Labels     map[string]string        `json:"labels"`
	Features   []string                 `json:"features"`
}

func renderRumor(c *rumor.Cycle, lang models.Language) rumorView {
	v := rumorView{
		Category:   c.Category(),
		Categories: content.Localize(rumor.Categories, lang),
		Loading:    c.Loading(),
		Result:     c.Result(),
		Labels:     content.RumorLabels.Localize(lang),
		Features:   content.PickAll(content.RumorFeatures, lang),
	}
	if last := c.Last(); last != nil && v.Result != nil {
		v.Outcome = &outcomeView{Source: last.Source, DurationMs: last.Duration.Milliseconds()}
	}
	return v
}

// GetRumor returns the rumor checker state.
func (h *Handler) GetRumor(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)
	writeJSON(w, http.StatusOK, renderRumor(s.Rumor, queryLanguage(r, s.State().Language)))
}

type rumorCheckRequest struct {
	Text     string `json:"text"`
	Category string `json:"category"`
	Media    *struct {
		Data     string `json:"data"`
		MIMEType string `json:"mime_type"`
	} `json:"media,omitempty"`
}

// CheckRumor runs a rumor check. The body is JSON, or multipart with text,
// category and an optional file part.
func (h *Handler) CheckRumor(w http.ResponseWriter, r *http.Request) {
	req, err := h.readRumorRequest(w, r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	s := sessionFrom(r)
	// A started check always runs to completion.
	ctx := context.WithoutCancel(r.Context())
	if _, err := s.Rumor.Check(ctx, req); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, renderRumor(s.Rumor, queryLanguage(r, s.State().Language)))
}

func (h *Handler) readRumorRequest(w http.ResponseWriter, r *http.Request) (models.RumorCheckRequest, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		req := models.RumorCheckRequest{}
		name, mimeType, data, err := h.readUpload(w, r)
		switch {
		case err == nil:
			if !report.IsSupportedMedia(mimeType) {
				return req, fmt.Errorf("%w: %q (%s)", report.ErrUnsupportedMedia, mimeType, name)
			}
			req.Media = rumor.EncodeMedia(data, mimeType)
		case r.MultipartForm == nil:
			return req, err
		}
		req.Text = r.FormValue("text")
		req.Category = r.FormValue("category")
		return req, nil
	}

	var body rumorCheckRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 2*h.cfg.Reports.MaxAttachmentBytes)).Decode(&body); err != nil {
		return models.RumorCheckRequest{}, fmt.Errorf("%w: invalid request body", rumor.ErrInvalidMedia)
	}
	req := models.RumorCheckRequest{Text: body.Text, Category: body.Category}
	if body.Media != nil {
		media, err := rumor.MediaFromDataURL(body.Media.Data, body.Media.MIMEType)
		if err != nil {
			return req, err
		}
		req.Media = media
	}
	return req, nil
}

// Journey

func (h *Handler) withJourney(w http.ResponseWriter, r *http.Request, fn func(v *journey.View, lang models.Language) (any, error)) {
	s := sessionFrom(r)
	lang := queryLanguage(r, s.State().Language)

	var out any
	err := s.Do(func() error {
		var err error
		out, err = fn(s.Journey, lang)
		return err
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// GetJourney returns the voter journey page.
func (h *Handler) GetJourney(w http.ResponseWriter, r *http.Request) {
	h.withJourney(w, r, func(v *journey.View, lang models.Language) (any, error) {
		return v.Render(lang), nil
	})
}

// SetJourneySegment selects the audience segment.
func (h *Handler) SetJourneySegment(w http.ResponseWriter, r *http.Request) {
	value, err := decodeValue(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	h.withJourney(w, r, func(v *journey.View, lang models.Language) (any, error) {
		if err := v.SetSegment(journey.Segment(value)); err != nil {
			return nil, err
		}
		return v.Render(lang), nil
	})
}

// SetJourneyStep highlights a step.
func (h *Handler) SetJourneyStep(w http.ResponseWriter, r *http.Request) {
	value, err := decodeValue(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	step, err := strconv.Atoi(value)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Step must be a number")
		return
	}
	h.withJourney(w, r, func(v *journey.View, lang models.Language) (any, error) {
		if err := v.SetStep(step); err != nil {
			return nil, err
		}
		return v.Render(lang), nil
	})
}

// NextJourneyStep advances to the next step.
func (h *Handler) NextJourneyStep(w http.ResponseWriter, r *http.Request) {
	h.withJourney(w, r, func(v *journey.View, lang models.Language) (any, error) {
		v.Next()
		return v.Render(lang), nil
	})
}

// ToggleSpeech starts or stops reading a step or tip. The client reports
// ?supported=false when it cannot synthesize speech.
func (h *Handler) ToggleSpeech(w http.ResponseWriter, r *http.Request) {
	step, err := strconv.Atoi(chi.URLParam(r, "step"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Step must be a number")
		return
	}
	kind := chi.URLParam(r, "kind")
	supported := r.URL.Query().Get("supported") != "false"

	h.withJourney(w, r, func(v *journey.View, lang models.Language) (any, error) {
		v.SetSpeechSupported(supported)
		switch kind {
		case "content":
			return v.ToggleContent(step)
		case "tip":
			return v.ToggleTip(step, lang)
		default:
			return nil, fmt.Errorf("%w: speech kind %q", journey.ErrUnknownStep, kind)
		}
	})
}

// SpeechEnded reports that playback of a slot finished.
func (h *Handler) SpeechEnded(w http.ResponseWriter, r *http.Request) {
	var slot journey.Slot
	if err := json.NewDecoder(r.Body).Decode(&slot); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	h.withJourney(w, r, func(v *journey.View, lang models.Language) (any, error) {
		cleared := v.Ended(slot)
		return map[string]interface{}{
			"cleared": cleared,
			"slot":    v.Slot(),
		}, nil
	})
}
