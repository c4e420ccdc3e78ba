// Package api provides HTTP API handlers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/techvote/techvote/internal/config"
	"github.com/techvote/techvote/internal/content"
	"github.com/techvote/techvote/internal/database"
	"github.com/techvote/techvote/internal/geo"
	"github.com/techvote/techvote/internal/journey"
	"github.com/techvote/techvote/internal/models"
	"github.com/techvote/techvote/internal/preview"
	"github.com/techvote/techvote/internal/report"
	"github.com/techvote/techvote/internal/rumor"
	"github.com/techvote/techvote/internal/session"
)

// PreviewPath is the URL prefix preview handles are served under.
const PreviewPath = "/api/v1/previews"

// Handler contains all HTTP handlers.
type Handler struct {
	cfg       *config.Config
	sessions  *session.Store
	hierarchy *geo.Hierarchy
	previews  *preview.Registry
	checker   *rumor.Checker
	store     database.Store
	version   string
}

// NewHandler creates a new handler. store may be nil.
func NewHandler(cfg *config.Config, sessions *session.Store, hierarchy *geo.Hierarchy,
	previews *preview.Registry, checker *rumor.Checker, store database.Store, version string) *Handler {
	return &Handler{
		cfg:       cfg,
		sessions:  sessions,
		hierarchy: hierarchy,
		previews:  previews,
		checker:   checker,
		store:     store,
		version:   version,
	}
}

// HealthCheck returns the service health status.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	mode := "fallback"
	if h.checker.Remote() {
		mode = "remote"
	}
	response := map[string]interface{}{
		"status":          "healthy",
		"version":         h.version,
		"rumor_check":     mode,
		"active_sessions": h.sessions.Len(),
		"live_previews":   h.previews.Live(),
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
	}
	writeJSON(w, http.StatusOK, response)
}

// ListDivisions returns the divisions in table order.
func (h *Handler) ListDivisions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"divisions": h.hierarchy.Divisions(),
		"seats":     h.hierarchy.SeatCount(),
	})
}

// ListDistricts returns the districts of a division.
func (h *Handler) ListDistricts(w http.ResponseWriter, r *http.Request) {
	division := chi.URLParam(r, "division")
	if !h.hierarchy.IsValidDivision(division) {
		writeError(w, http.StatusNotFound, "Unknown division")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"division":  division,
		"districts": h.hierarchy.Districts(division),
	})
}

// ListSeats returns the seats of a district.
func (h *Handler) ListSeats(w http.ResponseWriter, r *http.Request) {
	division := chi.URLParam(r, "division")
	district := chi.URLParam(r, "district")
	if !h.hierarchy.IsValidDistrict(division, district) {
		writeError(w, http.StatusNotFound, "Unknown district")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"division": division,
		"district": district,
		"seats":    h.hierarchy.Seats(division, district),
	})
}

// GetContent returns a static page in the requested language.
func (h *Handler) GetContent(w http.ResponseWriter, r *http.Request) {
	lang := queryLanguage(r, models.LanguageEnglish)

	switch chi.URLParam(r, "page") {
	case "home":
		writeJSON(w, http.StatusOK, content.Home(lang))
	case "safe-space":
		writeJSON(w, http.StatusOK, content.SafeSpace(lang))
	case "navigation":
		items, toggle := content.Navigation(lang)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"items":  items,
			"toggle": toggle,
		})
	default:
		writeError(w, http.StatusNotFound, "Unknown page")
	}
}

// GetPreview streams the media behind a live preview handle.
func (h *Handler) GetPreview(w http.ResponseWriter, r *http.Request) {
	obj, err := h.previews.Open(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.Header().Set("Content-Type", obj.MIMEType)
	w.Header().Set("Content-Length", strconv.Itoa(len(obj.Data)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(obj.Data)
}

// ListChecks returns paginated rumor-check history.
func (h *Handler) ListChecks(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r, 20)

	records, err := h.store.ListChecks(r.Context(), limit, offset)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list checks")
		writeError(w, http.StatusInternalServerError, "Failed to list checks")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"checks": records,
		"limit":  limit,
		"offset": offset,
	})
}

// GetAuditLogs returns paginated audit logs.
func (h *Handler) GetAuditLogs(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r, 50)

	logs, err := h.store.GetAuditLogs(r.Context(), limit, offset)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get audit logs")
		writeError(w, http.StatusInternalServerError, "Failed to get audit logs")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"logs":   logs,
		"limit":  limit,
		"offset": offset,
	})
}

// Helper functions
func pagination(r *http.Request, def int) (limit, offset int) {
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = def
	}

	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func queryLanguage(r *http.Request, def models.Language) models.Language {
	if lang := models.Language(r.URL.Query().Get("lang")); lang.Valid() {
		return lang
	}
	return def
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeDomainError maps package errors to HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	var missing *report.MissingFieldsError
	switch {
	case errors.As(err, &missing):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":  err.Error(),
			"fields": missing.Fields,
		})
	case errors.Is(err, report.ErrInconsistentLocation):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, report.ErrAlreadySubmitted), errors.Is(err, rumor.ErrBusy):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, report.ErrUnsupportedMedia):
		writeError(w, http.StatusUnsupportedMediaType, err.Error())
	case errors.Is(err, report.ErrAttachmentTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, report.ErrUnknownOption),
		errors.Is(err, rumor.ErrNothingToCheck),
		errors.Is(err, rumor.ErrInvalidMedia),
		errors.Is(err, journey.ErrUnknownStep),
		errors.Is(err, journey.ErrUnknownSegment),
		errors.Is(err, session.ErrUnknownLanguage),
		errors.Is(err, session.ErrUnknownView):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, session.ErrNotFound), errors.Is(err, preview.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		log.Error().Err(err).Msg("Request failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
