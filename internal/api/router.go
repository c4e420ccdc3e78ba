package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/techvote/techvote/internal/config"
	"github.com/techvote/techvote/internal/database"
)

// NewRouter creates a new HTTP router with all routes configured.
func NewRouter(cfg *config.Config, handler *Handler, store database.Store) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", handler.HealthCheck)

		r.Group(func(r chi.Router) {
			r.Use(AuditMiddleware(store))
			r.Use(RateLimitMiddleware(cfg.RateLimits.RequestsPerMinute))

			// Location hierarchy
			r.Get("/locations", handler.ListDivisions)
			r.Get("/locations/{division}", handler.ListDistricts)
			r.Get("/locations/{division}/{district}", handler.ListSeats)

			r.Get("/content/{page}", handler.GetContent)
			r.Get("/previews/{id}", handler.GetPreview)

			r.Post("/sessions", handler.CreateSession)
			r.Route("/sessions/{sid}", func(r chi.Router) {
				r.Use(handler.SessionMiddleware)

				r.Get("/", handler.GetSession)
				r.Delete("/", handler.DeleteSession)
				r.Put("/language", handler.SetLanguage)
				r.Put("/view", handler.Navigate)

				r.Get("/report", handler.GetReport)
				r.Put("/report/{field}", handler.SetReportField)
				r.Post("/report/attachment", handler.AttachReportFile)
				r.Delete("/report/attachment", handler.ClearReportFile)
				r.Post("/report/submit", handler.SubmitReport)
				r.Post("/report/restart", handler.RestartReport)

				r.Get("/rumor", handler.GetRumor)
				r.Post("/rumor/check", handler.CheckRumor)

				r.Get("/journey", handler.GetJourney)
				r.Put("/journey/segment", handler.SetJourneySegment)
				r.Put("/journey/step", handler.SetJourneyStep)
				r.Post("/journey/next", handler.NextJourneyStep)
				r.Post("/journey/speech/ended", handler.SpeechEnded)
				r.Post("/journey/speech/{kind}/{step}", handler.ToggleSpeech)
			})

			// History is only available with a database.
			if store != nil {
				r.Get("/checks", handler.ListChecks)
				r.Get("/audit", handler.GetAuditLogs)
			}
		})
	})

	if cfg.Server.EnableUI {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte(indexPage))
		})
	}

	return r
}

const indexPage = `<!DOCTYPE html>
<html>
<head>
    <title>TechVote - Bangladesh Election 2026</title>
    <style>
        body { font-family: system-ui, sans-serif; max-width: 800px; margin: 50px auto; padding: 20px; }
        h1 { color: #006a4e; }
        code { background: #f1f5f9; padding: 2px 6px; border-radius: 4px; }
        .endpoint { margin: 10px 0; }
    </style>
</head>
<body>
    <h1>TechVote API</h1>
    <p>Civic information service for the Bangladesh national election. Start a session, then use the session endpoints below.</p>

    <h2>Endpoints</h2>
    <div class="endpoint"><code>GET /api/v1/health</code> - Health check</div>
    <div class="endpoint"><code>GET /api/v1/locations</code> - Divisions, districts and seats</div>
    <div class="endpoint"><code>GET /api/v1/content/{home|safe-space|navigation}?lang=bn</code> - Static pages</div>
    <div class="endpoint"><code>POST /api/v1/sessions</code> - Start a session</div>
    <div class="endpoint"><code>PUT /api/v1/sessions/{sid}/report/{field}</code> - Fill the anonymous report</div>
    <div class="endpoint"><code>POST /api/v1/sessions/{sid}/report/submit</code> - Submit the report</div>
    <div class="endpoint"><code>POST /api/v1/sessions/{sid}/rumor/check</code> - Check a rumor</div>
    <div class="endpoint"><code>GET /api/v1/sessions/{sid}/journey</code> - Voter journey guide</div>
</body>
</html>`
