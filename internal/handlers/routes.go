package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/abrezinsky/eurovote/internal/auth"
)

// conditionalHTTPLogger only logs HTTP requests when HTTP logging is enabled
func (h *Handlers) conditionalHTTPLogger(next http.Handler) http.Handler {
	logger := middleware.Logger(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Log != nil && h.Log.IsHTTPLoggingEnabled() {
			logger.ServeHTTP(w, r)
		} else {
			next.ServeHTTP(w, r)
		}
	})
}

// Router returns a configured chi router with all routes
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.conditionalHTTPLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RedirectSlashes)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", h.handleHealthz)
	if h.Hub != nil {
		r.Get("/ws", h.Hub.ServeWs)
	}

	// Public API
	r.Get("/api/nations", h.handleListNations)
	r.Get("/api/aggregates", h.handleListAggregates)
	r.Get("/api/settings", h.handleGetFlags)
	r.Get("/api/leaderboard", h.handleLeaderboard)
	r.Get("/api/teams/{id}", h.handleTeamDetail)

	// User API (identity from the gateway)
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireUser)
		r.Get("/api/votes/me", h.handleMyVotes)
		r.Put("/api/votes/{nationID}", h.handleSubmitVote)
		r.Get("/api/teams/me", h.handleMyTeam)
		r.Post("/api/teams", h.handleCreateTeam)
		r.Put("/api/teams/{id}", h.handleUpdateTeam)
	})

	// Auth routes (public)
	r.Post("/api/admin/login", h.handleLogin)
	r.Post("/api/admin/logout", h.handleLogout)

	// Admin API (protected)
	r.Group(func(r chi.Router) {
		r.Use(h.Auth.RequireAuthAPI)

		// Nations
		r.Get("/api/admin/nations", h.handleListNations)
		r.Post("/api/admin/nations", h.handleCreateNation)
		r.Post("/api/admin/nations/import", h.handleImportNations)
		r.Put("/api/admin/nations/{id}", h.handleUpdateNation)
		r.Delete("/api/admin/nations/{id}", h.handleDeleteNation)
		r.Put("/api/admin/nations/{id}/rankings", h.handleSetRankings)

		// Results feed
		r.Post("/api/admin/sync-results", h.handleSyncResults)
		r.Post("/api/admin/import-results", h.handleImportResults)

		// Teams
		r.Get("/api/admin/teams", h.handleListTeams)
		r.Delete("/api/admin/teams/{id}", h.handleDeleteTeam)

		// Settings & stats
		r.Get("/api/admin/settings", h.handleGetSettings)
		r.Put("/api/admin/settings", h.handleUpdateSettings)
		r.Get("/api/admin/stats", h.handleGetStats)
		r.Get("/api/admin/leaderboard", h.handleAdminLeaderboard)
		r.Get("/api/admin/share-qr", h.handleShareQR)

		// Database Management
		r.Post("/api/admin/reset", h.handleReset)
	})

	return r
}
