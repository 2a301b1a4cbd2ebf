package handlers

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/abrezinsky/eurovote/internal/auth"
	"github.com/abrezinsky/eurovote/internal/models"
	"github.com/abrezinsky/eurovote/internal/services"
)

// ==================== Auth ====================

func (h *Handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	token, ok := h.Auth.Login(req.Password)
	if !ok {
		respondError(w, Unauthorized("Invalid password"))
		return
	}

	auth.SetSessionCookie(w, token)
	respondSuccess(w, "Logged in")
}

func (h *Handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.CookieName); err == nil {
		h.Auth.Logout(cookie.Value)
	}

	auth.ClearSessionCookie(w)
	respondSuccess(w, "Logged out")
}

// ==================== Nations ====================

func (h *Handlers) handleCreateNation(w http.ResponseWriter, r *http.Request) {
	var req NationRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	id, err := h.Nations.CreateNation(r.Context(), req.nation(0))
	if err != nil {
		respondError(w, err)
		return
	}

	nation, err := h.Nations.GetNation(r.Context(), int(id))
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, nation)
}

func (h *Handlers) handleUpdateNation(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req NationRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if err := h.Nations.UpdateNation(r.Context(), req.nation(id)); err != nil {
		respondError(w, err)
		return
	}

	nation, err := h.Nations.GetNation(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, nation)
}

func (h *Handlers) handleDeleteNation(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.Nations.DeleteNation(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondDeleted(w)
}

func (h *Handlers) handleSetRankings(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var rankings models.Rankings
	if err := decodeJSON(r, &rankings); err != nil {
		respondError(w, err)
		return
	}

	if err := h.Nations.SetRankings(r.Context(), id, rankings); err != nil {
		respondError(w, err)
		return
	}

	nation, err := h.Nations.GetNation(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, nation)
}

// handleImportNations loads nations from a YAML document in the request body
func (h *Handlers) handleImportNations(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxImportSize))
	if err != nil {
		respondError(w, BadRequest("Failed to read request body"))
		return
	}

	result, err := h.Nations.ImportNations(r.Context(), data)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, result)
}

// ==================== Results feed ====================

func (h *Handlers) handleSyncResults(w http.ResponseWriter, r *http.Request) {
	var req ResultsFeedRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	result, err := h.Nations.SyncFromFeed(r.Context(), req.URL)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, result)
}

func (h *Handlers) handleImportResults(w http.ResponseWriter, r *http.Request) {
	var req ResultsFeedRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	result, err := h.Nations.ImportFromFeed(r.Context(), req.URL)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, result)
}

// ==================== Teams ====================

func (h *Handlers) handleListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.Teams.ListTeams(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, teams)
}

func (h *Handlers) handleDeleteTeam(w http.ResponseWriter, r *http.Request) {
	if err := h.Teams.DeleteTeam(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	respondDeleted(w)
}

// ==================== Settings ====================

func (h *Handlers) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Settings.AllSettings(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, settings)
}

func (h *Handlers) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req services.Settings
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if err := h.Settings.UpdateSettings(r.Context(), req); err != nil {
		respondError(w, err)
		return
	}

	h.handleGetSettings(w, r)
}

func (h *Handlers) handleGetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Settings.GetStats(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, stats)
}

// handleAdminLeaderboard always computes the leaderboard, ignoring the lock
func (h *Handlers) handleAdminLeaderboard(w http.ResponseWriter, r *http.Request) {
	result, err := h.Leaderboard.Compute(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, result)
}

func (h *Handlers) handleShareQR(w http.ResponseWriter, r *http.Request) {
	png, err := h.Settings.ShareQR(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondPNG(w, png)
}

// ==================== Database Management ====================

func (h *Handlers) handleReset(w http.ResponseWriter, r *http.Request) {
	var req DatabaseResetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	result, err := h.Settings.ResetTables(r.Context(), req.Tables)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, result)
}
