package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handlers) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if h.Health != nil {
		if err := h.Health.Ping(r.Context()); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
			return
		}
	}
	respondOK(w, HealthResponse{Status: "ok"})
}

func (h *Handlers) handleListNations(w http.ResponseWriter, r *http.Request) {
	nations, err := h.Nations.ListNations(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, nations)
}

func (h *Handlers) handleListAggregates(w http.ResponseWriter, r *http.Request) {
	aggregates, err := h.Voting.ListAggregates(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, aggregates)
}

// handleGetFlags returns the public feature flags
func (h *Handlers) handleGetFlags(w http.ResponseWriter, r *http.Request) {
	flags, err := h.flags(r)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, flags)
}

// handleLeaderboard returns the scored leaderboard. Admins can see it while
// it is locked.
func (h *Handlers) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	flags, err := h.flags(r)
	if err != nil {
		respondError(w, err)
		return
	}

	result, err := h.Leaderboard.Leaderboard(r.Context(), flags, h.Auth.IsAdmin(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, result)
}

func (h *Handlers) handleTeamDetail(w http.ResponseWriter, r *http.Request) {
	flags, err := h.flags(r)
	if err != nil {
		respondError(w, err)
		return
	}

	team, err := h.Leaderboard.TeamDetail(r.Context(), flags, h.Auth.IsAdmin(r), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, team)
}
