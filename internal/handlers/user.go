package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/abrezinsky/eurovote/internal/auth"
	"github.com/abrezinsky/eurovote/internal/models"
	"github.com/abrezinsky/eurovote/internal/services"
)

func (h *Handlers) handleMyVotes(w http.ResponseWriter, r *http.Request) {
	votes, err := h.Voting.GetUserVotes(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	if votes == nil {
		votes = []models.CategoryVote{}
	}
	respondOK(w, VotesResponse{Votes: votes})
}

// handleSubmitVote creates or replaces the caller's vote for a nation
func (h *Handlers) handleSubmitVote(w http.ResponseWriter, r *http.Request) {
	nationID, err := parseIntParam(r, "nationID")
	if err != nil {
		respondError(w, err)
		return
	}

	var scores models.Scores
	if err := decodeJSON(r, &scores); err != nil {
		respondError(w, err)
		return
	}

	flags, err := h.flags(r)
	if err != nil {
		respondError(w, err)
		return
	}

	vote, err := h.Voting.SubmitVote(r.Context(), flags, auth.UserID(r.Context()), nationID, scores)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, vote)
}

func (h *Handlers) handleMyTeam(w http.ResponseWriter, r *http.Request) {
	team, err := h.Teams.GetUserTeam(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, team)
}

func (h *Handlers) handleCreateTeam(w http.ResponseWriter, r *http.Request) {
	var in services.TeamInput
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, err)
		return
	}

	flags, err := h.flags(r)
	if err != nil {
		respondError(w, err)
		return
	}

	team, err := h.Teams.CreateTeam(r.Context(), flags, auth.UserID(r.Context()), in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, team)
}

func (h *Handlers) handleUpdateTeam(w http.ResponseWriter, r *http.Request) {
	var in services.TeamInput
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, err)
		return
	}

	flags, err := h.flags(r)
	if err != nil {
		respondError(w, err)
		return
	}

	team, err := h.Teams.UpdateTeam(r.Context(), flags, auth.UserID(r.Context()), chi.URLParam(r, "id"), in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, team)
}
