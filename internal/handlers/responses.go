package handlers

import "github.com/abrezinsky/eurovote/internal/models"

// HealthResponse is the response for the health check
type HealthResponse struct {
	Status string `json:"status"`
}

// VotesResponse is the response listing a user's votes
type VotesResponse struct {
	Votes []models.CategoryVote `json:"votes"`
}
