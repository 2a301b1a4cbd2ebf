package handlers

import "github.com/abrezinsky/eurovote/internal/models"

// LoginRequest represents an admin login
type LoginRequest struct {
	Password string `json:"password"`
}

// NationRequest represents a request to create or update a nation
type NationRequest struct {
	Name         string `json:"name"`
	CountryCode  string `json:"country_code"`
	Artist       string `json:"artist"`
	Song         string `json:"song"`
	RunningOrder int    `json:"running_order"`
}

func (req NationRequest) nation(id int) models.Nation {
	return models.Nation{
		ID:           id,
		Name:         req.Name,
		CountryCode:  req.CountryCode,
		Artist:       req.Artist,
		Song:         req.Song,
		RunningOrder: req.RunningOrder,
	}
}

// ResultsFeedRequest selects the results feed to read. An empty URL uses
// the saved one.
type ResultsFeedRequest struct {
	URL string `json:"url"`
}

// DatabaseResetRequest represents a request to reset database tables
type DatabaseResetRequest struct {
	Tables []string `json:"tables"`
}
