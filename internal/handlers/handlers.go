package handlers

import (
	"context"
	"net/http"

	"github.com/abrezinsky/eurovote/internal/auth"
	"github.com/abrezinsky/eurovote/internal/models"
	"github.com/abrezinsky/eurovote/internal/services"
	"github.com/abrezinsky/eurovote/internal/websocket"
)

// Handlers holds all HTTP handler dependencies
type Handlers struct {
	Nations     services.NationServicer
	Voting      services.VotingServicer
	Teams       services.TeamServicer
	Settings    services.SettingsServicer
	Leaderboard services.LeaderboardServicer
	Auth        *auth.Auth
	Hub         *websocket.Hub
	Health      Pinger
	Log         HTTPLogger
}

// HTTPLogger is an interface for loggers that support HTTP logging control
type HTTPLogger interface {
	IsHTTPLoggingEnabled() bool
}

// Pinger reports whether the backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// New creates a new Handlers instance with all dependencies
func New(
	nations services.NationServicer,
	voting services.VotingServicer,
	teams services.TeamServicer,
	settings services.SettingsServicer,
	leaderboard services.LeaderboardServicer,
	adminAuth *auth.Auth,
	hub *websocket.Hub,
	health Pinger,
	log HTTPLogger,
) *Handlers {
	return &Handlers{
		Nations:     nations,
		Voting:      voting,
		Teams:       teams,
		Settings:    settings,
		Leaderboard: leaderboard,
		Auth:        adminAuth,
		Hub:         hub,
		Health:      health,
		Log:         log,
	}
}

// NoopHTTPLogger is a test logger that always returns false for HTTP logging
type NoopHTTPLogger struct{}

func (NoopHTTPLogger) IsHTTPLoggingEnabled() bool { return false }

// NewForTesting creates a Handlers instance with a known admin password
// ("test-password") and no websocket hub
func NewForTesting(
	nations services.NationServicer,
	voting services.VotingServicer,
	teams services.TeamServicer,
	settings services.SettingsServicer,
	leaderboard services.LeaderboardServicer,
) *Handlers {
	return &Handlers{
		Nations:     nations,
		Voting:      voting,
		Teams:       teams,
		Settings:    settings,
		Leaderboard: leaderboard,
		Auth:        auth.New("test-password"),
		Log:         NoopHTTPLogger{},
	}
}

// flags resolves the feature flags once for the current request
func (h *Handlers) flags(r *http.Request) (models.FeatureFlags, error) {
	return h.Settings.Flags(r.Context())
}
