package services

import (
	"context"

	"github.com/abrezinsky/eurovote/internal/models"
	"github.com/abrezinsky/eurovote/internal/repository"
	"github.com/abrezinsky/eurovote/internal/scoring"
)

// NationServicer defines the interface for nation operations
type NationServicer interface {
	ListNations(ctx context.Context) ([]models.Nation, error)
	GetNation(ctx context.Context, id int) (*models.Nation, error)
	CreateNation(ctx context.Context, n models.Nation) (int64, error)
	UpdateNation(ctx context.Context, n models.Nation) error
	DeleteNation(ctx context.Context, id int) error
	SetRankings(ctx context.Context, id int, rankings models.Rankings) error
	SyncFromFeed(ctx context.Context, url string) (*SyncResult, error)
	ImportFromFeed(ctx context.Context, url string) (*SyncResult, error)
	ImportNations(ctx context.Context, data []byte) (*ImportResult, error)
	SetBroadcaster(b Broadcaster)
}

// VotingServicer defines the interface for voting operations
type VotingServicer interface {
	SubmitVote(ctx context.Context, flags models.FeatureFlags, userID string, nationID int, scores models.Scores) (*models.CategoryVote, error)
	GetUserVotes(ctx context.Context, userID string) ([]models.CategoryVote, error)
	ListAggregates(ctx context.Context) ([]models.NationAggregate, error)
	SetBroadcaster(b Broadcaster)
}

// TeamServicer defines the interface for team operations
type TeamServicer interface {
	CreateTeam(ctx context.Context, flags models.FeatureFlags, userID string, in TeamInput) (*models.Team, error)
	UpdateTeam(ctx context.Context, flags models.FeatureFlags, userID, teamID string, in TeamInput) (*models.Team, error)
	GetTeam(ctx context.Context, id string) (*models.Team, error)
	GetUserTeam(ctx context.Context, userID string) (*models.Team, error)
	ListTeams(ctx context.Context) ([]models.Team, error)
	DeleteTeam(ctx context.Context, id string) error
	SetBroadcaster(b Broadcaster)
}

// SettingsServicer defines the interface for settings operations
type SettingsServicer interface {
	Flags(ctx context.Context) (models.FeatureFlags, error)
	UpdateFlags(ctx context.Context, update FlagsUpdate) (models.FeatureFlags, error)
	GetBaseURL(ctx context.Context) (string, error)
	SetBaseURL(ctx context.Context, url string) error
	GetResultsFeedURL(ctx context.Context) (string, error)
	SetResultsFeedURL(ctx context.Context, url string) error
	AllSettings(ctx context.Context) (map[string]interface{}, error)
	UpdateSettings(ctx context.Context, settings Settings) error
	ShareQR(ctx context.Context) ([]byte, error)
	GetStats(ctx context.Context) (repository.Stats, error)
	ResetTables(ctx context.Context, tables []string) (*ResetTablesResult, error)
	SetBroadcaster(b Broadcaster)
}

// LeaderboardServicer defines the interface for leaderboard operations
type LeaderboardServicer interface {
	Profile() scoring.Profile
	Compute(ctx context.Context) (*scoring.Result, error)
	Leaderboard(ctx context.Context, flags models.FeatureFlags, admin bool) (*scoring.Result, error)
	TeamDetail(ctx context.Context, flags models.FeatureFlags, admin bool, teamID string) (*scoring.ScoredTeam, error)
}

// Ensure services implement their interfaces
var (
	_ NationServicer      = (*NationService)(nil)
	_ VotingServicer      = (*VotingService)(nil)
	_ TeamServicer        = (*TeamService)(nil)
	_ SettingsServicer    = (*SettingsService)(nil)
	_ LeaderboardServicer = (*LeaderboardService)(nil)
)
