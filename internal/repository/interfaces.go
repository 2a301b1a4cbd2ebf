package repository

import (
	"context"

	"github.com/abrezinsky/eurovote/internal/models"
)

// NationRepository defines nation data operations
type NationRepository interface {
	ListNations(ctx context.Context) ([]models.Nation, error)
	GetNation(ctx context.Context, id int) (*models.Nation, error)
	NationExists(ctx context.Context, id int) (bool, error)
	CreateNation(ctx context.Context, n models.Nation) (int64, error)
	UpdateNation(ctx context.Context, n models.Nation) error
	SetNationRankings(ctx context.Context, id int, rankings models.Rankings) error
	UpsertNationByCode(ctx context.Context, n models.Nation) (created bool, err error)
	DeleteNation(ctx context.Context, id int) error
}

// VoteRepository defines vote data operations
type VoteRepository interface {
	SaveVote(ctx context.Context, v models.CategoryVote) error
	GetUserVotes(ctx context.Context, userID string) ([]models.CategoryVote, error)
	ListVoteAggregates(ctx context.Context) ([]models.NationAggregate, error)
}

// TeamRepository defines team data operations
type TeamRepository interface {
	CreateTeam(ctx context.Context, t models.Team) error
	UpdateTeam(ctx context.Context, t models.Team) error
	GetTeam(ctx context.Context, id string) (*models.Team, error)
	GetTeamByUser(ctx context.Context, userID string) (*models.Team, error)
	ListTeams(ctx context.Context) ([]models.Team, error)
	DeleteTeam(ctx context.Context, id string) error
}

// SettingsRepository defines settings data operations
type SettingsRepository interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	GetStats(ctx context.Context) (Stats, error)
	ClearTable(ctx context.Context, table string) error
}

// FullRepository combines all repository interfaces
// Use this when a service needs access to multiple domains
type FullRepository interface {
	NationRepository
	VoteRepository
	TeamRepository
	SettingsRepository
}

// Ensure Repository implements all interfaces
var _ FullRepository = (*Repository)(nil)
