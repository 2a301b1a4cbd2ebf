package mock

import (
	"context"

	"github.com/abrezinsky/eurovote/internal/models"
	"github.com/abrezinsky/eurovote/internal/repository"
)

// Repository wraps a real repository and allows injecting errors for testing.
//
// Usage:
//
//	realRepo := testutil.NewTestRepository(t)
//	mockRepo := mock.NewRepository(realRepo)
//	mockRepo.ListTeamsError = errors.New("database error")
//	svc := services.NewLeaderboardService(log, mockRepo, engine)
//	_, err := svc.Leaderboard(ctx, flags, false)
//	// err will now contain the injected error
type Repository struct {
	repository.FullRepository

	// ===== Nation Errors =====
	ListNationsError        error
	GetNationError          error
	NationExistsError       error
	CreateNationError       error
	UpdateNationError       error
	SetNationRankingsError  error
	UpsertNationByCodeError error
	DeleteNationError       error

	// ===== Vote Errors =====
	SaveVoteError           error
	GetUserVotesError       error
	ListVoteAggregatesError error

	// ===== Team Errors =====
	CreateTeamError    error
	UpdateTeamError    error
	GetTeamError       error
	GetTeamByUserError error
	ListTeamsError     error
	DeleteTeamError    error

	// ===== Settings Errors =====
	GetSettingError error
	SetSettingError error
	GetStatsError   error
	ClearTableError error
}

// NewRepository creates a mock repository wrapping a real one
func NewRepository(real repository.FullRepository) *Repository {
	return &Repository{
		FullRepository: real,
	}
}

// ===== Nation Methods =====

func (m *Repository) ListNations(ctx context.Context) ([]models.Nation, error) {
	if m.ListNationsError != nil {
		return nil, m.ListNationsError
	}
	return m.FullRepository.ListNations(ctx)
}

func (m *Repository) GetNation(ctx context.Context, id int) (*models.Nation, error) {
	if m.GetNationError != nil {
		return nil, m.GetNationError
	}
	return m.FullRepository.GetNation(ctx, id)
}

func (m *Repository) NationExists(ctx context.Context, id int) (bool, error) {
	if m.NationExistsError != nil {
		return false, m.NationExistsError
	}
	return m.FullRepository.NationExists(ctx, id)
}

func (m *Repository) CreateNation(ctx context.Context, n models.Nation) (int64, error) {
	if m.CreateNationError != nil {
		return 0, m.CreateNationError
	}
	return m.FullRepository.CreateNation(ctx, n)
}

func (m *Repository) UpdateNation(ctx context.Context, n models.Nation) error {
	if m.UpdateNationError != nil {
		return m.UpdateNationError
	}
	return m.FullRepository.UpdateNation(ctx, n)
}

func (m *Repository) SetNationRankings(ctx context.Context, id int, rankings models.Rankings) error {
	if m.SetNationRankingsError != nil {
		return m.SetNationRankingsError
	}
	return m.FullRepository.SetNationRankings(ctx, id, rankings)
}

func (m *Repository) UpsertNationByCode(ctx context.Context, n models.Nation) (bool, error) {
	if m.UpsertNationByCodeError != nil {
		return false, m.UpsertNationByCodeError
	}
	return m.FullRepository.UpsertNationByCode(ctx, n)
}

func (m *Repository) DeleteNation(ctx context.Context, id int) error {
	if m.DeleteNationError != nil {
		return m.DeleteNationError
	}
	return m.FullRepository.DeleteNation(ctx, id)
}

// ===== Vote Methods =====

func (m *Repository) SaveVote(ctx context.Context, v models.CategoryVote) error {
	if m.SaveVoteError != nil {
		return m.SaveVoteError
	}
	return m.FullRepository.SaveVote(ctx, v)
}

func (m *Repository) GetUserVotes(ctx context.Context, userID string) ([]models.CategoryVote, error) {
	if m.GetUserVotesError != nil {
		return nil, m.GetUserVotesError
	}
	return m.FullRepository.GetUserVotes(ctx, userID)
}

func (m *Repository) ListVoteAggregates(ctx context.Context) ([]models.NationAggregate, error) {
	if m.ListVoteAggregatesError != nil {
		return nil, m.ListVoteAggregatesError
	}
	return m.FullRepository.ListVoteAggregates(ctx)
}

// ===== Team Methods =====

func (m *Repository) CreateTeam(ctx context.Context, t models.Team) error {
	if m.CreateTeamError != nil {
		return m.CreateTeamError
	}
	return m.FullRepository.CreateTeam(ctx, t)
}

func (m *Repository) UpdateTeam(ctx context.Context, t models.Team) error {
	if m.UpdateTeamError != nil {
		return m.UpdateTeamError
	}
	return m.FullRepository.UpdateTeam(ctx, t)
}

func (m *Repository) GetTeam(ctx context.Context, id string) (*models.Team, error) {
	if m.GetTeamError != nil {
		return nil, m.GetTeamError
	}
	return m.FullRepository.GetTeam(ctx, id)
}

func (m *Repository) GetTeamByUser(ctx context.Context, userID string) (*models.Team, error) {
	if m.GetTeamByUserError != nil {
		return nil, m.GetTeamByUserError
	}
	return m.FullRepository.GetTeamByUser(ctx, userID)
}

func (m *Repository) ListTeams(ctx context.Context) ([]models.Team, error) {
	if m.ListTeamsError != nil {
		return nil, m.ListTeamsError
	}
	return m.FullRepository.ListTeams(ctx)
}

func (m *Repository) DeleteTeam(ctx context.Context, id string) error {
	if m.DeleteTeamError != nil {
		return m.DeleteTeamError
	}
	return m.FullRepository.DeleteTeam(ctx, id)
}

// ===== Settings Methods =====

func (m *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	if m.GetSettingError != nil {
		return "", m.GetSettingError
	}
	return m.FullRepository.GetSetting(ctx, key)
}

func (m *Repository) SetSetting(ctx context.Context, key, value string) error {
	if m.SetSettingError != nil {
		return m.SetSettingError
	}
	return m.FullRepository.SetSetting(ctx, key, value)
}

func (m *Repository) GetStats(ctx context.Context) (repository.Stats, error) {
	if m.GetStatsError != nil {
		return repository.Stats{}, m.GetStatsError
	}
	return m.FullRepository.GetStats(ctx)
}

func (m *Repository) ClearTable(ctx context.Context, table string) error {
	if m.ClearTableError != nil {
		return m.ClearTableError
	}
	return m.FullRepository.ClearTable(ctx, table)
}
