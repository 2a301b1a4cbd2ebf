package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	apperrors "github.com/abrezinsky/eurovote/internal/errors"
	"github.com/abrezinsky/eurovote/internal/logger"
	"github.com/abrezinsky/eurovote/internal/models"
	"github.com/abrezinsky/eurovote/internal/repository"
	"github.com/abrezinsky/eurovote/internal/scoring"
)

// MaxTeamNameLength is the longest team name accepted, in characters
const MaxTeamNameLength = 50

// TeamServiceRepository defines the repository methods needed by TeamService
type TeamServiceRepository interface {
	repository.TeamRepository
	NationExists(ctx context.Context, id int) (bool, error)
}

// TeamService handles team-related business logic
type TeamService struct {
	broadcasting
	log  logger.Logger
	repo TeamServiceRepository
}

// NewTeamService creates a new TeamService
func NewTeamService(log logger.Logger, repo TeamServiceRepository) *TeamService {
	return &TeamService{log: log, repo: repo}
}

// TeamInput is the user-editable part of a team
type TeamInput struct {
	Name string `json:"name"`
	models.Picks
}

// validate checks the name and that every pick references an existing nation
func (s *TeamService) validate(ctx context.Context, in *TeamInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return apperrors.Validation("team name is required")
	}
	if utf8.RuneCountInString(in.Name) > MaxTeamNameLength {
		return apperrors.Validationf("team name cannot exceed %d characters", MaxTeamNameLength)
	}

	if len(in.Founders) != scoring.MaxFounders {
		return apperrors.Validationf("exactly %d founder nations are required", scoring.MaxFounders)
	}
	seen := make(map[int]bool, len(in.Founders))
	for _, id := range in.Founders {
		if seen[id] {
			return apperrors.Validation("founder nations must be distinct")
		}
		seen[id] = true
		if err := s.requireNation(ctx, "founder", id); err != nil {
			return err
		}
	}

	for _, c := range scoring.PickCategories {
		if id := c.Pick(in.Picks); id != nil {
			if err := s.requireNation(ctx, string(c), *id); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *TeamService) requireNation(ctx context.Context, slot string, id int) error {
	exists, err := s.repo.NationExists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.Validationf("%s pick references unknown nation %d", slot, id)
	}
	return nil
}

// samePredictions reports whether two pick sets carry the same winner predictions
func samePredictions(a, b models.Picks) bool {
	return sameRank(a.FinalWinner, b.FinalWinner) &&
		sameRank(a.JuryWinner, b.JuryWinner) &&
		sameRank(a.TelevoteWinner, b.TelevoteWinner)
}

// CreateTeam creates the calling user's team
func (s *TeamService) CreateTeam(ctx context.Context, flags models.FeatureFlags, userID string, in TeamInput) (*models.Team, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrMissingUserID
	}
	if flags.TeamsLocked {
		return nil, ErrTeamsLocked
	}
	if !flags.PredictionsEnabled && in.HasPredictions() {
		return nil, ErrPredictionsClosed
	}
	if err := s.validate(ctx, &in); err != nil {
		return nil, err
	}

	team := models.Team{
		ID:     uuid.NewString(),
		UserID: userID,
		Name:   in.Name,
		Picks:  in.Picks,
	}
	err := s.repo.CreateTeam(ctx, team)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, ErrTeamExists
	}
	if err != nil {
		return nil, err
	}

	s.log.Info("Team created", "team_id", team.ID, "user_id", userID, "name", team.Name)
	s.leaderboardChanged("teams")
	return s.GetTeam(ctx, team.ID)
}

// UpdateTeam replaces the name and picks of a team owned by userID
func (s *TeamService) UpdateTeam(ctx context.Context, flags models.FeatureFlags, userID, teamID string, in TeamInput) (*models.Team, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrMissingUserID
	}
	existing, err := s.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if existing.UserID != userID {
		return nil, ErrNotTeamOwner
	}
	if flags.TeamsLocked {
		return nil, ErrTeamsLocked
	}
	if !flags.PredictionsEnabled && !samePredictions(in.Picks, existing.Picks) {
		return nil, ErrPredictionsClosed
	}
	if err := s.validate(ctx, &in); err != nil {
		return nil, err
	}

	existing.Name = in.Name
	existing.Picks = in.Picks
	err = s.repo.UpdateTeam(ctx, *existing)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrTeamNotFound
	}
	if err != nil {
		return nil, err
	}

	s.log.Info("Team updated", "team_id", teamID, "user_id", userID)
	s.leaderboardChanged("teams")
	return s.GetTeam(ctx, teamID)
}

// GetTeam returns a team by ID
func (s *TeamService) GetTeam(ctx context.Context, id string) (*models.Team, error) {
	t, err := s.repo.GetTeam(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrTeamNotFound
	}
	return t, err
}

// GetUserTeam returns the team owned by a user
func (s *TeamService) GetUserTeam(ctx context.Context, userID string) (*models.Team, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrMissingUserID
	}
	t, err := s.repo.GetTeamByUser(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrTeamNotFound
	}
	return t, err
}

// ListTeams returns all teams
func (s *TeamService) ListTeams(ctx context.Context) ([]models.Team, error) {
	return s.repo.ListTeams(ctx)
}

// DeleteTeam removes a team
func (s *TeamService) DeleteTeam(ctx context.Context, id string) error {
	err := s.repo.DeleteTeam(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrTeamNotFound
	}
	if err != nil {
		return err
	}
	s.log.Info("Team deleted", "team_id", id)
	s.leaderboardChanged("teams")
	return nil
}
