package services

import (
	"context"
	"strings"

	apperrors "github.com/abrezinsky/eurovote/internal/errors"
	"github.com/abrezinsky/eurovote/internal/logger"
	"github.com/abrezinsky/eurovote/internal/models"
	"github.com/abrezinsky/eurovote/internal/repository"
)

// Score bounds for a single category vote
const (
	MinScore = 1
	MaxScore = 10
)

// VotingServiceRepository defines the repository methods needed by VotingService
type VotingServiceRepository interface {
	repository.VoteRepository
	NationExists(ctx context.Context, id int) (bool, error)
}

// VotingService handles voting-related business logic
type VotingService struct {
	broadcasting
	log  logger.Logger
	repo VotingServiceRepository
}

// NewVotingService creates a new VotingService
func NewVotingService(log logger.Logger, repo VotingServiceRepository) *VotingService {
	return &VotingService{log: log, repo: repo}
}

// ValidateScores checks every score is within [MinScore, MaxScore]
func ValidateScores(s models.Scores) error {
	fields := []struct {
		name  string
		value int
	}{
		{"song", s.Song},
		{"performance", s.Performance},
		{"outfit", s.Outfit},
	}
	for _, f := range fields {
		if f.value < MinScore || f.value > MaxScore {
			return apperrors.Validationf("%s score must be between %d and %d", f.name, MinScore, MaxScore)
		}
	}
	return nil
}

// SubmitVote records or replaces a user's scores for a nation
func (s *VotingService) SubmitVote(ctx context.Context, flags models.FeatureFlags, userID string, nationID int, scores models.Scores) (*models.CategoryVote, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrMissingUserID
	}
	if !flags.VotingOpen {
		return nil, ErrVotingClosed
	}
	if err := ValidateScores(scores); err != nil {
		return nil, err
	}

	exists, err := s.repo.NationExists(ctx, nationID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNationNotFound
	}

	vote := models.CategoryVote{UserID: userID, NationID: nationID, Scores: scores}
	if err := s.repo.SaveVote(ctx, vote); err != nil {
		return nil, err
	}

	s.log.Debug("Vote saved", "user_id", userID, "nation_id", nationID,
		"song", scores.Song, "performance", scores.Performance, "outfit", scores.Outfit)
	s.leaderboardChanged("votes")
	return &vote, nil
}

// GetUserVotes returns all votes cast by a user
func (s *VotingService) GetUserVotes(ctx context.Context, userID string) ([]models.CategoryVote, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrMissingUserID
	}
	return s.repo.GetUserVotes(ctx, userID)
}

// ListAggregates returns the mean scores per nation
func (s *VotingService) ListAggregates(ctx context.Context) ([]models.NationAggregate, error) {
	return s.repo.ListVoteAggregates(ctx)
}
