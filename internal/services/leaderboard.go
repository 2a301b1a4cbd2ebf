package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/abrezinsky/eurovote/internal/logger"
	"github.com/abrezinsky/eurovote/internal/models"
	"github.com/abrezinsky/eurovote/internal/scoring"
)

// LeaderboardServiceRepository defines the repository methods needed by LeaderboardService
type LeaderboardServiceRepository interface {
	ListNations(ctx context.Context) ([]models.Nation, error)
	ListVoteAggregates(ctx context.Context) ([]models.NationAggregate, error)
	ListTeams(ctx context.Context) ([]models.Team, error)
}

// LeaderboardService scores all teams with the configured profile
type LeaderboardService struct {
	log    logger.Logger
	repo   LeaderboardServiceRepository
	engine *scoring.Engine
}

// NewLeaderboardService creates a new LeaderboardService
func NewLeaderboardService(log logger.Logger, repo LeaderboardServiceRepository, engine *scoring.Engine) *LeaderboardService {
	return &LeaderboardService{log: log, repo: repo, engine: engine}
}

// Profile returns the scoring profile in use
func (s *LeaderboardService) Profile() scoring.Profile {
	return s.engine.Profile()
}

// snapshot reads everything a scoring pass needs. The reads run
// concurrently and the first failure cancels the rest.
func (s *LeaderboardService) snapshot(ctx context.Context) (scoring.Input, error) {
	var in scoring.Input
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		in.Nations, err = s.repo.ListNations(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		in.Aggregates, err = s.repo.ListVoteAggregates(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		in.Teams, err = s.repo.ListTeams(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return scoring.Input{}, err
	}
	return in, nil
}

// Compute scores every team regardless of lock flags
func (s *LeaderboardService) Compute(ctx context.Context) (*scoring.Result, error) {
	start := time.Now()
	in, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	result := s.engine.Score(in)
	s.log.Debug("Leaderboard computed", "profile", result.Profile, "teams", len(result.Teams),
		"duration", time.Since(start))
	return result, nil
}

// Leaderboard returns the ranked teams. Non-admin callers are rejected
// while the leaderboard is locked.
func (s *LeaderboardService) Leaderboard(ctx context.Context, flags models.FeatureFlags, admin bool) (*scoring.Result, error) {
	if flags.LeaderboardLocked && !admin {
		return nil, ErrLeaderboardLocked
	}
	return s.Compute(ctx)
}

// TeamDetail returns one team's score breakdown and leaderboard position
func (s *LeaderboardService) TeamDetail(ctx context.Context, flags models.FeatureFlags, admin bool, teamID string) (*scoring.ScoredTeam, error) {
	result, err := s.Leaderboard(ctx, flags, admin)
	if err != nil {
		return nil, err
	}
	team, ok := result.Find(teamID)
	if !ok {
		return nil, ErrTeamNotFound
	}
	return team, nil
}
