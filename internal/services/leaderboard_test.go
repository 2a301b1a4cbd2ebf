package services_test

import (
	"context"
	"errors"
	"testing"

	apperrors "github.com/abrezinsky/eurovote/internal/errors"
	"github.com/abrezinsky/eurovote/internal/models"
	"github.com/abrezinsky/eurovote/internal/repository"
	"github.com/abrezinsky/eurovote/internal/repository/mock"
	"github.com/abrezinsky/eurovote/internal/scoring"
	"github.com/abrezinsky/eurovote/internal/services"
	"github.com/abrezinsky/eurovote/internal/testutil"
)

func fullEngine(t *testing.T) *scoring.Engine {
	t.Helper()
	profile, err := scoring.LoadBuiltin(scoring.DefaultProfile)
	if err != nil {
		t.Fatalf("LoadBuiltin failed: %v", err)
	}
	return scoring.New(*profile)
}

// seedContest creates four nations (the first three ranked 1..3) and three
// teams: "Podium" holds the top three, "Echo" and "Mirror" hold the same
// weaker founders and tie
func seedContest(t *testing.T, repo *repository.Repository) map[string]string {
	t.Helper()
	ctx := context.Background()
	ids := testutil.SeedNations(t, repo, "Austria", "Belgium", "Croatia", "Denmark")
	for i := 0; i < 3; i++ {
		if err := repo.SetNationRankings(ctx, ids[i], models.Rankings{FinalRank: intp(i + 1)}); err != nil {
			t.Fatalf("SetNationRankings failed: %v", err)
		}
	}

	teams := services.NewTeamService(quietLogger(), repo)
	byName := make(map[string]string)
	for _, tt := range []struct {
		name     string
		founders []int
	}{
		{"Podium", []int{ids[0], ids[1], ids[2]}},
		{"Mirror", []int{ids[1], ids[2], ids[3]}},
		{"Echo", []int{ids[3], ids[2], ids[1]}},
	} {
		team, err := teams.CreateTeam(ctx, openFlags, "user-"+tt.name, teamInput(tt.name, tt.founders...))
		if err != nil {
			t.Fatalf("CreateTeam failed: %v", err)
		}
		byName[tt.name] = team.ID
	}
	return byName
}

func TestLeaderboardService_Leaderboard(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	seedContest(t, repo)
	svc := services.NewLeaderboardService(quietLogger(), repo, fullEngine(t))

	result, err := svc.Leaderboard(context.Background(), openFlags, false)
	if err != nil {
		t.Fatalf("Leaderboard failed: %v", err)
	}
	if result.Profile != scoring.DefaultProfile {
		t.Errorf("expected profile %s, got %s", scoring.DefaultProfile, result.Profile)
	}

	expected := []struct {
		name  string
		score int
		rank  int
		tied  bool
	}{
		{"Podium", 30 + 25 + 20 + scoring.SweepBonusPoints, 1, false},
		{"Echo", 25 + 20, 2, true},
		{"Mirror", 25 + 20, 2, true},
	}
	if len(result.Teams) != len(expected) {
		t.Fatalf("expected %d teams, got %d", len(expected), len(result.Teams))
	}
	for i, want := range expected {
		got := result.Teams[i]
		if got.Team.Name != want.name || got.TotalScore != want.score || got.Rank != want.rank || got.IsTied != want.tied {
			t.Errorf("position %d: expected %+v, got %s score=%d rank=%d tied=%v",
				i, want, got.Team.Name, got.TotalScore, got.Rank, got.IsTied)
		}
	}
}

func TestLeaderboardService_Locked(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	seedContest(t, repo)
	svc := services.NewLeaderboardService(quietLogger(), repo, fullEngine(t))
	locked := models.FeatureFlags{LeaderboardLocked: true}
	ctx := context.Background()

	_, err := svc.Leaderboard(ctx, locked, false)
	assertKind(t, err, apperrors.ErrLocked)

	result, err := svc.Leaderboard(ctx, locked, true)
	if err != nil {
		t.Fatalf("admin Leaderboard failed: %v", err)
	}
	if len(result.Teams) != 3 {
		t.Errorf("expected admin to see all teams, got %d", len(result.Teams))
	}
}

func TestLeaderboardService_TeamDetail(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	teams := seedContest(t, repo)
	svc := services.NewLeaderboardService(quietLogger(), repo, fullEngine(t))
	ctx := context.Background()

	detail, err := svc.TeamDetail(ctx, openFlags, false, teams["Mirror"])
	if err != nil {
		t.Fatalf("TeamDetail failed: %v", err)
	}
	if detail.Rank != 2 || detail.FounderPoints != 45 || !detail.IsTied {
		t.Errorf("unexpected detail %+v", detail)
	}
	founders := 0
	for _, ps := range detail.Breakdown {
		if ps.Category == scoring.CategoryFounder {
			founders++
		}
	}
	if founders != 3 {
		t.Errorf("expected 3 founder rows in breakdown, got %d", founders)
	}

	_, err = svc.TeamDetail(ctx, openFlags, false, "missing")
	assertKind(t, err, apperrors.ErrNotFound)

	_, err = svc.TeamDetail(ctx, models.FeatureFlags{LeaderboardLocked: true}, false, teams["Mirror"])
	assertKind(t, err, apperrors.ErrLocked)
}

func TestLeaderboardService_Empty(t *testing.T) {
	svc := services.NewLeaderboardService(quietLogger(), testutil.NewTestRepository(t), fullEngine(t))

	result, err := svc.Compute(context.Background())
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if len(result.Teams) != 0 {
		t.Errorf("expected no teams, got %d", len(result.Teams))
	}
	if len(result.Rankings) != len(svc.Profile().Categories) {
		t.Errorf("expected a ranking per active category, got %d", len(result.Rankings))
	}
}

func TestLeaderboardService_RepoErrors(t *testing.T) {
	tests := []struct {
		name   string
		inject func(*mock.Repository)
	}{
		{"nations", func(m *mock.Repository) { m.ListNationsError = errors.New("database error") }},
		{"aggregates", func(m *mock.Repository) { m.ListVoteAggregatesError = errors.New("database error") }},
		{"teams", func(m *mock.Repository) { m.ListTeamsError = errors.New("database error") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := mock.NewRepository(testutil.NewTestRepository(t))
			tt.inject(mockRepo)
			svc := services.NewLeaderboardService(quietLogger(), mockRepo, fullEngine(t))

			if _, err := svc.Leaderboard(context.Background(), openFlags, false); err == nil {
				t.Error("expected error")
			}
		})
	}
}
