package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	apperrors "github.com/abrezinsky/eurovote/internal/errors"
	"github.com/abrezinsky/eurovote/internal/models"
	"github.com/abrezinsky/eurovote/internal/repository/mock"
	"github.com/abrezinsky/eurovote/internal/services"
	"github.com/abrezinsky/eurovote/internal/testutil"
)

// setupTeamService seeds five nations and returns their ids
func setupTeamService(t *testing.T) (*services.TeamService, []int) {
	t.Helper()
	repo := testutil.NewTestRepository(t)
	ids := testutil.SeedNations(t, repo, "Austria", "Belgium", "Croatia", "Denmark", "Estonia")
	return services.NewTeamService(quietLogger(), repo), ids
}

func teamInput(name string, founders ...int) services.TeamInput {
	return services.TeamInput{Name: name, Picks: models.Picks{Founders: founders}}
}

func TestTeamService_CreateTeam(t *testing.T) {
	svc, ids := setupTeamService(t)
	b := &recordingBroadcaster{}
	svc.SetBroadcaster(b)
	ctx := context.Background()

	in := teamInput("  Douze Points ", ids[0], ids[1], ids[2])
	in.BestSong = intp(ids[3])

	team, err := svc.CreateTeam(ctx, openFlags, "user-1", in)
	if err != nil {
		t.Fatalf("CreateTeam failed: %v", err)
	}
	if _, err := uuid.Parse(team.ID); err != nil {
		t.Errorf("expected a UUID team id, got %q", team.ID)
	}
	if team.Name != "Douze Points" || team.UserID != "user-1" {
		t.Errorf("unexpected team %+v", team)
	}
	if team.BestSong == nil || *team.BestSong != ids[3] {
		t.Errorf("expected best song pick to be stored")
	}
	if team.CreatedAt == "" {
		t.Error("expected created_at to be set")
	}
	if b.lastReason() != "teams" {
		t.Errorf("expected teams broadcast, got %q", b.lastReason())
	}

	mine, err := svc.GetUserTeam(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetUserTeam failed: %v", err)
	}
	if mine.ID != team.ID {
		t.Errorf("expected GetUserTeam to return %s, got %s", team.ID, mine.ID)
	}
}

func TestTeamService_CreateTeam_OnePerUser(t *testing.T) {
	svc, ids := setupTeamService(t)
	ctx := context.Background()

	if _, err := svc.CreateTeam(ctx, openFlags, "user-1", teamInput("First", ids[0], ids[1], ids[2])); err != nil {
		t.Fatalf("CreateTeam failed: %v", err)
	}
	_, err := svc.CreateTeam(ctx, openFlags, "user-1", teamInput("Second", ids[2], ids[3], ids[4]))
	assertKind(t, err, apperrors.ErrConflict)
}

func TestTeamService_CreateTeam_Validation(t *testing.T) {
	svc, ids := setupTeamService(t)

	withPick := func(in services.TeamInput, set func(*models.Picks)) services.TeamInput {
		set(&in.Picks)
		return in
	}

	tests := []struct {
		name string
		in   services.TeamInput
	}{
		{"empty name", teamInput("  ", ids[0], ids[1], ids[2])},
		{"long name", teamInput(strings.Repeat("ä", services.MaxTeamNameLength+1), ids[0], ids[1], ids[2])},
		{"two founders", teamInput("Team", ids[0], ids[1])},
		{"four founders", teamInput("Team", ids[0], ids[1], ids[2], ids[3])},
		{"duplicate founders", teamInput("Team", ids[0], ids[0], ids[1])},
		{"unknown founder", teamInput("Team", ids[0], ids[1], 999)},
		{"unknown category pick", withPick(teamInput("Team", ids[0], ids[1], ids[2]), func(p *models.Picks) {
			p.WorstOverall = intp(999)
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateTeam(context.Background(), openFlags, "user-1", tt.in)
			assertKind(t, err, apperrors.ErrValidation)
		})
	}
}

func TestTeamService_CreateTeam_NameAtLimit(t *testing.T) {
	svc, ids := setupTeamService(t)

	name := strings.Repeat("ö", services.MaxTeamNameLength)
	if _, err := svc.CreateTeam(context.Background(), openFlags, "user-1", teamInput(name, ids[0], ids[1], ids[2])); err != nil {
		t.Errorf("expected a %d character name to be accepted, got %v", services.MaxTeamNameLength, err)
	}
}

func TestTeamService_CreateTeam_Flags(t *testing.T) {
	svc, ids := setupTeamService(t)
	ctx := context.Background()

	_, err := svc.CreateTeam(ctx, models.FeatureFlags{TeamsLocked: true}, "user-1", teamInput("Team", ids[0], ids[1], ids[2]))
	if err != services.ErrTeamsLocked {
		t.Errorf("expected ErrTeamsLocked, got %v", err)
	}

	in := teamInput("Team", ids[0], ids[1], ids[2])
	in.FinalWinner = intp(ids[0])
	if _, err := svc.CreateTeam(ctx, openFlags, "user-1", in); err != services.ErrPredictionsClosed {
		t.Errorf("expected ErrPredictionsClosed, got %v", err)
	}

	flags := models.FeatureFlags{PredictionsEnabled: true}
	team, err := svc.CreateTeam(ctx, flags, "user-1", in)
	if err != nil {
		t.Fatalf("CreateTeam with predictions enabled failed: %v", err)
	}
	if team.FinalWinner == nil || *team.FinalWinner != ids[0] {
		t.Error("expected final winner prediction to be stored")
	}
}

func TestTeamService_CreateTeam_MissingUser(t *testing.T) {
	svc, ids := setupTeamService(t)

	_, err := svc.CreateTeam(context.Background(), openFlags, "", teamInput("Team", ids[0], ids[1], ids[2]))
	assertKind(t, err, apperrors.ErrInvalidInput)
}

func TestTeamService_UpdateTeam(t *testing.T) {
	svc, ids := setupTeamService(t)
	ctx := context.Background()

	team, err := svc.CreateTeam(ctx, openFlags, "owner", teamInput("Before", ids[0], ids[1], ids[2]))
	if err != nil {
		t.Fatalf("CreateTeam failed: %v", err)
	}

	updated, err := svc.UpdateTeam(ctx, openFlags, "owner", team.ID, teamInput("After", ids[2], ids[3], ids[4]))
	if err != nil {
		t.Fatalf("UpdateTeam failed: %v", err)
	}
	if updated.Name != "After" || updated.Founders[0] != ids[2] {
		t.Errorf("unexpected updated team %+v", updated)
	}
	if updated.CreatedAt != team.CreatedAt {
		t.Error("expected created_at to be preserved")
	}
}

func TestTeamService_UpdateTeam_Rejections(t *testing.T) {
	svc, ids := setupTeamService(t)
	ctx := context.Background()

	in := teamInput("Team", ids[0], ids[1], ids[2])
	in.JuryWinner = intp(ids[1])
	team, err := svc.CreateTeam(ctx, models.FeatureFlags{PredictionsEnabled: true}, "owner", in)
	if err != nil {
		t.Fatalf("CreateTeam failed: %v", err)
	}

	_, err = svc.UpdateTeam(ctx, openFlags, "intruder", team.ID, in)
	assertKind(t, err, apperrors.ErrForbidden)

	_, err = svc.UpdateTeam(ctx, models.FeatureFlags{TeamsLocked: true}, "owner", team.ID, in)
	assertKind(t, err, apperrors.ErrLocked)

	_, err = svc.UpdateTeam(ctx, openFlags, "owner", "no-such-team", in)
	assertKind(t, err, apperrors.ErrNotFound)

	// Predictions are frozen while disabled, other picks stay editable
	in.Name = "Renamed"
	if _, err := svc.UpdateTeam(ctx, openFlags, "owner", team.ID, in); err != nil {
		t.Errorf("expected unchanged predictions to be accepted, got %v", err)
	}

	in.JuryWinner = intp(ids[2])
	if _, err := svc.UpdateTeam(ctx, openFlags, "owner", team.ID, in); err != services.ErrPredictionsClosed {
		t.Errorf("expected ErrPredictionsClosed, got %v", err)
	}

	in.JuryWinner = nil
	if _, err := svc.UpdateTeam(ctx, openFlags, "owner", team.ID, in); err != services.ErrPredictionsClosed {
		t.Errorf("expected clearing a prediction to be rejected, got %v", err)
	}
}

func TestTeamService_GetAndList(t *testing.T) {
	svc, ids := setupTeamService(t)
	ctx := context.Background()

	_, err := svc.GetUserTeam(ctx, "nobody")
	assertKind(t, err, apperrors.ErrNotFound)
	_, err = svc.GetTeam(ctx, "missing")
	assertKind(t, err, apperrors.ErrNotFound)

	for _, name := range []string{"Zeta", "Alpha"} {
		if _, err := svc.CreateTeam(ctx, openFlags, name, teamInput(name, ids[0], ids[1], ids[2])); err != nil {
			t.Fatalf("CreateTeam failed: %v", err)
		}
	}
	teams, err := svc.ListTeams(ctx)
	if err != nil {
		t.Fatalf("ListTeams failed: %v", err)
	}
	if len(teams) != 2 || teams[0].Name != "Alpha" {
		t.Errorf("expected teams ordered by name, got %+v", teams)
	}
}

func TestTeamService_DeleteTeam(t *testing.T) {
	svc, ids := setupTeamService(t)
	ctx := context.Background()

	team, err := svc.CreateTeam(ctx, openFlags, "owner", teamInput("Team", ids[0], ids[1], ids[2]))
	if err != nil {
		t.Fatalf("CreateTeam failed: %v", err)
	}
	if err := svc.DeleteTeam(ctx, team.ID); err != nil {
		t.Fatalf("DeleteTeam failed: %v", err)
	}
	assertKind(t, svc.DeleteTeam(ctx, team.ID), apperrors.ErrNotFound)

	// The user may start over
	if _, err := svc.CreateTeam(ctx, openFlags, "owner", teamInput("Again", ids[0], ids[1], ids[2])); err != nil {
		t.Errorf("expected a new team after deletion, got %v", err)
	}
}

func TestTeamService_RepoErrors(t *testing.T) {
	realRepo := testutil.NewTestRepository(t)
	ids := testutil.SeedNations(t, realRepo, "Austria", "Belgium", "Croatia")
	mockRepo := mock.NewRepository(realRepo)
	svc := services.NewTeamService(quietLogger(), mockRepo)
	ctx := context.Background()
	in := teamInput("Team", ids[0], ids[1], ids[2])

	mockRepo.NationExistsError = errors.New("database error")
	if _, err := svc.CreateTeam(ctx, openFlags, "u", in); err == nil || apperrors.KindOf(err) != apperrors.ErrInternal {
		t.Errorf("expected internal error, got %v", err)
	}
	mockRepo.NationExistsError = nil

	mockRepo.CreateTeamError = errors.New("database error")
	if _, err := svc.CreateTeam(ctx, openFlags, "u", in); err == nil {
		t.Error("expected CreateTeam error")
	}
	mockRepo.CreateTeamError = nil

	team, err := svc.CreateTeam(ctx, openFlags, "u", in)
	if err != nil {
		t.Fatalf("CreateTeam failed: %v", err)
	}

	mockRepo.UpdateTeamError = errors.New("database error")
	if _, err := svc.UpdateTeam(ctx, openFlags, "u", team.ID, in); err == nil {
		t.Error("expected UpdateTeam error")
	}

	mockRepo.GetTeamError = errors.New("database error")
	if _, err := svc.UpdateTeam(ctx, openFlags, "u", team.ID, in); err == nil {
		t.Error("expected GetTeam error")
	}
}
