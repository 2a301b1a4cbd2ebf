package services_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/abrezinsky/eurovote/internal/models"
	"github.com/abrezinsky/eurovote/internal/repository"
	"github.com/abrezinsky/eurovote/internal/repository/mock"
	"github.com/abrezinsky/eurovote/internal/services"
	"github.com/abrezinsky/eurovote/internal/testutil"
)

func TestSettingsService_DefaultFlags(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	svc := services.NewSettingsService(quietLogger(), repo)

	flags, err := svc.Flags(context.Background())
	if err != nil {
		t.Fatalf("Flags failed: %v", err)
	}
	if flags != openFlags {
		t.Errorf("expected defaults %+v, got %+v", openFlags, flags)
	}
}

func TestSettingsService_UpdateFlags(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	svc := services.NewSettingsService(quietLogger(), repo)
	b := &recordingBroadcaster{}
	svc.SetBroadcaster(b)
	ctx := context.Background()

	flags, err := svc.UpdateFlags(ctx, services.FlagsUpdate{
		VotingOpen:        testutil.Ptr(false),
		LeaderboardLocked: testutil.Ptr(true),
	})
	if err != nil {
		t.Fatalf("UpdateFlags failed: %v", err)
	}

	want := models.FeatureFlags{LeaderboardLocked: true}
	if flags != want {
		t.Errorf("expected %+v, got %+v", want, flags)
	}
	if len(b.settings) != 1 || b.settings[0] != want {
		t.Errorf("expected one settings broadcast with %+v, got %+v", want, b.settings)
	}

	// Untouched flags keep their value
	flags, err = svc.UpdateFlags(ctx, services.FlagsUpdate{TeamsLocked: testutil.Ptr(true)})
	if err != nil {
		t.Fatalf("UpdateFlags failed: %v", err)
	}
	if !flags.LeaderboardLocked || !flags.TeamsLocked || flags.VotingOpen {
		t.Errorf("unexpected flags after second update: %+v", flags)
	}
}

func TestSettingsService_UpdateFlags_EmptyDoesNotBroadcast(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	svc := services.NewSettingsService(quietLogger(), repo)
	b := &recordingBroadcaster{}
	svc.SetBroadcaster(b)

	if _, err := svc.UpdateFlags(context.Background(), services.FlagsUpdate{}); err != nil {
		t.Fatalf("UpdateFlags failed: %v", err)
	}
	if len(b.settings) != 0 {
		t.Errorf("expected no broadcast, got %d", len(b.settings))
	}
}

func TestSettingsService_Flags_UnparsableValueUsesDefault(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	svc := services.NewSettingsService(quietLogger(), repo)
	ctx := context.Background()

	if err := repo.SetSetting(ctx, repository.SettingVotingOpen, "maybe"); err != nil {
		t.Fatalf("SetSetting failed: %v", err)
	}

	flags, err := svc.Flags(ctx)
	if err != nil {
		t.Fatalf("Flags failed: %v", err)
	}
	if !flags.VotingOpen {
		t.Error("expected voting to fall back to open")
	}
}

func TestSettingsService_Flags_RepoError(t *testing.T) {
	mockRepo := mock.NewRepository(testutil.NewTestRepository(t))
	mockRepo.GetSettingError = errors.New("database error")
	svc := services.NewSettingsService(quietLogger(), mockRepo)

	if _, err := svc.Flags(context.Background()); err == nil {
		t.Fatal("expected error from Flags")
	}
}

func TestSettingsService_UpdateFlags_RepoError(t *testing.T) {
	mockRepo := mock.NewRepository(testutil.NewTestRepository(t))
	mockRepo.SetSettingError = errors.New("database error")
	svc := services.NewSettingsService(quietLogger(), mockRepo)
	b := &recordingBroadcaster{}
	svc.SetBroadcaster(b)

	_, err := svc.UpdateFlags(context.Background(), services.FlagsUpdate{VotingOpen: testutil.Ptr(false)})
	if err == nil {
		t.Fatal("expected error from UpdateFlags")
	}
	if len(b.settings) != 0 {
		t.Error("expected no broadcast after failure")
	}
}

func TestSettingsService_URLs(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	svc := services.NewSettingsService(quietLogger(), repo)
	ctx := context.Background()

	url, err := svc.GetBaseURL(ctx)
	if err != nil {
		t.Fatalf("GetBaseURL failed: %v", err)
	}
	if url != "" {
		t.Errorf("expected empty base URL, got %q", url)
	}

	if err := svc.SetBaseURL(ctx, "http://192.168.1.20:8081/"); err != nil {
		t.Fatalf("SetBaseURL failed: %v", err)
	}
	if url, _ := svc.GetBaseURL(ctx); url != "http://192.168.1.20:8081" {
		t.Errorf("expected trailing slash trimmed, got %q", url)
	}

	if err := svc.SetResultsFeedURL(ctx, "https://feed.example/2025/"); err != nil {
		t.Fatalf("SetResultsFeedURL failed: %v", err)
	}
	if url, _ := svc.GetResultsFeedURL(ctx); url != "https://feed.example/2025" {
		t.Errorf("unexpected feed URL %q", url)
	}
}

func TestSettingsService_AllSettingsAndUpdate(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	svc := services.NewSettingsService(quietLogger(), repo)
	ctx := context.Background()

	err := svc.UpdateSettings(ctx, services.Settings{
		FlagsUpdate:    services.FlagsUpdate{PredictionsEnabled: testutil.Ptr(true)},
		BaseURL:        testutil.Ptr("http://party.local"),
		ResultsFeedURL: testutil.Ptr("http://feed.local"),
	})
	if err != nil {
		t.Fatalf("UpdateSettings failed: %v", err)
	}

	all, err := svc.AllSettings(ctx)
	if err != nil {
		t.Fatalf("AllSettings failed: %v", err)
	}

	expected := map[string]interface{}{
		"voting_open":         true,
		"teams_locked":        false,
		"leaderboard_locked":  false,
		"predictions_enabled": true,
		"base_url":            "http://party.local",
		"results_feed_url":    "http://feed.local",
	}
	for key, want := range expected {
		if all[key] != want {
			t.Errorf("%s: expected %v, got %v", key, want, all[key])
		}
	}
}

func TestSettingsService_ShareQR(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	svc := services.NewSettingsService(quietLogger(), repo)
	ctx := context.Background()

	if _, err := svc.ShareQR(ctx); err != services.ErrBaseURLNotSet {
		t.Fatalf("expected ErrBaseURLNotSet, got %v", err)
	}

	if err := svc.SetBaseURL(ctx, "http://party.local:8081"); err != nil {
		t.Fatalf("SetBaseURL failed: %v", err)
	}
	png, err := svc.ShareQR(ctx)
	if err != nil {
		t.Fatalf("ShareQR failed: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("expected PNG data")
	}
}

func TestSettingsService_ResetTables(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	svc := services.NewSettingsService(quietLogger(), repo)
	b := &recordingBroadcaster{}
	svc.SetBroadcaster(b)
	ctx := context.Background()

	ids := testutil.SeedNations(t, repo, "Sweden", "Finland")
	if err := repo.SaveVote(ctx, models.CategoryVote{
		UserID: "u1", NationID: ids[0], Scores: models.Scores{Song: 5, Performance: 5, Outfit: 5},
	}); err != nil {
		t.Fatalf("SaveVote failed: %v", err)
	}

	result, err := svc.ResetTables(ctx, []string{"nations"})
	if err != nil {
		t.Fatalf("ResetTables failed: %v", err)
	}
	if len(result.Tables) != 2 || result.Tables[0] != "votes" || result.Tables[1] != "nations" {
		t.Errorf("expected votes to be cleared before nations, got %v", result.Tables)
	}

	stats, err := svc.GetStats(ctx)
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if stats.Nations != 0 || stats.Votes != 0 {
		t.Errorf("expected empty tables, got %+v", stats)
	}
	if b.lastReason() != "reset" {
		t.Errorf("expected reset broadcast, got %q", b.lastReason())
	}
}

func TestSettingsService_ResetTables_Errors(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	svc := services.NewSettingsService(quietLogger(), repo)
	ctx := context.Background()

	if _, err := svc.ResetTables(ctx, nil); err != services.ErrNoTablesSpecified {
		t.Errorf("expected ErrNoTablesSpecified, got %v", err)
	}

	_, err := svc.ResetTables(ctx, []string{"votes", "settings"})
	var invalid *services.InvalidTableError
	if !errors.As(err, &invalid) || invalid.Table != "settings" {
		t.Errorf("expected InvalidTableError for settings, got %v", err)
	}

	mockRepo := mock.NewRepository(repo)
	mockRepo.ClearTableError = errors.New("database error")
	svc = services.NewSettingsService(quietLogger(), mockRepo)
	if _, err := svc.ResetTables(ctx, []string{"teams"}); err == nil {
		t.Error("expected error from ClearTable")
	}
}
