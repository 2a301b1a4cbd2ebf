package services

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"strings"

	"github.com/skip2/go-qrcode"

	"github.com/abrezinsky/eurovote/internal/logger"
	"github.com/abrezinsky/eurovote/internal/models"
	"github.com/abrezinsky/eurovote/internal/repository"
)

// Broadcaster defines the interface for broadcasting messages to clients
type Broadcaster interface {
	BroadcastSettings(flags models.FeatureFlags)
	BroadcastLeaderboardChanged(reason string)
}

// broadcasting is embedded by services that push updates to clients
type broadcasting struct {
	broadcaster Broadcaster
}

// SetBroadcaster sets the broadcaster for sending updates to clients
func (b *broadcasting) SetBroadcaster(br Broadcaster) {
	b.broadcaster = br
}

func (b *broadcasting) leaderboardChanged(reason string) {
	if b.broadcaster != nil {
		b.broadcaster.BroadcastLeaderboardChanged(reason)
	}
}

// SettingsService handles settings-related business logic
type SettingsService struct {
	broadcasting
	log  logger.Logger
	repo repository.SettingsRepository
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(log logger.Logger, repo repository.SettingsRepository) *SettingsService {
	return &SettingsService{log: log, repo: repo}
}

// getBool reads a boolean setting, falling back to def when it is unset
func (s *SettingsService) getBool(ctx context.Context, key string, def bool) (bool, error) {
	value, err := s.repo.GetSetting(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return def, nil
		}
		return false, err
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return def, nil
	}
	return b, nil
}

func (s *SettingsService) setBool(ctx context.Context, key string, value bool) error {
	return s.repo.SetSetting(ctx, key, strconv.FormatBool(value))
}

func (s *SettingsService) getString(ctx context.Context, key string) (string, error) {
	value, err := s.repo.GetSetting(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return value, nil
}

// Flags resolves the feature flags once for a request
func (s *SettingsService) Flags(ctx context.Context) (models.FeatureFlags, error) {
	var flags models.FeatureFlags
	var err error

	if flags.VotingOpen, err = s.getBool(ctx, repository.SettingVotingOpen, true); err != nil {
		return flags, err
	}
	if flags.TeamsLocked, err = s.getBool(ctx, repository.SettingTeamsLocked, false); err != nil {
		return flags, err
	}
	if flags.LeaderboardLocked, err = s.getBool(ctx, repository.SettingLeaderboardLocked, false); err != nil {
		return flags, err
	}
	if flags.PredictionsEnabled, err = s.getBool(ctx, repository.SettingPredictionsEnabled, false); err != nil {
		return flags, err
	}
	return flags, nil
}

// FlagsUpdate holds the flags to change. Nil fields are left untouched.
type FlagsUpdate struct {
	VotingOpen         *bool `json:"voting_open"`
	TeamsLocked        *bool `json:"teams_locked"`
	LeaderboardLocked  *bool `json:"leaderboard_locked"`
	PredictionsEnabled *bool `json:"predictions_enabled"`
}

func (u FlagsUpdate) empty() bool {
	return u.VotingOpen == nil && u.TeamsLocked == nil && u.LeaderboardLocked == nil && u.PredictionsEnabled == nil
}

// UpdateFlags applies a flags update and broadcasts the new state
func (s *SettingsService) UpdateFlags(ctx context.Context, update FlagsUpdate) (models.FeatureFlags, error) {
	changes := []struct {
		key   string
		value *bool
	}{
		{repository.SettingVotingOpen, update.VotingOpen},
		{repository.SettingTeamsLocked, update.TeamsLocked},
		{repository.SettingLeaderboardLocked, update.LeaderboardLocked},
		{repository.SettingPredictionsEnabled, update.PredictionsEnabled},
	}
	for _, c := range changes {
		if c.value == nil {
			continue
		}
		if err := s.setBool(ctx, c.key, *c.value); err != nil {
			return models.FeatureFlags{}, err
		}
		s.log.Info("Feature flag changed", "flag", c.key, "value", *c.value)
	}

	flags, err := s.Flags(ctx)
	if err != nil {
		return flags, err
	}
	if s.broadcaster != nil && !update.empty() {
		s.broadcaster.BroadcastSettings(flags)
	}
	return flags, nil
}

// GetBaseURL returns the application base URL
func (s *SettingsService) GetBaseURL(ctx context.Context) (string, error) {
	return s.getString(ctx, repository.SettingBaseURL)
}

// SetBaseURL saves the application base URL
func (s *SettingsService) SetBaseURL(ctx context.Context, url string) error {
	return s.repo.SetSetting(ctx, repository.SettingBaseURL, strings.TrimRight(url, "/"))
}

// GetResultsFeedURL returns the configured results feed URL
func (s *SettingsService) GetResultsFeedURL(ctx context.Context) (string, error) {
	return s.getString(ctx, repository.SettingResultsFeedURL)
}

// SetResultsFeedURL saves the results feed URL
func (s *SettingsService) SetResultsFeedURL(ctx context.Context, url string) error {
	return s.repo.SetSetting(ctx, repository.SettingResultsFeedURL, strings.TrimRight(url, "/"))
}

// AllSettings returns the feature flags and configured URLs as a map
func (s *SettingsService) AllSettings(ctx context.Context) (map[string]interface{}, error) {
	flags, err := s.Flags(ctx)
	if err != nil {
		return nil, err
	}

	settings := map[string]interface{}{
		"voting_open":         flags.VotingOpen,
		"teams_locked":        flags.TeamsLocked,
		"leaderboard_locked":  flags.LeaderboardLocked,
		"predictions_enabled": flags.PredictionsEnabled,
	}

	baseURL, _ := s.GetBaseURL(ctx)
	settings["base_url"] = baseURL

	feedURL, _ := s.GetResultsFeedURL(ctx)
	settings["results_feed_url"] = feedURL

	return settings, nil
}

// Settings represents application settings for update operations
type Settings struct {
	FlagsUpdate
	BaseURL        *string `json:"base_url"`
	ResultsFeedURL *string `json:"results_feed_url"`
}

// UpdateSettings updates multiple settings at once
func (s *SettingsService) UpdateSettings(ctx context.Context, settings Settings) error {
	if settings.BaseURL != nil {
		if err := s.SetBaseURL(ctx, *settings.BaseURL); err != nil {
			return err
		}
	}
	if settings.ResultsFeedURL != nil {
		if err := s.SetResultsFeedURL(ctx, *settings.ResultsFeedURL); err != nil {
			return err
		}
	}
	_, err := s.UpdateFlags(ctx, settings.FlagsUpdate)
	return err
}

// ShareQR renders the application base URL as a PNG QR code
func (s *SettingsService) ShareQR(ctx context.Context) ([]byte, error) {
	baseURL, err := s.GetBaseURL(ctx)
	if err != nil {
		return nil, err
	}
	if baseURL == "" {
		return nil, ErrBaseURLNotSet
	}
	return qrcode.Encode(baseURL, qrcode.Medium, 256)
}

// GetStats returns row counts for the admin dashboard
func (s *SettingsService) GetStats(ctx context.Context) (repository.Stats, error) {
	return s.repo.GetStats(ctx)
}

// ResetTablesResult contains the result of a database reset
type ResetTablesResult struct {
	Tables  []string `json:"tables"`
	Message string   `json:"message"`
}

// ValidTables defines which tables can be reset
var ValidTables = map[string]bool{
	"votes": true, "teams": true, "nations": true,
}

// ResetTables validates and resets the specified database tables
func (s *SettingsService) ResetTables(ctx context.Context, tables []string) (*ResetTablesResult, error) {
	if len(tables) == 0 {
		return nil, ErrNoTablesSpecified
	}

	var tablesToReset []string
	for _, table := range tables {
		if !ValidTables[table] {
			return nil, &InvalidTableError{Table: table}
		}
		if !slices.Contains(tablesToReset, table) {
			tablesToReset = append(tablesToReset, table)
		}
	}

	// Votes reference nations, so they go first
	if slices.Contains(tablesToReset, "nations") && !slices.Contains(tablesToReset, "votes") {
		tablesToReset = append([]string{"votes"}, tablesToReset...)
	}

	for _, table := range tablesToReset {
		if err := s.repo.ClearTable(ctx, table); err != nil {
			return nil, err
		}
	}

	s.log.Warn("Tables reset", "tables", tablesToReset)
	s.leaderboardChanged("reset")

	return &ResetTablesResult{
		Tables:  tablesToReset,
		Message: "Successfully deleted data from tables",
	}, nil
}
