package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "github.com/abrezinsky/eurovote/internal/errors"
	"github.com/abrezinsky/eurovote/internal/logger"
	"github.com/abrezinsky/eurovote/internal/models"
	"github.com/abrezinsky/eurovote/internal/repository"
	"github.com/abrezinsky/eurovote/pkg/resultsfeed"
)

// NationServiceRepository defines the repository methods needed by NationService
type NationServiceRepository interface {
	repository.NationRepository
	repository.SettingsRepository
}

// NationService handles nation-related business logic
type NationService struct {
	broadcasting
	log    logger.Logger
	repo   NationServiceRepository
	client resultsfeed.Client
}

// NewNationService creates a new NationService
func NewNationService(log logger.Logger, repo NationServiceRepository, client resultsfeed.Client) *NationService {
	return &NationService{log: log, repo: repo, client: client}
}

// SyncResult contains the result of a results feed sync
type SyncResult struct {
	Status    string   `json:"status"`
	Message   string   `json:"message,omitempty"`
	Total     int      `json:"total"`
	Updated   int      `json:"updated"`
	Unchanged int      `json:"unchanged"`
	Created   int      `json:"created,omitempty"`
	Unmatched []string `json:"unmatched"`
}

// ImportResult contains the result of a nation import
type ImportResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

// ListNations returns all nations in running order
func (s *NationService) ListNations(ctx context.Context) ([]models.Nation, error) {
	return s.repo.ListNations(ctx)
}

// GetNation returns a nation by ID
func (s *NationService) GetNation(ctx context.Context, id int) (*models.Nation, error) {
	n, err := s.repo.GetNation(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNationNotFound
	}
	return n, err
}

// normalizeNation trims and validates a nation, upper-casing its country code
func normalizeNation(n models.Nation) (models.Nation, error) {
	n.Name = strings.TrimSpace(n.Name)
	n.CountryCode = strings.ToUpper(strings.TrimSpace(n.CountryCode))
	n.Artist = strings.TrimSpace(n.Artist)
	n.Song = strings.TrimSpace(n.Song)

	if n.Name == "" {
		return n, apperrors.Validation("nation name is required")
	}
	if !validCountryCode(n.CountryCode) {
		return n, apperrors.Validationf("country code %q must be 2 or 3 letters", n.CountryCode)
	}
	if n.RunningOrder < 0 {
		return n, apperrors.Validation("running order cannot be negative")
	}
	if err := validateRankings(models.Rankings{FinalRank: n.FinalRank, JuryRank: n.JuryRank, TelevoteRank: n.TelevoteRank}); err != nil {
		return n, err
	}
	return n, nil
}

func validCountryCode(code string) bool {
	if len(code) < 2 || len(code) > 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

func validateRankings(r models.Rankings) error {
	for _, rank := range []*int{r.FinalRank, r.JuryRank, r.TelevoteRank} {
		if rank != nil && *rank <= 0 {
			return ErrInvalidRankingRank
		}
	}
	return nil
}

// CreateNation validates and stores a new nation
func (s *NationService) CreateNation(ctx context.Context, n models.Nation) (int64, error) {
	n, err := normalizeNation(n)
	if err != nil {
		return 0, err
	}
	id, err := s.repo.CreateNation(ctx, n)
	if errors.Is(err, repository.ErrDuplicate) {
		return 0, ErrDuplicateCountry
	}
	if err != nil {
		return 0, err
	}
	s.log.Info("Nation created", "id", id, "country_code", n.CountryCode)
	return id, nil
}

// UpdateNation updates a nation's descriptive fields
func (s *NationService) UpdateNation(ctx context.Context, n models.Nation) error {
	n, err := normalizeNation(n)
	if err != nil {
		return err
	}
	switch err := s.repo.UpdateNation(ctx, n); {
	case errors.Is(err, repository.ErrNotFound):
		return ErrNationNotFound
	case errors.Is(err, repository.ErrDuplicate):
		return ErrDuplicateCountry
	case err != nil:
		return err
	}
	s.leaderboardChanged("nations")
	return nil
}

// DeleteNation deletes a nation and its votes
func (s *NationService) DeleteNation(ctx context.Context, id int) error {
	err := s.repo.DeleteNation(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNationNotFound
	}
	if err != nil {
		return err
	}
	s.log.Info("Nation deleted", "id", id)
	s.leaderboardChanged("nations")
	return nil
}

// SetRankings replaces a nation's official rankings. Nil ranks are cleared.
func (s *NationService) SetRankings(ctx context.Context, id int, rankings models.Rankings) error {
	if err := validateRankings(rankings); err != nil {
		return err
	}
	err := s.repo.SetNationRankings(ctx, id, rankings)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNationNotFound
	}
	if err != nil {
		return err
	}
	s.leaderboardChanged("rankings")
	return nil
}

// feedURL resolves the URL to sync from, persisting an explicitly given one
func (s *NationService) feedURL(ctx context.Context, url string) (string, error) {
	url = strings.TrimRight(strings.TrimSpace(url), "/")
	if url == "" {
		saved, err := s.repo.GetSetting(ctx, repository.SettingResultsFeedURL)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return "", err
		}
		url = saved
	} else if err := s.repo.SetSetting(ctx, repository.SettingResultsFeedURL, url); err != nil {
		return "", fmt.Errorf("failed to save results feed URL: %w", err)
	}
	if url == "" {
		return "", ErrFeedNotConfigured
	}
	s.client.SetBaseURL(url)
	return url, nil
}

// SyncFromFeed pulls official rankings from the results feed, matching
// nations by country code. A rank the feed does not publish yet keeps the
// stored value.
func (s *NationService) SyncFromFeed(ctx context.Context, url string) (*SyncResult, error) {
	if _, err := s.feedURL(ctx, url); err != nil {
		return nil, err
	}

	results, err := s.client.FetchResults(ctx)
	if err != nil {
		return &SyncResult{
			Status:  "error",
			Message: fmt.Sprintf("Failed to fetch from results feed: %v", err),
		}, nil
	}

	nations, err := s.repo.ListNations(ctx)
	if err != nil {
		return nil, err
	}
	byCode := make(map[string]models.Nation, len(nations))
	for _, n := range nations {
		byCode[strings.ToUpper(n.CountryCode)] = n
	}

	result := &SyncResult{Status: "success", Total: len(results), Unmatched: []string{}}
	var firstError error

	for _, r := range results {
		code := strings.ToUpper(strings.TrimSpace(r.CountryCode))
		n, ok := byCode[code]
		if !ok {
			result.Unmatched = append(result.Unmatched, code)
			continue
		}

		rankings := models.Rankings{
			FinalRank:    mergeRank(r.FinalRank, n.FinalRank),
			JuryRank:     mergeRank(r.JuryRank, n.JuryRank),
			TelevoteRank: mergeRank(r.TelevoteRank, n.TelevoteRank),
		}
		if sameRankings(rankings, n) {
			result.Unchanged++
			continue
		}

		if err := s.repo.SetNationRankings(ctx, n.ID, rankings); err != nil {
			s.log.Error("Error syncing rankings", "country_code", code, "error", err)
			if firstError == nil {
				firstError = fmt.Errorf("failed to sync rankings for %s: %w", code, err)
			}
			continue
		}
		result.Updated++
	}

	s.log.Info("Results sync complete", "updated", result.Updated, "unchanged", result.Unchanged,
		"unmatched", len(result.Unmatched))
	if result.Updated > 0 {
		s.leaderboardChanged("rankings")
	}

	return result, firstError
}

// ImportFromFeed upserts the participant line-up published by the results feed
func (s *NationService) ImportFromFeed(ctx context.Context, url string) (*SyncResult, error) {
	if _, err := s.feedURL(ctx, url); err != nil {
		return nil, err
	}

	participants, err := s.client.FetchParticipants(ctx)
	if err != nil {
		return &SyncResult{
			Status:  "error",
			Message: fmt.Sprintf("Failed to fetch from results feed: %v", err),
		}, nil
	}

	nations := make([]models.Nation, 0, len(participants))
	for _, p := range participants {
		nations = append(nations, models.Nation{
			Name:         p.Country,
			CountryCode:  p.CountryCode,
			Artist:       p.Artist,
			Song:         p.Song,
			RunningOrder: p.RunningOrder,
		})
	}

	imported, err := s.upsertAll(ctx, nations)
	result := &SyncResult{
		Status:    "success",
		Total:     len(participants),
		Created:   imported.Created,
		Updated:   imported.Updated,
		Unmatched: []string{},
	}
	return result, err
}

// nationFile is the YAML seed format
type nationFile struct {
	Nations []models.Nation `yaml:"nations"`
}

// ImportNations upserts nations from a YAML document with a top-level
// "nations" list
func (s *NationService) ImportNations(ctx context.Context, data []byte) (*ImportResult, error) {
	var file nationFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, apperrors.InvalidInputf("invalid nations file: %v", err)
	}
	if len(file.Nations) == 0 {
		return nil, ErrEmptyImport
	}

	seen := make(map[string]bool, len(file.Nations))
	for i, n := range file.Nations {
		n, err := normalizeNation(n)
		if err != nil {
			return nil, apperrors.Validationf("nation %d: %v", i+1, err)
		}
		if seen[n.CountryCode] {
			return nil, apperrors.Validationf("nation %d: duplicate country code %s", i+1, n.CountryCode)
		}
		seen[n.CountryCode] = true
	}

	result, err := s.upsertAll(ctx, file.Nations)
	return &result, err
}

func (s *NationService) upsertAll(ctx context.Context, nations []models.Nation) (ImportResult, error) {
	var result ImportResult
	var firstError error

	for _, n := range nations {
		n, err := normalizeNation(n)
		if err != nil {
			s.log.Warn("Skipping invalid nation", "name", n.Name, "error", err)
			if firstError == nil {
				firstError = err
			}
			continue
		}
		created, err := s.repo.UpsertNationByCode(ctx, n)
		if err != nil {
			s.log.Error("Error importing nation", "country_code", n.CountryCode, "error", err)
			if firstError == nil {
				firstError = fmt.Errorf("failed to import %s: %w", n.CountryCode, err)
			}
			continue
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}

	s.log.Info("Nations imported", "created", result.Created, "updated", result.Updated)
	if result.Created+result.Updated > 0 {
		s.leaderboardChanged("nations")
	}
	return result, firstError
}

func mergeRank(feed resultsfeed.FlexRank, existing *int) *int {
	if p := feed.Ptr(); p != nil {
		return p
	}
	return existing
}

func sameRankings(r models.Rankings, n models.Nation) bool {
	return sameRank(r.FinalRank, n.FinalRank) &&
		sameRank(r.JuryRank, n.JuryRank) &&
		sameRank(r.TelevoteRank, n.TelevoteRank)
}

func sameRank(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
