package testutil

import (
	"context"
	"testing"

	"github.com/abrezinsky/eurovote/internal/models"
	"github.com/abrezinsky/eurovote/internal/repository"
)

// NewTestRepository creates a new in-memory repository for testing.
// Each call creates a fresh database with all migrations applied.
func NewTestRepository(t *testing.T) *repository.Repository {
	t.Helper()

	repo, err := repository.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}

	t.Cleanup(func() {
		repo.Close()
	})

	return repo
}

// SeedNations creates nations in order and returns their ids.
// Each nation gets a country code derived from its position.
func SeedNations(t *testing.T, repo repository.NationRepository, names ...string) []int {
	t.Helper()

	ids := make([]int, 0, len(names))
	for i, name := range names {
		code := string(rune('A'+i/26)) + string(rune('A'+i%26))
		id, err := repo.CreateNation(context.Background(), models.Nation{
			Name:         name,
			CountryCode:  code,
			RunningOrder: i + 1,
		})
		if err != nil {
			t.Fatalf("failed to seed nation %s: %v", name, err)
		}
		ids = append(ids, int(id))
	}
	return ids
}

// Ptr returns a pointer to v
func Ptr[T any](v T) *T {
	return &v
}
