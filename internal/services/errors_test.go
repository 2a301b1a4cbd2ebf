package services_test

import (
	"strings"
	"testing"

	apperrors "github.com/abrezinsky/eurovote/internal/errors"
	"github.com/abrezinsky/eurovote/internal/services"
)

func TestServiceError_Error(t *testing.T) {
	err := &services.ServiceError{Message: "test error message"}

	if err.Error() != "test error message" {
		t.Errorf("expected 'test error message', got %q", err.Error())
	}
}

func TestInvalidTableError_Error(t *testing.T) {
	err := &services.InvalidTableError{Table: "bad_table"}

	result := err.Error()
	if !strings.Contains(result, "bad_table") {
		t.Errorf("expected error to contain 'bad_table', got %q", result)
	}
	if !strings.Contains(result, "invalid table") {
		t.Errorf("expected error to mention 'invalid table', got %q", result)
	}
}

func TestPredefinedErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind apperrors.Kind
	}{
		{"ErrVotingClosed", services.ErrVotingClosed, apperrors.ErrLocked},
		{"ErrTeamsLocked", services.ErrTeamsLocked, apperrors.ErrLocked},
		{"ErrLeaderboardLocked", services.ErrLeaderboardLocked, apperrors.ErrLocked},
		{"ErrPredictionsClosed", services.ErrPredictionsClosed, apperrors.ErrLocked},
		{"ErrNotTeamOwner", services.ErrNotTeamOwner, apperrors.ErrForbidden},
		{"ErrTeamExists", services.ErrTeamExists, apperrors.ErrConflict},
		{"ErrNationNotFound", services.ErrNationNotFound, apperrors.ErrNotFound},
		{"ErrTeamNotFound", services.ErrTeamNotFound, apperrors.ErrNotFound},
		{"ErrDuplicateCountry", services.ErrDuplicateCountry, apperrors.ErrConflict},
		{"ErrMissingUserID", services.ErrMissingUserID, apperrors.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := apperrors.KindOf(tt.err); got != tt.kind {
				t.Errorf("expected kind %s, got %s", tt.kind, got)
			}
		})
	}
}
