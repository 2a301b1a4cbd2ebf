package services

import (
	"fmt"

	"github.com/abrezinsky/eurovote/internal/errors"
)

// Service errors
var (
	ErrNoTablesSpecified  = &ServiceError{Message: "no tables specified"}
	ErrFeedNotConfigured  = &ServiceError{Message: "results feed URL is not configured"}
	ErrBaseURLNotSet      = &ServiceError{Message: "base URL is not configured"}
	ErrEmptyImport        = &ServiceError{Message: "import file contains no nations"}
	ErrVotingClosed       = errors.Locked("voting is currently closed")
	ErrTeamsLocked        = errors.Locked("teams are locked")
	ErrLeaderboardLocked  = errors.Locked("the leaderboard is hidden until results are announced")
	ErrPredictionsClosed  = errors.Locked("winner predictions are not open")
	ErrNotTeamOwner       = errors.Forbidden("you can only edit your own team")
	ErrTeamExists         = errors.Conflict("you already have a team")
	ErrNationNotFound     = errors.NotFound("nation not found")
	ErrTeamNotFound       = errors.NotFound("team not found")
	ErrDuplicateCountry   = errors.Conflict("a nation with this country code already exists")
	ErrMissingUserID      = errors.InvalidInput("user id is required")
	ErrInvalidRankingRank = errors.Validation("rankings must be positive integers")
)

// ServiceError represents a service-level error
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// InvalidTableError represents an invalid table name error
type InvalidTableError struct {
	Table string
}

func (e *InvalidTableError) Error() string {
	return fmt.Sprintf("invalid table name: %s", e.Table)
}
