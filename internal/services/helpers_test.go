package services_test

import (
	"io"
	"log/slog"
	"sync"
	"testing"

	apperrors "github.com/abrezinsky/eurovote/internal/errors"
	"github.com/abrezinsky/eurovote/internal/logger"
	"github.com/abrezinsky/eurovote/internal/models"
)

func quietLogger() logger.Logger {
	return logger.NewWithOptions(io.Discard, slog.LevelDebug, logger.FormatText)
}

// openFlags is the default state of a fresh database
var openFlags = models.FeatureFlags{VotingOpen: true}

// recordingBroadcaster captures broadcasts for assertions
type recordingBroadcaster struct {
	mu       sync.Mutex
	settings []models.FeatureFlags
	reasons  []string
}

func (b *recordingBroadcaster) BroadcastSettings(flags models.FeatureFlags) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.settings = append(b.settings, flags)
}

func (b *recordingBroadcaster) BroadcastLeaderboardChanged(reason string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reasons = append(b.reasons, reason)
}

func (b *recordingBroadcaster) lastReason() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.reasons) == 0 {
		return ""
	}
	return b.reasons[len(b.reasons)-1]
}

// assertKind fails the test unless err carries the expected error kind
func assertKind(t *testing.T, err error, kind apperrors.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	if got := apperrors.KindOf(err); got != kind {
		t.Fatalf("expected %s error, got %s (%v)", kind, got, err)
	}
}

func intp(v int) *int { return &v }
