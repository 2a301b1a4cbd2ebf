package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		kind Kind
		msg  string
	}{
		{"NotFound", NotFound("nation not found"), ErrNotFound, "nation not found"},
		{"NotFoundf", NotFoundf("nation %d not found", 7), ErrNotFound, "nation 7 not found"},
		{"Validation", Validation("score out of range"), ErrValidation, "score out of range"},
		{"Validationf", Validationf("%s must be 1-10", "song"), ErrValidation, "song must be 1-10"},
		{"Conflict", Conflict("team exists"), ErrConflict, "team exists"},
		{"Conflictf", Conflictf("user %s already has a team", "u1"), ErrConflict, "user u1 already has a team"},
		{"InvalidInput", InvalidInput("bad json"), ErrInvalidInput, "bad json"},
		{"InvalidInputf", InvalidInputf("bad id %q", "x"), ErrInvalidInput, `bad id "x"`},
		{"Forbidden", Forbidden("not your team"), ErrForbidden, "not your team"},
		{"Locked", Locked("teams are locked"), ErrLocked, "teams are locked"},
		{"Internalf", Internalf("db %s", "down"), ErrInternal, "db down"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.kind {
				t.Errorf("expected Kind %v, got %v", tt.kind, tt.err.Kind)
			}
			if tt.err.Message != tt.msg {
				t.Errorf("expected Message %q, got %q", tt.msg, tt.err.Message)
			}
			if tt.err.Err != nil {
				t.Errorf("expected Err to be nil, got %v", tt.err.Err)
			}
		})
	}
}

func TestInternal(t *testing.T) {
	underlying := errors.New("disk full")
	err := Internal(underlying)

	if err.Kind != ErrInternal {
		t.Errorf("expected Kind ErrInternal, got %v", err.Kind)
	}
	if err.Error() != "internal error: disk full" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, underlying) {
		t.Error("expected errors.Is to find the underlying error")
	}
}

func TestWrap(t *testing.T) {
	underlying := errors.New("no rows")
	err := Wrap(underlying, ErrNotFound, "team not found")

	if err.Kind != ErrNotFound {
		t.Errorf("expected Kind ErrNotFound, got %v", err.Kind)
	}
	if err.Error() != "team not found: no rows" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if err.Unwrap() != underlying {
		t.Error("expected Unwrap to return the underlying error")
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"direct", Locked("leaderboard locked"), ErrLocked},
		{"wrapped with fmt", fmt.Errorf("scoring: %w", Forbidden("nope")), ErrForbidden},
		{"plain error", errors.New("boom"), ErrInternal},
		{"nil", nil, ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIs(t *testing.T) {
	err := fmt.Errorf("update team: %w", Locked("teams are locked"))

	if !Is(err, ErrLocked) {
		t.Error("expected Is(err, ErrLocked)")
	}
	if Is(err, ErrConflict) {
		t.Error("did not expect Is(err, ErrConflict)")
	}
	if Is(errors.New("plain"), ErrInternal) {
		t.Error("plain errors carry no kind")
	}
}

func TestKindString(t *testing.T) {
	if ErrLocked.String() != "locked" {
		t.Errorf("expected locked, got %s", ErrLocked.String())
	}
	if Kind(99).String() != "kind(99)" {
		t.Errorf("unexpected string for unknown kind: %s", Kind(99).String())
	}
}
