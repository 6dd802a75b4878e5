package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_KindMatching(t *testing.T) {
	wrapped := fmt.Errorf("load: %w", ErrTaskNotFound)

	if !errors.Is(wrapped, ErrTaskNotFound) {
		t.Error("expected match on the specific sentinel")
	}
	if !errors.Is(wrapped, ErrNotFound) {
		t.Error("expected match on the kind sentinel")
	}
	if errors.Is(wrapped, ErrConflict) {
		t.Error("unexpected match on another kind")
	}
	if errors.Is(ErrTaskNotFound, ErrMemberNotFound) {
		t.Error("specific sentinels of the same kind must not match each other")
	}
}

func TestKindOf(t *testing.T) {
	if got := KindOf(fmt.Errorf("x: %w", ErrInvalidTransition)); got != KindConflict {
		t.Errorf("expected conflict, got %q", got)
	}
	if got := KindOf(errors.New("plain")); got != "" {
		t.Errorf("expected empty kind, got %q", got)
	}
}

func TestParseRole(t *testing.T) {
	if ok, err := ParseRole(RoleManager); err != nil || !ok {
		t.Errorf("manager: ok=%v err=%v", ok, err)
	}
	if ok, err := ParseRole(RoleEmployee); err != nil || ok {
		t.Errorf("employee: ok=%v err=%v", ok, err)
	}
	if _, err := ParseRole("Manager"); !errors.Is(err, ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}
