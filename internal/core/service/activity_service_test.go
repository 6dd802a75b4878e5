package service

import (
	"context"
	"errors"
	"testing"

	"github.com/99minutos/task-tracker/internal/core/domain"
)

func TestActivityService_Process(t *testing.T) {
	repo := &stubActivityRepo{}
	svc := NewActivityService(repo, discardLogger)

	err := svc.Process(context.Background(), domain.TaskActivity{ID: "a-1", TaskID: "t-1", Action: domain.ActionApproved})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.items) != 1 || repo.items[0].TaskID != "t-1" {
		t.Fatalf("activity not stored: %+v", repo.items)
	}
}

func TestActivityService_Process_Invalid(t *testing.T) {
	repo := &stubActivityRepo{}
	svc := NewActivityService(repo, discardLogger)

	if err := svc.Process(context.Background(), domain.TaskActivity{Action: domain.ActionApproved}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(repo.items) != 0 {
		t.Fatal("invalid activity must not be stored")
	}
}

func TestActivityService_Process_RepoError(t *testing.T) {
	boom := errors.New("boom")
	svc := NewActivityService(&stubActivityRepo{err: boom}, discardLogger)

	if err := svc.Process(context.Background(), domain.TaskActivity{TaskID: "t-1", Action: domain.ActionDeleted}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped repo error, got %v", err)
	}
}
