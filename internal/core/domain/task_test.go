package domain

import (
	"errors"
	"reflect"
	"testing"
)

func TestTaskStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to TaskStatus
		want     bool
	}{
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusRejected, true},
		{StatusRejected, StatusPending, true},
		{StatusPending, StatusPending, false},
		{StatusRejected, StatusApproved, false},
		{StatusApproved, StatusPending, false},
		{StatusApproved, StatusRejected, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("%s -> %s: want %v, got %v", tc.from, tc.to, tc.want, got)
		}
	}
}

func TestTask_RejectThenResubmit(t *testing.T) {
	task := &Task{ID: "t", Status: StatusPending}

	if err := task.Reject(""); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if task.Status != StatusPending {
		t.Fatal("failed reject must not change status")
	}

	if err := task.Reject("  needs detail  "); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if task.Feedback == nil || *task.Feedback != "needs detail" {
		t.Fatalf("unexpected feedback: %v", task.Feedback)
	}
	if err := task.CheckInvariants(); err != nil {
		t.Fatalf("invariants: %v", err)
	}

	if err := task.Resubmit(); err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if task.Status != StatusPending || task.Feedback != nil {
		t.Fatalf("unexpected task after resubmit: %+v", task)
	}

	if err := task.Resubmit(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("resubmitting a pending task must fail, got %v", err)
	}
}

func TestTask_ToggleCompletionRequiresApproval(t *testing.T) {
	task := &Task{Status: StatusPending}
	if err := task.ToggleCompletion(); !errors.Is(err, ErrAuthorization) {
		t.Fatalf("expected authorization error, got %v", err)
	}

	if err := task.Approve(); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := task.ToggleCompletion(); err != nil || !task.Completed {
		t.Fatalf("toggle: err=%v completed=%v", err, task.Completed)
	}
	if err := task.CheckInvariants(); err != nil {
		t.Fatalf("invariants: %v", err)
	}
}

func TestTask_CheckInvariants(t *testing.T) {
	empty := ""
	if err := (&Task{Status: StatusRejected, Feedback: &empty}).CheckInvariants(); err == nil {
		t.Error("rejected without feedback must violate invariants")
	}
	if err := (&Task{Status: StatusPending, Completed: true}).CheckInvariants(); err == nil {
		t.Error("completed pending task must violate invariants")
	}
}

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{"b", "a", "B", "a", "", "b"})
	want := []string{"b", "a", "B"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("want %v, got %v", want, got)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-04")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Format(DateLayout) != "2024-03-04" {
		t.Errorf("unexpected date: %s", d)
	}
	if _, err := ParseDate("04/03/2024"); !errors.Is(err, ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}
