package service

import (
	"context"
	"errors"
	"testing"

	"github.com/99minutos/task-tracker/internal/core/domain"
)

func newRosterFixture(protect bool) (*RosterService, *stubMemberRepo) {
	users := newStubUserRepo(userAlice, userBob, userManager, userNew)
	members := newStubMemberRepo(users,
		&domain.Member{ID: "m-mona", UserID: userManager.ID, IsManager: true},
		&domain.Member{ID: "m-alice", UserID: userAlice.ID},
	)
	return NewRosterService(users, members, protect, discardLogger), members
}

func TestRosterService_NonManagerRejected(t *testing.T) {
	svc, members := newRosterFixture(false)
	ctx := context.Background()

	if _, err := svc.ListMembers(ctx, alice); !errors.Is(err, domain.ErrAuthorization) {
		t.Errorf("list: expected authorization error, got %v", err)
	}
	if _, err := svc.AddMember(ctx, alice, userNew.Email, domain.RoleEmployee); !errors.Is(err, domain.ErrAuthorization) {
		t.Errorf("add: expected authorization error, got %v", err)
	}
	if _, err := svc.UpdateRole(ctx, alice, userAlice.ID, domain.RoleManager); !errors.Is(err, domain.ErrAuthorization) {
		t.Errorf("update: expected authorization error, got %v", err)
	}
	if err := svc.RemoveMember(ctx, alice, userManager.ID); !errors.Is(err, domain.ErrAuthorization) {
		t.Errorf("remove: expected authorization error, got %v", err)
	}

	if len(members.byUser) != 2 || members.updated != 0 || members.deleted != 0 {
		t.Error("non-manager calls must not change the roster")
	}
	if members.byUser[userAlice.ID].IsManager {
		t.Error("alice must not have been promoted")
	}
}

func TestRosterService_ListMembers(t *testing.T) {
	svc, _ := newRosterFixture(false)

	list, err := svc.ListMembers(context.Background(), manager)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 members, got %d", len(list))
	}
	if list[0].Name != "Alice" || list[0].Email != userAlice.Email || list[0].Role() != domain.RoleEmployee {
		t.Errorf("unexpected first member: %+v", list[0])
	}
	if list[1].Name != "Mona" || list[1].Role() != domain.RoleManager {
		t.Errorf("unexpected second member: %+v", list[1])
	}
}

func TestRosterService_AddMember_ThenConflict(t *testing.T) {
	svc, members := newRosterFixture(false)
	ctx := context.Background()

	detail, err := svc.AddMember(ctx, manager, "new@x.com", domain.RoleEmployee)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.UserID != userNew.ID || detail.IsManager || detail.Email != "new@x.com" {
		t.Fatalf("unexpected member: %+v", detail)
	}
	if m := members.byUser[userNew.ID]; m == nil || m.IsManager {
		t.Fatalf("membership not stored as employee: %+v", m)
	}

	_, err = svc.AddMember(ctx, manager, "new@x.com", domain.RoleEmployee)
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict on second add, got %v", err)
	}
}

func TestRosterService_AddMember_ManagerRole(t *testing.T) {
	svc, members := newRosterFixture(false)

	if _, err := svc.AddMember(context.Background(), manager, " New@X.com ", domain.RoleManager); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !members.byUser[userNew.ID].IsManager {
		t.Error("expected manager membership")
	}
}

func TestRosterService_AddMember_Errors(t *testing.T) {
	svc, _ := newRosterFixture(false)
	ctx := context.Background()

	if _, err := svc.AddMember(ctx, manager, "nobody@x.com", domain.RoleEmployee); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
	if _, err := svc.AddMember(ctx, manager, "new@x.com", "owner"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected validation error for role, got %v", err)
	}
}

func TestRosterService_UpdateRole(t *testing.T) {
	svc, members := newRosterFixture(false)

	detail, err := svc.UpdateRole(context.Background(), manager, userAlice.ID, domain.RoleManager)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !detail.IsManager || detail.Name != "Alice" {
		t.Errorf("unexpected detail: %+v", detail)
	}
	if !members.byUser[userAlice.ID].IsManager {
		t.Error("promotion not persisted")
	}

	if _, err := svc.UpdateRole(context.Background(), manager, userBob.ID, domain.RoleManager); !errors.Is(err, domain.ErrMemberNotFound) {
		t.Errorf("expected ErrMemberNotFound, got %v", err)
	}
}

func TestRosterService_SelfDemotionAllowedByDefault(t *testing.T) {
	svc, members := newRosterFixture(false)

	if _, err := svc.UpdateRole(context.Background(), manager, userManager.ID, domain.RoleEmployee); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if members.byUser[userManager.ID].IsManager {
		t.Error("demotion not persisted")
	}
}

func TestRosterService_ProtectLastManager(t *testing.T) {
	svc, members := newRosterFixture(true)
	ctx := context.Background()

	if _, err := svc.UpdateRole(ctx, manager, userManager.ID, domain.RoleEmployee); !errors.Is(err, domain.ErrLastManager) {
		t.Fatalf("expected ErrLastManager on demotion, got %v", err)
	}
	if err := svc.RemoveMember(ctx, manager, userManager.ID); !errors.Is(err, domain.ErrLastManager) {
		t.Fatalf("expected ErrLastManager on removal, got %v", err)
	}

	if _, err := svc.UpdateRole(ctx, manager, userAlice.ID, domain.RoleManager); err != nil {
		t.Fatalf("promote: %v", err)
	}
	if _, err := svc.UpdateRole(ctx, manager, userManager.ID, domain.RoleEmployee); err != nil {
		t.Fatalf("demotion with a second manager must succeed: %v", err)
	}
	if members.byUser[userManager.ID].IsManager {
		t.Error("demotion not persisted")
	}
}

func TestRosterService_RemoveMember(t *testing.T) {
	svc, members := newRosterFixture(false)
	ctx := context.Background()

	if err := svc.RemoveMember(ctx, manager, userAlice.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := members.byUser[userAlice.ID]; ok {
		t.Error("membership still present")
	}
	if err := svc.RemoveMember(ctx, manager, userAlice.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected not found on second removal, got %v", err)
	}
}
