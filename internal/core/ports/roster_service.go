package ports

import (
	"context"

	"github.com/99minutos/task-tracker/internal/core/domain"
)

// RosterService defines team roster management. All operations require manager capability.
type RosterService interface {
	ListMembers(ctx context.Context, p domain.Principal) ([]*domain.MemberDetail, error)
	AddMember(ctx context.Context, p domain.Principal, email, role string) (*domain.MemberDetail, error)
	UpdateRole(ctx context.Context, p domain.Principal, userID, role string) (*domain.MemberDetail, error)
	RemoveMember(ctx context.Context, p domain.Principal, userID string) error
}
