package ports

import (
	"context"

	"github.com/99minutos/task-tracker/internal/core/domain"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// Create inserts a user. A duplicate email returns domain.ErrUserExists.
	Create(ctx context.Context, u *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByIDs returns the users that exist among ids, in no particular order.
	FindByIDs(ctx context.Context, ids []string) ([]*domain.User, error)
}

// MemberRepository defines persistence operations for team memberships.
type MemberRepository interface {
	// Create inserts a membership. An existing membership for the user returns domain.ErrMemberExists.
	Create(ctx context.Context, m *domain.Member) error
	FindByUserID(ctx context.Context, userID string) (*domain.Member, error)
	// List returns all memberships joined with user name and email, ordered by name.
	List(ctx context.Context) ([]*domain.MemberDetail, error)
	UpdateRole(ctx context.Context, userID string, isManager bool) error
	Delete(ctx context.Context, userID string) error
	CountManagers(ctx context.Context) (int64, error)
}
