package ports

import (
	"context"

	"github.com/99minutos/task-tracker/internal/core/domain"
)

// PrincipalResolver turns an authenticated user id into a Principal.
type PrincipalResolver interface {
	Resolve(ctx context.Context, userID string) (domain.Principal, error)
}

// RegisterUserInput describes a user created out of band (CLI bootstrap).
// Role is empty for a user without team membership.
type RegisterUserInput struct {
	Name  string
	Email string
	Role  string
}

// AuthService covers identity concerns: principal resolution, user bootstrap and
// development token issuing.
type AuthService interface {
	PrincipalResolver
	RegisterUser(ctx context.Context, input RegisterUserInput) (*domain.User, error)
	IssueToken(ctx context.Context, email string) (string, *domain.User, error)
}
