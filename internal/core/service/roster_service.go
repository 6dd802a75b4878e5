package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/99minutos/task-tracker/internal/core/domain"
	"github.com/99minutos/task-tracker/internal/core/ports"
)

// RosterService manages team memberships on behalf of managers.
type RosterService struct {
	users   ports.UserRepository
	members ports.MemberRepository
	// protectLastManager refuses to demote or remove the only manager.
	protectLastManager bool
	logger             zerolog.Logger
}

func NewRosterService(users ports.UserRepository, members ports.MemberRepository, protectLastManager bool, logger zerolog.Logger) *RosterService {
	return &RosterService{users: users, members: members, protectLastManager: protectLastManager, logger: logger}
}

func (s *RosterService) ListMembers(ctx context.Context, p domain.Principal) ([]*domain.MemberDetail, error) {
	if err := p.RequireManager(); err != nil {
		return nil, err
	}
	return s.members.List(ctx)
}

// AddMember creates a membership for the user registered under email.
func (s *RosterService) AddMember(ctx context.Context, p domain.Principal, email, role string) (*domain.MemberDetail, error) {
	if err := p.RequireManager(); err != nil {
		return nil, err
	}
	isManager, err := domain.ParseRole(role)
	if err != nil {
		return nil, err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, domain.Validation("email is required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	member := &domain.Member{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		IsManager: isManager,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.members.Create(ctx, member); err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Str("role", role).Str("manager_id", p.UserID).Msg("team member added")
	return &domain.MemberDetail{Member: *member, Name: user.Name, Email: user.Email}, nil
}

// UpdateRole switches a member between manager and employee.
func (s *RosterService) UpdateRole(ctx context.Context, p domain.Principal, userID, role string) (*domain.MemberDetail, error) {
	if err := p.RequireManager(); err != nil {
		return nil, err
	}
	isManager, err := domain.ParseRole(role)
	if err != nil {
		return nil, err
	}

	member, err := s.members.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if member.IsManager && !isManager {
		if err := s.ensureAnotherManager(ctx); err != nil {
			return nil, err
		}
	}

	if member.IsManager != isManager {
		if err := s.members.UpdateRole(ctx, userID, isManager); err != nil {
			return nil, err
		}
		member.IsManager = isManager
		member.UpdatedAt = time.Now().UTC()
		s.logger.Info().Str("user_id", userID).Str("role", role).Str("manager_id", p.UserID).Msg("team member role updated")
	}

	detail := &domain.MemberDetail{Member: *member}
	if user, err := s.users.FindByID(ctx, userID); err == nil {
		detail.Name = user.Name
		detail.Email = user.Email
	}
	return detail, nil
}

// RemoveMember deletes a membership. The user itself is kept.
func (s *RosterService) RemoveMember(ctx context.Context, p domain.Principal, userID string) error {
	if err := p.RequireManager(); err != nil {
		return err
	}

	member, err := s.members.FindByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if member.IsManager {
		if err := s.ensureAnotherManager(ctx); err != nil {
			return err
		}
	}

	if err := s.members.Delete(ctx, userID); err != nil {
		return err
	}

	s.logger.Info().Str("user_id", userID).Str("manager_id", p.UserID).Msg("team member removed")
	return nil
}

func (s *RosterService) ensureAnotherManager(ctx context.Context) error {
	if !s.protectLastManager {
		return nil
	}
	n, err := s.members.CountManagers(ctx)
	if err != nil {
		return err
	}
	if n <= 1 {
		return domain.ErrLastManager
	}
	return nil
}
