package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/99minutos/task-tracker/internal/core/domain"
	"github.com/99minutos/task-tracker/internal/core/ports"
)

// AuthService resolves principals and bootstraps identities.
type AuthService struct {
	users     ports.UserRepository
	members   ports.MemberRepository
	jwtSecret string
	tokenTTL  time.Duration
	logger    zerolog.Logger
}

func NewAuthService(users ports.UserRepository, members ports.MemberRepository, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{users: users, members: members, jwtSecret: jwtSecret, tokenTTL: tokenTTL, logger: logger}
}

// Resolve loads the user and membership behind userID. Unknown users are
// unauthenticated; users without membership are plain non-manager principals.
func (s *AuthService) Resolve(ctx context.Context, userID string) (domain.Principal, error) {
	if userID == "" {
		return domain.Principal{}, domain.ErrUnauthenticated
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.Principal{}, domain.ErrUnknownUser
		}
		return domain.Principal{}, err
	}

	p := domain.Principal{UserID: user.ID, Name: user.Name, Email: user.Email}

	member, err := s.members.FindByUserID(ctx, user.ID)
	switch {
	case err == nil:
		p.IsMember = true
		p.IsManager = member.IsManager
	case errors.Is(err, domain.ErrMemberNotFound):
	default:
		return domain.Principal{}, err
	}
	return p, nil
}

// RegisterUser creates a user and, when a role is given, its membership.
// Rerunning it with a role for a user left without a membership adds the
// membership instead of failing with ErrUserExists.
func (s *AuthService) RegisterUser(ctx context.Context, input ports.RegisterUserInput) (*domain.User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" {
		return nil, domain.Validation("name is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, domain.Validation("email must be a valid email")
	}

	var isManager bool
	if input.Role != "" {
		var err error
		if isManager, err = domain.ParseRole(input.Role); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if !errors.Is(err, domain.ErrUserExists) || input.Role == "" {
			return nil, err
		}
		existing, findErr := s.users.FindByEmail(ctx, email)
		if findErr != nil {
			return nil, err
		}
		if _, findErr := s.members.FindByUserID(ctx, existing.ID); !errors.Is(findErr, domain.ErrMemberNotFound) {
			return nil, err
		}
		user = existing
		s.logger.Warn().Str("user_id", user.ID).Msg("user exists without membership, adding it")
	}

	if input.Role != "" {
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
	}

	s.logger.Info().Str("user_id", user.ID).Str("role", input.Role).Msg("user registered")
	return user, nil
}

// IssueToken signs a bearer token for the user with the given email.
func (s *AuthService) IssueToken(ctx context.Context, email string) (string, *domain.User, error) {
	if s.jwtSecret == "" {
		return "", nil, errors.New("jwt secret is not configured")
	}

	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", nil, err
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
