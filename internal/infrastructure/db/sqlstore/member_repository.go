package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/99minutos/task-tracker/internal/core/domain"
)

type MemberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

// memberRow is a membership joined with its user.
type memberRow struct {
	ID        string
	UserID    string
	IsManager bool
	CreatedAt time.Time
	UpdatedAt time.Time
	Name      string
	Email     string
}

func (r *MemberRepository) Create(ctx context.Context, m *domain.Member) error {
	row := memberModel{
		ID:        m.ID,
		UserID:    m.UserID,
		IsManager: m.IsManager,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrMemberExists
		}
		return fmt.Errorf("insert member: %w", err)
	}
	return nil
}

func (r *MemberRepository) FindByUserID(ctx context.Context, userID string) (*domain.Member, error) {
	var m memberModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, fmt.Errorf("find member: %w", err)
	}
	return &domain.Member{
		ID:        m.ID,
		UserID:    m.UserID,
		IsManager: m.IsManager,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}, nil
}

func (r *MemberRepository) List(ctx context.Context) ([]*domain.MemberDetail, error) {
	var rows []memberRow
	err := r.db.WithContext(ctx).
		Table("members").
		Select("members.id, members.user_id, members.is_manager, members.created_at, members.updated_at, users.name, users.email").
		Joins("JOIN users ON users.id = members.user_id").
		Order("users.name ASC, users.email ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	out := make([]*domain.MemberDetail, 0, len(rows))
	for _, row := range rows {
		out = append(out, &domain.MemberDetail{
			Member: domain.Member{
				ID:        row.ID,
				UserID:    row.UserID,
				IsManager: row.IsManager,
				CreatedAt: row.CreatedAt.UTC(),
				UpdatedAt: row.UpdatedAt.UTC(),
			},
			Name:  row.Name,
			Email: row.Email,
		})
	}
	return out, nil
}

func (r *MemberRepository) UpdateRole(ctx context.Context, userID string, isManager bool) error {
	res := r.db.WithContext(ctx).Model(&memberModel{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"is_manager": isManager,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return fmt.Errorf("update member: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

func (r *MemberRepository) Delete(ctx context.Context, userID string) error {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&memberModel{})
	if res.Error != nil {
		return fmt.Errorf("delete member: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

func (r *MemberRepository) CountManagers(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&memberModel{}).Where("is_manager = ?", true).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count managers: %w", err)
	}
	return n, nil
}
