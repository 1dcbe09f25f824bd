package repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"panchayat-portal/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return fmt.Errorf("create user: %w", mapErr(err))
	}
	return nil
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *UserRepo) FindByEmailOrMobile(ctx context.Context, identifier string) (*domain.User, error) {
	return r.first(ctx, "email = ? OR mobile_no = ?", identifier, identifier)
}

func (r *UserRepo) first(ctx context.Context, query string, args ...any) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).Where(query, args...).First(&u).Error; err != nil {
		return nil, fmt.Errorf("find user: %w", mapErr(err))
	}
	return &u, nil
}

func (r *UserRepo) UpdateAddress(ctx context.Context, id, address string, at time.Time) error {
	return r.updateColumns(ctx, id, map[string]any{"address": address, "updated_at": at})
}

func (r *UserRepo) SetAccountStatus(ctx context.Context, id string, active bool, at time.Time) error {
	return r.updateColumns(ctx, id, map[string]any{"account_status": active, "updated_at": at})
}

func (r *UserRepo) updateColumns(ctx context.Context, id string, cols map[string]any) error {
	res := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return fmt.Errorf("update user: %w", mapErr(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update user: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *UserRepo) List(ctx context.Context, f domain.UserFilter) ([]domain.User, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.User{})
	if s := strings.TrimSpace(f.Q); s != "" {
		like := "%" + s + "%"
		q = q.Where("email LIKE ? OR user_id LIKE ? OR username LIKE ?", like, like, like)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	var us []domain.User
	err := q.Order("created_at DESC").
		Limit(clampLimit(f.Limit, 20, 100)).
		Offset(max(0, f.Offset)).
		Find(&us).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return us, total, nil
}
