package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"panchayat-portal/internal/domain"
)

type ApplicationRepo struct{ db *gorm.DB }

func NewApplicationRepo(db *gorm.DB) *ApplicationRepo { return &ApplicationRepo{db: db} }

func (r *ApplicationRepo) Create(ctx context.Context, a *domain.Application) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("create application: %w", mapErr(err))
	}
	return nil
}

func (r *ApplicationRepo) FindByID(ctx context.Context, id string) (*domain.Application, error) {
	var a domain.Application
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("find application: %w", mapErr(err))
	}
	return &a, nil
}

func (r *ApplicationRepo) List(ctx context.Context, f domain.ApplicationFilter) ([]domain.Application, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Application{})
	if f.OwnerID != "" {
		q = q.Where("owner_id = ?", f.OwnerID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count applications: %w", err)
	}
	var out []domain.Application
	err := q.Order("created_at DESC").Order("id DESC").
		Limit(clampLimit(f.Limit, domain.LatestLimit, 100)).
		Offset(max(0, f.Offset)).
		Find(&out).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list applications: %w", err)
	}
	return out, total, nil
}

func (r *ApplicationRepo) Update(ctx context.Context, a *domain.Application) error {
	res := r.db.WithContext(ctx).Model(&domain.Application{}).Where("id = ?", a.ID).Updates(map[string]any{
		"service":       a.Service,
		"name":          a.Name,
		"mobile_no":     a.MobileNo,
		"address":       a.Address,
		"document_type": a.DocumentType,
		"status":        a.Status,
		"updated_at":    a.UpdatedAt,
	})
	if res.Error != nil {
		return fmt.Errorf("update application: %w", mapErr(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update application: %w", domain.ErrNotFound)
	}
	return nil
}

// Delete removes the record and returns what was stored.
func (r *ApplicationRepo) Delete(ctx context.Context, id string) (*domain.Application, error) {
	var deleted *domain.Application
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var a domain.Application
		if err := tx.First(&a, "id = ?", id).Error; err != nil {
			return mapErr(err)
		}
		res := tx.Delete(&domain.Application{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		deleted = &a
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("delete application: %w", err)
	}
	return deleted, nil
}
