package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/pheme-social/pheme-service/internal/domain"
)

// GormPhemeRepository implements PhemeRepository using GORM.
type GormPhemeRepository struct {
	db *gorm.DB
}

// NewGormPhemeRepository creates a new GORM-backed pheme repository.
func NewGormPhemeRepository(db *gorm.DB) *GormPhemeRepository {
	return &GormPhemeRepository{db: db}
}

// Create inserts a pheme and fills in the allocated ID and timestamps.
func (r *GormPhemeRepository) Create(ctx context.Context, pheme *domain.Pheme) error {
	model := domain.PhemeToModel(pheme)
	model.ID = 0 // let the database allocate
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	*pheme = *model.ToDomain()
	return nil
}

// GetByID retrieves a pheme by ID.
func (r *GormPhemeRepository) GetByID(ctx context.Context, id uint) (*domain.Pheme, error) {
	var model domain.PhemeModel
	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrPhemeNotFound
		}
		return nil, result.Error
	}
	return model.ToDomain(), nil
}

// Update replaces the mutable fields of a pheme in one statement. ID, owner
// and author are never touched.
func (r *GormPhemeRepository) Update(ctx context.Context, pheme *domain.Pheme) error {
	result := r.db.WithContext(ctx).Model(&domain.PhemeModel{}).
		Where("id = ?", pheme.ID).
		Updates(map[string]interface{}{
			"visibility": byte(pheme.Visibility),
			"category":   pheme.Category,
			"text":       pheme.Text,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPhemeNotFound
	}

	var updated domain.PhemeModel
	if err := r.db.WithContext(ctx).First(&updated, "id = ?", pheme.ID).Error; err != nil {
		return err
	}
	*pheme = *updated.ToDomain()
	return nil
}

// Delete removes a pheme by ID.
func (r *GormPhemeRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.PhemeModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPhemeNotFound
	}
	return nil
}

// ListByOwner returns the owner's phemes at or above the visibility floor,
// newest first.
func (r *GormPhemeRepository) ListByOwner(ctx context.Context, ownerID uint, floor domain.Visibility) ([]domain.Pheme, error) {
	return r.list(ctx, r.db.WithContext(ctx).
		Where("owner_id = ? AND visibility >= ?", ownerID, byte(floor)))
}

// ListByOwners is ListByOwner over a set of owners.
func (r *GormPhemeRepository) ListByOwners(ctx context.Context, ownerIDs []uint, floor domain.Visibility) ([]domain.Pheme, error) {
	if len(ownerIDs) == 0 {
		return []domain.Pheme{}, nil
	}
	return r.list(ctx, r.db.WithContext(ctx).
		Where("owner_id IN ? AND visibility >= ?", ownerIDs, byte(floor)))
}

func (r *GormPhemeRepository) list(ctx context.Context, tx *gorm.DB) ([]domain.Pheme, error) {
	var models []domain.PhemeModel
	if err := tx.Order("created_at desc").Find(&models).Error; err != nil {
		return nil, err
	}
	phemes := make([]domain.Pheme, 0, len(models))
	for _, m := range models {
		phemes = append(phemes, *m.ToDomain())
	}
	return phemes, nil
}

// DeleteByOwner removes every pheme owned by the user.
func (r *GormPhemeRepository) DeleteByOwner(ctx context.Context, ownerID uint) error {
	return r.db.WithContext(ctx).Delete(&domain.PhemeModel{}, "owner_id = ?", ownerID).Error
}

// Ensure interface is satisfied at compile time.
var _ PhemeRepository = (*GormPhemeRepository)(nil)
