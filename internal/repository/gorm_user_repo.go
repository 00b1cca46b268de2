package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pheme-social/pheme-service/internal/domain"
)

// GormUserRepository implements UserRepository using GORM.
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GORM-backed user repository.
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Create inserts a directory row. Lifecycle events may be redelivered, so an
// insert that conflicts on the primary key is treated as already-applied.
func (r *GormUserRepository) Create(ctx context.Context, user *domain.User) error {
	model := domain.UserToModel(user)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(model)
	if result.Error != nil {
		return result.Error
	}
	user.CreatedAt = model.CreatedAt
	return nil
}

// GetByID retrieves a user by ID.
func (r *GormUserRepository) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	var model domain.UserModel
	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}
	return model.ToDomain(), nil
}

// SearchByNamePrefix returns users whose name starts with the prefix,
// newest first. An unmatched prefix yields an empty slice, not an error.
func (r *GormUserRepository) SearchByNamePrefix(ctx context.Context, prefix string) ([]domain.UserSummary, error) {
	var models []domain.UserModel
	err := r.db.WithContext(ctx).
		Where("name LIKE ? ESCAPE '!'", escapeLike(prefix)+"%").
		Order("created_at desc").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.UserSummary, 0, len(models))
	for _, m := range models {
		summaries = append(summaries, m.ToDomain().Summary())
	}
	return summaries, nil
}

// Delete removes a directory row.
func (r *GormUserRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.UserModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// escapeLike neutralises LIKE wildcards in user-supplied search input. The
// escape character is declared with an explicit ESCAPE clause because not
// every driver treats backslash as one by default (sqlite does not).
const likeEscape = '!'

func escapeLike(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%', '_', likeEscape:
			out = append(out, likeEscape)
		}
		out = append(out, s[i])
	}
	return string(out)
}

// Ensure interface is satisfied at compile time.
var _ UserRepository = (*GormUserRepository)(nil)
