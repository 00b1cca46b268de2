package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/pheme-social/pheme-service/internal/domain"
)

// GormGraphRepository implements GraphRepository using GORM.
type GormGraphRepository struct {
	db *gorm.DB
}

// NewGormGraphRepository creates a new GORM-backed graph repository.
func NewGormGraphRepository(db *gorm.DB) *GormGraphRepository {
	return &GormGraphRepository{db: db}
}

// friendPair orders a friend pair canonically (smaller ID first).
func friendPair(a, b uint) (uint, uint) {
	if a > b {
		return b, a
	}
	return a, b
}

// AddFriend creates the symmetric friend edge. Re-adding an existing edge is
// a no-op thanks to the canonical pair and FirstOrCreate.
func (r *GormGraphRepository) AddFriend(ctx context.Context, userA, userB uint) error {
	a, b := friendPair(userA, userB)
	model := domain.FriendModel{UserAID: a, UserBID: b}
	return r.db.WithContext(ctx).
		Where("user_a_id = ? AND user_b_id = ?", a, b).
		FirstOrCreate(&model).Error
}

// RemoveFriend deletes the edge for both directions in one statement and
// reports whether it existed.
func (r *GormGraphRepository) RemoveFriend(ctx context.Context, userA, userB uint) (bool, error) {
	a, b := friendPair(userA, userB)
	result := r.db.WithContext(ctx).
		Delete(&domain.FriendModel{}, "user_a_id = ? AND user_b_id = ?", a, b)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// AreFriends checks whether the symmetric edge exists.
func (r *GormGraphRepository) AreFriends(ctx context.Context, userA, userB uint) (bool, error) {
	a, b := friendPair(userA, userB)
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.FriendModel{}).
		Where("user_a_id = ? AND user_b_id = ?", a, b).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FriendIDs returns the IDs of all friends of a user.
func (r *GormGraphRepository) FriendIDs(ctx context.Context, userID uint) ([]uint, error) {
	var models []domain.FriendModel
	err := r.db.WithContext(ctx).
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(models))
	for _, m := range models {
		if m.UserAID == userID {
			ids = append(ids, m.UserBID)
		} else {
			ids = append(ids, m.UserAID)
		}
	}
	return ids, nil
}

// AddFollower records followerID as a follower of followedID, idempotently.
func (r *GormGraphRepository) AddFollower(ctx context.Context, followerID, followedID uint) error {
	model := domain.FollowerModel{FollowerID: followerID, FollowedID: followedID}
	return r.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		FirstOrCreate(&model).Error
}

// RemoveFollower deletes the directed edge and reports whether it existed.
func (r *GormGraphRepository) RemoveFollower(ctx context.Context, followerID, followedID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Delete(&domain.FollowerModel{}, "follower_id = ? AND followed_id = ?", followerID, followedID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// FollowerIDs returns the IDs of all followers of a user.
func (r *GormGraphRepository) FollowerIDs(ctx context.Context, followedID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&domain.FollowerModel{}).
		Where("followed_id = ?", followedID).
		Pluck("follower_id", &ids).Error
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []uint{}
	}
	return ids, nil
}

// RemoveAllFor deletes every edge referencing the user, in either role.
// Runs in a transaction so a partially-cascaded graph is never visible.
func (r *GormGraphRepository) RemoveAllFor(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&domain.FriendModel{},
			"user_a_id = ? OR user_b_id = ?", userID, userID).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.FollowerModel{},
			"follower_id = ? OR followed_id = ?", userID, userID).Error
	})
}

// Ensure interface is satisfied at compile time.
var _ GraphRepository = (*GormGraphRepository)(nil)
