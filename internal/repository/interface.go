package repository

import (
	"context"
	"errors"

	"github.com/pheme-social/pheme-service/internal/domain"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrPhemeNotFound = errors.New("pheme not found")
)

// UserRepository persists the directory projection of auth-service users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uint) (*domain.User, error)
	SearchByNamePrefix(ctx context.Context, prefix string) ([]domain.UserSummary, error)
	Delete(ctx context.Context, id uint) error
}

// PhemeRepository persists phemes. All mutations are single-statement and
// therefore atomic per entity.
type PhemeRepository interface {
	Create(ctx context.Context, pheme *domain.Pheme) error
	GetByID(ctx context.Context, id uint) (*domain.Pheme, error)
	Update(ctx context.Context, pheme *domain.Pheme) error
	Delete(ctx context.Context, id uint) error
	// ListByOwner returns the owner's phemes at or above the visibility floor,
	// newest first.
	ListByOwner(ctx context.Context, ownerID uint, floor domain.Visibility) ([]domain.Pheme, error)
	// ListByOwners is ListByOwner over a set of owners.
	ListByOwners(ctx context.Context, ownerIDs []uint, floor domain.Visibility) ([]domain.Pheme, error)
	// DeleteByOwner removes every pheme owned by the user. Used by the
	// account-deletion cascade.
	DeleteByOwner(ctx context.Context, ownerID uint) error
}

// GraphRepository persists friend and follower edges. Friend pairs are
// canonical (smaller ID first); follower pairs are directed.
type GraphRepository interface {
	// AddFriend is idempotent: re-adding an existing edge succeeds without
	// creating a duplicate.
	AddFriend(ctx context.Context, userA, userB uint) error
	// RemoveFriend reports whether an edge actually existed.
	RemoveFriend(ctx context.Context, userA, userB uint) (bool, error)
	AreFriends(ctx context.Context, userA, userB uint) (bool, error)
	FriendIDs(ctx context.Context, userID uint) ([]uint, error)

	AddFollower(ctx context.Context, followerID, followedID uint) error
	RemoveFollower(ctx context.Context, followerID, followedID uint) (bool, error)
	FollowerIDs(ctx context.Context, followedID uint) ([]uint, error)

	// RemoveAllFor deletes every edge referencing the user, in either role.
	RemoveAllFor(ctx context.Context, userID uint) error
}
