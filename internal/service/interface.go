package service

import (
	"context"
	"errors"

	"github.com/pheme-social/pheme-service/internal/consumer"
	"github.com/pheme-social/pheme-service/internal/domain"
)

var (
	// ErrValidation covers any missing or empty required field.
	ErrValidation = errors.New("invalid request")
	// ErrNotFoundOrForbidden covers both a missing pheme and one the caller
	// may not touch. The two cases are merged on purpose so responses never
	// reveal whether another user's content exists.
	ErrNotFoundOrForbidden = errors.New("pheme not available")
	// ErrInvalidTarget covers graph operations against oneself and against
	// unknown users, again merged on purpose.
	ErrInvalidTarget = errors.New("invalid target user")
)

// PhemeService is the access-controlled surface over the pheme store. Every
// operation takes the caller's resolved user ID and authorizes against it.
type PhemeService interface {
	Create(ctx context.Context, authorID uint, req *domain.PhemeRequest) (*domain.Pheme, error)
	Update(ctx context.Context, callerID, phemeID uint, req *domain.PhemeRequest) (*domain.Pheme, error)
	Get(ctx context.Context, callerID, phemeID uint) (*domain.Pheme, error)
	// Delete removes the pheme and returns it as it existed just before
	// deletion.
	Delete(ctx context.Context, callerID, phemeID uint) (*domain.Pheme, error)
	// ListMine returns every pheme the caller owns, any visibility.
	ListMine(ctx context.Context, callerID uint) ([]domain.Pheme, error)
	// ListUser returns the target user's phemes at the visibility floor the
	// caller's relation to them grants.
	ListUser(ctx context.Context, callerID, targetID uint) ([]domain.Pheme, error)
	// Feed returns the caller's own phemes plus friends' protected-and-up and
	// followers' public phemes.
	Feed(ctx context.Context, callerID uint) ([]domain.Pheme, error)
}

// SocialGraphService manages friend and follower edges. The caller is always
// one endpoint of the edge being mutated.
type SocialGraphService interface {
	AddFriend(ctx context.Context, selfID, targetID uint) error
	RemoveFriend(ctx context.Context, selfID, targetID uint) error
	// AddFollower records the target as a follower of the caller.
	AddFollower(ctx context.Context, selfID, targetID uint) error
	RemoveFollower(ctx context.Context, selfID, targetID uint) error
}

// DirectoryService exposes the user directory and reacts to auth-service
// lifecycle events, including the synchronous deletion cascade.
type DirectoryService interface {
	SearchByNamePrefix(ctx context.Context, query string) ([]domain.UserSummary, error)
	GetByID(ctx context.Context, id uint) (*domain.User, error)
	Friends(ctx context.Context, userID uint) ([]uint, error)
	Followers(ctx context.Context, userID uint) ([]uint, error)
	consumer.UserEventHandler
}
