package cache

import (
	"context"
	"errors"
	"time"

	"github.com/pheme-social/pheme-service/internal/domain"
)

var ErrCacheMiss = errors.New("cache miss")

// UserCache is a read-through cache for directory lookups. Misses and
// backend failures are soft: callers fall back to the repository.
type UserCache interface {
	Get(ctx context.Context, userID uint) (*domain.User, error)
	Set(ctx context.Context, user *domain.User, ttl time.Duration) error
	Delete(ctx context.Context, userIDs ...uint) error
	Close() error
}
