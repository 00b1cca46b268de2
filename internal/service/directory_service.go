package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pheme-social/pheme-service/internal/cache"
	"github.com/pheme-social/pheme-service/internal/consumer"
	"github.com/pheme-social/pheme-service/internal/domain"
	"github.com/pheme-social/pheme-service/internal/repository"
	pkglog "github.com/pheme-social/pheme-service/pkg/log"
)

// directoryService implements DirectoryService. It is also the consumer
// handler for auth-service user lifecycle events, which keeps the local user
// projection and all dependent data in sync.
type directoryService struct {
	users     repository.UserRepository
	phemes    repository.PhemeRepository
	graph     repository.GraphRepository
	userCache cache.UserCache
	cacheTTL  time.Duration

	// Serialises lifecycle events per user so a create/delete pair for the
	// same account cannot interleave.
	userLocks sync.Map // uint -> *sync.Mutex
}

// NewDirectoryService creates a new DirectoryService instance.
func NewDirectoryService(
	users repository.UserRepository,
	phemes repository.PhemeRepository,
	graph repository.GraphRepository,
	userCache cache.UserCache,
	cacheTTL time.Duration,
) DirectoryService {
	return &directoryService{
		users:     users,
		phemes:    phemes,
		graph:     graph,
		userCache: userCache,
		cacheTTL:  cacheTTL,
	}
}

// SearchByNamePrefix returns users whose name starts with the query. An empty
// or whitespace query matches nobody.
func (s *directoryService) SearchByNamePrefix(ctx context.Context, query string) ([]domain.UserSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.UserSummary{}, nil
	}
	return s.users.SearchByNamePrefix(ctx, query)
}

// GetByID returns a user, cache-aside through Redis.
func (s *directoryService) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	l := pkglog.Ctx(ctx)

	if s.userCache != nil {
		user, err := s.userCache.Get(ctx, id)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			l.Warn().Err(err).Uint(pkglog.FieldUserID, id).Msg("user cache get failed, falling back to db")
		}
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.userCache != nil {
		if err := s.userCache.Set(ctx, user, s.cacheTTL); err != nil {
			l.Warn().Err(err).Uint(pkglog.FieldUserID, id).Msg("failed to populate user cache")
		}
	}

	return user, nil
}

// Friends returns the IDs of the user's friends.
func (s *directoryService) Friends(ctx context.Context, userID uint) ([]uint, error) {
	return s.graph.FriendIDs(ctx, userID)
}

// Followers returns the IDs of the user's followers.
func (s *directoryService) Followers(ctx context.Context, userID uint) ([]uint, error) {
	return s.graph.FollowerIDs(ctx, userID)
}

// HandleUserEvent applies an auth-service lifecycle event. Events for the same
// user are serialised; the handler is idempotent under redelivery.
func (s *directoryService) HandleUserEvent(ctx context.Context, event *consumer.UserEvent) error {
	l := pkglog.Ctx(ctx)

	if event.UserID == 0 {
		l.Warn().Str("type", event.Type).Msg("user event without user id, skipping")
		return nil
	}

	mu := s.lockFor(event.UserID)
	mu.Lock()
	defer mu.Unlock()

	switch event.Type {
	case consumer.EventUserCreated:
		return s.handleUserCreated(ctx, event)
	case consumer.EventUserDeleted:
		return s.handleUserDeleted(ctx, event.UserID)
	default:
		l.Warn().Str("type", event.Type).Msg("unknown user event type, skipping")
		return nil
	}
}

func (s *directoryService) handleUserCreated(ctx context.Context, event *consumer.UserEvent) error {
	user := &domain.User{ID: event.UserID, Name: event.UserName}
	if err := s.users.Create(ctx, user); err != nil {
		return err
	}

	if s.userCache != nil {
		if err := s.userCache.Delete(ctx, event.UserID); err != nil {
			l := pkglog.Ctx(ctx)
			l.Warn().Err(err).Uint(pkglog.FieldUserID, event.UserID).Msg("failed to invalidate user cache")
		}
	}
	return nil
}

// handleUserDeleted cascades an account deletion: the user's phemes and graph
// edges go first, then the directory row, then the cache entry. Wall posts the
// user authored on friends' walls stay with the wall owner.
func (s *directoryService) handleUserDeleted(ctx context.Context, userID uint) error {
	l := pkglog.Ctx(ctx)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.phemes.DeleteByOwner(gctx, userID)
	})
	g.Go(func() error {
		return s.graph.RemoveAllFor(gctx, userID)
	})
	if err := g.Wait(); err != nil {
		l.Error().Err(err).Uint(pkglog.FieldUserID, userID).Msg("failed to cascade user deletion")
		return err
	}

	if err := s.users.Delete(ctx, userID); err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		l.Error().Err(err).Uint(pkglog.FieldUserID, userID).Msg("failed to delete user row")
		return err
	}

	if s.userCache != nil {
		if err := s.userCache.Delete(ctx, userID); err != nil {
			l.Warn().Err(err).Uint(pkglog.FieldUserID, userID).Msg("failed to invalidate user cache")
		}
	}
	return nil
}

func (s *directoryService) lockFor(userID uint) *sync.Mutex {
	mu, _ := s.userLocks.LoadOrStore(userID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Ensure interface is satisfied at compile time.
var _ DirectoryService = (*directoryService)(nil)
