package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pheme-social/pheme-service/internal/cache"
	"github.com/pheme-social/pheme-service/internal/domain"
	"github.com/pheme-social/pheme-service/internal/repository"
)

// In-memory fakes for the repository and cache interfaces. They mirror the
// GORM implementations closely enough for service-level behavior: canonical
// friend pairs, newest-first ordering, empty (never nil) result slices.

type memUserRepo struct {
	mu    sync.Mutex
	users map[uint]domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uint]domain.User)}
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; ok {
		return nil
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	r.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id uint) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &u, nil
}

func (r *memUserRepo) SearchByNamePrefix(_ context.Context, prefix string) ([]domain.UserSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.UserSummary{}
	for _, u := range r.users {
		if strings.HasPrefix(u.Name, prefix) {
			out = append(out, u.Summary())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memUserRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

type memPhemeRepo struct {
	mu     sync.Mutex
	nextID uint
	phemes map[uint]domain.Pheme
}

func newMemPhemeRepo() *memPhemeRepo {
	return &memPhemeRepo{nextID: 1, phemes: make(map[uint]domain.Pheme)}
}

func (r *memPhemeRepo) Create(_ context.Context, pheme *domain.Pheme) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	pheme.ID = r.nextID
	r.nextID++
	if pheme.CreatedAt.IsZero() {
		pheme.CreatedAt = time.Now()
	}
	pheme.UpdatedAt = pheme.CreatedAt
	r.phemes[pheme.ID] = *pheme
	return nil
}

func (r *memPhemeRepo) GetByID(_ context.Context, id uint) (*domain.Pheme, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.phemes[id]
	if !ok {
		return nil, repository.ErrPhemeNotFound
	}
	return &p, nil
}

func (r *memPhemeRepo) Update(_ context.Context, pheme *domain.Pheme) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.phemes[pheme.ID]
	if !ok {
		return repository.ErrPhemeNotFound
	}
	current.Visibility = pheme.Visibility
	current.Category = pheme.Category
	current.Text = pheme.Text
	current.UpdatedAt = time.Now()
	r.phemes[pheme.ID] = current
	*pheme = current
	return nil
}

func (r *memPhemeRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.phemes[id]; !ok {
		return repository.ErrPhemeNotFound
	}
	delete(r.phemes, id)
	return nil
}

func (r *memPhemeRepo) ListByOwner(ctx context.Context, ownerID uint, floor domain.Visibility) ([]domain.Pheme, error) {
	return r.ListByOwners(ctx, []uint{ownerID}, floor)
}

func (r *memPhemeRepo) ListByOwners(_ context.Context, ownerIDs []uint, floor domain.Visibility) ([]domain.Pheme, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	owners := make(map[uint]struct{}, len(ownerIDs))
	for _, id := range ownerIDs {
		owners[id] = struct{}{}
	}
	out := []domain.Pheme{}
	for _, p := range r.phemes {
		if _, ok := owners[p.OwnerID]; ok && p.Visibility >= floor {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *memPhemeRepo) DeleteByOwner(_ context.Context, ownerID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, p := range r.phemes {
		if p.OwnerID == ownerID {
			delete(r.phemes, id)
		}
	}
	return nil
}

type edge struct{ a, b uint }

func canonical(a, b uint) edge {
	if a > b {
		a, b = b, a
	}
	return edge{a, b}
}

type memGraphRepo struct {
	mu      sync.Mutex
	friends map[edge]struct{}
	follows map[edge]struct{} // a follows b
}

func newMemGraphRepo() *memGraphRepo {
	return &memGraphRepo{
		friends: make(map[edge]struct{}),
		follows: make(map[edge]struct{}),
	}
}

func (r *memGraphRepo) AddFriend(_ context.Context, userA, userB uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.friends[canonical(userA, userB)] = struct{}{}
	return nil
}

func (r *memGraphRepo) RemoveFriend(_ context.Context, userA, userB uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := canonical(userA, userB)
	_, ok := r.friends[e]
	delete(r.friends, e)
	return ok, nil
}

func (r *memGraphRepo) AreFriends(_ context.Context, userA, userB uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.friends[canonical(userA, userB)]
	return ok, nil
}

func (r *memGraphRepo) FriendIDs(_ context.Context, userID uint) ([]uint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []uint{}
	for e := range r.friends {
		switch userID {
		case e.a:
			out = append(out, e.b)
		case e.b:
			out = append(out, e.a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (r *memGraphRepo) AddFollower(_ context.Context, followerID, followedID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.follows[edge{followerID, followedID}] = struct{}{}
	return nil
}

func (r *memGraphRepo) RemoveFollower(_ context.Context, followerID, followedID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := edge{followerID, followedID}
	_, ok := r.follows[e]
	delete(r.follows, e)
	return ok, nil
}

func (r *memGraphRepo) FollowerIDs(_ context.Context, followedID uint) ([]uint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []uint{}
	for e := range r.follows {
		if e.b == followedID {
			out = append(out, e.a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (r *memGraphRepo) RemoveAllFor(_ context.Context, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for e := range r.friends {
		if e.a == userID || e.b == userID {
			delete(r.friends, e)
		}
	}
	for e := range r.follows {
		if e.a == userID || e.b == userID {
			delete(r.follows, e)
		}
	}
	return nil
}

type memUserCache struct {
	mu    sync.Mutex
	users map[uint]domain.User

	gets, hits, sets, deletes int
}

func newMemUserCache() *memUserCache {
	return &memUserCache{users: make(map[uint]domain.User)}
}

func (c *memUserCache) Get(_ context.Context, userID uint) (*domain.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	u, ok := c.users[userID]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	c.hits++
	return &u, nil
}

func (c *memUserCache) Set(_ context.Context, user *domain.User, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.users[user.ID] = *user
	return nil
}

func (c *memUserCache) Delete(_ context.Context, userIDs ...uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deletes++
	for _, id := range userIDs {
		delete(c.users, id)
	}
	return nil
}

func (c *memUserCache) Close() error { return nil }

// Interface conformance for the fakes.
var (
	_ repository.UserRepository  = (*memUserRepo)(nil)
	_ repository.PhemeRepository = (*memPhemeRepo)(nil)
	_ repository.GraphRepository = (*memGraphRepo)(nil)
	_ cache.UserCache            = (*memUserCache)(nil)
)
