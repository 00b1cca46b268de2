package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/pheme-social/pheme-service/internal/domain"
	"github.com/pheme-social/pheme-service/internal/repository"
	pkglog "github.com/pheme-social/pheme-service/pkg/log"
)

// phemeService implements PhemeService.
type phemeService struct {
	phemes repository.PhemeRepository
	users  repository.UserRepository
	graph  repository.GraphRepository
}

// NewPhemeService creates a new PhemeService instance.
func NewPhemeService(phemes repository.PhemeRepository, users repository.UserRepository, graph repository.GraphRepository) PhemeService {
	return &phemeService{
		phemes: phemes,
		users:  users,
		graph:  graph,
	}
}

func validatePhemeRequest(req *domain.PhemeRequest) error {
	if req == nil {
		return ErrValidation
	}
	if strings.TrimSpace(req.Category) == "" || strings.TrimSpace(req.Text) == "" || req.UserID == 0 {
		return ErrValidation
	}
	return nil
}

// Create stores a new pheme. When the requested wall owner is not the author,
// the two must be friends.
func (s *phemeService) Create(ctx context.Context, authorID uint, req *domain.PhemeRequest) (*domain.Pheme, error) {
	l := pkglog.Ctx(ctx)

	if err := validatePhemeRequest(req); err != nil {
		return nil, err
	}

	ownerID := req.UserID
	if ownerID != authorID {
		if _, err := s.users.GetByID(ctx, ownerID); err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return nil, ErrInvalidTarget
			}
			l.Error().Err(err).Uint(pkglog.FieldTargetID, ownerID).Msg("failed to look up wall owner")
			return nil, err
		}
		friends, err := s.graph.AreFriends(ctx, authorID, ownerID)
		if err != nil {
			l.Error().Err(err).Uint(pkglog.FieldTargetID, ownerID).Msg("failed to check friendship")
			return nil, err
		}
		if !friends {
			return nil, ErrInvalidTarget
		}
	}

	pheme := &domain.Pheme{
		OwnerID:    ownerID,
		AuthorID:   authorID,
		Visibility: domain.Visibility(req.Visibility),
		Category:   req.Category,
		Text:       req.Text,
	}
	if err := s.phemes.Create(ctx, pheme); err != nil {
		l.Error().Err(err).Uint(pkglog.FieldUserID, authorID).Msg("failed to create pheme")
		return nil, err
	}

	return pheme, nil
}

// Update rewrites a pheme's visibility, category and text. Only the author may
// update; the wall owner cannot be changed after the fact.
func (s *phemeService) Update(ctx context.Context, callerID, phemeID uint, req *domain.PhemeRequest) (*domain.Pheme, error) {
	l := pkglog.Ctx(ctx)

	if err := validatePhemeRequest(req); err != nil {
		return nil, err
	}

	current, err := s.phemes.GetByID(ctx, phemeID)
	if err != nil {
		if errors.Is(err, repository.ErrPhemeNotFound) {
			return nil, ErrNotFoundOrForbidden
		}
		l.Error().Err(err).Uint(pkglog.FieldPhemeID, phemeID).Msg("failed to load pheme for update")
		return nil, err
	}
	if current.AuthorID != callerID {
		return nil, ErrNotFoundOrForbidden
	}

	current.Visibility = domain.Visibility(req.Visibility)
	current.Category = req.Category
	current.Text = req.Text

	if err := s.phemes.Update(ctx, current); err != nil {
		if errors.Is(err, repository.ErrPhemeNotFound) {
			return nil, ErrNotFoundOrForbidden
		}
		l.Error().Err(err).Uint(pkglog.FieldPhemeID, phemeID).Msg("failed to update pheme")
		return nil, err
	}

	return current, nil
}

// Get returns a single pheme if the caller's relation to its owner clears the
// pheme's visibility tier.
func (s *phemeService) Get(ctx context.Context, callerID, phemeID uint) (*domain.Pheme, error) {
	l := pkglog.Ctx(ctx)

	pheme, err := s.phemes.GetByID(ctx, phemeID)
	if err != nil {
		if errors.Is(err, repository.ErrPhemeNotFound) {
			return nil, ErrNotFoundOrForbidden
		}
		l.Error().Err(err).Uint(pkglog.FieldPhemeID, phemeID).Msg("failed to load pheme")
		return nil, err
	}

	rel, err := s.relationTo(ctx, callerID, pheme.OwnerID)
	if err != nil {
		return nil, err
	}
	if !pheme.Visibility.ReadableBy(rel) {
		return nil, ErrNotFoundOrForbidden
	}

	return pheme, nil
}

// Delete removes a pheme. Only the wall owner may delete, so a user can clear
// posts friends left on their wall.
func (s *phemeService) Delete(ctx context.Context, callerID, phemeID uint) (*domain.Pheme, error) {
	l := pkglog.Ctx(ctx)

	pheme, err := s.phemes.GetByID(ctx, phemeID)
	if err != nil {
		if errors.Is(err, repository.ErrPhemeNotFound) {
			return nil, ErrNotFoundOrForbidden
		}
		l.Error().Err(err).Uint(pkglog.FieldPhemeID, phemeID).Msg("failed to load pheme for delete")
		return nil, err
	}
	if pheme.OwnerID != callerID {
		return nil, ErrNotFoundOrForbidden
	}

	if err := s.phemes.Delete(ctx, phemeID); err != nil {
		if errors.Is(err, repository.ErrPhemeNotFound) {
			return nil, ErrNotFoundOrForbidden
		}
		l.Error().Err(err).Uint(pkglog.FieldPhemeID, phemeID).Msg("failed to delete pheme")
		return nil, err
	}

	return pheme, nil
}

// ListMine returns every pheme on the caller's wall regardless of visibility.
func (s *phemeService) ListMine(ctx context.Context, callerID uint) ([]domain.Pheme, error) {
	return s.phemes.ListByOwner(ctx, callerID, domain.VisibilityPrivate)
}

// ListUser returns the target's phemes filtered down to the tiers the caller's
// relation grants.
func (s *phemeService) ListUser(ctx context.Context, callerID, targetID uint) ([]domain.Pheme, error) {
	if _, err := s.users.GetByID(ctx, targetID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidTarget
		}
		return nil, err
	}

	rel, err := s.relationTo(ctx, callerID, targetID)
	if err != nil {
		return nil, err
	}
	return s.phemes.ListByOwner(ctx, targetID, domain.VisibilityFloor(rel))
}

// Feed merges the caller's own wall, friends' protected-and-up phemes and
// followers' public phemes, newest first.
func (s *phemeService) Feed(ctx context.Context, callerID uint) ([]domain.Pheme, error) {
	l := pkglog.Ctx(ctx)

	var own, friendPhemes, followerPhemes []domain.Pheme

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		own, err = s.phemes.ListByOwner(gctx, callerID, domain.VisibilityPrivate)
		return err
	})
	g.Go(func() error {
		friendIDs, err := s.graph.FriendIDs(gctx, callerID)
		if err != nil {
			return err
		}
		friendPhemes, err = s.phemes.ListByOwners(gctx, friendIDs, domain.VisibilityProtected)
		return err
	})
	g.Go(func() error {
		followerIDs, err := s.graph.FollowerIDs(gctx, callerID)
		if err != nil {
			return err
		}
		followerPhemes, err = s.phemes.ListByOwners(gctx, followerIDs, domain.VisibilityPublic)
		return err
	})
	if err := g.Wait(); err != nil {
		l.Error().Err(err).Uint(pkglog.FieldUserID, callerID).Msg("failed to assemble feed")
		return nil, err
	}

	merged := make([]domain.Pheme, 0, len(own)+len(friendPhemes)+len(followerPhemes))
	merged = append(merged, own...)
	merged = append(merged, friendPhemes...)

	// A user can be both friend and follower; drop phemes already included
	// through the friend branch.
	seen := make(map[uint]struct{}, len(merged))
	for _, p := range merged {
		seen[p.ID] = struct{}{}
	}
	for _, p := range followerPhemes {
		if _, ok := seen[p.ID]; !ok {
			merged = append(merged, p)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].CreatedAt.Equal(merged[j].CreatedAt) {
			return merged[i].ID > merged[j].ID
		}
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})

	return merged, nil
}

// relationTo resolves the caller's strongest relation to the owner.
func (s *phemeService) relationTo(ctx context.Context, callerID, ownerID uint) (domain.Relation, error) {
	if callerID == ownerID {
		return domain.RelationOwner, nil
	}

	friends, err := s.graph.AreFriends(ctx, callerID, ownerID)
	if err != nil {
		return domain.RelationNone, err
	}
	if friends {
		return domain.RelationFriend, nil
	}

	followerIDs, err := s.graph.FollowerIDs(ctx, ownerID)
	if err != nil {
		return domain.RelationNone, err
	}
	for _, id := range followerIDs {
		if id == callerID {
			return domain.RelationFollower, nil
		}
	}

	return domain.RelationNone, nil
}

// Ensure interface is satisfied at compile time.
var _ PhemeService = (*phemeService)(nil)
