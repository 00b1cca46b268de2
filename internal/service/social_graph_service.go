package service

import (
	"context"
	"errors"

	"github.com/pheme-social/pheme-service/internal/repository"
	pkglog "github.com/pheme-social/pheme-service/pkg/log"
)

// socialGraphService implements SocialGraphService.
type socialGraphService struct {
	graph repository.GraphRepository
	users repository.UserRepository
}

// NewSocialGraphService creates a new SocialGraphService instance.
func NewSocialGraphService(graph repository.GraphRepository, users repository.UserRepository) SocialGraphService {
	return &socialGraphService{
		graph: graph,
		users: users,
	}
}

// checkTarget rejects self-relations before touching the database, then
// verifies the target exists. Both failures map to the same error so a caller
// cannot probe for valid user IDs.
func (s *socialGraphService) checkTarget(ctx context.Context, selfID, targetID uint) error {
	if selfID == targetID {
		return ErrInvalidTarget
	}
	if _, err := s.users.GetByID(ctx, targetID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrInvalidTarget
		}
		return err
	}
	return nil
}

// AddFriend creates the symmetric friendship edge. Re-adding an existing
// friend succeeds without effect.
func (s *socialGraphService) AddFriend(ctx context.Context, selfID, targetID uint) error {
	l := pkglog.Ctx(ctx)

	if err := s.checkTarget(ctx, selfID, targetID); err != nil {
		return err
	}

	if err := s.graph.AddFriend(ctx, selfID, targetID); err != nil {
		l.Error().Err(err).
			Uint(pkglog.FieldUserID, selfID).
			Uint(pkglog.FieldTargetID, targetID).
			Msg("failed to add friend")
		return err
	}

	return nil
}

// RemoveFriend removes the friendship edge. Removing an edge that does not
// exist is a no-op, not an error.
func (s *socialGraphService) RemoveFriend(ctx context.Context, selfID, targetID uint) error {
	l := pkglog.Ctx(ctx)

	if err := s.checkTarget(ctx, selfID, targetID); err != nil {
		return err
	}

	if _, err := s.graph.RemoveFriend(ctx, selfID, targetID); err != nil {
		l.Error().Err(err).
			Uint(pkglog.FieldUserID, selfID).
			Uint(pkglog.FieldTargetID, targetID).
			Msg("failed to remove friend")
		return err
	}

	return nil
}

// AddFollower records the target as a follower of the caller.
func (s *socialGraphService) AddFollower(ctx context.Context, selfID, targetID uint) error {
	l := pkglog.Ctx(ctx)

	if err := s.checkTarget(ctx, selfID, targetID); err != nil {
		return err
	}

	if err := s.graph.AddFollower(ctx, targetID, selfID); err != nil {
		l.Error().Err(err).
			Uint(pkglog.FieldUserID, selfID).
			Uint(pkglog.FieldTargetID, targetID).
			Msg("failed to add follower")
		return err
	}

	return nil
}

// RemoveFollower removes the target from the caller's followers.
func (s *socialGraphService) RemoveFollower(ctx context.Context, selfID, targetID uint) error {
	l := pkglog.Ctx(ctx)

	if err := s.checkTarget(ctx, selfID, targetID); err != nil {
		return err
	}

	if _, err := s.graph.RemoveFollower(ctx, targetID, selfID); err != nil {
		l.Error().Err(err).
			Uint(pkglog.FieldUserID, selfID).
			Uint(pkglog.FieldTargetID, targetID).
			Msg("failed to remove follower")
		return err
	}

	return nil
}

// Ensure interface is satisfied at compile time.
var _ SocialGraphService = (*socialGraphService)(nil)
